package handler

import "time"

// CredentialsRequest is the body of register and login
type CredentialsRequest struct {
	Email    string `json:"email" binding:"required,max=254"`
	Password string `json:"password" binding:"required,max=128"`
}

// SessionResponse is returned after register and login
type SessionResponse struct {
	Message   string    `json:"message"`
	UserID    string    `json:"userId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CurrentUserResponse identifies the session user
type CurrentUserResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}
