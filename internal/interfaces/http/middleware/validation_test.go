package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationDetails(t *testing.T) {
	type credentials struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Page     int    `json:"page" binding:"omitempty,max=500"`
	}

	SetupValidator()
	gin.SetMode(gin.TestMode)

	bind := func(t *testing.T, body string) error {
		t.Helper()
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		var req credentials
		return c.ShouldBindJSON(&req)
	}

	tests := []struct {
		name  string
		body  string
		field string
		msg   string
	}{
		{"missing email", `{"password":"secret1"}`, "email", "This field is required"},
		{"bad email", `{"email":"nope","password":"secret1"}`, "email", "Invalid email format"},
		{"short password", `{"email":"a@b.co","password":"abc"}`, "password", "Must be at least 6 characters"},
		{"page too large", `{"email":"a@b.co","password":"secret1","page":501}`, "page", "Must be at most 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details := ValidationDetails(bind(t, tt.body))
			require.Len(t, details, 1)
			assert.Equal(t, tt.field, details[0].Field)
			assert.Equal(t, tt.msg, details[0].Message)
		})
	}

	t.Run("valid input", func(t *testing.T) {
		assert.NoError(t, bind(t, `{"email":"a@b.co","password":"secret1"}`))
	})

	t.Run("non validation errors have no details", func(t *testing.T) {
		assert.Nil(t, ValidationDetails(errors.New("unexpected EOF")))
		assert.Nil(t, ValidationDetails(bind(t, `{"email":`)))
	})
}
