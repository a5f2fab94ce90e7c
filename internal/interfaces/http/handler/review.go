package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appcollection "github.com/moviecatalog/backend/internal/application/collection"
	"github.com/moviecatalog/backend/internal/interfaces/http/dto"
)

// ReviewHandler handles reviews on watchlist entries
type ReviewHandler struct {
	BaseHandler
	service *appcollection.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(service *appcollection.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// Add reviews a watchlist entry
//
// @ID           addReview
// @Summary      Add review
// @Description  Review a watchlist entry with a rating from 1 to 5 and a comment
// @Tags         review
// @Accept       json
// @Produce      json
// @Param        request body AddReviewRequest true "Review"
// @Success      200 {object} ReviewResponse
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /api/review [post]
func (h *ReviewHandler) Add(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var req AddReviewRequest
	if !h.BindJSON(c, &req) {
		return
	}
	rating, ok := req.Rating.Int()
	if !ok {
		h.BadRequest(c, "Rating must be an integer between 1 and 5")
		return
	}

	review, err := h.service.Add(c.Request.Context(), actor, appcollection.AddReviewInput{
		UserID:      req.UserID,
		WatchlistID: req.WatchlistID,
		Rating:      &rating,
		Comment:     req.Comment,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReviewResponse(review))
}

// List returns the reviews of a watchlist entry
//
// @ID           listReviews
// @Summary      List reviews
// @Description  List the reviews of a watchlist entry with their authors' emails
// @Tags         review
// @Produce      json
// @Param        watchlistId query string true "Watchlist entry id" format(uuid)
// @Success      200 {array} ReviewResponse
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /api/review [get]
func (h *ReviewHandler) List(c *gin.Context) {
	watchlistID := c.Query("watchlistId")
	if watchlistID == "" {
		h.BadRequest(c, "WatchlistId is required")
		return
	}

	reviews, err := h.service.List(c.Request.Context(), watchlistID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		resp = append(resp, toReviewResponse(r))
	}
	c.JSON(http.StatusOK, resp)
}

// Delete removes one of the session user's reviews
//
// @ID           deleteReview
// @Summary      Delete review
// @Description  Delete a review written by the session user
// @Tags         review
// @Accept       json
// @Produce      json
// @Param        request body DeleteReviewRequest true "Review id"
// @Success      200 {object} dto.MessageResponse
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /api/review [delete]
func (h *ReviewHandler) Delete(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var req DeleteReviewRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, req.ReviewID); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Review deleted successfully"})
}
