package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appcollection "github.com/moviecatalog/backend/internal/application/collection"
)

// WatchlistHandler handles the watchlist collection
type WatchlistHandler struct {
	BaseHandler
	service      *appcollection.WatchlistService
	imageBaseURL string
}

// NewWatchlistHandler creates a new watchlist handler
func NewWatchlistHandler(service *appcollection.WatchlistService, imageBaseURL string) *WatchlistHandler {
	return &WatchlistHandler{service: service, imageBaseURL: imageBaseURL}
}

// Add stores a movie in the session user's watchlist
//
// @ID           addWatchlistItem
// @Summary      Add to watchlist
// @Description  Store a movie in the watchlist of userId, which must be the session user
// @Tags         watchlist
// @Accept       json
// @Produce      json
// @Param        request body AddEntryRequest true "Owner and movie"
// @Success      200 {object} EntryResponse
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /api/watchlist [post]
func (h *WatchlistHandler) Add(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var req AddEntryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	movie := req.Movie.ToMovie(h.imageBaseURL)
	item, err := h.service.Add(c.Request.Context(), actor, appcollection.AddEntryInput{
		UserID: req.UserID,
		Movie:  &movie,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEntryResponse(&item.Entry))
}

// List returns the watchlist of the user named by the userId query
//
// @ID           listWatchlist
// @Summary      List watchlist
// @Description  List the watchlist of userId, oldest first
// @Tags         watchlist
// @Produce      json
// @Param        userId query string true "Owner id" format(uuid)
// @Success      200 {array} EntryResponse
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /api/watchlist [get]
func (h *WatchlistHandler) List(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}

	items, err := h.service.List(c.Request.Context(), actor, c.Query("userId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp := make([]EntryResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toEntryResponse(&item.Entry))
	}
	c.JSON(http.StatusOK, resp)
}

// Remove deletes every watchlist entry of a movie
//
// @ID           removeWatchlistMovie
// @Summary      Remove from watchlist
// @Description  Delete every watchlist entry of the session user for a catalog movie id, with their reviews
// @Tags         watchlist
// @Accept       json
// @Produce      json
// @Param        request body RemoveWatchlistRequest true "Catalog movie id"
// @Success      200 {object} WatchlistRemovedResponse
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /api/watchlist [delete]
func (h *WatchlistHandler) Remove(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var req RemoveWatchlistRequest
	if !h.BindJSON(c, &req) {
		return
	}

	deleted, err := h.service.Remove(c.Request.Context(), actor, appcollection.RemoveWatchlistInput{
		UserID:  req.UserID,
		MovieID: string(req.MovieID),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, WatchlistRemovedResponse{
		Message: "Movie deleted successfully from watchlist",
		Deleted: deleted,
	})
}
