package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appcollection "github.com/moviecatalog/backend/internal/application/collection"
	"github.com/moviecatalog/backend/internal/interfaces/http/dto"
)

// FavoriteHandler handles the favorites collection
type FavoriteHandler struct {
	BaseHandler
	service      *appcollection.FavoriteService
	imageBaseURL string
}

// NewFavoriteHandler creates a new favorite handler
func NewFavoriteHandler(service *appcollection.FavoriteService, imageBaseURL string) *FavoriteHandler {
	return &FavoriteHandler{service: service, imageBaseURL: imageBaseURL}
}

// Add stores a movie in the session user's favorites
//
// @ID           addFavorite
// @Summary      Add favorite
// @Description  Store a movie in the favorites of userId, which must be the session user
// @Tags         favorite
// @Accept       json
// @Produce      json
// @Param        request body AddEntryRequest true "Owner and movie"
// @Success      200 {object} EntryResponse
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /api/favorite [post]
func (h *FavoriteHandler) Add(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var req AddEntryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	movie := req.Movie.ToMovie(h.imageBaseURL)
	favorite, err := h.service.Add(c.Request.Context(), actor, appcollection.AddEntryInput{
		UserID: req.UserID,
		Movie:  &movie,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEntryResponse(&favorite.Entry))
}

// List returns the favorites of the user named by the userId query
//
// @ID           listFavorites
// @Summary      List favorites
// @Description  List the favorites of userId, oldest first
// @Tags         favorite
// @Produce      json
// @Param        userId query string true "Owner id" format(uuid)
// @Success      200 {array} EntryResponse
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /api/favorite [get]
func (h *FavoriteHandler) List(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}

	favorites, err := h.service.List(c.Request.Context(), actor, c.Query("userId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp := make([]EntryResponse, 0, len(favorites))
	for _, f := range favorites {
		resp = append(resp, toEntryResponse(&f.Entry))
	}
	c.JSON(http.StatusOK, resp)
}

// Delete removes a favorite by its record id
//
// @ID           deleteFavorite
// @Summary      Delete favorite
// @Description  Delete one favorite record. movieId is the record id, not the catalog id.
// @Tags         favorite
// @Accept       json
// @Produce      json
// @Param        request body DeleteFavoriteRequest true "Favorite record id"
// @Success      200 {object} dto.MessageResponse
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /api/favorite [delete]
func (h *FavoriteHandler) Delete(c *gin.Context) {
	actor, ok := h.Actor(c)
	if !ok {
		return
	}
	var req DeleteFavoriteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, string(req.MovieID)); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Movie deleted successfully"})
}
