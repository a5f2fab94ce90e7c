package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appcatalog "github.com/moviecatalog/backend/internal/application/catalog"
)

// MovieHandler proxies read-only lookups to the external movie catalog
type MovieHandler struct {
	BaseHandler
	service *appcatalog.MovieService
}

// NewMovieHandler creates a new movie handler
func NewMovieHandler(service *appcatalog.MovieService) *MovieHandler {
	return &MovieHandler{service: service}
}

// List returns a curated category page
//
// @ID           listMovies
// @Summary      List movies
// @Description  Return a page of a curated catalog feed
// @Tags         movies
// @Produce      json
// @Param        category query string false "Feed" Enums(popular, now_playing, upcoming, top_rated) default(popular)
// @Param        page query int false "Page" minimum(1) maximum(500) default(1)
// @Success      200 {object} catalog.Page
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /api/movies [get]
func (h *MovieHandler) List(c *gin.Context) {
	page, err := h.service.List(c.Request.Context(), c.Query("category"), c.Query("page"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Search looks movies up by title
//
// @ID           searchMovies
// @Summary      Search movies
// @Description  Look movies up by title
// @Tags         movies
// @Produce      json
// @Param        query query string true "Title to search for"
// @Param        page query int false "Page" minimum(1) maximum(500) default(1)
// @Success      200 {object} catalog.Page
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /api/movies/search [get]
func (h *MovieHandler) Search(c *gin.Context) {
	page, err := h.service.Search(c.Request.Context(), c.Query("query"), c.Query("page"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Detail returns one movie
//
// @ID           getMovie
// @Summary      Movie detail
// @Description  Return the full catalog record of one movie
// @Tags         movies
// @Produce      json
// @Param        id path string true "Catalog movie id"
// @Success      200 {object} catalog.MovieDetail
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /api/movies/{id} [get]
func (h *MovieHandler) Detail(c *gin.Context) {
	movie, err := h.service.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, movie)
}
