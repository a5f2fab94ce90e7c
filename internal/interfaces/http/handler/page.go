package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/moviecatalog/backend/internal/interfaces/http/dto"
)

// PageHandler serves the front-end bundle. Unknown page paths get the
// application shell so client-side routing can take over.
type PageHandler struct {
	BaseHandler
	staticDir string
}

// NewPageHandler creates a page handler. An empty dir disables the bundle.
func NewPageHandler(staticDir string) *PageHandler {
	return &PageHandler{staticDir: staticDir}
}

// Shell serves index.html
func (h *PageHandler) Shell(c *gin.Context) {
	if h.staticDir == "" {
		h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, "Page not found")
		return
	}
	index := filepath.Join(h.staticDir, "index.html")
	if !isFile(index) {
		h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, "Page not found")
		return
	}
	c.File(index)
}

// Static serves bundle files and falls back to the shell. API paths and
// non-GET requests get a JSON 404.
func (h *PageHandler) Static(c *gin.Context) {
	p := c.Request.URL.Path
	if (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) ||
		p == "/api" || strings.HasPrefix(p, "/api/") {
		h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, "Route not found")
		return
	}
	if h.staticDir != "" {
		// path.Clean on a rooted path cannot climb above the static dir
		file := filepath.Join(h.staticDir, filepath.FromSlash(path.Clean("/"+p)))
		if isFile(file) {
			c.File(file)
			return
		}
	}
	h.Shell(c)
}

func isFile(name string) bool {
	info, err := os.Stat(name)
	return err == nil && !info.IsDir()
}
