package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tapfolio/backend/internal/service"
)

// ThemeHandler serves the background theme catalogue used by the profile
// editor.
type ThemeHandler struct {
	themes *service.ThemeService
}

func NewThemeHandler(themes *service.ThemeService) *ThemeHandler {
	return &ThemeHandler{themes: themes}
}

func (h *ThemeHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/themes", h.ListThemes)
}

func (h *ThemeHandler) ListThemes(c *gin.Context) {
	themes, err := h.themes.ListThemes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list themes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"themes": themes})
}
