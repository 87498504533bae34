package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/tapfolio/backend/internal/service"
)

// QRHandler renders the share QR for a card: a PNG encoding the public
// card URL.
type QRHandler struct {
	profiles      ProfileResolver
	publicBaseURL string
}

func NewQRHandler(profiles ProfileResolver, publicBaseURL string) *QRHandler {
	return &QRHandler{
		profiles:      profiles,
		publicBaseURL: publicBaseURL,
	}
}

func (h *QRHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/cards/:id/qr", h.GetCardQR)
}

func (h *QRHandler) GetCardQR(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
		return
	}

	// Only existing cards get a QR.
	if _, err := h.profiles.GetProfile(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "card lookup failed"})
		return
	}

	cardURL := fmt.Sprintf("%s/card/%s", h.publicBaseURL, id)
	png, err := qrcode.Encode(cardURL, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate QR code"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
