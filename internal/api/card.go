package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tapfolio/backend/internal/models"
	"github.com/tapfolio/backend/internal/service"
)

// ProfileResolver looks up one profile for public rendering.
type ProfileResolver interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

// ClickSink accepts click events, best-effort.
type ClickSink interface {
	Record(profileID uuid.UUID, linkType, linkValue string)
}

// CardResponse is the public view of a profile: identity plus only the
// links that are actually set. Login and role state never leave the server.
type CardResponse struct {
	ID              uuid.UUID         `json:"id"`
	Name            string            `json:"name"`
	Designation     string            `json:"designation"`
	Avatar          string            `json:"avatar"`
	BackgroundImage string            `json:"background_image"`
	Links           map[string]string `json:"links"`
}

// CardHandler is the public card surface: resolve a profile by ID and log
// link activations. No authentication.
type CardHandler struct {
	profiles ProfileResolver
	clicks   ClickSink
}

func NewCardHandler(profiles ProfileResolver, clicks ClickSink) *CardHandler {
	return &CardHandler{
		profiles: profiles,
		clicks:   clicks,
	}
}

// RegisterRoutes mounts the card routes. clickLimits apply to the click
// endpoint only; card views are not rate limited.
func (h *CardHandler) RegisterRoutes(router *gin.RouterGroup, clickLimits ...gin.HandlerFunc) {
	cards := router.Group("/cards")
	{
		cards.GET("/:id", h.GetCard)
		cards.POST("/:id/clicks", append(clickLimits, h.RecordClick)...)
	}
}

// GetCard resolves one profile. Unverified profiles resolve too;
// verification gates the admin listing, not public visibility.
func (h *CardHandler) GetCard(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
		return
	}

	profile, err := h.profiles.GetProfile(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "card lookup failed"})
		return
	}

	c.JSON(http.StatusOK, publicCard(profile))
}

// RecordClick logs one link activation. The insert is queued and the
// response never waits on it: logging failure must not block the visitor's
// navigation.
func (h *CardHandler) RecordClick(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
		return
	}

	var req struct {
		LinkType string `json:"link_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if !models.IsKnownLinkType(req.LinkType) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown link type"})
		return
	}

	profile, err := h.profiles.GetProfile(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "card lookup failed"})
		return
	}

	// Absent links are never rendered, so they cannot be clicked.
	value, ok := profile.LinkValue(req.LinkType)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "link is not set on this card"})
		return
	}

	h.clicks.Record(profile.ID, req.LinkType, value)
	c.JSON(http.StatusAccepted, gin.H{"message": "click recorded"})
}

func publicCard(p *models.Profile) CardResponse {
	links := make(map[string]string)
	for _, t := range models.KnownLinkTypes {
		if v, ok := p.LinkValue(t); ok {
			links[t] = v
		}
	}
	return CardResponse{
		ID:              p.ID,
		Name:            p.Name,
		Designation:     p.Designation,
		Avatar:          p.Avatar,
		BackgroundImage: p.BackgroundImage,
		Links:           links,
	}
}
