package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tapfolio/backend/internal/models"
	"github.com/tapfolio/backend/internal/service"
	"github.com/tapfolio/backend/internal/types"
)

// AdminHandler is the console surface: list/filter/paginate profiles,
// verify, edit, add and delete them, read insights, and stream live table
// changes for mirroring.
type AdminHandler struct {
	profiles *service.ProfileService
	insights *service.InsightsService
	changes  service.ChangeSubscriber
}

func NewAdminHandler(profiles *service.ProfileService, insights *service.InsightsService, changes service.ChangeSubscriber) *AdminHandler {
	return &AdminHandler{
		profiles: profiles,
		insights: insights,
		changes:  changes,
	}
}

func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	{
		admin.GET("/profiles", h.ListProfiles)
		admin.POST("/profiles", h.CreateProfile)
		admin.PUT("/profiles/:id", h.UpdateProfile)
		admin.POST("/profiles/:id/verify", h.VerifyProfile)
		admin.DELETE("/profiles/:id", h.DeleteProfile)
		admin.GET("/profiles/:id/insights", h.GetInsights)
		admin.GET("/profiles/:id/insights/live", h.StreamInsights)
		admin.GET("/profiles/events", h.StreamProfileEvents)
	}
}

// ListProfiles returns the filtered, paginated verified/pending partitions.
// Query parameters: search, from, to (RFC 3339 or date-only), page.
func (h *AdminHandler) ListProfiles(c *gin.Context) {
	filter := types.ProfileFilter{
		Search: c.Query("search"),
		Page:   1,
	}
	if p, err := strconv.Atoi(c.Query("page")); err == nil {
		filter.Page = p
	}

	from, ok := parseTimeParam(c.Query("from"), false)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
		return
	}
	filter.From = from

	to, ok := parseTimeParam(c.Query("to"), true)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
		return
	}
	filter.To = to

	listing, err := h.profiles.ListProfiles(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list profiles"})
		return
	}

	c.JSON(http.StatusOK, listing)
}

func (h *AdminHandler) CreateProfile(c *gin.Context) {
	var req types.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	profile, err := profileFromCreateRequest(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create profile"})
		return
	}

	if err := h.profiles.CreateProfile(c.Request.Context(), profile); err != nil {
		if errors.Is(err, service.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create profile"})
		return
	}

	c.JSON(http.StatusCreated, profile)
}

func (h *AdminHandler) UpdateProfile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}

	var req types.AdminUpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	profile, err := h.profiles.AdminUpdateProfile(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		if errors.Is(err, service.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// VerifyProfile promotes a pending profile. Idempotent.
func (h *AdminHandler) VerifyProfile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}

	profile, err := h.profiles.Verify(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// DeleteProfile removes a profile and its click events. Fail-closed: any
// failure leaves both intact and reports the error.
func (h *AdminHandler) DeleteProfile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}

	if err := h.profiles.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "profile deleted"})
}

func (h *AdminHandler) GetInsights(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}

	insights, err := h.insights.ComputeInsights(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute insights"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"insights": insights})
}

// StreamInsights pushes a recomputed insights summary over SSE whenever
// clicks land for the profile. The subscription ends with the request.
func (h *AdminHandler) StreamInsights(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}

	updates, err := h.insights.Watch(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to watch insights"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case update, ok := <-updates:
			if !ok {
				return false
			}
			if update.Err != nil {
				c.SSEvent("error", gin.H{"error": "failed to compute insights"})
				return true
			}
			c.SSEvent("insights", update.Insights)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// StreamProfileEvents pushes profile table changes over SSE so the console
// can mirror its list live. The subscription is released when the client
// disconnects.
func (h *AdminHandler) StreamProfileEvents(c *gin.Context) {
	sub, err := h.changes.Subscribe(c.Request.Context(), models.ProfileTable)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to subscribe to changes"})
		return
	}
	defer func() { _ = sub.Close() }()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-sub.C:
			if !ok {
				return false
			}
			c.SSEvent("change", ev)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// parseTimeParam accepts RFC 3339 timestamps or bare dates. A bare "to"
// date is pushed to the end of the day so the range stays inclusive.
func parseTimeParam(value string, endOfDay bool) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, true
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return &t, true
	}
	return nil, false
}

func profileFromCreateRequest(req *types.CreateProfileRequest) (*models.Profile, error) {
	hash, err := service.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	return &models.Profile{
		Name:            req.Name,
		Email:           req.Email,
		PasswordHash:    hash,
		Designation:     req.Designation,
		Phone:           req.Phone,
		Whatsapp:        req.Whatsapp,
		Website:         req.Website,
		Facebook:        req.Facebook,
		Instagram:       req.Instagram,
		Youtube:         req.Youtube,
		Linkedin:        req.Linkedin,
		GoogleReviews:   req.GoogleReviews,
		Upi:             req.Upi,
		Maps:            req.Maps,
		DriveLink:       req.DriveLink,
		Avatar:          req.Avatar,
		BackgroundImage: req.BackgroundImage,
		IsVerified:      req.IsVerified,
	}, nil
}
