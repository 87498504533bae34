package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tapfolio/backend/internal/service"
	"github.com/tapfolio/backend/internal/types"
)

// UploadHandler accepts avatar and background image uploads for the
// authenticated owner, stores them in S3 and writes the public URL onto the
// profile record.
type UploadHandler struct {
	images   *service.ImageService
	profiles *service.ProfileService
}

func NewUploadHandler(images *service.ImageService, profiles *service.ProfileService) *UploadHandler {
	return &UploadHandler{
		images:   images,
		profiles: profiles,
	}
}

func (h *UploadHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	{
		profile.POST("/avatar", h.UploadAvatar)
		profile.POST("/background", h.UploadBackground)
	}
}

func (h *UploadHandler) UploadAvatar(c *gin.Context) {
	h.upload(c, service.AvatarFolder)
}

func (h *UploadHandler) UploadBackground(c *gin.Context) {
	h.upload(c, service.BackgroundFolder)
}

func (h *UploadHandler) upload(c *gin.Context, folder string) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}
	if fileHeader.Size > service.MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds the 5MB limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxUploadSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	url, err := h.images.Upload(c.Request.Context(), data, contentType, folder)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFileTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds the 5MB limit"})
		case errors.Is(err, service.ErrBadContentType):
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "please upload a jpeg, png, gif or webp image"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to upload image"})
		}
		return
	}

	// Write the URL onto the profile. If this fails the uploaded object
	// stays orphaned in the bucket.
	req := &types.UpdateProfileRequest{}
	if folder == service.AvatarFolder {
		req.Avatar = &url
	} else {
		req.BackgroundImage = &url
	}
	if _, err := h.profiles.UpdateProfile(c.Request.Context(), userID.(uuid.UUID), req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "image uploaded but profile update failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
