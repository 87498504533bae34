package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tapfolio/backend/internal/api"
	"github.com/tapfolio/backend/internal/middleware"
)

// Handlers collects every route surface the router mounts.
type Handlers struct {
	Auth    *api.AuthHandler
	Profile *api.ProfileHandler
	Upload  *api.UploadHandler
	Card    *api.CardHandler
	QR      *api.QRHandler
	Theme   *api.ThemeHandler
	Admin   *api.AdminHandler
}

// SetupRouter configures the application routes.
func SetupRouter(h Handlers, db *gorm.DB, validator middleware.TokenValidator, clickLimiter *middleware.RateLimiter) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "https://cards.tapfolio.in"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	router.GET("/health", api.HealthCheck(db))

	v1 := router.Group("/api/v1")

	// Public routes: auth, the card surface and the theme catalogue.
	h.Auth.RegisterRoutes(v1)
	h.Theme.RegisterRoutes(v1)
	h.QR.RegisterRoutes(v1)
	if clickLimiter != nil {
		h.Card.RegisterRoutes(v1, clickLimiter.RateLimitMiddleware())
	} else {
		h.Card.RegisterRoutes(v1)
	}

	// Authenticated owner routes.
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(validator))
	{
		h.Profile.RegisterRoutes(protected)
		h.Upload.RegisterRoutes(protected)
	}

	// Admin console routes.
	adminGroup := v1.Group("")
	adminGroup.Use(middleware.AuthMiddleware(validator), middleware.RequireAdmin())
	{
		h.Admin.RegisterRoutes(adminGroup)
	}

	return router
}
