// Package http assembles the gin router of the admin API.
package http

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/meetscribe/meetscribe/internal/infrastructure/auth"
	"github.com/meetscribe/meetscribe/internal/infrastructure/ratelimit"
	"github.com/meetscribe/meetscribe/internal/interfaces/http/handlers"
	"github.com/meetscribe/meetscribe/internal/interfaces/http/middleware"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
)

// Dependencies are the constructed handlers and middleware inputs for the
// router.
type Dependencies struct {
	AuthHandler         *handlers.AuthHandler
	UserHandler         *handlers.UserHandler
	ProfileHandler      *handlers.ProfileHandler
	MeetingHandler      *handlers.MeetingHandler
	PlanHandler         *handlers.PlanHandler
	BillingHandler      *handlers.BillingHandler
	EmailSettingHandler *handlers.EmailSettingHandler
	SyncHandler         *handlers.SyncHandler

	JWTService     *auth.JWTService
	RateLimiter    ratelimit.Limiter
	AllowedOrigins []string
	Mode           string
	Logger         logger.Interface
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(deps Dependencies) *gin.Engine {
	if deps.Mode != "" {
		gin.SetMode(deps.Mode)
	}

	router := gin.New()
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.RequestLogging(deps.Logger))
	router.Use(middleware.CORS(deps.AllowedOrigins))

	authMW := middleware.NewAuthMiddleware(deps.JWTService, deps.Logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")

	// Auth routes are rate limited per client IP.
	authRoutes := api.Group("/auth")
	if deps.RateLimiter != nil {
		authRoutes.Use(middleware.RateLimit(deps.RateLimiter, 10, time.Minute, deps.Logger))
	}
	{
		authRoutes.POST("/register", deps.AuthHandler.Register)
		authRoutes.POST("/login", deps.AuthHandler.Login)
		authRoutes.GET("/validate-email", deps.AuthHandler.ValidateEmail)
	}

	// The webhook authenticates itself via its signature header.
	api.POST("/billing/webhook", deps.BillingHandler.Webhook)

	// Authenticated routes.
	authed := api.Group("")
	authed.Use(authMW.RequireAuth())
	{
		authed.GET("/auth/me", deps.AuthHandler.Me)
		authed.POST("/auth/change-password", deps.AuthHandler.ChangePassword)

		authed.GET("/profiles", deps.ProfileHandler.List)
		authed.GET("/profiles/:id", deps.ProfileHandler.Get)

		authed.GET("/meetings", deps.MeetingHandler.List)
		authed.GET("/meetings/:id", deps.MeetingHandler.Get)
		authed.GET("/meetings/:id/transcripts", deps.MeetingHandler.ListTranscripts)
		authed.GET("/meetings/:id/chat-messages", deps.MeetingHandler.ListChatMessages)
		authed.GET("/meetings/:id/summary", deps.MeetingHandler.GetSummary)
		authed.PATCH("/meetings/:id/summary", deps.MeetingHandler.UpdateSummaryNotes)

		authed.GET("/plans", deps.PlanHandler.ListActive)

		authed.POST("/billing/checkout", deps.BillingHandler.CreateCheckout)
		authed.GET("/billing/subscriptions/:userId", deps.BillingHandler.GetSubscription)
	}

	// Admin routes.
	admin := api.Group("/admin")
	admin.Use(authMW.RequireAuth(), authMW.RequireAdmin())
	{
		admin.GET("/stats", deps.MeetingHandler.GetStats)

		admin.GET("/users", deps.UserHandler.List)
		admin.GET("/users/:id", deps.UserHandler.Get)
		admin.PUT("/users/:id", deps.UserHandler.Update)
		admin.DELETE("/users/:id", deps.UserHandler.Delete)

		admin.POST("/profiles", deps.ProfileHandler.Create)
		admin.PUT("/profiles/:id", deps.ProfileHandler.Update)
		admin.DELETE("/profiles/:id", deps.ProfileHandler.Delete)

		admin.POST("/meetings", deps.MeetingHandler.Create)
		admin.PUT("/meetings/:id", deps.MeetingHandler.Update)
		admin.DELETE("/meetings/:id", deps.MeetingHandler.Delete)
		admin.DELETE("/meetings/:id/transcripts/:transcriptId", deps.MeetingHandler.DeleteTranscript)
		admin.DELETE("/meetings/:id/chat-messages/:messageId", deps.MeetingHandler.DeleteChatMessage)

		admin.GET("/plans", deps.PlanHandler.List)
		admin.GET("/plans/:id", deps.PlanHandler.Get)
		admin.POST("/plans", deps.PlanHandler.Create)
		admin.PUT("/plans/:id", deps.PlanHandler.Update)
		admin.DELETE("/plans/:id", deps.PlanHandler.Delete)

		admin.GET("/email-settings", deps.EmailSettingHandler.List)
		admin.GET("/email-settings/:id", deps.EmailSettingHandler.Get)
		admin.POST("/email-settings", deps.EmailSettingHandler.Create)
		admin.PUT("/email-settings/:id", deps.EmailSettingHandler.Update)
		admin.DELETE("/email-settings/:id", deps.EmailSettingHandler.Delete)

		admin.GET("/sync/status", deps.SyncHandler.GetStatus)
		admin.POST("/sync/run", deps.SyncHandler.Run)
	}

	return router
}
