package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"eventpay/internal/handler"
	"eventpay/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	CheckoutHandler     *handler.CheckoutHandler
	CallbackHandler     *handler.CallbackHandler
	WebhookHandler      *handler.WebhookHandler
	AdminHandler        *handler.AdminHandler
	RegistrationHandler *handler.RegistrationHandler
	RedisClient         *redis.Client
	NewRelicApp         *newrelic.Application
	AdminToken          string
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Payment initiation; idempotency guards double-clicked checkouts.
		payments := v1.Group("/payments")
		payments.POST("", middleware.Idempotency(deps.RedisClient), deps.CheckoutHandler.StartPayment)

		// Gateway callbacks. The engine's own duplicate handling is the
		// dedup here; no idempotency middleware on these.
		payments.GET("/return", deps.CallbackHandler.Return)
		payments.POST("/return", deps.CallbackHandler.Return)
		payments.POST("/webhook", deps.WebhookHandler.Notify)

		// Registration status readback.
		registrations := v1.Group("/registrations")
		registrations.GET("/:id/status", deps.RegistrationHandler.Status)

		// Manual admin decisions.
		admin := v1.Group("/admin")
		admin.Use(middleware.AdminAuth(deps.AdminToken))
		admin.POST("/registrations/:id/decision", middleware.Idempotency(deps.RedisClient), deps.AdminHandler.Decide)
	}

	return router
}
