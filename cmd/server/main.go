package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"eventpay/internal/app"
	"eventpay/internal/config"
	"eventpay/internal/gateway"
	"eventpay/internal/handler"
	internalRedis "eventpay/internal/redis"
	"eventpay/internal/repository/postgres"
	"eventpay/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Initialize Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	statusCache := internalRedis.NewStatusCache(redisClient)

	// Initialize repositories.
	orderRepo := postgres.NewOrderRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db)
	ticketRepo := postgres.NewTicketRepository(db)

	// Gateway contract.
	gatewayCfg := gateway.Config{
		BaseURL:          cfg.Gateway.BaseURL,
		APIKey:           cfg.Gateway.APIKey,
		Salt:             cfg.Gateway.Salt,
		Currency:         cfg.Gateway.Currency,
		ReturnURL:        cfg.Gateway.ReturnURL,
		ReturnURLFailure: cfg.Gateway.ReturnURLFailure,
		ReturnURLCancel:  cfg.Gateway.ReturnURLCancel,
	}
	gatewayClient := gateway.NewClient(gatewayCfg)

	minAmount, err := decimal.NewFromString(cfg.Gateway.MinAmount)
	if err != nil {
		log.Fatalf("invalid GATEWAY_MIN_AMOUNT %q: %v", cfg.Gateway.MinAmount, err)
	}

	// Initialize services.
	ticketService := service.NewTicketService(ticketRepo)
	mailer := service.NewSMTPMailer(cfg.SMTP)
	dispatcher := service.NewDispatcher(ticketService, mailer)
	reconcileService := service.NewReconcileService(orderRepo, registrationRepo, lockStore, statusCache, dispatcher, cfg.Gateway.Salt)
	checkoutService := service.NewCheckoutService(registrationRepo, orderRepo, gatewayClient, gatewayCfg, minAmount)

	// Initialize handlers.
	checkoutHandler := handler.NewCheckoutHandler(checkoutService)
	callbackHandler := handler.NewCallbackHandler(reconcileService, cfg.Gateway.SuccessPageURL, cfg.Gateway.FailurePageURL)
	webhookHandler := handler.NewWebhookHandler(reconcileService)
	adminHandler := handler.NewAdminHandler(reconcileService, cfg.Gateway.Currency)
	registrationHandler := handler.NewRegistrationHandler(registrationRepo, statusCache)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		CheckoutHandler:     checkoutHandler,
		CallbackHandler:     callbackHandler,
		WebhookHandler:      webhookHandler,
		AdminHandler:        adminHandler,
		RegistrationHandler: registrationHandler,
		RedisClient:         redisClient,
		NewRelicApp:         nrApp,
		AdminToken:          cfg.Admin.Token,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
