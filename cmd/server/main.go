package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"tiffinhub/internal/config"
	"tiffinhub/internal/handlers"
	"tiffinhub/internal/middleware"
	"tiffinhub/internal/repositories/mongodb"
	"tiffinhub/internal/services"
	"tiffinhub/pkg/cache"
	"tiffinhub/pkg/database"
	"tiffinhub/pkg/logger"
	"tiffinhub/pkg/maps"
	"tiffinhub/pkg/payment"
	"tiffinhub/pkg/sms"
	"tiffinhub/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: "json",
		Output: "stdout",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer db.Close()

	if err := database.NewMigrator(db.Database).Up(); err != nil {
		appLogger.WithError(err).Fatal("Failed to run migrations")
	}

	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		IdleTimeout:  cfg.Redis.IdleTimeout,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisCache.Close()

	paymentProvider := buildPaymentProvider(cfg.Payment)
	smsProvider, err := buildSMSProvider(cfg.SMS)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize SMS provider")
	}
	geocoder, err := maps.NewGoogleMapsProvider(cfg.Maps.GoogleMaps.APIKey)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize maps provider")
	}

	// Repositories
	userRepo := mongodb.NewUserRepository(db.Database)
	zoneRepo := mongodb.NewZoneRepository(db.Database, redisCache)
	planRepo := mongodb.NewPlanRepository(db.Database, redisCache)
	promoRepo := mongodb.NewPromotionRepository(db.Database, redisCache)
	vendorRepo := mongodb.NewVendorRepository(db.Database)
	subscriptionRepo := mongodb.NewUserSubscriptionRepository(db.Database)
	assignmentRepo := mongodb.NewVendorAssignmentRepository(db.Database)
	transactionRepo := mongodb.NewTransactionRepository(db.Database)
	workflowRepo := mongodb.NewPurchaseWorkflowRepository(db.Database)
	reviewRepo := mongodb.NewReviewRepository(db.Database)

	// Services
	notificationService := services.NewNotificationService(smsProvider, cfg.SMTP, appLogger)
	zoneService := services.NewZoneService(zoneRepo, geocoder, appLogger)
	planService := services.NewPlanService(planRepo, appLogger)
	promotionService := services.NewPromotionService(promoRepo, transactionRepo, appLogger)
	assignmentService := services.NewAssignmentService(assignmentRepo, subscriptionRepo, vendorRepo, userRepo, notificationService, appLogger)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, userRepo, assignmentService, notificationService, appLogger)
	vendorService := services.NewVendorService(vendorRepo, subscriptionRepo, reviewRepo, appLogger)
	reviewService := services.NewReviewService(reviewRepo, subscriptionRepo, vendorService, appLogger)
	authService := services.NewAuthService(userRepo, cfg.Security.JWTSecret, appLogger)
	purchaseService := services.NewPurchaseService(
		paymentProvider,
		cfg.Payment,
		transactionRepo,
		workflowRepo,
		subscriptionRepo,
		planRepo,
		userRepo,
		zoneService,
		promotionService,
		assignmentService,
		notificationService,
		redisCache,
		appLogger,
	)

	// Pick up purchases interrupted mid-workflow before taking traffic.
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	if resumed, err := purchaseService.ResumeIncomplete(startupCtx); err != nil {
		appLogger.WithError(err).Warn("Failed to resume incomplete purchases")
	} else if resumed > 0 {
		appLogger.WithField("resumed", resumed).Info("Resumed incomplete purchases")
	}
	cancelStartup()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(appLogger))

	routes.Setup(router, &routes.Handlers{
		Auth:         handlers.NewAuthHandler(authService),
		Zone:         handlers.NewZoneHandler(zoneService),
		Catalog:      handlers.NewCatalogHandler(planService, promotionService),
		Purchase:     handlers.NewPurchaseHandler(purchaseService),
		Subscription: handlers.NewSubscriptionHandler(subscriptionService, reviewService),
		Assignment:   handlers.NewAssignmentHandler(assignmentService),
		Vendor:       handlers.NewVendorHandler(vendorService, reviewService),
	}, cfg.Security.JWTSecret)

	router.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		health := gin.H{"status": "healthy", "version": cfg.App.Version}
		if err := db.Ping(); err != nil {
			status = http.StatusServiceUnavailable
			health["status"] = "degraded"
			health["mongodb"] = err.Error()
		}
		c.JSON(status, health)
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		appLogger.WithField("port", cfg.App.Port).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Server failed")
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("Forced shutdown")
	}
}

func buildPaymentProvider(cfg *config.PaymentConfig) payment.PaymentProvider {
	switch cfg.DefaultProvider {
	case "stripe":
		return payment.NewStripeProvider(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)
	default:
		return payment.NewRazorpayProvider(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.Razorpay.Webhook)
	}
}

func buildSMSProvider(cfg *config.SMSConfig) (sms.SMSProvider, error) {
	switch cfg.Provider {
	case "aws":
		return sms.NewAWSSNSProvider(cfg.AWS.Region)
	default:
		return sms.NewTwilioProvider(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber, cfg.Twilio.WhatsAppNumber), nil
	}
}
