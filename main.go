package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventory-order-service/cache"
	"inventory-order-service/controllers"
	"inventory-order-service/database"
	"inventory-order-service/kafka"
	"inventory-order-service/logger"
	"inventory-order-service/middleware"
	awspkg "inventory-order-service/pkg/aws"
	"inventory-order-service/repository"
	"inventory-order-service/routes"
	"inventory-order-service/sender"
	"inventory-order-service/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const serviceName = "inventory-order-service"

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		logger.Initialize("development").Fatal("Config load failed", zap.Error(err))
	}

	ctx := context.Background()

	awsCfg, err := awspkg.LoadAWSConfig(ctx, cfg.AWSRegion, cfg.AWSEndpoint)
	awsReady := err == nil

	var log *zap.Logger
	if cfg.CloudWatchEnabled && awsReady {
		cwWriter, cwErr := awspkg.NewCloudWatchLogsClient(ctx, awsCfg, cfg.LogGroupName, serviceName)
		if cwErr == nil {
			log = logger.InitializeWithWriter(cfg.Env, cwWriter)
		} else {
			log = logger.Initialize(cfg.Env)
			log.Warn("CloudWatch Logs unavailable, logging to console only", zap.Error(cwErr))
		}
	} else {
		log = logger.Initialize(cfg.Env)
	}
	defer func() { _ = log.Sync() }()

	if !awsReady {
		log.Warn("AWS config load failed (non-fatal)", zap.Error(err))
	}
	metricsClient := awspkg.NewMetricsClient(awsCfg, cfg.MetricsNamespace, cfg.CloudWatchEnabled && awsReady)

	db, err := database.ConnectPostgres(cfg.Postgres, log)
	if err != nil {
		log.Fatal("DB connection failed", zap.Error(err))
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		if redisClient, err = database.NewRedisClient(ctx, cfg.RedisURL); err != nil {
			log.Warn("Redis unavailable, product cache disabled", zap.Error(err))
			redisClient = nil
		} else {
			log.Info("Connected to Redis")
		}
	}
	productCache := cache.NewProductCache(redisClient, cfg.CacheTTL, log)

	var publisher services.EventPublisher
	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = kafka.NewProducer(cfg.KafkaBrokers, cfg.OrderEventsTopic, log)
		publisher = producer
	}

	var emailSender sender.EmailSender
	if len(cfg.AlertEmailRecipients) > 0 {
		if s, err := sender.NewSMTPSender(cfg.SMTP); err == nil {
			emailSender = s
		} else {
			log.Warn("Email alerts disabled", zap.Error(err))
		}
	}
	var smsSender sender.SMSSender
	if len(cfg.AlertSMSRecipients) > 0 {
		if s, err := sender.NewTwilioSender(cfg.Twilio); err == nil {
			smsSender = s
		} else {
			log.Warn("SMS alerts disabled", zap.Error(err))
		}
	}
	var snsPublisher awspkg.SNSPublisher
	if cfg.SNSLowStockTopicARN != "" && awsReady {
		snsPublisher = awspkg.NewSNSClient(awsCfg)
	}

	// Repositories
	categoryRepo := repository.NewGormCategoryRepository(db)
	supplierRepo := repository.NewGormSupplierRepository(db)
	productRepo := repository.NewGormProductRepository(db)
	orderRepo := repository.NewGormOrderRepository(db)
	alertRepo := repository.NewAlertRepository(db)
	store := repository.NewGormInventoryStore(db, cfg.LockTimeout)

	// Services
	notifier := services.NewLowStockNotifier(services.NotifierConfig{
		Threshold:       cfg.LowStockThreshold,
		EmailRecipients: cfg.AlertEmailRecipients,
		SMSRecipients:   cfg.AlertSMSRecipients,
		SNSTopicARN:     cfg.SNSLowStockTopicARN,
		RetryBackoff:    500 * time.Millisecond,
	}, emailSender, smsSender, snsPublisher, alertRepo, metricsClient, log)

	orderOpts := []services.OrderServiceOption{
		services.WithProductCache(productCache),
		services.WithMetrics(metricsClient),
	}
	if publisher != nil {
		orderOpts = append(orderOpts, services.WithEventPublisher(publisher))
	}
	orderService := services.NewOrderService(store, orderRepo, notifier, log, orderOpts...)
	productService := services.NewProductService(productRepo, categoryRepo, supplierRepo, store, notifier, productCache, metricsClient, log)
	categoryService := services.NewCategoryService(categoryRepo, productCache, log)
	supplierService := services.NewSupplierService(supplierRepo, productCache, log)
	alertService := services.NewAlertService(alertRepo)

	// Router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMinute))
	r.Use(middleware.MetricsMiddleware(metricsClient, serviceName))
	r.Use(func(c *gin.Context) {
		reqCtx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(reqCtx)
		c.Next()
	})

	routes.RegisterRoutes(r, routes.Controllers{
		Categories: controllers.NewCategoryController(categoryService),
		Suppliers:  controllers.NewSupplierController(supplierService),
		Products:   controllers.NewProductController(productService),
		Orders:     controllers.NewOrderController(orderService),
		Alerts:     controllers.NewAlertController(alertService),
	}, cfg.JWTSecret)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("Inventory order service started", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Error("Kafka producer close error", zap.Error(err))
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Redis close error", zap.Error(err))
		}
	}
	if err := database.Close(db); err != nil {
		log.Error("Database close error", zap.Error(err))
	}

	log.Info("Inventory order service stopped gracefully")
}
