package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/ArowuTest/loyalty-admin-backend/api/routes"
	"github.com/ArowuTest/loyalty-admin-backend/internal/config"
	"github.com/ArowuTest/loyalty-admin-backend/internal/handlers"
	"github.com/ArowuTest/loyalty-admin-backend/internal/metrics"
	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories"
	"github.com/ArowuTest/loyalty-admin-backend/internal/repositories/memory"
	mongorepo "github.com/ArowuTest/loyalty-admin-backend/internal/repositories/mongodb"
	"github.com/ArowuTest/loyalty-admin-backend/internal/services"
	"github.com/ArowuTest/loyalty-admin-backend/pkg/cache"
	"github.com/ArowuTest/loyalty-admin-backend/pkg/jwt"
	"github.com/ArowuTest/loyalty-admin-backend/pkg/mongodb"
	"github.com/ArowuTest/loyalty-admin-backend/pkg/pushgateway"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/exp/slog"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info(".env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
	if level > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	loc, err := cfg.Location()
	if err != nil {
		slog.Error("Invalid timezone", "error", err)
		os.Exit(1)
	}
	slog.Info("Evaluating campaigns in restaurant timezone", "timezone", loc.String())

	ctx := context.Background()

	// Storage
	var repos repositories.Set
	var store handlers.Pinger
	switch cfg.Store {
	case config.StoreMongo:
		mongoClient, err := mongodb.NewClient(ctx, cfg.MongoDB.URI, cfg.MongoDB.ConnectTimeout)
		if err != nil {
			slog.Error("Failed to connect to MongoDB", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				slog.Error("Error disconnecting from MongoDB", "error", err)
			}
		}()
		db := mongoClient.Database(cfg.MongoDB.Database)
		if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
			slog.Error("Failed to create indexes", "error", err)
			os.Exit(1)
		}
		repos = mongorepo.NewRepositories(db, cfg.Push.DefaultGateway)
		store = mongoClient
		slog.Info("Using MongoDB store", "database", cfg.MongoDB.Database)
	default:
		repos = memory.NewStore(cfg.Push.DefaultGateway).Repositories()
		slog.Warn("Using in-memory store; data is lost on restart")
	}

	// Directory cache
	var directoryCache cache.Cache = cache.NewMemoryCache(cfg.Redis.DirectoryTTL)
	if cfg.Redis.Addr != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.DirectoryTTL)
		if err != nil {
			slog.Warn("Redis unavailable, falling back to in-process cache", "addr", cfg.Redis.Addr, "error", err)
		} else {
			defer redisCache.Close()
			directoryCache = redisCache
		}
	}

	// Push gateways
	var gateways []pushgateway.Gateway
	if cfg.Push.Mock {
		gateways = append(gateways, pushgateway.NewMockGateway(pushgateway.NameMock, cfg.Push.MockFailingIDs...))
	}
	if cfg.Push.HTTP.BaseURL != "" {
		gateways = append(gateways, pushgateway.NewHTTPGateway(cfg.Push.HTTP.BaseURL, cfg.Push.HTTP.APIKey, cfg.Push.HTTP.Timeout))
	}
	if len(cfg.Push.Kafka.Brokers) > 0 {
		kafkaGateway := pushgateway.NewKafkaGateway(cfg.Push.Kafka.Brokers, cfg.Push.Kafka.Topic)
		defer kafkaGateway.Close()
		gateways = append(gateways, kafkaGateway)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Services
	tokens := jwt.NewTokenService(cfg.JWT.Secret, cfg.JWT.ExpiresIn)
	catalogService := services.NewCatalogService(repos.Products, repos.Segments, repos.Tiers, repos.Customers, directoryCache)
	targetingService := services.NewTargetingService(repos.Customers, catalogService)
	notificationService := services.NewNotificationService(repos.Notifications, repos.Settings, targetingService, gateways,
		services.DispatchConfig{BatchSize: cfg.Push.BatchSize, RatePerSecond: cfg.Push.RatePerSecond, Burst: cfg.Push.Burst}, m)
	campaignService := services.NewCampaignService(repos.Campaigns, notificationService)
	redemptionService := services.NewRedemptionService(repos.Campaigns, repos.Usages, repos.Customers, repos.Products,
		repos.Transactions, repos.Points, repos.Rewards, cfg.Points.AmountPerPoint, loc, m)
	customerService := services.NewCustomerService(repos.Customers)
	authService := services.NewAuthService(repos.AdminUsers, tokens)
	settingsService := services.NewSystemSettingsService(repos.Settings, cfg.GatewayNames())

	router := routes.SetupRouter(routes.HandlerDependencies{
		AuthHandler:           handlers.NewAuthHandler(authService),
		CampaignHandler:       handlers.NewCampaignHandler(campaignService, catalogService, redemptionService),
		CatalogHandler:        handlers.NewCatalogHandler(catalogService),
		AudienceHandler:       handlers.NewAudienceHandler(targetingService),
		CustomerHandler:       handlers.NewCustomerHandler(customerService, redemptionService),
		RewardHandler:         handlers.NewRewardHandler(redemptionService),
		NotificationHandler:   handlers.NewNotificationHandler(notificationService),
		SystemSettingsHandler: handlers.NewSystemSettingsHandler(settingsService),
		HealthHandler:         handlers.NewHealthHandler(store),
		Tokens:                tokens,
		Metrics:               m,
		MetricsHandler:        promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		AllowedOrigins:        cfg.Server.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Server.Port, "store", cfg.Store, "gateways", cfg.GatewayNames())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	slog.Info("Server exiting")
}
