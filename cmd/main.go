package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/ddr-ops/disaster_response_system/internal/alert"
	"github.com/ddr-ops/disaster_response_system/internal/config"
	v1 "github.com/ddr-ops/disaster_response_system/internal/handler/http/v1"
	"github.com/ddr-ops/disaster_response_system/internal/hazard"
	"github.com/ddr-ops/disaster_response_system/internal/notify"
	"github.com/ddr-ops/disaster_response_system/internal/repository"
	"github.com/ddr-ops/disaster_response_system/internal/service"
	"github.com/ddr-ops/disaster_response_system/pkg/logger"
	"github.com/ddr-ops/disaster_response_system/pkg/postgres"
	redisclient "github.com/ddr-ops/disaster_response_system/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/ddr-ops/disaster_response_system/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Disaster Response System API
// @version 1.0
// @description Coordination server for disaster incidents, volunteers, resources and alerts.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New(
		"file://migrations",
		migrationURL,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

// newProvider выбирает провайдера сообщений: Twilio при полных учетных данных,
// иначе заглушка с симуляцией доставки
func newProvider(cfg *config.Config, log *logrus.Logger) alert.Provider {
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		log.Info("Twilio credentials found, using live message provider")
		return alert.NewTwilioProvider(cfg, log)
	}
	log.Warn("Twilio credentials are not configured, alert delivery will be simulated")
	return alert.NewDisabledProvider(log)
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запуск миграций
	if err := runMigrations(cfg, log); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Подключение к PostgreSQL
	dbpool, err := postgres.NewPostgresDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbpool.Close()
	log.Info("Successfully connected to PostgreSQL")

	// Инициализация Redis клиента
	redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	// Провайдер сообщений и очередь уведомлений
	provider := newProvider(cfg, log)
	notifyPublisher := notify.NewRedisPublisher(redisClient)
	notifyWorker := notify.NewWorker(redisClient, provider, log, cfg)
	notifyWorker.Start(ctx)

	// Внешний фид раннего оповещения: клиент, кэш и периодическое обновление
	sachetClient := hazard.NewSachetClient(cfg.SachetFeedURL, log)
	hazardFeed := hazard.NewCachedFeed(sachetClient, redisClient, cfg.SachetCacheTTL)
	refresher := hazard.NewRefresher(hazardFeed, cfg.SachetRefreshSpec, log)
	if err := refresher.Start(ctx); err != nil {
		log.Fatalf("Failed to start SACHET feed refresher: %v", err)
	}

	// Инициализация репозиториев
	userRepo := repository.NewUserRepository(dbpool)
	tokenStore := repository.NewRedisTokenStore(redisClient)
	incidentRepo := repository.NewIncidentRepository(dbpool, redisClient)
	volunteerRepo := repository.NewVolunteerRepository(dbpool)
	taskRepo := repository.NewTaskRepository(dbpool)
	resourceRepo := repository.NewResourceRepository(dbpool)
	facilityRepo := repository.NewFacilityRepository(dbpool)

	// Инициализация сервисов
	authService := service.NewAuthService(userRepo, volunteerRepo, tokenStore, log, cfg)
	incidentService := service.NewIncidentService(incidentRepo, volunteerRepo, resourceRepo, log)
	assignmentService := service.NewAssignmentService(taskRepo, incidentRepo, volunteerRepo, notifyPublisher, log)
	resourceService := service.NewResourceService(resourceRepo, log)
	alertService := service.NewAlertService(provider, volunteerRepo, userRepo, hazardFeed, log, cfg)
	mapService := service.NewMapService(incidentRepo, facilityRepo, hazardFeed, log)

	// Инициализация хэндлеров
	handler := v1.NewHandler(authService, incidentService, assignmentService, resourceService, alertService, mapService, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	handler.RegisterRoutes(&router.RouterGroup, log)

	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server gracefully stopped")
}
