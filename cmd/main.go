package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Asadbek07/event-match-system/config"
	"github.com/Asadbek07/event-match-system/db"
	"github.com/Asadbek07/event-match-system/handlers"
	"github.com/Asadbek07/event-match-system/live"
	"github.com/Asadbek07/event-match-system/middleware"
	"github.com/Asadbek07/event-match-system/ratelimit"
	"github.com/Asadbek07/event-match-system/repositories"
	api "github.com/Asadbek07/event-match-system/routes"
	"github.com/Asadbek07/event-match-system/services"
	"github.com/Asadbek07/event-match-system/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Загрузчик QR-кодов (Cloudflare R2). Без настроенного R2 регистрация
	// работает, но без персональных QR-кодов.
	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 storage is not configured, QR code uploads disabled")
	}

	// Rate-лимитер: Redis при нескольких инстансах, иначе in-memory.
	var rateGate ratelimit.Gate
	if cfg.RedisURL != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisURL,
			Password: cfg.RedisPassword,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Error("failed to connect to redis", slog.Any("error", err))
			os.Exit(1)
		}
		rateGate = ratelimit.NewRedisGate(redisClient)
		logger.Info("redis rate limiter initialized", slog.String("addr", cfg.RedisURL))
	} else {
		rateGate = ratelimit.NewMemoryGate()
		logger.Info("in-memory rate limiter initialized")
	}

	// WebSocket-хаб живого дашборда
	wsHub := live.NewHub()
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	selectionRepo := repositories.NewPostgresSelectionRepository(dbConn)
	eventRepo := repositories.NewPostgresEventRepository(dbConn)
	adminRepo := repositories.NewPostgresAdminRepository(dbConn)
	logger.Info("Repositories initialized")

	// Инициализация сервисов
	authService := services.NewAuthService(adminRepo, participantRepo)
	participantService := services.NewParticipantService(participantRepo, eventRepo, uploader)
	selectionService := services.NewSelectionService(selectionRepo, participantRepo)
	statsService := services.NewStatsService(participantRepo, selectionRepo, eventRepo)
	eventService := services.NewEventService(eventRepo)
	exportService := services.NewExportService(selectionService)
	logger.Info("Services initialized")

	// Инициализация обработчиков HTTP
	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	participantHandler := handlers.NewParticipantHandler(participantService)
	selectionHandler := handlers.NewSelectionHandler(selectionService, statsService, wsHub)
	adminHandler := handlers.NewAdminHandler(participantService, selectionService, statsService, exportService, wsHub)
	eventHandler := handlers.NewEventHandler(eventService, statsService)
	liveHandler := handlers.NewLiveHandler(wsHub, statsService)
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, api.Deps{
		Auth:               middleware.NewAuth(cfg.JWTSecretKey),
		RateGate:           rateGate,
		AuthHandler:        authHandler,
		ParticipantHandler: participantHandler,
		SelectionHandler:   selectionHandler,
		AdminHandler:       adminHandler,
		EventHandler:       eventHandler,
		LiveHandler:        liveHandler,
	})
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		} else {
			logger.Info("server stopped gracefully")
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}
