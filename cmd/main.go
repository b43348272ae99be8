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

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/tournament-analyser/config"
	"github.com/Dosada05/tournament-analyser/db"
	"github.com/Dosada05/tournament-analyser/handlers"
	"github.com/Dosada05/tournament-analyser/live"
	"github.com/Dosada05/tournament-analyser/migrations"
	"github.com/Dosada05/tournament-analyser/repositories"
	api "github.com/Dosada05/tournament-analyser/routes"
	"github.com/Dosada05/tournament-analyser/services"
	"github.com/Dosada05/tournament-analyser/storage"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("database", cfg.DatabasePath))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabasePath, 5*time.Second)
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

	// Применение миграций
	if err := migrations.Run(dbConn); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("migrations applied")

	// Инициализация загрузчика файлов для экспортов
	exportUploader, err := storage.NewLocalDiskUploader(cfg.ExportDir)
	if err != nil {
		logger.Error("failed to initialize export uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("export uploader initialized", slog.String("dir", cfg.ExportDir))

	// Инициализация WebSocket Hub
	wsHub := live.NewHub(logger)
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	tournamentRepo := repositories.NewSQLiteTournamentRepository(dbConn)
	teamRepo := repositories.NewSQLiteTeamRepository(dbConn)
	playerRepo := repositories.NewSQLitePlayerRepository(dbConn)
	matchRepo := repositories.NewSQLiteMatchRepository(dbConn)
	eventRepo := repositories.NewSQLiteEventRepository(dbConn)
	logger.Info("repositories initialized")

	// Инициализация сервисов
	tournamentService := services.NewTournamentService(tournamentRepo, wsHub)
	teamService := services.NewTeamService(teamRepo, wsHub)
	playerService := services.NewPlayerService(playerRepo, teamRepo, wsHub)
	matchService := services.NewMatchService(matchRepo, wsHub)
	eventService := services.NewEventService(eventRepo, matchRepo, wsHub)
	statsService := services.NewStatsService(tournamentRepo, teamRepo, playerRepo, matchRepo, eventRepo)
	exportService := services.NewExportService(statsService, exportUploader)
	logger.Info("services initialized")

	// Инициализация обработчиков HTTP
	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	teamHandler := handlers.NewTeamHandler(teamService)
	playerHandler := handlers.NewPlayerHandler(playerService)
	matchHandler := handlers.NewMatchHandler(matchService)
	eventHandler := handlers.NewEventHandler(eventService)
	statsHandler := handlers.NewStatsHandler(statsService, exportService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, logger)
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		tournamentHandler,
		teamHandler,
		playerHandler,
		matchHandler,
		eventHandler,
		statsHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

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
		}
		logger.Info("server stopped gracefully")
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
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
