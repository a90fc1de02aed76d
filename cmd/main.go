package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AlekseyZapadovnikov/gift-exchange/conf"
	"github.com/AlekseyZapadovnikov/gift-exchange/internal/metrics"
	"github.com/AlekseyZapadovnikov/gift-exchange/internal/repository"
	"github.com/AlekseyZapadovnikov/gift-exchange/internal/service"
	"github.com/AlekseyZapadovnikov/gift-exchange/internal/web"
)

// main конфигурирует сервис, поднимает хранилище, сервисы и HTTP-сервер, а затем управляет их жизненным циклом.
func main() {
	// .env необязателен, переменные окружения могут прийти и снаружи.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not read .env file", "error", err)
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "./conf/config.json"
	}

	config := conf.MustLoad(cfgPath)
	slog.Info("Configuration loaded successfully", "config_path", cfgPath)
	slog.Info("Database configuration", "host", config.DBConf.Host, "port", config.DBConf.Port, "user", config.DBConf.User, "database", config.DBConf.Name)

	ctx := context.Background()
	storage, err := repository.NewStorage(ctx, &config.DBConf)
	if err != nil {
		slog.Error("Database initialization failed", "error", err)
		os.Exit(1)
	}
	defer storage.Close()

	if err := storage.CreateSchema(ctx); err != nil {
		slog.Error("Schema migration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database storage initialized successfully")

	var (
		collector      metrics.Collector = metrics.NewNop()
		metricsHandler http.Handler
	)
	if config.MetricsConf.Enabled {
		collector = metrics.NewPrometheus(prometheus.DefaultRegisterer, config.MetricsConf.Namespace)
		metricsHandler = promhttp.Handler()
		slog.Info("Prometheus metrics enabled", "namespace", config.MetricsConf.Namespace)
	}

	participantManager := service.NewParticipantManager(storage)
	drawManager := service.NewDrawManager(storage, collector, config.DrawConf.MaxAttempts)
	slog.Info("Services created successfully", "max_attempts", config.DrawConf.MaxAttempts)

	server := web.New(config.HTTPServConf, participantManager, drawManager, metricsHandler)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Gift exchange service started successfully", "address", server.Address)

	// Ожидаем сигнал остановки для плавного завершения работы.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited properly")
}
