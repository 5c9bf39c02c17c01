package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/ecom-api/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/ecom-api/internal/logger"
	"gitlab.ozon.dev/pupkingeorgij/ecom-api/internal/repository/postgresql"
	"gitlab.ozon.dev/pupkingeorgij/ecom-api/internal/server"
	"gitlab.ozon.dev/pupkingeorgij/ecom-api/internal/service"
)

func main() {
	lg := logger.New()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	database, err := db.NewDb(ctx)
	if err != nil {
		lg.Fatal("Database init error", zap.Error(err))
	}
	defer database.Close()

	customerRepo := postgresql.NewCustomerRepo(database)
	orderRepo := postgresql.NewOrderRepo(database)

	svc := service.New(customerRepo, orderRepo)
	srv := server.New(svc, lg)

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		if err := srv.Run(port); err != nil {
			lg.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	lg.Info("Server started", zap.String("port", port))

	<-ctx.Done()
	lg.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Fatal("Server shutdown failed", zap.Error(err))
	}

	lg.Info("Server gracefully stopped")
}
