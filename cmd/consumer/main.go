package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/echess/club-api/internal/audit"
	"github.com/echess/club-api/internal/container"
	"github.com/samber/do"
	"go.uber.org/zap"
)

func main() {
	opts := &container.Options{
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		PostgresURL: getEnv("POSTGRES_URL", ""),
		LogFormat:   getEnv("LOG_FORMAT", "console"),
	}

	injector := do.New()
	do.ProvideValue(injector, opts)
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.PostgresPackage(injector)
	container.RepositoryPackage(injector)
	container.ConsumerGroupPackage(injector)

	logger := do.MustInvoke[*zap.Logger](injector)
	recorder := do.MustInvoke[*audit.Recorder](injector)

	ctx, cancel := context.WithCancel(context.Background())

	if err := recorder.Start(ctx); err != nil {
		logger.Fatal("failed to start audit recorder", zap.Error(err))
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	cancel()

	if err := recorder.Shutdown(); err != nil {
		logger.Error("recorder shutdown error", zap.Error(err))
	}

	if err := injector.Shutdown(); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}

	logger.Info("shutdown complete")
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return defaultValue
}
