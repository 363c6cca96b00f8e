// cmd/historian/main.go runs the historian, which drains the game action queue into PostgreSQL.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jason-s-yu/uno/internal/cache"
	"github.com/jason-s-yu/uno/internal/config"
	"github.com/jason-s-yu/uno/internal/database"
	"github.com/jason-s-yu/uno/internal/historian"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := cfg.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.ConnectDB(ctx, cfg.DatabaseURL); err != nil {
		logger.Fatalf("database: %v", err)
	}
	defer database.DB.Close()

	rdb, err := cache.NewClient(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	hs := historian.New(rdb, database.Postgres{}, historian.Options{
		QueueName:  cfg.HistorianQueue,
		BatchSize:  cfg.HistorianBatchSize,
		FlushDelay: cfg.FlushDelay(),
		Inactivity: cfg.InactivityTimeout,
		Logger:     logger,
	})
	if err := hs.Run(ctx); err != nil {
		logger.Fatalf("historian: %v", err)
	}
	logger.Info("Historian shutdown complete.")
}
