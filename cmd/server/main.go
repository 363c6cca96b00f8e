// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jason-s-yu/uno/internal/auth"
	"github.com/jason-s-yu/uno/internal/cache"
	"github.com/jason-s-yu/uno/internal/config"
	"github.com/jason-s-yu/uno/internal/database"
	"github.com/jason-s-yu/uno/internal/handlers"
	"github.com/jason-s-yu/uno/internal/middleware"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := cfg.Logger()

	if cfg.JWTPrivateKeyPath != "" && cfg.JWTPublicKeyPath != "" {
		err = auth.InitFromPath(cfg.JWTPrivateKeyPath, cfg.JWTPublicKeyPath, cfg.TokenExpireTime)
	} else {
		err = auth.Init(cfg.TokenExpireTime)
	}
	if err != nil {
		logger.Fatalf("auth init: %v", err)
	}

	ctx := context.Background()
	if err := database.ConnectDB(ctx, cfg.DatabaseURL); err != nil {
		logger.Fatalf("database: %v", err)
	}
	if err := cache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.HistorianQueue); err != nil {
		// games still run; only the action log is lost
		logger.Warnf("redis unavailable, action log disabled: %v", err)
	}

	store := database.Postgres{}
	srv := handlers.NewGameServer(logger, store, store)

	mux := http.NewServeMux()
	mux.Handle("/game/create", middleware.LogMiddleware(logger)(
		handlers.CreateGameHandler(srv),
	))
	mux.Handle("/game/ws/", middleware.LogMiddleware(logger)(
		handlers.GameWSHandler(logger, srv),
	))

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
}
