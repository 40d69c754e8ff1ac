package main

import (
	"github.com/taskforge-dev/taskforge/db"
	"github.com/taskforge-dev/taskforge/internal/auth"
	"github.com/taskforge-dev/taskforge/internal/config"
	"github.com/taskforge-dev/taskforge/internal/handlers"
	"github.com/taskforge-dev/taskforge/internal/logger"
	"github.com/taskforge-dev/taskforge/internal/router"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.LogLevel, cfg.LogJSON)

	if err := auth.InitJWTSecret(cfg.JWTSecret); err != nil {
		logger.Fatal("failed to initialize JWT secret", "error", err)
	}

	handlers.Debug = cfg.Debug

	if err := db.ConnectDatabase(cfg.DatabaseURL); err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		logger.Fatal("failed to migrate database", "error", err)
	}

	r := router.NewRouter()

	logger.Info("starting server", "port", cfg.Port)

	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("failed to start server", "error", err)
	}
}
