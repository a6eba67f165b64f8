package main

import (
	"context"
	"log"

	"clegacy/internal/app"
	"clegacy/internal/config"
	"clegacy/internal/logging"
)

// Seeds the configured store with the demonstration volunteers and projects.
// Collections that already hold data are left untouched.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.InitLogger(cfg.LogLevel)

	ctx := context.Background()
	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("open app: %v", err)
	}
	defer a.Close()

	res, err := a.Seed(ctx)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	if !res.UsersSeeded {
		logger.Info("users already present, skipped")
	}
	logger.Info("seed completed", "store", cfg.StoreDriver, "users_seeded", res.UsersSeeded, "projects", res.Projects)
}
