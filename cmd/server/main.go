package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"clegacy/internal/app"
	"clegacy/internal/auth"
	"clegacy/internal/config"
	"clegacy/internal/handler"
	"clegacy/internal/logging"
	"clegacy/internal/pages"
	"clegacy/internal/ratelimit"
	"clegacy/internal/router"
	"clegacy/internal/spa"
)

const shutdownTimeout = 10 * time.Second

// @title C Legacy API
// @version 1.0
// @description Volunteer portal API for the C Legacy literacy initiative: sessions, volunteers, projects, statistics and form validation.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("close app", "error", err)
		}
	}()

	if cfg.SeedDemoData {
		res, err := a.Seed(ctx)
		if err != nil {
			return err
		}
		logger.Info("demo data ready", "users_seeded", res.UsersSeeded, "projects", res.Projects)
	}

	jwtSvc := auth.NewJWTService(cfg.JWTSecret)
	tokens := auth.NewTokenStore(a.Cache)

	var attempts *ratelimit.Attempts
	if cfg.LoginRateLimit > 0 && a.Cache != nil {
		attempts, err = ratelimit.NewAttempts(a.Cache.Redis(), "clegacy:attempts:login", cfg.LoginRateLimit, cfg.LoginRateWindow)
		if err != nil {
			return err
		}
	}

	site, err := pages.New(a.Users, a.Projects, a.Sessions, a.Statistics, a.AccessLog)
	if err != nil {
		return err
	}
	table := spa.NewTable()
	site.Register(table)

	userHandler, err := handler.NewUserHandler(a.Users)
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, jwtSvc, tokens, router.Handlers{
		Auth:       handler.NewAuthHandler(a.Sessions, jwtSvc, tokens, attempts),
		Users:      userHandler,
		Projects:   handler.NewProjectHandler(a.Projects),
		Statistics: handler.NewStatisticsHandler(a.Statistics, a.AccessLog),
		Postal:     handler.NewPostalHandler(a.Postal),
		Forms:      handler.NewFormHandler(a.Users),
		App:        handler.NewAppHandler(table, cfg.NavigationTimeout),
		Seed:       handler.NewSeedHandler(a.Users, a.Projects),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server", "port", cfg.ServerPort, "store", cfg.StoreDriver)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return e.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
