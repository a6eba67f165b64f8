// Package app assembles the store, cache, repositories and services every
// binary shares.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clegacy/internal/auth"
	"clegacy/internal/cache"
	"clegacy/internal/config"
	"clegacy/internal/postal"
	"clegacy/internal/repository"
	"clegacy/internal/service"
	"clegacy/internal/storage"
)

const storeKeyPrefix = "clegacy:"

// App is the wired service layer over one store.
type App struct {
	Store  storage.Store
	Cache  *cache.Client
	Hasher *auth.PasswordHasher
	Postal *postal.Client

	Users      service.UserService
	Projects   service.ProjectService
	Sessions   service.SessionService
	Statistics service.StatisticsService
	AccessLog  service.AccessLogger
}

// New opens the configured store and builds the services over it. Without
// a Redis address the cache is disabled.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := storage.Open(ctx, storage.Options{
		Driver:      cfg.StoreDriver,
		MySQLDSN:    cfg.MySQLDSN,
		PostgresDSN: cfg.PostgresDSN,
		RedisAddr:   cfg.RedisAddr,
		RedisPass:   cfg.RedisPass,
		RedisDB:     cfg.RedisDB,
		KeyPrefix:   storeKeyPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	c := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	return NewWithStore(store, c, cfg.AllowLegacyPasswords, postal.NewClient(cfg.PostalBaseURL, cfg.PostalTimeout, c), time.Now), nil
}

// NewWithStore builds the services over an existing store. c and lookup may
// be nil.
func NewWithStore(store storage.Store, c *cache.Client, allowLegacy bool, lookup *postal.Client, clock repository.Clock) *App {
	users := repository.NewUserRepository(store, clock)
	projects := repository.NewProjectRepository(store, clock)
	accessLog := repository.NewAccessLogRepository(store)
	sessions := repository.NewSessionRepository(store)

	hasher := auth.NewPasswordHasher(allowLegacy)
	logger := service.NewAccessLogger(accessLog, sessions, clock)

	return &App{
		Store:      store,
		Cache:      c,
		Hasher:     hasher,
		Postal:     lookup,
		Users:      service.NewUserService(users, logger, hasher),
		Projects:   service.NewProjectService(projects, logger),
		Sessions:   service.NewSessionService(users, sessions, logger, hasher, clock),
		Statistics: service.NewStatisticsService(users, projects, accessLog, clock),
		AccessLog:  logger,
	}
}

// Seed writes the demonstration data into an empty store.
func (a *App) Seed(ctx context.Context) (*service.SeedResult, error) {
	return service.SeedDemoData(ctx, a.Users, a.Projects)
}

// Close releases the store and cache connections.
func (a *App) Close() error {
	var errs []error
	if closer, ok := a.Store.(storage.Closer); ok {
		errs = append(errs, closer.Close())
	}
	errs = append(errs, a.Cache.Close())
	return errors.Join(errs...)
}
