// Package storage provides the key/value byte store every collection is
// persisted in. Each key holds one complete serialized value; writes replace
// the whole value.
package storage

import (
	"context"
	"fmt"
	"strings"
)

// Store is a synchronous key/value byte store.
type Store interface {
	// Get returns the value for key. A missing key yields (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Closer is implemented by stores that hold a connection.
type Closer interface {
	Close() error
}

// Supported backend drivers.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Options selects and configures a backend.
type Options struct {
	Driver      string
	MySQLDSN    string
	PostgresDSN string
	RedisAddr   string
	RedisPass   string
	RedisDB     int
	KeyPrefix   string
}

// Open builds the Store described by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", DriverMemory:
		return NewMemoryStore(), nil
	case DriverRedis:
		return NewRedisStore(ctx, opts.RedisAddr, opts.RedisPass, opts.RedisDB, opts.KeyPrefix)
	case DriverMySQL:
		return OpenGormStore(ctx, DriverMySQL, opts.MySQLDSN)
	case DriverPostgres:
		return OpenGormStore(ctx, DriverPostgres, opts.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
