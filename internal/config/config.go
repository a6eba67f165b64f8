package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds application level configuration. Values come from the
// defaults below, then an optional YAML file named by CONFIG_FILE, then the
// environment.
type Config struct {
	ServerPort  string `yaml:"serverPort"`
	StoreDriver string `yaml:"storeDriver"`
	MySQLDSN    string `yaml:"mysqlDSN"`
	PostgresDSN string `yaml:"postgresDSN"`
	RedisAddr   string `yaml:"redisAddr"`
	RedisDB     int    `yaml:"redisDB"`
	RedisPass   string `yaml:"redisPassword"`
	JWTSecret   string `yaml:"jwtSecret"`
	SwaggerHost string `yaml:"swaggerHost"`
	LogLevel    string `yaml:"logLevel"`

	PostalBaseURL string        `yaml:"postalBaseURL"`
	PostalTimeout time.Duration `yaml:"postalTimeout"`

	NavigationTimeout  time.Duration `yaml:"navigationTimeout"`
	ValidationDebounce time.Duration `yaml:"validationDebounce"`

	SeedDemoData         bool          `yaml:"seedDemoData"`
	LoginRateLimit       int           `yaml:"loginRateLimit"`
	LoginRateWindow      time.Duration `yaml:"loginRateWindow"`
	AllowLegacyPasswords bool          `yaml:"allowLegacyPasswords"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		ServerPort:         "8080",
		StoreDriver:        "memory",
		JWTSecret:          "change-me",
		LogLevel:           "info",
		PostalBaseURL:      "https://viacep.com.br",
		PostalTimeout:      5 * time.Second,
		ValidationDebounce: 300 * time.Millisecond,
		SeedDemoData:       true,
		LoginRateLimit:     10,
		LoginRateWindow:    time.Minute,
	}
}

// Load builds Config from defaults, the CONFIG_FILE overlay and environment.
func Load() (*Config, error) {
	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}
	cfg.overlayEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func (c *Config) overlayEnv() {
	c.ServerPort = getEnv("SERVER_PORT", c.ServerPort)
	c.StoreDriver = getEnv("STORE_DRIVER", c.StoreDriver)
	c.MySQLDSN = getEnv("MYSQL_DSN", c.MySQLDSN)
	c.PostgresDSN = getEnv("POSTGRES_DSN", c.PostgresDSN)
	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.RedisDB = getEnvInt("REDIS_DB", c.RedisDB)
	c.RedisPass = getEnv("REDIS_PASSWORD", c.RedisPass)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.SwaggerHost = getEnv("SWAGGER_HOST", c.SwaggerHost)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.PostalBaseURL = getEnv("POSTAL_BASE_URL", c.PostalBaseURL)
	c.PostalTimeout = getEnvDuration("POSTAL_TIMEOUT", c.PostalTimeout)
	c.NavigationTimeout = getEnvDuration("NAVIGATION_TIMEOUT", c.NavigationTimeout)
	c.ValidationDebounce = getEnvDuration("VALIDATION_DEBOUNCE", c.ValidationDebounce)
	c.SeedDemoData = getEnvBool("SEED_DEMO_DATA", c.SeedDemoData)
	c.LoginRateLimit = getEnvInt("LOGIN_RATE_LIMIT", c.LoginRateLimit)
	c.LoginRateWindow = getEnvDuration("LOGIN_RATE_WINDOW", c.LoginRateWindow)
	c.AllowLegacyPasswords = getEnvBool("ALLOW_LEGACY_PASSWORDS", c.AllowLegacyPasswords)
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return errors.New("config: serverPort is required")
	}
	if c.JWTSecret == "" {
		return errors.New("config: jwtSecret is required (set in config file or JWT_SECRET)")
	}
	switch strings.ToLower(c.StoreDriver) {
	case "memory":
	case "redis":
		if c.RedisAddr == "" {
			return errors.New("config: redisAddr is required for the redis store")
		}
	case "mysql":
		if c.MySQLDSN == "" {
			return errors.New("config: mysqlDSN is required for the mysql store")
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return errors.New("config: postgresDSN is required for the postgres store")
		}
	default:
		return fmt.Errorf("config: unknown store driver %q", c.StoreDriver)
	}
	if c.LoginRateLimit > 0 && c.LoginRateWindow <= 0 {
		return errors.New("config: loginRateWindow must be positive when loginRateLimit is set")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
