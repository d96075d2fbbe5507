package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

const minReleaseSecretLength = 32

type Config struct {
	DatabaseURL        string        `yaml:"database_url"`
	DBMaxOpenConns     int           `yaml:"db_max_open_conns"`
	DBMaxIdleConns     int           `yaml:"db_max_idle_conns"`
	DBConnMaxLifetime  time.Duration `yaml:"db_conn_max_lifetime"`
	SecretKey          string        `yaml:"secret_key"`
	TokenIssuer        string        `yaml:"token_issuer"`
	AccessTokenTTL     time.Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL    time.Duration `yaml:"refresh_token_ttl"`
	BcryptCost         int           `yaml:"bcrypt_cost"`
	ServerAddr         string        `yaml:"server_addr"`
	GinMode            string        `yaml:"gin_mode"`
	LogLevel           string        `yaml:"log_level"`
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		DatabaseURL:        "sqlite://dailydo.db",
		DBMaxOpenConns:     10,
		DBMaxIdleConns:     5,
		DBConnMaxLifetime:  300 * time.Second,
		SecretKey:          "default-secret-key-change-me",
		TokenIssuer:        "dailydo-api",
		AccessTokenTTL:     30 * time.Minute,
		RefreshTokenTTL:    7 * 24 * time.Hour,
		BcryptCost:         10,
		ServerAddr:         ":8080",
		GinMode:            "debug",
		LogLevel:           "warn",
		CORSAllowedOrigins: []string{"*"},
	}
}

// Load builds the configuration from .env, an optional YAML file named by
// CONFIG_FILE, and finally the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	log.Printf("Loaded configuration from %s", path)
	return nil
}

func (c *Config) applyEnv() error {
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.SecretKey = getEnv("SECRET_KEY", c.SecretKey)
	c.TokenIssuer = getEnv("TOKEN_ISSUER", c.TokenIssuer)
	c.ServerAddr = getEnv("SERVER_ADDR", c.ServerAddr)
	c.GinMode = getEnv("GIN_MODE", c.GinMode)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.CORSAllowedOrigins = splitList(origins)
	}

	var err error
	if c.AccessTokenTTL, err = getEnvDuration("ACCESS_TOKEN_EXPIRE_MINUTES", time.Minute, c.AccessTokenTTL); err != nil {
		return err
	}
	if c.RefreshTokenTTL, err = getEnvDuration("REFRESH_TOKEN_EXPIRE_DAYS", 24*time.Hour, c.RefreshTokenTTL); err != nil {
		return err
	}
	if c.DBConnMaxLifetime, err = getEnvDuration("DB_CONN_MAX_LIFETIME", time.Second, c.DBConnMaxLifetime); err != nil {
		return err
	}
	if c.BcryptCost, err = getEnvInt("BCRYPT_COST", c.BcryptCost); err != nil {
		return err
	}
	if c.DBMaxOpenConns, err = getEnvInt("DB_MAX_OPEN_CONNS", c.DBMaxOpenConns); err != nil {
		return err
	}
	if c.DBMaxIdleConns, err = getEnvInt("DB_MAX_IDLE_CONNS", c.DBMaxIdleConns); err != nil {
		return err
	}
	return nil
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return errors.New("config: DATABASE_URL is required")
	}
	if c.SecretKey == "" {
		return errors.New("config: SECRET_KEY is required")
	}
	if c.GinMode == "release" && len(c.SecretKey) < minReleaseSecretLength {
		return fmt.Errorf("config: SECRET_KEY must be at least %d bytes in release mode", minReleaseSecretLength)
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return errors.New("config: token lifetimes must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer: %w", key, err)
	}
	return n, nil
}

// getEnvDuration reads an integer count of unit, e.g. minutes or days.
func getEnvDuration(key string, unit, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer: %w", key, err)
	}
	return time.Duration(n) * unit, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
