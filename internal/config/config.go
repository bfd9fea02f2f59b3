package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "config.yaml"

// Config is loaded from YAML and overridable via environment variables.
type Config struct {
	Port             string `yaml:"port"`
	LogLevel         string `yaml:"logLevel"`
	DatabaseURL      string `yaml:"databaseURL"`
	JWTSecret        string `yaml:"jwtSecret"`
	JWTTTL           string `yaml:"jwtTTL"`
	RedisAddr        string `yaml:"redisAddr"`
	RedisPassword    string `yaml:"redisPassword"`
	SnapshotCacheTTL string `yaml:"snapshotCacheTTL"`
}

// Load reads config from path (defaults to config.yaml), applies env
// overrides and validates required fields.
func Load(path string) (Config, error) {
	cfg := Config{}
	if path == "" {
		path = defaultConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("JWT_TTL"); v != "" {
		cfg.JWTTTL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("SNAPSHOT_CACHE_TTL"); v != "" {
		cfg.SnapshotCacheTTL = v
	}
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.Port == "" {
		return errors.New("config: port is required (set in config.yaml or PORT)")
	}
	if cfg.DatabaseURL == "" {
		return errors.New("config: databaseURL is required (set in config.yaml or DATABASE_URL)")
	}
	if cfg.JWTSecret == "" {
		return errors.New("config: jwtSecret is required (set in config.yaml or JWT_SECRET)")
	}
	if _, err := cfg.ParseJWTTTL(); err != nil {
		return err
	}
	if _, err := cfg.ParseSnapshotCacheTTL(); err != nil {
		return err
	}
	return nil
}

// ParseJWTTTL returns the access-token lifetime, defaulting to 24h.
func (c Config) ParseJWTTTL() (time.Duration, error) {
	if c.JWTTTL == "" {
		return 24 * time.Hour, nil
	}
	dur, err := time.ParseDuration(c.JWTTTL)
	if err != nil {
		return 0, fmt.Errorf("config: invalid jwtTTL duration: %w", err)
	}
	return dur, nil
}

// ParseSnapshotCacheTTL returns how long dashboard snapshots may be served
// from cache, defaulting to 15s. The reference UI polls every 30s.
func (c Config) ParseSnapshotCacheTTL() (time.Duration, error) {
	if c.SnapshotCacheTTL == "" {
		return 15 * time.Second, nil
	}
	dur, err := time.ParseDuration(c.SnapshotCacheTTL)
	if err != nil {
		return 0, fmt.Errorf("config: invalid snapshotCacheTTL duration: %w", err)
	}
	return dur, nil
}
