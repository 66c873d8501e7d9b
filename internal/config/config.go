package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Config holds the application configuration.
type Config struct {
	ServerPort     int           `mapstructure:"port"`
	DatabaseDriver string        `mapstructure:"database_driver"`
	DatabaseDSN    string        `mapstructure:"database_dsn"`
	JWTSecret      string        `mapstructure:"jwt_secret"`
	TokenTTL       time.Duration `mapstructure:"token_ttl"`
	BcryptCost     int           `mapstructure:"bcrypt_cost"`
	LogLevel       string        `mapstructure:"log_level"`
	LogFormat      string        `mapstructure:"log_format"` // console or json
	AllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
}

// Each key is read from the config file and from its environment variable.
var envKeys = map[string]string{
	"port":                 "PORT",
	"database_driver":      "DATABASE_DRIVER",
	"database_dsn":         "DATABASE_DSN",
	"jwt_secret":           "JWT_SECRET",
	"token_ttl":            "TOKEN_TTL",
	"bcrypt_cost":          "BCRYPT_COST",
	"log_level":            "LOG_LEVEL",
	"log_format":           "LOG_FORMAT",
	"cors_allowed_origins": "CORS_ALLOWED_ORIGINS",
}

// NewViper returns a viper instance with defaults and env bindings set.
// Callers may bind command-line flags on it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("port", 8080)
	v.SetDefault("database_driver", "sqlite")
	v.SetDefault("database_dsn", "./recipes.db")
	v.SetDefault("token_ttl", 365*24*time.Hour)
	v.SetDefault("bcrypt_cost", bcrypt.DefaultCost)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("cors_allowed_origins", []string{"http://localhost:3000"})

	for key, env := range envKeys {
		// BindEnv only fails without a key.
		_ = v.BindEnv(key, env)
	}
	return v
}

// Load reads configuration from the optional file, then environment
// variables, on top of the defaults.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("invalid port %d", c.ServerPort)
	}
	switch c.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.DatabaseDriver)
	}
	if c.DatabaseDSN == "" {
		return errors.New("DATABASE_DSN must be set")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token ttl must be positive, got %s", c.TokenTTL)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}
