package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "./recipes.db", cfg.DatabaseDSN)
	assert.Equal(t, "secret", cfg.JWTSecret)
	assert.Equal(t, 365*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, bcrypt.DefaultCost, cfg.BcryptCost)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_DSN", "postgres://localhost/recipe_db")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, "postgres://localhost/recipe_db", cfg.DatabaseDSN)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 4, cfg.BcryptCost)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.yaml")
	content := "port: 7000\njwt_secret: from-file\nlog_format: json\ncors_allowed_origins:\n  - https://example.com\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(NewViper(), path)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.ServerPort)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, []string{"https://example.com"}, cfg.AllowedOrigins)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 7000\njwt_secret: from-file\n"), 0o600))
	t.Setenv("PORT", "7100")

	cfg, err := Load(NewViper(), path)
	require.NoError(t, err)
	assert.Equal(t, 7100, cfg.ServerPort)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(NewViper(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load(NewViper(), "")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		ServerPort:     8080,
		DatabaseDriver: "sqlite",
		DatabaseDSN:    "./recipes.db",
		JWTSecret:      "secret",
		TokenTTL:       time.Hour,
		BcryptCost:     bcrypt.DefaultCost,
	}
	require.NoError(t, valid.Validate())

	tests := map[string]func(c *Config){
		"bad port":     func(c *Config) { c.ServerPort = 0 },
		"bad driver":   func(c *Config) { c.DatabaseDriver = "mysql" },
		"empty dsn":    func(c *Config) { c.DatabaseDSN = "" },
		"zero ttl":     func(c *Config) { c.TokenTTL = 0 },
		"low cost":     func(c *Config) { c.BcryptCost = bcrypt.MinCost - 1 },
		"high cost":    func(c *Config) { c.BcryptCost = bcrypt.MaxCost + 1 },
		"empty secret": func(c *Config) { c.JWTSecret = "" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
