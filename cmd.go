package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/recipes-be/internal/api"
	"github.com/isdelr/recipes-be/internal/auth"
	"github.com/isdelr/recipes-be/internal/config"
	"github.com/isdelr/recipes-be/internal/database"
	"github.com/isdelr/recipes-be/internal/logger"
	"github.com/isdelr/recipes-be/internal/services"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/uptrace/bun"
)

const shutdownTimeout = 5 * time.Second

// newRootCmd builds the command tree. Each call returns fresh instances so
// tests can execute commands in isolation.
func newRootCmd() *cobra.Command {
	v := config.NewViper()
	var cfgFile string

	root := &cobra.Command{
		Use:          "recipes",
		Short:        "Recipes is a multi-tenant REST API for recipe categories and recipes.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Apply migrations and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := setup(cmd.Context(), v, cfgFile)
			if err != nil {
				return err
			}
			defer db.Close()
			return serveHTTP(cfg, db)
		},
	}
	serve.Flags().Int("port", 0, "port to listen on (overrides PORT)")
	// Only a flag the user actually set overrides env and file values.
	serve.PreRunE = func(cmd *cobra.Command, args []string) error {
		if f := cmd.Flags().Lookup("port"); f.Changed {
			if err := v.BindPFlag("port", f); err != nil {
				return fmt.Errorf("failed to bind port flag: %w", err)
			}
		}
		return nil
	}

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := setup(cmd.Context(), v, cfgFile)
			if err != nil {
				return err
			}
			defer db.Close()
			log.Info().Msg("Database is up to date")
			return nil
		},
	}

	root.AddCommand(serve, migrate)
	return root
}

// setup loads configuration, initializes logging and opens a migrated database.
func setup(ctx context.Context, v *viper.Viper, cfgFile string) (*config.Config, *bun.DB, error) {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	db, err := database.New(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	return cfg, db, nil
}

func serveHTTP(cfg *config.Config, db *bun.DB) error {
	// Set up services
	userService := services.NewUserService(db, cfg.BcryptCost)
	blacklistService := services.NewBlacklistService(db)
	categoryService := services.NewCategoryService(db)
	recipeService := services.NewRecipeService(db)

	// Set up router
	router := api.NewRouter(api.Dependencies{
		Users:          userService,
		Blacklist:      blacklistService,
		Categories:     categoryService,
		Recipes:        recipeService,
		Tokens:         auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL),
		AllowedOrigins: cfg.AllowedOrigins,
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("listen and serve: %w", err)
	case <-quit:
	}
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("Server exiting")
	return nil
}
