// @title Healthcare Portal API
// @version 1.0
// @description Citas, fichas médicas, PMR y administración de usuarios.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"healthcare-portal/internal/adapters/advice/httpadvice"
	pg "healthcare-portal/internal/adapters/storage/postgres"
	"healthcare-portal/internal/config"
	"healthcare-portal/internal/domain/advice"
	"healthcare-portal/internal/platform/logger"
	"healthcare-portal/internal/router"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "healthcare-portal",
		Short:        "Healthcare portal API server",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create database tables (requires DB_DSN)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DBDSN == "" {
				return errors.New("DB_DSN is required for migrate")
			}
			log := newLogger(cfg)

			db, err := pg.Open(cfg.DBDSN)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := pg.Migrate(ctx, db); err != nil {
				return err
			}
			log.Info("schema applied", nil)
			return nil
		},
	}
}

func runServer(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := newLogger(cfg)

	var db *sql.DB
	if cfg.DBDSN != "" {
		opened, err := pg.Open(cfg.DBDSN)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer opened.Close()
		if err := pg.Migrate(ctx, opened); err != nil {
			return err
		}
		db = opened
		log.Info("connected to database", nil)
	} else {
		log.Warn("DB_DSN not set, using in-memory storage", nil)
	}

	var gen advice.Generator
	client, err := httpadvice.New(httpadvice.Config{
		URL:     cfg.AdviceURL,
		APIKey:  cfg.AdviceAPIKey,
		Timeout: cfg.AdviceTimeout,
	})
	switch {
	case err == nil:
		gen = client
	case errors.Is(err, httpadvice.ErrNotConfigured):
		log.Warn("ADVICE_URL not set, advice answers with fallback messages", nil)
	default:
		return fmt.Errorf("advice client: %w", err)
	}

	handler, err := router.NewRouter(router.Options{
		Logger:        log,
		DB:            db,
		Seed:          cfg.Seed,
		DebugAuth:     cfg.DebugAuth(),
		JWTSecret:     cfg.JWTSecret,
		JWTTTL:        cfg.JWTTTL,
		AppName:       cfg.AppName,
		Advice:        gen,
		UpcomingLimit: cfg.UpcomingLimit,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second + cfg.AdviceTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": cfg.Addr(), "env": cfg.Env})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-quit:
	}

	log.Info("shutting down server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info("server stopped", nil)
	return nil
}

func newLogger(cfg *config.Config) logger.Logger {
	return logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
		Output: os.Stdout,
	})
}
