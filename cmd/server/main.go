package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/postboard/internal/api"
	"github.com/dom/postboard/internal/config"
	"github.com/dom/postboard/internal/logutil"
	"github.com/dom/postboard/internal/repository/postgres"
	"github.com/dom/postboard/internal/service"
	"github.com/dom/postboard/internal/session"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	app := &cli.App{
		Name:  "postboard",
		Usage: "Small blogging server: accounts, posts and likes",
		Commands: []*cli.Command{
			serveCmd(),
			migrateCmd(),
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("application failed")
	}
}

func serveCmd() *cli.Command {
	var port string
	var skipMigrate bool
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "port",
				Usage:       "Port to listen on (overrides PORT)",
				Destination: &port,
			},
			&cli.BoolFlag{
				Name:        "skip-migrate",
				Usage:       "Do not run schema migrations on start",
				Destination: &skipMigrate,
			},
		},
		Action: func(c *cli.Context) error {
			cfg, db, err := bootstrap()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			if !skipMigrate {
				if err := postgres.Migrate(db); err != nil {
					return err
				}
			}
			return serve(c.Context, cfg, db)
		},
	}
}

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create or update the database schema and exit",
		Action: func(c *cli.Context) error {
			_, db, err := bootstrap()
			if err != nil {
				return err
			}
			if err := postgres.Migrate(db); err != nil {
				return err
			}
			log.Info().Msg("migrations applied")
			return nil
		},
	}
}

func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logutil.Setup(cfg.LogLevel, cfg.IsDevelopment())

	db, err := postgres.NewConnection(cfg.DatabaseURL, gormLogLevel(cfg))
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func serve(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	repos := postgres.NewRepositories(db)
	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL, cfg.CookieSecure)
	services := service.NewServices(repos, sessions, cfg)
	health := func(ctx context.Context) error { return postgres.Ping(ctx, db) }
	router := api.NewRouter(services, sessions, health, log.Logger, cfg)

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info().Msg("server stopped")
	return nil
}

func gormLogLevel(cfg *config.Config) logger.LogLevel {
	switch cfg.Environment {
	case "development":
		return logger.Info
	case "test":
		return logger.Silent
	default:
		return logger.Warn
	}
}
