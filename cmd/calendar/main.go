// Command calendar runs the calendar API.
//
//	calendar serve    start the HTTP server (default)
//	calendar migrate  apply database migrations and exit
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/go-calendar/internal/config"
	"github.com/deppfellow/go-calendar/internal/database"
	"github.com/deppfellow/go-calendar/internal/handler"
	"github.com/deppfellow/go-calendar/internal/logger"
	"github.com/deppfellow/go-calendar/internal/repository"
	"github.com/deppfellow/go-calendar/internal/router"
	"github.com/deppfellow/go-calendar/internal/server"
	"github.com/deppfellow/go-calendar/internal/service"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

const DefaultShutdownTimeout = 30 * time.Second

func main() {
	app := &cli.App{
		Name:  config.ServiceName,
		Usage: "Meetings, participants, attachments and calendars over REST.",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:    "shutdown-timeout",
				Usage:   "time allowed for in-flight requests on shutdown",
				Value:   DefaultShutdownTimeout,
				EnvVars: []string{config.EnvPrefix + "SHUTDOWN_TIMEOUT"},
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP server.",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "Apply pending database migrations and exit.",
				Action: migrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "calendar: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads the config and builds the logger shared by both commands.
func bootstrap() (*config.Config, *logger.LoggerService, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, zerolog.Nop(), fmt.Errorf("failed to load config: %w", err)
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	return cfg, loggerService, log, nil
}

func migrate(c *cli.Context) error {
	cfg, loggerService, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer loggerService.Shutdown()

	if !cfg.Database.UsesPostgres() {
		return errors.New("migrate requires the postgres database driver")
	}

	return database.Migrate(c.Context, &log, cfg)
}

func serve(c *cli.Context) error {
	cfg, loggerService, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer loggerService.Shutdown()

	// Local setups run `calendar migrate` by hand.
	if cfg.Database.UsesPostgres() && cfg.Primary.Env != "local" {
		if err := database.Migrate(c.Context, &log, cfg); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	repos := repository.NewRepositories(srv)

	services, err := service.NewServices(srv, repos)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create services")
	}

	handlers := handler.NewHandlers(srv, services)
	r := router.NewRouter(srv, handlers, services)

	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	var serveErr error
	select {
	case serveErr = <-errCh:
		if serveErr != nil {
			log.Error().Err(serveErr).Msg("server stopped unexpectedly")
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.Duration("shutdown-timeout"))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return err
	}

	log.Info().Msg("server exited properly")
	return serveErr
}
