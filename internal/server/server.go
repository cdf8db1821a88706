// Package server defines the Server struct that composes the app's main
// dependencies and owns their lifecycle:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - database pool (postgres driver only)
//   - redis client and the background job service (only with a redis address)
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/go-calendar/internal/config"
	"github.com/deppfellow/go-calendar/internal/database"
	"github.com/deppfellow/go-calendar/internal/lib/job"
	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/go-calendar/internal/logger"
)

// RedisPingTimeout bounds the start-up connectivity check.
const RedisPingTimeout = 5 * time.Second

// Server is the application container that holds shared resources. It is
// not the HTTP server itself.
type Server struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	LoggerService *loggerPkg.LoggerService

	// DB is nil when the memory driver is configured.
	DB *database.Database

	// Redis and Job are nil when no redis address is configured.
	Redis *redis.Client
	Job   *job.JobService

	httpServer *http.Server
}

// New constructs a Server and initializes the dependencies selected by cfg.
// It does not start the HTTP server; that is SetupHTTPServer + Start.
//
// A Redis that does not answer the start-up ping is logged and kept: the
// client reconnects lazily and queued invitations resume once it is back.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	server := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
	}

	if cfg.Database.UsesPostgres() {
		db, err := database.New(cfg, logger, loggerService)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		server.DB = db
	} else {
		logger.Warn().Msg("using the in-memory store, data is lost on restart")
	}

	if cfg.Redis.Address == "" {
		logger.Info().Msg("no redis address configured, meeting invitations are disabled")
		return server, nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Address,
	})

	if loggerService.GetApplication() != nil {
		redisClient.AddHook(nrredis.NewHook(redisClient.Options()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), RedisPingTimeout)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error().Err(err).Msg("failed to connect to redis, continuing")
	}

	jobService := job.NewJobService(logger, cfg)
	jobService.InitHandlers(cfg, logger)

	if err := jobService.Start(); err != nil {
		_ = redisClient.Close()
		if server.DB != nil {
			_ = server.DB.Close()
		}
		return nil, err
	}

	server.Redis = redisClient
	server.Job = jobService

	return server, nil
}

// SetupHTTPServer configures the internal net/http server around handler.
// Config timeouts are in seconds.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server and blocks until it stops. A graceful Shutdown
// makes it return nil.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Str("driver", s.Config.Database.Driver).
		Msg("starting server")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server, waiting for in-flight requests until ctx
// expires, then stops the job service and closes the connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if s.Job != nil {
		s.Job.Stop()
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			return fmt.Errorf("failed to close redis connection: %w", err)
		}
	}

	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}
