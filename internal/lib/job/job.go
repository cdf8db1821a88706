// Package job runs background work on Asynq, a Redis-backed task queue.
//
// The API enqueues tasks through JobService.Client; the worker server started
// by JobService.Start consumes them in the same process.
package job

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/go-calendar/internal/config"
	"github.com/deppfellow/go-calendar/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

type JobService struct {
	Client *asynq.Client
	server *asynq.Server
	mailer InvitationMailer
	logger *zerolog.Logger
}

// NewJobService builds the Asynq client and worker server for the Redis
// address in cfg. Ten workers are shared 6/3/1 between the critical, default
// and low queues.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			Logger:   asynqLogger{logger: logger},
			LogLevel: asynq.WarnLevel,
		},
	)

	return &JobService{
		Client: asynq.NewClient(redisOpt),
		server: server,
		logger: logger,
	}
}

// InitHandlers sets up the dependencies of the task handlers.
func (j *JobService) InitHandlers(cfg *config.Config, logger *zerolog.Logger) {
	j.mailer = email.NewClient(cfg, logger)
}

// Mux routes task types to their handlers.
func (j *JobService) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskMeetingInvitation, j.handleMeetingInvitationTask)
	return mux
}

// Start launches the worker server in the background.
func (j *JobService) Start() error {
	if j.mailer == nil {
		return errors.New("job handlers not initialized")
	}

	j.logger.Info().Msg("starting background job server")

	if err := j.server.Start(j.Mux()); err != nil {
		return fmt.Errorf("failed to start job server: %w", err)
	}
	return nil
}

// EnqueueMeetingInvitation queues one invitation email. A duplicate of a task
// that is still pending or retrying is not an error.
func (j *JobService) EnqueueMeetingInvitation(ctx context.Context, p MeetingInvitationPayload) error {
	task, err := NewMeetingInvitationTask(p)
	if err != nil {
		return fmt.Errorf("failed to build meeting invitation task: %w", err)
	}

	info, err := j.Client.EnqueueContext(ctx, task)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("failed to enqueue meeting invitation: %w", err)
	}

	j.logger.Debug().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Msg("enqueued meeting invitation")
	return nil
}

// Stop waits for running tasks and closes the Redis connections.
func (j *JobService) Stop() {
	j.logger.Info().Msg("stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Error().Err(err).Msg("failed to close job client")
	}
}

// asynqLogger routes Asynq's own logs through zerolog.
type asynqLogger struct {
	logger *zerolog.Logger
}

func (l asynqLogger) Debug(args ...any) { l.logger.Debug().Str("component", "asynq").Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...any)  { l.logger.Info().Str("component", "asynq").Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...any)  { l.logger.Warn().Str("component", "asynq").Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...any) { l.logger.Error().Str("component", "asynq").Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Fatal(args ...any) { l.logger.Fatal().Str("component", "asynq").Msg(fmt.Sprint(args...)) }
