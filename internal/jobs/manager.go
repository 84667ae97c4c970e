// Package jobs runs the asynq client and worker shared by background tasks.
package jobs

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Queue names, highest priority first.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// Config tunes the worker side.
type Config struct {
	Concurrency int
}

// Manager owns the asynq client, server and handler mux.
type Manager struct {
	client *asynq.Client
	server *asynq.Server
	mux    *asynq.ServeMux
	logger zerolog.Logger
}

// NewManager connects to Redis through redisOpt. Nothing runs until Start.
func NewManager(redisOpt asynq.RedisConnOpt, cfg Config, logger zerolog.Logger) *Manager {
	logger = logger.With().Str("component", "jobs").Logger()
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues: map[string]int{
			QueueCritical: 6,
			QueueDefault:  3,
			QueueLow:      1,
		},
		ErrorHandler: ErrorHandler(logger),
		Logger:       NewLogger(logger),
	})

	return &Manager{
		client: asynq.NewClient(redisOpt),
		server: server,
		mux:    asynq.NewServeMux(),
		logger: logger,
	}
}

// Client exposes the enqueuing side.
func (m *Manager) Client() *asynq.Client {
	return m.client
}

// Handle registers the handler for a task type. Call before Start.
func (m *Manager) Handle(taskType string, handler asynq.Handler) {
	m.mux.Handle(taskType, handler)
}

// Start launches the worker pool in the background.
func (m *Manager) Start() error {
	m.logger.Info().Msg("starting job worker")
	if err := m.server.Start(m.mux); err != nil {
		return fmt.Errorf("start job worker: %w", err)
	}
	return nil
}

// Shutdown waits for in-flight tasks and closes the client.
func (m *Manager) Shutdown() {
	m.logger.Info().Msg("stopping job worker")
	m.server.Shutdown()
	if err := m.client.Close(); err != nil {
		m.logger.Warn().Err(err).Msg("close job client")
	}
}

// ErrorHandler logs every failed task attempt.
func ErrorHandler(logger zerolog.Logger) asynq.ErrorHandler {
	return asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
		retried, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)
		taskID, _ := asynq.GetTaskID(ctx)
		logger.Error().
			Err(err).
			Str("task_type", task.Type()).
			Str("task_id", taskID).
			Int("retried", retried).
			Int("max_retry", maxRetry).
			Msg("job failed")
	})
}

// Logger adapts zerolog to asynq's logger interface.
type Logger struct {
	logger zerolog.Logger
}

func NewLogger(logger zerolog.Logger) *Logger {
	return &Logger{logger: logger}
}

func (l *Logger) Debug(args ...interface{}) { l.logger.Debug().Msg(fmt.Sprint(args...)) }
func (l *Logger) Info(args ...interface{})  { l.logger.Info().Msg(fmt.Sprint(args...)) }
func (l *Logger) Warn(args ...interface{})  { l.logger.Warn().Msg(fmt.Sprint(args...)) }
func (l *Logger) Error(args ...interface{}) { l.logger.Error().Msg(fmt.Sprint(args...)) }

// Fatal logs at error level; asynq exits on its own after calling it.
func (l *Logger) Fatal(args ...interface{}) { l.logger.Error().Msg(fmt.Sprint(args...)) }

var _ asynq.Logger = (*Logger)(nil)
