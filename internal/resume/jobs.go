package resume

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/skill-horizon/internal/jobs"
	"github.com/gokatarajesh/skill-horizon/internal/metrics"
	"github.com/gokatarajesh/skill-horizon/internal/resume/gemini"
)

// TaskAnalyze is the asynq task type for background resume analysis.
const TaskAnalyze = "resume:analyze"

const (
	defaultResultTTL = 24 * time.Hour
	defaultMaxRetry  = 3
	taskTimeout      = 2 * time.Minute
)

// JobStatus is the lifecycle of an async analysis.
type JobStatus string

const (
	StatusPending JobStatus = "pending"
	StatusDone    JobStatus = "done"
	StatusFailed  JobStatus = "failed"
)

var (
	// ErrJobNotFound is returned for unknown or expired job ids.
	ErrJobNotFound = errors.New("analysis job not found")
	// ErrEnqueue wraps queue failures.
	ErrEnqueue = errors.New("enqueue analysis job")
)

// Job is the externally visible state of an async analysis.
type Job struct {
	ID        string       `json:"job_id"`
	Status    JobStatus    `json:"status"`
	Analysis  *Analysis    `json:"analysis,omitempty"`
	Match     *MatchResult `json:"match,omitempty"`
	Error     string       `json:"error,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// JobStore keeps job state in Redis until the result TTL lapses.
type JobStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewJobStore(client *redis.Client, ttl time.Duration) *JobStore {
	if ttl <= 0 {
		ttl = defaultResultTTL
	}
	return &JobStore{client: client, ttl: ttl}
}

func jobKey(id string) string {
	return "resume:job:" + id
}

// Get loads a job by id.
func (s *JobStore) Get(ctx context.Context, id string) (Job, error) {
	data, err := s.client.Get(ctx, jobKey(id)).Bytes()
	if err == redis.Nil {
		return Job{}, ErrJobNotFound
	}
	if err != nil {
		return Job{}, fmt.Errorf("load job: %w", err)
	}
	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return Job{}, fmt.Errorf("decode job: %w", err)
	}
	return job, nil
}

// Put writes a job, refreshing its TTL.
func (s *JobStore) Put(ctx context.Context, job Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, jobKey(job.ID), data, s.ttl).Err()
}

type analyzePayload struct {
	JobID string `json:"job_id"`
	Text  string `json:"text"`
}

type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// JobQueue submits analyses to the background worker.
type JobQueue struct {
	store    *JobStore
	enqueuer taskEnqueuer
	maxRetry int
	logger   zerolog.Logger
	now      func() time.Time
	taskID   func(context.Context) (string, bool)
}

func NewJobQueue(store *JobStore, enqueuer taskEnqueuer, maxRetry int, logger zerolog.Logger) *JobQueue {
	if maxRetry < 0 {
		maxRetry = defaultMaxRetry
	}
	return &JobQueue{
		store:    store,
		enqueuer: enqueuer,
		maxRetry: maxRetry,
		logger:   logger.With().Str("component", "resume_jobs").Logger(),
		now:      time.Now,
		taskID:   asynq.GetTaskID,
	}
}

// Submit records a pending job and enqueues it.
func (q *JobQueue) Submit(ctx context.Context, text string) (Job, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Job{}, ErrEmptyResume
	}
	if len(text) > maxResumeBytes {
		return Job{}, ErrResumeTooLarge
	}

	now := q.now().UTC()
	job := Job{ID: uuid.NewString(), Status: StatusPending, CreatedAt: now, UpdatedAt: now}
	if err := q.store.Put(ctx, job); err != nil {
		return Job{}, fmt.Errorf("save job: %w", err)
	}

	payload, err := json.Marshal(analyzePayload{JobID: job.ID, Text: text})
	if err != nil {
		return Job{}, err
	}
	info, err := q.enqueuer.EnqueueContext(ctx, asynq.NewTask(TaskAnalyze, payload),
		asynq.TaskID(job.ID),
		asynq.Queue(jobs.QueueDefault),
		asynq.MaxRetry(q.maxRetry),
		asynq.Timeout(taskTimeout),
	)
	if err != nil {
		job.Status, job.Error, job.UpdatedAt = StatusFailed, "could not queue analysis", q.now().UTC()
		if putErr := q.store.Put(ctx, job); putErr != nil {
			q.logger.Warn().Err(putErr).Str("job_id", job.ID).Msg("mark job failed")
		}
		return Job{}, fmt.Errorf("%w: %v", ErrEnqueue, err)
	}

	metrics.ResumeJobs.WithLabelValues("enqueued").Inc()
	q.logger.Info().Str("job_id", job.ID).Str("queue", info.Queue).Msg("analysis queued")
	return job, nil
}

// Get returns the current state of a job.
func (q *JobQueue) Get(ctx context.Context, id string) (Job, error) {
	return q.store.Get(ctx, id)
}

type resumeAnalyzer interface {
	Analyze(ctx context.Context, text string) (Analysis, error)
}

// Worker handles TaskAnalyze tasks.
type Worker struct {
	analyzer resumeAnalyzer
	store    *JobStore
	logger   zerolog.Logger
	now      func() time.Time
}

func NewWorker(analyzer resumeAnalyzer, store *JobStore, logger zerolog.Logger) *Worker {
	return &Worker{
		analyzer: analyzer,
		store:    store,
		logger:   logger.With().Str("component", "resume_worker").Logger(),
		now:      time.Now,
	}
}

var _ asynq.Handler = (*Worker)(nil)

// ProcessTask runs one analysis. Transient failures are returned for asynq to retry;
// the job is marked failed only on the last attempt or when retrying cannot help.
func (w *Worker) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload analyzePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		w.failMalformed(ctx)
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}

	job, err := w.store.Get(ctx, payload.JobID)
	if errors.Is(err, ErrJobNotFound) {
		w.logger.Warn().Str("job_id", payload.JobID).Msg("job expired before processing")
		return nil
	}
	if err != nil {
		return err
	}

	analysis, err := w.analyzer.Analyze(ctx, payload.Text)
	if err != nil {
		permanent := errors.Is(err, ErrEmptyResume) ||
			errors.Is(err, ErrResumeTooLarge) ||
			errors.Is(err, gemini.ErrNotConfigured)
		if permanent || lastAttempt(ctx) {
			job.Status, job.Error, job.UpdatedAt = StatusFailed, failureMessage(err), w.now().UTC()
			if putErr := w.store.Put(ctx, job); putErr != nil {
				return putErr
			}
			metrics.ResumeJobs.WithLabelValues(string(StatusFailed)).Inc()
		}
		if permanent {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return err
	}

	match := Match(analysis)
	job.Status, job.Analysis, job.Match, job.Error, job.UpdatedAt = StatusDone, &analysis, &match, "", w.now().UTC()
	if err := w.store.Put(ctx, job); err != nil {
		return fmt.Errorf("save job result: %w", err)
	}
	metrics.ResumeJobs.WithLabelValues(string(StatusDone)).Inc()
	w.logger.Info().Str("job_id", job.ID).Int("skills", len(analysis.Skills)).Msg("analysis done")
	return nil
}

// failMalformed marks the job behind an undecodable task as failed.
// Submit uses the job id as the task id, so the job can still be found.
func (w *Worker) failMalformed(ctx context.Context) {
	id, ok := w.taskID(ctx)
	if !ok {
		w.logger.Warn().Msg("undecodable task without task id")
		return
	}
	job, err := w.store.Get(ctx, id)
	if err != nil {
		w.logger.Warn().Err(err).Str("job_id", id).Msg("undecodable task has no job")
		return
	}
	job.Status, job.Error, job.UpdatedAt = StatusFailed, "malformed task payload", w.now().UTC()
	if err := w.store.Put(ctx, job); err != nil {
		w.logger.Error().Err(err).Str("job_id", id).Msg("mark malformed job failed")
		return
	}
	metrics.ResumeJobs.WithLabelValues(string(StatusFailed)).Inc()
}

func lastAttempt(ctx context.Context) bool {
	retried, ok := asynq.GetRetryCount(ctx)
	if !ok {
		return true
	}
	maxRetry, ok := asynq.GetMaxRetry(ctx)
	if !ok {
		return true
	}
	return retried >= maxRetry
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, ErrEmptyResume):
		return ErrEmptyResume.Error()
	case errors.Is(err, ErrResumeTooLarge):
		return ErrResumeTooLarge.Error()
	case errors.Is(err, gemini.ErrNotConfigured):
		return "resume analysis is not available"
	default:
		return "failed to analyze resume, please try again"
	}
}
