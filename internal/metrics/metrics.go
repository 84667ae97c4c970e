// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "skill_horizon"

var (
	// SessionsStarted counts quiz sessions created, per quiz.
	SessionsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quiz_sessions_started_total",
			Help:      "Quiz sessions started",
		},
		[]string{"quiz_id"},
	)

	// SessionsCompleted counts completions by final tier.
	SessionsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quiz_sessions_completed_total",
			Help:      "Quiz sessions completed, by tier",
		},
		[]string{"quiz_id", "tier"},
	)

	// AnswersChecked counts locked-in answers by correctness.
	AnswersChecked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quiz_answers_checked_total",
			Help:      "Answers checked, by correctness",
		},
		[]string{"quiz_id", "correct"},
	)

	// GeminiRequests times generative text calls by outcome.
	GeminiRequests = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gemini_request_duration_seconds",
			Help:      "Gemini generateContent latency",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
		[]string{"outcome"},
	)

	// ResumeJobs counts async resume analyses by final status.
	ResumeJobs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resume_jobs_total",
			Help:      "Async resume analysis jobs, by status",
		},
		[]string{"status"},
	)

	// HTTPRequests times API requests by route pattern and status class.
	HTTPRequests = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// StatusClass folds a status code into 2xx/3xx/4xx/5xx to bound label cardinality.
func StatusClass(code int) string {
	if code < 100 || code > 599 {
		return "unknown"
	}
	return strconv.Itoa(code/100) + "xx"
}

// Bool renders a boolean label value.
func Bool(v bool) string {
	return strconv.FormatBool(v)
}
