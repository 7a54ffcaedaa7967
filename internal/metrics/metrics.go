// Package metrics defines the Prometheus instrumentation for the interview
// pipeline and its HTTP surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the interview service.
type Metrics struct {
	// Session lifecycle
	SessionsStarted prometheus.Counter
	SessionsFailed  prometheus.Counter
	ActiveSessions  prometheus.Gauge

	// Question generation and synthesis
	QuestionsGenerated prometheus.Counter
	SynthesisDuration  prometheus.Histogram

	// Answer intake
	AnswersSubmitted      *prometheus.CounterVec
	NormalizeDuration     prometheus.Histogram
	TranscriptionRequests prometheus.Counter
	TranscriptionFailures prometheus.Counter
	TranscriptionDuration prometheus.Histogram

	// Analysis
	Analyses         *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram

	// HTTP API
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates the metric set registered against reg. Tests pass a fresh
// prometheus.NewRegistry so repeated construction does not collide.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SessionsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "interview_sessions_started_total",
			Help: "Total number of interview sessions started",
		}),
		SessionsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "interview_sessions_failed_total",
			Help: "Total number of sessions that ended in the failed state",
		}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "interview_active_sessions",
			Help: "Current number of live sessions",
		}),

		QuestionsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "interview_questions_generated_total",
			Help: "Total number of interview questions generated",
		}),
		SynthesisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "interview_synthesis_duration_seconds",
			Help:    "Duration of question audio synthesis calls",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~2 minutes
		}),

		AnswersSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "interview_answers_submitted_total",
			Help: "Total number of answer submissions by outcome",
		}, []string{"status"}),
		NormalizeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "interview_normalize_duration_seconds",
			Help:    "Duration of answer audio normalization",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		}),
		TranscriptionRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "interview_transcription_requests_total",
			Help: "Total number of transcription requests sent",
		}),
		TranscriptionFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "interview_transcription_failures_total",
			Help: "Total number of failed transcription requests",
		}),
		TranscriptionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "interview_transcription_duration_seconds",
			Help:    "Duration of transcription requests",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),

		Analyses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "interview_analyses_total",
			Help: "Total number of analysis runs by outcome",
		}, []string{"status"}),
		AnalysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "interview_analysis_duration_seconds",
			Help:    "Duration of analyst calls",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "interview_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "interview_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
	}
}

// RecordSessionStarted increments the sessions started counter.
func (m *Metrics) RecordSessionStarted() {
	m.SessionsStarted.Inc()
}

// RecordSessionFailed increments the failed sessions counter.
func (m *Metrics) RecordSessionFailed() {
	m.SessionsFailed.Inc()
}

// SetActiveSessions sets the live session gauge.
func (m *Metrics) SetActiveSessions(count int) {
	m.ActiveSessions.Set(float64(count))
}

// RecordQuestionsGenerated adds to the generated question counter.
func (m *Metrics) RecordQuestionsGenerated(count int) {
	m.QuestionsGenerated.Add(float64(count))
}

// RecordSynthesis records one synthesis call.
func (m *Metrics) RecordSynthesis(durationSeconds float64) {
	m.SynthesisDuration.Observe(durationSeconds)
}

// RecordAnswerSubmitted counts one answer submission with its outcome label.
func (m *Metrics) RecordAnswerSubmitted(status string) {
	m.AnswersSubmitted.WithLabelValues(status).Inc()
}

// RecordNormalization records one normalization pass over submitted audio.
func (m *Metrics) RecordNormalization(durationSeconds float64) {
	m.NormalizeDuration.Observe(durationSeconds)
}

// RecordTranscription records one transcription call and its outcome.
func (m *Metrics) RecordTranscription(success bool, durationSeconds float64) {
	m.TranscriptionRequests.Inc()
	if !success {
		m.TranscriptionFailures.Inc()
	}
	m.TranscriptionDuration.Observe(durationSeconds)
}

// RecordAnalysis records one analysis run with its outcome label.
func (m *Metrics) RecordAnalysis(status string, durationSeconds float64) {
	m.Analyses.WithLabelValues(status).Inc()
	m.AnalysisDuration.Observe(durationSeconds)
}

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, durationSeconds float64) {
	m.HTTPRequests.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}
