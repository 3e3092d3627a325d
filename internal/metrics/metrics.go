// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector is the metrics recording interface used by the
// engagement engines and handlers.
type MetricsCollector interface {
	RecordCommentAccepted(targetKind string)
	RecordCommentRejected(reason string)
	RecordReactionToggle(action string, reactionKind string)
	RecordReactionConflictRetry()
	RecordPurgedAttachments(count int64)
	RecordHTTPStatus(statusCode int)
}

// Collector is the Prometheus-backed implementation.
type Collector struct {
	commentsAccepted      *prometheus.CounterVec
	commentsRejected      *prometheus.CounterVec
	reactionToggles       *prometheus.CounterVec
	reactionConflictRetry prometheus.Counter
	purgedAttachments     prometheus.Counter
	httpStatus            *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with the
// given registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		commentsAccepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vaahaka_comments_accepted_total",
			Help: "Accepted comment submissions, by target kind",
		}, []string{"target_kind"}),
		commentsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vaahaka_comments_rejected_total",
			Help: "Rejected comment submissions, by reason",
		}, []string{"reason"}),
		reactionToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vaahaka_reaction_toggles_total",
			Help: "Reaction toggle outcomes, by action and reaction kind",
		}, []string{"action", "reaction_kind"}),
		reactionConflictRetry: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vaahaka_reaction_conflict_retries_total",
			Help: "Toggle inserts that lost a race and were retried as deletes",
		}),
		purgedAttachments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vaahaka_purged_attachments_total",
			Help: "Comments and reactions removed by target purges",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vaahaka_http_status_total",
			Help: "Responses by HTTP status code",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.commentsAccepted,
		c.commentsRejected,
		c.reactionToggles,
		c.reactionConflictRetry,
		c.purgedAttachments,
		c.httpStatus,
	)

	return c
}

// RecordCommentAccepted counts an accepted comment submission.
func (c *Collector) RecordCommentAccepted(targetKind string) {
	c.commentsAccepted.WithLabelValues(targetKind).Inc()
}

// RecordCommentRejected counts a rejected comment submission.
func (c *Collector) RecordCommentRejected(reason string) {
	c.commentsRejected.WithLabelValues(reason).Inc()
}

// RecordReactionToggle counts a completed toggle by outcome.
func (c *Collector) RecordReactionToggle(action string, reactionKind string) {
	c.reactionToggles.WithLabelValues(action, reactionKind).Inc()
}

// RecordReactionConflictRetry counts an insert race resolved by retry.
func (c *Collector) RecordReactionConflictRetry() {
	c.reactionConflictRetry.Inc()
}

// RecordPurgedAttachments counts rows removed by a purge cascade.
func (c *Collector) RecordPurgedAttachments(count int64) {
	c.purgedAttachments.Add(float64(count))
}

// RecordHTTPStatus counts a response by status code.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute returns an HTTP handler serving /metrics.
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
