package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ChangeFeedMetrics records counters for the institution change feed.
type ChangeFeedMetrics struct {
	published *prometheus.CounterVec
	failed    *prometheus.CounterVec
	delivered *prometheus.CounterVec
	dropped   *prometheus.CounterVec
}

// NewChangeFeedMetrics registers the change feed metrics on the provided registerer.
func NewChangeFeedMetrics(reg prometheus.Registerer) *ChangeFeedMetrics {
	if reg == nil {
		return &ChangeFeedMetrics{}
	}
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "changefeed_events_published",
		Help: "Change events successfully published to Pub/Sub.",
	}, []string{"action"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "changefeed_publish_failures",
		Help: "Change event publishes that returned an error.",
	}, []string{"action"})
	delivered := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "changefeed_events_delivered",
		Help: "Change events fanned out to stream subscribers.",
	}, []string{"stream"})
	dropped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "changefeed_events_dropped",
		Help: "Change events dropped because a subscriber was too slow.",
	}, []string{"stream"})
	reg.MustRegister(published, failed, delivered, dropped)
	return &ChangeFeedMetrics{
		published: published,
		failed:    failed,
		delivered: delivered,
		dropped:   dropped,
	}
}

// IncPublished increments the published counter for the given action.
func (c *ChangeFeedMetrics) IncPublished(action string) {
	if c == nil || c.published == nil {
		return
	}
	c.published.WithLabelValues(normalizeLabel(action)).Inc()
}

// IncPublishFailure increments the publish failure counter for the given action.
func (c *ChangeFeedMetrics) IncPublishFailure(action string) {
	if c == nil || c.failed == nil {
		return
	}
	c.failed.WithLabelValues(normalizeLabel(action)).Inc()
}

// IncDelivered increments the delivered counter for the named stream.
func (c *ChangeFeedMetrics) IncDelivered(stream string) {
	if c == nil || c.delivered == nil {
		return
	}
	c.delivered.WithLabelValues(normalizeLabel(stream)).Inc()
}

// IncDropped increments the dropped counter for the named stream.
func (c *ChangeFeedMetrics) IncDropped(stream string) {
	if c == nil || c.dropped == nil {
		return
	}
	c.dropped.WithLabelValues(normalizeLabel(stream)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
