package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bot metrics on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	MailboxesCreated     prometheus.Counter
	MailboxesDeleted     prometheus.Counter
	MailboxesPurged      prometheus.Counter
	MailboxesTracked     prometheus.Gauge
	ProviderFailures     *prometheus.CounterVec
	RemoteDeleteFailures prometheus.Counter
	OperationErrors      *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		MailboxesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "tempmail_mailboxes_created_total",
			Help: "Total number of mailboxes created",
		}),
		MailboxesDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "tempmail_mailboxes_deleted_total",
			Help: "Total number of mailboxes deleted by users",
		}),
		MailboxesPurged: factory.NewCounter(prometheus.CounterOpts{
			Name: "tempmail_mailboxes_purged_total",
			Help: "Total number of mailboxes removed by the retention sweep",
		}),
		MailboxesTracked: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tempmail_mailboxes_tracked",
			Help: "Mailboxes tracked locally at the last stats or cleanup run",
		}),
		ProviderFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tempmail_provider_failures_total",
			Help: "Provider calls that returned no result",
		}, []string{"operation"}),
		RemoteDeleteFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "tempmail_remote_delete_failures_total",
			Help: "Best-effort provider deletions that failed or were skipped",
		}),
		OperationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tempmail_operation_errors_total",
			Help: "Bridge operations that ended with an error",
		}, []string{"operation", "reason"}),
	}
}

// Handler returns the /metrics handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// MailboxCreated records a created mailbox
func (m *Metrics) MailboxCreated() {
	if m == nil {
		return
	}
	m.MailboxesCreated.Inc()
}

// MailboxDeleted records a user deletion and whether the remote part failed
func (m *Metrics) MailboxDeleted(remoteOK bool) {
	if m == nil {
		return
	}
	m.MailboxesDeleted.Inc()
	if !remoteOK {
		m.RemoteDeleteFailures.Inc()
	}
}

// MailboxesRemoved records a retention sweep
func (m *Metrics) MailboxesRemoved(n int64) {
	if m == nil {
		return
	}
	m.MailboxesPurged.Add(float64(n))
}

// Tracked sets the number of locally tracked mailboxes
func (m *Metrics) Tracked(n int64) {
	if m == nil {
		return
	}
	m.MailboxesTracked.Set(float64(n))
}

// ProviderFailure records a provider call without result
func (m *Metrics) ProviderFailure(operation string) {
	if m == nil {
		return
	}
	m.ProviderFailures.WithLabelValues(operation).Inc()
}

// OperationError records a failed bridge operation
func (m *Metrics) OperationError(operation, reason string) {
	if m == nil {
		return
	}
	m.OperationErrors.WithLabelValues(operation, reason).Inc()
}
