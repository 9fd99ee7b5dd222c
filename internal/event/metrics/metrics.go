package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the event lifecycle: creation, RSVP,
// confirmation, and settlement counts plus operation latencies and outward
// transfer failures.
type Metrics struct {
	EventsCreated      prometheus.Counter
	RSVPsRecorded      prometheus.Counter
	AttendeesConfirmed prometheus.Counter
	DepositsSettled    prometheus.Counter
	TransferFailures   *prometheus.CounterVec
	OperationDuration  *prometheus.HistogramVec
}

// New creates and registers all event lifecycle metrics.
func New() *Metrics {
	return &Metrics{
		EventsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "showup_events_created_total",
			Help: "Total number of events created",
		}),
		RSVPsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "showup_rsvps_recorded_total",
			Help: "Total number of RSVPs recorded",
		}),
		AttendeesConfirmed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "showup_attendees_confirmed_total",
			Help: "Total number of attendee deposits refunded via confirmation",
		}),
		DepositsSettled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "showup_deposits_settled_total",
			Help: "Total number of events swept to the organizer",
		}),
		TransferFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "showup_transfer_failures_total",
			Help: "Outward escrow transfers that failed and were rolled back",
		}, []string{"operation"}),
		OperationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "showup_operation_duration_seconds",
			Help:    "Duration of event lifecycle operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

// ObserveOperation records the duration of one lifecycle operation.
// Call with time.Now() captured at the start.
func (m *Metrics) ObserveOperation(operation string, start time.Time) {
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// IncTransferFailure records a rolled-back outward transfer.
func (m *Metrics) IncTransferFailure(operation string) {
	m.TransferFailures.WithLabelValues(operation).Inc()
}
