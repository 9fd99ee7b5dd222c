// Package settlement sweeps unclaimed deposits to the event owner once the
// post-event grace period has elapsed.
package settlement

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"showup/internal/event/metrics"
	"showup/internal/event/models"
	"showup/internal/event/store"
	"showup/internal/notifications"
	"showup/internal/treasury"
	id "showup/pkg/domain"
	dErrors "showup/pkg/domain-errors"
	"showup/pkg/platform/sentinel"
	"showup/pkg/requestcontext"
)

// DefaultGracePeriod is how long after the scheduled time attendees keep
// the benefit of the doubt before the owner may sweep.
const DefaultGracePeriod = 7 * 24 * time.Hour

type Service struct {
	store       store.Store
	treasury    treasury.Treasury
	gracePeriod time.Duration
	logger      *slog.Logger
	metrics     *metrics.Metrics
	notifier    notifications.Publisher
	tracer      trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithNotifier(p notifications.Publisher) Option {
	return func(s *Service) { s.notifier = p }
}

// WithGracePeriod overrides the sweep delay. Zero or negative values are
// ignored.
func WithGracePeriod(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.gracePeriod = d
		}
	}
}

func New(st store.Store, tr treasury.Treasury, opts ...Option) *Service {
	s := &Service{
		store:       st,
		treasury:    tr,
		gracePeriod: DefaultGracePeriod,
		logger:      slog.Default(),
		tracer:      otel.Tracer("showup/internal/settlement"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithdrawUnclaimed sweeps every still-escrowed deposit to the event owner
// and returns the amount transferred. The sweep is all-or-nothing and
// terminal: the paid-out flag is set under the store's lock before funds
// move, so a reentrant sweep fails the already-paid-out check. A failed
// transfer clears the flag again, leaving the sweep retryable.
func (s *Service) WithdrawUnclaimed(ctx context.Context, eventID id.EventID) (id.Amount, error) {
	ctx, span := s.tracer.Start(ctx, "settlement.WithdrawUnclaimed",
		trace.WithAttributes(attribute.String("event_id", eventID.String())))
	defer span.End()
	start := time.Now()

	caller := requestcontext.CallerID(ctx)
	if caller.IsNil() {
		return 0, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	now := requestcontext.Now(ctx)

	var payout id.Amount
	event, err := s.store.Execute(ctx, eventID,
		func(ev *models.Event) error {
			if err := ev.CanSettle(now, s.gracePeriod); err != nil {
				return err
			}
			if ev.OwnerID != caller {
				return dErrors.New(dErrors.CodeNotAuthorized, "only the event owner may withdraw")
			}
			return nil
		},
		func(ev *models.Event) {
			payout = ev.Payout()
			ev.ApplySettlement(now)
		},
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return 0, dErrors.New(dErrors.CodeUnknownEvent, "no event at this identifier")
		}
		var de *dErrors.Error
		if errors.As(err, &de) {
			return 0, err
		}
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to settle event")
	}

	if err := s.treasury.Release(ctx, eventID, event.OwnerID, payout); err != nil {
		s.logger.ErrorContext(ctx, "sweep transfer failed, reopening event",
			"event_id", eventID,
			"payout", payout,
			"error", err,
		)
		if _, rbErr := s.store.Execute(ctx, eventID,
			func(*models.Event) error { return nil },
			func(ev *models.Event) { ev.RollbackSettlement(now) },
		); rbErr != nil {
			s.logger.ErrorContext(ctx, "settlement rollback failed", "event_id", eventID, "error", rbErr)
		}
		if s.metrics != nil {
			s.metrics.IncTransferFailure("sweep")
		}
		return 0, dErrors.Wrap(err, dErrors.CodeTransferFailed, "sweep transfer failed")
	}

	s.logger.InfoContext(ctx, "deposits settled",
		"event_id", eventID,
		"owner_id", event.OwnerID,
		"payout", payout,
	)
	s.emit(ctx, notifications.DepositsSettled(eventID, payout))
	if s.metrics != nil {
		s.metrics.DepositsSettled.Inc()
		s.metrics.ObserveOperation("sweep", start)
	}
	return payout, nil
}

func (s *Service) emit(ctx context.Context, n notifications.Notification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, n); err != nil {
		s.logger.ErrorContext(ctx, "notification publish failed",
			"kind", n.Kind,
			"event_id", n.EventID,
			"error", err,
		)
	}
}
