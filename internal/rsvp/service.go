// Package rsvp records attendee reservations and escrows their deposits.
package rsvp

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

type Service struct {
	store    store.Store
	treasury treasury.Treasury
	logger   *slog.Logger
	metrics  *metrics.Metrics
	notifier notifications.Publisher
	tracer   trace.Tracer
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

func New(st store.Store, tr treasury.Treasury, opts ...Option) *Service {
	s := &Service{
		store:    st,
		treasury: tr,
		logger:   slog.Default(),
		tracer:   otel.Tracer("showup/internal/rsvp"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RSVP reserves a slot for the calling principal and escrows the payment.
//
// The seat is recorded first, under the store's lock, then the deposit moves
// into escrow. A failed Hold removes the seat again: no attendee ever holds
// a slot without a matching escrowed deposit.
func (s *Service) RSVP(ctx context.Context, eventID id.EventID, payment id.Amount) (*models.Event, error) {
	ctx, span := s.tracer.Start(ctx, "rsvp.RSVP",
		trace.WithAttributes(attribute.String("event_id", eventID.String())))
	defer span.End()
	start := time.Now()

	attendee := requestcontext.CallerID(ctx)
	if attendee.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	now := requestcontext.Now(ctx)

	event, err := s.store.Execute(ctx, eventID,
		func(ev *models.Event) error { return ev.CanRSVP(attendee, payment, now) },
		func(ev *models.Event) { ev.ApplyRSVP(attendee, now) },
	)
	if err != nil {
		return nil, translateStoreErr(err, "failed to record RSVP")
	}

	if err := s.treasury.Hold(ctx, eventID, attendee, payment); err != nil {
		s.logger.ErrorContext(ctx, "deposit escrow failed, releasing seat",
			"event_id", eventID,
			"attendee_id", attendee,
			"error", err,
		)
		if _, rbErr := s.store.Execute(ctx, eventID,
			func(*models.Event) error { return nil },
			func(ev *models.Event) { ev.RollbackRSVP(attendee, now) },
		); rbErr != nil {
			s.logger.ErrorContext(ctx, "RSVP rollback failed", "event_id", eventID, "error", rbErr)
		}
		if s.metrics != nil {
			s.metrics.IncTransferFailure("rsvp")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeTransferFailed, "deposit could not be escrowed")
	}

	s.logger.InfoContext(ctx, "RSVP recorded",
		"event_id", eventID,
		"attendee_id", attendee,
		"deposit", payment,
	)
	s.emit(ctx, notifications.RSVPRecorded(eventID, attendee))
	if s.metrics != nil {
		s.metrics.RSVPsRecorded.Inc()
		s.metrics.ObserveOperation("rsvp", start)
	}
	return event, nil
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

// translateStoreErr maps store failures for callers: unknown event gets its
// domain code, validate errors pass through coded, anything else is internal.
func translateStoreErr(err error, internalMsg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeUnknownEvent, "no event at this identifier")
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, internalMsg)
}
