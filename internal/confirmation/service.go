// Package confirmation refunds attendee deposits at the organizer's
// direction, one attendee at a time or for a whole event in a single call.
package confirmation

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
		tracer:   otel.Tracer("showup/internal/confirmation"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ConfirmAttendee marks one attendance and refunds that attendee's deposit.
// Only the event owner may confirm.
//
// The claim is recorded under the store's lock before the refund leaves
// escrow, so a reentrant confirmation for the same attendee fails the
// already-claimed check instead of double-releasing. A failed refund rolls
// the claim back.
func (s *Service) ConfirmAttendee(ctx context.Context, eventID id.EventID, attendee id.PrincipalID) error {
	ctx, span := s.tracer.Start(ctx, "confirmation.ConfirmAttendee",
		trace.WithAttributes(
			attribute.String("event_id", eventID.String()),
			attribute.String("attendee_id", attendee.String()),
		))
	defer span.End()
	start := time.Now()

	caller := requestcontext.CallerID(ctx)
	if caller.IsNil() {
		return dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	now := requestcontext.Now(ctx)

	event, err := s.store.Execute(ctx, eventID,
		func(ev *models.Event) error {
			if ev.OwnerID != caller {
				return dErrors.New(dErrors.CodeNotAuthorized, "only the event owner may confirm attendance")
			}
			return ev.CanConfirm(attendee)
		},
		func(ev *models.Event) { ev.ApplyConfirm(attendee, now) },
	)
	if err != nil {
		return translateStoreErr(err, "failed to record confirmation")
	}

	if err := s.treasury.Release(ctx, eventID, attendee, event.Deposit); err != nil {
		s.logger.ErrorContext(ctx, "deposit refund failed, rolling back claim",
			"event_id", eventID,
			"attendee_id", attendee,
			"error", err,
		)
		if _, rbErr := s.store.Execute(ctx, eventID,
			func(*models.Event) error { return nil },
			func(ev *models.Event) { ev.RollbackConfirm(attendee, now) },
		); rbErr != nil {
			s.logger.ErrorContext(ctx, "confirmation rollback failed", "event_id", eventID, "error", rbErr)
		}
		if s.metrics != nil {
			s.metrics.IncTransferFailure("confirm")
		}
		return dErrors.Wrap(err, dErrors.CodeTransferFailed, "deposit refund failed")
	}

	s.logger.InfoContext(ctx, "attendee confirmed",
		"event_id", eventID,
		"attendee_id", attendee,
		"refund", event.Deposit,
	)
	s.emit(ctx, notifications.AttendeeConfirmed(eventID, attendee))
	if s.metrics != nil {
		s.metrics.AttendeesConfirmed.Inc()
		s.metrics.ObserveOperation("confirm", start)
	}
	return nil
}

// BatchFailure is one attendee whose confirmation did not complete.
type BatchFailure struct {
	AttendeeID id.PrincipalID `json:"attendee_id"`
	Code       dErrors.Code   `json:"code"`
	Message    string         `json:"message"`
}

// BatchResult reports the outcome of a whole-event confirmation.
type BatchResult struct {
	Confirmed []id.PrincipalID `json:"confirmed"`
	Failed    []BatchFailure   `json:"failed,omitempty"`
}

// ConfirmAll confirms every attendee with an unclaimed RSVP, best effort.
// Each attendee is a full single confirmation, so a failure mid-batch never
// strands earlier refunds; failures are reported per attendee and do not
// abort the batch.
func (s *Service) ConfirmAll(ctx context.Context, eventID id.EventID) (*BatchResult, error) {
	ctx, span := s.tracer.Start(ctx, "confirmation.ConfirmAll",
		trace.WithAttributes(attribute.String("event_id", eventID.String())))
	defer span.End()
	start := time.Now()

	caller := requestcontext.CallerID(ctx)
	if caller.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	snapshot, err := s.store.FindByID(ctx, eventID)
	if err != nil {
		return nil, translateStoreErr(err, "failed to load event")
	}
	if snapshot.OwnerID != caller {
		return nil, dErrors.New(dErrors.CodeNotAuthorized, "only the event owner may confirm attendance")
	}

	result := &BatchResult{Confirmed: make([]id.PrincipalID, 0, len(snapshot.Confirmed))}
	for _, attendee := range snapshot.Confirmed {
		if snapshot.IsClaimed(attendee) {
			continue
		}
		if err := s.ConfirmAttendee(ctx, eventID, attendee); err != nil {
			result.Failed = append(result.Failed, BatchFailure{
				AttendeeID: attendee,
				Code:       dErrors.CodeOf(err),
				Message:    dErrors.MessageOf(err),
			})
			continue
		}
		result.Confirmed = append(result.Confirmed, attendee)
	}

	if s.metrics != nil {
		s.metrics.ObserveOperation("confirm_all", start)
	}
	return result, nil
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
