// Package registry creates and looks up event records. It owns identifier
// assignment: event IDs are derived from the creation parameters, never
// random, so a replayed creation collides instead of double-registering.
package registry

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
	id "showup/pkg/domain"
	dErrors "showup/pkg/domain-errors"
	"showup/pkg/platform/sentinel"
	"showup/pkg/requestcontext"
)

type Service struct {
	store      store.Store
	registryID id.RegistryID
	logger     *slog.Logger
	metrics    *metrics.Metrics
	notifier   notifications.Publisher
	tracer     trace.Tracer
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

func New(st store.Store, registryID id.RegistryID, opts ...Option) *Service {
	s := &Service{
		store:      st,
		registryID: registryID,
		logger:     slog.Default(),
		tracer:     otel.Tracer("showup/internal/registry"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateEventInput struct {
	ScheduledAt time.Time
	Deposit     id.Amount
	Capacity    int
	DataRef     string
}

// CreateEvent registers a new event owned by the calling principal.
// The duplicate check happens inside the store's atomic create-if-absent,
// strictly before any write becomes visible.
func (s *Service) CreateEvent(ctx context.Context, in CreateEventInput) (*models.Event, error) {
	ctx, span := s.tracer.Start(ctx, "registry.CreateEvent")
	defer span.End()
	start := time.Now()

	caller := requestcontext.CallerID(ctx)
	if caller.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	event, err := models.NewEvent(caller, s.registryID, in.ScheduledAt, in.Deposit, in.Capacity, in.DataRef, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("event_id", event.ID.String()))

	if err := s.store.Create(ctx, event); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeDuplicateEvent, "an event with identical parameters already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create event")
	}

	s.logger.InfoContext(ctx, "event created",
		"event_id", event.ID,
		"owner_id", event.OwnerID,
		"scheduled_at", event.ScheduledAt,
		"capacity", event.Capacity,
		"deposit", event.Deposit,
	)
	s.emit(ctx, notifications.EventCreated(event))
	if s.metrics != nil {
		s.metrics.EventsCreated.Inc()
		s.metrics.ObserveOperation("create_event", start)
	}
	return event, nil
}

// GetEvent returns the record at the identifier. Swept events remain
// queryable; there is no deletion.
func (s *Service) GetEvent(ctx context.Context, eventID id.EventID) (*models.Event, error) {
	event, err := s.store.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnknownEvent, "no event at this identifier")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load event")
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
