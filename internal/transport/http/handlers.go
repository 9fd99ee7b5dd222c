// Package httptransport is the thin HTTP layer. Handlers decode, delegate to
// the domain services, and encode; business rules stay out of this package.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"showup/internal/confirmation"
	"showup/internal/event/models"
	"showup/internal/registry"
	id "showup/pkg/domain"
	dErrors "showup/pkg/domain-errors"
	"showup/pkg/platform/httputil"
)

// RegistryService creates and reads event records.
type RegistryService interface {
	CreateEvent(ctx context.Context, in registry.CreateEventInput) (*models.Event, error)
	GetEvent(ctx context.Context, eventID id.EventID) (*models.Event, error)
}

// RSVPService reserves seats with escrowed deposits.
type RSVPService interface {
	RSVP(ctx context.Context, eventID id.EventID, payment id.Amount) (*models.Event, error)
}

// ConfirmationService refunds deposits for attendees who showed up.
type ConfirmationService interface {
	ConfirmAttendee(ctx context.Context, eventID id.EventID, attendee id.PrincipalID) error
	ConfirmAll(ctx context.Context, eventID id.EventID) (*confirmation.BatchResult, error)
}

// SettlementService sweeps unclaimed deposits to the owner.
type SettlementService interface {
	WithdrawUnclaimed(ctx context.Context, eventID id.EventID) (id.Amount, error)
}

type Handler struct {
	logger       *slog.Logger
	registry     RegistryService
	rsvp         RSVPService
	confirmation ConfirmationService
	settlement   SettlementService
}

func NewHandler(
	logger *slog.Logger,
	registrySvc RegistryService,
	rsvpSvc RSVPService,
	confirmationSvc ConfirmationService,
	settlementSvc SettlementService,
) *Handler {
	return &Handler{
		logger:       logger,
		registry:     registrySvc,
		rsvp:         rsvpSvc,
		confirmation: confirmationSvc,
		settlement:   settlementSvc,
	}
}

type createEventRequest struct {
	ScheduledAt time.Time `json:"scheduled_at"`
	Deposit     id.Amount `json:"deposit"`
	Capacity    int       `json:"capacity"`
	DataRef     string    `json:"data_ref,omitempty"`
}

type rsvpRequest struct {
	Payment id.Amount `json:"payment"`
}

type settlementResponse struct {
	EventID id.EventID `json:"event_id"`
	Payout  id.Amount  `json:"payout"`
}

func (h *Handler) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[createEventRequest](w, r, h.logger)
	if !ok {
		return
	}
	if req.ScheduledAt.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "scheduled_at is required"))
		return
	}

	event, err := h.registry.CreateEvent(r.Context(), registry.CreateEventInput{
		ScheduledAt: req.ScheduledAt,
		Deposit:     req.Deposit,
		Capacity:    req.Capacity,
		DataRef:     req.DataRef,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, event)
}

func (h *Handler) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.eventID(w, r)
	if !ok {
		return
	}
	event, err := h.registry.GetEvent(r.Context(), eventID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, event)
}

func (h *Handler) handleRSVP(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.eventID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[rsvpRequest](w, r, h.logger)
	if !ok {
		return
	}

	event, err := h.rsvp.RSVP(r.Context(), eventID, req.Payment)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, event)
}

func (h *Handler) handleConfirmAttendee(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.eventID(w, r)
	if !ok {
		return
	}
	attendee, err := id.ParsePrincipalID(chi.URLParam(r, "attendeeID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.confirmation.ConfirmAttendee(r.Context(), eventID, attendee); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleConfirmAll(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.eventID(w, r)
	if !ok {
		return
	}
	result, err := h.confirmation.ConfirmAll(r.Context(), eventID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleSettlement(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.eventID(w, r)
	if !ok {
		return
	}
	payout, err := h.settlement.WithdrawUnclaimed(r.Context(), eventID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, settlementResponse{EventID: eventID, Payout: payout})
}

func (h *Handler) eventID(w http.ResponseWriter, r *http.Request) (id.EventID, bool) {
	eventID, err := id.ParseEventID(chi.URLParam(r, "eventID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.EventID{}, false
	}
	return eventID, true
}
