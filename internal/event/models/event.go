package models

import (
	"slices"
	"time"

	id "showup/pkg/domain"
	dErrors "showup/pkg/domain-errors"
)

// Event is the aggregate root for an escrowed-attendance event.
//
// Invariants:
//   - Claimed is always a subset of Confirmed
//   - len(Confirmed) never exceeds Capacity
//   - a principal appears at most once in Confirmed and at most once in Claimed
//   - Deposit and Capacity are immutable after construction
//   - once PaidOut is true no further deposit may leave escrow
//
// Stores run the Can*/Apply* pairs under a single lock (mutex in memory,
// row lock in Postgres) so validation and mutation are one atomic unit.
// The Rollback* methods are compensations for a failed outward transfer:
// bookkeeping is updated strictly before funds move, and undone if the move
// fails.
type Event struct {
	ID          id.EventID       `json:"id"`
	OwnerID     id.PrincipalID   `json:"owner_id"`
	DataRef     string           `json:"data_ref"`
	ScheduledAt time.Time        `json:"scheduled_at"`
	Deposit     id.Amount        `json:"deposit"`
	Capacity    int              `json:"capacity"`
	Confirmed   []id.PrincipalID `json:"confirmed"`
	Claimed     []id.PrincipalID `json:"claimed"`
	PaidOut     bool             `json:"paid_out"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// NewEvent constructs an event with a deterministically derived ID.
// DataRef is an opaque content reference and is stored uninterpreted.
func NewEvent(owner id.PrincipalID, registry id.RegistryID, scheduledAt time.Time, deposit id.Amount, capacity int, dataRef string, now time.Time) (*Event, error) {
	if owner.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "owner is required")
	}
	if capacity < 1 {
		return nil, dErrors.New(dErrors.CodeValidation, "capacity must be at least 1")
	}
	if deposit < 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "deposit must not be negative")
	}
	return &Event{
		ID:          id.DeriveEventID(owner, registry, scheduledAt, deposit, capacity),
		OwnerID:     owner,
		DataRef:     dataRef,
		ScheduledAt: scheduledAt.UTC(),
		Deposit:     deposit,
		Capacity:    capacity,
		PaidOut:     false,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}, nil
}

// IsConfirmed reports whether the principal holds a confirmed RSVP.
// Linear scan is fine: Capacity bounds the list.
func (e *Event) IsConfirmed(p id.PrincipalID) bool {
	return slices.Contains(e.Confirmed, p)
}

// IsClaimed reports whether the principal's deposit has been released.
func (e *Event) IsClaimed(p id.PrincipalID) bool {
	return slices.Contains(e.Claimed, p)
}

// CanRSVP checks every RSVP precondition against the current state.
// Check order matches the public contract: deposit exactness, then timing,
// then capacity, then duplicate membership.
func (e *Event) CanRSVP(attendee id.PrincipalID, payment id.Amount, now time.Time) error {
	if payment != e.Deposit {
		return dErrors.New(dErrors.CodeInsufficientDeposit, "payment must equal the event deposit exactly")
	}
	if now.After(e.ScheduledAt) {
		return dErrors.New(dErrors.CodeEventAlreadyOccurred, "event has already occurred")
	}
	if len(e.Confirmed) >= e.Capacity {
		return dErrors.New(dErrors.CodeEventFull, "event is at capacity")
	}
	if e.IsConfirmed(attendee) {
		return dErrors.New(dErrors.CodeAlreadyRsvped, "attendee has already RSVPed")
	}
	return nil
}

// ApplyRSVP records the attendee. RSVP order is preserved: appends only.
func (e *Event) ApplyRSVP(attendee id.PrincipalID, now time.Time) {
	e.Confirmed = append(e.Confirmed, attendee)
	e.UpdatedAt = now.UTC()
}

// RollbackRSVP removes an attendee whose deposit never reached escrow.
func (e *Event) RollbackRSVP(attendee id.PrincipalID, now time.Time) {
	e.Confirmed = remove(e.Confirmed, attendee)
	e.UpdatedAt = now.UTC()
}

// CanConfirm checks the per-attendee confirmation preconditions. Caller
// authorization is the service's job; everything else lives here.
func (e *Event) CanConfirm(attendee id.PrincipalID) error {
	if !e.IsConfirmed(attendee) {
		return dErrors.New(dErrors.CodeNoRsvpToConfirm, "attendee has no RSVP to confirm")
	}
	if e.IsClaimed(attendee) {
		return dErrors.New(dErrors.CodeAlreadyClaimed, "attendee deposit already claimed")
	}
	if e.PaidOut {
		return dErrors.New(dErrors.CodeAlreadyPaidOut, "event deposits already paid out")
	}
	return nil
}

// ApplyConfirm records the claim. Runs before the outward transfer so a
// reentrant call observes the claim and fails CanConfirm.
func (e *Event) ApplyConfirm(attendee id.PrincipalID, now time.Time) {
	e.Claimed = append(e.Claimed, attendee)
	e.UpdatedAt = now.UTC()
}

// RollbackConfirm undoes a claim whose transfer failed, restoring the
// precondition state exactly.
func (e *Event) RollbackConfirm(attendee id.PrincipalID, now time.Time) {
	e.Claimed = remove(e.Claimed, attendee)
	e.UpdatedAt = now.UTC()
}

// CanSettle checks the sweep preconditions that do not involve the caller:
// terminal flag first, then the grace period gate. The order is part of the
// contract (a settled event reports already_paid_out, never too_early).
func (e *Event) CanSettle(now time.Time, gracePeriod time.Duration) error {
	if e.PaidOut {
		return dErrors.New(dErrors.CodeAlreadyPaidOut, "event deposits already paid out")
	}
	if now.Before(e.ScheduledAt.Add(gracePeriod)) {
		return dErrors.New(dErrors.CodeTooEarly, "grace period has not elapsed")
	}
	return nil
}

// ApplySettlement flips the terminal flag. Runs before the outward transfer
// so a reentrant sweep observes PaidOut and fails CanSettle.
func (e *Event) ApplySettlement(now time.Time) {
	e.PaidOut = true
	e.UpdatedAt = now.UTC()
}

// RollbackSettlement undoes the terminal flag after a failed transfer.
func (e *Event) RollbackSettlement(now time.Time) {
	e.PaidOut = false
	e.UpdatedAt = now.UTC()
}

// UnclaimedCount is the number of confirmed attendees whose deposit is
// still in escrow.
func (e *Event) UnclaimedCount() int {
	return len(e.Confirmed) - len(e.Claimed)
}

// Payout is the amount a sweep would transfer to the owner.
func (e *Event) Payout() id.Amount {
	return e.Deposit.Mul(e.UnclaimedCount())
}

// Clone returns a deep copy so stores can hand out snapshots without
// exposing internal slices to mutation.
func (e *Event) Clone() *Event {
	cp := *e
	cp.Confirmed = slices.Clone(e.Confirmed)
	cp.Claimed = slices.Clone(e.Claimed)
	return &cp
}

func remove(list []id.PrincipalID, p id.PrincipalID) []id.PrincipalID {
	for i, member := range list {
		if member == p {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}
