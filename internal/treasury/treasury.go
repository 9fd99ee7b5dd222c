// Package treasury holds custody of attendee deposits. Each event has an
// escrow balance: RSVP pays in, confirmation refunds one attendee,
// settlement pays the remainder to the organizer.
//
// Release is the outward interaction of the confirmation and settlement
// protocols. Services update their bookkeeping strictly before calling it
// and compensate when it fails; the treasury itself never mutates event
// records.
package treasury

import (
	"context"

	id "showup/pkg/domain"
)

type Treasury interface {
	// Hold moves a deposit from the payer into the event's escrow.
	Hold(ctx context.Context, eventID id.EventID, from id.PrincipalID, amount id.Amount) error

	// Release moves funds out of the event's escrow to the recipient.
	// Fails with sentinel.ErrInsufficientFunds if the balance cannot
	// cover the amount; never leaves the escrow negative.
	Release(ctx context.Context, eventID id.EventID, to id.PrincipalID, amount id.Amount) error

	// Held reports the event's current escrow balance.
	Held(ctx context.Context, eventID id.EventID) (id.Amount, error)
}
