// Package notifications carries the outward event stream: one notification
// per successful state change. Services emit only after the store write and
// any funds movement succeed; a failed operation never produces a
// notification.
package notifications

import (
	"time"

	"showup/internal/event/models"
	id "showup/pkg/domain"
)

type Kind string

const (
	KindEventCreated      Kind = "event_created"
	KindRSVPRecorded      Kind = "rsvp_recorded"
	KindAttendeeConfirmed Kind = "attendee_confirmed"
	KindDepositsSettled   Kind = "deposits_settled"
)

// Notification is the flat envelope published for every kind. Fields not
// meaningful for a kind are zero and omitted from JSON.
type Notification struct {
	Kind        Kind            `json:"kind"`
	Timestamp   time.Time       `json:"timestamp"`
	EventID     id.EventID      `json:"event_id"`
	OwnerID     *id.PrincipalID `json:"owner_id,omitempty"`
	AttendeeID  *id.PrincipalID `json:"attendee_id,omitempty"`
	ScheduledAt *time.Time      `json:"scheduled_at,omitempty"`
	Deposit     id.Amount       `json:"deposit,omitempty"`
	Capacity    int             `json:"capacity,omitempty"`
	DataRef     string          `json:"data_ref,omitempty"`
	Payout      id.Amount       `json:"payout,omitempty"`
}

func EventCreated(ev *models.Event) Notification {
	owner := ev.OwnerID
	scheduledAt := ev.ScheduledAt
	return Notification{
		Kind:        KindEventCreated,
		EventID:     ev.ID,
		OwnerID:     &owner,
		ScheduledAt: &scheduledAt,
		Deposit:     ev.Deposit,
		Capacity:    ev.Capacity,
		DataRef:     ev.DataRef,
	}
}

func RSVPRecorded(eventID id.EventID, attendee id.PrincipalID) Notification {
	return Notification{
		Kind:       KindRSVPRecorded,
		EventID:    eventID,
		AttendeeID: &attendee,
	}
}

func AttendeeConfirmed(eventID id.EventID, attendee id.PrincipalID) Notification {
	return Notification{
		Kind:       KindAttendeeConfirmed,
		EventID:    eventID,
		AttendeeID: &attendee,
	}
}

func DepositsSettled(eventID id.EventID, payout id.Amount) Notification {
	return Notification{
		Kind:    KindDepositsSettled,
		EventID: eventID,
		Payout:  payout,
	}
}
