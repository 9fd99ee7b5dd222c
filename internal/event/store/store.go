// Package store persists event records. All four operation surfaces
// (registry, RSVP, confirmation, settlement) share one keyed store so the
// funds-custody invariant is checked and mutated under a single lock.
package store

import (
	"context"

	"showup/internal/event/models"
	id "showup/pkg/domain"
)

// Store is the shared event record store.
//
// Execute runs validate then mutate while holding the record's lock (a
// mutex in memory, SELECT ... FOR UPDATE in Postgres), so an operation's
// preconditions cannot be invalidated between check and write. A non-nil
// error from validate aborts with no visible effect. Implementations return
// sentinel.ErrNotFound for unknown events and sentinel.ErrAlreadyUsed when
// Create collides with an existing identifier.
type Store interface {
	// Create inserts the record only if no event exists at its ID. The
	// existence check and the insert are one atomic step: a replayed
	// creation can never observe a stale "absent" answer.
	Create(ctx context.Context, event *models.Event) error

	// FindByID returns a snapshot of the record.
	FindByID(ctx context.Context, eventID id.EventID) (*models.Event, error)

	// Execute atomically applies validate-then-mutate and returns a
	// snapshot of the updated record.
	Execute(ctx context.Context, eventID id.EventID, validate func(*models.Event) error, mutate func(*models.Event)) (*models.Event, error)
}
