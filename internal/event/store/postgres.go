package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"showup/internal/event/models"
	id "showup/pkg/domain"
	"showup/pkg/platform/sentinel"
)

// PostgresStore persists event records in PostgreSQL. Attendee lists are
// TEXT[] columns: the aggregate is always read and written whole, and the
// row lock taken by Execute covers both lists and the custody flag.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const insertEvent = `
	INSERT INTO events (id, owner_id, data_ref, scheduled_at, deposit, capacity, confirmed, claimed, paid_out, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (id) DO NOTHING
`

func (s *PostgresStore) Create(ctx context.Context, event *models.Event) error {
	res, err := s.db.ExecContext(ctx, insertEvent,
		uuid.UUID(event.ID),
		uuid.UUID(event.OwnerID),
		event.DataRef,
		event.ScheduledAt,
		int64(event.Deposit),
		event.Capacity,
		pq.Array(principalsToStrings(event.Confirmed)),
		pq.Array(principalsToStrings(event.Claimed)),
		event.PaidOut,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrAlreadyUsed
	}
	return nil
}

const selectEvent = `
	SELECT id, owner_id, data_ref, scheduled_at, deposit, capacity, confirmed, claimed, paid_out, created_at, updated_at
	FROM events
	WHERE id = $1
`

func (s *PostgresStore) FindByID(ctx context.Context, eventID id.EventID) (*models.Event, error) {
	row := s.db.QueryRowContext(ctx, selectEvent, uuid.UUID(eventID))
	return scanEvent(row)
}

// Execute loads the row under FOR UPDATE, applies validate-then-mutate, and
// writes the aggregate back in the same transaction. Concurrent operations
// on the same event serialize on the row lock.
func (s *PostgresStore) Execute(ctx context.Context, eventID id.EventID, validate func(*models.Event) error, mutate func(*models.Event)) (*models.Event, error) {
	dbtx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = dbtx.Rollback() }()

	row := dbtx.QueryRowContext(ctx, selectEvent+" FOR UPDATE", uuid.UUID(eventID))
	event, err := scanEvent(row)
	if err != nil {
		return nil, err
	}

	if err := validate(event); err != nil {
		return nil, err
	}
	mutate(event)

	_, err = dbtx.ExecContext(ctx, `
		UPDATE events
		SET confirmed = $2, claimed = $3, paid_out = $4, updated_at = $5
		WHERE id = $1
	`,
		uuid.UUID(event.ID),
		pq.Array(principalsToStrings(event.Confirmed)),
		pq.Array(principalsToStrings(event.Claimed)),
		event.PaidOut,
		event.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	if err := dbtx.Commit(); err != nil {
		return nil, fmt.Errorf("commit event update: %w", err)
	}
	return event, nil
}

func scanEvent(row *sql.Row) (*models.Event, error) {
	var (
		event     models.Event
		evID      uuid.UUID
		ownerID   uuid.UUID
		deposit   int64
		confirmed pq.StringArray
		claimed   pq.StringArray
	)
	err := row.Scan(
		&evID,
		&ownerID,
		&event.DataRef,
		&event.ScheduledAt,
		&deposit,
		&event.Capacity,
		&confirmed,
		&claimed,
		&event.PaidOut,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan event: %w", err)
	}

	event.ID = id.EventID(evID)
	event.OwnerID = id.PrincipalID(ownerID)
	event.Deposit = id.Amount(deposit)
	event.ScheduledAt = event.ScheduledAt.UTC()
	if event.Confirmed, err = stringsToPrincipals(confirmed); err != nil {
		return nil, err
	}
	if event.Claimed, err = stringsToPrincipals(claimed); err != nil {
		return nil, err
	}
	return &event, nil
}

func principalsToStrings(principals []id.PrincipalID) []string {
	out := make([]string, len(principals))
	for i, p := range principals {
		out[i] = p.String()
	}
	return out
}

func stringsToPrincipals(raw []string) ([]id.PrincipalID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]id.PrincipalID, len(raw))
	for i, s := range raw {
		u, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("corrupt attendee id %q: %w", s, err)
		}
		out[i] = id.PrincipalID(u)
	}
	return out, nil
}
