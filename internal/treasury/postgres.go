package treasury

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	id "showup/pkg/domain"
	dErrors "showup/pkg/domain-errors"
	"showup/pkg/platform/sentinel"
)

// PostgresTreasury keeps escrow balances in PostgreSQL with an append-only
// transfer log. Balance moves and their log entries commit together.
type PostgresTreasury struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresTreasury {
	return &PostgresTreasury{pool: pool}
}

func (t *PostgresTreasury) Hold(ctx context.Context, eventID id.EventID, from id.PrincipalID, amount id.Amount) error {
	if amount < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "hold amount must not be negative")
	}
	return pgx.BeginFunc(ctx, t.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO escrow_accounts (event_id, balance)
			VALUES ($1, $2)
			ON CONFLICT (event_id) DO UPDATE SET balance = escrow_accounts.balance + EXCLUDED.balance
		`, uuid.UUID(eventID), int64(amount))
		if err != nil {
			return fmt.Errorf("credit escrow: %w", err)
		}
		return t.logTransfer(ctx, tx, eventID, from, "hold", amount)
	})
}

func (t *PostgresTreasury) Release(ctx context.Context, eventID id.EventID, to id.PrincipalID, amount id.Amount) error {
	if amount < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "release amount must not be negative")
	}
	// A zero payout settles an event whose deposits were all refunded or
	// never staked; there may be no account row to debit.
	if amount == 0 {
		return nil
	}
	return pgx.BeginFunc(ctx, t.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE escrow_accounts
			SET balance = balance - $2
			WHERE event_id = $1 AND balance >= $2
		`, uuid.UUID(eventID), int64(amount))
		if err != nil {
			return fmt.Errorf("debit escrow: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return sentinel.ErrInsufficientFunds
		}
		return t.logTransfer(ctx, tx, eventID, to, "release", amount)
	})
}

func (t *PostgresTreasury) Held(ctx context.Context, eventID id.EventID) (id.Amount, error) {
	var balance int64
	err := t.pool.QueryRow(ctx, `
		SELECT balance FROM escrow_accounts WHERE event_id = $1
	`, uuid.UUID(eventID)).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read escrow balance: %w", err)
	}
	return id.Amount(balance), nil
}

func (t *PostgresTreasury) logTransfer(ctx context.Context, tx pgx.Tx, eventID id.EventID, principal id.PrincipalID, direction string, amount id.Amount) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO escrow_transfers (id, event_id, principal_id, direction, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`, uuid.New(), uuid.UUID(eventID), uuid.UUID(principal), direction, int64(amount))
	if err != nil {
		return fmt.Errorf("log escrow transfer: %w", err)
	}
	return nil
}
