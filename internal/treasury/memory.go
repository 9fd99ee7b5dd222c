package treasury

import (
	"context"
	"sync"

	id "showup/pkg/domain"
	dErrors "showup/pkg/domain-errors"
	"showup/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded escrow ledger. Beyond backing tests and
// single-node deployments it records every outward payment so assertions
// can follow the money.
type InMemory struct {
	mu       sync.RWMutex
	balances map[id.EventID]id.Amount
	payouts  map[id.EventID]map[id.PrincipalID]id.Amount
}

func NewInMemory() *InMemory {
	return &InMemory{
		balances: make(map[id.EventID]id.Amount),
		payouts:  make(map[id.EventID]map[id.PrincipalID]id.Amount),
	}
}

func (t *InMemory) Hold(_ context.Context, eventID id.EventID, _ id.PrincipalID, amount id.Amount) error {
	if amount < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "hold amount must not be negative")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.balances[eventID] += amount
	return nil
}

func (t *InMemory) Release(_ context.Context, eventID id.EventID, to id.PrincipalID, amount id.Amount) error {
	if amount < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "release amount must not be negative")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.balances[eventID] < amount {
		return sentinel.ErrInsufficientFunds
	}
	t.balances[eventID] -= amount
	if t.payouts[eventID] == nil {
		t.payouts[eventID] = make(map[id.PrincipalID]id.Amount)
	}
	t.payouts[eventID][to] += amount
	return nil
}

func (t *InMemory) Held(_ context.Context, eventID id.EventID) (id.Amount, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.balances[eventID], nil
}

// PaidTo reports the total released to a principal for an event.
func (t *InMemory) PaidTo(eventID id.EventID, to id.PrincipalID) id.Amount {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.payouts[eventID][to]
}
