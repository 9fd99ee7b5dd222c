package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "showup/pkg/domain-errors"
)

func TestParsePrincipalID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParsePrincipalID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParsePrincipalID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParsePrincipalID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParsePrincipalID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, PrincipalID(valid), id)
	})
}

func TestDeriveEventID(t *testing.T) {
	owner := PrincipalID(uuid.New())
	registry := RegistryID(uuid.New())
	at := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

	t.Run("deterministic for identical inputs", func(t *testing.T) {
		a := DeriveEventID(owner, registry, at, 500, 20)
		b := DeriveEventID(owner, registry, at, 500, 20)
		assert.Equal(t, a, b)
	})

	t.Run("any differing input changes the id", func(t *testing.T) {
		base := DeriveEventID(owner, registry, at, 500, 20)

		assert.NotEqual(t, base, DeriveEventID(PrincipalID(uuid.New()), registry, at, 500, 20))
		assert.NotEqual(t, base, DeriveEventID(owner, RegistryID(uuid.New()), at, 500, 20))
		assert.NotEqual(t, base, DeriveEventID(owner, registry, at.Add(time.Second), 500, 20))
		assert.NotEqual(t, base, DeriveEventID(owner, registry, at, 501, 20))
		assert.NotEqual(t, base, DeriveEventID(owner, registry, at, 500, 21))
	})

	t.Run("timezone does not change the id", func(t *testing.T) {
		loc := time.FixedZone("UTC+5", 5*3600)
		a := DeriveEventID(owner, registry, at, 500, 20)
		b := DeriveEventID(owner, registry, at.In(loc), 500, 20)
		assert.Equal(t, a, b)
	})
}

func TestAmountMul(t *testing.T) {
	assert.Equal(t, Amount(0), Amount(500).Mul(0))
	assert.Equal(t, Amount(1500), Amount(500).Mul(3))
}
