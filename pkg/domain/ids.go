// Package domain provides strongly-typed identifiers and value types shared
// across the service. Wrapping uuid.UUID in distinct types lets the compiler
// catch an attendee ID passed where an event ID belongs.
package domain

import (
	"encoding/binary"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"

	dErrors "showup/pkg/domain-errors"
)

// PrincipalID identifies an authenticated caller: an organizer or an
// attendee. Identity verification happens off-band; by the time a
// PrincipalID reaches the domain it is trusted.
type PrincipalID uuid.UUID

// RegistryID identifies a registry deployment. It namespaces event ID
// derivation so two deployments given identical creation parameters still
// mint distinct event IDs.
type RegistryID uuid.UUID

// EventID identifies an event. It is not random: it is derived from the
// creation parameters, so replaying an identical creation collides with the
// existing record instead of minting a second event.
type EventID uuid.UUID

func (p PrincipalID) String() string { return uuid.UUID(p).String() }
func (p PrincipalID) IsNil() bool    { return uuid.UUID(p) == uuid.Nil }

func (r RegistryID) String() string { return uuid.UUID(r).String() }
func (r RegistryID) IsNil() bool    { return uuid.UUID(r) == uuid.Nil }

func (e EventID) String() string { return uuid.UUID(e).String() }
func (e EventID) IsNil() bool    { return uuid.UUID(e) == uuid.Nil }

// Text marshalling keeps the IDs as canonical UUID strings in JSON bodies,
// cache entries, and notification payloads. Defined types do not inherit
// uuid.UUID's methods, so these are spelled out.

func (p PrincipalID) MarshalText() ([]byte, error) { return marshalID(uuid.UUID(p)) }
func (p *PrincipalID) UnmarshalText(b []byte) error {
	u, err := unmarshalID(b)
	if err != nil {
		return err
	}
	*p = PrincipalID(u)
	return nil
}

func (r RegistryID) MarshalText() ([]byte, error) { return marshalID(uuid.UUID(r)) }
func (r *RegistryID) UnmarshalText(b []byte) error {
	u, err := unmarshalID(b)
	if err != nil {
		return err
	}
	*r = RegistryID(u)
	return nil
}

func (e EventID) MarshalText() ([]byte, error) { return marshalID(uuid.UUID(e)) }
func (e *EventID) UnmarshalText(b []byte) error {
	u, err := unmarshalID(b)
	if err != nil {
		return err
	}
	*e = EventID(u)
	return nil
}

func marshalID(u uuid.UUID) ([]byte, error) {
	return []byte(u.String()), nil
}

func unmarshalID(b []byte) (uuid.UUID, error) {
	return uuid.Parse(string(b))
}

// ParsePrincipalID parses and validates a principal ID. Rejects empty,
// malformed, and nil UUIDs: a nil principal can never own or attend.
func ParsePrincipalID(s string) (PrincipalID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return PrincipalID{}, err
	}
	return PrincipalID(u), nil
}

// ParseRegistryID parses and validates a registry ID.
func ParseRegistryID(s string) (RegistryID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return RegistryID{}, err
	}
	return RegistryID(u), nil
}

// ParseEventID parses and validates an event ID.
func ParseEventID(s string) (EventID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return EventID{}, err
	}
	return EventID(u), nil
}

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be the nil UUID")
	}
	return u, nil
}

// DeriveEventID deterministically derives an event ID from the creation
// tuple. The derivation is Keccak-256 over a fixed-width encoding of
// (owner, registry, scheduled time, deposit, capacity), truncated to UUID
// width. Identical inputs always yield the same ID.
func DeriveEventID(owner PrincipalID, registry RegistryID, scheduledAt time.Time, deposit Amount, capacity int) EventID {
	var buf [48]byte
	copy(buf[0:16], owner[:])
	copy(buf[16:32], registry[:])
	binary.BigEndian.PutUint64(buf[32:40], uint64(scheduledAt.UTC().UnixNano()))
	binary.BigEndian.PutUint64(buf[40:48], uint64(deposit))

	h := sha3.NewLegacyKeccak256()
	h.Write(buf[:])

	var cap8 [8]byte
	binary.BigEndian.PutUint64(cap8[:], uint64(capacity))
	h.Write(cap8[:])

	var id EventID
	copy(id[:], h.Sum(nil)[:16])
	return id
}
