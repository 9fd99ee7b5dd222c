package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	id "showup/pkg/domain"
	dErrors "showup/pkg/domain-errors"
)

type EventSuite struct {
	suite.Suite
	owner    id.PrincipalID
	registry id.RegistryID
	at       time.Time
	now      time.Time
}

func TestEventSuite(t *testing.T) {
	suite.Run(t, new(EventSuite))
}

func (s *EventSuite) SetupTest() {
	s.owner = id.PrincipalID(uuid.New())
	s.registry = id.RegistryID(uuid.New())
	s.at = time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	s.now = s.at.Add(-24 * time.Hour)
}

func (s *EventSuite) newEvent(deposit id.Amount, capacity int) *Event {
	ev, err := NewEvent(s.owner, s.registry, s.at, deposit, capacity, "ref", s.now)
	s.Require().NoError(err)
	return ev
}

func (s *EventSuite) attendee() id.PrincipalID {
	return id.PrincipalID(uuid.New())
}

func (s *EventSuite) TestNewEvent() {
	s.Run("derives a stable id", func() {
		a := s.newEvent(100, 2)
		b := s.newEvent(100, 2)
		s.Equal(a.ID, b.ID)
	})

	s.Run("rejects zero capacity", func() {
		_, err := NewEvent(s.owner, s.registry, s.at, 100, 0, "", s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("rejects negative deposit", func() {
		_, err := NewEvent(s.owner, s.registry, s.at, -1, 2, "", s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("rejects nil owner", func() {
		_, err := NewEvent(id.PrincipalID{}, s.registry, s.at, 100, 2, "", s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *EventSuite) TestCanRSVP() {
	ev := s.newEvent(100, 2)

	s.Run("rejects underpayment", func() {
		err := ev.CanRSVP(s.attendee(), 50, s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeInsufficientDeposit))
	})

	s.Run("rejects overpayment", func() {
		err := ev.CanRSVP(s.attendee(), 150, s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeInsufficientDeposit))
	})

	s.Run("rejects after the scheduled time", func() {
		err := ev.CanRSVP(s.attendee(), 100, s.at.Add(time.Minute))
		s.True(dErrors.HasCode(err, dErrors.CodeEventAlreadyOccurred))
	})

	s.Run("permits at exactly the scheduled time", func() {
		s.NoError(ev.CanRSVP(s.attendee(), 100, s.at))
	})

	s.Run("rejects when full", func() {
		full := s.newEvent(100, 2)
		full.ApplyRSVP(s.attendee(), s.now)
		full.ApplyRSVP(s.attendee(), s.now)
		err := full.CanRSVP(s.attendee(), 100, s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeEventFull))
	})

	s.Run("rejects duplicate attendee", func() {
		ev := s.newEvent(100, 2)
		a := s.attendee()
		ev.ApplyRSVP(a, s.now)
		err := ev.CanRSVP(a, 100, s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeAlreadyRsvped))
	})
}

func (s *EventSuite) TestCanConfirm() {
	s.Run("requires an RSVP", func() {
		ev := s.newEvent(100, 2)
		err := ev.CanConfirm(s.attendee())
		s.True(dErrors.HasCode(err, dErrors.CodeNoRsvpToConfirm))
	})

	s.Run("rejects a second claim", func() {
		ev := s.newEvent(100, 2)
		a := s.attendee()
		ev.ApplyRSVP(a, s.now)
		ev.ApplyConfirm(a, s.now)
		err := ev.CanConfirm(a)
		s.True(dErrors.HasCode(err, dErrors.CodeAlreadyClaimed))
	})

	s.Run("rejects after payout", func() {
		ev := s.newEvent(100, 2)
		a := s.attendee()
		ev.ApplyRSVP(a, s.now)
		ev.ApplySettlement(s.now)
		err := ev.CanConfirm(a)
		s.True(dErrors.HasCode(err, dErrors.CodeAlreadyPaidOut))
	})

	s.Run("rollback restores the precondition state", func() {
		ev := s.newEvent(100, 2)
		a := s.attendee()
		ev.ApplyRSVP(a, s.now)
		ev.ApplyConfirm(a, s.now)
		ev.RollbackConfirm(a, s.now)
		s.NoError(ev.CanConfirm(a))
		s.Empty(ev.Claimed)
	})
}

func (s *EventSuite) TestCanSettle() {
	grace := 7 * 24 * time.Hour

	s.Run("terminal flag checked before timing", func() {
		ev := s.newEvent(100, 2)
		ev.ApplySettlement(s.now)
		err := ev.CanSettle(s.now, grace)
		s.True(dErrors.HasCode(err, dErrors.CodeAlreadyPaidOut))
	})

	s.Run("rejects before the grace period elapses", func() {
		ev := s.newEvent(100, 2)
		err := ev.CanSettle(s.at.Add(24*time.Hour), grace)
		s.True(dErrors.HasCode(err, dErrors.CodeTooEarly))
	})

	s.Run("permits at exactly the grace boundary", func() {
		ev := s.newEvent(100, 2)
		s.NoError(ev.CanSettle(s.at.Add(grace), grace))
	})

	s.Run("rollback re-arms settlement", func() {
		ev := s.newEvent(100, 2)
		ev.ApplySettlement(s.now)
		ev.RollbackSettlement(s.now)
		s.NoError(ev.CanSettle(s.at.Add(grace), grace))
	})
}

func (s *EventSuite) TestSettlementArithmetic() {
	ev := s.newEvent(100, 3)
	a, b, c := s.attendee(), s.attendee(), s.attendee()
	ev.ApplyRSVP(a, s.now)
	ev.ApplyRSVP(b, s.now)
	ev.ApplyRSVP(c, s.now)

	s.Equal(3, ev.UnclaimedCount())
	s.Equal(id.Amount(300), ev.Payout())

	ev.ApplyConfirm(a, s.now)
	s.Equal(2, ev.UnclaimedCount())
	s.Equal(id.Amount(200), ev.Payout())

	ev.ApplyConfirm(b, s.now)
	ev.ApplyConfirm(c, s.now)
	s.Equal(0, ev.UnclaimedCount())
	s.Equal(id.Amount(0), ev.Payout())
}

func (s *EventSuite) TestClone() {
	ev := s.newEvent(100, 2)
	a := s.attendee()
	ev.ApplyRSVP(a, s.now)

	cp := ev.Clone()
	cp.ApplyRSVP(s.attendee(), s.now)
	cp.ApplyConfirm(a, s.now)

	s.Len(ev.Confirmed, 1, "clone mutation must not leak into the original")
	s.Empty(ev.Claimed)
}
