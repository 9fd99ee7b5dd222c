package registry

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"showup/internal/event/store"
	"showup/internal/notifications"
	id "showup/pkg/domain"
	dErrors "showup/pkg/domain-errors"
	"showup/pkg/requestcontext"
)

type RegistrySuite struct {
	suite.Suite
	store    *store.InMemory
	notifier *notifications.Memory
	service  *Service

	registryID id.RegistryID
	owner      id.PrincipalID
	now        time.Time
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.store = store.NewInMemory()
	s.notifier = notifications.NewMemory()
	s.registryID = id.RegistryID(uuid.New())
	s.owner = id.PrincipalID(uuid.New())
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = New(s.store, s.registryID,
		WithLogger(logger),
		WithNotifier(s.notifier),
	)
}

// Each s.Run case gets a fresh store and notifier.
func (s *RegistrySuite) SetupSubTest() {
	s.SetupTest()
}

func (s *RegistrySuite) ctx() context.Context {
	ctx := requestcontext.WithCallerID(context.Background(), s.owner)
	return requestcontext.WithTime(ctx, s.now)
}

func (s *RegistrySuite) input() CreateEventInput {
	return CreateEventInput{
		ScheduledAt: s.now.Add(48 * time.Hour),
		Deposit:     100,
		Capacity:    10,
		DataRef:     "ipfs://bafybeigdyrzt5example",
	}
}

func (s *RegistrySuite) TestCreateEvent() {
	s.Run("persists the event under its derived identifier", func() {
		event, err := s.service.CreateEvent(s.ctx(), s.input())
		s.Require().NoError(err)

		stored, err := s.store.FindByID(context.Background(), event.ID)
		s.Require().NoError(err)
		s.Equal(s.owner, stored.OwnerID)
		s.Equal(id.Amount(100), stored.Deposit)
		s.Equal(10, stored.Capacity)
		s.Empty(stored.Confirmed)
		s.False(stored.PaidOut)
	})

	s.Run("identical parameters collide", func() {
		_, err := s.service.CreateEvent(s.ctx(), s.input())
		s.Require().NoError(err)

		_, err = s.service.CreateEvent(s.ctx(), s.input())
		s.True(dErrors.HasCode(err, dErrors.CodeDuplicateEvent))
	})

	s.Run("different owners may hold otherwise identical events", func() {
		_, err := s.service.CreateEvent(s.ctx(), s.input())
		s.Require().NoError(err)

		other := requestcontext.WithCallerID(context.Background(), id.PrincipalID(uuid.New()))
		other = requestcontext.WithTime(other, s.now)
		_, err = s.service.CreateEvent(other, s.input())
		s.NoError(err)
	})

	s.Run("rejects unauthenticated callers", func() {
		ctx := requestcontext.WithTime(context.Background(), s.now)
		_, err := s.service.CreateEvent(ctx, s.input())
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("rejects zero capacity", func() {
		in := s.input()
		in.Capacity = 0
		_, err := s.service.CreateEvent(s.ctx(), in)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("allows a free event", func() {
		in := s.input()
		in.Deposit = 0
		event, err := s.service.CreateEvent(s.ctx(), in)
		s.Require().NoError(err)
		s.Equal(id.Amount(0), event.Deposit)
	})

	s.Run("emits a creation notification", func() {
		event, err := s.service.CreateEvent(s.ctx(), s.input())
		s.Require().NoError(err)

		sent := s.notifier.SentOf(notifications.KindEventCreated)
		s.Require().Len(sent, 1)
		s.Equal(event.ID, sent[0].EventID)
		s.Equal(s.owner, *sent[0].OwnerID)
	})

	s.Run("failed creation emits nothing", func() {
		in := s.input()
		in.Capacity = -1
		_, err := s.service.CreateEvent(s.ctx(), in)
		s.Require().Error(err)
		s.Empty(s.notifier.Sent())
	})
}

func (s *RegistrySuite) TestGetEvent() {
	s.Run("returns the stored record", func() {
		created, err := s.service.CreateEvent(s.ctx(), s.input())
		s.Require().NoError(err)

		got, err := s.service.GetEvent(context.Background(), created.ID)
		s.Require().NoError(err)
		s.Equal(created.ID, got.ID)
	})

	s.Run("unknown identifier", func() {
		_, err := s.service.GetEvent(context.Background(), id.EventID(uuid.New()))
		s.True(dErrors.HasCode(err, dErrors.CodeUnknownEvent))
	})
}
