//go:build integration

package treasury_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"showup/internal/treasury"
	id "showup/pkg/domain"
	"showup/pkg/platform/sentinel"
	"showup/pkg/testutil/containers"
)

type PostgresTreasurySuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	treasury *treasury.PostgresTreasury
}

func TestPostgresTreasurySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresTreasurySuite))
}

func (s *PostgresTreasurySuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.treasury = treasury.NewPostgres(s.postgres.Pool)
}

func (s *PostgresTreasurySuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "escrow_accounts", "escrow_transfers"))
}

func (s *PostgresTreasurySuite) TestHoldAccumulates() {
	ctx := context.Background()
	eventID := id.EventID(uuid.New())

	s.Require().NoError(s.treasury.Hold(ctx, eventID, id.PrincipalID(uuid.New()), 100))
	s.Require().NoError(s.treasury.Hold(ctx, eventID, id.PrincipalID(uuid.New()), 100))

	held, err := s.treasury.Held(ctx, eventID)
	s.Require().NoError(err)
	s.Equal(id.Amount(200), held)
}

func (s *PostgresTreasurySuite) TestReleaseDebits() {
	ctx := context.Background()
	eventID := id.EventID(uuid.New())
	attendee := id.PrincipalID(uuid.New())

	s.Require().NoError(s.treasury.Hold(ctx, eventID, attendee, 100))
	s.Require().NoError(s.treasury.Release(ctx, eventID, attendee, 100))

	held, err := s.treasury.Held(ctx, eventID)
	s.Require().NoError(err)
	s.Equal(id.Amount(0), held)
}

func (s *PostgresTreasurySuite) TestOverReleaseRefused() {
	ctx := context.Background()
	eventID := id.EventID(uuid.New())
	attendee := id.PrincipalID(uuid.New())

	s.Require().NoError(s.treasury.Hold(ctx, eventID, attendee, 100))

	err := s.treasury.Release(ctx, eventID, attendee, 150)
	s.Require().ErrorIs(err, sentinel.ErrInsufficientFunds)

	held, err := s.treasury.Held(ctx, eventID)
	s.Require().NoError(err)
	s.Equal(id.Amount(100), held, "failed release must not change the balance")
}

func (s *PostgresTreasurySuite) TestReleaseFromUnknownEvent() {
	err := s.treasury.Release(context.Background(), id.EventID(uuid.New()), id.PrincipalID(uuid.New()), 1)
	s.Require().ErrorIs(err, sentinel.ErrInsufficientFunds)
}

// An event nobody staked into settles with a zero payout; there is no
// account row, and that must not read as insufficient funds.
func (s *PostgresTreasurySuite) TestZeroReleaseWithoutAccount() {
	ctx := context.Background()
	eventID := id.EventID(uuid.New())

	s.Require().NoError(s.treasury.Release(ctx, eventID, id.PrincipalID(uuid.New()), 0))

	held, err := s.treasury.Held(ctx, eventID)
	s.Require().NoError(err)
	s.Equal(id.Amount(0), held)

	var count int
	err = s.postgres.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM escrow_transfers WHERE event_id = $1
	`, uuid.UUID(eventID)).Scan(&count)
	s.Require().NoError(err)
	s.Equal(0, count, "a zero release moves no funds and logs no transfer")
}

func (s *PostgresTreasurySuite) TestTransferLog() {
	ctx := context.Background()
	eventID := id.EventID(uuid.New())
	attendee := id.PrincipalID(uuid.New())

	s.Require().NoError(s.treasury.Hold(ctx, eventID, attendee, 100))
	s.Require().NoError(s.treasury.Release(ctx, eventID, attendee, 100))

	rows, err := s.postgres.DB.QueryContext(ctx, `
		SELECT direction, amount FROM escrow_transfers WHERE event_id = $1 ORDER BY created_at
	`, uuid.UUID(eventID))
	s.Require().NoError(err)
	defer rows.Close()

	type entry struct {
		direction string
		amount    int64
	}
	var log []entry
	for rows.Next() {
		var e entry
		s.Require().NoError(rows.Scan(&e.direction, &e.amount))
		log = append(log, e)
	}
	s.Require().NoError(rows.Err())
	s.Equal([]entry{{"hold", 100}, {"release", 100}}, log)
}

func (s *PostgresTreasurySuite) TestFailedReleaseLogsNothing() {
	ctx := context.Background()
	eventID := id.EventID(uuid.New())
	attendee := id.PrincipalID(uuid.New())

	s.Require().NoError(s.treasury.Hold(ctx, eventID, attendee, 100))
	s.Require().Error(s.treasury.Release(ctx, eventID, attendee, 200))

	var count int
	err := s.postgres.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM escrow_transfers WHERE event_id = $1 AND direction = 'release'
	`, uuid.UUID(eventID)).Scan(&count)
	s.Require().NoError(err)
	s.Equal(0, count, "a refused release must not appear in the transfer log")
}
