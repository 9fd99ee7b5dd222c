//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"showup/internal/notifications"
	"showup/internal/notifications/kafka"
	id "showup/pkg/domain"
	"showup/pkg/testutil/containers"
)

type KafkaPublisherSuite struct {
	suite.Suite
	brokers []string
}

func TestKafkaPublisherSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaPublisherSuite))
}

func (s *KafkaPublisherSuite) SetupSuite() {
	s.brokers = containers.GetManager().GetRedpanda(s.T()).Brokers
}

func (s *KafkaPublisherSuite) TestPublishRoundTrip() {
	ctx := context.Background()
	topic := "showup.notifications.test." + uuid.NewString()

	pub, err := kafka.New(ctx, s.brokers, topic)
	s.Require().NoError(err)
	defer pub.Close()

	eventID := id.EventID(uuid.New())
	attendee := id.PrincipalID(uuid.New())
	sent := notifications.RSVPRecorded(eventID, attendee)
	sent.Timestamp = time.Now().UTC().Truncate(time.Millisecond)
	s.Require().NoError(pub.Publish(ctx, sent))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	pollCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(pollCtx)
	s.Require().NoError(fetches.Err())

	records := fetches.Records()
	s.Require().Len(records, 1)
	s.Equal(eventID.String(), string(records[0].Key), "records are keyed by event for per-event ordering")

	var got notifications.Notification
	s.Require().NoError(json.Unmarshal(records[0].Value, &got))
	s.Equal(notifications.KindRSVPRecorded, got.Kind)
	s.Equal(eventID, got.EventID)
	s.Require().NotNil(got.AttendeeID)
	s.Equal(attendee, *got.AttendeeID)
}

func (s *KafkaPublisherSuite) TestTopicCreationIsIdempotent() {
	ctx := context.Background()
	topic := "showup.notifications.test." + uuid.NewString()

	first, err := kafka.New(ctx, s.brokers, topic)
	s.Require().NoError(err)
	defer first.Close()

	second, err := kafka.New(ctx, s.brokers, topic)
	s.Require().NoError(err)
	second.Close()
}
