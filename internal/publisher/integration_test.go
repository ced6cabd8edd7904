//go:build integration

package publisher

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"

	"sports_dashboard/internal/domain"
)

type RabbitMQIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *rabbitmq.RabbitMQContainer
	amqpURL   string
	logger    *slog.Logger
}

func (s *RabbitMQIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	container, err := rabbitmq.Run(s.ctx,
		"rabbitmq:3.13-management-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Server startup complete").
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	amqpURL, err := container.AmqpURL(s.ctx)
	s.Require().NoError(err)
	s.amqpURL = amqpURL
}

func (s *RabbitMQIntegrationSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func TestRabbitMQIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RabbitMQIntegrationSuite))
}

func (s *RabbitMQIntegrationSuite) config(name string) Config {
	return Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange-" + name,
		RoutingKey: "test-routing-key-" + name,
		QueueName:  "test-queue-" + name,
	}
}

func (s *RabbitMQIntegrationSuite) TestPublisher_Connection() {
	pub, err := NewRabbitMQ(s.config("connect"), s.logger)
	s.NoError(err)
	s.NotNil(pub)

	s.NoError(pub.Close())
}

func (s *RabbitMQIntegrationSuite) TestPublisher_PublishView() {
	cfg := s.config("view")
	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	now := time.Now().UTC().Truncate(time.Millisecond)
	err = pub.Publish(s.ctx, &domain.ViewMessage{
		View:      "events-page",
		PassID:    "3f8f0c1e-4a55-4c55-9d8e-2b1e6f0a9c11",
		Sequence:  7,
		Origin:    "events=local,news=none,standings=local",
		Timestamp: now,
		Payload:   json.RawMessage(`{"standings":{"rows":[]}}`),
	})
	s.NoError(err)

	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)

	s.Equal("application/json", msg.ContentType)
	s.Equal("events-page", msg.Type)
	s.Equal("3f8f0c1e-4a55-4c55-9d8e-2b1e6f0a9c11", msg.MessageId)
	s.Equal(uint8(amqp.Persistent), msg.DeliveryMode)

	var received domain.ViewMessage
	s.Require().NoError(json.Unmarshal(msg.Body, &received))
	s.Equal(int64(7), received.Sequence)
	s.Equal("events=local,news=none,standings=local", received.Origin)
	s.True(now.Equal(received.Timestamp))
	s.JSONEq(`{"standings":{"rows":[]}}`, string(received.Payload))
}

func (s *RabbitMQIntegrationSuite) TestPublisher_ConcurrentPublishes() {
	cfg := s.config("concurrent")
	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	done := make(chan error)
	for _, view := range []string{"profile", "shop", "watch"} {
		view := view
		go func() {
			done <- pub.Publish(s.ctx, &domain.ViewMessage{View: view, Payload: json.RawMessage(`{}`)})
		}()
	}
	for i := 0; i < 3; i++ {
		s.NoError(<-done)
	}

	for i := 0; i < 3; i++ {
		s.NotNil(s.consumeMessage(cfg))
	}
}

func (s *RabbitMQIntegrationSuite) consumeMessage(cfg Config) *amqp.Delivery {
	conn, err := amqp.Dial(s.amqpURL)
	s.Require().NoError(err)
	defer conn.Close()

	ch, err := conn.Channel()
	s.Require().NoError(err)
	defer ch.Close()

	msg, ok, err := ch.Get(cfg.QueueName, true)
	deadline := time.Now().Add(5 * time.Second)
	for err == nil && !ok && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
		msg, ok, err = ch.Get(cfg.QueueName, true)
	}
	s.Require().NoError(err)
	if !ok {
		s.Fail("Timeout waiting for message")
		return nil
	}
	return &msg
}
