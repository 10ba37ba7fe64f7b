// Package kafka publishes accepted-post events.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	domindex "github.com/techlog/postguard/internal/domain/index"
	"github.com/techlog/postguard/internal/domain/post"
	"github.com/techlog/postguard/internal/transport/dto"
)

// EventPostAccepted is the event type carried in the "event" header.
const EventPostAccepted = "post.accepted"

// Config holds broker settings.
type Config struct {
	Brokers []string
	Topic   string
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// PostAcceptedEvent is the JSON value of a post.accepted message.
type PostAcceptedEvent struct {
	Post        dto.Post `json:"post"`
	TotalPosts  int      `json:"total_posts"`
	LastUpdated string   `json:"last_updated"`
	AcceptedAt  string   `json:"accepted_at"`
}

// Publisher writes post.accepted events keyed by post id.
type Publisher struct {
	writer  messageWriter
	brokers []string
	dial    func(ctx context.Context, network, address string) (*kafka.Conn, error)
	logger  *zap.Logger
	now     func() time.Time
}

// NewPublisher creates a synchronous publisher for cfg.Topic.
func NewPublisher(cfg Config, logger *zap.Logger) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka: at least one broker is required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka: topic is required")
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		MaxAttempts:            3,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return newPublisher(w, cfg.Brokers, logger), nil
}

func newPublisher(w messageWriter, brokers []string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		writer:  w,
		brokers: brokers,
		dial:    kafka.DialContext,
		logger:  logger.With(zap.String("component", "kafka-publisher")),
		now:     time.Now,
	}
}

// PostAccepted publishes one event for an accepted post.
func (p *Publisher) PostAccepted(ctx context.Context, r post.Record, meta domindex.Metadata) error {
	value, err := json.Marshal(PostAcceptedEvent{
		Post:        dto.PostFromDomain(&r),
		TotalPosts:  meta.TotalPosts,
		LastUpdated: meta.LastUpdated,
		AcceptedAt:  p.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:     []byte(r.ID()),
		Value:   value,
		Headers: []kafka.Header{{Key: "event", Value: []byte(EventPostAccepted)}},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish post accepted: %w", err)
	}
	p.logger.Debug("Event published", zap.String("id", r.ID()), zap.Int("value_size", len(value)))
	return nil
}

// HealthCheck dials the first reachable broker.
func (p *Publisher) HealthCheck(ctx context.Context) error {
	var errs []error
	for _, b := range p.brokers {
		conn, err := p.dial(ctx, "tcp", b)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		_ = conn.Close()
		return nil
	}
	return fmt.Errorf("kafka brokers unreachable: %w", errors.Join(errs...))
}

// Close flushes pending writes.
func (p *Publisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("close kafka writer: %w", err)
	}
	return nil
}
