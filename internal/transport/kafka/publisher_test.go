package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	domindex "github.com/techlog/postguard/internal/domain/index"
	"github.com/techlog/postguard/internal/domain/post"
)

// --- Mocks ---

type mockWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (m *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.msgs = append(m.msgs, msgs...)
	return nil
}

func (m *mockWriter) Close() error {
	m.closed = true
	return nil
}

// --- Tests ---

func testRecord(t *testing.T) post.Record {
	t.Helper()
	r, err := post.NewRecord(post.RecordParams{
		Kind: "paper", ID: "attention", Title: "Attention Is All You Need",
		Keywords: []string{"attention"}, ArxivID: "1706.03762",
	})
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestPostAccepted_WritesKeyedEvent(t *testing.T) {
	w := &mockWriter{}
	p := newPublisher(w, []string{"localhost:9092"}, nil)
	p.now = func() time.Time { return time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC) }

	err := p.PostAccepted(context.Background(), testRecord(t), domindex.Metadata{TotalPosts: 7, LastUpdated: "2025-03-14"})
	if err != nil {
		t.Fatalf("PostAccepted: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.msgs))
	}

	msg := w.msgs[0]
	if string(msg.Key) != "attention" {
		t.Errorf("key = %q, want attention", msg.Key)
	}
	if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != EventPostAccepted {
		t.Errorf("unexpected headers: %+v", msg.Headers)
	}

	var ev PostAcceptedEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Post.ArxivID != "1706.03762" || ev.TotalPosts != 7 || ev.AcceptedAt != "2025-03-14T09:00:00Z" {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestPostAccepted_WriteError(t *testing.T) {
	w := &mockWriter{err: errors.New("leader not available")}
	p := newPublisher(w, nil, nil)

	if err := p.PostAccepted(context.Background(), testRecord(t), domindex.Metadata{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestHealthCheck(t *testing.T) {
	p := newPublisher(&mockWriter{}, []string{"a:9092", "b:9092"}, nil)

	var dialed []string
	p.dial = func(_ context.Context, _, address string) (*kafka.Conn, error) {
		dialed = append(dialed, address)
		return nil, errors.New("refused")
	}
	if err := p.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected error when no broker is reachable")
	}
	if len(dialed) != 2 {
		t.Errorf("expected both brokers dialed, got %v", dialed)
	}
}

func TestNewPublisher_Validation(t *testing.T) {
	if _, err := NewPublisher(Config{Topic: "t"}, nil); err == nil {
		t.Error("expected error without brokers")
	}
	if _, err := NewPublisher(Config{Brokers: []string{"b:9092"}}, nil); err == nil {
		t.Error("expected error without topic")
	}
	p, err := NewPublisher(Config{Brokers: []string{"b:9092"}, Topic: "post.accepted"}, nil)
	if err != nil {
		t.Fatalf("NewPublisher: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestClose(t *testing.T) {
	w := &mockWriter{}
	if err := newPublisher(w, nil, nil).Close(); err != nil {
		t.Fatal(err)
	}
	if !w.closed {
		t.Error("expected writer closed")
	}
}
