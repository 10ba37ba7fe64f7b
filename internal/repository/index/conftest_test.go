package index

import (
	"context"
	"testing"
	"time"

	domindex "github.com/techlog/postguard/internal/domain/index"
	"github.com/techlog/postguard/internal/domain/post"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	jsonSetFn func(ctx context.Context, key, path string, data []byte) error
	jsonGetFn func(ctx context.Context, key string, paths ...string) ([]byte, error)
	pingFn    func(ctx context.Context) error
}

func (m *mockStore) JSONSet(ctx context.Context, key, path string, data []byte) error {
	if m.jsonSetFn != nil {
		return m.jsonSetFn(ctx, key, path, data)
	}
	return nil
}

func (m *mockStore) JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error) {
	if m.jsonGetFn != nil {
		return m.jsonGetFn(ctx, key, paths...)
	}
	return nil, nil
}

func (m *mockStore) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

func fixedClock() time.Time {
	return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
}

func sampleIndex(t *testing.T) domindex.Index {
	t.Helper()
	x := domindex.Empty("2025-01-01")
	f, err := post.NewRecord(post.RecordParams{
		Kind:     "fundamental",
		ID:       "understanding-attention",
		Date:     "2025-01-05",
		Title:    "Understanding Attention",
		Keywords: []string{"attention", "transformer"},
		FilePath: "posts/fundamentals/2025-01-05-understanding-attention.md",
		Hash:     post.ContentHash("understanding attention body"),
	})
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}
	p, err := post.NewRecord(post.RecordParams{
		Kind:     "paper",
		ID:       "attention-is-all-you-need",
		Date:     "2025-01-10",
		Title:    "Attention Is All You Need",
		Keywords: []string{"attention", "transformer"},
		FilePath: "posts/papers/2025-01-10-attention.md",
		ArxivID:  "1706.03762",
	})
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}
	x.Append(f)
	x.Append(p)
	return x
}
