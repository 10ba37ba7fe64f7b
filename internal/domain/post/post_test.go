package post

import (
	"errors"
	"testing"

	"github.com/techlog/postguard/internal/domain"
)

func TestNewCandidate_Valid(t *testing.T) {
	c, err := NewCandidate(" Paper ", "  Attention Is All You Need ", []string{"attention", " ", "transformer"}, " 1706.03762 ", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Kind() != Paper {
		t.Errorf("expected kind paper, got %q", c.Kind())
	}
	if c.Title() != "Attention Is All You Need" {
		t.Errorf("expected trimmed title, got %q", c.Title())
	}
	if len(c.Keywords()) != 2 {
		t.Errorf("expected blank keyword dropped, got %v", c.Keywords())
	}
	if c.ArxivID() != "1706.03762" {
		t.Errorf("expected trimmed arxiv id, got %q", c.ArxivID())
	}
}

func TestNewCandidate_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		keywords []string
	}{
		{"missing title", "", []string{"a"}},
		{"blank title", "   ", []string{"a"}},
		{"missing keywords", "Title", nil},
		{"blank keywords", "Title", []string{" ", ""}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCandidate("fundamental", tc.title, tc.keywords, "", "")
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestCandidate_ZeroValueFailsValidate(t *testing.T) {
	var c Candidate
	if err := c.Validate(); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestNewRecord(t *testing.T) {
	r, err := NewRecord(RecordParams{
		Kind:     "paper",
		ID:       "2025-01-10-attention",
		Date:     "2025-01-10",
		Title:    "Attention Is All You Need",
		Keywords: []string{"attention", "transformer"},
		FilePath: "posts/papers/2025-01-10-attention.md",
		Hash:     "ABC",
		ArxivID:  "1706.03762",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Kind() != Paper || r.ArxivID() != "1706.03762" {
		t.Errorf("unexpected record: %+v", r)
	}
	if r.Hash() != "abc" {
		t.Errorf("expected lower-cased hash, got %q", r.Hash())
	}
}

func TestNewRecord_Invalid(t *testing.T) {
	tests := []struct {
		name string
		p    RecordParams
	}{
		{"missing type", RecordParams{Title: "T", Keywords: []string{"a"}}},
		{"missing title", RecordParams{Kind: "paper", Keywords: []string{"a"}}},
		{"missing keywords", RecordParams{Kind: "paper", Title: "T"}},
		{"arxiv on fundamental", RecordParams{Kind: "fundamental", Title: "T", Keywords: []string{"a"}, ArxivID: "1"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewRecord(tc.p); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestKindRouting(t *testing.T) {
	if !ParseKind("Fundamental").IsFundamental() {
		t.Error("expected Fundamental to route to fundamentals")
	}
	if ParseKind("paper").IsFundamental() || ParseKind("essay").IsFundamental() {
		t.Error("expected non-fundamental kinds to route to papers")
	}
}

func TestContentHash(t *testing.T) {
	a := ContentHash("Hello World")
	b := ContentHash("hello world")
	if a != b {
		t.Errorf("expected case-insensitive hash, got %s and %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
	if ContentHash("hello") == a {
		t.Error("expected different content to hash differently")
	}
}
