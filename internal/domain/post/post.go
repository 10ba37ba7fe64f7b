package post

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/techlog/postguard/internal/domain"
)

// Kind is the post type. It selects the index collection a post belongs to.
type Kind string

const (
	// Fundamental is an explainer post about a core concept.
	Fundamental Kind = "fundamental"
	// Paper is a paper review, usually carrying an ArXiv id.
	Paper Kind = "paper"
)

// ParseKind normalizes a raw type string. Unknown values are kept as-is
// (lower-cased) and route to the papers collection.
func ParseKind(s string) Kind {
	return Kind(strings.ToLower(strings.TrimSpace(s)))
}

// IsFundamental reports whether posts of this kind live in the fundamentals collection.
func (k Kind) IsFundamental() bool { return k == Fundamental }

// Record is an accepted post stored in the content index (immutable value object).
type Record struct {
	kind     Kind
	id       string
	date     string
	title    string
	keywords []string
	topics   []string
	filePath string
	hash     string
	arxivID  string
}

// RecordParams carries the raw fields for NewRecord.
type RecordParams struct {
	Kind     string
	ID       string
	Date     string
	Title    string
	Keywords []string
	Topics   []string
	FilePath string
	Hash     string
	ArxivID  string
}

// NewRecord validates and creates a Record.
// Title and at least one keyword are required; the ArXiv id only applies to papers.
func NewRecord(p RecordParams) (Record, error) {
	kind := ParseKind(p.Kind)
	if kind == "" {
		return Record{}, fmt.Errorf("%w: type is required", domain.ErrInvalidInput)
	}
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return Record{}, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	keywords := cleanList(p.Keywords)
	if len(keywords) == 0 {
		return Record{}, fmt.Errorf("%w: at least one keyword is required", domain.ErrInvalidInput)
	}
	arxivID := strings.TrimSpace(p.ArxivID)
	if arxivID != "" && kind.IsFundamental() {
		return Record{}, fmt.Errorf("%w: arxiv_id is only valid for papers", domain.ErrInvalidInput)
	}

	return Record{
		kind:     kind,
		id:       strings.TrimSpace(p.ID),
		date:     strings.TrimSpace(p.Date),
		title:    title,
		keywords: keywords,
		topics:   cleanList(p.Topics),
		filePath: strings.TrimSpace(p.FilePath),
		hash:     strings.ToLower(strings.TrimSpace(p.Hash)),
		arxivID:  arxivID,
	}, nil
}

// Reconstruct creates a Record without validation (storage hydration).
func Reconstruct(p RecordParams) Record {
	return Record{
		kind:     ParseKind(p.Kind),
		id:       p.ID,
		date:     p.Date,
		title:    p.Title,
		keywords: p.Keywords,
		topics:   p.Topics,
		filePath: p.FilePath,
		hash:     p.Hash,
		arxivID:  p.ArxivID,
	}
}

// Kind returns the post type.
func (r *Record) Kind() Kind { return r.kind }

// ID returns the post identifier.
func (r *Record) ID() string { return r.id }

// Date returns the publication date (YYYY-MM-DD).
func (r *Record) Date() string { return r.date }

// Title returns the post title.
func (r *Record) Title() string { return r.title }

// Keywords returns the post keywords as given.
func (r *Record) Keywords() []string { return r.keywords }

// Topics returns the post topics.
func (r *Record) Topics() []string { return r.topics }

// FilePath returns the path of the post source in the blog repository.
func (r *Record) FilePath() string { return r.filePath }

// Hash returns the content hash.
func (r *Record) Hash() string { return r.hash }

// ArxivID returns the ArXiv identifier (papers only, may be empty).
func (r *Record) ArxivID() string { return r.arxivID }

// Candidate is a not-yet-accepted post submitted for duplicate checking.
type Candidate struct {
	kind     Kind
	title    string
	keywords []string
	arxivID  string
	hash     string
}

// NewCandidate validates and creates a Candidate. A blank title or an empty
// keyword list is rejected instead of being scored as an empty set.
func NewCandidate(kind, title string, keywords []string, arxivID, hash string) (Candidate, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Candidate{}, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	kw := cleanList(keywords)
	if len(kw) == 0 {
		return Candidate{}, fmt.Errorf("%w: at least one keyword is required", domain.ErrInvalidInput)
	}
	return Candidate{
		kind:     ParseKind(kind),
		title:    title,
		keywords: kw,
		arxivID:  strings.TrimSpace(arxivID),
		hash:     strings.ToLower(strings.TrimSpace(hash)),
	}, nil
}

// Validate re-checks a Candidate that may have been built as a zero value.
func (c *Candidate) Validate() error {
	if c.title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if len(c.keywords) == 0 {
		return fmt.Errorf("%w: at least one keyword is required", domain.ErrInvalidInput)
	}
	return nil
}

// Kind returns the candidate type.
func (c *Candidate) Kind() Kind { return c.kind }

// Title returns the candidate title.
func (c *Candidate) Title() string { return c.title }

// Keywords returns the candidate keywords.
func (c *Candidate) Keywords() []string { return c.keywords }

// ArxivID returns the candidate ArXiv id (may be empty).
func (c *Candidate) ArxivID() string { return c.arxivID }

// Hash returns the candidate content hash (may be empty).
func (c *Candidate) Hash() string { return c.hash }

// ContentHash returns the hex SHA-256 of the lower-cased content.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(content)))
	return hex.EncodeToString(sum[:])
}

// cleanList trims entries and drops blanks, keeping order.
func cleanList(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
