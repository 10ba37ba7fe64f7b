// Package dto holds the JSON wire types shared by the HTTP API and the CLI.
package dto

import (
	"github.com/techlog/postguard/internal/domain/post"
	"github.com/techlog/postguard/internal/domain/verdict"
)

// Candidate is a post submitted for a duplicate check.
// Content, when set, is hashed for the exact content match.
type Candidate struct {
	Type     string   `json:"type"`
	Title    string   `json:"title"`
	Keywords []string `json:"keywords"`
	ArxivID  string   `json:"arxiv_id,omitempty"`
	Hash     string   `json:"hash,omitempty"`
	Content  string   `json:"content,omitempty"`
}

// ToDomain validates and converts the candidate.
func (c *Candidate) ToDomain() (post.Candidate, error) {
	hash := c.Hash
	if hash == "" && c.Content != "" {
		hash = post.ContentHash(c.Content)
	}
	return post.NewCandidate(c.Type, c.Title, c.Keywords, c.ArxivID, hash) //nolint:wrapcheck // domain validation error
}

// Post is an accepted post record.
type Post struct {
	Type     string   `json:"type"`
	ID       string   `json:"id"`
	Date     string   `json:"date"`
	Title    string   `json:"title"`
	Keywords []string `json:"keywords"`
	Topics   []string `json:"topics,omitempty"`
	FilePath string   `json:"file_path"`
	Hash     string   `json:"hash"`
	ArxivID  string   `json:"arxiv_id,omitempty"`
	Content  string   `json:"content,omitempty"`
}

// ToDomain validates and converts the post. The hash is derived from
// Content when not given explicitly.
func (p *Post) ToDomain() (post.Record, error) {
	hash := p.Hash
	if hash == "" && p.Content != "" {
		hash = post.ContentHash(p.Content)
	}
	return post.NewRecord(post.RecordParams{ //nolint:wrapcheck // domain validation error
		Kind:     p.Type,
		ID:       p.ID,
		Date:     p.Date,
		Title:    p.Title,
		Keywords: p.Keywords,
		Topics:   p.Topics,
		FilePath: p.FilePath,
		Hash:     hash,
		ArxivID:  p.ArxivID,
	})
}

// PostFromDomain converts a record to its wire form.
func PostFromDomain(r *post.Record) Post {
	return Post{
		Type:     string(r.Kind()),
		ID:       r.ID(),
		Date:     r.Date(),
		Title:    r.Title(),
		Keywords: nonNil(r.Keywords()),
		Topics:   r.Topics(),
		FilePath: r.FilePath(),
		Hash:     r.Hash(),
		ArxivID:  r.ArxivID(),
	}
}

// SimilarPost is an existing post annotated with its similarity to the candidate.
type SimilarPost struct {
	Post
	Similarity float64 `json:"similarity"`
}

// Verdict is the outcome of a duplicate check.
type Verdict struct {
	IsDuplicate   bool          `json:"isDuplicate"`
	Reason        string        `json:"reason"`
	SimilarPosts  []SimilarPost `json:"similarPosts"`
	MaxSimilarity float64       `json:"maxSimilarity"`
}

// VerdictFromDomain converts a verdict to its wire form.
func VerdictFromDomain(v *verdict.Verdict) Verdict {
	similar := make([]SimilarPost, len(v.SimilarPosts()))
	for i, m := range v.SimilarPosts() {
		similar[i] = SimilarPost{Post: PostFromDomain(&m.Record), Similarity: m.Similarity}
	}
	return Verdict{
		IsDuplicate:   v.IsDuplicate(),
		Reason:        v.Reason(),
		SimilarPosts:  similar,
		MaxSimilarity: v.MaxSimilarity(),
	}
}

// AddResult is returned after a post is committed.
type AddResult struct {
	TotalPosts  int    `json:"total_posts"`
	LastUpdated string `json:"last_updated"`
}

// Stats summarizes the content index.
type Stats struct {
	Fundamentals int    `json:"fundamentals"`
	Papers       int    `json:"papers"`
	TotalPosts   int    `json:"total_posts"`
	Keywords     int    `json:"keywords"`
	Topics       int    `json:"topics"`
	LastUpdated  string `json:"last_updated"`
	Consistent   bool   `json:"consistent"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
