package postguard

import "github.com/techlog/postguard/internal/transport/dto"

// Candidate is a post submitted for a duplicate check.
type Candidate = dto.Candidate

// Post is an accepted post record as stored in the content index.
type Post = dto.Post

// SimilarPost is an existing post annotated with its similarity score.
type SimilarPost = dto.SimilarPost

// Verdict is the outcome of a duplicate check.
type Verdict = dto.Verdict

// AddResult reports the index state after a commit.
type AddResult = dto.AddResult

// Stats summarizes the content index.
type Stats = dto.Stats

// Post types.
const (
	TypeFundamental = "fundamental"
	TypePaper       = "paper"
)

// HealthStatus represents the aggregated health of the index backend.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}
