package verdict

import "github.com/techlog/postguard/internal/domain/post"

// Reasons reported by the duplicate classifier.
const (
	ReasonExactArxiv     = "Exact ArXiv ID match"
	ReasonExactHash      = "Exact content hash match"
	ReasonHighSimilarity = "High content similarity"
	ReasonOK             = "OK"
)

// Match is an existing post that resembles the candidate.
type Match struct {
	Record     post.Record
	Similarity float64 // rounded to 2 decimals
}

// Verdict is the outcome of a duplicate check. It is produced fresh per check.
type Verdict struct {
	isDuplicate   bool
	reason        string
	similar       []Match
	maxSimilarity float64
}

// New creates a Verdict. A nil match list is normalized to an empty one.
func New(isDuplicate bool, reason string, similar []Match, maxSimilarity float64) Verdict {
	if similar == nil {
		similar = []Match{}
	}
	return Verdict{isDuplicate: isDuplicate, reason: reason, similar: similar, maxSimilarity: maxSimilarity}
}

// Exact builds the verdict for an identity match on an existing record.
func Exact(reason string, r post.Record) Verdict {
	return New(true, reason, []Match{{Record: r, Similarity: 1.0}}, 1.0)
}

// IsDuplicate reports whether publication should be blocked.
func (v *Verdict) IsDuplicate() bool { return v.isDuplicate }

// Reason returns the human-readable reason.
func (v *Verdict) Reason() string { return v.reason }

// SimilarPosts returns the surfaced matches, highest similarity first.
func (v *Verdict) SimilarPosts() []Match { return v.similar }

// MaxSimilarity returns the highest similarity seen, in [0,1].
func (v *Verdict) MaxSimilarity() float64 { return v.maxSimilarity }
