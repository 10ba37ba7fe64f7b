package duplicate

import (
	"sort"

	domindex "github.com/techlog/postguard/internal/domain/index"
	"github.com/techlog/postguard/internal/domain/post"
	"github.com/techlog/postguard/internal/domain/verdict"
	"github.com/techlog/postguard/internal/similarity"
)

// Thresholds of the two-tier decision.
const (
	// SurfaceThreshold is the bar for listing an existing post as similar.
	SurfaceThreshold = 0.6
	// BlockThreshold is the bar for rejecting the candidate.
	BlockThreshold = 0.75
)

// Classify compares a candidate against the collection of its kind.
// It never mutates the index.
func Classify(x *domindex.Index, c *post.Candidate) verdict.Verdict {
	collection := x.Collection(c.Kind())

	if c.Kind() == post.Paper && c.ArxivID() != "" {
		for i := range collection {
			if collection[i].ArxivID() == c.ArxivID() {
				return verdict.Exact(verdict.ReasonExactArxiv, collection[i])
			}
		}
	}

	if c.Hash() != "" {
		for i := range collection {
			if collection[i].Hash() == c.Hash() {
				return verdict.Exact(verdict.ReasonExactHash, collection[i])
			}
		}
	}

	type scored struct {
		record post.Record
		score  float64
	}
	var hits []scored
	maxSim := 0.0

	for i := range collection {
		r := &collection[i]
		score := similarity.Weighted(
			similarity.Keywords(c.Keywords(), r.Keywords()),
			similarity.Title(c.Title(), r.Title()),
		)
		if score > SurfaceThreshold {
			hits = append(hits, scored{record: *r, score: score})
			if score > maxSim {
				maxSim = score
			}
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	matches := make([]verdict.Match, len(hits))
	for i, h := range hits {
		matches[i] = verdict.Match{Record: h.record, Similarity: similarity.Round2(h.score)}
	}

	isDuplicate := maxSim > BlockThreshold
	reason := verdict.ReasonOK
	if isDuplicate {
		reason = verdict.ReasonHighSimilarity
	}
	return verdict.New(isDuplicate, reason, matches, similarity.Round2(maxSim))
}
