package duplicate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/techlog/postguard/internal/domain/post"
	"github.com/techlog/postguard/internal/domain/verdict"
	"github.com/techlog/postguard/internal/logger"
)

// Service checks candidates against the persisted content index.
type Service struct {
	index    IndexLoader
	recorder Recorder
}

// New creates a duplicate-check service.
func New(index IndexLoader) *Service {
	return &Service{index: index}
}

// WithRecorder attaches a verdict observer.
func (s *Service) WithRecorder(r Recorder) *Service {
	s.recorder = r
	return s
}

// Check validates the candidate, loads the index and classifies.
// A duplicate is a verdict, not an error.
func (s *Service) Check(ctx context.Context, c *post.Candidate) (verdict.Verdict, error) {
	if err := c.Validate(); err != nil {
		return verdict.Verdict{}, err
	}

	x, err := s.index.Load(ctx)
	if err != nil {
		return verdict.Verdict{}, fmt.Errorf("load index: %w", err)
	}

	v := Classify(&x, c)

	logger.FromContext(ctx).Debug("Duplicate check completed",
		zap.String("type", string(c.Kind())),
		zap.String("title", c.Title()),
		zap.Bool("is_duplicate", v.IsDuplicate()),
		zap.String("reason", v.Reason()),
		zap.Float64("max_similarity", v.MaxSimilarity()),
		zap.Int("similar_posts", len(v.SimilarPosts())),
	)

	if s.recorder != nil {
		s.recorder.ObserveVerdict(&v)
	}
	return v, nil
}
