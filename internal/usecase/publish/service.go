package publish

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/techlog/postguard/internal/domain"
	domindex "github.com/techlog/postguard/internal/domain/index"
	"github.com/techlog/postguard/internal/domain/post"
	"github.com/techlog/postguard/internal/logger"
)

// Stats summarizes the content index.
type Stats struct {
	Fundamentals int
	Papers       int
	TotalPosts   int
	Keywords     int
	Topics       int
	LastUpdated  string
	Consistent   bool
}

// Service commits accepted posts to the content index.
// Add performs no duplicate check; callers run the classifier first.
type Service struct {
	mu       sync.Mutex
	store    IndexStore
	notifier Notifier
	recorder Recorder
}

// New creates a publish service.
func New(store IndexStore) *Service {
	return &Service{store: store}
}

// WithNotifier attaches an accepted-post notifier.
func (s *Service) WithNotifier(n Notifier) *Service {
	s.notifier = n
	return s
}

// WithRecorder attaches a mutation observer.
func (s *Service) WithRecorder(r Recorder) *Service {
	s.recorder = r
	return s
}

// Add appends the record to its collection, merges its vocabulary, bumps
// total_posts and saves. Load, mutate and save run under one lock.
func (s *Service) Add(ctx context.Context, r post.Record) (domindex.Index, error) {
	if r.Title() == "" || len(r.Keywords()) == 0 {
		return domindex.Index{}, fmt.Errorf("%w: record needs a title and keywords", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	x, err := s.store.Load(ctx)
	if err != nil {
		s.mu.Unlock()
		return domindex.Index{}, fmt.Errorf("load index: %w", err)
	}

	x.Append(r)

	if err := s.store.Save(ctx, &x); err != nil {
		s.mu.Unlock()
		if s.recorder != nil {
			s.recorder.SaveFailed()
		}
		return domindex.Index{}, fmt.Errorf("save index: %w", err)
	}
	s.mu.Unlock()

	log := logger.FromContext(ctx)
	log.Info("Post added to index",
		zap.String("type", string(r.Kind())),
		zap.String("id", r.ID()),
		zap.String("title", r.Title()),
		zap.Int("total_posts", x.Metadata().TotalPosts),
	)

	if s.recorder != nil {
		s.recorder.PostAdded(r.Kind())
	}
	if s.notifier != nil {
		if err := s.notifier.PostAccepted(ctx, r, x.Metadata()); err != nil {
			log.Warn("Failed to publish post accepted event", zap.String("id", r.ID()), zap.Error(err))
		}
	}
	return x, nil
}

// List returns the posts of one collection, or all posts when kind is empty.
func (s *Service) List(ctx context.Context, kind post.Kind) ([]post.Record, error) {
	x, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}
	if kind != "" {
		return append([]post.Record{}, x.Collection(kind)...), nil
	}
	all := make([]post.Record, 0, len(x.Fundamentals())+len(x.Papers()))
	all = append(all, x.Fundamentals()...)
	all = append(all, x.Papers()...)
	return all, nil
}

// Get returns the post with the given id from either collection.
func (s *Service) Get(ctx context.Context, id string) (post.Record, error) {
	x, err := s.store.Load(ctx)
	if err != nil {
		return post.Record{}, fmt.Errorf("load index: %w", err)
	}
	for _, c := range [][]post.Record{x.Fundamentals(), x.Papers()} {
		for i := range c {
			if c[i].ID() == id {
				return c[i], nil
			}
		}
	}
	return post.Record{}, fmt.Errorf("post %q: %w", id, domain.ErrNotFound)
}

// Stats reports collection sizes and vocabulary counts.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	x, err := s.store.Load(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("load index: %w", err)
	}
	meta := x.Metadata()
	tags := x.Tags()
	return Stats{
		Fundamentals: len(x.Fundamentals()),
		Papers:       len(x.Papers()),
		TotalPosts:   meta.TotalPosts,
		Keywords:     len(tags.Keywords),
		Topics:       len(tags.Topics),
		LastUpdated:  meta.LastUpdated,
		Consistent:   x.Consistent(),
	}, nil
}
