package postguard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/techlog/postguard/internal/db/redis"
	domindex "github.com/techlog/postguard/internal/domain/index"
	"github.com/techlog/postguard/internal/domain/post"
	"github.com/techlog/postguard/internal/domain/verdict"
	"github.com/techlog/postguard/internal/metrics"
	indexrepo "github.com/techlog/postguard/internal/repository/index"
	"github.com/techlog/postguard/internal/transport/dto"
	kafkaTransport "github.com/techlog/postguard/internal/transport/kafka"
	duplicateuc "github.com/techlog/postguard/internal/usecase/duplicate"
	healthuc "github.com/techlog/postguard/internal/usecase/health"
	publishuc "github.com/techlog/postguard/internal/usecase/publish"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces for substitution in tests.
type checkUseCase interface {
	Check(ctx context.Context, c *post.Candidate) (verdict.Verdict, error)
}

type publishUseCase interface {
	Add(ctx context.Context, r post.Record) (domindex.Index, error)
	List(ctx context.Context, kind post.Kind) ([]post.Record, error)
	Get(ctx context.Context, id string) (post.Record, error)
	Stats(ctx context.Context) (publishuc.Stats, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

type indexStore interface {
	Load(ctx context.Context) (domindex.Index, error)
	Save(ctx context.Context, x *domindex.Index) error
	Ping(ctx context.Context) error
}

// Client is the postguard SDK entry point. It is safe for concurrent use.
type Client struct {
	checkSvc   checkUseCase
	publishSvc publishUseCase
	healthSvc  healthUseCase
	closers    []func() error
	obs        *observer
}

// New creates a Client. Exactly one of WithFile, WithRedis or WithMemory is required.
// The provided context is used for the initial Redis readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{key: indexrepo.DefaultRedisKey}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, closers, err := createStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return wireClient(store, closers, cfg, obs)
}

func createStore(ctx context.Context, cfg *clientConfig) (indexStore, []func() error, error) {
	switch cfg.driver {
	case "file":
		if cfg.path == "" {
			return nil, nil, errors.New("postguard: index path required")
		}
		return indexrepo.NewFileStore(cfg.path, zap.NewNop()), nil, nil
	case "memory":
		return indexrepo.NewMemoryStore(nil), nil, nil
	case "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{Addrs: cfg.addrs, Password: cfg.password})
		if err != nil {
			return nil, nil, fmt.Errorf("postguard: create redis store: %w", err)
		}
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, nil, fmt.Errorf("postguard: redis not ready: %w", err)
		}
		closeFn := func() error { s.Close(); return nil }
		return indexrepo.NewRedisStore(s, cfg.key, zap.NewNop()), []func() error{closeFn}, nil
	case "":
		return nil, nil, errors.New("postguard: index backend required (use WithFile, WithRedis or WithMemory)")
	default:
		return nil, nil, fmt.Errorf("postguard: unknown driver %q", cfg.driver)
	}
}

func wireClient(store indexStore, closers []func() error, cfg *clientConfig, obs *observer) (*Client, error) {
	checkSvc := duplicateuc.New(store)
	publishSvc := publishuc.New(store)

	if cfg.metricsReg != nil {
		rec, err := metrics.NewChecker(cfg.metricsReg)
		if err != nil {
			return nil, fmt.Errorf("postguard: %w", err)
		}
		checkSvc = checkSvc.WithRecorder(rec)
		publishSvc = publishSvc.WithRecorder(rec)
	}

	var events healthuc.EventsChecker
	if len(cfg.kafkaBrokers) > 0 {
		topic := cfg.kafkaTopic
		if topic == "" {
			topic = kafkaTransport.EventPostAccepted
		}
		p, err := kafkaTransport.NewPublisher(kafkaTransport.Config{Brokers: cfg.kafkaBrokers, Topic: topic}, zap.NewNop())
		if err != nil {
			return nil, fmt.Errorf("postguard: %w", err)
		}
		publishSvc = publishSvc.WithNotifier(p)
		closers = append(closers, p.Close)
		events = p
	}

	return &Client{
		checkSvc:   checkSvc,
		publishSvc: publishSvc,
		healthSvc:  healthuc.New(store, events),
		closers:    closers,
		obs:        obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() error {
	var errs []error
	for _, fn := range c.closers {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Check classifies a candidate against the content index.
// A duplicate is reported in the Verdict, not as an error.
func (c *Client) Check(ctx context.Context, cand Candidate) (v Verdict, err error) {
	start := time.Now()
	defer func() { c.obs.observe("check", start, err) }()

	dc, err := cand.ToDomain()
	if err != nil {
		return Verdict{}, err //nolint:wrapcheck // sentinel from the domain layer
	}
	res, err := c.checkSvc.Check(ctx, &dc)
	if err != nil {
		return Verdict{}, fmt.Errorf("check: %w", err)
	}
	return dto.VerdictFromDomain(&res), nil
}

// Add commits an accepted post. It performs no duplicate check.
func (c *Client) Add(ctx context.Context, p Post) (res AddResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("add", start, err) }()

	rec, err := p.ToDomain()
	if err != nil {
		return AddResult{}, err //nolint:wrapcheck // sentinel from the domain layer
	}
	x, err := c.publishSvc.Add(ctx, rec)
	if err != nil {
		return AddResult{}, fmt.Errorf("add: %w", err)
	}
	meta := x.Metadata()
	return AddResult{TotalPosts: meta.TotalPosts, LastUpdated: meta.LastUpdated}, nil
}

// CheckAndAdd commits p only when it is not a duplicate. The verdict is always returned.
func (c *Client) CheckAndAdd(ctx context.Context, p Post) (Verdict, bool, error) {
	v, err := c.Check(ctx, Candidate{
		Type: p.Type, Title: p.Title, Keywords: p.Keywords,
		ArxivID: p.ArxivID, Hash: p.Hash, Content: p.Content,
	})
	if err != nil || v.IsDuplicate {
		return v, false, err
	}
	if _, err := c.Add(ctx, p); err != nil {
		return v, false, err
	}
	return v, true, nil
}

// List returns indexed posts of one type, or all posts when typ is empty.
func (c *Client) List(ctx context.Context, typ string) (posts []Post, err error) {
	start := time.Now()
	defer func() { c.obs.observe("list", start, err) }()

	records, err := c.publishSvc.List(ctx, post.ParseKind(typ))
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	posts = make([]Post, len(records))
	for i := range records {
		posts[i] = dto.PostFromDomain(&records[i])
	}
	return posts, nil
}

// Get returns a post by id. Returns ErrNotFound when absent.
func (c *Client) Get(ctx context.Context, id string) (p Post, err error) {
	start := time.Now()
	defer func() { c.obs.observe("get", start, err) }()

	rec, err := c.publishSvc.Get(ctx, id)
	if err != nil {
		return Post{}, fmt.Errorf("get: %w", err)
	}
	return dto.PostFromDomain(&rec), nil
}

// Stats returns collection sizes and vocabulary counts.
func (c *Client) Stats(ctx context.Context) (s Stats, err error) {
	start := time.Now()
	defer func() { c.obs.observe("stats", start, err) }()

	st, err := c.publishSvc.Stats(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	return Stats{
		Fundamentals: st.Fundamentals,
		Papers:       st.Papers,
		TotalPosts:   st.TotalPosts,
		Keywords:     st.Keywords,
		Topics:       st.Topics,
		LastUpdated:  st.LastUpdated,
		Consistent:   st.Consistent,
	}, nil
}

// Health checks the index backend (and the event broker when configured).
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{Status: string(report.Status), Checks: checks}
}
