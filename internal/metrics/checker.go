package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/techlog/postguard/internal/domain/post"
	"github.com/techlog/postguard/internal/domain/verdict"
)

// Verdict label values of postguard_checks_total.
const (
	VerdictUnique    = "unique"
	VerdictSimilar   = "similar"
	VerdictDuplicate = "duplicate"
)

// Checker holds the duplicate-checker and index-mutation metrics.
// It satisfies the recorder contracts of the duplicate and publish use cases.
type Checker struct {
	checks     *prometheus.CounterVec
	maxSim     prometheus.Histogram
	postsAdded *prometheus.CounterVec
	saveErrors prometheus.Counter
}

// NewChecker creates the checker metrics and registers them on reg.
// Collectors already registered on reg are reused.
func NewChecker(reg prometheus.Registerer) (*Checker, error) {
	c := &Checker{
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "postguard",
			Name:      "checks_total",
			Help:      "Duplicate checks by verdict.",
		}, []string{"verdict"}),
		maxSim: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "postguard",
			Name:      "similarity_max",
			Help:      "Highest similarity reported per check.",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.75, 0.8, 0.9, 1},
		}),
		postsAdded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "postguard",
			Name:      "posts_added_total",
			Help:      "Posts committed to the content index by type.",
		}, []string{"type"}),
		saveErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "postguard",
			Name:      "index_save_errors_total",
			Help:      "Failed content index saves.",
		}),
	}
	if reg == nil {
		return c, nil
	}
	if err := RegisterOrReuse(reg, &c.checks); err != nil {
		return nil, err
	}
	if err := RegisterOrReuse(reg, &c.maxSim); err != nil {
		return nil, err
	}
	if err := RegisterOrReuse(reg, &c.postsAdded); err != nil {
		return nil, err
	}
	if err := RegisterOrReuse(reg, &c.saveErrors); err != nil {
		return nil, err
	}
	return c, nil
}

// ObserveVerdict counts a check and records its max similarity.
func (c *Checker) ObserveVerdict(v *verdict.Verdict) {
	c.checks.WithLabelValues(verdictLabel(v)).Inc()
	c.maxSim.Observe(v.MaxSimilarity())
}

// PostAdded counts a committed post.
func (c *Checker) PostAdded(kind post.Kind) {
	label := string(post.Paper)
	if kind.IsFundamental() {
		label = string(post.Fundamental)
	}
	c.postsAdded.WithLabelValues(label).Inc()
}

// SaveFailed counts a failed index save.
func (c *Checker) SaveFailed() {
	c.saveErrors.Inc()
}

func verdictLabel(v *verdict.Verdict) string {
	switch {
	case v.IsDuplicate():
		return VerdictDuplicate
	case len(v.SimilarPosts()) > 0:
		return VerdictSimilar
	default:
		return VerdictUnique
	}
}

// RegisterOrReuse registers a collector or reuses an existing one of the same type.
func RegisterOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("register metric: %w", err)
	}
	return nil
}
