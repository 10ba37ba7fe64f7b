package index

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/techlog/postguard/internal/db"
	"github.com/techlog/postguard/internal/domain"
	domindex "github.com/techlog/postguard/internal/domain/index"
)

// DefaultRedisKey is the key holding the index document.
const DefaultRedisKey = "postguard:index"

// jsonStore is the consumer interface for the Redis backend (ISP).
type jsonStore interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Ping(ctx context.Context) error
}

// RedisStore keeps the content index as one RedisJSON document.
type RedisStore struct {
	store  jsonStore
	key    string
	logger *zap.Logger
	now    func() time.Time
}

// NewRedisStore creates a Redis-backed index store. An empty key uses DefaultRedisKey.
func NewRedisStore(s jsonStore, key string, logger *zap.Logger) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{store: s, key: key, logger: logger, now: time.Now}
}

// WithClock overrides the clock used to stamp last_updated.
func (r *RedisStore) WithClock(now func() time.Time) *RedisStore {
	r.now = now
	return r
}

// Load reads the index. A missing key or an unparsable document yields the
// empty index; connection errors are returned so a shared index is never
// replaced by an empty one.
func (r *RedisStore) Load(ctx context.Context) (domindex.Index, error) {
	data, err := r.store.JSONGet(ctx, r.key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			r.logger.Warn("Index key not found, using empty index", zap.String("key", r.key))
			return domindex.Empty(r.today()), nil
		}
		return domindex.Index{}, fmt.Errorf("%w: json.get %s: %w", domain.ErrIndexUnavailable, r.key, err)
	}

	x, err := Decode(data)
	if err != nil {
		r.logger.Warn("Failed to parse index, using empty index",
			zap.String("key", r.key),
			zap.Error(err),
		)
		return domindex.Empty(r.today()), nil
	}
	return x, nil
}

// Save stamps last_updated and replaces the whole document in one JSON.SET.
func (r *RedisStore) Save(ctx context.Context, x *domindex.Index) error {
	x.Touch(r.today())

	data, err := Encode(x)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIndexPersist, err)
	}
	if err := r.store.JSONSet(ctx, r.key, "$", data); err != nil {
		return fmt.Errorf("%w: json.set %s: %w", domain.ErrIndexPersist, r.key, err)
	}
	return nil
}

// Ping checks database connectivity.
func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func (r *RedisStore) today() string {
	return r.now().Format(domindex.DateLayout)
}
