package publish

import (
	"context"

	domindex "github.com/techlog/postguard/internal/domain/index"
	"github.com/techlog/postguard/internal/domain/post"
)

// IndexStore reads and persists the content index.
type IndexStore interface {
	Load(ctx context.Context) (domindex.Index, error)
	Save(ctx context.Context, x *domindex.Index) error
}

// Notifier announces accepted posts to downstream consumers. Optional.
type Notifier interface {
	PostAccepted(ctx context.Context, r post.Record, meta domindex.Metadata) error
}

// Recorder observes index mutations (metrics). Optional.
type Recorder interface {
	PostAdded(kind post.Kind)
	SaveFailed()
}
