package duplicate

import (
	"context"

	domindex "github.com/techlog/postguard/internal/domain/index"
	"github.com/techlog/postguard/internal/domain/verdict"
)

// IndexLoader reads the content index.
type IndexLoader interface {
	Load(ctx context.Context) (domindex.Index, error)
}

// Recorder observes verdicts (metrics). Optional.
type Recorder interface {
	ObserveVerdict(v *verdict.Verdict)
}
