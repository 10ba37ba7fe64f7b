package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/techlog/postguard/internal/domain"
	domindex "github.com/techlog/postguard/internal/domain/index"
)

// FileStore keeps the content index as a JSON file on disk.
type FileStore struct {
	path   string
	logger *zap.Logger
	now    func() time.Time
}

// NewFileStore creates a store for the document at path.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{path: path, logger: logger, now: time.Now}
}

// WithClock overrides the clock used to stamp last_updated.
func (s *FileStore) WithClock(now func() time.Time) *FileStore {
	s.now = now
	return s
}

// Path returns the document path.
func (s *FileStore) Path() string { return s.path }

// Load reads the index. A missing or unparsable file is not an error:
// the default empty index is returned and a warning is logged.
func (s *FileStore) Load(_ context.Context) (domindex.Index, error) {
	data, err := os.ReadFile(filepath.Clean(s.path))
	if err != nil {
		s.logger.Warn("Failed to load index, using empty index",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return domindex.Empty(s.today()), nil
	}

	x, err := Decode(data)
	if err != nil {
		s.logger.Warn("Failed to parse index, using empty index",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return domindex.Empty(s.today()), nil
	}
	return x, nil
}

// Save stamps last_updated and replaces the document via temp file + rename,
// so readers see either the old or the new document, never a partial one.
func (s *FileStore) Save(_ context.Context, x *domindex.Index) error {
	x.Touch(s.today())

	data, err := Encode(x)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIndexPersist, err)
	}

	if err := writeAtomic(s.path, data); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIndexPersist, err)
	}
	return nil
}

// Ping checks that the index directory is reachable.
func (s *FileStore) Ping(_ context.Context) error {
	dir := filepath.Dir(s.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat index dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("index dir %s is not a directory", dir)
	}
	return nil
}

func (s *FileStore) today() string {
	return s.now().Format(domindex.DateLayout)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	committed = true
	return nil
}
