package filestore

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LocalStore writes resumes below a media directory
type LocalStore struct {
	dir    string
	logger *zap.Logger
}

// NewLocalStore creates the resume directory if needed
func NewLocalStore(dir string, logger *zap.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, ResumePrefix), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create resume directory: %w", err)
	}
	return &LocalStore{dir: dir, logger: logger}, nil
}

// Save writes data to <dir>/resumes/<uuid>_<name> and returns the path
// relative to dir
func (s *LocalStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ref := path.Join(ResumePrefix, uuid.NewString()+"_"+SanitizeFilename(filename))
	target := filepath.Join(s.dir, filepath.FromSlash(ref))

	// Write to a temp file first so a failed write leaves nothing behind
	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create resume file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write resume file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write resume file: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to store resume file: %w", err)
	}

	s.logger.Debug("Resume stored", zap.String("ref", ref), zap.Int("size", len(data)))
	return ref, nil
}

// Path resolves a stored reference to its location on disk
func (s *LocalStore) Path(ref string) string {
	return filepath.Join(s.dir, filepath.FromSlash(ref))
}
