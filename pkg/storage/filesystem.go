package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ArtifactStore persists assignment artifacts on disk under a base directory.
// Paths are write-once: every object name embeds a fresh uuid, so concurrent
// releases of the same assignment never overwrite each other's bytes.
type ArtifactStore struct {
	baseDir string
}

// NewArtifactStore ensures the base directory exists and returns a handle.
func NewArtifactStore(baseDir string) (*ArtifactStore, error) {
	if baseDir == "" {
		baseDir = "./exchange-data"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact directory: %w", err)
	}
	return &ArtifactStore{baseDir: baseDir}, nil
}

// ObjectPath builds the canonical artifact location:
// <base>/<org_id>/<action-kind>/<course_code>/<assignment_code>/<unix-ts>/<uuid><ext>.
// Codes are used raw; callers pass them already percent-decoded.
func (s *ArtifactStore) ObjectPath(orgID int, kind, courseCode, assignmentCode, filename string, now time.Time) string {
	name := uuid.NewString() + filepath.Ext(filename)
	return filepath.Join(
		s.baseDir,
		strconv.Itoa(orgID),
		kind,
		courseCode,
		assignmentCode,
		strconv.FormatInt(now.Unix(), 10),
		name,
	)
}

// Save streams the reader into the target path, refusing to overwrite.
func (s *ArtifactStore) Save(path string, r io.Reader) (int64, error) {
	full := s.resolve(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return 0, fmt.Errorf("prepare artifact directory: %w", err)
	}
	file, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create artifact file: %w", err)
	}
	defer file.Close() //nolint:errcheck
	n, err := io.Copy(file, r)
	if err != nil {
		_ = os.Remove(full)
		return 0, fmt.Errorf("write artifact stream: %w", err)
	}
	return n, nil
}

// Read returns the stored bytes for a previously recorded location.
func (s *ArtifactStore) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(s.resolve(path))
	if err != nil {
		return nil, fmt.Errorf("read artifact file: %w", err)
	}
	return data, nil
}

// Remove deletes a stored artifact. Only used to compensate when the ledger
// write that should reference the artifact fails.
func (s *ArtifactStore) Remove(path string) error {
	if err := os.Remove(s.resolve(path)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove artifact file: %w", err)
	}
	return nil
}

func (s *ArtifactStore) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.baseDir, path)
}
