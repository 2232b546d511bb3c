package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	gogit "github.com/go-git/go-git/v5"
)

// ErrRefNotFound is returned when the requested branch does not resolve
// to an existing branch head.
var ErrRefNotFound = errors.New("branch ref not found")

// Source is an open handle on the repository being extracted. All of its
// operations are read-only with respect to the repository.
type Source struct {
	repo    *gogit.Repository
	path    string
	name    string
	metrics Metrics
}

// Metrics tracks extraction metrics for one run.
type Metrics struct {
	CommitsExported int
	FilesWritten    int64
	BytesWritten    int64
	Duration        time.Duration
}

// Open opens the repository rooted at path. The repository name used in
// the manifest is the base name of the resolved absolute path.
func Open(path string) (*Source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve repository path %q: %w", path, err)
	}

	repo, err := gogit.PlainOpen(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %q: %w", abs, err)
	}

	return &Source{
		repo: repo,
		path: abs,
		name: filepath.Base(abs),
	}, nil
}

// Name returns the repository name recorded in the manifest.
func (s *Source) Name() string {
	return s.name
}

// GetMetrics returns a copy of the metrics for the most recent extraction run.
func (s *Source) GetMetrics() Metrics {
	return s.metrics
}
