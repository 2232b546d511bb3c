package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/im-fiv/git-rewrite/pkg/config"
	"github.com/im-fiv/git-rewrite/pkg/manifest"
	"github.com/im-fiv/git-rewrite/pkg/telemetry/logging"
)

// Extract runs one full extraction: it orders the configured branch's
// history, writes each commit's snapshot directory and metadata sidecar
// under the export directory, and finally writes the manifest.
//
// Snapshot directories are named <index>_<sha>, where index is the
// 1-based position in topological order, zero-padded to the configured
// width. One progress line per commit is written to progress when it is
// non-nil.
//
// The export directory is not cleaned up on failure.
func (s *Source) Extract(cfg *config.Config, logger *logging.Logger, progress io.Writer) (*manifest.RepoManifest, error) {
	start := time.Now()
	s.metrics = Metrics{}

	commits, err := s.CollectCommits(cfg.Branch)
	if err != nil {
		return nil, err
	}

	logger.Info("collected commits", "repo", s.name, "branch", cfg.Branch, "count", len(commits))

	if err := os.MkdirAll(cfg.Export.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory %q: %w", cfg.Export.Dir, err)
	}

	m := &manifest.RepoManifest{
		Name:   s.name,
		Branch: cfg.Branch,
	}

	for i, commit := range commits {
		folder := filepath.Join(cfg.Export.Dir, fmt.Sprintf("%0*d_%s", cfg.Export.IndexWidth, i+1, commit.Hash))

		if err := s.ExportTree(commit.TreeHash, folder); err != nil {
			return nil, err
		}

		meta, err := Capture(commit, folder)
		if err != nil {
			return nil, err
		}

		if err := manifest.WriteMeta(filepath.Join(folder, cfg.Export.MetaName), meta); err != nil {
			return nil, err
		}

		m.Commits = append(m.Commits, meta)
		s.metrics.CommitsExported++

		logger.Debug("exported commit", "sha", meta.Sha, "folder", folder, "parents", len(meta.Parents))
		if progress != nil {
			fmt.Fprintf(progress, "Exported commit %s -> %s\n", shortSha(meta.Sha), folder)
		}
	}

	manifestPath := filepath.Join(cfg.Export.Dir, cfg.Export.ManifestName)
	if err := manifest.Write(manifestPath, m); err != nil {
		return nil, err
	}

	s.metrics.Duration = time.Since(start)
	logger.Info("extraction complete",
		"commits", s.metrics.CommitsExported,
		"files", s.metrics.FilesWritten,
		"bytes", s.metrics.BytesWritten,
		"duration", s.metrics.Duration,
	)

	return m, nil
}

// shortSha abbreviates a commit identifier for progress output.
func shortSha(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
