package replay

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/im-fiv/git-rewrite/pkg/config"
	"github.com/im-fiv/git-rewrite/pkg/gittime"
	"github.com/im-fiv/git-rewrite/pkg/manifest"
	"github.com/im-fiv/git-rewrite/pkg/telemetry/logging"
)

var (
	// ErrEmptyManifest is returned when the manifest lists no commits;
	// there is nothing to replay and no commit to branch from.
	ErrEmptyManifest = errors.New("manifest contains no commits")

	// ErrDanglingParent is returned when a record lists a parent that no
	// earlier record created.
	ErrDanglingParent = errors.New("dangling parent reference")

	// ErrCommitCreate is returned when the engine refuses to create a
	// commit. The target repository is left with a valid prefix of the
	// replayed history.
	ErrCommitCreate = errors.New("commit creation failed")
)

// scratchBranch is the unborn branch HEAD points at while commits are
// being created. Keeping HEAD unborn guarantees the engine never injects
// an implicit parent: every commit gets exactly the parents resolved from
// the manifest, including none at all for roots.
const scratchBranch = "git-rewrite/replay"

// Replayer rebuilds a commit history in a target repository. It is
// single-use: one Replayer serves one replay run, and its remap table is
// discarded with it.
type Replayer struct {
	dir     string
	repo    *gogit.Repository
	remap   map[string]plumbing.Hash
	cfg     *config.Config
	logger  *logging.Logger
	metrics Metrics
}

// Metrics tracks replay metrics for one run.
type Metrics struct {
	CommitsReplayed int
	ParentsDropped  int
	Duration        time.Duration
}

// New initializes a fresh repository at targetDir and returns a Replayer
// bound to it. The directory is created if it does not exist; it must not
// already contain a repository.
func New(targetDir string, cfg *config.Config, logger *logging.Logger) (*Replayer, error) {
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create target directory %q: %w", targetDir, err)
	}

	repo, err := gogit.PlainInit(targetDir, false)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize repository at %q: %w", targetDir, err)
	}

	return &Replayer{
		dir:    targetDir,
		repo:   repo,
		remap:  make(map[string]plumbing.Hash),
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Replay processes every manifest record in stored order and finally
// points refs/heads/<branch> (and HEAD) at the last created commit. One
// progress line per commit is written to progress when it is non-nil.
//
// Fails with ErrEmptyManifest before creating anything if the manifest
// lists no commits. Any later failure aborts the run immediately, leaving
// the target repository with a valid prefix of the history.
func (r *Replayer) Replay(m *manifest.RepoManifest, progress io.Writer) error {
	if len(m.Commits) == 0 {
		return ErrEmptyManifest
	}

	start := time.Now()

	for _, meta := range m.Commits {
		newHash, err := r.replayOne(meta)
		if err != nil {
			return err
		}

		r.remap[meta.Sha] = newHash
		r.metrics.CommitsReplayed++

		r.logger.Debug("replayed commit", "old", meta.Sha, "new", newHash.String())
		if progress != nil {
			fmt.Fprintf(progress, "Replayed commit %s -> %s\n", shortSha(meta.Sha), newHash)
		}
	}

	last := r.remap[m.Commits[len(m.Commits)-1].Sha]
	if err := r.finalizeBranch(m.Branch, last); err != nil {
		return err
	}

	r.metrics.Duration = time.Since(start)
	r.logger.Info("replay complete",
		"commits", r.metrics.CommitsReplayed,
		"branch", m.Branch,
		"head", last.String(),
		"duration", r.metrics.Duration,
	)

	return nil
}

// Remap returns the new identifier created for an original commit
// identifier during this run.
func (r *Replayer) Remap(originalSha string) (plumbing.Hash, bool) {
	hash, ok := r.remap[originalSha]
	return hash, ok
}

// GetMetrics returns a copy of the metrics for this run.
func (r *Replayer) GetMetrics() Metrics {
	return r.metrics
}

// replayOne recreates a single commit from its record: clear, copy,
// stage, commit with remapped parents.
func (r *Replayer) replayOne(meta *manifest.CommitMeta) (plumbing.Hash, error) {
	if err := r.clearWorkdir(); err != nil {
		return plumbing.ZeroHash, err
	}

	if err := copySnapshot(meta.Folder, r.dir, r.cfg.Export.MetaName); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to copy snapshot %q: %w", meta.Folder, err)
	}

	worktree, err := r.repo.Worktree()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to get worktree: %w", err)
	}

	// Full-tree staging: additions, modifications and deletions relative
	// to the previous record are all captured.
	if err := worktree.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to stage working area: %w", err)
	}

	seconds, offsetMinutes := gittime.ToGitTime(meta.Date)
	when, err := gittime.FromGitTime(seconds, offsetMinutes)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("commit %s: %w", meta.Sha, err)
	}

	// Committer identity is the author identity; the original committer
	// is not preserved.
	signature := object.Signature{
		Name:  meta.AuthorName,
		Email: meta.AuthorEmail,
		When:  when,
	}

	parents, err := r.resolveParents(meta)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	if err := r.resetHead(); err != nil {
		return plumbing.ZeroHash, err
	}

	newHash, err := worktree.Commit(meta.Message, &gogit.CommitOptions{
		Author:            &signature,
		Committer:         &signature,
		Parents:           parents,
		AllowEmptyCommits: true,
	})
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("%w: commit %s: %v", ErrCommitCreate, meta.Sha, err)
	}

	return newHash, nil
}

// resolveParents maps a record's original parent identifiers to the new
// identifiers created earlier in the run, preserving order.
func (r *Replayer) resolveParents(meta *manifest.CommitMeta) ([]plumbing.Hash, error) {
	parents := make([]plumbing.Hash, 0, len(meta.Parents))

	for _, original := range meta.Parents {
		newHash, ok := r.remap[original]
		if !ok {
			if r.cfg.Replay.AllowDanglingParents {
				r.metrics.ParentsDropped++
				r.logger.Warn("dropping unresolved parent", "commit", meta.Sha, "parent", original)
				continue
			}
			return nil, fmt.Errorf("%w: commit %s lists parent %s, which no earlier manifest entry created", ErrDanglingParent, meta.Sha, original)
		}
		parents = append(parents, newHash)
	}

	return parents, nil
}

// clearWorkdir removes every top-level entry of the working area except
// the engine's own state directory.
func (r *Replayer) clearWorkdir() error {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("failed to read working area %q: %w", r.dir, err)
	}

	for _, entry := range entries {
		if entry.Name() == gogit.GitDirName {
			continue
		}
		if err := os.RemoveAll(filepath.Join(r.dir, entry.Name())); err != nil {
			return fmt.Errorf("failed to clear working area: %w", err)
		}
	}

	return nil
}

// resetHead points HEAD at the unborn scratch branch so the next commit
// is created with exactly the parents passed in.
func (r *Replayer) resetHead() error {
	scratch := plumbing.NewBranchReferenceName(scratchBranch)

	if err := r.repo.Storer.RemoveReference(scratch); err != nil {
		return fmt.Errorf("failed to reset scratch branch: %w", err)
	}

	head := plumbing.NewSymbolicReference(plumbing.HEAD, scratch)
	if err := r.repo.Storer.SetReference(head); err != nil {
		return fmt.Errorf("failed to detach HEAD: %w", err)
	}

	return nil
}

// finalizeBranch creates the durable branch reference at the manifest's
// branch name, points HEAD at it, and drops the scratch branch.
func (r *Replayer) finalizeBranch(branch string, head plumbing.Hash) error {
	branchRef := plumbing.NewBranchReferenceName(branch)

	if err := r.repo.Storer.SetReference(plumbing.NewHashReference(branchRef, head)); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", branch, err)
	}

	if err := r.repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, branchRef)); err != nil {
		return fmt.Errorf("failed to point HEAD at %s: %w", branch, err)
	}

	if err := r.repo.Storer.RemoveReference(plumbing.NewBranchReferenceName(scratchBranch)); err != nil {
		return fmt.Errorf("failed to remove scratch branch: %w", err)
	}

	return nil
}

// shortSha abbreviates a commit identifier for progress output.
func shortSha(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
