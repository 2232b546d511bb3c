package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrDecode is returned when a manifest or commit record cannot be parsed.
var ErrDecode = errors.New("manifest decode failed")

// CommitMeta captures the semantically relevant fields of one original
// commit. Records are created once during extraction and never mutated.
type CommitMeta struct {
	// Sha is the original commit identifier.
	Sha string `json:"sha"`

	// Parents lists the original parent identifiers in first-parent
	// order. Order is semantically meaningful and must be preserved.
	Parents []string `json:"parents"`

	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`

	// Date is the authorship timestamp, carrying the author's original
	// fixed timezone offset.
	Date time.Time `json:"date"`

	// Message is the commit message with trailing whitespace trimmed.
	Message string `json:"message"`

	// TreeSha is the original tree identifier, kept for verification.
	// Replay derives the tree from the snapshot directory instead.
	TreeSha string `json:"tree_sha"`

	// Folder is the path to the exported snapshot directory.
	Folder string `json:"folder"`
}

// RepoManifest describes one extraction run: the source repository name,
// the extracted branch, and every commit in topological order.
type RepoManifest struct {
	Name    string        `json:"name"`
	Branch  string        `json:"branch"`
	Commits []*CommitMeta `json:"commits"`
}

// Validate checks the structural invariants of the manifest. In
// particular it enforces the ordering invariant: any parent identifier
// that appears anywhere in the manifest must appear at a strictly earlier
// index than its child.
func (m *RepoManifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("manifest name is empty")
	}
	if m.Branch == "" {
		return fmt.Errorf("manifest branch is empty")
	}

	position := make(map[string]int, len(m.Commits))
	for i, c := range m.Commits {
		if c == nil {
			return fmt.Errorf("commit %d is null", i)
		}
		if c.Sha == "" {
			return fmt.Errorf("commit %d has an empty sha", i)
		}
		if c.Folder == "" {
			return fmt.Errorf("commit %s has an empty snapshot folder", c.Sha)
		}
		if prev, ok := position[c.Sha]; ok {
			return fmt.Errorf("commit %s appears twice (positions %d and %d)", c.Sha, prev, i)
		}
		position[c.Sha] = i
	}

	for i, c := range m.Commits {
		for _, parent := range c.Parents {
			j, ok := position[parent]
			if !ok {
				// A parent outside the manifest is legal at
				// validation time; replay decides how to treat it.
				continue
			}
			if j >= i {
				return fmt.Errorf("commit %s (position %d) precedes its parent %s (position %d)", c.Sha, i, parent, j)
			}
		}
	}

	return nil
}

// Write serializes the manifest as indented JSON to the given path.
func Write(path string, m *RepoManifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest %q: %w", path, err)
	}
	return nil
}

// Load reads and parses a manifest from the given path. Parse failures
// wrap ErrDecode so callers can distinguish a malformed manifest from a
// missing one.
func Load(path string) (*RepoManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %q: %w", path, err)
	}

	var m RepoManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrDecode, path, err)
	}

	return &m, nil
}

// WriteMeta serializes one commit record as indented JSON, used for the
// per-snapshot sidecar file.
func WriteMeta(path string, c *CommitMeta) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode commit record: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write commit record %q: %w", path, err)
	}
	return nil
}
