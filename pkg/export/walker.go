package export

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// CollectCommits returns every commit reachable from the named branch
// head in topological order: every commit's parents appear at strictly
// earlier positions than the commit itself. The order is deterministic
// for a given graph because parents are visited in their recorded
// first-parent order.
//
// Returns ErrRefNotFound if the branch does not exist.
func (s *Source) CollectCommits(branch string) ([]*object.Commit, error) {
	refName := plumbing.NewBranchReferenceName(branch)
	ref, err := s.repo.Reference(refName, true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrRefNotFound, branch)
		}
		return nil, fmt.Errorf("failed to resolve %s: %w", refName, err)
	}

	// Iterative depth-first post-order walk. A frame is expanded once
	// (its parents pushed above it) and emitted when it surfaces again,
	// at which point every ancestor has already been emitted.
	type frame struct {
		hash     plumbing.Hash
		expanded bool
	}

	var (
		ordered []*object.Commit
		emitted = make(map[plumbing.Hash]bool)
		cache   = make(map[plumbing.Hash]*object.Commit)
		stack   = []frame{{hash: ref.Hash()}}
	)

	lookup := func(h plumbing.Hash) (*object.Commit, error) {
		if c, ok := cache[h]; ok {
			return c, nil
		}
		c, err := s.repo.CommitObject(h)
		if err != nil {
			return nil, fmt.Errorf("failed to read commit %s: %w", h, err)
		}
		cache[h] = c
		return c, nil
	}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		if emitted[top.hash] {
			stack = stack[:len(stack)-1]
			continue
		}

		commit, err := lookup(top.hash)
		if err != nil {
			return nil, err
		}

		if top.expanded {
			ordered = append(ordered, commit)
			emitted[top.hash] = true
			stack = stack[:len(stack)-1]
			continue
		}

		top.expanded = true
		// Push in reverse so the first parent is walked first.
		for i := len(commit.ParentHashes) - 1; i >= 0; i-- {
			if parent := commit.ParentHashes[i]; !emitted[parent] {
				stack = append(stack, frame{hash: parent})
			}
		}
	}

	return ordered, nil
}
