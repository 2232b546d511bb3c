package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
)

// ExportTree materializes the tree object identified by treeHash into
// dir, creating the directory and any parents as needed. Regular and
// executable blobs are written with matching permission bits; symlink and
// submodule entries are skipped because they are not representable as
// plain file content.
//
// Traversal uses an explicit work list rather than recursion, so tree
// depth is bounded only by memory. Any I/O failure aborts the whole
// export; partially written output is left in place.
func (s *Source) ExportTree(treeHash plumbing.Hash, dir string) error {
	type task struct {
		hash plumbing.Hash
		dir  string
	}

	stack := []task{{hash: treeHash, dir: dir}}

	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		tree, err := s.repo.TreeObject(t.hash)
		if err != nil {
			return fmt.Errorf("failed to read tree %s: %w", t.hash, err)
		}

		if err := os.MkdirAll(t.dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", t.dir, err)
		}

		for _, entry := range tree.Entries {
			path := filepath.Join(t.dir, entry.Name)

			switch entry.Mode {
			case filemode.Dir:
				stack = append(stack, task{hash: entry.Hash, dir: path})

			case filemode.Regular, filemode.Executable:
				if err := s.writeBlob(entry.Hash, path, entry.Mode); err != nil {
					return err
				}

			default:
				// Symlinks and gitlinks have no plain-content form.
			}
		}
	}

	return nil
}

// writeBlob streams one blob's content to path with the permission bits
// implied by its tree entry mode.
func (s *Source) writeBlob(hash plumbing.Hash, path string, mode filemode.FileMode) error {
	blob, err := s.repo.BlobObject(hash)
	if err != nil {
		return fmt.Errorf("failed to read blob %s: %w", hash, err)
	}

	reader, err := blob.Reader()
	if err != nil {
		return fmt.Errorf("failed to open blob %s: %w", hash, err)
	}
	defer reader.Close()

	perm := os.FileMode(0644)
	if mode == filemode.Executable {
		perm = 0755
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("failed to create file %q: %w", path, err)
	}

	written, err := io.Copy(file, reader)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write file %q: %w", path, err)
	}

	s.metrics.FilesWritten++
	s.metrics.BytesWritten += written
	return nil
}
