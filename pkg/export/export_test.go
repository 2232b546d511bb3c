package export

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/im-fiv/git-rewrite/pkg/config"
	"github.com/im-fiv/git-rewrite/pkg/telemetry/logging"
)

// initTestRepo creates an empty repository whose default branch is main.
func initTestRepo(t *testing.T, dir string) *gogit.Repository {
	t.Helper()

	repo, err := gogit.PlainInitWithOptions(dir, &gogit.PlainInitOptions{
		InitOptions: gogit.InitOptions{DefaultBranch: plumbing.Main},
	})
	if err != nil {
		t.Fatalf("failed to init repo: %v", err)
	}
	return repo
}

// addCommit writes the given files, stages everything, and commits with
// the given author. Explicit parents override the current HEAD.
func addCommit(t *testing.T, repo *gogit.Repository, dir, message string, files map[string]string, author object.Signature, parents ...plumbing.Hash) plumbing.Hash {
	t.Helper()

	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to get worktree: %v", err)
	}

	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create parent dirs for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	if err := worktree.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		t.Fatalf("failed to stage files: %v", err)
	}

	hash, err := worktree.Commit(message, &gogit.CommitOptions{
		Author:            &author,
		Committer:         &author,
		Parents:           parents,
		AllowEmptyCommits: true,
	})
	if err != nil {
		t.Fatalf("failed to commit: %v", err)
	}
	return hash
}

func testAuthor(offsetHours int) object.Signature {
	return object.Signature{
		Name:  "Test User",
		Email: "test@example.com",
		When:  time.Date(2023, time.May, 1, 10, 0, 0, 0, time.FixedZone("", offsetHours*3600)),
	}
}

func testConfig(exportDir string) *config.Config {
	cfg := config.NewDefault()
	cfg.Export.Dir = exportDir
	return cfg
}

func discardLogger(t *testing.T) *logging.Logger {
	t.Helper()
	logger, err := logging.New(logging.Config{Level: "error", Format: "text", Writer: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}
	return logger
}

func TestOpenNotARepository(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Error("Open of a bare directory succeeded")
	}
}

func TestCollectCommitsRefNotFound(t *testing.T) {
	dir := t.TempDir()
	repo := initTestRepo(t, dir)
	addCommit(t, repo, dir, "initial", map[string]string{"a.txt": "a"}, testAuthor(0))

	src, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	_, err = src.CollectCommits("no-such-branch")
	if !errors.Is(err, ErrRefNotFound) {
		t.Errorf("CollectCommits error = %v, want ErrRefNotFound", err)
	}
}

func TestCollectCommitsLinearOrder(t *testing.T) {
	dir := t.TempDir()
	repo := initTestRepo(t, dir)

	c1 := addCommit(t, repo, dir, "first", map[string]string{"a.txt": "a"}, testAuthor(0))
	c2 := addCommit(t, repo, dir, "second", map[string]string{"b.txt": "b"}, testAuthor(0))
	c3 := addCommit(t, repo, dir, "third", map[string]string{"c.txt": "c"}, testAuthor(0))

	src, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	commits, err := src.CollectCommits("main")
	if err != nil {
		t.Fatalf("CollectCommits failed: %v", err)
	}

	want := []plumbing.Hash{c1, c2, c3}
	if len(commits) != len(want) {
		t.Fatalf("commit count = %d, want %d", len(commits), len(want))
	}
	for i, c := range commits {
		if c.Hash != want[i] {
			t.Errorf("position %d = %s, want %s", i, c.Hash, want[i])
		}
	}
}

func TestCollectCommitsParentsPrecedeChildren(t *testing.T) {
	dir := t.TempDir()
	repo := initTestRepo(t, dir)

	// Diamond: root -> (left, right) -> merge.
	root := addCommit(t, repo, dir, "root", map[string]string{"base.txt": "base"}, testAuthor(0))
	left := addCommit(t, repo, dir, "left", map[string]string{"left.txt": "l"}, testAuthor(0), root)
	right := addCommit(t, repo, dir, "right", map[string]string{"right.txt": "r"}, testAuthor(0), root)
	merge := addCommit(t, repo, dir, "merge", map[string]string{"merged.txt": "m"}, testAuthor(0), left, right)

	src, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	collect := func() []plumbing.Hash {
		commits, err := src.CollectCommits("main")
		if err != nil {
			t.Fatalf("CollectCommits failed: %v", err)
		}
		hashes := make([]plumbing.Hash, len(commits))
		for i, c := range commits {
			hashes[i] = c.Hash
		}
		return hashes
	}

	first := collect()

	position := make(map[plumbing.Hash]int, len(first))
	for i, h := range first {
		position[h] = i
	}

	edges := []struct {
		parent, child plumbing.Hash
	}{
		{root, left},
		{root, right},
		{left, merge},
		{right, merge},
	}
	for _, e := range edges {
		pi, ok := position[e.parent]
		if !ok {
			t.Fatalf("parent %s missing from order", e.parent)
		}
		ci, ok := position[e.child]
		if !ok {
			t.Fatalf("child %s missing from order", e.child)
		}
		if pi >= ci {
			t.Errorf("parent %s at %d does not precede child %s at %d", e.parent, pi, e.child, ci)
		}
	}

	// Deterministic across runs for the same input.
	second := collect()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("order differs between runs at position %d: %s vs %s", i, first[i], second[i])
		}
	}
}

func TestExportTree(t *testing.T) {
	dir := t.TempDir()
	repo := initTestRepo(t, dir)

	files := map[string]string{
		"readme.md":          "# hello\n",
		"src/main.go":        "package main\n",
		"src/nested/util.go": "package nested\n",
	}
	hash := addCommit(t, repo, dir, "layout", files, testAuthor(0))

	src, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	commit, err := repo.CommitObject(hash)
	if err != nil {
		t.Fatalf("failed to read commit: %v", err)
	}

	out := filepath.Join(t.TempDir(), "snapshot")
	if err := src.ExportTree(commit.TreeHash, out); err != nil {
		t.Fatalf("ExportTree failed: %v", err)
	}

	for name, want := range files {
		data, err := os.ReadFile(filepath.Join(out, name))
		if err != nil {
			t.Errorf("missing exported file %s: %v", name, err)
			continue
		}
		if string(data) != want {
			t.Errorf("file %s = %q, want %q", name, data, want)
		}
	}

	// No extra files beyond the tree's contents.
	var count int
	err = filepath.Walk(out, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			count++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("failed to walk output: %v", err)
	}
	if count != len(files) {
		t.Errorf("exported %d files, want %d", count, len(files))
	}
}

func TestExportTreeSkipsSymlinks(t *testing.T) {
	dir := t.TempDir()
	repo := initTestRepo(t, dir)

	if err := os.WriteFile(filepath.Join(dir, "target.txt"), []byte("content"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if err := os.Symlink("target.txt", filepath.Join(dir, "link")); err != nil {
		t.Skipf("symlinks not supported here: %v", err)
	}

	hash := addCommit(t, repo, dir, "with symlink", nil, testAuthor(0))

	src, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	commit, err := repo.CommitObject(hash)
	if err != nil {
		t.Fatalf("failed to read commit: %v", err)
	}

	out := filepath.Join(t.TempDir(), "snapshot")
	if err := src.ExportTree(commit.TreeHash, out); err != nil {
		t.Fatalf("ExportTree failed: %v", err)
	}

	if _, err := os.ReadFile(filepath.Join(out, "target.txt")); err != nil {
		t.Errorf("regular file missing: %v", err)
	}
	if _, err := os.Lstat(filepath.Join(out, "link")); !os.IsNotExist(err) {
		t.Errorf("symlink entry was exported, want skipped (err = %v)", err)
	}
}

func TestCapture(t *testing.T) {
	tokyo := time.FixedZone("+0900", 9*3600)

	tests := []struct {
		name        string
		commit      object.Commit
		wantName    string
		wantEmail   string
		wantMessage string
	}{
		{
			name: "FullIdentity",
			commit: object.Commit{
				Author:  object.Signature{Name: "Alice", Email: "alice@example.com", When: time.Date(2023, 6, 1, 9, 0, 0, 0, tokyo)},
				Message: "add feature\n\ndetails here\n",
			},
			wantName:    "Alice",
			wantEmail:   "alice@example.com",
			wantMessage: "add feature\n\ndetails here",
		},
		{
			name: "MissingIdentity",
			commit: object.Commit{
				Author:  object.Signature{When: time.Date(2023, 6, 1, 9, 0, 0, 0, time.UTC)},
				Message: "anonymous",
			},
			wantName:    "unknown",
			wantEmail:   "unknown",
			wantMessage: "anonymous",
		},
		{
			name: "InternalWhitespaceKept",
			commit: object.Commit{
				Author:  object.Signature{Name: "Bob", Email: "bob@example.com", When: time.Date(2023, 6, 1, 9, 0, 0, 0, time.UTC)},
				Message: "line one\n\n  indented line  \n\t\n",
			},
			wantName:    "Bob",
			wantEmail:   "bob@example.com",
			wantMessage: "line one\n\n  indented line",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, err := Capture(&tt.commit, "export/0001_x")
			if err != nil {
				t.Fatalf("Capture failed: %v", err)
			}

			if meta.AuthorName != tt.wantName {
				t.Errorf("AuthorName = %q, want %q", meta.AuthorName, tt.wantName)
			}
			if meta.AuthorEmail != tt.wantEmail {
				t.Errorf("AuthorEmail = %q, want %q", meta.AuthorEmail, tt.wantEmail)
			}
			if meta.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", meta.Message, tt.wantMessage)
			}
			if meta.Folder != "export/0001_x" {
				t.Errorf("Folder = %q, want export/0001_x", meta.Folder)
			}
			if !meta.Date.Equal(tt.commit.Author.When) {
				t.Errorf("Date = %v, want %v", meta.Date, tt.commit.Author.When)
			}
			_, wantOffset := tt.commit.Author.When.Zone()
			_, gotOffset := meta.Date.Zone()
			if gotOffset != wantOffset {
				t.Errorf("Date offset = %d, want %d", gotOffset, wantOffset)
			}
		})
	}
}

func TestCapturePreservesParentOrder(t *testing.T) {
	p1 := plumbing.NewHash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	p2 := plumbing.NewHash("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")

	commit := object.Commit{
		Author:       object.Signature{Name: "Alice", Email: "a@example.com", When: time.Now()},
		Message:      "merge",
		ParentHashes: []plumbing.Hash{p1, p2},
	}

	meta, err := Capture(&commit, "export/0003_x")
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}

	if len(meta.Parents) != 2 || meta.Parents[0] != p1.String() || meta.Parents[1] != p2.String() {
		t.Errorf("Parents = %v, want [%s %s]", meta.Parents, p1, p2)
	}
}

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	repo := initTestRepo(t, dir)

	c1 := addCommit(t, repo, dir, "first", map[string]string{"a.txt": "a"}, testAuthor(0))
	c2 := addCommit(t, repo, dir, "second", map[string]string{"b.txt": "b"}, testAuthor(9))
	c3 := addCommit(t, repo, dir, "third", map[string]string{"sub/c.txt": "c"}, testAuthor(-5))

	src, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	exportDir := filepath.Join(t.TempDir(), "export")
	cfg := testConfig(exportDir)

	var progress bytes.Buffer
	m, err := src.Extract(cfg, discardLogger(t), &progress)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if m.Name != filepath.Base(dir) {
		t.Errorf("manifest name = %q, want %q", m.Name, filepath.Base(dir))
	}
	if m.Branch != "main" {
		t.Errorf("manifest branch = %q, want main", m.Branch)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("manifest fails its own validation: %v", err)
	}

	wantShas := []plumbing.Hash{c1, c2, c3}
	if len(m.Commits) != len(wantShas) {
		t.Fatalf("manifest commits = %d, want %d", len(m.Commits), len(wantShas))
	}
	for i, meta := range m.Commits {
		if meta.Sha != wantShas[i].String() {
			t.Errorf("commit %d sha = %s, want %s", i, meta.Sha, wantShas[i])
		}

		wantFolder := filepath.Join(exportDir, fmt.Sprintf("%04d_%s", i+1, meta.Sha))
		if meta.Folder != wantFolder {
			t.Errorf("commit %d folder = %q, want %q", i, meta.Folder, wantFolder)
		}
		if info, err := os.Stat(meta.Folder); err != nil || !info.IsDir() {
			t.Errorf("commit %d snapshot dir missing: %v", i, err)
		}
		if _, err := os.Stat(filepath.Join(meta.Folder, cfg.Export.MetaName)); err != nil {
			t.Errorf("commit %d sidecar missing: %v", i, err)
		}
	}

	// Snapshots accumulate: the third holds all three files.
	for _, name := range []string{"a.txt", "b.txt", "sub/c.txt"} {
		if _, err := os.Stat(filepath.Join(m.Commits[2].Folder, name)); err != nil {
			t.Errorf("third snapshot missing %s: %v", name, err)
		}
	}

	if _, err := os.Stat(filepath.Join(exportDir, cfg.Export.ManifestName)); err != nil {
		t.Errorf("manifest file missing: %v", err)
	}

	if lines := strings.Count(progress.String(), "\n"); lines != 3 {
		t.Errorf("progress lines = %d, want 3", lines)
	}

	metrics := src.GetMetrics()
	if metrics.CommitsExported != 3 {
		t.Errorf("CommitsExported = %d, want 3", metrics.CommitsExported)
	}
	if metrics.FilesWritten == 0 || metrics.BytesWritten == 0 {
		t.Errorf("file metrics empty: %+v", metrics)
	}
}
