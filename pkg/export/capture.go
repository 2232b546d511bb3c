package export

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/im-fiv/git-rewrite/pkg/gittime"
	"github.com/im-fiv/git-rewrite/pkg/manifest"
)

// unknownIdentity is the documented lossy fallback for commits whose
// author name or email is absent.
const unknownIdentity = "unknown"

// Capture builds the metadata record for one commit, referencing folder
// as its snapshot location. The commit message keeps its internal content
// untouched but loses trailing whitespace; absent author fields fall back
// to the literal "unknown". The authorship timestamp passes through the
// git time codec so the record carries exactly the instant and offset
// that replay will hand back to the engine.
func Capture(c *object.Commit, folder string) (*manifest.CommitMeta, error) {
	name := c.Author.Name
	if name == "" {
		name = unknownIdentity
	}
	email := c.Author.Email
	if email == "" {
		email = unknownIdentity
	}

	seconds, offsetMinutes := gittime.ToGitTime(c.Author.When)
	date, err := gittime.FromGitTime(seconds, offsetMinutes)
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w", c.Hash, err)
	}

	parents := make([]string, 0, len(c.ParentHashes))
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}

	return &manifest.CommitMeta{
		Sha:         c.Hash.String(),
		Parents:     parents,
		AuthorName:  name,
		AuthorEmail: email,
		Date:        date,
		Message:     strings.TrimRightFunc(c.Message, unicode.IsSpace),
		TreeSha:     c.TreeHash.String(),
		Folder:      folder,
	}, nil
}
