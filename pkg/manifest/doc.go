// Package manifest defines the portable representation of an extracted
// commit history.
//
// An extraction run produces one RepoManifest holding an ordered sequence
// of CommitMeta records, one per commit, each referencing a snapshot
// directory that contains that commit's full file tree. The ordering is a
// load-bearing invariant: every commit's parents appear at strictly
// earlier positions, which is what allows replay to resolve parents from
// already-recreated commits.
//
// Records serialize to JSON losslessly. Timestamps are written in RFC 3339
// form with an explicit numeric offset, so the author's original timezone
// survives the round trip.
package manifest
