// Package export extracts the commit history of one branch into a
// portable filesystem representation.
//
// An extraction run walks every commit reachable from the branch head in
// topological order (parents always before children), materializes each
// commit's full tree into its own snapshot directory, and captures a
// metadata record per commit. The records are aggregated into a manifest
// that pkg/replay later consumes to reconstruct an isomorphic history.
//
// # Basic Usage
//
//	src, err := export.Open(".")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	m, err := src.Extract(cfg, logger, os.Stdout)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Ordering
//
// CollectCommits performs a depth-first post-order traversal from the
// branch head, visiting a commit's parents in their recorded order before
// emitting the commit. The result is a deterministic topological order:
// for any two commits where one is an ancestor of the other, the ancestor
// appears strictly earlier.
//
// # Limitations
//
// Symlink and submodule entries are not representable as plain file
// content and are skipped during tree export. Snapshot output is not
// rolled back on failure; a failed run leaves partial output in place.
package export
