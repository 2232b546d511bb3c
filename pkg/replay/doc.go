// Package replay reconstructs a commit history from an extraction
// manifest.
//
// A Replayer owns a freshly initialized repository and an identifier
// remap table scoped to one run. For each manifest record, in order, it
// clears the working area, copies the record's snapshot into it, stages
// the full tree, and creates a new commit whose parents are resolved
// through the remap table. Because the manifest is topologically ordered,
// every parent has already been recreated by the time a child needs it.
//
// The rebuilt history is isomorphic to the original: same shape, same
// metadata, new object identifiers.
//
// # Parent resolution
//
// A parent identifier with no remap entry aborts the run with
// ErrDanglingParent. The legacy behavior of silently dropping such
// parents (which can flatten a merge without any error) is available
// behind the replay.allow_dangling_parents configuration knob.
package replay
