// Package gittime converts between Go timestamps and Git's native
// timestamp representation.
//
// Git stores authorship times as a pair of integers: seconds since the
// Unix epoch and a timezone offset in minutes east of UTC. A commit made
// at the same absolute instant by authors in different timezones differs
// only in that offset, so the offset must survive a round-trip exactly
// rather than being normalized to UTC.
//
// ToGitTime and FromGitTime form a lossless pair for every timestamp Git
// can represent within the calendar range that serializes to RFC 3339
// (years 1 through 9999):
//
//	secs, offset := gittime.ToGitTime(t)
//	back, err := gittime.FromGitTime(secs, offset)
//	// back.Equal(t) and back has the same UTC offset as t
package gittime
