package gittime

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimestamp is returned by FromGitTime when the offset does not
// describe a valid fixed-offset timezone or the instant falls outside the
// representable calendar range.
var ErrInvalidTimestamp = errors.New("invalid git timestamp")

const (
	// maxOffsetMinutes bounds a valid timezone offset to strictly less
	// than 24 hours either side of UTC, matching what Git accepts.
	maxOffsetMinutes = 24 * 60

	// minYear and maxYear bound the calendar range that survives RFC 3339
	// serialization. Instants outside it cannot round-trip through the
	// manifest.
	minYear = 1
	maxYear = 9999
)

// ToGitTime converts a timestamp to Git's (epoch seconds, offset minutes)
// pair. The offset is taken from t's location, so a time carrying a
// time.FixedZone keeps its original timezone. Git cannot represent
// offsets finer than a minute, so the seconds part of an offset (seen in
// historical local-mean-time zones) truncates toward zero.
func ToGitTime(t time.Time) (seconds int64, offsetMinutes int) {
	_, offsetSeconds := t.Zone()
	return t.Unix(), offsetSeconds / 60
}

// FromGitTime converts Git's (epoch seconds, offset minutes) pair back
// into a time.Time whose location is a fixed zone of exactly
// offsetMinutes. It returns ErrInvalidTimestamp when the offset is not a
// valid fixed-offset timezone or the resulting instant falls outside the
// representable calendar range.
func FromGitTime(seconds int64, offsetMinutes int) (time.Time, error) {
	if offsetMinutes <= -maxOffsetMinutes || offsetMinutes >= maxOffsetMinutes {
		return time.Time{}, fmt.Errorf("%w: offset %d minutes out of range", ErrInvalidTimestamp, offsetMinutes)
	}

	zone := time.FixedZone(zoneName(offsetMinutes), offsetMinutes*60)
	t := time.Unix(seconds, 0).In(zone)

	if year := t.Year(); year < minYear || year > maxYear {
		return time.Time{}, fmt.Errorf("%w: epoch seconds %d outside representable range", ErrInvalidTimestamp, seconds)
	}

	return t, nil
}

// zoneName formats an offset in minutes as the conventional ±hhmm zone
// label, e.g. +0900 or -0530.
func zoneName(offsetMinutes int) string {
	sign := "+"
	if offsetMinutes < 0 {
		sign = "-"
		offsetMinutes = -offsetMinutes
	}
	return fmt.Sprintf("%s%02d%02d", sign, offsetMinutes/60, offsetMinutes%60)
}
