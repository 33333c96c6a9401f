package chatdb

import "time"

// appleEpoch is the reference instant for the Messages date columns:
// 2001-01-01 00:00:00 UTC.
var appleEpoch = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

// AppleTime converts a Messages-database date value to a time.Time in UTC.
//
// The column stores time since the Apple epoch, but the unit changed across
// macOS versions (nanoseconds, seconds, or microseconds). The unit is
// guessed from magnitude: values above 1e12 are nanoseconds, above 1e9 are
// seconds, anything smaller is treated as microseconds.
func AppleTime(v int64) time.Time {
	var d time.Duration
	switch {
	case v > 1e12:
		d = time.Duration(v) * time.Nanosecond
	case v > 1e9:
		d = time.Duration(v) * time.Second
	default:
		d = time.Duration(v) * time.Microsecond
	}
	return appleEpoch.Add(d)
}
