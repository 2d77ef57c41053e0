package types

import (
	"time"
)

// Timestamp returns the UTC Unix timestamp in
// nanoseconds.
func Timestamp() int64 {
	return time.Now().UTC().UnixNano()
}

// TimeOf converts a Timestamp value back to a UTC time.
func TimeOf(ts int64) time.Time {
	return time.Unix(0, ts).UTC()
}
