package analytics

import "time"

// msTime returns a *time.Time at the given Unix-millisecond timestamp.
func msTime(ms int64) *time.Time {
	t := time.UnixMilli(ms)
	return &t
}

// timeAt is the value form of msTime.
func timeAt(ms int64) time.Time { return time.UnixMilli(ms) }
