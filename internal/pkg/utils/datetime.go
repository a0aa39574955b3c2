package utils

import (
	"time"
)

// NowUnixMilli returns the current time in epoch milliseconds.
func NowUnixMilli() int64 {
	return time.Now().UnixMilli()
}

// ISO8601ToUnixMilli converts an RFC 3339 timestamp such as
// "2024-07-07T00:00:00+09:00" into epoch milliseconds.
func ISO8601ToUnixMilli(s string) (int64, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}
