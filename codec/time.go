package codec

import "time"

// TimeLayout is the fixed textual datetime format used inside persisted
// documents, e.g. "2026-08-30T15:04:05.123456". It always carries six
// fractional digits so files remain byte-stable and parseable.
const TimeLayout = "2006-01-02T15:04:05.000000"

// FormatTime renders t in the persisted datetime format.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// ParseTime parses a timestamp in the persisted datetime format.
func ParseTime(s string) (time.Time, error) {
	return time.ParseInLocation(TimeLayout, s, time.Local)
}
