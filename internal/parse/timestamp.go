package parse

import (
	"strings"
	"time"
)

// DisplayLayout is the canonical form records carry.
const DisplayLayout = "2006-01-02 15:04:05.000"

// Fractional seconds are accepted after the seconds field even though the
// layouts do not spell them out.
var isoLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-0700",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// NormalizeTimestamp turns an ISO-8601 timestamp into DisplayLayout, keeping
// the timestamp's own offset. Milliseconds are truncated. Input that does not
// parse is returned unchanged.
func NormalizeTimestamp(raw string) string {
	s := raw
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DisplayLayout)
		}
	}
	return raw
}
