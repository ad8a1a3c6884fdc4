package domain

import (
	"log/slog"
	"strings"
	"time"
)

// TaiwanZone is the fixed UTC+8 zone used for every display time.
var TaiwanZone = time.FixedZone("CST", 8*60*60)

// DisplayLayout renders month/day hour:minute, e.g. "01/01 03:00".
const DisplayLayout = "01/02 15:04"

// offset-less layouts are read as UTC.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// LocalTime converts an ISO-8601 timestamp into a Taiwan-time display string.
//
// Empty input yields "". Input without a 'T' separator is returned unchanged.
// Unparsable input is logged and degrades to the clock portion after the
// separator (at most five characters). LocalTime never fails, and feeding its
// output back in returns the same string.
func LocalTime(raw string, logger *slog.Logger) string {
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "T") {
		return raw
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		for _, layout := range localLayouts {
			if lt, lerr := time.Parse(layout, raw); lerr == nil {
				t, err = lt, nil
				break
			}
		}
	}
	if err != nil {
		if logger != nil {
			logger.Warn("time conversion failed", "raw", raw, "error", err)
		}
		return clockPortion(raw)
	}
	return t.In(TaiwanZone).Format(DisplayLayout)
}

// clockPortion returns the text between the first and second 'T', truncated to
// five runes ("HH:MM").
func clockPortion(raw string) string {
	parts := strings.Split(raw, "T")
	if len(parts) < 2 {
		return ""
	}
	r := []rune(parts[1])
	if len(r) > 5 {
		r = r[:5]
	}
	return string(r)
}
