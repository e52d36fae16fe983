// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

// Package dates parses the timestamp shapes found in the platform exports
// and provides month bucketing helpers.
//
// The loader normalizes every timestamp to a string, so a value reaching
// this package is one of: an RFC 3339 / ISO 8601 timestamp, a date-only
// string, an epoch number in seconds or milliseconds, or the text of a
// {"$numberLong": "..."} wrapper. Values without a zone are taken as UTC.
package dates

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// msThreshold separates epoch seconds from epoch milliseconds.
const msThreshold = 1e11

var (
	isoLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
	}

	dateLayouts = []string{
		"2006-01-02",
		"2006/01/02",
		"01/02/2006",
	}

	numberLongRe = regexp.MustCompile(`\$numberLong["']?\s*:\s*["']?(-?\d+)`)
)

// Parse converts a timestamp string into a UTC time.
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if isDigits(s) {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return time.Time{}, false
		}
		return EpochToTime(v), true
	}

	if strings.Contains(s, "$numberLong") {
		m := numberLongRe.FindStringSubmatch(s)
		if m == nil {
			return time.Time{}, false
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return time.Time{}, false
		}
		return EpochToTime(v), true
	}

	if strings.Contains(s, "T") {
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), true
			}
		}
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}

	// "2024-01-15 10:00:00" style values
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

// EpochToTime converts epoch seconds, or milliseconds when the value is
// larger than 1e11, to a UTC time.
func EpochToTime(v float64) time.Time {
	if v > msThreshold {
		return time.UnixMilli(int64(v)).UTC()
	}
	sec, frac := math.Modf(v)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC()
}

// DaysSince returns the whole days elapsed from the parsed value to end,
// floored like a calendar difference. ok is false when s cannot be parsed.
func DaysSince(s string, end time.Time) (int, bool) {
	t, ok := Parse(s)
	if !ok {
		return 0, false
	}
	return DaysBetween(t, end), true
}

// DaysBetween returns floor((end - start) / 24h).
func DaysBetween(start, end time.Time) int {
	return int(math.Floor(end.Sub(start).Hours() / 24))
}

// MonthKey formats t as "YYYY-MM".
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// DayKey formats t as "YYYY-MM-DD".
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// MonthSortKey splits a "YYYY-MM" key into sortable parts, or (0, 0) for
// malformed input.
func MonthSortKey(key string) (int, int) {
	year, month, ok := strings.Cut(key, "-")
	if !ok {
		return 0, 0
	}
	y, err1 := strconv.Atoi(year)
	m, err2 := strconv.Atoi(month)
	if err1 != nil || err2 != nil {
		return 0, 0
	}
	return y, m
}

// LessMonth orders "YYYY-MM" keys chronologically.
func LessMonth(a, b string) bool {
	ay, am := MonthSortKey(a)
	by, bm := MonthSortKey(b)
	if ay != by {
		return ay < by
	}
	return am < bm
}

// GroupByMonth buckets times by MonthKey, ignoring zero values.
func GroupByMonth(ts []time.Time) map[string][]time.Time {
	out := make(map[string][]time.Time)
	for _, t := range ts {
		if t.IsZero() {
			continue
		}
		k := MonthKey(t)
		out[k] = append(out[k], t)
	}
	return out
}

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the last nanosecond of t's UTC day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).Add(24*time.Hour - time.Nanosecond)
}

// ParseDay parses a "YYYY-MM-DD" string at midnight UTC.
func ParseDay(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
