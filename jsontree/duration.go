package jsontree

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Keys that look like durations but hold timestamps or dates.
var timestampTokens = []string{
	"create", "update", "publish", "modif", "delete", "release",
	"date", "timezone", "time_zone", "timestamp", "expire",
}

var secondTokens = []string{"second", "prediction", "printtime", "duration", "costtime"}

var (
	clockPattern = regexp.MustCompile(`^(\d+):(\d{1,2})(?::(\d{1,2}))?$`)
	unitPattern  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(days?|d|hours?|hrs?|h|minutes?|mins?|m|seconds?|secs?|s)`)
	barePattern  = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
)

// FindDuration returns the first positive duration, in hours, stored under a
// key matching one of hints. Numeric values are scaled by the unit named in
// the key; strings are parsed as clock times, unit-suffixed tokens or bare
// numbers. Timestamp-like keys are never considered.
func FindDuration(root Value, hints ...string) (float64, bool) {
	var (
		found float64
		ok    bool
	)
	Walk(root, func(key string, value Value, _ Value) bool {
		if !MatchesHint(key, hints) || isTimestampKey(key) {
			return true
		}
		var (
			hours  float64
			parsed bool
		)
		switch v := value.(type) {
		case Number:
			hours, parsed = numberToHours(key, float64(v))
		case String:
			hours, parsed = ParseDurationHours(string(v))
		}
		if parsed && hours > 0 && !math.IsInf(hours, 0) && !math.IsNaN(hours) {
			found, ok = hours, true
			return false
		}
		return true
	})
	return found, ok
}

func isTimestampKey(key string) bool {
	k := strings.ToLower(key)
	for _, t := range timestampTokens {
		if strings.Contains(k, t) {
			return true
		}
	}
	return false
}

func numberToHours(key string, n float64) (float64, bool) {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	k := strings.ToLower(key)
	switch {
	case strings.Contains(k, "ms"):
		return n / 3_600_000, true
	case strings.Contains(k, "hour"):
		return n, true
	case strings.Contains(k, "minute"):
		return n / 60, true
	case containsAny(k, secondTokens):
		return n / 3600, true
	default:
		return magnitudeToHours(n), true
	}
}

// ParseDurationHours reads a duration string and returns hours. It accepts
// "HH:MM:SS", "HH:MM", unit tokens like "1d 2h 30m 10s" or "16.7 h", and bare
// numbers, which are read as hours up to 72, minutes up to 7200 and seconds
// above that.
func ParseDurationHours(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if m := clockPattern.FindStringSubmatch(s); m != nil {
		h, _ := strconv.ParseFloat(m[1], 64)
		mins, _ := strconv.ParseFloat(m[2], 64)
		secs := 0.0
		if m[3] != "" {
			secs, _ = strconv.ParseFloat(m[3], 64)
		}
		return h + mins/60 + secs/3600, true
	}

	if barePattern.MatchString(s) {
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return magnitudeToHours(n), true
	}

	matches := unitPattern.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return 0, false
	}
	total := 0.0
	for _, m := range matches {
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		switch unit := strings.ToLower(m[2]); {
		case strings.HasPrefix(unit, "d"):
			total += n * 24
		case strings.HasPrefix(unit, "h"):
			total += n
		case strings.HasPrefix(unit, "m"):
			total += n / 60
		default:
			total += n / 3600
		}
	}
	return total, true
}

func magnitudeToHours(n float64) float64 {
	switch {
	case n <= 72:
		return n
	case n <= 7200:
		return n / 60
	default:
		return n / 3600
	}
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
