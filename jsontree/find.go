package jsontree

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var numberPattern = regexp.MustCompile(`[-+]?\d+(?:\.\d+)?`)

// MatchesHint reports whether key contains any hint, ignoring case.
func MatchesHint(key string, hints []string) bool {
	if key == "" {
		return false
	}
	k := strings.ToLower(key)
	for _, h := range hints {
		if h != "" && strings.Contains(k, strings.ToLower(h)) {
			return true
		}
	}
	return false
}

// FindString returns the first non-empty string stored under a key matching
// one of hints.
func FindString(root Value, hints ...string) (string, bool) {
	var found string
	Walk(root, func(key string, value Value, _ Value) bool {
		if !MatchesHint(key, hints) {
			return true
		}
		if s, ok := value.(String); ok {
			if trimmed := strings.TrimSpace(string(s)); trimmed != "" {
				found = trimmed
				return false
			}
		}
		return true
	})
	return found, found != ""
}

// FindNumber returns the first value under a key matching one of hints that
// can be read as a finite number: a numeric literal, or a string containing
// a number.
func FindNumber(root Value, hints ...string) (float64, bool) {
	var (
		found float64
		ok    bool
	)
	Walk(root, func(key string, value Value, _ Value) bool {
		if !MatchesHint(key, hints) {
			return true
		}
		if n, parsed := ToNumber(value); parsed {
			found, ok = n, true
			return false
		}
		return true
	})
	return found, ok
}

// FindInteger is FindNumber truncated to a positive integer. A first match
// that is not positive yields false.
func FindInteger(root Value, hints ...string) (int64, bool) {
	n, ok := FindNumber(root, hints...)
	if !ok {
		return 0, false
	}
	i := int64(math.Trunc(n))
	if i <= 0 {
		return 0, false
	}
	return i, true
}

// FindBool returns the first boolean under a key matching one of hints.
// Strings "true", "yes", "on" and "false", "no", "off" are accepted too.
func FindBool(root Value, hints ...string) (bool, bool) {
	var (
		found bool
		ok    bool
	)
	Walk(root, func(key string, value Value, _ Value) bool {
		if !MatchesHint(key, hints) {
			return true
		}
		switch v := value.(type) {
		case Bool:
			found, ok = bool(v), true
			return false
		case String:
			switch strings.ToLower(strings.TrimSpace(string(v))) {
			case "true", "yes", "on":
				found, ok = true, true
				return false
			case "false", "no", "off":
				found, ok = false, true
				return false
			}
		}
		return true
	})
	return found, ok
}

// FindArray returns the array under a key matching one of hints that holds
// the most object elements. Ties keep the first array in traversal order.
func FindArray(root Value, hints ...string) (*Array, bool) {
	var (
		best      *Array
		bestCount int
	)
	Walk(root, func(key string, value Value, _ Value) bool {
		arr, ok := value.(*Array)
		if !ok || !MatchesHint(key, hints) {
			return true
		}
		if n := arr.ObjectCount(); n > bestCount {
			best, bestCount = arr, n
		}
		return true
	})
	return best, best != nil
}

// CollectArrays returns every array under a key matching one of hints that
// contains at least one object, in traversal order. The root is included
// when it is such an array.
func CollectArrays(root Value, hints ...string) []*Array {
	var arrays []*Array
	Walk(root, func(key string, value Value, parent Value) bool {
		arr, ok := value.(*Array)
		if !ok || arr.ObjectCount() == 0 {
			return true
		}
		if parent == nil || MatchesHint(key, hints) {
			arrays = append(arrays, arr)
		}
		return true
	})
	return arrays
}

// FindObject returns the first object stored under a key matching one of
// hints.
func FindObject(root Value, hints ...string) (*Object, bool) {
	var found *Object
	Walk(root, func(key string, value Value, _ Value) bool {
		if obj, ok := value.(*Object); ok && MatchesHint(key, hints) {
			found = obj
			return false
		}
		return true
	})
	return found, found != nil
}

// ToNumber reads a finite number from a numeric literal or from the first
// number embedded in a string.
func ToNumber(v Value) (float64, bool) {
	switch n := v.(type) {
	case Number:
		f := float64(n)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	case String:
		m := numberPattern.FindString(string(n))
		if m == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(m, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
