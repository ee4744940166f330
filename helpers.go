package combobox

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// CoerceValues turns loosely typed host input into a value list.
//
// nil and the empty string yield an empty list, a slice is converted element
// by element, and any other single value becomes a one-element list. Hosts
// that pass a single value where a list is expected are tolerated rather than
// rejected.
func CoerceValues(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []string:
		return append([]string(nil), t...)
	case []any:
		values := make([]string, 0, len(t))
		for _, e := range t {
			if e == nil {
				continue
			}
			values = append(values, toString(e))
		}
		return values
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	default:
		return []string{toString(t)}
	}
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// ParseDebounceDelay converts a loosely typed delay in milliseconds into a
// duration.
//
// Integers are milliseconds. Strings are parsed from their leading integer,
// so "200" and "200ms" are both 200 milliseconds. Durations pass through.
// Anything unparsable, negative or too large for a Duration yields zero,
// which disables debouncing.
func ParseDebounceDelay(v any) time.Duration {
	var ms int64
	switch t := v.(type) {
	case time.Duration:
		if t < 0 {
			return 0
		}
		return t
	case int:
		ms = int64(t)
	case int64:
		ms = t
	case float64:
		if !(t >= 0 && t <= float64(maxDelayMillis)) {
			return 0
		}
		ms = int64(t)
	case string:
		ms = leadingInt(t)
	default:
		return 0
	}
	if ms < 0 || ms > maxDelayMillis {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

// maxDelayMillis is the largest millisecond count a Duration holds.
const maxDelayMillis = int64(math.MaxInt64 / time.Millisecond)

// leadingInt parses the optionally signed integer at the start of s.
func leadingInt(s string) int64 {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// SplitList splits a comma separated list, trimming spaces and dropping
// empty entries.
func SplitList(s string) []string {
	var list []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	return list
}
