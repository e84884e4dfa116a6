package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseInstant converts the encodings a stored booking date can arrive in: native times,
// epoch seconds (any numeric type or numeric string), textual timestamps, and
// {seconds, nanoseconds} maps as written by document-store clients.
func ParseInstant(v any) (time.Time, bool) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, !t.IsZero()
	case int:
		return time.Unix(int64(t), 0).UTC(), true
	case int32:
		return time.Unix(int64(t), 0).UTC(), true
	case int64:
		return time.Unix(t, 0).UTC(), true
	case float64:
		return fromFloatSeconds(t)
	case float32:
		return fromFloatSeconds(float64(t))
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return fromFloatSeconds(f)
	case string:
		return parseInstantString(t)
	case map[string]any:
		return fromSecondsMap(t)
	}
	return time.Time{}, false
}

func fromFloatSeconds(f float64) (time.Time, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, false
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC(), true
}

func parseInstantString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromFloatSeconds(f)
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func fromSecondsMap(m map[string]any) (time.Time, bool) {
	raw, ok := m["seconds"]
	if !ok {
		raw, ok = m["_seconds"]
	}
	if !ok {
		return time.Time{}, false
	}
	t, ok := ParseInstant(raw)
	if !ok {
		return time.Time{}, false
	}
	nanosRaw, ok := m["nanoseconds"]
	if !ok {
		nanosRaw = m["_nanoseconds"]
	}
	switch n := nanosRaw.(type) {
	case int:
		t = t.Add(time.Duration(n))
	case int64:
		t = t.Add(time.Duration(n))
	case float64:
		t = t.Add(time.Duration(n))
	}
	return t, true
}
