// Package dates decodes the heterogeneous date representations that
// accumulated in the store: server timestamps, ISO strings, legacy
// dd/mm/yyyy strings, or nothing at all. The value is decoded once at the
// store boundary into a tagged union and never re-inspected downstream.
package dates

import (
	"encoding/json"
	"strings"
	"time"
)

type Kind int

const (
	Missing Kind = iota
	Timestamp
	ISO
	Legacy
)

// FlexDate is the decoded form. Kind == Missing is the sentinel for absent
// or unparseable values; Time is the zero time in that case.
type FlexDate struct {
	Kind Kind
	Time time.Time
}

// Parse accepts any raw field value and never fails. Recognized shapes:
// time.Time (server timestamp), objects exposing seconds since epoch
// (decoded timestamps), RFC3339 / yyyy-mm-dd strings, dd/mm/yyyy strings.
// Everything else decodes to Missing.
func Parse(v any) FlexDate {
	switch t := v.(type) {
	case nil:
		return FlexDate{}
	case time.Time:
		if t.IsZero() {
			return FlexDate{}
		}
		return FlexDate{Kind: Timestamp, Time: t}
	case *time.Time:
		if t == nil || t.IsZero() {
			return FlexDate{}
		}
		return FlexDate{Kind: Timestamp, Time: *t}
	case map[string]any:
		return parseSecondsMap(t)
	case string:
		return parseString(t)
	default:
		return FlexDate{}
	}
}

func parseSecondsMap(m map[string]any) FlexDate {
	for _, key := range []string{"seconds", "_seconds"} {
		if raw, ok := m[key]; ok {
			secs, ok := asFloat(raw)
			if !ok {
				return FlexDate{}
			}
			nanos := 0.0
			if rawN, ok := m["nanoseconds"]; ok {
				nanos, _ = asFloat(rawN)
			} else if rawN, ok := m["_nanoseconds"]; ok {
				nanos, _ = asFloat(rawN)
			}
			return FlexDate{Kind: Timestamp, Time: time.Unix(int64(secs), int64(nanos)).UTC()}
		}
	}
	return FlexDate{}
}

func parseString(s string) FlexDate {
	s = strings.TrimSpace(s)
	if s == "" {
		return FlexDate{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return FlexDate{Kind: ISO, Time: t}
		}
	}
	if t, err := time.Parse("02/01/2006", s); err == nil {
		return FlexDate{Kind: Legacy, Time: t}
	}
	return FlexDate{}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func (d FlexDate) IsMissing() bool { return d.Kind == Missing }

// Format renders RFC3339 or the empty-string sentinel.
func (d FlexDate) Format() string {
	if d.Kind == Missing {
		return ""
	}
	return d.Time.Format(time.RFC3339)
}

// SortKey orders dates; Missing sorts as oldest.
func (d FlexDate) SortKey() int64 {
	if d.Kind == Missing {
		return 0
	}
	return d.Time.UnixMilli()
}

// SameMonth reports whether the date falls in the given calendar month.
// Always false for Missing.
func (d FlexDate) SameMonth(ref time.Time) bool {
	if d.Kind == Missing {
		return false
	}
	return d.Time.Year() == ref.Year() && d.Time.Month() == ref.Month()
}

// UnmarshalJSON lets FlexDate sit directly in decoded document structs.
func (d *FlexDate) UnmarshalJSON(raw []byte) error {
	s := strings.Trim(string(raw), "\"")
	if s == "null" || s == "" {
		*d = FlexDate{}
		return nil
	}
	if strings.HasPrefix(string(raw), "{") {
		// {seconds, nanoseconds} object from a serialized timestamp
		m := map[string]any{}
		if err := json.Unmarshal(raw, &m); err != nil {
			*d = FlexDate{}
			return nil
		}
		*d = parseSecondsMap(m)
		return nil
	}
	*d = parseString(s)
	return nil
}

// MarshalJSON writes RFC3339 or null for the sentinel.
func (d FlexDate) MarshalJSON() ([]byte, error) {
	if d.Kind == Missing {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Time.Format(time.RFC3339) + `"`), nil
}
