package schema

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// timestampLayouts are tried in order when decoding a created_at value.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is a creation time as sent by the API. Values in a layout it
// does not recognise are kept verbatim in Raw instead of failing the whole
// response.
type Timestamp struct {
	Time time.Time
	Raw  string
}

// At wraps t.
func At(t time.Time) Timestamp { return Timestamp{Time: t} }

// IsZero reports whether no time was sent at all.
func (ts Timestamp) IsZero() bool { return ts.Time.IsZero() && ts.Raw == "" }

// Format formats the parsed time, or returns Raw when it could not be parsed.
func (ts Timestamp) Format(layout string) string {
	if ts.Time.IsZero() {
		return ts.Raw
	}
	return ts.Time.Format(layout)
}

func (ts Timestamp) String() string { return ts.Format(time.RFC3339) }

// UnmarshalJSON accepts a string in any known layout, Unix seconds, or null.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	*ts = Timestamp{}
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] != '"' {
		secs, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			ts.Raw = string(data)
			return nil
		}
		ts.Time = time.Unix(0, int64(secs*float64(time.Second))).UTC()
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			ts.Time = t
			return nil
		}
	}
	ts.Raw = s
	return nil
}

// MarshalJSON writes RFC 3339, the raw text, or null.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	switch {
	case !ts.Time.IsZero():
		return json.Marshal(ts.Time.Format(time.RFC3339Nano))
	case ts.Raw != "":
		return json.Marshal(ts.Raw)
	default:
		return []byte("null"), nil
	}
}
