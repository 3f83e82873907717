package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Time represents a time.Time object that can be unmarshalled from Unix epoch
// seconds (integer or fractional, quoted or bare) or an RFC 3339 string, both
// of which Coinbase emits depending on the endpoint.
// MarshalJSON serializes the time to JSON using RFC 3339 format.
type Time time.Time

// UnmarshalJSON deserializes json, and timestamp information.
func (t *Time) UnmarshalJSON(data []byte) error {
	s := string(data)

	switch s {
	case "null", "0", `""`, `"0"`:
		*t = Time(time.Time{})
		return nil
	}

	quoted := len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"'
	if quoted {
		s = s[1 : len(s)-1]
	}

	if quoted && strings.ContainsAny(s, "-:T") {
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("cannot unmarshal %s into Time: %w", string(data), err)
		}
		*t = Time(parsed)
		return nil
	}

	secs, frac, _ := strings.Cut(s, ".")
	sec, err := strconv.ParseInt(secs, 10, 64)
	if err != nil {
		return fmt.Errorf("cannot unmarshal %s into Time: %w", string(data), err)
	}

	var nsec int64
	if frac != "" {
		if len(frac) > 9 {
			frac = frac[:9]
		}
		nsec, err = strconv.ParseInt(frac+strings.Repeat("0", 9-len(frac)), 10, 64)
		if err != nil {
			return fmt.Errorf("cannot unmarshal %s into Time: %w", string(data), err)
		}
	}
	*t = Time(time.Unix(sec, nsec))
	return nil
}

// Time represents a time instance.
func (t Time) Time() time.Time { return time.Time(t) }

// String returns a string representation of the time.
func (t Time) String() string {
	return t.Time().String()
}

// MarshalJSON serializes the time to json.
func (t Time) MarshalJSON() ([]byte, error) {
	return t.Time().MarshalJSON()
}
