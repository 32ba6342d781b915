package retroachievements

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// timestampLayout is the date format the RetroAchievements API emits.
const timestampLayout = "2006-01-02 15:04:05"

// Timestamp is a vendor date field. The API sends dates as
// "2006-01-02 15:04:05" strings and uses null or "" for absent values, so
// Valid distinguishes "never" from a real date.
type Timestamp struct {
	Time  time.Time
	Valid bool
}

// UnmarshalJSON parses the vendor layout. Null and empty strings decode to an
// invalid Timestamp rather than an error.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*t = Timestamp{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "timestamp must be a string")
	}
	if s == "" {
		*t = Timestamp{}
		return nil
	}

	parsed, err := time.Parse(timestampLayout, s)
	if err != nil {
		return errors.Wrapf(err, "invalid timestamp %q", s)
	}
	*t = Timestamp{Time: parsed, Valid: true}
	return nil
}

// MarshalJSON emits the vendor layout, or null when invalid.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(timestampLayout))
}

// FlexInt decodes an integer the API may send as a number or a quoted string.
type FlexInt int64

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*f = 0
		return nil
	}
	s := unquote(data)
	if s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid integer %q", s)
	}
	*f = FlexInt(v)
	return nil
}

// Int returns the value as a plain int.
func (f FlexInt) Int() int { return int(f) }

// FlexFloat decodes a float the API may send as a number or a quoted string.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*f = 0
		return nil
	}
	s := unquote(data)
	if s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid number %q", s)
	}
	*f = FlexFloat(v)
	return nil
}

// Float64 returns the value as a plain float64.
func (f FlexFloat) Float64() float64 { return float64(f) }

func isNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

func unquote(data []byte) string {
	return strings.Trim(strings.TrimSpace(string(data)), `"`)
}
