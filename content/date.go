package content

import (
	"errors"
	"math"
	"strings"
	"time"
)

var errInvalidDate = errors.New("invalid date")

// dateLayouts are tried in order for string pubDate values. Layouts
// without a zone are read as UTC.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01",
	"2006",
	"2006/01/02",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// maxDateMillis bounds numeric dates to ±100,000,000 days around the epoch.
const maxDateMillis = 8.64e15

// CoerceDate converts a date-like front matter value to a UTC time.
// Numbers are Unix milliseconds. Results outside the years 0 to 9999 are
// rejected.
func CoerceDate(v any) (time.Time, error) {
	t, err := coerceDate(v)
	if err != nil {
		return time.Time{}, err
	}
	if y := t.Year(); y < 0 || y > 9999 {
		return time.Time{}, errInvalidDate
	}
	return t, nil
}

func coerceDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		if d.IsZero() {
			return time.Time{}, errInvalidDate
		}
		return d.UTC(), nil
	case *time.Time:
		if d == nil {
			return time.Time{}, errInvalidDate
		}
		return coerceDate(*d)
	case string:
		return parseDateString(d)
	case int:
		return fromMillis(float64(d))
	case int64:
		return fromMillis(float64(d))
	case uint64:
		return fromMillis(float64(d))
	case float64:
		return fromMillis(d)
	default:
		return time.Time{}, errInvalidDate
	}
}

func fromMillis(ms float64) (time.Time, error) {
	if math.IsNaN(ms) || math.Abs(ms) > maxDateMillis {
		return time.Time{}, errInvalidDate
	}
	return time.UnixMilli(int64(ms)).UTC(), nil
}

func parseDateString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errInvalidDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errInvalidDate
}
