// Package isodate parses ISO-8601 dates and datetimes and renders them in the
// compact integer encodings datecast emits.
package isodate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nconklindev/datecast/internal/types"
)

// DateLayout is the YYYYMMDD rendering of a date.
const DateLayout = "20060102"

// ErrInvalidFormat is wrapped by every error Parse returns.
var ErrInvalidFormat = errors.New("invalid isoformat string")

type layout struct {
	value   string
	hasTime bool
}

var layouts = buildLayouts()

// buildLayouts expands the accepted extended-format shapes. Basic format
// (20200102) is rejected so converted output never parses again.
// Fractional seconds need no layout of their own: time.Parse accepts them
// after a seconds field.
func buildLayouts() []layout {
	const date = "2006-01-02"
	seps := []string{"T", " "}
	clocks := []string{"15:04:05", "15:04", "15"}
	zones := []string{"Z07:00", "", "Z0700", "Z07"}

	out := []layout{{value: date}}
	for _, sep := range seps {
		for _, c := range clocks {
			for _, z := range zones {
				out = append(out, layout{value: date + sep + c + z, hasTime: true})
			}
		}
	}
	return out
}

// Parse reads s as an ISO-8601 date or datetime. Values without an offset are
// placed in naive; a nil naive means UTC.
func Parse(s string, naive *time.Location) (time.Time, error) {
	t, _, err := parse(s, naive)
	return t, err
}

func parse(s string, naive *time.Location) (time.Time, bool, error) {
	if naive == nil {
		naive = time.UTC
	}

	if !fixedWidth(s) {
		return time.Time{}, false, invalidFormat(s, "")
	}

	var rangeErr string
	for _, l := range layouts {
		t, err := time.ParseInLocation(l.value, s, naive)
		if err == nil {
			return t, l.hasTime, nil
		}
		var pe *time.ParseError
		if rangeErr == "" && errors.As(err, &pe) && strings.HasSuffix(pe.Message, "out of range") {
			rangeErr = pe.Message
		}
	}
	return time.Time{}, false, invalidFormat(s, rangeErr)
}

func invalidFormat(s, reason string) error {
	return fmt.Errorf("%w: %s%s", ErrInvalidFormat, strconv.Quote(s), reason)
}

// fixedWidth rejects what the layouts let through but ISO-8601 does not: a
// signed or zero year and a single digit hour.
func fixedWidth(s string) bool {
	if len(s) < 10 || !digits(s[:4]) || s[:4] == "0000" {
		return false
	}
	if len(s) > 10 && (len(s) < 13 || !digits(s[11:13])) {
		return false
	}
	return true
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatDate renders the wall-clock date of t as YYYYMMDD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// EpochSeconds returns the Unix time of t rounded to the nearest second, ties
// to even.
func EpochSeconds(t time.Time) int64 {
	sec := t.Unix()
	ns := t.Nanosecond()
	switch {
	case ns > 500_000_000:
		sec++
	case ns == 500_000_000 && sec%2 != 0:
		sec++
	}
	return sec
}

// ConvertDate parses s and renders it as YYYYMMDD.
func ConvertDate(s string) (string, error) {
	t, err := Parse(s, nil)
	if err != nil {
		return "", err
	}
	return FormatDate(t), nil
}

// ConvertTimestamp parses s and renders its rounded epoch seconds.
func ConvertTimestamp(s string, naive *time.Location) (string, error) {
	t, err := Parse(s, naive)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(EpochSeconds(t), 10), nil
}

// Classify reports which conversion a value looks suited for.
func Classify(s string) types.ColumnKind {
	_, hasTime, err := parse(strings.TrimSpace(s), nil)
	switch {
	case err != nil:
		return types.KindNone
	case hasTime:
		return types.KindTimestamp
	}
	return types.KindDate
}
