package timeutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/itchyny/timefmt-go"
)

func ParseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, errors.New("empty duration string")
	}

	if dur, err := time.ParseDuration(s); err == nil {
		return dur, nil
	}

	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration format: %s", s)
	}

	numStr := s[:len(s)-1]
	unit := s[len(s)-1:]

	num, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration number: %s", numStr)
	}

	switch unit {
	case "d":
		return time.Duration(num) * 24 * time.Hour, nil
	case "w":
		return time.Duration(num) * 7 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown duration unit: %s", unit)
	}
}

func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty time string")
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	if !strings.HasPrefix(s, "-") && !strings.HasPrefix(s, "+") {
		return time.Time{}, fmt.Errorf("relative time must start with + or -: %s", s)
	}

	isNegative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimPrefix(s, "+")

	dur, err := ParseDuration(s)
	if err != nil {
		return time.Time{}, err
	}

	if isNegative {
		return now.Add(-dur), nil
	}
	return now.Add(dur), nil
}

var absoluteLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTime accepts RFC3339, "2006-01-02 15:04:05", a bare date, or a
// relative offset from now such as "-30d" or "+2w".
func ParseTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return ParseRelativeTime(s, now)
}

// strftimeDirectives lists the conversions timefmt understands, including
// its composite forms.
const strftimeDirectives = "YyCgGmBbhAawuVUWedjkHlIPpMSsfZztn%" + "c+FDxvTXrR"

// IsStrftime reports whether format is a C strftime pattern rather than a Go
// reference layout.
func IsStrftime(format string) bool {
	return strings.Contains(format, "%")
}

// ValidateFormat checks format for dangling or unknown directives. Go
// layouts and empty formats are always accepted.
func ValidateFormat(format string) error {
	if !IsStrftime(format) {
		return nil
	}
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}
		i++
		for i < len(format) && strings.IndexByte("-_^#0123456789:", format[i]) >= 0 {
			i++
		}
		if i >= len(format) {
			return fmt.Errorf("dangling %% in format: %s", format)
		}
		if strings.IndexByte(strftimeDirectives, format[i]) < 0 {
			return fmt.Errorf("unsupported directive %%%c in format: %s", format[i], format)
		}
	}
	return nil
}

// FormatTime renders t with format, a strftime pattern or a Go layout.
// Characters outside directives are written verbatim. An empty format
// yields RFC 3339.
func FormatTime(t time.Time, format string) (string, error) {
	if format == "" {
		return t.Format(time.RFC3339), nil
	}
	if err := ValidateFormat(format); err != nil {
		return "", err
	}
	if IsStrftime(format) {
		return timefmt.Format(t, format), nil
	}
	return t.Format(format), nil
}

// ParseTimeFormat parses s with format, a strftime pattern or a Go layout.
func ParseTimeFormat(s, format string) (time.Time, error) {
	if err := ValidateFormat(format); err != nil {
		return time.Time{}, err
	}
	if IsStrftime(format) {
		return timefmt.Parse(s, format)
	}
	return time.Parse(format, s)
}
