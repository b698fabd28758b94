// Package timeutil parses the compact time windows used by --since and
// --last flags.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// DefaultWindow is used when no window is given.
const DefaultWindow = "1w"

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day
)

var units = map[string]time.Duration{
	"s": time.Second, "sec": time.Second, "secs": time.Second, "second": time.Second, "seconds": time.Second,
	"m": time.Minute, "min": time.Minute, "mins": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"d": day, "day": day, "days": day,
	"w": week, "wk": week, "wks": week, "week": week, "weeks": week,
	"mo": month, "month": month, "months": month,
}

// ParseWindow reads a window such as "3d", "1w2d6h" or "2 weeks" and returns
// it with its canonical label. Empty input means DefaultWindow.
func ParseWindow(input string) (time.Duration, string, error) {
	rest := strings.ToLower(strings.TrimSpace(input))
	if rest == "" {
		rest = DefaultWindow
	}

	var total time.Duration
	for rest != "" {
		rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
		n := strings.IndexFunc(rest, func(r rune) bool { return !unicode.IsDigit(r) })
		if n <= 0 {
			return 0, "", fmt.Errorf("timeutil: invalid window segment %q", rest)
		}
		value, err := strconv.ParseInt(rest[:n], 10, 64)
		if err != nil {
			return 0, "", fmt.Errorf("timeutil: invalid window value %q: %w", rest[:n], err)
		}
		rest = strings.TrimLeftFunc(rest[n:], unicode.IsSpace)

		u := strings.IndexFunc(rest, func(r rune) bool { return !unicode.IsLetter(r) })
		if u < 0 {
			u = len(rest)
		}
		base, ok := units[rest[:u]]
		if !ok {
			return 0, "", fmt.Errorf("timeutil: unsupported window unit %q", rest[:u])
		}
		total += time.Duration(value) * base
		rest = strings.TrimSpace(rest[u:])
	}

	if total <= 0 {
		return 0, "", fmt.Errorf("timeutil: window must be greater than zero")
	}
	return total, FormatWindow(total), nil
}

// Since returns the start of a window ending at now.
func Since(now time.Time, window string) (time.Time, string, error) {
	d, label, err := ParseWindow(window)
	if err != nil {
		return time.Time{}, "", err
	}
	return now.Add(-d), label, nil
}

// FormatWindow renders d with w, d, h, m and s tokens, largest first.
func FormatWindow(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	var b strings.Builder
	for _, u := range []struct {
		label string
		size  time.Duration
	}{{"w", week}, {"d", day}, {"h", time.Hour}, {"m", time.Minute}, {"s", time.Second}} {
		if d < u.size {
			continue
		}
		fmt.Fprintf(&b, "%d%s", d/u.size, u.label)
		d %= u.size
	}
	if b.Len() == 0 {
		return "0s"
	}
	return b.String()
}
