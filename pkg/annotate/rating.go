package annotate

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Source names the field combination a rating was derived from.
type Source string

const (
	SourceParentValue   Source = "parent_value*impact/costs"
	SourceDirect        Source = "direct"
	SourceImpactPerCost Source = "impact/costs"
	SourceImpact        Source = "impact"
	SourceCosts         Source = "-costs"
)

// Rating is the numeric priority derived from a goal's fields. Value may be
// +Inf or -Inf when costs is zero.
type Rating struct {
	Value  float64
	Source Source
	Label  string
}

// directKeys are consulted in order; the first one present wins.
var directKeys = []string{"rating", "value", "priority", "p"}

var numberPrefix = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// RatingOf parses text and returns only its rating.
func RatingOf(text string) *Rating {
	return Parse(text, Options{}).Rating
}

func computeRating(fields []Field) *Rating {
	values := make(map[string]float64, len(fields))
	for _, f := range fields {
		key := strings.ToLower(f.Name)
		if _, seen := values[key]; seen {
			continue
		}
		if v, ok := ParseNumber(f.Value); ok {
			values[key] = v
		}
	}

	pv, hasPV := values["parent_value"]
	impact, hasImpact := values["impact"]
	costs, hasCosts := values["costs"]

	if hasPV && hasImpact && hasCosts {
		if r, ok := rating(pv*impact/costs, SourceParentValue); ok {
			return r
		}
	}
	for _, key := range directKeys {
		if v, ok := values[key]; ok {
			if r, ok := rating(v, SourceDirect); ok {
				return r
			}
			break
		}
	}
	if hasImpact && hasCosts {
		if r, ok := rating(impact/costs, SourceImpactPerCost); ok {
			return r
		}
	}
	if hasImpact {
		if r, ok := rating(impact, SourceImpact); ok {
			return r
		}
	}
	if hasCosts {
		if r, ok := rating(-costs, SourceCosts); ok {
			return r
		}
	}
	return nil
}

func rating(v float64, src Source) (*Rating, bool) {
	if math.IsNaN(v) {
		return nil, false
	}
	return &Rating{Value: v, Source: src, Label: FormatRating(v)}, true
}

// ParseNumber reads the leading decimal number of s, ignoring any trailing
// text ("3h" is 3). It never consults the locale. Infinity is accepted in
// its spelled-out form.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "infinity"), strings.HasPrefix(lower, "+infinity"):
		return math.Inf(1), true
	case strings.HasPrefix(lower, "-infinity"):
		return math.Inf(-1), true
	}
	m := numberPrefix.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if errors.Is(err, strconv.ErrRange) {
		// Overflow saturates to the signed infinity ParseFloat returns.
		return v, true
	}
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// FormatRating renders v with at most two decimals.
func FormatRating(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "∞"
	case math.IsInf(v, -1):
		return "-∞"
	}
	out := strconv.FormatFloat(v, 'f', 2, 64)
	if strings.Contains(out, ".") {
		out = strings.TrimRight(out, "0")
		out = strings.TrimSuffix(out, ".")
	}
	if out == "-0" {
		out = "0"
	}
	return out
}
