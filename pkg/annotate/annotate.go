// Package annotate extracts structured fields, icons, tags and a rating from
// free-form goal text. Parsing is pure: nothing here touches stored state.
package annotate

import (
	"regexp"
	"strings"
	"sync"
)

var (
	iconPattern  = regexp.MustCompile(`\[icon::([^\]]*)\]`)
	fieldPattern = regexp.MustCompile(`\[(\w+)::([^\]]*)\]`)
	tagPattern   = regexp.MustCompile(`(?:^|\s)#(\w[\w-]*)`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// Field is a `[name::value]` token.
type Field struct {
	Name  string
	Value string
}

func (f Field) String() string {
	return "[" + f.Name + "::" + f.Value + "]"
}

// Options tunes Parse. The zero value keeps field tokens in MainText and uses
// DefaultMarkers.
type Options struct {
	StripFields bool
	Markers     []Marker
}

// Result is the interpreted form of a goal's text.
type Result struct {
	MainText   string
	Fields     []Field
	Icons      []string
	CustomIcon string
	Tags       []string
	Rating     *Rating
}

// Field returns the first field named name, compared case-insensitively.
func (r Result) Field(name string) (string, bool) {
	for _, f := range r.Fields {
		if strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}
	return "", false
}

// Parse interprets text. Each call is independent.
func Parse(text string, opts Options) Result {
	var res Result

	working := text
	if m := iconPattern.FindStringSubmatch(working); m != nil {
		res.CustomIcon = strings.TrimSpace(m[1])
	}
	working = iconPattern.ReplaceAllString(working, " ")

	for _, m := range fieldPattern.FindAllStringSubmatch(working, -1) {
		res.Fields = append(res.Fields, Field{Name: m[1], Value: m[2]})
	}
	withoutFields := fieldPattern.ReplaceAllString(working, " ")
	if opts.StripFields {
		working = withoutFields
	}

	res.Tags = extractTags(withoutFields)

	markers := opts.Markers
	if markers == nil {
		markers = DefaultMarkers()
	}
	// Markers are detected with fields removed so a trailing field does
	// not hide a suffix marker.
	_, res.Icons = applyMarkers(withoutFields, markers)
	working, _ = applyMarkers(working, markers)

	res.MainText = normalizeSpace(working)
	res.Rating = computeRating(res.Fields)
	return res
}

func applyMarkers(text string, markers []Marker) (string, []string) {
	var icons []string
	for _, m := range markers {
		if m.Token == "" {
			continue
		}
		var hit bool
		text, hit = stripMarker(text, m)
		if hit {
			icons = append(icons, m.Icon)
		}
	}
	return text, icons
}

func stripMarker(text string, m Marker) (string, bool) {
	re := markerPattern(m)
	switch m.Position {
	case Prefix:
		if loc := re.FindStringIndex(text); loc != nil {
			return " " + text[loc[1]:], true
		}
	case Suffix:
		if loc := re.FindStringIndex(text); loc != nil {
			return text[:loc[0]] + " ", true
		}
	default:
		if re.MatchString(text) {
			return re.ReplaceAllString(text, "${1}"), true
		}
	}
	return text, false
}

var markerPatterns sync.Map // "<position>:<token>" -> *regexp.Regexp

func markerPattern(m Marker) *regexp.Regexp {
	key := m.Position.String() + ":" + m.Token
	if re, ok := markerPatterns.Load(key); ok {
		return re.(*regexp.Regexp)
	}
	token := regexp.QuoteMeta(m.Token)
	var expr string
	switch m.Position {
	case Prefix:
		expr = `^\s*` + token + `(\s|$)`
	case Suffix:
		expr = `(^|\s)` + token + `\s*$`
	default:
		expr = `(?i)(^|\s)` + token + `\b`
	}
	re, _ := markerPatterns.LoadOrStore(key, regexp.MustCompile(expr))
	return re.(*regexp.Regexp)
}

func extractTags(text string) []string {
	var tags []string
	seen := make(map[string]bool)
	for _, m := range tagPattern.FindAllStringSubmatch(text, -1) {
		tag := strings.ToLower(m[1])
		if seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

func normalizeSpace(s string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}
