package annotate

// Position says where a marker token has to appear in goal text.
type Position int

const (
	// Anywhere markers are hashtag-style tokens matched on word boundaries.
	Anywhere Position = iota
	// Prefix markers must open the text.
	Prefix
	// Suffix markers must close the text and be preceded by whitespace or
	// the start of the text.
	Suffix
)

func (p Position) String() string {
	switch p {
	case Prefix:
		return "prefix"
	case Suffix:
		return "suffix"
	default:
		return "anywhere"
	}
}

// Marker maps a token in goal text to a display icon.
type Marker struct {
	Token    string
	Icon     string
	Meaning  string
	Position Position
}

// DefaultMarkers returns the marker table in match order. Longer tokens that
// share a suffix with shorter ones come first.
func DefaultMarkers() []Marker {
	m := make([]Marker, 0, 11)

	m = append(m, Marker{
		Token:    "#important",
		Icon:     "⭐",
		Meaning:  "important",
		Position: Anywhere,
	}, Marker{
		Token:    "#urgent",
		Icon:     "🔥",
		Meaning:  "urgent",
		Position: Anywhere,
	}, Marker{
		Token:    "#idea",
		Icon:     "💡",
		Meaning:  "idea",
		Position: Anywhere,
	}, Marker{
		Token:    "#waiting",
		Icon:     "⏳",
		Meaning:  "waiting on someone",
		Position: Anywhere,
	}, Marker{
		Token:    "#blocked",
		Icon:     "⛔",
		Meaning:  "blocked",
		Position: Anywhere,
	}, Marker{
		Token:    "#someday",
		Icon:     "☁",
		Meaning:  "someday / maybe",
		Position: Anywhere,
	}, Marker{
		Token:    "+",
		Icon:     "➕",
		Meaning:  "new addition",
		Position: Prefix,
	}, Marker{
		Token:    "*",
		Icon:     "✷",
		Meaning:  "priority",
		Position: Prefix,
	}, Marker{
		Token:    "!!",
		Icon:     "‼",
		Meaning:  "critical",
		Position: Suffix,
	}, Marker{
		Token:    "!",
		Icon:     "❗",
		Meaning:  "attention",
		Position: Suffix,
	}, Marker{
		Token:    "?",
		Icon:     "❓",
		Meaning:  "open question",
		Position: Suffix,
	})

	return m
}
