// Package transfer reads and writes goal lists as Markdown checklists, and
// as YAML for structured export.
package transfer

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"tableflip.dev/goals/pkg/state"
)

var (
	bulletPattern   = regexp.MustCompile(`^(?:[-*+]|\d+[.)])\s+`)
	checkboxPattern = regexp.MustCompile(`^\[([ xX])\](?:\s+|$)`)
)

// maxLine bounds a single imported line.
const maxLine = 1024 * 1024

// ParseLine strips list and checkbox markers from one line. ok is false for
// lines with no goal text.
func ParseLine(line string) (item state.ImportItem, ok bool) {
	text := strings.TrimSpace(line)
	text = bulletPattern.ReplaceAllString(text, "")
	if m := checkboxPattern.FindStringSubmatch(text); m != nil {
		item.Completed = m[1] == "x" || m[1] == "X"
		text = text[len(m[0]):]
	}
	item.Text = strings.TrimSpace(text)
	return item, item.Text != ""
}

// Import reads line-oriented text into items, in input order. Blank lines
// and lines holding only markers are skipped.
func Import(r io.Reader) ([]state.ImportItem, error) {
	var items []state.ImportItem
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	for sc.Scan() {
		if item, ok := ParseLine(sc.Text()); ok {
			items = append(items, item)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("transfer: read: %w", err)
	}
	return items, nil
}

// Line renders one goal as a checklist line.
func Line(text string, completed bool) string {
	box := "[ ]"
	if completed {
		box = "[x]"
	}
	return "- " + box + " " + oneLine(text)
}

// Export writes items as a Markdown checklist in order.
func Export(w io.Writer, items []state.Item) error {
	for _, it := range items {
		if _, err := fmt.Fprintln(w, Line(it.Goal.Text, it.Goal.Completed)); err != nil {
			return fmt.Errorf("transfer: write: %w", err)
		}
	}
	return nil
}

// Markdown returns the checklist for items, headed by title when set.
func Markdown(title string, items []state.Item) string {
	var b strings.Builder
	if title != "" {
		b.WriteString("# ")
		b.WriteString(oneLine(title))
		b.WriteString("\n\n")
	}
	// strings.Builder never fails.
	_ = Export(&b, items)
	return b.String()
}

type yamlGoal struct {
	ID         string            `yaml:"id"`
	Text       string            `yaml:"text"`
	Completed  bool              `yaml:"completed"`
	Display    string            `yaml:"display,omitempty"`
	Icon       string            `yaml:"icon,omitempty"`
	Tags       []string          `yaml:"tags,omitempty"`
	Fields     map[string]string `yaml:"fields,omitempty"`
	Rating     string            `yaml:"rating,omitempty"`
	Associated []string          `yaml:"associated,omitempty"`
}

type yamlList struct {
	List  string     `yaml:"list"`
	Path  string     `yaml:"path,omitempty"`
	Goals []yamlGoal `yaml:"goals"`
}

// ExportYAML writes items with their parsed annotations as a YAML document.
func ExportYAML(w io.Writer, name, path string, items []state.Item) error {
	doc := yamlList{List: name, Path: path, Goals: make([]yamlGoal, 0, len(items))}
	for _, it := range items {
		yg := yamlGoal{
			ID:        it.Goal.ID,
			Text:      it.Goal.Text,
			Completed: it.Goal.Completed,
			Display:   it.Parsed.MainText,
			Icon:      it.Parsed.CustomIcon,
			Tags:      it.Parsed.Tags,

			Associated: it.Goal.AssociatedListIDs,
		}
		if len(it.Parsed.Fields) > 0 {
			yg.Fields = make(map[string]string, len(it.Parsed.Fields))
			for _, f := range it.Parsed.Fields {
				if _, seen := yg.Fields[f.Name]; !seen {
					yg.Fields[f.Name] = f.Value
				}
			}
		}
		if it.Parsed.Rating != nil {
			yg.Rating = it.Parsed.Rating.Label
		}
		doc.Goals = append(doc.Goals, yg)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("transfer: encode yaml: %w", err)
	}
	return enc.Close()
}

// ImportYAML reads the goals of a document written by ExportYAML.
func ImportYAML(r io.Reader) ([]state.ImportItem, error) {
	var doc yamlList
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("transfer: decode yaml: %w", err)
	}
	items := make([]state.ImportItem, 0, len(doc.Goals))
	for _, g := range doc.Goals {
		text := strings.TrimSpace(g.Text)
		if text == "" {
			continue
		}
		items = append(items, state.ImportItem{Text: text, Completed: g.Completed})
	}
	return items, nil
}

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func oneLine(s string) string {
	return strings.TrimSpace(newlines.Replace(s))
}
