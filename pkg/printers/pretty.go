package printers

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/goals/pkg/annotate"
	"tableflip.dev/goals/pkg/app"
	"tableflip.dev/goals/pkg/goal"
	"tableflip.dev/goals/pkg/state"
)

func init() {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
}

type PrettyPrint struct {
	ShowID bool
	// Width wraps goal text; zero disables wrapping.
	Width int
	Out   io.Writer
}

const idWidth = len("6f1c2d7e-1b2a-4c3d-9e8f-001122334455  ")

var spacing = strings.Repeat(" ", idWidth)

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out())
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = fmt.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = fmt.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " goal")
	default:
		_, _ = c.Fprintln(pp.out(), " goals")
	}
}

func (pp *PrettyPrint) id(id string) {
	if !pp.ShowID {
		return
	}
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	pad := idWidth - len(id)
	if pad < 1 {
		pad = 1
	}
	_, _ = y.Fprint(pp.out(), id+strings.Repeat(" ", pad))
}

func none(pp *PrettyPrint) {
	f := color.New(color.Faint, color.Italic)
	if pp.ShowID {
		_, _ = f.Fprint(pp.out(), spacing)
	}
	_, _ = f.Fprint(pp.out(), " none\n\n")
}

// Items prints a list's goals numbered from 1, in list order.
func (pp *PrettyPrint) Items(items []state.Item) {
	if len(items) == 0 {
		none(pp)
		return
	}

	faint := color.New(color.Faint)
	done := color.New(color.Faint, color.CrossedOut)
	rating := color.New(color.FgCyan)

	for i, it := range items {
		pp.id(it.Goal.ID)
		prefix := fmt.Sprintf("%3d. %s ", i+1, Checkbox(it.Goal.Completed))
		if icons := Icons(it.Parsed); icons != "" {
			prefix += icons + " "
		}
		_, _ = faint.Fprint(pp.out(), prefix)

		text := it.Parsed.MainText
		if text == "" {
			text = "<empty>"
		}
		lines := strings.Split(pp.wrap(text, len(prefix)), "\n")
		for n, line := range lines {
			if n > 0 {
				_, _ = fmt.Fprint(pp.out(), "\n")
				if pp.ShowID {
					_, _ = fmt.Fprint(pp.out(), spacing)
				}
				_, _ = fmt.Fprint(pp.out(), strings.Repeat(" ", len(prefix)))
			}
			if it.Goal.Completed {
				_, _ = done.Fprint(pp.out(), line)
			} else {
				_, _ = fmt.Fprint(pp.out(), line)
			}
		}
		if it.Parsed.Rating != nil {
			_, _ = rating.Fprintf(pp.out(), "  (%s)", it.Parsed.Rating.Label)
		}
		_, _ = fmt.Fprintln(pp.out())
	}
	_, _ = fmt.Fprintln(pp.out())
}

// Associated prints goals cross-linked to a list. Nothing is printed when
// there are none.
func (pp *PrettyPrint) Associated(goals []*goal.Goal) {
	if len(goals) == 0 {
		return
	}
	faint := color.New(color.Faint, color.Italic)
	if pp.ShowID {
		_, _ = fmt.Fprint(pp.out(), spacing)
	}
	_, _ = faint.Fprintln(pp.out(), "  associated")
	for _, g := range goals {
		pp.id(g.ID)
		text := annotate.Parse(g.Text, annotate.Options{StripFields: true}).MainText
		_, _ = faint.Fprintf(pp.out(), "    %s %s\n", Checkbox(g.Completed), text)
	}
	_, _ = fmt.Fprintln(pp.out())
}

func (pp *PrettyPrint) wrap(text string, indent int) string {
	width := pp.Width - indent
	if pp.ShowID {
		width -= idWidth
	}
	if pp.Width <= 0 || width < 10 {
		return text
	}
	return wordwrap.String(text, width)
}

// Tree prints the list forest indented by depth. counts, when set, holds the
// number of goals per list id.
func (pp *PrettyPrint) Tree(nodes []state.Node, counts map[string]int) {
	if len(nodes) == 0 {
		none(pp)
		return
	}
	name := color.New(color.Bold)
	c := color.New(color.Faint)
	for _, n := range nodes {
		pp.id(n.List.ID)
		_, _ = fmt.Fprint(pp.out(), strings.Repeat("  ", n.Depth))
		_, _ = name.Fprint(pp.out(), n.List.Name)
		if counts != nil {
			_, _ = c.Fprintf(pp.out(), " (%d)", counts[n.List.ID])
		}
		if n.List.Description != "" {
			_, _ = c.Fprintf(pp.out(), "  %s", n.List.Description)
		}
		_, _ = fmt.Fprintln(pp.out())
	}
	_, _ = fmt.Fprintln(pp.out())
}

// Report prints completed goals grouped by list. label describes the window.
func (pp *PrettyPrint) Report(result app.ReportResult, label string) {
	since := result.Since.Local().Format("2006-01-02 15:04")
	until := result.Until.Local().Format("2006-01-02 15:04")
	pp.Title(fmt.Sprintf("Report · last %s (%s → %s)", label, since, until))

	if result.Total == 0 {
		_, _ = fmt.Fprintln(pp.out(), "  No completed goals found in this window.")
		_, _ = fmt.Fprintln(pp.out())
		return
	}

	faint := color.New(color.Faint)
	for _, section := range result.Sections {
		_, _ = fmt.Fprintln(pp.out())
		_, _ = color.New(color.Bold).Fprintln(pp.out(), section.Path)
		for _, item := range section.Goals {
			pp.id(item.Goal.ID)
			text := annotate.Parse(item.Goal.Text, annotate.Options{StripFields: true}).MainText
			_, _ = fmt.Fprintf(pp.out(), "  %s %s", Checkbox(true), text)
			_, _ = faint.Fprintf(pp.out(), "  (completed %s)\n", item.CompletedAt.Local().Format("2006-01-02 15:04"))
		}
	}
	_, _ = fmt.Fprintln(pp.out())
}

// Review prints open goals that have gone stale.
func (pp *PrettyPrint) Review(items []app.ReviewItem) {
	if len(items) == 0 {
		none(pp)
		return
	}
	faint := color.New(color.Faint)
	for _, it := range items {
		pp.id(it.Goal.ID)
		text := annotate.Parse(it.Goal.Text, annotate.Options{StripFields: true}).MainText
		_, _ = fmt.Fprintf(pp.out(), "%s %s", Checkbox(false), text)
		where := "no list"
		if len(it.Paths) > 0 {
			where = strings.Join(it.Paths, ", ")
		}
		_, _ = faint.Fprintf(pp.out(), "  (%s, last touched %s)\n", where, it.LastTouched.Local().Format("2006-01-02"))
	}
	_, _ = fmt.Fprintln(pp.out())
}

func Checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

// Icons joins the custom icon and marker icons of a parsed goal.
func Icons(r annotate.Result) string {
	icons := make([]string, 0, len(r.Icons)+1)
	if r.CustomIcon != "" {
		icons = append(icons, r.CustomIcon)
	}
	icons = append(icons, r.Icons...)
	return strings.Join(icons, "")
}

// Stdout is the colour-aware standard output.
func Stdout() io.Writer {
	return color.Output
}
