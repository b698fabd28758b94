package printers

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/gosuri/uitable"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
	cardTitle = lipgloss.NewStyle().Bold(true)
)

// Card renders title and label/value rows in a bordered box.
func Card(title string, rows [][2]string) string {
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, r := range rows {
		tbl.AddRow(r[0]+":", r[1])
	}
	body := strings.TrimRight(tbl.String(), "\n")
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, cardTitle.Render(title), "", body))
}
