package app

import (
	"fmt"
	"io"
	"strings"

	"tableflip.dev/goals/pkg/state"
	"tableflip.dev/goals/pkg/transfer"
)

// Format selects an import/export encoding.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatYAML     Format = "yaml"
)

// ParseFormat accepts md, markdown, yaml or yml. Empty means Markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("app: unknown format %q", s)
}

func (f Format) read(r io.Reader) ([]state.ImportItem, error) {
	if f == FormatYAML {
		return transfer.ImportYAML(r)
	}
	return transfer.Import(r)
}

func (f Format) write(w io.Writer, name, path string, items []state.Item) error {
	if f == FormatYAML {
		return transfer.ExportYAML(w, name, path, items)
	}
	return transfer.Export(w, items)
}
