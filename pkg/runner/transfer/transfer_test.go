package transfer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tableflip.dev/goals/pkg/app"
)

func TestImportFromReader(t *testing.T) {
	svc := newService(t)
	addList(t, svc, "Work")

	var out bytes.Buffer
	n := Import{
		Service: svc,
		List:    "Work",
		In:      strings.NewReader("- [x] Buy milk\n* Walk dog\n"),
		Out:     &out,
	}
	if err := n.Do(context.Background()); err != nil {
		t.Fatalf("import: %v", err)
	}
	if got := out.String(); got != "imported 2 goal(s) into Work\n" {
		t.Fatalf("unexpected output %q", got)
	}

	var md bytes.Buffer
	e := Export{Service: svc, List: "Work", Out: &md}
	if err := e.Do(context.Background()); err != nil {
		t.Fatalf("export: %v", err)
	}
	if md.String() != "- [x] Buy milk\n- [ ] Walk dog\n" {
		t.Fatalf("export = %q", md.String())
	}
}

func TestExportYAMLToFile(t *testing.T) {
	svc := newService(t)
	addList(t, svc, "Home")
	if _, err := svc.Import(context.Background(), "Home", strings.NewReader("Fix gate #diy"), app.FormatMarkdown); err != nil {
		t.Fatalf("seed: %v", err)
	}

	file := filepath.Join(t.TempDir(), "home.yaml")
	e := Export{Service: svc, List: "Home", File: file, Format: app.FormatYAML}
	if err := e.Do(context.Background()); err != nil {
		t.Fatalf("export: %v", err)
	}
	b, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), "Fix gate #diy") || !strings.Contains(string(b), "list: Home") {
		t.Fatalf("yaml missing goal text:\n%s", b)
	}

	addList(t, svc, "Copy")
	var out bytes.Buffer
	n := Import{Service: svc, List: "Copy", File: file, Format: app.FormatYAML, Out: &out}
	if err := n.Do(context.Background()); err != nil {
		t.Fatalf("import yaml: %v", err)
	}
	if !strings.HasPrefix(out.String(), "imported 1 goal(s)") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestImportUnknownList(t *testing.T) {
	svc := newService(t)
	n := Import{Service: svc, List: "Nope", In: strings.NewReader("x")}
	if err := n.Do(context.Background()); err == nil {
		t.Fatal("expected an error for an unknown list")
	}
}
