package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/kubishi/yaduha-studio/pkg/render"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

var schemaFlag = []string{"--schema", filepath.Join("testdata", "sentences.json")}

func TestDefaultsCmd(t *testing.T) {
	out, err := run(t, "", append([]string{"defaults"}, schemaFlag...)...)
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if diff := cmp.Diff(map[string]any{"subject": "", "verb": "run"}, got); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}

	out, err = run(t, "", append([]string{"defaults", "--name", "Negated"}, schemaFlag...)...)
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if strings.TrimSpace(out) != `{
  "negated": false
}` {
		t.Fatalf("unexpected Negated defaults: %q", out)
	}
}

func TestInspectCmd(t *testing.T) {
	out, err := run(t, "", append([]string{"inspect"}, schemaFlag...)...)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two rows, got %q", out)
	}
	if fields := strings.Fields(lines[1]); !cmp.Equal(fields, []string{"SubjectVerb", "subject,verb", "1"}) {
		t.Fatalf("unexpected first row %q", lines[1])
	}
	if fields := strings.Fields(lines[2]); !cmp.Equal(fields, []string{"Negated", "negated", "0"}) {
		t.Fatalf("unexpected second row %q", lines[2])
	}

	out, err = run(t, "", append([]string{"inspect", "-n", "SubjectVerb"}, schemaFlag...)...)
	if err != nil {
		t.Fatalf("inspect tree: %v", err)
	}
	if !strings.Contains(out, `"shape": "enum"`) || !strings.Contains(out, `"path": "subject"`) {
		t.Fatalf("expected render tree JSON, got %s", out)
	}
}

func TestRenderCmd(t *testing.T) {
	templates := []string{"--templates", filepath.Join("testdata", "templates")}

	out, err := run(t, "", append(append([]string{"render", "--example", "0"}, schemaFlag...), templates...)...)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := strings.TrimSpace(out); got != "Dog runs." {
		t.Fatalf("unexpected sentence %q", got)
	}

	out, err = run(t, `{"subject":"cat","verb":"sleep"}`, append(append([]string{"render", "--value", "-"}, schemaFlag...), templates...)...)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := strings.TrimSpace(out); got != "Cat sleeps." {
		t.Fatalf("unexpected sentence %q", got)
	}

	out, err = run(t, "", append([]string{"render"}, schemaFlag...)...)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := strings.TrimSpace(out); got != render.NotRendered {
		t.Fatalf("expected placeholder without templates, got %q", got)
	}

	out, err = run(t, "", append(append([]string{"render", "--name", "Negated"}, schemaFlag...), templates...)...)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := strings.TrimSpace(out); got != render.Unavailable {
		t.Fatalf("expected unavailable placeholder for missing template, got %q", got)
	}
}

func TestCommands_RequireSchema(t *testing.T) {
	t.Setenv("STUDIO_SCHEMA", "")
	if _, err := run(t, "", "defaults"); err != errNoSchemaSet {
		t.Fatalf("expected errNoSchemaSet, got %v", err)
	}
}
