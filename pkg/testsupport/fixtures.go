package testsupport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/kubishi/yaduha-studio/pkg/jsonschema"
	"github.com/kubishi/yaduha-studio/pkg/schema"
)

// LoadDocument reads a JSON schema fixture into a Document. Testing helpers
// fail the test on error to keep callers concise.
func LoadDocument(t *testing.T, path string) *schema.Document {
	t.Helper()

	doc, err := LoadDocumentFromPath(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// LoadDocumentFromPath returns a Document without requiring testing.T, for
// callers wiring fixtures in setup functions.
func LoadDocumentFromPath(path string) (*schema.Document, error) {
	if path == "" {
		return nil, errors.New("testsupport: document path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read document: %w", err)
	}
	doc, err := jsonschema.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("testsupport: parse document %s: %w", path, err)
	}
	return doc, nil
}

// Entry parses raw as the schema of a named set entry.
func Entry(t *testing.T, name, raw string, examples ...schema.Example) schema.Entry {
	t.Helper()

	doc, err := jsonschema.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("parse %s: %v", name, err)
	}
	return schema.Entry{Name: name, Document: doc, Examples: examples}
}

// MustSet builds a schema set from entries.
func MustSet(t *testing.T, entries ...schema.Entry) *schema.Set {
	t.Helper()

	set, err := schema.NewSet(entries...)
	if err != nil {
		t.Fatalf("new set: %v", err)
	}
	return set
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	WriteMaybeGolden(t, path, append(payload, '\n'))
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// CompareJSONGolden marshals got and compares it with the JSON golden at
// path structurally, so formatting and key order do not matter. It returns
// an empty string when they match.
func CompareJSONGolden(t *testing.T, path string, got any) string {
	t.Helper()

	WriteGolden(t, path, got)

	payload, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal value: %v", err)
	}
	var gotJSON, wantJSON any
	if err := json.Unmarshal(payload, &gotJSON); err != nil {
		t.Fatalf("unmarshal value: %v", err)
	}
	if err := json.Unmarshal(MustReadGolden(t, path), &wantJSON); err != nil {
		t.Fatalf("unmarshal golden %s: %v", path, err)
	}
	return cmp.Diff(wantJSON, gotJSON)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureTemplateOutput executes a render function that writes to an
// io.Writer, returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
