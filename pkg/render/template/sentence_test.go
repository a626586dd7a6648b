package template_test

import (
	"context"
	"embed"
	"encoding/json"
	"io"
	"io/fs"
	"strings"
	"testing"

	"github.com/kubishi/yaduha-studio/pkg/render"
	"github.com/kubishi/yaduha-studio/pkg/render/template"
	"github.com/kubishi/yaduha-studio/pkg/render/template/gotemplate"
	"github.com/kubishi/yaduha-studio/pkg/testsupport"
)

//go:embed testdata/templates/*.tpl
var embeddedTemplates embed.FS

func newEngine(t *testing.T, options ...gotemplate.Option) *gotemplate.Engine {
	t.Helper()

	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}

	engine, err := gotemplate.New(append([]gotemplate.Option{gotemplate.WithFS(templatesFS)}, options...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestSentence_RendersSchemaTemplate(t *testing.T) {
	sentence, err := template.NewSentence(newEngine(t), "")
	if err != nil {
		t.Fatalf("new sentence: %v", err)
	}
	if sentence.Name() != template.DefaultName {
		t.Fatalf("expected default name, got %q", sentence.Name())
	}

	got, err := sentence.Render(context.Background(), "SubjectVerb", map[string]any{"subject": "I", "verb": "ate", "object": "apples"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "I ate apples" {
		t.Fatalf("unexpected sentence %q", got)
	}

	got, err = sentence.Render(context.Background(), "SubjectVerb", map[string]any{"subject": "you", "verb": "ran", "object": nil})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "you ran" {
		t.Fatalf("unexpected sentence %q", got)
	}
}

func TestSentence_MissingTemplateFallsBackToPlaceholder(t *testing.T) {
	sentence, err := template.NewSentence(newEngine(t), "")
	if err != nil {
		t.Fatalf("new sentence: %v", err)
	}
	if _, err := sentence.Render(context.Background(), "Unknown", map[string]any{}); err == nil {
		t.Fatalf("expected error for a missing template")
	}

	result := render.Display(context.Background(), sentence, "Unknown", map[string]any{})
	if result.Rendered || result.Text != render.Unavailable {
		t.Fatalf("expected placeholder, got %+v", result)
	}
}

func TestEngine_GlobalContextAndWriters(t *testing.T) {
	engine := newEngine(t, gotemplate.WithGlobalData(map[string]any{"greeting": "Hello"}))

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("UseGlobal", map[string]any{"schema": "SVO"}, w)
	})
	if result != "Hello, SVO" || written != result {
		t.Fatalf("unexpected output %q / %q", result, written)
	}
}

func TestEngine_SentenceFilter(t *testing.T) {
	engine := newEngine(t)
	cases := map[string]string{
		"  i   ran ": "I ran.",
		"did you?":   "Did you?",
		"":           "",
	}
	for input, want := range cases {
		got, err := engine.RenderString("{{ text|sentence }}", map[string]any{"text": input})
		if err != nil {
			t.Fatalf("render %q: %v", input, err)
		}
		if got != want {
			t.Errorf("sentence(%q): expected %q, got %q", input, want, got)
		}
	}
}

func TestEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) {
		text, _ := input.(string)
		return strings.ToUpper(text) + "!", nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if err := engine.RegisterFilter("shout", func(any, any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected duplicate filter to fail")
	}

	got, err := engine.RenderString("{{ word|shout }}", map[string]any{"word": "run"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "RUN!" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_NormalisesDecodedNumbers(t *testing.T) {
	engine := newEngine(t)
	data := map[string]any{
		"count":  json.Number("3"),
		"clause": map[string]any{"objects": []any{json.Number("1"), "apple"}},
	}
	got, err := engine.RenderString("{{ count|add:1 }} {{ clause.objects|length }}", data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "4 2" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_RequiresSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without template sources")
	}
}
