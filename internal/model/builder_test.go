package model

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kubishi/yaduha-studio/pkg/jsonschema"
	"github.com/kubishi/yaduha-studio/pkg/schema"
)

const sentenceSchema = `{
  "title": "SubjectVerbObjectSentence",
  "$defs": {
    "Simple": {"title":"Simple", "type":"object", "properties": {"subject": {"type":"string"}}},
    "Complex": {"title":"Complex", "type":"object", "properties": {"subject": {"type":"string"}, "object": {"type":"string"}}}
  },
  "type": "object",
  "required": ["verb"],
  "properties": {
    "verb": {"type":"string", "description":"Main verb"},
    "tense": {"enum":["past","present"]},
    "negated": {"type":"boolean", "title":"Negate?"},
    "count": {"type":"integer"},
    "clause": {"anyOf":[{"$ref":"#/$defs/Simple"}, {"$ref":"#/$defs/Complex"}]},
    "adverb": {"anyOf":[{"type":"string"}, {"type":"null"}]},
    "extra": {"anyOf":[{"$ref":"#/$defs/Simple"}, {"$ref":"#/$defs/Complex"}, {"type":"null"}]}
  }
}`

func parse(t *testing.T, raw string) *schema.Document {
	t.Helper()
	doc, err := jsonschema.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	return doc
}

func keys(fields []Field) []string {
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		out = append(out, field.Key)
	}
	return out
}

func TestBuild_OrderAndShapes(t *testing.T) {
	doc := parse(t, sentenceSchema)
	value := map[string]any{"verb": "run", "tense": "past", "negated": false, "clause": map[string]any{"subject": ""}}

	tree, err := New(Options{}).Build(Input{Name: "SVO", Document: doc, Value: value})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if tree.Schema != "SVO" || tree.Title != "SubjectVerbObjectSentence" {
		t.Fatalf("unexpected tree header %q/%q", tree.Schema, tree.Title)
	}
	if diff := cmp.Diff([]string{"verb", "tense", "negated", "clause", "adverb", "extra"}, keys(tree.Fields)); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	verb := tree.Fields[0]
	if verb.Shape != jsonschema.ShapeString || !verb.Required || verb.Value != "run" || verb.Description != "Main verb" || verb.Label != "Verb" {
		t.Fatalf("unexpected verb field %+v", verb)
	}
	if diff := cmp.Diff([]any{"past", "present"}, tree.Fields[1].Enum); diff != "" {
		t.Fatalf("enum mismatch (-want +got):\n%s", diff)
	}
	if tree.Fields[2].Label != "Negate?" {
		t.Fatalf("expected declared title as label, got %q", tree.Fields[2].Label)
	}
}

func TestBuild_UnionSelection(t *testing.T) {
	doc := parse(t, sentenceSchema)
	value := map[string]any{"clause": map[string]any{"subject": "I", "object": "apple"}}
	builder := New(Options{})

	tree, err := builder.Build(Input{Document: doc, Value: value})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	clause, ok := tree.Find("clause")
	if !ok {
		t.Fatalf("clause field missing")
	}
	if diff := cmp.Diff([]string{"Simple", "Complex"}, clause.Variants); diff != "" {
		t.Fatalf("variants mismatch (-want +got):\n%s", diff)
	}
	if clause.Selected != "Complex" {
		t.Fatalf("expected detected Complex, got %q", clause.Selected)
	}
	if clause.Inner == nil || clause.Inner.Shape != jsonschema.ShapeObject {
		t.Fatalf("expected object inner, got %+v", clause.Inner)
	}
	if diff := cmp.Diff([]string{"subject", "object"}, keys(clause.Inner.Nested)); diff != "" {
		t.Fatalf("inner fields mismatch (-want +got):\n%s", diff)
	}
	if clause.Inner.Nested[1].Path != "clause.object" {
		t.Fatalf("unexpected nested path %q", clause.Inner.Nested[1].Path)
	}

	explicit, _ := builder.Build(Input{Document: doc, Value: value, Selection: map[string]string{"clause": "Simple"}})
	if got, _ := explicit.Find("clause"); got.Selected != "Simple" {
		t.Fatalf("expected explicit selection, got %q", got.Selected)
	}

	stale, _ := builder.Build(Input{Document: doc, Value: value, Selection: map[string]string{"clause": "Gone"}})
	if got, _ := stale.Find("clause"); got.Selected != "Complex" {
		t.Fatalf("expected fallback to detection, got %q", got.Selected)
	}
}

func TestBuild_OptionalPresence(t *testing.T) {
	doc := parse(t, sentenceSchema)
	builder := New(Options{})

	absent, _ := builder.Build(Input{Document: doc, Value: map[string]any{"adverb": nil, "extra": nil}})
	adverb, _ := absent.Find("adverb")
	if adverb.Shape != jsonschema.ShapeOptional || adverb.Present || !adverb.Nullable || adverb.Inner != nil {
		t.Fatalf("unexpected absent optional %+v", adverb)
	}
	extra, _ := absent.Find("extra")
	if extra.Shape != jsonschema.ShapeUnion || extra.Present || extra.Inner != nil || extra.Selected != "Simple" {
		t.Fatalf("unexpected absent nullable union %+v", extra)
	}

	present, _ := builder.Build(Input{Document: doc, Value: map[string]any{"adverb": "quickly"}})
	adverb, _ = present.Find("adverb")
	if !adverb.Present || adverb.Inner == nil || adverb.Inner.Shape != jsonschema.ShapeString || adverb.Inner.Value != "quickly" {
		t.Fatalf("unexpected present optional %+v", adverb)
	}
}

func TestBuild_RootUnion(t *testing.T) {
	doc := parse(t, `{"anyOf":[{"title":"A","type":"string"},{"title":"B","type":"boolean"}]}`)
	tree, err := New(Options{}).Build(Input{Document: doc, Value: true})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(tree.Fields) != 1 || tree.Fields[0].Path != "" || tree.Fields[0].Shape != jsonschema.ShapeUnion {
		t.Fatalf("expected a single root union field, got %+v", tree.Fields)
	}
}

func TestBuild_RecursiveSchemaBounded(t *testing.T) {
	doc := parse(t, `{
  "$defs": {"Node": {"type":"object","properties":{"label":{"type":"string"},"child":{"$ref":"#/$defs/Node"}}}},
  "$ref": "#/$defs/Node"
}`)
	interp := jsonschema.New(jsonschema.WithMaxDepth(4))
	value := jsonschema.New(jsonschema.WithMaxDepth(4)).BuildDefault(doc, doc.Root())
	tree, err := New(Options{Interpreter: interp}).Build(Input{Document: doc, Value: value})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	depth := 0
	tree.Walk(func(field Field) bool {
		if field.Key == "child" {
			depth++
		}
		return true
	})
	if depth == 0 || depth > 5 {
		t.Fatalf("expected bounded nesting, got %d", depth)
	}
}

func TestBuild_NilDocument(t *testing.T) {
	if _, err := New(Options{}).Build(Input{}); !errors.Is(err, ErrNoDocument) {
		t.Fatalf("expected ErrNoDocument, got %v", err)
	}
}

func TestDefaultLabeler(t *testing.T) {
	cases := map[string]string{
		"subject":         "Subject",
		"subject_pronoun": "Subject Pronoun",
		"directObject":    "Direct Object",
		"verb-tense":      "Verb Tense",
		"clause2":         "Clause 2",
		"":                "",
	}
	for input, want := range cases {
		if got := DefaultLabeler(input); got != want {
			t.Errorf("DefaultLabeler(%q): expected %q, got %q", input, want, got)
		}
	}
}
