package jsonschema

import (
	"testing"

	"github.com/kubishi/yaduha-studio/pkg/schema"
)

const shapesSchema = `{
  "$defs": {
    "Pronoun": {"title":"Pronoun", "enum":["I","you","we"], "type":"string"},
    "Simple": {"title":"Simple", "type":"object", "properties": {"subject": {"type":"string"}}},
    "Complex": {"title":"Complex", "type":"object", "properties": {"subject": {"type":"string"}, "object": {"type":"string"}}}
  },
  "type":"object",
  "properties": {
    "enum": {"$ref":"#/$defs/Pronoun"},
    "emptyEnum": {"enum":[]},
    "bool": {"type":"boolean"},
    "text": {"type":"string"},
    "nested": {"type":"object", "properties": {"a": {"type":"string"}}},
    "bareObject": {"type":"object"},
    "union": {"anyOf":[{"$ref":"#/$defs/Simple"}, {"$ref":"#/$defs/Complex"}]},
    "oneOf": {"oneOf":[{"type":"string"}, {"type":"boolean"}]},
    "optional": {"anyOf":[{"type":"string"}, {"type":"null"}], "default": null},
    "optionalUnion": {"anyOf":[{"$ref":"#/$defs/Simple"}, {"$ref":"#/$defs/Complex"}, {"type":"null"}]},
    "single": {"anyOf":[{"$ref":"#/$defs/Pronoun"}]},
    "number": {"type":"number"},
    "array": {"type":"array", "items": {"type":"string"}},
    "onlyNull": {"anyOf":[{"type":"null"}]},
    "literal": {"const":"clause", "type":"string"}
  }
}`

func TestClassify_Shapes(t *testing.T) {
	doc := mustParse(t, shapesSchema)
	cases := map[string]Shape{
		"enum":          ShapeEnum,
		"emptyEnum":     ShapeEnum,
		"bool":          ShapeBoolean,
		"text":          ShapeString,
		"nested":        ShapeObject,
		"bareObject":    ShapeUnknown,
		"union":         ShapeUnion,
		"oneOf":         ShapeUnion,
		"optional":      ShapeOptional,
		"optionalUnion": ShapeUnion,
		"single":        ShapeEnum,
		"number":        ShapeUnknown,
		"array":         ShapeUnknown,
		"onlyNull":      ShapeUnknown,
		"literal":       ShapeEnum,
	}
	for name, want := range cases {
		if got := Classify(doc, property(t, doc, doc.Root(), name)); got != want {
			t.Errorf("%s: expected %s, got %s", name, want, got)
		}
	}
	if got := Classify(doc, doc.Root()); got != ShapeObject {
		t.Fatalf("expected root object, got %s", got)
	}
}

func TestClassify_UnionCollapse(t *testing.T) {
	doc := mustParse(t, `{
  "$defs": {
    "Clause": {"type":"object", "properties": {"verb": {"type":"string"}}}
  },
  "type":"object",
  "properties": {
    "wrapped": {"anyOf":[{"$ref":"#/$defs/Clause"}]},
    "direct": {"$ref":"#/$defs/Clause"},
    "wrappedString": {"oneOf":[{"type":"string"}]},
    "nestedWrap": {"anyOf":[{"anyOf":[{"type":"boolean"}]}]}
  }
}`)
	wrapped := Classify(doc, property(t, doc, doc.Root(), "wrapped"))
	direct := Classify(doc, property(t, doc, doc.Root(), "direct"))
	if wrapped != direct || wrapped != ShapeObject {
		t.Fatalf("expected single-member union to classify as its member, got %s vs %s", wrapped, direct)
	}
	if got := Classify(doc, property(t, doc, doc.Root(), "wrappedString")); got != ShapeString {
		t.Fatalf("expected string collapse, got %s", got)
	}
	if got := Classify(doc, property(t, doc, doc.Root(), "nestedWrap")); got != ShapeBoolean {
		t.Fatalf("expected nested collapse to boolean, got %s", got)
	}

	settled, _ := Default().Settle(doc, property(t, doc, doc.Root(), "wrapped"))
	if len(doc.Node(settled).PropertyNames) != 1 {
		t.Fatalf("expected settle to land on the member node")
	}
}

func TestClassify_IgnoresNamesAndTitles(t *testing.T) {
	a := mustParse(t, `{"type":"object","properties":{"x":{"title":"Enum","type":"string"}}}`)
	b := mustParse(t, `{"type":"object","properties":{"boolean":{"title":"Whatever","type":"string"}}}`)
	if Classify(a, property(t, a, a.Root(), "x")) != Classify(b, property(t, b, b.Root(), "boolean")) {
		t.Fatalf("classification must not depend on names or titles")
	}
}

func TestClassify_NilDocument(t *testing.T) {
	if got := Classify(nil, schema.EmptyNode); got != ShapeUnknown {
		t.Fatalf("expected unknown for nil document, got %s", got)
	}
}

func TestClassify_OptionalInner(t *testing.T) {
	doc := mustParse(t, shapesSchema)
	inner := Default().OptionalInner(doc, property(t, doc, doc.Root(), "optional"))
	if inner == schema.NoNode || Classify(doc, inner) != ShapeString {
		t.Fatalf("expected string inner, got %d", inner)
	}
	if Default().OptionalInner(doc, property(t, doc, doc.Root(), "text")) != schema.NoNode {
		t.Fatalf("expected NoNode for non-optional")
	}
}

func TestClassify_NullableTypeList(t *testing.T) {
	doc := mustParse(t, `{
  "type":"object",
  "properties": {
    "adverb": {"type":["string","null"], "title":"Adverb"},
    "mood": {"type":["null","string"], "enum":["realis","irrealis"]},
    "either": {"type":["string","boolean","null"]},
    "plural": {"type":["string","boolean"]}
  }
}`)
	cases := map[string]Shape{
		"adverb": ShapeOptional,
		"mood":   ShapeOptional,
		"either": ShapeUnion,
		"plural": ShapeString,
	}
	for name, want := range cases {
		if got := Classify(doc, property(t, doc, doc.Root(), name)); got != want {
			t.Errorf("%s: expected %s, got %s", name, want, got)
		}
	}

	inner := Default().OptionalInner(doc, property(t, doc, doc.Root(), "mood"))
	if inner == schema.NoNode || Classify(doc, inner) != ShapeEnum {
		t.Fatalf("expected enum inner for mood, got %d", inner)
	}
	if _, nullable := Default().Partition(doc, property(t, doc, doc.Root(), "either")); !nullable {
		t.Fatalf("expected either to be a nullable union")
	}
}

func TestShape_String(t *testing.T) {
	if ShapeOptional.String() != "optional" || Shape(99).String() != "unknown" {
		t.Fatalf("unexpected shape names")
	}
	text, _ := ShapeUnion.MarshalText()
	if string(text) != "union" {
		t.Fatalf("unexpected marshal text %q", text)
	}
}
