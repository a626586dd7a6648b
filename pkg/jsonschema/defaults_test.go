package jsonschema

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildDefault_SubjectVerb(t *testing.T) {
	doc := mustParse(t, `{
  "type":"object",
  "properties": {"subject": {"type":"string"}, "verb": {"type":"string"}}
}`)
	want := map[string]any{"subject": "", "verb": ""}
	if diff := cmp.Diff(want, BuildDefault(doc, doc.Root())); diff != "" {
		t.Fatalf("default mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildDefault_Shapes(t *testing.T) {
	doc := mustParse(t, shapesSchema)
	got := BuildDefault(doc, doc.Root())
	want := map[string]any{
		"enum":          "I",
		"emptyEnum":     "",
		"bool":          false,
		"text":          "",
		"nested":        map[string]any{"a": ""},
		"bareObject":    nil,
		"union":         map[string]any{"subject": ""},
		"oneOf":         "",
		"optional":      nil,
		"optionalUnion": map[string]any{"subject": ""},
		"single":        "I",
		"number":        nil,
		"array":         nil,
		"onlyNull":      nil,
		"literal":       "clause",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("default mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildDefault_OptionalToggleSynthesizesInner(t *testing.T) {
	doc := mustParse(t, `{"type":"object","properties":{"note":{"anyOf":[{"type":"string"},{"type":"null"}]}}}`)
	id := property(t, doc, doc.Root(), "note")
	if Classify(doc, id) != ShapeOptional {
		t.Fatalf("expected optional")
	}
	if got := BuildDefault(doc, id); got != nil {
		t.Fatalf("expected nil default, got %#v", got)
	}
	inner := Default().OptionalInner(doc, id)
	if got := BuildDefault(doc, inner); got != "" {
		t.Fatalf("expected empty string when toggled on, got %#v", got)
	}
}

func TestBuildDefault_NullableTypeListIsAbsent(t *testing.T) {
	doc := mustParse(t, `{"type":"object","properties":{"adverb":{"type":["string","null"],"default":"quickly"}}}`)
	want := map[string]any{"adverb": nil}
	if diff := cmp.Diff(want, BuildDefault(doc, doc.Root())); diff != "" {
		t.Fatalf("default mismatch (-want +got):\n%s", diff)
	}

	id := property(t, doc, doc.Root(), "adverb")
	inner := Default().OptionalInner(doc, id)
	if got := BuildDefault(doc, inner); got != "" {
		t.Fatalf("expected empty string when toggled on, got %#v", got)
	}
	if !Conforms(doc, id, nil) || !Conforms(doc, id, "slowly") || Conforms(doc, id, true) {
		t.Fatalf("unexpected conformance for nullable string")
	}
}

func TestBuildDefault_RecursiveSchemaTerminates(t *testing.T) {
	doc := mustParse(t, `{
  "$defs": {
    "Clause": {
      "type":"object",
      "properties": {
        "verb": {"type":"string"},
        "subordinate": {"anyOf":[{"$ref":"#/$defs/Clause"},{"type":"null"}]}
      }
    },
    "A": {"type":"object", "properties": {"b": {"$ref":"#/$defs/B"}}},
    "B": {"type":"object", "properties": {"a": {"$ref":"#/$defs/A"}}}
  },
  "type":"object",
  "properties": {
    "clause": {"$ref":"#/$defs/Clause"},
    "cycle": {"$ref":"#/$defs/A"}
  }
}`)
	got := New(WithMaxDepth(6)).BuildDefault(doc, doc.Root()).(map[string]any)

	want := map[string]any{"verb": "", "subordinate": nil}
	if diff := cmp.Diff(want, got["clause"]); diff != "" {
		t.Fatalf("clause default mismatch (-want +got):\n%s", diff)
	}

	depth := 0
	current := got["cycle"]
	for current != nil {
		obj, ok := current.(map[string]any)
		if !ok {
			t.Fatalf("unexpected value %#v", current)
		}
		depth++
		if next, ok := obj["b"]; ok {
			current = next
		} else {
			current = obj["a"]
		}
	}
	if depth == 0 || depth > 7 {
		t.Fatalf("expected bounded recursion, got depth %d", depth)
	}
}

func TestBuildDefault_DeclaredDefaults(t *testing.T) {
	doc := mustParse(t, `{
  "type":"object",
  "properties": {
    "tense": {"enum":["past","present"], "default":"present"},
    "bad": {"enum":["a","b"], "default":"z"},
    "flag": {"type":"boolean", "default": true}
  }
}`)
	plain := BuildDefault(doc, doc.Root())
	if diff := cmp.Diff(map[string]any{"tense": "past", "bad": "a", "flag": false}, plain); diff != "" {
		t.Fatalf("plain default mismatch (-want +got):\n%s", diff)
	}

	declared := New(WithDeclaredDefaults(true)).BuildDefault(doc, doc.Root())
	if diff := cmp.Diff(map[string]any{"tense": "present", "bad": "a", "flag": true}, declared); diff != "" {
		t.Fatalf("declared default mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildDefault_RoundTripConforms(t *testing.T) {
	fixtures := []string{
		shapesSchema,
		`{"type":"object","required":["a","b"],"properties":{"a":{"type":"string"},"b":{"enum":[1,2,3]}}}`,
		`{"anyOf":[{"type":"object","properties":{"x":{"type":"boolean"}}},{"type":"string"}]}`,
		`{"type":"object","properties":{"o":{"anyOf":[{"enum":["a"]},{"type":"null"}]}}}`,
	}
	for idx, raw := range fixtures {
		doc := mustParse(t, raw)
		value := BuildDefault(doc, doc.Root())
		if !Conforms(doc, doc.Root(), value) {
			t.Fatalf("fixture %d: default %#v does not conform", idx, value)
		}
		for _, name := range doc.Node(Resolve(doc, doc.Root())).PropertyNames {
			child := property(t, doc, doc.Root(), name)
			if !Conforms(doc, child, BuildDefault(doc, child)) {
				t.Fatalf("fixture %d: property %s default does not conform", idx, name)
			}
		}
	}
}

func TestBuildDefault_EnumKeepsNumbers(t *testing.T) {
	doc := mustParse(t, `{"enum":[2, 3]}`)
	got := BuildDefault(doc, doc.Root())
	if number, ok := toFloat(got); !ok || number != 2 {
		t.Fatalf("expected numeric 2, got %#v", got)
	}
	if !valuesEqual(got, json.Number("2")) || valuesEqual(got, "2") {
		t.Fatalf("expected numeric comparison to ignore representation")
	}
}

func TestConforms(t *testing.T) {
	doc := mustParse(t, `{
  "type":"object",
  "required":["subject"],
  "properties": {
    "subject": {"enum":["I","you"]},
    "negated": {"type":"boolean"},
    "adverb": {"anyOf":[{"type":"string"},{"type":"null"}]}
  }
}`)
	cases := []struct {
		name  string
		value any
		want  bool
	}{
		{"minimal", map[string]any{"subject": "I"}, true},
		{"full", map[string]any{"subject": "you", "negated": true, "adverb": nil}, true},
		{"missing required", map[string]any{"negated": true}, false},
		{"enum outside set", map[string]any{"subject": "they"}, false},
		{"wrong scalar", map[string]any{"subject": "I", "negated": "yes"}, false},
		{"optional present", map[string]any{"subject": "I", "adverb": "quickly"}, true},
		{"not an object", "I", false},
	}
	for _, tc := range cases {
		if got := Conforms(doc, doc.Root(), tc.value); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
