package jsonschema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const clauseUnion = `{
  "$defs": {
    "Simple": {"title":"Simple", "type":"object", "properties": {"subject": {"type":"string"}}},
    "Complex": {"title":"Complex", "type":"object", "properties": {"subject": {"type":"string"}, "object": {"type":"string"}}}
  },
  "type":"object",
  "properties": {
    "clause": {"anyOf":[{"$ref":"#/$defs/Simple"}, {"$ref":"#/$defs/Complex"}, {"type":"null"}]},
    "pronoun": {"anyOf":[
      {"title":"Person", "enum":["I","you"]},
      {"title":"Thing", "enum":["it","this"]},
      {"type":"string"}
    ]},
    "untitled": {"anyOf":[{"type":"string"}, {"type":"boolean"}]},
    "dupes": {"anyOf":[{"title":"Same","type":"string"}, {"title":"Same","type":"boolean"}]}
  }
}`

func TestVariants_NamesAndOrder(t *testing.T) {
	doc := mustParse(t, clauseUnion)

	names := func(prop string) []string {
		var out []string
		for _, variant := range Variants(doc, property(t, doc, doc.Root(), prop)) {
			out = append(out, variant.Name)
		}
		return out
	}

	if diff := cmp.Diff([]string{"Simple", "Complex"}, names("clause")); diff != "" {
		t.Fatalf("clause variants mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Option 1", "Option 2"}, names("untitled")); diff != "" {
		t.Fatalf("untitled variants mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Same", "Same #2"}, names("dupes")); diff != "" {
		t.Fatalf("duplicate variants mismatch (-want +got):\n%s", diff)
	}

	first := Variants(doc, property(t, doc, doc.Root(), "clause"))
	second := Variants(doc, property(t, doc, doc.Root(), "clause"))
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("variants must be stable (-first +second):\n%s", diff)
	}
}

func TestDetectVariant_ComplexWins(t *testing.T) {
	doc := mustParse(t, clauseUnion)
	variants := Variants(doc, property(t, doc, doc.Root(), "clause"))

	value := map[string]any{"subject": "I", "object": "ran"}
	if got := DetectVariant(doc, value, variants); got != "Complex" {
		t.Fatalf("expected Complex, got %q", got)
	}
	simple, _ := FindVariant(variants, "Simple")
	complexVariant, _ := FindVariant(variants, "Complex")
	if got := Default().Score(doc, value, simple); got != 0 {
		t.Fatalf("expected Simple score 0, got %d", got)
	}
	if got := Default().Score(doc, value, complexVariant); got != 2 {
		t.Fatalf("expected Complex score 2, got %d", got)
	}
}

func TestDetectVariant_Policy(t *testing.T) {
	doc := mustParse(t, clauseUnion)
	clause := Variants(doc, property(t, doc, doc.Root(), "clause"))
	pronoun := Variants(doc, property(t, doc, doc.Root(), "pronoun"))

	cases := []struct {
		name     string
		value    any
		variants []Variant
		want     string
	}{
		{"nil picks first", nil, clause, "Simple"},
		{"tie picks first", map[string]any{"subject": "I"}, clause, "Simple"},
		{"empty object ties", map[string]any{}, clause, "Simple"},
		{"extraneous only", map[string]any{"object": "x"}, clause, "Complex"},
		{"primitive enum match", "this", pronoun, "Thing"},
		{"primitive enum first match", "I", pronoun, "Person"},
		{"primitive no match", "dog", pronoun, "Person"},
		{"primitive against objects", "dog", clause, "Simple"},
		{"no variants", map[string]any{"a": 1}, nil, ""},
	}
	for _, tc := range cases {
		if got := DetectVariant(doc, tc.value, tc.variants); got != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestScore_Monotonic(t *testing.T) {
	doc := mustParse(t, clauseUnion)
	variants := Variants(doc, property(t, doc, doc.Root(), "clause"))
	simple, _ := FindVariant(variants, "Simple")
	complexVariant, _ := FindVariant(variants, "Complex")

	bases := []map[string]any{
		{},
		{"subject": "I"},
		{"stray": true},
		{"subject": "I", "stray": true},
	}
	for _, base := range bases {
		withObject := cloneValue(base).(map[string]any)
		withObject["object"] = "apple"

		// "object" is declared by Complex only.
		if Default().Score(doc, withObject, complexVariant) < Default().Score(doc, base, complexVariant) {
			t.Fatalf("adding a declared field decreased the score for %v", base)
		}
		if Default().Score(doc, withObject, simple) > Default().Score(doc, base, simple) {
			t.Fatalf("adding an undeclared field increased the score for %v", base)
		}
	}
}
