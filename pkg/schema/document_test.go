package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sentencePayload() map[string]any {
	return map[string]any{
		"title": "SubjectVerb",
		"type":  "object",
		"$defs": map[string]any{
			"Pronoun": map[string]any{
				"title": "Pronoun",
				"enum":  []any{"I", "you", "we"},
				"type":  "string",
			},
		},
		"properties": map[string]any{
			"subject": map[string]any{"$ref": "#/$defs/Pronoun", "description": "who acts"},
			"verb":    map[string]any{"type": "string"},
		},
		"x-property-order": []any{"verb", "subject"},
		"required":         []any{"subject", "verb"},
	}
}

func TestDocument_RootAndProperties(t *testing.T) {
	doc := MustNewDocument(sentencePayload())

	root := doc.Node(doc.Root())
	if root.Type != TypeObject {
		t.Fatalf("expected object root, got %q", root.Type)
	}
	if diff := cmp.Diff([]string{"verb", "subject"}, root.PropertyNames); diff != "" {
		t.Fatalf("property order mismatch (-want +got):\n%s", diff)
	}
	if !root.IsRequired("subject") || root.IsRequired("object") {
		t.Fatalf("unexpected required set %v", root.Required)
	}

	subjectID, ok := root.Property("subject")
	if !ok {
		t.Fatalf("expected subject property")
	}
	subject := doc.Node(subjectID)
	if subject.Ref != "#/$defs/Pronoun" {
		t.Fatalf("expected ref to be kept on node, got %q", subject.Ref)
	}
	if diff := cmp.Diff([]string{"description"}, subject.SiblingKeys()); diff != "" {
		t.Fatalf("sibling keys mismatch (-want +got):\n%s", diff)
	}
}

func TestDocument_LookupMaterialisesDefinitions(t *testing.T) {
	doc := MustNewDocument(sentencePayload())
	before := doc.Len()

	id, ok := doc.Lookup("#/$defs/Pronoun")
	if !ok {
		t.Fatalf("expected lookup to succeed")
	}
	if doc.Node(id).Title != "Pronoun" {
		t.Fatalf("unexpected node %#v", doc.Node(id))
	}
	if doc.Len() != before+1 {
		t.Fatalf("expected one node to be added, got %d -> %d", before, doc.Len())
	}

	again, _ := doc.Lookup("#/$defs/Pronoun")
	if again != id {
		t.Fatalf("expected stable id, got %d and %d", id, again)
	}

	if _, ok := doc.Lookup("#/$defs/Missing"); ok {
		t.Fatalf("expected missing lookup to fail")
	}
}

func TestDocument_OverlayIsCached(t *testing.T) {
	doc := MustNewDocument(sentencePayload())
	root := doc.Node(doc.Root())
	subjectID, _ := root.Property("subject")
	target, _ := doc.Lookup("#/$defs/Pronoun")

	merged := doc.Overlay(target, subjectID)
	node := doc.Node(merged)
	if node.Description != "who acts" {
		t.Fatalf("expected sibling description to win, got %q", node.Description)
	}
	if node.Title != "Pronoun" || !node.HasEnum {
		t.Fatalf("expected target keys to be kept, got %#v", node)
	}
	if node.HasRef() {
		t.Fatalf("overlay must not carry $ref")
	}
	if doc.Overlay(target, subjectID) != merged {
		t.Fatalf("expected overlay id to be cached")
	}
}

func TestDocument_NewDocumentAtPointer(t *testing.T) {
	payload := map[string]any{
		"components": map[string]any{
			"schemas": map[string]any{
				"Clause": map[string]any{
					"type":       "object",
					"properties": map[string]any{"verb": map[string]any{"$ref": "#/components/schemas/Verb"}},
				},
				"Verb": map[string]any{"type": "string"},
			},
		},
	}
	doc, err := NewDocumentAt(payload, "#/components/schemas/Clause")
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	if got := doc.Node(doc.Root()).Pointer; got != "#/components/schemas/Clause" {
		t.Fatalf("unexpected root pointer %q", got)
	}
	id, ok := doc.Lookup("#/components/schemas/Verb")
	if !ok || doc.Node(id).Type != TypeString {
		t.Fatalf("expected verb lookup to resolve")
	}

	if _, err := NewDocumentAt(payload, "#/components/schemas/Missing"); err == nil {
		t.Fatalf("expected error for missing root pointer")
	}
}

func TestDocument_UnknownIDYieldsEmptyNode(t *testing.T) {
	doc := MustNewDocument(map[string]any{"type": "string"})
	node := doc.Node(NodeID(999))
	if node.Type != "" || node.Items != NoNode {
		t.Fatalf("expected empty node, got %#v", node)
	}
}

func TestSplitPointer(t *testing.T) {
	cases := map[string][]string{
		"#":                 nil,
		"#/$defs/Pronoun":   {"$defs", "Pronoun"},
		"/a~1b/c~0d":        {"a/b", "c~d"},
		"#/$defs/with%20sp": {"$defs", "with sp"},
	}
	for input, want := range cases {
		if diff := cmp.Diff(want, SplitPointer(input)); diff != "" {
			t.Fatalf("SplitPointer(%q) mismatch (-want +got):\n%s", input, diff)
		}
	}
}
