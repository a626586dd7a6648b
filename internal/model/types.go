package model

import (
	"github.com/kubishi/yaduha-studio/pkg/jsonschema"
	"github.com/kubishi/yaduha-studio/pkg/schema"
)

// Field is one renderable control in a RenderTree. Struct fields are
// annotated so view layers can serialise the tree directly.
type Field struct {
	Key         string           `json:"key"`
	Path        string           `json:"path"`
	Label       string           `json:"label,omitempty"`
	Description string           `json:"description,omitempty"`
	Shape       jsonschema.Shape `json:"shape"`
	Node        schema.NodeID    `json:"-"`
	Required    bool             `json:"required"`
	Value       any              `json:"value"`
	Enum        []any            `json:"enum,omitempty"`

	// Variants and Selected describe union controls; Selected is either the
	// user's explicit choice or the detected variant.
	Variants []string `json:"variants,omitempty"`
	Selected string   `json:"selected,omitempty"`

	// Nullable marks controls that may be toggled off; Present reports
	// whether such a control currently holds a value.
	Nullable bool `json:"nullable,omitempty"`
	Present  bool `json:"present,omitempty"`

	// Inner is the control for an optional's value or a union's selected
	// variant. It shares the parent's path.
	Inner *Field `json:"inner,omitempty"`

	// Nested lists an object's property controls in declaration order.
	Nested []Field `json:"nested,omitempty"`
}

// Tree is the ordered set of controls for one schema.
type Tree struct {
	Schema      string  `json:"schema"`
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Fields      []Field `json:"fields"`
}

// Walk visits every field depth-first, parents before children.
func (t Tree) Walk(fn func(Field) bool) {
	for _, field := range t.Fields {
		if !walkField(field, fn) {
			return
		}
	}
}

// Find returns the first field whose path matches.
func (t Tree) Find(path string) (Field, bool) {
	var (
		found Field
		ok    bool
	)
	t.Walk(func(field Field) bool {
		if field.Path == path {
			found, ok = field, true
			return false
		}
		return true
	})
	return found, ok
}

func walkField(field Field, fn func(Field) bool) bool {
	if !fn(field) {
		return false
	}
	if field.Inner != nil && !walkField(*field.Inner, fn) {
		return false
	}
	for _, child := range field.Nested {
		if !walkField(child, fn) {
			return false
		}
	}
	return true
}
