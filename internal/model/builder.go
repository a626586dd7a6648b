package model

import (
	"errors"

	"github.com/kubishi/yaduha-studio/pkg/jsonschema"
	"github.com/kubishi/yaduha-studio/pkg/schema"
)

// ErrNoDocument is returned when Build is asked to render without a schema.
var ErrNoDocument = errors.New("model: schema document is nil")

// Input carries everything needed to derive a render tree: the schema, the
// current value, and the user's explicit union selections keyed by path.
type Input struct {
	Name      string
	Document  *schema.Document
	Value     any
	Selection map[string]string
}

// Builder converts a schema plus its current value into a Tree.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	opts := defaultOptions()
	if options.Labeler != nil {
		opts.Labeler = options.Labeler
	}
	if options.Interpreter != nil {
		opts.Interpreter = options.Interpreter
	}
	return &Builder{opts: opts}
}

// Build walks the schema root and emits one field per renderable property in
// declaration order. Properties that classify as unknown are omitted.
func (b *Builder) Build(in Input) (Tree, error) {
	if in.Document == nil {
		return Tree{}, ErrNoDocument
	}

	w := walker{
		doc:       in.Document,
		interp:    b.opts.Interpreter,
		labeler:   b.opts.Labeler,
		selection: in.Selection,
		maxDepth:  b.opts.Interpreter.Options().MaxDepth,
	}

	root := in.Document.Root()
	head := in.Document.Node(w.interp.Resolve(in.Document, root))
	tree := Tree{
		Schema:      in.Name,
		Title:       head.Title,
		Description: head.Description,
		Fields:      []Field{},
	}

	settled, shape := w.interp.Settle(in.Document, root)
	switch shape {
	case jsonschema.ShapeObject:
		tree.Fields = w.properties(settled, in.Value, "", 0)
	case jsonschema.ShapeUnknown:
	default:
		if field, ok := w.field("", "", root, in.Value, true, 0); ok {
			tree.Fields = append(tree.Fields, field)
		}
	}
	return tree, nil
}

type walker struct {
	doc       *schema.Document
	interp    *jsonschema.Interpreter
	labeler   func(string) string
	selection map[string]string
	maxDepth  int
}

func (w walker) properties(id schema.NodeID, value any, prefix string, depth int) []Field {
	node := w.doc.Node(id)
	object, _ := value.(map[string]any)

	fields := make([]Field, 0, len(node.PropertyNames))
	for _, name := range node.PropertyNames {
		var current any
		if object != nil {
			current = object[name]
		}
		field, ok := w.field(name, JoinPath(prefix, name), node.Properties[name], current, node.IsRequired(name), depth+1)
		if !ok {
			continue
		}
		fields = append(fields, field)
	}
	return fields
}

func (w walker) field(key, path string, id schema.NodeID, value any, required bool, depth int) (Field, bool) {
	if depth > w.maxDepth {
		return Field{}, false
	}
	settled, shape := w.interp.Settle(w.doc, id)
	if shape == jsonschema.ShapeUnknown {
		return Field{}, false
	}

	resolved := w.doc.Node(w.interp.Resolve(w.doc, id))
	field := Field{
		Key:         key,
		Path:        path,
		Label:       w.label(key, w.doc.Node(id).Title, resolved.Title),
		Description: resolved.Description,
		Shape:       shape,
		Node:        settled,
		Required:    required,
		Value:       value,
		Present:     true,
	}
	if field.Description == "" {
		field.Description = w.doc.Node(settled).Description
	}

	switch shape {
	case jsonschema.ShapeEnum:
		enum := w.doc.Node(settled).Enum
		field.Enum = make([]any, len(enum))
		for idx, option := range enum {
			field.Enum[idx] = schema.CloneValue(option)
		}
	case jsonschema.ShapeBoolean, jsonschema.ShapeString:
	case jsonschema.ShapeObject:
		field.Nested = w.properties(settled, value, path, depth)
	case jsonschema.ShapeOptional:
		field.Nullable = true
		field.Present = value != nil
		inner := w.interp.OptionalInner(w.doc, settled)
		if field.Present && inner != schema.NoNode {
			if child, ok := w.field(key, path, inner, value, required, depth+1); ok {
				field.Inner = &child
			}
		}
	case jsonschema.ShapeUnion:
		_, nullable := w.interp.Partition(w.doc, settled)
		field.Nullable = nullable
		field.Present = value != nil || !nullable

		variants := w.interp.Variants(w.doc, settled)
		for _, variant := range variants {
			field.Variants = append(field.Variants, variant.Name)
		}
		field.Selected = w.selected(path, value, variants)
		if !field.Present {
			break
		}
		if variant, ok := jsonschema.FindVariant(variants, field.Selected); ok {
			if child, ok := w.field(key, path, variant.Node, value, required, depth+1); ok {
				child.Label = variant.Name
				field.Inner = &child
			}
		}
	}
	return field, true
}

// selected honours an explicit choice when it still names a variant and falls
// back to detection otherwise.
func (w walker) selected(path string, value any, variants []jsonschema.Variant) string {
	if name, ok := w.selection[path]; ok {
		if _, found := jsonschema.FindVariant(variants, name); found {
			return name
		}
	}
	return w.interp.DetectVariant(w.doc, value, variants)
}

func (w walker) label(key, declared, resolved string) string {
	switch {
	case declared != "":
		return declared
	case key != "":
		return w.labeler(key)
	default:
		return resolved
	}
}

// JoinPath appends key to a dotted field path.
func JoinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
