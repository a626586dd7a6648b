package form

import (
	"strings"

	"github.com/kubishi/yaduha-studio/pkg/jsonschema"
	"github.com/kubishi/yaduha-studio/pkg/model"
	"github.com/kubishi/yaduha-studio/pkg/schema"
)

// splitPath breaks a dotted field path into property keys. The empty path
// addresses the root value.
func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

func getPath(root any, path string) (any, bool) {
	current := root
	for _, segment := range splitPath(path) {
		object, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		next, ok := object[segment]
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// setPath writes value at path and returns the new root, creating
// intermediate objects where the current value is absent or not an object.
// Siblings along the path are left untouched.
func setPath(root any, path string, value any) any {
	segments := splitPath(path)
	if len(segments) == 0 {
		return value
	}
	object, ok := root.(map[string]any)
	if !ok || object == nil {
		object = make(map[string]any)
	}
	current := object
	for _, segment := range segments[:len(segments)-1] {
		child, ok := current[segment].(map[string]any)
		if !ok || child == nil {
			child = make(map[string]any)
			current[segment] = child
		}
		current = child
	}
	current[segments[len(segments)-1]] = value
	return object
}

// locator walks dotted paths through a schema the way the render tree lays
// them out: object properties, optional inners, and the selected (or
// detected) variant of a union.
type locator struct {
	doc       *schema.Document
	interp    *jsonschema.Interpreter
	selection map[string]string
}

// locate returns the node addressed by path, or false when some segment no
// longer exists in the schema.
func (l locator) locate(path string, value any) (schema.NodeID, bool) {
	id := l.doc.Root()
	current := value
	prefix := ""
	for _, segment := range splitPath(path) {
		object, ok := l.objectNode(id, current, prefix)
		if !ok {
			return schema.NoNode, false
		}
		child, ok := l.doc.Node(object).Property(segment)
		if !ok {
			return schema.NoNode, false
		}
		id = child
		if values, ok := current.(map[string]any); ok {
			current = values[segment]
		} else {
			current = nil
		}
		prefix = model.JoinPath(prefix, segment)
	}
	return id, true
}

// objectNode settles id down to the object node whose properties the next
// path segment names.
func (l locator) objectNode(id schema.NodeID, value any, path string) (schema.NodeID, bool) {
	limit := l.interp.Options().MaxDepth
	for step := 0; step <= limit; step++ {
		settled, shape := l.interp.Settle(l.doc, id)
		switch shape {
		case jsonschema.ShapeObject:
			return settled, true
		case jsonschema.ShapeOptional:
			id = l.interp.OptionalInner(l.doc, settled)
		case jsonschema.ShapeUnion:
			variant, ok := l.variant(settled, value, path)
			if !ok {
				return schema.NoNode, false
			}
			id = variant.Node
		default:
			return schema.NoNode, false
		}
	}
	return schema.NoNode, false
}

func (l locator) variant(id schema.NodeID, value any, path string) (jsonschema.Variant, bool) {
	variants := l.interp.Variants(l.doc, id)
	if name, ok := l.selection[path]; ok {
		if variant, found := jsonschema.FindVariant(variants, name); found {
			return variant, true
		}
	}
	return jsonschema.FindVariant(variants, l.interp.DetectVariant(l.doc, value, variants))
}

// dropNested removes selections recorded beneath path.
func dropNested(selection map[string]string, path string) {
	prefix := path + "."
	for key := range selection {
		if path == "" || strings.HasPrefix(key, prefix) {
			if key != path {
				delete(selection, key)
			}
		}
	}
}
