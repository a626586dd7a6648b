package jsonschema

import "github.com/kubishi/yaduha-studio/pkg/schema"

// BuildDefault synthesizes the minimal structurally valid value for a node:
//
//	optional -> nil
//	union    -> default of the first member (declaration order)
//	boolean  -> false
//	enum     -> first declared value, "" when the enum is empty
//	string   -> ""
//	object   -> every declared property mapped to its own default
//	unknown  -> nil
//
// Recursion past MaxDepth yields nil, so pathological cyclic definitions
// still terminate.
func (i *Interpreter) BuildDefault(doc *schema.Document, id schema.NodeID) any {
	return i.buildDefault(doc, id, 0)
}

func (i *Interpreter) buildDefault(doc *schema.Document, id schema.NodeID, depth int) any {
	if doc == nil || depth > i.opts.MaxDepth {
		return nil
	}
	settled, shape := i.settle(doc, id, depth)
	node := doc.Node(settled)

	if i.opts.UseDeclaredDefaults && node.HasDefault && i.conforms(doc, settled, node.Default, depth) {
		return cloneValue(node.Default)
	}

	switch shape {
	case ShapeOptional:
		return nil
	case ShapeUnion:
		members, _ := i.partition(doc, node)
		return i.buildDefault(doc, members[0], depth+1)
	case ShapeBoolean:
		return false
	case ShapeEnum:
		if len(node.Enum) == 0 {
			return ""
		}
		return cloneValue(node.Enum[0])
	case ShapeString:
		return ""
	case ShapeObject:
		out := make(map[string]any, len(node.PropertyNames))
		for _, name := range node.PropertyNames {
			out[name] = i.buildDefault(doc, node.Properties[name], depth+1)
		}
		return out
	case ShapeUnknown:
		return nil
	}
	return nil
}

// BuildDefault synthesizes a default with the default interpreter.
func BuildDefault(doc *schema.Document, id schema.NodeID) any {
	return defaultInterpreter.BuildDefault(doc, id)
}

// Conforms reports whether value structurally satisfies the node: required
// object properties are present, enum values come from the declared set,
// scalars carry the declared type, optionals accept nil, and unions accept a
// value conforming to any member. Unknown shapes accept anything.
func (i *Interpreter) Conforms(doc *schema.Document, id schema.NodeID, value any) bool {
	return i.conforms(doc, id, value, 0)
}

func (i *Interpreter) conforms(doc *schema.Document, id schema.NodeID, value any, depth int) bool {
	if doc == nil || depth > i.opts.MaxDepth {
		return true
	}
	settled, shape := i.settle(doc, id, depth)
	node := doc.Node(settled)

	switch shape {
	case ShapeOptional:
		if value == nil {
			return true
		}
		members, _ := i.partition(doc, node)
		return i.conforms(doc, members[0], value, depth+1)
	case ShapeUnion:
		members, _ := i.partition(doc, node)
		for _, member := range members {
			if i.conforms(doc, member, value, depth+1) {
				return true
			}
		}
		return false
	case ShapeBoolean:
		_, ok := value.(bool)
		return ok
	case ShapeEnum:
		if len(node.Enum) == 0 {
			str, ok := value.(string)
			return ok && str == ""
		}
		return enumContains(node.Enum, value)
	case ShapeString:
		_, ok := value.(string)
		return ok
	case ShapeObject:
		obj, ok := value.(map[string]any)
		if !ok {
			return false
		}
		for _, name := range node.Required {
			if _, present := obj[name]; !present {
				return false
			}
		}
		for _, name := range node.PropertyNames {
			child, present := obj[name]
			if !present {
				continue
			}
			if !i.conforms(doc, node.Properties[name], child, depth+1) {
				return false
			}
		}
		return true
	case ShapeUnknown:
		return true
	}
	return true
}

// Conforms checks a value with the default interpreter.
func Conforms(doc *schema.Document, id schema.NodeID, value any) bool {
	return defaultInterpreter.Conforms(doc, id, value)
}
