package jsonschema

import "github.com/kubishi/yaduha-studio/pkg/schema"

// Shape is the renderable category of a schema node. The set is closed;
// consumers switch over every value.
type Shape int

const (
	// ShapeUnknown covers shapes the form does not render. It is a fallback,
	// not an error.
	ShapeUnknown Shape = iota
	ShapeEnum
	ShapeBoolean
	ShapeString
	ShapeObject
	ShapeUnion
	ShapeOptional
)

var shapeNames = [...]string{
	ShapeUnknown:  "unknown",
	ShapeEnum:     "enum",
	ShapeBoolean:  "boolean",
	ShapeString:   "string",
	ShapeObject:   "object",
	ShapeUnion:    "union",
	ShapeOptional: "optional",
}

func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return shapeNames[ShapeUnknown]
	}
	return shapeNames[s]
}

// MarshalText renders the shape name so render trees serialise readably.
func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Classify maps a node to its shape. Classification depends only on
// structural tags, never on property names or titles.
func (i *Interpreter) Classify(doc *schema.Document, id schema.NodeID) Shape {
	_, shape := i.settle(doc, id, 0)
	return shape
}

// Settle resolves id and collapses single-member unions, returning the node
// that actually carries the shape alongside it.
func (i *Interpreter) Settle(doc *schema.Document, id schema.NodeID) (schema.NodeID, Shape) {
	return i.settle(doc, id, 0)
}

func (i *Interpreter) settle(doc *schema.Document, id schema.NodeID, depth int) (schema.NodeID, Shape) {
	if doc == nil || depth > i.opts.MaxDepth {
		return schema.EmptyNode, ShapeUnknown
	}
	resolved := i.Resolve(doc, id)
	node := doc.Node(resolved)

	if len(node.AnyOf) > 0 {
		members, hasAbsence := i.partition(doc, node)
		switch {
		case len(members) == 1 && hasAbsence:
			return resolved, ShapeOptional
		case len(members) > 1:
			return resolved, ShapeUnion
		case len(members) == 1:
			return i.settle(doc, members[0], depth+1)
		}
	}

	switch {
	case node.HasEnum:
		return resolved, ShapeEnum
	case node.Type == schema.TypeBoolean:
		return resolved, ShapeBoolean
	case node.Type == schema.TypeObject && len(node.PropertyNames) > 0:
		return resolved, ShapeObject
	case node.Type == schema.TypeString:
		return resolved, ShapeString
	default:
		return resolved, ShapeUnknown
	}
}

// Partition splits a node's alternatives into resolved non-absence members
// (declaration order) and whether an absence alternative is present.
func (i *Interpreter) Partition(doc *schema.Document, id schema.NodeID) ([]schema.NodeID, bool) {
	if doc == nil {
		return nil, false
	}
	return i.partition(doc, doc.Node(i.Resolve(doc, id)))
}

func (i *Interpreter) partition(doc *schema.Document, node schema.Node) ([]schema.NodeID, bool) {
	members := make([]schema.NodeID, 0, len(node.AnyOf))
	hasAbsence := false
	for _, alt := range node.AnyOf {
		resolved := i.Resolve(doc, alt)
		if isAbsence(doc.Node(resolved)) {
			hasAbsence = true
			continue
		}
		members = append(members, resolved)
	}
	return members, hasAbsence
}

// OptionalInner returns the single non-absence member of an optional node,
// or schema.NoNode when id is not optional.
func (i *Interpreter) OptionalInner(doc *schema.Document, id schema.NodeID) schema.NodeID {
	resolved, shape := i.Settle(doc, id)
	if shape != ShapeOptional {
		return schema.NoNode
	}
	members, _ := i.partition(doc, doc.Node(resolved))
	if len(members) == 0 {
		return schema.NoNode
	}
	return members[0]
}

func isAbsence(node schema.Node) bool {
	return node.Type == schema.TypeNull && len(node.AnyOf) == 0
}

// Classify maps a node to its shape with the default interpreter.
func Classify(doc *schema.Document, id schema.NodeID) Shape {
	return defaultInterpreter.Classify(doc, id)
}
