package jsonschema

import "github.com/kubishi/yaduha-studio/pkg/schema"

// Resolve expands a reference node against its document. The referenced
// definition supplies the base keys and every key declared next to $ref is
// overlaid on top, so a local description narrows the shared one. Nodes
// without a reference are returned unchanged. Unresolvable references, ref
// cycles, and chains deeper than MaxRefDepth resolve to schema.EmptyNode;
// the external validator reports authoring errors, not the form engine.
func (i *Interpreter) Resolve(doc *schema.Document, id schema.NodeID) schema.NodeID {
	return i.resolve(doc, id, 0)
}

func (i *Interpreter) resolve(doc *schema.Document, id schema.NodeID, depth int) schema.NodeID {
	if doc == nil {
		return schema.EmptyNode
	}
	node := doc.Node(id)
	if !node.HasRef() {
		return id
	}
	if depth >= i.opts.MaxRefDepth {
		return schema.EmptyNode
	}

	target, ok := doc.Lookup(node.Ref)
	if !ok {
		return schema.EmptyNode
	}
	base := i.resolve(doc, target, depth+1)
	if base == schema.EmptyNode {
		return schema.EmptyNode
	}
	if len(node.SiblingKeys()) == 0 {
		return base
	}
	return doc.Overlay(base, id)
}

// Resolve expands a reference with the default interpreter.
func Resolve(doc *schema.Document, id schema.NodeID) schema.NodeID {
	return defaultInterpreter.Resolve(doc, id)
}
