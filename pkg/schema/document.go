package schema

import (
	"errors"
	"sync"
)

// Document is an arena of schema nodes addressed by NodeID. References are
// plain pointer lookups against the root payload, so self-referential schema
// graphs never produce ownership cycles. A Document is safe for concurrent
// readers; nodes materialised lazily (ref targets, overlays) are appended
// under a lock and never change afterwards.
type Document struct {
	mu       sync.RWMutex
	root     map[string]any
	rootID   NodeID
	nodes    []Node
	index    map[string]NodeID
	overlays map[overlayKey]NodeID
}

type overlayKey struct {
	base  NodeID
	patch NodeID
}

// NewDocument builds a document whose root node is the payload itself.
func NewDocument(payload map[string]any) (*Document, error) {
	return NewDocumentAt(payload, "#")
}

// NewDocumentAt builds a document over payload whose root node lives at the
// supplied JSON pointer. OpenAPI documents use this to expose a single
// component schema while keeping "#/components/schemas/..." refs resolvable.
func NewDocumentAt(payload map[string]any, pointer string) (*Document, error) {
	if payload == nil {
		return nil, errors.New("schema: payload is nil")
	}
	doc := &Document{
		root:     cloneAny(payload).(map[string]any),
		index:    make(map[string]NodeID),
		overlays: make(map[overlayKey]NodeID),
	}
	doc.nodes = append(doc.nodes, Node{Pointer: "", Items: NoNode})

	target, err := walkPointer(doc.root, pointer)
	if err != nil {
		return nil, err
	}
	obj, ok := target.(map[string]any)
	if !ok {
		return nil, errors.New("schema: root node must be an object")
	}
	doc.rootID = doc.add(obj, normalizePointer(pointer))
	return doc, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(payload map[string]any) *Document {
	doc, err := NewDocument(payload)
	if err != nil {
		panic(err)
	}
	return doc
}

// Root returns the ID of the document's root node.
func (d *Document) Root() NodeID {
	if d == nil {
		return EmptyNode
	}
	return d.rootID
}

// Node returns a copy of the node stored at id. Unknown IDs yield the empty
// node.
func (d *Document) Node(id NodeID) Node {
	if d == nil {
		return Node{Items: NoNode}
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if id < 0 || int(id) >= len(d.nodes) {
		return d.nodes[EmptyNode]
	}
	return d.nodes[id]
}

// Len reports how many nodes the arena currently holds.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.nodes)
}

// Lookup finds the node addressed by a reference such as "#/$defs/Subject".
// Targets outside the parsed tree are materialised on first use.
func (d *Document) Lookup(ref string) (NodeID, bool) {
	if d == nil {
		return EmptyNode, false
	}
	pointer := normalizePointer(ref)

	d.mu.RLock()
	id, ok := d.index[pointer]
	d.mu.RUnlock()
	if ok {
		return id, true
	}

	target, err := walkPointer(d.root, pointer)
	if err != nil {
		return EmptyNode, false
	}
	obj, ok := target.(map[string]any)
	if !ok {
		return EmptyNode, false
	}
	return d.add(obj, pointer), true
}

// Overlay returns a node whose keys are base's keys with every non-$ref key
// of patch written on top. The result is cached so repeated resolution of
// the same reference returns the same ID.
func (d *Document) Overlay(base, patch NodeID) NodeID {
	if d == nil {
		return EmptyNode
	}
	key := overlayKey{base: base, patch: patch}

	d.mu.RLock()
	id, ok := d.overlays[key]
	d.mu.RUnlock()
	if ok {
		return id
	}

	baseNode := d.Node(base)
	patchNode := d.Node(patch)
	merged := baseNode.Raw()
	if merged == nil {
		merged = make(map[string]any)
	}
	delete(merged, "$ref")
	for key, value := range patchNode.raw {
		if key == "$ref" {
			continue
		}
		merged[key] = cloneAny(value)
	}

	pointer := baseNode.Pointer + "&" + patchNode.Pointer
	id = d.add(merged, pointer)

	d.mu.Lock()
	if existing, ok := d.overlays[key]; ok {
		d.mu.Unlock()
		return existing
	}
	d.overlays[key] = id
	d.mu.Unlock()
	return id
}

func (d *Document) add(payload map[string]any, pointer string) NodeID {
	d.mu.Lock()
	if id, ok := d.index[pointer]; ok {
		d.mu.Unlock()
		return id
	}
	id := NodeID(len(d.nodes))
	d.nodes = append(d.nodes, Node{Pointer: pointer, Items: NoNode})
	d.index[pointer] = id
	d.mu.Unlock()

	node := parseNode(payload, pointer, func(raw any, childPointer string) NodeID {
		obj, ok := raw.(map[string]any)
		if !ok {
			return EmptyNode
		}
		return d.add(obj, childPointer)
	})

	d.mu.Lock()
	d.nodes[id] = node
	d.mu.Unlock()
	return id
}
