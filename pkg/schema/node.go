package schema

import (
	"sort"
	"strings"
)

// NodeID addresses a node inside a Document arena. IDs are stable for the
// lifetime of the document.
type NodeID int

const (
	// EmptyNode is the shared empty node every document reserves at slot 0.
	// Unresolvable references resolve here.
	EmptyNode NodeID = 0
	// NoNode marks an absent child reference (e.g. an object without items).
	NoNode NodeID = -1
)

// Type tags recognised by the form engine. Other JSON Schema types are kept
// verbatim on the node and classify as unknown.
const (
	TypeBoolean = "boolean"
	TypeString  = "string"
	TypeObject  = "object"
	TypeArray   = "array"
	TypeNull    = "null"
)

// Node is a single typed-shape declaration. Nodes are immutable once parsed;
// callers receive copies and must not mutate shared slices or maps.
type Node struct {
	// Pointer is the JSON pointer (or synthetic overlay key) the node was
	// parsed from.
	Pointer string

	Ref         string
	Type        string
	Title       string
	Description string
	Default     any
	HasDefault  bool
	Const       any
	Enum        []any
	HasEnum     bool
	Required    []string
	AnyOf       []NodeID

	// PropertyNames preserves declaration order; Properties maps each name to
	// its child node.
	PropertyNames []string
	Properties    map[string]NodeID
	Items         NodeID
	Extensions    map[string]any

	raw map[string]any
}

// HasRef reports whether the node is a reference that still needs resolving.
func (n Node) HasRef() bool {
	return n.Ref != ""
}

// Property returns the child node for a declared property.
func (n Node) Property(name string) (NodeID, bool) {
	if n.Properties == nil {
		return NoNode, false
	}
	id, ok := n.Properties[name]
	return id, ok
}

// IsRequired reports whether name is listed in the node's required set.
func (n Node) IsRequired(name string) bool {
	for _, item := range n.Required {
		if item == name {
			return true
		}
	}
	return false
}

// Raw returns a deep copy of the payload the node was parsed from.
func (n Node) Raw() map[string]any {
	if n.raw == nil {
		return nil
	}
	return cloneAny(n.raw).(map[string]any)
}

// SiblingKeys returns the keys declared next to $ref, sorted.
func (n Node) SiblingKeys() []string {
	if n.raw == nil {
		return nil
	}
	keys := make([]string, 0, len(n.raw))
	for key := range n.raw {
		if key == "$ref" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// parseNode converts a raw JSON object into a Node. Children are registered
// through the supplied callback so the arena owns every node.
func parseNode(payload map[string]any, pointer string, child func(any, string) NodeID) Node {
	node := Node{
		Pointer:     pointer,
		Ref:         strings.TrimSpace(readString(payload, "$ref")),
		Type:        readType(payload["type"]),
		Title:       strings.TrimSpace(readString(payload, "title")),
		Description: strings.TrimSpace(readString(payload, "description")),
		Items:       NoNode,
		raw:         payload,
	}

	if value, ok := payload["default"]; ok {
		node.Default = value
		node.HasDefault = true
	}
	node.Const = payload["const"]

	if enumRaw, ok := payload["enum"]; ok {
		if list, ok := enumRaw.([]any); ok {
			node.Enum = append([]any(nil), list...)
			node.HasEnum = true
		}
	}
	// A const is a single-valued enum (Literal discriminators).
	if constRaw, ok := payload["const"]; ok && !node.HasEnum {
		node.Enum = []any{constRaw}
		node.HasEnum = true
	}

	if requiredRaw, ok := payload["required"].([]any); ok {
		for _, item := range requiredRaw {
			if str, ok := item.(string); ok && strings.TrimSpace(str) != "" {
				node.Required = append(node.Required, str)
			}
		}
	}

	for _, key := range []string{"anyOf", "oneOf"} {
		list, ok := payload[key].([]any)
		if !ok {
			continue
		}
		alternatives := make([]NodeID, 0, len(list))
		for idx, entry := range list {
			alternatives = append(alternatives, child(entry, joinPointer(pointer, key, itoa(idx))))
		}
		node.AnyOf = alternatives
		break
	}
	if len(node.AnyOf) == 0 && node.Ref == "" {
		// {"type":["string","null"]} reads as an anyOf over its types.
		for idx, member := range typeAlternatives(payload) {
			node.AnyOf = append(node.AnyOf, child(member, joinPointer(pointer, "type", itoa(idx))))
		}
	}

	if props, ok := payload["properties"].(map[string]any); ok {
		names := propertyOrder(payload, props)
		node.PropertyNames = names
		node.Properties = make(map[string]NodeID, len(names))
		for _, name := range names {
			node.Properties[name] = child(props[name], joinPointer(pointer, "properties", name))
		}
	}

	if items, ok := payload["items"].(map[string]any); ok {
		node.Items = child(items, joinPointer(pointer, "items"))
	}

	for key, value := range payload {
		if !isVendorExtension(key) {
			continue
		}
		if node.Extensions == nil {
			node.Extensions = make(map[string]any)
		}
		node.Extensions[key] = value
	}

	return node
}

// propertyOrder returns the declared property order. Decoded JSON objects lose
// key order, so documents may carry it explicitly through x-order (or the
// loader's x-property-order); otherwise keys are sorted for determinism.
func propertyOrder(payload map[string]any, props map[string]any) []string {
	for _, key := range []string{"x-property-order", "x-order"} {
		list, ok := payload[key].([]any)
		if !ok {
			continue
		}
		seen := make(map[string]struct{}, len(list))
		names := make([]string, 0, len(props))
		for _, item := range list {
			name, ok := item.(string)
			if !ok {
				continue
			}
			if _, declared := props[name]; !declared {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
		rest := make([]string, 0)
		for name := range props {
			if _, ok := seen[name]; !ok {
				rest = append(rest, name)
			}
		}
		sort.Strings(rest)
		return append(names, rest...)
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func readType(raw any) string {
	switch typed := raw.(type) {
	case string:
		return strings.TrimSpace(typed)
	case []any:
		// ["string", "null"] style declarations keep their first concrete type.
		for _, entry := range typed {
			if str, ok := entry.(string); ok && str != TypeNull {
				return strings.TrimSpace(str)
			}
		}
		if len(typed) > 0 {
			if str, ok := typed[0].(string); ok {
				return strings.TrimSpace(str)
			}
		}
	}
	return ""
}

// typeAlternatives splits a type list that admits null into one schema per
// listed type. Concrete members keep the remaining keywords except default;
// lists without null yield nothing.
func typeAlternatives(payload map[string]any) []map[string]any {
	list, ok := payload["type"].([]any)
	if !ok || len(list) < 2 {
		return nil
	}
	names := make([]string, 0, len(list))
	nullable := false
	for _, entry := range list {
		name, ok := entry.(string)
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		nullable = nullable || name == TypeNull
		names = append(names, name)
	}
	if !nullable {
		return nil
	}

	members := make([]map[string]any, 0, len(names))
	for _, name := range names {
		if name == TypeNull {
			members = append(members, map[string]any{"type": TypeNull})
			continue
		}
		member := make(map[string]any, len(payload))
		for key, value := range payload {
			if key == "type" || key == "default" {
				continue
			}
			member[key] = value
		}
		member["type"] = name
		members = append(members, member)
	}
	return members
}

func readString(payload map[string]any, key string) string {
	if payload == nil {
		return ""
	}
	str, _ := payload[key].(string)
	return str
}

func isVendorExtension(key string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(key)), "x-")
}
