package model

import internalmodel "github.com/kubishi/yaduha-studio/internal/model"

// Field is one control of a render tree.
type Field = internalmodel.Field

// Tree is the ordered list of controls for one schema.
type Tree = internalmodel.Tree

// Input bundles the schema, value, and variant selections a tree is built from.
type Input = internalmodel.Input

// ErrNoDocument is returned when a tree is built without a schema.
var ErrNoDocument = internalmodel.ErrNoDocument

// JoinPath appends key to a dotted field path.
func JoinPath(prefix, key string) string {
	return internalmodel.JoinPath(prefix, key)
}

// DefaultLabeler is the label function used for untitled properties.
func DefaultLabeler(key string) string {
	return internalmodel.DefaultLabeler(key)
}
