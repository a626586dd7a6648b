package form

import "errors"

var (
	// ErrStaleUpdate is returned when an update carries a sequence number no
	// newer than the last one applied on its stream.
	ErrStaleUpdate = errors.New("form: stale update")
	// ErrUnknownSchema is returned when switching to a name the current
	// schema set does not contain.
	ErrUnknownSchema = errors.New("form: unknown schema")
	// ErrNoActiveSchema is returned by accessors that need an active schema.
	ErrNoActiveSchema = errors.New("form: no active schema")
)
