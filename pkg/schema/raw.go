package schema

import "errors"

// RawDocument wraps an undecoded schema set payload and its origin.
type RawDocument struct {
	source Source
	raw    []byte
}

// NewRawDocument validates the inputs and copies the payload.
func NewRawDocument(src Source, raw []byte) (RawDocument, error) {
	if src == nil {
		return RawDocument{}, errors.New("schema: source is required")
	}
	if len(raw) == 0 {
		return RawDocument{}, errors.New("schema: raw document is empty")
	}
	return RawDocument{source: src, raw: append([]byte(nil), raw...)}, nil
}

// Source returns the origin metadata for the payload.
func (d RawDocument) Source() Source {
	return d.source
}

// Bytes returns a defensive copy of the payload.
func (d RawDocument) Bytes() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d RawDocument) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}
