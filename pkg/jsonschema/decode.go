package jsonschema

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	gojson "github.com/goccy/go-json"

	"github.com/kubishi/yaduha-studio/pkg/schema"
)

// PropertyOrderKey is the vendor key the decoder records property declaration
// order under; decoded Go maps would otherwise lose it.
const PropertyOrderKey = "x-property-order"

// Decode parses a JSON object, keeping numbers as json.Number and recording
// the declaration order of every "properties" object under PropertyOrderKey.
// The top-level key order is returned alongside the payload.
func Decode(raw []byte) (map[string]any, []string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil, errors.New("jsonschema: raw schema is empty")
	}
	dec := gojson.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	value, keys, err := decodeValue(dec)
	if err != nil {
		return nil, nil, fmt.Errorf("jsonschema: parse schema: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, nil, errors.New("jsonschema: parse schema: trailing data")
	}
	payload, ok := value.(map[string]any)
	if !ok || payload == nil {
		return nil, nil, errors.New("jsonschema: schema must be an object")
	}
	return payload, keys, nil
}

// Parse decodes raw JSON into a schema document rooted at the payload.
func Parse(raw []byte) (*schema.Document, error) {
	payload, _, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	return schema.NewDocument(payload)
}

func decodeValue(dec *gojson.Decoder) (any, []string, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	delim, ok := tok.(gojson.Delim)
	if !ok {
		return tok, nil, nil
	}

	switch delim {
	case '{':
		obj := make(map[string]any)
		var keys, propertyOrder []string
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, nil, fmt.Errorf("unexpected object key %v", keyTok)
			}
			value, childKeys, err := decodeValue(dec)
			if err != nil {
				return nil, nil, err
			}
			if key == "properties" {
				propertyOrder = childKeys
			}
			obj[key] = value
			keys = append(keys, key)
		}
		if _, err := dec.Token(); err != nil {
			return nil, nil, err
		}
		if _, isMap := obj["properties"].(map[string]any); isMap && len(propertyOrder) > 0 {
			if _, exists := obj[PropertyOrderKey]; !exists {
				order := make([]any, len(propertyOrder))
				for idx, name := range propertyOrder {
					order[idx] = name
				}
				obj[PropertyOrderKey] = order
			}
		}
		return obj, keys, nil
	case '[':
		list := make([]any, 0)
		for dec.More() {
			value, _, err := decodeValue(dec)
			if err != nil {
				return nil, nil, err
			}
			list = append(list, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, nil, err
		}
		return list, nil, nil
	default:
		return nil, nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}
