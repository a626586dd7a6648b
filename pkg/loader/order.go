package loader

import (
	"bytes"

	gojson "github.com/goccy/go-json"
)

// keyTree records the key order of every object in a document; decoded Go
// maps drop it. Arrays are not descended into.
type keyTree struct {
	keys     []string
	children map[string]*keyTree
}

// at returns the key order of the object reached by following path.
func (t *keyTree) at(path ...string) []string {
	current := t
	for _, segment := range path {
		if current == nil {
			return nil
		}
		current = current.children[segment]
	}
	if current == nil {
		return nil
	}
	return current.keys
}

func jsonKeyOrder(raw []byte) (*keyTree, error) {
	dec := gojson.NewDecoder(bytes.NewReader(raw))
	return walkKeys(dec)
}

func walkKeys(dec *gojson.Decoder) (*keyTree, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(gojson.Delim)
	if !ok {
		return nil, nil
	}

	switch delim {
	case '{':
		tree := &keyTree{children: make(map[string]*keyTree)}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, _ := keyTok.(string)
			child, err := walkKeys(dec)
			if err != nil {
				return nil, err
			}
			tree.keys = append(tree.keys, key)
			if child != nil {
				tree.children[key] = child
			}
		}
		_, err := dec.Token()
		return tree, err
	default:
		for dec.More() {
			if _, err := walkKeys(dec); err != nil {
				return nil, err
			}
		}
		_, err := dec.Token()
		return nil, err
	}
}
