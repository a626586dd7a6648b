package loader

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/kubishi/yaduha-studio/pkg/jsonschema"
)

// decodeYAML converts a YAML document into the same shape jsonschema.Decode
// produces for JSON, including recorded property order, plus its key tree.
func decodeYAML(raw []byte) (map[string]any, *keyTree, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, nil, fmt.Errorf("loader: parse yaml: %w", err)
	}
	node := &root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil, nil, errors.New("loader: yaml document is empty")
		}
		node = node.Content[0]
	}

	value, tree, err := fromYAML(node, 0)
	if err != nil {
		return nil, nil, err
	}
	payload, ok := value.(map[string]any)
	if !ok {
		return nil, nil, errors.New("loader: yaml document must be a mapping")
	}
	return payload, tree, nil
}

const maxYAMLDepth = 512

func fromYAML(node *yaml.Node, depth int) (any, *keyTree, error) {
	if depth > maxYAMLDepth {
		return nil, nil, errors.New("loader: yaml nesting too deep")
	}
	switch node.Kind {
	case yaml.AliasNode:
		return fromYAML(node.Alias, depth+1)
	case yaml.MappingNode:
		obj := make(map[string]any, len(node.Content)/2)
		tree := &keyTree{children: make(map[string]*keyTree)}
		for idx := 0; idx+1 < len(node.Content); idx += 2 {
			key := node.Content[idx].Value
			value, child, err := fromYAML(node.Content[idx+1], depth+1)
			if err != nil {
				return nil, nil, err
			}
			obj[key] = value
			tree.keys = append(tree.keys, key)
			if child != nil {
				tree.children[key] = child
			}
		}
		if props, ok := obj["properties"].(map[string]any); ok && len(props) > 0 {
			if _, exists := obj[jsonschema.PropertyOrderKey]; !exists {
				order := make([]any, 0, len(props))
				for _, name := range tree.at("properties") {
					order = append(order, name)
				}
				obj[jsonschema.PropertyOrderKey] = order
			}
		}
		return obj, tree, nil
	case yaml.SequenceNode:
		list := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			value, _, err := fromYAML(item, depth+1)
			if err != nil {
				return nil, nil, err
			}
			list = append(list, value)
		}
		return list, nil, nil
	default:
		var value any
		if err := node.Decode(&value); err != nil {
			return nil, nil, fmt.Errorf("loader: yaml line %d: %w", node.Line, err)
		}
		return value, nil, nil
	}
}
