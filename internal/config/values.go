package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/ginfactory/internal/factory"
	"github.com/eugenenazirov/ginfactory/internal/ginfile"
)

const tupleTag = "!tuple"

// decodeOverrides reads a YAML mapping into overrides, keeping document order.
func decodeOverrides(node *yaml.Node) ([]factory.Override, error) {
	pairs, err := mappingPairs(node)
	if err != nil {
		return nil, err
	}

	out := make([]factory.Override, 0, len(pairs))
	for _, p := range pairs {
		value, err := decodeValue(p[1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p[0].Value, err)
		}
		out = upsertOverride(out, factory.Override{Key: p[0].Value, Value: value})
	}
	return out, nil
}

// decodeAxes reads a YAML mapping of key -> list of candidates.
func decodeAxes(node *yaml.Node) ([]factory.Axis, error) {
	pairs, err := mappingPairs(node)
	if err != nil {
		return nil, err
	}

	out := make([]factory.Axis, 0, len(pairs))
	for _, p := range pairs {
		list := resolveAlias(p[1])
		if list.Kind != yaml.SequenceNode || list.Tag == tupleTag {
			return nil, fmt.Errorf("%s: line %d: varying values must be a list", p[0].Value, p[1].Line)
		}
		values := make([]any, 0, len(list.Content))
		for _, item := range list.Content {
			v, err := decodeValue(item)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", p[0].Value, err)
			}
			values = append(values, v)
		}
		out = upsertAxis(out, factory.Axis{Key: p[0].Value, Values: values})
	}
	return out, nil
}

func mappingPairs(node *yaml.Node) ([][2]*yaml.Node, error) {
	node = resolveAlias(node)
	if node == nil || node.Kind == 0 {
		return nil, nil
	}
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping", node.Line)
	}

	pairs := make([][2]*yaml.Node, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		pairs = append(pairs, [2]*yaml.Node{node.Content[i], node.Content[i+1]})
	}
	return pairs, nil
}

// decodeValue converts a YAML node into a value understood by
// ginfile.FormatValue. Sequences tagged !tuple become ginfile.Tuple.
func decodeValue(node *yaml.Node) (any, error) {
	node = resolveAlias(node)
	switch node.Kind {
	case yaml.ScalarNode:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return v, nil
	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			v, err := decodeValue(child)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		if node.Tag == tupleTag {
			return ginfile.Tuple(items), nil
		}
		return items, nil
	case yaml.MappingNode:
		pairs, err := mappingPairs(node)
		if err != nil {
			return nil, err
		}
		dict := make(ginfile.Dict, 0, len(pairs))
		for _, p := range pairs {
			key, err := decodeValue(p[0])
			if err != nil {
				return nil, err
			}
			value, err := decodeValue(p[1])
			if err != nil {
				return nil, err
			}
			dict = append(dict, ginfile.DictItem{Key: key, Value: value})
		}
		return dict, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported value; use a scalar, a list, a mapping or a !tuple list", node.Line)
	}
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	return node
}
