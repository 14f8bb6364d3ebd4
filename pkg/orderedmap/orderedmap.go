package orderedmap

import (
	"fmt"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// OrderedMap is a map that remembers the order keys were first inserted in.
type OrderedMap[K constraints.Ordered, V any] struct {
	s []K
	m map[K]V
}

func New[K constraints.Ordered, V any]() OrderedMap[K, V] {
	return OrderedMap[K, V]{
		s: make([]K, 0),
		m: make(map[K]V),
	}
}

func (om *OrderedMap[K, V]) Len() int {
	return len(om.s)
}

func (om *OrderedMap[K, V]) Set(key K, value V) {
	if om.m == nil {
		om.m = make(map[K]V)
	}
	if _, ok := om.m[key]; !ok {
		om.s = append(om.s, key)
	}
	om.m[key] = value
}

func (om *OrderedMap[K, V]) Get(key K) V {
	value, ok := om.m[key]
	if !ok {
		var zero V
		return zero
	}
	return value
}

func (om *OrderedMap[K, V]) Exists(key K) bool {
	_, ok := om.m[key]
	return ok
}

func (om *OrderedMap[K, V]) Keys() []K {
	return slices.Clone(om.s)
}

// Range calls fn for every entry in insertion order and stops at the first error.
func (om *OrderedMap[K, V]) Range(fn func(key K, value V) error) error {
	for _, key := range om.s {
		if err := fn(key, om.m[key]); err != nil {
			return err
		}
	}
	return nil
}

// UnmarshalYAML decodes a mapping node, keeping document order. A key that
// appears twice is an error.
func (om *OrderedMap[K, V]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("yaml: line %d: cannot unmarshal %s into an ordered map", node.Line, node.ShortTag())
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		var k K
		if err := keyNode.Decode(&k); err != nil {
			return err
		}
		if om.Exists(k) {
			return fmt.Errorf("yaml: line %d: duplicate key %v", keyNode.Line, k)
		}

		valueNode := node.Content[i+1]
		var v V
		if err := valueNode.Decode(&v); err != nil {
			return err
		}

		om.Set(k, v)
	}
	return nil
}
