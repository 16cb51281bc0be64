package ruleset

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Table is a string-to-string mapping that preserves YAML document order.
// Rule tables are iterated in database order when producing report lines,
// so plain Go maps cannot be used here.
type Table struct {
	keys   []string
	values map[string]string
}

// NewTable builds a Table from ordered key/value pairs. Intended for tests
// and programmatic rule construction.
func NewTable(pairs ...[2]string) *Table {
	t := &Table{values: make(map[string]string, len(pairs))}
	for _, p := range pairs {
		t.Set(p[0], p[1])
	}
	return t
}

// UnmarshalYAML decodes a YAML mapping node, retaining key order.
func (t *Table) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping, got %s", node.Line, nodeKind(node))
	}
	t.keys = make([]string, 0, len(node.Content)/2)
	t.values = make(map[string]string, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var key, value string
		if err := node.Content[i].Decode(&key); err != nil {
			return fmt.Errorf("line %d: decoding key: %w", node.Content[i].Line, err)
		}
		if err := node.Content[i+1].Decode(&value); err != nil {
			return fmt.Errorf("line %d: decoding value for %q: %w", node.Content[i+1].Line, key, err)
		}
		t.Set(key, value)
	}
	return nil
}

// Set inserts or replaces a key. A new key is appended to the iteration
// order; an existing key keeps its position.
func (t *Table) Set(key, value string) {
	if t.values == nil {
		t.values = make(map[string]string)
	}
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
}

// Get returns the value for key, or "" when absent.
func (t *Table) Get(key string) string {
	if t == nil {
		return ""
	}
	return t.values[key]
}

// Keys returns the keys in document order. The returned slice must not be
// modified.
func (t *Table) Keys() []string {
	if t == nil {
		return nil
	}
	return t.keys
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// listTable is the ordered mapping used for the stack suspect table,
// where each key carries a list of signal strings.
type listTable struct {
	keys   []string
	values map[string][]string
}

func (t *listTable) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping, got %s", node.Line, nodeKind(node))
	}
	t.keys = make([]string, 0, len(node.Content)/2)
	t.values = make(map[string][]string, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var key string
		var value []string
		if err := node.Content[i].Decode(&key); err != nil {
			return fmt.Errorf("line %d: decoding key: %w", node.Content[i].Line, err)
		}
		if err := node.Content[i+1].Decode(&value); err != nil {
			return fmt.Errorf("line %d: decoding signals for %q: %w", node.Content[i+1].Line, key, err)
		}
		if _, ok := t.values[key]; !ok {
			t.keys = append(t.keys, key)
		}
		t.values[key] = value
	}
	return nil
}

func nodeKind(node *yaml.Node) string {
	switch node.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown node"
	}
}
