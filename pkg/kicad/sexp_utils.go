package kicad

import (
	"fmt"
	"strconv"

	"github.com/sparkbench/boardcore/pkg/kicad/sexpr"
)

// S-expression navigation helpers

// findNode searches for a child list keyed by the given symbol.
// Example: findNode(node, "at") finds (at 100 50).
func findNode(n sexpr.Node, key string) (*sexpr.List, bool) {
	list, ok := n.(*sexpr.List)
	if !ok {
		return nil, false
	}
	for _, item := range list.Items {
		if sub, ok := item.(*sexpr.List); ok && sub.Name() == key {
			return sub, true
		}
	}
	return nil, false
}

// findAllNodes finds all child lists keyed by the given symbol.
func findAllNodes(n sexpr.Node, key string) []*sexpr.List {
	list, ok := n.(*sexpr.List)
	if !ok {
		return nil
	}
	var results []*sexpr.List
	for _, item := range list.Items {
		if sub, ok := item.(*sexpr.List); ok && sub.Name() == key {
			results = append(results, sub)
		}
	}
	return results
}

// Typed value extraction helpers

// getString extracts the atom value at the given index in a list.
// Index 0 is the key, 1 is the first value, and so on.
func getString(l *sexpr.List, index int) (string, error) {
	item := l.Get(index)
	if item == nil {
		return "", fmt.Errorf("index %d out of bounds (length %d)", index, l.Len())
	}
	atom, ok := item.(*sexpr.Atom)
	if !ok {
		return "", fmt.Errorf("expected atom at index %d, got list", index)
	}
	return atom.Value, nil
}

// getFloat extracts a float64 value at the given index.
func getFloat(l *sexpr.List, index int) (float64, error) {
	str, err := getString(l, index)
	if err != nil {
		return 0, err
	}
	val, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse float %q: %w", str, err)
	}
	return val, nil
}

// getInt extracts an int value at the given index.
func getInt(l *sexpr.List, index int) (int, error) {
	str, err := getString(l, index)
	if err != nil {
		return 0, err
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("failed to parse int %q: %w", str, err)
	}
	return val, nil
}

// getChildFloat extracts the float value of a (key value) child node,
// returning def when the child is absent or malformed.
func getChildFloat(n sexpr.Node, key string, def float64) float64 {
	node, ok := findNode(n, key)
	if !ok {
		return def
	}
	v, err := getFloat(node, 1)
	if err != nil {
		return def
	}
	return v
}

// getChildString extracts the string value of a (key "value") child node.
func getChildString(n sexpr.Node, key string) (string, bool) {
	node, ok := findNode(n, key)
	if !ok {
		return "", false
	}
	v, err := getString(node, 1)
	if err != nil {
		return "", false
	}
	return v, true
}
