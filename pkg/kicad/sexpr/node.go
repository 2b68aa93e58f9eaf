// Package sexpr provides a streaming S-expression parser and writer for
// KiCad board files. Unlike general-purpose sexp libraries it distinguishes
// quoted strings from bare symbols, so nodes the codec does not interpret
// can be re-emitted exactly as they were read.
package sexpr

import "strings"

// Node represents an S-expression node: either an Atom or a List.
type Node interface {
	// IsAtom returns true for atoms (symbols and quoted strings).
	IsAtom() bool

	// String returns the serialized compact form.
	String() string
}

// Atom is an atomic token. Quoted records whether it was written as a
// quoted string in the source.
type Atom struct {
	Value  string
	Quoted bool
}

func (a *Atom) IsAtom() bool { return true }

func (a *Atom) String() string {
	if a.Quoted {
		return quote(a.Value)
	}
	return a.Value
}

// List is a parenthesized sequence of nodes.
type List struct {
	Items []Node
}

func (l *List) IsAtom() bool { return false }

func (l *List) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, item := range l.Items {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(item.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Name returns the leading symbol of the list, or "" when the list is
// empty or starts with a sublist.
func (l *List) Name() string {
	if len(l.Items) == 0 {
		return ""
	}
	if a, ok := l.Items[0].(*Atom); ok {
		return a.Value
	}
	return ""
}

// Len returns the number of items in the list.
func (l *List) Len() int { return len(l.Items) }

// Get returns the item at the given index, or nil when out of bounds.
func (l *List) Get(index int) Node {
	if index < 0 || index >= len(l.Items) {
		return nil
	}
	return l.Items[index]
}

// Sym builds an unquoted atom.
func Sym(v string) *Atom { return &Atom{Value: v} }

// Str builds a quoted atom.
func Str(v string) *Atom { return &Atom{Value: v, Quoted: true} }

// NewList builds a list from the given items.
func NewList(items ...Node) *List { return &List{Items: items} }

func quote(v string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range v {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
