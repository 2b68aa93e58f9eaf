package sexpr

import (
	"io"
	"strings"
)

// Write serializes a node to w in KiCad's indented style: a list whose
// items contain sublists is broken across lines, everything else stays on
// one line. Output is whitespace-normalized, never lossy.
func Write(w io.Writer, n Node) error {
	var sb strings.Builder
	writeNode(&sb, n, 0)
	sb.WriteByte('\n')
	_, err := io.WriteString(w, sb.String())
	return err
}

// Format returns the serialized indented form of a node.
func Format(n Node) string {
	var sb strings.Builder
	writeNode(&sb, n, 0)
	sb.WriteByte('\n')
	return sb.String()
}

func writeNode(sb *strings.Builder, n Node, depth int) {
	list, ok := n.(*List)
	if !ok || flat(list) {
		sb.WriteString(n.String())
		return
	}

	sb.WriteByte('(')
	broke := false
	for i, item := range list.Items {
		if child, isList := item.(*List); isList {
			sb.WriteByte('\n')
			sb.WriteString(strings.Repeat("  ", depth+1))
			writeNode(sb, child, depth+1)
			broke = true
			continue
		}
		if i > 0 {
			sb.WriteByte(' ')
		}
		writeNode(sb, item, depth+1)
	}
	if broke {
		sb.WriteByte('\n')
		sb.WriteString(strings.Repeat("  ", depth))
	}
	sb.WriteByte(')')
}

// flat reports whether a list contains only atoms and can stay on one line.
func flat(l *List) bool {
	for _, item := range l.Items {
		if !item.IsAtom() {
			return false
		}
	}
	return true
}
