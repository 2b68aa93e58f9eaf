package history

import "github.com/sparkbench/boardcore/pkg/board"

// applyDelete removes every item whose id is listed, capturing the exact
// removed sub-values (with their slice positions) in the RestoreItems
// inverse. Nets left unreferenced by the removal are pruned and captured
// too. No id matching anything makes the command not applicable.
func applyDelete(cmd DeleteItems, b *board.Board) (*board.Board, Command, bool) {
	// Hand-built boards may carry blank UUIDs; an empty id must never
	// match them.
	ids := make(map[string]bool, len(cmd.IDs))
	for _, id := range cmd.IDs {
		if id != "" {
			ids[id] = true
		}
	}

	restore := RestoreItems{}
	matched := false
	nb := b.Clone()

	kept := nb.Footprints[:0:0]
	for i, fp := range nb.Footprints {
		if ids[fp.UUID] || ids[fp.Ref] {
			restore.Footprints = append(restore.Footprints, IndexedFootprint{Index: i, Footprint: fp})
			matched = true
			continue
		}
		kept = append(kept, fp)
	}
	nb.Footprints = kept

	keptTraces := nb.Traces[:0:0]
	for ti, tr := range nb.Traces {
		keptSegs := tr.Segments[:0:0]
		var removed []IndexedSegment
		for si, s := range tr.Segments {
			if ids[s.UUID] {
				removed = append(removed, IndexedSegment{TraceIndex: ti, SegIndex: si, Segment: s})
				matched = true
				continue
			}
			keptSegs = append(keptSegs, s)
		}
		if len(keptSegs) == 0 && len(removed) > 0 {
			// The whole trace went away; capture it intact instead of
			// segment by segment.
			restore.Traces = append(restore.Traces, IndexedTrace{Index: ti, Trace: tr})
			continue
		}
		restore.Segments = append(restore.Segments, removed...)
		tr.Segments = keptSegs
		keptTraces = append(keptTraces, tr)
	}
	nb.Traces = keptTraces

	keptVias := nb.Vias[:0:0]
	for i, v := range nb.Vias {
		if ids[v.UUID] {
			restore.Vias = append(restore.Vias, IndexedVia{Index: i, Via: v})
			matched = true
			continue
		}
		keptVias = append(keptVias, v)
	}
	nb.Vias = keptVias

	if !matched {
		return b, nil, false
	}

	nb, restore.Nets = nb.PruneNets()
	return nb, restore, true
}

// applyRestore re-inserts previously deleted items at their original
// positions. It is only applicable against the board version the delete
// produced; diverged indices make it a no-op.
func applyRestore(cmd RestoreItems, b *board.Board) (*board.Board, Command, bool) {
	nb := b.Clone()

	for _, n := range cmd.Nets {
		if n.Index > len(nb.Nets) {
			return b, nil, false
		}
		nb.Nets = insertAt(nb.Nets, n.Index, n.Net)
	}
	for _, t := range cmd.Traces {
		if t.Index > len(nb.Traces) {
			return b, nil, false
		}
		nb.Traces = insertAt(nb.Traces, t.Index, t.Trace.Clone())
	}
	for _, s := range cmd.Segments {
		if s.TraceIndex >= len(nb.Traces) {
			return b, nil, false
		}
		tr := &nb.Traces[s.TraceIndex]
		if s.SegIndex > len(tr.Segments) {
			return b, nil, false
		}
		tr.Segments = insertAt(tr.Segments, s.SegIndex, s.Segment)
	}
	for _, f := range cmd.Footprints {
		if f.Index > len(nb.Footprints) {
			return b, nil, false
		}
		nb.Footprints = insertAt(nb.Footprints, f.Index, f.Footprint.Clone())
	}
	for _, v := range cmd.Vias {
		if v.Index > len(nb.Vias) {
			return b, nil, false
		}
		nb.Vias = insertAt(nb.Vias, v.Index, v.Via)
	}

	return nb, DeleteItems{IDs: restoredIDs(cmd)}, true
}

func restoredIDs(cmd RestoreItems) []string {
	var ids []string
	for _, f := range cmd.Footprints {
		ids = append(ids, f.Footprint.UUID)
	}
	for _, t := range cmd.Traces {
		for _, s := range t.Trace.Segments {
			ids = append(ids, s.UUID)
		}
	}
	for _, s := range cmd.Segments {
		ids = append(ids, s.Segment.UUID)
	}
	for _, v := range cmd.Vias {
		ids = append(ids, v.Via.UUID)
	}
	return ids
}

func insertAt[T any](s []T, i int, v T) []T {
	s = append(s, v)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}
