package app

import (
	"github.com/jhaenchen/procrastitask/internal/dynamic"
	"github.com/jhaenchen/procrastitask/internal/model"
)

// BumpStress shifts a task's effective stress by delta without touching the
// base value. The adjustment lives in a StaticOffset leaf so it survives
// serialization and can be cleared wholesale with ResetBumps.
func BumpStress(t *model.Task, delta float64) {
	if t.StressDynamic == nil {
		t.StressDynamic = &dynamic.StaticOffset{Offset: delta}
		return
	}
	if off := findStaticOffset(t.StressDynamic); off != nil {
		off.Offset += delta
		return
	}
	// A combined expression serializes flat, so the offset must join the
	// existing chain rather than wrap it; wrapping would change how a
	// guarded add reads back after a save/load cycle.
	if comb, ok := t.StressDynamic.(*dynamic.Combined); ok {
		comb.Children = append(comb.Children, &dynamic.StaticOffset{Offset: delta})
		comb.Operators = append(comb.Operators, dynamic.OpAdd)
		return
	}
	t.StressDynamic = &dynamic.Combined{
		Children:  []dynamic.Dynamic{t.StressDynamic, &dynamic.StaticOffset{Offset: delta}},
		Operators: []dynamic.Op{dynamic.OpAdd},
	}
}

// ResetBumps clears every accumulated stress adjustment on the task.
func ResetBumps(t *model.Task) {
	if t.StressDynamic != nil {
		dynamic.ZeroOutStaticOffsets(t.StressDynamic)
	}
}

func findStaticOffset(d dynamic.Dynamic) *dynamic.StaticOffset {
	switch v := d.(type) {
	case *dynamic.StaticOffset:
		return v
	case *dynamic.Combined:
		for _, child := range v.Children {
			if off := findStaticOffset(child); off != nil {
				return off
			}
		}
	}
	return nil
}
