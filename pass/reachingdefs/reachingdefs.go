// Package reachingdefs computes, for each basic block of a CFG, the set of
// definition sites that may reach its entry, and for each instruction a
// gen/kill transfer list (spec.md §4.1).
//
// This is a pure, forward, must-definitions (union) dataflow analysis: the
// lattice is the powerset of a finite set of definition sites ordered by
// set inclusion, transfers are monotone, and a worklist over blocks
// converges to the unique fixpoint regardless of visitation order
// (spec.md §9 "Dataflow direction").
package reachingdefs

import "solen.dev/compiler/cfg"

// Run computes reaching definitions for every block of c, populating
// Block.Transfers and Block.Defs in place. It never fails — spec.md §4.1
// "Failure: This pass cannot fail; it reports no diagnostics."
func Run(c *cfg.CFG) {
	for b := range c.Blocks {
		c.Blocks[b].Transfers = instrTransfers(b, &c.Blocks[b])
		if c.Blocks[b].Defs == nil {
			c.Blocks[b].Defs = make(cfg.VarDefs)
		}
	}

	worklist := map[int]struct{}{0: {}}
	visited := make(map[int]bool, len(c.Blocks))
	for len(worklist) > 0 {
		var blockNo int
		for b := range worklist {
			blockNo = b
			break
		}
		delete(worklist, blockNo)
		visited[blockNo] = true

		vars := c.Blocks[blockNo].Defs.Clone()
		for _, transfers := range c.Blocks[blockNo].Transfers {
			ApplyTransfers(transfers, vars)
		}

		for _, succ := range c.Blocks[blockNo].Successors() {
			merged := c.Blocks[succ].Defs
			if merged == nil {
				merged = make(cfg.VarDefs)
			}
			grew := false
			for slot, defs := range vars {
				existing, ok := merged[slot]
				if !ok {
					existing = make(cfg.DefSet, len(defs))
					merged[slot] = existing
				}
				for d := range defs {
					if _, ok := existing[d]; !ok {
						existing[d] = struct{}{}
						grew = true
					}
				}
			}
			c.Blocks[succ].Defs = merged
			if grew || !visited[succ] {
				worklist[succ] = struct{}{}
			}
		}
	}
}

// instrTransfers computes the per-instruction gen/kill list for one block,
// per the "Transfer generation" rule in spec.md §4.1: a Kill for every slot
// the instruction defines, followed by a Gen for that same slot at this
// definition site.
func instrTransfers(blockNo int, b *cfg.Block) [][]cfg.Transfer {
	out := make([][]cfg.Transfer, len(b.Instrs))

	for instrNo := range b.Instrs {
		def := cfg.Def{Block: blockNo, Instr: instrNo}
		slots := b.Instrs[instrNo].DefinedSlots()

		transfers := make([]cfg.Transfer, 0, 2*len(slots))
		for _, slot := range slots {
			transfers = append(transfers, cfg.Transfer{Kind: cfg.TransferKill, Slot: slot})
		}
		for _, slot := range slots {
			transfers = append(transfers, cfg.Transfer{Kind: cfg.TransferGen, Slot: slot, Def: def})
		}
		out[instrNo] = transfers
	}

	return out
}

// ApplyTransfers applies one instruction's transfer list to vars in place,
// in order. Shared by this package's fixpoint loop and by the extended
// analyses in pass/vecslice and pass/undefvar, which build their own
// richer per-slot state on top of the same Kill/Gen vocabulary (plus Copy
// and Mod, which this base analysis never emits and therefore never sees).
func ApplyTransfers(transfers []cfg.Transfer, vars cfg.VarDefs) {
	for _, t := range transfers {
		switch t.Kind {
		case cfg.TransferKill:
			delete(vars, t.Slot)
		case cfg.TransferGen:
			defs, ok := vars[t.Slot]
			if !ok {
				defs = make(cfg.DefSet, 1)
				vars[t.Slot] = defs
			}
			defs[t.Def] = struct{}{}
		}
	}
}
