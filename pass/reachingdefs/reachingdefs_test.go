package reachingdefs

import (
	"testing"

	"solen.dev/compiler/cfg"
)

func TestRunStraightLine(t *testing.T) {
	c := &cfg.CFG{Blocks: []cfg.Block{
		{Instrs: []cfg.Instr{
			{Kind: cfg.InstrSet, Res: 1},
			{Kind: cfg.InstrBranch, BranchBlock: 1},
		}},
		{Instrs: []cfg.Instr{
			{Kind: cfg.InstrReturn},
		}},
	}}

	Run(c)

	defs, ok := c.Blocks[1].Defs[1]
	if !ok {
		t.Fatal("slot 1 should reach block 1's entry")
	}
	if _, ok := defs[cfg.Def{Block: 0, Instr: 0}]; !ok || len(defs) != 1 {
		t.Errorf("block 1's reaching def for slot 1 = %v, want exactly {0,0}", defs)
	}
}

func TestRunMergesAtJoinPoint(t *testing.T) {
	c := &cfg.CFG{Blocks: []cfg.Block{
		{Instrs: []cfg.Instr{
			{Kind: cfg.InstrBranchCond, TrueBlock: 1, FalseBlock: 2},
		}},
		{Instrs: []cfg.Instr{
			{Kind: cfg.InstrSet, Res: 1},
			{Kind: cfg.InstrBranch, BranchBlock: 3},
		}},
		{Instrs: []cfg.Instr{
			{Kind: cfg.InstrSet, Res: 1},
			{Kind: cfg.InstrBranch, BranchBlock: 3},
		}},
		{Instrs: []cfg.Instr{
			{Kind: cfg.InstrReturn},
		}},
	}}

	Run(c)

	defs := c.Blocks[3].Defs[1]
	if len(defs) != 2 {
		t.Fatalf("block 3 should see both branches' definitions of slot 1, got %v", defs)
	}
	if _, ok := defs[cfg.Def{Block: 1, Instr: 0}]; !ok {
		t.Error("missing definition from block 1")
	}
	if _, ok := defs[cfg.Def{Block: 2, Instr: 0}]; !ok {
		t.Error("missing definition from block 2")
	}
}

func TestRunKillsPriorDefinition(t *testing.T) {
	c := &cfg.CFG{Blocks: []cfg.Block{
		{Instrs: []cfg.Instr{
			{Kind: cfg.InstrSet, Res: 1},
			{Kind: cfg.InstrSet, Res: 1},
			{Kind: cfg.InstrReturn},
		}},
	}}

	Run(c)

	transfers := c.Blocks[0].Transfers[1]
	if len(transfers) != 2 {
		t.Fatalf("second Set should kill-then-gen slot 1, got %v", transfers)
	}
	if transfers[0].Kind != cfg.TransferKill || transfers[1].Kind != cfg.TransferGen {
		t.Errorf("transfer order = %v, want [Kill, Gen]", transfers)
	}
}
