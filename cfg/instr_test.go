package cfg

import "testing"

func TestInstrKindIsTerminator(t *testing.T) {
	nonTerminators := []InstrKind{InstrSet, InstrStore, InstrCall, InstrNop, InstrPrint}
	for _, k := range nonTerminators {
		if k.IsTerminator() {
			t.Errorf("%v should not be a terminator", k)
		}
	}
	terminators := []InstrKind{InstrBranch, InstrBranchCond, InstrSwitch, InstrReturn, InstrUnreachable}
	for _, k := range terminators {
		if !k.IsTerminator() {
			t.Errorf("%v should be a terminator", k)
		}
	}
}

func TestInstrDefinedSlots(t *testing.T) {
	cases := []struct {
		name  string
		instr Instr
		want  []int
	}{
		{"set", Instr{Kind: InstrSet, Res: 3}, []int{3}},
		{"call", Instr{Kind: InstrCall, ResSlots: []int{1, 2}}, []int{1, 2}},
		{"abidecode", Instr{Kind: InstrAbiDecode, ResSlots: []int{4}}, []int{4}},
		{"pushmemory", Instr{Kind: InstrPushMemory, Res: 7}, []int{7}},
		{"abiencodevector", Instr{Kind: InstrAbiEncodeVector, Res: 8}, []int{8}},
		{"externalcall-with-success", Instr{Kind: InstrExternalCall, HasSuccess: true, Success: 9}, []int{9}},
		{"externalcall-no-success", Instr{Kind: InstrExternalCall, HasSuccess: false}, nil},
		{"constructor-with-success", Instr{Kind: InstrConstructor, HasSuccess: true, Res: 1, Success: 2}, []int{1, 2}},
		{"constructor-no-success", Instr{Kind: InstrConstructor, HasSuccess: false, Res: 1}, []int{1}},
		{"store", Instr{Kind: InstrStore}, nil},
		{"branch", Instr{Kind: InstrBranch}, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := c.instr.DefinedSlots()
			if len(got) != len(c.want) {
				t.Fatalf("DefinedSlots() = %v, want %v", got, c.want)
			}
			for i := range got {
				if got[i] != c.want[i] {
					t.Errorf("DefinedSlots()[%d] = %d, want %d", i, got[i], c.want[i])
				}
			}
		})
	}
}
