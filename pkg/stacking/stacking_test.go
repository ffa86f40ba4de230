package stacking

import (
	"testing"

	"github.com/Athos-0day/AthosCcompiler/pkg/asdl"
	"github.com/Athos-0day/AthosCcompiler/pkg/lexer"
	"github.com/Athos-0day/AthosCcompiler/pkg/parser"
	"github.com/Athos-0day/AthosCcompiler/pkg/resolve"
	"github.com/Athos-0day/AthosCcompiler/pkg/tacky"
)

func mustAssign(t *testing.T, src string) (asdl.Function, int) {
	prog, err := parser.Parse(lexer.New(src))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	prog, err = resolve.Resolve(prog)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	translated := asdl.Translate(tacky.Lower(prog))
	return Assign(translated.Function)
}

// checkNoPseudo enforces §8 property 5: no Pseudo operand survives
// the pseudo→stack pass.
func checkNoPseudo(t *testing.T, fn asdl.Function) {
	check := func(op asdl.Operand) {
		if _, ok := op.(asdl.Pseudo); ok {
			t.Errorf("unexpected Pseudo operand after stacking: %#v", op)
		}
	}
	for _, instr := range fn.Body {
		switch i := instr.(type) {
		case asdl.Mov:
			check(i.Src)
			check(i.Dst)
		case asdl.Unary:
			check(i.Dst)
		case asdl.Binary:
			check(i.Src)
			check(i.Dst)
		case asdl.Cmp:
			check(i.A)
			check(i.B)
		case asdl.Idiv:
			check(i.Divisor)
		case asdl.SetCC:
			check(i.Dst)
		}
	}
}

func TestAssignNoPseudoSurvives(t *testing.T) {
	fn, _ := mustAssign(t, "int main(void) { int a = 1; int b = 2; return a + b * 3; }")
	checkNoPseudo(t, fn)
}

func TestAssignPrependsAllocateStack(t *testing.T) {
	fn, size := mustAssign(t, "int main(void) { int a = 1; return a; }")
	alloc, ok := fn.Body[0].(asdl.AllocateStack)
	if !ok {
		t.Fatalf("expected first instruction to be AllocateStack, got %T", fn.Body[0])
	}
	if alloc.Bytes != size || size <= 0 {
		t.Fatalf("expected positive frame size matching AllocateStack.Bytes, got %d vs %d", alloc.Bytes, size)
	}
}

func TestAssignSamePseudoReusesSlot(t *testing.T) {
	fn, _ := mustAssign(t, "int main(void) { int a = 1; a = a + 1; return a; }")
	offsets := map[int]bool{}
	for _, instr := range fn.Body {
		if mov, ok := instr.(asdl.Mov); ok {
			if s, ok := mov.Dst.(asdl.Stack); ok {
				offsets[s.Offset] = true
			}
		}
	}
	// Three stores (a, tmp, a) touch only two pseudos, so two slots.
	if len(offsets) != 2 {
		t.Fatalf("expected repeated stores to one pseudo to reuse its slot, got offsets %v", offsets)
	}
}

func TestAssignEmptyFunctionHasZeroFrame(t *testing.T) {
	_, size := mustAssign(t, "int main(void) { return 1; }")
	if size != 0 {
		t.Fatalf("expected zero frame size when no locals are declared, got %d", size)
	}
}
