package legalize

import (
	"testing"

	"github.com/Athos-0day/AthosCcompiler/pkg/asdl"
	"github.com/Athos-0day/AthosCcompiler/pkg/lexer"
	"github.com/Athos-0day/AthosCcompiler/pkg/parser"
	"github.com/Athos-0day/AthosCcompiler/pkg/resolve"
	"github.com/Athos-0day/AthosCcompiler/pkg/stacking"
	"github.com/Athos-0day/AthosCcompiler/pkg/tacky"
)

func mustLegalise(t *testing.T, src string) asdl.Function {
	prog, err := parser.Parse(lexer.New(src))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	prog, err = resolve.Resolve(prog)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	translated := asdl.Translate(tacky.Lower(prog))
	fn, _ := stacking.Assign(translated.Function)
	return Legalise(fn)
}

// checkOperandLegality enforces §8 property 6.
func checkOperandLegality(t *testing.T, fn asdl.Function) {
	isMemOp := func(op asdl.Operand) bool { _, ok := op.(asdl.Stack); return ok }
	isImmOp := func(op asdl.Operand) bool { _, ok := op.(asdl.Imm); return ok }
	for _, instr := range fn.Body {
		switch i := instr.(type) {
		case asdl.Mov:
			if isMemOp(i.Src) && isMemOp(i.Dst) {
				t.Errorf("illegal Mov mem,mem survived legalisation: %#v", i)
			}
		case asdl.Idiv:
			if isImmOp(i.Divisor) {
				t.Errorf("illegal Idiv Imm survived legalisation: %#v", i)
			}
		case asdl.Binary:
			switch i.Op {
			case asdl.OpAdd, asdl.OpSub:
				if isMemOp(i.Src) && isMemOp(i.Dst) {
					t.Errorf("illegal Add/Sub mem,mem survived legalisation: %#v", i)
				}
			case asdl.OpMult:
				if isMemOp(i.Dst) {
					t.Errorf("illegal Mul with mem destination survived legalisation: %#v", i)
				}
			}
		case asdl.Cmp:
			if isMemOp(i.A) && isMemOp(i.B) {
				t.Errorf("illegal Cmp mem,mem survived legalisation: %#v", i)
			}
			if isImmOp(i.B) {
				t.Errorf("illegal Cmp with immediate second operand survived legalisation: %#v", i)
			}
		}
	}
}

func TestLegaliseArithmeticExpressions(t *testing.T) {
	fn := mustLegalise(t, "int main(void) { int a=1; int b=2; int c=3; return a+b*c-(a/c); }")
	checkOperandLegality(t, fn)
}

func TestLegaliseComparisons(t *testing.T) {
	fn := mustLegalise(t, "int main(void) { int a=1; int b=2; return a < b; }")
	checkOperandLegality(t, fn)
}

func TestLegaliseControlFlow(t *testing.T) {
	fn := mustLegalise(t, "int main(void) { int i=0; while (i<10) { i=i+1; } return i; }")
	checkOperandLegality(t, fn)
}

func TestLegaliseImmImmComparison(t *testing.T) {
	// Both operands of a literal-vs-literal comparison arrive as Imm
	// straight out of translation; legalisation must not leave either
	// one as the Cmp's second operand.
	fn := mustLegalise(t, "int main(void) { return !(5+3<10) && (2==2 || 0); }")
	checkOperandLegality(t, fn)
}

func TestLegaliseMovMemMemSplitsThroughR10(t *testing.T) {
	mov := asdl.Mov{Src: asdl.Stack{Offset: -4}, Dst: asdl.Stack{Offset: -8}}
	out := legaliseInstr(mov)
	if len(out) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(out))
	}
	first, ok := out[0].(asdl.Mov)
	if !ok || first.Dst != (asdl.Reg{Id: asdl.R10}) {
		t.Fatalf("expected first half to move into R10, got %#v", out[0])
	}
	second, ok := out[1].(asdl.Mov)
	if !ok || second.Src != (asdl.Reg{Id: asdl.R10}) {
		t.Fatalf("expected second half to move R10 into dst, got %#v", out[1])
	}
}

func TestLegaliseIdivImmLoadsIntoR10(t *testing.T) {
	out := legaliseInstr(asdl.Idiv{Divisor: asdl.Imm{Value: 3}})
	if len(out) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(out))
	}
	if _, ok := out[1].(asdl.Idiv); !ok {
		t.Fatalf("expected second instruction to be Idiv, got %T", out[1])
	}
}

func TestLegaliseCmpImmImmLoadsBothIntoRegisters(t *testing.T) {
	out := legaliseInstr(asdl.Cmp{A: asdl.Imm{Value: 1}, B: asdl.Imm{Value: 2}})
	if len(out) != 3 {
		t.Fatalf("expected 3 instructions, got %d", len(out))
	}
	cmp, ok := out[2].(asdl.Cmp)
	if !ok || cmp.A != (asdl.Reg{Id: asdl.R10}) || cmp.B != (asdl.Reg{Id: asdl.R11}) {
		t.Fatalf("expected rewritten Cmp to read from R10 and R11, got %#v", out[2])
	}
	if isImm(cmp.B) {
		t.Fatalf("Cmp's second operand must never be an immediate: %#v", cmp)
	}
}
