// Package stacking resolves ASDL pseudo-registers to stack slots,
// per §4.6.
package stacking

import (
	"fmt"

	"github.com/Athos-0day/AthosCcompiler/pkg/asdl"
)

// assigner tracks the stack offset handed out to each pseudo name and
// the running offset for the next one.
type assigner struct {
	offsets map[string]int
	next    int
}

// Assign rewrites every Pseudo operand in fn to a Stack operand and
// prepends an AllocateStack covering the frame it consumed. It
// returns the frame size in bytes.
func Assign(fn asdl.Function) (asdl.Function, int) {
	a := &assigner{offsets: make(map[string]int), next: -4}
	body := make([]asdl.Instr, 0, len(fn.Body)+1)
	for _, instr := range fn.Body {
		body = append(body, a.rewriteInstr(instr))
	}
	size := 4 * len(a.offsets)
	frame := asdl.AllocateStack{Bytes: size}
	fn.Body = append([]asdl.Instr{frame}, body...)
	return fn, size
}

func (a *assigner) slot(name string) int {
	if off, ok := a.offsets[name]; ok {
		return off
	}
	off := a.next
	a.offsets[name] = off
	a.next -= 4
	return off
}

func (a *assigner) rewriteOperand(op asdl.Operand) asdl.Operand {
	if p, ok := op.(asdl.Pseudo); ok {
		return asdl.Stack{Offset: a.slot(p.Name)}
	}
	return op
}

func (a *assigner) rewriteInstr(instr asdl.Instr) asdl.Instr {
	switch i := instr.(type) {
	case asdl.Mov:
		return asdl.Mov{Src: a.rewriteOperand(i.Src), Dst: a.rewriteOperand(i.Dst)}
	case asdl.Unary:
		return asdl.Unary{Op: i.Op, Dst: a.rewriteOperand(i.Dst)}
	case asdl.Binary:
		return asdl.Binary{Op: i.Op, Src: a.rewriteOperand(i.Src), Dst: a.rewriteOperand(i.Dst)}
	case asdl.Cmp:
		return asdl.Cmp{A: a.rewriteOperand(i.A), B: a.rewriteOperand(i.B)}
	case asdl.Idiv:
		return asdl.Idiv{Divisor: a.rewriteOperand(i.Divisor)}
	case asdl.SetCC:
		return asdl.SetCC{Cond: i.Cond, Dst: a.rewriteOperand(i.Dst)}
	case asdl.Cdq, asdl.Jmp, asdl.JmpCC, asdl.Label, asdl.AllocateStack, asdl.Ret:
		return instr
	default:
		panic(fmt.Sprintf("stacking: unhandled instruction %T", instr))
	}
}
