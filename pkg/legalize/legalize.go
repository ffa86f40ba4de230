// Package legalize rewrites ASDL instructions that violate x86-64's
// operand constraints, per §4.7.
package legalize

import "github.com/Athos-0day/AthosCcompiler/pkg/asdl"

func isMem(op asdl.Operand) bool {
	_, ok := op.(asdl.Stack)
	return ok
}

func isImm(op asdl.Operand) bool {
	_, ok := op.(asdl.Imm)
	return ok
}

// Legalise walks fn's instruction list once and returns a new list in
// which every instruction satisfies the x86 operand rules.
func Legalise(fn asdl.Function) asdl.Function {
	body := make([]asdl.Instr, 0, len(fn.Body))
	for _, instr := range fn.Body {
		body = append(body, legaliseInstr(instr)...)
	}
	fn.Body = body
	return fn
}

func legaliseInstr(instr asdl.Instr) []asdl.Instr {
	switch i := instr.(type) {
	case asdl.Mov:
		return legaliseMov(i)
	case asdl.Idiv:
		return legaliseIdiv(i)
	case asdl.Binary:
		return legaliseBinary(i)
	case asdl.Cmp:
		return legaliseCmp(i)
	default:
		return []asdl.Instr{instr}
	}
}

// Rule 1: Mov mem, mem is illegal.
func legaliseMov(i asdl.Mov) []asdl.Instr {
	if isMem(i.Src) && isMem(i.Dst) {
		r10 := asdl.Reg{Id: asdl.R10}
		return []asdl.Instr{
			asdl.Mov{Src: i.Src, Dst: r10},
			asdl.Mov{Src: r10, Dst: i.Dst},
		}
	}
	return []asdl.Instr{i}
}

// Rule 2: Idiv Imm(n) is illegal.
func legaliseIdiv(i asdl.Idiv) []asdl.Instr {
	if isImm(i.Divisor) {
		r10 := asdl.Reg{Id: asdl.R10}
		return []asdl.Instr{
			asdl.Mov{Src: i.Divisor, Dst: r10},
			asdl.Idiv{Divisor: r10},
		}
	}
	return []asdl.Instr{i}
}

// Rules 3-5: Add/Sub mem, mem; Mul Imm, mem; Mul mem, mem.
func legaliseBinary(i asdl.Binary) []asdl.Instr {
	switch i.Op {
	case asdl.OpAdd, asdl.OpSub:
		if isMem(i.Src) && isMem(i.Dst) {
			r10 := asdl.Reg{Id: asdl.R10}
			return []asdl.Instr{
				asdl.Mov{Src: i.Src, Dst: r10},
				asdl.Binary{Op: i.Op, Src: r10, Dst: i.Dst},
			}
		}
	case asdl.OpMult:
		switch {
		case isImm(i.Src) && isMem(i.Dst):
			r11 := asdl.Reg{Id: asdl.R11}
			return []asdl.Instr{
				asdl.Mov{Src: i.Dst, Dst: r11},
				asdl.Binary{Op: asdl.OpMult, Src: i.Src, Dst: r11},
				asdl.Mov{Src: r11, Dst: i.Dst},
			}
		case isMem(i.Src) && isMem(i.Dst):
			r10 := asdl.Reg{Id: asdl.R10}
			r11 := asdl.Reg{Id: asdl.R11}
			return []asdl.Instr{
				asdl.Mov{Src: i.Dst, Dst: r11},
				asdl.Mov{Src: i.Src, Dst: r10},
				asdl.Binary{Op: asdl.OpMult, Src: r10, Dst: r11},
				asdl.Mov{Src: r11, Dst: i.Dst},
			}
		}
	}
	return []asdl.Instr{i}
}

// Rule 6: Cmp disallows two memory operands, an immediate as the
// second operand, or two immediates.
func legaliseCmp(i asdl.Cmp) []asdl.Instr {
	r10 := asdl.Reg{Id: asdl.R10}
	r11 := asdl.Reg{Id: asdl.R11}
	switch {
	case isMem(i.A) && isMem(i.B):
		return []asdl.Instr{
			asdl.Mov{Src: i.A, Dst: r10},
			asdl.Cmp{A: r10, B: i.B},
		}
	case isMem(i.A) && isImm(i.B):
		return []asdl.Instr{
			asdl.Mov{Src: i.B, Dst: r11},
			asdl.Cmp{A: i.A, B: r11},
		}
	case isImm(i.A) && isMem(i.B):
		return []asdl.Instr{
			asdl.Mov{Src: i.A, Dst: r11},
			asdl.Cmp{A: r11, B: i.B},
		}
	case isImm(i.A) && isImm(i.B):
		return []asdl.Instr{
			asdl.Mov{Src: i.A, Dst: r10},
			asdl.Mov{Src: i.B, Dst: r11},
			asdl.Cmp{A: r10, B: r11},
		}
	}
	return []asdl.Instr{i}
}
