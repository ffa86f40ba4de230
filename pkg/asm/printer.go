// Package asm renders a legalised ASDL program as AT&T-syntax x86-64
// assembly text, per §4.8.
package asm

import (
	"fmt"
	"io"

	"github.com/Athos-0day/AthosCcompiler/pkg/asdl"
)

// Printer writes AT&T assembly text to w.
type Printer struct{ w io.Writer }

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer) *Printer { return &Printer{w: w} }

// PrintProgram emits prog's single function, guaranteeing the result
// ends in a ret even if the source body fell through.
func (p *Printer) PrintProgram(prog *asdl.Program) {
	fn := prog.Function
	name := "_" + fn.Name

	fmt.Fprintf(p.w, ".globl %s\n", name)
	fmt.Fprintf(p.w, "%s:\n", name)
	fmt.Fprintln(p.w, "  pushq %rbp")
	fmt.Fprintln(p.w, "  movq %rsp, %rbp")

	body := fn.Body
	if !endsInRet(body) {
		body = append(append([]asdl.Instr{}, body...),
			asdl.Mov{Src: asdl.Imm{Value: 0}, Dst: asdl.Reg{Id: asdl.AX}},
			asdl.Ret{},
		)
	}
	for _, instr := range body {
		p.printInstr(instr)
	}
}

func endsInRet(body []asdl.Instr) bool {
	if len(body) == 0 {
		return false
	}
	_, ok := body[len(body)-1].(asdl.Ret)
	return ok
}

func regName(id asdl.RegId) string {
	switch id {
	case asdl.AX:
		return "%eax"
	case asdl.DX:
		return "%edx"
	case asdl.R10:
		return "%r10d"
	case asdl.R11:
		return "%r11d"
	}
	return "%?"
}

func operandString(op asdl.Operand) string {
	switch o := op.(type) {
	case asdl.Imm:
		return fmt.Sprintf("$%d", o.Value)
	case asdl.Reg:
		return regName(o.Id)
	case asdl.Stack:
		return fmt.Sprintf("%d(%%rbp)", o.Offset)
	case asdl.Pseudo:
		return o.Name // unreachable once stacking has run
	default:
		return fmt.Sprintf("<%T>", op)
	}
}

func jumpLabel(name string) string { return "L" + name }

func (p *Printer) printInstr(instr asdl.Instr) {
	switch i := instr.(type) {
	case asdl.Mov:
		fmt.Fprintf(p.w, "  movl %s, %s\n", operandString(i.Src), operandString(i.Dst))
	case asdl.Unary:
		fmt.Fprintf(p.w, "  %sl %s\n", i.Op, operandString(i.Dst))
	case asdl.Binary:
		mnemonic := i.Op.String()
		if i.Op == asdl.OpMult {
			mnemonic = "imul"
		}
		fmt.Fprintf(p.w, "  %sl %s, %s\n", mnemonic, operandString(i.Src), operandString(i.Dst))
	case asdl.Cmp:
		fmt.Fprintf(p.w, "  cmpl %s, %s\n", operandString(i.A), operandString(i.B))
	case asdl.Idiv:
		fmt.Fprintf(p.w, "  idivl %s\n", operandString(i.Divisor))
	case asdl.Cdq:
		fmt.Fprintln(p.w, "  cdq")
	case asdl.Jmp:
		fmt.Fprintf(p.w, "  jmp %s\n", jumpLabel(i.Label))
	case asdl.JmpCC:
		fmt.Fprintf(p.w, "  j%s %s\n", i.Cond, jumpLabel(i.Label))
	case asdl.SetCC:
		fmt.Fprintf(p.w, "  set%s %s\n", i.Cond, operandString(i.Dst))
	case asdl.Label:
		fmt.Fprintf(p.w, "%s:\n", jumpLabel(i.Name))
	case asdl.AllocateStack:
		fmt.Fprintf(p.w, "  subq $%d, %%rsp\n", i.Bytes)
	case asdl.Ret:
		fmt.Fprintln(p.w, "  movq %rbp, %rsp")
		fmt.Fprintln(p.w, "  popq %rbp")
		fmt.Fprintln(p.w, "  ret")
	default:
		fmt.Fprintf(p.w, "  /* unknown instr %T */\n", instr)
	}
}
