package asdl

import (
	"fmt"
	"io"
)

// Printer renders a Program in a flat, one-instruction-per-line form,
// used by the driver's --codegen debug dump (after stack assignment
// and legalisation have both run).
type Printer struct{ w io.Writer }

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer) *Printer { return &Printer{w: w} }

// PrintProgram prints prog.
func (p *Printer) PrintProgram(prog *Program) {
	fmt.Fprintf(p.w, "function %s {\n", prog.Function.Name)
	for _, instr := range prog.Function.Body {
		p.printInstr(instr)
	}
	fmt.Fprintln(p.w, "}")
}

func operandString(op Operand) string {
	switch o := op.(type) {
	case Imm:
		return fmt.Sprintf("$%d", o.Value)
	case Reg:
		return fmt.Sprintf("%%%s", o.Id)
	case Pseudo:
		return o.Name
	case Stack:
		return fmt.Sprintf("%d(%%rbp)", o.Offset)
	default:
		return fmt.Sprintf("<%T>", op)
	}
}

func (p *Printer) printInstr(instr Instr) {
	switch i := instr.(type) {
	case Mov:
		fmt.Fprintf(p.w, "  mov %s, %s\n", operandString(i.Src), operandString(i.Dst))
	case Unary:
		fmt.Fprintf(p.w, "  %s %s\n", i.Op, operandString(i.Dst))
	case Binary:
		fmt.Fprintf(p.w, "  %s %s, %s\n", i.Op, operandString(i.Src), operandString(i.Dst))
	case Cmp:
		fmt.Fprintf(p.w, "  cmp %s, %s\n", operandString(i.A), operandString(i.B))
	case Idiv:
		fmt.Fprintf(p.w, "  idiv %s\n", operandString(i.Divisor))
	case Cdq:
		fmt.Fprintln(p.w, "  cdq")
	case Jmp:
		fmt.Fprintf(p.w, "  jmp %s\n", i.Label)
	case JmpCC:
		fmt.Fprintf(p.w, "  j%s %s\n", i.Cond, i.Label)
	case SetCC:
		fmt.Fprintf(p.w, "  set%s %s\n", i.Cond, operandString(i.Dst))
	case Label:
		fmt.Fprintf(p.w, "%s:\n", i.Name)
	case AllocateStack:
		fmt.Fprintf(p.w, "  allocate_stack %d\n", i.Bytes)
	case Ret:
		fmt.Fprintln(p.w, "  ret")
	default:
		fmt.Fprintf(p.w, "  /* unknown instr %T */\n", instr)
	}
}
