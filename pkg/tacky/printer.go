package tacky

import (
	"fmt"
	"io"
)

// Printer renders a Program in a flat, one-instruction-per-line form.
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

func valString(v Val) string {
	switch val := v.(type) {
	case Const:
		return fmt.Sprintf("%d", val.Value)
	case Var:
		return val.Name
	default:
		return fmt.Sprintf("<%T>", v)
	}
}

func (p *Printer) printInstr(instr Instr) {
	switch i := instr.(type) {
	case Return:
		fmt.Fprintf(p.w, "  return %s\n", valString(i.Val))
	case Unary:
		fmt.Fprintf(p.w, "  %s = %s %s\n", i.Dst.Name, i.Op, valString(i.Src))
	case Binary:
		fmt.Fprintf(p.w, "  %s = %s %s %s\n", i.Dst.Name, valString(i.Src1), i.Op, valString(i.Src2))
	case Copy:
		fmt.Fprintf(p.w, "  %s = %s\n", i.Dst.Name, valString(i.Src))
	case Jump:
		fmt.Fprintf(p.w, "  jump %s\n", i.Label)
	case JumpIfZero:
		fmt.Fprintf(p.w, "  jumpifzero %s, %s\n", valString(i.Val), i.Label)
	case JumpIfNotZero:
		fmt.Fprintf(p.w, "  jumpifnotzero %s, %s\n", valString(i.Val), i.Label)
	case Label:
		fmt.Fprintf(p.w, "%s:\n", i.Name)
	default:
		fmt.Fprintf(p.w, "  /* unknown instr %T */\n", instr)
	}
}
