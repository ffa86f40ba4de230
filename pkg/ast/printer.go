package ast

import (
	"fmt"
	"io"
	"strings"
)

// Printer renders a Program as an indented, C-like dump, used by the
// --parse and --validate CLI modes.
type Printer struct {
	w      io.Writer
	indent int
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// PrintProgram prints prog.
func (p *Printer) PrintProgram(prog *Program) {
	p.printFunction(prog.Function)
}

func (p *Printer) writeIndent() {
	fmt.Fprint(p.w, strings.Repeat("  ", p.indent))
}

func (p *Printer) printFunction(f Function) {
	fmt.Fprintf(p.w, "int %s(void)\n", f.Name)
	p.printBlock(f.Body)
}

func (p *Printer) printBlock(b Block) {
	p.writeIndent()
	fmt.Fprintln(p.w, "{")
	p.indent++
	for _, item := range b.Items {
		p.printBlockItem(item)
	}
	p.indent--
	p.writeIndent()
	fmt.Fprintln(p.w, "}")
}

func (p *Printer) printBlockItem(item BlockItem) {
	switch n := item.(type) {
	case *Declaration:
		p.writeIndent()
		p.printDeclaration(n)
	default:
		p.printStmt(item.(Stmt))
	}
}

func (p *Printer) printDeclaration(d *Declaration) {
	fmt.Fprintf(p.w, "int %s", d.Name)
	if d.Init != nil {
		fmt.Fprint(p.w, " = ")
		p.printExpr(d.Init)
	}
	fmt.Fprintln(p.w, ";")
}

func (p *Printer) printStmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *Return:
		p.writeIndent()
		fmt.Fprint(p.w, "return ")
		p.printExpr(s.Expr)
		fmt.Fprintln(p.w, ";")
	case *ExprStmt:
		p.writeIndent()
		p.printExpr(s.Expr)
		fmt.Fprintln(p.w, ";")
	case *Null:
		p.writeIndent()
		fmt.Fprintln(p.w, ";")
	case *If:
		p.writeIndent()
		fmt.Fprint(p.w, "if (")
		p.printExpr(s.Cond)
		fmt.Fprintln(p.w, ")")
		p.printNestedStmt(s.Then)
		if s.Else != nil {
			p.writeIndent()
			fmt.Fprintln(p.w, "else")
			p.printNestedStmt(s.Else)
		}
	case *Compound:
		p.printBlock(s.Block)
	case *While:
		p.writeIndent()
		fmt.Fprintf(p.w, "while (/* %s */ ", s.Label)
		p.printExpr(s.Cond)
		fmt.Fprintln(p.w, ")")
		p.printNestedStmt(s.Body)
	case *DoWhile:
		p.writeIndent()
		fmt.Fprintf(p.w, "do /* %s */\n", s.Label)
		p.printNestedStmt(s.Body)
		p.writeIndent()
		fmt.Fprint(p.w, "while (")
		p.printExpr(s.Cond)
		fmt.Fprintln(p.w, ");")
	case *For:
		p.writeIndent()
		fmt.Fprintf(p.w, "for (/* %s */ ", s.Label)
		p.printForInit(s.Init)
		fmt.Fprint(p.w, "; ")
		if s.Cond != nil {
			p.printExpr(s.Cond)
		}
		fmt.Fprint(p.w, "; ")
		if s.Post != nil {
			p.printExpr(s.Post)
		}
		fmt.Fprintln(p.w, ")")
		p.printNestedStmt(s.Body)
	case *Break:
		p.writeIndent()
		fmt.Fprintf(p.w, "break; /* %s */\n", s.Label)
	case *Continue:
		p.writeIndent()
		fmt.Fprintf(p.w, "continue; /* %s */\n", s.Label)
	default:
		p.writeIndent()
		fmt.Fprintf(p.w, "/* unknown stmt %T */\n", stmt)
	}
}

func (p *Printer) printNestedStmt(s Stmt) {
	if _, ok := s.(*Compound); ok {
		p.printStmt(s)
		return
	}
	p.indent++
	p.printStmt(s)
	p.indent--
}

func (p *Printer) printForInit(init ForInit) {
	switch n := init.(type) {
	case *Declaration:
		fmt.Fprintf(p.w, "int %s", n.Name)
		if n.Init != nil {
			fmt.Fprint(p.w, " = ")
			p.printExpr(n.Init)
		}
	case ExprForInit:
		if n.Expr != nil {
			p.printExpr(n.Expr)
		}
	}
}

func (p *Printer) printExpr(expr Expr) {
	switch e := expr.(type) {
	case Const:
		fmt.Fprintf(p.w, "%d", e.Value)
	case Var:
		fmt.Fprint(p.w, e.Name)
	case *Unary:
		fmt.Fprint(p.w, e.Op.String())
		p.printParenExpr(e.Expr)
	case *Binary:
		p.printParenExpr(e.Left)
		fmt.Fprintf(p.w, " %s ", e.Op.String())
		p.printParenExpr(e.Right)
	case *Assign:
		p.printExpr(e.Target)
		fmt.Fprint(p.w, " = ")
		p.printExpr(e.Value)
	case *Conditional:
		p.printParenExpr(e.Cond)
		fmt.Fprint(p.w, " ? ")
		p.printParenExpr(e.Then)
		fmt.Fprint(p.w, " : ")
		p.printParenExpr(e.Else)
	default:
		fmt.Fprintf(p.w, "/* unknown expr %T */", expr)
	}
}

func (p *Printer) printParenExpr(e Expr) {
	fmt.Fprint(p.w, "(")
	p.printExpr(e)
	fmt.Fprint(p.w, ")")
}
