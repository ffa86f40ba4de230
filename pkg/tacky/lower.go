package tacky

import (
	"fmt"

	"github.com/Athos-0day/AthosCcompiler/pkg/ast"
)

// lowerer lowers a single resolved function's AST into a flat TACKY
// instruction list, threading fresh-name counters as explicit fields
// rather than process-global state so two lowerings never interfere.
type lowerer struct {
	tmpCounter   int
	labelCounter int
	body         []Instr

	// continueTarget/breakTarget map a loop's resolver-assigned label
	// to the TACKY label each Continue/Break should jump to. While
	// loops fold their continue target into the loop-start label
	// (§4.4: "L.continue = L.start"); other loop kinds get a distinct
	// continue label placed just before the post-body step.
	continueTarget map[string]string
	breakTarget    map[string]string
}

// Lower translates a resolved AST into a TACKY program.
func Lower(prog *ast.Program) *Program {
	l := &lowerer{
		continueTarget: make(map[string]string),
		breakTarget:    make(map[string]string),
	}
	l.lowerBlock(prog.Function.Body)
	return &Program{Function: Function{Name: prog.Function.Name, Body: l.body}}
}

func (l *lowerer) emit(i Instr) { l.body = append(l.body, i) }

func (l *lowerer) freshTmp() Var {
	l.tmpCounter++
	return Var{Name: fmt.Sprintf("tmp.%d", l.tmpCounter)}
}

func (l *lowerer) freshLabel(tag string) string {
	l.labelCounter++
	return fmt.Sprintf("%s.%d", tag, l.labelCounter)
}

func (l *lowerer) lowerBlock(b ast.Block) {
	for _, item := range b.Items {
		switch n := item.(type) {
		case *ast.Declaration:
			if n.Init != nil {
				v := l.lowerExpr(n.Init)
				l.emit(Copy{Src: v, Dst: Var{Name: n.Name}})
			}
		case ast.Stmt:
			l.lowerStmt(n)
		}
	}
}

func (l *lowerer) lowerStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Return:
		l.emit(Return{Val: l.lowerExpr(s.Expr)})
	case *ast.ExprStmt:
		l.lowerExpr(s.Expr)
	case *ast.Null:
	case *ast.If:
		l.lowerIf(s)
	case *ast.Compound:
		l.lowerBlock(s.Block)
	case *ast.While:
		l.lowerWhile(s)
	case *ast.DoWhile:
		l.lowerDoWhile(s)
	case *ast.For:
		l.lowerFor(s)
	case *ast.Break:
		l.emit(Jump{Label: l.breakTarget[s.Label]})
	case *ast.Continue:
		l.emit(Jump{Label: l.continueTarget[s.Label]})
	default:
		panic(fmt.Sprintf("tacky: unhandled statement %T", stmt))
	}
}

func (l *lowerer) lowerIf(s *ast.If) {
	cond := l.lowerExpr(s.Cond)
	if s.Else == nil {
		end := l.freshLabel("if_end")
		l.emit(JumpIfZero{Val: cond, Label: end})
		l.lowerStmt(s.Then)
		l.emit(Label{Name: end})
		return
	}
	elseL := l.freshLabel("if_else")
	end := l.freshLabel("if_end")
	l.emit(JumpIfZero{Val: cond, Label: elseL})
	l.lowerStmt(s.Then)
	l.emit(Jump{Label: end})
	l.emit(Label{Name: elseL})
	l.lowerStmt(s.Else)
	l.emit(Label{Name: end})
}

func (l *lowerer) lowerWhile(s *ast.While) {
	start := s.Label + ".start"
	brk := s.Label + ".break"
	l.continueTarget[s.Label] = start
	l.breakTarget[s.Label] = brk

	l.emit(Label{Name: start})
	cond := l.lowerExpr(s.Cond)
	l.emit(JumpIfZero{Val: cond, Label: brk})
	l.lowerStmt(s.Body)
	l.emit(Jump{Label: start})
	l.emit(Label{Name: brk})
}

func (l *lowerer) lowerDoWhile(s *ast.DoWhile) {
	start := s.Label + ".start"
	cont := s.Label + ".continue"
	brk := s.Label + ".break"
	l.continueTarget[s.Label] = cont
	l.breakTarget[s.Label] = brk

	l.emit(Label{Name: start})
	l.lowerStmt(s.Body)
	l.emit(Label{Name: cont})
	cond := l.lowerExpr(s.Cond)
	l.emit(JumpIfNotZero{Val: cond, Label: start})
	l.emit(Label{Name: brk})
}

func (l *lowerer) lowerFor(s *ast.For) {
	start := s.Label + ".start"
	cont := s.Label + ".continue"
	brk := s.Label + ".break"
	l.continueTarget[s.Label] = cont
	l.breakTarget[s.Label] = brk

	switch init := s.Init.(type) {
	case *ast.Declaration:
		if init.Init != nil {
			v := l.lowerExpr(init.Init)
			l.emit(Copy{Src: v, Dst: Var{Name: init.Name}})
		}
	case ast.ExprForInit:
		if init.Expr != nil {
			l.lowerExpr(init.Expr)
		}
	}

	l.emit(Label{Name: start})
	if s.Cond != nil {
		cond := l.lowerExpr(s.Cond)
		l.emit(JumpIfZero{Val: cond, Label: brk})
	}
	l.lowerStmt(s.Body)
	l.emit(Label{Name: cont})
	if s.Post != nil {
		l.lowerExpr(s.Post)
	}
	l.emit(Jump{Label: start})
	l.emit(Label{Name: brk})
}

func (l *lowerer) lowerExpr(expr ast.Expr) Val {
	switch e := expr.(type) {
	case ast.Const:
		return Const{Value: e.Value}
	case ast.Var:
		return Var{Name: e.Name}
	case *ast.Unary:
		src := l.lowerExpr(e.Expr)
		dst := l.freshTmp()
		l.emit(Unary{Op: e.Op, Src: src, Dst: dst})
		return dst
	case *ast.Binary:
		switch e.Op {
		case ast.And:
			return l.lowerAnd(e)
		case ast.Or:
			return l.lowerOr(e)
		default:
			v1 := l.lowerExpr(e.Left)
			v2 := l.lowerExpr(e.Right)
			dst := l.freshTmp()
			l.emit(Binary{Op: e.Op, Src1: v1, Src2: v2, Dst: dst})
			return dst
		}
	case *ast.Assign:
		v := l.lowerExpr(e.Value)
		name := e.Target.(ast.Var).Name
		l.emit(Copy{Src: v, Dst: Var{Name: name}})
		return Var{Name: name}
	case *ast.Conditional:
		return l.lowerConditional(e)
	default:
		panic(fmt.Sprintf("tacky: unhandled expression %T", expr))
	}
}

func (l *lowerer) lowerAnd(e *ast.Binary) Val {
	v1 := l.lowerExpr(e.Left)
	falseL := l.freshLabel("and_false")
	end := l.freshLabel("and_end")
	l.emit(JumpIfZero{Val: v1, Label: falseL})
	v2 := l.lowerExpr(e.Right)
	l.emit(JumpIfZero{Val: v2, Label: falseL})
	dst := l.freshTmp()
	l.emit(Copy{Src: Const{Value: 1}, Dst: dst})
	l.emit(Jump{Label: end})
	l.emit(Label{Name: falseL})
	l.emit(Copy{Src: Const{Value: 0}, Dst: dst})
	l.emit(Label{Name: end})
	return dst
}

func (l *lowerer) lowerOr(e *ast.Binary) Val {
	v1 := l.lowerExpr(e.Left)
	trueL := l.freshLabel("or_true")
	end := l.freshLabel("or_end")
	l.emit(JumpIfNotZero{Val: v1, Label: trueL})
	v2 := l.lowerExpr(e.Right)
	l.emit(JumpIfNotZero{Val: v2, Label: trueL})
	dst := l.freshTmp()
	l.emit(Copy{Src: Const{Value: 0}, Dst: dst})
	l.emit(Jump{Label: end})
	l.emit(Label{Name: trueL})
	l.emit(Copy{Src: Const{Value: 1}, Dst: dst})
	l.emit(Label{Name: end})
	return dst
}

func (l *lowerer) lowerConditional(e *ast.Conditional) Val {
	elseL := l.freshLabel("cond_else")
	end := l.freshLabel("cond_end")
	dst := l.freshTmp()

	cond := l.lowerExpr(e.Cond)
	l.emit(JumpIfZero{Val: cond, Label: elseL})
	thenV := l.lowerExpr(e.Then)
	l.emit(Copy{Src: thenV, Dst: dst})
	l.emit(Jump{Label: end})
	l.emit(Label{Name: elseL})
	elseV := l.lowerExpr(e.Else)
	l.emit(Copy{Src: elseV, Dst: dst})
	l.emit(Label{Name: end})
	return dst
}
