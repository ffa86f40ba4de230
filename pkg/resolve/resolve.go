// Package resolve performs name resolution, duplicate-declaration
// checking, and loop-label assignment over an ast.Program in a single
// traversal, per §4.3.
package resolve

import (
	"fmt"

	"github.com/Athos-0day/AthosCcompiler/pkg/ast"
)

// Error is a semantic error with the offending node's source line.
type Error struct {
	Line int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

type scope map[string]string

type resolver struct {
	scopes      []scope
	declCounter int
	loopCounter int
	err         error
}

// Resolve validates prog and rewrites every declaration/Var name to a
// function-wide unique name, and every Break/Continue/loop to carry a
// loop label. It mutates prog in place and also returns it.
func Resolve(prog *ast.Program) (*ast.Program, error) {
	r := &resolver{}
	r.pushScope()
	r.resolveBlock(&prog.Function.Body, "")
	r.popScope()
	if r.err != nil {
		return nil, r.err
	}
	return prog, nil
}

func (r *resolver) fail(line int, msg string) {
	if r.err == nil {
		r.err = &Error{Line: line, Msg: msg}
	}
}

func (r *resolver) pushScope() { r.scopes = append(r.scopes, scope{}) }
func (r *resolver) popScope()  { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *resolver) innermost() scope { return r.scopes[len(r.scopes)-1] }

// lookup searches scopes innermost-out for name's unique binding.
func (r *resolver) lookup(name string) (string, bool) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if unique, ok := r.scopes[i][name]; ok {
			return unique, true
		}
	}
	return "", false
}

func (r *resolver) freshName(base string) string {
	r.declCounter++
	return fmt.Sprintf("%s_%d", base, r.declCounter)
}

func (r *resolver) freshLabel() string {
	r.loopCounter++
	return fmt.Sprintf("loop_%d", r.loopCounter)
}

// resolveBlock resolves items in a freshly pushed scope. The for-loop
// header does not go through here: resolveFor pushes its own scope.
func (r *resolver) resolveBlock(b *ast.Block, loopLabel string) {
	r.pushScope()
	r.resolveBlockItems(b, loopLabel)
	r.popScope()
}

func (r *resolver) resolveBlockItems(b *ast.Block, loopLabel string) {
	for _, item := range b.Items {
		if r.err != nil {
			return
		}
		switch n := item.(type) {
		case *ast.Declaration:
			r.resolveDeclaration(n)
		case ast.Stmt:
			r.resolveStmt(n, loopLabel)
		}
	}
}

func (r *resolver) resolveDeclaration(d *ast.Declaration) {
	inner := r.innermost()
	if _, exists := inner[d.Name]; exists {
		r.fail(d.Line, fmt.Sprintf("duplicate declaration of variable %q", d.Name))
		return
	}
	unique := r.freshName(d.Name)
	inner[d.Name] = unique
	if d.Init != nil {
		d.Init = r.resolveExpr(d.Init)
	}
	d.Name = unique
}

func (r *resolver) resolveStmt(stmt ast.Stmt, loopLabel string) {
	if r.err != nil {
		return
	}
	switch s := stmt.(type) {
	case *ast.Return:
		s.Expr = r.resolveExpr(s.Expr)
	case *ast.ExprStmt:
		s.Expr = r.resolveExpr(s.Expr)
	case *ast.Null:
	case *ast.If:
		s.Cond = r.resolveExpr(s.Cond)
		r.resolveStmt(s.Then, loopLabel)
		if s.Else != nil {
			r.resolveStmt(s.Else, loopLabel)
		}
	case *ast.Compound:
		r.resolveBlock(&s.Block, loopLabel)
	case *ast.While:
		label := r.freshLabel()
		s.Cond = r.resolveExpr(s.Cond)
		r.resolveStmt(s.Body, label)
		s.Label = label
	case *ast.DoWhile:
		label := r.freshLabel()
		r.resolveStmt(s.Body, label)
		s.Cond = r.resolveExpr(s.Cond)
		s.Label = label
	case *ast.For:
		r.resolveFor(s, loopLabel)
	case *ast.Break:
		if loopLabel == "" {
			r.fail(s.Line, "break statement outside of loop")
			return
		}
		s.Label = loopLabel
	case *ast.Continue:
		if loopLabel == "" {
			r.fail(s.Line, "continue statement outside of loop")
			return
		}
		s.Label = loopLabel
	default:
		r.fail(0, fmt.Sprintf("resolve: unhandled statement %T", stmt))
	}
}

// resolveFor resolves a for-loop's init/cond/post in a scope scoped to
// the loop header, so declarations in Init are visible to the body and
// post but not after the loop (§4.3).
func (r *resolver) resolveFor(s *ast.For, outerLoop string) {
	r.pushScope()
	switch init := s.Init.(type) {
	case *ast.Declaration:
		r.resolveDeclaration(init)
	case ast.ExprForInit:
		if init.Expr != nil {
			s.Init = ast.ExprForInit{Expr: r.resolveExpr(init.Expr)}
		}
	}
	label := r.freshLabel()
	if s.Cond != nil {
		s.Cond = r.resolveExpr(s.Cond)
	}
	r.resolveStmt(s.Body, label)
	if s.Post != nil {
		s.Post = r.resolveExpr(s.Post)
	}
	s.Label = label
	r.popScope()
}

func (r *resolver) resolveExpr(expr ast.Expr) ast.Expr {
	if r.err != nil || expr == nil {
		return expr
	}
	switch e := expr.(type) {
	case ast.Const:
		return e
	case ast.Var:
		unique, ok := r.lookup(e.Name)
		if !ok {
			r.fail(e.Line, fmt.Sprintf("undeclared variable %q", e.Name))
			return e
		}
		return ast.Var{Name: unique, Line: e.Line}
	case *ast.Unary:
		e.Expr = r.resolveExpr(e.Expr)
		return e
	case *ast.Binary:
		e.Left = r.resolveExpr(e.Left)
		e.Right = r.resolveExpr(e.Right)
		return e
	case *ast.Assign:
		if _, ok := e.Target.(ast.Var); !ok {
			r.fail(e.Line, "left-hand side of assignment must be a variable")
			return e
		}
		e.Target = r.resolveExpr(e.Target)
		e.Value = r.resolveExpr(e.Value)
		return e
	case *ast.Conditional:
		e.Cond = r.resolveExpr(e.Cond)
		e.Then = r.resolveExpr(e.Then)
		e.Else = r.resolveExpr(e.Else)
		return e
	default:
		r.fail(0, fmt.Sprintf("resolve: unhandled expression %T", expr))
		return expr
	}
}
