// Package tacky defines TACKY, the three-address intermediate
// representation produced by lowering a resolved AST, per §3/§4.4.
package tacky

import "github.com/Athos-0day/AthosCcompiler/pkg/ast"

// Val is either a Const or a Var.
type Val interface {
	implVal()
}

// Const is an integer immediate.
type Const struct{ Value int64 }

// Var is a named temporary or source-level local.
type Var struct{ Name string }

func (Const) implVal() {}
func (Var) implVal()   {}

// UnaryOp and BinaryOp reuse the AST's operator enumerations: TACKY
// unary instructions carry the same {complement, negate, not} set,
// and TACKY binary instructions carry the arithmetic/relational subset
// (And/Or never appear — §4.4 lowers them via jumps instead).
type UnaryOp = ast.UnaryOp
type BinaryOp = ast.BinaryOp

// Instr is one TACKY instruction.
type Instr interface {
	implInstr()
}

// Return returns Val from the function.
type Return struct{ Val Val }

// Unary computes Dst = op(Src).
type Unary struct {
	Op  UnaryOp
	Src Val
	Dst Var
}

// Binary computes Dst = Src1 op Src2.
type Binary struct {
	Op   BinaryOp
	Src1 Val
	Src2 Val
	Dst  Var
}

// Copy assigns Dst = Src.
type Copy struct {
	Src Val
	Dst Var
}

// Jump unconditionally transfers control to Label.
type Jump struct{ Label string }

// JumpIfZero transfers control to Label if Val == 0.
type JumpIfZero struct {
	Val   Val
	Label string
}

// JumpIfNotZero transfers control to Label if Val != 0.
type JumpIfNotZero struct {
	Val   Val
	Label string
}

// Label marks a jump target.
type Label struct{ Name string }

func (Return) implInstr()        {}
func (Unary) implInstr()         {}
func (Binary) implInstr()        {}
func (Copy) implInstr()          {}
func (Jump) implInstr()          {}
func (JumpIfZero) implInstr()    {}
func (JumpIfNotZero) implInstr() {}
func (Label) implInstr()         {}

// Function holds a function's instruction list in source order.
type Function struct {
	Name string
	Body []Instr
}

// Program is the single-function TACKY program.
type Program struct {
	Function Function
}
