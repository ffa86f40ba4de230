package asdl

import (
	"fmt"

	"github.com/Athos-0day/AthosCcompiler/pkg/ast"
	"github.com/Athos-0day/AthosCcompiler/pkg/tacky"
)

// translator walks a TACKY instruction list and appends the ASDL
// instructions the table in §4.5 prescribes.
type translator struct {
	body []Instr
}

// Translate lowers a TACKY program to ASDL. Operands may be any of
// Imm/Reg/Pseudo on return; no Stack operand or AllocateStack
// instruction is introduced here (§3's "after translation" invariant).
func Translate(prog *tacky.Program) *Program {
	t := &translator{}
	for _, instr := range prog.Function.Body {
		t.translateInstr(instr)
	}
	return &Program{Function: Function{Name: prog.Function.Name, Body: t.body}}
}

func (t *translator) emit(i Instr) { t.body = append(t.body, i) }

func toOperand(v tacky.Val) Operand {
	switch val := v.(type) {
	case tacky.Const:
		return Imm{Value: val.Value}
	case tacky.Var:
		return Pseudo{Name: val.Name}
	default:
		panic(fmt.Sprintf("asdl: unhandled tacky value %T", v))
	}
}

func condFor(op ast.BinaryOp) Cond {
	switch op {
	case ast.Eq:
		return E
	case ast.Ne:
		return NE
	case ast.Lt:
		return L
	case ast.Le:
		return LE
	case ast.Gt:
		return G
	case ast.Ge:
		return GE
	}
	panic(fmt.Sprintf("asdl: %v is not a relational operator", op))
}

func (t *translator) translateInstr(instr tacky.Instr) {
	switch i := instr.(type) {
	case tacky.Return:
		t.emit(Mov{Src: toOperand(i.Val), Dst: Reg{Id: AX}})
		t.emit(Ret{})
	case tacky.Copy:
		t.emit(Mov{Src: toOperand(i.Src), Dst: Pseudo{Name: i.Dst.Name}})
	case tacky.Jump:
		t.emit(Jmp{Label: i.Label})
	case tacky.JumpIfZero:
		t.emit(Cmp{A: Imm{Value: 0}, B: toOperand(i.Val)})
		t.emit(JmpCC{Cond: E, Label: i.Label})
	case tacky.JumpIfNotZero:
		t.emit(Cmp{A: Imm{Value: 0}, B: toOperand(i.Val)})
		t.emit(JmpCC{Cond: NE, Label: i.Label})
	case tacky.Label:
		t.emit(Label{Name: i.Name})
	case tacky.Unary:
		t.translateUnary(i)
	case tacky.Binary:
		t.translateBinary(i)
	default:
		panic(fmt.Sprintf("asdl: unhandled tacky instruction %T", instr))
	}
}

func (t *translator) translateUnary(i tacky.Unary) {
	dst := Pseudo{Name: i.Dst.Name}
	switch i.Op {
	case ast.Complement:
		t.emit(Mov{Src: toOperand(i.Src), Dst: dst})
		t.emit(Unary{Op: Not, Dst: dst})
	case ast.Negate:
		t.emit(Mov{Src: toOperand(i.Src), Dst: dst})
		t.emit(Unary{Op: Neg, Dst: dst})
	case ast.Not:
		t.emit(Cmp{A: Imm{Value: 0}, B: toOperand(i.Src)})
		t.emit(Mov{Src: Imm{Value: 0}, Dst: dst})
		t.emit(SetCC{Cond: E, Dst: dst})
	default:
		panic(fmt.Sprintf("asdl: unhandled unary op %v", i.Op))
	}
}

func (t *translator) translateBinary(i tacky.Binary) {
	dst := Pseudo{Name: i.Dst.Name}
	s1, s2 := toOperand(i.Src1), toOperand(i.Src2)
	switch i.Op {
	case ast.Add:
		t.emit(Mov{Src: s1, Dst: dst})
		t.emit(Binary{Op: OpAdd, Src: s2, Dst: dst})
	case ast.Sub:
		t.emit(Mov{Src: s1, Dst: dst})
		t.emit(Binary{Op: OpSub, Src: s2, Dst: dst})
	case ast.Mul:
		t.emit(Mov{Src: s1, Dst: dst})
		t.emit(Binary{Op: OpMult, Src: s2, Dst: dst})
	case ast.Div:
		t.emit(Mov{Src: s1, Dst: Reg{Id: AX}})
		t.emit(Cdq{})
		t.emit(Idiv{Divisor: s2})
		t.emit(Mov{Src: Reg{Id: AX}, Dst: dst})
	case ast.Rem:
		t.emit(Mov{Src: s1, Dst: Reg{Id: AX}})
		t.emit(Cdq{})
		t.emit(Idiv{Divisor: s2})
		t.emit(Mov{Src: Reg{Id: DX}, Dst: dst})
	default:
		if !i.Op.IsRelational() {
			panic(fmt.Sprintf("asdl: unhandled binary op %v", i.Op))
		}
		t.emit(Cmp{A: s2, B: s1})
		t.emit(Mov{Src: Imm{Value: 0}, Dst: dst})
		t.emit(SetCC{Cond: condFor(i.Op), Dst: dst})
	}
}
