// Package parser implements a recursive-descent, precedence-climbing
// parser that builds an ast.Program from a token stream.
package parser

import (
	"fmt"

	"github.com/Athos-0day/AthosCcompiler/pkg/ast"
	"github.com/Athos-0day/AthosCcompiler/pkg/lexer"
)

// Error is a syntactic error with the offending token's source line.
type Error struct {
	Line int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Parser consumes a *lexer.Lexer with a one-token lookahead cursor.
type Parser struct {
	l    *lexer.Lexer
	cur  lexer.Token
	peek lexer.Token
	err  error
}

// New creates a Parser over l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	if p.err != nil {
		return
	}
	p.cur = p.peek
	tok, err := p.l.NextToken()
	if err != nil {
		p.err = err
		return
	}
	p.peek = tok
}

func (p *Parser) fail(msg string) {
	if p.err == nil {
		p.err = &Error{Line: p.cur.Line, Msg: msg}
	}
}

func (p *Parser) curIs(t lexer.TokenType) bool  { return p.err == nil && p.cur.Type == t }
func (p *Parser) peekIs(t lexer.TokenType) bool { return p.err == nil && p.peek.Type == t }

// expect consumes the current token if it has type t, else records a
// fatal error and returns false.
func (p *Parser) expect(t lexer.TokenType) bool {
	if p.err != nil {
		return false
	}
	if p.cur.Type != t {
		p.fail(fmt.Sprintf("expected %s, got %s", t, p.cur.Type))
		return false
	}
	p.advance()
	return true
}

// Parse runs the full program grammar and returns the resulting AST,
// or the first lexical/syntactic error encountered.
func Parse(l *lexer.Lexer) (*ast.Program, error) {
	p := New(l)
	prog := p.parseProgram()
	if p.err != nil {
		return nil, p.err
	}
	return prog, nil
}

// program ::= function
func (p *Parser) parseProgram() *ast.Program {
	fn := p.parseFunction()
	if p.err != nil {
		return nil
	}
	if !p.curIs(lexer.TokenEOF) {
		p.fail(fmt.Sprintf("unexpected token after function: %s", p.cur.Type))
		return nil
	}
	return &ast.Program{Function: fn}
}

// function ::= "int" IDENT "(" "void" ")" block
func (p *Parser) parseFunction() ast.Function {
	if !p.expect(lexer.TokenInt_) {
		return ast.Function{}
	}
	if !p.curIs(lexer.TokenIdent) {
		p.fail(fmt.Sprintf("expected function name, got %s", p.cur.Type))
		return ast.Function{}
	}
	name := p.cur.Literal
	p.advance()
	if !p.expect(lexer.TokenLParen) {
		return ast.Function{}
	}
	if !p.expect(lexer.TokenVoid) {
		return ast.Function{}
	}
	if !p.expect(lexer.TokenRParen) {
		return ast.Function{}
	}
	body := p.parseBlock()
	return ast.Function{Name: name, Body: body}
}

// block ::= "{" block_item* "}"
func (p *Parser) parseBlock() ast.Block {
	block := ast.Block{}
	if !p.expect(lexer.TokenLBrace) {
		return block
	}
	for !p.curIs(lexer.TokenRBrace) && p.err == nil {
		if p.curIs(lexer.TokenEOF) {
			p.fail("unexpected end of file, expected '}'")
			return block
		}
		block.Items = append(block.Items, p.parseBlockItem())
	}
	p.expect(lexer.TokenRBrace)
	return block
}

// block_item ::= declaration | statement
func (p *Parser) parseBlockItem() ast.BlockItem {
	if p.curIs(lexer.TokenInt_) {
		return p.parseDeclaration()
	}
	return p.parseStatement().(ast.BlockItem)
}

// declaration ::= "int" IDENT ( "=" expr )? ";"
func (p *Parser) parseDeclaration() *ast.Declaration {
	line := p.cur.Line
	if !p.expect(lexer.TokenInt_) {
		return &ast.Declaration{Line: line}
	}
	if !p.curIs(lexer.TokenIdent) {
		p.fail(fmt.Sprintf("expected identifier, got %s", p.cur.Type))
		return &ast.Declaration{Line: line}
	}
	name := p.cur.Literal
	p.advance()
	decl := &ast.Declaration{Name: name, Line: line}
	if p.curIs(lexer.TokenAssign) {
		p.advance()
		decl.Init = p.parseExpr(1)
	}
	p.expect(lexer.TokenSemicolon)
	return decl
}

// statement ::= "return" expr ";"
//            | "if" "(" expr ")" statement ( "else" statement )?
//            | "while" "(" expr ")" statement
//            | "do" statement "while" "(" expr ")" ";"
//            | "for" "(" for_init expr? ";" expr? ")" statement
//            | "break" ";" | "continue" ";"
//            | block
//            | ";"
//            | expr ";"
func (p *Parser) parseStatement() ast.Stmt {
	switch p.cur.Type {
	case lexer.TokenReturn:
		line := p.cur.Line
		p.advance()
		expr := p.parseExpr(1)
		p.expect(lexer.TokenSemicolon)
		return &ast.Return{Expr: expr, Line: line}
	case lexer.TokenIf:
		return p.parseIf()
	case lexer.TokenWhile:
		return p.parseWhile()
	case lexer.TokenDo:
		return p.parseDoWhile()
	case lexer.TokenFor:
		return p.parseFor()
	case lexer.TokenBreak:
		line := p.cur.Line
		p.advance()
		p.expect(lexer.TokenSemicolon)
		return &ast.Break{Line: line}
	case lexer.TokenContinue:
		line := p.cur.Line
		p.advance()
		p.expect(lexer.TokenSemicolon)
		return &ast.Continue{Line: line}
	case lexer.TokenLBrace:
		return &ast.Compound{Block: p.parseBlock()}
	case lexer.TokenSemicolon:
		p.advance()
		return &ast.Null{}
	default:
		expr := p.parseExpr(1)
		p.expect(lexer.TokenSemicolon)
		return &ast.ExprStmt{Expr: expr}
	}
}

func (p *Parser) parseIf() ast.Stmt {
	p.advance() // 'if'
	if !p.expect(lexer.TokenLParen) {
		return &ast.If{}
	}
	cond := p.parseExpr(1)
	p.expect(lexer.TokenRParen)
	then := p.parseStatement()
	stmt := &ast.If{Cond: cond, Then: then}
	if p.curIs(lexer.TokenElse) {
		p.advance()
		stmt.Else = p.parseStatement()
	}
	return stmt
}

func (p *Parser) parseWhile() ast.Stmt {
	p.advance() // 'while'
	if !p.expect(lexer.TokenLParen) {
		return &ast.While{}
	}
	cond := p.parseExpr(1)
	p.expect(lexer.TokenRParen)
	body := p.parseStatement()
	return &ast.While{Cond: cond, Body: body}
}

func (p *Parser) parseDoWhile() ast.Stmt {
	p.advance() // 'do'
	body := p.parseStatement()
	if !p.expect(lexer.TokenWhile) {
		return &ast.DoWhile{Body: body}
	}
	if !p.expect(lexer.TokenLParen) {
		return &ast.DoWhile{Body: body}
	}
	cond := p.parseExpr(1)
	p.expect(lexer.TokenRParen)
	p.expect(lexer.TokenSemicolon)
	return &ast.DoWhile{Body: body, Cond: cond}
}

func (p *Parser) parseFor() ast.Stmt {
	p.advance() // 'for'
	if !p.expect(lexer.TokenLParen) {
		return &ast.For{}
	}
	init := p.parseForInit()
	var cond ast.Expr
	if !p.curIs(lexer.TokenSemicolon) {
		cond = p.parseExpr(1)
	}
	p.expect(lexer.TokenSemicolon)
	var post ast.Expr
	if !p.curIs(lexer.TokenRParen) {
		post = p.parseExpr(1)
	}
	p.expect(lexer.TokenRParen)
	body := p.parseStatement()
	return &ast.For{Init: init, Cond: cond, Post: post, Body: body}
}

// for_init ::= declaration | expr? ";"
func (p *Parser) parseForInit() ast.ForInit {
	if p.curIs(lexer.TokenInt_) {
		return p.parseDeclaration()
	}
	var expr ast.Expr
	if !p.curIs(lexer.TokenSemicolon) {
		expr = p.parseExpr(1)
	}
	p.expect(lexer.TokenSemicolon)
	return ast.ExprForInit{Expr: expr}
}

// --- Expressions: precedence climbing ---

// binaryPrec returns the binding precedence and ast.BinaryOp for a
// binary-operator token, per the table in §4.2.
func binaryPrec(t lexer.TokenType) (prec int, op ast.BinaryOp, ok bool) {
	switch t {
	case lexer.TokenStar:
		return 50, ast.Mul, true
	case lexer.TokenSlash:
		return 50, ast.Div, true
	case lexer.TokenPercent:
		return 50, ast.Rem, true
	case lexer.TokenPlus:
		return 45, ast.Add, true
	case lexer.TokenMinus:
		return 45, ast.Sub, true
	case lexer.TokenLt:
		return 35, ast.Lt, true
	case lexer.TokenLe:
		return 35, ast.Le, true
	case lexer.TokenGt:
		return 35, ast.Gt, true
	case lexer.TokenGe:
		return 35, ast.Ge, true
	case lexer.TokenEq:
		return 30, ast.Eq, true
	case lexer.TokenNe:
		return 30, ast.Ne, true
	case lexer.TokenAnd:
		return 10, ast.And, true
	case lexer.TokenOr:
		return 5, ast.Or, true
	}
	return 0, 0, false
}

const (
	precConditional = 3
	precAssign      = 1
)

// parseExpr implements precedence climbing: each call parses an
// expression whose outermost operator binds at least minPrec.
func (p *Parser) parseExpr(minPrec int) ast.Expr {
	left := p.parseFactor()
	for p.err == nil {
		if p.cur.Type == lexer.TokenQuestion && precConditional >= minPrec {
			line := p.cur.Line
			p.advance()
			then := p.parseExpr(precAssign)
			p.expect(lexer.TokenColon)
			els := p.parseExpr(precAssign)
			left = &ast.Conditional{Cond: left, Then: then, Else: els, Line: line}
			continue
		}
		if p.cur.Type == lexer.TokenAssign && precAssign >= minPrec {
			line := p.cur.Line
			p.advance()
			value := p.parseExpr(precAssign)
			left = &ast.Assign{Target: left, Value: value, Line: line}
			continue
		}
		prec, op, ok := binaryPrec(p.cur.Type)
		if !ok || prec < minPrec {
			break
		}
		line := p.cur.Line
		p.advance()
		right := p.parseExpr(prec + 1)
		left = &ast.Binary{Op: op, Left: left, Right: right, Line: line}
	}
	return left
}

// factor ::= INT | IDENT | unop factor | "(" expr ")"
func (p *Parser) parseFactor() ast.Expr {
	if p.err != nil {
		return nil
	}
	switch p.cur.Type {
	case lexer.TokenInt:
		return p.parseConst()
	case lexer.TokenIdent:
		v := ast.Var{Name: p.cur.Literal, Line: p.cur.Line}
		p.advance()
		return v
	case lexer.TokenTilde:
		return p.parseUnary(ast.Complement)
	case lexer.TokenMinus:
		return p.parseUnary(ast.Negate)
	case lexer.TokenNot:
		return p.parseUnary(ast.Not)
	case lexer.TokenLParen:
		p.advance()
		inner := p.parseExpr(1)
		p.expect(lexer.TokenRParen)
		return inner
	default:
		p.fail(fmt.Sprintf("expected expression, got %s", p.cur.Type))
		return nil
	}
}

func (p *Parser) parseConst() ast.Expr {
	line := p.cur.Line
	var value int64
	if _, err := fmt.Sscanf(p.cur.Literal, "%d", &value); err != nil {
		p.fail(fmt.Sprintf("malformed integer literal %q", p.cur.Literal))
		return ast.Const{Line: line}
	}
	p.advance()
	return ast.Const{Value: value, Line: line}
}

func (p *Parser) parseUnary(op ast.UnaryOp) ast.Expr {
	line := p.cur.Line
	p.advance()
	operand := p.parseFactor()
	return &ast.Unary{Op: op, Expr: operand, Line: line}
}
