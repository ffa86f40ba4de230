package lexer

import "testing"

func TestNextToken(t *testing.T) {
	input := `int main(void) {
    int x = 41;
    return x + 1;
}`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{TokenInt_, "int"},
		{TokenIdent, "main"},
		{TokenLParen, "("},
		{TokenVoid, "void"},
		{TokenRParen, ")"},
		{TokenLBrace, "{"},
		{TokenInt_, "int"},
		{TokenIdent, "x"},
		{TokenAssign, "="},
		{TokenInt, "41"},
		{TokenSemicolon, ";"},
		{TokenReturn, "return"},
		{TokenIdent, "x"},
		{TokenPlus, "+"},
		{TokenInt, "1"},
		{TokenSemicolon, ";"},
		{TokenRBrace, "}"},
		{TokenEOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("tests[%d]: unexpected error: %v", i, err)
		}
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - type wrong. expected=%s, got=%s", i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestMultiCharOperators(t *testing.T) {
	tests := []struct {
		input    string
		expected TokenType
	}{
		{"--", TokenDecrement},
		{"&&", TokenAnd},
		{"||", TokenOr},
		{"==", TokenEq},
		{"!=", TokenNe},
		{"<=", TokenLe},
		{">=", TokenGe},
		{"-", TokenMinus},
		{"&&x", TokenAnd}, // longest match wins even with trailing ident
	}
	for _, tt := range tests {
		l := New(tt.input)
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("input %q: unexpected error: %v", tt.input, err)
		}
		if tok.Type != tt.expected {
			t.Errorf("input %q: expected %s, got %s", tt.input, tt.expected, tok.Type)
		}
	}
}

func TestDirectiveAndCommentsSkipped(t *testing.T) {
	input := "#include <fake.h>\nint main(void) { // comment\n /* block\n comment */ return 0; }"
	toks, err := LexAll(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var returnLine int
	for _, tok := range toks {
		if tok.Type == TokenReturn {
			returnLine = tok.Line
		}
	}
	if returnLine != 4 {
		t.Errorf("expected return on line 4, got %d", returnLine)
	}
}

func TestDigitFollowedByIdentIsError(t *testing.T) {
	l := New("123abc")
	_, err := l.NextToken()
	if err == nil {
		t.Fatalf("expected lexical error for 123abc")
	}
}

func TestUnterminatedCommentIsError(t *testing.T) {
	_, err := LexAll("int main(void) { /* never closes")
	if err == nil {
		t.Fatalf("expected lexical error for unterminated comment")
	}
}

func TestUnrecognisedCharacterIsError(t *testing.T) {
	_, err := LexAll("int main(void) { return 0 @ 1; }")
	if err == nil {
		t.Fatalf("expected lexical error for '@'")
	}
}

func TestCarriageReturnsStripped(t *testing.T) {
	input := "int main(void) {\r\n  return 1;\r\n}\r\n"
	toks, err := LexAll(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, tok := range toks {
		if tok.Type == TokenReturn && tok.Line != 2 {
			t.Errorf("expected return on line 2, got %d", tok.Line)
		}
	}
}
