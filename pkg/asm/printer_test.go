package asm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Athos-0day/AthosCcompiler/pkg/asdl"
	"github.com/Athos-0day/AthosCcompiler/pkg/legalize"
	"github.com/Athos-0day/AthosCcompiler/pkg/lexer"
	"github.com/Athos-0day/AthosCcompiler/pkg/parser"
	"github.com/Athos-0day/AthosCcompiler/pkg/resolve"
	"github.com/Athos-0day/AthosCcompiler/pkg/stacking"
	"github.com/Athos-0day/AthosCcompiler/pkg/tacky"
)

func emit(t *testing.T, src string) string {
	prog, err := parser.Parse(lexer.New(src))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	prog, err = resolve.Resolve(prog)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	translated := asdl.Translate(tacky.Lower(prog))
	fn, _ := stacking.Assign(translated.Function)
	fn = legalize.Legalise(fn)
	var buf bytes.Buffer
	NewPrinter(&buf).PrintProgram(&asdl.Program{Function: fn})
	return buf.String()
}

func TestPrintProgramPrologueAndUnderscorePrefix(t *testing.T) {
	out := emit(t, "int main(void) { return 0; }")
	if !strings.Contains(out, ".globl _main\n") {
		t.Fatalf("missing .globl _main directive:\n%s", out)
	}
	if !strings.Contains(out, "_main:\n") {
		t.Fatalf("missing _main label:\n%s", out)
	}
	if !strings.Contains(out, "  pushq %rbp\n") || !strings.Contains(out, "  movq %rsp, %rbp\n") {
		t.Fatalf("missing prologue:\n%s", out)
	}
}

func TestPrintProgramEndsInRet(t *testing.T) {
	out := emit(t, "int main(void) { return 7; }")
	if !strings.HasSuffix(strings.TrimRight(out, "\n"), "ret") {
		t.Fatalf("expected program to end in ret:\n%s", out)
	}
}

func TestPrintProgramFallsThroughGetsSyntheticReturn(t *testing.T) {
	out := emit(t, "int main(void) { int x = 1; x = x + 1; }")
	if !strings.Contains(out, "movl $0, %eax") {
		t.Fatalf("expected synthetic `movl $0, %%eax` for a falling-through body:\n%s", out)
	}
}

func TestPrintProgramUsesLPrefixedLabels(t *testing.T) {
	out := emit(t, "int main(void) { int i=0; while (i<3) { i=i+1; } return i; }")
	if !strings.Contains(out, "L") {
		t.Fatalf("expected L-prefixed labels in loop output:\n%s", out)
	}
	if strings.Contains(out, "jmp loop") {
		t.Fatalf("expected jump targets to carry the L prefix, got:\n%s", out)
	}
}
