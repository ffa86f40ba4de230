// Package driver orchestrates the compiler pipeline end to end: it
// reads a source file, runs the requested phases, and either prints
// an IR dump or writes assembly and invokes the system toolchain.
package driver

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Athos-0day/AthosCcompiler/pkg/asdl"
	"github.com/Athos-0day/AthosCcompiler/pkg/asm"
	"github.com/Athos-0day/AthosCcompiler/pkg/ast"
	"github.com/Athos-0day/AthosCcompiler/pkg/legalize"
	"github.com/Athos-0day/AthosCcompiler/pkg/lexer"
	"github.com/Athos-0day/AthosCcompiler/pkg/parser"
	"github.com/Athos-0day/AthosCcompiler/pkg/resolve"
	"github.com/Athos-0day/AthosCcompiler/pkg/stacking"
	"github.com/Athos-0day/AthosCcompiler/pkg/tacky"
)

// Mode selects which phase the driver runs to and what it does with
// the result.
type Mode int

const (
	ModeLex Mode = iota
	ModeParse
	ModeValidate
	ModeTacky
	ModeCodegen
	ModeCompile
)

// Assembler invokes an external toolchain to turn assembly text into
// an executable. The default implementation shells out to cc; tests
// substitute a fake that records its arguments.
type Assembler interface {
	Assemble(asmPath, outPath string) error
}

// CCAssembler runs a cc-compatible driver (clang/gcc) via os/exec.
type CCAssembler struct {
	// CC names the executable to invoke; defaults to "cc" if empty.
	CC string
}

// Assemble runs `<cc> -o outPath asmPath`, adding -arch x86_64 on
// Darwin to match the clang invocation spec.md's driver describes.
func (a CCAssembler) Assemble(asmPath, outPath string) error {
	cc := a.CC
	if cc == "" {
		cc = "cc"
	}
	args := []string{}
	if runtime.GOOS == "darwin" {
		args = append(args, "-arch", "x86_64")
	}
	args = append(args, "-o", outPath, asmPath)
	cmd := exec.Command(cc, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return fmt.Errorf("assembler exited with status %d", exitErr.ExitCode())
		}
		return fmt.Errorf("failed to invoke assembler %q: %w", cc, err)
	}
	return nil
}

// Options configures a single Compile invocation.
type Options struct {
	Mode       Mode
	SourcePath string
	Output     io.Writer // receives --lex/--parse/--validate/--tacky/--codegen dumps
	OutPath    string    // executable path for --compile; derived from SourcePath if empty
	KeepAsm    bool
	Assembler  Assembler
}

// Run executes opts.Mode against opts.SourcePath, writing any IR dump
// to opts.Output. It returns a non-nil error for every failure kind
// in §7; the caller (cmd/minicc) is responsible for the "Error: "
// prefix and the process exit code.
func Run(opts Options) error {
	src, err := os.ReadFile(opts.SourcePath)
	if err != nil {
		return fmt.Errorf("cannot open source file %q: %w", opts.SourcePath, err)
	}

	l := lexer.New(string(src))
	if opts.Mode == ModeLex {
		return dumpTokens(opts.Output, l)
	}

	prog, err := parser.Parse(l)
	if err != nil {
		return err
	}
	if opts.Mode == ModeParse {
		ast.NewPrinter(opts.Output).PrintProgram(prog)
		return nil
	}

	resolved, err := resolve.Resolve(prog)
	if err != nil {
		return err
	}
	if opts.Mode == ModeValidate {
		ast.NewPrinter(opts.Output).PrintProgram(resolved)
		return nil
	}

	tackyProg := tacky.Lower(resolved)
	if opts.Mode == ModeTacky {
		tacky.NewPrinter(opts.Output).PrintProgram(tackyProg)
		return nil
	}

	translated := asdl.Translate(tackyProg)
	fn, _ := stacking.Assign(translated.Function)
	fn = legalize.Legalise(fn)
	legalised := &asdl.Program{Function: fn}
	if opts.Mode == ModeCodegen {
		asdl.NewPrinter(opts.Output).PrintProgram(legalised)
		return nil
	}

	return compile(opts, legalised)
}

func dumpTokens(w io.Writer, l *lexer.Lexer) error {
	for {
		tok, err := l.NextToken()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s %q (line %d)\n", tok.Type, tok.Literal, tok.Line)
		if tok.Type == lexer.TokenEOF {
			return nil
		}
	}
}

func compile(opts Options, prog *asdl.Program) error {
	const asmPath = "out.s"

	f, err := os.Create(asmPath)
	if err != nil {
		return fmt.Errorf("cannot open output file %q: %w", asmPath, err)
	}
	asm.NewPrinter(f).PrintProgram(prog)
	if err := f.Close(); err != nil {
		return fmt.Errorf("cannot write output file %q: %w", asmPath, err)
	}

	outPath := opts.OutPath
	if outPath == "" {
		outPath = deriveBasename(opts.SourcePath)
	}

	assembler := opts.Assembler
	if assembler == nil {
		assembler = CCAssembler{}
	}
	if err := assembler.Assemble(asmPath, outPath); err != nil {
		return err
	}

	if !opts.KeepAsm {
		os.Remove(asmPath)
	}
	return nil
}

// deriveBasename strips directory and extension from path, matching
// §6's "<basename> is derived from the input path by stripping
// directory and extension".
func deriveBasename(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}
