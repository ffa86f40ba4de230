package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Athos-0day/AthosCcompiler/pkg/driver"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// Debug/mode flags, each short-circuiting to a single IR dump.
var (
	modeLex      bool
	modeParse    bool
	modeValidate bool
	modeTacky    bool
	modeCodegen  bool
	modeCompile  bool
)

var (
	outputPath string
	keepAsm    bool
	ccPath     string
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	rootCmd.SetArgs(normalizeFlags(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

// modeFlagNames lists the mode flags that should also accept
// single-dash style, matching the teacher's CompCert-compatible
// normalizeFlags convention.
var modeFlagNames = []string{"lex", "parse", "validate", "tacky", "codegen", "compile"}

// normalizeFlags converts single-dash mode flags like -lex to --lex.
func normalizeFlags(args []string) []string {
	result := make([]string, len(args))
	for i, arg := range args {
		result[i] = arg
		for _, name := range modeFlagNames {
			if arg == "-"+name {
				result[i] = "--" + name
				break
			}
		}
	}
	return result
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "minicc [file]",
		Short:         "minicc compiles a minimal subset of C to x86-64 assembly",
		Version:       version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := resolveMode()
			if err != nil {
				fmt.Fprintf(errOut, "minicc: Error: %s\n", err)
				return err
			}

			opts := driver.Options{
				Mode:       mode,
				SourcePath: args[0],
				Output:     out,
				OutPath:    outputPath,
				KeepAsm:    keepAsm,
			}
			if ccPath != "" {
				opts.Assembler = driver.CCAssembler{CC: ccPath}
			}

			if err := driver.Run(opts); err != nil {
				fmt.Fprintf(errOut, "minicc: Error: %s\n", err)
				return err
			}
			return nil
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().BoolVar(&modeLex, "lex", false, "Lex the source and dump the token stream")
	rootCmd.Flags().BoolVar(&modeParse, "parse", false, "Parse the source and dump the AST")
	rootCmd.Flags().BoolVar(&modeValidate, "validate", false, "Resolve names and dump the validated AST")
	rootCmd.Flags().BoolVar(&modeTacky, "tacky", false, "Lower to TACKY and dump it")
	rootCmd.Flags().BoolVar(&modeCodegen, "codegen", false, "Translate to ASDL, legalise, and dump it")
	rootCmd.Flags().BoolVar(&modeCompile, "compile", false, "Compile to an executable (default)")

	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output executable path (default: derived from the source filename)")
	rootCmd.Flags().BoolVar(&keepAsm, "keep-asm", true, "Keep the generated out.s after a successful link")
	rootCmd.Flags().StringVar(&ccPath, "cc", "", "Assembler/linker to invoke (default: cc on PATH)")

	return rootCmd
}

// resolveMode maps the mutually exclusive mode flags to a driver.Mode,
// defaulting to ModeCompile when none is given, per §6.
func resolveMode() (driver.Mode, error) {
	set := 0
	mode := driver.ModeCompile
	check := func(flag bool, m driver.Mode) {
		if flag {
			set++
			mode = m
		}
	}
	check(modeLex, driver.ModeLex)
	check(modeParse, driver.ModeParse)
	check(modeValidate, driver.ModeValidate)
	check(modeTacky, driver.ModeTacky)
	check(modeCodegen, driver.ModeCodegen)
	check(modeCompile, driver.ModeCompile)

	if set > 1 {
		return mode, fmt.Errorf("at most one mode flag may be given")
	}
	return mode, nil
}
