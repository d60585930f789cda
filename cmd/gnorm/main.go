/*
Gnorm reads a context-free grammar and prints a report of its normalization.

It parses the grammar, echoes it back, lists its symbols and rules, reports
which nonterminals have empty productions and whether the grammar contains a
cycle of unit productions, puts the grammar into proper form, and finally
attempts to remove all left recursion from it.

Usage:

	gnorm [flags] [FILE]

If FILE is not given, or is empty, "-" or "--", the grammar is read from stdin.
Each line of the grammar holds one production such as "E --> E + T | T". An
empty alternative stands for an empty production. Single uppercase letters and
bracketed names such as "<expr>" that head a production are nonterminals;
every other symbol is a terminal.

The flags are:

	-v, --version
		Give the current version of gnorm and then exit.

	-c, --config FILE
		Load report configuration from the given TOML file. If not given, will
		default to the value of environment variable GNORM_CONFIG, and if that
		is not given, built-in defaults are used.

	-i, --interactive
		Read the grammar from the terminal using GNU readline style editing.
		Entry ends at the first empty line or at end of input.

	-t, --trace LEVEL
		Set the level of trace output to one of "debug", "info" or "error".
		Overrides the trace_level set in the config file.

	-o, --output FILE
		Write a binary snapshot of the proper form of the grammar to FILE.

	-b, --binary
		Read FILE as a binary snapshot previously written with --output
		instead of as grammar text.

The program exits with status 1 if the grammar could not be read or parsed.
*/
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dekarrin/gnorm"
	"github.com/dekarrin/gnorm/internal/config"
	"github.com/dekarrin/gnorm/internal/gramerr"
	"github.com/dekarrin/gnorm/internal/grammar"
	"github.com/dekarrin/gnorm/internal/input"
	"github.com/dekarrin/gnorm/internal/version"
	"github.com/npillmayer/schuko/tracing"
	_ "github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/pterm/pterm"
	"github.com/spf13/pflag"
)

const (
	// EnvConfig is the environment variable giving the config file to use
	// when --config is not given.
	EnvConfig = "GNORM_CONFIG"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitInputError indicates the grammar could not be read or parsed.
	ExitInputError

	// ExitInitError indicates an unsuccessful program execution due to bad
	// flags or configuration.
	ExitInitError
)

var tracerKeys = []string{"gnorm.grammar", "gnorm.gramfile"}

var (
	flagVersion     = pflag.BoolP("version", "v", false, "Give the current version of gnorm and then exit.")
	flagConfig      = pflag.StringP("config", "c", "", "Load report configuration from the given TOML file.")
	flagInteractive = pflag.BoolP("interactive", "i", false, "Read the grammar interactively until an empty line.")
	flagTrace       = pflag.StringP("trace", "t", "", "Set the trace level (debug, info, or error).")
	flagOutput      = pflag.StringP("output", "o", "", "Write a binary snapshot of the proper form to the given file.")
	flagBinary      = pflag.BoolP("binary", "b", false, "Read the input as a binary snapshot instead of grammar text.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("gnorm v%s\n", version.Current)
		return
	}

	args := pflag.Args()
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(ExitInitError)
	}
	var file string
	if len(args) == 1 {
		file = args[0]
	}

	cfg, err := loadConfig()
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(ExitInitError)
	}
	for _, key := range tracerKeys {
		tracing.Select(key).SetTraceLevel(cfg.Level())
	}

	if *flagInteractive && *flagBinary {
		fmt.Fprintf(os.Stderr, "--interactive and --binary cannot be used together\nDo -h for help.\n")
		os.Exit(ExitInitError)
	}

	var report gnorm.Report
	if *flagBinary {
		report, err = analyzeSnapshot(file, cfg)
	} else {
		report, err = analyzeText(file, cfg)
	}
	if err != nil {
		pterm.Error.Println(gramerr.Message(err))
		os.Exit(ExitInputError)
	}

	fmt.Print(report.Render())

	if report.LeftRecursionErr != nil {
		pterm.Warning.Println("Left recursion remains in the grammar")
	}

	if *flagOutput != "" {
		if err := writeSnapshot(*flagOutput, report.Proper); err != nil {
			pterm.Error.Println(err.Error())
			os.Exit(ExitInitError)
		}
		pterm.Success.Printf("Wrote proper form to %s\n", *flagOutput)
	}
}

// loadConfig gets the config from the file named by flag or environment, then
// applies flag overrides to it.
func loadConfig() (config.Config, error) {
	cfgPath := os.Getenv(EnvConfig)
	if pflag.Lookup("config").Changed {
		cfgPath = *flagConfig
	}

	cfg := config.Default()
	if cfgPath != "" {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		pterm.Info.Printf("Using config file %s\n", cfgPath)
	}

	if pflag.Lookup("trace").Changed {
		cfg.TraceLevel = *flagTrace
	}

	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func isStdin(file string) bool {
	return file == "" || file == "-" || file == "--"
}

func analyzeText(file string, cfg config.Config) (gnorm.Report, error) {
	var r input.LineReader
	stopAtBlank := false

	switch {
	case *flagInteractive:
		ilr, err := input.NewInteractiveReader("gnorm> ")
		if err != nil {
			return gnorm.Report{}, err
		}
		pterm.Info.Println("Enter the grammar one production per line; end with an empty line")
		r = ilr
		stopAtBlank = true
	case isStdin(file):
		r = input.NewDirectReader(os.Stdin)
	default:
		f, err := os.Open(file)
		if err != nil {
			return gnorm.Report{}, fmt.Errorf("open grammar: %w", err)
		}
		r = input.NewDirectReader(f)
		defer f.Close()
	}
	defer r.Close()

	src, err := input.ReadGrammar(r, stopAtBlank)
	if err != nil {
		return gnorm.Report{}, err
	}

	return gnorm.Analyze(src, cfg)
}

func analyzeSnapshot(file string, cfg config.Config) (gnorm.Report, error) {
	var data []byte
	var err error
	if isStdin(file) {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return gnorm.Report{}, fmt.Errorf("read snapshot: %w", err)
	}

	var g grammar.Grammar
	if err := g.UnmarshalBinary(data); err != nil {
		return gnorm.Report{}, fmt.Errorf("decode snapshot: %w", err)
	}

	return gnorm.AnalyzeGrammar(g, cfg)
}

func writeSnapshot(file string, g grammar.Grammar) error {
	data, err := g.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(file, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
