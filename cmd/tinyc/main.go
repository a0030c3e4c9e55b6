package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/raymyers/tinyc/pkg/ast"
	"github.com/raymyers/tinyc/pkg/check"
	"github.com/raymyers/tinyc/pkg/config"
	"github.com/raymyers/tinyc/pkg/interp"
	"github.com/raymyers/tinyc/pkg/lexer"
	"github.com/raymyers/tinyc/pkg/logger"
	"github.com/raymyers/tinyc/pkg/parser"
)

var version = "0.1.0"

// Debug flags for dumping intermediate stages
var (
	dTokens   bool
	dParse    bool
	dTree     bool
	checkOnly bool
)

// Settings flags; when given they override the config file
var (
	configPath string
	division   string
	maxDepth   int
	logLevel   string
	logFormat  string
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	rootCmd.SetArgs(normalizeFlags(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintf(os.Stderr, "tinyc: %v\n", err)
		}
		return 1
	}
	return 0
}

// debugFlagNames lists the flags that also accept a single dash (-dparse)
var debugFlagNames = []string{"dtokens", "dparse", "dtree"}

// normalizeFlags converts single-dash debug flags like -dparse to --dparse
func normalizeFlags(args []string) []string {
	result := make([]string, len(args))
	for i, arg := range args {
		result[i] = arg
		for _, flagName := range debugFlagNames {
			if arg == "-"+flagName {
				result[i] = "--" + flagName
				break
			}
		}
	}
	return result
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tinyc [file]",
		Short: "tinyc runs programs written in a small C-like language",
		Long: `tinyc tokenizes, parses, validates and evaluates a program in a
small C-like language, printing printf output followed by the
value returned from main.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			cfg, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cfg, errOut)
			return runFile(args[0], cfg, log, out, errOut)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().BoolVar(&dTokens, "dtokens", false, "Dump tokens, one per line")
	rootCmd.Flags().BoolVar(&dParse, "dparse", false, "Dump the program as source after parsing")
	rootCmd.Flags().BoolVar(&dTree, "dtree", false, "Dump the validated syntax tree")
	rootCmd.Flags().BoolVar(&checkOnly, "check", false, "Stop after validation")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Configuration file (.toml, .yaml or .yml); defaults to $"+config.EnvVar)
	pf.StringVar(&division, "division", "", "Integer division rounding: floor or trunc")
	pf.IntVar(&maxDepth, "max-depth", 0, "Maximum call depth, 0 for unbounded")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.StringVar(&logFormat, "log-format", "", "Log format: text or json")

	rootCmd.AddCommand(newReplCmd(out, errOut))
	return rootCmd
}

// loadSettings reads the config file and applies explicitly set flags
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("division") {
		cfg.Division = division
	}
	if flags.Changed("max-depth") {
		cfg.MaxCallDepth = maxDepth
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the run's logger; every record carries a run_id
func newLogger(cfg *config.Config, errOut io.Writer) *slog.Logger {
	lc, err := cfg.LoggerConfig()
	if err != nil {
		lc = logger.DefaultConfig()
	}
	lc.Output = errOut
	return logger.New(lc).With("run_id", uuid.NewString())
}

func readSource(filename string, errOut io.Writer) (string, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(errOut, "tinyc: error reading %s: %v\n", filename, err)
		return "", &reportedError{fmt.Errorf("reading %s: %w", filename, err)}
	}
	return string(content), nil
}

// runFile drives the pipeline over one file, stopping where a debug flag asks
func runFile(filename string, cfg *config.Config, log *slog.Logger, out, errOut io.Writer) error {
	content, err := readSource(filename, errOut)
	if err != nil {
		return err
	}
	d := newDiagnostics(errOut, filename)

	tokens, err := lexer.Tokenize(content)
	if err != nil {
		return d.report(err)
	}
	logger.LogPhase(log, "tokenized", "file", filename, "count", len(tokens))
	if dTokens {
		for _, tok := range tokens {
			fmt.Fprintf(out, "%s '%s'\n", tok.Type, tok.Literal)
		}
		return nil
	}

	root, err := parser.Parse(tokens)
	if err != nil {
		return d.report(err)
	}
	logger.LogPhase(log, "parsed", "functions", len(root.Functions))
	if dParse {
		ast.NewPrinter(out).PrintRoot(root)
		return nil
	}

	if err := check.Validate(root); err != nil {
		return d.report(err)
	}
	logger.LogPhase(log, "validated")
	if dTree {
		fmt.Fprint(out, ast.DebugString(root))
		return nil
	}
	if checkOnly {
		return nil
	}

	opts, err := cfg.InterpOptions()
	if err != nil {
		return err
	}
	w := &lineWriter{w: out}
	opts = append(opts, interp.WithOutput(w), interp.WithLogger(log))
	result, err := interp.New(opts...).Evaluate(root)
	if err != nil {
		return d.report(err)
	}
	logger.LogPhase(log, "evaluated", "result", interp.FormatValue(result))

	if result != nil {
		if w.open {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, interp.FormatValue(result))
	}
	return nil
}

// lineWriter remembers whether the last write left a line unterminated
type lineWriter struct {
	w    io.Writer
	open bool
}

func (lw *lineWriter) Write(p []byte) (int, error) {
	n, err := lw.w.Write(p)
	if n > 0 {
		lw.open = p[n-1] != '\n'
	}
	return n, err
}
