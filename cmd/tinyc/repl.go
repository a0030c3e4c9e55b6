package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/raymyers/tinyc/pkg/ast"
	"github.com/raymyers/tinyc/pkg/check"
	"github.com/raymyers/tinyc/pkg/config"
	"github.com/raymyers/tinyc/pkg/diag"
	"github.com/raymyers/tinyc/pkg/interp"
	"github.com/raymyers/tinyc/pkg/lexer"
	"github.com/raymyers/tinyc/pkg/parser"
)

const (
	historyFile = ".tinyc_history"
	promptMain  = "tinyc> "
	promptCont  = "  ...> "
)

const helpText = `Enter statements, function definitions or expressions ending in ';'.
Commands:
  :help         show this help
  :load <file>  define the functions of a file in this session
  :reset        forget every definition
  :quit         leave the REPL
`

// lineReader is the part of liner.State the REPL loop needs
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func newReplCmd(out, errOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			r, err := newRepl(cfg, newLogger(cfg, errOut), out, errOut)
			if err != nil {
				return err
			}

			ln := liner.NewLiner()
			defer ln.Close()
			ln.SetCtrlCAborts(true)

			home, _ := os.UserHomeDir()
			histPath := filepath.Join(home, historyFile)
			if f, err := os.Open(histPath); err == nil {
				_, _ = ln.ReadHistory(f)
				_ = f.Close()
			}

			fmt.Fprintf(out, "tinyc %s, :help for help\n", version)
			r.loop(ln)

			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
			return nil
		},
	}
}

// repl holds one interactive session. Definitions accumulate in a session
// scope of both the validator and the interpreter; input that fails is
// rolled back from both.
type repl struct {
	cfg    *config.Config
	log    *slog.Logger
	out    io.Writer
	errOut io.Writer
	d      *diagnostics

	checker *check.Checker
	cscope  *check.Env
	in      *interp.Interpreter
	sess    *interp.Session
}

func newRepl(cfg *config.Config, log *slog.Logger, out, errOut io.Writer) (*repl, error) {
	r := &repl{cfg: cfg, log: log, out: out, errOut: errOut, d: newDiagnostics(errOut, "<repl>")}
	if err := r.reset(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *repl) reset() error {
	opts, err := r.cfg.InterpOptions()
	if err != nil {
		return err
	}
	opts = append(opts, interp.WithOutput(r.out), interp.WithLogger(r.log))
	r.checker = check.New()
	r.cscope = r.checker.Global().Child("session")
	r.in = interp.New(opts...)
	r.sess = r.in.NewSession()
	return nil
}

func (r *repl) loop(ln lineReader) {
	for {
		src, ok := r.read(ln)
		if !ok {
			fmt.Fprintln(r.out)
			return
		}
		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if done := r.command(trimmed); done {
				return
			}
			continue
		}
		_ = r.exec(src)
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
	}
}

// read collects lines until they parse or fail for a reason other than
// running out of input
func (r *repl) read(ln lineReader) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl+C drops the pending input
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		_, perr := parseStatements(src)
		var de *diag.Error
		if perr != nil && errors.As(perr, &de) && de.Kind == diag.KindEndOfInput {
			continue
		}
		return src, true
	}
}

func parseStatements(src string) ([]ast.Stmt, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := parser.New(tokens)
	var stmts []ast.Stmt
	for !p.AtEnd() {
		stmt, err := p.ParseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// exec validates and runs src. Nothing src declared survives a failure.
func (r *repl) exec(src string) error {
	stmts, err := parseStatements(src)
	if err != nil {
		return r.d.report(err)
	}
	restoreChecker := r.cscope.Checkpoint()
	restoreSession := r.sess.Checkpoint()
	for _, stmt := range stmts {
		err := r.checker.CheckStmt(r.cscope, stmt)
		var v any
		if err == nil {
			v, err = r.sess.Exec(stmt)
		}
		if err != nil {
			restoreChecker()
			restoreSession()
			return r.d.report(err)
		}
		if _, ok := stmt.(*ast.ExprStmt); ok && v != nil {
			fmt.Fprintln(r.out, r.d.value.Render(interp.FormatValue(v)))
		}
	}
	return nil
}

// command runs a ':' command and reports whether the session should end
func (r *repl) command(line string) bool {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case ":quit", ":exit", ":q":
		return true
	case ":help":
		fmt.Fprint(r.out, helpText)
	case ":reset":
		if err := r.reset(); err != nil {
			fmt.Fprintln(r.errOut, r.d.format(err))
			return false
		}
		fmt.Fprintln(r.out, r.d.muted.Render("session reset"))
	case ":load":
		if len(fields) < 2 {
			fmt.Fprintln(r.errOut, "usage: :load <file>")
			return false
		}
		r.load(fields[1])
	default:
		fmt.Fprintf(r.errOut, "unknown command %s, :help for help\n", fields[0])
	}
	return false
}

// load defines every function of a program file in the session
func (r *repl) load(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(r.errOut, "tinyc: error reading %s: %v\n", path, err)
		return
	}
	d := newDiagnostics(r.errOut, path)
	root, err := parser.ParseSource(string(content))
	if err != nil {
		_ = d.report(err)
		return
	}
	restoreChecker := r.cscope.Checkpoint()
	restoreSession := r.sess.Checkpoint()
	for _, f := range root.Functions {
		err := r.checker.CheckStmt(r.cscope, f)
		if err == nil {
			_, err = r.sess.Exec(f)
		}
		if err != nil {
			restoreChecker()
			restoreSession()
			_ = d.report(err)
			return
		}
	}
	fmt.Fprintln(r.out, r.d.muted.Render(fmt.Sprintf("loaded %d functions from %s", len(root.Functions), path)))
}
