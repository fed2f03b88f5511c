// Package repl implements the interactive loop. Each line is compiled on its
// own and run against one long-lived interpreter, so definitions persist.
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/javanhut/Lox/src/ast"
	"github.com/javanhut/Lox/src/config"
	"github.com/javanhut/Lox/src/evaluator"
	"github.com/javanhut/Lox/src/object"
)

const banner = "Lox REPL\nCtrl+C cancels input, Ctrl+D exits. Type :globals to list definitions, :quit to exit."

// Session evaluates REPL lines against a shared interpreter.
type Session struct {
	interp *evaluator.Interpreter
	out    io.Writer
	errOut io.Writer
	color  bool
	echo   bool
}

func NewSession(out, errOut io.Writer, cfg *config.Config, opts ...evaluator.Option) *Session {
	opts = append([]evaluator.Option{evaluator.WithOutput(out)}, opts...)
	return &Session{
		interp: evaluator.New(opts...),
		out:    out,
		errOut: errOut,
		color:  cfg.Color,
		echo:   cfg.EchoResults,
	}
}

// EvalLine compiles and runs one line and reports whether it succeeded.
// Errors are written to the error stream and never end the session.
func (s *Session) EvalLine(line string) bool {
	if strings.TrimSpace(line) == "" {
		return true
	}

	statements, errs := Compile(line, "", s.interp)
	if len(errs) > 0 {
		// Allow a bare expression without its terminating semicolon.
		retried, retryErrs := Compile(line+";", "", s.interp)
		if len(retryErrs) > 0 {
			for _, err := range errs {
				fmt.Fprint(s.errOut, err.Render(s.color))
			}
			return false
		}
		statements = retried
	}

	if s.echo && len(statements) == 1 {
		if expr, ok := statements[0].(*ast.Expression); ok {
			value, err := s.interp.Evaluate(expr.Expression)
			if err != nil {
				s.report(err)
				return false
			}
			fmt.Fprintln(s.out, s.paintValue(value))
			return true
		}
	}

	if err := s.interp.Interpret(statements); err != nil {
		s.report(err)
		return false
	}
	return true
}

// Command handles a line starting with ':' and reports whether the session
// should end.
func (s *Session) Command(line string) (quit bool) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case ":quit":
		return true
	case ":globals":
		fmt.Fprintln(s.out, strings.Join(s.interp.Globals().GetNames(), " "))
	default:
		fmt.Fprintln(s.out, "unknown command. Type :globals or :quit.")
	}
	return false
}

func (s *Session) report(err error) {
	var rtErr *object.Error
	if errors.As(err, &rtErr) {
		fmt.Fprint(s.errOut, rtErr.Render(s.color))
		return
	}
	fmt.Fprintln(s.errOut, err)
}

func (s *Session) paintValue(value object.Object) string {
	if !s.color {
		return value.Inspect()
	}
	switch value.(type) {
	case *object.String:
		return "\033[32m" + value.Inspect() + "\033[0m"
	case *object.Integer, *object.Decimal:
		return "\033[33m" + value.Inspect() + "\033[0m"
	}
	return value.Inspect()
}

// Start runs the REPL on stdin. A terminal gets line editing and history;
// piped input is read line by line without prompts.
func Start(cfg *config.Config, opts ...evaluator.Option) error {
	session := NewSession(os.Stdout, os.Stderr, cfg, opts...)
	if !isTerminal(os.Stdin) {
		return session.Run(os.Stdin)
	}
	return session.interactive(cfg.Prompt, cfg.HistoryPath())
}

// Run evaluates every line of r in order.
func (s *Session) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), ":") {
			if s.Command(line) {
				return nil
			}
			continue
		}
		s.EvalLine(line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("repl: read input: %w", err)
	}
	return nil
}

func (s *Session) interactive(prompt, historyPath string) error {
	fmt.Fprintln(s.out, banner)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(s.out)
			return nil
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			return fmt.Errorf("repl: %w", err)
		}

		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, ":") {
			if s.Command(trimmed) {
				return nil
			}
			continue
		}
		if trimmed == "" {
			continue
		}

		ln.AppendHistory(line)
		s.EvalLine(line)
	}
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
