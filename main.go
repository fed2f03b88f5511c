package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/javanhut/Lox/src/config"
	"github.com/javanhut/Lox/src/evaluator"
	"github.com/javanhut/Lox/src/object"
	"github.com/javanhut/Lox/src/repl"
)

const (
	exitUsage   = 64
	exitSyntax  = 65
	exitRuntime = 70
	exitIO      = 74
)

func red(s string) string { return "\x1b[31m" + s + "\x1b[0m" }

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("lox", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to a YAML config file (default ~/"+config.DefaultFileName+")")
	trace := fs.Bool("trace", false, "log every function call and return to stderr")
	noColor := fs.Bool("no-color", false, "disable ANSI colours in diagnostics")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: lox [-config path] [-trace] [-no-color] [file]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return exitUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, red(err.Error()))
		return exitUsage
	}
	if *trace {
		cfg.Trace = true
	}
	if *noColor {
		cfg.Color = false
	}

	var opts []evaluator.Option
	if cfg.Trace {
		handler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		opts = append(opts, evaluator.WithTracer(slog.New(handler)))
	}

	if fs.NArg() == 0 {
		if err := repl.Start(cfg, opts...); err != nil {
			fmt.Fprintln(stderr, paint(cfg.Color, err.Error()))
			return exitIO
		}
		return 0
	}
	return runFile(fs.Arg(0), cfg, stdout, stderr, opts)
}

func runFile(path string, cfg *config.Config, stdout, stderr io.Writer, opts []evaluator.Option) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(stderr, paint(cfg.Color, fmt.Sprintf("lox: %v", err)))
		return exitIO
	}
	source := string(data)

	opts = append([]evaluator.Option{
		evaluator.WithOutput(stdout),
		evaluator.WithSource(source, cfg.ContextLines),
	}, opts...)
	interp := evaluator.New(opts...)

	statements, errs := repl.Compile(source, path, interp)
	if len(errs) > 0 {
		repl.AttachContext(errs, source, cfg.ContextLines)
		for _, err := range errs {
			fmt.Fprint(stderr, err.Render(cfg.Color))
		}
		return exitSyntax
	}

	if err := interp.Interpret(statements); err != nil {
		var rtErr *object.Error
		if errors.As(err, &rtErr) {
			fmt.Fprint(stderr, rtErr.Render(cfg.Color))
		} else {
			fmt.Fprintln(stderr, paint(cfg.Color, err.Error()))
		}
		return exitRuntime
	}
	return 0
}

func paint(color bool, s string) string {
	if color {
		return red(s)
	}
	return s
}
