package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// ParseAndRun parses the arguments and runs the resolved verb. A convenience function that
// combines [Parse] and [Run] into a single call. See [Parse] and [Run] for more details.
func ParseAndRun(
	ctx context.Context,
	root *Command,
	args []string,
	options *RunOptions,
) error {
	inv, err := Parse(root, args)
	if err != nil {
		return err
	}
	return Run(ctx, inv, options)
}

// RunOptions specifies options for running a command.
type RunOptions struct {
	// Stdin, Stdout, and Stderr are the standard input, output, and error streams for the command.
	// If any of these are nil, the command will use the default streams ([os.Stdin], [os.Stdout],
	// and [os.Stderr], respectively).
	Stdin          io.Reader
	Stdout, Stderr io.Writer

	// Width is the column width help text is wrapped to. If zero, the terminal width is used when
	// Stdout is a terminal, otherwise 80.
	Width int

	// Logger is handed to verbs through [State]. If nil, [slog.Default] is used.
	Logger *slog.Logger
}

// Run executes a parsed invocation. For a help stage it writes the matching help text to Stdout.
// Otherwise it calls the verb's execution function exactly once; an error it returns is wrapped in
// a [*HandlerError] that keeps its message.
//
// The options parameter may be nil, in which case default values are used. See [RunOptions] for
// more details.
func Run(ctx context.Context, inv *Invocation, options *RunOptions) error {
	if inv == nil || inv.Root == nil {
		return errors.New("command has not been parsed")
	}
	options = checkAndSetRunOptions(options)

	switch inv.Stage {
	case StageHelpTop, StageHelpVerb:
		_, err := fmt.Fprintln(options.Stdout, inv.Usage(options.Width))
		return err
	}
	if inv.Verb == nil || inv.Options == nil {
		return errors.New("command has not been parsed")
	}
	if inv.Verb.Exec == nil {
		return &NoExecError{Verb: inv.Verb}
	}

	state := &State{
		Verb:    inv.Verb,
		Name:    inv.Name,
		Options: inv.Options,
		Args:    inv.Options.Args(),
		Stdin:   options.Stdin,
		Stdout:  options.Stdout,
		Stderr:  options.Stderr,
		Logger:  options.Logger,
	}
	options.Logger.Debug("Running verb.", "verb", inv.Verb.Name, "name", inv.Name)
	if err := inv.Verb.Exec(ctx, state); err != nil {
		return &HandlerError{Verb: inv.Verb.Name, Err: err}
	}
	return nil
}

// Main parses args, runs the resolved verb and returns the process exit code, so a program's main
// function can be:
//
//	os.Exit(cli.Main(ctx, root, os.Args[1:], nil))
//
// Errors are written to Stderr as a single "error: <message>" line. Unknown verbs are followed by
// the top-level help and parse errors by the verb's help. See [ExitCode] for the exit codes.
func Main(ctx context.Context, root *Command, args []string, options *RunOptions) int {
	options = checkAndSetRunOptions(options)
	err := ParseAndRun(ctx, root, args, options)
	if err == nil {
		return 0
	}
	writeError(options.Stderr, err)
	if root != nil {
		if usage := usageFor(root, err, options.Width); usage != "" {
			fmt.Fprintf(options.Stderr, "\n%s\n", usage)
		}
	}
	return ExitCode(err)
}

// ExitCode maps an error returned by [ParseAndRun] to a process exit code: 0 for nil, the code of
// an [*ExitError] anywhere in the chain, 1 for other handler errors, 2 for unknown verbs and parse
// errors, and 1 for anything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if exitErr := (*ExitError)(nil); errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if handlerErr := (*HandlerError)(nil); errors.As(err, &handlerErr) {
		return 1
	}
	if unknown := (*UnknownVerbError)(nil); errors.As(err, &unknown) || IsParseError(err) {
		return 2
	}
	return 1
}

func writeError(w io.Writer, err error) {
	msg := err.Error()
	if msg == "" {
		return
	}
	prefix := color.New(color.FgRed, color.Bold)
	if isTerminal(w) && !color.NoColor {
		prefix.EnableColor()
	} else {
		prefix.DisableColor()
	}
	fmt.Fprintf(w, "%s %s\n", prefix.Sprint("error:"), msg)
}

func usageFor(root *Command, err error, width int) string {
	if unknown := (*UnknownVerbError)(nil); errors.As(err, &unknown) {
		return usageText(root, width)
	}
	if parseErr := (*ParseError)(nil); errors.As(err, &parseErr) {
		if v, ok := root.registry().Resolve(parseErr.Verb); ok {
			return verbUsageText(root, v, width)
		}
	}
	return ""
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}

func checkAndSetRunOptions(opt *RunOptions) *RunOptions {
	if opt == nil {
		opt = &RunOptions{}
	}
	if opt.Stdin == nil {
		opt.Stdin = os.Stdin
	}
	if opt.Stdout == nil {
		opt.Stdout = os.Stdout
	}
	if opt.Stderr == nil {
		opt.Stderr = os.Stderr
	}
	if opt.Width <= 0 {
		opt.Width = terminalWidth(opt.Stdout)
	}
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	return opt
}
