package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// ExecFunc runs a verb. It is called at most once per dispatch, after all options have been
// parsed and validated.
type ExecFunc func(ctx context.Context, s *State) error

// State is what a verb's [ExecFunc] receives.
type State struct {
	// Verb is the resolved verb.
	Verb *Verb
	// Name is the name the verb was invoked by. It differs from Verb.Name when an alias was used,
	// and equals the default verb's name when no verb token was given.
	Name string

	// Options holds every shared and verb option, set or not, plus the positional arguments.
	Options *ParsedOptions
	// Args contains the positional arguments, same as Options.Args().
	Args []string

	// Standard I/O streams.
	Stdin          io.Reader
	Stdout, Stderr io.Writer

	Logger *slog.Logger
}

// GetOption returns an option value by ID with type inference. Switches are read as bool and
// flags as string:
//
//	force := GetOption[bool](s, "force")
//	file := GetOption[string](s, "file")
//
// It panics if the option is not declared or declared with the other kind. A missing option is a
// programming error in the verb definition, and it is better to fail loud and early than to
// silently treat the option as unset.
func GetOption[T bool | string](s *State, id string) T {
	var zero T
	switch any(zero).(type) {
	case bool:
		return any(s.Options.Bool(id)).(T)
	case string:
		return any(s.Options.String(id)).(T)
	}
	panic(fmt.Errorf("internal error: unsupported option type %T", zero))
}
