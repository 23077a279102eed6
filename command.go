package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// NoExecError is returned when a verb has no execution function.
type NoExecError struct {
	Verb *Verb
}

func (e *NoExecError) Error() string {
	return fmt.Sprintf("command %q has no execution function", e.Verb.Name)
}

// Command is a top-level program: its name and help text, the options shared by every verb, and
// the verbs themselves.
type Command struct {
	// Name is the program name used in usage lines and completion scripts. A single word.
	Name string

	// Usage provides the command's full usage pattern. If empty, one is derived.
	//
	// Example: "brew [flags] <command> [args...]"
	Usage string

	// ShortHelp is a brief description of the program shown at the top of the help text.
	ShortHelp string

	// UsageFunc optionally replaces the top-level help text.
	UsageFunc func(*Command) string

	// Options are shared by every verb. They may appear before or after the verb token.
	Options []*Option

	// Verbs holds the registered verbs. [Command.Register] creates it on first use.
	Verbs *Registry

	// LookupEnv resolves option environment fallbacks. If nil, [os.LookupEnv] is used.
	LookupEnv func(key string) (string, bool)
}

// Register validates v against the shared options and adds it to the command's registry. A verb
// option that reuses a shared spelling or ID is a [*SchemaError]; a name or alias that is already
// taken is a [*DuplicateNameError].
func (c *Command) Register(v *Verb, aliases ...string) error {
	if v == nil {
		return errors.New("failed to register: verb is nil")
	}
	if v.Exec == nil {
		return &NoExecError{Verb: v}
	}
	if err := ValidateSchema(c.Options); err != nil {
		return fmt.Errorf("command %q: %w", c.Name, err)
	}
	if _, err := MergeSchemas(c.Options, v.Options); err != nil {
		return fmt.Errorf("verb %q: %w", v.Name, err)
	}
	if c.Verbs == nil {
		c.Verbs = NewRegistry()
	}
	return c.Verbs.Register(v, aliases...)
}

// MustRegister is like Register but panics on error. Intended for program initialization, where a
// registration error is a bug in the program's definition.
func (c *Command) MustRegister(v *Verb, aliases ...string) {
	if err := c.Register(v, aliases...); err != nil {
		panic(err)
	}
}

func (c *Command) registry() *Registry {
	if c.Verbs == nil {
		return NewRegistry()
	}
	return c.Verbs
}

func (c *Command) lookupEnv() func(string) (string, bool) {
	if c.LookupEnv == nil {
		return os.LookupEnv
	}
	return c.LookupEnv
}

func (c *Command) validate() error {
	if c.Name == "" {
		return errors.New("root command has no name")
	}
	if strings.ContainsAny(c.Name, " \t\n") {
		return fmt.Errorf("command name %q contains spaces, must be a single word", c.Name)
	}
	if err := ValidateSchema(c.Options); err != nil {
		return fmt.Errorf("command %q: %w", c.Name, err)
	}
	return nil
}
