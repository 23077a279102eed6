package cli

import (
	"errors"
	"fmt"
	"strings"
)

// DuplicateNameError is returned when a verb name or alias is registered twice.
type DuplicateNameError struct {
	// Name is the spelling that was already taken.
	Name string
	// Owner is the primary name of the verb that already owns Name.
	Owner string
	// Verb is the primary name of the verb being registered.
	Verb string
	// Self is set when the verb being registered lists Name more than once.
	Self bool
}

func (e *DuplicateNameError) Error() string {
	if e.Self {
		return fmt.Sprintf("verb %q: name %q listed more than once", e.Verb, e.Name)
	}
	return fmt.Sprintf("verb %q: name %q is already registered by verb %q", e.Verb, e.Name, e.Owner)
}

// NoDefaultConfiguredError is returned when no verb token was given and the registry has no
// default verb.
type NoDefaultConfiguredError struct{}

func (e *NoDefaultConfiguredError) Error() string {
	return "no verb specified and no default verb configured"
}

// SchemaError reports an invalid option declaration. It is a configuration error, found when a
// verb is registered or a definition file is loaded, never while parsing user input.
type SchemaError struct {
	// Option is a spelling or ID identifying the offending option, if any.
	Option string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Option == "" {
		return "invalid option schema: " + e.Reason
	}
	return fmt.Sprintf("invalid option schema: option %q: %s", e.Option, e.Reason)
}

// UnknownOptionError is returned when a token starting with "-" matches no declared spelling.
type UnknownOptionError struct {
	Token string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("unknown option %q", e.Token)
}

// MissingValueError is returned when a flag that takes a value is the last token.
type MissingValueError struct {
	Option string
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("option %q requires a value", e.Option)
}

// InvalidValueError is returned when a switch is given an explicit value that is not a boolean,
// e.g. --force=maybe.
type InvalidValueError struct {
	Option string
	Value  string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid boolean value %q for option %q", e.Value, e.Option)
}

// ConflictingOptionsError is returned when two mutually exclusive options are both present. A and B
// are ordered by declaration, so the error does not depend on the order of the tokens.
type ConflictingOptionsError struct {
	A, B string
}

func (e *ConflictingOptionsError) Error() string {
	return fmt.Sprintf("options %q and %q cannot be used together", e.A, e.B)
}

// ArityError is returned when the number of positional arguments does not satisfy the declared
// [Arity].
type ArityError struct {
	Expected Arity
	Got      int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("expected %s, got %d", e.Expected, e.Got)
}

// ParseError attaches the verb to an error raised while parsing that verb's tokens. The wrapped
// error is one of [UnknownOptionError], [MissingValueError], [InvalidValueError],
// [ConflictingOptionsError] or [ArityError].
type ParseError struct {
	Verb string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Verb == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("command %q: %v", e.Verb, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsParseError reports whether err, or any error it wraps, was raised while parsing options or
// positional arguments.
func IsParseError(err error) bool {
	var (
		unknown  *UnknownOptionError
		missing  *MissingValueError
		invalid  *InvalidValueError
		conflict *ConflictingOptionsError
		arity    *ArityError
		withVerb *ParseError
	)
	return errors.As(err, &withVerb) ||
		errors.As(err, &unknown) ||
		errors.As(err, &missing) ||
		errors.As(err, &invalid) ||
		errors.As(err, &conflict) ||
		errors.As(err, &arity)
}

// UnknownVerbError is returned when the verb token does not resolve, or when no verb was given and
// no default verb is configured.
type UnknownVerbError struct {
	// Name is the unresolvable token. Empty when no verb was specified.
	Name string
	// Suggestions are registered names similar to Name.
	Suggestions []string
	// Hint is an optional diagnostic, e.g. a registered verb appearing later in the arguments.
	Hint string
	// Err is the underlying cause, if any (e.g. [NoDefaultConfiguredError]).
	Err error
}

func (e *UnknownVerbError) Error() string {
	var b strings.Builder
	if e.Name == "" {
		b.WriteString("no verb specified")
	} else {
		fmt.Fprintf(&b, "unknown command %q", e.Name)
		if len(e.Suggestions) > 0 {
			fmt.Fprintf(&b, ". Did you mean one of these?\n\t%s", strings.Join(e.Suggestions, "\n\t"))
		}
	}
	if e.Hint != "" {
		b.WriteString("\n")
		b.WriteString(e.Hint)
	}
	return b.String()
}

func (e *UnknownVerbError) Unwrap() error { return e.Err }

// HandlerError wraps an error returned by a verb's execution function. Its message is the
// handler's message, unchanged.
type HandlerError struct {
	Verb string
	Err  error
}

func (e *HandlerError) Error() string {
	if e.Err == nil {
		return "<nil>"
	}
	return e.Err.Error()
}

func (e *HandlerError) Unwrap() error { return e.Err }

// ExitError lets a handler choose the process exit code reported by [Main].
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}
