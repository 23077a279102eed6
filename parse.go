package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/raghavtan/cli/pkg/suggest"
)

// Stage is where dispatch stopped after a successful [Parse].
type Stage int

const (
	// StageReady means a verb was resolved and its options parsed; [Run] will invoke it.
	StageReady Stage = iota
	// StageHelpTop means help was requested for the program as a whole.
	StageHelpTop
	// StageHelpVerb means help was requested for the resolved verb.
	StageHelpVerb
)

func (s Stage) String() string {
	switch s {
	case StageReady:
		return "ready"
	case StageHelpTop:
		return "help"
	case StageHelpVerb:
		return "verb help"
	default:
		return "unknown"
	}
}

// Invocation is the outcome of a successful [Parse].
type Invocation struct {
	Stage Stage
	Root  *Command

	// Name is the verb token the user typed, which may be an alias. When no verb token was given it
	// is the default verb's name. Empty for [StageHelpTop].
	Name string
	// Verb is the resolved verb. Nil for [StageHelpTop].
	Verb *Verb
	// Options holds the parsed shared and verb options. Only set for [StageReady].
	Options *ParsedOptions
}

// Usage renders the help text matching the invocation's stage, wrapped to width columns. A width of
// zero or less uses the default of 80.
func (inv *Invocation) Usage(width int) string {
	if inv.Verb == nil {
		return usageText(inv.Root, width)
	}
	return verbUsageText(inv.Root, inv.Verb, width)
}

// Parse finds the verb in args, short-circuits on a help request and parses the remaining tokens
// against the union of the shared and verb options. args is typically os.Args[1:].
//
// Help requested before the verb token, or without any verb, yields [StageHelpTop]. Help after a
// verb that resolves yields [StageHelpVerb]. Help after a verb that does not resolve is still an
// [*UnknownVerbError]. Parsing failures are returned as [*ParseError].
//
// Once parsing is complete, the invocation is ready to be executed with the [Run] function.
func Parse(root *Command, args []string) (*Invocation, error) {
	if root == nil {
		return nil, errors.New("failed to parse: root command is nil")
	}
	if err := root.validate(); err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}
	reg := root.registry()

	if helpBeforeVerb(args) {
		slog.Debug("Help requested.", "scope", "top")
		return &Invocation{Stage: StageHelpTop, Root: root}, nil
	}

	name, rest, found := ExtractVerb(args)
	slog.Debug("Extracted verb.", "verb", name, "found", found, "rest", rest)
	var verb *Verb
	if found {
		v, ok := reg.Resolve(name)
		if !ok {
			return nil, unknownVerb(reg, name, rest)
		}
		verb = v
	} else {
		v, err := reg.ResolveDefault()
		if err != nil {
			if noDefault := (*NoDefaultConfiguredError)(nil); errors.As(err, &noDefault) {
				return nil, &UnknownVerbError{Err: err}
			}
			return nil, err
		}
		verb, name = v, reg.Default()
		slog.Debug("Using default verb.", "verb", name)
	}

	if WantsHelp(beforeDoubleDash(rest)) {
		slog.Debug("Help requested.", "scope", "verb", "verb", verb.Name)
		return &Invocation{Stage: StageHelpVerb, Root: root, Name: name, Verb: verb}, nil
	}

	schema, err := MergeSchemas(root.Options, verb.Options)
	if err != nil {
		return nil, fmt.Errorf("verb %q: %w", verb.Name, err)
	}
	parser := &Parser{
		Schema:    schema,
		Args:      verb.Args,
		LookupEnv: root.lookupEnv(),
	}
	opts, err := parser.Parse(rest)
	if err != nil {
		slog.Debug("Failed to parse options.", "verb", verb.Name, "error", err)
		return nil, &ParseError{Verb: name, Err: err}
	}
	slog.Debug("Parsed options.", "verb", verb.Name, "args", opts.Args())
	return &Invocation{Stage: StageReady, Root: root, Name: name, Verb: verb, Options: opts}, nil
}

// helpBeforeVerb reports whether a help token appears before the verb token, or anywhere when
// there is no verb token.
func helpBeforeVerb(args []string) bool {
	if i := verbIndex(args); i >= 0 {
		return WantsHelp(args[:i])
	}
	return WantsHelp(args)
}

// beforeDoubleDash returns the tokens ahead of the first "--". Tokens after it are positional, so
// a "-h" there is an argument and not a help request.
func beforeDoubleDash(tokens []string) []string {
	if i := slices.Index(tokens, "--"); i >= 0 {
		return tokens[:i]
	}
	return tokens
}

func unknownVerb(reg *Registry, name string, rest []string) error {
	err := &UnknownVerbError{
		Name:        name,
		Suggestions: suggest.FindSimilar(name, visibleNames(reg), 3),
	}
	// A stray argument typed before the verb is taken as the verb.
	for _, tok := range rest {
		if v, ok := reg.Resolve(tok); ok && !v.Hidden {
			err.Hint = fmt.Sprintf("%q is a command; it must come before any other argument", tok)
			break
		}
	}
	slog.Debug("Unknown verb.", "verb", name, "suggestions", err.Suggestions)
	return err
}

// visibleNames returns the names and aliases of every verb that is not hidden, sorted.
func visibleNames(reg *Registry) []string {
	var names []string
	for _, v := range reg.Verbs() {
		if v.Hidden {
			continue
		}
		names = append(names, v.Name)
		names = append(names, reg.Aliases(v)...)
	}
	slices.Sort(names)
	return names
}
