package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/mfridman/xflag"
)

// Source records where an option's value came from.
type Source int

const (
	// SourceNone means the option was not set.
	SourceNone Source = iota
	// SourceArgs means the option was given on the command line.
	SourceArgs
	// SourceEnv means the value was read from the option's environment variable.
	SourceEnv
	// SourceDefault means the flag's declared default was used.
	SourceDefault
)

func (s Source) String() string {
	switch s {
	case SourceNone:
		return "none"
	case SourceArgs:
		return "args"
	case SourceEnv:
		return "env"
	case SourceDefault:
		return "default"
	default:
		return "unknown"
	}
}

// Value is the parsed value of one option. Bool is meaningful for switches, Str for flags.
type Value struct {
	Source Source
	Bool   bool
	Str    string
}

// Present reports whether the option has a value from any source.
func (v Value) Present() bool { return v.Source != SourceNone }

// Explicit reports whether the user supplied the value, on the command line or through the
// environment.
func (v Value) Explicit() bool { return v.Source == SourceArgs || v.Source == SourceEnv }

// ParsedOptions is the result of parsing a token vector against a schema. Every declared option
// has an entry, absent ones with [SourceNone], so callers never need existence checks for options
// they declared. A ParsedOptions is never modified after it is returned.
type ParsedOptions struct {
	schema []*Option
	values map[string]Value
	args   []string
}

// Get returns the value of the option with the given ID.
//
// It panics if no such option was declared. Asking for an undeclared option is a programming
// error, and failing loudly beats silently reporting the option as unset.
func (p *ParsedOptions) Get(id string) Value {
	v, ok := p.values[id]
	if !ok {
		panic(fmt.Errorf("internal error: option not declared: %q", id))
	}
	return v
}

// Bool returns the value of a switch. It panics if id is undeclared or not a [Switch].
func (p *ParsedOptions) Bool(id string) bool {
	p.mustKind(id, Switch)
	return p.Get(id).Bool
}

// String returns the value of a flag, or "" if it is absent. It panics if id is undeclared or not
// a [Flag].
func (p *ParsedOptions) String(id string) string {
	p.mustKind(id, Flag)
	return p.Get(id).Str
}

// Lookup returns the value of a flag and whether it is present. It panics if id is undeclared or
// not a [Flag].
func (p *ParsedOptions) Lookup(id string) (string, bool) {
	p.mustKind(id, Flag)
	v := p.Get(id)
	return v.Str, v.Present()
}

// Args returns the positional arguments in their original order.
func (p *ParsedOptions) Args() []string {
	return slices.Clone(p.args)
}

// IDs returns the identifiers of all declared options in declaration order.
func (p *ParsedOptions) IDs() []string {
	ids := make([]string, 0, len(p.schema))
	for _, opt := range p.schema {
		ids = append(ids, opt.Key())
	}
	return ids
}

// Tokens serializes the options set on the command line, followed by the positional arguments,
// into a vector that parses back to an equal value against the same schema. Values that came from
// the environment or a default are not included.
func (p *ParsedOptions) Tokens() []string {
	var tokens []string
	for _, opt := range p.schema {
		v := p.values[opt.Key()]
		if v.Source != SourceArgs {
			continue
		}
		switch opt.Kind {
		case Switch:
			if v.Bool {
				tokens = append(tokens, opt.Long())
			} else {
				tokens = append(tokens, opt.Long()+"=false")
			}
		case Flag:
			tokens = append(tokens, opt.Long()+"="+v.Str)
		}
	}
	for _, arg := range p.args {
		if strings.HasPrefix(arg, "-") {
			tokens = append(tokens, "--")
			break
		}
	}
	return append(tokens, p.args...)
}

func (p *ParsedOptions) mustKind(id string, want Kind) {
	for _, opt := range p.schema {
		if opt.Key() != id {
			continue
		}
		if opt.Kind != want {
			panic(fmt.Errorf("internal error: type mismatch for option %q: declared %s, requested %s", id, opt.Kind, want))
		}
		return
	}
	panic(fmt.Errorf("internal error: option not declared: %q", id))
}

// Parser parses tokens against a schema.
type Parser struct {
	// Schema is the complete set of accepted options. For a verb this is the result of
	// [MergeSchemas] over the shared and verb options.
	Schema []*Option

	// Args constrains the number of positional arguments.
	Args Arity

	// LookupEnv resolves environment fallbacks. If nil, [os.LookupEnv] is used.
	LookupEnv func(key string) (string, bool)
}

// Parse parses tokens. The steps run in a fixed order: spelling checks, assignment, environment
// fallback, defaults, conflict detection, and finally positional arity. A literal "--" ends
// option processing; every token after it is positional.
func (p *Parser) Parse(tokens []string) (*ParsedOptions, error) {
	if err := ValidateSchema(p.Schema); err != nil {
		return nil, err
	}
	var tail []string
	if i := slices.Index(tokens, "--"); i >= 0 {
		tokens, tail = tokens[:i], tokens[i+1:]
	}

	index := make(map[string]*Option)
	for _, opt := range p.Schema {
		for _, name := range opt.Names {
			index[name] = opt
		}
	}
	args, err := scanTokens(tokens, index)
	if err != nil {
		return nil, err
	}

	// Assignment goes through the flag package so both --name=value and --name value forms, and
	// options interleaved with positional arguments, behave as they do for any Go program.
	fset := flag.NewFlagSet("", flag.ContinueOnError)
	fset.SetOutput(io.Discard)
	fset.Usage = func() {}
	bound := make(map[string]*optionValue, len(p.Schema))
	for _, opt := range p.Schema {
		val := &optionValue{opt: opt}
		bound[opt.Key()] = val
		for _, name := range opt.Names {
			fset.Var(val, strings.TrimLeft(name, "-"), opt.Description)
		}
	}
	if err := xflag.ParseToEnd(fset, tokens); err != nil {
		return nil, fmt.Errorf("failed to parse options: %w", err)
	}

	lookupEnv := p.LookupEnv
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	values := make(map[string]Value, len(p.Schema))
	for _, opt := range p.Schema {
		if val := bound[opt.Key()]; val.set {
			values[opt.Key()] = Value{Source: SourceArgs, Bool: val.b, Str: val.s}
			continue
		}
		values[opt.Key()] = fallback(opt, lookupEnv)
	}

	if err := checkConflicts(p.Schema, values); err != nil {
		return nil, err
	}
	args = append(args, tail...)
	if err := p.Args.Check(len(args)); err != nil {
		return nil, err
	}
	return &ParsedOptions{schema: p.Schema, values: values, args: args}, nil
}

// scanTokens walks the tokens the way the flag package will and rejects what it would accept
// too loosely: unknown spellings (including -name for a declared --name), a trailing flag without
// a value and non-boolean switch values. It returns the positional arguments in order.
func scanTokens(tokens []string, index map[string]*Option) ([]string, error) {
	args := []string{}
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if !strings.HasPrefix(tok, "-") {
			args = append(args, tok)
			continue
		}
		name, value, hasValue := strings.Cut(tok, "=")
		opt, ok := index[name]
		if !ok {
			return nil, &UnknownOptionError{Token: tok}
		}
		switch opt.Kind {
		case Switch:
			if hasValue {
				if _, err := strconv.ParseBool(value); err != nil {
					return nil, &InvalidValueError{Option: name, Value: value}
				}
			}
		case Flag:
			if !hasValue {
				if i+1 >= len(tokens) {
					return nil, &MissingValueError{Option: name}
				}
				i++
			}
		}
	}
	return args, nil
}

func fallback(opt *Option, lookupEnv func(string) (string, bool)) Value {
	if opt.Env != "" {
		if env, ok := lookupEnv(opt.Env); ok {
			switch opt.Kind {
			case Switch:
				return Value{Source: SourceEnv, Bool: true}
			case Flag:
				if env != "" {
					return Value{Source: SourceEnv, Str: env}
				}
			}
		}
	}
	if opt.Kind == Flag && opt.Default != "" {
		return Value{Source: SourceDefault, Str: opt.Default}
	}
	return Value{}
}

// checkConflicts walks pairs in declaration order, so the reported pair is the same whichever
// order the user typed the options in.
func checkConflicts(schema []*Option, values map[string]Value) error {
	for i, a := range schema {
		if !inEffect(a, values[a.Key()]) {
			continue
		}
		for _, b := range schema[i+1:] {
			if !inEffect(b, values[b.Key()]) {
				continue
			}
			if slices.Contains(a.ConflictsWith, b.Key()) || slices.Contains(b.ConflictsWith, a.Key()) {
				return &ConflictingOptionsError{A: a.Long(), B: b.Long()}
			}
		}
	}
	return nil
}

// inEffect reports whether an option takes part in conflict checks: the user supplied it and, for
// a switch, turned it on.
func inEffect(opt *Option, v Value) bool {
	return v.Explicit() && (opt.Kind != Switch || v.Bool)
}

// optionValue implements flag.Value for every spelling of one option.
type optionValue struct {
	opt *Option
	set bool
	b   bool
	s   string
}

func (v *optionValue) String() string {
	if v == nil || v.opt == nil {
		return ""
	}
	if v.opt.Kind == Switch {
		return strconv.FormatBool(v.b)
	}
	return v.s
}

func (v *optionValue) Set(s string) error {
	if v.opt.Kind == Switch {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		v.b = b
	} else {
		v.s = s
	}
	v.set = true
	return nil
}

// IsBoolFlag tells the flag package that a switch takes no value token.
func (v *optionValue) IsBoolFlag() bool {
	return v.opt != nil && v.opt.Kind == Switch
}
