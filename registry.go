package cli

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// Verb is a subcommand: its names, options, positional arity and execution function. A Verb is
// owned by the [Registry] it is registered with and must not be modified afterwards.
type Verb struct {
	// Name is the primary name, a single word.
	Name string

	// Aliases are additional names resolving to this verb.
	//
	// Example: []string{"ls", "l"} for "list".
	Aliases []string

	// Usage is the verb's full usage pattern. If empty, one is derived.
	//
	// Example: "brew install [flags] <formula>..."
	Usage string

	// ShortHelp is a brief description shown in command listings and at the top of the verb's
	// help.
	ShortHelp string

	// Options are the verb's own options. The command's shared options are merged in when the
	// verb is parsed.
	Options []*Option

	// Args constrains the number of positional arguments. The zero value accepts any number.
	Args Arity

	// Hidden verbs resolve normally but are left out of help and completions.
	Hidden bool

	// Exec runs the verb.
	Exec ExecFunc
}

type registryEntry struct {
	verb  *Verb
	names []string
}

// Registry maps verb names and aliases to verbs. It is populated once, before any dispatch, and
// only read afterwards.
type Registry struct {
	byName      map[string]*registryEntry
	entries     []*registryEntry
	defaultName string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*registryEntry)}
}

// Register adds v under its primary name, v.Aliases and any extra aliases. It fails with a
// [*DuplicateNameError] if any of those names is already registered, in which case the registry is
// left unchanged.
func (r *Registry) Register(v *Verb, aliases ...string) error {
	if v == nil {
		return fmt.Errorf("failed to register: verb is nil")
	}
	names := make([]string, 0, 1+len(v.Aliases)+len(aliases))
	names = append(names, v.Name)
	names = append(names, v.Aliases...)
	names = append(names, aliases...)

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if err := validateVerbName(name); err != nil {
			return fmt.Errorf("failed to register verb %q: %w", v.Name, err)
		}
		if seen[name] {
			return &DuplicateNameError{Name: name, Owner: v.Name, Verb: v.Name, Self: true}
		}
		seen[name] = true
		if owner, ok := r.byName[name]; ok {
			return &DuplicateNameError{Name: name, Owner: owner.verb.Name, Verb: v.Name}
		}
	}

	entry := &registryEntry{verb: v, names: names}
	for _, name := range names {
		r.byName[name] = entry
	}
	r.entries = append(r.entries, entry)
	slog.Debug("Registered verb.", "name", v.Name, "aliases", names[1:])
	return nil
}

func validateVerbName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("empty name")
	case strings.ContainsAny(name, " \t\n"):
		return fmt.Errorf("name %q contains spaces, must be a single word", name)
	case strings.HasPrefix(name, "-"):
		return fmt.Errorf("name %q must not start with %q", name, "-")
	}
	return nil
}

// Resolve returns the verb registered under name, which may be a primary name or an alias.
// An unknown name is not an error; ok is false and the caller decides what to do.
func (r *Registry) Resolve(name string) (v *Verb, ok bool) {
	entry, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return entry.verb, true
}

// AllNames returns every registered name and alias, sorted and without duplicates.
func (r *Registry) AllNames() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Verbs returns the registered verbs sorted by primary name.
func (r *Registry) Verbs() []*Verb {
	verbs := make([]*Verb, 0, len(r.entries))
	for _, entry := range r.entries {
		verbs = append(verbs, entry.verb)
	}
	slices.SortFunc(verbs, func(a, b *Verb) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return verbs
}

// Aliases returns every name v is registered under other than its primary name, in registration
// order. It returns nil if v is not registered.
func (r *Registry) Aliases(v *Verb) []string {
	for _, entry := range r.entries {
		if entry.verb == v {
			return slices.Clone(entry.names[1:])
		}
	}
	return nil
}

// SetDefault sets the verb used when the arguments contain no verb token. The name is checked when
// the default is resolved, so it may be set before the verb is registered.
func (r *Registry) SetDefault(name string) {
	r.defaultName = name
}

// Default returns the configured default verb name, or "" if there is none.
func (r *Registry) Default() string {
	return r.defaultName
}

// ResolveDefault returns the default verb. It fails with [*NoDefaultConfiguredError] if no default
// is set, or [*UnknownVerbError] if the default names a verb that was never registered.
func (r *Registry) ResolveDefault() (*Verb, error) {
	if r.defaultName == "" {
		return nil, &NoDefaultConfiguredError{}
	}
	v, ok := r.Resolve(r.defaultName)
	if !ok {
		return nil, &UnknownVerbError{Name: r.defaultName, Hint: "the default verb is not registered"}
	}
	return v, nil
}
