package cli

import (
	"slices"
	"strings"
)

// Kind distinguishes options that take a value from those that do not.
type Kind int

const (
	// Switch is a boolean option. It never consumes the following token.
	Switch Kind = iota
	// Flag takes a value, either as --name=value or as --name value.
	Flag
)

func (k Kind) String() string {
	switch k {
	case Switch:
		return "switch"
	case Flag:
		return "flag"
	default:
		return "unknown"
	}
}

// Option declares a command-line option. Options are plain data: the framework reads them but
// never modifies them.
type Option struct {
	// ID identifies the option in [ParsedOptions] and in ConflictsWith. If empty, the longest
	// spelling with its leading dashes removed is used, e.g. "force" for -f/--force.
	ID string

	// Names lists every spelling that sets this option, including dashes.
	//
	// Example: []string{"-f", "--force"}
	Names []string

	Kind        Kind
	Description string

	// Placeholder names the value in help output, e.g. "SECONDS". Flags only.
	Placeholder string

	// Default is the value of a flag that was set neither on the command line nor through Env.
	Default string

	// Env is the environment variable consulted when the option is absent from the command line.
	Env string

	// ConflictsWith lists IDs of options that may not be used together with this one. The
	// relation is symmetric; declaring it on one side is enough.
	ConflictsWith []string

	// Hidden options are parsed but left out of help and completions.
	Hidden bool
}

// Key returns the option's identifier.
func (o *Option) Key() string {
	if o.ID != "" {
		return o.ID
	}
	var longest string
	for _, name := range o.Names {
		trimmed := strings.TrimLeft(name, "-")
		if len(trimmed) > len(longest) {
			longest = trimmed
		}
	}
	return longest
}

// Long returns the preferred spelling for messages and serialization: the first spelling starting
// with "--", or the first spelling if there is none.
func (o *Option) Long() string {
	for _, name := range o.Names {
		if strings.HasPrefix(name, "--") {
			return name
		}
	}
	if len(o.Names) == 0 {
		return ""
	}
	return o.Names[0]
}

// NewSwitch is a convenience constructor for a [Switch] option.
func NewSwitch(description string, names ...string) *Option {
	return &Option{Names: names, Kind: Switch, Description: description}
}

// NewFlag is a convenience constructor for a [Flag] option.
func NewFlag(description string, names ...string) *Option {
	return &Option{Names: names, Kind: Flag, Description: description}
}

// reservedNames are intercepted by the help short-circuit and cannot be declared.
var reservedNames = []string{"-h", "--help"}

// ValidateSchema checks that a set of options is internally consistent: every option has at least
// one spelling, spellings start with "-" and contain no "=" or whitespace, no spelling or ID is
// used twice, and every ConflictsWith entry names an option in the set.
func ValidateSchema(schema []*Option) error {
	spellings := make(map[string]*Option)
	// The flag package treats -x and --x as the same flag.
	bare := make(map[string]string)
	ids := make(map[string]*Option)
	for _, opt := range schema {
		if opt == nil {
			return &SchemaError{Reason: "nil option"}
		}
		if len(opt.Names) == 0 {
			return &SchemaError{Option: opt.ID, Reason: "no names"}
		}
		if opt.Kind != Switch && opt.Kind != Flag {
			return &SchemaError{Option: opt.Long(), Reason: "unknown kind"}
		}
		for _, name := range opt.Names {
			if err := validateSpelling(name); err != nil {
				return err
			}
			if slices.Contains(reservedNames, name) {
				return &SchemaError{Option: name, Reason: "reserved for help"}
			}
			if other, ok := spellings[name]; ok {
				if other == opt {
					return &SchemaError{Option: name, Reason: "spelling listed more than once"}
				}
				return &SchemaError{Option: name, Reason: "spelling already used by option " + quote(other.Key())}
			}
			spellings[name] = opt
			trimmed := strings.TrimLeft(name, "-")
			if prev, ok := bare[trimmed]; ok {
				return &SchemaError{Option: name, Reason: "spelling collides with " + quote(prev)}
			}
			bare[trimmed] = name
		}
		key := opt.Key()
		if key == "" {
			return &SchemaError{Option: opt.Long(), Reason: "empty identifier"}
		}
		if _, ok := ids[key]; ok {
			return &SchemaError{Option: opt.Long(), Reason: "identifier " + quote(key) + " already used"}
		}
		ids[key] = opt
		if opt.Kind == Switch && opt.Default != "" {
			return &SchemaError{Option: opt.Long(), Reason: "switches cannot have a default value"}
		}
	}
	for _, opt := range schema {
		for _, id := range opt.ConflictsWith {
			if _, ok := ids[id]; !ok {
				return &SchemaError{Option: opt.Long(), Reason: "conflicts with unknown option " + quote(id)}
			}
			if id == opt.Key() {
				return &SchemaError{Option: opt.Long(), Reason: "conflicts with itself"}
			}
		}
	}
	return nil
}

func validateSpelling(name string) error {
	switch {
	case !strings.HasPrefix(name, "-") || strings.TrimLeft(name, "-") == "":
		return &SchemaError{Option: name, Reason: `spelling must start with "-" and have a name`}
	case strings.HasPrefix(name, "---"):
		return &SchemaError{Option: name, Reason: "too many leading dashes"}
	case strings.ContainsAny(name, "= \t\n"):
		return &SchemaError{Option: name, Reason: `spelling must not contain "=" or whitespace`}
	}
	return nil
}

// MergeSchemas returns the union of shared and verb options as a new slice, shared options first.
// Neither input is modified. The result is validated, so a spelling or ID declared at both levels
// is reported as a [SchemaError].
func MergeSchemas(shared, verb []*Option) ([]*Option, error) {
	merged := make([]*Option, 0, len(shared)+len(verb))
	merged = append(merged, shared...)
	merged = append(merged, verb...)
	if err := ValidateSchema(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

func quote(s string) string {
	return `"` + s + `"`
}
