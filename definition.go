package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a definition file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Definition describes a command declaratively: everything but the verbs' execution functions,
// which are bound by name in [Definition.Build].
type Definition struct {
	Name      string             `yaml:"name" toml:"name"`
	Usage     string             `yaml:"usage" toml:"usage"`
	ShortHelp string             `yaml:"short_help" toml:"short_help"`
	Default   string             `yaml:"default" toml:"default"`
	Options   []OptionDefinition `yaml:"options" toml:"options"`
	Verbs     []VerbDefinition   `yaml:"verbs" toml:"verbs"`
}

// OptionDefinition is the file form of an [Option]. Kind is "switch" or "flag".
type OptionDefinition struct {
	ID            string   `yaml:"id" toml:"id"`
	Names         []string `yaml:"names" toml:"names"`
	Kind          string   `yaml:"kind" toml:"kind"`
	Description   string   `yaml:"description" toml:"description"`
	Placeholder   string   `yaml:"placeholder" toml:"placeholder"`
	Default       string   `yaml:"default" toml:"default"`
	Env           string   `yaml:"env" toml:"env"`
	ConflictsWith []string `yaml:"conflicts_with" toml:"conflicts_with"`
	Hidden        bool     `yaml:"hidden" toml:"hidden"`
}

// VerbDefinition is the file form of a [Verb]. Args is one of "any" (or empty), "none", "N" for
// exactly N, "N+" for at least N, or "N-M" for a range.
type VerbDefinition struct {
	Name      string             `yaml:"name" toml:"name"`
	Aliases   []string           `yaml:"aliases" toml:"aliases"`
	Usage     string             `yaml:"usage" toml:"usage"`
	ShortHelp string             `yaml:"short_help" toml:"short_help"`
	Options   []OptionDefinition `yaml:"options" toml:"options"`
	Args      string             `yaml:"args" toml:"args"`
	Hidden    bool               `yaml:"hidden" toml:"hidden"`
}

// LoadDefinition decodes a definition from r. Unknown keys are rejected.
func LoadDefinition(r io.Reader, format Format) (*Definition, error) {
	var def Definition
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, errors.New("failed to decode definition: empty document")
			}
			return nil, fmt.Errorf("failed to decode definition: %w", err)
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&def)
		if err != nil {
			return nil, fmt.Errorf("failed to decode definition: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			return nil, fmt.Errorf("failed to decode definition: unknown keys %q", keys)
		}
	default:
		return nil, fmt.Errorf("unsupported definition format %q", format)
	}
	return &def, nil
}

// LoadDefinitionFile reads a definition file, choosing the format from its extension: .yaml, .yml
// or .toml.
func LoadDefinitionFile(path string) (*Definition, error) {
	var format Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	case ".toml":
		format = FormatTOML
	default:
		return nil, fmt.Errorf("definition file %q: unknown extension, want .yaml, .yml or .toml", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition file: %w", err)
	}
	def, err := LoadDefinition(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("definition file %q: %w", path, err)
	}
	return def, nil
}

// Build creates a [Command] from the definition, binding each verb to the handler registered under
// its primary name. Every verb needs a handler and every handler needs a verb.
func (d *Definition) Build(handlers map[string]ExecFunc) (*Command, error) {
	shared, err := buildOptions(d.Options)
	if err != nil {
		return nil, err
	}
	root := &Command{
		Name:      d.Name,
		Usage:     d.Usage,
		ShortHelp: d.ShortHelp,
		Options:   shared,
		Verbs:     NewRegistry(),
	}
	if err := root.validate(); err != nil {
		return nil, err
	}
	for _, vd := range d.Verbs {
		exec, ok := handlers[vd.Name]
		if !ok {
			return nil, fmt.Errorf("verb %q: no handler", vd.Name)
		}
		opts, err := buildOptions(vd.Options)
		if err != nil {
			return nil, fmt.Errorf("verb %q: %w", vd.Name, err)
		}
		arity, err := parseArity(vd.Args)
		if err != nil {
			return nil, fmt.Errorf("verb %q: %w", vd.Name, err)
		}
		v := &Verb{
			Name:      vd.Name,
			Aliases:   vd.Aliases,
			Usage:     vd.Usage,
			ShortHelp: vd.ShortHelp,
			Options:   opts,
			Args:      arity,
			Hidden:    vd.Hidden,
			Exec:      exec,
		}
		if err := root.Register(v); err != nil {
			return nil, err
		}
	}
	for name := range handlers {
		if !slices.ContainsFunc(d.Verbs, func(vd VerbDefinition) bool { return vd.Name == name }) {
			return nil, fmt.Errorf("handler %q matches no verb", name)
		}
	}
	if d.Default != "" {
		root.Verbs.SetDefault(d.Default)
		if _, err := root.Verbs.ResolveDefault(); err != nil {
			return nil, err
		}
	}
	return root, nil
}

func buildOptions(defs []OptionDefinition) ([]*Option, error) {
	opts := make([]*Option, 0, len(defs))
	for _, od := range defs {
		opt := &Option{
			ID:            od.ID,
			Names:         od.Names,
			Description:   od.Description,
			Placeholder:   od.Placeholder,
			Default:       od.Default,
			Env:           od.Env,
			ConflictsWith: od.ConflictsWith,
			Hidden:        od.Hidden,
		}
		switch od.Kind {
		case "switch", "":
			opt.Kind = Switch
		case "flag":
			opt.Kind = Flag
		default:
			return nil, &SchemaError{Option: opt.Long(), Reason: fmt.Sprintf("unknown kind %q", od.Kind)}
		}
		opts = append(opts, opt)
	}
	if err := ValidateSchema(opts); err != nil {
		return nil, err
	}
	return opts, nil
}

func parseArity(s string) (Arity, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "any":
		return AnyArgs(), nil
	case "none":
		return NoArgs(), nil
	}
	if n, ok := strings.CutSuffix(s, "+"); ok {
		least, err := strconv.Atoi(n)
		if err != nil || least < 0 {
			return Arity{}, fmt.Errorf("invalid args %q", s)
		}
		return MinArgs(least), nil
	}
	if lo, hi, ok := strings.Cut(s, "-"); ok {
		from, err1 := strconv.Atoi(lo)
		to, err2 := strconv.Atoi(hi)
		if err1 != nil || err2 != nil || from < 0 || to < from {
			return Arity{}, fmt.Errorf("invalid args %q", s)
		}
		return RangeArgs(from, to), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return Arity{}, fmt.Errorf("invalid args %q", s)
	}
	return ExactArgs(n), nil
}
