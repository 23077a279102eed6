package cli

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() []*Option {
	return []*Option{
		NewSwitch("force", "-f", "--force"),
		{Names: []string{"--file"}, Kind: Flag, Placeholder: "PATH", Default: "Brewfile", Env: "BUNDLE_FILE"},
		{Names: []string{"--max-wait"}, Kind: Flag, ConflictsWith: []string{"no-wait"}},
		NewSwitch("no wait", "--no-wait"),
		{Names: []string{"-v", "--verbose"}, Kind: Switch, Env: "VERBOSE"},
	}
}

func envOf(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestParser(t *testing.T) {
	t.Parallel()

	parse := func(tokens ...string) (*ParsedOptions, error) {
		p := &Parser{Schema: testSchema(), LookupEnv: noEnv}
		return p.Parse(tokens)
	}

	t.Run("every option has a value", func(t *testing.T) {
		t.Parallel()
		opts, err := parse()
		require.NoError(t, err)
		assert.Equal(t, []string{"force", "file", "max-wait", "no-wait", "verbose"}, opts.IDs())
		for _, id := range opts.IDs() {
			assert.NotPanics(t, func() { opts.Get(id) })
		}
		assert.Equal(t, SourceNone, opts.Get("force").Source)
		assert.False(t, opts.Bool("force"))
		wait, ok := opts.Lookup("max-wait")
		assert.False(t, ok)
		assert.Empty(t, wait)
		assert.Equal(t, Value{Source: SourceDefault, Str: "Brewfile"}, opts.Get("file"))
		assert.Equal(t, []string{}, opts.Args())
	})
	t.Run("both flag forms", func(t *testing.T) {
		t.Parallel()
		for _, tokens := range [][]string{
			{"--file=deps.rb"},
			{"--file", "deps.rb"},
		} {
			opts, err := parse(tokens...)
			require.NoError(t, err)
			assert.Equal(t, Value{Source: SourceArgs, Str: "deps.rb"}, opts.Get("file"))
			assert.Empty(t, opts.Args())
		}
	})
	t.Run("flag value starting with a dash", func(t *testing.T) {
		t.Parallel()
		opts, err := parse("--file", "-weird", "x")
		require.NoError(t, err)
		assert.Equal(t, "-weird", opts.String("file"))
		assert.Equal(t, []string{"x"}, opts.Args())
	})
	t.Run("switch never consumes a value", func(t *testing.T) {
		t.Parallel()
		opts, err := parse("-f", "true", "--force=false")
		require.NoError(t, err)
		assert.False(t, opts.Bool("force"))
		assert.Equal(t, SourceArgs, opts.Get("force").Source)
		assert.Equal(t, []string{"true"}, opts.Args())
	})
	t.Run("positional order", func(t *testing.T) {
		t.Parallel()
		opts, err := parse("a", "-f", "b", "--max-wait", "3", "c")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, opts.Args())
		assert.Equal(t, "3", opts.String("max-wait"))
	})
	t.Run("double dash", func(t *testing.T) {
		t.Parallel()
		opts, err := parse("a", "--", "-f", "--", "--bogus")
		require.NoError(t, err)
		assert.False(t, opts.Bool("force"))
		assert.Equal(t, []string{"a", "-f", "--", "--bogus"}, opts.Args())
	})
	t.Run("unknown options", func(t *testing.T) {
		t.Parallel()
		for _, tok := range []string{"--bogus", "-x", "-force", "--f", "-", "---force", "--bogus=1"} {
			_, err := parse("a", tok)
			require.Error(t, err, tok)
			var unknown *UnknownOptionError
			require.ErrorAs(t, err, &unknown, tok)
			assert.Equal(t, tok, unknown.Token)
			assert.True(t, IsParseError(err))
		}
	})
	t.Run("missing value", func(t *testing.T) {
		t.Parallel()
		_, err := parse("x", "--file")
		require.Error(t, err)
		var missing *MissingValueError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "--file", missing.Option)
		assert.Equal(t, `option "--file" requires a value`, err.Error())

		// A flag before "--" does not take "--" as its value.
		_, err = parse("--file", "--", "x")
		require.ErrorAs(t, err, &missing)
	})
	t.Run("invalid switch value", func(t *testing.T) {
		t.Parallel()
		_, err := parse("--force=maybe")
		require.Error(t, err)
		var invalid *InvalidValueError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "--force", invalid.Option)
		assert.Equal(t, "maybe", invalid.Value)
	})
	t.Run("environment fallback", func(t *testing.T) {
		t.Parallel()
		p := &Parser{
			Schema:    testSchema(),
			LookupEnv: envOf(map[string]string{"BUNDLE_FILE": "env.rb", "VERBOSE": "0"}),
		}
		opts, err := p.Parse(nil)
		require.NoError(t, err)
		assert.Equal(t, Value{Source: SourceEnv, Str: "env.rb"}, opts.Get("file"))
		// Presence is enough for a switch, whatever the value.
		assert.Equal(t, Value{Source: SourceEnv, Bool: true}, opts.Get("verbose"))

		// The command line wins.
		opts, err = p.Parse([]string{"--file", "args.rb", "--verbose=false"})
		require.NoError(t, err)
		assert.Equal(t, Value{Source: SourceArgs, Str: "args.rb"}, opts.Get("file"))
		assert.Equal(t, Value{Source: SourceArgs, Bool: false}, opts.Get("verbose"))
	})
	t.Run("empty environment value for a flag", func(t *testing.T) {
		t.Parallel()
		p := &Parser{Schema: testSchema(), LookupEnv: envOf(map[string]string{"BUNDLE_FILE": ""})}
		opts, err := p.Parse(nil)
		require.NoError(t, err)
		assert.Equal(t, SourceDefault, opts.Get("file").Source)
	})
	t.Run("conflicts are symmetric", func(t *testing.T) {
		t.Parallel()
		_, err1 := parse("--max-wait=5", "--no-wait")
		_, err2 := parse("--no-wait", "--max-wait=5")
		var c1, c2 *ConflictingOptionsError
		require.ErrorAs(t, err1, &c1)
		require.ErrorAs(t, err2, &c2)
		assert.Equal(t, c1, c2)
		assert.Equal(t, `options "--max-wait" and "--no-wait" cannot be used together`, err1.Error())

		// Declared on one side only, still enforced from the other.
		p := &Parser{
			Schema: []*Option{
				NewSwitch("a", "--a"),
				{Names: []string{"--b"}, ConflictsWith: []string{"a"}},
			},
			LookupEnv: noEnv,
		}
		_, err := p.Parse([]string{"--a", "--b"})
		var c3 *ConflictingOptionsError
		require.ErrorAs(t, err, &c3)
		assert.Equal(t, &ConflictingOptionsError{A: "--a", B: "--b"}, c3)
	})
	t.Run("switch turned off does not conflict", func(t *testing.T) {
		t.Parallel()
		opts, err := parse("--max-wait=5", "--no-wait=false")
		require.NoError(t, err)
		assert.Equal(t, "5", opts.String("max-wait"))
		assert.False(t, opts.Bool("no-wait"))

		_, err = parse("--no-wait=true", "--max-wait=5")
		var conflict *ConflictingOptionsError
		require.ErrorAs(t, err, &conflict)
	})
	t.Run("defaults do not conflict", func(t *testing.T) {
		t.Parallel()
		p := &Parser{
			Schema: []*Option{
				{Names: []string{"--max-wait"}, Kind: Flag, Default: "10", ConflictsWith: []string{"no-wait"}},
				NewSwitch("no wait", "--no-wait"),
			},
			LookupEnv: noEnv,
		}
		opts, err := p.Parse([]string{"--no-wait"})
		require.NoError(t, err)
		assert.Equal(t, "10", opts.String("max-wait"))
	})
	t.Run("arity", func(t *testing.T) {
		t.Parallel()
		p := &Parser{Schema: testSchema(), Args: ExactArgs(1), LookupEnv: noEnv}
		_, err := p.Parse([]string{"-f"})
		var arity *ArityError
		require.ErrorAs(t, err, &arity)
		assert.Equal(t, 0, arity.Got)
		assert.Equal(t, "expected exactly 1 argument, got 0", err.Error())

		// Arity is checked after everything else.
		_, err = p.Parse([]string{"--bogus"})
		var unknown *UnknownOptionError
		require.ErrorAs(t, err, &unknown)
	})
	t.Run("invalid schema", func(t *testing.T) {
		t.Parallel()
		p := &Parser{Schema: []*Option{NewSwitch("", "--help")}}
		_, err := p.Parse(nil)
		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.False(t, IsParseError(err))
	})
	t.Run("kind mismatch panics", func(t *testing.T) {
		t.Parallel()
		opts, err := parse()
		require.NoError(t, err)
		assert.Panics(t, func() { opts.String("force") })
		assert.Panics(t, func() { opts.Bool("file") })
		assert.Panics(t, func() { opts.Get("nope") })
	})
}

func TestParsedOptionsRoundTrip(t *testing.T) {
	t.Parallel()

	vectors := [][]string{
		nil,
		{"--force", "--file=Brewfile", "a"},
		{"-f=false"},
		{"--file", "-dash", "b", "-v"},
		{"x", "--", "-y", "--"},
		{"--file="},
		{"--max-wait", "5", "a", "b", "--verbose=false"},
		{"--file", "with space", "--file", "last wins"},
	}
	for _, tokens := range vectors {
		p := &Parser{Schema: testSchema(), LookupEnv: noEnv}
		first, err := p.Parse(tokens)
		require.NoError(t, err, tokens)

		second, err := p.Parse(first.Tokens())
		require.NoError(t, err, first.Tokens())
		if diff := cmp.Diff(first, second, cmp.AllowUnexported(ParsedOptions{})); diff != "" {
			t.Errorf("round trip of %q via %q mismatch (-first +second):\n%s", tokens, first.Tokens(), diff)
		}
	}
}

func TestTokens(t *testing.T) {
	t.Parallel()

	p := &Parser{Schema: testSchema(), LookupEnv: envOf(map[string]string{"VERBOSE": "1"})}
	opts, err := p.Parse([]string{"b", "-f", "--max-wait", "5", "--", "-a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"--force", "--max-wait=5", "--", "b", "-a"}, opts.Tokens())
}

func TestArity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		arity Arity
		ok    []int
		fail  []int
		str   string
	}{
		{AnyArgs(), []int{0, 1, 100}, nil, "any number of arguments"},
		{NoArgs(), []int{0}, []int{1}, "exactly 0 arguments"},
		{ExactArgs(2), []int{2}, []int{0, 1, 3}, "exactly 2 arguments"},
		{MinArgs(1), []int{1, 5}, []int{0}, "at least 1 argument"},
		{RangeArgs(1, 2), []int{1, 2}, []int{0, 3}, "between 1 and 2 arguments"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.str, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.str, tt.arity.String())
			for _, n := range tt.ok {
				assert.NoError(t, tt.arity.Check(n), n)
			}
			for _, n := range tt.fail {
				err := tt.arity.Check(n)
				var arity *ArityError
				require.ErrorAs(t, err, &arity, n)
				assert.Equal(t, n, arity.Got)
				assert.Equal(t, tt.arity, arity.Expected)
			}
		})
	}
}
