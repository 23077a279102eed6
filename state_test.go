package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOption(t *testing.T) {
	t.Parallel()

	newState := func(t *testing.T, tokens ...string) *State {
		t.Helper()
		p := &Parser{
			Schema: []*Option{
				NewSwitch("force", "-f", "--force"),
				{Names: []string{"--file"}, Kind: Flag, Default: "Brewfile"},
			},
			LookupEnv: noEnv,
		}
		opts, err := p.Parse(tokens)
		require.NoError(t, err)
		return &State{Options: opts, Args: opts.Args()}
	}

	t.Run("values", func(t *testing.T) {
		t.Parallel()
		s := newState(t, "-f", "--file=deps")
		assert.True(t, GetOption[bool](s, "force"))
		assert.Equal(t, "deps", GetOption[string](s, "file"))

		s = newState(t)
		assert.False(t, GetOption[bool](s, "force"))
		assert.Equal(t, "Brewfile", GetOption[string](s, "file"))
	})
	t.Run("option not declared", func(t *testing.T) {
		t.Parallel()
		s := newState(t)
		defer func() {
			r := recover()
			require.NotNil(t, r)
			err, ok := r.(error)
			require.True(t, ok)
			assert.ErrorContains(t, err, `option not declared: "version"`)
		}()
		// Panic because author tried to access an option that was never declared
		_ = GetOption[string](s, "version")
	})
	t.Run("option kind mismatch", func(t *testing.T) {
		t.Parallel()
		s := newState(t)
		defer func() {
			r := recover()
			require.NotNil(t, r)
			err, ok := r.(error)
			require.True(t, ok)
			assert.ErrorContains(t, err, `type mismatch for option "force": declared switch, requested flag`)
		}()
		// Panic because author tried to read a switch as a string
		_ = GetOption[string](s, "force")
	})
}

func noEnv(string) (string, bool) { return "", false }
