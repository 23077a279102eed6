package cli

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVerb(name string, aliases ...string) *Verb {
	return &Verb{
		Name:    name,
		Aliases: aliases,
		Exec:    func(ctx context.Context, s *State) error { return nil },
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	t.Run("resolve every spelling", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry()
		list := newVerb("list", "ls")
		uninstall := newVerb("uninstall", "remove")
		require.NoError(t, r.Register(list, "l"))
		require.NoError(t, r.Register(uninstall, "rm"))

		for name, want := range map[string]*Verb{
			"list": list, "ls": list, "l": list,
			"uninstall": uninstall, "remove": uninstall, "rm": uninstall,
		} {
			got, ok := r.Resolve(name)
			require.True(t, ok, name)
			assert.Same(t, want, got, name)
		}
		_, ok := r.Resolve("install")
		assert.False(t, ok)

		assert.Equal(t, []string{"l", "list", "ls", "remove", "rm", "uninstall"}, r.AllNames())
		assert.Equal(t, []*Verb{list, uninstall}, r.Verbs())
		assert.Equal(t, []string{"ls", "l"}, r.Aliases(list))
		assert.Nil(t, r.Aliases(newVerb("list")))
	})
	t.Run("duplicate names", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name    string
			second  *Verb
			aliases []string
			taken   string
		}{
			{"same primary", newVerb("list"), nil, "list"},
			{"primary equals alias", newVerb("ls"), nil, "ls"},
			{"alias equals primary", newVerb("link", "list"), nil, "list"},
			{"alias equals alias", newVerb("link"), []string{"ls"}, "ls"},
		}
		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				r := NewRegistry()
				require.NoError(t, r.Register(newVerb("list", "ls")))

				err := r.Register(tt.second, tt.aliases...)
				require.Error(t, err)
				var dup *DuplicateNameError
				require.ErrorAs(t, err, &dup)
				assert.Equal(t, tt.taken, dup.Name)
				assert.Equal(t, "list", dup.Owner)
				assert.Equal(t, tt.second.Name, dup.Verb)
				assert.False(t, dup.Self)
				assert.Contains(t, err.Error(), `is already registered by verb "list"`)

				// A failed registration leaves nothing behind.
				assert.Equal(t, []string{"list", "ls"}, r.AllNames())
			})
		}
	})
	t.Run("name listed twice by one verb", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry()
		err := r.Register(newVerb("list", "ls"), "ls")
		var dup *DuplicateNameError
		require.ErrorAs(t, err, &dup)
		assert.True(t, dup.Self)
		assert.Equal(t, `verb "list": name "ls" listed more than once`, err.Error())
		assert.Empty(t, r.AllNames())
	})
	t.Run("disjoint registrations succeed", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry()
		for i := 0; i < 20; i++ {
			v := newVerb(fmt.Sprintf("verb%d", i), fmt.Sprintf("v%d", i), fmt.Sprintf("alias%d", i))
			require.NoError(t, r.Register(v))
		}
		for i := 0; i < 20; i++ {
			for _, name := range []string{"verb%d", "v%d", "alias%d"} {
				v, ok := r.Resolve(fmt.Sprintf(name, i))
				require.True(t, ok)
				assert.Equal(t, fmt.Sprintf("verb%d", i), v.Name)
			}
		}
		assert.Len(t, r.AllNames(), 60)
	})
	t.Run("invalid names", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry()
		require.Error(t, r.Register(nil))
		for _, name := range []string{"", "two words", "-flag"} {
			err := r.Register(newVerb(name))
			require.Error(t, err, name)
		}
		err := r.Register(newVerb("list", ""))
		require.ErrorContains(t, err, "empty name")
	})
	t.Run("default verb", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry()
		_, err := r.ResolveDefault()
		var noDefault *NoDefaultConfiguredError
		require.ErrorAs(t, err, &noDefault)

		r.SetDefault("list")
		assert.Equal(t, "list", r.Default())
		_, err = r.ResolveDefault()
		var unknown *UnknownVerbError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "list", unknown.Name)

		list := newVerb("list")
		require.NoError(t, r.Register(list))
		got, err := r.ResolveDefault()
		require.NoError(t, err)
		assert.Same(t, list, got)
	})
}
