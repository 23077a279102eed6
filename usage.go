package cli

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/raghavtan/cli/pkg/textutil"
)

const defaultWidth = 80

// DefaultUsage renders the top-level help text: the program's short help, its usage pattern, the
// visible verbs sorted by name with their aliases, and the shared options. If the command has a
// UsageFunc, its result is returned instead.
func DefaultUsage(c *Command) string {
	return usageText(c, defaultWidth)
}

// VerbUsage renders the help text for one verb: its usage pattern, aliases, its own options under
// "Flags:" and the shared options under "Global Flags:".
func VerbUsage(c *Command, v *Verb) string {
	return verbUsageText(c, v, defaultWidth)
}

func usageText(c *Command, width int) string {
	if c == nil {
		return ""
	}
	if c.UsageFunc != nil {
		return c.UsageFunc(c)
	}
	width = normalizeWidth(width)
	reg := c.registry()

	var b strings.Builder
	writeShortHelp(&b, c.ShortHelp, width)

	b.WriteString("Usage:\n")
	if c.Usage != "" {
		b.WriteString("  " + c.Usage + "\n")
	} else {
		usage := c.Name
		if len(visibleOptions(c.Options)) > 0 {
			usage += " [flags]"
		}
		if len(reg.entries) > 0 {
			usage += " <command> [args...]"
		}
		b.WriteString("  " + usage + "\n")
	}
	b.WriteString("\n")

	var rows []textutil.Row
	for _, v := range reg.Verbs() {
		if v.Hidden {
			continue
		}
		name := v.Name
		if aliases := reg.Aliases(v); len(aliases) > 0 {
			name += " (" + strings.Join(aliases, ", ") + ")"
		}
		rows = append(rows, textutil.Row{Name: name, Text: v.ShortHelp})
	}
	if len(rows) > 0 {
		b.WriteString("Available Commands:\n")
		textutil.WriteRows(&b, rows, width)
		b.WriteString("\n")
	}

	if rows := optionRows(c.Options); len(rows) > 0 {
		b.WriteString("Global Flags:\n")
		textutil.WriteRows(&b, rows, width)
		b.WriteString("\n")
	}

	if len(reg.entries) > 0 {
		fmt.Fprintf(&b, "Use \"%s [command] --help\" for more information about a command.\n", c.Name)
	}
	return strings.TrimRight(b.String(), "\n")
}

func verbUsageText(c *Command, v *Verb, width int) string {
	if c == nil || v == nil {
		return ""
	}
	width = normalizeWidth(width)

	var b strings.Builder
	writeShortHelp(&b, v.ShortHelp, width)

	b.WriteString("Usage:\n")
	if v.Usage != "" {
		b.WriteString("  " + v.Usage + "\n")
	} else {
		usage := c.Name + " " + v.Name
		if len(visibleOptions(c.Options))+len(visibleOptions(v.Options)) > 0 {
			usage += " [flags]"
		}
		b.WriteString("  " + usage + argsPattern(v.Args) + "\n")
	}
	b.WriteString("\n")

	if aliases := c.registry().Aliases(v); len(aliases) > 0 {
		b.WriteString("Aliases:\n")
		b.WriteString("  " + strings.Join(append([]string{v.Name}, aliases...), ", ") + "\n\n")
	}

	if rows := optionRows(v.Options); len(rows) > 0 {
		b.WriteString("Flags:\n")
		textutil.WriteRows(&b, rows, width)
		b.WriteString("\n")
	}
	if rows := optionRows(c.Options); len(rows) > 0 {
		b.WriteString("Global Flags:\n")
		textutil.WriteRows(&b, rows, width)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeShortHelp(b *strings.Builder, text string, width int) {
	lines := textutil.Wrap(text, width)
	if len(lines) == 0 {
		return
	}
	for _, line := range lines {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
}

func normalizeWidth(width int) int {
	if width <= 0 {
		return defaultWidth
	}
	return width
}

func argsPattern(a Arity) string {
	switch {
	case a.kind == arityAny:
		return " [args...]"
	case a.max == 0 && a.kind != arityMin:
		return ""
	case a.min == 0:
		return " [args...]"
	case a.kind == arityExact && a.min == 1:
		return " <arg>"
	default:
		return " <args...>"
	}
}

func visibleOptions(schema []*Option) []*Option {
	visible := make([]*Option, 0, len(schema))
	for _, opt := range schema {
		if opt != nil && !opt.Hidden {
			visible = append(visible, opt)
		}
	}
	return visible
}

// optionRows lists the visible options sorted by their long spelling.
func optionRows(schema []*Option) []textutil.Row {
	opts := visibleOptions(schema)
	slices.SortFunc(opts, func(a, b *Option) int {
		return cmp.Compare(strings.TrimLeft(a.Long(), "-"), strings.TrimLeft(b.Long(), "-"))
	})
	rows := make([]textutil.Row, 0, len(opts))
	for _, opt := range opts {
		name := strings.Join(opt.Names, ", ")
		text := opt.Description
		if opt.Kind == Flag {
			placeholder := opt.Placeholder
			if placeholder == "" {
				placeholder = "value"
			}
			name += " <" + placeholder + ">"
			if opt.Default != "" {
				text += fmt.Sprintf(" (default: %s)", opt.Default)
			}
		}
		if opt.Env != "" {
			text += fmt.Sprintf(" (env: %s)", opt.Env)
		}
		rows = append(rows, textutil.Row{Name: name, Text: text})
	}
	return rows
}
