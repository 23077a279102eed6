package cli

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/mattn/go-shellwords"
)

// Shell is a shell family that completion scripts can be generated for.
type Shell string

const (
	Bash Shell = "bash"
	Zsh  Shell = "zsh"
	Fish Shell = "fish"
)

var supportedShells = []Shell{Bash, Zsh, Fish}

// ParseShell validates and returns a Shell from a user-provided string.
func ParseShell(s string) (Shell, error) {
	sh := Shell(strings.ToLower(s))
	if !slices.Contains(supportedShells, sh) {
		return "", fmt.Errorf("shell %q is not supported (supported: bash, zsh, fish)", s)
	}
	return sh, nil
}

// CompletionScript renders a completion script for the given shell. The script lists the visible
// verbs and their aliases and, once a verb has been typed, the option spellings that verb accepts,
// shared ones included. It is static: regenerate it when the command definition changes.
func CompletionScript(root *Command, sh Shell) (string, error) {
	if root == nil {
		return "", errors.New("failed to generate completions: root command is nil")
	}
	if err := root.validate(); err != nil {
		return "", fmt.Errorf("failed to generate completions: %w", err)
	}
	switch sh {
	case Bash:
		return bashScript(root), nil
	case Zsh:
		return zshScript(root), nil
	case Fish:
		return fishScript(root), nil
	default:
		return "", fmt.Errorf("shell %q is not supported (supported: bash, zsh, fish)", sh)
	}
}

type verbCompletion struct {
	names     []string
	spellings []string
}

func completionTable(root *Command) (top []string, verbs []verbCompletion) {
	reg := root.registry()
	shared := spellings(root.Options)
	top = append(visibleNames(reg), shared...)
	for _, v := range reg.Verbs() {
		if v.Hidden {
			continue
		}
		merged := append(slices.Clone(shared), spellings(v.Options)...)
		slices.Sort(merged)
		verbs = append(verbs, verbCompletion{
			names:     append([]string{v.Name}, reg.Aliases(v)...),
			spellings: merged,
		})
	}
	return top, verbs
}

func spellings(schema []*Option) []string {
	var names []string
	for _, opt := range visibleOptions(schema) {
		names = append(names, opt.Names...)
	}
	return names
}

func funcName(program string) string {
	return "_" + strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, program)
}

func bashScript(root *Command) string {
	top, verbs := completionTable(root)
	fn := funcName(root.Name)

	var b strings.Builder
	fmt.Fprintf(&b, "# bash completion for %s\n", root.Name)
	fmt.Fprintf(&b, "%s() {\n", fn)
	b.WriteString("    local cur verb i\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    verb=\"\"\n")
	b.WriteString("    for ((i = 1; i < COMP_CWORD; i++)); do\n")
	b.WriteString("        case \"${COMP_WORDS[i]}\" in\n")
	b.WriteString("            -*) ;;\n")
	b.WriteString("            *) verb=\"${COMP_WORDS[i]}\"; break ;;\n")
	b.WriteString("        esac\n")
	b.WriteString("    done\n")
	b.WriteString("    case \"$verb\" in\n")
	fmt.Fprintf(&b, "        \"\")\n            COMPREPLY=($(compgen -W %q -- \"$cur\")) ;;\n", strings.Join(top, " "))
	for _, v := range verbs {
		fmt.Fprintf(&b, "        %s)\n            COMPREPLY=($(compgen -W %q -- \"$cur\")) ;;\n",
			strings.Join(v.names, "|"), strings.Join(v.spellings, " "))
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n")
	fmt.Fprintf(&b, "complete -o default -F %s %s\n", fn, root.Name)
	return b.String()
}

func zshScript(root *Command) string {
	top, verbs := completionTable(root)
	fn := funcName(root.Name)

	var b strings.Builder
	fmt.Fprintf(&b, "#compdef %s\n\n", root.Name)
	fmt.Fprintf(&b, "%s() {\n", fn)
	b.WriteString("    local verb i\n")
	b.WriteString("    verb=\"\"\n")
	b.WriteString("    for ((i = 2; i < CURRENT; i++)); do\n")
	b.WriteString("        case \"${words[i]}\" in\n")
	b.WriteString("            -*) ;;\n")
	b.WriteString("            *) verb=\"${words[i]}\"; break ;;\n")
	b.WriteString("        esac\n")
	b.WriteString("    done\n")
	b.WriteString("    case \"$verb\" in\n")
	fmt.Fprintf(&b, "        \"\")\n            compadd -- %s ;;\n", strings.Join(top, " "))
	for _, v := range verbs {
		fmt.Fprintf(&b, "        %s)\n            compadd -- %s; _files ;;\n",
			strings.Join(v.names, "|"), strings.Join(v.spellings, " "))
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	fmt.Fprintf(&b, "if [ \"$funcstack[1]\" = \"%s\" ]; then\n", fn)
	fmt.Fprintf(&b, "    %s \"$@\"\n", fn)
	b.WriteString("else\n")
	fmt.Fprintf(&b, "    compdef %s %s\n", fn, root.Name)
	b.WriteString("fi\n")
	return b.String()
}

func fishScript(root *Command) string {
	reg := root.registry()
	var b strings.Builder
	fmt.Fprintf(&b, "# fish completion for %s\n", root.Name)
	for _, v := range reg.Verbs() {
		if v.Hidden {
			continue
		}
		for _, name := range append([]string{v.Name}, reg.Aliases(v)...) {
			fmt.Fprintf(&b, "complete -c %s -f -n __fish_use_subcommand -a %s -d %s\n",
				root.Name, name, fishQuote(v.ShortHelp))
		}
	}
	for _, opt := range visibleOptions(root.Options) {
		fmt.Fprintf(&b, "complete -c %s%s -d %s\n", root.Name, fishOption(opt), fishQuote(opt.Description))
	}
	for _, v := range reg.Verbs() {
		if v.Hidden {
			continue
		}
		cond := fishQuote("__fish_seen_subcommand_from " + strings.Join(append([]string{v.Name}, reg.Aliases(v)...), " "))
		for _, opt := range visibleOptions(v.Options) {
			fmt.Fprintf(&b, "complete -c %s -n %s%s -d %s\n", root.Name, cond, fishOption(opt), fishQuote(opt.Description))
		}
	}
	return b.String()
}

func fishOption(opt *Option) string {
	var b strings.Builder
	for _, name := range opt.Names {
		trimmed := strings.TrimLeft(name, "-")
		switch {
		case strings.HasPrefix(name, "--"):
			b.WriteString(" -l " + trimmed)
		case len([]rune(trimmed)) == 1:
			b.WriteString(" -s " + trimmed)
		default:
			b.WriteString(" -o " + trimmed)
		}
	}
	if opt.Kind == Flag {
		b.WriteString(" -r")
	}
	return b.String()
}

func fishQuote(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s) + "'"
}

// Complete returns the completion candidates for the last element of words, given the elements
// before it. words excludes the program name; its last element is the partial word being
// completed and may be empty. Before a verb, candidates are the visible verb names, or the shared
// option spellings when the partial word starts with "-". After a verb, only option spellings
// accepted by that verb are offered. Candidates are sorted.
func Complete(root *Command, words []string) []string {
	if root == nil {
		return nil
	}
	var cur string
	prior := words
	if len(words) > 0 {
		cur, prior = words[len(words)-1], words[:len(words)-1]
	}
	reg := root.registry()

	name, _, found := ExtractVerb(prior)
	schema := root.Options
	if found {
		v, ok := reg.Resolve(name)
		if !ok {
			return nil
		}
		merged, err := MergeSchemas(root.Options, v.Options)
		if err != nil {
			return nil
		}
		schema = merged
	}
	if slices.Contains(prior, "--") || expectsValue(schema, prior) {
		return nil
	}

	var candidates []string
	switch {
	case strings.HasPrefix(cur, "-"):
		candidates = append(spellings(schema), "--help")
	case !found:
		candidates = visibleNames(reg)
	}
	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(c, cur) && !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	slices.Sort(out)
	return out
}

// expectsValue reports whether the last token is a flag spelling waiting for its value.
func expectsValue(schema []*Option, prior []string) bool {
	if len(prior) == 0 {
		return false
	}
	last := prior[len(prior)-1]
	for _, opt := range schema {
		if opt.Kind == Flag && slices.Contains(opt.Names, last) {
			return true
		}
	}
	return false
}

// CompleteLine is like [Complete] but takes the command line as typed, program name first. The line
// is split with shell quoting rules; a trailing space starts a new, empty word.
func CompleteLine(root *Command, line string) ([]string, error) {
	words, err := shellwords.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("failed to split command line: %w", err)
	}
	if len(words) > 0 {
		words = words[1:]
	}
	if line == "" || unicode.IsSpace(rune(line[len(line)-1])) {
		words = append(words, "")
	}
	return Complete(root, words), nil
}
