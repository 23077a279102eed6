package cli

import (
	"slices"
	"strings"
)

// ExtractVerb finds the verb in a raw token vector: the first token that does not begin with "-".
// It returns the verb and the remaining tokens, which are the tokens before and after the verb in
// their original order. The verb is located by position, so a later token with the same text is
// kept.
//
// When every token begins with "-", ok is false and rest holds the same tokens as the input.
// The returned slice is never nil and never shares memory with tokens.
func ExtractVerb(tokens []string) (verb string, rest []string, ok bool) {
	i := verbIndex(tokens)
	if i < 0 {
		return "", append([]string{}, tokens...), false
	}
	rest = make([]string, 0, len(tokens)-1)
	rest = append(rest, tokens[:i]...)
	rest = append(rest, tokens[i+1:]...)
	return tokens[i], rest, true
}

func verbIndex(tokens []string) int {
	return slices.IndexFunc(tokens, func(tok string) bool {
		return !strings.HasPrefix(tok, "-")
	})
}

// WantsHelp reports whether tokens contain --help or -h.
func WantsHelp(tokens []string) bool {
	return slices.ContainsFunc(tokens, isHelpToken)
}

func isHelpToken(tok string) bool {
	return tok == "--help" || tok == "-h"
}
