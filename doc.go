// Package cli provides a framework for multi-verb command-line programs of the form
//
//	program [shared-options] [verb] [verb-options] [args...]
//
// A [Command] holds the options shared by every verb and a [Registry] of verbs. Each [Verb]
// declares its own options, aliases, positional arity and an execution function. [Parse] finds
// the verb, short-circuits on --help at the top level or the verb level, merges the shared and
// verb options and parses the remaining tokens. [Run] invokes the verb. [Main] wraps both and
// maps failures to exit codes.
//
// Help text and shell completion scripts are rendered from the same definitions, so they never
// drift from what the parser accepts.
package cli
