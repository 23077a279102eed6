package cli

import "fmt"

type arityKind int

const (
	arityAny arityKind = iota
	arityExact
	arityMin
	arityRange
)

// Arity is the number of positional arguments a verb accepts. The zero value accepts any number.
type Arity struct {
	kind     arityKind
	min, max int
}

// AnyArgs accepts any number of positional arguments.
func AnyArgs() Arity { return Arity{} }

// NoArgs accepts no positional arguments.
func NoArgs() Arity { return ExactArgs(0) }

// ExactArgs accepts exactly n positional arguments.
func ExactArgs(n int) Arity { return Arity{kind: arityExact, min: n, max: n} }

// MinArgs accepts n or more positional arguments.
func MinArgs(n int) Arity { return Arity{kind: arityMin, min: n} }

// RangeArgs accepts between min and max positional arguments, inclusive.
func RangeArgs(min, max int) Arity { return Arity{kind: arityRange, min: min, max: max} }

// Check returns an [*ArityError] when n does not satisfy a.
func (a Arity) Check(n int) error {
	ok := true
	switch a.kind {
	case arityExact:
		ok = n == a.min
	case arityMin:
		ok = n >= a.min
	case arityRange:
		ok = n >= a.min && n <= a.max
	}
	if !ok {
		return &ArityError{Expected: a, Got: n}
	}
	return nil
}

func (a Arity) String() string {
	switch a.kind {
	case arityExact:
		return fmt.Sprintf("exactly %d %s", a.min, plural(a.min))
	case arityMin:
		return fmt.Sprintf("at least %d %s", a.min, plural(a.min))
	case arityRange:
		return fmt.Sprintf("between %d and %d arguments", a.min, a.max)
	default:
		return "any number of arguments"
	}
}

func plural(n int) string {
	if n == 1 {
		return "argument"
	}
	return "arguments"
}
