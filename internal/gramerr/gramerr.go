// Package gramerr contains the error kinds reported by the grammar parser and
// the grammar transforms. Each error carries both a technical message,
// returned by Error(), and a message meant to be shown to whoever wrote the
// grammar, returned by Message().
package gramerr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrParse is matched by errors.Is for every *ParseError.
	ErrParse = errors.New("malformed grammar text")

	// ErrPrecondition is matched by errors.Is for every *PreconditionError.
	ErrPrecondition = errors.New("grammar precondition violated")
)

// ParseError is an error caused by grammar text that could not be understood.
// No grammar is ever produced alongside a ParseError.
type ParseError struct {
	// Line is the 1-indexed line the problem was found on.
	Line int

	// Col is the 1-indexed column the problem was found at.
	Col int

	msg   string
	human string
	wrap  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, col %d: %s", e.Line, e.Col, e.msg)
}

// Message shows the message that should be displayed to a user to describe
// the error.
func (e *ParseError) Message() string {
	return fmt.Sprintf("Line %d: %s", e.Line, e.human)
}

// Unwrap gives the error that the ParseError wraps, if it wraps one.
func (e *ParseError) Unwrap() error {
	return e.wrap
}

// Is returns whether target is ErrParse.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// Parse returns a new ParseError at the given position that has both the
// message to show the user and the technical description of the error. If
// technical is empty, the human message is used for both.
func Parse(line, col int, human, technical string) error {
	if technical == "" {
		technical = strings.ToLower(human)
	}
	return &ParseError{
		Line:  line,
		Col:   col,
		msg:   technical,
		human: human,
	}
}

// Parsef returns a new ParseError at the given position whose messages are
// built from the format string and its arguments.
func Parsef(line, col int, format string, a ...interface{}) error {
	return Parse(line, col, fmt.Sprintf(format, a...), "")
}

// WrapParse returns a new ParseError that wraps the given error.
func WrapParse(e error, line, col int, human string) error {
	return &ParseError{
		Line:  line,
		Col:   col,
		msg:   fmt.Sprintf("%s: %s", strings.ToLower(human), e.Error()),
		human: human,
		wrap:  e,
	}
}

// Violation is the kind of precondition a transform found violated.
type Violation int

const (
	// EmptyProduction means some nonterminal has an empty alternative.
	EmptyProduction Violation = iota

	// Cycle means some nonterminal derives itself through unit productions.
	Cycle
)

func (v Violation) String() string {
	switch v {
	case EmptyProduction:
		return "empty production"
	case Cycle:
		return "unit-production cycle"
	default:
		return fmt.Sprintf("Violation(%d)", int(v))
	}
}

// PreconditionError is returned by a transform that was given a grammar it
// cannot operate on. It identifies the offending nonterminal, or the witness
// cycle path for a Cycle violation.
type PreconditionError struct {
	// Kind is the precondition that does not hold.
	Kind Violation

	// Symbol is the nonterminal with the empty production. Only set for
	// EmptyProduction.
	Symbol string

	// Path is the witness cycle, as symbols. Only set for Cycle.
	Path []string

	op string
}

func (e *PreconditionError) Error() string {
	switch e.Kind {
	case EmptyProduction:
		return fmt.Sprintf("%s: input grammar has an empty production for %s", e.op, e.Symbol)
	case Cycle:
		return fmt.Sprintf("%s: input grammar has a cycle: %s", e.op, strings.Join(e.Path, " --> "))
	default:
		return fmt.Sprintf("%s: %s", e.op, e.Kind)
	}
}

// Message shows the message that should be displayed to a user to describe
// the error.
func (e *PreconditionError) Message() string {
	switch e.Kind {
	case EmptyProduction:
		return fmt.Sprintf("Input grammar has an empty production (%s).", e.Symbol)
	case Cycle:
		return "Input grammar has a cycle:\n" + strings.Join(e.Path, " --> ")
	default:
		return "Input grammar does not meet the requirements of " + e.op + "."
	}
}

// Is returns whether target is ErrPrecondition.
func (e *PreconditionError) Is(target error) bool {
	return target == ErrPrecondition
}

// EmptyProductionIn returns a PreconditionError for operation op reporting
// that sym has an empty production.
func EmptyProductionIn(op, sym string) error {
	return &PreconditionError{Kind: EmptyProduction, Symbol: sym, op: op}
}

// CycleIn returns a PreconditionError for operation op carrying the given
// witness path.
func CycleIn(op string, path []string) error {
	p := make([]string, len(path))
	copy(p, path)
	return &PreconditionError{Kind: Cycle, Path: p, op: op}
}

// Message gets the message to display to the console for the given error. If
// it is one of the types defined in gramerr, the special user message is
// returned. Otherwise, err.Error() is returned.
func Message(err error) string {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Message()
	}
	var preErr *PreconditionError
	if errors.As(err, &preErr) {
		return preErr.Message()
	}
	return err.Error()
}
