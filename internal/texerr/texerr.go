// Package texerr defines the failure taxonomy shared by the interpreter core.
//
// Every failure raised by the scanner, the register stores, the group stack,
// the dispatcher or the registries is an *Error tagged with a Kind. An Error
// never carries a preformatted message: it carries a message key plus
// arguments, and presentation is left to a Localizer. Errors wrap an optional
// cause and match the kind sentinels with errors.Is:
//
//	if errors.Is(err, texerr.ErrUsage) {
//	    // unmatched end-group or similar
//	}
package texerr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind categorizes a failure.
type Kind uint8

const (
	// KindScan is malformed or unterminated token input.
	KindScan Kind = iota

	// KindInterpreter is a violated primitive contract.
	KindInterpreter

	// KindConfiguration is an unresolvable or uninstantiable declared name.
	KindConfiguration

	// KindUsage is a fatal misuse of the core API such as an unmatched
	// end-group.
	KindUsage

	// KindPanic terminates the run; the dispatch loop never recovers from it.
	KindPanic
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindScan:
		return "scan"
	case KindInterpreter:
		return "interpreter"
	case KindConfiguration:
		return "configuration"
	case KindUsage:
		return "usage"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Kind sentinels. An *Error matches the sentinel of its kind.
var (
	ErrScan          = errors.New("scan error")
	ErrInterpreter   = errors.New("interpreter error")
	ErrConfiguration = errors.New("configuration error")
	ErrUsage         = errors.New("usage error")
	ErrPanic         = errors.New("panic")
)

func (k Kind) sentinel() error {
	switch k {
	case KindScan:
		return ErrScan
	case KindInterpreter:
		return ErrInterpreter
	case KindConfiguration:
		return ErrConfiguration
	case KindUsage:
		return ErrUsage
	case KindPanic:
		return ErrPanic
	default:
		return nil
	}
}

// Localizer renders a message key with its arguments.
type Localizer interface {
	Format(key string, args ...any) string
}

// Error is the single tagged failure type of the core.
type Error struct {
	// Kind is the taxonomy category.
	Kind Kind

	// Key is the message key, e.g. "TTP.TooManyRightBraces".
	Key string

	// Args are the message arguments.
	Args []any

	// Err is the underlying cause (may be nil).
	Err error
}

// New creates an error of the given kind.
func New(kind Kind, key string, args ...any) *Error {
	return &Error{Kind: kind, Key: key, Args: args}
}

// Scan creates a scan error.
func Scan(key string, args ...any) *Error {
	return New(KindScan, key, args...)
}

// Interpreter creates an interpreter error.
func Interpreter(key string, args ...any) *Error {
	return New(KindInterpreter, key, args...)
}

// Configuration creates a configuration error.
func Configuration(key string, args ...any) *Error {
	return New(KindConfiguration, key, args...)
}

// Usage creates a usage error.
func Usage(key string, args ...any) *Error {
	return New(KindUsage, key, args...)
}

// Panic creates an error that terminates the run.
func Panic(key string, args ...any) *Error {
	return New(KindPanic, key, args...)
}

// WithCause returns e with its cause set.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// Error implements the error interface. The text is the unlocalized form:
// key, arguments and cause.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	b.WriteString(e.Key)
	if len(e.Args) > 0 {
		b.WriteString(" [")
		for i, a := range e.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%v", a)
		}
		b.WriteString("]")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinel.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// Localize renders the error through l. A nil localizer yields Error().
func (e *Error) Localize(l Localizer) string {
	if l == nil {
		return e.Error()
	}
	msg := l.Format(e.Key, e.Args...)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind, true
	}
	return 0, false
}

// Recoverable reports whether the dispatch loop may continue after err.
// Panic-kind errors and errors outside the taxonomy are not recoverable.
func Recoverable(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind != KindPanic
}

// Message renders err through l when it is an *Error, or returns its text.
func Message(err error, l Localizer) string {
	var te *Error
	if errors.As(err, &te) {
		return te.Localize(l)
	}
	return err.Error()
}
