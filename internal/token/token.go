// Package token defines interpreter tokens and the token source contract.
package token

import (
	"strings"
	"unicode"
)

// Kind classifies a token.
type Kind uint8

const (
	// ControlSequence is a backslash-introduced name such as \relax.
	ControlSequence Kind = iota

	// Active is an active character such as ~.
	Active

	// Letter is a letter character.
	Letter

	// Other is any other printable character, digits included.
	Other

	// Space is a collapsed run of white space.
	Space

	// BeginGroup is the group-opening delimiter {.
	BeginGroup

	// EndGroup is the group-closing delimiter }.
	EndGroup

	// MacroParam is the parameter character #.
	MacroParam
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case ControlSequence:
		return "control sequence"
	case Active:
		return "active character"
	case Letter:
		return "letter"
	case Other:
		return "other character"
	case Space:
		return "space"
	case BeginGroup:
		return "begin-group character"
	case EndGroup:
		return "end-group character"
	case MacroParam:
		return "macro parameter character"
	default:
		return "unknown"
	}
}

// Token is a single lexical token.
type Token struct {
	Kind Kind

	// Text is the control sequence name without the escape character, or
	// the character itself.
	Text string
}

// CS returns the control sequence token \name.
func CS(name string) Token {
	return Token{Kind: ControlSequence, Text: name}
}

// Char returns the token for r under the default character classes.
func Char(r rune) Token {
	s := string(r)
	switch {
	case r == '{':
		return Token{Kind: BeginGroup, Text: s}
	case r == '}':
		return Token{Kind: EndGroup, Text: s}
	case r == '~':
		return Token{Kind: Active, Text: s}
	case r == '#':
		return Token{Kind: MacroParam, Text: s}
	case unicode.IsSpace(r):
		return Token{Kind: Space, Text: " "}
	case unicode.IsLetter(r):
		return Token{Kind: Letter, Text: s}
	default:
		return Token{Kind: Other, Text: s}
	}
}

// IsDefinable reports whether the token can be bound to a code.
func (t Token) IsDefinable() bool {
	return t.Kind == ControlSequence || t.Kind == Active
}

// Identity is the key under which a definable token is bound in the code
// store: `\name` for control sequences and the bare character for active
// characters.
func (t Token) Identity() string {
	if t.Kind == ControlSequence {
		return `\` + t.Text
	}
	return t.Text
}

// String renders the token as it would be shown to a user.
func (t Token) String() string {
	if t.Kind == ControlSequence {
		return `\` + t.Text
	}
	return t.Text
}

// Is reports whether t is the character token with kind k and text s.
func (t Token) Is(k Kind, s string) bool {
	return t.Kind == k && t.Text == s
}

// Tokens is a token list.
type Tokens []Token

// Equal reports whether both lists hold the same tokens.
func (ts Tokens) Equal(other Tokens) bool {
	if len(ts) != len(other) {
		return false
	}
	for i := range ts {
		if ts[i] != other[i] {
			return false
		}
	}
	return true
}

// String renders the list. A space follows every control word that is not
// at the end of the list.
func (ts Tokens) String() string {
	var b strings.Builder
	for i, t := range ts {
		b.WriteString(t.String())
		if t.Kind == ControlSequence && i < len(ts)-1 && isWord(t.Text) {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// Source produces tokens for primitives.
//
// Next returns io.EOF when the input is exhausted. The Scan methods report
// malformed input as scan-kind texerr errors.
type Source interface {
	// Next returns the next token.
	Next() (Token, error)

	// Push returns tokens to the front of the input; toks[0] is read next.
	Push(toks ...Token)

	// ScanTokens reads a brace-delimited token list and returns its
	// contents without the outer braces.
	ScanTokens() (Tokens, error)

	// ScanNonSpace returns the next token that is not a space.
	ScanNonSpace() (Token, error)

	// ScanInteger reads an optionally signed integer constant.
	ScanInteger() (int64, error)

	// ScanKeyword consumes kw if it comes next, ignoring case and leading
	// spaces, and reports whether it did.
	ScanKeyword(kw string) (bool, error)

	// ScanOptionalEquals consumes optional spaces and an optional =.
	ScanOptionalEquals() error

	// ScanControlSequence reads a definable token.
	ScanControlSequence() (Token, error)
}
