package token

import (
	"errors"
	"io"
	"math"
	"strings"
	"unicode"

	"github.com/dshills/texcore/internal/texerr"
)

// Scanner is a Source reading from in-memory text.
type Scanner struct {
	name  string
	input []rune
	pos   int

	// back holds pushed tokens in reverse order; the last one is read next.
	back []Token

	// afterCS is set after a control word so that following spaces are
	// skipped.
	afterCS bool
}

// NewScanner creates a scanner over text. name identifies the input in
// error messages.
func NewScanner(name, text string) *Scanner {
	return &Scanner{name: name, input: []rune(text)}
}

// Name returns the input name.
func (s *Scanner) Name() string {
	return s.name
}

// Push implements Source.
func (s *Scanner) Push(toks ...Token) {
	for i := len(toks) - 1; i >= 0; i-- {
		s.back = append(s.back, toks[i])
	}
}

// Next implements Source.
func (s *Scanner) Next() (Token, error) {
	if n := len(s.back); n > 0 {
		t := s.back[n-1]
		s.back = s.back[:n-1]
		return t, nil
	}

	skipSpace := s.afterCS
	s.afterCS = false

	for s.pos < len(s.input) {
		r := s.input[s.pos]
		switch {
		case r == '%':
			for s.pos < len(s.input) && s.input[s.pos] != '\n' {
				s.pos++
			}
			// The newline ending a comment is dropped along with
			// the indentation of the next line.
			s.pos++
			for s.pos < len(s.input) && isBlank(s.input[s.pos]) {
				s.pos++
			}
		case unicode.IsSpace(r):
			for s.pos < len(s.input) && unicode.IsSpace(s.input[s.pos]) {
				s.pos++
			}
			if !skipSpace {
				return Token{Kind: Space, Text: " "}, nil
			}
		case r == '\\':
			return s.controlSequence()
		default:
			s.pos++
			return Char(r), nil
		}
	}
	return Token{}, io.EOF
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t'
}

func (s *Scanner) controlSequence() (Token, error) {
	s.pos++
	if s.pos >= len(s.input) {
		return Token{}, texerr.Scan(texerr.KeyMissingCtrlSeq)
	}
	start := s.pos
	if !unicode.IsLetter(s.input[s.pos]) {
		s.pos++
		name := string(s.input[start:s.pos])
		s.afterCS = name == " "
		return CS(name), nil
	}
	for s.pos < len(s.input) && unicode.IsLetter(s.input[s.pos]) {
		s.pos++
	}
	s.afterCS = true
	return CS(string(s.input[start:s.pos])), nil
}

// ScanNonSpace implements Source.
func (s *Scanner) ScanNonSpace() (Token, error) {
	for {
		t, err := s.Next()
		if err != nil {
			return Token{}, err
		}
		if t.Kind != Space {
			return t, nil
		}
	}
}

// ScanTokens implements Source.
func (s *Scanner) ScanTokens() (Tokens, error) {
	t, err := s.ScanNonSpace()
	if errors.Is(err, io.EOF) {
		return nil, texerr.Scan(texerr.KeyMissingLeftBrace)
	}
	if err != nil {
		return nil, err
	}
	if t.Kind != BeginGroup {
		s.Push(t)
		return nil, texerr.Scan(texerr.KeyMissingLeftBrace)
	}

	var out Tokens
	depth := 1
	for {
		t, err := s.Next()
		if errors.Is(err, io.EOF) {
			return nil, texerr.Scan(texerr.KeyEOFinMatch, s.name)
		}
		if err != nil {
			return nil, err
		}
		switch t.Kind {
		case BeginGroup:
			depth++
		case EndGroup:
			depth--
			if depth == 0 {
				return out, nil
			}
		}
		out = append(out, t)
	}
}

// ScanInteger implements Source. It accepts decimal digits, "hex, 'octal and
// `character constants, each preceded by any number of signs.
func (s *Scanner) ScanInteger() (int64, error) {
	neg, t, err := s.scanSigns()
	if err != nil {
		return 0, err
	}

	var v int64
	switch {
	case t.Is(Other, "`"):
		c, err := s.Next()
		if err != nil {
			return 0, texerr.Scan(texerr.KeyMissingNumber).WithCause(err)
		}
		r := []rune(c.Text)
		if len(r) != 1 {
			s.Push(c)
			return 0, texerr.Scan(texerr.KeyMissingNumber)
		}
		v = int64(r[0])
		s.skipOneSpace()
	case t.Is(Other, `"`):
		v, err = s.scanDigits(16, Token{})
	case t.Is(Other, "'"):
		v, err = s.scanDigits(8, Token{})
	case t.Kind == Other && digitValue(t, 10) >= 0:
		v, err = s.scanDigits(10, t)
	default:
		s.Push(t)
		return 0, texerr.Scan(texerr.KeyMissingNumber)
	}
	if err != nil {
		return 0, err
	}
	if neg {
		v = -v
	}
	return v, nil
}

// scanSigns consumes spaces and signs and returns the first other token.
func (s *Scanner) scanSigns() (bool, Token, error) {
	neg := false
	for {
		t, err := s.ScanNonSpace()
		if errors.Is(err, io.EOF) {
			return false, Token{}, texerr.Scan(texerr.KeyMissingNumber)
		}
		if err != nil {
			return false, Token{}, err
		}
		switch {
		case t.Is(Other, "-"):
			neg = !neg
		case t.Is(Other, "+"):
		default:
			return neg, t, nil
		}
	}
}

func (s *Scanner) scanDigits(base int64, first Token) (int64, error) {
	var v int64
	n := 0
	if first.Text != "" {
		v = int64(digitValue(first, base))
		n = 1
	}
	for {
		t, err := s.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, err
		}
		d := digitValue(t, base)
		if d < 0 {
			if t.Kind != Space {
				s.Push(t)
			}
			break
		}
		v = v*base + int64(d)
		if v > math.MaxInt32 {
			return 0, texerr.Scan(texerr.KeyNumberTooBig)
		}
		n++
	}
	if n == 0 {
		return 0, texerr.Scan(texerr.KeyMissingNumber)
	}
	return v, nil
}

func digitValue(t Token, base int64) int {
	if t.Kind != Other && t.Kind != Letter {
		return -1
	}
	if len(t.Text) != 1 {
		return -1
	}
	c := t.Text[0]
	var d int
	switch {
	case c >= '0' && c <= '9' && t.Kind == Other:
		d = int(c - '0')
	case c >= 'A' && c <= 'F' && base == 16:
		d = int(c-'A') + 10
	default:
		return -1
	}
	if int64(d) >= base {
		return -1
	}
	return d
}

func (s *Scanner) skipOneSpace() {
	t, err := s.Next()
	if err != nil {
		return
	}
	if t.Kind != Space {
		s.Push(t)
	}
}

// ScanKeyword implements Source.
func (s *Scanner) ScanKeyword(kw string) (bool, error) {
	var seen []Token
	first := true
	for _, want := range kw {
		var t Token
		var err error
		if first {
			t, err = s.ScanNonSpace()
			first = false
		} else {
			t, err = s.Next()
		}
		if errors.Is(err, io.EOF) {
			s.Push(seen...)
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if (t.Kind != Letter && t.Kind != Other) || !strings.EqualFold(t.Text, string(want)) {
			s.Push(append(seen, t)...)
			return false, nil
		}
		seen = append(seen, t)
	}
	return true, nil
}

// ScanOptionalEquals implements Source.
func (s *Scanner) ScanOptionalEquals() error {
	t, err := s.ScanNonSpace()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return err
	}
	if !t.Is(Other, "=") {
		s.Push(t)
	}
	return nil
}

// ScanControlSequence implements Source.
func (s *Scanner) ScanControlSequence() (Token, error) {
	t, err := s.ScanNonSpace()
	if errors.Is(err, io.EOF) {
		return Token{}, texerr.Scan(texerr.KeyMissingCtrlSeq)
	}
	if err != nil {
		return Token{}, err
	}
	if !t.IsDefinable() {
		s.Push(t)
		return Token{}, texerr.Scan(texerr.KeyMissingCtrlSeq)
	}
	return t, nil
}
