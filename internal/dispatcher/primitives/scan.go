package primitives

import (
	"errors"
	"io"
	"math"

	"github.com/dshills/texcore/internal/dispatcher/primitive"
	"github.com/dshills/texcore/internal/state"
	"github.com/dshills/texcore/internal/texerr"
	"github.com/dshills/texcore/internal/token"
)

// MaxRegister is the highest register number.
const MaxRegister = 32767

// maxFractionDigits bounds the significant digits of a decimal fraction.
const maxFractionDigits = 17

// ScanCount reads an integer: a constant or an internal quantity such as
// \count3, each preceded by any number of signs. Internal dimensions are
// coerced to scaled points.
func ScanCount(ctx *state.Context, src token.Source) (int64, error) {
	neg, tok, err := scanSigns(src)
	if err != nil {
		return 0, err
	}

	var v int64
	if tok.IsDefinable() {
		v, err = internalCount(ctx, tok, src)
	} else {
		src.Push(tok)
		v, err = src.ScanInteger()
	}
	if err != nil {
		return 0, err
	}
	if neg {
		v = -v
	}
	return v, nil
}

func internalCount(ctx *state.Context, tok token.Token, src token.Source) (int64, error) {
	switch c := ctx.Code(tok).(type) {
	case primitive.CountConvertible:
		return c.ConvertCount(ctx, src)
	case primitive.DimenConvertible:
		d, err := c.ConvertDimen(ctx, src)
		return int64(d), err
	}
	src.Push(tok)
	return 0, texerr.Scan(texerr.KeyMissingNumber)
}

// ScanRegisterNumber reads a register number in 0..MaxRegister.
func ScanRegisterNumber(ctx *state.Context, src token.Source) (int64, error) {
	n, err := ScanCount(ctx, src)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > MaxRegister {
		return 0, texerr.Interpreter(texerr.KeyBadRegister, n)
	}
	return n, nil
}

// ScanDimen reads a dimension: an internal dimension, or a factor followed
// by a unit. The factor is a decimal constant or an internal count; the
// unit is a physical unit keyword, optionally preceded by "true", or an
// internal dimension.
func ScanDimen(ctx *state.Context, src token.Source) (state.Dimen, error) {
	neg, tok, err := scanSigns(src)
	if err != nil {
		return 0, err
	}

	var d state.Dimen
	switch c := definedCode(ctx, tok).(type) {
	case primitive.DimenConvertible:
		d, err = c.ConvertDimen(ctx, src)
	case primitive.CountConvertible:
		var n int64
		if n, err = c.ConvertCount(ctx, src); err == nil {
			d, err = scanUnit(ctx, src, n, 0)
		}
	default:
		if tok.IsDefinable() {
			src.Push(tok)
			return 0, texerr.Scan(texerr.KeyMissingNumber)
		}
		var whole, frac int64
		if whole, frac, err = scanDecimal(src, tok); err == nil {
			d, err = scanUnit(ctx, src, whole, frac)
		}
	}
	if err != nil {
		return 0, err
	}
	if neg {
		d = -d
	}
	return d, nil
}

func definedCode(ctx *state.Context, tok token.Token) state.Code {
	if !tok.IsDefinable() {
		return nil
	}
	return ctx.Code(tok)
}

// scanSigns consumes spaces and signs and returns the first other token.
func scanSigns(src token.Source) (bool, token.Token, error) {
	neg := false
	for {
		t, err := src.ScanNonSpace()
		if errors.Is(err, io.EOF) {
			return false, token.Token{}, texerr.Scan(texerr.KeyMissingNumber)
		}
		if err != nil {
			return false, token.Token{}, err
		}
		switch {
		case t.Is(token.Other, "-"):
			neg = !neg
		case t.Is(token.Other, "+"):
		default:
			return neg, t, nil
		}
	}
}

// scanDecimal reads an unsigned decimal constant starting with first. The
// fraction is returned in units of 1/65536, rounded as TeX does.
func scanDecimal(src token.Source, first token.Token) (int64, int64, error) {
	if !isDigit(first) && !isPoint(first) {
		src.Push(first)
		whole, err := src.ScanInteger()
		return whole, 0, err
	}

	var whole int64
	t := first
	var err error
	for isDigit(t) {
		whole = whole*10 + int64(t.Text[0]-'0')
		if whole > math.MaxInt32 {
			return 0, 0, texerr.Scan(texerr.KeyNumberTooBig)
		}
		if t, err = next(src); err != nil {
			return whole, 0, err
		}
	}

	var digits []int64
	if isPoint(t) {
		for {
			if t, err = next(src); err != nil {
				return 0, 0, err
			}
			if !isDigit(t) {
				break
			}
			if len(digits) < maxFractionDigits {
				digits = append(digits, int64(t.Text[0]-'0'))
			}
		}
	}
	if t.Kind != token.Space && t != (token.Token{}) {
		src.Push(t)
	}
	return whole, roundDecimals(digits), nil
}

// next is src.Next with end of input mapped to the zero token.
func next(src token.Source) (token.Token, error) {
	t, err := src.Next()
	if errors.Is(err, io.EOF) {
		return token.Token{}, nil
	}
	return t, err
}

// roundDecimals converts decimal digits after the point to 1/65536 units.
func roundDecimals(digits []int64) int64 {
	var a int64
	for k := len(digits) - 1; k >= 0; k-- {
		a = (a + digits[k]*(1<<17)) / 10
	}
	return (a + 1) / 2
}

func isDigit(t token.Token) bool {
	return t.Kind == token.Other && len(t.Text) == 1 && t.Text[0] >= '0' && t.Text[0] <= '9'
}

func isPoint(t token.Token) bool {
	return t.Is(token.Other, ".") || t.Is(token.Other, ",")
}

// scanUnit reads the unit of a dimension with factor whole+frac/65536.
func scanUnit(ctx *state.Context, src token.Source, whole, frac int64) (state.Dimen, error) {
	t, err := src.ScanNonSpace()
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, err
	}
	if err == nil {
		if c, ok := definedCode(ctx, t).(primitive.DimenConvertible); ok {
			d, err := c.ConvertDimen(ctx, src)
			if err != nil {
				return 0, err
			}
			return multiplyDimen(d, whole, frac)
		}
		src.Push(t)
	}

	isTrue, err := src.ScanKeyword("true")
	if err != nil {
		return 0, err
	}
	if isTrue {
		if whole, frac, err = unmagnify(ctx, whole, frac); err != nil {
			return 0, err
		}
	}

	for _, u := range state.Units {
		ok, err := src.ScanKeyword(u.Name)
		if err != nil {
			return 0, err
		}
		if !ok {
			continue
		}
		skipOneSpace(src)
		d, fits := u.Scale(whole, frac)
		if !fits {
			return 0, texerr.Interpreter(texerr.KeyDimenTooLarge)
		}
		return d, nil
	}
	return 0, texerr.Scan(texerr.KeyIllegalUnit, "pt inserted")
}

func multiplyDimen(d state.Dimen, whole, frac int64) (state.Dimen, error) {
	v := int64(d)*whole + int64(d)*frac/65536
	if v > int64(state.MaxDimen) || v < -int64(state.MaxDimen) {
		return 0, texerr.Interpreter(texerr.KeyDimenTooLarge)
	}
	return state.Dimen(v), nil
}

// unmagnify divides a true dimension by the magnification and locks it.
func unmagnify(ctx *state.Context, whole, frac int64) (int64, int64, error) {
	mag, err := magnification(ctx)
	if err != nil {
		return 0, 0, err
	}
	mag.Lock()
	if mag.Value() == 1000 {
		return whole, frac, nil
	}
	total := (whole*65536 + frac) * 1000 / mag.Value()
	return total / 65536, total % 65536, nil
}

func skipOneSpace(src token.Source) {
	t, err := src.Next()
	if err != nil {
		return
	}
	if t.Kind != token.Space {
		src.Push(t)
	}
}
