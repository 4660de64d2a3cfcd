package primitives

import (
	"strconv"

	"github.com/dshills/texcore/internal/dispatcher/primitive"
	"github.com/dshills/texcore/internal/state"
	"github.com/dshills/texcore/internal/texerr"
	"github.com/dshills/texcore/internal/token"
)

// tokensConvertible is implemented by primitives denoting a token list.
type tokensConvertible interface {
	ConvertTokens(ctx *state.Context, src token.Source) (token.Tokens, error)
}

// register resolves the store key a register primitive addresses. Numbered
// registers read their number from the input; named ones use their name.
type register struct {
	name  string
	named bool
}

func (r register) Name() string {
	return r.name
}

func (r register) key(ctx *state.Context, src token.Source) (string, error) {
	if r.named {
		return r.name, nil
	}
	n, err := ScanRegisterNumber(ctx, src)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n, 10), nil
}

// CountRegister is \count or a named integer register.
type CountRegister struct {
	register
}

// NewCount returns \count, which reads a register number.
func NewCount() *CountRegister {
	return &CountRegister{register{name: "count"}}
}

// NewNamedCount returns a count register bound to a fixed key.
func NewNamedCount(name string) *CountRegister {
	return &CountRegister{register{name: name, named: true}}
}

// Execute implements primitive.Primitive.
func (c *CountRegister) Execute(flags *primitive.Flags, ctx *state.Context, src token.Source, _ primitive.Output) error {
	return c.Assign(flags, ctx, src)
}

// Assign implements primitive.Assignable.
func (c *CountRegister) Assign(flags *primitive.Flags, ctx *state.Context, src token.Source) error {
	key, err := c.key(ctx, src)
	if err != nil {
		return err
	}
	if err := src.ScanOptionalEquals(); err != nil {
		return err
	}
	v, err := ScanCount(ctx, src)
	if err != nil {
		return err
	}
	return ctx.Count().Set(key, v, flags.TakeGlobal())
}

// Advance implements primitive.Advanceable.
func (c *CountRegister) Advance(flags *primitive.Flags, ctx *state.Context, src token.Source) error {
	return c.arith(flags, ctx, src, func(cur, v int64) (int64, error) {
		return state.CheckCount(cur + v)
	})
}

// Multiply implements primitive.Multiplyable.
func (c *CountRegister) Multiply(flags *primitive.Flags, ctx *state.Context, src token.Source) error {
	return c.arith(flags, ctx, src, func(cur, v int64) (int64, error) {
		return state.CheckCount(cur * v)
	})
}

// Divide implements primitive.Divideable.
func (c *CountRegister) Divide(flags *primitive.Flags, ctx *state.Context, src token.Source) error {
	return c.arith(flags, ctx, src, divide)
}

func (c *CountRegister) arith(flags *primitive.Flags, ctx *state.Context, src token.Source, op func(cur, v int64) (int64, error)) error {
	key, err := c.key(ctx, src)
	if err != nil {
		return err
	}
	if _, err := src.ScanKeyword("by"); err != nil {
		return err
	}
	v, err := ScanCount(ctx, src)
	if err != nil {
		return err
	}
	res, err := op(ctx.Count().Get(key), v)
	if err != nil {
		return err
	}
	return ctx.Count().Set(key, res, flags.TakeGlobal())
}

// The implements primitive.Theable.
func (c *CountRegister) The(ctx *state.Context, src token.Source) (token.Tokens, error) {
	v, err := c.ConvertCount(ctx, src)
	if err != nil {
		return nil, err
	}
	return StringTokens(strconv.FormatInt(v, 10)), nil
}

// ConvertCount implements primitive.CountConvertible.
func (c *CountRegister) ConvertCount(ctx *state.Context, src token.Source) (int64, error) {
	key, err := c.key(ctx, src)
	if err != nil {
		return 0, err
	}
	return ctx.Count().Get(key), nil
}

// DimenRegister is \dimen or a named dimension register.
type DimenRegister struct {
	register
}

// NewDimen returns \dimen, which reads a register number.
func NewDimen() *DimenRegister {
	return &DimenRegister{register{name: "dimen"}}
}

// NewNamedDimen returns a dimension register bound to a fixed key.
func NewNamedDimen(name string) *DimenRegister {
	return &DimenRegister{register{name: name, named: true}}
}

// Execute implements primitive.Primitive.
func (d *DimenRegister) Execute(flags *primitive.Flags, ctx *state.Context, src token.Source, _ primitive.Output) error {
	return d.Assign(flags, ctx, src)
}

// Assign implements primitive.Assignable.
func (d *DimenRegister) Assign(flags *primitive.Flags, ctx *state.Context, src token.Source) error {
	key, err := d.key(ctx, src)
	if err != nil {
		return err
	}
	if err := src.ScanOptionalEquals(); err != nil {
		return err
	}
	v, err := ScanDimen(ctx, src)
	if err != nil {
		return err
	}
	return ctx.Dimen().Set(key, v, flags.TakeGlobal())
}

// Advance implements primitive.Advanceable.
func (d *DimenRegister) Advance(flags *primitive.Flags, ctx *state.Context, src token.Source) error {
	key, err := d.key(ctx, src)
	if err != nil {
		return err
	}
	if _, err := src.ScanKeyword("by"); err != nil {
		return err
	}
	v, err := ScanDimen(ctx, src)
	if err != nil {
		return err
	}
	sum, err := state.CheckDimen(int64(ctx.Dimen().Get(key)) + int64(v))
	if err != nil {
		return err
	}
	return ctx.Dimen().Set(key, sum, flags.TakeGlobal())
}

// Multiply implements primitive.Multiplyable.
func (d *DimenRegister) Multiply(flags *primitive.Flags, ctx *state.Context, src token.Source) error {
	return d.scale(flags, ctx, src, func(cur, v int64) (int64, error) {
		return cur * v, nil
	})
}

// Divide implements primitive.Divideable.
func (d *DimenRegister) Divide(flags *primitive.Flags, ctx *state.Context, src token.Source) error {
	return d.scale(flags, ctx, src, divide)
}

func (d *DimenRegister) scale(flags *primitive.Flags, ctx *state.Context, src token.Source, op func(cur, v int64) (int64, error)) error {
	key, err := d.key(ctx, src)
	if err != nil {
		return err
	}
	if _, err := src.ScanKeyword("by"); err != nil {
		return err
	}
	v, err := ScanCount(ctx, src)
	if err != nil {
		return err
	}
	res, err := op(int64(ctx.Dimen().Get(key)), v)
	if err != nil {
		return err
	}
	dim, err := state.CheckDimen(res)
	if err != nil {
		return err
	}
	return ctx.Dimen().Set(key, dim, flags.TakeGlobal())
}

// The implements primitive.Theable.
func (d *DimenRegister) The(ctx *state.Context, src token.Source) (token.Tokens, error) {
	v, err := d.ConvertDimen(ctx, src)
	if err != nil {
		return nil, err
	}
	return StringTokens(v.String()), nil
}

// ConvertDimen implements primitive.DimenConvertible.
func (d *DimenRegister) ConvertDimen(ctx *state.Context, src token.Source) (state.Dimen, error) {
	key, err := d.key(ctx, src)
	if err != nil {
		return 0, err
	}
	return ctx.Dimen().Get(key), nil
}

// ToksRegister is \toks or a named token list register.
type ToksRegister struct {
	register
}

// NewToks returns \toks, which reads a register number.
func NewToks() *ToksRegister {
	return &ToksRegister{register{name: "toks"}}
}

// NewNamedToks returns a token list register bound to a fixed key.
func NewNamedToks(name string) *ToksRegister {
	return &ToksRegister{register{name: name, named: true}}
}

// Execute implements primitive.Primitive.
func (t *ToksRegister) Execute(flags *primitive.Flags, ctx *state.Context, src token.Source, _ primitive.Output) error {
	return t.Assign(flags, ctx, src)
}

// Assign implements primitive.Assignable. The value is a braced token list
// or another token list register.
func (t *ToksRegister) Assign(flags *primitive.Flags, ctx *state.Context, src token.Source) error {
	key, err := t.key(ctx, src)
	if err != nil {
		return err
	}
	if err := src.ScanOptionalEquals(); err != nil {
		return err
	}

	var v token.Tokens
	next, err := src.ScanNonSpace()
	if err != nil {
		return texerr.Scan(texerr.KeyMissingLeftBrace).WithCause(err)
	}
	if c, ok := definedCode(ctx, next).(tokensConvertible); ok {
		v, err = c.ConvertTokens(ctx, src)
	} else {
		src.Push(next)
		v, err = src.ScanTokens()
	}
	if err != nil {
		return err
	}
	return ctx.Toks().Set(key, v, flags.TakeGlobal())
}

// The implements primitive.Theable.
func (t *ToksRegister) The(ctx *state.Context, src token.Source) (token.Tokens, error) {
	return t.ConvertTokens(ctx, src)
}

// ConvertTokens returns a copy of the register contents.
func (t *ToksRegister) ConvertTokens(ctx *state.Context, src token.Source) (token.Tokens, error) {
	key, err := t.key(ctx, src)
	if err != nil {
		return nil, err
	}
	v := ctx.Toks().Get(key)
	return append(token.Tokens(nil), v...), nil
}

// divide truncates toward zero.
func divide(cur, v int64) (int64, error) {
	if v == 0 {
		return 0, texerr.Interpreter(texerr.KeyArithOverflow)
	}
	return cur / v, nil
}

// StringTokens converts s to the character tokens \the produces: spaces
// become space tokens and everything else other characters.
func StringTokens(s string) token.Tokens {
	out := make(token.Tokens, 0, len(s))
	for _, r := range s {
		if r == ' ' {
			out = append(out, token.Token{Kind: token.Space, Text: " "})
			continue
		}
		out = append(out, token.Token{Kind: token.Other, Text: string(r)})
	}
	return out
}
