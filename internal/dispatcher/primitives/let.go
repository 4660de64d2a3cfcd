package primitives

import (
	"github.com/dshills/texcore/internal/dispatcher/primitive"
	"github.com/dshills/texcore/internal/state"
	"github.com/dshills/texcore/internal/texerr"
	"github.com/dshills/texcore/internal/token"
)

// Char is the meaning of a control sequence \let to a character token.
// Executing it reinserts the character.
type Char struct {
	Tok token.Token
}

// Name implements primitive.Primitive.
func (c Char) Name() string {
	return c.Tok.Text
}

// Meaning describes the character, e.g. "the letter a".
func (c Char) Meaning() string {
	return "the " + c.Tok.Kind.String() + " " + c.Tok.Text
}

// Execute implements primitive.Primitive.
func (c Char) Execute(_ *primitive.Flags, _ *state.Context, src token.Source, _ primitive.Output) error {
	src.Push(c.Tok)
	return nil
}

// Let is \let: it gives a control sequence the current meaning of another
// token.
type Let struct{}

// Name implements primitive.Primitive.
func (*Let) Name() string {
	return "let"
}

// Execute implements primitive.Primitive.
func (l *Let) Execute(flags *primitive.Flags, ctx *state.Context, src token.Source, _ primitive.Output) error {
	return l.Assign(flags, ctx, src)
}

// Assign implements primitive.Assignable. Letting a control sequence equal
// an undefined one makes it undefined.
func (*Let) Assign(flags *primitive.Flags, ctx *state.Context, src token.Source) error {
	target, err := src.ScanControlSequence()
	if err != nil {
		return err
	}
	if err := src.ScanOptionalEquals(); err != nil {
		return err
	}
	skipOneSpace(src)

	tok, err := src.Next()
	if err != nil {
		return texerr.Scan(texerr.KeyEOFinMatch, `\let`).WithCause(err)
	}
	global := flags.TakeGlobal()

	if !tok.IsDefinable() {
		return ctx.SetCode(target, Char{Tok: tok}, global)
	}
	if code := ctx.Code(tok); code != nil {
		return ctx.SetCode(target, code, global)
	}
	return ctx.Codes().Unset(target.Identity(), global)
}
