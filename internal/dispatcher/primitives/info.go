package primitives

import (
	"errors"
	"io"

	"github.com/dshills/texcore/internal/dispatcher/primitive"
	"github.com/dshills/texcore/internal/state"
	"github.com/dshills/texcore/internal/texerr"
	"github.com/dshills/texcore/internal/token"
)

// theTokens reads an internal quantity and returns its \the expansion.
func theTokens(ctx *state.Context, src token.Source, op string) (token.Tokens, error) {
	tok, code, err := operand(ctx, src, op)
	if err != nil {
		return nil, err
	}
	t, ok := code.(primitive.Theable)
	if !ok {
		return nil, cantUse(tok, op)
	}
	return t.The(ctx, src)
}

// The is \the: it reads an internal quantity and inserts its value into
// the input.
type The struct{}

// Name implements primitive.Primitive.
func (*The) Name() string {
	return "the"
}

// Execute implements primitive.Primitive.
func (*The) Execute(_ *primitive.Flags, ctx *state.Context, src token.Source, _ primitive.Output) error {
	toks, err := theTokens(ctx, src, "the")
	if err != nil {
		return err
	}
	src.Push(toks...)
	return nil
}

// Expand returns toks with every \the and its operand replaced by the value
// it denotes. The inserted values are not expanded again.
func Expand(ctx *state.Context, toks token.Tokens) (token.Tokens, error) {
	src := token.NewScanner("expand", "")
	src.Push(toks...)

	var out token.Tokens
	for {
		tok, err := src.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if _, ok := definedCode(ctx, tok).(*The); ok {
			value, err := theTokens(ctx, src, "the")
			if err != nil {
				return nil, err
			}
			out = append(out, value...)
			continue
		}
		out = append(out, tok)
	}
}

// Meaning describes what tok means in ctx, as \show prints it.
func Meaning(ctx *state.Context, tok token.Token) string {
	if !tok.IsDefinable() {
		return "the " + tok.Kind.String() + " " + tok.Text
	}
	switch code := ctx.Code(tok).(type) {
	case nil:
		return "undefined"
	case Char:
		return code.Meaning()
	default:
		return `\` + code.Name()
	}
}

func info() []primitive.Primitive {
	return []primitive.Primitive{
		primitive.NewFunc("relax", func(*primitive.Flags, *state.Context, token.Source, primitive.Output) error {
			return nil
		}),
		primitive.NewFunc("message", func(flags *primitive.Flags, ctx *state.Context, src token.Source, out primitive.Output) error {
			flags.Take(primitive.Immediate)
			toks, err := src.ScanTokens()
			if err != nil {
				return err
			}
			if toks, err = Expand(ctx, toks); err != nil {
				return err
			}
			out.Print(toks.String())
			return nil
		}),
		&The{},
		primitive.NewFunc("showthe", func(_ *primitive.Flags, ctx *state.Context, src token.Source, out primitive.Output) error {
			toks, err := theTokens(ctx, src, "showthe")
			if err != nil {
				return err
			}
			out.Print("> " + toks.String() + ".")
			return nil
		}),
		primitive.NewFunc("show", func(_ *primitive.Flags, ctx *state.Context, src token.Source, out primitive.Output) error {
			tok, err := src.Next()
			if err != nil {
				return texerr.Scan(texerr.KeyEOFinMatch, `\show`).WithCause(err)
			}
			out.Print("> " + tok.String() + "=" + Meaning(ctx, tok) + ".")
			return nil
		}),
	}
}
