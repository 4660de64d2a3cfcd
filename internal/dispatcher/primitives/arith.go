package primitives

import (
	"github.com/dshills/texcore/internal/dispatcher/primitive"
	"github.com/dshills/texcore/internal/state"
	"github.com/dshills/texcore/internal/texerr"
	"github.com/dshills/texcore/internal/token"
)

// operand reads the token after an arithmetic primitive and returns its
// meaning.
func operand(ctx *state.Context, src token.Source, op string) (token.Token, state.Code, error) {
	tok, err := src.ScanNonSpace()
	if err != nil {
		return token.Token{}, nil, texerr.Scan(texerr.KeyMissingCtrlSeq).WithCause(err)
	}
	code := definedCode(ctx, tok)
	if code == nil {
		if tok.IsDefinable() {
			return tok, nil, texerr.Interpreter(texerr.KeyUndefinedToken, tok.String())
		}
		return tok, nil, cantUse(tok, op)
	}
	return tok, code, nil
}

func cantUse(tok token.Token, op string) error {
	return texerr.Interpreter(texerr.KeyCantUseAfter, tok.String(), `\`+op)
}

func arithmetic() []primitive.Primitive {
	return []primitive.Primitive{
		primitive.NewFunc("advance", func(flags *primitive.Flags, ctx *state.Context, src token.Source, _ primitive.Output) error {
			tok, code, err := operand(ctx, src, "advance")
			if err != nil {
				return err
			}
			a, ok := code.(primitive.Advanceable)
			if !ok {
				return cantUse(tok, "advance")
			}
			return a.Advance(flags, ctx, src)
		}),
		primitive.NewFunc("multiply", func(flags *primitive.Flags, ctx *state.Context, src token.Source, _ primitive.Output) error {
			tok, code, err := operand(ctx, src, "multiply")
			if err != nil {
				return err
			}
			m, ok := code.(primitive.Multiplyable)
			if !ok {
				return cantUse(tok, "multiply")
			}
			return m.Multiply(flags, ctx, src)
		}),
		primitive.NewFunc("divide", func(flags *primitive.Flags, ctx *state.Context, src token.Source, _ primitive.Output) error {
			tok, code, err := operand(ctx, src, "divide")
			if err != nil {
				return err
			}
			d, ok := code.(primitive.Divideable)
			if !ok {
				return cantUse(tok, "divide")
			}
			return d.Divide(flags, ctx, src)
		}),
	}
}
