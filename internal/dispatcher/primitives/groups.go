package primitives

import (
	"strconv"
	"strings"

	"github.com/dshills/texcore/internal/dispatcher/primitive"
	"github.com/dshills/texcore/internal/state"
	"github.com/dshills/texcore/internal/texerr"
	"github.com/dshills/texcore/internal/token"
)

func groups() []primitive.Primitive {
	return []primitive.Primitive{
		primitive.NewFunc("begingroup", func(_ *primitive.Flags, ctx *state.Context, _ token.Source, _ primitive.Output) error {
			ctx.BeginGroupOf(state.SemiSimpleGroup)
			return nil
		}),
		primitive.NewFunc("endgroup", func(_ *primitive.Flags, ctx *state.Context, src token.Source, _ primitive.Output) error {
			return primitive.CloseGroup(ctx, src, state.SemiSimpleGroup)
		}),
		primitive.NewFunc("aftergroup", func(_ *primitive.Flags, ctx *state.Context, src token.Source, _ primitive.Output) error {
			tok, err := src.Next()
			if err != nil {
				return texerr.Scan(texerr.KeyEOFinMatch, `\aftergroup`).WithCause(err)
			}
			ctx.AfterGroup(tok)
			return nil
		}),
		primitive.NewFunc("showgroups", func(_ *primitive.Flags, ctx *state.Context, _ token.Source, out primitive.Output) error {
			types := ctx.GroupTypes()
			if len(types) == 0 {
				out.Print("### bottom level")
				return nil
			}
			var b strings.Builder
			for i, typ := range types {
				if i > 0 {
					b.WriteByte('\n')
				}
				b.WriteString("### " + typ.String() + " group (level " + strconv.Itoa(len(types)-i) + ")")
			}
			out.Print(b.String())
			return nil
		}),
	}
}
