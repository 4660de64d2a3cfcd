package primitive

import (
	"github.com/dshills/texcore/internal/state"
	"github.com/dshills/texcore/internal/texerr"
	"github.com/dshills/texcore/internal/token"
)

var groupDelimiters = map[state.GroupType]string{
	state.SimpleGroup:     "}",
	state.SemiSimpleGroup: `\endgroup`,
}

// CloseGroup ends the innermost group, which must be of type typ, and pushes
// the tokens saved with \aftergroup back onto src.
func CloseGroup(ctx *state.Context, src token.Source, typ state.GroupType) error {
	if ctx.GroupLevel() == 0 {
		return ctx.EndGroup()
	}
	if open := ctx.GroupType(); open != typ {
		return texerr.Interpreter(texerr.KeyExtraOrForgotten, groupDelimiters[typ], groupDelimiters[open])
	}
	err := ctx.EndGroup()
	if after := ctx.TakeAfterGroup(); len(after) > 0 {
		src.Push(after...)
	}
	return err
}
