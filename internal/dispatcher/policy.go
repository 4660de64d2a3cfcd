package dispatcher

import (
	"github.com/dshills/texcore/internal/dispatcher/primitive"
	"github.com/dshills/texcore/internal/state"
	"github.com/dshills/texcore/internal/texerr"
)

// Continue is an ErrorHandler that always continues.
func Continue(error, *state.Context) bool {
	return true
}

// InteractionHandler returns an ErrorHandler that follows the context's
// interaction mode. Errors are printed to out, localized through l, except
// in batch mode. The run stops in error-stop mode and continues otherwise.
func InteractionHandler(out primitive.Output, l texerr.Localizer) ErrorHandler {
	return func(err error, ctx *state.Context) bool {
		mode := ctx.Interaction()
		if mode != state.BatchMode {
			out.Print("! " + texerr.Message(err, l))
		}
		return mode != state.ErrorStopMode
	}
}
