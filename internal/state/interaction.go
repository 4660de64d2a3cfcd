package state

import (
	"github.com/dshills/texcore/internal/texerr"
)

// Interaction is the error interaction mode of a run.
type Interaction int

const (
	// BatchMode suppresses terminal output and never stops.
	BatchMode Interaction = iota
	// NonstopMode writes to the terminal but never stops.
	NonstopMode
	// ScrollMode stops only for missing files.
	ScrollMode
	// ErrorStopMode stops on every error.
	ErrorStopMode
)

// String returns the mode name as used by the mode primitives.
func (i Interaction) String() string {
	switch i {
	case BatchMode:
		return "batchmode"
	case NonstopMode:
		return "nonstopmode"
	case ScrollMode:
		return "scrollmode"
	case ErrorStopMode:
		return "errorstopmode"
	default:
		return "unknown"
	}
}

// InteractionFromInt converts a numeric mode.
func InteractionFromInt(n int64) (Interaction, error) {
	if n < int64(BatchMode) || n > int64(ErrorStopMode) {
		return 0, texerr.Interpreter(texerr.KeyInteractionUnknown, n)
	}
	return Interaction(n), nil
}

// ParseInteraction converts a mode name.
func ParseInteraction(s string) (Interaction, error) {
	for i := BatchMode; i <= ErrorStopMode; i++ {
		if i.String() == s {
			return i, nil
		}
	}
	return 0, texerr.Interpreter(texerr.KeyInteractionUnknown, s)
}
