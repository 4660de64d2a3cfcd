package primitives

import (
	"strconv"

	"github.com/dshills/texcore/internal/dispatcher/primitive"
	"github.com/dshills/texcore/internal/state"
	"github.com/dshills/texcore/internal/token"
)

// modeSwitch returns a primitive that sets mode. Mode changes are always
// global.
func modeSwitch(mode state.Interaction) primitive.Primitive {
	return primitive.NewFunc(mode.String(), func(flags *primitive.Flags, ctx *state.Context, _ token.Source, _ primitive.Output) error {
		flags.TakeGlobal()
		return ctx.SetInteraction(mode, true)
	})
}

// InteractionMode is \interactionmode, the interaction mode as an integer.
type InteractionMode struct{}

// Name implements primitive.Primitive.
func (*InteractionMode) Name() string {
	return "interactionmode"
}

// Execute implements primitive.Primitive.
func (m *InteractionMode) Execute(flags *primitive.Flags, ctx *state.Context, src token.Source, _ primitive.Output) error {
	return m.Assign(flags, ctx, src)
}

// Assign implements primitive.Assignable.
func (*InteractionMode) Assign(flags *primitive.Flags, ctx *state.Context, src token.Source) error {
	if err := src.ScanOptionalEquals(); err != nil {
		return err
	}
	n, err := ScanCount(ctx, src)
	if err != nil {
		return err
	}
	mode, err := state.InteractionFromInt(n)
	if err != nil {
		return err
	}
	flags.TakeGlobal()
	return ctx.SetInteraction(mode, true)
}

// ConvertCount implements primitive.CountConvertible.
func (*InteractionMode) ConvertCount(ctx *state.Context, _ token.Source) (int64, error) {
	return int64(ctx.Interaction()), nil
}

// The implements primitive.Theable.
func (*InteractionMode) The(ctx *state.Context, _ token.Source) (token.Tokens, error) {
	return StringTokens(strconv.Itoa(int(ctx.Interaction()))), nil
}

func interaction() []primitive.Primitive {
	return []primitive.Primitive{
		modeSwitch(state.BatchMode),
		modeSwitch(state.NonstopMode),
		modeSwitch(state.ScrollMode),
		modeSwitch(state.ErrorStopMode),
		&InteractionMode{},
	}
}
