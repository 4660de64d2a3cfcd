package primitives

import (
	"strconv"

	"github.com/dshills/texcore/internal/dispatcher/primitive"
	"github.com/dshills/texcore/internal/extension"
	"github.com/dshills/texcore/internal/state"
	"github.com/dshills/texcore/internal/token"
)

// Mag is \mag, backed by the magnification extension.
type Mag struct{}

func magnification(ctx *state.Context) (*extension.Magnification, error) {
	return extension.Lookup[*extension.Magnification](ctx.Extensions(), extension.MagnificationID)
}

// Name implements primitive.Primitive.
func (*Mag) Name() string {
	return "mag"
}

// Execute implements primitive.Primitive.
func (m *Mag) Execute(flags *primitive.Flags, ctx *state.Context, src token.Source, _ primitive.Output) error {
	return m.Assign(flags, ctx, src)
}

// Assign implements primitive.Assignable. The magnification is not scoped;
// the global flag is accepted and ignored.
func (*Mag) Assign(flags *primitive.Flags, ctx *state.Context, src token.Source) error {
	if err := src.ScanOptionalEquals(); err != nil {
		return err
	}
	v, err := ScanCount(ctx, src)
	if err != nil {
		return err
	}
	mag, err := magnification(ctx)
	if err != nil {
		return err
	}
	flags.TakeGlobal()
	return mag.Set(v)
}

// ConvertCount implements primitive.CountConvertible.
func (*Mag) ConvertCount(ctx *state.Context, _ token.Source) (int64, error) {
	mag, err := magnification(ctx)
	if err != nil {
		return 0, err
	}
	return mag.Value(), nil
}

// The implements primitive.Theable.
func (m *Mag) The(ctx *state.Context, src token.Source) (token.Tokens, error) {
	v, err := m.ConvertCount(ctx, src)
	if err != nil {
		return nil, err
	}
	return StringTokens(strconv.FormatInt(v, 10)), nil
}
