package primitives

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/dshills/texcore/internal/config"
	"github.com/dshills/texcore/internal/state"
	"github.com/dshills/texcore/internal/token"
)

// RegistersSection is the configuration section that declares named
// registers. Its sub-sections count, dimen and toks map register names to
// initial values:
//
//	[Registers.count]
//	tracingcommands = 0
//
//	[Registers.dimen]
//	hsize = "6.5in"
//
//	[Registers.toks]
//	everypar = ""
const RegistersSection = "Registers"

// NamedRegisters is a set of named registers with their initial values.
type NamedRegisters struct {
	counts map[string]int64
	dimens map[string]string
	toks   map[string]string
}

// DefaultNamedRegisters returns the registers every run has.
func DefaultNamedRegisters() *NamedRegisters {
	return &NamedRegisters{
		counts: map[string]int64{
			"tracingcommands": 0,
			"tracingonline":   0,
		},
		dimens: map[string]string{
			"hsize":     "6.5in",
			"parindent": "20pt",
		},
		toks: map[string]string{
			"everypar": "",
		},
	}
}

// LoadNamedRegisters returns the default registers extended and overridden
// by the Registers section of cfg. A nil cfg or a missing section yields
// the defaults.
func LoadNamedRegisters(cfg *config.Config) (*NamedRegisters, error) {
	n := DefaultNamedRegisters()
	if cfg == nil {
		return n, nil
	}
	sec, err := cfg.Section(RegistersSection)
	if errors.Is(err, config.ErrSectionNotFound) {
		return n, nil
	}
	if err != nil {
		return nil, err
	}

	if err := eachKey(sec, "count", func(c *config.Config, k string) error {
		v, err := c.GetInt(k)
		n.counts[k] = v
		return err
	}); err != nil {
		return nil, err
	}
	if err := eachKey(sec, "dimen", func(c *config.Config, k string) error {
		v, err := c.GetString(k)
		n.dimens[k] = v
		return err
	}); err != nil {
		return nil, err
	}
	if err := eachKey(sec, "toks", func(c *config.Config, k string) error {
		v, err := c.GetString(k)
		n.toks[k] = v
		return err
	}); err != nil {
		return nil, err
	}
	return n, nil
}

func eachKey(sec *config.Config, name string, fn func(c *config.Config, key string) error) error {
	sub, err := sec.Section(name)
	if errors.Is(err, config.ErrSectionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, k := range sub.Keys() {
		if err := fn(sub, k); err != nil {
			return err
		}
	}
	return nil
}

// Names returns the register names, sorted.
func (n *NamedRegisters) Names() []string {
	names := slices.Collect(maps.Keys(n.counts))
	names = slices.AppendSeq(names, maps.Keys(n.dimens))
	names = slices.AppendSeq(names, maps.Keys(n.toks))
	slices.Sort(names)
	return names
}

// Register adds one primitive per named register to r.
func (n *NamedRegisters) Register(r Registrar) error {
	for _, name := range slices.Sorted(maps.Keys(n.counts)) {
		if err := r.Register(name, NewNamedCount(name)); err != nil {
			return err
		}
	}
	for _, name := range slices.Sorted(maps.Keys(n.dimens)) {
		if err := r.Register(name, NewNamedDimen(name)); err != nil {
			return err
		}
	}
	for _, name := range slices.Sorted(maps.Keys(n.toks)) {
		if err := r.Register(name, NewNamedToks(name)); err != nil {
			return err
		}
	}
	return nil
}

// Initialize assigns the initial values globally.
func (n *NamedRegisters) Initialize(ctx *state.Context) error {
	for _, name := range slices.Sorted(maps.Keys(n.counts)) {
		if err := ctx.Count().Set(name, n.counts[name], true); err != nil {
			return err
		}
	}
	for _, name := range slices.Sorted(maps.Keys(n.dimens)) {
		d, err := ScanDimen(ctx, token.NewScanner(name, n.dimens[name]))
		if err != nil {
			return fmt.Errorf("register %s: %w", name, err)
		}
		if err := ctx.Dimen().Set(name, d, true); err != nil {
			return err
		}
	}
	for _, name := range slices.Sorted(maps.Keys(n.toks)) {
		toks, err := token.NewScanner(name, "{"+n.toks[name]+"}").ScanTokens()
		if err != nil {
			return fmt.Errorf("register %s: %w", name, err)
		}
		if err := ctx.Toks().Set(name, toks, true); err != nil {
			return err
		}
	}
	return nil
}
