package state

import (
	"github.com/dshills/texcore/internal/texerr"
	"github.com/dshills/texcore/internal/token"
)

// GroupType tells which delimiter opened a group.
type GroupType int

const (
	// BottomLevel is the global frame.
	BottomLevel GroupType = iota
	// SimpleGroup is opened by a begin-group character.
	SimpleGroup
	// SemiSimpleGroup is opened by \begingroup.
	SemiSimpleGroup
)

// String returns the group type name.
func (t GroupType) String() string {
	switch t {
	case BottomLevel:
		return "bottom level"
	case SimpleGroup:
		return "simple"
	case SemiSimpleGroup:
		return "semi simple"
	default:
		return "unknown"
	}
}

type undoKey struct {
	category Category
	key      string
}

// frame is one scope. saved maps a key to the closure restoring its value
// as of frame entry; order keeps first-write order for replay.
type frame struct {
	level int
	typ   GroupType
	order []undoKey
	saved map[undoKey]func() func() error
	after token.Tokens
}

type groupStack struct {
	frames []*frame
}

func newGroupStack() *groupStack {
	return &groupStack{
		frames: []*frame{{typ: BottomLevel, saved: map[undoKey]func() func() error{}}},
	}
}

func (g *groupStack) top() *frame {
	return g.frames[len(g.frames)-1]
}

func (g *groupStack) level() int {
	return len(g.frames) - 1
}

func (g *groupStack) push(typ GroupType) {
	g.frames = append(g.frames, &frame{
		level: len(g.frames),
		typ:   typ,
		saved: make(map[undoKey]func() func() error),
	})
}

// saves reports whether a local write of k must be logged: only the first
// write inside a non-global frame is.
func (g *groupStack) saves(k undoKey) bool {
	if g.level() == 0 {
		return false
	}
	_, ok := g.top().saved[k]
	return !ok
}

func (g *groupStack) record(k undoKey, restore func() func() error) {
	f := g.top()
	f.saved[k] = restore
	f.order = append(f.order, k)
}

// purge drops every saved value of k so that a global write survives all
// open groups.
func (g *groupStack) purge(k undoKey) {
	for _, f := range g.frames[1:] {
		delete(f.saved, k)
	}
}

// pop removes the top frame and restores its saved values, most recently
// logged first. All values are written before any notification runs.
func (g *groupStack) pop() (*frame, []func() error, error) {
	if g.level() == 0 {
		return nil, nil, texerr.Usage(texerr.KeyTooManyRightBraces)
	}
	f := g.top()
	g.frames = g.frames[:len(g.frames)-1]

	var pending []func() error
	for i := len(f.order) - 1; i >= 0; i-- {
		k := f.order[i]
		restore, ok := f.saved[k]
		if !ok {
			continue
		}
		delete(f.saved, k)
		if n := restore(); n != nil {
			pending = append(pending, n)
		}
	}
	return f, pending, nil
}
