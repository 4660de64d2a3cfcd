package primitive

import "strings"

// Flag is a single prefix flag.
type Flag uint8

const (
	// Global makes the next assignment global.
	Global Flag = 1 << iota

	// Immediate requests immediate execution of output primitives.
	Immediate

	// Long allows paragraph ends in macro arguments.
	Long

	// Outer forbids use in skipped text and arguments.
	Outer

	// Protected prevents expansion in expanded contexts.
	Protected

	// Expanded marks an expanded definition.
	Expanded
)

var flagLetters = []struct {
	flag   Flag
	letter byte
}{
	{Global, 'G'},
	{Long, 'L'},
	{Outer, 'O'},
	{Immediate, 'I'},
	{Protected, 'P'},
	{Expanded, 'X'},
}

// Flags collects the prefixes seen before a primitive. Prefix primitives
// set flags; the primitive that follows consumes the ones it understands.
type Flags struct {
	set Flag
}

// Set raises f.
func (f *Flags) Set(fl Flag) {
	f.set |= fl
}

// Has reports whether fl is raised.
func (f *Flags) Has(fl Flag) bool {
	return f.set&fl != 0
}

// Unset lowers fl.
func (f *Flags) Unset(fl Flag) {
	f.set &^= fl
}

// Take reports whether fl is raised and lowers it.
func (f *Flags) Take(fl Flag) bool {
	had := f.Has(fl)
	f.Unset(fl)
	return had
}

// TakeGlobal consumes the global flag.
func (f *Flags) TakeGlobal() bool {
	return f.Take(Global)
}

// Clear lowers every flag.
func (f *Flags) Clear() {
	f.set = 0
}

// IsDirty reports whether any flag is raised.
func (f *Flags) IsDirty() bool {
	return f.set != 0
}

// Copy returns an independent copy.
func (f *Flags) Copy() *Flags {
	c := *f
	return &c
}

// String renders the flags as GLOIPX, with a dash for each lowered flag.
func (f *Flags) String() string {
	var b strings.Builder
	for _, fl := range flagLetters {
		if f.Has(fl.flag) {
			b.WriteByte(fl.letter)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}
