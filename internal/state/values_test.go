package state

import (
	"errors"
	"testing"

	"github.com/dshills/texcore/internal/texerr"
)

func TestDimen_String(t *testing.T) {
	tests := []struct {
		d    Dimen
		want string
	}{
		{0, "0.0pt"},
		{Point, "1.0pt"},
		{Point + Point/2, "1.5pt"},
		{-2 * Point, "-2.0pt"},
		{1, "0.00002pt"},
		{Point / 3, "0.33333pt"},
	}

	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("Dimen(%d).String() = %q, want %q", int64(tt.d), got, tt.want)
		}
	}
}

func TestUnit_Scale(t *testing.T) {
	tests := []struct {
		unit  string
		whole int64
		frac  int64
		want  Dimen
	}{
		{"pt", 1, 0, Point},
		{"pt", 1, 32768, Point + Point/2},
		{"sp", 100, 0, 100},
		{"in", 1, 0, 4736286},
		{"pc", 1, 0, 12 * Point},
	}

	for _, tt := range tests {
		u, ok := LookupUnit(tt.unit)
		if !ok {
			t.Fatalf("unit %s missing", tt.unit)
		}
		got, ok := u.Scale(tt.whole, tt.frac)
		if !ok || got != tt.want {
			t.Errorf("%d %s = %d, %v; want %d", tt.whole, tt.unit, got, ok, tt.want)
		}
	}

	pt, _ := LookupUnit("pt")
	if _, ok := pt.Scale(16384, 0); ok {
		t.Error("16384pt should overflow")
	}
	if _, ok := LookupUnit("furlong"); ok {
		t.Error("unknown unit found")
	}
}

func TestInteractionFromInt(t *testing.T) {
	for n := int64(0); n <= 3; n++ {
		mode, err := InteractionFromInt(n)
		if err != nil || int64(mode) != n {
			t.Errorf("InteractionFromInt(%d) = %v, %v", n, mode, err)
		}
	}

	_, err := InteractionFromInt(4)
	var te *texerr.Error
	if !errors.As(err, &te) || te.Key != texerr.KeyInteractionUnknown {
		t.Errorf("InteractionFromInt(4) error = %v", err)
	}
	if _, err := InteractionFromInt(-1); err == nil {
		t.Error("InteractionFromInt(-1) should fail")
	}
}

func TestParseInteraction(t *testing.T) {
	mode, err := ParseInteraction("scrollmode")
	if err != nil || mode != ScrollMode {
		t.Errorf("ParseInteraction() = %v, %v", mode, err)
	}
	if _, err := ParseInteraction("loud"); err == nil {
		t.Error("unknown mode accepted")
	}
	if ErrorStopMode.String() != "errorstopmode" {
		t.Errorf("String() = %q", ErrorStopMode.String())
	}
}

func TestStore_Keys(t *testing.T) {
	c := New()
	_ = c.Count().Set("b", 1, false)
	_ = c.Count().Set("a", 2, false)

	keys := c.Count().Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("Keys() = %v", keys)
	}
	if c.Count().Category() != CategoryCount {
		t.Errorf("Category() = %q", c.Count().Category())
	}
}

func TestStore_Unobserve(t *testing.T) {
	c := New()
	calls := 0
	sub := c.Count().Observe("x", ObserverFunc[int64](func(Change[int64]) error {
		calls++
		return nil
	}))

	c.Count().Unobserve(sub)
	c.Count().Unobserve(sub)
	_ = c.Count().Set("x", 1, false)

	if calls != 0 {
		t.Errorf("removed observer ran %d times", calls)
	}
}
