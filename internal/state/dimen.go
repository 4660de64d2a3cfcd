package state

import (
	"math"
	"strconv"
	"strings"

	"github.com/dshills/texcore/internal/texerr"
)

// Dimen is a length in scaled points; 65536sp make one point.
type Dimen int64

// Point is one printer's point.
const Point Dimen = 65536

// MaxDimen is the largest representable length, just under 16384pt.
const MaxDimen Dimen = 1<<30 - 1

// MaxCount is the largest magnitude a count register holds.
const MaxCount = math.MaxInt32

// CheckCount fails with an arithmetic overflow when v does not fit a count
// register.
func CheckCount(v int64) (int64, error) {
	if v > MaxCount || v < -MaxCount {
		return 0, texerr.Interpreter(texerr.KeyArithOverflow)
	}
	return v, nil
}

// CheckDimen fails with an arithmetic overflow when v scaled points exceed
// MaxDimen.
func CheckDimen(v int64) (Dimen, error) {
	if v > int64(MaxDimen) || v < -int64(MaxDimen) {
		return 0, texerr.Interpreter(texerr.KeyArithOverflow)
	}
	return Dimen(v), nil
}

// Unit is a length unit as a ratio to scaled points.
type Unit struct {
	Name string
	Num  int64
	Den  int64
}

// Units lists the supported physical units.
var Units = []Unit{
	{"pt", 1, 1},
	{"sp", 1, 65536},
	{"bp", 7227, 7200},
	{"in", 7227, 100},
	{"cm", 7227, 254},
	{"mm", 7227, 2540},
	{"pc", 12, 1},
	{"dd", 1238, 1157},
	{"cc", 14856, 1157},
}

// LookupUnit returns the unit with the given name.
func LookupUnit(name string) (Unit, bool) {
	for _, u := range Units {
		if u.Name == name {
			return u, true
		}
	}
	return Unit{}, false
}

// Scale converts whole units plus a fraction (frac/65536 of a unit) to a
// length, reporting whether the result fits.
func (u Unit) Scale(whole int64, frac int64) (Dimen, bool) {
	sp := whole*65536 + frac
	if u.Name == "sp" {
		sp = whole
	} else {
		sp = sp * u.Num / u.Den
	}
	if sp > int64(MaxDimen) || sp < -int64(MaxDimen) {
		return 0, false
	}
	return Dimen(sp), true
}

// String renders d in points the way TeX shows dimensions, e.g. "1.5pt".
func (d Dimen) String() string {
	var b strings.Builder
	v := int64(d)
	if v < 0 {
		b.WriteByte('-')
		v = -v
	}
	b.WriteString(strconv.FormatInt(v/65536, 10))
	b.WriteByte('.')

	s := 10*(v%65536) + 5
	delta := int64(10)
	for {
		if delta > 65536 {
			s += 0x8000 - 50000
		}
		b.WriteByte(byte('0' + s/65536))
		s = 10 * (s % 65536)
		delta *= 10
		if s <= delta {
			break
		}
	}
	b.WriteString("pt")
	return b.String()
}
