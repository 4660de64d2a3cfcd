package extension

import (
	"github.com/dshills/texcore/internal/config"
	"github.com/dshills/texcore/internal/texerr"
)

// MagnificationID is the capability id of the magnification extension.
const MagnificationID = "magnification"

// DefaultMaxMagnification bounds \mag unless configured otherwise.
const DefaultMaxMagnification = 32768

// Magnification holds the document magnification. Once the value has been
// used it is locked and may only be set to the same value again.
type Magnification struct {
	value  int64
	max    int64
	locked bool
}

// NewMagnification is the Constructor for MagnificationID. It reads the
// optional attribute "max".
func NewMagnification(cfg *config.Config) (any, error) {
	limit, err := cfg.IntOr("max", DefaultMaxMagnification)
	if err != nil {
		return nil, err
	}
	return &Magnification{value: 1000, max: limit}, nil
}

// Value returns the magnification in thousandths.
func (m *Magnification) Value() int64 {
	return m.value
}

// Lock freezes the current value.
func (m *Magnification) Lock() {
	m.locked = true
}

// Set changes the magnification.
func (m *Magnification) Set(v int64) error {
	if m.locked && v != m.value {
		return texerr.Interpreter(texerr.KeyIncompatMag, v, m.value)
	}
	if v < 1 || v > m.max {
		return texerr.Interpreter(texerr.KeyIllegalMag, v)
	}
	m.value = v
	return nil
}
