// Package signal models fixed-width unsigned port values.
//
// Every value crossing the device boundary is a [Value] interpreted against a
// [Width]. The harness itself is width-agnostic: it only ever compares and
// subtracts values as integers, and relies on [Width.Contains] to reject
// anything a port of that width could not carry.
package signal

import (
	"fmt"
	"math"
)

// MaxWidth is the widest port the harness can represent.
const MaxWidth Width = 64

// Value is the raw content of a port.
type Value uint64

// Width is a port width in bits.
type Width uint8

// Valid reports whether w is in [1, MaxWidth].
func (w Width) Valid() bool {
	return w >= 1 && w <= MaxWidth
}

// Max returns the largest value representable in w bits.
func (w Width) Max() Value {
	if w >= MaxWidth {
		return ^Value(0)
	}
	return Value(1)<<w - 1
}

func (w Width) Contains(v Value) bool {
	return v <= w.Max()
}

// Clamp saturates a signed intermediate result into [0, Max].
func (w Width) Clamp(v int64) Value {
	if v < 0 {
		return 0
	}
	if uint64(v) > uint64(w.Max()) {
		return w.Max()
	}
	return Value(v)
}

func (w Width) String() string {
	return fmt.Sprintf("%d-bit", w)
}

// Diff returns a - b as a signed quantity, saturated to ±math.MaxInt64 when
// the distance does not fit. Use AbsDiff for exact magnitudes.
func Diff(a, b Value) int64 {
	if a >= b {
		return int64(min(uint64(a-b), math.MaxInt64))
	}
	return -int64(min(uint64(b-a), math.MaxInt64))
}

// AbsDiff returns |a - b|.
func AbsDiff(a, b Value) uint64 {
	if a >= b {
		return uint64(a - b)
	}
	return uint64(b - a)
}
