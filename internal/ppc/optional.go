package ppc

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// Optional is a number that may be absent. The zero value is absent.
type Optional struct {
	value float64
	valid bool
}

// Some returns a present value.
func Some(v float64) Optional {
	return Optional{value: v, valid: true}
}

// None returns an absent value.
func None() Optional {
	return Optional{}
}

// Valid reports whether the value is present.
func (o Optional) Valid() bool {
	return o.valid
}

// Value returns the value and whether it is present.
func (o Optional) Value() (float64, bool) {
	return o.value, o.valid
}

// OrZero returns the value, or 0 when absent.
func (o Optional) OrZero() float64 {
	if !o.valid {
		return 0
	}
	return o.value
}

func (o Optional) String() string {
	if !o.valid {
		return "none"
	}
	return strconv.FormatFloat(o.value, 'f', -1, 64)
}

// MarshalJSON encodes an absent value as null. Infinity and NaN are
// rejected, as encoding/json does for float64.
func (o Optional) MarshalJSON() ([]byte, error) {
	if !o.valid {
		return []byte("null"), nil
	}
	if math.IsNaN(o.value) || math.IsInf(o.value, 0) {
		return nil, fmt.Errorf("ppc: unsupported value %v", o.value)
	}
	return strconv.AppendFloat(nil, o.value, 'g', -1, 64), nil
}

// UnmarshalJSON accepts a JSON number or null.
func (o *Optional) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*o = None()
		return nil
	}

	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("ppc: %s is not a number", data)
	}
	*o = Some(v)
	return nil
}
