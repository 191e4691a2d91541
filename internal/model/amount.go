// Package model holds the value model shared by every solver layer: units,
// time windows, locations, jobs, vehicles, routes and solutions.
package model

import "fmt"

// Amount is a fixed-length vector of signed integers used for pickup,
// delivery and capacity quantities. All vectors compared against each other
// must share the same length; callers are expected to have validated that
// at input-parsing time.
type Amount []int64

// NewAmount returns a zero-valued amount of the given size.
func NewAmount(size int) Amount {
	return make(Amount, size)
}

// Add returns the componentwise sum a+b. Panics if lengths differ.
func (a Amount) Add(b Amount) Amount {
	out := make(Amount, len(a))
	a.addInto(b, out)
	return out
}

// Sub returns the componentwise difference a-b. Panics if lengths differ.
func (a Amount) Sub(b Amount) Amount {
	if len(a) != len(b) {
		panic(fmt.Sprintf("amount: length mismatch %d != %d", len(a), len(b)))
	}
	out := make(Amount, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

func (a Amount) addInto(b Amount, out Amount) {
	if len(a) != len(b) {
		panic(fmt.Sprintf("amount: length mismatch %d != %d", len(a), len(b)))
	}
	for i := range a {
		out[i] = a[i] + b[i]
	}
}

// LessEq reports whether a <= b componentwise.
func (a Amount) LessEq(b Amount) bool {
	for i := range a {
		if a[i] > b[i] {
			return false
		}
	}
	return true
}

// Max returns the componentwise maximum of a and b.
func (a Amount) Max(b Amount) Amount {
	out := make(Amount, len(a))
	for i := range a {
		if a[i] >= b[i] {
			out[i] = a[i]
		} else {
			out[i] = b[i]
		}
	}
	return out
}

// IsZero reports whether every component is zero.
func (a Amount) IsZero() bool {
	for _, v := range a {
		if v != 0 {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (a Amount) Clone() Amount {
	out := make(Amount, len(a))
	copy(out, a)
	return out
}

// NonNegative reports whether every component is >= 0.
func (a Amount) NonNegative() bool {
	for _, v := range a {
		if v < 0 {
			return false
		}
	}
	return true
}
