package model

import (
	"fmt"
	"math"
)

// Finite reports whether v is neither NaN nor an infinity.
func Finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// CheckFinite returns an error wrapping ErrNonFiniteNumber when v is NaN or
// infinite. Amounts, spends and scores are checked at the data-source
// boundary with it, like timestamps are with ParseTime.
func CheckFinite(field string, v float64) error {
	if !Finite(v) {
		return fmt.Errorf("%s: %v: %w", field, v, ErrNonFiniteNumber)
	}
	return nil
}
