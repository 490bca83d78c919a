package domain

import "math"

// MaxMoney is the exclusive upper bound of a stored amount or price. Both
// columns are NUMERIC(14,2).
const MaxMoney = 1e12

// ValidMoney reports whether v fits the stored precision once rounded to cents.
func ValidMoney(v float64) bool {
	if math.IsNaN(v) || v < 0 {
		return false
	}
	return math.Round(v*100) < MaxMoney*100
}
