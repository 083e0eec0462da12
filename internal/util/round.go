// Package util provides common numeric helpers for premium and coverage math.
package util

import "math"

// RoundTo rounds x to the given number of decimal places.
// For example, with places=2, 66.666 becomes 66.67.
func RoundTo(x float64, places int) float64 {
	if places < 0 {
		return x
	}
	pow := math.Pow(10, float64(places))
	return math.Round(x*pow) / pow
}

// Round2 rounds x to two decimal places, the precision used for
// coverage percentages and premium amounts.
func Round2(x float64) float64 {
	return RoundTo(x, 2)
}

// ClampPercent limits x to the [0, 100] range.
func ClampPercent(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 100 {
		return 100
	}
	return x
}
