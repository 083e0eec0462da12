package util

import (
	"math"
	"testing"
)

func TestRoundTo(t *testing.T) {
	tests := []struct {
		name     string
		x        float64
		places   int
		expected float64
	}{
		{
			name:     "basic rounding down",
			x:        66.664,
			places:   2,
			expected: 66.66,
		},
		{
			name:     "tie rounds away from zero",
			x:        66.665,
			places:   2,
			expected: 66.67,
		},
		{
			name:     "negative tie rounds away from zero",
			x:        -66.665,
			places:   2,
			expected: -66.67,
		},
		{
			name:     "zero places",
			x:        49.5,
			places:   0,
			expected: 50,
		},
		{
			name:     "repeating fraction",
			x:        100.0 / 3.0,
			places:   2,
			expected: 33.33,
		},
		{
			name:     "exact value unchanged",
			x:        50.0,
			places:   2,
			expected: 50.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RoundTo(tt.x, tt.places)
			if math.Abs(result-tt.expected) > 1e-10 {
				t.Errorf("RoundTo(%v, %v) = %v, expected %v", tt.x, tt.places, result, tt.expected)
			}
		})
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		name     string
		x        float64
		expected float64
	}{
		{
			name:     "coverage fraction",
			x:        250.0 / 500.0 * 100.0,
			expected: 50.0,
		},
		{
			name:     "two thirds coverage",
			x:        200.0 / 300.0 * 100.0,
			expected: 66.67,
		},
		{
			name:     "premium amount",
			x:        1.23456 * 100,
			expected: 123.46,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round2(tt.x)
			if math.Abs(result-tt.expected) > 1e-10 {
				t.Errorf("Round2(%v) = %v, expected %v", tt.x, result, tt.expected)
			}
		})
	}
}

func TestClampPercent(t *testing.T) {
	tests := []struct {
		name     string
		x        float64
		expected float64
	}{
		{
			name:     "within range unchanged",
			x:        50.0,
			expected: 50.0,
		},
		{
			name:     "above cap clamps to 100",
			x:        150.0,
			expected: 100.0,
		},
		{
			name:     "exact cap unchanged",
			x:        100.0,
			expected: 100.0,
		},
		{
			name:     "below zero clamps to 0",
			x:        -5.0,
			expected: 0.0,
		},
		{
			name:     "zero unchanged",
			x:        0.0,
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ClampPercent(tt.x)
			if result != tt.expected {
				t.Errorf("ClampPercent(%v) = %v, expected %v", tt.x, result, tt.expected)
			}
		})
	}
}

func TestRoundToEdgeCases(t *testing.T) {
	t.Run("negative places returns input", func(t *testing.T) {
		input := 1.2345
		if result := RoundTo(input, -1); result != input {
			t.Errorf("RoundTo(%v, -1) = %v, expected %v", input, result, input)
		}
	})

	t.Run("NaN input returns NaN", func(t *testing.T) {
		if result := RoundTo(math.NaN(), 2); !math.IsNaN(result) {
			t.Errorf("RoundTo(NaN, 2) = %v, expected NaN", result)
		}
	})

	t.Run("infinite inputs return unchanged", func(t *testing.T) {
		posInf := math.Inf(1)
		negInf := math.Inf(-1)

		if result := RoundTo(posInf, 2); result != posInf {
			t.Errorf("RoundTo(+Inf, 2) = %v, expected +Inf", result)
		}
		if result := RoundTo(negInf, 2); result != negInf {
			t.Errorf("RoundTo(-Inf, 2) = %v, expected -Inf", result)
		}
	})
}
