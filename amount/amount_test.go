package amount

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFraction(t *testing.T) {
	t.Run("full fill is identity", func(t *testing.T) {
		require.Equal(t, 42, Fraction(7, 7, 42))
		require.Equal(t, 0, Fraction(1, 1, 0))
		// Fast path skips the divisibility check entirely.
		require.Equal(t, 13, Fraction(3, 3, 13))
	})

	t.Run("exact", func(t *testing.T) {
		require.Equal(t, 25, Fraction(1, 4, 100))
		require.Equal(t, 75, Fraction(3, 4, 100))
		require.Equal(t, 200, Fraction(2, 1, 100))
		require.Equal(t, 0, Fraction(1, 10, 0))
	})

	t.Run("inexact", func(t *testing.T) {
		require.PanicsWithValue(t, ErrInexactFraction, func() {
			Fraction(1, 3, 100)
		})
		require.PanicsWithValue(t, ErrInexactFraction, func() {
			Fraction(3, 7, 5)
		})
	})
}

func TestInterpolate(t *testing.T) {
	const start, end = 1000, 2000

	t.Run("window start", func(t *testing.T) {
		require.Equal(t, start, Interpolate(start, end, 100, 200, 100, false))
		require.Equal(t, start, Interpolate(start, end, 100, 200, 100, true))
	})

	t.Run("window end", func(t *testing.T) {
		require.Equal(t, 1990, Interpolate(start, end, 100, 200, 199, false))
	})

	t.Run("constant amount skips interpolation", func(t *testing.T) {
		require.Equal(t, 500, Interpolate(500, 500, 100, 200, 150, false))
		require.Equal(t, 500, Interpolate(500, 500, 100, 200, 150, true))
	})

	t.Run("quarter of the window", func(t *testing.T) {
		require.Equal(t, 125, Interpolate(100, 200, 0, 100, 25, false))
	})

	t.Run("rounding", func(t *testing.T) {
		// 10*(2/3) + 20*(1/3) = 40/3 = 13.(3).
		require.Equal(t, 13, Interpolate(10, 20, 0, 3, 1, false))
		require.Equal(t, 14, Interpolate(10, 20, 0, 3, 1, true))
	})

	t.Run("zero weighted sum never rounds up", func(t *testing.T) {
		require.Equal(t, 0, Interpolate(0, 0, 0, 100, 37, true))
		// Distinct endpoints so the interpolation actually runs: nothing
		// elapsed of a path starting at zero weighs to exactly zero.
		require.Equal(t, 0, Interpolate(0, 100, 0, 100, 0, true))
	})

	t.Run("descending path", func(t *testing.T) {
		require.Equal(t, 175, Interpolate(200, 100, 0, 100, 25, false))
	})
}

func TestApplyFraction(t *testing.T) {
	t.Run("constant amount", func(t *testing.T) {
		require.Equal(t, 50, ApplyFraction(200, 200, 1, 4, 0, 100, 30, false))
	})

	t.Run("endpoints scaled before interpolation", func(t *testing.T) {
		// Half of 100..200 over 100 seconds at 25 elapsed: 50..100 -> 62.5.
		require.Equal(t, 62, ApplyFraction(100, 200, 1, 2, 0, 100, 25, false))
		require.Equal(t, 63, ApplyFraction(100, 200, 1, 2, 0, 100, 25, true))
	})

	t.Run("inexact endpoint", func(t *testing.T) {
		// 100/4 is exact but 150/4 is not: the check runs on the
		// original-scale endpoints, not on the interpolated value.
		require.PanicsWithValue(t, ErrInexactFraction, func() {
			ApplyFraction(100, 150, 1, 4, 0, 100, 25, false)
		})
	})
}
