/*
Package amount implements derivation of transfer amounts for partially filled
and time-priced orders. The package has no interop imports: it is compiled
into the executor contract by the neo-go compiler and is usable as ordinary
Go code at the same time. All amounts and timestamps are non-negative.
*/
package amount

// ErrInexactFraction is thrown by Fraction when the scaled value does not
// divide evenly.
const ErrInexactFraction = "inexact fraction"

// Fraction scales value by numerator/denominator. The result must be exact,
// partial fills never truncate: Fraction panics with ErrInexactFraction when
// value*numerator is not divisible by denominator. Zero denominator is a
// caller bug.
func Fraction(numerator, denominator, value int) int {
	if numerator == denominator {
		return value
	}

	scaled := value * numerator
	if scaled%denominator != 0 {
		panic(ErrInexactFraction)
	}

	return scaled / denominator
}

// Interpolate returns the amount at currentTime on the linear path from
// startAmount at startTime to endAmount at endTime. The caller guarantees
// startTime <= currentTime < endTime. An inexact quotient is rounded up when
// roundUp is set and down otherwise, except that a weighted sum of exactly
// zero always yields zero.
func Interpolate(startAmount, endAmount, startTime, endTime, currentTime int, roundUp bool) int {
	if startAmount == endAmount {
		return endAmount
	}

	duration := endTime - startTime
	elapsed := currentTime - startTime
	remaining := duration - elapsed

	total := startAmount*remaining + endAmount*elapsed
	if total == 0 {
		return 0
	}

	res := total / duration
	if roundUp && total%duration != 0 {
		res++
	}

	return res
}

// ApplyFraction scales the endpoints of an amount window by
// numerator/denominator and interpolates between the scaled endpoints.
// Endpoints are scaled first so that the exactness check of Fraction applies
// to the original-scale values; for a linear path this is equivalent to
// scaling the interpolated value.
func ApplyFraction(startAmount, endAmount, numerator, denominator, startTime, endTime, currentTime int, roundUp bool) int {
	if startAmount == endAmount {
		return Fraction(numerator, denominator, endAmount)
	}

	return Interpolate(
		Fraction(numerator, denominator, startAmount),
		Fraction(numerator, denominator, endAmount),
		startTime, endTime, currentTime, roundUp)
}
