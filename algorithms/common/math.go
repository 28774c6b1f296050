package common

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// StandardDeviation calculates the sample standard deviation
func StandardDeviation(data []float64) float64 {
	if len(data) < 2 {
		return 0.0
	}
	return stat.StdDev(data, nil)
}

// RoundToInt rounds half away from zero, as used for seconds-to-samples conversion
func RoundToInt(x float64) int {
	return int(math.Round(x))
}

// CeilDiv returns ceil(a/b) for non-negative a and positive b
func CeilDiv(a, b int) int {
	return (a + b - 1) / b
}

// Clamp restricts value to [min, max]
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// IsPowerOfTwo reports whether n is a positive power of two
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}

// NextPowerOfTwo returns the smallest power of two >= n
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
