package utils

import (
	"math"
)

// roundFloat rounds a float64 to a specified number of decimal places.
func roundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

// CalculateStats calculates the average and sample standard deviation of the
// given readings. Returns (average, standardDeviation).
func CalculateStats(data []float64) (float64, float64) {
	n := len(data)
	if n == 0 {
		return 0.0, 0.0
	}

	sum := 0.0
	for _, val := range data {
		sum += val
	}
	average := sum / float64(n)

	if n < 2 { // sample standard deviation needs at least two readings
		return roundFloat(average, 4), 0.0
	}

	varianceSum := 0.0
	for _, val := range data {
		varianceSum += math.Pow(val-average, 2)
	}
	// For sample standard deviation, the denominator is (n-1)
	stdDev := math.Sqrt(varianceSum / float64(n-1))

	return roundFloat(average, 4), roundFloat(stdDev, 4)
}
