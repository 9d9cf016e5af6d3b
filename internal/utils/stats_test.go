package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateStats(t *testing.T) {
	avg, std := CalculateStats(nil)
	assert.Zero(t, avg)
	assert.Zero(t, std)

	avg, std = CalculateStats([]float64{7})
	assert.Equal(t, 7.0, avg)
	assert.Zero(t, std)

	avg, std = CalculateStats([]float64{6, 7, 9})
	assert.InDelta(t, 7.3333, avg, 0.0001)
	assert.InDelta(t, 1.5275, std, 0.0001)
}
