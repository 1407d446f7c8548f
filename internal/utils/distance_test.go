package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateDistance(t *testing.T) {
	// Bengaluru city center to Whitefield, roughly 15km.
	distance := CalculateDistance(12.9716, 77.5946, 12.9698, 77.7500)
	assert.InDelta(t, 16.8, distance, 1.0)

	assert.Equal(t, 0.0, CalculateDistance(12.9716, 77.5946, 12.9716, 77.5946))
}

func TestCalculateDistance_InvalidCoordinatesFailClosed(t *testing.T) {
	assert.True(t, math.IsInf(CalculateDistance(91, 0, 12.9716, 77.5946), 1))
	assert.True(t, math.IsInf(CalculateDistance(12.9716, 181, 0, 0), 1))
	assert.True(t, math.IsInf(CalculateDistance(math.NaN(), 77.59, 12.97, 77.59), 1))
}

func TestIsWithinRadius(t *testing.T) {
	// Indiranagar to Koramangala is around 5km.
	assert.True(t, IsWithinRadius(12.9784, 77.6408, 12.9352, 77.6245, 6))
	assert.False(t, IsWithinRadius(12.9784, 77.6408, 12.9352, 77.6245, 3))
	assert.False(t, IsWithinRadius(999, 0, 12.93, 77.62, 10000), "invalid center is never within any radius")
}
