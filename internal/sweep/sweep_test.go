package sweep

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinspaceDefaultSweep(t *testing.T) {
	got := Linspace(800, 2600, 50)
	require.Len(t, got, 37)
	assert.Equal(t, 800.0, got[0])
	assert.Equal(t, 2600.0, got[len(got)-1])
}

func TestLinspaceStrictlyIncreasing(t *testing.T) {
	got := Linspace(0.1, 1.0, 0.1)
	require.Len(t, got, 10)
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i], got[i-1])
	}
}

func TestLinspaceSinglePoint(t *testing.T) {
	assert.Equal(t, []float64{915}, Linspace(915, 915, 1))
	assert.Equal(t, []float64{915}, Linspace(915, 920, 10))
}

func TestLinspaceEmpty(t *testing.T) {
	tests := []struct {
		name              string
		start, stop, step float64
	}{
		{"stop before start", 2600, 800, 50},
		{"zero step", 800, 2600, 0},
		{"negative step", 800, 2600, -50},
		{"NaN step", 800, 2600, math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Linspace(tt.start, tt.stop, tt.step)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestLinspaceCapped(t *testing.T) {
	got := Linspace(1, 1e6, 1)
	assert.Len(t, got, MaxPoints)
	assert.Equal(t, 1.0, got[0])
	assert.Equal(t, float64(MaxPoints), got[MaxPoints-1])
}

func TestLinspaceExactlyAtCap(t *testing.T) {
	assert.Len(t, Linspace(1, MaxPoints, 1), MaxPoints)
	assert.Len(t, Linspace(1, MaxPoints+1, 1), MaxPoints)
}

func TestLinspaceToleranceIncludesOvershotStop(t *testing.T) {
	// 0.1+0.1+0.1 accumulates to 0.30000000000000004
	got := Linspace(0, 0.3, 0.1)
	require.Len(t, got, 4)
	assert.Equal(t, 0.30000000000000004, got[3])
	assert.InDelta(t, 0.3, got[3], tolerance)
}

func TestLinspaceExcludesStopBeyondTolerance(t *testing.T) {
	got := Linspace(0, 1-1e-9, 0.5)
	assert.Equal(t, []float64{0, 0.5}, got)

	got = Linspace(0, 1-1e-13, 0.5)
	assert.Equal(t, []float64{0, 0.5, 1}, got)
}

func TestLinspaceStepBelowPrecision(t *testing.T) {
	got := Linspace(1e23, 1e23+1, 1e-6)
	require.Len(t, got, 1)
	assert.Equal(t, 1e23, got[0])

	for _, tt := range []struct{ start, stop, step float64 }{
		{1e15, 1e15 + 10, 0.25},
		{1e300, 1e300, 1},
	} {
		got := Linspace(tt.start, tt.stop, tt.step)
		require.NotEmpty(t, got)
		for i := 1; i < len(got); i++ {
			assert.Greater(t, got[i], got[i-1])
		}
	}
}
