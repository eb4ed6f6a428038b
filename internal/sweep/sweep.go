// Package sweep generates evenly spaced frequency sample points.
package sweep

// MaxPoints bounds the number of samples a single sweep may produce.
const MaxPoints = 3000

// tolerance absorbs floating-point accumulation error at the stop bound.
const tolerance = 1e-12

// Linspace returns start, start+step, ... up to and including stop.
// The result is empty when step is not positive or stop < start, and is
// truncated to MaxPoints samples for wide ranges. Samples are strictly
// increasing; accumulation stops once step no longer advances x.
func Linspace(start, stop, step float64) []float64 {
	if !(step > 0) || stop < start {
		return []float64{}
	}
	out := make([]float64, 0, estimate(start, stop, step))
	for x := start; x <= stop+tolerance && len(out) < MaxPoints; {
		out = append(out, x)
		// step below the precision of x
		next := x + step
		if next <= x {
			break
		}
		x = next
	}
	return out
}

func estimate(start, stop, step float64) int {
	n := (stop-start)/step + 1
	if !(n < MaxPoints) {
		return MaxPoints
	}
	return int(n) + 1
}
