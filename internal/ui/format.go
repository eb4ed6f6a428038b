package ui

import "fmt"

// FormatDBm formats a power level with 2 decimals.
func FormatDBm(x float64) string {
	return fmt.Sprintf("%.2f dBm", x)
}

// FormatDB formats a loss or gain with 2 decimals.
func FormatDB(x float64) string {
	return fmt.Sprintf("%.2f dB", x)
}

// FormatKm formats a distance with 6 decimals.
func FormatKm(x float64) string {
	return fmt.Sprintf("%.6f km", x)
}

// FormatMHz formats a frequency with 6 decimals.
func FormatMHz(x float64) string {
	return fmt.Sprintf("%.6f MHz", x)
}

// FormatSpan formats an interval with 2 decimals.
func FormatSpan(lo, hi float64, unit string) string {
	return fmt.Sprintf("%.2f–%.2f %s", lo, hi, unit)
}

// FormatSweep describes a sweep in MHz.
func FormatSweep(startMHz, stopMHz, stepMHz float64) string {
	return fmt.Sprintf("%.2f–%.2f MHz (step %.2f MHz)", startMHz, stopMHz, stepMHz)
}
