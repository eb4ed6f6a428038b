// Package units normalizes user-entered magnitudes into the canonical
// units of the link calculator: dBm for power, kilometers for distance and
// megahertz for frequency.
//
// Invalid input never becomes zero. Every converter returns NaN instead,
// and callers check for it with math.IsNaN before using the value.
package units

import (
	"math"
	"strconv"
	"strings"
)

// PowerUnit is a transmit power unit tag
type PowerUnit string

const (
	DBm       PowerUnit = "dBm"
	MilliWatt PowerUnit = "mW"
	Watt      PowerUnit = "W"
)

// DistanceUnit is a distance unit tag
type DistanceUnit string

const (
	Kilometer DistanceUnit = "km"
	Meter     DistanceUnit = "m"
)

// FrequencyUnit is a frequency unit tag
type FrequencyUnit string

const (
	Hertz     FrequencyUnit = "Hz"
	Kilohertz FrequencyUnit = "kHz"
	Megahertz FrequencyUnit = "MHz"
	Gigahertz FrequencyUnit = "GHz"
)

var (
	// PowerUnits lists the power units in the order the form offers them.
	PowerUnits = []PowerUnit{DBm, MilliWatt, Watt}
	// DistanceUnits lists the distance units in the order the form offers them.
	DistanceUnits = []DistanceUnit{Kilometer, Meter}
	// FrequencyUnits lists the frequency units in the order the form offers them.
	FrequencyUnits = []FrequencyUnit{Hertz, Kilohertz, Megahertz, Gigahertz}
)

// ParseNumber parses a raw field value. Empty, non-numeric and non-finite
// input yields NaN.
func ParseNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return math.NaN()
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil || !isFinite(x) {
		return math.NaN()
	}
	return x
}

// ParseOptional parses an optional gain or loss field, which defaults to 0
// when it does not hold a finite number.
func ParseOptional(raw string) float64 {
	x := ParseNumber(raw)
	if math.IsNaN(x) {
		return 0
	}
	return x
}

// PowerToDBm converts a transmit power to dBm. Linear units require a
// strictly positive magnitude.
func PowerToDBm(value float64, unit PowerUnit) float64 {
	if !isFinite(value) {
		return math.NaN()
	}
	switch unit {
	case DBm:
		return value
	case MilliWatt:
		if value <= 0 {
			return math.NaN()
		}
		return 10 * math.Log10(value)
	case Watt:
		if value <= 0 {
			return math.NaN()
		}
		return 10 * math.Log10(value*1000)
	default:
		return math.NaN()
	}
}

// DistanceToKm converts a strictly positive distance to kilometers.
func DistanceToKm(value float64, unit DistanceUnit) float64 {
	if !isFinite(value) || value <= 0 {
		return math.NaN()
	}
	switch unit {
	case Kilometer:
		return value
	case Meter:
		return value / 1000
	default:
		return math.NaN()
	}
}

// FrequencyToMHz converts a strictly positive frequency to megahertz.
func FrequencyToMHz(value float64, unit FrequencyUnit) float64 {
	if !isFinite(value) || value <= 0 {
		return math.NaN()
	}
	switch unit {
	case Gigahertz:
		return value * 1000
	case Megahertz:
		return value
	case Kilohertz:
		return value / 1000
	case Hertz:
		return value / 1e6
	default:
		return math.NaN()
	}
}

// FrequencyFromMHz expresses a frequency in MHz in the given unit. It is
// only used for display, so unknown units fall back to MHz.
func FrequencyFromMHz(mhz float64, unit FrequencyUnit) float64 {
	switch unit {
	case Gigahertz:
		return mhz / 1000
	case Kilohertz:
		return mhz * 1000
	case Hertz:
		return mhz * 1e6
	default:
		return mhz
	}
}

// Valid reports whether u is a known power unit.
func (u PowerUnit) Valid() bool {
	for _, k := range PowerUnits {
		if u == k {
			return true
		}
	}
	return false
}

// Valid reports whether u is a known distance unit.
func (u DistanceUnit) Valid() bool {
	for _, k := range DistanceUnits {
		if u == k {
			return true
		}
	}
	return false
}

// Valid reports whether u is a known frequency unit.
func (u FrequencyUnit) Valid() bool {
	for _, k := range FrequencyUnits {
		if u == k {
			return true
		}
	}
	return false
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
