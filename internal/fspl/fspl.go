// Package fspl evaluates the free-space path loss link budget.
package fspl

import (
	"math"

	"github.com/RMahshie/linkcalc/pkg/models"
)

// Constant term of the FSPL formula for distance in km and frequency in MHz.
const constantDB = 32.44

// PathLossDB returns the free-space path loss in dB, or NaN unless both
// arguments are strictly positive.
func PathLossDB(distanceKm, frequencyMHz float64) float64 {
	if !(distanceKm > 0) || !(frequencyMHz > 0) {
		return math.NaN()
	}
	return constantDB + 20*math.Log10(distanceKm) + 20*math.Log10(frequencyMHz)
}

// ReceivedPowerDBm applies gains and losses to the transmit power.
// NaN in any operand propagates to the result.
func ReceivedPowerDBm(transmitDBm, gainTxDB, gainRxDB, fsplDB, miscLossDB float64) float64 {
	return transmitDBm + gainTxDB + gainRxDB - fsplDB - miscLossDB
}

// Evaluate computes FSPL and received power for normalized parameters.
func Evaluate(p models.LinkParameters) models.LinkResult {
	l := PathLossDB(p.DistanceKm, p.FrequencyMHz)
	return models.LinkResult{
		FsplDB: l,
		PrDBm:  ReceivedPowerDBm(p.TransmitDBm, p.GainTxDB, p.GainRxDB, l, p.MiscLossDB),
	}
}
