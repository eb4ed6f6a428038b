package calculator

import (
	"github.com/RMahshie/linkcalc/internal/units"
	"github.com/RMahshie/linkcalc/pkg/models"
)

// LinkInput holds the fields shared by both modes.
type LinkInput struct {
	Power      float64
	PowerUnit  units.PowerUnit
	Distance   float64
	DistUnit   units.DistanceUnit
	GainTxDB   float64
	GainRxDB   float64
	MiscLossDB float64
}

// SingleInput is the typed input of a single-frequency calculation.
type SingleInput struct {
	LinkInput
	Frequency     float64
	FrequencyUnit units.FrequencyUnit
}

// RangeInput is the typed input of a frequency sweep. Start, stop and
// step share one unit.
type RangeInput struct {
	LinkInput
	Start float64
	Stop  float64
	Step  float64
	Unit  units.FrequencyUnit
}

// linkFromForm parses the shared fields. Mandatory fields become NaN when
// they do not hold a number, optional gains and loss become 0.
func linkFromForm(f models.RawForm) LinkInput {
	return LinkInput{
		Power:      units.ParseNumber(f.PtValue),
		PowerUnit:  units.PowerUnit(f.PtUnit),
		Distance:   units.ParseNumber(f.DValue),
		DistUnit:   units.DistanceUnit(f.DUnit),
		GainTxDB:   units.ParseOptional(f.Gt),
		GainRxDB:   units.ParseOptional(f.Gr),
		MiscLossDB: units.ParseOptional(f.Loss),
	}
}

// SingleFromForm builds a SingleInput from raw form fields.
func SingleFromForm(f models.RawForm) SingleInput {
	return SingleInput{
		LinkInput:     linkFromForm(f),
		Frequency:     units.ParseNumber(f.FValue),
		FrequencyUnit: units.FrequencyUnit(f.FUnit),
	}
}

// RangeFromForm builds a RangeInput from raw form fields.
func RangeFromForm(f models.RawForm) RangeInput {
	return RangeInput{
		LinkInput: linkFromForm(f),
		Start:     units.ParseNumber(f.FStart),
		Stop:      units.ParseNumber(f.FStop),
		Step:      units.ParseNumber(f.FStep),
		Unit:      units.FrequencyUnit(f.FRangeUnit),
	}
}
