package calculator

import (
	"context"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/RMahshie/linkcalc/internal/fspl"
	"github.com/RMahshie/linkcalc/internal/sweep"
	"github.com/RMahshie/linkcalc/internal/units"
	"github.com/RMahshie/linkcalc/pkg/models"
)

// Recorder observes finished calculations. outcome is "ok" or the
// Reason of the rejection.
type Recorder interface {
	RecordCalculation(mode models.Mode, outcome string, points int)
}

// SingleResult is a validated single-frequency calculation.
type SingleResult struct {
	Params models.LinkParameters
	Result models.LinkResult
}

// RangeResult is a validated frequency sweep.
type RangeResult struct {
	Params   models.LinkParameters // FrequencyMHz is unset
	Unit     units.FrequencyUnit
	StartMHz float64
	StopMHz  float64
	StepMHz  float64
	Points   []models.SweepPoint
	MinFspl  float64
	MaxFspl  float64
	MinPr    float64
	MaxPr    float64
}

// CalculatorService evaluates link budgets.
type CalculatorService interface {
	Single(ctx context.Context, in SingleInput) (*SingleResult, error)
	Range(ctx context.Context, in RangeInput) (*RangeResult, error)
}

type calculatorService struct {
	recorder Recorder
}

// NewCalculatorService creates a calculator. recorder may be nil.
func NewCalculatorService(recorder Recorder) CalculatorService {
	return &calculatorService{recorder: recorder}
}

func (s *calculatorService) Single(ctx context.Context, in SingleInput) (*SingleResult, error) {
	p := models.LinkParameters{
		TransmitDBm:  units.PowerToDBm(in.Power, in.PowerUnit),
		DistanceKm:   units.DistanceToKm(in.Distance, in.DistUnit),
		FrequencyMHz: units.FrequencyToMHz(in.Frequency, in.FrequencyUnit),
		GainTxDB:     in.GainTxDB,
		GainRxDB:     in.GainRxDB,
		MiscLossDB:   in.MiscLossDB,
	}
	r := fspl.Evaluate(p)

	if !allFinite(p.TransmitDBm, p.DistanceKm, p.FrequencyMHz, r.FsplDB, r.PrDBm) {
		return nil, s.reject(ctx, models.ModeSingle, ReasonSingleLink)
	}

	log.Ctx(ctx).Debug().
		Float64("pt_dbm", p.TransmitDBm).
		Float64("d_km", p.DistanceKm).
		Float64("f_mhz", p.FrequencyMHz).
		Float64("fspl_db", r.FsplDB).
		Float64("pr_dbm", r.PrDBm).
		Msg("Single-frequency link evaluated")
	s.record(models.ModeSingle, "ok", 1)

	return &SingleResult{Params: p, Result: r}, nil
}

func (s *calculatorService) Range(ctx context.Context, in RangeInput) (*RangeResult, error) {
	p := models.LinkParameters{
		TransmitDBm: units.PowerToDBm(in.Power, in.PowerUnit),
		DistanceKm:  units.DistanceToKm(in.Distance, in.DistUnit),
		GainTxDB:    in.GainTxDB,
		GainRxDB:    in.GainRxDB,
		MiscLossDB:  in.MiscLossDB,
	}
	if !allFinite(p.TransmitDBm, p.DistanceKm) {
		return nil, s.reject(ctx, models.ModeRange, ReasonRangeLink)
	}

	startMHz := units.FrequencyToMHz(in.Start, in.Unit)
	stopMHz := units.FrequencyToMHz(in.Stop, in.Unit)
	stepMHz := units.FrequencyToMHz(in.Step, in.Unit)
	if !allFinite(startMHz, stopMHz, stepMHz) {
		return nil, s.reject(ctx, models.ModeRange, ReasonFrequencyRange)
	}

	freqs := sweep.Linspace(startMHz, stopMHz, stepMHz)
	if len(freqs) == 0 {
		return nil, s.reject(ctx, models.ModeRange, ReasonEmptySweep)
	}

	res := &RangeResult{
		Params:   p,
		Unit:     in.Unit,
		StartMHz: startMHz,
		StopMHz:  stopMHz,
		StepMHz:  stepMHz,
		Points:   make([]models.SweepPoint, 0, len(freqs)),
		MinFspl:  math.Inf(1),
		MaxFspl:  math.Inf(-1),
		MinPr:    math.Inf(1),
		MaxPr:    math.Inf(-1),
	}
	for _, f := range freqs {
		pp := p
		pp.FrequencyMHz = f
		r := fspl.Evaluate(pp)
		if !allFinite(r.FsplDB, r.PrDBm) {
			return nil, s.reject(ctx, models.ModeRange, ReasonRangeLink)
		}
		res.Points = append(res.Points, models.SweepPoint{FrequencyMHz: f, FsplDB: r.FsplDB, PrDBm: r.PrDBm})
		res.MinFspl = math.Min(res.MinFspl, r.FsplDB)
		res.MaxFspl = math.Max(res.MaxFspl, r.FsplDB)
		res.MinPr = math.Min(res.MinPr, r.PrDBm)
		res.MaxPr = math.Max(res.MaxPr, r.PrDBm)
	}

	log.Ctx(ctx).Debug().
		Int("points", len(res.Points)).
		Float64("start_mhz", startMHz).
		Float64("stop_mhz", stopMHz).
		Float64("step_mhz", stepMHz).
		Bool("truncated", len(freqs) == sweep.MaxPoints).
		Msg("Frequency sweep evaluated")
	s.record(models.ModeRange, "ok", len(res.Points))

	return res, nil
}

func (s *calculatorService) reject(ctx context.Context, mode models.Mode, r Reason) error {
	log.Ctx(ctx).Debug().Str("mode", string(mode)).Str("reason", r.String()).Msg("Calculation rejected")
	s.record(mode, r.String(), 0)
	return invalid(r)
}

func (s *calculatorService) record(mode models.Mode, outcome string, points int) {
	if s.recorder != nil {
		s.recorder.RecordCalculation(mode, outcome, points)
	}
}

func allFinite(xs ...float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
