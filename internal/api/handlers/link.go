package handlers

import (
	"bytes"
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/linkcalc/internal/calculator"
	"github.com/RMahshie/linkcalc/internal/chart"
	"github.com/RMahshie/linkcalc/internal/ui"
	"github.com/RMahshie/linkcalc/internal/units"
	"github.com/RMahshie/linkcalc/pkg/models"
)

// LinkHandler handles link budget API requests
type LinkHandler struct {
	calc      calculator.CalculatorService
	chartOpts chart.Options
}

// NewLinkHandler creates a new link handler
func NewLinkHandler(calc calculator.CalculatorService, chartOpts chart.Options) *LinkHandler {
	return &LinkHandler{
		calc:      calc,
		chartOpts: chartOpts,
	}
}

// Defaults returns the reset-to-defaults parameter set
func (h *LinkHandler) Defaults(ctx context.Context, _ *struct{}) (*models.DefaultsResponse, error) {
	return &models.DefaultsResponse{Body: models.DefaultForm()}, nil
}

// Single evaluates the link at one frequency
func (h *LinkHandler) Single(ctx context.Context, req *models.SingleRequest) (*models.SingleResponse, error) {
	if err := checkUnits(req.Body.LinkBody, "body.frequency.unit", units.FrequencyUnit(req.Body.Frequency.Unit)); err != nil {
		return nil, err
	}

	in := calculator.SingleInput{
		LinkInput:     linkInput(req.Body.LinkBody),
		Frequency:     req.Body.Frequency.Value,
		FrequencyUnit: units.FrequencyUnit(req.Body.Frequency.Unit),
	}

	res, err := h.calc.Single(ctx, in)
	if err != nil {
		return nil, toHTTPError(ctx, err)
	}

	return &models.SingleResponse{
		Body: models.SingleResponseBody{
			Params: res.Params,
			Result: res.Result,
			Formatted: models.FormattedOutputs{
				TransmitPower: ui.FormatDBm(res.Params.TransmitDBm),
				Distance:      ui.FormatKm(res.Params.DistanceKm),
				Frequency:     ui.FormatMHz(res.Params.FrequencyMHz),
				Fspl:          ui.FormatDB(res.Result.FsplDB),
				ReceivedPower: ui.FormatDBm(res.Result.PrDBm),
			},
		},
	}, nil
}

// Sweep evaluates the link over a frequency range
func (h *LinkHandler) Sweep(ctx context.Context, req *models.SweepRequest) (*models.SweepResponse, error) {
	if err := checkUnits(req.Body.LinkBody, "body.unit", units.FrequencyUnit(req.Body.Unit)); err != nil {
		return nil, err
	}

	res, err := h.calc.Range(ctx, rangeInput(req.Body))
	if err != nil {
		return nil, toHTTPError(ctx, err)
	}

	summary := ui.SweepBanner(res)

	return &models.SweepResponse{
		Body: models.SweepResponseBody{
			Params:    res.Params,
			Unit:      string(res.Unit),
			StartMHz:  res.StartMHz,
			StopMHz:   res.StopMHz,
			StepMHz:   res.StepMHz,
			Count:     len(res.Points),
			MinFsplDB: res.MinFspl,
			MaxFsplDB: res.MaxFspl,
			MinPrDBm:  res.MinPr,
			MaxPrDBm:  res.MaxPr,
			Points:    res.Points,
			Summary:   summary.Summary(),
			Formatted: models.FormattedOutputs{
				TransmitPower: ui.FormatDBm(res.Params.TransmitDBm),
				Distance:      ui.FormatKm(res.Params.DistanceKm),
				Frequency:     ui.FormatSweep(res.StartMHz, res.StopMHz, res.StepMHz),
				Fspl:          ui.FormatSpan(res.MinFspl, res.MaxFspl, "dB"),
				ReceivedPower: ui.FormatSpan(res.MinPr, res.MaxPr, "dBm"),
			},
		},
	}, nil
}

// SweepChart renders the received power of a sweep as PNG
func (h *LinkHandler) SweepChart(ctx context.Context, req *models.SweepChartRequest) (*models.SweepChartResponse, error) {
	if err := checkUnits(req.Body.LinkBody, "body.unit", units.FrequencyUnit(req.Body.Unit)); err != nil {
		return nil, err
	}

	res, err := h.calc.Range(ctx, rangeInput(req.Body))
	if err != nil {
		return nil, toHTTPError(ctx, err)
	}

	opts := h.chartOpts
	if req.Width > 0 {
		opts.Width = req.Width
	}
	if req.Height > 0 {
		opts.Height = req.Height
	}

	c, err := chart.Render(ui.SweepSeries(res), opts)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to render chart", err)
	}
	defer c.Close()

	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		return nil, huma.Error500InternalServerError("Failed to encode chart", err)
	}

	return &models.SweepChartResponse{
		ContentType: "image/png",
		Body:        buf.Bytes(),
	}, nil
}

// checkUnits rejects unknown unit tags before any conversion. freqLoc is
// the request location of the frequency unit.
func checkUnits(b models.LinkBody, freqLoc string, freq units.FrequencyUnit) error {
	var details []error
	if u := units.PowerUnit(b.Power.Unit); !u.Valid() {
		details = append(details, &huma.ErrorDetail{Location: "body.power.unit", Message: "unknown power unit, expected one of dBm, mW, W", Value: b.Power.Unit})
	}
	if u := units.DistanceUnit(b.Distance.Unit); !u.Valid() {
		details = append(details, &huma.ErrorDetail{Location: "body.distance.unit", Message: "unknown distance unit, expected one of km, m", Value: b.Distance.Unit})
	}
	if !freq.Valid() {
		details = append(details, &huma.ErrorDetail{Location: freqLoc, Message: "unknown frequency unit, expected one of Hz, kHz, MHz, GHz", Value: string(freq)})
	}
	if len(details) > 0 {
		return huma.Error422UnprocessableEntity("unknown unit", details...)
	}
	return nil
}

func linkInput(b models.LinkBody) calculator.LinkInput {
	return calculator.LinkInput{
		Power:      b.Power.Value,
		PowerUnit:  units.PowerUnit(b.Power.Unit),
		Distance:   b.Distance.Value,
		DistUnit:   units.DistanceUnit(b.Distance.Unit),
		GainTxDB:   optional(b.GainTxDB),
		GainRxDB:   optional(b.GainRxDB),
		MiscLossDB: optional(b.MiscLossDB),
	}
}

func rangeInput(b models.SweepBody) calculator.RangeInput {
	return calculator.RangeInput{
		LinkInput: linkInput(b.LinkBody),
		Start:     b.Start,
		Stop:      b.Stop,
		Step:      b.Step,
		Unit:      units.FrequencyUnit(b.Unit),
	}
}

func optional(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// toHTTPError maps invalid input to 400 with the user-facing message
func toHTTPError(ctx context.Context, err error) error {
	if errors.Is(err, calculator.ErrInvalidInput) {
		log.Ctx(ctx).Info().Str("reason", calculator.Message(err)).Msg("Rejected link calculation")
		return huma.Error400BadRequest(calculator.Message(err))
	}
	log.Ctx(ctx).Error().Err(err).Msg("Link calculation failed")
	return huma.Error500InternalServerError("Calculation failed", err)
}
