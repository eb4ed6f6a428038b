// Package ui holds the presentation state of the calculator page: the
// selected mode, the form contents, the formatted results, the message
// banner and the chart.
package ui

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/RMahshie/linkcalc/internal/calculator"
	"github.com/RMahshie/linkcalc/internal/chart"
	"github.com/RMahshie/linkcalc/internal/units"
	"github.com/RMahshie/linkcalc/pkg/models"
)

const (
	chartTitle       = "Received power"
	chartYLabel      = "Pr (dBm)"
	singlePointLabel = "Single frequency"
)

// BannerKind selects what the banner shows.
type BannerKind int

const (
	BannerHidden BannerKind = iota
	BannerSummary
	BannerError
)

// Banner is the message box below the results.
type Banner struct {
	Kind BannerKind
	// Error text when Kind is BannerError.
	Text string
	// Sweep summary when Kind is BannerSummary.
	Points int
	MinPr  string
	MaxPr  string
}

// Summary renders the sweep summary as plain text.
func (b Banner) Summary() string {
	return fmt.Sprintf("Range mode: %d points. Pr (dBm) from %s to %s.", b.Points, b.MinPr, b.MaxPr)
}

// Outputs are the formatted result fields.
type Outputs struct {
	Pt   string
	D    string
	F    string
	Fspl string
	Pr   string
}

// View is a snapshot of the controller for rendering.
type View struct {
	Mode         models.Mode
	Form         models.RawForm
	Outputs      Outputs
	Banner       Banner
	HasChart     bool
	ChartVersion uint64
}

// Controller serialises all events of one calculator page and owns its
// chart.
type Controller struct {
	mu      sync.Mutex
	calc    calculator.CalculatorService
	opts    chart.Options
	mode    models.Mode
	form    models.RawForm
	outputs Outputs
	banner  Banner
	chart   chart.Handle
}

// NewController creates a page in single mode with the default inputs
// already calculated.
func NewController(ctx context.Context, calc calculator.CalculatorService, opts chart.Options) *Controller {
	c := &Controller{
		calc: calc,
		opts: opts,
		mode: models.ModeSingle,
		form: models.DefaultForm(),
	}
	if err := c.calculate(ctx); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("Initial calculation failed")
	}
	return c
}

// SetMode switches the visible panel and hides the banner. Field values
// are kept.
func (c *Controller) SetMode(mode models.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("unknown mode %q", mode)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = mode
	c.banner = Banner{Kind: BannerHidden}
	return nil
}

// UpdateForm stores the raw field values without calculating.
func (c *Controller) UpdateForm(form models.RawForm) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = form
}

// Calculate stores the submitted fields and recalculates in the current
// mode. An invalid input error is shown in the banner and returned; the
// previous results and chart stay as they were.
func (c *Controller) Calculate(ctx context.Context, form models.RawForm) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = form
	return c.calculate(ctx)
}

// Reset restores the default inputs, switches to single mode and
// recalculates.
func (c *Controller) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = models.DefaultForm()
	c.mode = models.ModeSingle
	c.banner = Banner{Kind: BannerHidden}
	return c.calculate(ctx)
}

// View returns a snapshot for rendering.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return View{
		Mode:         c.mode,
		Form:         c.form,
		Outputs:      c.outputs,
		Banner:       c.banner,
		HasChart:     c.chart.Size() > 0,
		ChartVersion: c.chart.Version(),
	}
}

// WriteChart encodes the current chart as PNG.
func (c *Controller) WriteChart(w io.Writer) error {
	return c.chart.WritePNG(w)
}

// Close drops the chart.
func (c *Controller) Close() {
	c.chart.Close()
}

func (c *Controller) calculate(ctx context.Context) error {
	if c.mode == models.ModeRange {
		return c.calculateRange(ctx)
	}
	return c.calculateSingle(ctx)
}

func (c *Controller) calculateSingle(ctx context.Context) error {
	res, err := c.calc.Single(ctx, calculator.SingleFromForm(c.form))
	if err != nil {
		return c.fail(err)
	}

	ch, err := chart.Render(SingleSeries(res), c.opts)
	if err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	if err := c.chart.Replace(ch); err != nil {
		return err
	}

	c.outputs = Outputs{
		Pt:   FormatDBm(res.Params.TransmitDBm),
		D:    FormatKm(res.Params.DistanceKm),
		F:    FormatMHz(res.Params.FrequencyMHz),
		Fspl: FormatDB(res.Result.FsplDB),
		Pr:   FormatDBm(res.Result.PrDBm),
	}
	c.banner = Banner{Kind: BannerHidden}
	return nil
}

func (c *Controller) calculateRange(ctx context.Context) error {
	res, err := c.calc.Range(ctx, calculator.RangeFromForm(c.form))
	if err != nil {
		return c.fail(err)
	}

	ch, err := chart.Render(SweepSeries(res), c.opts)
	if err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	if err := c.chart.Replace(ch); err != nil {
		return err
	}

	c.outputs = Outputs{
		Pt:   FormatDBm(res.Params.TransmitDBm),
		D:    FormatKm(res.Params.DistanceKm),
		F:    FormatSweep(res.StartMHz, res.StopMHz, res.StepMHz),
		Fspl: FormatSpan(res.MinFspl, res.MaxFspl, "dB"),
		Pr:   FormatSpan(res.MinPr, res.MaxPr, "dBm"),
	}
	c.banner = SweepBanner(res)
	return nil
}

// fail shows an invalid input message and leaves everything else alone.
func (c *Controller) fail(err error) error {
	if msg := calculator.Message(err); msg != "" {
		c.banner = Banner{Kind: BannerError, Text: msg}
	}
	return err
}

// SweepBanner summarises a sweep for the banner.
func SweepBanner(res *calculator.RangeResult) Banner {
	return Banner{
		Kind:   BannerSummary,
		Points: len(res.Points),
		MinPr:  fmt.Sprintf("%.2f", res.MinPr),
		MaxPr:  fmt.Sprintf("%.2f", res.MaxPr),
	}
}

// SingleSeries charts one received power value as a single bar position.
func SingleSeries(res *calculator.SingleResult) chart.Series {
	return chart.Series{
		Title:  chartTitle,
		YLabel: chartYLabel,
		Y:      []float64{res.Result.PrDBm},
		Labels: []string{singlePointLabel},
	}
}

// SweepSeries charts received power over frequency, with the x axis in
// the unit the sweep was entered in.
func SweepSeries(res *calculator.RangeResult) chart.Series {
	s := chart.Series{
		Title:  chartTitle,
		YLabel: chartYLabel,
		XLabel: fmt.Sprintf("Frequency (%s)", res.Unit),
		X:      make([]float64, len(res.Points)),
		Y:      make([]float64, len(res.Points)),
	}
	for i, p := range res.Points {
		s.X[i] = units.FrequencyFromMHz(p.FrequencyMHz, res.Unit)
		s.Y[i] = p.PrDBm
	}
	return s
}
