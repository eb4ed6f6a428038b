package ui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/linkcalc/internal/calculator"
	"github.com/RMahshie/linkcalc/internal/chart"
	"github.com/RMahshie/linkcalc/pkg/models"
)

func newTestController(t *testing.T) *Controller {
	t.Helper()
	c := NewController(context.Background(), calculator.NewCalculatorService(nil), chart.Options{Width: 320, Height: 200})
	t.Cleanup(c.Close)
	return c
}

func TestNewControllerStartsCalculated(t *testing.T) {
	c := newTestController(t)
	v := c.View()

	assert.Equal(t, models.ModeSingle, v.Mode)
	assert.Equal(t, models.DefaultForm(), v.Form)
	assert.Equal(t, "20.00 dBm", v.Outputs.Pt)
	assert.Equal(t, "1.000000 km", v.Outputs.D)
	assert.Equal(t, "2400.000000 MHz", v.Outputs.F)
	assert.Equal(t, "100.04 dB", v.Outputs.Fspl)
	assert.Equal(t, "-80.04 dBm", v.Outputs.Pr)
	assert.Equal(t, BannerHidden, v.Banner.Kind)
	assert.True(t, v.HasChart)
	assert.Equal(t, uint64(1), v.ChartVersion)
}

func TestRangeCalculationShowsSummary(t *testing.T) {
	c := newTestController(t)
	require.NoError(t, c.SetMode(models.ModeRange))
	require.NoError(t, c.Calculate(context.Background(), models.DefaultForm()))

	v := c.View()
	assert.Equal(t, "800.00–2600.00 MHz (step 50.00 MHz)", v.Outputs.F)
	assert.True(t, strings.HasSuffix(v.Outputs.Fspl, " dB"))
	assert.True(t, strings.HasSuffix(v.Outputs.Pr, " dBm"))
	assert.Equal(t, BannerSummary, v.Banner.Kind)
	assert.Equal(t, 37, v.Banner.Points)
	assert.Equal(t, "Range mode: 37 points. Pr (dBm) from "+v.Banner.MinPr+" to "+v.Banner.MaxPr+".", v.Banner.Summary())
	assert.Equal(t, uint64(2), v.ChartVersion)
}

func TestInvalidInputLeavesResultsUntouched(t *testing.T) {
	c := newTestController(t)
	before := c.View()

	form := models.DefaultForm()
	form.DValue = "-3"
	err := c.Calculate(context.Background(), form)
	require.ErrorIs(t, err, calculator.ErrInvalidInput)

	after := c.View()
	assert.Equal(t, before.Outputs, after.Outputs)
	assert.Equal(t, before.ChartVersion, after.ChartVersion)
	assert.Equal(t, BannerError, after.Banner.Kind)
	assert.Equal(t, err.Error(), after.Banner.Text)
	assert.Equal(t, "-3", after.Form.DValue, "submitted fields are kept")

	// Same input, same message.
	err2 := c.Calculate(context.Background(), form)
	require.Error(t, err2)
	assert.Equal(t, after.Banner, c.View().Banner)
}

func TestSetModeKeepsFieldsAndClearsBanner(t *testing.T) {
	c := newTestController(t)
	form := models.DefaultForm()
	form.PtValue = "oops"
	form.Gt = "7"
	require.Error(t, c.Calculate(context.Background(), form))
	require.Equal(t, BannerError, c.View().Banner.Kind)

	require.NoError(t, c.SetMode(models.ModeRange))
	v := c.View()
	assert.Equal(t, models.ModeRange, v.Mode)
	assert.Equal(t, BannerHidden, v.Banner.Kind)
	assert.Equal(t, form, v.Form)

	assert.Error(t, c.SetMode(models.Mode("polar")))
	assert.Equal(t, models.ModeRange, c.View().Mode)
}

func TestRangeErrorMessages(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.RawForm)
		want   string
	}{
		{"bad distance", func(f *models.RawForm) { f.DValue = "" }, "Invalid input: check transmit power and distance (must be positive numbers)."},
		{"bad bound", func(f *models.RawForm) { f.FStop = "x" }, "Invalid input: check the frequency range (must be positive numbers)."},
		{"reversed range", func(f *models.RawForm) { f.FStart, f.FStop = "10", "5" }, "Invalid frequency range: make sure stop >= start and step > 0."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController(t)
			require.NoError(t, c.SetMode(models.ModeRange))
			form := models.DefaultForm()
			tt.mutate(&form)
			require.Error(t, c.Calculate(context.Background(), form))
			assert.Equal(t, tt.want, c.View().Banner.Text)
		})
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	c := newTestController(t)
	require.NoError(t, c.SetMode(models.ModeRange))
	form := models.DefaultForm()
	form.FStep = "100"
	require.NoError(t, c.Calculate(context.Background(), form))

	require.NoError(t, c.Reset(context.Background()))
	v := c.View()
	assert.Equal(t, models.ModeSingle, v.Mode)
	assert.Equal(t, models.DefaultForm(), v.Form)
	assert.Equal(t, "-80.04 dBm", v.Outputs.Pr)
	assert.Equal(t, BannerHidden, v.Banner.Kind)
}

func TestWriteChart(t *testing.T) {
	c := newTestController(t)
	var buf bytes.Buffer
	require.NoError(t, c.WriteChart(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	c.Close()
	assert.ErrorIs(t, c.WriteChart(&buf), chart.ErrNoChart)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "-79.07 dBm", FormatDBm(-79.0712))
	assert.Equal(t, "0.00 dB", FormatDB(0))
	assert.Equal(t, "0.250000 km", FormatKm(0.25))
	assert.Equal(t, "0.001000 MHz", FormatMHz(0.001))
	assert.Equal(t, "1.00–2.00 dB", FormatSpan(1, 2, "dB"))
}
