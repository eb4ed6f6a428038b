package chart

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sweepSeries(n int) Series {
	s := Series{Title: "Received power", YLabel: "Pr (dBm)", XLabel: "Frequency (MHz)"}
	for i := 0; i < n; i++ {
		s.X = append(s.X, 800+float64(i)*50)
		s.Y = append(s.Y, -70-float64(i)*0.3)
	}
	return s
}

func TestRenderProducesPNG(t *testing.T) {
	c, err := Render(sweepSeries(37), Options{Width: 640, Height: 320})
	require.NoError(t, err)
	assert.Equal(t, 37, c.Points())

	var buf bytes.Buffer
	require.NoError(t, c.EncodePNG(&buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 320, img.Bounds().Dy())
}

func TestRenderDefaultsSmallSizes(t *testing.T) {
	c, err := Render(sweepSeries(3), Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultWidth, c.Image().Bounds().Dx())
	assert.Equal(t, DefaultHeight, c.Image().Bounds().Dy())
}

func TestRenderSinglePoint(t *testing.T) {
	c, err := Render(Series{
		YLabel: "Pr (dBm)",
		Y:      []float64{-80.04},
		Labels: []string{"Single frequency"},
	}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Points())
}

func TestRenderManyPointsAtCap(t *testing.T) {
	c, err := Render(sweepSeries(3000), Options{})
	require.NoError(t, err)
	assert.Equal(t, 3000, c.Points())
}

func TestRenderRejectsBadSeries(t *testing.T) {
	_, err := Render(Series{}, Options{})
	assert.ErrorIs(t, err, ErrEmptySeries)

	_, err = Render(Series{X: []float64{1}, Y: []float64{1, 2}}, Options{})
	assert.Error(t, err)

	_, err = Render(Series{Labels: []string{"a"}, Y: []float64{1, 2}}, Options{})
	assert.Error(t, err)
}

func TestCloseReleasesImage(t *testing.T) {
	c, err := Render(sweepSeries(5), Options{})
	require.NoError(t, err)

	c.Close()
	c.Close()
	assert.Nil(t, c.Image())
	assert.ErrorIs(t, c.EncodePNG(&bytes.Buffer{}), ErrClosed)
}

func TestHandleReplaceDisposesPrevious(t *testing.T) {
	var h Handle
	assert.ErrorIs(t, h.WritePNG(&bytes.Buffer{}), ErrNoChart)
	assert.Zero(t, h.Size())

	first, err := Render(sweepSeries(5), Options{})
	require.NoError(t, err)
	require.NoError(t, h.Replace(first))
	assert.Nil(t, first.Image(), "installed chart keeps no pixel buffer")
	assert.Equal(t, uint64(1), h.Version())

	var out bytes.Buffer
	require.NoError(t, h.WritePNG(&out))
	assert.Equal(t, h.Size(), out.Len())
	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte("\x89PNG")))

	second, err := Render(sweepSeries(7), Options{})
	require.NoError(t, err)
	require.NoError(t, h.Replace(second))
	assert.Nil(t, second.Image())
	assert.Equal(t, uint64(2), h.Version())

	h.Close()
	assert.Zero(t, h.Size())
	assert.ErrorIs(t, h.WritePNG(&bytes.Buffer{}), ErrNoChart)
}

func TestHandleKeepsPreviousOnFailedReplace(t *testing.T) {
	var h Handle
	first, err := Render(sweepSeries(5), Options{})
	require.NoError(t, err)
	require.NoError(t, h.Replace(first))
	size := h.Size()

	closed, err := Render(sweepSeries(3), Options{})
	require.NoError(t, err)
	closed.Close()

	assert.ErrorIs(t, h.Replace(closed), ErrClosed)
	assert.Equal(t, size, h.Size())
	assert.Equal(t, uint64(1), h.Version())
}

func TestHandleHoldsEncodedImageOnly(t *testing.T) {
	var h Handle
	c, err := Render(sweepSeries(37), Options{Width: DefaultWidth, Height: DefaultHeight})
	require.NoError(t, err)
	require.NoError(t, h.Replace(c))

	// Far below the DefaultWidth x DefaultHeight RGBA canvas.
	assert.Less(t, h.Size(), DefaultWidth*DefaultHeight*4/10)
}

func TestFormatTick(t *testing.T) {
	assert.Equal(t, "800", formatTick(800))
	assert.Equal(t, "-80.04", formatTick(-80.04))
	assert.Equal(t, "0", formatTick(1e-12))
	assert.Equal(t, "2.4e+09", formatTick(2.4e9))
}
