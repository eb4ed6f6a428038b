package ui

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/linkcalc/internal/calculator"
	"github.com/RMahshie/linkcalc/internal/chart"
	"github.com/RMahshie/linkcalc/pkg/models"
)

func testFactory(ctx context.Context) *Controller {
	return NewController(ctx, calculator.NewCalculatorService(nil), chart.Options{})
}

func TestSessionsGetCreatesAndReuses(t *testing.T) {
	s := NewSessions(testFactory, time.Minute, 0)
	ctx := context.Background()

	c1, id := s.Get(ctx, "")
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	c2, id2 := s.Get(ctx, id)
	assert.Same(t, c1, c2)
	assert.Equal(t, id, id2)

	c3, id3 := s.Get(ctx, "not-a-uuid")
	assert.NotSame(t, c1, c3)
	assert.NotEqual(t, id, id3)
	assert.Equal(t, 2, s.Len())
}

func TestSessionsExpire(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSessions(testFactory, time.Minute, 0)
	s.now = func() time.Time { return now }

	c, id := s.Get(context.Background(), "")
	now = now.Add(30 * time.Second)
	assert.Equal(t, 0, s.Expire())

	now = now.Add(2 * time.Minute)
	c2, id2 := s.Get(context.Background(), id)
	assert.NotEqual(t, id, id2, "expired session must not be reused")
	assert.NotSame(t, c, c2)

	assert.Equal(t, 1, s.Expire())
	assert.Equal(t, 1, s.Len())
	assert.ErrorIs(t, c.WriteChart(&bytes.Buffer{}), chart.ErrNoChart)
}

func TestSessionsRunClosesOnCancel(t *testing.T) {
	s := NewSessions(testFactory, time.Minute, 0)
	c, _ := s.Get(context.Background(), "")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Hour)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, 0, s.Len())
	assert.ErrorIs(t, c.WriteChart(&bytes.Buffer{}), chart.ErrNoChart)
}

func TestRenderPage(t *testing.T) {
	c := NewController(context.Background(), calculator.NewCalculatorService(nil), chart.Options{})
	defer c.Close()

	var buf bytes.Buffer
	require.NoError(t, RenderPage(&buf, c.View()))
	html := buf.String()
	assert.Contains(t, html, `id="outPr">-80.04 dBm<`)
	assert.Contains(t, html, `src="/chart.png?v=1"`)
	assert.Contains(t, html, `<option selected>dBm</option>`)
	assert.NotContains(t, html, `id="rangeSummary"`)

	// Enter in any field triggers the first submit button of the form,
	// which must calculate and stay rendered so every engine honours it.
	form := html[strings.Index(html, "<form"):]
	firstButton := form[strings.Index(form, "<button"):]
	firstButton = firstButton[:strings.Index(firstButton, ">")+1]
	assert.Contains(t, firstButton, `id="defaultSubmit"`)
	assert.Contains(t, firstButton, `class="offscreen"`)
	assert.NotContains(t, firstButton, "formaction")
	assert.NotContains(t, firstButton, `class="hidden"`)

	require.NoError(t, c.SetMode(models.ModeRange))
	require.NoError(t, c.Calculate(context.Background(), models.DefaultForm()))
	buf.Reset()
	require.NoError(t, RenderPage(&buf, c.View()))
	html = buf.String()
	assert.Contains(t, html, "Range mode: <b>37</b> points.")
	assert.True(t, strings.Contains(html, `id="singlePanel" class="card grid hidden"`))

	bad := models.DefaultForm()
	bad.FStep = "<script>"
	require.Error(t, c.Calculate(context.Background(), bad))
	buf.Reset()
	require.NoError(t, RenderPage(&buf, c.View()))
	html = buf.String()
	assert.Contains(t, html, `class="banner error"`)
	assert.NotContains(t, html, `value="<script>"`)
}

func TestSessionsEvictLeastRecentlyUsed(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSessions(testFactory, time.Hour, 3)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	tick := func() { now = now.Add(time.Second) }

	c1, id1 := s.Get(ctx, "")
	tick()
	_, id2 := s.Get(ctx, "")
	tick()
	s.Get(ctx, "")
	tick()

	// Touch the first session so the second becomes the oldest.
	_, got := s.Get(ctx, id1)
	require.Equal(t, id1, got)
	tick()

	_, id4 := s.Get(ctx, "")
	assert.Equal(t, 3, s.Len())

	_, again := s.Get(ctx, id2)
	assert.NotEqual(t, id2, again, "least recently used session must be evicted")

	_, again = s.Get(ctx, id4)
	assert.Equal(t, id4, again)
	_, again = s.Get(ctx, id1)
	assert.Equal(t, id1, again)
	assert.True(t, c1.View().HasChart)
}

func TestSessionsStayBoundedUnderAnonymousTraffic(t *testing.T) {
	s := NewSessions(testFactory, time.Hour, 10)
	ctx := context.Background()

	var first *Controller
	for i := 0; i < 100; i++ {
		c, _ := s.Get(ctx, "")
		if first == nil {
			first = c
		}
	}
	assert.Equal(t, 10, s.Len())
	assert.ErrorIs(t, first.WriteChart(&bytes.Buffer{}), chart.ErrNoChart, "evicted session must drop its chart")
}
