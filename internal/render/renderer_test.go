package render

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sliink/barline/internal/core"
	"github.com/sliink/barline/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBar wires an engine, one parked block and a running renderer
// together the way the binary does
type testBar struct {
	engine   *core.Engine
	renderer *Renderer
	handle   *core.BlockHandle
	api      *core.BlockAPI
}

// newTestBar spawns one block of a kind that parks until cancelled,
// handing its API to the test so it can flush commands on demand
func newTestBar(t *testing.T, ctx context.Context, raw map[string]any) *testBar {
	t.Helper()

	registry := core.NewRegistry()
	apiCh := make(chan *core.BlockAPI, 1)
	registry.Register(core.KindTime, func(ctx context.Context, cfg map[string]any, api *core.BlockAPI) error {
		apiCh <- api
		<-ctx.Done()
		return ctx.Err()
	})

	engine := core.NewEngine(registry, zerolog.Nop())
	renderer := NewRenderer(engine.Requests(), zerolog.Nop())

	handle, err := engine.SpawnBlock(ctx, raw)
	require.NoError(t, err)
	renderer.Attach(ctx, handle)
	go renderer.Run(ctx)

	return &testBar{
		engine:   engine,
		renderer: renderer,
		handle:   handle,
		api:      <-apiCh,
	}
}

// widget polls until the renderer has applied the latest flush
func (b *testBar) widget(t *testing.T, accept func(Widget) bool) Widget {
	t.Helper()
	var last Widget
	require.Eventually(t, func() bool {
		status, ok := b.renderer.Segment(b.handle.ID)
		if !ok {
			return false
		}
		last = status.Widget
		return accept(status.Widget)
	}, time.Second, 5*time.Millisecond, "widget never reached the expected state, last: %+v", last)
	return last
}

func TestRendererAppliesCommands(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bar := newTestBar(t, ctx, map[string]any{"block": "time"})

	t.Run("A fresh segment is hidden and idle", func(t *testing.T) {
		status, ok := bar.renderer.Segment(bar.handle.ID)
		require.True(t, ok)
		assert.False(t, status.Widget.Visible)
		assert.Equal(t, model.SeverityIdle, status.Widget.State)
		assert.True(t, status.Running)
	})

	t.Run("One flush applies its commands in buffering order", func(t *testing.T) {
		bar.api.Show()
		bar.api.SetState(model.SeverityWarning)
		bar.api.SetIconRaw("W")
		bar.api.SetTexts("long text", "short")
		bar.api.SetFormat(" $icon $text ")
		bar.api.SetValues(map[string]model.Value{"n": model.NumberValue(7)})
		require.NoError(t, bar.api.Flush(ctx))

		widget := bar.widget(t, func(w Widget) bool { return w.Visible })
		assert.Equal(t, model.SeverityWarning, widget.State)
		assert.Equal(t, "W", widget.Icon)
		assert.Equal(t, "long text", widget.FullText)
		assert.Equal(t, "short", widget.ShortText)
		assert.Equal(t, " $icon $text ", widget.Format)
		assert.Equal(t, model.NumberValue(7), widget.Values["n"])
	})

	t.Run("SetText clears the short text", func(t *testing.T) {
		bar.api.SetText("replacement")
		require.NoError(t, bar.api.Flush(ctx))

		widget := bar.widget(t, func(w Widget) bool { return w.FullText == "replacement" })
		assert.Empty(t, widget.ShortText)
	})

	t.Run("Hide removes the segment from the bar", func(t *testing.T) {
		bar.api.Hide()
		require.NoError(t, bar.api.Flush(ctx))

		bar.widget(t, func(w Widget) bool { return !w.Visible })
	})
}

func TestRendererPreserveRestore(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bar := newTestBar(t, ctx, map[string]any{"block": "time"})

	bar.api.Show()
	bar.api.SetText("healthy")
	bar.api.SetState(model.SeverityGood)
	require.NoError(t, bar.api.Flush(ctx))
	bar.widget(t, func(w Widget) bool { return w.FullText == "healthy" })

	t.Run("Restore rolls back to the preserved snapshot", func(t *testing.T) {
		bar.api.Preserve()
		bar.api.SetText("degraded")
		bar.api.SetState(model.SeverityCritical)
		require.NoError(t, bar.api.Flush(ctx))
		bar.widget(t, func(w Widget) bool { return w.FullText == "degraded" })

		bar.api.Restore()
		require.NoError(t, bar.api.Flush(ctx))

		widget := bar.widget(t, func(w Widget) bool { return w.FullText == "healthy" })
		assert.Equal(t, model.SeverityGood, widget.State)
	})

	t.Run("Restore without a snapshot is a no-op", func(t *testing.T) {
		bar.api.Restore()
		require.NoError(t, bar.api.Flush(ctx))

		widget := bar.widget(t, func(w Widget) bool { return w.FullText == "healthy" })
		assert.Equal(t, model.SeverityGood, widget.State)
	})
}

func TestRendererClick(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bar := newTestBar(t, ctx, map[string]any{
		"block": "time",
		"click": []map[string]any{{"button": "left", "update": true}},
	})

	t.Run("A click with a matching update rule delivers both events", func(t *testing.T) {
		require.NoError(t, bar.renderer.Click(ctx, bar.handle.ID, model.LeftButton))

		event, err := bar.api.NextEvent(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.UpdateRequestEvent{}, event)

		event, err = bar.api.NextEvent(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.ClickEvent{Button: model.LeftButton}, event)
	})

	t.Run("A click without a matching rule delivers only the click", func(t *testing.T) {
		require.NoError(t, bar.renderer.Click(ctx, bar.handle.ID, model.RightButton))

		event, err := bar.api.NextEvent(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.ClickEvent{Button: model.RightButton}, event)
	})

	t.Run("A click on an unknown segment is ignored", func(t *testing.T) {
		assert.NoError(t, bar.renderer.Click(ctx, "no-such-block", model.LeftButton))
	})
}

func TestRendererSnapshot(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := core.NewRegistry()
	registry.Register(core.KindTime, func(ctx context.Context, cfg map[string]any, api *core.BlockAPI) error {
		<-ctx.Done()
		return ctx.Err()
	})
	engine := core.NewEngine(registry, zerolog.Nop())
	renderer := NewRenderer(engine.Requests(), zerolog.Nop())

	var ids []string
	for i := 0; i < 3; i++ {
		handle, err := engine.SpawnBlock(ctx, map[string]any{"block": "time"})
		require.NoError(t, err)
		renderer.Attach(ctx, handle)
		ids = append(ids, handle.ID)
	}

	t.Run("Snapshot lists segments in attach order", func(t *testing.T) {
		statuses := renderer.Snapshot()
		require.Len(t, statuses, 3)
		for i, status := range statuses {
			assert.Equal(t, ids[i], status.ID)
			assert.Equal(t, "time", status.Kind)
			assert.True(t, status.Running)
		}
	})

	t.Run("A finished block shows as not running", func(t *testing.T) {
		cancel()
		engine.Wait()

		statuses := renderer.Snapshot()
		for _, status := range statuses {
			assert.False(t, status.Running)
		}
	})
}

func TestRendererDiscardsUnknownReplies(t *testing.T) {
	renderer := NewRenderer(nil, zerolog.Nop())

	reply := make(chan model.ConnectionResult, 1)
	renderer.apply(model.Request{
		BlockID:  "ghost",
		Commands: []model.Command{model.RequestConnectionCommand{Reply: reply}},
	})

	_, ok := <-reply
	assert.False(t, ok, "the reply channel must be closed without an answer")
}
