package core

import (
	"context"
	"time"

	"github.com/sliink/barline/internal/model"
)

// Recoverable runs op until it succeeds, turning every failure into a
// visible, interactive degraded state so blocks never hand-write retry
// logic. While degraded the segment shows critical severity with a
// short message (the configured error_format, or msg); a left click
// toggles a focused view showing the raw error text in full screen.
// Each failure schedules a retry after the block's error interval; the
// deadline is not moved by focus toggles. There is no retry limit: the
// loop ends only on success or when ctx is cancelled.
//
// On the first failure a Preserve command snapshots the display state;
// success after one or more failures restores it along with
// full-screen-off. A first-attempt success returns directly.
func Recoverable[T any](ctx context.Context, api *BlockAPI, op func() (T, error), msg string) (T, error) {
	var zero T
	focused := false
	failed := false

	for {
		result, err := op()
		if err == nil {
			if failed {
				api.SetFullScreen(false)
				api.Restore()
			}
			return result, nil
		}

		if !failed {
			api.Preserve()
			failed = true
		}

		retry := time.NewTimer(api.ErrorInterval())
		api.Show()
		api.SetState(model.SeverityCritical)

	degraded:
		for {
			if focused {
				api.SetText(err.Error())
				api.SetFullScreen(true)
			} else {
				text := api.SharedConfig().ErrorFormat
				if text == "" {
					text = msg
				}
				api.SetText(text)
				api.SetFullScreen(false)
			}
			if flushErr := api.Flush(ctx); flushErr != nil {
				retry.Stop()
				return zero, flushErr
			}

			// When the deadline and a click are ready in the same
			// scheduling step the timer wins, keeping the retry cadence
			// predictable.
			select {
			case <-retry.C:
				break degraded
			default:
			}

			select {
			case <-retry.C:
				break degraded
			case event, ok := <-api.events:
				if !ok {
					retry.Stop()
					return zero, model.ErrEventsClosed
				}
				click, isClick := event.(model.ClickEvent)
				if isClick && click.Button == model.LeftButton {
					focused = !focused
				}
			case <-ctx.Done():
				retry.Stop()
				return zero, ctx.Err()
			}
		}
	}
}
