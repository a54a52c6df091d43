package core

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sliink/barline/internal/model"
)

// BlockAPI is the per-instance handle a block uses to talk to the
// renderer. Mutators only append to the command buffer; nothing reaches
// the renderer until Flush. The event channel is owned exclusively by
// this block, while the request channel is shared by every block.
type BlockAPI struct {
	id           string
	sharedConfig *SharedConfig
	events       <-chan model.BlockEvent
	requests     chan<- model.Request
	buf          []model.Command
	logger       zerolog.Logger
}

// NewBlockAPI creates the handle for one block instance. The engine
// calls this right before starting the block's computation; the handle
// lives exactly as long as that computation.
func NewBlockAPI(id string, shared *SharedConfig, events <-chan model.BlockEvent, requests chan<- model.Request, logger zerolog.Logger) *BlockAPI {
	return &BlockAPI{
		id:           id,
		sharedConfig: shared,
		events:       events,
		requests:     requests,
		logger:       logger,
	}
}

// ID returns the block's opaque instance id. It never changes and is
// never shared with a concurrently running block.
func (a *BlockAPI) ID() string {
	return a.id
}

// SharedConfig returns the block's shared configuration
func (a *BlockAPI) SharedConfig() *SharedConfig {
	return a.sharedConfig
}

// ErrorInterval returns the configured retry delay for degraded state
func (a *BlockAPI) ErrorInterval() time.Duration {
	return a.sharedConfig.ErrorInterval
}

// Logger returns a logger tagged with the block's identity
func (a *BlockAPI) Logger() zerolog.Logger {
	return a.logger
}

// Hide buffers a command removing the segment from the bar
func (a *BlockAPI) Hide() {
	a.buf = append(a.buf, model.HideCommand{})
}

// Show buffers a command making the segment visible
func (a *BlockAPI) Show() {
	a.buf = append(a.buf, model.ShowCommand{})
}

// SetIcon resolves a symbolic icon name and buffers the resulting glyph.
// An unknown name fails without buffering anything. The empty name
// buffers an icon-clearing command and performs no lookup.
func (a *BlockAPI) SetIcon(name string) error {
	glyph := ""
	if name != "" {
		resolved, err := a.sharedConfig.GetIcon(name)
		if err != nil {
			return err
		}
		glyph = resolved
	}
	a.buf = append(a.buf, model.SetIconCommand{Icon: glyph})
	return nil
}

// SetIconRaw buffers an already-resolved glyph without a lookup
func (a *BlockAPI) SetIconRaw(glyph string) {
	a.buf = append(a.buf, model.SetIconCommand{Icon: glyph})
}

// SetState buffers a severity change
func (a *BlockAPI) SetState(state model.Severity) {
	a.buf = append(a.buf, model.SetStateCommand{State: state})
}

// SetText buffers a full-text change
func (a *BlockAPI) SetText(text string) {
	a.buf = append(a.buf, model.SetTextCommand{Text: text})
}

// SetTexts buffers a change of both the full and the short text
func (a *BlockAPI) SetTexts(full, short string) {
	a.buf = append(a.buf, model.SetTextsCommand{Full: full, Short: short})
}

// SetValues buffers a replacement of the format placeholder values
func (a *BlockAPI) SetValues(values map[string]model.Value) {
	a.buf = append(a.buf, model.SetValuesCommand{Values: values})
}

// SetFormat buffers a format string replacement
func (a *BlockAPI) SetFormat(format string) {
	a.buf = append(a.buf, model.SetFormatCommand{Format: format})
}

// SetFullScreen buffers a full-screen toggle
func (a *BlockAPI) SetFullScreen(fullScreen bool) {
	a.buf = append(a.buf, model.SetFullScreenCommand{FullScreen: fullScreen})
}

// Preserve buffers a snapshot of the current display state
func (a *BlockAPI) Preserve() {
	a.buf = append(a.buf, model.PreserveCommand{})
}

// Restore buffers a rollback to the most recent snapshot
func (a *BlockAPI) Restore() {
	a.buf = append(a.buf, model.RestoreCommand{})
}

// Flush takes ownership of the buffered commands, replacing the buffer
// with an empty one, and sends them as one Request tagged with this
// block's id. The swap happens before the send, so mutations issued
// while a flush is in flight land in a fresh buffer. An empty buffer
// still sends a Request. Failure means the renderer is gone; that is
// returned, not fatal. The error also carries the context's cause, so
// a flush cut short by an orderly cancellation still satisfies
// errors.Is(err, context.Canceled).
func (a *BlockAPI) Flush(ctx context.Context) error {
	cmds := a.buf
	a.buf = nil

	select {
	case a.requests <- model.Request{BlockID: a.id, Commands: cmds}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("flush for block %s: %w: %w", a.id, model.ErrRequestChannelClosed, ctx.Err())
	}
}

// NextEvent yields the next click or update request for this block. It
// is safe to race against a timer through ctx and abandon: an event
// delivered concurrently with the cancellation stays in the channel for
// the next call. A closed event channel means the renderer abandoned a
// still-live block and returns ErrEventsClosed, which terminates the
// block.
func (a *BlockAPI) NextEvent(ctx context.Context) (model.BlockEvent, error) {
	select {
	case event, ok := <-a.events:
		if !ok {
			return nil, model.ErrEventsClosed
		}
		return event, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// RequestConnection obtains the shared session bus connection from the
// renderer.
func (a *BlockAPI) RequestConnection(ctx context.Context) (*model.Connection, error) {
	reply := make(chan model.ConnectionResult, 1)
	a.buf = append(a.buf, model.RequestConnectionCommand{Reply: reply})
	return a.awaitConnection(ctx, reply)
}

// RequestSystemConnection obtains the shared system bus connection from
// the renderer.
func (a *BlockAPI) RequestSystemConnection(ctx context.Context) (*model.Connection, error) {
	reply := make(chan model.ConnectionResult, 1)
	a.buf = append(a.buf, model.RequestSystemConnectionCommand{Reply: reply})
	return a.awaitConnection(ctx, reply)
}

// awaitConnection flushes immediately so the request is not delayed by
// batching, then waits for the single reply. A failed flush or a reply
// channel closed without an answer both surface as ErrNoConnection.
func (a *BlockAPI) awaitConnection(ctx context.Context, reply <-chan model.ConnectionResult) (*model.Connection, error) {
	if err := a.Flush(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrNoConnection, err)
	}

	select {
	case result, ok := <-reply:
		if !ok {
			return nil, model.ErrNoConnection
		}
		if result.Err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrNoConnection, result.Err)
		}
		return result.Conn, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
