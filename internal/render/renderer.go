// Package render implements the renderer/aggregator side of the block
// contract: it owns every block's visible widget state, applies flushed
// command batches in order, routes clicks and update triggers back to
// the owning block and answers shared-resource requests.
package render

import (
	"context"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/sliink/barline/internal/core"
	"github.com/sliink/barline/internal/model"
)

// sigrtmin is the first POSIX real-time signal on Linux. A block's
// configured signal number is an offset from it.
const sigrtmin = 34

// Widget is the renderer-owned display state of one block segment.
// Nothing outside the renderer mutates it; blocks reach it only through
// commands.
type Widget struct {
	Visible    bool                   `json:"visible"`
	Icon       string                 `json:"icon,omitempty"`
	State      model.Severity         `json:"state"`
	FullText   string                 `json:"full_text,omitempty"`
	ShortText  string                 `json:"short_text,omitempty"`
	Values     map[string]model.Value `json:"values,omitempty"`
	Format     string                 `json:"format,omitempty"`
	FullScreen bool                   `json:"full_screen"`
}

// SegmentStatus is a read-only view of one segment for introspection
type SegmentStatus struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Running bool   `json:"running"`
	Widget  Widget `json:"widget"`
}

// segment couples a block handle with its widget state and the snapshot
// stack backing Preserve/Restore
type segment struct {
	handle    *core.BlockHandle
	widget    Widget
	preserved []Widget
}

// Renderer drains the shared request channel and keeps the bar state
type Renderer struct {
	requests <-chan model.Request
	conns    *ConnectionPool
	logger   zerolog.Logger

	mutex    sync.RWMutex
	segments map[string]*segment
	order    []string
}

// NewRenderer creates a renderer consuming the given request channel
func NewRenderer(requests <-chan model.Request, logger zerolog.Logger) *Renderer {
	return &Renderer{
		requests: requests,
		conns:    NewConnectionPool(),
		logger:   logger,
		segments: make(map[string]*segment),
	}
}

// Attach registers a newly spawned block with the renderer. Its segment
// starts out with idle severity and, when the block configured an
// update signal, a watcher translating that signal into update requests.
func (r *Renderer) Attach(ctx context.Context, handle *core.BlockHandle) {
	r.mutex.Lock()
	r.segments[handle.ID] = &segment{
		handle: handle,
		widget: Widget{State: model.SeverityIdle},
	}
	r.order = append(r.order, handle.ID)
	r.mutex.Unlock()

	if handle.Shared.Signal != core.NoSignal {
		go r.watchSignal(ctx, handle)
	}
}

// Run applies flushed requests until ctx is cancelled. Requests from
// one block arrive in flush order; commands within a request apply in
// buffering order.
func (r *Renderer) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case request := <-r.requests:
			r.apply(request)
		}
	}
}

// Click routes a click on a rendered segment back to the owning block,
// honoring its configured click rules.
func (r *Renderer) Click(ctx context.Context, blockID string, button model.MouseButton) error {
	r.mutex.RLock()
	seg, ok := r.segments[blockID]
	r.mutex.RUnlock()
	if !ok {
		return nil
	}

	for _, rule := range seg.handle.Shared.Click {
		if rule.Button != button {
			continue
		}
		if rule.Cmd != "" {
			r.runClickCmd(rule.Cmd)
		}
		if rule.Update {
			if err := seg.handle.Deliver(ctx, model.UpdateRequestEvent{}); err != nil {
				return err
			}
		}
	}
	return seg.handle.Deliver(ctx, model.ClickEvent{Button: button})
}

// Snapshot returns the current state of every segment in attach order
func (r *Renderer) Snapshot() []SegmentStatus {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	statuses := make([]SegmentStatus, 0, len(r.order))
	for _, id := range r.order {
		seg := r.segments[id]
		running := true
		select {
		case <-seg.handle.Done():
			running = false
		default:
		}
		statuses = append(statuses, SegmentStatus{
			ID:      id,
			Kind:    string(seg.handle.Kind),
			Running: running,
			Widget:  seg.widget,
		})
	}
	return statuses
}

// Segment returns the status of one segment by block id
func (r *Renderer) Segment(blockID string) (SegmentStatus, bool) {
	for _, status := range r.Snapshot() {
		if status.ID == blockID {
			return status, true
		}
	}
	return SegmentStatus{}, false
}

func (r *Renderer) apply(request model.Request) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	seg, ok := r.segments[request.BlockID]
	if !ok {
		r.logger.Warn().Str("id", request.BlockID).Msg("request from unknown block")
		r.discardReplies(request)
		return
	}

	for _, command := range request.Commands {
		switch cmd := command.(type) {
		case model.HideCommand:
			seg.widget.Visible = false
		case model.ShowCommand:
			seg.widget.Visible = true
		case model.SetIconCommand:
			seg.widget.Icon = cmd.Icon
		case model.SetStateCommand:
			seg.widget.State = cmd.State
		case model.SetTextCommand:
			seg.widget.FullText = cmd.Text
			seg.widget.ShortText = ""
		case model.SetTextsCommand:
			seg.widget.FullText = cmd.Full
			seg.widget.ShortText = cmd.Short
		case model.SetValuesCommand:
			seg.widget.Values = cmd.Values
		case model.SetFormatCommand:
			seg.widget.Format = cmd.Format
		case model.SetFullScreenCommand:
			seg.widget.FullScreen = cmd.FullScreen
		case model.PreserveCommand:
			seg.preserved = append(seg.preserved, seg.widget)
		case model.RestoreCommand:
			if n := len(seg.preserved); n > 0 {
				seg.widget = seg.preserved[n-1]
				seg.preserved = seg.preserved[:n-1]
			}
		case model.RequestConnectionCommand:
			go r.answerConnection(cmd.Reply, SessionBus)
		case model.RequestSystemConnectionCommand:
			go r.answerConnection(cmd.Reply, SystemBus)
		default:
			r.logger.Warn().Str("command", command.CommandType()).Msg("unhandled command")
		}
	}
}

// discardReplies closes the reply channels of connection requests from
// an unknown block so the requester does not wait forever
func (r *Renderer) discardReplies(request model.Request) {
	for _, command := range request.Commands {
		switch cmd := command.(type) {
		case model.RequestConnectionCommand:
			close(cmd.Reply)
		case model.RequestSystemConnectionCommand:
			close(cmd.Reply)
		}
	}
}

// answerConnection resolves a shared connection and answers the one-shot
// reply channel exactly once
func (r *Renderer) answerConnection(reply chan<- model.ConnectionResult, bus string) {
	conn, err := r.conns.Get(bus)
	if err != nil {
		r.logger.Error().Err(err).Str("bus", bus).Msg("connection request failed")
		reply <- model.ConnectionResult{Err: err}
		return
	}
	reply <- model.ConnectionResult{Conn: conn}
}

// watchSignal forwards the block's configured real-time signal as update
// requests
func (r *Renderer) watchSignal(ctx context.Context, handle *core.BlockHandle) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.Signal(sigrtmin+handle.Shared.Signal))
	defer signal.Stop(ch)

	for {
		select {
		case <-ctx.Done():
			return
		case <-handle.Done():
			return
		case <-ch:
			if err := handle.Deliver(ctx, model.UpdateRequestEvent{}); err != nil {
				return
			}
		}
	}
}

// runClickCmd starts a click rule's shell command without waiting for it
func (r *Renderer) runClickCmd(cmd string) {
	command := exec.Command("sh", "-c", cmd)
	if err := command.Start(); err != nil {
		r.logger.Error().Err(err).Str("cmd", cmd).Msg("click command failed to start")
		return
	}
	go func() {
		_ = command.Wait()
	}()
}
