package core

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sliink/barline/internal/model"
)

const (
	// requestBufSize bounds the shared command channel. A slow renderer
	// applies backpressure to flushing blocks instead of growing memory.
	requestBufSize = 64
	// eventBufSize bounds each block's private event channel. A block
	// that stops polling stalls delivery to itself; that is an accepted
	// constraint, not hidden by unbounded buffering.
	eventBufSize = 8
)

// BlockHandle is the renderer-facing side of one running block: its
// identity, shared settings and the send end of its private event
// channel.
type BlockHandle struct {
	ID     string
	Kind   Kind
	Shared *SharedConfig

	events chan model.BlockEvent
	done   chan struct{}
	err    error
}

// Deliver sends an event to the block. It blocks while the block's
// bounded event channel is full.
func (h *BlockHandle) Deliver(ctx context.Context, event model.BlockEvent) error {
	select {
	case h.events <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once the block's computation has finished
func (h *BlockHandle) Done() <-chan struct{} {
	return h.done
}

// Err reports how the block's computation ended. It is meaningful only
// after Done is closed; nil means a clean finish or cancellation.
func (h *BlockHandle) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}

// Engine instantiates blocks from raw configuration documents and runs
// their computations. All blocks flush onto one shared request channel;
// the renderer owns its receive end.
type Engine struct {
	registry *Registry
	requests chan model.Request
	logger   zerolog.Logger

	mutex   sync.Mutex
	handles []*BlockHandle
	wg      sync.WaitGroup
}

// NewEngine creates an engine dispatching to the given registry
func NewEngine(registry *Registry, logger zerolog.Logger) *Engine {
	return &Engine{
		registry: registry,
		requests: make(chan model.Request, requestBufSize),
		logger:   logger,
	}
}

// Requests returns the receive end of the shared command channel. The
// renderer is its only consumer.
func (e *Engine) Requests() <-chan model.Request {
	return e.requests
}

// SpawnBlock extracts the shared fields from raw, resolves the block
// kind, builds the API handle and starts the block's computation. The
// returned handle is how the renderer reaches the new block. Extraction
// or kind resolution failures are configuration errors; the block never
// starts.
func (e *Engine) SpawnBlock(ctx context.Context, raw map[string]any) (*BlockHandle, error) {
	shared, err := ExtractSharedConfig(raw)
	if err != nil {
		return nil, err
	}
	kind, err := e.registry.ParseKind(string(shared.Kind))
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	handle := &BlockHandle{
		ID:     id,
		Kind:   kind,
		Shared: shared,
		events: make(chan model.BlockEvent, eventBufSize),
		done:   make(chan struct{}),
	}

	logger := e.logger.With().Str("block", string(kind)).Str("id", id).Logger()
	api := NewBlockAPI(id, shared, handle.events, e.requests, logger)

	e.mutex.Lock()
	e.handles = append(e.handles, handle)
	e.mutex.Unlock()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer close(handle.done)

		logger.Info().Msg("block started")
		runErr := e.registry.Run(ctx, kind, raw, api)
		if runErr != nil && !errors.Is(runErr, context.Canceled) {
			handle.err = runErr
			logger.Error().Err(runErr).Msg("block terminated")
			return
		}
		logger.Info().Msg("block finished")
	}()

	return handle, nil
}

// Handles returns the handles of every block spawned so far
func (e *Engine) Handles() []*BlockHandle {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	handles := make([]*BlockHandle, len(e.handles))
	copy(handles, e.handles)
	return handles
}

// Wait blocks until every spawned block has finished
func (e *Engine) Wait() {
	e.wg.Wait()
}
