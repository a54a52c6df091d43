package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/sliink/barline/internal/model"
)

// Kind identifies a block implementation
type Kind string

// The closed superset of block kinds any build of barline may carry.
// A build registers entry points only for the kinds linked in; the
// superset lets ParseKind tell an excluded kind apart from a typo.
const (
	KindBacklight Kind = "backlight"
	KindBattery   Kind = "battery"
	KindCPU       Kind = "cpu"
	KindDiskSpace Kind = "disk_space"
	KindMemory    Kind = "memory"
	KindNet       Kind = "net"
	KindTime      Kind = "time"
	KindTimer     Kind = "timer"
)

var knownKinds = map[Kind]struct{}{
	KindBacklight: {},
	KindBattery:   {},
	KindCPU:       {},
	KindDiskSpace: {},
	KindMemory:    {},
	KindNet:       {},
	KindTime:      {},
	KindTimer:     {},
}

func isKnownKind(kind Kind) bool {
	_, ok := knownKinds[kind]
	return ok
}

// RunFunc is a block entry point. It receives the block's remaining
// configuration (shared fields already removed) and its API handle, and
// runs until it finishes, fails, or ctx is cancelled.
type RunFunc func(ctx context.Context, cfg map[string]any, api *BlockAPI) error

// Registry maps the block kinds linked into this build to their entry
// points.
type Registry struct {
	runners map[Kind]RunFunc
	mutex   sync.RWMutex
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		runners: make(map[Kind]RunFunc),
	}
}

// Register adds a block kind's entry point. Registering a kind outside
// the known superset panics: it means the superset list is stale.
func (r *Registry) Register(kind Kind, run RunFunc) {
	if !isKnownKind(kind) {
		panic(fmt.Sprintf("block kind %q is not in the known kind set", kind))
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.runners[kind] = run
}

// ParseKind resolves a configured kind name. A name matching a
// registered kind succeeds; a name in the known superset without a
// registered entry point fails with ErrKindDisabled; anything else
// fails with ErrUnknownKind. Both are configuration errors.
func (r *Registry) ParseKind(name string) (Kind, error) {
	kind := Kind(name)

	r.mutex.RLock()
	_, registered := r.runners[kind]
	r.mutex.RUnlock()

	if registered {
		return kind, nil
	}
	if isKnownKind(kind) {
		return "", fmt.Errorf("%w: %q", model.ErrKindDisabled, name)
	}
	return "", fmt.Errorf("%w: %q", model.ErrUnknownKind, name)
}

// Run dispatches to the kind's entry point and tags any failure with the
// kind and block id, so a failure is attributable to one configured
// instance. The tagging is shared here rather than repeated per kind.
func (r *Registry) Run(ctx context.Context, kind Kind, cfg map[string]any, api *BlockAPI) error {
	r.mutex.RLock()
	run, ok := r.runners[kind]
	r.mutex.RUnlock()

	if !ok {
		return &model.BlockError{
			Kind:    string(kind),
			BlockID: api.ID(),
			Err:     model.ErrKindDisabled,
		}
	}
	if err := run(ctx, cfg, api); err != nil {
		return &model.BlockError{Kind: string(kind), BlockID: api.ID(), Err: err}
	}
	return nil
}

// Kinds returns the kinds registered in this build
func (r *Registry) Kinds() []Kind {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	kinds := make([]Kind, 0, len(r.runners))
	for kind := range r.runners {
		kinds = append(kinds, kind)
	}
	return kinds
}
