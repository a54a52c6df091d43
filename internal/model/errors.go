package model

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownKind reports a configured block kind that no build of
	// barline knows about. This is a configuration error.
	ErrUnknownKind = errors.New("unknown block kind")

	// ErrKindDisabled reports a known block kind that was excluded from
	// this build. Distinct from ErrUnknownKind so operators can tell a
	// typo from a missing build tag.
	ErrKindDisabled = errors.New("block kind disabled at build time")

	// ErrRequestChannelClosed reports that the renderer side of the
	// shared command channel is gone. Recoverable by the caller.
	ErrRequestChannelClosed = errors.New("request channel closed")

	// ErrEventsClosed reports that a block's event channel was closed
	// while the block was still running. The renderer never abandons a
	// live block, so this is an unrecoverable consistency failure that
	// terminates the block.
	ErrEventsClosed = errors.New("event stream closed while block still running")

	// ErrNoConnection reports a failed shared-connection request
	ErrNoConnection = errors.New("failed to obtain connection")
)

// ConfigError reports a shared configuration field that is present but
// has the wrong shape, or is missing while required.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config field %q: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a field-named configuration error
func NewConfigError(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Err: fmt.Errorf(format, args...)}
}

// BlockError tags a failure with the kind and instance id of the block
// that produced it, so operators can attribute it to a specific
// configured instance.
type BlockError struct {
	Kind    string
	BlockID string
	Err     error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("block %s (id %s): %v", e.Kind, e.BlockID, e.Err)
}

func (e *BlockError) Unwrap() error {
	return e.Err
}
