package core

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sliink/barline/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopRun(ctx context.Context, cfg map[string]any, api *BlockAPI) error {
	return nil
}

func TestNewRegistry(t *testing.T) {
	registry := NewRegistry()

	assert.NotNil(t, registry)
	assert.Empty(t, registry.Kinds())
}

func TestRegister(t *testing.T) {
	registry := NewRegistry()

	t.Run("Register adds a known kind", func(t *testing.T) {
		registry.Register(KindTime, noopRun)
		assert.Contains(t, registry.Kinds(), KindTime)
	})

	t.Run("Register panics for a kind outside the known set", func(t *testing.T) {
		assert.Panics(t, func() {
			registry.Register(Kind("weather"), noopRun)
		})
	})
}

func TestParseKind(t *testing.T) {
	registry := NewRegistry()
	registry.Register(KindTime, noopRun)

	t.Run("ParseKind resolves a registered kind", func(t *testing.T) {
		kind, err := registry.ParseKind("time")
		require.NoError(t, err)
		assert.Equal(t, KindTime, kind)
	})

	t.Run("ParseKind reports a known but unregistered kind as disabled", func(t *testing.T) {
		_, err := registry.ParseKind("battery")
		assert.ErrorIs(t, err, model.ErrKindDisabled)
	})

	t.Run("ParseKind reports an unknown name as unknown", func(t *testing.T) {
		_, err := registry.ParseKind("batery")
		assert.ErrorIs(t, err, model.ErrUnknownKind)
	})
}

func TestRegistryRun(t *testing.T) {
	requests := make(chan model.Request, 1)
	shared := &SharedConfig{Kind: KindTime}
	api := NewBlockAPI("block-1", shared, nil, requests, zerolog.Nop())

	t.Run("Run dispatches to the registered entry point", func(t *testing.T) {
		registry := NewRegistry()
		called := false
		registry.Register(KindTime, func(ctx context.Context, cfg map[string]any, api *BlockAPI) error {
			called = true
			assert.Equal(t, "value", cfg["field"])
			return nil
		})

		err := registry.Run(context.Background(), KindTime, map[string]any{"field": "value"}, api)
		require.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("Run tags failures with kind and block id", func(t *testing.T) {
		registry := NewRegistry()
		boom := errors.New("boom")
		registry.Register(KindTime, func(ctx context.Context, cfg map[string]any, api *BlockAPI) error {
			return boom
		})

		err := registry.Run(context.Background(), KindTime, nil, api)
		require.Error(t, err)

		var blockErr *model.BlockError
		require.ErrorAs(t, err, &blockErr)
		assert.Equal(t, "time", blockErr.Kind)
		assert.Equal(t, "block-1", blockErr.BlockID)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("Run on an unregistered kind fails as disabled", func(t *testing.T) {
		registry := NewRegistry()

		err := registry.Run(context.Background(), KindBattery, nil, api)
		assert.ErrorIs(t, err, model.ErrKindDisabled)
	})
}
