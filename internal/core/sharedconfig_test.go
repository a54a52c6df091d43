package core

import (
	"testing"
	"time"

	"github.com/sliink/barline/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSharedConfig(t *testing.T) {
	t.Run("Extraction moves shared fields and leaves the rest", func(t *testing.T) {
		raw := map[string]any{
			"block":          "disk_space",
			"signal":         int64(3),
			"icons_format":   "<{icon}>",
			"error_interval": int64(10),
			"error_format":   "oops",
			"path":           "/mnt",
			"interval":       int64(30),
		}

		shared, err := ExtractSharedConfig(raw)
		require.NoError(t, err)

		assert.Equal(t, KindDiskSpace, shared.Kind)
		assert.Equal(t, 3, shared.Signal)
		assert.Equal(t, "<{icon}>", shared.IconsFormat)
		assert.Equal(t, 10*time.Second, shared.ErrorInterval)
		assert.Equal(t, "oops", shared.ErrorFormat)

		assert.Equal(t, map[string]any{
			"path":     "/mnt",
			"interval": int64(30),
		}, raw, "block-specific fields must stay behind untouched")
	})

	t.Run("Defaults apply when only the kind is set", func(t *testing.T) {
		shared, err := ExtractSharedConfig(map[string]any{"block": "time"})
		require.NoError(t, err)

		assert.Equal(t, NoSignal, shared.Signal)
		assert.Equal(t, DefaultErrorInterval, shared.ErrorInterval)
		assert.Empty(t, shared.Click)
		assert.Empty(t, shared.ErrorFormat)
	})

	t.Run("Missing block kind fails", func(t *testing.T) {
		_, err := ExtractSharedConfig(map[string]any{"path": "/"})
		var cfgErr *model.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "block", cfgErr.Field)
	})

	t.Run("Wrong-shaped fields fail with the field name", func(t *testing.T) {
		cases := map[string]map[string]any{
			"block":          {"block": 7},
			"signal":         {"block": "time", "signal": "three"},
			"icons_format":   {"block": "time", "icons_format": 1},
			"theme_overrides": {"block": "time", "theme_overrides": "nope"},
			"error_interval": {"block": "time", "error_interval": "soon"},
			"error_format":   {"block": "time", "error_format": []any{}},
			"click":          {"block": "time", "click": "left"},
		}
		for field, raw := range cases {
			_, err := ExtractSharedConfig(raw)
			var cfgErr *model.ConfigError
			require.ErrorAs(t, err, &cfgErr, field)
			assert.Equal(t, field, cfgErr.Field)
		}
	})

	t.Run("Negative signal numbers fail", func(t *testing.T) {
		_, err := ExtractSharedConfig(map[string]any{"block": "time", "signal": int64(-2)})
		assert.Error(t, err)
	})

	t.Run("Non-positive error interval fails", func(t *testing.T) {
		_, err := ExtractSharedConfig(map[string]any{"block": "time", "error_interval": int64(0)})
		assert.Error(t, err)
	})
}

func TestExtractSharedConfigClickRules(t *testing.T) {
	t.Run("Click rules parse button, update and cmd", func(t *testing.T) {
		raw := map[string]any{
			"block": "time",
			"click": []map[string]any{
				{"button": "left", "update": true},
				{"button": "wheel_up", "cmd": "true"},
			},
		}

		shared, err := ExtractSharedConfig(raw)
		require.NoError(t, err)
		require.Len(t, shared.Click, 2)
		assert.Equal(t, model.ClickRule{Button: model.LeftButton, Update: true}, shared.Click[0])
		assert.Equal(t, model.ClickRule{Button: model.WheelUp, Cmd: "true"}, shared.Click[1])
	})

	t.Run("Click rules decoded as a generic array parse the same", func(t *testing.T) {
		raw := map[string]any{
			"block": "time",
			"click": []any{map[string]any{"button": "middle"}},
		}

		shared, err := ExtractSharedConfig(raw)
		require.NoError(t, err)
		require.Len(t, shared.Click, 1)
		assert.Equal(t, model.MiddleButton, shared.Click[0].Button)
	})

	t.Run("An unknown button name fails", func(t *testing.T) {
		raw := map[string]any{
			"block": "time",
			"click": []map[string]any{{"button": "forward"}},
		}
		_, err := ExtractSharedConfig(raw)
		assert.Error(t, err)
	})
}

func TestGetIcon(t *testing.T) {
	t.Run("GetIcon resolves from the icon set", func(t *testing.T) {
		shared, err := ExtractSharedConfig(map[string]any{"block": "time"})
		require.NoError(t, err)

		glyph, err := shared.GetIcon("disk_drive")
		require.NoError(t, err)
		assert.NotEmpty(t, glyph)
	})

	t.Run("Theme overrides win over the icon set", func(t *testing.T) {
		shared, err := ExtractSharedConfig(map[string]any{
			"block":           "time",
			"theme_overrides": map[string]any{"disk_drive": "D"},
		})
		require.NoError(t, err)

		glyph, err := shared.GetIcon("disk_drive")
		require.NoError(t, err)
		assert.Equal(t, "D", glyph)
	})

	t.Run("The icons format wraps the glyph", func(t *testing.T) {
		shared, err := ExtractSharedConfig(map[string]any{
			"block":           "time",
			"icons_format":    "<{icon}>",
			"theme_overrides": map[string]any{"disk_drive": "D"},
		})
		require.NoError(t, err)

		glyph, err := shared.GetIcon("disk_drive")
		require.NoError(t, err)
		assert.Equal(t, "<D>", glyph)
	})

	t.Run("Unknown names fail", func(t *testing.T) {
		shared, err := ExtractSharedConfig(map[string]any{"block": "time"})
		require.NoError(t, err)

		_, err = shared.GetIcon("no_such_icon")
		assert.Error(t, err)
	})
}
