package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMouseButton(t *testing.T) {
	t.Run("Every button name round-trips", func(t *testing.T) {
		for _, name := range []string{"left", "middle", "right", "wheel_up", "wheel_down"} {
			button, err := ParseMouseButton(name)
			require.NoError(t, err, name)
			assert.Equal(t, name, button.String())
		}
	})

	t.Run("Unknown names fail", func(t *testing.T) {
		_, err := ParseMouseButton("forward")
		assert.Error(t, err)
	})
}

func TestValues(t *testing.T) {
	t.Run("Constructors tag the value kind", func(t *testing.T) {
		assert.Equal(t, Value{Kind: TextValueKind, Text: "sda1"}, TextValue("sda1"))
		assert.Equal(t, Value{Kind: NumberValueKind, Number: 3.5}, NumberValue(3.5))
		assert.Equal(t, Value{Kind: BytesValueKind, Number: 1024}, BytesValue(1024))
		assert.Equal(t, Value{Kind: PercentsValueKind, Number: 42}, PercentsValue(42))
		assert.Equal(t, Value{Kind: IconValueKind, Text: "X"}, IconValue("X"))
	})
}

func TestConfigError(t *testing.T) {
	err := NewConfigError("signal", "expected an integer, got %T", "three")

	assert.Equal(t, "signal", err.Field)
	assert.Contains(t, err.Error(), `config field "signal"`)
	assert.Contains(t, err.Error(), "expected an integer")

	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestBlockError(t *testing.T) {
	inner := errors.New("statfs failed")
	err := &BlockError{Kind: "disk_space", BlockID: "abc", Err: inner}

	assert.Contains(t, err.Error(), "disk_space")
	assert.Contains(t, err.Error(), "abc")
	assert.ErrorIs(t, err, inner)
}
