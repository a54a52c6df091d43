package core

import (
	"strings"
	"time"

	"github.com/sliink/barline/internal/icons"
	"github.com/sliink/barline/internal/model"
)

// DefaultErrorInterval is the retry delay used when a block's
// configuration does not set error_interval.
const DefaultErrorInterval = 5 * time.Second

// sharedFields are the configuration keys every block shares. The
// extractor removes exactly these from a block's raw document; all
// other keys stay behind for the block's own decoding.
var sharedFields = []string{
	"block",
	"click",
	"signal",
	"icons_format",
	"theme_overrides",
	"error_interval",
	"error_format",
}

// SharedConfig holds the per-block settings common to every block kind,
// extracted from the raw configuration before block-specific decoding.
type SharedConfig struct {
	Kind           Kind
	Click          []model.ClickRule
	Signal         int
	IconsFormat    string
	ThemeOverrides map[string]string
	ErrorInterval  time.Duration
	ErrorFormat    string

	iconSet icons.Set
}

// NoSignal is the Signal value of a block with no update signal
// configured.
const NoSignal = -1

// ExtractSharedConfig moves the recognized shared field names out of raw
// into a SharedConfig, leaving every other field untouched for the
// block's own parsing. A recognized field with the wrong shape fails
// with a field-named configuration error.
func ExtractSharedConfig(raw map[string]any) (*SharedConfig, error) {
	cfg := &SharedConfig{
		Signal:        NoSignal,
		ErrorInterval: DefaultErrorInterval,
		iconSet:       icons.Default,
	}

	for _, field := range sharedFields {
		value, ok := raw[field]
		if !ok {
			continue
		}
		delete(raw, field)

		var err error
		switch field {
		case "block":
			err = cfg.parseKindName(value)
		case "click":
			err = cfg.parseClick(value)
		case "signal":
			err = cfg.parseSignal(value)
		case "icons_format":
			err = assignString(field, value, &cfg.IconsFormat)
		case "theme_overrides":
			err = cfg.parseThemeOverrides(value)
		case "error_interval":
			err = cfg.parseErrorInterval(value)
		case "error_format":
			err = assignString(field, value, &cfg.ErrorFormat)
		}
		if err != nil {
			return nil, err
		}
	}

	if cfg.Kind == "" {
		return nil, model.NewConfigError("block", "missing block kind")
	}
	return cfg, nil
}

// GetIcon resolves a symbolic icon name through the theme overrides and
// the icon set, then applies the icons_format wrapper if one is set.
func (c *SharedConfig) GetIcon(name string) (string, error) {
	glyph, ok := c.ThemeOverrides[name]
	if !ok {
		var err error
		glyph, err = c.iconSet.Lookup(name)
		if err != nil {
			return "", err
		}
	}
	if c.IconsFormat != "" {
		glyph = strings.ReplaceAll(c.IconsFormat, "{icon}", glyph)
	}
	return glyph, nil
}

func (c *SharedConfig) parseKindName(value any) error {
	name, ok := value.(string)
	if !ok || name == "" {
		return model.NewConfigError("block", "expected a block kind name, got %T", value)
	}
	c.Kind = Kind(name)
	return nil
}

func (c *SharedConfig) parseClick(value any) error {
	rules, ok := value.([]map[string]any)
	if !ok {
		// TOML arrays of mixed provenance decode as []any
		generic, genericOK := value.([]any)
		if !genericOK {
			return model.NewConfigError("click", "expected an array of click rules, got %T", value)
		}
		rules = make([]map[string]any, 0, len(generic))
		for _, entry := range generic {
			rule, entryOK := entry.(map[string]any)
			if !entryOK {
				return model.NewConfigError("click", "expected a click rule table, got %T", entry)
			}
			rules = append(rules, rule)
		}
	}

	for _, rule := range rules {
		buttonName, ok := rule["button"].(string)
		if !ok {
			return model.NewConfigError("click", "click rule is missing a button name")
		}
		button, err := model.ParseMouseButton(buttonName)
		if err != nil {
			return &model.ConfigError{Field: "click", Err: err}
		}
		parsed := model.ClickRule{Button: button}
		if update, present := rule["update"]; present {
			flag, flagOK := update.(bool)
			if !flagOK {
				return model.NewConfigError("click", "expected a boolean for update, got %T", update)
			}
			parsed.Update = flag
		}
		if cmd, present := rule["cmd"]; present {
			text, textOK := cmd.(string)
			if !textOK {
				return model.NewConfigError("click", "expected a string for cmd, got %T", cmd)
			}
			parsed.Cmd = text
		}
		c.Click = append(c.Click, parsed)
	}
	return nil
}

func (c *SharedConfig) parseSignal(value any) error {
	n, err := asInt("signal", value)
	if err != nil {
		return err
	}
	if n < 0 {
		return model.NewConfigError("signal", "signal number must not be negative, got %d", n)
	}
	c.Signal = int(n)
	return nil
}

func (c *SharedConfig) parseThemeOverrides(value any) error {
	table, ok := value.(map[string]any)
	if !ok {
		return model.NewConfigError("theme_overrides", "expected a table, got %T", value)
	}
	c.ThemeOverrides = make(map[string]string, len(table))
	for name, glyph := range table {
		text, textOK := glyph.(string)
		if !textOK {
			return model.NewConfigError("theme_overrides", "expected a string for %q, got %T", name, glyph)
		}
		c.ThemeOverrides[name] = text
	}
	return nil
}

func (c *SharedConfig) parseErrorInterval(value any) error {
	seconds, err := asInt("error_interval", value)
	if err != nil {
		return err
	}
	if seconds <= 0 {
		return model.NewConfigError("error_interval", "interval must be positive, got %d", seconds)
	}
	c.ErrorInterval = time.Duration(seconds) * time.Second
	return nil
}

func assignString(field string, value any, target *string) error {
	text, ok := value.(string)
	if !ok {
		return model.NewConfigError(field, "expected a string, got %T", value)
	}
	*target = text
	return nil
}

func asInt(field string, value any) (int64, error) {
	switch n := value.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		if n != float64(int64(n)) {
			return 0, model.NewConfigError(field, "expected an integer, got %v", n)
		}
		return int64(n), nil
	default:
		return 0, model.NewConfigError(field, "expected an integer, got %T", value)
	}
}
