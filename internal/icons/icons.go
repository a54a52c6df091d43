// Package icons holds the read-only icon sets blocks resolve symbolic
// icon names against.
package icons

import "fmt"

// Set maps symbolic icon names to display glyphs
type Set map[string]string

// Default is the built-in icon set. It covers the icons the bundled
// blocks use plus the common hardware segments.
var Default = Set{
	"backlight":   "☀",
	"battery":     "🔋",
	"cpu":         "⚙",
	"disk_drive":  "🖴",
	"memory":      "🧠",
	"net_down":    "↓",
	"net_up":      "↑",
	"time":        "🕒",
	"timer":       "⏳",
	"timer_done":  "✓",
	"timer_off":   "⏸",
	"volume":      "🔊",
	"volume_mute": "🔇",
}

// Lookup resolves a symbolic icon name against the set
func (s Set) Lookup(name string) (string, error) {
	glyph, ok := s[name]
	if !ok {
		return "", fmt.Errorf("unknown icon %q", name)
	}
	return glyph, nil
}

// Names returns the symbolic names the set defines
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	return names
}
