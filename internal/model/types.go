package model

import "fmt"

// Severity is the urgency level a block reports with each update. The
// renderer maps it to the segment's color theme.
type Severity string

const (
	// SeverityIdle indicates nothing noteworthy
	SeverityIdle Severity = "IDLE"
	// SeverityInfo indicates neutral information
	SeverityInfo Severity = "INFO"
	// SeverityGood indicates a healthy or completed state
	SeverityGood Severity = "GOOD"
	// SeverityWarning indicates a state that deserves attention
	SeverityWarning Severity = "WARNING"
	// SeverityCritical indicates a state that requires action
	SeverityCritical Severity = "CRITICAL"
)

// MouseButton identifies the button of a click on a bar segment
type MouseButton int

const (
	LeftButton MouseButton = iota + 1
	MiddleButton
	RightButton
	WheelUp
	WheelDown
)

// ParseMouseButton converts a configuration name into a MouseButton
func ParseMouseButton(name string) (MouseButton, error) {
	switch name {
	case "left":
		return LeftButton, nil
	case "middle":
		return MiddleButton, nil
	case "right":
		return RightButton, nil
	case "wheel_up":
		return WheelUp, nil
	case "wheel_down":
		return WheelDown, nil
	default:
		return 0, fmt.Errorf("unknown mouse button %q", name)
	}
}

// String returns the configuration name of the button
func (b MouseButton) String() string {
	switch b {
	case LeftButton:
		return "left"
	case MiddleButton:
		return "middle"
	case RightButton:
		return "right"
	case WheelUp:
		return "wheel_up"
	case WheelDown:
		return "wheel_down"
	default:
		return "unknown"
	}
}

// ClickRule maps a mouse button on a block's segment to an action the
// renderer performs on the block's behalf.
type ClickRule struct {
	Button MouseButton
	// Update requests a refresh from the block when the button is pressed
	Update bool
	// Cmd is an optional shell command the renderer runs when the button
	// is pressed
	Cmd string
}

// ValueKind represents the type of a formatting placeholder value
type ValueKind string

const (
	// TextValueKind represents plain text
	TextValueKind ValueKind = "TEXT"
	// NumberValueKind represents a unitless number
	NumberValueKind ValueKind = "NUMBER"
	// BytesValueKind represents a byte count
	BytesValueKind ValueKind = "BYTES"
	// PercentsValueKind represents a percentage
	PercentsValueKind ValueKind = "PERCENTS"
	// IconValueKind represents a resolved icon glyph
	IconValueKind ValueKind = "ICON"
)

// Value is one named placeholder a block publishes for its format string.
// The templating engine that expands format strings is external; this
// core only transports the values.
type Value struct {
	Kind   ValueKind `json:"kind"`
	Text   string    `json:"text,omitempty"`
	Number float64   `json:"number,omitempty"`
}

// TextValue creates a plain text value
func TextValue(text string) Value {
	return Value{Kind: TextValueKind, Text: text}
}

// NumberValue creates a unitless numeric value
func NumberValue(n float64) Value {
	return Value{Kind: NumberValueKind, Number: n}
}

// BytesValue creates a byte count value
func BytesValue(n float64) Value {
	return Value{Kind: BytesValueKind, Number: n}
}

// PercentsValue creates a percentage value
func PercentsValue(n float64) Value {
	return Value{Kind: PercentsValueKind, Number: n}
}

// IconValue creates a value holding an already-resolved icon glyph
func IconValue(glyph string) Value {
	return Value{Kind: IconValueKind, Text: glyph}
}
