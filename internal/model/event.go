package model

// BlockEvent is an inbound notification delivered to exactly one block
// through its private event channel.
type BlockEvent interface {
	// EventType returns the name of the event
	EventType() string
}

// ClickEvent reports a mouse click on the block's rendered segment
type ClickEvent struct {
	Button MouseButton
}

func (ClickEvent) EventType() string { return "click" }

// UpdateRequestEvent asks the block to refresh its display state, for
// example after its configured signal fired or a click rule matched
type UpdateRequestEvent struct{}

func (UpdateRequestEvent) EventType() string { return "update_request" }
