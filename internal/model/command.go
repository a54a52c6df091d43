package model

// Command is a single display mutation a block sends to the renderer.
// Commands are buffered on the block side and delivered as ordered
// batches; see Request.
type Command interface {
	// CommandType returns the name of the command
	CommandType() string
}

// Request is one flushed batch of commands tagged with the block that
// issued it. The renderer applies the commands in slice order.
type Request struct {
	BlockID  string
	Commands []Command
}

// HideCommand removes the block's segment from the bar
type HideCommand struct{}

func (HideCommand) CommandType() string { return "hide" }

// ShowCommand makes the block's segment visible
type ShowCommand struct{}

func (ShowCommand) CommandType() string { return "show" }

// SetIconCommand sets the segment's icon to an already-resolved glyph.
// An empty glyph clears the icon.
type SetIconCommand struct {
	Icon string
}

func (SetIconCommand) CommandType() string { return "set_icon" }

// SetStateCommand sets the segment's severity
type SetStateCommand struct {
	State Severity
}

func (SetStateCommand) CommandType() string { return "set_state" }

// SetTextCommand sets the segment's full text and clears the short text
type SetTextCommand struct {
	Text string
}

func (SetTextCommand) CommandType() string { return "set_text" }

// SetTextsCommand sets both the full and the short text of the segment
type SetTextsCommand struct {
	Full  string
	Short string
}

func (SetTextsCommand) CommandType() string { return "set_texts" }

// SetValuesCommand replaces the segment's format placeholder values
type SetValuesCommand struct {
	Values map[string]Value
}

func (SetValuesCommand) CommandType() string { return "set_values" }

// SetFormatCommand replaces the segment's format string. The format is
// opaque to this core; the renderer's templating engine interprets it.
type SetFormatCommand struct {
	Format string
}

func (SetFormatCommand) CommandType() string { return "set_format" }

// SetFullScreenCommand toggles whether the segment takes over the whole
// bar
type SetFullScreenCommand struct {
	FullScreen bool
}

func (SetFullScreenCommand) CommandType() string { return "set_full_screen" }

// PreserveCommand snapshots the segment's current display state so a
// later RestoreCommand can bring it back
type PreserveCommand struct{}

func (PreserveCommand) CommandType() string { return "preserve" }

// RestoreCommand reinstates the most recent preserved snapshot
type RestoreCommand struct{}

func (RestoreCommand) CommandType() string { return "restore" }

// RequestConnectionCommand asks the renderer for the shared session bus
// connection. The renderer answers exactly once on Reply, or closes it
// without answering when it cannot serve the request.
type RequestConnectionCommand struct {
	Reply chan<- ConnectionResult
}

func (RequestConnectionCommand) CommandType() string { return "request_connection" }

// RequestSystemConnectionCommand asks the renderer for the shared system
// bus connection
type RequestSystemConnectionCommand struct {
	Reply chan<- ConnectionResult
}

func (RequestSystemConnectionCommand) CommandType() string { return "request_system_connection" }
