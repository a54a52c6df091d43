package model

import "net"

// Connection is a shared bus connection owned by the renderer and handed
// out to blocks on request. Establishing the connection is the
// renderer's job; blocks only transport the handle.
type Connection struct {
	// Bus names the bus this connection belongs to, "session" or "system"
	Bus string
	// Conn is the underlying stream
	Conn net.Conn
}

// Close closes the underlying stream
func (c *Connection) Close() error {
	if c.Conn == nil {
		return nil
	}
	return c.Conn.Close()
}

// ConnectionResult answers a connection-request command. Either Conn or
// Err is set, never both.
type ConnectionResult struct {
	Conn *Connection
	Err  error
}
