package render

import (
	"fmt"
	"net"
	"os"
	"strings"
	"sync"

	"github.com/sliink/barline/internal/model"
)

const (
	// SessionBus names the per-user message bus
	SessionBus = "session"
	// SystemBus names the system-wide message bus
	SystemBus = "system"

	defaultSystemBusPath = "/var/run/dbus/system_bus_socket"
)

// ConnectionPool lazily establishes the shared bus connections blocks
// request through the command channel. Each bus is dialed at most once;
// every requesting block receives the same handle.
type ConnectionPool struct {
	mutex sync.Mutex
	conns map[string]*model.Connection

	sessionPath string
	systemPath  string
}

// NewConnectionPool creates a pool resolving bus socket paths from the
// environment
func NewConnectionPool() *ConnectionPool {
	systemPath := defaultSystemBusPath
	if addr := os.Getenv("DBUS_SYSTEM_BUS_ADDRESS"); addr != "" {
		if path := socketPath(addr); path != "" {
			systemPath = path
		}
	}
	return &ConnectionPool{
		conns:       make(map[string]*model.Connection),
		sessionPath: socketPath(os.Getenv("DBUS_SESSION_BUS_ADDRESS")),
		systemPath:  systemPath,
	}
}

// Get returns the shared connection for a bus, dialing it on first use
func (p *ConnectionPool) Get(bus string) (*model.Connection, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if conn, ok := p.conns[bus]; ok {
		return conn, nil
	}

	var path string
	switch bus {
	case SessionBus:
		path = p.sessionPath
	case SystemBus:
		path = p.systemPath
	default:
		return nil, fmt.Errorf("unknown bus %q", bus)
	}
	if path == "" {
		return nil, fmt.Errorf("no socket address for %s bus", bus)
	}

	raw, err := net.Dial("unix", path)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s bus: %w", bus, err)
	}

	conn := &model.Connection{Bus: bus, Conn: raw}
	p.conns[bus] = conn
	return conn, nil
}

// Close closes every established connection
func (p *ConnectionPool) Close() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	var firstErr error
	for bus, conn := range p.conns {
		if err := conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.conns, bus)
	}
	return firstErr
}

// socketPath extracts the unix socket path from a bus address of the
// form "unix:path=/run/user/1000/bus"
func socketPath(addr string) string {
	for _, part := range strings.Split(addr, ",") {
		if strings.HasPrefix(part, "unix:path=") {
			return strings.TrimPrefix(part, "unix:path=")
		}
	}
	return ""
}
