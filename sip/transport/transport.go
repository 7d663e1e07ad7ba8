// Package transport provides the SIP message transports: framed TCP and
// per-message WebSocket, each in a server (accepting role) and a client
// (connecting role) variant.
package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/telkomkit/smsip/sipmsg"
)

// Callback is invoked once per inbound message, with the Connection it
// arrived on.
type Callback func(conn *Connection, msg *sipmsg.Message)

// Connection is a handle bound to one live peer: a unique ID, the peer's
// address, and a send function. Connections are owned by their transport
// and weakly referenced by callbacks.
type Connection struct {
	ID         uuid.UUID
	RemoteAddr string

	sendFunc func([]byte) error
}

// NewConnection creates a Connection bound to send.
func NewConnection(remoteAddr string, send func([]byte) error) *Connection {
	return &Connection{ID: uuid.New(), RemoteAddr: remoteAddr, sendFunc: send}
}

// Send writes payload to the peer.
func (c *Connection) Send(payload []byte) error {
	return c.sendFunc(payload)
}

// State is a transport's lifecycle state.
type State int

const (
	// Idle is a transport that has never been started, or has fully stopped.
	Idle State = iota
	// Starting is a transport in the process of binding its listener or
	// connection.
	Starting
	// Running is a transport accepting connections or reading a connection.
	Running
	// Stopping is a transport in the process of shutting down.
	Stopping
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// StateError indicates an operation was attempted while the transport (or
// client) was in a state that does not permit it: sending before connect,
// starting twice, adding a transport to a running server. An unbound
// callback is reported as ErrNotBound instead.
type StateError struct {
	Op    string
	State State
}

func (e StateError) Error() string {
	return fmt.Sprintf("sip/transport: %s: invalid in state %s", e.Op, e.State)
}

// DependencyError indicates an optional collaborator required by start is
// unavailable. None of the transports in this package return it; the type
// is general so other transports can reuse it.
type DependencyError struct {
	Dependency string
}

func (e DependencyError) Error() string {
	return fmt.Sprintf("sip/transport: missing dependency: %s", e.Dependency)
}

// ErrNotBound indicates Start was called before Bind registered a callback.
var ErrNotBound = errors.New("sip/transport: callback not bound")

// Transport is the interface the dispatcher drives: bind a callback once,
// then start/stop it any number of times. Satisfied by TCPServerTransport
// and WebSocketServerTransport.
type Transport interface {
	Bind(Callback)
	Start(ctx context.Context) error
	Stop() error
}

// ClientTransport is Transport plus the single outbound Send a client
// dispatcher drives. Satisfied by TCPClientTransport and
// WebSocketClientTransport.
type ClientTransport interface {
	Transport
	Send(payload []byte) error
	IsConnected() bool
}

// lifecycle is embedded by every transport to provide the common
// Idle/Starting/Running/Stopping state machine, guarded by a mutex since
// Start/Stop/Bind may be called from different goroutines than the read
// loops they spawn.
type lifecycle struct {
	mu    sync.Mutex
	state State
	cb    Callback
}

func (l *lifecycle) bind(cb Callback) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cb = cb
}

func (l *lifecycle) callback() Callback {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cb
}

// transition moves the lifecycle from one of from to to, returning false if
// the current state isn't any of from (a no-op for the caller, not an
// error: Stop is idempotent).
func (l *lifecycle) transition(to State, from ...State) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, f := range from {
		if l.state == f {
			l.state = to
			return true
		}
	}
	return false
}

func (l *lifecycle) getState() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}
