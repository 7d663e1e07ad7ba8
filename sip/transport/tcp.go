package transport

import (
	"context"
	"net"
	"sync"

	"github.com/rs/zerolog"
	"github.com/telkomkit/smsip/sipmsg"
)

const readChunkSize = 4096

// TCPServerTransport accepts inbound TCP connections and, for each, runs a
// read loop that frames and parses SIP messages from the stream.
type TCPServerTransport struct {
	lifecycle

	Addr           string
	MaxMessageSize int
	Logger         zerolog.Logger

	listener net.Listener
	wg       sync.WaitGroup

	connsMu sync.Mutex
	conns   map[*net.Conn]context.CancelFunc
}

// NewTCPServerTransport creates a TCPServerTransport listening on addr.
func NewTCPServerTransport(addr string, opts ...Option) *TCPServerTransport {
	t := &TCPServerTransport{
		Addr:           addr,
		MaxMessageSize: sipmsg.MaxMessageSize,
		Logger:         zerolog.Nop(),
		conns:          make(map[*net.Conn]context.CancelFunc),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Bind registers the callback invoked for every inbound message.
func (t *TCPServerTransport) Bind(cb Callback) {
	t.bind(cb)
}

// Start binds the listener and begins accepting connections.
func (t *TCPServerTransport) Start(ctx context.Context) error {
	if !t.transition(Starting, Idle) {
		return StateError{"start", t.getState()}
	}
	if t.callback() == nil {
		t.transition(Idle, Starting)
		return ErrNotBound
	}
	ln, err := net.Listen("tcp", t.Addr)
	if err != nil {
		t.transition(Idle, Starting)
		return err
	}
	t.listener = ln
	t.transition(Running, Starting)
	t.wg.Add(1)
	go t.acceptLoop(ctx)
	return nil
}

func (t *TCPServerTransport) acceptLoop(ctx context.Context) {
	defer t.wg.Done()
	for {
		conn, err := t.listener.Accept()
		if err != nil {
			if t.getState() != Running {
				return
			}
			t.Logger.Warn().Err(err).Msg("tcp accept failed")
			return
		}
		connCtx, cancel := context.WithCancel(ctx)
		t.connsMu.Lock()
		t.conns[&conn] = cancel
		t.connsMu.Unlock()
		t.wg.Add(1)
		go t.readLoop(connCtx, conn)
	}
}

func (t *TCPServerTransport) readLoop(ctx context.Context, conn net.Conn) {
	defer t.wg.Done()
	defer conn.Close()
	defer func() {
		t.connsMu.Lock()
		delete(t.conns, &conn)
		t.connsMu.Unlock()
	}()
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()
	defer close(done)

	remote := conn.RemoteAddr().String()
	c := NewConnection(remote, func(b []byte) error {
		_, err := conn.Write(b)
		return err
	})
	var buf []byte
	chunk := make([]byte, readChunkSize)
	for {
		n, err := conn.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			if len(buf) > t.MaxMessageSize {
				t.Logger.Warn().Str("remote", remote).Msg("oversize message buffer, dropping connection")
				return
			}
			for {
				raw, rest, ok := sipmsg.Frame(buf)
				if !ok {
					break
				}
				buf = rest
				msg, perr := sipmsg.Parse(raw)
				if perr != nil {
					t.Logger.Warn().Err(perr).Str("remote", remote).Msg("dropping malformed message")
					continue
				}
				if cb := t.callback(); cb != nil {
					cb(c, msg)
				}
			}
		}
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
			}
			return
		}
	}
}

// Stop cancels every connection's read loop, closes the listener, and
// awaits completion. Stop is idempotent.
func (t *TCPServerTransport) Stop() error {
	if !t.transition(Stopping, Running) {
		return nil
	}
	if t.listener != nil {
		t.listener.Close()
	}
	t.connsMu.Lock()
	for _, cancel := range t.conns {
		cancel()
	}
	t.connsMu.Unlock()
	t.wg.Wait()
	t.transition(Idle, Stopping)
	return nil
}

// TCPClientTransport opens one outbound TCP connection and runs a single
// read loop over it.
type TCPClientTransport struct {
	lifecycle

	Addr           string
	MaxMessageSize int
	Logger         zerolog.Logger

	conn   net.Conn
	cancel context.CancelFunc
	done   chan struct{}

	connMu    sync.RWMutex
	connected bool
}

// NewTCPClientTransport creates a TCPClientTransport that will dial addr.
func NewTCPClientTransport(addr string, opts ...Option) *TCPClientTransport {
	t := &TCPClientTransport{Addr: addr, MaxMessageSize: sipmsg.MaxMessageSize, Logger: zerolog.Nop()}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Bind registers the callback invoked for every inbound message.
func (t *TCPClientTransport) Bind(cb Callback) {
	t.bind(cb)
}

// IsConnected reports whether the client currently owns a live connection.
func (t *TCPClientTransport) IsConnected() bool {
	t.connMu.RLock()
	defer t.connMu.RUnlock()
	return t.connected
}

// Connection returns a handle to the client's single connection, or nil if
// not connected.
func (t *TCPClientTransport) Connection() *Connection {
	if !t.IsConnected() {
		return nil
	}
	conn := t.conn
	return NewConnection(conn.RemoteAddr().String(), func(b []byte) error {
		if !t.IsConnected() {
			return StateError{"send", t.getState()}
		}
		_, err := conn.Write(b)
		return err
	})
}

// Send writes payload to the server. It fails with a StateError if not
// connected.
func (t *TCPClientTransport) Send(payload []byte) error {
	if !t.IsConnected() {
		return StateError{"send", t.getState()}
	}
	_, err := t.conn.Write(payload)
	return err
}

// Start dials the server and starts the read loop.
func (t *TCPClientTransport) Start(ctx context.Context) error {
	if !t.transition(Starting, Idle) {
		return StateError{"start", t.getState()}
	}
	conn, err := net.Dial("tcp", t.Addr)
	if err != nil {
		t.transition(Idle, Starting)
		return err
	}
	t.conn = conn
	connCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.done = make(chan struct{})
	t.connMu.Lock()
	t.connected = true
	t.connMu.Unlock()
	t.transition(Running, Starting)
	go t.readLoop(connCtx)
	return nil
}

func (t *TCPClientTransport) readLoop(ctx context.Context) {
	defer close(t.done)
	remote := t.conn.RemoteAddr().String()
	c := NewConnection(remote, func(b []byte) error {
		_, err := t.conn.Write(b)
		return err
	})
	var buf []byte
	chunk := make([]byte, readChunkSize)
	for {
		n, err := t.conn.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			if len(buf) > t.MaxMessageSize {
				t.Logger.Warn().Str("remote", remote).Msg("oversize message buffer, resetting")
				buf = nil
			} else {
				for {
					raw, rest, ok := sipmsg.Frame(buf)
					if !ok {
						break
					}
					buf = rest
					msg, perr := sipmsg.Parse(raw)
					if perr != nil {
						t.Logger.Warn().Err(perr).Msg("dropping malformed message")
						continue
					}
					if cb := t.callback(); cb != nil {
						cb(c, msg)
					}
				}
			}
		}
		if err != nil {
			select {
			case <-ctx.Done():
				// cancelled: shutdown initiated this close, not a remote event.
			default:
				// remote closed or errored: still a graceful shutdown trigger.
			}
			t.connMu.Lock()
			t.connected = false
			t.connMu.Unlock()
			return
		}
	}
}

// Stop cancels the read loop, awaits its completion, and closes the
// connection. Stop is idempotent.
func (t *TCPClientTransport) Stop() error {
	if !t.transition(Stopping, Running) {
		return nil
	}
	if t.cancel != nil {
		t.cancel()
	}
	if t.conn != nil {
		t.conn.Close()
	}
	if t.done != nil {
		<-t.done
	}
	t.connMu.Lock()
	t.connected = false
	t.connMu.Unlock()
	t.transition(Idle, Stopping)
	return nil
}

// Option configures a transport at construction time.
type Option func(interface{})

// WithLogger injects a zerolog.Logger into a transport that supports it.
func WithLogger(l zerolog.Logger) Option {
	return func(t interface{}) {
		switch t := t.(type) {
		case *TCPServerTransport:
			t.Logger = l
		case *TCPClientTransport:
			t.Logger = l
		case *WebSocketServerTransport:
			t.Logger = l
		case *WebSocketClientTransport:
			t.Logger = l
		}
	}
}

// WithMaxMessageSize overrides the default 65535 byte max stream message
// size.
func WithMaxMessageSize(n int) Option {
	return func(t interface{}) {
		switch t := t.(type) {
		case *TCPServerTransport:
			t.MaxMessageSize = n
		case *TCPClientTransport:
			t.MaxMessageSize = n
		}
	}
}
