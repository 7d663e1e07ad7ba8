package transport

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/telkomkit/smsip/sipmsg"
)

// WebSocketServerTransport accepts inbound WebSocket connections on an
// http.Server and delivers one SIP message per WebSocket text message: no
// stream framer is needed, since the WebSocket protocol itself preserves
// message boundaries.
type WebSocketServerTransport struct {
	lifecycle

	Addr           string
	Path           string
	MaxMessageSize int64
	Logger         zerolog.Logger
	Upgrader       websocket.Upgrader

	server *http.Server
	wg     sync.WaitGroup

	connsMu sync.Mutex
	conns   map[*websocket.Conn]context.CancelFunc
}

// NewWebSocketServerTransport creates a WebSocketServerTransport serving
// addr on path (default "/").
func NewWebSocketServerTransport(addr, path string, opts ...Option) *WebSocketServerTransport {
	if path == "" {
		path = "/"
	}
	t := &WebSocketServerTransport{
		Addr:           addr,
		Path:           path,
		MaxMessageSize: int64(sipmsg.MaxMessageSize),
		Logger:         zerolog.Nop(),
		conns:          make(map[*websocket.Conn]context.CancelFunc),
	}
	t.Upgrader.Subprotocols = []string{"sip"}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Bind registers the callback invoked for every inbound message.
func (t *WebSocketServerTransport) Bind(cb Callback) {
	t.bind(cb)
}

// Start begins serving HTTP and upgrading connections on Path.
func (t *WebSocketServerTransport) Start(ctx context.Context) error {
	if !t.transition(Starting, Idle) {
		return StateError{"start", t.getState()}
	}
	if t.callback() == nil {
		t.transition(Idle, Starting)
		return ErrNotBound
	}
	mux := http.NewServeMux()
	mux.HandleFunc(t.Path, func(w http.ResponseWriter, r *http.Request) {
		t.handleUpgrade(ctx, w, r)
	})
	t.server = &http.Server{Addr: t.Addr, Handler: mux}
	ln, err := net.Listen("tcp", t.Addr)
	if err != nil {
		t.transition(Idle, Starting)
		return err
	}
	t.transition(Running, Starting)
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		if err := t.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			t.Logger.Warn().Err(err).Msg("websocket server stopped")
		}
	}()
	return nil
}

func (t *WebSocketServerTransport) handleUpgrade(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, err := t.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		t.Logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	conn.SetReadLimit(t.MaxMessageSize)
	connCtx, cancel := context.WithCancel(ctx)
	t.connsMu.Lock()
	t.conns[conn] = cancel
	t.connsMu.Unlock()
	t.wg.Add(1)
	go t.readLoop(connCtx, conn)
}

func (t *WebSocketServerTransport) readLoop(ctx context.Context, conn *websocket.Conn) {
	defer t.wg.Done()
	defer conn.Close()
	defer func() {
		t.connsMu.Lock()
		delete(t.conns, conn)
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
		return conn.WriteMessage(websocket.TextMessage, b)
	})
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
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

// Stop cancels every connection, shuts down the HTTP server, and awaits
// completion. Stop is idempotent.
func (t *WebSocketServerTransport) Stop() error {
	if !t.transition(Stopping, Running) {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if t.server != nil {
		t.server.Shutdown(ctx)
	}
	t.connsMu.Lock()
	for _, c := range t.conns {
		c()
	}
	t.connsMu.Unlock()
	t.wg.Wait()
	t.transition(Idle, Stopping)
	return nil
}

// WebSocketClientTransport dials a single outbound WebSocket connection.
type WebSocketClientTransport struct {
	lifecycle

	URL            string
	MaxMessageSize int64
	Logger         zerolog.Logger
	Dialer         websocket.Dialer

	conn   *websocket.Conn
	cancel context.CancelFunc
	done   chan struct{}

	connMu    sync.RWMutex
	connected bool
}

// NewWebSocketClientTransport creates a WebSocketClientTransport that will
// dial url (a ws:// or wss:// URL).
func NewWebSocketClientTransport(url string, opts ...Option) *WebSocketClientTransport {
	t := &WebSocketClientTransport{
		URL:            url,
		MaxMessageSize: int64(sipmsg.MaxMessageSize),
		Logger:         zerolog.Nop(),
		Dialer:         websocket.Dialer{Subprotocols: []string{"sip"}},
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Bind registers the callback invoked for every inbound message.
func (t *WebSocketClientTransport) Bind(cb Callback) {
	t.bind(cb)
}

// IsConnected reports whether the client currently owns a live connection.
func (t *WebSocketClientTransport) IsConnected() bool {
	t.connMu.RLock()
	defer t.connMu.RUnlock()
	return t.connected
}

// Send writes payload as a single WebSocket text message.
func (t *WebSocketClientTransport) Send(payload []byte) error {
	if !t.IsConnected() {
		return StateError{"send", t.getState()}
	}
	return t.conn.WriteMessage(websocket.TextMessage, payload)
}

// Start dials URL and starts the read loop.
func (t *WebSocketClientTransport) Start(ctx context.Context) error {
	if !t.transition(Starting, Idle) {
		return StateError{"start", t.getState()}
	}
	conn, _, err := t.Dialer.Dial(t.URL, nil)
	if err != nil {
		t.transition(Idle, Starting)
		return err
	}
	conn.SetReadLimit(t.MaxMessageSize)
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

func (t *WebSocketClientTransport) readLoop(ctx context.Context) {
	defer close(t.done)
	remote := t.conn.RemoteAddr().String()
	c := NewConnection(remote, func(b []byte) error {
		return t.conn.WriteMessage(websocket.TextMessage, b)
	})
	go func() {
		<-ctx.Done()
		t.conn.Close()
	}()
	for {
		_, raw, err := t.conn.ReadMessage()
		if err != nil {
			t.connMu.Lock()
			t.connected = false
			t.connMu.Unlock()
			return
		}
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

// Stop cancels the read loop, awaits its completion, and closes the
// connection. Stop is idempotent.
func (t *WebSocketClientTransport) Stop() error {
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
