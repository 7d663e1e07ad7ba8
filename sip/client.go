package sip

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/telkomkit/smsip/sip/transport"
	"github.com/telkomkit/smsip/sipmsg"
)

// Client wraps a single client transport: connect/disconnect, send, and a
// handler list invoked serially on every inbound message, mirroring Server.
type Client struct {
	Logger zerolog.Logger

	t transport.ClientTransport

	mu       sync.Mutex
	handlers []Handler
}

// NewClient wraps t.
func NewClient(t transport.ClientTransport) *Client {
	return &Client{t: t, Logger: zerolog.Nop()}
}

// RegisterHandler appends h to the handler list.
func (c *Client) RegisterHandler(h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, h)
}

// Connect binds the dispatch callback and starts the underlying transport.
func (c *Client) Connect(ctx context.Context) error {
	c.t.Bind(c.dispatch)
	return c.t.Start(ctx)
}

// Disconnect stops the underlying transport. Disconnect is idempotent.
func (c *Client) Disconnect() error {
	return c.t.Stop()
}

// IsConnected reports whether the underlying transport has a live
// connection.
func (c *Client) IsConnected() bool {
	return c.t.IsConnected()
}

// Send writes payload over the underlying transport.
func (c *Client) Send(payload []byte) error {
	return c.t.Send(payload)
}

func (c *Client) dispatch(conn *transport.Connection, msg *sipmsg.Message) {
	c.mu.Lock()
	handlers := append([]Handler(nil), c.handlers...)
	c.mu.Unlock()

	for _, h := range handlers {
		c.invoke(h, conn, msg)
	}
}

func (c *Client) invoke(h Handler, conn *transport.Connection, msg *sipmsg.Message) {
	defer func() {
		if r := recover(); r != nil {
			c.Logger.Error().Interface("panic", r).Msg("sip handler panicked")
		}
	}()
	if err := h(conn, msg); err != nil {
		c.Logger.Warn().Err(err).Msg("sip handler returned error")
	}
}
