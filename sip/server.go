// Package sip provides the dispatcher that sits above the SIP transports:
// Server fans inbound messages from any number of transports out to a
// registered handler list, and Client wraps a single outbound transport.
package sip

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"github.com/telkomkit/smsip/sip/transport"
	"github.com/telkomkit/smsip/sipmsg"
)

// Handler processes one inbound message. A handler that returns an error is
// logged and otherwise ignored - it never stops dispatch to the handlers
// that follow it, nor the server itself.
type Handler func(conn *transport.Connection, msg *sipmsg.Message) error

// ErrNoTransports indicates a Server was started with no transports
// configured.
var ErrNoTransports = errors.New("sip: no transports configured")

// Server fans inbound messages from one or more transports out to a list of
// handlers, invoked serially in registration order.
type Server struct {
	Logger zerolog.Logger

	mu         sync.Mutex
	transports []transport.Transport
	handlers   []Handler
	running    bool
	cancel     context.CancelFunc
}

// NewServer creates a Server over the given transports. At least one
// transport must be supplied before Start.
func NewServer(transports ...transport.Transport) *Server {
	return &Server{transports: transports, Logger: zerolog.Nop()}
}

// AddTransport registers an additional transport. It is only permitted while
// the server is stopped.
func (s *Server) AddTransport(t transport.Transport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return transport.StateError{Op: "add_transport", State: transport.Running}
	}
	s.transports = append(s.transports, t)
	return nil
}

// RegisterHandler appends h to the handler list.
func (s *Server) RegisterHandler(h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, h)
}

// Start binds every transport to the dispatch callback and starts them all.
// If any transport fails to start, the ones already started are stopped
// before the error is returned.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return transport.StateError{Op: "start", State: transport.Running}
	}
	if len(s.transports) == 0 {
		s.mu.Unlock()
		return ErrNoTransports
	}
	transports := append([]transport.Transport(nil), s.transports...)
	s.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	for _, t := range transports {
		t.Bind(s.dispatch)
	}
	started := make([]transport.Transport, 0, len(transports))
	for _, t := range transports {
		if err := t.Start(runCtx); err != nil {
			for _, u := range started {
				u.Stop()
			}
			cancel()
			return err
		}
		started = append(started, t)
	}

	s.mu.Lock()
	s.running = true
	s.cancel = cancel
	s.mu.Unlock()
	return nil
}

// Stop fans out to every transport's Stop in turn, swallowing individual
// transport errors (they are logged instead). Stop is idempotent.
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	transports := append([]transport.Transport(nil), s.transports...)
	cancel := s.cancel
	s.running = false
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	for _, t := range transports {
		if err := t.Stop(); err != nil {
			s.Logger.Warn().Err(err).Msg("transport stop failed")
		}
	}
	return nil
}

// RunForever starts the server and blocks until ctx is cancelled, then stops
// it.
func (s *Server) RunForever(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return s.Stop()
}

// dispatch is bound to every transport as its Callback: it invokes every
// registered handler in order, recovering and logging a panic or error from
// any one of them rather than letting it break the read loop it runs on.
func (s *Server) dispatch(conn *transport.Connection, msg *sipmsg.Message) {
	s.mu.Lock()
	handlers := append([]Handler(nil), s.handlers...)
	s.mu.Unlock()

	for _, h := range handlers {
		s.invoke(h, conn, msg)
	}
}

func (s *Server) invoke(h Handler, conn *transport.Connection, msg *sipmsg.Message) {
	defer func() {
		if r := recover(); r != nil {
			s.Logger.Error().Interface("panic", r).Msg("sip handler panicked")
		}
	}()
	if err := h(conn, msg); err != nil {
		s.Logger.Warn().Err(err).Msg("sip handler returned error")
	}
}
