package sip_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telkomkit/smsip/sip"
	"github.com/telkomkit/smsip/sip/transport"
	"github.com/telkomkit/smsip/sipmsg"
)

// fakeTransport is a minimal transport.Transport for exercising Server
// dispatch logic without opening real sockets.
type fakeTransport struct {
	mu       sync.Mutex
	cb       transport.Callback
	started  bool
	startErr error
}

func (f *fakeTransport) Bind(cb transport.Callback) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cb = cb
}

func (f *fakeTransport) Start(ctx context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.mu.Lock()
	f.started = true
	f.mu.Unlock()
	return nil
}

func (f *fakeTransport) Stop() error {
	f.mu.Lock()
	f.started = false
	f.mu.Unlock()
	return nil
}

func (f *fakeTransport) deliver(msg *sipmsg.Message) {
	f.mu.Lock()
	cb := f.cb
	f.mu.Unlock()
	cb(transport.NewConnection("test", func([]byte) error { return nil }), msg)
}

func TestServerDispatchesToAllHandlersInOrder(t *testing.T) {
	ft := &fakeTransport{}
	srv := sip.NewServer(ft)

	var order []int
	srv.RegisterHandler(func(*transport.Connection, *sipmsg.Message) error {
		order = append(order, 1)
		return nil
	})
	srv.RegisterHandler(func(*transport.Connection, *sipmsg.Message) error {
		order = append(order, 2)
		return errors.New("boom")
	})
	srv.RegisterHandler(func(*transport.Connection, *sipmsg.Message) error {
		order = append(order, 3)
		return nil
	})

	require.NoError(t, srv.Start(context.Background()))
	defer srv.Stop()

	ft.deliver(&sipmsg.Message{Kind: sipmsg.Request, Method: "ACK"})
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestServerStartRequiresTransports(t *testing.T) {
	srv := sip.NewServer()
	err := srv.Start(context.Background())
	assert.ErrorIs(t, err, sip.ErrNoTransports)
}

func TestServerAddTransportRejectedWhileRunning(t *testing.T) {
	ft := &fakeTransport{}
	srv := sip.NewServer(ft)
	require.NoError(t, srv.Start(context.Background()))
	defer srv.Stop()

	err := srv.AddTransport(&fakeTransport{})
	assert.Error(t, err)
}

func TestServerStopIdempotent(t *testing.T) {
	ft := &fakeTransport{}
	srv := sip.NewServer(ft)
	require.NoError(t, srv.Start(context.Background()))
	require.NoError(t, srv.Stop())
	require.NoError(t, srv.Stop())
}
