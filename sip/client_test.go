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

type fakeClientTransport struct {
	fakeTransport
	connected bool
	sent      [][]byte
}

func (f *fakeClientTransport) Start(ctx context.Context) error {
	if err := f.fakeTransport.Start(ctx); err != nil {
		return err
	}
	f.connected = true
	return nil
}

func (f *fakeClientTransport) Stop() error {
	f.connected = false
	return f.fakeTransport.Stop()
}

func (f *fakeClientTransport) IsConnected() bool {
	return f.connected
}

func (f *fakeClientTransport) Send(payload []byte) error {
	if !f.connected {
		return errors.New("not connected")
	}
	f.sent = append(f.sent, payload)
	return nil
}

var _ transport.ClientTransport = (*fakeClientTransport)(nil)

func TestClientConnectSendDisconnect(t *testing.T) {
	ft := &fakeClientTransport{}
	c := sip.NewClient(ft)

	var mu sync.Mutex
	var received *sipmsg.Message
	c.RegisterHandler(func(_ *transport.Connection, msg *sipmsg.Message) error {
		mu.Lock()
		received = msg
		mu.Unlock()
		return nil
	})

	require.NoError(t, c.Connect(context.Background()))
	assert.True(t, c.IsConnected())

	require.NoError(t, c.Send([]byte("ping")))
	assert.Equal(t, [][]byte{[]byte("ping")}, ft.sent)

	ft.deliver(&sipmsg.Message{Kind: sipmsg.Response, StatusCode: 200})
	mu.Lock()
	assert.NotNil(t, received)
	mu.Unlock()

	require.NoError(t, c.Disconnect())
	assert.False(t, c.IsConnected())
}

func TestClientSendBeforeConnect(t *testing.T) {
	ft := &fakeClientTransport{}
	c := sip.NewClient(ft)
	err := c.Send([]byte("x"))
	assert.Error(t, err)
}
