package natsbus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/signalctl/testutil"
)

func TestNewDefaults(t *testing.T) {
	b := New("nats://127.0.0.1:4222", WithLogger(testutil.Logger()))

	assert.Equal(t, "nats://127.0.0.1:4222", b.URL())
	assert.Equal(t, StatusDisconnected, b.Status())
	assert.False(t, b.IsHealthy())
	assert.Equal(t, int32(0), b.Reconnects())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "disconnected", StatusDisconnected.String())
	assert.Equal(t, "connecting", StatusConnecting.String())
	assert.Equal(t, "connected", StatusConnected.String())
	assert.Equal(t, "reconnecting", StatusReconnecting.String())
}

func TestOperationsBeforeConnect(t *testing.T) {
	b := New("nats://127.0.0.1:4222", WithLogger(testutil.Logger()))
	ctx := context.Background()

	err := b.Publish(ctx, "tsc.push", []byte("x"))
	assert.ErrorIs(t, err, ErrNotConnected)

	err = b.SubscribeRequest(ctx, "tsc.request", func(context.Context, []byte) []byte { return nil })
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestWaitForConnectionTimeout(t *testing.T) {
	b := New("nats://127.0.0.1:4222", WithLogger(testutil.Logger()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := b.WaitForConnection(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCloseIdempotent(t *testing.T) {
	b := New("nats://127.0.0.1:4222", WithLogger(testutil.Logger()))
	ctx := context.Background()

	require.NoError(t, b.Close(ctx))
	require.NoError(t, b.Close(ctx))

	// A closed bus refuses to connect.
	assert.ErrorIs(t, b.Connect(ctx), ErrClosed)
}
