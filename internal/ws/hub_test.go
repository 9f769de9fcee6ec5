package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-portfolio-api/internal/events"
)

type fakeConn struct {
	mu       sync.Mutex
	messages [][]byte
	failWith error
	closed   bool
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.messages = append(f.messages, data)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) received() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func TestHub_PublishBroadcasts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)

	good := &fakeConn{}
	broken := &fakeConn{failWith: errors.New("gone")}
	hub.register <- good
	hub.register <- broken

	event := events.Event{Type: events.ProductCreated, ProductID: uuid.New(), Name: "Widget"}
	require.NoError(t, hub.Publish(ctx, event))

	require.Eventually(t, func() bool { return good.received() == 1 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, broken.isClosed())

	var decoded events.Event
	good.mu.Lock()
	require.NoError(t, json.Unmarshal(good.messages[0], &decoded))
	good.mu.Unlock()
	assert.Equal(t, event.ProductID, decoded.ProductID)
	assert.Equal(t, events.ProductCreated, decoded.Type)
}

func TestHub_UnregisterAndShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(zerolog.Nop())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	a, b := &fakeConn{}, &fakeConn{}
	hub.register <- a
	hub.register <- b
	hub.unregister <- a

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, a.isClosed())

	cancel()
	<-done
	assert.True(t, b.isClosed())
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_PublishQueueFull(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	event := events.Event{Type: events.ProductLiked}

	for i := 0; i < cap(hub.broadcast); i++ {
		require.NoError(t, hub.Publish(context.Background(), event))
	}
	assert.Error(t, hub.Publish(context.Background(), event))
}

func TestHub_JoinAndLeaveAfterShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(zerolog.Nop())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	live := &fakeConn{}
	require.True(t, hub.join(live))
	cancel()
	<-stopped

	left := make(chan struct{})
	go func() {
		hub.leave(live)
		close(left)
	}()
	select {
	case <-left:
	case <-time.After(time.Second):
		t.Fatal("leave blocked after the hub stopped")
	}

	late := &fakeConn{}
	joined := make(chan bool, 1)
	go func() { joined <- hub.join(late) }()
	select {
	case ok := <-joined:
		assert.False(t, ok)
		assert.True(t, late.isClosed())
	case <-time.After(time.Second):
		t.Fatal("join blocked after the hub stopped")
	}
}
