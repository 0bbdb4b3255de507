package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mithunreddyy/valuva-sub002/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := NewHub()
	go hub.Run(ctx)
	return hub
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.ConnectedClients() == n }, time.Second, 5*time.Millisecond)
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg := <-c.Send:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestHubBroadcastsEventsToEverySession(t *testing.T) {
	hub := startHub(t)
	a1 := NewClient(hub, nil, 1)
	a2 := NewClient(hub, nil, 1)
	b := NewClient(hub, nil, 2)
	hub.Register(a1)
	hub.Register(a2)
	hub.Register(b)
	waitForClients(t, hub, 3)

	require.NoError(t, hub.Publish(context.Background(), events.Event{
		Type:        events.OrderPlaced,
		OrderNumber: "ORD-1",
	}))

	for _, c := range []*Client{a1, a2, b} {
		var got events.Event
		require.NoError(t, json.Unmarshal(receive(t, c), &got))
		assert.Equal(t, events.OrderPlaced, got.Type)
		assert.Equal(t, "ORD-1", got.OrderNumber)
	}
}

func TestHubUnregisterClosesOnlyThatSession(t *testing.T) {
	hub := startHub(t)
	a1 := NewClient(hub, nil, 1)
	a2 := NewClient(hub, nil, 1)
	hub.Register(a1)
	hub.Register(a2)
	waitForClients(t, hub, 2)

	hub.Unregister(a1)
	waitForClients(t, hub, 1)

	_, open := <-a1.Send
	assert.False(t, open)

	require.NoError(t, hub.Publish(context.Background(), events.Event{Type: events.OrderStatusChanged}))
	assert.NotEmpty(t, receive(t, a2))
}

func TestHandleClientMessagePing(t *testing.T) {
	hub := NewHub()
	c := NewClient(hub, nil, 1)

	hub.HandleClientMessage(c, []byte(`{"type":"ping"}`))
	assert.JSONEq(t, `{"type":"pong"}`, string(receive(t, c)))

	hub.HandleClientMessage(c, []byte(`not json`))
	hub.HandleClientMessage(c, []byte(`{"type":"other"}`))
	assert.Len(t, c.Send, 0)
}

func TestHandleClientMessageRateLimit(t *testing.T) {
	hub := NewHub()
	c := NewClient(hub, nil, 1)

	for i := 0; i < maxMessagesPerSecond+5; i++ {
		hub.HandleClientMessage(c, []byte(`{"type":"ping"}`))
	}
	assert.Len(t, c.Send, maxMessagesPerSecond)
}
