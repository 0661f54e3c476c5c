package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func recv(t *testing.T, c *Client) Envelope {
	t.Helper()
	select {
	case b, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		var env Envelope
		require.NoError(t, json.Unmarshal(b, &env))
		return env
	case <-time.After(2 * time.Second):
		t.Fatal("no message")
	}
	return Envelope{}
}

func TestHub_BroadcastToRoomOnly(t *testing.T) {
	h := NewHub(nil)
	go h.Run()
	defer h.Stop()

	a := NewClient(nil, h, "viewer:a", "a")
	b := NewClient(nil, h, "viewer:b", "b")
	h.Register(a)
	h.Register(b)

	h.Broadcast("viewer:a", "viewer_update", map[string]int{"index": 1})

	env := recv(t, a)
	assert.Equal(t, "viewer_update", env.Type)
	assert.Equal(t, map[string]any{"index": float64(1)}, env.Payload)
	assert.NotEmpty(t, env.Timestamp)

	select {
	case <-b.Send:
		t.Fatal("client in another room received the update")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestHub_StopClosesClients(t *testing.T) {
	h := NewHub(nil)
	done := make(chan struct{})
	go func() {
		h.Run()
		close(done)
	}()

	c := NewClient(nil, h, "viewer:a", "a")
	h.Register(c)
	h.Stop()
	<-done

	_, ok := <-c.Send
	assert.False(t, ok)

	// No-ops once stopped.
	h.Broadcast("viewer:a", "viewer_update", nil)
	h.Unregister(c)
	late := NewClient(nil, h, "viewer:a", "late")
	h.Register(late)
	_, ok = <-late.Send
	assert.False(t, ok)
}

func TestSupervise_StopsWithContext(t *testing.T) {
	ref := NewHubRef(NewHub(nil))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Supervise(ctx, ref, nil)
		close(done)
	}()

	c := NewClient(nil, nil, "viewer:a", "a")
	h, ok := ref.Get()
	require.True(t, ok)
	h.Register(c)
	ref.Broadcast("viewer:a", "viewer_update", "hello")
	assert.Equal(t, "hello", recv(t, c).Payload)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Supervise did not return")
	}
}
