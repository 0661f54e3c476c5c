package websocket

import (
	"context"
	"runtime/debug"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// HubRef points at the currently active Hub so Supervise can swap in a fresh
// one after a panic without restarting the HTTP server.
type HubRef struct {
	v atomic.Pointer[Hub]
}

func NewHubRef(initial *Hub) *HubRef {
	r := &HubRef{}
	r.v.Store(initial)
	return r
}

func (r *HubRef) Get() (*Hub, bool) {
	h := r.v.Load()
	return h, h != nil
}

func (r *HubRef) Set(h *Hub) {
	r.v.Store(h)
}

// Broadcast sends through whichever hub is current.
func (r *HubRef) Broadcast(room, typ string, payload any) {
	if h, ok := r.Get(); ok {
		h.Broadcast(room, typ, payload)
	}
}

// Supervise runs the current hub, replacing it with a new one if Run panics,
// until ctx is done. The active hub is stopped on return.
func Supervise(ctx context.Context, ref *HubRef, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	stopCurrent := func() {
		if h, ok := ref.Get(); ok {
			h.Stop()
		}
	}
	defer stopCurrent()
	go func() {
		<-ctx.Done()
		stopCurrent()
	}()

	for {
		h, ok := ref.Get()
		if !ok {
			h = NewHub(log)
			ref.Set(h)
		}
		panicked := runHub(h, log)
		if !panicked || ctx.Err() != nil {
			return
		}
		// Run is dead, so its rooms are ours to tear down. Clients see their
		// Send channels close and reconnect to the new hub.
		h.Stop()
		h.closeAll()
		ref.Set(NewHub(log))
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second):
		}
	}
}

func runHub(h *Hub, log *zap.Logger) (panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			log.Error("hub.Run panic", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
		}
	}()
	h.Run()
	return false
}
