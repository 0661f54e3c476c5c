package handlers

import (
	"github.com/griesmnr/flash-cards/internal/viewer"
)

// MessageViewerUpdate carries a viewer.View to every socket of a session.
const MessageViewerUpdate = "viewer_update"

func sessionRoom(sessionID string) string {
	return "viewer:" + sessionID
}

// Broadcaster is the part of the websocket hub the viewer needs.
type Broadcaster interface {
	Broadcast(room, typ string, payload any)
}

// BroadcastViewerUpdates returns a Sessions OnChange callback publishing each
// new state to the session's websocket room.
func BroadcastViewerUpdates(b Broadcaster) func(sessionID string, st viewer.State) {
	return func(sessionID string, st viewer.State) {
		b.Broadcast(sessionRoom(sessionID), MessageViewerUpdate, viewer.NewView(st))
	}
}
