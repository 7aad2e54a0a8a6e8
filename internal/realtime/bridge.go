package realtime

import (
	"context"
	"encoding/json"
)

// Change is the push message sent to clients for a committed row change. It
// carries no row data; clients refetch what they display.
type Change struct {
	Type  string     `json:"type"`
	Table string     `json:"table"`
	Kind  ChangeKind `json:"kind"`
	ID    string     `json:"id"`
}

// Forward pushes every feed event to the connected clients of the users it concerns
// until ctx is done.
func Forward(ctx context.Context, feed *Feed, hub *Hub) {
	sub := feed.Subscribe("", nil)
	go func() {
		defer sub.Unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-sub.C:
				if !ok {
					return
				}
				msg, err := json.Marshal(Change{Type: "change", Table: evt.Table, Kind: evt.Kind, ID: evt.ID})
				if err != nil {
					continue
				}
				for _, userID := range evt.UserIDs {
					hub.Broadcast(userID, msg)
				}
			}
		}
	}()
}
