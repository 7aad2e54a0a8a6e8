package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func (c *fakeClient) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

func TestForward_RoutesChangesToConcernedUsers(t *testing.T) {
	feed := NewFeed(8)
	hub := NewHub()
	alice, bob, carol := &fakeClient{}, &fakeClient{}, &fakeClient{}
	hub.Register("alice", alice)
	hub.Register("bob", bob)
	hub.Register("carol", carol)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	Forward(ctx, feed, hub)
	require.Equal(t, 1, feed.Len())

	feed.Publish(ChangeEvent{Table: "tasks", Kind: KindUpdate, ID: "t-1", UserIDs: []string{"alice", "bob"}})

	require.Eventually(t, func() bool { return alice.count() == 1 && bob.count() == 1 }, time.Second, 5*time.Millisecond)
	require.Zero(t, carol.count())

	alice.mu.Lock()
	var msg Change
	require.NoError(t, json.Unmarshal(alice.messages[0], &msg))
	alice.mu.Unlock()
	require.Equal(t, Change{Type: "change", Table: "tasks", Kind: KindUpdate, ID: "t-1"}, msg)

	cancel()
	require.Eventually(t, func() bool { return feed.Len() == 0 }, time.Second, 5*time.Millisecond)
}
