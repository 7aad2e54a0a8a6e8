package realtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFeed_SubscribeFiltersByTableKindAndUser(t *testing.T) {
	f := NewFeed(8)
	apps := f.Subscribe("task_applications", nil, KindInsert)
	mine := f.Subscribe("", ForUser("u-1"))
	defer apps.Unsubscribe()
	defer mine.Unsubscribe()

	f.Publish(ChangeEvent{Table: "task_applications", Kind: KindInsert, ID: "a-1", UserIDs: []string{"u-1", "u-2"}})
	f.Publish(ChangeEvent{Table: "task_applications", Kind: KindUpdate, ID: "a-1", UserIDs: []string{"u-2"}})
	f.Publish(ChangeEvent{Table: "tasks", Kind: KindUpdate, ID: "t-1", UserIDs: []string{"u-1"}})

	require.Len(t, apps.C, 1)
	got := <-apps.C
	require.Equal(t, "a-1", got.ID)

	require.Len(t, mine.C, 2)
	require.Equal(t, "task_applications", (<-mine.C).Table)
	require.Equal(t, "tasks", (<-mine.C).Table)
}

func TestFeed_PublishDoesNotBlockSlowSubscriber(t *testing.T) {
	f := NewFeed(1)
	s := f.Subscribe("tasks", nil)
	defer s.Unsubscribe()

	for i := 0; i < 5; i++ {
		f.Publish(ChangeEvent{Table: "tasks", Kind: KindUpdate})
	}
	require.Len(t, s.C, 1)
}

func TestFeed_UnsubscribeClosesStream(t *testing.T) {
	f := NewFeed(4)
	s := f.Subscribe("", nil)
	require.Equal(t, 1, f.Len())

	s.Unsubscribe()
	s.Unsubscribe()
	require.Equal(t, 0, f.Len())

	_, open := <-s.C
	require.False(t, open)

	// publishing after unsubscribe must not panic on the closed channel
	f.Publish(ChangeEvent{Table: "tasks"})
}
