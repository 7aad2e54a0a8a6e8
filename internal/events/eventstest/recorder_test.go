package eventstest

import (
	"context"
	"testing"

	"task-marketplace-api/internal/events"

	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	require.NoError(t, r.Publish(context.Background(), events.Event{Type: events.TaskCreated}))
	require.NoError(t, r.Publish(context.Background(), events.Event{Type: events.TaskCompleted}))
	require.Equal(t, []events.Type{events.TaskCreated, events.TaskCompleted}, r.Types())
}
