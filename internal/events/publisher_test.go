package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	require.NoError(t, p.Publish(context.Background(), Event{Type: TaskCreated}))
	require.NoError(t, p.Close())
}
