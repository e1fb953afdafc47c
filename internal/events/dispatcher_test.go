package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestPublishRunsAllHandlersDespiteFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d := NewInMemoryDispatcher(zap.New(core))

	var seen []string
	d.Subscribe(EventTaskAssigned, func(_ context.Context, e Event) error {
		seen = append(seen, "first")
		return errors.New("smtp down")
	})
	d.Subscribe(EventTaskAssigned, func(_ context.Context, e Event) error {
		seen = append(seen, "second")
		assert.NotEmpty(t, e.ID)
		assert.False(t, e.Timestamp.IsZero())
		return nil
	})
	d.Subscribe(EventDocumentReviewed, func(context.Context, Event) error {
		seen = append(seen, "other")
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTaskAssigned, AccountID: "W1"}))
	assert.Equal(t, []string{"first", "second"}, seen)
	assert.Equal(t, 1, logs.FilterMessage("event handler failed").Len())
}
