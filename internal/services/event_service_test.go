package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventService_RecordAndRecent(t *testing.T) {
	t.Parallel()

	svc := NewEventService(nil, 10)
	svc.Record("user.register", "info", "New user registered: alice")
	svc.Record("user.login", "info", "User logged in: alice")

	events := svc.Recent(20)
	require.Len(t, events, 2)
	assert.Equal(t, "user.login", events[0].Type, "newest first")
	assert.Equal(t, "user.register", events[1].Type)
	assert.NotEmpty(t, events[0].ID)
	assert.False(t, events[0].CreatedAt.IsZero())
}

func TestEventService_RingIsBounded(t *testing.T) {
	t.Parallel()

	svc := NewEventService(nil, 5)
	for i := 0; i < 12; i++ {
		svc.Record("analysis.complete", "info", fmt.Sprintf("event %d", i))
	}

	events := svc.Recent(100)
	require.Len(t, events, 5)
	assert.Equal(t, "event 11", events[0].Message)
	assert.Equal(t, "event 7", events[4].Message)
}

func TestEventService_RecentLimit(t *testing.T) {
	t.Parallel()

	svc := NewEventService(nil, 10)
	for i := 0; i < 4; i++ {
		svc.Record("user.login", "info", fmt.Sprintf("event %d", i))
	}

	events := svc.Recent(2)
	require.Len(t, events, 2)
	assert.Equal(t, "event 3", events[0].Message)
	assert.Equal(t, "event 2", events[1].Message)
}
