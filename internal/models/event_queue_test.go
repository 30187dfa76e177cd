package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventQueueOrdersByTimeThenInsertion(t *testing.T) {
	eq := NewEventQueue()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	eq.Enqueue(base.Add(2*time.Second), EventMessage{Topic: "c"})
	eq.Enqueue(base, EventMessage{Topic: "a"})
	eq.Enqueue(base, EventMessage{Topic: "b"})
	eq.Enqueue(base.Add(time.Second), EventMessage{Topic: "bb"})

	require.Equal(t, 4, eq.Len())
	var got []string
	for !eq.IsEmpty() {
		got = append(got, eq.Dequeue().Topic)
	}
	assert.Equal(t, []string{"a", "b", "bb", "c"}, got)
	assert.Nil(t, eq.Dequeue())
}

func TestEventQueueDequeueBatch(t *testing.T) {
	eq := NewEventQueue()
	now := time.Now()
	for i := 0; i < 5; i++ {
		eq.Enqueue(now.Add(time.Duration(i)), EventMessage{Topic: "t"})
	}

	assert.Len(t, eq.DequeueBatch(3), 3)
	assert.Len(t, eq.DequeueBatch(3), 2)
	assert.Empty(t, eq.DequeueBatch(3))
}
