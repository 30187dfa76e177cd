package models

import (
	"container/heap"
	"sync"
	"time"
)

// QueuedMessage is an EventMessage waiting to be flushed to an output.
type QueuedMessage struct {
	Time time.Time
	seq  uint64
	EventMessage
}

// EventQueue orders pending messages by event time. Messages with the same
// time keep their enqueue order.
type EventQueue struct {
	items   messageHeap
	nextSeq uint64
	mutex   sync.Mutex
}

type messageHeap []*QueuedMessage

func (h messageHeap) Len() int { return len(h) }
func (h messageHeap) Less(i, j int) bool {
	if h[i].Time.Equal(h[j].Time) {
		return h[i].seq < h[j].seq
	}
	return h[i].Time.Before(h[j].Time)
}
func (h messageHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *messageHeap) Push(x interface{}) {
	*h = append(*h, x.(*QueuedMessage))
}

func (h *messageHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

func NewEventQueue() *EventQueue {
	return &EventQueue{items: make(messageHeap, 0)}
}

func (eq *EventQueue) Enqueue(at time.Time, msg EventMessage) {
	eq.mutex.Lock()
	defer eq.mutex.Unlock()
	heap.Push(&eq.items, &QueuedMessage{Time: at, seq: eq.nextSeq, EventMessage: msg})
	eq.nextSeq++
}

// Dequeue removes and returns the earliest message, or nil.
func (eq *EventQueue) Dequeue() *QueuedMessage {
	eq.mutex.Lock()
	defer eq.mutex.Unlock()
	if len(eq.items) == 0 {
		return nil
	}
	return heap.Pop(&eq.items).(*QueuedMessage)
}

func (eq *EventQueue) IsEmpty() bool {
	eq.mutex.Lock()
	defer eq.mutex.Unlock()
	return len(eq.items) == 0
}

func (eq *EventQueue) Len() int {
	eq.mutex.Lock()
	defer eq.mutex.Unlock()
	return len(eq.items)
}

func (eq *EventQueue) DequeueBatch(maxBatchSize int) []*QueuedMessage {
	eq.mutex.Lock()
	defer eq.mutex.Unlock()

	batchSize := min(maxBatchSize, len(eq.items))
	batch := make([]*QueuedMessage, 0, batchSize)
	for i := 0; i < batchSize; i++ {
		batch = append(batch, heap.Pop(&eq.items).(*QueuedMessage))
	}
	return batch
}
