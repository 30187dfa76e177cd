package output

import (
	"context"
	"time"

	"github.com/chrisdamba/foodcloud/internal/models"
	"github.com/rs/zerolog/log"
)

// OrderSource is anything that publishes order events, normally the
// Order Store.
type OrderSource interface {
	Subscribe(fn func(models.OrderEvent)) (cancel func())
}

// Feed buffers order events in time order and writes them to a
// Destination in batches.
type Feed struct {
	dest          Destination
	queue         *models.EventQueue
	flushInterval time.Duration
	batchSize     int
}

func NewFeed(dest Destination, cfg models.OutputConfig) *Feed {
	f := &Feed{
		dest:          dest,
		queue:         models.NewEventQueue(),
		flushInterval: cfg.FlushInterval,
		batchSize:     cfg.BatchSize,
	}
	if f.flushInterval <= 0 {
		f.flushInterval = time.Second
	}
	if f.batchSize <= 0 {
		f.batchSize = 100
	}
	return f
}

// Attach subscribes the feed to src. The returned func detaches it.
func (f *Feed) Attach(src OrderSource) func() {
	return src.Subscribe(f.Handle)
}

// Handle encodes ev and queues it for the next flush.
func (f *Feed) Handle(ev models.OrderEvent) {
	msg, err := Encode(ev)
	if err != nil {
		log.Error().Err(err).Str("order_id", ev.Order.ID).Msg("failed to encode order event")
		return
	}
	f.queue.Enqueue(ev.At, msg)
}

func (f *Feed) Pending() int { return f.queue.Len() }

// Flush writes everything queued so far. A failed write is logged and the
// message dropped so one bad sink call does not stall the feed.
func (f *Feed) Flush() int {
	written := 0
	for !f.queue.IsEmpty() {
		for _, qm := range f.queue.DequeueBatch(f.batchSize) {
			if err := f.dest.WriteMessage(qm.Topic, qm.Message); err != nil {
				log.Error().Err(err).Str("topic", qm.Topic).Msg("failed to write event")
				continue
			}
			written++
		}
	}
	return written
}

// Run flushes on every interval until ctx is done, then flushes what is
// left and closes the destination.
func (f *Feed) Run(ctx context.Context) error {
	ticker := time.NewTicker(f.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if n := f.Flush(); n > 0 {
				log.Debug().Int("events", n).Msg("final event flush")
			}
			return f.dest.Close()
		case <-ticker.C:
			if n := f.Flush(); n > 0 {
				log.Debug().Int("events", n).Msg("events flushed")
			}
		}
	}
}
