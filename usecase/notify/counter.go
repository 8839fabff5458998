// Package notify keeps a live unread-mention count for one operator.
package notify

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/fastygo/trackdesk/domain"
	"github.com/fastygo/trackdesk/internal/realtime"
)

// CountSource returns the authoritative unread count.
type CountSource interface {
	UnreadCount(ctx context.Context, recipientID string) (int, error)
}

// ErrCounterStopped is returned by Start once the counter has been stopped.
var ErrCounterStopped = errors.New("counter stopped")

// Counter re-fetches the unread count whenever the recipient's change feed
// fires and hands the newest value to its watcher. Values that the watcher
// has not consumed yet are replaced, so a slow reader only ever sees the
// latest count. A Counter is single use: it cannot be restarted after Stop.
type Counter struct {
	source      CountSource
	recipientID string
	sub         *realtime.Subscription
	logger      *zap.Logger

	mu        sync.Mutex
	count     int
	updates   chan int
	stopped   bool
	closeOnce sync.Once
}

func NewCounter(source CountSource, broker realtime.Broker, recipientID string, logger *zap.Logger) *Counter {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Counter{
		source:      source,
		recipientID: recipientID,
		logger:      logger.With(zap.String("recipient_id", recipientID)),
		updates:     make(chan int, 1),
	}
	c.sub = realtime.NewSubscription(broker, recipientID, c.onEvent, logger)
	return c
}

// Start loads the current count and subscribes to changes. The initial
// value is available on Updates before Start returns.
func (c *Counter) Start(ctx context.Context) error {
	if c.isStopped() {
		return ErrCounterStopped
	}
	n, err := c.source.UnreadCount(ctx, c.recipientID)
	if err != nil {
		return err
	}
	if !c.publish(n) {
		return ErrCounterStopped
	}
	return c.sub.Start(ctx)
}

// Stop ends the subscription and closes Updates.
func (c *Counter) Stop() {
	c.sub.Stop()
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.stopped = true
		close(c.updates)
		c.mu.Unlock()
	})
}

// Count returns the last fetched value.
func (c *Counter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

func (c *Counter) Updates() <-chan int {
	return c.updates
}

func (c *Counter) onEvent(ctx context.Context, event domain.MentionEvent) {
	n, err := c.source.UnreadCount(ctx, c.recipientID)
	if err != nil {
		if ctx.Err() == nil {
			c.logger.Warn("refreshing unread count failed", zap.String("event", event.Type), zap.Error(err))
		}
		return
	}
	c.publish(n)
}

func (c *Counter) isStopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}

// publish reports false when Updates is already closed.
func (c *Counter) publish(n int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return false
	}
	c.count = n
	select {
	case <-c.updates:
	default:
	}
	c.updates <- n
	return true
}
