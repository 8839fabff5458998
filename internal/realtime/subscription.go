package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/fastygo/trackdesk/domain"
)

// Handler receives decoded mention events. It runs on the subscription's goroutine.
type Handler func(ctx context.Context, event domain.MentionEvent)

var ErrAlreadyStarted = errors.New("subscription already started")

// Subscription is a cancellable handle on one recipient's change feed. The
// owner calls Start when its view opens and Stop when it closes.
type Subscription struct {
	broker      Broker
	recipientID string
	handler     Handler
	logger      *zap.Logger

	mu     sync.Mutex
	feed   Feed
	cancel context.CancelFunc
	done   chan struct{}
}

func NewSubscription(broker Broker, recipientID string, handler Handler, logger *zap.Logger) *Subscription {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Subscription{
		broker:      broker,
		recipientID: recipientID,
		handler:     handler,
		logger:      logger.With(zap.String("recipient_id", recipientID)),
	}
}

// Start opens the feed and begins dispatching events until ctx ends or Stop is called.
func (s *Subscription) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return ErrAlreadyStarted
	}

	feed, err := s.broker.Subscribe(ctx, s.recipientID)
	if err != nil {
		return err
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.feed = feed
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.loop(loopCtx, feed, s.done)
	s.logger.Debug("realtime subscription started")
	return nil
}

// Stop closes the feed and waits for the dispatch goroutine. Safe to call repeatedly.
func (s *Subscription) Stop() {
	s.mu.Lock()
	feed, cancel, done := s.feed, s.cancel, s.done
	s.feed, s.cancel = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	if err := feed.Close(); err != nil {
		s.logger.Warn("closing realtime feed failed", zap.Error(err))
	}
	<-done
	s.logger.Debug("realtime subscription stopped")
}

// Done is closed once the dispatch goroutine exits.
func (s *Subscription) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

func (s *Subscription) loop(ctx context.Context, feed Feed, done chan struct{}) {
	defer close(done)
	messages := feed.Messages()
	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-messages:
			if !ok {
				return
			}
			var event domain.MentionEvent
			if err := json.Unmarshal(payload, &event); err != nil {
				s.logger.Warn("dropping malformed realtime event", zap.Error(err))
				continue
			}
			if s.handler != nil {
				s.handler(ctx, event)
			}
		}
	}
}
