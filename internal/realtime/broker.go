package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/trackdesk/domain"
)

const mentionChannelPrefix = "mentions:"

// MentionChannel returns the pub/sub channel carrying change events for one recipient.
func MentionChannel(recipientID string) string {
	return mentionChannelPrefix + recipientID
}

// Feed delivers raw event payloads until it is closed.
type Feed interface {
	Messages() <-chan []byte
	Close() error
}

// Broker opens feeds on a recipient's change channel.
type Broker interface {
	Subscribe(ctx context.Context, recipientID string) (Feed, error)
}

// RedisBroker publishes and subscribes to mention change events over Redis pub/sub.
type RedisBroker struct {
	client *redislib.Client
}

func NewRedisBroker(client *redislib.Client) *RedisBroker {
	return &RedisBroker{client: client}
}

// PublishMention announces a change on the recipient's channel.
func (b *RedisBroker) PublishMention(ctx context.Context, event domain.MentionEvent) error {
	if event.RecipientID == "" {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, MentionChannel(event.RecipientID), payload).Err()
}

func (b *RedisBroker) Subscribe(ctx context.Context, recipientID string) (Feed, error) {
	pubsub := b.client.Subscribe(ctx, MentionChannel(recipientID))
	// wait for the subscription confirmation so events published after
	// Subscribe returns are not lost
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", MentionChannel(recipientID), err)
	}
	return newRedisFeed(pubsub), nil
}

type redisFeed struct {
	pubsub    *redislib.PubSub
	out       chan []byte
	closed    chan struct{}
	closeOnce sync.Once
}

func newRedisFeed(pubsub *redislib.PubSub) *redisFeed {
	f := &redisFeed{
		pubsub: pubsub,
		out:    make(chan []byte, 16),
		closed: make(chan struct{}),
	}
	go func() {
		defer close(f.out)
		for msg := range pubsub.Channel() {
			select {
			case f.out <- []byte(msg.Payload):
			case <-f.closed:
				return
			}
		}
	}()
	return f
}

func (f *redisFeed) Messages() <-chan []byte {
	return f.out
}

func (f *redisFeed) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return f.pubsub.Close()
}
