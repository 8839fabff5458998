package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/trackdesk/domain"
	"github.com/fastygo/trackdesk/internal/realtime"
)

type feed struct {
	ch   chan []byte
	once sync.Once
}

func (f *feed) Messages() <-chan []byte { return f.ch }

func (f *feed) Close() error {
	f.once.Do(func() { close(f.ch) })
	return nil
}

type broker struct {
	feed *feed
	err  error
}

func (b *broker) Subscribe(context.Context, string) (realtime.Feed, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.feed, nil
}

type source struct {
	mu    sync.Mutex
	count int
	err   error
	calls int
}

func (s *source) set(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count, s.err = n, err
}

func (s *source) UnreadCount(context.Context, string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.count, s.err
}

func emit(t *testing.T, f *feed, kind string) {
	t.Helper()
	payload, err := json.Marshal(domain.MentionEvent{Type: kind, RecipientID: "alice"})
	require.NoError(t, err)
	f.ch <- payload
}

func next(t *testing.T, c *Counter) int {
	t.Helper()
	select {
	case n := <-c.Updates():
		return n
	case <-time.After(time.Second):
		t.Fatal("no update")
		return 0
	}
}

func TestCounterFollowsEvents(t *testing.T) {
	f := &feed{ch: make(chan []byte)}
	src := &source{count: 2}
	c := NewCounter(src, &broker{feed: f}, "alice", nil)

	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, 2, next(t, c))

	src.set(3, nil)
	emit(t, f, domain.MentionEventInsert)
	assert.Equal(t, 3, next(t, c))

	src.set(0, nil)
	emit(t, f, domain.MentionEventUpdate)
	assert.Equal(t, 0, next(t, c))
	assert.Equal(t, 0, c.Count())

	c.Stop()
	_, open := <-c.Updates()
	assert.False(t, open)
	c.Stop()
}

func TestCounterKeepsLatestValue(t *testing.T) {
	f := &feed{ch: make(chan []byte)}
	src := &source{count: 1}
	c := NewCounter(src, &broker{feed: f}, "alice", nil)
	require.NoError(t, c.Start(context.Background()))

	for i := 2; i <= 4; i++ {
		src.set(i, nil)
		emit(t, f, domain.MentionEventInsert)
	}
	// the feed is unbuffered, so once Stop returns every event has been handled
	c.Stop()

	values := []int{}
	for n := range c.Updates() {
		values = append(values, n)
	}
	assert.Equal(t, []int{4}, values)
}

func TestCounterRefreshFailureKeepsCount(t *testing.T) {
	f := &feed{ch: make(chan []byte)}
	src := &source{count: 5}
	c := NewCounter(src, &broker{feed: f}, "alice", nil)
	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, 5, next(t, c))

	src.set(0, errors.New("db down"))
	emit(t, f, domain.MentionEventInsert)
	src.set(6, nil)
	emit(t, f, domain.MentionEventInsert)

	assert.Equal(t, 6, next(t, c))
	c.Stop()
}

func TestCounterStartErrors(t *testing.T) {
	src := &source{err: errors.New("db down")}
	c := NewCounter(src, &broker{feed: &feed{ch: make(chan []byte)}}, "alice", nil)
	assert.Error(t, c.Start(context.Background()))

	src.set(1, nil)
	c = NewCounter(src, &broker{err: errors.New("redis down")}, "alice", nil)
	assert.Error(t, c.Start(context.Background()))
	c.Stop()
}

func TestCounterSingleUse(t *testing.T) {
	f := &feed{ch: make(chan []byte)}
	src := &source{count: 2}
	c := NewCounter(src, &broker{feed: f}, "alice", nil)
	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, 2, next(t, c))
	c.Stop()

	assert.NotPanics(t, func() {
		assert.ErrorIs(t, c.Start(context.Background()), ErrCounterStopped)
	})
	assert.NotPanics(t, func() {
		c.onEvent(context.Background(), domain.MentionEvent{Type: domain.MentionEventInsert})
	})
	_, open := <-c.Updates()
	assert.False(t, open)

	idle := NewCounter(src, &broker{feed: &feed{ch: make(chan []byte)}}, "alice", nil)
	idle.Stop()
	assert.NotPanics(t, func() {
		assert.ErrorIs(t, idle.Start(context.Background()), ErrCounterStopped)
	})
}
