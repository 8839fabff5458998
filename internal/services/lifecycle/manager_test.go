package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownRunsHooksInReverse(t *testing.T) {
	m := New(time.Second, nil)
	var order []string
	for _, name := range []string{"postgres", "redis", "http_server"} {
		name := name
		m.Register(name, func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}
	m.Register("ignored", nil)

	require.NoError(t, m.Shutdown(context.Background()))
	assert.Equal(t, []string{"http_server", "redis", "postgres"}, order)

	require.NoError(t, m.Shutdown(context.Background()))
	assert.Len(t, order, 3, "second shutdown is a no-op")
}

func TestShutdownJoinsErrors(t *testing.T) {
	m := New(time.Second, nil)
	errA := errors.New("a failed")
	ran := false
	m.Register("b", func(context.Context) error { ran = true; return nil })
	m.Register("a", func(context.Context) error { return errA })

	err := m.Shutdown(context.Background())
	assert.ErrorIs(t, err, errA)
	assert.True(t, ran)
}

func TestShutdownSkipsAfterDeadline(t *testing.T) {
	m := New(20*time.Millisecond, nil)
	ran := false
	m.Register("store", func(context.Context) error { ran = true; return nil })
	m.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})

	err := m.Shutdown(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, ran)
}
