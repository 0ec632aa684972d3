package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutate_InvalidatesOnSuccess(t *testing.T) {
	c := New()
	_, err := c.Query(context.Background(), "prompts", Options{StaleTime: time.Hour}, func(context.Context) (any, error) { return "v1", nil })
	require.NoError(t, err)

	err = c.Mutate(context.Background(), "create prompt", func(context.Context) error { return nil }, "prompts")
	require.NoError(t, err)

	assert.True(t, c.Snapshot("prompts").Stale)
	st := c.Mutation("create prompt")
	assert.Equal(t, StatusSuccess, st.Status)
	assert.False(t, st.Pending)
}

func TestMutate_FailureLeavesCacheUntouched(t *testing.T) {
	c := New()
	_, err := c.Query(context.Background(), "prompts", Options{StaleTime: time.Hour}, func(context.Context) (any, error) { return "v1", nil })
	require.NoError(t, err)

	boom := errors.New("boom")
	err = c.Mutate(context.Background(), "delete prompt", func(context.Context) error { return boom }, "prompts")
	require.ErrorIs(t, err, boom)

	assert.False(t, c.Snapshot("prompts").Stale)
	st := c.Mutation("delete prompt")
	assert.Equal(t, StatusError, st.Status)
	assert.ErrorIs(t, st.Err, boom)
}

func TestMutate_TracksPendingState(t *testing.T) {
	c := New()
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- c.Mutate(context.Background(), "send email", func(context.Context) error {
			<-release
			return nil
		})
	}()

	require.Eventually(t, func() bool { return c.Mutation("send email").Pending }, time.Second, time.Millisecond)
	assert.Equal(t, StatusPending, c.Mutation("send email").Status)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, c.Mutation("send email").Pending)
}

func TestMutate_CancelledCallerStillInvalidates(t *testing.T) {
	c := New()
	_, err := c.Query(context.Background(), "mails", Options{StaleTime: time.Hour}, func(context.Context) (any, error) { return "v1", nil })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	errc := make(chan error, 1)
	go func() {
		errc <- c.Mutate(ctx, "send email", func(context.Context) error {
			<-release
			return nil
		}, "mails")
	}()
	require.Eventually(t, func() bool { return c.Mutation("send email").Pending }, time.Second, time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)

	close(release)
	require.Eventually(t, func() bool { return c.Snapshot("mails").Stale }, time.Second, time.Millisecond)
}

func TestSubscribe_NotifiesPrefixAndUnsubscribes(t *testing.T) {
	c := New()
	var (
		mu   sync.Mutex
		seen []string
	)
	unsubscribe := c.Subscribe("job", func(s Snapshot) {
		mu.Lock()
		seen = append(seen, s.Key+"/"+s.Status.String())
		mu.Unlock()
	})

	_, err := c.Query(context.Background(), "job:42", Options{}, func(context.Context) (any, error) { return 1, nil })
	require.NoError(t, err)
	_, err = c.Query(context.Background(), "jobs", Options{}, func(context.Context) (any, error) { return 1, nil })
	require.NoError(t, err)

	unsubscribe()
	_, err = c.Query(context.Background(), "job:7", Options{}, func(context.Context) (any, error) { return 1, nil })
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"job:42/pending", "job:42/success"}, seen)
}
