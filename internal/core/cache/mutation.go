package cache

import (
	"context"
	"time"
)

type mutation struct {
	status    Status
	err       error
	inflight  int
	updatedAt time.Time
}

// MutationState is the tracked state of a named write operation.
type MutationState struct {
	Name      string
	Status    Status
	Pending   bool
	Err       error
	UpdatedAt time.Time
}

// Mutate runs fn as the named mutation and, once it succeeds, invalidates the
// given key prefixes. fn is never retried. If ctx is done first Mutate returns
// ctx.Err() while fn still runs to completion and its invalidations apply.
func (c *Client) Mutate(ctx context.Context, name string, fn func(ctx context.Context) error, invalidates ...string) error {
	c.mu.Lock()
	m, ok := c.mutations[name]
	if !ok {
		m = &mutation{}
		c.mutations[name] = m
	}
	m.status = StatusPending
	m.inflight++
	c.mu.Unlock()

	done := make(chan error, 1)
	detached := context.WithoutCancel(ctx)
	go func() {
		err := fn(detached)

		c.mu.Lock()
		m.inflight--
		m.updatedAt = c.now()
		m.err = err
		if err != nil {
			m.status = StatusError
		} else {
			m.status = StatusSuccess
		}
		c.mu.Unlock()

		if err == nil && len(invalidates) > 0 {
			c.Invalidate(invalidates...)
		}
		if err != nil {
			c.log.Warn().Err(err).Str("operation", name).Msg("mutation failed")
		}
		done <- err
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// Mutation returns the tracked state of the named mutation.
func (c *Client) Mutation(name string) MutationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.mutations[name]
	if !ok {
		return MutationState{Name: name}
	}
	return MutationState{
		Name:      name,
		Status:    m.status,
		Pending:   m.inflight > 0,
		Err:       m.err,
		UpdatedAt: m.updatedAt,
	}
}
