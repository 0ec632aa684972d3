// Package cache holds server state fetched by queries. Results are kept per
// key until a mutation invalidates them; concurrent reads of a key share one
// fetch and every fetch is fenced by a per-key token so an older response can
// never replace a newer one.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/emailportal/portal-client/internal/core/domain"
)

// Fetcher loads the value of one key from the backend.
type Fetcher func(ctx context.Context) (any, error)

// Options tune a single query.
type Options struct {
	// StaleTime is how long a stored value is served without revalidation.
	// Zero refetches on every read.
	StaleTime time.Duration
	// Retry is the number of extra attempts after a retryable failure.
	Retry      int
	RetryDelay time.Duration
}

// Scheduler runs background work. Tasks for the same key run in order.
// Schedule reports whether task was accepted; a rejected task never runs.
type Scheduler interface {
	Schedule(key string, task func(ctx context.Context)) bool
}

// Observer receives cache events, keyed by key family.
type Observer interface {
	QueryServed(family, outcome string)
	KeyInvalidated(family string)
}

// Query outcomes reported to the Observer.
const (
	OutcomeHit   = "hit"
	OutcomeMiss  = "miss"
	OutcomeStale = "stale"
)

// Client is the query cache. The zero value is not usable; call New.
type Client struct {
	mu        sync.Mutex
	entries   map[string]*entry
	mutations map[string]*mutation
	subs      map[int]subscription
	nextSub   int

	group    singleflight.Group
	sched    Scheduler
	observer Observer
	now      func() time.Time
	log      zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithScheduler routes background revalidation through s.
func WithScheduler(s Scheduler) Option { return func(c *Client) { c.sched = s } }

// WithObserver reports hits, misses and invalidations to o.
func WithObserver(o Observer) Option { return func(c *Client) { c.observer = o } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(c *Client) { c.now = now } }

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option { return func(c *Client) { c.log = log } }

// New creates an empty cache.
func New(opts ...Option) *Client {
	c := &Client{
		entries:   make(map[string]*entry),
		mutations: make(map[string]*mutation),
		subs:      make(map[int]subscription),
		now:       time.Now,
		log:       zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Query returns the value of key. A fresh value is returned directly. A value
// whose stale time elapsed is returned directly and revalidated in the
// background. A missing or invalidated value blocks on a fetch.
//
// When ctx is done before the fetch completes Query returns ctx.Err(); the
// fetch itself keeps running and still populates the cache.
func (c *Client) Query(ctx context.Context, key string, opts Options, fetch Fetcher) (any, error) {
	c.mu.Lock()
	e := c.entryLocked(key)
	e.staleTime = opts.StaleTime
	now := c.now()
	switch {
	case e.hasValue() && !e.invalidated && now.Sub(e.updatedAt) < opts.StaleTime:
		v := e.value
		c.mu.Unlock()
		c.observe(key, OutcomeHit)
		return v, nil
	case e.hasValue() && !e.invalidated && opts.StaleTime > 0:
		v := e.value
		revalidate := e.inflight == 0 && !e.scheduled
		if revalidate {
			e.scheduled = true
		}
		c.mu.Unlock()
		c.observe(key, OutcomeStale)
		if revalidate {
			c.revalidate(ctx, key, opts, fetch)
		}
		return v, nil
	}
	c.mu.Unlock()
	c.observe(key, OutcomeMiss)

	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		return c.run(detached, key, opts, fetch)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

// Prefetch starts a fetch of key without waiting for it.
func (c *Client) Prefetch(ctx context.Context, key string, opts Options, fetch Fetcher) {
	c.mu.Lock()
	e := c.entryLocked(key)
	e.staleTime = opts.StaleTime
	e.scheduled = true
	c.mu.Unlock()
	c.revalidate(ctx, key, opts, fetch)
}

func (c *Client) revalidate(ctx context.Context, key string, opts Options, fetch Fetcher) {
	detached := context.WithoutCancel(ctx)
	task := func(context.Context) {
		_, _, _ = c.group.Do(key, func() (any, error) {
			return c.run(detached, key, opts, fetch)
		})
	}
	if c.sched == nil {
		go task(detached)
		return
	}
	if c.sched.Schedule(key, task) {
		return
	}
	// Rejected: let the next stale read try again.
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		e.scheduled = false
	}
	c.mu.Unlock()
	c.log.Debug().Str("key", key).Msg("revalidation rejected by scheduler")
}

// run performs one fenced fetch, including retries, and stores its result.
func (c *Client) run(ctx context.Context, key string, opts Options, fetch Fetcher) (any, error) {
	c.mu.Lock()
	e := c.entryLocked(key)
	e.issued++
	token := e.issued
	e.inflight++
	e.scheduled = false
	if e.status == StatusIdle {
		e.status = StatusPending
	}
	snap := e.snapshot(c.now())
	c.mu.Unlock()
	c.notify(snap)

	v, err := attempt(ctx, opts, fetch)

	c.mu.Lock()
	e.inflight--
	switch {
	case token < e.accepted:
		c.log.Debug().Str("key", key).Uint64("token", token).Uint64("accepted", e.accepted).
			Msg("dropping out-of-order response")
	case err != nil:
		e.accepted = token
		e.status = StatusError
		e.err = err
	default:
		e.accepted = token
		e.status = StatusSuccess
		e.err = nil
		e.value = v
		e.updatedAt = c.now()
		e.invalidated = token <= e.fence
	}
	snap = e.snapshot(c.now())
	c.mu.Unlock()
	c.notify(snap)

	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("query failed")
	}
	return v, err
}

func attempt(ctx context.Context, opts Options, fetch Fetcher) (any, error) {
	var (
		v   any
		err error
	)
	for i := 0; i <= opts.Retry; i++ {
		if i > 0 && opts.RetryDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(opts.RetryDelay):
			}
		}
		v, err = fetch(ctx)
		if err == nil || !domain.IsRetryable(err) {
			return v, err
		}
	}
	return v, err
}

// Invalidate marks every key matching one of the prefixes as stale. The next
// read of such a key blocks on a new fetch instead of joining one that began
// before the invalidation.
func (c *Client) Invalidate(prefixes ...string) {
	var snaps []Snapshot
	c.mu.Lock()
	now := c.now()
	for key, e := range c.entries {
		for _, p := range prefixes {
			if !Matches(p, key) {
				continue
			}
			e.invalidated = true
			e.fence = e.issued
			c.group.Forget(key)
			snaps = append(snaps, e.snapshot(now))
			break
		}
	}
	c.mu.Unlock()

	for _, s := range snaps {
		if c.observer != nil {
			c.observer.KeyInvalidated(Family(s.Key))
		}
		c.notify(s)
	}
}

// Clear drops every stored value and mutation state. Fetches in flight finish
// into the discarded entries.
func (c *Client) Clear() {
	c.mu.Lock()
	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
		c.group.Forget(key)
	}
	c.entries = make(map[string]*entry)
	c.mutations = make(map[string]*mutation)
	c.mu.Unlock()

	for _, key := range keys {
		c.notify(Snapshot{Key: key, Stale: true})
	}
}

// Snapshot returns the current state of key. Unknown keys are Idle.
func (c *Client) Snapshot(key string) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		return e.snapshot(c.now())
	}
	return Snapshot{Key: key, Stale: true}
}

func (c *Client) entryLocked(key string) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{key: key}
		c.entries[key] = e
	}
	return e
}

func (c *Client) observe(key, outcome string) {
	if c.observer != nil {
		c.observer.QueryServed(Family(key), outcome)
	}
}
