package queue

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// Task is a unit of background work.
type Task func(ctx context.Context)

type job struct {
	key  string
	task Task
}

// Dispatcher runs background tasks on a fixed set of workers. Tasks are
// sharded by key with a consistent hash, so tasks for the same key run one
// after another in the order they were scheduled.
type Dispatcher struct {
	workers []chan job
	log     zerolog.Logger
	wg      sync.WaitGroup

	mu      sync.RWMutex
	started bool
	ctx     context.Context
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan job, numWorkers),
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan job, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled;
// tasks still queued at that point are discarded.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return
	}
	d.started = true
	d.ctx = ctx
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has exited.
func (d *Dispatcher) Wait() { d.wg.Wait() }

// Schedule queues task on the worker responsible for key and reports whether
// it did. It never blocks: when the worker's queue is full the task is
// dropped and logged, and after the dispatcher stopped the task is dropped
// silently.
func (d *Dispatcher) Schedule(key string, task func(ctx context.Context)) bool {
	d.mu.RLock()
	ctx := d.ctx
	d.mu.RUnlock()
	if ctx != nil && ctx.Err() != nil {
		return false
	}

	select {
	case d.workers[d.shardIndex(key)] <- job{key: key, task: task}:
		return true
	default:
		d.log.Warn().Str("key", key).Msg("dispatch queue full, dropping task")
		return false
	}
}

// Depths returns the number of tasks waiting in each worker's queue.
func (d *Dispatcher) Depths() []int {
	out := make([]int, len(d.workers))
	for i, ch := range d.workers {
		out[i] = len(ch)
	}
	return out
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan job) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-ch:
			d.run(ctx, id, j)
		}
	}
}

func (d *Dispatcher) run(ctx context.Context, id int, j job) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().
				Interface("panic", r).
				Str("key", j.key).
				Int("worker_id", id).
				Msg("background task panicked")
		}
	}()
	j.task(ctx)
}
