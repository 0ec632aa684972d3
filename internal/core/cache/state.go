package cache

import "time"

// Status is the lifecycle state of a query key or a mutation.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Snapshot is a point-in-time copy of a key's state.
type Snapshot struct {
	Key    string
	Status Status
	// Fetching is true while any fetch of the key is in flight, including
	// background revalidations of a key that already holds a value.
	Fetching bool
	// Stale is true when the next read will not be served from cache as is.
	// Keys with a zero StaleTime are always stale.
	Stale bool
	// Invalidated is true between an invalidation and the first result of a
	// fetch started after it.
	Invalidated bool
	UpdatedAt   time.Time
	Value       any
	Err         error
}

// HasValue reports whether a successful result was ever stored.
func (s Snapshot) HasValue() bool { return !s.UpdatedAt.IsZero() }

type entry struct {
	key       string
	value     any
	err       error
	status    Status
	updatedAt time.Time
	staleTime time.Duration

	// invalidated is set by Invalidate and cleared by a result whose fetch
	// started after the invalidation.
	invalidated bool
	// issued is the last token handed out, accepted the token of the stored
	// result and fence the last token issued before the latest invalidation.
	issued   uint64
	accepted uint64
	fence    uint64

	inflight  int
	scheduled bool
}

func (e *entry) hasValue() bool { return !e.updatedAt.IsZero() }

func (e *entry) stale(now time.Time) bool {
	if !e.hasValue() || e.invalidated {
		return true
	}
	return now.Sub(e.updatedAt) >= e.staleTime
}

func (e *entry) snapshot(now time.Time) Snapshot {
	return Snapshot{
		Key:         e.key,
		Status:      e.status,
		Fetching:    e.inflight > 0,
		Stale:       e.stale(now),
		Invalidated: e.invalidated,
		UpdatedAt:   e.updatedAt,
		Value:       e.value,
		Err:         e.err,
	}
}
