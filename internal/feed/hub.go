package feed

import (
	"context"
	"sync"
	"time"

	"shortlist/internal/task"
)

// Kind labels the mutation a feed event describes.
type Kind string

const (
	KindCreated Kind = "created"
	KindUpdated Kind = "updated"
	KindDeleted Kind = "deleted"
)

// Event is a single task change published to subscribers. The full record
// rides along so clients never need a follow-up read; for deletions it holds
// the last known state.
type Event struct {
	Sequence  uint64    `json:"seq"`
	Kind      Kind      `json:"kind"`
	Task      task.Task `json:"task"`
	Timestamp time.Time `json:"ts"`
}

// Hub stores recent task events and wakes waiters when new events arrive.
// Fetch filters by owner, so one hub serves every connection without
// cross-user leakage.
type Hub struct {
	mu       sync.Mutex
	cond     *sync.Cond
	capacity int
	buffer   []Event
	nextSeq  uint64
}

// NewHub constructs a bounded in-memory event fan-out buffer.
func NewHub(capacity int) *Hub {
	if capacity <= 0 {
		capacity = 512
	}
	h := &Hub{capacity: capacity}
	h.cond = sync.NewCond(&h.mu)
	return h
}

// Publish appends a new event to the hub and assigns its sequence number.
func (h *Hub) Publish(kind Kind, record task.Task) {
	if h == nil {
		return
	}
	h.mu.Lock()
	h.nextSeq++
	evt := Event{
		Sequence:  h.nextSeq,
		Kind:      kind,
		Task:      record,
		Timestamp: time.Now().UTC(),
	}
	if len(h.buffer) == h.capacity {
		copy(h.buffer, h.buffer[1:])
		h.buffer = h.buffer[:h.capacity-1]
	}
	h.buffer = append(h.buffer, evt)
	h.cond.Broadcast()
	h.mu.Unlock()
}

// Fetch returns the owner's events with sequence greater than since, plus the
// cursor to resume from. When wait is true and nothing is pending, Fetch
// blocks until a matching event arrives or the context ends. An empty ownerID
// never matches anything and returns immediately regardless of wait, so
// unauthenticated subscribers get a ready-but-empty result instead of a hang.
func (h *Hub) Fetch(ctx context.Context, ownerID string, since uint64, limit int, wait bool) ([]Event, uint64, error) {
	if h == nil {
		return nil, since, nil
	}
	if ownerID == "" {
		return nil, 0, nil
	}
	if limit <= 0 || limit > h.capacity {
		limit = h.capacity
	}

	cancelWait := make(chan struct{})
	if wait && ctx != nil && ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				h.cond.Broadcast()
			case <-cancelWait:
			}
		}()
	}
	defer close(cancelWait)

	h.mu.Lock()
	defer h.mu.Unlock()

	for {
		events, next := h.snapshotLocked(ownerID, since, limit)
		if len(events) > 0 || !wait {
			return events, next, contextError(ctx)
		}
		if err := contextError(ctx); err != nil {
			return nil, next, err
		}
		// Re-fetch from the advanced cursor after waking: everything up to
		// next has been inspected and none of it belongs to this owner.
		since = next
		h.cond.Wait()
		if err := contextError(ctx); err != nil {
			return nil, since, err
		}
	}
}

// FirstSequence reports the smallest sequence number still buffered.
func (h *Hub) FirstSequence() uint64 {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.buffer) == 0 {
		return h.nextSeq
	}
	return h.buffer[0].Sequence
}

// LastSequence reports the most recently assigned sequence number.
func (h *Hub) LastSequence() uint64 {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.nextSeq
}

func (h *Hub) snapshotLocked(ownerID string, since uint64, limit int) ([]Event, uint64) {
	if len(h.buffer) == 0 {
		return nil, h.nextSeq
	}
	var out []Event
	for _, evt := range h.buffer {
		if evt.Sequence <= since {
			continue
		}
		if evt.Task.OwnerID != ownerID {
			continue
		}
		out = append(out, evt)
		if len(out) == limit {
			return out, evt.Sequence
		}
	}
	return out, h.nextSeq
}

func contextError(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	return ctx.Err()
}
