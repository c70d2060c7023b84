package telemetry

import (
	"slices"
	"sync"
	"time"
)

// Repository is where the engine reports quest activity. Quest workers call
// RecordEvent concurrently.
type Repository interface {
	RecordEvent(eventType EventType, metadata EventMetadata) error
}

// Filter selects events. A zero Since and empty Types match everything.
type Filter struct {
	Since time.Time
	Types []EventType
}

func (f Filter) match(e Event) bool {
	if e.Timestamp.Before(f.Since) {
		return false
	}
	return len(f.Types) == 0 || slices.Contains(f.Types, e.Type)
}

// MemoryRepository keeps a session's events in order of arrival.
type MemoryRepository struct {
	// Now stamps events; nil means time.Now. The engine's clock fits here so
	// event times line up with quest times.
	Now func() time.Time

	mu     sync.RWMutex
	events []Event
	counts map[EventType]int
}

func NewMemoryRepository(now func() time.Time) *MemoryRepository {
	return &MemoryRepository{Now: now, counts: map[EventType]int{}}
}

func (r *MemoryRepository) RecordEvent(eventType EventType, metadata EventMetadata) error {
	ts := time.Now()
	if r.Now != nil {
		ts = r.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = map[EventType]int{}
	}
	r.events = append(r.events, Event{
		Seq:       len(r.events) + 1,
		Type:      eventType,
		Timestamp: ts,
		Metadata:  metadata.clone(),
	})
	r.counts[eventType]++
	return nil
}

// Events returns matching events oldest first.
func (r *MemoryRepository) Events(f Filter) []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Event{}
	for _, e := range r.events {
		if f.match(e) {
			e.Metadata = e.Metadata.clone()
			out = append(out, e)
		}
	}
	return out
}

// Count is the number of events recorded of the given type.
func (r *MemoryRepository) Count(eventType EventType) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.counts[eventType]
}
