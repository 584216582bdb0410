// Package bus carries new-validation-event notifications from the workflow
// to the productivity aggregator. Consumers must treat it as best-effort:
// the aggregator's poll cycle converges to the same result without it.
package bus

import (
	"context"
	"sync"
	"time"
)

// Event announces an inserted or closed validation event.
type Event struct {
	Kind          string    `json:"kind"`
	CandidateCode string    `json:"candidateCode"`
	Analyst       string    `json:"analyst"`
	At            time.Time `json:"at"`
}

// Event kinds.
const (
	KindValidated  = "validated"
	KindRolledBack = "rolled_back"
)

// Bus publishes and subscribes to validation-event notifications.
type Bus interface {
	Publish(ctx context.Context, event Event) error
	// Subscribe returns a receive channel and a cancel function that stops
	// delivery and closes the channel.
	Subscribe(ctx context.Context) (<-chan Event, func())
}

// Memory is the in-process fallback bus used when Redis is not configured.
type Memory struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

// NewMemory constructs an in-process bus.
func NewMemory() *Memory {
	return &Memory{subs: make(map[int]chan Event)}
}

// Publish delivers the event to every subscriber without blocking; a slow
// subscriber drops notifications instead of stalling the workflow.
func (m *Memory) Publish(_ context.Context, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.subs {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

// Subscribe registers a new subscriber.
func (m *Memory) Subscribe(_ context.Context) (<-chan Event, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.next
	m.next++
	ch := make(chan Event, 16)
	m.subs[id] = ch

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if sub, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}
