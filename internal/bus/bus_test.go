package bus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBusFanOut(t *testing.T) {
	m := NewMemory()

	first, cancelFirst := m.Subscribe(context.Background())
	defer cancelFirst()
	second, cancelSecond := m.Subscribe(context.Background())
	defer cancelSecond()

	event := Event{Kind: KindValidated, CandidateCode: "REQ-1", Analyst: "Ana Lima", At: time.Now().UTC()}
	require.NoError(t, m.Publish(context.Background(), event))

	for _, ch := range []<-chan Event{first, second} {
		select {
		case got := <-ch:
			assert.Equal(t, event.CandidateCode, got.CandidateCode)
			assert.Equal(t, KindValidated, got.Kind)
		case <-time.After(time.Second):
			t.Fatal("expected delivery to every subscriber")
		}
	}
}

func TestMemoryBusCancelClosesChannel(t *testing.T) {
	m := NewMemory()

	ch, cancel := m.Subscribe(context.Background())
	cancel()

	_, open := <-ch
	assert.False(t, open)

	// publishing after cancel reaches nobody and does not panic
	require.NoError(t, m.Publish(context.Background(), Event{Kind: KindRolledBack}))
}

func TestMemoryBusSlowSubscriberDoesNotBlock(t *testing.T) {
	m := NewMemory()

	ch, cancel := m.Subscribe(context.Background())
	defer cancel()

	// fill the buffer past capacity; publish must never stall
	done := make(chan struct{})
	go func() {
		for i := 0; i < 64; i++ {
			_ = m.Publish(context.Background(), Event{Kind: KindValidated})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}

	// drain whatever fit in the buffer
	count := 0
	for {
		select {
		case <-ch:
			count++
		default:
			assert.Positive(t, count)
			return
		}
	}
}
