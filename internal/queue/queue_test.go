package queue

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishWithoutSubscribers(t *testing.T) {
	q := NewInMemoryQueue()
	err := q.Publish("sync_events", "payload")
	assert.Error(t, err)
}

func TestPublishReachesSubscriber(t *testing.T) {
	q := NewInMemoryQueue()

	var wg sync.WaitGroup
	wg.Add(1)
	var got any
	require.NoError(t, q.Subscribe("sync_events", func(payload any) error {
		got = payload
		wg.Done()
		return nil
	}))

	require.NoError(t, q.Publish("sync_events", "job-1"))
	wg.Wait()
	assert.Equal(t, "job-1", got)
}

func TestDeliveryRetriesFailedHandler(t *testing.T) {
	q := NewInMemoryQueue()

	var mu sync.Mutex
	attempts := 0
	done := make(chan struct{})
	require.NoError(t, q.Subscribe("incident_events", func(payload any) error {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts < 2 {
			return fmt.Errorf("transient failure")
		}
		close(done)
		return nil
	}))

	require.NoError(t, q.Publish("incident_events", "ev"))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("delivery was not retried")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, attempts)
}
