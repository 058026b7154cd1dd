package lock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireFreeLock(t *testing.T) {
	locks := NewOwnerLocks()

	release := locks.Acquire("agent-01")
	assert.True(t, locks.IsLocked("agent-01"))
	assert.False(t, locks.IsLocked("agent-02"))

	release()
	assert.False(t, locks.IsLocked("agent-01"))
}

func TestReleaseIsIdempotent(t *testing.T) {
	locks := NewOwnerLocks()

	release := locks.Acquire("agent-01")
	release()
	release() // second call must not free someone else's hold

	release2 := locks.Acquire("agent-01")
	assert.True(t, locks.IsLocked("agent-01"))
	release2()
}

func TestExclusivityPerOwner(t *testing.T) {
	locks := NewOwnerLocks()

	var mu sync.Mutex
	active := 0
	maxActive := 0

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := locks.Acquire("agent-01")
			defer release()

			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxActive, "two holders overlapped for one owner")
	assert.False(t, locks.IsLocked("agent-01"))
}

func TestFIFOFairness(t *testing.T) {
	locks := NewOwnerLocks()

	holderRelease := locks.Acquire("agent-01")

	var mu sync.Mutex
	order := []int{}

	var wg sync.WaitGroup
	started := make(chan struct{}, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		waiter := i
		go func() {
			defer wg.Done()
			started <- struct{}{}
			// small stagger so waiters enqueue in index order
			release := locks.Acquire("agent-01")
			mu.Lock()
			order = append(order, waiter)
			mu.Unlock()
			release()
		}()
		<-started
		// wait until this goroutine is queued before starting the next
		require.Eventually(t, func() bool {
			return locks.QueueLength("agent-01") == waiter+1
		}, time.Second, time.Millisecond)
	}

	holderRelease()
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestOwnersAreIndependent(t *testing.T) {
	locks := NewOwnerLocks()

	releaseA := locks.Acquire("agent-01")

	done := make(chan struct{})
	go func() {
		releaseB := locks.Acquire("agent-02")
		releaseB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("owner B blocked on owner A's lock")
	}

	releaseA()
}

func TestQueueLength(t *testing.T) {
	locks := NewOwnerLocks()
	assert.Equal(t, 0, locks.QueueLength("agent-01"))

	release := locks.Acquire("agent-01")

	acquired := make(chan func(), 2)
	for i := 0; i < 2; i++ {
		go func() {
			acquired <- locks.Acquire("agent-01")
		}()
	}
	require.Eventually(t, func() bool {
		return locks.QueueLength("agent-01") == 2
	}, time.Second, time.Millisecond)

	release()
	r1 := <-acquired
	assert.Equal(t, 1, locks.QueueLength("agent-01"))
	r1()
	r2 := <-acquired
	assert.Equal(t, 0, locks.QueueLength("agent-01"))
	r2()

	assert.False(t, locks.IsLocked("agent-01"))
}

func TestHandoffKeepsLockHeld(t *testing.T) {
	locks := NewOwnerLocks()

	release := locks.Acquire("agent-01")

	got := make(chan func())
	go func() {
		got <- locks.Acquire("agent-01")
	}()
	require.Eventually(t, func() bool {
		return locks.QueueLength("agent-01") == 1
	}, time.Second, time.Millisecond)

	release()
	next := <-got
	// hand-off transferred the hold without an unlocked window
	assert.True(t, locks.IsLocked("agent-01"))
	next()
	assert.False(t, locks.IsLocked("agent-01"))
}
