// internal/lock/owner_lock.go
package lock

import "sync"

// OwnerLocks serializes sync work per owner. Each owner key has an
// independent mutex with a strict FIFO waiter queue; distinct owners
// never block each other.
//
// A holder that never calls release leaves that owner locked forever,
// so callers must release on every exit path (defer the returned
// capability immediately after Acquire).
type OwnerLocks struct {
    mu     sync.Mutex
    owners map[string]*ownerLock
}

type ownerLock struct {
    held    bool
    waiters []chan struct{}
}

// NewOwnerLocks creates an empty lock service. It is constructed once
// at startup and injected, never shared as a package global, so tests
// can build isolated instances.
func NewOwnerLocks() *OwnerLocks {
    return &OwnerLocks{owners: make(map[string]*ownerLock)}
}

// Acquire takes the owner's lock, blocking in FIFO order behind any
// earlier waiters, and returns the release capability. Release hands
// the lock directly to the next waiter if one is queued.
func (l *OwnerLocks) Acquire(owner string) (release func()) {
    l.mu.Lock()
    ol := l.owners[owner]
    if ol == nil {
        ol = &ownerLock{}
        l.owners[owner] = ol
    }
    if !ol.held {
        ol.held = true
        l.mu.Unlock()
        return l.releaseFunc(owner)
    }
    ready := make(chan struct{})
    ol.waiters = append(ol.waiters, ready)
    l.mu.Unlock()

    <-ready // resumed by the previous holder's release
    return l.releaseFunc(owner)
}

func (l *OwnerLocks) releaseFunc(owner string) func() {
    var once sync.Once
    return func() {
        once.Do(func() { l.release(owner) })
    }
}

func (l *OwnerLocks) release(owner string) {
    l.mu.Lock()
    defer l.mu.Unlock()
    ol := l.owners[owner]
    if ol == nil {
        return
    }
    if len(ol.waiters) > 0 {
        next := ol.waiters[0]
        ol.waiters = ol.waiters[1:]
        close(next) // direct hand-off, held stays true
        return
    }
    delete(l.owners, owner)
}

// IsLocked is a non-mutating probe used by status reporting.
func (l *OwnerLocks) IsLocked(owner string) bool {
    l.mu.Lock()
    defer l.mu.Unlock()
    ol := l.owners[owner]
    return ol != nil && ol.held
}

// QueueLength reports how many callers are waiting behind the current
// holder for this owner.
func (l *OwnerLocks) QueueLength(owner string) int {
    l.mu.Lock()
    defer l.mu.Unlock()
    ol := l.owners[owner]
    if ol == nil {
        return 0
    }
    return len(ol.waiters)
}
