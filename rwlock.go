package clob

import (
	"context"
	"sync"
)

// RWLock is a reader-writer lock with writer preference: once any writer is
// waiting, newly arriving readers block until that writer has been granted
// and released, bounding writer latency under read-heavy load.
//
// Unlike sync.RWMutex it supports acquisition deadlines: the *Context
// variants return ErrTimeout once ctx is done, with no state change, so a
// failed caller never holds the lock.
//
// The lock is not reentrant. A goroutine holding a read or write grant must
// not acquire the other grant on the same call stack; doing so deadlocks.
type RWLock struct {
	mu             sync.Mutex
	readers        int
	writersWaiting int
	writerActive   bool
	wake           chan struct{}
}

// NewRWLock creates an RWLock.
func NewRWLock() *RWLock {
	return &RWLock{
		wake: make(chan struct{}),
	}
}

// notifyLocked wakes every blocked waiter. Callers must hold l.mu.
func (l *RWLock) notifyLocked() {
	close(l.wake)
	l.wake = make(chan struct{})
}

// RLock acquires a read grant, blocking while a writer is active or waiting.
func (l *RWLock) RLock() {
	_ = l.RLockContext(context.Background())
}

// RLockContext acquires a read grant, honoring the context deadline.
// Returns ErrTimeout if ctx is done before the grant is obtained.
func (l *RWLock) RLockContext(ctx context.Context) error {
	l.mu.Lock()
	for l.writerActive || l.writersWaiting > 0 {
		wake := l.wake
		l.mu.Unlock()

		select {
		case <-wake:
		case <-ctx.Done():
			return ErrTimeout
		}

		l.mu.Lock()
	}
	l.readers++
	l.mu.Unlock()
	return nil
}

// RUnlock releases a read grant. The last reader out wakes blocked writers.
func (l *RWLock) RUnlock() {
	l.mu.Lock()
	l.readers--
	if l.readers == 0 {
		l.notifyLocked()
	}
	l.mu.Unlock()
}

// Lock acquires the exclusive write grant, blocking until all readers drain
// and any active writer releases.
func (l *RWLock) Lock() {
	_ = l.LockContext(context.Background())
}

// LockContext acquires the exclusive write grant, honoring the context
// deadline. Returns ErrTimeout if ctx is done before the grant is obtained;
// the waiting-writer count is rolled back so blocked readers can proceed.
func (l *RWLock) LockContext(ctx context.Context) error {
	l.mu.Lock()
	l.writersWaiting++
	for l.readers > 0 || l.writerActive {
		wake := l.wake
		l.mu.Unlock()

		select {
		case <-wake:
		case <-ctx.Done():
			l.mu.Lock()
			l.writersWaiting--
			l.notifyLocked()
			l.mu.Unlock()
			return ErrTimeout
		}

		l.mu.Lock()
	}
	l.writersWaiting--
	l.writerActive = true
	l.mu.Unlock()
	return nil
}

// Unlock releases the write grant and wakes all blocked waiters.
func (l *RWLock) Unlock() {
	l.mu.Lock()
	l.writerActive = false
	l.notifyLocked()
	l.mu.Unlock()
}
