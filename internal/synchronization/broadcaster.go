package synchronization

import "sync"

// Broadcaster is a broadcast signal built on channel close semantics,
// so that waiters can combine it in a select with context cancellation
// and timers.
//
// A waiter must arm the wait (call Wait) before re-checking the state it
// is waiting for, otherwise a wakeup between the check and the wait is lost.
type Broadcaster struct {
	mtx sync.Mutex
	c   chan struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{c: make(chan struct{})}
}

// Wait returns a channel that is closed by the next Broadcast call.
func (b *Broadcaster) Wait() <-chan struct{} {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.c
}

// Broadcast wakes all waiters currently armed on Wait.
func (b *Broadcaster) Broadcast() {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	close(b.c)
	b.c = make(chan struct{})
}
