package registry

import (
	"context"
	"errors"
	"sync"

	"github.com/alexdesander/multichannel/internal/collections"
	"github.com/alexdesander/multichannel/internal/synchronization"
)

var (
	ErrClosed = errors.New("multichannel: channel is closed")
	ErrFull   = errors.New("multichannel: channel is full")
)

// ChannelID identifies a channel within one registry for the lifetime of its
// registration. IDs are issued monotonically and never reused.
type ChannelID uint64

// Channel is a single FIFO queue together with its selection metadata.
// Queue order is strict insertion order; priority and weight only decide
// which channel is drained next, never the order within a channel.
type Channel[T any, P any] struct {
	id       ChannelID
	priority P
	weight   int
	capacity int  // 0 means unbounded
	frozen   bool // guarded by the registry's structural lock, not mtx

	recvWake *synchronization.Broadcaster // registry-wide, signaled when a message arrives

	mtx      sync.Mutex
	queue    collections.Queue[T]
	closed   bool
	sendWake *synchronization.Broadcaster // signaled when space frees up or the channel closes
}

func newChannel[T any, P any](id ChannelID, priority P, weight int, frozen bool, capacity int, recvWake *synchronization.Broadcaster) *Channel[T, P] {
	return &Channel[T, P]{
		id:       id,
		priority: priority,
		weight:   weight,
		capacity: capacity,
		frozen:   frozen,
		recvWake: recvWake,
		sendWake: synchronization.NewBroadcaster(),
	}
}

func (c *Channel[T, P]) ID() ChannelID {
	return c.id
}

func (c *Channel[T, P]) Weight() int {
	return c.weight
}

// Capacity returns the channel's capacity, and false if the channel is unbounded.
func (c *Channel[T, P]) Capacity() (int, bool) {
	return c.capacity, c.capacity > 0
}

func (c *Channel[T, P]) Len() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.queue.Len()
}

// TryPush appends msg to the queue without blocking.
// It fails with ErrClosed after Close or removal, and with ErrFull when a
// bounded channel is at capacity.
func (c *Channel[T, P]) TryPush(msg T) error {
	c.mtx.Lock()
	if c.closed {
		c.mtx.Unlock()
		return ErrClosed
	}
	if c.capacity > 0 && c.queue.Len() >= c.capacity {
		c.mtx.Unlock()
		return ErrFull
	}
	c.queue.PushBack(msg)
	c.mtx.Unlock()
	// The channel may have just become eligible for selection.
	c.recvWake.Broadcast()
	return nil
}

// Push appends msg to the queue, blocking while a bounded channel is full.
// Abandoning the wait through ctx leaves the queue untouched.
func (c *Channel[T, P]) Push(ctx context.Context, msg T) error {
	for {
		wait := c.sendWake.Wait()
		err := c.TryPush(msg)
		if !errors.Is(err, ErrFull) {
			return err
		}
		select {
		case <-wait:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// TryPop removes and returns the head of the queue.
// Popping never blocks; waiting for a message is the registry's concern,
// since a receiver has to watch all channels at once.
func (c *Channel[T, P]) TryPop() (T, bool) {
	c.mtx.Lock()
	msg, ok := c.queue.PopFront()
	bounded := c.capacity > 0
	c.mtx.Unlock()
	if ok && bounded {
		c.sendWake.Broadcast()
	}
	return msg, ok
}

// Close marks the channel closed. Subsequent pushes fail with ErrClosed;
// already queued messages remain deliverable until the channel is removed.
func (c *Channel[T, P]) Close() {
	c.mtx.Lock()
	c.closed = true
	c.mtx.Unlock()
	c.sendWake.Broadcast()
}

// closeAndDiscard marks the channel closed and drops its backlog.
// Removal is destructive, unlike Close.
func (c *Channel[T, P]) closeAndDiscard() {
	c.mtx.Lock()
	c.closed = true
	c.queue.Clear()
	c.mtx.Unlock()
	c.sendWake.Broadcast()
}
