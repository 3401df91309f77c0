package multichannel

import (
	"context"

	"github.com/alexdesander/multichannel/internal/registry"
)

// Sender is the producer-side handle of a single channel. It is safe for
// concurrent use and may be cloned for multi-producer setups; all clones
// feed the same channel.
type Sender[T any, P any] struct {
	reg *registry.Registry[T, P]
	c   *registry.Channel[T, P]
}

// Send appends msg to the channel's queue, blocking while a bounded channel
// is full. It fails with ErrClosed after Close or removal.
func (s *Sender[T, P]) Send(msg T) error {
	return s.c.Push(context.Background(), msg)
}

// SendWithContext blocks like Send but gives up with ctx.Err() when ctx is
// done. An abandoned send leaves the queue untouched.
func (s *Sender[T, P]) SendWithContext(ctx context.Context, msg T) error {
	return s.c.Push(ctx, msg)
}

// TrySend appends msg without blocking, failing with ErrFull when a bounded
// channel is at capacity.
func (s *Sender[T, P]) TrySend(msg T) error {
	return s.c.TryPush(msg)
}

// Freeze hides the channel from selection. Sends keep working and the
// backlog stays intact. Idempotent.
func (s *Sender[T, P]) Freeze() {
	s.reg.SetFrozen(s.c, true)
}

// Unfreeze makes the channel visible to selection again, waking receivers
// blocked on an empty scan. Idempotent.
func (s *Sender[T, P]) Unfreeze() {
	s.reg.SetFrozen(s.c, false)
}

func (s *Sender[T, P]) IsFrozen() bool {
	return s.reg.IsFrozen(s.c)
}

// Close stops the channel from accepting sends. Messages already queued
// remain deliverable until the channel is removed.
func (s *Sender[T, P]) Close() {
	s.c.Close()
}

func (s *Sender[T, P]) ID() ChannelID {
	return s.c.ID()
}

// Len returns the number of currently queued messages.
func (s *Sender[T, P]) Len() int {
	return s.c.Len()
}

// Capacity returns the channel's capacity, and false if the channel is
// unbounded.
func (s *Sender[T, P]) Capacity() (int, bool) {
	return s.c.Capacity()
}

// Weight returns the channel's configured selection weight.
func (s *Sender[T, P]) Weight() int {
	return s.c.Weight()
}

// Clone returns a new sender handle feeding the same channel.
func (s *Sender[T, P]) Clone() *Sender[T, P] {
	return &Sender[T, P]{reg: s.reg, c: s.c}
}
