package multichannel

import (
	"context"
	"time"

	"github.com/alexdesander/multichannel/internal/registry"
)

// Receiver is the consumer-side handle of a multichannel. It is bound to
// the whole channel set, not to a single channel: every receive considers
// all registered channels. A Receiver is safe for concurrent use and may be
// cloned for multi-consumer setups; all clones observe the same channels.
type Receiver[T any, P any] struct {
	reg *registry.Registry[T, P]
}

// NewChannel registers a channel with the given priority and weight and
// returns its producer handle. The weight sets the channel's selection
// probability relative to other ready channels of the same priority; a
// weight of 0 is accepted but makes the channel unselectable.
func (r *Receiver[T, P]) NewChannel(priority P, weight int, options ...ChannelOption) (*Sender[T, P], error) {
	opts := &channelOptions{}
	for _, option := range options {
		option(opts)
	}
	if weight < 0 {
		return nil, ErrNegativeWeight
	}
	if opts.capacitySet && opts.capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	c := r.reg.Register(priority, weight, opts.frozen, opts.capacity)
	return &Sender[T, P]{reg: r.reg, c: c}, nil
}

// Receive blocks until a message is available on some ready, unfrozen
// channel and returns it.
func (r *Receiver[T, P]) Receive() T {
	msg, _ := r.ReceiveWithContext(context.Background())
	return msg
}

// ReceiveWithContext blocks like Receive but gives up with ctx.Err() when
// ctx is done. An abandoned wait never consumes a message.
func (r *Receiver[T, P]) ReceiveWithContext(ctx context.Context) (T, error) {
	for {
		// Arm the wake signal before scanning, so a send that lands right
		// after an empty scan is not missed.
		wait := r.reg.WaitChannel()
		if msg, _, ok := r.reg.TrySelect(); ok {
			return msg, nil
		}
		select {
		case <-wait:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// ReceiveWithTimeout blocks like Receive but gives up with ErrTimeout after d.
func (r *Receiver[T, P]) ReceiveWithTimeout(d time.Duration) (T, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	for {
		wait := r.reg.WaitChannel()
		if msg, _, ok := r.reg.TrySelect(); ok {
			return msg, nil
		}
		select {
		case <-wait:
		case <-timer.C:
			var zero T
			return zero, ErrTimeout
		}
	}
}

// TryReceive returns the next message without blocking, or false when no
// ready, unfrozen channel exists at the instant of the call.
func (r *Receiver[T, P]) TryReceive() (T, bool) {
	msg, _, ok := r.reg.TrySelect()
	return msg, ok
}

// RemoveChannel removes the sender's channel. Removal is destructive:
// queued messages are discarded and all of the channel's senders start
// failing with ErrClosed.
func (r *Receiver[T, P]) RemoveChannel(s *Sender[T, P]) error {
	return r.RemoveChannelByID(s.ID())
}

// RemoveChannelByID removes the channel with the given id.
// It returns a NotFoundError if the id is not registered.
func (r *Receiver[T, P]) RemoveChannelByID(id ChannelID) error {
	if !r.reg.Remove(id) {
		return &NotFoundError{ID: id}
	}
	return nil
}

// NumChannels returns the number of currently registered channels.
func (r *Receiver[T, P]) NumChannels() int {
	return r.reg.NumChannels()
}

// NoChannels reports whether no channels are registered.
func (r *Receiver[T, P]) NoChannels() bool {
	return r.reg.NumChannels() == 0
}

// Clone returns a new receiver handle sharing the same channel set.
func (r *Receiver[T, P]) Clone() *Receiver[T, P] {
	return &Receiver[T, P]{reg: r.reg}
}
