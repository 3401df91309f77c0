// Package multichannel provides an mpmc priority multi channel with dynamic
// channel registration and freezing.
//
// A multichannel is a set of independent FIFO channels behind one or more
// receiver handles. A receive picks the next message from the
// highest-priority group that has a ready, unfrozen channel, choosing among
// that group's channels at random with probability proportional to their
// weights. Frozen channels keep accepting sends and retain their backlog,
// but are skipped by selection until unfrozen.
//
// The freezing feature has a cost: because eligibility changes on both
// message arrival and freeze toggling, every receive is a linear scan over
// all registered channels rather than a heap lookup. With a huge number of
// channels and no need for freezing, a simpler structure will perform
// better; for most use cases this is good enough.
package multichannel

import (
	"cmp"

	"github.com/alexdesander/multichannel/internal/registry"
)

// ChannelID identifies a channel within one multichannel instance for the
// lifetime of its registration. IDs are issued monotonically and never reused.
type ChannelID = registry.ChannelID

// New creates an empty multichannel. Priorities are compared with
// cmp.Compare; higher-ordered values are drained first.
func New[T any, P cmp.Ordered]() *Receiver[T, P] {
	return NewOrderedBy[T](cmp.Compare[P])
}

// NewOrderedBy creates an empty multichannel whose priorities are compared
// with the given total-order function, for priority types that are not
// cmp.Ordered. compare must return a negative number when a orders below b,
// zero when equal, and a positive number when a orders above b; channels
// with higher-ordered priorities are drained first.
func NewOrderedBy[T, P any](compare func(a, b P) int) *Receiver[T, P] {
	return &Receiver[T, P]{reg: registry.New[T](compare)}
}
