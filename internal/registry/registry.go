package registry

import (
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/alexdesander/multichannel/internal/synchronization"
)

// Registry owns all channels of one multichannel instance: their lifecycle,
// their grouping by priority, and the wake signal that blocked receivers
// wait on. It is shared by every sender and receiver handle derived from it.
type Registry[T any, P any] struct {
	compare func(a, b P) int
	wake    *synchronization.Broadcaster

	mtx    sync.RWMutex
	nextID ChannelID
	lookup map[ChannelID]*Channel[T, P]
	// groups are kept sorted by priority, highest-ordered first
	groups []*group[T, P]
}

type group[T any, P any] struct {
	priority P
	channels []*Channel[T, P]
}

func New[T any, P any](compare func(a, b P) int) *Registry[T, P] {
	return &Registry[T, P]{
		compare: compare,
		wake:    synchronization.NewBroadcaster(),
		lookup:  make(map[ChannelID]*Channel[T, P]),
	}
}

// Register allocates a fresh id and inserts a new channel into its priority
// group. Many channels may share a priority.
func (r *Registry[T, P]) Register(priority P, weight int, frozen bool, capacity int) *Channel[T, P] {
	r.mtx.Lock()
	id := r.nextID
	r.nextID++
	c := newChannel[T, P](id, priority, weight, frozen, capacity, r.wake)
	idx := sort.Search(len(r.groups), func(i int) bool {
		return r.compare(r.groups[i].priority, priority) <= 0
	})
	if idx < len(r.groups) && r.compare(r.groups[idx].priority, priority) == 0 {
		r.groups[idx].channels = append(r.groups[idx].channels, c)
	} else {
		g := &group[T, P]{priority: priority, channels: []*Channel[T, P]{c}}
		r.groups = append(r.groups, nil)
		copy(r.groups[idx+1:], r.groups[idx:])
		r.groups[idx] = g
	}
	r.lookup[id] = c
	r.mtx.Unlock()
	r.wake.Broadcast()
	return c
}

// Remove detaches the channel, discards its backlog and fails its senders.
// It reports whether the id was registered.
func (r *Registry[T, P]) Remove(id ChannelID) bool {
	r.mtx.Lock()
	c, ok := r.lookup[id]
	if !ok {
		r.mtx.Unlock()
		return false
	}
	delete(r.lookup, id)
	idx := sort.Search(len(r.groups), func(i int) bool {
		return r.compare(r.groups[i].priority, c.priority) <= 0
	})
	g := r.groups[idx]
	for i, gc := range g.channels {
		if gc == c {
			g.channels = append(g.channels[:i], g.channels[i+1:]...)
			break
		}
	}
	if len(g.channels) == 0 {
		r.groups = append(r.groups[:idx], r.groups[idx+1:]...)
	}
	r.mtx.Unlock()
	c.closeAndDiscard()
	r.wake.Broadcast()
	return true
}

// SetFrozen toggles the channel's freeze state. The flag lives under the
// structural lock so that a selection scan sees it consistently across all
// channels.
func (r *Registry[T, P]) SetFrozen(c *Channel[T, P], frozen bool) {
	r.mtx.Lock()
	changed := c.frozen != frozen
	c.frozen = frozen
	r.mtx.Unlock()
	if changed && !frozen {
		// The channel's backlog just became visible again.
		r.wake.Broadcast()
	}
}

func (r *Registry[T, P]) IsFrozen(c *Channel[T, P]) bool {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return c.frozen
}

func (r *Registry[T, P]) NumChannels() int {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return len(r.lookup)
}

// WaitChannel returns the signal a receiver blocks on when no channel is
// eligible. Arm it before the selection scan: every mutation that can make
// a channel eligible broadcasts on it.
func (r *Registry[T, P]) WaitChannel() <-chan struct{} {
	return r.wake.Wait()
}

// TrySelect runs one full selection pass: scan the priority groups from
// highest to lowest, gather the ready, unfrozen channels of the first group
// that has any, and draw one of them at random with probability proportional
// to its weight. The drawn channel's head message is popped and returned.
//
// A pop can lose the race against another receiver that emptied the channel
// after the readiness check; the loser drops that candidate and redraws
// among the rest, falling through to lower priority groups if the group
// runs dry. Channels with weight 0 are never candidates.
func (r *Registry[T, P]) TrySelect() (T, ChannelID, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	var candidates []*Channel[T, P]
	var weights []int
	for _, g := range r.groups {
		candidates = candidates[:0]
		weights = weights[:0]
		total := 0
		for _, c := range g.channels {
			if c.frozen || c.weight <= 0 || c.Len() == 0 {
				continue
			}
			candidates = append(candidates, c)
			weights = append(weights, c.weight)
			total += c.weight
		}
		for len(candidates) > 0 {
			i := pickWeighted(weights, total)
			if msg, ok := candidates[i].TryPop(); ok {
				return msg, candidates[i].id, true
			}
			total -= weights[i]
			candidates = append(candidates[:i], candidates[i+1:]...)
			weights = append(weights[:i], weights[i+1:]...)
		}
	}
	var zero T
	return zero, 0, false
}

// pickWeighted draws an index with probability weights[i]/total.
func pickWeighted(weights []int, total int) int {
	if len(weights) == 1 {
		return 0
	}
	n := rand.IntN(total)
	for i, w := range weights {
		n -= w
		if n < 0 {
			return i
		}
	}
	return len(weights) - 1
}
