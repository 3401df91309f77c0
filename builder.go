package multichannel

import (
	"cmp"
	"fmt"

	"go.uber.org/multierr"
)

// Config describes a fixed channel topology, for callers who do not need
// runtime registration. It is JSON-taggable so topologies can be loaded
// from configuration files.
type Config[P any] struct {
	Channels []ChannelConfig[P] `json:"channels"`
}

type ChannelConfig[P any] struct {
	Priority P    `json:"priority"`
	Weight   int  `json:"weight"`
	Capacity int  `json:"capacity,omitempty"` // 0 means unbounded
	Frozen   bool `json:"frozen,omitempty"`
}

// NewFromConfig builds a ready multichannel from a declarative topology,
// returning one sender per configured channel, in configuration order.
// Validation failures are aggregated across all channels before returning.
func NewFromConfig[T any, P cmp.Ordered](config Config[P]) ([]*Sender[T, P], *Receiver[T, P], error) {
	return NewFromConfigOrderedBy[T](cmp.Compare[P], config)
}

// NewFromConfigOrderedBy is NewFromConfig with a custom priority order,
// see NewOrderedBy.
func NewFromConfigOrderedBy[T, P any](compare func(a, b P) int, config Config[P]) ([]*Sender[T, P], *Receiver[T, P], error) {
	receiver := NewOrderedBy[T](compare)
	senders := make([]*Sender[T, P], 0, len(config.Channels))
	var err error
	for i, c := range config.Channels {
		var options []ChannelOption
		if c.Capacity != 0 {
			options = append(options, WithCapacity(c.Capacity))
		}
		if c.Frozen {
			options = append(options, Frozen())
		}
		sender, chErr := receiver.NewChannel(c.Priority, c.Weight, options...)
		if chErr != nil {
			err = multierr.Append(err, fmt.Errorf("channel %d: %w", i, chErr))
			continue
		}
		senders = append(senders, sender)
	}
	if err != nil {
		return nil, nil, err
	}
	return senders, receiver, nil
}
