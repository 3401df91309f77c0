package multichannel

type channelOptions struct {
	capacity    int
	capacitySet bool
	frozen      bool
}

type ChannelOption func(*channelOptions)

// WithCapacity bounds the channel's queue to n messages. Sends on a full
// channel block (or fail with ErrFull for TrySend) until a receive frees
// space. Without this option the channel is unbounded.
func WithCapacity(n int) ChannelOption {
	return func(opt *channelOptions) {
		opt.capacity = n
		opt.capacitySet = true
	}
}

// Frozen registers the channel in the frozen state: it accepts sends and
// keeps its backlog, but is invisible to selection until unfrozen.
func Frozen() ChannelOption {
	return func(opt *channelOptions) {
		opt.frozen = true
	}
}
