package multichannel

import (
	"errors"
	"fmt"

	"github.com/alexdesander/multichannel/internal/registry"
)

var (
	// ErrClosed is returned by sends on a channel that was closed or removed.
	ErrClosed = registry.ErrClosed
	// ErrFull is returned by TrySend on a bounded channel at capacity.
	ErrFull = registry.ErrFull
	// ErrTimeout is returned by ReceiveWithTimeout when the wait expires.
	ErrTimeout = errors.New("multichannel: receive timed out")

	ErrNegativeWeight  = errors.New("multichannel: weight cannot be negative")
	ErrInvalidCapacity = errors.New("multichannel: capacity must be at least 1")
)

// NotFoundError reports an operation on a channel id that is not registered.
type NotFoundError struct {
	ID ChannelID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("channel %d is not registered", e.ID)
}
