package multichannel_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/alexdesander/multichannel"
)

type priority int

const (
	low priority = iota
	high
)

func TestPrimaryUseCases(t *testing.T) {
	mrx := multichannel.New[any, priority]()

	shutdownSender, err := mrx.NewChannel(high, 1, multichannel.WithCapacity(1))
	require.NoError(t, err)
	intSender, err := mrx.NewChannel(low, 33)
	require.NoError(t, err)
	floatSender, err := mrx.NewChannel(low, 66)
	require.NoError(t, err)

	require.NoError(t, intSender.Send(33))
	require.NoError(t, intSender.Send(4031))
	require.NoError(t, floatSender.Send(3.14))
	require.NoError(t, intSender.Send(2))
	require.NoError(t, floatSender.Send(10.0))
	require.NoError(t, floatSender.Send(0.0))

	var ints, floats []any
	for i := 0; i < 4; i++ {
		switch msg := mrx.Receive().(type) {
		case int:
			ints = append(ints, msg)
		case float64:
			floats = append(floats, msg)
		default:
			t.Fatalf("unexpected message %v", msg)
		}
	}

	// No high priority message was sent yet, so all four must come from the
	// two low channels, in FIFO order per channel.
	wantInts := []any{33, 4031, 2}
	wantFloats := []any{3.14, 10.0, 0.0}
	require.Equal(t, 4, len(ints)+len(floats))
	if diff := cmp.Diff(wantInts[:len(ints)], ints); diff != "" {
		t.Fatalf("int messages out of order (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantFloats[:len(floats)], floats); diff != "" {
		t.Fatalf("float messages out of order (-want +got):\n%s", diff)
	}

	// Both low channels still hold messages, but the high priority message
	// must be received next.
	require.NoError(t, shutdownSender.Send("shutdown"))
	require.Equal(t, any("shutdown"), mrx.Receive())
}

func TestFIFOPerChannel(t *testing.T) {
	mrx := multichannel.New[int, int]()
	sender, err := mrx.NewChannel(1, 1)
	require.NoError(t, err)
	other, err := mrx.NewChannel(1, 1)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		require.NoError(t, sender.Send(i))
		require.NoError(t, other.Send(-1))
	}

	next := 0
	for i := 0; i < 200; i++ {
		msg := mrx.Receive()
		if msg == -1 {
			continue
		}
		require.Equal(t, next, msg, "messages of one channel reordered")
		next++
	}
	require.Equal(t, 100, next)
}

func TestPriorityPrecedence(t *testing.T) {
	mrx := multichannel.New[int, int]()
	lowSender, err := mrx.NewChannel(1, 1)
	require.NoError(t, err)
	highSender, err := mrx.NewChannel(10, 1)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		require.NoError(t, lowSender.Send(100 + i))
	}
	for i := 0; i < 100; i++ {
		require.NoError(t, highSender.Send(i))
	}
	for i := 0; i < 200; i++ {
		require.Equal(t, i, mrx.Receive())
	}
}

func TestCustomPriorityOrder(t *testing.T) {
	// Reverse the natural order: numerically smaller priorities win.
	mrx := multichannel.NewOrderedBy[string](func(a, b int) int { return b - a })
	bulk, err := mrx.NewChannel(10, 1)
	require.NoError(t, err)
	control, err := mrx.NewChannel(1, 1)
	require.NoError(t, err)

	require.NoError(t, bulk.Send("bulk"))
	require.NoError(t, control.Send("control"))

	require.Equal(t, "control", mrx.Receive())
	require.Equal(t, "bulk", mrx.Receive())
}

func TestTryReceiveEmpty(t *testing.T) {
	mrx := multichannel.New[int, int]()
	_, ok := mrx.TryReceive()
	require.False(t, ok)

	sender, err := mrx.NewChannel(1, 1)
	require.NoError(t, err)
	_, ok = mrx.TryReceive()
	require.False(t, ok)

	require.NoError(t, sender.Send(42))
	msg, ok := mrx.TryReceive()
	require.True(t, ok)
	require.Equal(t, 42, msg)
	_, ok = mrx.TryReceive()
	require.False(t, ok)
}

func TestReceiveWithTimeout(t *testing.T) {
	mrx := multichannel.New[int, int]()
	sender, err := mrx.NewChannel(1, 1)
	require.NoError(t, err)

	_, err = mrx.ReceiveWithTimeout(10 * time.Millisecond)
	require.ErrorIs(t, err, multichannel.ErrTimeout)

	require.NoError(t, sender.Send(7))
	msg, err := mrx.ReceiveWithTimeout(time.Second)
	require.NoError(t, err)
	require.Equal(t, 7, msg)
}

func TestReceiveWithContextCancelled(t *testing.T) {
	mrx := multichannel.New[int, int]()
	sender, err := mrx.NewChannel(1, 1)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := mrx.ReceiveWithContext(ctx)
		done <- err
	}()

	time.Sleep(time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled receive did not return")
	}

	// Abandoning the wait must not have consumed anything.
	require.NoError(t, sender.Send(1))
	msg, ok := mrx.TryReceive()
	require.True(t, ok)
	require.Equal(t, 1, msg)
}

func TestDynamicRegistrationWakesBlockedReceiver(t *testing.T) {
	mrx := multichannel.New[string, int]()

	received := make(chan string, 1)
	go func() {
		received <- mrx.Receive()
	}()

	// Let the receiver block on an empty channel set first.
	time.Sleep(time.Millisecond)
	sender, err := mrx.NewChannel(1, 1)
	require.NoError(t, err)
	require.NoError(t, sender.Send("late"))

	select {
	case msg := <-received:
		require.Equal(t, "late", msg)
	case <-time.After(time.Second):
		t.Fatal("receiver was not woken by a channel registered after it blocked")
	}
}

func TestRemoveChannelDiscardsBacklog(t *testing.T) {
	mrx := multichannel.New[int, int]()
	sender, err := mrx.NewChannel(1, 1)
	require.NoError(t, err)

	require.NoError(t, sender.Send(1))
	require.NoError(t, sender.Send(2))

	require.NoError(t, mrx.RemoveChannel(sender))
	_, ok := mrx.TryReceive()
	require.False(t, ok, "removal must discard queued messages")
	require.True(t, mrx.NoChannels())

	require.ErrorIs(t, sender.Send(3), multichannel.ErrClosed)

	var notFound *multichannel.NotFoundError
	err = mrx.RemoveChannelByID(sender.ID())
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, sender.ID(), notFound.ID)
}

func TestClosedChannelFinality(t *testing.T) {
	mrx := multichannel.New[int, int]()
	sender, err := mrx.NewChannel(1, 1)
	require.NoError(t, err)

	require.NoError(t, sender.Send(1))
	require.NoError(t, sender.Send(2))
	sender.Close()

	for i := 0; i < 3; i++ {
		require.ErrorIs(t, sender.Send(99), multichannel.ErrClosed)
		require.ErrorIs(t, sender.TrySend(99), multichannel.ErrClosed)
	}

	// The backlog queued before closing stays deliverable.
	require.Equal(t, 1, mrx.Receive())
	require.Equal(t, 2, mrx.Receive())
	_, ok := mrx.TryReceive()
	require.False(t, ok)
}

func TestChannelValidation(t *testing.T) {
	mrx := multichannel.New[int, int]()

	_, err := mrx.NewChannel(1, -1)
	require.ErrorIs(t, err, multichannel.ErrNegativeWeight)

	_, err = mrx.NewChannel(1, 1, multichannel.WithCapacity(0))
	require.ErrorIs(t, err, multichannel.ErrInvalidCapacity)

	_, err = mrx.NewChannel(1, 1, multichannel.WithCapacity(-3))
	require.ErrorIs(t, err, multichannel.ErrInvalidCapacity)

	require.True(t, mrx.NoChannels())
}

func TestWeightZeroNeverSelected(t *testing.T) {
	mrx := multichannel.New[string, int]()
	zero, err := mrx.NewChannel(1, 0)
	require.NoError(t, err)
	one, err := mrx.NewChannel(1, 1)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		require.NoError(t, zero.Send("zero"))
	}
	require.NoError(t, one.Send("one"))

	require.Equal(t, "one", mrx.Receive())

	// The weight 0 channel is ready but unselectable, so nothing is eligible.
	_, ok := mrx.TryReceive()
	require.False(t, ok)
	require.Equal(t, 50, zero.Len())
}

func TestMonotonicChannelIDs(t *testing.T) {
	mrx := multichannel.New[int, int]()
	var last multichannel.ChannelID
	for i := 0; i < 10; i++ {
		sender, err := mrx.NewChannel(i%3, 1)
		require.NoError(t, err)
		if i > 0 {
			require.Greater(t, sender.ID(), last)
		}
		last = sender.ID()
		if i%2 == 0 {
			require.NoError(t, mrx.RemoveChannel(sender))
		}
	}
}

func TestClonedReceiversShareChannels(t *testing.T) {
	mrx := multichannel.New[int, int]()
	clone := mrx.Clone()

	sender, err := clone.NewChannel(1, 1)
	require.NoError(t, err)
	require.Equal(t, 1, mrx.NumChannels())

	require.NoError(t, sender.Send(5))
	msg, ok := mrx.TryReceive()
	require.True(t, ok)
	require.Equal(t, 5, msg)
}

func TestClonedSendersFeedSameChannel(t *testing.T) {
	mrx := multichannel.New[int, int]()
	sender, err := mrx.NewChannel(1, 1)
	require.NoError(t, err)
	clone := sender.Clone()

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		s := sender
		if i == 1 {
			s = clone
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = s.Send(j)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 200, sender.Len())
	require.Equal(t, sender.ID(), clone.ID())
}
