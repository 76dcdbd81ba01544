package eventbus

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type groupCreated struct {
	Name string
}

func TestPublish_DeliversToMatchingSubscriber(t *testing.T) {
	t.Parallel()

	bus := NewEventPublisher(nil)

	var got []string
	bus.Subscribe(func(evt groupCreated) {
		got = append(got, evt.Name)
	})

	bus.Publish(groupCreated{Name: "sakura"})
	require.Equal(t, []string{"sakura"}, got)
}

func TestPublish_SkipsMismatchedSignatures(t *testing.T) {
	t.Parallel()

	bus := NewEventPublisher(nil)

	called := false
	bus.Subscribe(func(evt groupCreated, extra int) {
		called = true
	})

	bus.Publish(groupCreated{Name: "x"})
	require.False(t, called)
}

func TestPublish_RecoversFromHandlerPanic(t *testing.T) {
	t.Parallel()

	bus := NewEventPublisher(nil)

	var secondCalled bool
	bus.Subscribe(func(evt groupCreated) { panic("boom") })
	bus.Subscribe(func(evt groupCreated) { secondCalled = true })

	require.NotPanics(t, func() {
		bus.Publish(groupCreated{Name: "x"})
	})
	require.True(t, secondCalled)
}

func TestUnsubscribe_RemovesHandler(t *testing.T) {
	t.Parallel()

	bus := NewEventPublisher(nil)

	handler := func(evt groupCreated) {}
	bus.Subscribe(handler)
	require.Equal(t, 1, bus.SubscribersCount())

	bus.Unsubscribe(handler)
	require.Equal(t, 0, bus.SubscribersCount())
}
