package core

import (
	"sync"

	"github.com/automock/automock/observe"
)

// SubscriptionCounter wraps one source observable with a derived observable
// that accounts for its subscribers: the lifetime count increments once per
// subscribe, and the active count increments at subscribe time and
// decrements exactly once when the subscription finalizes (unsubscribe,
// error, or complete, whichever happens first).
type SubscriptionCounter[T any] struct {
	mu       sync.Mutex
	lifetime int
	active   int

	counted *observe.Observable[T]
}

// NewSubscriptionCounter wraps the given source. Counts reset only by
// constructing a new counter.
func NewSubscriptionCounter[T any](source *observe.Observable[T]) *SubscriptionCounter[T] {
	c := &SubscriptionCounter[T]{}

	c.counted = observe.New(func(s *observe.Subscriber[T]) {
		c.mu.Lock()
		c.lifetime++
		c.active++
		c.mu.Unlock()

		// Registered before subscribing upstream so a synchronously
		// terminating source still decrements.
		s.OnFinalize(func() {
			c.mu.Lock()
			c.active--
			c.mu.Unlock()
		})

		upstream := source.Subscribe(observe.Observer[T]{
			Next:     s.Next,
			Error:    s.Error,
			Complete: s.Complete,
		})
		s.OnFinalize(upstream.Unsubscribe)
	})

	return c
}

// CountedObservable returns the derived observable whose subscriptions are
// accounted for.
func (c *SubscriptionCounter[T]) CountedObservable() *observe.Observable[T] {
	return c.counted
}

// LifetimeSubscriptionCount returns the total number of subscriptions ever
// made. Monotonically non-decreasing.
func (c *SubscriptionCounter[T]) LifetimeSubscriptionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lifetime
}

// ActiveSubscriptionCount returns the number of not-yet-finalized
// subscriptions.
func (c *SubscriptionCounter[T]) ActiveSubscriptionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.active
}

// HadSubscribers reports whether any subscription was ever made.
func (c *SubscriptionCounter[T]) HadSubscribers() bool {
	return c.LifetimeSubscriptionCount() > 0
}

// HasSubscribers reports whether any subscription is currently active.
func (c *SubscriptionCounter[T]) HasSubscribers() bool {
	return c.ActiveSubscriptionCount() > 0
}

// AllSubscriptionsFinalized reports whether no subscription remains active.
func (c *SubscriptionCounter[T]) AllSubscriptionsFinalized() bool {
	return c.ActiveSubscriptionCount() == 0
}

// SubjectCounter pairs a replayable, externally triggered source with a
// counter wrapping its observable view.
type SubjectCounter[T any] struct {
	Source  *observe.ReplaySubject[T]
	Counter *SubscriptionCounter[T]
}
