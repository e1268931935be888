// Package observe provides cold, synchronous observable streams for use in
// test doubles: push-based multi-value emission, error and completion
// signals, composable operators, and externally triggered multicast subjects.
//
// All producers constructed by this package deliver their signals
// synchronously, within the call to Subscribe (or within the call that
// triggers a subject). That property is what allows observable-returning
// mocks to be inspected from straight-line test code.
package observe

import "sync"

// Observer bundles the callbacks a subscriber reacts with. Any of the
// fields may be nil; missing callbacks drop their signal silently.
type Observer[T any] struct {
	Next     func(T)
	Error    func(error)
	Complete func()
}

// Subscription is the handle returned by Subscribe. Finalization happens at
// most once per subscription, whether it comes from Unsubscribe or from a
// terminal error/complete signal, and always runs the registered teardowns.
type Subscription struct {
	mu        sync.Mutex
	closed    bool
	teardowns []func()
}

// Closed reports whether the subscription has finalized.
func (s *Subscription) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

// Unsubscribe finalizes the subscription and runs its teardowns. Calling it
// again after finalization is a no-op.
func (s *Subscription) Unsubscribe() {
	if !s.close() {
		return
	}

	s.runTeardowns()
}

// OnFinalize registers a teardown to run when the subscription finalizes.
// If the subscription has already finalized, the teardown runs immediately.
func (s *Subscription) OnFinalize(teardown func()) {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()
		teardown()

		return
	}

	s.teardowns = append(s.teardowns, teardown)
	s.mu.Unlock()
}

// close marks the subscription finalized. Returns false if it already was.
func (s *Subscription) close() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	s.closed = true

	return true
}

// runTeardowns drains and runs the registered teardowns outside the lock.
func (s *Subscription) runTeardowns() {
	s.mu.Lock()
	teardowns := s.teardowns
	s.teardowns = nil
	s.mu.Unlock()

	for _, teardown := range teardowns {
		teardown()
	}
}

// Subscriber is the producer-facing side of a subscription. Producers push
// signals into it; it enforces the terminal-at-most-once contract and stops
// forwarding once the subscription finalizes.
type Subscriber[T any] struct {
	sub *Subscription
	obs Observer[T]
}

// Next delivers a value unless the subscription has finalized.
func (s *Subscriber[T]) Next(value T) {
	if s.sub.Closed() {
		return
	}

	if s.obs.Next != nil {
		s.obs.Next(value)
	}
}

// Error delivers the terminal error signal, then finalizes the subscription
// and runs teardowns. Subsequent signals are dropped.
func (s *Subscriber[T]) Error(err error) {
	if !s.sub.close() {
		return
	}

	if s.obs.Error != nil {
		s.obs.Error(err)
	}

	s.sub.runTeardowns()
}

// Complete delivers the terminal completion signal, then finalizes the
// subscription and runs teardowns. Subsequent signals are dropped.
func (s *Subscriber[T]) Complete() {
	if !s.sub.close() {
		return
	}

	if s.obs.Complete != nil {
		s.obs.Complete()
	}

	s.sub.runTeardowns()
}

// Closed reports whether the downstream subscription has finalized.
func (s *Subscriber[T]) Closed() bool {
	return s.sub.Closed()
}

// OnFinalize registers a teardown on the downstream subscription.
func (s *Subscriber[T]) OnFinalize(teardown func()) {
	s.sub.OnFinalize(teardown)
}

// Observable is a cold, push-based producer. Each Subscribe call runs the
// producer function against a fresh subscriber.
type Observable[T any] struct {
	producer func(*Subscriber[T])
}

// New creates an observable from a producer function. The producer may emit
// synchronously during Subscribe and may register teardowns via OnFinalize.
func New[T any](producer func(*Subscriber[T])) *Observable[T] {
	return &Observable[T]{producer: producer}
}

// Subscribe runs the producer against the given observer and returns the
// subscription handle. For the synchronous producers this package builds,
// all signals are delivered before Subscribe returns.
func (o *Observable[T]) Subscribe(obs Observer[T]) *Subscription {
	sub := &Subscription{}
	o.producer(&Subscriber[T]{sub: sub, obs: obs})

	return sub
}

// Of emits the given values in order, then completes.
func Of[T any](values ...T) *Observable[T] {
	return New(func(s *Subscriber[T]) {
		for _, v := range values {
			if s.Closed() {
				return
			}

			s.Next(v)
		}

		s.Complete()
	})
}

// Empty completes immediately without emitting.
func Empty[T any]() *Observable[T] {
	return New(func(s *Subscriber[T]) {
		s.Complete()
	})
}

// Never neither emits nor terminates.
func Never[T any]() *Observable[T] {
	return New(func(_ *Subscriber[T]) {})
}

// Throw errors immediately with the given error.
func Throw[T any](err error) *Observable[T] {
	return New(func(s *Subscriber[T]) {
		s.Error(err)
	})
}
