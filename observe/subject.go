package observe

import "sync"

// Subject is a manually triggered multicast source. Values pushed with Next
// are delivered to every active subscriber; Error and Complete terminate the
// subject and every subscription. Subscribers arriving after termination
// receive the terminal signal immediately.
type Subject[T any] struct {
	mu        sync.Mutex
	sinks     []*Subscriber[T]
	errored   bool
	err       error
	completed bool
}

// NewSubject creates an empty, unterminated subject.
func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{}
}

// Next pushes a value to all active subscribers. No-op after termination.
func (s *Subject[T]) Next(value T) {
	s.mu.Lock()

	if s.errored || s.completed {
		s.mu.Unlock()

		return
	}

	sinks := make([]*Subscriber[T], len(s.sinks))
	copy(sinks, s.sinks)
	s.mu.Unlock()

	for _, sink := range sinks {
		sink.Next(value)
	}
}

// Error terminates the subject with an error, delivering it to all active
// subscribers and to any future subscriber. No-op after termination.
func (s *Subject[T]) Error(err error) {
	s.mu.Lock()

	if s.errored || s.completed {
		s.mu.Unlock()

		return
	}

	s.errored = true
	s.err = err
	sinks := s.sinks
	s.sinks = nil
	s.mu.Unlock()

	for _, sink := range sinks {
		sink.Error(err)
	}
}

// Complete terminates the subject, completing all active subscriptions and
// any future subscriber. No-op after termination.
func (s *Subject[T]) Complete() {
	s.mu.Lock()

	if s.errored || s.completed {
		s.mu.Unlock()

		return
	}

	s.completed = true
	sinks := s.sinks
	s.sinks = nil
	s.mu.Unlock()

	for _, sink := range sinks {
		sink.Complete()
	}
}

// AsObservable returns the subject's read-only view. Each subscription to
// the view attaches to the subject for live delivery.
func (s *Subject[T]) AsObservable() *Observable[T] {
	return New(func(sink *Subscriber[T]) {
		s.attach(sink)
	})
}

// Subscribe attaches an observer directly to the subject.
func (s *Subject[T]) Subscribe(obs Observer[T]) *Subscription {
	return s.AsObservable().Subscribe(obs)
}

// attach registers a sink for live delivery, or delivers the terminal signal
// immediately when the subject has already terminated.
func (s *Subject[T]) attach(sink *Subscriber[T]) {
	s.mu.Lock()

	if s.errored {
		err := s.err
		s.mu.Unlock()
		sink.Error(err)

		return
	}

	if s.completed {
		s.mu.Unlock()
		sink.Complete()

		return
	}

	s.sinks = append(s.sinks, sink)
	s.mu.Unlock()

	sink.OnFinalize(func() {
		s.detach(sink)
	})
}

// detach removes a sink after its subscription finalizes.
func (s *Subject[T]) detach(sink *Subscriber[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, candidate := range s.sinks {
		if candidate == sink {
			s.sinks = append(s.sinks[:i], s.sinks[i+1:]...)

			return
		}
	}
}

// ReplaySubject is a Subject that additionally redelivers up to bufferSize
// of its most recent values to each new subscriber before live delivery.
type ReplaySubject[T any] struct {
	subject Subject[T]

	bufMu  sync.Mutex
	buffer []T
	size   int
}

// NewReplaySubject creates a replayable subject with the given buffer size.
// Sizes below one are clamped to one.
func NewReplaySubject[T any](bufferSize int) *ReplaySubject[T] {
	if bufferSize < 1 {
		bufferSize = 1
	}

	return &ReplaySubject[T]{size: bufferSize}
}

// Next records the value in the replay buffer and pushes it to all active
// subscribers.
func (r *ReplaySubject[T]) Next(value T) {
	r.bufMu.Lock()

	r.buffer = append(r.buffer, value)
	if len(r.buffer) > r.size {
		r.buffer = r.buffer[len(r.buffer)-r.size:]
	}

	r.bufMu.Unlock()

	r.subject.Next(value)
}

// Error terminates the subject with an error. The replay buffer is still
// delivered to late subscribers before the error signal.
func (r *ReplaySubject[T]) Error(err error) {
	r.subject.Error(err)
}

// Complete terminates the subject. The replay buffer is still delivered to
// late subscribers before the completion signal.
func (r *ReplaySubject[T]) Complete() {
	r.subject.Complete()
}

// AsObservable returns the replayable read-only view.
func (r *ReplaySubject[T]) AsObservable() *Observable[T] {
	return New(func(sink *Subscriber[T]) {
		r.bufMu.Lock()
		buffered := make([]T, len(r.buffer))
		copy(buffered, r.buffer)
		r.bufMu.Unlock()

		for _, v := range buffered {
			if sink.Closed() {
				return
			}

			sink.Next(v)
		}

		r.subject.attach(sink)
	})
}

// Subscribe attaches an observer, replaying buffered values first.
func (r *ReplaySubject[T]) Subscribe(obs Observer[T]) *Subscription {
	return r.AsObservable().Subscribe(obs)
}
