package observe

// Skip drops the first count emissions and forwards everything after.
func (o *Observable[T]) Skip(count int) *Observable[T] {
	return New(func(s *Subscriber[T]) {
		seen := 0
		upstream := o.Subscribe(Observer[T]{
			Next: func(v T) {
				seen++
				if seen > count {
					s.Next(v)
				}
			},
			Error:    s.Error,
			Complete: s.Complete,
		})
		s.OnFinalize(upstream.Unsubscribe)
	})
}

// Take forwards the first count emissions, then completes. A count of zero
// completes immediately.
func (o *Observable[T]) Take(count int) *Observable[T] {
	return New(func(s *Subscriber[T]) {
		if count <= 0 {
			s.Complete()

			return
		}

		taken := 0
		upstream := o.Subscribe(Observer[T]{
			Next: func(v T) {
				if taken >= count {
					return
				}

				taken++
				s.Next(v)

				if taken == count {
					s.Complete()
				}
			},
			Error:    s.Error,
			Complete: s.Complete,
		})
		s.OnFinalize(upstream.Unsubscribe)
	})
}

// Tap runs the given observer's callbacks as side effects for each signal,
// then forwards the signal unchanged.
func (o *Observable[T]) Tap(side Observer[T]) *Observable[T] {
	return New(func(s *Subscriber[T]) {
		upstream := o.Subscribe(Observer[T]{
			Next: func(v T) {
				if side.Next != nil {
					side.Next(v)
				}

				s.Next(v)
			},
			Error: func(err error) {
				if side.Error != nil {
					side.Error(err)
				}

				s.Error(err)
			},
			Complete: func() {
				if side.Complete != nil {
					side.Complete()
				}

				s.Complete()
			},
		})
		s.OnFinalize(upstream.Unsubscribe)
	})
}

// Filter forwards only the emissions for which keep returns true.
func (o *Observable[T]) Filter(keep func(T) bool) *Observable[T] {
	return New(func(s *Subscriber[T]) {
		upstream := o.Subscribe(Observer[T]{
			Next: func(v T) {
				if keep(v) {
					s.Next(v)
				}
			},
			Error:    s.Error,
			Complete: s.Complete,
		})
		s.OnFinalize(upstream.Unsubscribe)
	})
}

// StartWith emits the given seed values before subscribing to the source.
func (o *Observable[T]) StartWith(values ...T) *Observable[T] {
	return New(func(s *Subscriber[T]) {
		for _, v := range values {
			if s.Closed() {
				return
			}

			s.Next(v)
		}

		upstream := o.Subscribe(Observer[T]{
			Next:     s.Next,
			Error:    s.Error,
			Complete: s.Complete,
		})
		s.OnFinalize(upstream.Unsubscribe)
	})
}

// Map transforms each emission with the given function. It is a package
// function because methods cannot introduce type parameters.
func Map[T, U any](o *Observable[T], transform func(T) U) *Observable[U] {
	return New(func(s *Subscriber[U]) {
		upstream := o.Subscribe(Observer[T]{
			Next: func(v T) {
				s.Next(transform(v))
			},
			Error:    s.Error,
			Complete: s.Complete,
		})
		s.OnFinalize(upstream.Unsubscribe)
	})
}
