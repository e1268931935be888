package core

import "github.com/automock/automock/observe"

// The readers pull one deterministic signal out of an observable from
// straight-line test code. They never block: they rely on the observable
// delivering its signals synchronously during Subscribe (or during the
// supplied action), which is true for every producer this library
// constructs. A genuinely deferred source takes the emission-deficit
// failure path instead of hanging.

// ReadValue subscribes, skips the given number of emissions (default zero),
// and returns the next one. Fails the test when the observable is nil, when
// an error signal arrives instead, or when too few emissions occur.
func ReadValue[T any](t TestReporter, o *observe.Observable[T], skip ...int) T {
	t.Helper()

	return readValue(t, "ReadValue", o, func() {}, skip)
}

// ReadValueAfterAction is ReadValue with a caller-supplied action invoked
// after the subscription is established, so synchronous emissions triggered
// by the action are observable.
func ReadValueAfterAction[T any](t TestReporter, o *observe.Observable[T], action func(), skip ...int) T {
	t.Helper()

	var zero T

	if action == nil {
		t.Fatalf("%v", &ArgumentError{Op: "ReadValueAfterAction", Argument: "action"})

		return zero
	}

	return readValue(t, "ReadValueAfterAction", o, action, skip)
}

func readValue[T any](t TestReporter, op string, o *observe.Observable[T], action func(), skip []int) T {
	t.Helper()

	var zero T

	if o == nil {
		t.Fatalf("%v", &ArgumentError{Op: op, Argument: "observable"})

		return zero
	}

	skipCount := optionalSkip(skip)
	emissions := 0

	var (
		captured    *T
		capturedErr error
	)

	// Count past the skip, so a deficit reports how many emissions actually
	// reached the target position.
	counting := o.Skip(skipCount).Tap(observe.Observer[T]{Next: func(T) { emissions++ }})
	sub := counting.Take(1).Subscribe(observe.Observer[T]{
		Next: func(v T) {
			captured = &v
		},
		Error: func(err error) {
			capturedErr = err
		},
	})

	action()

	if capturedErr != nil {
		t.Fatalf("%v", &UnexpectedSignalError{Op: op, Expected: "value", Payload: capturedErr})

		return zero
	}

	if captured == nil {
		sub.Unsubscribe()
		t.Fatalf("%v", &EmissionDeficitError{Op: op, Skip: skipCount, Observed: emissions})

		return zero
	}

	return *captured
}

// ReadError subscribes and returns the error signal at the target position
// (skip signals in, default zero). A value arriving at the target position
// instead fails wrapping that value; too few signals fails with an emission
// deficit after unsubscribing.
func ReadError[T any](t TestReporter, o *observe.Observable[T], skip ...int) error {
	t.Helper()

	if o == nil {
		t.Fatalf("%v", &ArgumentError{Op: "ReadError", Argument: "observable"})

		return nil
	}

	skipCount := optionalSkip(skip)
	signals := 0

	var (
		captured    error
		capturedSet bool
		badValue    *T
	)

	sub := o.Subscribe(observe.Observer[T]{
		Next: func(v T) {
			signals++
			if signals == skipCount+1 {
				badValue = &v
			}
		},
		Error: func(err error) {
			signals++
			if signals == skipCount+1 {
				captured = err
				capturedSet = true
			}
		},
	})

	if badValue != nil {
		t.Fatalf("%v", &UnexpectedSignalError{Op: "ReadError", Expected: "error", Payload: *badValue})

		return nil
	}

	if !capturedSet {
		sub.Unsubscribe()
		t.Fatalf("%v", &EmissionDeficitError{Op: "ReadError", Skip: skipCount, Observed: observedPastSkip(signals, skipCount)})

		return nil
	}

	return captured
}

// ReadCompletion subscribes and returns true when the completion signal
// arrives at or past the target position. Any value or error observed
// before completion fails immediately, wrapping the offending payload; no
// completion fails with an emission deficit after unsubscribing.
func ReadCompletion[T any](t TestReporter, o *observe.Observable[T], skip ...int) bool {
	t.Helper()

	if o == nil {
		t.Fatalf("%v", &ArgumentError{Op: "ReadCompletion", Argument: "observable"})

		return false
	}

	skipCount := optionalSkip(skip)
	signals := 0
	completed := false

	var (
		offending     any
		offendingSeen bool
	)

	sub := o.Subscribe(observe.Observer[T]{
		Next: func(v T) {
			signals++

			if !offendingSeen {
				offending = v
				offendingSeen = true
			}
		},
		Error: func(err error) {
			signals++

			if !offendingSeen {
				offending = err
				offendingSeen = true
			}
		},
		Complete: func() {
			signals++
			if signals >= skipCount+1 {
				completed = true
			}
		},
	})

	if offendingSeen {
		t.Fatalf("%v", &UnexpectedSignalError{Op: "ReadCompletion", Expected: "completion", Payload: offending})

		return false
	}

	if !completed {
		sub.Unsubscribe()
		t.Fatalf("%v", &EmissionDeficitError{Op: "ReadCompletion", Skip: skipCount, Observed: observedPastSkip(signals, skipCount)})

		return false
	}

	return true
}

func optionalSkip(skip []int) int {
	if len(skip) > 0 && skip[0] > 0 {
		return skip[0]
	}

	return 0
}

// observedPastSkip reports how many signals reached the target position,
// never negative.
func observedPastSkip(signals, skip int) int {
	if signals <= skip {
		return 0
	}

	return signals - skip
}
