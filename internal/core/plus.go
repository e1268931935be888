package core

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/automock/automock/observe"
)

// AutoMockerPlus extends AutoMocker with observable- and deferred-result
// configuration helpers. The helpers themselves are package-level generic
// functions taking the mocker as their first argument, because methods
// cannot introduce type parameters.
type AutoMockerPlus struct {
	*AutoMocker
}

// NewAutoMockerPlus creates an AutoMockerPlus reporting failures through t.
func NewAutoMockerPlus(t TestReporter, options ...AutoMockerOption) *AutoMockerPlus {
	return &AutoMockerPlus{AutoMocker: NewAutoMocker(t, options...)}
}

// WithReturnObservable makes the spy return a single-value-then-complete
// observable of value (zero value when omitted), and returns that
// observable.
func WithReturnObservable[T any](p *AutoMockerPlus, target any, value ...T) *observe.Observable[T] {
	p.t.Helper()

	s := p.requireSpy("WithReturnObservable", target)
	if s == nil {
		return nil
	}

	o := observe.Of(optionalValue(value))
	s.SetReturn(o)

	return o
}

// WithReturnNonEmittingObservable makes the spy return an observable that
// never emits, errors, or completes, and returns it.
func WithReturnNonEmittingObservable[T any](p *AutoMockerPlus, target any) *observe.Observable[T] {
	p.t.Helper()

	s := p.requireSpy("WithReturnNonEmittingObservable", target)
	if s == nil {
		return nil
	}

	o := observe.Never[T]()
	s.SetReturn(o)

	return o
}

// WithReturnCompletingCountedObservable wraps a single-value-then-complete
// observable in a SubscriptionCounter, installs the counted observable as
// the spy's return, and returns the counter.
func WithReturnCompletingCountedObservable[T any](
	p *AutoMockerPlus,
	target any,
	value ...T,
) *SubscriptionCounter[T] {
	p.t.Helper()

	s := p.requireSpy("WithReturnCompletingCountedObservable", target)
	if s == nil {
		return nil
	}

	counter := NewSubscriptionCounter(observe.Of(optionalValue(value)))
	s.SetReturn(counter.CountedObservable())

	return counter
}

// WithReturnNonCompletingCountedObservable wraps a never-completing
// observable that immediately emits value (or nothing when omitted) in a
// SubscriptionCounter, installs the counted observable, and returns the
// counter.
func WithReturnNonCompletingCountedObservable[T any](
	p *AutoMockerPlus,
	target any,
	value ...T,
) *SubscriptionCounter[T] {
	p.t.Helper()

	s := p.requireSpy("WithReturnNonCompletingCountedObservable", target)
	if s == nil {
		return nil
	}

	source := observe.Never[T]()
	if len(value) > 0 {
		source = source.StartWith(value[0])
	}

	counter := NewSubscriptionCounter(source)
	s.SetReturn(counter.CountedObservable())

	return counter
}

// WithReturnObservables normalizes a heterogeneous sequence of raw values
// and already-observable values into observables (raw values become
// single-emit-then-complete), installs them as the spy's successive return
// values, and returns the normalized sequence.
func WithReturnObservables[T any](p *AutoMockerPlus, target any, values ...any) []*observe.Observable[T] {
	p.t.Helper()

	s := p.requireSpy("WithReturnObservables", target)
	if s == nil {
		return nil
	}

	normalized := make([]*observe.Observable[T], 0, len(values))

	for i, value := range values {
		switch v := value.(type) {
		case *observe.Observable[T]:
			normalized = append(normalized, v)
		case T:
			normalized = append(normalized, observe.Of(v))
		case nil:
			var zero T
			normalized = append(normalized, observe.Of(zero))
		default:
			p.t.Fatalf("%v", &ArgumentError{
				Op:       "WithReturnObservables",
				Argument: "values",
				Reason:   fmt.Sprintf("element %d has type %T, want %T or an observable of it", i, value, *new(T)),
			})

			return nil
		}
	}

	sequence := make([]any, len(normalized))
	for i, o := range normalized {
		sequence[i] = o
	}

	s.SetReturnSequence(sequence...)

	return normalized
}

// WithReturnThrowObservable makes the spy return an observable that
// immediately errors with an error wrapping payload, and returns the
// observable.
func WithReturnThrowObservable[T any](p *AutoMockerPlus, target any, payload ...any) *observe.Observable[T] {
	p.t.Helper()

	s := p.requireSpy("WithReturnThrowObservable", target)
	if s == nil {
		return nil
	}

	o := observe.Throw[T](payloadError(payload))
	s.SetReturn(o)

	return o
}

// WithFirstArgMappedReturnObservable installs a behavior that, per
// invocation, looks up the call's first argument in table and returns a
// single-emit-then-complete observable of the mapped value, or of
// defaultValue (zero value when omitted) if absent.
func WithFirstArgMappedReturnObservable[K comparable, T any](
	p *AutoMockerPlus,
	target any,
	table map[K]T,
	defaultValue ...T,
) {
	p.t.Helper()

	s := p.requireSpy("WithFirstArgMappedReturnObservable", target)
	if s == nil {
		return
	}

	lookup := make(map[any]any, len(table))
	for key, value := range table {
		lookup[key] = observe.Of(value)
	}

	s.SetFirstArgMap(lookup, observe.Of(optionalValue(defaultValue)))
}

// WithReplaySubjectProperty creates a replayable multicast source with the
// given buffer size, assigns its read-only view to the named observable
// field of target, pushes initialValue when given, and returns the source
// for further pushes.
func WithReplaySubjectProperty[T any](
	p *AutoMockerPlus,
	target any,
	property string,
	bufferSize int,
	initialValue ...T,
) *observe.ReplaySubject[T] {
	p.t.Helper()

	subject := observe.NewReplaySubject[T](bufferSize)
	if !p.assignObservableProperty("WithReplaySubjectProperty", target, property, subject.AsObservable()) {
		return nil
	}

	if len(initialValue) > 0 {
		subject.Next(initialValue[0])
	}

	return subject
}

// WithCountedReplaySubjectProperty is WithReplaySubjectProperty with the
// assigned view additionally wrapped in a SubscriptionCounter. Returns the
// source and the counter.
func WithCountedReplaySubjectProperty[T any](
	p *AutoMockerPlus,
	target any,
	property string,
	bufferSize int,
	initialValue ...T,
) *SubjectCounter[T] {
	p.t.Helper()

	subject := observe.NewReplaySubject[T](bufferSize)
	counter := NewSubscriptionCounter(subject.AsObservable())

	op := "WithCountedReplaySubjectProperty"
	if !p.assignObservableProperty(op, target, property, counter.CountedObservable()) {
		return nil
	}

	if len(initialValue) > 0 {
		subject.Next(initialValue[0])
	}

	return &SubjectCounter[T]{Source: subject, Counter: counter}
}

// WithReturnSubjectAsObservable makes the spy return the read-only view of
// a fresh, not-yet-terminated multicast source, and returns the source for
// the test to push, error, or complete.
func WithReturnSubjectAsObservable[T any](p *AutoMockerPlus, target any) *observe.Subject[T] {
	p.t.Helper()

	s := p.requireSpy("WithReturnSubjectAsObservable", target)
	if s == nil {
		return nil
	}

	subject := observe.NewSubject[T]()
	s.SetReturn(subject.AsObservable())

	return subject
}

// WithReturnSubjectWithErrorAsObservable creates a multicast source,
// immediately errors it with an error wrapping payload (or a default error
// when omitted), installs its read-only view as the spy's return, and
// returns the source.
func WithReturnSubjectWithErrorAsObservable[T any](
	p *AutoMockerPlus,
	target any,
	payload ...any,
) *observe.Subject[T] {
	p.t.Helper()

	s := p.requireSpy("WithReturnSubjectWithErrorAsObservable", target)
	if s == nil {
		return nil
	}

	subject := observe.NewSubject[T]()
	subject.Error(payloadError(payload))
	s.SetReturn(subject.AsObservable())

	return subject
}

// WithReturnResolved makes a (T, error)-shaped spy return the given value
// (zero value when omitted) with a nil error, the already-resolved deferred
// result. Returns the value.
func WithReturnResolved[T any](p *AutoMockerPlus, target any, value ...T) T {
	p.t.Helper()

	resolved := optionalValue(value)

	s := p.requireSpy("WithReturnResolved", target)
	if s == nil {
		return resolved
	}

	s.SetReturn(resolved, nil)

	return resolved
}

// WithReturnRejected makes a (T, error)-shaped spy return a zero value with
// an error wrapping reason, the already-rejected deferred result. Returns
// the error.
func WithReturnRejected[T any](p *AutoMockerPlus, target any, reason ...any) error {
	p.t.Helper()

	rejection := payloadError(reason)

	s := p.requireSpy("WithReturnRejected", target)
	if s == nil {
		return rejection
	}

	var zero T
	s.SetReturn(zero, rejection)

	return rejection
}

// assignObservableProperty sets an observable-typed field of target via
// reflection, failing the test when the field is absent or incompatible.
func (p *AutoMockerPlus) assignObservableProperty(op string, target any, property string, view any) bool {
	p.t.Helper()

	value := reflect.ValueOf(target)
	if !value.IsValid() || value.Kind() != reflect.Ptr || value.IsNil() || value.Elem().Kind() != reflect.Struct {
		p.t.Fatalf("%v", &ArgumentError{
			Op:       op,
			Argument: "target",
			Reason:   fmt.Sprintf("must be a non-nil pointer to a struct, got %T", target),
		})

		return false
	}

	field := value.Elem().FieldByName(property)
	if !field.IsValid() || !field.CanSet() {
		p.t.Fatalf("%v", &ArgumentError{
			Op:       op,
			Argument: "property",
			Reason:   fmt.Sprintf("no settable field %q on %T", property, target),
		})

		return false
	}

	viewValue := reflect.ValueOf(view)
	if !viewValue.Type().AssignableTo(field.Type()) {
		p.t.Fatalf("%v", &ArgumentError{
			Op:       op,
			Argument: "property",
			Reason:   fmt.Sprintf("field %q has type %s, want %s", property, field.Type(), viewValue.Type()),
		})

		return false
	}

	field.Set(viewValue)

	return true
}

// payloadError normalizes an optional error payload: errors pass through,
// strings become errors, anything else is formatted, and an omitted payload
// becomes a generic spy error.
func payloadError(payload []any) error {
	if len(payload) == 0 || payload[0] == nil {
		return errors.New("error given by spy")
	}

	switch v := payload[0].(type) {
	case error:
		return v
	case string:
		return errors.New(v)
	default:
		return fmt.Errorf("%v", v)
	}
}

func optionalValue[T any](values []T) T {
	if len(values) > 0 {
		return values[0]
	}

	var zero T

	return zero
}
