// Package automock provides automatic mock generation for struct-shaped
// classes and synchronous inspection of observable streams in tests.
//
// A mock is built by binding recording, behavior-configurable stand-ins
// (spies) over a struct's func-typed fields; observable-returning behavior
// is configured through AutoMockerPlus; and the Read* functions pull a
// deterministic value, error, or completion signal out of an observable
// without leaving the synchronous test body.
//
// This is the public API entry point. Implementation lives in internal/core.
package automock

import (
	"math/rand/v2"

	"github.com/automock/automock/internal/core"
	"github.com/automock/automock/observe"
)

// TestReporter is the minimal interface automock needs from test
// frameworks. *testing.T satisfies it.
type TestReporter = core.TestReporter

// Accessor selects one direction of an accessor pair.
type Accessor = core.Accessor

const (
	// Getter selects the read direction of an accessor pair.
	Getter = core.Getter
	// Setter selects the write direction of an accessor pair.
	Setter = core.Setter
)

// DefaultSpyLabel is the marker used when a configuration helper is invoked
// without a caller-supplied description.
const DefaultSpyLabel = core.DefaultSpyLabel

// AutoMocker synthesizes mock instances from struct types and recursively
// substitutes arbitrary object graphs with recording stand-ins.
type AutoMocker = core.AutoMocker

// AutoMockerOption configures a new AutoMocker.
type AutoMockerOption = core.AutoMockerOption

// NewAutoMocker creates an AutoMocker reporting failures through t.
func NewAutoMocker(t TestReporter, options ...AutoMockerOption) *AutoMocker {
	return core.NewAutoMocker(t, options...)
}

// WithMaxDepth sets the default recursion depth for Mock.
func WithMaxDepth(depth int) AutoMockerOption {
	return core.WithMaxDepth(depth)
}

// WithRand injects the randomness source used for synthetic substitution
// values, for deterministic tests.
func WithRand(rng *rand.Rand) AutoMockerOption {
	return core.WithRand(rng)
}

// MockClassOption configures one MockClass call.
type MockClassOption = core.MockClassOption

// WithAdditionalMethods registers extra member names to receive stand-ins
// beyond the discovered method fields.
func WithAdditionalMethods(names ...string) MockClassOption {
	return core.WithAdditionalMethods(names...)
}

// WithIgnoredProperties excludes the named accessor pairs from stand-in
// installation.
func WithIgnoredProperties(names ...string) MockClassOption {
	return core.WithIgnoredProperties(names...)
}

// WithIgnoreAllProperties skips accessor installation entirely.
func WithIgnoreAllProperties() MockClassOption {
	return core.WithIgnoreAllProperties()
}

// MockClass builds a mock instance of the struct type T: every discovered
// method field becomes a recording spy, and every discovered accessor pair
// (unless ignored) becomes a getter/setter spy pair.
func MockClass[T any](m *AutoMocker, options ...MockClassOption) *T {
	return core.MockClass[T](m, options...)
}

// AutoMockerPlus extends AutoMocker with observable- and deferred-result
// configuration helpers.
type AutoMockerPlus = core.AutoMockerPlus

// NewAutoMockerPlus creates an AutoMockerPlus reporting failures through t.
func NewAutoMockerPlus(t TestReporter, options ...AutoMockerOption) *AutoMockerPlus {
	return core.NewAutoMockerPlus(t, options...)
}

// NotASpyError reports that a configuration helper was invoked on a value
// that is not a recognized stand-in.
type NotASpyError = core.NotASpyError

// ArgumentError reports a missing or unusable required argument.
type ArgumentError = core.ArgumentError

// UnexpectedSignalError reports that a reader expected one signal kind at
// the target position but observed a different kind first.
type UnexpectedSignalError = core.UnexpectedSignalError

// EmissionDeficitError reports that fewer signals occurred than the
// requested skip position required.
type EmissionDeficitError = core.EmissionDeficitError

// SubscriptionCounter wraps one source observable with a derived observable
// that accounts for lifetime and currently-active subscriptions.
type SubscriptionCounter[T any] = core.SubscriptionCounter[T]

// SubjectCounter pairs a replayable, externally triggered source with a
// counter wrapping its observable view.
type SubjectCounter[T any] = core.SubjectCounter[T]

// NewSubscriptionCounter wraps the given source observable in a counter.
func NewSubscriptionCounter[T any](source *observe.Observable[T]) *SubscriptionCounter[T] {
	return core.NewSubscriptionCounter(source)
}

// ReadValue subscribes, skips the given number of emissions (default zero),
// and returns the next one, failing the test on error signals, a nil
// observable, or too few emissions.
func ReadValue[T any](t TestReporter, o *observe.Observable[T], skip ...int) T {
	t.Helper()

	return core.ReadValue(t, o, skip...)
}

// ReadValueAfterAction is ReadValue with a caller-supplied action invoked
// after the subscription is established, so synchronous emissions triggered
// by the action are observable.
func ReadValueAfterAction[T any](t TestReporter, o *observe.Observable[T], action func(), skip ...int) T {
	t.Helper()

	return core.ReadValueAfterAction(t, o, action, skip...)
}

// ReadError subscribes and returns the error signal at the target position,
// failing the test when a value arrives there instead or too few signals
// occur.
func ReadError[T any](t TestReporter, o *observe.Observable[T], skip ...int) error {
	t.Helper()

	return core.ReadError(t, o, skip...)
}

// ReadCompletion subscribes and returns true when the completion signal
// arrives, failing the test when any value or error is observed first.
func ReadCompletion[T any](t TestReporter, o *observe.Observable[T], skip ...int) bool {
	t.Helper()

	return core.ReadCompletion(t, o, skip...)
}

// WithReturnObservable makes the spy return a single-value-then-complete
// observable of value (zero value when omitted), and returns it.
func WithReturnObservable[T any](p *AutoMockerPlus, target any, value ...T) *observe.Observable[T] {
	return core.WithReturnObservable(p, target, value...)
}

// WithReturnNonEmittingObservable makes the spy return an observable that
// never emits, errors, or completes, and returns it.
func WithReturnNonEmittingObservable[T any](p *AutoMockerPlus, target any) *observe.Observable[T] {
	return core.WithReturnNonEmittingObservable[T](p, target)
}

// WithReturnCompletingCountedObservable installs a counted
// single-value-then-complete observable and returns the counter.
func WithReturnCompletingCountedObservable[T any](
	p *AutoMockerPlus,
	target any,
	value ...T,
) *SubscriptionCounter[T] {
	return core.WithReturnCompletingCountedObservable(p, target, value...)
}

// WithReturnNonCompletingCountedObservable installs a counted
// never-completing observable that immediately emits value (or nothing when
// omitted) and returns the counter.
func WithReturnNonCompletingCountedObservable[T any](
	p *AutoMockerPlus,
	target any,
	value ...T,
) *SubscriptionCounter[T] {
	return core.WithReturnNonCompletingCountedObservable(p, target, value...)
}

// WithReturnObservables normalizes raw values and observables into a
// sequence of observables installed as successive spy returns.
func WithReturnObservables[T any](p *AutoMockerPlus, target any, values ...any) []*observe.Observable[T] {
	return core.WithReturnObservables[T](p, target, values...)
}

// WithReturnThrowObservable makes the spy return an observable that
// immediately errors with an error wrapping payload.
func WithReturnThrowObservable[T any](p *AutoMockerPlus, target any, payload ...any) *observe.Observable[T] {
	return core.WithReturnThrowObservable[T](p, target, payload...)
}

// WithFirstArgMappedReturnObservable installs a behavior that looks up each
// call's first argument in table and returns an observable of the mapped
// value, or of defaultValue when absent.
func WithFirstArgMappedReturnObservable[K comparable, T any](
	p *AutoMockerPlus,
	target any,
	table map[K]T,
	defaultValue ...T,
) {
	core.WithFirstArgMappedReturnObservable(p, target, table, defaultValue...)
}

// WithReplaySubjectProperty assigns a replayable source's read-only view to
// the named observable field of target and returns the source.
func WithReplaySubjectProperty[T any](
	p *AutoMockerPlus,
	target any,
	property string,
	bufferSize int,
	initialValue ...T,
) *observe.ReplaySubject[T] {
	return core.WithReplaySubjectProperty(p, target, property, bufferSize, initialValue...)
}

// WithCountedReplaySubjectProperty is WithReplaySubjectProperty with the
// assigned view additionally wrapped in a SubscriptionCounter.
func WithCountedReplaySubjectProperty[T any](
	p *AutoMockerPlus,
	target any,
	property string,
	bufferSize int,
	initialValue ...T,
) *SubjectCounter[T] {
	return core.WithCountedReplaySubjectProperty(p, target, property, bufferSize, initialValue...)
}

// WithReturnSubjectAsObservable makes the spy return the read-only view of
// a fresh multicast source and returns the source.
func WithReturnSubjectAsObservable[T any](p *AutoMockerPlus, target any) *observe.Subject[T] {
	return core.WithReturnSubjectAsObservable[T](p, target)
}

// WithReturnSubjectWithErrorAsObservable makes the spy return the read-only
// view of a multicast source that has already errored with payload (or a
// default error when omitted) and returns the source.
func WithReturnSubjectWithErrorAsObservable[T any](
	p *AutoMockerPlus,
	target any,
	payload ...any,
) *observe.Subject[T] {
	return core.WithReturnSubjectWithErrorAsObservable[T](p, target, payload...)
}

// WithReturnResolved makes a (T, error)-shaped spy return the given value
// with a nil error, the already-resolved deferred result.
func WithReturnResolved[T any](p *AutoMockerPlus, target any, value ...T) T {
	return core.WithReturnResolved(p, target, value...)
}

// WithReturnRejected makes a (T, error)-shaped spy return a zero value with
// an error wrapping reason, the already-rejected deferred result.
func WithReturnRejected[T any](p *AutoMockerPlus, target any, reason ...any) error {
	return core.WithReturnRejected[T](p, target, reason...)
}
