package core

import (
	"fmt"
	"math/rand/v2"
	"reflect"
	"sync"
	"unsafe"

	"github.com/automock/automock/spy"
)

// TestReporter is the minimal interface automock needs from test frameworks.
type TestReporter interface {
	Helper()
	Fatalf(format string, args ...any)
	Logf(format string, args ...any)
}

// Accessor selects one direction of an accessor pair.
type Accessor string

const (
	// Getter selects the read direction of an accessor pair.
	Getter Accessor = "get"
	// Setter selects the write direction of an accessor pair.
	Setter Accessor = "set"
)

const defaultMaxDepth = 1

// AutoMocker synthesizes mock instances from struct types and recursively
// substitutes arbitrary object graphs with recording stand-ins. All
// configuration helpers verify their target is a recognized stand-in and
// fail the owning test otherwise.
type AutoMocker struct {
	t        TestReporter
	maxDepth int
	rng      *rand.Rand

	mu        sync.Mutex
	instances map[any]map[string]*spy.Spy
	installed map[uintptr]*spy.Spy
}

// AutoMockerOption configures a new AutoMocker.
type AutoMockerOption func(*AutoMocker)

// WithMaxDepth sets the default recursion depth for Mock.
func WithMaxDepth(depth int) AutoMockerOption {
	return func(m *AutoMocker) {
		m.maxDepth = depth
	}
}

// WithRand injects the randomness source used for synthetic substitution
// values, for deterministic tests.
func WithRand(rng *rand.Rand) AutoMockerOption {
	return func(m *AutoMocker) {
		m.rng = rng
	}
}

// NewAutoMocker creates an AutoMocker reporting failures through t.
func NewAutoMocker(t TestReporter, options ...AutoMockerOption) *AutoMocker {
	m := &AutoMocker{
		t:         t,
		maxDepth:  defaultMaxDepth,
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		instances: map[any]map[string]*spy.Spy{},
		installed: map[uintptr]*spy.Spy{},
	}

	for _, option := range options {
		option(m)
	}

	return m
}

// mockClassOptions is the merged configuration for one MockClass call.
type mockClassOptions struct {
	additionalMethods   []string
	ignoredProperties   map[string]bool
	ignoreAllProperties bool
}

// MockClassOption configures one MockClass call.
type MockClassOption func(*mockClassOptions)

// WithAdditionalMethods registers extra member names to receive stand-ins
// beyond the discovered method fields.
func WithAdditionalMethods(names ...string) MockClassOption {
	return func(o *mockClassOptions) {
		o.additionalMethods = append(o.additionalMethods, names...)
	}
}

// WithIgnoredProperties excludes the named accessor pairs from stand-in
// installation.
func WithIgnoredProperties(names ...string) MockClassOption {
	return func(o *mockClassOptions) {
		for _, name := range names {
			o.ignoredProperties[name] = true
		}
	}
}

// WithIgnoreAllProperties skips accessor installation entirely.
func WithIgnoreAllProperties() MockClassOption {
	return func(o *mockClassOptions) {
		o.ignoreAllProperties = true
	}
}

// MockClass builds a mock instance of the struct type T. Every discovered
// method field is bound to a fresh recording spy named after the type and
// member, and every discovered accessor pair (unless ignored) is bound to a
// getter spy returning zero values and a setter spy doing nothing. When the
// union of discovered and additional method names is empty, the plain zero
// instance is returned with nothing installed.
//
// MockClass is package-level because methods cannot introduce type
// parameters.
func MockClass[T any](m *AutoMocker, options ...MockClassOption) *T {
	m.t.Helper()

	opts := mockClassOptions{ignoredProperties: map[string]bool{}}
	for _, option := range options {
		option(&opts)
	}

	target := new(T)

	structType := reflect.TypeOf(target).Elem()
	if structType.Kind() != reflect.Struct {
		m.t.Fatalf("%v", &ArgumentError{
			Op:       "MockClass",
			Argument: "T",
			Reason:   fmt.Sprintf("must be a struct type, got %s", structType.Kind()),
		})

		return target
	}

	members := scanMembers(structType)

	methods := make([]string, 0, len(members.methods)+len(opts.additionalMethods))
	methods = append(methods, members.methods...)

	for _, name := range opts.additionalMethods {
		if !containsString(methods, name) {
			methods = append(methods, name)
		}
	}

	if len(methods) == 0 {
		return target
	}

	className := structType.Name()
	if className == "" {
		className = structType.String()
	}

	structValue := reflect.ValueOf(target).Elem()
	initEmbeddedPointers(structValue)

	spies := map[string]*spy.Spy{}

	for _, name := range methods {
		s := spy.New(className + "." + name)
		m.bindField(structValue, name, s)
		spies[name] = s
	}

	if !opts.ignoreAllProperties {
		for _, property := range members.properties {
			if opts.ignoredProperties[property.propertyName] {
				continue
			}

			if property.hasGet {
				name := "Get" + property.propertyName
				s := spy.New(className + "." + name)
				m.bindField(structValue, name, s)
				spies[name] = s
			}

			if property.hasSet {
				name := "Set" + property.propertyName
				s := spy.New(className + "." + name)
				m.bindField(structValue, name, s)
				spies[name] = s
			}
		}
	}

	m.registerSpies(target, spies)

	return target
}

// Spy returns the stand-in registered for the given member of a mock
// instance, or nil when none exists. MockClass registers members under
// their field names; Mock registers them under their path relative to the
// mocked root (for example "Inner.Save" or "Handlers[0]").
func (m *AutoMocker) Spy(mock any, member string) *spy.Spy {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.instances[mock][member]
}

// GetPropertyAccessorSpy returns the requested accessor stand-in for a
// property of a mock instance, searching the instance's full member set
// (the embedded chain was flattened at construction time). Returns nil when
// the property has no such accessor anywhere.
func (m *AutoMocker) GetPropertyAccessorSpy(mock any, property string, accessor Accessor) *spy.Spy {
	prefix := "Get"
	if accessor == Setter {
		prefix = "Set"
	}

	return m.Spy(mock, prefix+property)
}

// WithCallFake makes the spy answer calls by delegating to fake.
func (m *AutoMocker) WithCallFake(target any, fake any, description ...string) {
	m.t.Helper()

	if s := m.requireSpy("WithCallFake", target, description...); s != nil {
		s.SetFake(fake)
	}
}

// WithCallThrough makes the spy answer calls by delegating to the original
// callable it replaced.
func (m *AutoMocker) WithCallThrough(target any, description ...string) {
	m.t.Helper()

	if s := m.requireSpy("WithCallThrough", target, description...); s != nil {
		s.SetCallThrough()
	}
}

// WithReturnValue makes the spy answer every call with the given value.
func (m *AutoMocker) WithReturnValue(target any, value any, description ...string) {
	m.t.Helper()

	if s := m.requireSpy("WithReturnValue", target, description...); s != nil {
		s.SetReturn(value)
	}
}

// WithReturnValues makes the spy answer successive calls with successive
// values, one per call, yielding zero values once exhausted.
func (m *AutoMocker) WithReturnValues(target any, values []any, description ...string) {
	m.t.Helper()

	if s := m.requireSpy("WithReturnValues", target, description...); s != nil {
		s.SetReturnSequence(values...)
	}
}

// WithReturnForArguments overrides the spy's return value for calls whose
// arguments match the given tuple. The tuple may mix literal values and
// match.Matcher entries; later registrations win.
func (m *AutoMocker) WithReturnForArguments(target any, args []any, value any, description ...string) {
	m.t.Helper()

	if s := m.requireSpy("WithReturnForArguments", target, description...); s != nil {
		s.SetReturnForArgs(args, value)
	}
}

// WithFirstArgMappedReturn makes the spy answer each call by looking up its
// first argument in table, falling back to defaultValue when absent.
func (m *AutoMocker) WithFirstArgMappedReturn(
	target any,
	table map[any]any,
	defaultValue any,
	description ...string,
) {
	m.t.Helper()

	if s := m.requireSpy("WithFirstArgMappedReturn", target, description...); s != nil {
		s.SetFirstArgMap(table, defaultValue)
	}
}

// WithPanic makes the spy panic with the given value on every call.
func (m *AutoMocker) WithPanic(target any, value any, description ...string) {
	m.t.Helper()

	if s := m.requireSpy("WithPanic", target, description...); s != nil {
		s.SetPanic(value)
	}
}

// ResetSpy clears the spy's call history and behavior. Resetting twice in a
// row is a no-op the second time.
func (m *AutoMocker) ResetSpy(target any, description ...string) {
	m.t.Helper()

	if s := m.requireSpy("ResetSpy", target, description...); s != nil {
		s.Reset()
	}
}

// GetCallArgs returns the arguments of the spy's call number callIndex
// (zero-based).
func (m *AutoMocker) GetCallArgs(target any, callIndex int, description ...string) []any {
	m.t.Helper()

	if s := m.requireSpy("GetCallArgs", target, description...); s != nil {
		return s.ArgsForCall(callIndex)
	}

	return nil
}

// GetCallCount returns the spy's total number of recorded calls.
func (m *AutoMocker) GetCallCount(target any, description ...string) int {
	m.t.Helper()

	if s := m.requireSpy("GetCallCount", target, description...); s != nil {
		return s.CallCount()
	}

	return 0
}

// WithCallAccessorFake makes an accessor spy delegate to fake.
func (m *AutoMocker) WithCallAccessorFake(target any, fake any, description ...string) {
	m.t.Helper()

	if s := m.requireSpy("WithCallAccessorFake", target, description...); s != nil {
		s.SetFake(fake)
	}
}

// WithCallAccessorThrough makes an accessor spy delegate to the accessor it
// replaced.
func (m *AutoMocker) WithCallAccessorThrough(target any, description ...string) {
	m.t.Helper()

	if s := m.requireSpy("WithCallAccessorThrough", target, description...); s != nil {
		s.SetCallThrough()
	}
}

// WithReturnGetterValue makes a getter spy answer with the given value.
func (m *AutoMocker) WithReturnGetterValue(target any, value any, description ...string) {
	m.t.Helper()

	if s := m.requireSpy("WithReturnGetterValue", target, description...); s != nil {
		s.SetReturn(value)
	}
}

// WithReturnGetterValues makes a getter spy answer successive reads with
// successive values, yielding zero values once exhausted.
func (m *AutoMocker) WithReturnGetterValues(target any, values []any, description ...string) {
	m.t.Helper()

	if s := m.requireSpy("WithReturnGetterValues", target, description...); s != nil {
		s.SetReturnSequence(values...)
	}
}

// WithAccessorPanic makes an accessor spy panic with the given value.
func (m *AutoMocker) WithAccessorPanic(target any, value any, description ...string) {
	m.t.Helper()

	if s := m.requireSpy("WithAccessorPanic", target, description...); s != nil {
		s.SetPanic(value)
	}
}

// ResetAccessorSpy clears an accessor spy's call history and behavior.
func (m *AutoMocker) ResetAccessorSpy(target any, description ...string) {
	m.t.Helper()

	if s := m.requireSpy("ResetAccessorSpy", target, description...); s != nil {
		s.Reset()
	}
}

// requireSpy verifies the candidate is a recognized stand-in, failing the
// test with a NotASpyError (carrying the operation name and the optional
// caller-supplied description) when it is not.
func (m *AutoMocker) requireSpy(op string, candidate any, description ...string) *spy.Spy {
	m.t.Helper()

	if s, ok := candidate.(*spy.Spy); ok && s != nil {
		return s
	}

	m.t.Fatalf("%v", &NotASpyError{Op: op, Label: spyLabel(description)})

	return nil
}

// bindField binds the spy over the named (possibly promoted) func field.
// Fields that cannot be resolved or bound leave the spy unbound; an unbound
// spy still responds to configuration and direct invocation.
func (m *AutoMocker) bindField(structValue reflect.Value, name string, s *spy.Spy) {
	defer func() {
		if r := recover(); r != nil {
			m.t.Logf("automock: could not bind %q: %v", s.Name(), r)
		}
	}()

	field := structValue.FieldByName(name)
	if !field.IsValid() || field.Kind() != reflect.Func {
		return
	}

	if err := s.Bind(field); err != nil {
		m.t.Logf("automock: %v", err)

		return
	}

	m.mu.Lock()
	m.installed[field.Addr().Pointer()] = s
	m.mu.Unlock()
}

// registerSpies merges member spies into the instance registry.
func (m *AutoMocker) registerSpies(mock any, spies map[string]*spy.Spy) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.instances[mock]
	if !ok {
		m.instances[mock] = spies

		return
	}

	for name, s := range spies {
		existing[name] = s
	}
}

// initEmbeddedPointers allocates nil embedded struct pointers so promoted
// func fields can be bound.
func initEmbeddedPointers(structValue reflect.Value) {
	for i := range structValue.NumField() {
		fieldType := structValue.Type().Field(i)
		if !fieldType.Anonymous {
			continue
		}

		field := structValue.Field(i)

		switch {
		case field.Kind() == reflect.Ptr && fieldType.Type.Elem().Kind() == reflect.Struct:
			if field.IsNil() {
				allocateEmbeddedPointer(field, fieldType.Type.Elem())
			}

			if !field.IsNil() {
				initEmbeddedPointers(field.Elem())
			}
		case field.Kind() == reflect.Struct:
			initEmbeddedPointers(field)
		}
	}
}

// allocateEmbeddedPointer fills a nil embedded struct pointer. Unexported
// embeds refuse plain Set, so those are written through their address; the
// promoted exported members behind them stay bindable either way.
func allocateEmbeddedPointer(field reflect.Value, elem reflect.Type) {
	if field.CanSet() {
		field.Set(reflect.New(elem))

		return
	}

	if !field.CanAddr() {
		return
	}

	//nolint:gosec // writing an embedded field of a caller-owned struct
	writable := reflect.NewAt(field.Type(), unsafe.Pointer(field.UnsafeAddr())).Elem()
	writable.Set(reflect.New(elem))
}

func spyLabel(description []string) string {
	if len(description) > 0 && description[0] != "" {
		return description[0]
	}

	return DefaultSpyLabel
}

func containsString(haystack []string, needle string) bool {
	for _, candidate := range haystack {
		if candidate == needle {
			return true
		}
	}

	return false
}
