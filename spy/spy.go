// Package spy provides recording, behavior-configurable stand-ins for
// callables. A Spy wraps an optional original function plus mutable behavior
// state and a call history; it can be bound in place of any func-typed value
// via reflection. The "is this a stand-in" check is the IsSpy type
// discriminator rather than a shape probe.
package spy

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/automock/automock/match"
)

// Call records the arguments of a single invocation.
type Call struct {
	Args []any
}

type behaviorKind int

const (
	behaviorZero behaviorKind = iota
	behaviorFake
	behaviorCallThrough
	behaviorReturn
	behaviorSequence
	behaviorFirstArgMap
	behaviorPanic
)

// argReturn is a per-argument-tuple return override. Tuples may mix literal
// values and match.Matcher entries.
type argReturn struct {
	args    []any
	returns []any
}

// Spy is a recording, configurable stand-in for a callable. The zero
// behavior returns zero values for every call.
type Spy struct {
	name string

	mu         sync.Mutex
	calls      []Call
	kind       behaviorKind
	fake       reflect.Value
	returns    []any
	sequence   []any
	seqIndex   int
	argReturns []argReturn
	table      map[any]any
	fallback   []any
	panicValue any

	original reflect.Value // call-through target; zero Value when absent
	fnType   reflect.Type  // bound signature; nil until bound
}

// New creates an unbound spy with the given name.
func New(name string) *Spy {
	return &Spy{name: name}
}

// NewFor creates a spy wrapping an existing function. The function's value
// is retained as the call-through target and its type as the bound
// signature.
func NewFor(name string, fn any) *Spy {
	s := New(name)

	v := reflect.ValueOf(fn)
	if v.Kind() == reflect.Func && !v.IsNil() {
		s.original = v
		s.fnType = v.Type()
	}

	return s
}

// IsSpy reports whether candidate is a recognized stand-in.
func IsSpy(candidate any) bool {
	s, ok := candidate.(*Spy)

	return ok && s != nil
}

// Name returns the spy's name.
func (s *Spy) Name() string {
	return s.name
}

// Bind installs the spy in place of a settable func-typed value, retaining
// the current value (when non-nil) as the call-through target.
func (s *Spy) Bind(target reflect.Value) error {
	if !target.IsValid() || target.Kind() != reflect.Func {
		//nolint:err113 // validation error with dynamic context
		return fmt.Errorf("spy %q: bind target is not a func", s.name)
	}

	if !target.CanSet() {
		//nolint:err113 // validation error with dynamic context
		return fmt.Errorf("spy %q: bind target is not settable", s.name)
	}

	if !target.IsNil() && !s.original.IsValid() {
		s.original = reflect.ValueOf(target.Interface())
	}

	s.fnType = target.Type()
	target.Set(s.makeFunc(target.Type()))

	return nil
}

// Func returns a recorded, behavior-driven function of the same type as
// prototype. The prototype's value, when non-nil, becomes the call-through
// target.
func (s *Spy) Func(prototype any) any {
	v := reflect.ValueOf(prototype)
	if !v.IsValid() || v.Kind() != reflect.Func {
		panic(fmt.Sprintf("spy %q: prototype must be a func, got %T", s.name, prototype))
	}

	if !v.IsNil() && !s.original.IsValid() {
		s.original = v
	}

	s.fnType = v.Type()

	return s.makeFunc(v.Type()).Interface()
}

// Invoke records a call and answers it with the configured behavior.
// Returned values are raw; zero-behavior and exhausted sequences yield nil.
func (s *Spy) Invoke(args ...any) []any {
	return s.respond(args)
}

// CallCount returns the number of recorded calls.
func (s *Spy) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.calls)
}

// ArgsForCall returns the arguments of call number index (zero-based), or
// nil when no such call was recorded.
func (s *Spy) ArgsForCall(index int) []any {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.calls) {
		return nil
	}

	return s.calls[index].Args
}

// Calls returns a copy of the recorded call history.
func (s *Spy) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()

	calls := make([]Call, len(s.calls))
	copy(calls, s.calls)

	return calls
}

// Reset clears the call history and restores the zero behavior. Resetting
// an already-reset spy is a no-op.
func (s *Spy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = nil
	s.kind = behaviorZero
	s.fake = reflect.Value{}
	s.returns = nil
	s.sequence = nil
	s.seqIndex = 0
	s.argReturns = nil
	s.table = nil
	s.fallback = nil
	s.panicValue = nil
}

// SetFake answers calls by delegating to the given function.
func (s *Spy) SetFake(fn any) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		panic(fmt.Sprintf("spy %q: fake must be a func, got %T", s.name, fn))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.kind = behaviorFake
	s.fake = v
}

// SetCallThrough answers calls by delegating to the original callable.
// Without an original, calls yield zero values.
func (s *Spy) SetCallThrough() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.kind = behaviorCallThrough
}

// SetReturn answers every call with the given return tuple.
func (s *Spy) SetReturn(values ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.kind = behaviorReturn
	s.returns = values
}

// SetReturnSequence answers successive calls with successive values, one
// value per call, yielding zero values once the sequence is exhausted.
func (s *Spy) SetReturnSequence(values ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.kind = behaviorSequence
	s.sequence = values
	s.seqIndex = 0
}

// SetReturnForArgs overrides the return tuple for calls whose arguments
// match the given tuple. The tuple may mix literal values and
// match.Matcher entries. Later registrations win.
func (s *Spy) SetReturnForArgs(args []any, returns ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.argReturns = append(s.argReturns, argReturn{args: args, returns: returns})
}

// SetFirstArgMap answers each call by looking up its first argument in
// table, falling back to the given default values when absent.
func (s *Spy) SetFirstArgMap(table map[any]any, fallback ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.kind = behaviorFirstArgMap
	s.table = table
	s.fallback = fallback
}

// SetPanic answers every call by panicking with the given value.
func (s *Spy) SetPanic(value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.kind = behaviorPanic
	s.panicValue = value
}

// makeFunc builds the bound stand-in function for the given signature.
func (s *Spy) makeFunc(funcType reflect.Type) reflect.Value {
	relayer := func(in []reflect.Value) []reflect.Value {
		out := s.respond(unreflectValues(in))

		return reflectReturns(funcType, out)
	}

	return reflect.MakeFunc(funcType, relayer)
}

// respond records the call and evaluates the configured behavior.
// Per-argument-tuple overrides are checked before the base behavior.
func (s *Spy) respond(args []any) []any {
	s.mu.Lock()
	s.calls = append(s.calls, Call{Args: args})

	kind := s.kind
	fake := s.fake
	original := s.original
	returns := s.returns
	table := s.table
	fallback := s.fallback
	panicValue := s.panicValue
	argReturns := s.argReturns

	var seqValue any

	seqHas := false
	if kind == behaviorSequence && s.seqIndex < len(s.sequence) {
		seqValue = s.sequence[s.seqIndex]
		s.seqIndex++
		seqHas = true
	}

	s.mu.Unlock()

	for i := len(argReturns) - 1; i >= 0; i-- {
		if match.MatchTuple(args, argReturns[i].args) {
			return argReturns[i].returns
		}
	}

	switch kind {
	case behaviorFake:
		return callCallable(fake, args)
	case behaviorCallThrough:
		if original.IsValid() {
			return callCallable(original, args)
		}

		return nil
	case behaviorReturn:
		return returns
	case behaviorSequence:
		if seqHas {
			return []any{seqValue}
		}

		return nil
	case behaviorFirstArgMap:
		if len(args) > 0 {
			if value, ok := table[args[0]]; ok {
				return []any{value}
			}
		}

		return fallback
	case behaviorPanic:
		panic(panicValue)
	case behaviorZero:
		return nil
	default:
		return nil
	}
}

// callCallable invokes fn with loosely typed arguments, handling both the
// flattened and the collected-variadic calling forms.
func callCallable(fn reflect.Value, args []any) []any {
	funcType := fn.Type()
	numIn := funcType.NumIn()

	if funcType.IsVariadic() && len(args) == numIn {
		if collected, ok := variadicSlice(funcType, args[numIn-1]); ok {
			in := make([]reflect.Value, 0, numIn)
			for i := range numIn - 1 {
				in = append(in, coerce(args[i], funcType.In(i)))
			}

			in = append(in, collected)

			return unreflectValues(fn.CallSlice(in))
		}
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		in[i] = coerce(arg, flatParamType(funcType, i))
	}

	return unreflectValues(fn.Call(in))
}

// variadicSlice interprets the final argument as an already-collected
// variadic slice when its type permits.
func variadicSlice(funcType reflect.Type, last any) (reflect.Value, bool) {
	variadicType := funcType.In(funcType.NumIn() - 1)

	if last == nil {
		return reflect.Zero(variadicType), true
	}

	lv := reflect.ValueOf(last)
	if lv.Kind() == reflect.Slice && lv.Type().AssignableTo(variadicType) {
		return lv, true
	}

	return reflect.Value{}, false
}

// flatParamType returns the parameter type at position i for a flattened
// argument list.
func flatParamType(funcType reflect.Type, i int) reflect.Type {
	numIn := funcType.NumIn()
	if funcType.IsVariadic() && i >= numIn-1 {
		return funcType.In(numIn - 1).Elem()
	}

	return funcType.In(i)
}

// coerce converts a loosely typed value to the given type, using zero
// values for nil.
func coerce(value any, target reflect.Type) reflect.Value {
	if value == nil {
		return reflect.Zero(target)
	}

	rv := reflect.ValueOf(value)
	if rv.Type().AssignableTo(target) {
		return rv
	}

	if rv.Type().ConvertibleTo(target) {
		return rv.Convert(target)
	}

	panic(fmt.Sprintf("cannot use %T as %s in spy response", value, target))
}

// reflectReturns maps configured return values onto the signature's output
// types. Missing or nil entries become zero values; extra entries are
// dropped.
func reflectReturns(funcType reflect.Type, out []any) []reflect.Value {
	returns := make([]reflect.Value, funcType.NumOut())
	for i := range returns {
		if i < len(out) && out[i] != nil {
			returns[i] = coerce(out[i], funcType.Out(i))
		} else {
			returns[i] = reflect.Zero(funcType.Out(i))
		}
	}

	return returns
}

// unreflectValues converts reflect values to a loosely typed argument list.
func unreflectValues(in []reflect.Value) []any {
	if len(in) == 0 {
		return nil
	}

	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v.Interface()
	}

	return out
}
