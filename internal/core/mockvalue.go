package core

import (
	"fmt"
	"reflect"
	"time"

	"github.com/automock/automock/spy"
)

// sentinelDate is the fixed replacement for date-shaped values, so tests
// never see a real timestamp leak through a mocked graph.
//
//nolint:gochecknoglobals // constant-like; time.Date is not const-able
var sentinelDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

//nolint:gochecknoglobals // reflect.Type lookups are not const-able
var timeType = reflect.TypeOf(time.Time{})

// substitutionRange bounds the random integers used for synthetic string
// suffixes and numeric replacements.
const substitutionRange = 1000

// Mock replaces, in place, every substitutable exported field of an
// arbitrary object graph with a best-effort stand-in, bounded by the depth
// budget (the AutoMocker default when omitted). One unit of budget is
// consumed per nesting level entered, identically for struct fields and
// slice/array elements.
//
// Substitution by field shape: nil values are left as is; slices and arrays
// recurse element-wise as "parent[i]" while budget remains; callables not
// already installed are wrapped with call-through stand-ins; nested structs
// and pointers to structs recurse while budget remains; time.Time values
// become a fixed sentinel date; strings become the field's qualified name
// plus a random 0-999 suffix; integers and floats become a random integer in
// [0,1000); anything else is left unchanged. A failure on one field is
// reported through the test reporter and skipped, never aborting the pass.
func (m *AutoMocker) Mock(name string, target any, maxDepth ...int) {
	m.t.Helper()

	if target == nil {
		m.t.Fatalf("%v", &ArgumentError{Op: "Mock", Argument: "target"})

		return
	}

	depth := m.maxDepth
	if len(maxDepth) > 0 {
		depth = maxDepth[0]
	}

	value := reflect.ValueOf(target)
	if value.Kind() != reflect.Ptr || value.IsNil() || value.Elem().Kind() != reflect.Struct {
		m.t.Fatalf("%v", &ArgumentError{
			Op:       "Mock",
			Argument: "target",
			Reason:   fmt.Sprintf("must be a non-nil pointer to a struct, got %T", target),
		})

		return
	}

	spies := map[string]*spy.Spy{}
	m.mockStruct(name, "", value.Elem(), depth, spies)
	m.registerSpies(target, spies)
}

// mockStruct substitutes each exported field of a struct value.
func (m *AutoMocker) mockStruct(
	rootName, path string,
	structValue reflect.Value,
	depth int,
	spies map[string]*spy.Spy,
) {
	structType := structValue.Type()
	for i := range structType.NumField() {
		field := structType.Field(i)
		if !field.IsExported() {
			continue
		}

		m.mockValue(rootName, joinPath(path, field.Name), structValue.Field(i), depth, spies)
	}
}

// mockValue substitutes one addressable value according to its shape.
// Classification or substitution failures are reported and skipped.
func (m *AutoMocker) mockValue(
	rootName, path string,
	value reflect.Value,
	depth int,
	spies map[string]*spy.Spy,
) {
	defer func() {
		if r := recover(); r != nil {
			m.t.Logf("automock: mocking %s skipped: %v", qualifiedName(rootName, path), r)
		}
	}()

	if !value.CanSet() {
		return
	}

	switch {
	case isNilValue(value):
		return
	case value.Type() == timeType:
		value.Set(reflect.ValueOf(sentinelDate))
	case value.Kind() == reflect.Func:
		m.mockCallable(rootName, path, value, spies)
	case value.Kind() == reflect.Slice || value.Kind() == reflect.Array:
		if depth <= 0 {
			return
		}

		for i := range value.Len() {
			m.mockValue(rootName, fmt.Sprintf("%s[%d]", path, i), value.Index(i), depth-1, spies)
		}
	case value.Kind() == reflect.Struct:
		if depth <= 0 {
			return
		}

		m.mockStruct(rootName, path, value, depth-1, spies)
	case value.Kind() == reflect.Ptr && value.Elem().Kind() == reflect.Struct:
		if depth <= 0 {
			return
		}

		m.mockStruct(rootName, path, value.Elem(), depth-1, spies)
	case value.Kind() == reflect.String:
		value.SetString(fmt.Sprintf("%s %d", qualifiedName(rootName, path), m.rng.IntN(substitutionRange)))
	case isIntKind(value.Kind()):
		value.SetInt(int64(m.rng.IntN(substitutionRange)))
	case isUintKind(value.Kind()):
		value.SetUint(uint64(m.rng.IntN(substitutionRange)))
	case value.Kind() == reflect.Float32 || value.Kind() == reflect.Float64:
		value.SetFloat(float64(m.rng.IntN(substitutionRange)))
	default:
		return
	}
}

// mockCallable wraps a non-nil func value with a call-through stand-in,
// unless one is already installed at that address.
func (m *AutoMocker) mockCallable(rootName, path string, value reflect.Value, spies map[string]*spy.Spy) {
	address := value.Addr().Pointer()

	m.mu.Lock()
	_, already := m.installed[address]
	m.mu.Unlock()

	if already {
		return
	}

	s := spy.New(qualifiedName(rootName, path))
	s.SetCallThrough()

	if err := s.Bind(value); err != nil {
		m.t.Logf("automock: %v", err)

		return
	}

	m.mu.Lock()
	m.installed[address] = s
	m.mu.Unlock()

	spies[path] = s
}

func isNilValue(value reflect.Value) bool {
	switch value.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return value.IsNil()
	default:
		return false
	}
}

func isIntKind(kind reflect.Kind) bool {
	return kind >= reflect.Int && kind <= reflect.Int64
}

func isUintKind(kind reflect.Kind) bool {
	return kind >= reflect.Uint && kind <= reflect.Uint64
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}

	return parent + "." + name
}

func qualifiedName(rootName, path string) string {
	if path == "" {
		return rootName
	}

	return rootName + "." + path
}
