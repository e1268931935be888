package observe_test

import (
	"errors"
	"strconv"
	"testing"

	. "github.com/onsi/gomega"
	"pgregory.net/rapid"

	"github.com/automock/automock/observe"
)

// TestSkip_DropsLeadingEmissions verifies Skip drops exactly the first count
// values and forwards the rest plus completion.
func TestSkip_DropsLeadingEmissions(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var (
		values    []int
		completed bool
	)

	observe.Of(1, 2, 3, 4).Skip(2).Subscribe(observe.Observer[int]{
		Next:     func(v int) { values = append(values, v) },
		Complete: func() { completed = true },
	})

	g.Expect(values).To(Equal([]int{3, 4}))
	g.Expect(completed).To(BeTrue())
}

// TestTake_CompletesAfterCount verifies Take forwards count values then
// completes even though the source has more to give.
func TestTake_CompletesAfterCount(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var (
		values    []int
		completed bool
	)

	observe.Of(1, 2, 3, 4).Take(2).Subscribe(observe.Observer[int]{
		Next:     func(v int) { values = append(values, v) },
		Complete: func() { completed = true },
	})

	g.Expect(values).To(Equal([]int{1, 2}))
	g.Expect(completed).To(BeTrue())
}

// TestTake_ZeroCompletesImmediately verifies Take(0) completes without
// touching the source.
func TestTake_ZeroCompletesImmediately(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	sourceRuns := 0
	source := observe.New(func(s *observe.Subscriber[int]) {
		sourceRuns++

		s.Complete()
	})

	completed := false

	source.Take(0).Subscribe(observe.Observer[int]{
		Complete: func() { completed = true },
	})

	g.Expect(completed).To(BeTrue())
	g.Expect(sourceRuns).To(BeZero())
}

// TestTap_ObservesSignalsWithoutChangingThem verifies Tap sees every signal
// and forwards each one unchanged.
func TestTap_ObservesSignalsWithoutChangingThem(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var (
		tapped    []int
		forwarded []int
		completed bool
	)

	observe.Of(5, 6).Tap(observe.Observer[int]{
		Next: func(v int) { tapped = append(tapped, v) },
	}).Subscribe(observe.Observer[int]{
		Next:     func(v int) { forwarded = append(forwarded, v) },
		Complete: func() { completed = true },
	})

	g.Expect(tapped).To(Equal([]int{5, 6}))
	g.Expect(forwarded).To(Equal([]int{5, 6}))
	g.Expect(completed).To(BeTrue())
}

// TestTap_ForwardsErrors verifies Tap relays the error signal to both the
// side observer and the downstream.
func TestTap_ForwardsErrors(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	boom := errors.New("boom")

	var sideErr, downErr error

	observe.Throw[int](boom).Tap(observe.Observer[int]{
		Error: func(err error) { sideErr = err },
	}).Subscribe(observe.Observer[int]{
		Error: func(err error) { downErr = err },
	})

	g.Expect(sideErr).To(MatchError(boom))
	g.Expect(downErr).To(MatchError(boom))
}

// TestFilter_KeepsMatchingEmissions verifies Filter drops rejected values.
func TestFilter_KeepsMatchingEmissions(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var values []int

	observe.Of(1, 2, 3, 4, 5).Filter(func(v int) bool { return v%2 == 0 }).Subscribe(observe.Observer[int]{
		Next: func(v int) { values = append(values, v) },
	})

	g.Expect(values).To(Equal([]int{2, 4}))
}

// TestStartWith_PrependsSeedValues verifies StartWith emits seeds before the
// source's own values.
func TestStartWith_PrependsSeedValues(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var values []int

	observe.Of(3).StartWith(1, 2).Subscribe(observe.Observer[int]{
		Next: func(v int) { values = append(values, v) },
	})

	g.Expect(values).To(Equal([]int{1, 2, 3}))
}

// TestMap_TransformsEmissions verifies Map applies the transform to every
// value and can change the element type.
func TestMap_TransformsEmissions(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var values []string

	observe.Map(observe.Of(1, 2), strconv.Itoa).Subscribe(observe.Observer[string]{
		Next: func(v string) { values = append(values, v) },
	})

	g.Expect(values).To(Equal([]string{"1", "2"}))
}

// TestOperators_ComposeForPositionalReads verifies the Skip/Take composition
// the synchronous readers rely on: exactly one value at the target position.
func TestOperators_ComposeForPositionalReads(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var (
		values    []string
		completed bool
	)

	observe.Of("a", "b", "c").Skip(1).Take(1).Subscribe(observe.Observer[string]{
		Next:     func(v string) { values = append(values, v) },
		Complete: func() { completed = true },
	})

	g.Expect(values).To(Equal([]string{"b"}))
	g.Expect(completed).To(BeTrue())
}

// TestSkipTake_Rapid_SelectsWindow uses property-based testing to verify
// Skip(n).Take(m) selects exactly the [n, n+m) window of the input.
func TestSkipTake_Rapid_SelectsWindow(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		input := rapid.SliceOfN(rapid.Int(), 0, 20).Draw(rt, "input")
		skip := rapid.IntRange(0, 25).Draw(rt, "skip")
		take := rapid.IntRange(0, 25).Draw(rt, "take")

		var got []int

		observe.Of(input...).Skip(skip).Take(take).Subscribe(observe.Observer[int]{
			Next: func(v int) { got = append(got, v) },
		})

		want := []int{}
		for i := skip; i < len(input) && len(want) < take; i++ {
			want = append(want, input[i])
		}

		if len(got) != len(want) {
			rt.Fatalf("window length %d, want %d", len(got), len(want))
		}

		for i := range want {
			if got[i] != want[i] {
				rt.Fatalf("window value %d: got %d, want %d", i, got[i], want[i])
			}
		}
	})
}
