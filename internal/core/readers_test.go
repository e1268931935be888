package core_test

import (
	"errors"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/automock/automock/internal/core"
	"github.com/automock/automock/observe"
)

// TestReadValue_ReturnsTheFirstEmission verifies the plain read of a
// single-value observable.
func TestReadValue_ReturnsTheFirstEmission(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(core.ReadValue(t, observe.Of("test"))).To(Equal("test"))
}

// TestReadValue_SkipSelectsALaterEmission verifies the skip parameter moves
// the read position forward.
func TestReadValue_SkipSelectsALaterEmission(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(core.ReadValue(t, observe.Of("a", "b", "c"), 1)).To(Equal("b"))
	g.Expect(core.ReadValue(t, observe.Of("a", "b", "c"), 2)).To(Equal("c"))
}

// TestReadValue_NilObservableFailsTheTest verifies a nil stream is an
// argument failure, not a panic.
func TestReadValue_NilObservableFailsTheTest(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reporter := &recordingReporter{}

	got := core.ReadValue[string](reporter, nil)

	g.Expect(got).To(BeEmpty())
	g.Expect(reporter.failures).To(HaveLen(1))
	g.Expect(reporter.failures[0]).To(ContainSubstring("ReadValue"))
	g.Expect(reporter.failures[0]).To(ContainSubstring("observable"))
}

// TestReadValue_ErrorSignalFailsTheTest verifies an error stream fails the
// read with the offending error in the message.
func TestReadValue_ErrorSignalFailsTheTest(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reporter := &recordingReporter{}

	core.ReadValue(reporter, observe.Throw[int](errors.New("boom")))

	g.Expect(reporter.failures).To(HaveLen(1))
	g.Expect(reporter.failures[0]).To(ContainSubstring("expected value signal"))
	g.Expect(reporter.failures[0]).To(ContainSubstring("boom"))
}

// TestReadValue_DeficitReportsSkipAndObservedCounts verifies the failure for
// too few emissions names the requested skip and the count of emissions that
// reached the target position, not the pre-skip total.
func TestReadValue_DeficitReportsSkipAndObservedCounts(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reporter := &recordingReporter{}

	core.ReadValue(reporter, observe.Of("only"), 1)

	g.Expect(reporter.failures).To(HaveLen(1))
	g.Expect(reporter.failures[0]).To(ContainSubstring("skip of 1"))
	g.Expect(reporter.failures[0]).To(ContainSubstring("only 0 signals were observed"))
}

// TestReadValueAfterAction_SkipPastSingleEmissionObservesZero verifies that
// skipping past a source that emits exactly once reports an observed count
// of zero alongside the requested skip.
func TestReadValueAfterAction_SkipPastSingleEmissionObservesZero(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reporter := &recordingReporter{}

	core.ReadValueAfterAction(reporter, observe.Of("only"), func() {}, 1)

	g.Expect(reporter.failures).To(HaveLen(1))
	g.Expect(reporter.failures[0]).To(ContainSubstring("ReadValueAfterAction"))
	g.Expect(reporter.failures[0]).To(ContainSubstring("skip of 1"))
	g.Expect(reporter.failures[0]).To(ContainSubstring("only 0 signals were observed"))
}

// TestReadValue_NeverEmittingSourceFailsWithDeficit verifies a silent source
// takes the deficit path rather than blocking.
func TestReadValue_NeverEmittingSourceFailsWithDeficit(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reporter := &recordingReporter{}

	core.ReadValue(reporter, observe.Never[int]())

	g.Expect(reporter.failures).To(HaveLen(1))
	g.Expect(reporter.failures[0]).To(ContainSubstring("skip of 0"))
	g.Expect(reporter.failures[0]).To(ContainSubstring("only 0 signals"))
}

// TestReadValueAfterAction_SeesEmissionsTriggeredByTheAction verifies values
// pushed during the action are readable even on a plain subject.
func TestReadValueAfterAction_SeesEmissionsTriggeredByTheAction(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	subject := observe.NewSubject[string]()

	got := core.ReadValueAfterAction(t, subject.AsObservable(), func() {
		subject.Next("pushed")
	})

	g.Expect(got).To(Equal("pushed"))
}

// TestReadValueAfterAction_NilActionFailsTheTest verifies the action is a
// required argument.
func TestReadValueAfterAction_NilActionFailsTheTest(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reporter := &recordingReporter{}

	core.ReadValueAfterAction(reporter, observe.Of(1), nil)

	g.Expect(reporter.failures).To(HaveLen(1))
	g.Expect(reporter.failures[0]).To(ContainSubstring("ReadValueAfterAction"))
	g.Expect(reporter.failures[0]).To(ContainSubstring("action"))
}

// TestReadError_ReturnsTheErrorSignal verifies the plain error read.
func TestReadError_ReturnsTheErrorSignal(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	boom := errors.New("boom")

	g.Expect(core.ReadError(t, observe.Throw[int](boom))).To(MatchError(boom))
}

// TestReadError_SkipCountsValueSignalsBeforeTheError verifies the error can
// sit past leading values when skip accounts for them.
func TestReadError_SkipCountsValueSignalsBeforeTheError(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	boom := errors.New("boom")
	source := observe.New(func(s *observe.Subscriber[int]) {
		s.Next(1)
		s.Error(boom)
	})

	g.Expect(core.ReadError(t, source, 1)).To(MatchError(boom))
}

// TestReadError_ValueAtTargetPositionFailsTheTest verifies a value arriving
// where the error was expected fails with that value in the message.
func TestReadError_ValueAtTargetPositionFailsTheTest(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reporter := &recordingReporter{}

	core.ReadError(reporter, observe.Of(42))

	g.Expect(reporter.failures).To(HaveLen(1))
	g.Expect(reporter.failures[0]).To(ContainSubstring("expected error signal"))
	g.Expect(reporter.failures[0]).To(ContainSubstring("42"))
}

// TestReadError_NilErrorSignalCountsAsCaptured verifies an error signal
// carrying a nil error is still a captured error, not a deficit.
func TestReadError_NilErrorSignalCountsAsCaptured(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reporter := &recordingReporter{}
	source := observe.New(func(s *observe.Subscriber[int]) {
		s.Error(nil)
	})

	g.Expect(core.ReadError(reporter, source)).To(BeNil())
	g.Expect(reporter.failures).To(BeEmpty())
}

// TestReadError_NoErrorFailsWithDeficit verifies a completing stream without
// an error takes the deficit path.
func TestReadError_NoErrorFailsWithDeficit(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reporter := &recordingReporter{}

	core.ReadError(reporter, observe.Empty[int]())

	g.Expect(reporter.failures).To(HaveLen(1))
	g.Expect(reporter.failures[0]).To(ContainSubstring("ReadError"))
	g.Expect(reporter.failures[0]).To(ContainSubstring("skip of 0"))
}

// TestReadError_NilObservableFailsTheTest verifies argument validation.
func TestReadError_NilObservableFailsTheTest(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reporter := &recordingReporter{}

	g.Expect(core.ReadError[int](reporter, nil)).To(BeNil())
	g.Expect(reporter.failures).To(HaveLen(1))
	g.Expect(reporter.failures[0]).To(ContainSubstring("ReadError"))
}

// TestReadCompletion_ReturnsTrueOnCompletion verifies the plain completion
// read on an empty stream.
func TestReadCompletion_ReturnsTrueOnCompletion(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(core.ReadCompletion(t, observe.Empty[int]())).To(BeTrue())
}

// TestReadCompletion_ValueBeforeCompletionFailsTheTest verifies any value
// signal ahead of completion fails, wrapping the value.
func TestReadCompletion_ValueBeforeCompletionFailsTheTest(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reporter := &recordingReporter{}

	got := core.ReadCompletion(reporter, observe.Of("early"))

	g.Expect(got).To(BeFalse())
	g.Expect(reporter.failures).To(HaveLen(1))
	g.Expect(reporter.failures[0]).To(ContainSubstring("expected completion signal"))
	g.Expect(reporter.failures[0]).To(ContainSubstring("early"))
}

// TestReadCompletion_ErrorBeforeCompletionFailsTheTest verifies an error
// signal ahead of completion fails, wrapping the error.
func TestReadCompletion_ErrorBeforeCompletionFailsTheTest(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reporter := &recordingReporter{}

	core.ReadCompletion(reporter, observe.Throw[int](errors.New("boom")))

	g.Expect(reporter.failures).To(HaveLen(1))
	g.Expect(reporter.failures[0]).To(ContainSubstring("expected completion signal"))
}

// TestReadCompletion_NeverCompletingSourceFailsWithDeficit verifies a silent
// source takes the deficit path.
func TestReadCompletion_NeverCompletingSourceFailsWithDeficit(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reporter := &recordingReporter{}

	got := core.ReadCompletion(reporter, observe.Never[int]())

	g.Expect(got).To(BeFalse())
	g.Expect(reporter.failures).To(HaveLen(1))
	g.Expect(reporter.failures[0]).To(ContainSubstring("only 0 signals"))
}
