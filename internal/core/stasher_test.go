package core

import (
	"testing"

	. "github.com/onsi/gomega"
)

func TestMethodStasher_RoundTrip(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	table := NewMethodTable()
	table.Define("speak", Protected, func(*Object, ...any) ([]any, error) { return []any{"own"}, nil })

	stasher := newMethodStasher(table, "speak")
	stasher.stash()

	g.Expect(stasher.stashed()).To(BeTrue())

	table.Define("speak", Public, func(*Object, ...any) ([]any, error) { return []any{"shim"}, nil })
	stasher.restore()

	entry, ok := table.Lookup("speak")
	g.Expect(ok).To(BeTrue())
	g.Expect(entry.Visibility).To(Equal(Protected))
	g.Expect(entry.Impl(nil)).To(Equal([]any{"own"}))
	g.Expect(stasher.stashed()).To(BeFalse())
}

func TestMethodStasher_EmptySlotIsCleared(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	table := NewMethodTable()
	stasher := newMethodStasher(table, "speak")

	stasher.restore()
	g.Expect(table.Defined("speak")).To(BeFalse(), "restore without stash does nothing")

	stasher.stash()
	g.Expect(stasher.stashed()).To(BeFalse())

	table.Define("speak", Public, func(*Object, ...any) ([]any, error) { return nil, nil })
	stasher.restore()

	g.Expect(table.Defined("speak")).To(BeFalse())
}

func TestObservingRecorder_StopsAtRoot(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	root := NewClass("Root", nil)
	leaf := NewClass("Leaf", NewClass("Middle", root))

	g.Expect(observingRecorder(leaf, "speak")).To(BeNil())
	g.Expect(observingRecorder(nil, "speak")).To(BeNil())

	root.Define("speak", Public, func(*Object, ...any) ([]any, error) { return nil, nil })
	g.Expect(root.Recorder().Observe("speak")).To(Succeed())

	g.Expect(observingRecorder(leaf, "speak")).To(BeIdenticalTo(root.Recorder()))
}

func TestCountSpec(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(Exactly(2).SatisfiedBy(2)).To(BeTrue())
	g.Expect(Exactly(2).SatisfiedBy(3)).To(BeFalse())
	g.Expect(AtLeast(2).SatisfiedBy(5)).To(BeTrue())
	g.Expect(AtLeast(2).SatisfiedBy(1)).To(BeFalse())
	g.Expect(AtMost(2).SatisfiedBy(0)).To(BeTrue())
	g.Expect(AtMost(2).SatisfiedBy(3)).To(BeFalse())
	g.Expect(AnyNumber().SatisfiedBy(100)).To(BeTrue())

	g.Expect(Exactly(1).saturatedAt(1)).To(BeTrue())
	g.Expect(Never().saturatedAt(5)).To(BeFalse())
	g.Expect(AtLeast(1).saturatedAt(9)).To(BeFalse())

	g.Expect(CountSpec{}.IsSet()).To(BeFalse())
	g.Expect(Exactly(1).String()).To(Equal("exactly once"))
	g.Expect(AtMost(3).String()).To(Equal("at most 3 times"))
	g.Expect(AnyNumber().String()).To(Equal("any number of times"))
}
