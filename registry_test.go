package impstub_test

import (
	"sync"
	"testing"

	. "github.com/onsi/gomega"
	"pgregory.net/rapid"

	"github.com/toejough/impstub"
)

// TestSpaceFor_SameT_ReturnsSameSpace verifies that calling SpaceFor with the
// same *testing.T returns the same *Space instance.
func TestSpaceFor_SameT_ReturnsSameSpace(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(impstub.SpaceFor(t)).To(BeIdenticalTo(impstub.SpaceFor(t)), "same t should return same Space")
}

// TestSpaceFor_DifferentT_ReturnsDifferentSpace verifies that different
// *testing.T values get different *Space instances.
func TestSpaceFor_DifferentT_ReturnsDifferentSpace(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var space1, space2 *impstub.Space

	t.Run("subtest1", func(t *testing.T) {
		space1 = impstub.SpaceFor(t)
	})

	t.Run("subtest2", func(t *testing.T) {
		space2 = impstub.SpaceFor(t)
	})

	g.Expect(space1).NotTo(BeIdenticalTo(space2), "different t should return different Space")
}

// TestSpaceFor_ConcurrentAccess_Rapid uses property-based testing to verify
// concurrent registry access always yields one Space per test.
func TestSpaceFor_ConcurrentAccess_Rapid(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		numGoroutines := rapid.IntRange(2, 50).Draw(rt, "numGoroutines")
		results := make([]*impstub.Space, numGoroutines)

		var wg sync.WaitGroup
		wg.Add(numGoroutines)

		for i := 0; i < numGoroutines; i++ {
			go func(idx int) {
				defer wg.Done()
				results[idx] = impstub.SpaceFor(t)
			}(i)
		}

		wg.Wait()

		for i := 1; i < numGoroutines; i++ {
			if results[i] != results[0] {
				rt.Fatalf("goroutine %d got a different Space", i)
			}
		}
	})
}

// TestAllow_StubsUntilTestEnds stubs a wrapped Go value and checks the
// original comes back once the subtest is over.
func TestAllow_StubsUntilTestEnds(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	obj := impstub.Wrap(&counter{})
	next := impstub.Bind[func() int](obj, "Next")

	t.Run("stubbed", func(t *testing.T) {
		impstub.Allow(t, obj, "Next").AndReturn(99)

		g.Expect(next()).To(Equal(99))
		g.Expect(next()).To(Equal(99))
	})

	g.Expect(next()).To(Equal(1))
	g.Expect(next()).To(Equal(2))
}

// TestExpect_SatisfiedAtCleanup sets an expectation with a count and an
// implementation and meets it before the test ends.
func TestExpect_SatisfiedAtCleanup(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	obj := impstub.Wrap(&counter{})
	add := impstub.Bind[func(int) int](obj, "Add")

	impstub.Expect(t, obj, "Add").Times(impstub.Exactly(2)).WithArgs(5).AndReturn(-1)
	impstub.AllowWith(t, obj, "Add", func(_ *impstub.Object, args ...any) ([]any, error) {
		return []any{args[0].(int) * 10}, nil
	})

	g.Expect(add(5)).To(Equal(-1))
	g.Expect(add(3)).To(Equal(30))
	g.Expect(add(5)).To(Equal(-1))

	impstub.Verify(t)
}

// TestExpectNot_NeverCalled checks a negative expectation that holds.
func TestExpectNot_NeverCalled(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	obj := impstub.Wrap(&counter{})
	impstub.ExpectNot(t, obj, "Reset")

	g.Expect(impstub.Bind[func() int](obj, "Next")()).To(Equal(1))
}

// TestUnstub_RestoresOriginal removes a stub mid-test.
func TestUnstub_RestoresOriginal(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	obj := impstub.Wrap(&counter{})
	next := impstub.Bind[func() int](obj, "Next")

	impstub.Allow(t, obj, "Next").AndReturn(7)
	g.Expect(next()).To(Equal(7))

	g.Expect(impstub.Unstub(t, obj, "Next")).To(Succeed())
	g.Expect(next()).To(Equal(1))

	g.Expect(impstub.Unstub(t, obj, "Next")).To(MatchError(impstub.ErrMethodNotStubbed))
}

// TestReset_PackageLevel restores everything before the test ends.
func TestReset_PackageLevel(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	obj := impstub.Wrap(&counter{})
	impstub.Allow(t, obj, "Next").AndReturn(7)

	impstub.Reset(t)

	g.Expect(impstub.Bind[func() int](obj, "Next")()).To(Equal(1))
}

type counter struct {
	n int
}

func (c *counter) Add(delta int) int {
	c.n += delta

	return c.n
}

func (c *counter) Next() int {
	c.n++

	return c.n
}

func (c *counter) Reset() {
	c.n = 0
}
