package core

import (
	"fmt"
)

// IgnoredBacktraceLine marks records that were not declared at a meaningful
// source location.
const IgnoredBacktraceLine = "this backtrace line is ignored"

// CountSpec constrains how many times a record may or must be invoked.
// The zero value means "not specified".
type CountSpec struct {
	kind countKind
	n    int
}

// AnyNumber allows any number of calls, including none.
func AnyNumber() CountSpec {
	return CountSpec{kind: countAny}
}

// AtLeast requires n or more calls.
func AtLeast(n int) CountSpec {
	return CountSpec{kind: countAtLeast, n: n}
}

// AtMost allows up to n calls.
func AtMost(n int) CountSpec {
	return CountSpec{kind: countAtMost, n: n}
}

// Exactly requires exactly n calls.
func Exactly(n int) CountSpec {
	return CountSpec{kind: countExactly, n: n}
}

// Never requires that no call is made.
func Never() CountSpec {
	return Exactly(0)
}

// IsSet reports whether a count was given, as opposed to the zero value.
func (c CountSpec) IsSet() bool {
	return c.kind != countUnset
}

// SatisfiedBy reports whether actual calls meet the constraint.
func (c CountSpec) SatisfiedBy(actual int) bool {
	switch c.kind {
	case countExactly:
		return actual == c.n
	case countAtLeast:
		return actual >= c.n
	case countAtMost:
		return actual <= c.n
	case countAny, countUnset:
		return true
	}

	return false
}

func (c CountSpec) String() string {
	switch c.kind {
	case countExactly:
		return fmt.Sprintf("exactly %s", times(c.n))
	case countAtLeast:
		return fmt.Sprintf("at least %s", times(c.n))
	case countAtMost:
		return fmt.Sprintf("at most %s", times(c.n))
	case countAny, countUnset:
		return "any number of times"
	}

	return "unknown count"
}

// saturatedAt reports whether another call would exceed the constraint. A
// zero-call constraint never saturates, so the record keeps claiming calls
// and can report them.
func (c CountSpec) saturatedAt(actual int) bool {
	switch c.kind {
	case countExactly, countAtMost:
		return c.n > 0 && actual >= c.n
	case countAtLeast, countAny, countUnset:
		return false
	}

	return false
}

// Options tune a record as it is added to a double.
type Options struct {
	// Count overrides the record's default call-count constraint.
	Count CountSpec
	// Args constrains the arguments the record matches. nil matches any
	// arguments; an empty non-nil slice matches only a call with none.
	Args []any
	// Returns are handed back when the record has no implementation.
	Returns []any
}

// Record is one constraint on how a doubled method may or must be called.
type Record interface {
	ActualCount() int
	CalledMaxTimes() bool
	ExpectedCount() CountSpec
	ExpectedFrom() string
	IncreaseActualCount()
	Invoke(args ...any) ([]any, error)
	Matches(method string, args ...any) bool
	MethodName() string
	Negative() bool
	Verify() error
}

// MessageExpectation is a positive record: an expectation when its count is
// constrained, a stub when any number of calls is allowed.
type MessageExpectation struct {
	errorGenerator ErrorGenerator
	ordering       OrderGroup
	expectedFrom   string
	double         *MethodDouble
	count          CountSpec
	args           []any
	returns        []any
	impl           Impl
	actual         int
}

// ActualCount returns how many calls the record has received.
func (m *MessageExpectation) ActualCount() int {
	return m.actual
}

// AndReturn sets the values handed back when the record has no implementation.
func (m *MessageExpectation) AndReturn(values ...any) *MessageExpectation {
	m.returns = values

	return m
}

// CalledMaxTimes reports whether the record has taken every call it allows.
func (m *MessageExpectation) CalledMaxTimes() bool {
	return m.count.saturatedAt(m.actual)
}

// ExpectedCount returns the record's call-count constraint.
func (m *MessageExpectation) ExpectedCount() CountSpec {
	return m.count
}

// ExpectedFrom returns the source location the record was declared at.
func (m *MessageExpectation) ExpectedFrom() string {
	return m.expectedFrom
}

// IncreaseActualCount counts a call that was answered by another record.
func (m *MessageExpectation) IncreaseActualCount() {
	m.actual++
}

// Invoke counts the call and produces its result. A call beyond the
// record's maximum fails immediately.
func (m *MessageExpectation) Invoke(args ...any) ([]any, error) {
	if m.CalledMaxTimes() {
		m.actual++

		return nil, m.errorGenerator.ReceivedCountError(m)
	}

	m.actual++

	if m.ordering != nil {
		if err := m.ordering.Handle(m); err != nil {
			return nil, err
		}
	}

	if m.impl != nil {
		return m.impl(m.double.Object(), args...)
	}

	return append([]any(nil), m.returns...), nil
}

// Matches reports whether a call of method with args belongs to this record.
func (m *MessageExpectation) Matches(method string, args ...any) bool {
	if method != m.MethodName() {
		return false
	}

	if m.args == nil {
		return true
	}

	return MatchArgs(args, m.args) == nil
}

// MethodName returns the doubled method's name.
func (m *MessageExpectation) MethodName() string {
	return m.double.MethodName()
}

// Negative is false for positive records.
func (m *MessageExpectation) Negative() bool {
	return false
}

// Times replaces the record's call-count constraint.
func (m *MessageExpectation) Times(count CountSpec) *MessageExpectation {
	m.count = count

	return m
}

// Verify reports whether the call-count constraint was met.
func (m *MessageExpectation) Verify() error {
	if m.count.SatisfiedBy(m.actual) {
		return nil
	}

	return m.errorGenerator.ReceivedCountError(m)
}

func (m *MessageExpectation) receiver() *Object {
	return m.double.Object()
}

// WithArgs restricts the record to calls whose arguments match. Values are
// compared with reflect.DeepEqual; Matcher values (gomega matchers included)
// decide for themselves.
func (m *MessageExpectation) WithArgs(args ...any) *MessageExpectation {
	if args == nil {
		args = []any{}
	}

	m.args = args

	return m
}

// NegativeMessageExpectation is a record that must not be called.
type NegativeMessageExpectation struct {
	*MessageExpectation
}

// Invoke counts the call and fails immediately.
func (n *NegativeMessageExpectation) Invoke(...any) ([]any, error) {
	n.actual++

	return nil, n.errorGenerator.ReceivedCountError(n)
}

// Negative is true for records that must not be called.
func (n *NegativeMessageExpectation) Negative() bool {
	return true
}

// Verify fails if the record was called at all.
func (n *NegativeMessageExpectation) Verify() error {
	if n.actual == 0 {
		return nil
	}

	return n.errorGenerator.ReceivedCountError(n)
}

// WithArgs restricts the negative constraint to calls whose arguments match.
func (n *NegativeMessageExpectation) WithArgs(args ...any) *NegativeMessageExpectation {
	n.MessageExpectation.WithArgs(args...)

	return n
}

// OrderGroup is consulted each time a record is invoked, so callers can
// enforce sequencing across records. It is opaque to the double.
type OrderGroup interface {
	Handle(r Record) error
}

// Unordered places no constraint on call order.
type Unordered struct{}

// Handle always accepts.
func (Unordered) Handle(Record) error {
	return nil
}

type countKind int

// countKind values.
const (
	countUnset countKind = iota
	countExactly
	countAtLeast
	countAtMost
	countAny
)

func newMessageExpectation(
	errorGenerator ErrorGenerator,
	ordering OrderGroup,
	expectedFrom string,
	double *MethodDouble,
	count CountSpec,
	opts Options,
	impl Impl,
) *MessageExpectation {
	if errorGenerator == nil {
		errorGenerator = DefaultErrorGenerator{}
	}

	if opts.Count.IsSet() {
		count = opts.Count
	}

	return &MessageExpectation{
		errorGenerator: errorGenerator,
		ordering:       ordering,
		expectedFrom:   expectedFrom,
		double:         double,
		count:          count,
		args:           opts.Args,
		returns:        opts.Returns,
		impl:           impl,
	}
}

func newNegativeMessageExpectation(
	errorGenerator ErrorGenerator,
	ordering OrderGroup,
	expectedFrom string,
	double *MethodDouble,
	impl Impl,
) *NegativeMessageExpectation {
	return &NegativeMessageExpectation{
		MessageExpectation: newMessageExpectation(
			errorGenerator, ordering, expectedFrom, double, Never(), Options{}, impl,
		),
	}
}

func times(n int) string {
	if n == 1 {
		return "once"
	}

	return fmt.Sprintf("%d times", n)
}
