package core

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// TestReporter is the minimal interface impstub needs from test frameworks.
type TestReporter interface {
	Helper()
	Fatalf(format string, args ...any)
}

// SpaceFor returns the Space for the given test, creating one if needed.
// Multiple calls with the same TestReporter return the same Space; opts only
// apply when the Space is created.
//
// If the TestReporter supports Cleanup (like *testing.T), the Space is
// verified and then reset when the test completes, and removed from the
// registry. The reset happens even when verification fails.
func SpaceFor(t TestReporter, opts ...Option) *Space {
	registryMu.Lock()
	defer registryMu.Unlock()

	if space, ok := registry[t]; ok {
		return space
	}

	space := NewSpace(append([]Option{WithLogger(loggerFor(t))}, opts...)...)
	registry[t] = space

	if cr, ok := t.(cleanupRegistrar); ok {
		cr.Cleanup(func() {
			defer forget(t)
			defer space.ResetAll()

			if err := space.VerifyAll(); err != nil {
				t.Helper()
				t.Fatalf("%v", err)
			}
		})
	}

	return space
}

// Reset restores everything doubled under t. If no Space exists for t, Reset
// does nothing.
func Reset(t TestReporter) {
	if space, ok := lookupSpace(t); ok {
		space.ResetAll()
	}
}

// Verify checks every expectation registered under t and fails the test on
// the first problem found. If no Space exists for t, Verify does nothing.
func Verify(t TestReporter) {
	t.Helper()

	space, ok := lookupSpace(t)
	if !ok {
		return
	}

	if err := space.VerifyAll(); err != nil {
		t.Fatalf("%v", err)
	}
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Package-level registry is intentional for test coordination
	registry = make(map[TestReporter]*Space)
	//nolint:gochecknoglobals // Mutex for registry
	registryMu sync.Mutex
)

// cleanupRegistrar is the interface needed for registering cleanup functions.
// This is satisfied by *testing.T and *testing.B.
type cleanupRegistrar interface {
	Cleanup(cleanupFunc func())
}

func forget(t TestReporter) {
	registryMu.Lock()
	delete(registry, t)
	registryMu.Unlock()
}

func lookupSpace(t TestReporter) (*Space, bool) {
	registryMu.Lock()
	defer registryMu.Unlock()

	space, ok := registry[t]

	return space, ok
}

// loggerFor routes diagnostics into the test log when t can take them.
func loggerFor(t TestReporter) *zap.Logger {
	if tt, ok := t.(zaptest.TestingT); ok {
		return zaptest.NewLogger(tt, zaptest.Level(zap.WarnLevel))
	}

	return zap.NewNop()
}
