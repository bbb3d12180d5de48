package core

import (
	"fmt"
	"runtime"
	"strings"
)

// CallerLocation returns "file:line" of the first stack frame outside this
// library, which is where the test declared the stub or expectation.
func CallerLocation() string {
	return callerLocation()
}

func callerLocation() string {
	pcs := make([]uintptr, maxCallerDepth)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		if !libraryFrame(frame) {
			return fmt.Sprintf("%s:%d", frame.File, frame.Line)
		}

		if !more {
			return IgnoredBacktraceLine
		}
	}
}

// libraryFrame reports whether frame belongs to impstub's own non-test code.
func libraryFrame(frame runtime.Frame) bool {
	if strings.HasSuffix(frame.File, "_test.go") {
		return false
	}

	return strings.HasPrefix(frame.Function, modulePath+".") ||
		strings.HasPrefix(frame.Function, modulePath+"/")
}

const (
	maxCallerDepth = 32
	modulePath     = "github.com/toejough/impstub"
)
