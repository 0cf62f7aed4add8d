package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"
)

var (
	handlerMu sync.RWMutex
	handler   ErrorHandler = &LogHandler{}
)

// SetHandler installs the handler errors are reported to and returns the
// previous one. Passing nil restores a LogHandler.
func SetHandler(h ErrorHandler) ErrorHandler {
	if h == nil {
		h = &LogHandler{}
	}
	handlerMu.Lock()
	defer handlerMu.Unlock()
	prev := handler
	handler = h
	return prev
}

func getHandler() ErrorHandler {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return handler
}

// Report sends an engine error to the installed handler, stamping it when
// Timestamp is zero.
func Report(err *EngineError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	getHandler().HandleError(err)
}

// ReportPanic sends a recovered panic to the installed handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	getHandler().HandlePanic(err)
}

// ReportRenderError sends a failed component evaluation to the installed
// handler.
func ReportRenderError(err *RenderError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	getHandler().HandleRenderError(err)
}

// RecoverPanic reports value, recovered while running op, and returns it as
// a *PanicError. Call it from the deferred function that recovered:
//
//	defer func() {
//		if r := recover(); r != nil {
//			err = errors.RecoverPanic("scheduler.Post", r)
//		}
//	}()
func RecoverPanic(op string, value any) *PanicError {
	err := &PanicError{
		Op:         op,
		Value:      value,
		StackTrace: CaptureStack(),
		Timestamp:  time.Now(),
	}
	ReportPanic(err)
	return err
}

// FromRecovered builds the RenderError for a value recovered from a failed
// evaluation of component. An *EngineError raised by a hook becomes Err and
// is tagged with the component; other errors are kept as both Err and
// Recovered; any other value only as Recovered.
func FromRecovered(component string, recovered any) *RenderError {
	renderErr := &RenderError{
		Component:  component,
		StackTrace: CaptureStack(),
		Timestamp:  time.Now(),
	}
	switch v := recovered.(type) {
	case *EngineError:
		v.Component = component
		renderErr.Err = v
	case error:
		renderErr.Err = v
		renderErr.Recovered = recovered
	default:
		renderErr.Recovered = recovered
	}
	return renderErr
}

// CaptureStack returns the caller's stack, one "function\n\tfile:line"
// entry per frame. Runtime frames are left out, so a stack captured while
// recovering starts at the function that panicked.
func CaptureStack() string {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(2, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var sb strings.Builder
	for {
		frame, more := frames.Next()
		if frame.Function != "" && !strings.HasPrefix(frame.Function, "runtime.") {
			fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		}
		if !more {
			break
		}
	}
	return sb.String()
}
