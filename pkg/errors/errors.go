// Package errors provides structured error handling for the fiber engine.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

var (
	// ErrNoStore is raised by UseStore when the root was rendered without a store.
	ErrNoStore = stderrors.New("store was not created")
	// ErrNilSelector is raised by UseStore when the selector is nil.
	ErrNilSelector = stderrors.New("UseStore needs a selector function")
	// ErrHookOrder is raised when a hook of a different kind occupies the
	// same position as in the previous render.
	ErrHookOrder = stderrors.New("hooks called in a different order than the previous render")
	// ErrStateType is raised when the store state cannot be converted to the
	// selector's input type.
	ErrStateType = stderrors.New("store state does not match selector input type")
	// ErrUpdateLoop is raised when updates keep re-arming render passes
	// without the tree ever settling.
	ErrUpdateLoop = stderrors.New("too many nested updates")
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindConfig indicates missing or invalid configuration.
	KindConfig
	// KindArgument indicates an invalid argument passed to a hook.
	KindArgument
	// KindHookOrder indicates the hook call order changed between renders.
	KindHookOrder
	// KindRender indicates a component evaluation failure.
	KindRender
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindCommit indicates a failure while applying host mutations.
	KindCommit
	// KindUpdateLoop indicates updates that never let a render pass settle.
	KindUpdateLoop
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindArgument:
		return "argument"
	case KindHookOrder:
		return "hook-order"
	case KindRender:
		return "render"
	case KindPanic:
		return "panic"
	case KindCommit:
		return "commit"
	case KindUpdateLoop:
		return "update-loop"
	default:
		return "unknown"
	}
}

// EngineError represents a structured error raised by the engine.
type EngineError struct {
	// Op is the operation that failed (e.g., "core.UseStore").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Component is the name of the component being evaluated, if any.
	Component string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *EngineError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("%s [%s] component=%s: %v", e.Op, e.Kind, e.Component, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// Config builds a configuration error for op.
func Config(op string, err error) *EngineError {
	return &EngineError{Op: op, Kind: KindConfig, Err: err, Timestamp: time.Now()}
}

// Argument builds an argument error for op.
func Argument(op string, err error) *EngineError {
	return &EngineError{Op: op, Kind: KindArgument, Err: err, Timestamp: time.Now()}
}

// HookOrder builds a hook order error for op.
func HookOrder(op string, index int) *EngineError {
	return &EngineError{
		Op:        op,
		Kind:      KindHookOrder,
		Err:       fmt.Errorf("%w (index %d)", ErrHookOrder, index),
		Timestamp: time.Now(),
	}
}

// UpdateLoop builds the error for op giving up after limit re-armed passes.
func UpdateLoop(op string, limit int) *EngineError {
	return &EngineError{
		Op:        op,
		Kind:      KindUpdateLoop,
		Err:       fmt.Errorf("%w (limit %d)", ErrUpdateLoop, limit),
		Timestamp: time.Now(),
	}
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "scheduler.RunFrame").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// RenderError represents a failure during component evaluation.
type RenderError struct {
	// Component is the name of the component that failed.
	Component string
	// Recovered is the panic value (nil when Err carries an engine error).
	Recovered any
	// Err is the underlying error (nil for plain panics).
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("error in %s render: %v", e.Component, e.Err)
	}
	if e.Recovered != nil {
		return fmt.Sprintf("panic in %s render: %v", e.Component, e.Recovered)
	}
	return fmt.Sprintf("unknown error in %s render", e.Component)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first EngineError in err's chain, or
// KindRender for render errors without one.
func KindOf(err error) ErrorKind {
	var engineErr *EngineError
	if stderrors.As(err, &engineErr) {
		return engineErr.Kind
	}
	var renderErr *RenderError
	if stderrors.As(err, &renderErr) {
		return KindRender
	}
	var panicErr *PanicError
	if stderrors.As(err, &panicErr) {
		return KindPanic
	}
	return KindUnknown
}

// ErrorHandler receives errors reported by the engine.
type ErrorHandler interface {
	// HandleError is called when an engine error occurs.
	HandleError(err *EngineError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleRenderError is called when a component evaluation fails.
	HandleRenderError(err *RenderError)
}
