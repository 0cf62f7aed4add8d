package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestEngineErrorString(t *testing.T) {
	err := Config("core.UseStore", ErrNoStore)
	got := err.Error()
	want := "core.UseStore [config]: store was not created"
	if got != want {
		t.Errorf("EngineError.Error() = %q, want %q", got, want)
	}
}

func TestEngineErrorWithComponent(t *testing.T) {
	err := &EngineError{
		Op:        "core.UseStore",
		Kind:      KindArgument,
		Component: "TodoList",
		Err:       ErrNilSelector,
	}
	if !strings.Contains(err.Error(), "component=TodoList") {
		t.Errorf("error string %q should contain component", err.Error())
	}
}

func TestEngineErrorUnwrap(t *testing.T) {
	err := Argument("core.UseStore", ErrNilSelector)
	if !stderrors.Is(err, ErrNilSelector) {
		t.Error("expected errors.Is to find ErrNilSelector")
	}
}

func TestHookOrderError(t *testing.T) {
	err := HookOrder("core.UseState", 2)
	if !stderrors.Is(err, ErrHookOrder) {
		t.Error("expected errors.Is to find ErrHookOrder")
	}
	if !strings.Contains(err.Error(), "index 2") {
		t.Errorf("error %q should mention index", err.Error())
	}
}

func TestUpdateLoopError(t *testing.T) {
	err := UpdateLoop("core.Work", 50)
	if !stderrors.Is(err, ErrUpdateLoop) {
		t.Error("expected errors.Is to find ErrUpdateLoop")
	}
	if KindOf(err) != KindUpdateLoop {
		t.Errorf("KindOf = %v, want update-loop", KindOf(err))
	}
	if !strings.Contains(err.Error(), "limit 50") {
		t.Errorf("error %q should mention the limit", err.Error())
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindConfig, "config"},
		{KindArgument, "argument"},
		{KindHookOrder, "hook-order"},
		{KindRender, "render"},
		{KindPanic, "panic"},
		{KindCommit, "commit"},
		{KindUpdateLoop, "update-loop"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestKindOf(t *testing.T) {
	wrapped := &RenderError{Component: "Counter", Err: Config("core.UseStore", ErrNoStore)}
	if got := KindOf(wrapped); got != KindConfig {
		t.Errorf("KindOf(render wrapping config) = %v, want config", got)
	}
	if got := KindOf(&RenderError{Component: "Counter", Recovered: "boom"}); got != KindRender {
		t.Errorf("KindOf(render panic) = %v, want render", got)
	}
	if got := KindOf(fmt.Errorf("outer: %w", &PanicError{Value: 1})); got != KindPanic {
		t.Errorf("KindOf(panic) = %v, want panic", got)
	}
	if got := KindOf(stderrors.New("plain")); got != KindUnknown {
		t.Errorf("KindOf(plain) = %v, want unknown", got)
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{Value: "test panic", Timestamp: time.Now()}
	if got, want := err.Error(), "panic: test panic"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}

	err.Op = "scheduler.RunFrame"
	if got, want := err.Error(), "panic in scheduler.RunFrame: test panic"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestRenderErrorString(t *testing.T) {
	err := &RenderError{Component: "Counter", Recovered: "nil pointer dereference"}
	if got, want := err.Error(), "panic in Counter render: nil pointer dereference"; got != want {
		t.Errorf("RenderError.Error() = %q, want %q", got, want)
	}

	err2 := &RenderError{Component: "Counter", Err: ErrNoStore}
	if !strings.Contains(err2.Error(), "error in Counter render") {
		t.Errorf("RenderError.Error() = %q, should contain 'error in'", err2.Error())
	}

	err3 := &RenderError{Component: "Counter"}
	if got, want := err3.Error(), "unknown error in Counter render"; got != want {
		t.Errorf("RenderError.Error() = %q, want %q", got, want)
	}
}

func TestReport(t *testing.T) {
	var captured *EngineError
	handler := &testHandler{onError: func(err *EngineError) { captured = err }}

	SetHandler(handler)
	defer SetHandler(nil)

	Report(&EngineError{Op: "test.op", Kind: KindConfig, Err: ErrNoStore})

	if captured == nil {
		t.Fatal("expected error to be captured")
	}
	if captured.Op != "test.op" {
		t.Errorf("Op = %q, want %q", captured.Op, "test.op")
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestReportRenderError(t *testing.T) {
	var captured *RenderError
	handler := &testHandler{onRenderError: func(err *RenderError) { captured = err }}

	SetHandler(handler)
	defer SetHandler(nil)

	ReportRenderError(&RenderError{Component: "Title", Recovered: "boom"})

	if captured == nil {
		t.Fatal("expected render error to be captured")
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestRecoverPanic(t *testing.T) {
	var captured *PanicError
	prev := SetHandler(&testHandler{onPanic: func(err *PanicError) { captured = err }})
	defer SetHandler(prev)

	var returned *PanicError
	func() {
		defer func() {
			if r := recover(); r != nil {
				returned = RecoverPanic("test.recover", r)
			}
		}()
		panic("intentional test panic")
	}()

	if captured == nil {
		t.Fatal("expected panic to be reported")
	}
	if captured != returned {
		t.Error("expected the reported error to be returned")
	}
	if captured.Value != "intentional test panic" {
		t.Errorf("Value = %v, want %q", captured.Value, "intentional test panic")
	}
	if captured.Op != "test.recover" {
		t.Errorf("Op = %q, want %q", captured.Op, "test.recover")
	}
	if strings.HasPrefix(captured.StackTrace, "runtime.") {
		t.Errorf("stack should skip runtime frames, got: %s", captured.StackTrace)
	}
}

func TestFromRecovered(t *testing.T) {
	hookErr := Config("core.UseStore", ErrNoStore)
	err := FromRecovered("TodoList", hookErr)
	if err.Err != hookErr || err.Recovered != nil {
		t.Errorf("engine error should become Err only, got Err=%v Recovered=%v", err.Err, err.Recovered)
	}
	if hookErr.Component != "TodoList" {
		t.Errorf("Component = %q, want TodoList", hookErr.Component)
	}
	if KindOf(err) != KindConfig {
		t.Errorf("KindOf = %v, want config", KindOf(err))
	}

	plain := stderrors.New("boom")
	err = FromRecovered("Title", plain)
	if err.Err != plain || err.Recovered != plain {
		t.Errorf("error values should be kept as Err and Recovered")
	}

	err = FromRecovered("Title", 42)
	if err.Err != nil || err.Recovered != 42 {
		t.Errorf("plain values should be kept as Recovered only")
	}
	if KindOf(err) != KindRender {
		t.Errorf("KindOf = %v, want render", KindOf(err))
	}
}

func TestCaptureStack(t *testing.T) {
	stack := CaptureStack()
	if stack == "" {
		t.Fatal("expected non-empty stack trace")
	}
	if !strings.Contains(stack, "testing") && !strings.Contains(stack, "runtime") {
		t.Errorf("stack trace should contain testing or runtime frames, got: %s", stack)
	}
}

func TestSetHandlerNil(t *testing.T) {
	SetHandler(nil)
	if _, ok := getHandler().(*LogHandler); !ok {
		t.Errorf("SetHandler(nil) should set LogHandler, got %T", getHandler())
	}
}

type testHandler struct {
	onError       func(*EngineError)
	onPanic       func(*PanicError)
	onRenderError func(*RenderError)
}

func (h *testHandler) HandleError(err *EngineError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}

func (h *testHandler) HandleRenderError(err *RenderError) {
	if h.onRenderError != nil {
		h.onRenderError(err)
	}
}
