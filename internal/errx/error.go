package errx

import (
	"errors"
	"fmt"
	"runtime"
)

// Code is the stable identifier of an error's meaning.
type Code string

type kind uint8

const (
	kindBiz kind = iota
	kindSys
)

// Error is the shared error model:
//   - code/msg: what went wrong, stable across releases
//   - parents: codes of the families this error belongs to
//   - data: call-site context (copied on write)
//   - cause: underlying error chain
//   - stack: captured once, for system errors only, where a cause is first attached
type Error struct {
	code    Code
	msg     string
	parents []Code
	data    map[string]any
	cause   error
	stack   []uintptr
	kind    kind
}

// NewBiz creates a rule or caller error. These never capture a stack.
func NewBiz(code Code, msg string) *Error {
	return &Error{
		code: code,
		msg:  msg,
		kind: kindBiz,
	}
}

// NewSys creates a system error.
func NewSys(code Code, msg string) *Error {
	return &Error{
		code: code,
		msg:  msg,
		kind: kindSys,
	}
}

// Sub derives a more specific error that still matches e (and e's own
// families) under errors.Is.
func (e *Error) Sub(code Code, msg string) *Error {
	parents := make([]Code, 0, len(e.parents)+1)
	parents = append(parents, e.code)
	parents = append(parents, e.parents...)
	return &Error{
		code:    code,
		msg:     msg,
		parents: parents,
		kind:    e.kind,
	}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.msg == "" {
		if e.cause == nil {
			return string(e.code)
		}
		return fmt.Sprintf("%s: %v", e.code, e.cause)
	}
	if e.cause == nil {
		return fmt.Sprintf("%s: %s", e.code, e.msg)
	}
	return fmt.Sprintf("%s: %s: %v", e.code, e.msg, e.cause)
}

// Unwrap lets errors.Is / errors.As walk the cause chain.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is compares by code only; msg, data and cause are ignored. A target that
// names one of e's families also matches.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return false
	}
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}
	if e.code == t.code {
		return true
	}
	for _, p := range e.parents {
		if p == t.code {
			return true
		}
	}
	return false
}

func (e *Error) Code() Code {
	if e == nil {
		return ""
	}
	return e.code
}

func (e *Error) CodeText() string {
	if e == nil {
		return ""
	}
	return string(e.code)
}

func (e *Error) Msg() string {
	if e == nil {
		return ""
	}
	return e.msg
}

// Data returns a copy of the attached context.
func (e *Error) Data() map[string]any {
	if e == nil || e.data == nil {
		return nil
	}
	return cloneAnyMap(e.data)
}

// Stack returns the call stack captured when a system error first got a cause.
func (e *Error) Stack() []uintptr {
	if e == nil || len(e.stack) == 0 {
		return nil
	}
	out := make([]uintptr, len(e.stack))
	copy(out, e.stack)
	return out
}

func (e *Error) WithData(key string, value any) *Error {
	next := e.clone()
	if next.data == nil {
		next.data = make(map[string]any, 1)
	}
	next.data[key] = value
	return next
}

func (e *Error) WithDataMap(data map[string]any) *Error {
	next := e.clone()
	if len(data) == 0 {
		return next
	}
	if next.data == nil {
		next.data = make(map[string]any, len(data))
	}
	for k, v := range data {
		next.data[k] = v
	}
	return next
}

func (e *Error) WithCause(cause error) *Error {
	next := e.clone()
	next.cause = cause
	// Capture once: skip if something further down the chain already has a stack.
	if next.kind == kindSys && cause != nil && len(next.stack) == 0 && !hasStackInChain(cause) {
		next.stack = captureStack(3)
	}
	return next
}

func (e *Error) clone() *Error {
	return &Error{
		code:    e.code,
		msg:     e.msg,
		parents: e.parents,
		data:    cloneAnyMap(e.data),
		cause:   e.cause,
		stack:   cloneStack(e.stack),
		kind:    e.kind,
	}
}

func cloneAnyMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneStack(in []uintptr) []uintptr {
	if len(in) == 0 {
		return nil
	}
	out := make([]uintptr, len(in))
	copy(out, in)
	return out
}

func captureStack(skip int) []uintptr {
	const maxDepth = 64
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(skip, pcs)
	if n <= 0 {
		return nil
	}
	return pcs[:n]
}

func hasStackInChain(err error) bool {
	const maxDepth = 32
	for i := 0; i < maxDepth && err != nil; i++ {
		if sp, ok := err.(interface{ Stack() []uintptr }); ok && len(sp.Stack()) != 0 {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}
