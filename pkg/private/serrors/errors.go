// Copyright 2026 The rinaproto Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package serrors provides errors that carry structured log context.
//
// Every error returned by this package is a pointer, so it can be compared
// and used as a sentinel. Context is a list of key value pairs that is
// rendered sorted by key, both in the error string and in the zap object
// encoding. The innermost error of a chain records the call stack, outer
// wrappers do not repeat it.
package serrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxPair struct {
	Key   string
	Value any
}

// annotated is the error type behind New, Wrap and JoinNoStack. Exactly one
// of msg and base describes the error itself.
type annotated struct {
	msg   string
	base  error
	cause error
	ctx   []ctxPair
	stack *stack
}

func annotate(msg string, base, cause error, withStack bool, errCtx []any) *annotated {
	e := &annotated{msg: msg, base: base, cause: cause}
	for i := 0; i+1 < len(errCtx); i += 2 {
		e.ctx = append(e.ctx, ctxPair{Key: fmt.Sprint(errCtx[i]), Value: errCtx[i+1]})
	}
	sort.SliceStable(e.ctx, func(a, b int) bool { return e.ctx[a].Key < e.ctx[b].Key })
	if withStack && !hasStack(cause) {
		e.stack = callers()
	}
	return e
}

func hasStack(err error) bool {
	var a *annotated
	for err != nil && errors.As(err, &a) {
		if a.stack != nil {
			return true
		}
		err = a.cause
	}
	return false
}

func (e *annotated) head() string {
	if e.base != nil {
		return e.base.Error()
	}
	return e.msg
}

func (e *annotated) Error() string {
	var b strings.Builder
	b.WriteString(e.head())
	if len(e.ctx) > 0 {
		b.WriteString(" {")
		for i, p := range e.ctx {
			if i > 0 {
				b.WriteString("; ")
			}
			fmt.Fprintf(&b, "%s=%v", p.Key, p.Value)
		}
		b.WriteString("}")
	}
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

// Unwrap returns the base and the cause, whichever are set.
func (e *annotated) Unwrap() []error {
	var r []error
	for _, err := range []error{e.base, e.cause} {
		if err != nil {
			r = append(r, err)
		}
	}
	return r
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (e *annotated) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("msg", e.head())
	switch c := e.cause.(type) {
	case nil:
	case zapcore.ObjectMarshaler:
		if err := enc.AddObject("cause", c); err != nil {
			return err
		}
	default:
		enc.AddString("cause", c.Error())
	}
	if e.stack != nil {
		if err := enc.AddArray("stacktrace", e.stack); err != nil {
			return err
		}
	}
	for _, p := range e.ctx {
		zap.Any(p.Key, p.Value).AddTo(enc)
	}
	return nil
}

// New returns an error with the message and context. It records the stack.
func New(msg string, errCtx ...any) error {
	return annotate(msg, nil, nil, true, errCtx)
}

// Wrap returns an error that describes msg and is caused by cause. The stack
// is recorded unless cause already carries one. errors.Is(err, cause) holds.
func Wrap(msg string, cause error, errCtx ...any) error {
	return annotate(msg, nil, cause, true, errCtx)
}

// JoinNoStack attaches context and an optional cause to base, typically a
// sentinel. errors.Is holds for both base and cause. No stack is recorded.
// It returns nil if both base and cause are nil.
func JoinNoStack(base, cause error, errCtx ...any) error {
	if base == nil && cause == nil {
		return nil
	}
	if base == nil {
		base, cause = cause, nil
	}
	return annotate("", base, cause, false, errCtx)
}

// List collects errors, for example of independent cleanup steps.
type List []error

// Error renders all errors.
func (e List) Error() string {
	s := make([]string, 0, len(e))
	for _, err := range e {
		s = append(s, err.Error())
	}
	return "[ " + strings.Join(s, "; ") + " ]"
}

// ToError returns nil for an empty list and the list otherwise.
func (e List) ToError() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// MarshalLogArray implements zapcore.ArrayMarshaler.
func (e List) MarshalLogArray(ae zapcore.ArrayEncoder) error {
	for _, err := range e {
		m, ok := err.(zapcore.ObjectMarshaler)
		if !ok {
			ae.AppendString(err.Error())
			continue
		}
		if err := ae.AppendObject(m); err != nil {
			return err
		}
	}
	return nil
}
