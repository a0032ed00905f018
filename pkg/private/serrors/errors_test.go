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

package serrors_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rinaproto/rina/pkg/private/serrors"
)

type testErrType struct {
	msg string
}

func (e *testErrType) Error() string {
	return e.msg
}

func TestWrap(t *testing.T) {
	t.Run("Is", func(t *testing.T) {
		err := serrors.New("simple err")
		wrapped := serrors.Wrap("error", err, "someCtx", "someValue")
		assert.ErrorIs(t, wrapped, err)
		assert.ErrorIs(t, wrapped, wrapped)
	})
	t.Run("As", func(t *testing.T) {
		err := &testErrType{msg: "test err"}
		wrapped := serrors.Wrap("error", err, "someCtx", "someVal")
		var errAs *testErrType
		require.True(t, errors.As(wrapped, &errAs))
		assert.Equal(t, err, errAs)
	})
	t.Run("non comparable cause", func(t *testing.T) {
		cause := serrors.List{errors.New("a")}
		wrapped := serrors.Wrap("cleanup", cause)
		assert.ErrorIs(t, wrapped, wrapped)
		assert.NotErrorIs(t, wrapped, serrors.New("cleanup"))
	})
}

func TestJoinNoStack(t *testing.T) {
	sentinel := errors.New("sentinel")
	cause := serrors.New("cause")
	err := serrors.JoinNoStack(sentinel, cause, "name", "app1|1")
	assert.ErrorIs(t, err, sentinel)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "sentinel {name=app1|1}: cause", err.Error())
}

func TestJoinNoStackNilBase(t *testing.T) {
	assert.Nil(t, serrors.JoinNoStack(nil, nil))
	cause := errors.New("cause")
	err := serrors.JoinNoStack(nil, cause, "k", "v")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "cause {k=v}", err.Error())
}

func TestContextSorted(t *testing.T) {
	err := serrors.New("msg", "b", 2, "a", 1)
	assert.Equal(t, "msg {a=1; b=2}", err.Error())
}

func TestList(t *testing.T) {
	var l serrors.List
	assert.Nil(t, l.ToError())
	l = append(l, serrors.New("one"), fmt.Errorf("two"))
	assert.Equal(t, "[ one; two ]", l.ToError().Error())
}

func TestAtMostOneStacktrace(t *testing.T) {
	var b bytes.Buffer
	logger := zap.New(zapcore.NewCore(
		zapcore.NewJSONEncoder(zapcore.EncoderConfig{MessageKey: "msg"}),
		zapcore.AddSync(&b),
		zapcore.DebugLevel,
	))
	err := serrors.New("inner")
	for i := 0; i < 3; i++ {
		err = serrors.Wrap("wrap", err)
	}
	logger.Error("test", zap.Any("err", err))
	require.Equal(t, 1, bytes.Count(b.Bytes(), []byte("stacktrace")))
}

func ExampleNew() {
	err := serrors.New("no entry", "name", "app1|1")
	fmt.Println(err)
	// Output:
	// no entry {name=app1|1}
}

func ExampleWrap() {
	cause := errors.New("connection refused")
	fmt.Println(serrors.Wrap("dialing neighbor", cause, "addr", "10.0.0.1:31000"))
	// Output:
	// dialing neighbor {addr=10.0.0.1:31000}: connection refused
}
