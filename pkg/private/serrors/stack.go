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

package serrors

import (
	"runtime"
	"strconv"

	"go.uber.org/zap/zapcore"
)

const maxStackDepth = 32

// stack holds program counters from innermost to outermost.
type stack []uintptr

func frameText(pc uintptr) string {
	fn := runtime.FuncForPC(pc - 1)
	if fn == nil {
		return "unknown"
	}
	file, line := fn.FileLine(pc - 1)
	return fn.Name() + " " + file + ":" + strconv.Itoa(line)
}

// MarshalLogArray renders one "function file:line" string per frame.
func (s *stack) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, pc := range *s {
		enc.AppendString(frameText(pc))
	}
	return nil
}

func callers() *stack {
	var pcs [maxStackDepth]uintptr
	// Skip runtime.Callers, callers, annotate and the exported constructor.
	n := runtime.Callers(4, pcs[:])
	st := stack(pcs[:n])
	return &st
}
