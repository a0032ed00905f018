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

package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rinaproto/rina/pkg/metrics"
)

// Option configures Setup.
type Option func(o *options)

type options struct {
	entries metrics.Counter
}

// WithEntriesCounter counts every emitted entry in c. The counter is
// labeled with "level".
func WithEntriesCounter(c metrics.Counter) Option {
	return func(o *options) {
		o.entries = c
	}
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) zapOptions() []zap.Option {
	if o.entries == nil {
		return nil
	}
	count := func(e zapcore.Entry) error {
		metrics.CounterInc(o.entries.With("level", e.Level.String()))
		return nil
	}
	return []zap.Option{zap.Hooks(count)}
}
