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

package log_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rinaproto/rina/pkg/log"
	"github.com/rinaproto/rina/pkg/log/testlog"
	"github.com/rinaproto/rina/pkg/metrics"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]struct {
		Input    string
		Expected log.Level
		Err      bool
	}{
		"debug":       {Input: "debug", Expected: log.DebugLevel},
		"upper info":  {Input: "INFO", Expected: log.InfoLevel},
		"error":       {Input: "error", Expected: log.ErrorLevel},
		"warn":        {Input: "warn", Err: true},
		"garbage":     {Input: "verbose", Err: true},
		"empty input": {Input: "", Expected: log.InfoLevel},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			lvl, err := log.ParseLevel(tc.Input)
			if tc.Err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.Expected, lvl)
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	var cfg log.Config
	cfg.InitDefaults()
	assert.Equal(t, log.DefaultConsoleLevel, cfg.Console.Level)
	assert.Equal(t, log.DefaultConsoleFormat, cfg.Console.Format)
	assert.NoError(t, cfg.Validate())

	cfg.Console.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestFromCtx(t *testing.T) {
	t.Run("no logger attached returns root", func(t *testing.T) {
		assert.NotNil(t, log.FromCtx(context.Background()))
	})
	t.Run("attached logger is returned", func(t *testing.T) {
		l := testlog.NewLogger(t)
		ctx := log.CtxWith(context.Background(), l)
		assert.Equal(t, l, log.FromCtx(ctx))
	})
	t.Run("labels are added", func(t *testing.T) {
		ctx := log.CtxWith(context.Background(), testlog.NewLogger(t))
		ctx, l := log.WithLabels(ctx, "neighbor", "b.IPCP|1")
		assert.Equal(t, l, log.FromCtx(ctx))
	})
}

func TestSetupCountsEntries(t *testing.T) {
	t.Cleanup(func() {
		log.Discard()
		log.SetLevel(log.InfoLevel)
	})
	entries := metrics.NewTestCounter()
	cfg := log.Config{}
	cfg.Console.Level = "debug"
	require.NoError(t, log.Setup(cfg, log.WithEntriesCounter(entries)))

	log.Debug("counted")
	log.Info("counted")
	log.Info("counted")
	log.Error("counted")

	assert.Equal(t, float64(1), metrics.CounterValue(entries.With("level", "debug")))
	assert.Equal(t, float64(2), metrics.CounterValue(entries.With("level", "info")))
	assert.Equal(t, float64(1), metrics.CounterValue(entries.With("level", "error")))
}
