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

package env_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rinaproto/rina/private/config"
	"github.com/rinaproto/rina/private/env"
)

func TestGeneralSample(t *testing.T) {
	var sample bytes.Buffer
	var cfg env.General
	cfg.Sample(&sample, nil, map[string]string{config.ID: "normal-1"})
	require.NoError(t, config.Decode(sample.Bytes(), &cfg))
	cfg.InitDefaults()
	assert.Equal(t, "normal-1", cfg.ID)
	assert.Empty(t, cfg.ConfigDir)
	assert.NoError(t, cfg.Validate())
}

func TestGeneralValidate(t *testing.T) {
	assert.Error(t, (&env.General{}).Validate())
	assert.Error(t, (&env.General{ID: "x", ConfigDir: "/does/not/exist"}).Validate())
	assert.NoError(t, (&env.General{ID: "x", ConfigDir: t.TempDir()}).Validate())
}

func TestMetricsSample(t *testing.T) {
	var sample bytes.Buffer
	var cfg env.Metrics
	cfg.Sample(&sample, nil, nil)
	require.NoError(t, config.Decode(sample.Bytes(), &cfg))
	assert.Empty(t, cfg.Prometheus)
}

func TestServePrometheusDisabled(t *testing.T) {
	var cfg env.Metrics
	assert.NoError(t, cfg.ServePrometheus(t.Context()))
}
