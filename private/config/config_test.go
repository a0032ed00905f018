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

package config_test

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rinaproto/rina/pkg/private/xtest"
	"github.com/rinaproto/rina/private/config"
)

type block struct {
	config.NoValidator
	Value string `toml:"value,omitempty"`
}

func (b *block) InitDefaults() {
	if b.Value == "" {
		b.Value = "default"
	}
}

func (b *block) Sample(dst io.Writer, _ config.Path, _ config.CtxMap) {
	config.WriteString(dst, "\nvalue = \"default\"\n")
}

func (b *block) ConfigName() string {
	return "block"
}

func TestWriteSample(t *testing.T) {
	var buf bytes.Buffer
	config.WriteSample(&buf, nil, nil, &block{},
		config.OverrideName(&block{}, "other"))
	assert.Equal(t,
		"\n[block]\n    value = \"default\"\n\n[other]\n    value = \"default\"\n",
		buf.String())
}

func TestWriteSampleNested(t *testing.T) {
	var buf bytes.Buffer
	config.WriteSample(&buf, config.Path{"outer"}, nil, &block{})
	assert.Contains(t, buf.String(), "[outer.block]")
}

func TestPathExtend(t *testing.T) {
	p := config.Path{"a"}
	q := p.Extend("b")
	assert.Equal(t, config.Path{"a"}, p)
	assert.Equal(t, config.Path{"a", "b"}, q)
}

func TestDecode(t *testing.T) {
	t.Run("known field", func(t *testing.T) {
		var b block
		require.NoError(t, config.Decode([]byte(`value = "x"`), &b))
		assert.Equal(t, "x", b.Value)
	})
	t.Run("unknown field", func(t *testing.T) {
		var b block
		assert.Error(t, config.Decode([]byte(`nope = "x"`), &b))
	})
}

func TestLoadFile(t *testing.T) {
	file := xtest.MustWriteToFile(t, []byte(`value = "file"`), "cfg.toml")
	var b block
	require.NoError(t, config.LoadFile(file, &b))
	assert.Equal(t, "file", b.Value)

	assert.Error(t, config.LoadFile(filepath.Join(t.TempDir(), "missing"), &b))
}

func TestInitAll(t *testing.T) {
	a, b := &block{}, &block{Value: "set"}
	config.InitAll(a, b)
	assert.Equal(t, "default", a.Value)
	assert.Equal(t, "set", b.Value)
	assert.NoError(t, config.ValidateAll(a, b))
}
