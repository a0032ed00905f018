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
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rinaproto/rina/normal/config"
	"github.com/rinaproto/rina/pkg/addr"
	"github.com/rinaproto/rina/pkg/private/util"
	libconfig "github.com/rinaproto/rina/private/config"
)

func TestConfigSample(t *testing.T) {
	var sample bytes.Buffer
	var cfg config.Config
	cfg.Sample(&sample, nil, nil)

	err := toml.NewDecoder(bytes.NewReader(sample.Bytes())).DisallowUnknownFields().Decode(&cfg)
	require.NoError(t, err, sample.String())
	cfg.InitDefaults()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "normal-1", cfg.General.ID)
	assert.Equal(t, "info", cfg.Log.Console.Level)
	assert.Empty(t, cfg.API.Addr)
	assert.Equal(t, addr.MustParseAppName("normal.IPCP|1"), cfg.IPCP.Name)
	assert.Equal(t, "n.DIF", cfg.IPCP.DIF)
	assert.Equal(t, addr.Address(1), cfg.IPCP.Address)
	assert.Equal(t, config.DefaultListen, cfg.IPCP.Listen)
	assert.Empty(t, cfg.IPCP.Neighbors)
	assert.Equal(t, 10*time.Second, cfg.IPCP.KeepaliveInterval())
	assert.Equal(t, 3, cfg.IPCP.KeepaliveThreshold)
	assert.Equal(t, 10, cfg.IPCP.SyncChunk)
	assert.Equal(t, 64, cfg.IPCP.QueueSize)
	assert.Equal(t, 5*time.Second, cfg.IPCP.SendTimeout.Duration)
	assert.Equal(t, 5*time.Second, cfg.IPCP.RedialInterval.Duration)
	assert.False(t, cfg.IPCP.FeatureSet().LocalOnlyUnregister)
}

func TestIPCPDefaults(t *testing.T) {
	cfg := config.IPCP{
		Name: addr.MustParseAppName("a.IPCP|1"),
		DIF:  "n.DIF",
	}
	cfg.InitDefaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, config.DefaultKeepaliveInterval, cfg.KeepaliveInterval())
	assert.True(t, cfg.Address.IsZero())
}

func TestIPCPValidate(t *testing.T) {
	valid := func() config.IPCP {
		cfg := config.IPCP{
			Name: addr.MustParseAppName("a.IPCP|1"),
			DIF:  "n.DIF",
		}
		cfg.InitDefaults()
		return cfg
	}
	testCases := map[string]struct {
		Modify    func(*config.IPCP)
		Assertion assert.ErrorAssertionFunc
	}{
		"valid": {
			Modify:    func(*config.IPCP) {},
			Assertion: assert.NoError,
		},
		"missing name": {
			Modify:    func(c *config.IPCP) { c.Name = addr.AppName{} },
			Assertion: assert.Error,
		},
		"missing dif": {
			Modify:    func(c *config.IPCP) { c.DIF = "" },
			Assertion: assert.Error,
		},
		"negative threshold": {
			Modify:    func(c *config.IPCP) { c.KeepaliveThreshold = -1 },
			Assertion: assert.Error,
		},
		"keepalive disabled": {
			Modify:    func(c *config.IPCP) { c.Keepalive = &util.DurWrap{} },
			Assertion: assert.NoError,
		},
		"negative keepalive": {
			Modify:    func(c *config.IPCP) { c.Keepalive = &util.DurWrap{Duration: -time.Second} },
			Assertion: assert.Error,
		},
		"negative redial": {
			Modify:    func(c *config.IPCP) { c.RedialInterval.Duration = -time.Second },
			Assertion: assert.Error,
		},
		"known feature": {
			Modify:    func(c *config.IPCP) { c.Features = []string{"local_only_unregister"} },
			Assertion: assert.NoError,
		},
		"unknown feature": {
			Modify:    func(c *config.IPCP) { c.Features = []string{"nope"} },
			Assertion: assert.Error,
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			tc.Modify(&cfg)
			tc.Assertion(t, cfg.Validate())
		})
	}
}

func TestLoadFile(t *testing.T) {
	raw := `
[general]
id = "n1"

[ipcp]
name = "a.IPCP|1"
dif = "n.DIF"
address = "0xaaaa"
neighbors = ["127.0.0.1:30101", "127.0.0.1:30102"]
keepalive = "2s"
features = ["local_only_unregister"]
`
	var cfg config.Config
	require.NoError(t, libconfig.Decode([]byte(raw), &cfg))
	cfg.InitDefaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, addr.Address(0xaaaa), cfg.IPCP.Address)
	assert.Len(t, cfg.IPCP.Neighbors, 2)
	assert.Equal(t, 2*time.Second, cfg.IPCP.KeepaliveInterval())
	assert.True(t, cfg.IPCP.FeatureSet().LocalOnlyUnregister)

	var bad config.Config
	assert.Error(t, libconfig.Decode([]byte("[ipcp]\nname = \"nope\"\n"), &bad))
}

func TestKeepaliveZeroDisables(t *testing.T) {
	raw := `
[ipcp]
name = "a.IPCP|1"
dif = "n.DIF"
keepalive = "0s"
`
	var cfg config.Config
	require.NoError(t, libconfig.Decode([]byte(raw), &cfg))
	cfg.InitDefaults()
	require.NoError(t, cfg.Validate())
	require.NotNil(t, cfg.IPCP.Keepalive)
	assert.Equal(t, time.Duration(0), cfg.IPCP.KeepaliveInterval())

	var unset config.Config
	require.NoError(t, libconfig.Decode([]byte("[ipcp]\nname = \"a.IPCP|1\"\ndif = \"n.DIF\"\n"), &unset))
	unset.InitDefaults()
	assert.Equal(t, config.DefaultKeepaliveInterval, unset.IPCP.KeepaliveInterval())
}
