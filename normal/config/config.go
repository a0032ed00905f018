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

// Package config contains the configuration of the normal IPC process.
package config

import (
	"io"
	"time"

	"github.com/rinaproto/rina/normal/ipcp"
	"github.com/rinaproto/rina/normal/neighbor"
	neighborgrpc "github.com/rinaproto/rina/normal/neighbor/grpc"
	"github.com/rinaproto/rina/pkg/addr"
	"github.com/rinaproto/rina/pkg/log"
	"github.com/rinaproto/rina/pkg/private/serrors"
	"github.com/rinaproto/rina/pkg/private/util"
	"github.com/rinaproto/rina/private/app/feature"
	"github.com/rinaproto/rina/private/config"
	"github.com/rinaproto/rina/private/env"
	api "github.com/rinaproto/rina/private/mgmtapi"
)

const (
	// DefaultListen is the default address of the neighbor transport.
	DefaultListen = "127.0.0.1:30100"
	// DefaultKeepaliveInterval is the default period of keepalive requests.
	DefaultKeepaliveInterval = 10 * time.Second
)

var _ config.Config = (*Config)(nil)

// Config is the configuration of the normal IPC process.
type Config struct {
	General env.General `toml:"general,omitempty"`
	Log     log.Config  `toml:"log,omitempty"`
	Metrics env.Metrics `toml:"metrics,omitempty"`
	API     api.Config  `toml:"api,omitempty"`
	IPCP    IPCP        `toml:"ipcp,omitempty"`
}

func (cfg *Config) InitDefaults() {
	config.InitAll(
		&cfg.General,
		&cfg.Log,
		&cfg.Metrics,
		&cfg.API,
		&cfg.IPCP,
	)
}

func (cfg *Config) Validate() error {
	return config.ValidateAll(
		&cfg.General,
		&cfg.Log,
		&cfg.Metrics,
		&cfg.API,
		&cfg.IPCP,
	)
}

func (cfg *Config) Sample(dst io.Writer, path config.Path, _ config.CtxMap) {
	config.WriteSample(dst, path, config.CtxMap{config.ID: idSample},
		&cfg.General,
		&cfg.Log,
		&cfg.Metrics,
		&cfg.API,
		&cfg.IPCP,
	)
}

func (cfg *Config) ConfigName() string {
	return "normal_config"
}

var _ config.Config = (*IPCP)(nil)

// IPCP configures the IPC process and its neighbor transport.
type IPCP struct {
	// Name is the name of the IPC process.
	Name addr.AppName `toml:"name,omitempty"`
	// DIF is the DIF the IPC process belongs to.
	DIF string `toml:"dif,omitempty"`
	// Address is the initial address. Zero leaves the address unset.
	Address addr.Address `toml:"address,omitempty"`
	// Listen is the address of the neighbor transport server.
	Listen string `toml:"listen,omitempty"`
	// Neighbors are the transport addresses of the neighbors to dial.
	Neighbors []string `toml:"neighbors,omitempty"`
	// Keepalive is the period of keepalive requests. Zero disables them, unset
	// means DefaultKeepaliveInterval.
	Keepalive *util.DurWrap `toml:"keepalive,omitempty"`
	// KeepaliveThreshold is the number of unanswered requests after which a
	// neighbor is pruned.
	KeepaliveThreshold int `toml:"keepalive_threshold,omitempty"`
	// SyncChunk is the number of entries per slice when a neighbor enrolls.
	SyncChunk int `toml:"sync_chunk,omitempty"`
	// QueueSize is the outbound queue capacity per neighbor.
	QueueSize int `toml:"queue_size,omitempty"`
	// SendTimeout bounds a single send to a neighbor.
	SendTimeout util.DurWrap `toml:"send_timeout,omitempty"`
	// RedialInterval is the pause between attempts to reach a neighbor.
	RedialInterval util.DurWrap `toml:"redial_interval,omitempty"`
	// Features are the enabled feature flags.
	Features []string `toml:"features,omitempty"`
}

func (cfg *IPCP) InitDefaults() {
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}
	if cfg.Keepalive == nil {
		cfg.Keepalive = &util.DurWrap{Duration: DefaultKeepaliveInterval}
	}
	if cfg.KeepaliveThreshold == 0 {
		cfg.KeepaliveThreshold = neighbor.DefaultKeepaliveThreshold
	}
	if cfg.SyncChunk == 0 {
		cfg.SyncChunk = ipcp.DefaultSyncChunk
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = neighbor.DefaultQueueSize
	}
	if cfg.SendTimeout.Duration == 0 {
		cfg.SendTimeout.Duration = neighbor.DefaultSendTimeout
	}
	if cfg.RedialInterval.Duration == 0 {
		cfg.RedialInterval.Duration = neighborgrpc.DefaultRedialInterval
	}
}

func (cfg *IPCP) Validate() error {
	if err := cfg.Name.Validate(); err != nil {
		return serrors.Wrap("invalid name", err)
	}
	if cfg.DIF == "" {
		return serrors.New("dif must be set")
	}
	if cfg.Listen == "" {
		return serrors.New("listen must be set")
	}
	if cfg.KeepaliveInterval() < 0 {
		return serrors.New("value must not be negative", "field", "keepalive")
	}
	for _, v := range []struct {
		name  string
		value int64
	}{
		{"keepalive_threshold", int64(cfg.KeepaliveThreshold)},
		{"sync_chunk", int64(cfg.SyncChunk)},
		{"queue_size", int64(cfg.QueueSize)},
		{"send_timeout", int64(cfg.SendTimeout.Duration)},
		{"redial_interval", int64(cfg.RedialInterval.Duration)},
	} {
		if v.value <= 0 {
			return serrors.New("value must be positive", "field", v.name)
		}
	}
	if _, err := feature.ParseDefault(cfg.Features); err != nil {
		return err
	}
	return nil
}

// KeepaliveInterval returns the keepalive period. Zero means keepalives are
// disabled.
func (cfg *IPCP) KeepaliveInterval() time.Duration {
	if cfg.Keepalive == nil {
		return 0
	}
	return cfg.Keepalive.Duration
}

// FeatureSet returns the parsed feature flags. It must only be called on a
// validated configuration.
func (cfg *IPCP) FeatureSet() feature.Default {
	f, _ := feature.ParseDefault(cfg.Features)
	return f
}

func (cfg *IPCP) Sample(dst io.Writer, path config.Path, _ config.CtxMap) {
	config.WriteString(dst, ipcpSample)
}

func (cfg *IPCP) ConfigName() string {
	return "ipcp"
}
