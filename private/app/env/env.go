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

// Package env defines the environment file shared by the command line tools.
//
// Example:
//
//	{
//	    "api_address": "127.0.0.1:30200"
//	}
package env

import (
	"net"
	"net/netip"

	"github.com/rinaproto/rina/pkg/private/serrors"
)

// RINA is the content of the environment file.
type RINA struct {
	// API is the address of the management API of the local IPC process.
	API string `json:"api_address,omitempty"`
}

// Validate checks that the API address, if set, is a host:port pair that can
// be dialed.
func (r RINA) Validate() error {
	if r.API == "" {
		return nil
	}
	host, _, err := net.SplitHostPort(r.API)
	if err != nil {
		return serrors.Wrap("parsing api_address", err, "address", r.API)
	}
	if ip, err := netip.ParseAddr(host); err == nil && ip.IsUnspecified() {
		return serrors.New("api_address must not be a wildcard address",
			"address", r.API)
	}
	return nil
}
