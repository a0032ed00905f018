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

// Package app contains helpers shared by the server binaries.
package app

import (
	"sync"

	"github.com/rinaproto/rina/pkg/log"
	"github.com/rinaproto/rina/pkg/private/serrors"
)

// Cleanup collects teardown functions. Do runs them in reverse order of
// registration.
type Cleanup struct {
	mu  sync.Mutex
	fns []func() error
}

// Add registers f.
func (c *Cleanup) Add(f func() error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fns = append(c.fns, f)
}

// Do runs all registered functions, last added first, and returns the
// collected errors. Each function runs at most once.
func (c *Cleanup) Do() error {
	c.mu.Lock()
	fns := c.fns
	c.fns = nil
	c.mu.Unlock()

	var errs serrors.List
	for i := len(fns) - 1; i >= 0; i-- {
		if err := fns[i](); err != nil {
			log.Error("Cleanup step failed", "err", err)
			errs = append(errs, err)
		}
	}
	return errs.ToError()
}
