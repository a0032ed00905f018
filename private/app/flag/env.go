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

// Package flag contains command line flags shared by the command line tools.
package flag

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"sync"

	"github.com/spf13/pflag"

	"github.com/rinaproto/rina/pkg/private/serrors"
	"github.com/rinaproto/rina/private/app/env"
)

const (
	// DefaultAPIAddress is the management API address used when nothing
	// else is configured.
	DefaultAPIAddress = "127.0.0.1:30200"

	defaultEnvironmentFile = "/etc/rina/environment.json"

	apiEnvVar = "RINA_API"
)

type stringVal string

func (v *stringVal) Set(val string) error {
	*v = stringVal(val)
	return nil
}

func (v *stringVal) Type() string   { return "string" }
func (v *stringVal) String() string { return string(*v) }

// APIEnvironment resolves the management API address of the local IPC
// process.
type APIEnvironment struct {
	api      string
	apiFlag  *pflag.Flag
	apiEnv   *string
	file     env.RINA
	filepath string

	mtx sync.Mutex
}

// Register registers the command line flags. It is safe to not call this at
// all, in which case the flag is not considered.
func (e *APIEnvironment) Register(flagSet *pflag.FlagSet) {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	e.apiFlag = flagSet.VarPF((*stringVal)(&e.api), "api", "",
		"Address of the management API (default "+DefaultAPIAddress+")")
}

// SetFilePath sets the location of the environment file.
func (e *APIEnvironment) SetFilePath(path string) {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	e.filepath = path
}

// LoadExternalVars loads the environment file and the environment variables.
// A missing file or variable is not an error.
func (e *APIEnvironment) LoadExternalVars() error {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if err := e.loadFile(); err != nil {
		return serrors.Wrap("loading environment file", err)
	}
	if v, ok := os.LookupEnv(apiEnvVar); ok {
		e.apiEnv = &v
	}
	return nil
}

func (e *APIEnvironment) loadFile() error {
	if e.filepath == "" {
		e.filepath = defaultEnvironmentFile
	}
	raw, err := os.ReadFile(e.filepath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return serrors.Wrap("loading file", err)
	}
	if err := json.Unmarshal(raw, &e.file); err != nil {
		return serrors.Wrap("parsing file", err)
	}
	return e.file.Validate()
}

// API returns the management API address. The value is loaded from one of
// the following sources with precedence:
//  1. Command line flag (--api)
//  2. Environment variable (RINA_API)
//  3. Environment file
//  4. DefaultAPIAddress
func (e *APIEnvironment) API() string {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if e.apiFlag != nil && e.apiFlag.Changed {
		return e.api
	}
	if e.apiEnv != nil {
		return *e.apiEnv
	}
	if e.file.API != "" {
		return e.file.API
	}
	return DefaultAPIAddress
}
