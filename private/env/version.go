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

package env

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version returns the module version of the running binary, or "(devel)" if
// it is unknown.
func Version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "(devel)"
	}
	return info.Main.Version
}

// VersionInfo returns a human readable description of the build.
func VersionInfo() string {
	s := fmt.Sprintf("  Version:    %s\n  Go version: %s\n", Version(), runtime.Version())
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return s
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			s += fmt.Sprintf("  Revision:   %s\n", setting.Value)
		case "vcs.modified":
			s += fmt.Sprintf("  Modified:   %s\n", setting.Value)
		}
	}
	return s
}
