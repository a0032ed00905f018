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

// Package common holds small helpers shared across packages.
package common

import "reflect"

const (
	// TimeFmt is the format used to render timestamps for humans.
	TimeFmt = "2006-01-02 15:04:05.000000-0700"
	// TimeFmtSecs is TimeFmt with second precision.
	TimeFmtSecs = "2006-01-02 15:04:05-0700"
)

// TypeOf returns the name of the dynamic type of v.
func TypeOf(v any) string {
	t := reflect.TypeOf(v)
	if t != nil {
		return t.String()
	}
	return "<nil>"
}
