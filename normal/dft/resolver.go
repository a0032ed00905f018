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

package dft

// ShouldAccept decides whether an incoming update supersedes the stored
// state. existing is nil if the name is unknown.
//
// A create is accepted if the name is unknown or the incoming timestamp is
// strictly newer. Ties are rejected so that duplicate delivery is absorbed.
// A delete is accepted whenever the name is known, regardless of timestamps.
func ShouldAccept(existing *Entry, incoming Entry, op Op) bool {
	switch op {
	case OpCreate:
		return existing == nil || incoming.Timestamp > existing.Timestamp
	case OpDelete:
		return existing != nil
	default:
		return false
	}
}
