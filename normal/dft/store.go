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

import (
	"sort"

	"github.com/rinaproto/rina/pkg/addr"
)

// Store holds exactly one entry per application name, keyed by the
// canonical name string. Entries are only ever replaced as a whole.
type Store struct {
	entries map[string]Entry
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]Entry)}
}

// Lookup returns the entry for name.
func (s *Store) Lookup(name addr.AppName) (Entry, bool) {
	e, ok := s.entries[name.String()]
	return e, ok
}

// InsertOrReplace stores e, replacing any entry with the same name.
func (s *Store) InsertOrReplace(e Entry) {
	s.entries[e.Name.String()] = e
}

// Remove deletes the entry for name and returns it.
func (s *Store) Remove(name addr.AppName) (Entry, bool) {
	key := name.String()
	e, ok := s.entries[key]
	if ok {
		delete(s.entries, key)
	}
	return e, ok
}

// Iterate calls f for every entry in unspecified order until f returns
// false. f must not mutate the store.
func (s *Store) Iterate(f func(Entry) bool) {
	for _, e := range s.entries {
		if !f(e) {
			return
		}
	}
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Entries returns a snapshot of all entries sorted by name.
func (s *Store) Entries() []Entry {
	r := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		r = append(r, e)
	}
	sort.Slice(r, func(i, j int) bool {
		return r[i].Name.String() < r[j].Name.String()
	})
	return r
}
