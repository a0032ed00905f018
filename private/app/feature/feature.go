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

// Package feature parses feature flags into a struct of booleans.
//
// Every boolean field of the struct is a feature. The feature name is the
// value of the `feature` tag, or the field name if the tag is missing.
package feature

import (
	"reflect"
	"slices"
	"strings"

	"github.com/rinaproto/rina/pkg/private/serrors"
)

// Default is the feature set of the normal IPC process.
type Default struct {
	// LocalOnlyUnregister restricts unregistration to names registered at
	// this IPC process.
	LocalOnlyUnregister bool `feature:"local_only_unregister"`
}

// Parse enables the named features in featureSet, which must be a non-nil
// pointer to a struct.
func Parse(names []string, featureSet any) error {
	val := reflect.ValueOf(featureSet)
	if !val.IsValid() || val.Kind() != reflect.Ptr {
		return serrors.New("feature set must be a pointer")
	}
	if val.IsNil() {
		return serrors.New("feature set must not be nil")
	}
	fields := fieldIndex(val.Type())
	for _, name := range names {
		i, ok := fields[name]
		if !ok {
			return serrors.New("feature not supported", "feature", name,
				"supported", String(featureSet, ","))
		}
		val.Elem().Field(i).SetBool(true)
	}
	return nil
}

// ParseDefault parses names into the default feature set.
func ParseDefault(names []string) (Default, error) {
	var d Default
	if err := Parse(names, &d); err != nil {
		return Default{}, err
	}
	return d, nil
}

// Features returns the sorted names of the features in featureSet.
func Features(featureSet any) []string {
	if featureSet == nil {
		return nil
	}
	fields := fieldIndex(reflect.TypeOf(featureSet))
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// String joins the feature names with sep.
func String(featureSet any, sep string) string {
	return strings.Join(Features(featureSet), sep)
}

func fieldIndex(t reflect.Type) map[string]int {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	m := make(map[string]int)
	for i := range t.NumField() {
		f := t.Field(i)
		if f.Type.Kind() != reflect.Bool {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("feature"); ok {
			name, _, _ = strings.Cut(tag, ",")
		}
		m[name] = i
	}
	return m
}
