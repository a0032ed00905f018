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

// Package xtest implements common functionality for unit tests.
package xtest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rinaproto/rina/pkg/addr"
)

// AssertErrorsIs checks that errors.Is(actualErr, expectedErr) returns true, if
// expectedErr is not nil.
func AssertErrorsIs(t *testing.T, actualErr, expectedErr error) {
	t.Helper()
	assert.True(t, errors.Is(actualErr, expectedErr), "Expect '%v' to be or contain '%v'",
		actualErr, expectedErr)
}

// AssertError checks that err is not nil if expectError is true and that is it nil otherwise
func AssertError(t *testing.T, err error, expectError bool) {
	t.Helper()
	if expectError {
		assert.Error(t, err)
	} else {
		assert.NoError(t, err)
	}
}

// AssertReadReturnsBefore will call t.Fatalf if the first read from the
// channel doesn't happen before timeout.
func AssertReadReturnsBefore(t testing.TB, ch <-chan struct{}, timeout time.Duration) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(timeout):
		t.Fatalf("goroutine took too long to finish")
	}
}

// AssertReadDoesNotReturnBefore will call t.Fatalf if the first read from the
// channel happens before timeout.
func AssertReadDoesNotReturnBefore(t testing.TB, ch <-chan struct{}, timeout time.Duration) {
	t.Helper()
	select {
	case <-ch:
		t.Fatalf("goroutine finished too quickly")
	case <-time.After(timeout):
	}
}

// MustParseAppName parses s and fails the test on error.
func MustParseAppName(t testing.TB, s string) addr.AppName {
	t.Helper()
	n, err := addr.ParseAppName(s)
	require.NoError(t, err)
	return n
}

// MustParseAddress parses s and fails the test on error.
func MustParseAddress(t testing.TB, s string) addr.Address {
	t.Helper()
	a, err := addr.ParseAddress(s)
	require.NoError(t, err)
	return a
}

// MustWriteToFile writes b to a file with baseName in a temporary directory
// that is removed when the test finishes. It returns the file path.
func MustWriteToFile(t testing.TB, b []byte, baseName string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), baseName)
	require.NoError(t, os.WriteFile(name, b, 0644))
	return name
}
