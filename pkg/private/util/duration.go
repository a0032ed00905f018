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

// Package util contains small helpers for configuration values.
package util

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/rinaproto/rina/pkg/private/serrors"
)

const (
	day  = 24 * time.Hour
	week = 7 * day
	year = 365 * day
)

var durationRegexp = regexp.MustCompile(`^([0-9]+)(y|w|d|h|m|s|ms|us|µs|ns)$`)

var units = map[string]time.Duration{
	"y":  year,
	"w":  week,
	"d":  day,
	"h":  time.Hour,
	"m":  time.Minute,
	"s":  time.Second,
	"ms": time.Millisecond,
	"us": time.Microsecond,
	"µs": time.Microsecond,
	"ns": time.Nanosecond,
}

// ParseDuration parses a duration with exactly one unit. On top of the units
// understood by time.ParseDuration it accepts d (days), w (weeks) and y
// (years).
func ParseDuration(s string) (time.Duration, error) {
	m := durationRegexp.FindStringSubmatch(s)
	if m == nil {
		return 0, serrors.New("invalid duration", "value", s)
	}
	v, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, serrors.Wrap("parsing duration", err, "value", s)
	}
	return time.Duration(v) * units[m[2]], nil
}

// FmtDuration formats d with the largest unit that represents it exactly.
func FmtDuration(d time.Duration) string {
	if d == 0 {
		return "0s"
	}
	for _, u := range []struct {
		name string
		d    time.Duration
	}{
		{"y", year},
		{"w", week},
		{"d", day},
		{"h", time.Hour},
		{"m", time.Minute},
		{"s", time.Second},
		{"ms", time.Millisecond},
		{"us", time.Microsecond},
	} {
		if d%u.d == 0 {
			return fmt.Sprintf("%d%s", d/u.d, u.name)
		}
	}
	return fmt.Sprintf("%dns", d)
}
