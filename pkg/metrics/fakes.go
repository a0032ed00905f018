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

package metrics

import (
	"sort"
	"strings"
	"sync"
)

// node represents the shared implementation of gauges and counters. Children
// created with With share the family map of their parent so that looking up
// the same label set twice returns the same value.
type node struct {
	family *family
	key    string
	lvs    labelValuesSlice
}

type family struct {
	mtx    sync.Mutex
	values map[string]float64
}

func newNode() node {
	return node{family: &family{values: make(map[string]float64)}}
}

func (n node) with(labelValues ...string) node {
	lvs := n.lvs.With(labelValues...)
	pairs := make([]string, 0, len(lvs)/2)
	for i := 0; i < len(lvs); i += 2 {
		pairs = append(pairs, lvs[i]+"="+lvs[i+1])
	}
	sort.Strings(pairs)
	return node{family: n.family, key: strings.Join(pairs, ","), lvs: lvs}
}

func (n node) add(delta float64, canBeNegative bool) {
	n.family.mtx.Lock()
	defer n.family.mtx.Unlock()
	if !canBeNegative && delta < 0 {
		panic("counter increment value is < 0")
	}
	n.family.values[n.key] += delta
}

func (n node) set(v float64) {
	n.family.mtx.Lock()
	defer n.family.mtx.Unlock()
	n.family.values[n.key] = v
}

func (n node) value() float64 {
	n.family.mtx.Lock()
	defer n.family.mtx.Unlock()
	return n.family.values[n.key]
}

// TestCounter implements a counter for use in tests.
type TestCounter struct {
	node
}

// NewTestCounter creates a new counter for use in tests.
func NewTestCounter() *TestCounter {
	return &TestCounter{node: newNode()}
}

// With returns the counter for the given label set.
func (c *TestCounter) With(labelValues ...string) Counter {
	return &TestCounter{node: c.with(labelValues...)}
}

// Add increases the internal value of the counter by the specified delta.
func (c *TestCounter) Add(delta float64) {
	c.add(delta, false)
}

// CounterValue extracts the value out of a TestCounter. If the argument is not a *TestCounter,
// CounterValue will panic.
func CounterValue(c Counter) float64 {
	return c.(*TestCounter).value()
}

// TestGauge implements a gauge for use in tests.
type TestGauge struct {
	node
}

// NewTestGauge creates a new gauge for use in tests.
func NewTestGauge() *TestGauge {
	return &TestGauge{node: newNode()}
}

// With returns the gauge for the given label set.
func (g *TestGauge) With(labelValues ...string) Gauge {
	return &TestGauge{node: g.with(labelValues...)}
}

// Set sets the internal value of the gauge to the specified value.
func (g *TestGauge) Set(v float64) {
	g.set(v)
}

// Add changes the internal value of the gauge by the specified delta.
func (g *TestGauge) Add(delta float64) {
	g.add(delta, true)
}

// GaugeValue extracts the value out of a TestGauge. If the argument is not a *TestGauge,
// GaugeValue will panic.
func GaugeValue(g Gauge) float64 {
	return g.(*TestGauge).value()
}
