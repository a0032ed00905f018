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

package ipcp_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rinaproto/rina/normal/dft"
	"github.com/rinaproto/rina/normal/ipcp"
	"github.com/rinaproto/rina/normal/neighbor"
	"github.com/rinaproto/rina/pkg/addr"
	"github.com/rinaproto/rina/pkg/cdap"
	"github.com/rinaproto/rina/pkg/metrics"
	"github.com/rinaproto/rina/pkg/private/prom"
	"github.com/rinaproto/rina/pkg/private/xtest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var (
	self  = addr.MustParseAppName("a.IPCP|1")
	peerB = addr.MustParseAppName("b.IPCP|1")
	peerC = addr.MustParseAppName("c.IPCP|1")
)

type chanSender struct {
	sent   chan *cdap.Message
	once   sync.Once
	closed chan struct{}
}

func newChanSender() *chanSender {
	return &chanSender{
		sent:   make(chan *cdap.Message, 64),
		closed: make(chan struct{}),
	}
}

func (s *chanSender) Send(_ context.Context, m *cdap.Message) error {
	s.sent <- m
	return nil
}

func (s *chanSender) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}

func (s *chanSender) isClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

func (s *chanSender) recv(t *testing.T) *cdap.Message {
	t.Helper()
	select {
	case m := <-s.sent:
		return m
	case <-time.After(time.Second):
		t.Fatalf("no message received")
		return nil
	}
}

func (s *chanSender) assertIdle(t *testing.T) {
	t.Helper()
	select {
	case m := <-s.sent:
		t.Fatalf("unexpected message %s", m)
	case <-time.After(20 * time.Millisecond):
	}
}

func newProcess(t *testing.T, chunk int) (*ipcp.Process, *neighbor.Set) {
	set := &neighbor.Set{}
	t.Cleanup(set.Close)
	return ipcp.New(ipcp.Config{
		Name:      self,
		DIF:       "n.DIF",
		Address:   0xAAAA,
		SyncChunk: chunk,
		Neighbors: set,
	}), set
}

func TestConnectedSyncsDirectory(t *testing.T) {
	ctx := context.Background()
	p, _ := newProcess(t, 2)
	for i := 0; i < 3; i++ {
		_, err := p.Register(ctx, addr.MustParseAppName(fmt.Sprintf("app%d|1", i)))
		require.NoError(t, err)
	}

	b := newChanSender()
	id, err := p.Connected(ctx, peerB, b, true)
	require.NoError(t, err)
	assert.Equal(t, dft.NeighborID("b.IPCP|1"), id)

	var synced dft.Slice
	for i := 0; i < 2; i++ {
		m := b.recv(t)
		assert.Equal(t, cdap.MCreate, m.OpCode)
		s, err := dft.DecodeSlice(m.ObjValue)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(s), 2)
		synced = append(synced, s...)
	}
	b.assertIdle(t)
	require.Len(t, synced, 3)
	for i, e := range synced {
		assert.Equal(t, fmt.Sprintf("app%d|1", i), e.Name.String())
		assert.Equal(t, addr.Address(0xAAAA), e.Address)
	}
	require.Len(t, p.Neighbors(), 1)
	assert.Equal(t, neighbor.StateEnrolled, p.Neighbors()[0].State)
}

func TestConnectedRejectsBadNames(t *testing.T) {
	p, _ := newProcess(t, 0)
	_, err := p.Connected(context.Background(), self, newChanSender(), true)
	assert.Error(t, err)
	_, err = p.Connected(context.Background(), addr.AppName{ProcessName: "x"}, newChanSender(),
		true)
	assert.Error(t, err)
	assert.Empty(t, p.Neighbors())
}

func TestConnectedKeepsFlowDialedByLowerName(t *testing.T) {
	ctx := context.Background()
	// self sorts before peerB, so the flow self dialed wins.
	p, _ := newProcess(t, 0)

	accepted := newChanSender()
	id, err := p.Connected(ctx, peerB, accepted, false)
	require.NoError(t, err)

	dialed := newChanSender()
	got, err := p.Connected(ctx, peerB, dialed, true)
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.True(t, accepted.isClosed())

	for _, isDialed := range []bool{false, true} {
		again := newChanSender()
		_, err := p.Connected(ctx, peerB, again, isDialed)
		xtest.AssertErrorsIs(t, err, neighbor.ErrDuplicateNeighbor)
	}
	assert.False(t, dialed.isClosed())
	require.Len(t, p.Neighbors(), 1)

	// Ending the replaced flow leaves the kept one in place.
	p.Disconnected(ctx, id, accepted)
	require.Len(t, p.Neighbors(), 1)
}

func TestConnectedKeepsFlowAcceptedFromLowerName(t *testing.T) {
	ctx := context.Background()
	p, _ := newProcess(t, 0)
	lower := addr.MustParseAppName("0.IPCP|1")

	dialed := newChanSender()
	_, err := p.Connected(ctx, lower, dialed, true)
	require.NoError(t, err)
	accepted := newChanSender()
	_, err = p.Connected(ctx, lower, accepted, false)
	require.NoError(t, err)
	assert.True(t, dialed.isClosed())

	_, err = p.Connected(ctx, lower, newChanSender(), true)
	xtest.AssertErrorsIs(t, err, neighbor.ErrDuplicateNeighbor)
}

func TestRegisterPropagates(t *testing.T) {
	ctx := context.Background()
	p, _ := newProcess(t, 0)
	b := newChanSender()
	_, err := p.Connected(ctx, peerB, b, true)
	require.NoError(t, err)

	app := addr.MustParseAppName("app1|1")
	e, err := p.Register(ctx, app)
	require.NoError(t, err)
	assert.Equal(t, addr.Address(0xAAAA), e.Address)
	assert.True(t, e.Local)
	m := b.recv(t)
	assert.Equal(t, cdap.MCreate, m.OpCode)

	require.NoError(t, p.Unregister(ctx, app))
	assert.Equal(t, cdap.MDelete, b.recv(t).OpCode)
	// Unknown name: success and silence.
	require.NoError(t, p.Unregister(ctx, app))
	b.assertIdle(t)
}

func TestHandleMessageFloodsExceptSender(t *testing.T) {
	ctx := context.Background()
	inbound := metrics.NewTestCounter()
	set := &neighbor.Set{}
	defer set.Close()
	p := ipcp.New(ipcp.Config{Name: self, Address: 0xAAAA, Neighbors: set,
		Metrics: ipcp.Metrics{Inbound: inbound}})
	b, c := newChanSender(), newChanSender()
	idB, err := p.Connected(ctx, peerB, b, true)
	require.NoError(t, err)
	_, err = p.Connected(ctx, peerC, c, true)
	require.NoError(t, err)

	e := dft.Entry{Name: addr.MustParseAppName("remote|1"), Address: 0xCCCC, Timestamp: 5}
	p.HandleMessage(ctx, idB, &cdap.Message{
		OpCode:   cdap.MCreate,
		ObjClass: dft.ObjClass,
		ObjValue: dft.EncodeSlice(dft.Slice{e}),
	})
	got, ok := p.Lookup(e.Name)
	require.True(t, ok)
	assert.Equal(t, e, got)

	m := c.recv(t)
	s, err := dft.DecodeSlice(m.ObjValue)
	require.NoError(t, err)
	assert.Equal(t, dft.Slice{e}, s)
	b.assertIdle(t)
	assert.Equal(t, float64(1), metrics.CounterValue(inbound.With(
		prom.LabelObjClass, dft.ObjClass, prom.LabelResult, prom.Success)))

	p.HandleMessage(ctx, idB, &cdap.Message{OpCode: cdap.MWrite, ObjClass: "flows"})
	assert.Equal(t, float64(1), metrics.CounterValue(inbound.With(
		prom.LabelObjClass, "unknown", prom.LabelResult, prom.ErrInvalidReq)))
}

func TestHandleKeepalive(t *testing.T) {
	ctx := context.Background()
	p, _ := newProcess(t, 0)
	b := newChanSender()
	id, err := p.Connected(ctx, peerB, b, true)
	require.NoError(t, err)

	p.HandleMessage(ctx, id, &cdap.Message{OpCode: cdap.MRead, InvokeID: 4,
		ObjClass: neighbor.KeepaliveObjClass, ObjName: neighbor.KeepaliveObjName})
	m := b.recv(t)
	assert.Equal(t, cdap.MReadR, m.OpCode)
	assert.Equal(t, int32(4), m.InvokeID)
}

func TestReassignAddressAndInfo(t *testing.T) {
	ctx := context.Background()
	p, _ := newProcess(t, 0)
	b := newChanSender()
	_, err := p.Connected(ctx, peerB, b, true)
	require.NoError(t, err)
	_, err = p.Register(ctx, addr.MustParseAppName("app1|1"))
	require.NoError(t, err)
	b.recv(t)

	require.NoError(t, p.ReassignAddress(ctx, 0xBBBB))
	m := b.recv(t)
	s, err := dft.DecodeSlice(m.ObjValue)
	require.NoError(t, err)
	require.Len(t, s, 1)
	assert.Equal(t, addr.Address(0xBBBB), s[0].Address)

	info := p.Info()
	assert.Equal(t, ipcp.Info{Name: self, DIF: "n.DIF", Address: 0xBBBB, Entries: 1}, info)
}

func TestPruneAndDisconnect(t *testing.T) {
	ctx := context.Background()
	p, _ := newProcess(t, 0)
	b, c := newChanSender(), newChanSender()
	idB, err := p.Connected(ctx, peerB, b, true)
	require.NoError(t, err)
	idC, err := p.Connected(ctx, peerC, c, true)
	require.NoError(t, err)

	p.Prune(ctx, idB)
	p.Disconnected(ctx, idC, newChanSender())
	require.Len(t, p.Neighbors(), 1)
	p.Disconnected(ctx, idC, c)
	assert.Empty(t, p.Neighbors())
}

func TestConcurrentRegistrations(t *testing.T) {
	ctx := context.Background()
	p, _ := newProcess(t, 0)
	app := addr.MustParseAppName("contended|1")
	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := p.Register(ctx, app)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	var ok, dup int
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		xtest.AssertErrorsIs(t, err, dft.ErrAlreadyRegistered)
		dup++
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 9, dup)
	assert.Len(t, p.Directory(), 1)
}
