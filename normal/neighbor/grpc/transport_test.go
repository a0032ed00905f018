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

package grpc_test

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/rinaproto/rina/normal/dft"
	"github.com/rinaproto/rina/normal/ipcp"
	"github.com/rinaproto/rina/normal/neighbor"
	neighborgrpc "github.com/rinaproto/rina/normal/neighbor/grpc"
	"github.com/rinaproto/rina/pkg/addr"
	"github.com/rinaproto/rina/pkg/cdap"
)

func TestCodec(t *testing.T) {
	var c neighborgrpc.Codec
	assert.Equal(t, "cdap", c.Name())
	msg := &cdap.Message{OpCode: cdap.MCreate, ObjClass: dft.ObjClass, ObjValue: []byte{1}}
	raw, err := c.Marshal(msg)
	require.NoError(t, err)
	var back cdap.Message
	require.NoError(t, c.Unmarshal(raw, &back))
	assert.Equal(t, *msg, back)

	_, err = c.Marshal("nope")
	assert.Error(t, err)
	assert.Error(t, c.Unmarshal(raw, new(string)))
}

type node struct {
	proc *ipcp.Process
	set  *neighbor.Set
}

func newNode(t *testing.T, name string, a addr.Address) node {
	set := &neighbor.Set{}
	t.Cleanup(set.Close)
	return node{
		set: set,
		proc: ipcp.New(ipcp.Config{
			Name:      addr.MustParseAppName(name),
			Address:   a,
			Neighbors: set,
		}),
	}
}

func startServer(t *testing.T, h neighborgrpc.Handler) *bufconn.Listener {
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.ForceServerCodec(neighborgrpc.Codec{}))
	neighborgrpc.RegisterExchangeServer(srv, &neighborgrpc.Server{Handler: h})
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)
	return lis
}

func bufDialer(lis *bufconn.Listener) grpc.DialOption {
	return grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	})
}

func TestExchange(t *testing.T) {
	ctx, cancelF := context.WithCancel(context.Background())
	defer cancelF()
	a := newNode(t, "a.IPCP|1", 0xAAAA)
	b := newNode(t, "b.IPCP|1", 0xBBBB)
	app1 := addr.MustParseAppName("app1|1")
	app2 := addr.MustParseAppName("app2|1")
	_, err := a.proc.Register(ctx, app1)
	require.NoError(t, err)

	lis := startServer(t, a.proc)
	d := &neighborgrpc.Dialer{
		Handler:        b.proc,
		RedialInterval: 10 * time.Millisecond,
		DialOptions:    []grpc.DialOption{bufDialer(lis)},
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		d.Run(ctx, "passthrough:///bufnet")
	}()

	// Enrollment syncs the existing registration to b.
	assert.Eventually(t, func() bool {
		e, ok := b.proc.Lookup(app1)
		return ok && e.Address == 0xAAAA
	}, 2*time.Second, 10*time.Millisecond)
	require.Len(t, a.proc.Neighbors(), 1)
	assert.Equal(t, "b.IPCP|1", a.proc.Neighbors()[0].Name.String())

	// Updates flow in both directions.
	_, err = b.proc.Register(ctx, app2)
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		e, ok := a.proc.Lookup(app2)
		return ok && e.Address == 0xBBBB && !e.Local
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, a.proc.ReassignAddress(ctx, 0xCCCC))
	assert.Eventually(t, func() bool {
		e, ok := b.proc.Lookup(app1)
		return ok && e.Address == 0xCCCC
	}, 2*time.Second, 10*time.Millisecond)

	// Pruning on the acceptor ends the flow, the dialer reconnects.
	a.proc.Prune(ctx, neighbor.ID(b.proc.Name()))
	assert.Eventually(t, func() bool {
		return len(a.proc.Neighbors()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancelF()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("dialer did not stop")
	}
}

func TestConnectRejectsBadHandshake(t *testing.T) {
	a := newNode(t, "a.IPCP|1", 0xAAAA)
	lis := startServer(t, a.proc)
	conn, err := grpc.NewClient("passthrough:///bufnet", bufDialer(lis),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(neighborgrpc.Codec{})))
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancelF := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancelF()
	stream, err := conn.NewStream(ctx, &neighborgrpc.ServiceDesc.Streams[0],
		neighborgrpc.ExchangeMethod)
	require.NoError(t, err)
	require.NoError(t, stream.SendMsg(&cdap.Message{OpCode: cdap.MConnect, SrcAppl: "bad"}))
	var resp cdap.Message
	require.NoError(t, stream.RecvMsg(&resp))
	assert.Equal(t, cdap.MConnectR, resp.OpCode)
	assert.Equal(t, int32(-1), resp.Result)
	assert.Empty(t, a.proc.Neighbors())
}

// countingHandler counts the flows its process accepted as neighbor flow.
type countingHandler struct {
	*ipcp.Process
	connected atomic.Int32
}

func (h *countingHandler) Connected(ctx context.Context, peer addr.AppName,
	sender neighbor.Sender, dialed bool) (dft.NeighborID, error) {

	id, err := h.Process.Connected(ctx, peer, sender, dialed)
	if err == nil {
		h.connected.Add(1)
	}
	return id, err
}

func TestMutualDialKeepsOneFlow(t *testing.T) {
	ctx, cancelF := context.WithCancel(context.Background())
	defer cancelF()
	a := newNode(t, "a.IPCP|1", 0xAAAA)
	b := newNode(t, "b.IPCP|1", 0xBBBB)
	ha := &countingHandler{Process: a.proc}
	hb := &countingHandler{Process: b.proc}
	lisA := startServer(t, ha)
	lisB := startServer(t, hb)

	var wg sync.WaitGroup
	for _, d := range []struct {
		h   neighborgrpc.Handler
		lis *bufconn.Listener
	}{
		{h: ha, lis: lisB},
		{h: hb, lis: lisA},
	} {
		dialer := &neighborgrpc.Dialer{
			Handler:        d.h,
			RedialInterval: 20 * time.Millisecond,
			DialOptions:    []grpc.DialOption{bufDialer(d.lis)},
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			dialer.Run(ctx, "passthrough:///bufnet")
		}()
	}

	assert.Eventually(t, func() bool {
		return len(a.proc.Neighbors()) == 1 && len(b.proc.Neighbors()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	// Give the losing dialer plenty of redial rounds.
	time.Sleep(time.Second)
	assert.LessOrEqual(t, ha.connected.Load(), int32(2))
	assert.LessOrEqual(t, hb.connected.Load(), int32(2))
	require.Len(t, a.proc.Neighbors(), 1)
	require.Len(t, b.proc.Neighbors(), 1)

	app := addr.MustParseAppName("app1|1")
	_, err := a.proc.Register(ctx, app)
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		e, ok := b.proc.Lookup(app)
		return ok && e.Address == 0xAAAA
	}, 2*time.Second, 10*time.Millisecond)

	cancelF()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("dialers did not stop")
	}
}

func TestConnectRejectsDuplicateFlow(t *testing.T) {
	ctx, cancelF := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancelF()
	a := newNode(t, "a.IPCP|1", 0xAAAA)
	b := newNode(t, "b.IPCP|1", 0xBBBB)
	// a already keeps the flow it dialed to b.
	_, err := a.proc.Connected(ctx, b.proc.Name(), nopSender{}, true)
	require.NoError(t, err)
	lis := startServer(t, a.proc)

	d := &neighborgrpc.Dialer{Handler: b.proc, DialOptions: []grpc.DialOption{bufDialer(lis)}}
	err = d.Connect(ctx, "passthrough:///bufnet")
	assert.ErrorIs(t, err, neighborgrpc.ErrDuplicateFlow)
	assert.Empty(t, b.proc.Neighbors())
	require.Len(t, a.proc.Neighbors(), 1)
}

type nopSender struct{}

func (nopSender) Send(context.Context, *cdap.Message) error { return nil }
func (nopSender) Close() error                              { return nil }
