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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/peer"

	libgrpc "github.com/rinaproto/rina/pkg/grpc"
	"github.com/rinaproto/rina/pkg/log"
	"github.com/rinaproto/rina/pkg/log/testlog"
)

type fakeStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s fakeStream) Context() context.Context { return s.ctx }

func TestLogServerStreamInterceptor(t *testing.T) {
	base := testlog.NewLogger(t)
	ctx := peer.NewContext(log.CtxWith(t.Context(), base), &peer.Peer{
		Addr: &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 30100},
	})
	interceptor := libgrpc.LogServerStreamInterceptor()

	called := false
	err := interceptor(nil, fakeStream{ctx: ctx},
		&grpc.StreamServerInfo{FullMethod: "/rina.neighbor.v1.Exchange/Exchange"},
		func(srv any, ss grpc.ServerStream) error {
			called = true
			got := ss.Context()
			// The wrapped context keeps the values of the original one.
			p, ok := peer.FromContext(got)
			require.True(t, ok)
			assert.Equal(t, "127.0.0.1:30100", p.Addr.String())
			_, unwrapped := ss.(fakeStream)
			assert.False(t, unwrapped)
			// The handler logs with a labeled child of the caller's logger.
			assert.NotSame(t, base, log.FromCtx(got))
			return nil
		},
	)
	require.NoError(t, err)
	assert.True(t, called)
}

func TestLogServerStreamInterceptorError(t *testing.T) {
	interceptor := libgrpc.LogServerStreamInterceptor()
	err := interceptor(nil, fakeStream{ctx: t.Context()},
		&grpc.StreamServerInfo{FullMethod: "/m"},
		func(srv any, ss grpc.ServerStream) error {
			return assert.AnError
		},
	)
	assert.ErrorIs(t, err, assert.AnError)
}
