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

// Package grpc contains the interceptors and options shared by the gRPC
// servers and clients of the IPC process.
package grpc

import (
	"context"

	grpcprom "github.com/grpc-ecosystem/go-grpc-prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/peer"

	"github.com/rinaproto/rina/pkg/log"
)

// LogClientStreamInterceptor attaches a logger carrying the method and the
// target to the context of outgoing streams.
func LogClientStreamInterceptor() grpc.StreamClientInterceptor {
	return func(
		ctx context.Context,
		desc *grpc.StreamDesc,
		cc *grpc.ClientConn,
		method string,
		streamer grpc.Streamer,
		opts ...grpc.CallOption,
	) (grpc.ClientStream, error) {

		ctx, logger := log.WithLabels(ctx, "method", method, "target", cc.Target())
		logger.Debug("Opening stream")

		return streamer(ctx, desc, cc, method, opts...)
	}
}

// LogServerStreamInterceptor attaches a logger carrying the method and the
// remote address to the context of incoming streams.
func LogServerStreamInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv any,
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {

		labels := []any{"method", info.FullMethod}
		if p, ok := peer.FromContext(ss.Context()); ok && p.Addr != nil {
			labels = append(labels, "remote", p.Addr.String())
		}
		ctx, logger := log.WithLabels(ss.Context(), labels...)
		logger.Debug("Serving stream")

		ss = &serverStream{
			ServerStream: ss,
			ctx:          ctx,
		}
		return handler(srv, ss)
	}
}

// StreamClientInterceptor constructs the default stream client-side
// interceptor chain.
func StreamClientInterceptor() grpc.DialOption {
	return grpc.WithChainStreamInterceptor(
		grpcprom.StreamClientInterceptor,
		LogClientStreamInterceptor(),
	)
}

// DefaultMaxConcurrentStreams bounds the number of concurrently served
// streams. Every neighbor uses a single stream.
func DefaultMaxConcurrentStreams() grpc.ServerOption {
	return grpc.MaxConcurrentStreams(128)
}

// StreamServerInterceptor constructs the default stream server-side
// interceptor chain.
func StreamServerInterceptor() grpc.ServerOption {
	return grpc.ChainStreamInterceptor(
		grpcprom.StreamServerInterceptor,
		LogServerStreamInterceptor(),
	)
}

type serverStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (ss *serverStream) Context() context.Context {
	return ss.ctx
}
