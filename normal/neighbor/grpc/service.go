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

// Package grpc carries CDAP messages between neighboring IPC processes over a
// bidirectional gRPC stream.
//
// The service is described by hand, messages are encoded with the CDAP
// protobuf codec:
//
//	service NeighborService {
//	  rpc Exchange(stream CDAPMessage) returns (stream CDAPMessage);
//	}
//
// The dialing side opens the stream with an M_CONNECT that carries its IPC
// process name, the accepting side answers with an M_CONNECT_R carrying its
// own. Afterwards both sides treat the peer as enrolled. The accepting side
// answers with a nonzero result if it already keeps a better flow to the
// dialer, and the dialer then backs off.
package grpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/rinaproto/rina/normal/dft"
	"github.com/rinaproto/rina/normal/neighbor"
	"github.com/rinaproto/rina/pkg/addr"
	"github.com/rinaproto/rina/pkg/cdap"
	"github.com/rinaproto/rina/pkg/private/common"
	"github.com/rinaproto/rina/pkg/private/serrors"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "rina.neighbor.v1.NeighborService"
	// ExchangeMethod is the full method name of the exchange stream.
	ExchangeMethod = "/" + ServiceName + "/Exchange"
)

// Handler is the IPC process side of a neighbor flow.
type Handler interface {
	// Name returns the local IPC process name.
	Name() addr.AppName
	// Connected is called during the handshake. dialed is true on the
	// dialing side. An error refuses the flow.
	Connected(ctx context.Context, peer addr.AppName,
		sender neighbor.Sender, dialed bool) (dft.NeighborID, error)
	// HandleMessage is called for every message after the handshake.
	HandleMessage(ctx context.Context, from dft.NeighborID, m *cdap.Message)
	// Disconnected is called when the flow ends.
	Disconnected(ctx context.Context, id dft.NeighborID, sender neighbor.Sender)
}

// ExchangeServer is the server API of the neighbor service.
type ExchangeServer interface {
	Exchange(stream grpc.ServerStream) error
}

// ServiceDesc describes the neighbor service.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ExchangeServer)(nil),
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Exchange",
			Handler:       exchangeHandler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "rina/neighbor/v1/neighbor.proto",
}

func exchangeHandler(srv any, stream grpc.ServerStream) error {
	return srv.(ExchangeServer).Exchange(stream)
}

// RegisterExchangeServer registers the neighbor service.
func RegisterExchangeServer(s grpc.ServiceRegistrar, srv ExchangeServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Codec is the gRPC codec for CDAP messages.
type Codec struct{}

// Marshal encodes a *cdap.Message.
func (Codec) Marshal(v any) ([]byte, error) {
	m, ok := v.(*cdap.Message)
	if !ok {
		return nil, serrors.New("unsupported message type", "type", common.TypeOf(v))
	}
	return cdap.Marshal(m), nil
}

// Unmarshal decodes into a *cdap.Message.
func (Codec) Unmarshal(data []byte, v any) error {
	dst, ok := v.(*cdap.Message)
	if !ok {
		return serrors.New("unsupported message type", "type", common.TypeOf(v))
	}
	m, err := cdap.Unmarshal(data)
	if err != nil {
		return err
	}
	*dst = *m
	return nil
}

// Name returns the codec name.
func (Codec) Name() string {
	return "cdap"
}
