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

package grpc

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/rinaproto/rina/normal/neighbor"
	"github.com/rinaproto/rina/pkg/addr"
	"github.com/rinaproto/rina/pkg/cdap"
	"github.com/rinaproto/rina/pkg/log"
	"github.com/rinaproto/rina/pkg/private/serrors"
)

// DefaultRedialInterval is the default wait between two dial attempts.
const DefaultRedialInterval = 5 * time.Second

// Dialer establishes flows to configured neighbors.
type Dialer struct {
	Handler Handler
	// RedialInterval is the wait after a failed or ended flow. Defaults to
	// DefaultRedialInterval.
	RedialInterval time.Duration
	// DialOptions are appended to the default options.
	DialOptions []grpc.DialOption
}

// Run keeps a flow to target up until ctx is done.
func (d *Dialer) Run(ctx context.Context, target string) {
	logger := log.FromCtx(ctx)
	interval := d.RedialInterval
	if interval <= 0 {
		interval = DefaultRedialInterval
	}
	for {
		err := d.Connect(ctx, target)
		if ctx.Err() != nil {
			return
		}
		if errors.Is(err, ErrDuplicateFlow) || errors.Is(err, neighbor.ErrDuplicateNeighbor) {
			logger.Debug("Neighbor already connected, backing off", "target", target,
				"interval", interval)
		} else {
			logger.Info("Neighbor flow ended, redialing", "target", target,
				"interval", interval, "err", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}

// Connect dials target, runs the connection handshake and serves the flow
// until it ends.
func (d *Dialer) Connect(ctx context.Context, target string) error {
	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(Codec{})),
	}, d.DialOptions...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return serrors.Wrap("creating client", err, "target", target)
	}
	streamCtx, cancelF := context.WithCancel(ctx)
	closeAll := func() {
		cancelF()
		conn.Close()
	}
	stream, err := conn.NewStream(streamCtx, &ServiceDesc.Streams[0], ExchangeMethod)
	if err != nil {
		closeAll()
		return serrors.Wrap("opening stream", err, "target", target)
	}

	local := d.Handler.Name()
	if err := stream.SendMsg(connectRequest(local)); err != nil {
		closeAll()
		return serrors.Wrap("sending connect request", err, "target", target)
	}
	var resp cdap.Message
	if err := stream.RecvMsg(&resp); err != nil {
		closeAll()
		return serrors.Wrap("receiving connect response", err, "target", target)
	}
	if resp.OpCode != cdap.MConnectR || resp.Result != resultOK {
		closeAll()
		if resp.OpCode == cdap.MConnectR && resp.Result == resultDuplicate {
			return serrors.JoinNoStack(ErrDuplicateFlow, nil, "target", target)
		}
		return serrors.JoinNoStack(ErrRejected, nil, "target", target,
			"op_code", resp.OpCode, "reason", resp.ResultReason)
	}
	peer, err := addr.ParseAppName(resp.SrcAppl)
	if err != nil {
		closeAll()
		return serrors.Wrap("parsing peer name", err, "target", target)
	}

	sender := newStreamSender(stream, closeAll)
	sender.open()
	id, err := d.Handler.Connected(ctx, peer, sender, true)
	if err != nil {
		sender.Close()
		return serrors.Wrap("adding neighbor", err, "target", target)
	}
	log.FromCtx(ctx).Info("Neighbor flow established", "neighbor", id, "target", target)
	defer d.Handler.Disconnected(ctx, id, sender)
	err = serve(streamCtx, stream, sender, id, d.Handler)
	sender.Close()
	return err
}
