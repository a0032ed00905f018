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
	"io"
	"sync"

	"google.golang.org/grpc"

	"github.com/rinaproto/rina/normal/dft"
	"github.com/rinaproto/rina/normal/neighbor"
	"github.com/rinaproto/rina/pkg/addr"
	"github.com/rinaproto/rina/pkg/cdap"
	"github.com/rinaproto/rina/pkg/log"
	"github.com/rinaproto/rina/pkg/private/serrors"
)

var (
	errSenderClosed = serrors.New("neighbor flow closed")
	// ErrDuplicateFlow indicates that the peer refused the flow because it
	// keeps another flow to this process.
	ErrDuplicateFlow = serrors.New("peer keeps another flow")
	// ErrRejected indicates that the peer refused the connect request.
	ErrRejected = serrors.New("connect rejected")
)

// Connect response results.
const (
	resultOK        int32 = 0
	resultInvalid   int32 = -1
	resultDuplicate int32 = -2
)

type msgStream interface {
	SendMsg(m any) error
	RecvMsg(m any) error
}

// streamSender sends on a stream. Closing it ends the flow.
type streamSender struct {
	stream  msgStream
	once    sync.Once
	ready   chan struct{}
	closed  chan struct{}
	onClose func()
}

func newStreamSender(stream msgStream, onClose func()) *streamSender {
	return &streamSender{
		stream:  stream,
		ready:   make(chan struct{}),
		closed:  make(chan struct{}),
		onClose: onClose,
	}
}

// open allows Send to use the stream.
func (s *streamSender) open() {
	close(s.ready)
}

// Send sends m. If ctx is done before the stream accepted m, the flow is
// closed, since a partially sent message leaves the stream unusable.
func (s *streamSender) Send(ctx context.Context, m *cdap.Message) error {
	select {
	case <-s.closed:
		return errSenderClosed
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ready:
	}
	select {
	case <-s.closed:
		return errSenderClosed
	default:
	}
	errC := make(chan error, 1)
	go func() {
		defer log.HandlePanic()
		errC <- s.stream.SendMsg(m)
	}()
	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
		s.Close()
		return ctx.Err()
	case <-s.closed:
		return errSenderClosed
	}
}

func (s *streamSender) Close() error {
	s.once.Do(func() {
		close(s.closed)
		if s.onClose != nil {
			s.onClose()
		}
	})
	return nil
}

// serve dispatches inbound messages until the stream fails or the sender
// is closed.
func serve(ctx context.Context, stream msgStream, sender *streamSender, id dft.NeighborID,
	h Handler) error {

	errC := make(chan error, 1)
	go func() {
		defer log.HandlePanic()
		for {
			var m cdap.Message
			if err := stream.RecvMsg(&m); err != nil {
				errC <- err
				return
			}
			h.HandleMessage(ctx, id, &m)
		}
	}()
	select {
	case err := <-errC:
		if errors.Is(err, io.EOF) {
			return nil
		}
		return serrors.Wrap("receiving", err, "neighbor", id)
	case <-sender.closed:
		return nil
	}
}

func connectRequest(local addr.AppName) *cdap.Message {
	return &cdap.Message{
		OpCode:   cdap.MConnect,
		InvokeID: 1,
		ObjClass: "enrollment",
		SrcAppl:  local.String(),
	}
}

// Server accepts neighbor flows.
type Server struct {
	Handler Handler
}

var _ ExchangeServer = (*Server)(nil)

// Exchange runs the acceptor side of a flow.
func (s *Server) Exchange(stream grpc.ServerStream) error {
	ctx, cancelF := context.WithCancel(stream.Context())
	defer cancelF()
	logger := log.FromCtx(ctx)

	var hello cdap.Message
	if err := stream.RecvMsg(&hello); err != nil {
		return serrors.Wrap("receiving connect request", err)
	}
	if hello.OpCode != cdap.MConnect {
		return serrors.New("expected connect request", "op_code", hello.OpCode)
	}
	resp := hello.Response(resultOK, "")
	resp.SrcAppl = s.Handler.Name().String()
	resp.DstAppl = hello.SrcAppl
	peer, err := addr.ParseAppName(hello.SrcAppl)
	if err != nil {
		resp.Result, resp.ResultReason = resultInvalid, "invalid source name"
		_ = stream.SendMsg(resp)
		return serrors.Wrap("parsing peer name", err)
	}

	sender := newStreamSender(stream, cancelF)
	id, err := s.Handler.Connected(ctx, peer, sender, false)
	if err != nil {
		resp.Result, resp.ResultReason = resultInvalid, "rejected"
		if errors.Is(err, neighbor.ErrDuplicateNeighbor) {
			resp.Result, resp.ResultReason = resultDuplicate, "duplicate flow"
			logger.Debug("Refusing duplicate neighbor flow", "peer", peer)
		}
		_ = stream.SendMsg(resp)
		return serrors.Wrap("accepting neighbor", err, "peer", peer)
	}
	defer s.Handler.Disconnected(ctx, id, sender)
	if err := stream.SendMsg(resp); err != nil {
		sender.Close()
		return serrors.Wrap("sending connect response", err, "peer", peer)
	}
	sender.open()
	logger.Info("Neighbor flow accepted", "neighbor", id)
	err = serve(ctx, stream, sender, id, s.Handler)
	sender.Close()
	return err
}
