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

package neighbor

import (
	"context"

	"github.com/rinaproto/rina/normal/dft"
	"github.com/rinaproto/rina/pkg/cdap"
	"github.com/rinaproto/rina/pkg/log"
	"github.com/rinaproto/rina/pkg/metrics"
	"github.com/rinaproto/rina/pkg/private/serrors"
	"github.com/rinaproto/rina/private/periodic"
)

// Object class and name of keepalive messages.
const (
	KeepaliveObjClass = "keepalive"
	KeepaliveObjName  = "/daf/mgmt/keepalive"
)

// DefaultKeepaliveThreshold is the default number of unanswered keepalives
// tolerated before a neighbor is pruned.
const DefaultKeepaliveThreshold = 3

// Pruner removes a neighbor together with all state derived from it.
type Pruner interface {
	Prune(ctx context.Context, id dft.NeighborID)
}

var _ periodic.Task = (*Keepaliver)(nil)

// Keepaliver sends keepalive requests to all enrolled neighbors and prunes
// the ones that stopped answering.
type Keepaliver struct {
	Neighbors *Set
	Pruner    Pruner
	// Threshold is the number of pending requests tolerated. A neighbor with
	// more pending requests is pruned.
	Threshold int
}

// Name returns the task name.
func (k *Keepaliver) Name() string {
	return "neighbor_keepalive"
}

// Run sends one round of keepalives.
func (k *Keepaliver) Run(ctx context.Context) {
	logger := log.FromCtx(ctx)
	threshold := k.Threshold
	if threshold <= 0 {
		threshold = DefaultKeepaliveThreshold
	}
	var stale []dft.NeighborID
	s := k.Neighbors
	s.mu.Lock()
	for id, n := range s.neighbors {
		if n.state != StateEnrolled {
			continue
		}
		n.pending++
		if n.pending > threshold {
			stale = append(stale, id)
			continue
		}
		s.enqueueLocked(ctx, id, n, &cdap.Message{
			OpCode:   cdap.MRead,
			ObjClass: KeepaliveObjClass,
			ObjName:  KeepaliveObjName,
		})
	}
	s.mu.Unlock()

	for _, id := range stale {
		logger.Info("Pruning neighbor, too many pending keepalives", "neighbor", id,
			"threshold", threshold)
		metrics.CounterInc(s.Metrics.Pruned)
		k.Pruner.Prune(ctx, id)
	}
}

// HandleKeepalive processes an inbound keepalive message. Requests are
// answered, responses need no action beyond the reset done for every
// inbound message.
func (s *Set) HandleKeepalive(ctx context.Context, id dft.NeighborID, m *cdap.Message) error {
	switch m.OpCode {
	case cdap.MRead:
		return s.Send(ctx, id, m.Response(0, ""))
	case cdap.MReadR:
		log.FromCtx(ctx).Debug("Keepalive answered", "neighbor", id)
		return nil
	default:
		return serrors.New("unexpected keepalive op code", "op_code", m.OpCode)
	}
}
