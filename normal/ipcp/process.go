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

// Package ipcp contains the control loop of a normal IPC process. It owns
// the directory and the neighbor set and serializes every operation on them.
package ipcp

import (
	"context"
	"sync"

	"github.com/rinaproto/rina/normal/dft"
	"github.com/rinaproto/rina/normal/neighbor"
	"github.com/rinaproto/rina/pkg/addr"
	"github.com/rinaproto/rina/pkg/cdap"
	"github.com/rinaproto/rina/pkg/log"
	"github.com/rinaproto/rina/pkg/metrics"
	"github.com/rinaproto/rina/pkg/private/prom"
	"github.com/rinaproto/rina/pkg/private/serrors"
)

// DefaultSyncChunk is the default number of entries per slice when a
// neighbor is brought up to date.
const DefaultSyncChunk = 10

// Config configures a Process.
type Config struct {
	// Name is the name of this IPC process.
	Name addr.AppName
	// DIF is the name of the DIF the process is a member of.
	DIF string
	// Address is the initial address. Zero means not yet assigned.
	Address addr.Address
	// SyncChunk is the maximum number of entries per slice sent to a newly
	// enrolled neighbor.
	SyncChunk int
	// LocalOnlyUnregister restricts unregistration to local entries.
	LocalOnlyUnregister bool
	// Neighbors is the neighbor set. Required.
	Neighbors *neighbor.Set
	Metrics   Metrics
}

// Metrics are the metrics of a Process. All fields are optional.
type Metrics struct {
	// Inbound counts inbound messages. Labels: obj_class, result.
	Inbound   metrics.Counter
	Directory dft.Metrics
}

// Info describes the IPC process.
type Info struct {
	Name    addr.AppName
	DIF     string
	Address addr.Address
	Entries int
}

// Process is a normal IPC process. All methods are safe for concurrent use.
type Process struct {
	mu        sync.Mutex
	name      addr.AppName
	dif       string
	syncChunk int
	dir       *dft.Directory
	neighbors *neighbor.Set
	inbound   metrics.Counter
}

var _ neighbor.Pruner = (*Process)(nil)

// New creates a process with an empty directory.
func New(cfg Config) *Process {
	chunk := cfg.SyncChunk
	if chunk <= 0 {
		chunk = DefaultSyncChunk
	}
	return &Process{
		name:      cfg.Name,
		dif:       cfg.DIF,
		syncChunk: chunk,
		neighbors: cfg.Neighbors,
		inbound:   cfg.Metrics.Inbound,
		dir: dft.New(dft.Config{
			Address:             cfg.Address,
			Propagator:          cfg.Neighbors,
			LocalOnlyUnregister: cfg.LocalOnlyUnregister,
			Metrics:             cfg.Metrics.Directory,
		}),
	}
}

// Name returns the name of the process.
func (p *Process) Name() addr.AppName {
	return p.name
}

// Info returns a description of the process.
func (p *Process) Info() Info {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Info{
		Name:    p.name,
		DIF:     p.dif,
		Address: p.dir.Address(),
		Entries: p.dir.Len(),
	}
}

// Register registers a local application and returns its entry.
func (p *Process) Register(ctx context.Context, name addr.AppName) (dft.Entry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dir.Register(ctx, name)
}

// Unregister unregisters a local application.
func (p *Process) Unregister(ctx context.Context, name addr.AppName) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dir.Unregister(ctx, name)
}

// Lookup resolves an application name.
func (p *Process) Lookup(name addr.AppName) (dft.Entry, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dir.Lookup(name)
}

// Directory returns a sorted snapshot of the directory.
func (p *Process) Directory() []dft.Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dir.Entries()
}

// SetEntry installs a static directory entry.
func (p *Process) SetEntry(ctx context.Context, name addr.AppName,
	address addr.Address) (dft.Entry, error) {

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dir.SetEntry(ctx, name, address)
}

// ReassignAddress changes the address of the process.
func (p *Process) ReassignAddress(ctx context.Context, a addr.Address) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dir.ReassignAddress(ctx, a)
}

// Neighbors lists the neighbors.
func (p *Process) Neighbors() []neighbor.Info {
	return p.neighbors.List()
}

// Connected adds a neighbor whose flow completed the connection handshake,
// marks it enrolled and sends it the full directory. dialed tells whether
// this process opened the flow.
//
// When both processes dial each other, the flow dialed by the process with
// the lower name is kept. A flow that loses against an existing one is
// refused with neighbor.ErrDuplicateNeighbor.
func (p *Process) Connected(ctx context.Context, peer addr.AppName,
	sender neighbor.Sender, dialed bool) (dft.NeighborID, error) {

	if err := peer.Validate(); err != nil {
		return "", serrors.Wrap("invalid neighbor name", err)
	}
	if peer == p.name {
		return "", serrors.New("neighbor has our own name", "name", peer)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	preferred := dialed == (p.name.String() < peer.String())
	id, err := p.neighbors.Add(ctx, peer, sender, preferred)
	if err != nil {
		return "", err
	}
	if err := p.neighbors.Enroll(ctx, id); err != nil {
		return "", err
	}
	p.syncNeighbor(ctx, id)
	return id, nil
}

func (p *Process) syncNeighbor(ctx context.Context, id dft.NeighborID) {
	logger := log.FromCtx(ctx)
	chunks := p.dir.Chunks(p.syncChunk)
	for _, c := range chunks {
		err := p.neighbors.Send(ctx, id, &cdap.Message{
			OpCode:   dft.OpCreate.Code(),
			ObjClass: dft.ObjClass,
			ObjName:  dft.ObjName,
			ObjValue: dft.EncodeSlice(c),
		})
		if err != nil {
			logger.Error("Failed to sync directory to neighbor", "neighbor", id, "err", err)
			return
		}
	}
	logger.Debug("Directory synced to neighbor", "neighbor", id,
		"entries", p.dir.Len(), "slices", len(chunks))
}

// Disconnected removes the neighbor if sender still serves it.
func (p *Process) Disconnected(ctx context.Context, id dft.NeighborID, sender neighbor.Sender) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.neighbors.RemoveIfSender(ctx, id, sender)
}

// Prune removes a neighbor that stopped answering keepalives.
func (p *Process) Prune(ctx context.Context, id dft.NeighborID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.neighbors.Remove(ctx, id)
}

// HandleMessage dispatches an inbound message by object class.
func (p *Process) HandleMessage(ctx context.Context, from dft.NeighborID, m *cdap.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	logger := log.FromCtx(ctx)
	p.neighbors.Heard(from)

	var err error
	switch m.ObjClass {
	case dft.ObjClass:
		err = p.dir.HandleUpdate(ctx, from, m.OpCode, m.ObjValue)
	case neighbor.KeepaliveObjClass:
		err = p.neighbors.HandleKeepalive(ctx, from, m)
	default:
		logger.Error("Dropping message with unknown object class", "neighbor", from,
			"msg", m)
		p.countInbound("unknown", prom.ErrInvalidReq)
		return
	}
	if err != nil {
		logger.Debug("Inbound message not processed", "neighbor", from, "msg", m,
			"err", err)
		p.countInbound(m.ObjClass, prom.ErrInvalidReq)
		return
	}
	p.countInbound(m.ObjClass, prom.Success)
}

func (p *Process) countInbound(class, result string) {
	metrics.CounterInc(metrics.CounterWith(p.inbound,
		prom.LabelObjClass, class, prom.LabelResult, result))
}
