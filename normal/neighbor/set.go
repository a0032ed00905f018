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

// Package neighbor keeps track of the neighbors of an IPC process and
// implements the propagation of directory updates to them.
//
// Every neighbor has a bounded outbound queue that is drained by its own
// goroutine. Enqueueing never blocks: if a queue is full the message is
// dropped and counted. Delivery failures are logged and counted, they are
// never retried.
package neighbor

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rinaproto/rina/normal/dft"
	"github.com/rinaproto/rina/pkg/addr"
	"github.com/rinaproto/rina/pkg/cdap"
	"github.com/rinaproto/rina/pkg/log"
	"github.com/rinaproto/rina/pkg/metrics"
	"github.com/rinaproto/rina/pkg/private/prom"
	"github.com/rinaproto/rina/pkg/private/serrors"
)

const (
	// DefaultQueueSize is the default capacity of an outbound queue.
	DefaultQueueSize = 64
	// DefaultSendTimeout bounds a single send on the transport.
	DefaultSendTimeout = 5 * time.Second
)

var (
	// ErrUnknownNeighbor indicates that no neighbor with the ID exists.
	ErrUnknownNeighbor = serrors.New("unknown neighbor")
	// ErrQueueFull indicates that a message was dropped.
	ErrQueueFull = serrors.New("outbound queue full")
	// ErrDuplicateNeighbor indicates that the neighbor already has a flow
	// that is kept instead of the new one.
	ErrDuplicateNeighbor = serrors.New("duplicate neighbor flow")
)

// Sender sends messages to a neighbor. Send is only ever called from one
// goroutine at a time.
type Sender interface {
	Send(ctx context.Context, m *cdap.Message) error
	Close() error
}

// State is the enrollment state of a neighbor.
type State int

const (
	// StateConnected is a neighbor with an established flow that has not
	// completed enrollment.
	StateConnected State = iota
	// StateEnrolled is a neighbor that receives directory updates.
	StateEnrolled
)

func (s State) String() string {
	if s == StateEnrolled {
		return "enrolled"
	}
	return "connected"
}

// Info is a snapshot of a neighbor.
type Info struct {
	Name              addr.AppName
	State             State
	Since             time.Time
	PendingKeepalives int
	Dropped           int
}

// Metrics are the metrics of a Set. All fields are optional.
type Metrics struct {
	// Sent counts outbound messages. Labels: neighbor, obj_class, result.
	Sent metrics.Counter
	// Neighbors tracks the number of neighbors. Labels: state.
	Neighbors metrics.Gauge
	// Pruned counts neighbors pruned for missing keepalives.
	Pruned metrics.Counter
}

type neighbor struct {
	name      addr.AppName
	sender    Sender
	preferred bool
	queue     chan *cdap.Message
	state     State
	since     time.Time
	pending   int
	dropped   int
	closed    bool
}

// Set is the set of neighbors of an IPC process. It is safe for concurrent
// use.
type Set struct {
	// QueueSize is the outbound queue capacity per neighbor. Defaults to
	// DefaultQueueSize.
	QueueSize int
	// SendTimeout bounds a single send. Defaults to DefaultSendTimeout.
	SendTimeout time.Duration
	Metrics     Metrics

	mu        sync.Mutex
	neighbors map[dft.NeighborID]*neighbor
	invokeID  int32
	wg        sync.WaitGroup
}

var _ dft.Propagator = (*Set)(nil)

// ID returns the identifier of the neighbor with the given name.
func ID(name addr.AppName) dft.NeighborID {
	return dft.NeighborID(name.String())
}

// Add registers a connected neighbor and starts draining its queue.
//
// At most one flow per neighbor is kept. If the neighbor already exists, the
// new flow replaces it only if the new flow is preferred and the existing
// one is not. Otherwise ErrDuplicateNeighbor is returned and the existing
// flow stays untouched.
func (s *Set) Add(ctx context.Context, name addr.AppName, sender Sender,
	preferred bool) (dft.NeighborID, error) {

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.neighbors == nil {
		s.neighbors = make(map[dft.NeighborID]*neighbor)
	}
	id := ID(name)
	if old, ok := s.neighbors[id]; ok {
		if !preferred || old.preferred {
			return "", serrors.JoinNoStack(ErrDuplicateNeighbor, nil, "neighbor", id)
		}
		log.FromCtx(ctx).Info("Replacing neighbor flow", "neighbor", id)
		s.closeLocked(old)
	}
	size := s.QueueSize
	if size <= 0 {
		size = DefaultQueueSize
	}
	n := &neighbor{
		name:      name,
		sender:    sender,
		preferred: preferred,
		queue:     make(chan *cdap.Message, size),
		state:     StateConnected,
		since:     time.Now(),
	}
	s.neighbors[id] = n
	s.wg.Add(1)
	go func() {
		defer log.HandlePanic()
		defer s.wg.Done()
		s.drain(id, n)
	}()
	s.updateGaugesLocked()
	log.FromCtx(ctx).Debug("Neighbor connected", "neighbor", id, "preferred", preferred)
	return id, nil
}

// Enroll marks the neighbor as enrolled. From now on it receives
// directory updates.
func (s *Set) Enroll(ctx context.Context, id dft.NeighborID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.neighbors[id]
	if !ok {
		return serrors.JoinNoStack(ErrUnknownNeighbor, nil, "neighbor", id)
	}
	n.state = StateEnrolled
	n.since = time.Now()
	n.pending = 0
	s.updateGaugesLocked()
	log.FromCtx(ctx).Info("Neighbor enrolled", "neighbor", id)
	return nil
}

// Remove closes the neighbor's flow and forgets it.
func (s *Set) Remove(ctx context.Context, id dft.NeighborID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.neighbors[id]
	if !ok {
		return false
	}
	delete(s.neighbors, id)
	s.closeLocked(n)
	s.updateGaugesLocked()
	log.FromCtx(ctx).Info("Neighbor removed", "neighbor", id)
	return true
}

// RemoveIfSender removes the neighbor only if it is still served by sender.
// It is used by transports when a flow ends, so that a replaced flow does
// not take down its successor.
func (s *Set) RemoveIfSender(ctx context.Context, id dft.NeighborID, sender Sender) bool {
	s.mu.Lock()
	n, ok := s.neighbors[id]
	if !ok || n.sender != sender {
		s.mu.Unlock()
		return false
	}
	s.mu.Unlock()
	return s.Remove(ctx, id)
}

// Heard resets the keepalive counter of the neighbor. It is called for
// every inbound message.
func (s *Set) Heard(id dft.NeighborID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.neighbors[id]; ok {
		n.pending = 0
	}
}

// Enrolled returns whether the neighbor exists and is enrolled.
func (s *Set) Enrolled(id dft.NeighborID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.neighbors[id]
	return ok && n.state == StateEnrolled
}

// List returns a snapshot of all neighbors sorted by name.
func (s *Set) List() []Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := make([]Info, 0, len(s.neighbors))
	for _, n := range s.neighbors {
		r = append(r, Info{
			Name:              n.name,
			State:             n.state,
			Since:             n.since,
			PendingKeepalives: n.pending,
			Dropped:           n.dropped,
		})
	}
	sort.Slice(r, func(i, j int) bool {
		return r[i].Name.String() < r[j].Name.String()
	})
	return r
}

// Propagate enqueues the slice for every enrolled neighbor except exclude.
func (s *Set) Propagate(ctx context.Context, exclude dft.NeighborID, op dft.Op, sl dft.Slice) {
	if len(sl) == 0 {
		return
	}
	payload := dft.EncodeSlice(sl)
	s.mu.Lock()
	defer s.mu.Unlock()
	var targets int
	for id, n := range s.neighbors {
		if id == exclude || n.state != StateEnrolled {
			continue
		}
		targets++
		s.enqueueLocked(ctx, id, n, &cdap.Message{
			OpCode:   op.Code(),
			ObjClass: dft.ObjClass,
			ObjName:  dft.ObjName,
			ObjValue: payload,
		})
	}
	log.FromCtx(ctx).Debug("Propagating directory update", "op", op,
		"entries", len(sl), "neighbors", targets, "excluded", exclude)
}

// Send enqueues m for a single neighbor. The invoke ID is assigned if unset.
func (s *Set) Send(ctx context.Context, id dft.NeighborID, m *cdap.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.neighbors[id]
	if !ok {
		return serrors.JoinNoStack(ErrUnknownNeighbor, nil, "neighbor", id)
	}
	if !s.enqueueLocked(ctx, id, n, m) {
		return serrors.JoinNoStack(ErrQueueFull, nil, "neighbor", id)
	}
	return nil
}

// Close removes all neighbors, closes their flows and waits for the drain
// goroutines to exit.
func (s *Set) Close() {
	s.mu.Lock()
	for id, n := range s.neighbors {
		delete(s.neighbors, id)
		s.closeLocked(n)
	}
	s.updateGaugesLocked()
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Set) enqueueLocked(ctx context.Context, id dft.NeighborID, n *neighbor,
	m *cdap.Message) bool {

	if n.closed {
		return false
	}
	if m.InvokeID == 0 && !m.OpCode.IsResponse() {
		s.invokeID++
		m.InvokeID = s.invokeID
	}
	select {
	case n.queue <- m:
		return true
	default:
		n.dropped++
		log.FromCtx(ctx).Error("Dropping message, outbound queue full",
			"neighbor", id, "msg", m)
		s.countSent(id, m.ObjClass, prom.ErrQueueFull)
		return false
	}
}

// closeLocked closes the queue and the flow. Closing the flow unblocks a
// send that is stuck on the transport.
func (s *Set) closeLocked(n *neighbor) {
	if n.closed {
		return
	}
	n.closed = true
	close(n.queue)
	if err := n.sender.Close(); err != nil {
		log.Debug("Closing neighbor flow", "neighbor", ID(n.name), "err", err)
	}
}

func (s *Set) isClosed(n *neighbor) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return n.closed
}

func (s *Set) drain(id dft.NeighborID, n *neighbor) {
	logger := log.New("neighbor", id)
	timeout := s.SendTimeout
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}
	for m := range n.queue {
		if s.isClosed(n) {
			// Discard what is left once the flow is gone.
			continue
		}
		ctx, cancelF := context.WithTimeout(context.Background(), timeout)
		err := n.sender.Send(ctx, m)
		cancelF()
		if err != nil {
			logger.Error("Failed to send message", "msg", m, "err", err)
			s.countSent(id, m.ObjClass, prom.ErrNetwork)
			continue
		}
		s.countSent(id, m.ObjClass, prom.Success)
	}
}

func (s *Set) countSent(id dft.NeighborID, class, result string) {
	metrics.CounterInc(metrics.CounterWith(s.Metrics.Sent,
		prom.LabelNeighbor, string(id), prom.LabelObjClass, class, prom.LabelResult, result))
}

func (s *Set) updateGaugesLocked() {
	if s.Metrics.Neighbors == nil {
		return
	}
	counts := map[State]int{}
	for _, n := range s.neighbors {
		counts[n.state]++
	}
	for _, st := range []State{StateConnected, StateEnrolled} {
		metrics.GaugeSet(s.Metrics.Neighbors.With("state", st.String()), float64(counts[st]))
	}
}
