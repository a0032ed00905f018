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

package dft

import (
	"context"
	"errors"
	"time"

	"github.com/rinaproto/rina/pkg/addr"
	"github.com/rinaproto/rina/pkg/cdap"
	"github.com/rinaproto/rina/pkg/log"
	"github.com/rinaproto/rina/pkg/metrics"
	"github.com/rinaproto/rina/pkg/private/prom"
	"github.com/rinaproto/rina/pkg/private/serrors"
)

var (
	// ErrAlreadyRegistered indicates that the name already has an entry,
	// local or remote.
	ErrAlreadyRegistered = errors.New("application already registered")
	// ErrNotRegistered indicates that the name has no entry. It is only
	// logged, unregistering an unknown name succeeds.
	ErrNotRegistered = errors.New("application not registered")
	// ErrMalformedUpdate indicates an update with a wrong op code or an
	// undecodable payload. Such updates are dropped.
	ErrMalformedUpdate = errors.New("malformed directory update")
	// ErrAddressUnset indicates that the IPC process has no address yet.
	ErrAddressUnset = errors.New("local address not set")
	// ErrInvalidName indicates a name without process name or instance.
	ErrInvalidName = errors.New("invalid application name")
	// ErrInvalidAddress indicates an address that cannot be assigned.
	ErrInvalidAddress = errors.New("invalid address")
)

// Propagator disseminates directory updates to neighbors. Propagate must not
// block on network I/O. An empty exclude selects all neighbors.
type Propagator interface {
	Propagate(ctx context.Context, exclude NeighborID, op Op, s Slice)
}

// Metrics are the metrics reported by the Directory. All fields are
// optional.
type Metrics struct {
	// Registrations counts local register and unregister calls. Labels:
	// operation, result.
	Registrations metrics.Counter
	// Updates counts entries of inbound updates. Labels: operation, result.
	Updates metrics.Counter
	// Entries tracks the directory size.
	Entries metrics.Gauge
}

// Config configures a Directory.
type Config struct {
	// Address is the address of the local IPC process. Zero means unset.
	Address addr.Address
	// Propagator disseminates updates. Required.
	Propagator Propagator
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
	// LocalOnlyUnregister restricts Unregister to entries registered at this
	// IPC process. Other names are treated as unknown.
	LocalOnlyUnregister bool
	Metrics             Metrics
}

// Directory is the directory forwarding table of one IPC process together
// with its synchronization logic.
type Directory struct {
	store      *Store
	address    addr.Address
	propagator Propagator
	now        func() time.Time
	localOnly  bool
	metrics    Metrics
}

// New creates an empty directory.
func New(cfg Config) *Directory {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Directory{
		store:      NewStore(),
		address:    cfg.Address,
		propagator: cfg.Propagator,
		now:        now,
		localOnly:  cfg.LocalOnlyUnregister,
		metrics:    cfg.Metrics,
	}
}

// Address returns the current local address.
func (d *Directory) Address() addr.Address {
	return d.address
}

// Lookup resolves name to an entry.
func (d *Directory) Lookup(name addr.AppName) (Entry, bool) {
	return d.store.Lookup(name)
}

// Entries returns a sorted snapshot of the directory.
func (d *Directory) Entries() []Entry {
	return d.store.Entries()
}

// Len returns the number of entries.
func (d *Directory) Len() int {
	return d.store.Len()
}

// Register adds a local entry for name, floods it to all neighbors and
// returns it.
func (d *Directory) Register(ctx context.Context, name addr.AppName) (Entry, error) {
	logger := log.FromCtx(ctx)
	if err := name.Validate(); err != nil {
		d.countRegistration("register", prom.ErrInvalidReq)
		return Entry{}, serrors.JoinNoStack(ErrInvalidName, err)
	}
	if existing, ok := d.store.Lookup(name); ok {
		logger.Error("Application already registered", "name", name,
			"address", existing.Address, "local_address", d.address)
		d.countRegistration("register", prom.ErrValidate)
		return Entry{}, serrors.JoinNoStack(ErrAlreadyRegistered, nil,
			"name", name, "address", existing.Address)
	}
	if d.address.IsZero() {
		d.countRegistration("register", prom.ErrUnavailable)
		return Entry{}, serrors.JoinNoStack(ErrAddressUnset, nil, "name", name)
	}
	e := Entry{
		Name:      name,
		Address:   d.address,
		Timestamp: TimestampFrom(d.now()),
		Local:     true,
	}
	d.store.InsertOrReplace(e)
	d.updateSize()
	d.countRegistration("register", prom.Success)
	logger.Debug("Application registered", "name", name, "address", d.address)
	d.propagate(ctx, "", OpCreate, Slice{e})
	return e, nil
}

// Unregister removes the entry for name and floods the removal to all
// neighbors. Unregistering an unknown name is logged and succeeds.
func (d *Directory) Unregister(ctx context.Context, name addr.AppName) error {
	logger := log.FromCtx(ctx)
	e, ok := d.store.Lookup(name)
	if !ok || (d.localOnly && !e.Local) {
		logger.Error("Unregistering unknown application", "name", name,
			"err", ErrNotRegistered)
		d.countRegistration("unregister", prom.ErrNotFound)
		return nil
	}
	d.store.Remove(name)
	d.updateSize()
	d.countRegistration("unregister", prom.Success)
	logger.Debug("Application unregistered", "name", name)
	d.propagate(ctx, "", OpDelete, Slice{e})
	return nil
}

// HandleUpdate applies an update received from a neighbor. Accepted entries
// are flooded with the same op to every neighbor except from. The returned
// error is informational, malformed updates are dropped.
func (d *Directory) HandleUpdate(ctx context.Context, from NeighborID, code cdap.OpCode,
	payload []byte) error {

	logger := log.FromCtx(ctx)
	op, err := OpFromCode(code)
	if err != nil {
		logger.Error("Dropping directory update", "neighbor", from, "err", err)
		d.countUpdate("unknown", prom.ErrInvalidReq, 1)
		return err
	}
	s, err := DecodeSlice(payload)
	if err != nil {
		err = serrors.JoinNoStack(ErrMalformedUpdate, err, "neighbor", from)
		logger.Error("Dropping directory update", "err", err)
		d.countUpdate(op.String(), prom.ErrParse, 1)
		return err
	}
	var accepted Slice
	for _, e := range s {
		if err := e.Name.Validate(); err != nil {
			logger.Error("Skipping directory entry", "neighbor", from, "err", err)
			d.countUpdate(op.String(), prom.ErrInvalidReq, 1)
			continue
		}
		e.Local = false
		var existing *Entry
		if cur, ok := d.store.Lookup(e.Name); ok {
			existing = &cur
		}
		if !ShouldAccept(existing, e, op) {
			d.countUpdate(op.String(), prom.Stale, 1)
			continue
		}
		switch op {
		case OpCreate:
			d.store.InsertOrReplace(e)
		case OpDelete:
			d.store.Remove(e.Name)
		}
		logger.Debug("Directory entry updated remotely", "op", op, "entry", e,
			"neighbor", from)
		accepted = append(accepted, e)
	}
	d.countUpdate(op.String(), prom.Success, len(accepted))
	if len(accepted) == 0 {
		return nil
	}
	d.updateSize()
	d.propagate(ctx, from, op, accepted)
	return nil
}

// ReassignAddress moves all local entries that carry the current address
// to newAddr, bumps their timestamps and floods them to all neighbors.
// Remote entries are not touched. The zero address is refused.
func (d *Directory) ReassignAddress(ctx context.Context, newAddr addr.Address) error {
	if newAddr.IsZero() {
		return serrors.JoinNoStack(ErrInvalidAddress, nil, "address", newAddr)
	}
	old := d.address
	if old == newAddr {
		return nil
	}
	d.address = newAddr
	now := TimestampFrom(d.now())
	var changed Slice
	// Collect first, the store must not be mutated while iterating.
	d.store.Iterate(func(e Entry) bool {
		if e.Local && e.Address == old {
			changed = append(changed, e)
		}
		return true
	})
	for i := range changed {
		changed[i].Address = newAddr
		changed[i].Timestamp = max(now, changed[i].Timestamp+1)
		d.store.InsertOrReplace(changed[i])
	}
	log.FromCtx(ctx).Info("Local address changed", "old", old, "new", newAddr,
		"entries", len(changed))
	if len(changed) == 0 {
		return nil
	}
	d.propagate(ctx, "", OpCreate, changed)
	return nil
}

// SetEntry installs a static entry for name without propagating it. It is
// meant for manual configuration.
func (d *Directory) SetEntry(ctx context.Context, name addr.AppName,
	address addr.Address) (Entry, error) {

	if err := name.Validate(); err != nil {
		return Entry{}, serrors.JoinNoStack(ErrInvalidName, err)
	}
	e := Entry{
		Name:      name,
		Address:   address,
		Timestamp: TimestampFrom(d.now()),
	}
	if cur, ok := d.store.Lookup(name); ok {
		e.Timestamp = max(e.Timestamp, cur.Timestamp+1)
	}
	d.store.InsertOrReplace(e)
	d.updateSize()
	log.FromCtx(ctx).Debug("Directory entry set", "entry", e)
	return e, nil
}

// Chunks splits the full directory into create slices of at most size
// entries, in name order. It is used to bring a newly enrolled neighbor up to
// date.
func (d *Directory) Chunks(size int) []Slice {
	if size <= 0 {
		size = 1
	}
	entries := d.store.Entries()
	var r []Slice
	for len(entries) > 0 {
		n := min(size, len(entries))
		r = append(r, Slice(entries[:n:n]))
		entries = entries[n:]
	}
	return r
}

func (d *Directory) propagate(ctx context.Context, exclude NeighborID, op Op, s Slice) {
	if d.propagator == nil || len(s) == 0 {
		return
	}
	d.propagator.Propagate(ctx, exclude, op, s)
}

func (d *Directory) countRegistration(op, result string) {
	metrics.CounterInc(metrics.CounterWith(d.metrics.Registrations,
		prom.LabelOperation, op, prom.LabelResult, result))
}

func (d *Directory) countUpdate(op, result string, n int) {
	if n == 0 {
		return
	}
	metrics.CounterAdd(metrics.CounterWith(d.metrics.Updates,
		prom.LabelOperation, op, prom.LabelResult, result), float64(n))
}

func (d *Directory) updateSize() {
	metrics.GaugeSet(d.metrics.Entries, float64(d.store.Len()))
}
