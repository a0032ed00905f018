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

// Package dft implements the directory forwarding table of a normal IPC
// process and the protocol that keeps it synchronized across neighbors.
//
// The table maps application names to the address of the IPC process the
// application is registered at. Every IPC process holds a full replica. Local
// registrations are flooded to all neighbors, and each accepted remote update
// is flooded to all neighbors but the one it came from. Conflicts are
// resolved by timestamp: a create is accepted only if it is strictly newer
// than what is stored, a delete is accepted whenever the name is known.
//
// Nothing in this package is safe for concurrent use. The owning control
// loop serializes all calls.
package dft

import (
	"fmt"
	"time"

	"github.com/rinaproto/rina/pkg/addr"
	"github.com/rinaproto/rina/pkg/cdap"
	"github.com/rinaproto/rina/pkg/private/serrors"
)

// Object class and name under which directory slices are exchanged.
const (
	ObjClass = "dft"
	ObjName  = "/dif/mgmt/fa/dft"
)

// Timestamp is a logical clock value. The upper 32 bits hold wall clock
// seconds, the lower 32 bits the sub-second nanoseconds.
type Timestamp uint64

// TimestampFrom converts t into a Timestamp.
func TimestampFrom(t time.Time) Timestamp {
	return Timestamp(uint64(t.Unix())<<32 | uint64(t.Nanosecond()))
}

// Time converts the timestamp back to wall clock time.
func (ts Timestamp) Time() time.Time {
	return time.Unix(int64(ts>>32), int64(ts&0xffffffff)).UTC()
}

func (ts Timestamp) String() string {
	return fmt.Sprintf("%d.%09d", uint64(ts>>32), uint64(ts&0xffffffff))
}

// Entry is one row of the directory.
type Entry struct {
	Name      addr.AppName
	Address   addr.Address
	Timestamp Timestamp
	// Local is set iff the application registered at this IPC process. It is
	// never transmitted.
	Local bool
}

func (e Entry) String() string {
	return fmt.Sprintf("%s -> %s (ts=%s local=%t)", e.Name, e.Address, e.Timestamp, e.Local)
}

// Slice is an ordered batch of entries exchanged in one update.
type Slice []Entry

// Op is the kind of a directory update.
type Op int

const (
	OpCreate Op = iota
	OpDelete
)

// OpFromCode maps a CDAP op code to an update kind. Only M_CREATE and
// M_DELETE carry directory updates.
func OpFromCode(code cdap.OpCode) (Op, error) {
	switch code {
	case cdap.MCreate:
		return OpCreate, nil
	case cdap.MDelete:
		return OpDelete, nil
	default:
		return 0, serrors.JoinNoStack(ErrMalformedUpdate, nil, "op_code", code)
	}
}

// Code returns the CDAP op code carrying op.
func (o Op) Code() cdap.OpCode {
	if o == OpDelete {
		return cdap.MDelete
	}
	return cdap.MCreate
}

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpDelete:
		return "delete"
	default:
		return fmt.Sprintf("unknown(%d)", int(o))
	}
}

// NeighborID identifies a neighbor for exclusion during propagation. The
// empty ID matches no neighbor.
type NeighborID string
