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

// Package cdap defines the subset of the Common Distributed Application
// Protocol that IPC processes exchange with their neighbors, and its
// protobuf wire encoding.
package cdap

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/rinaproto/rina/pkg/private/serrors"
)

// OpCode is the CDAP operation code.
type OpCode int32

const (
	MConnect OpCode = iota
	MConnectR
	MRelease
	MReleaseR
	MCreate
	MCreateR
	MDelete
	MDeleteR
	MRead
	MReadR
	MCancelRead
	MCancelReadR
	MWrite
	MWriteR
	MStart
	MStartR
	MStop
	MStopR
)

var opNames = [...]string{
	"M_CONNECT", "M_CONNECT_R", "M_RELEASE", "M_RELEASE_R",
	"M_CREATE", "M_CREATE_R", "M_DELETE", "M_DELETE_R",
	"M_READ", "M_READ_R", "M_CANCELREAD", "M_CANCELREAD_R",
	"M_WRITE", "M_WRITE_R", "M_START", "M_START_R", "M_STOP", "M_STOP_R",
}

// Valid returns whether o is a known op code.
func (o OpCode) Valid() bool {
	return o >= MConnect && o <= MStopR
}

// IsResponse returns whether o is the response half of an operation.
func (o OpCode) IsResponse() bool {
	return o.Valid() && o%2 == 1
}

func (o OpCode) String() string {
	if !o.Valid() {
		return fmt.Sprintf("UNKNOWN(%d)", int32(o))
	}
	return opNames[o]
}

// Message is a CDAP message.
type Message struct {
	OpCode   OpCode
	InvokeID int32
	ObjClass string
	ObjName  string
	// ObjValue carries the encoded object, e.g. a directory slice.
	ObjValue []byte
	// Result is 0 on success. Only meaningful in responses.
	Result       int32
	ResultReason string
	// SrcAppl and DstAppl carry the canonical names of the communicating
	// IPC processes during connection setup.
	SrcAppl string
	DstAppl string
}

// Response creates the response to m with the given result. Object class and
// name are copied from the request.
func (m *Message) Response(result int32, reason string) *Message {
	return &Message{
		OpCode:       m.OpCode + 1,
		InvokeID:     m.InvokeID,
		ObjClass:     m.ObjClass,
		ObjName:      m.ObjName,
		Result:       result,
		ResultReason: reason,
	}
}

func (m *Message) String() string {
	return fmt.Sprintf("%s{class=%s; name=%s; invoke_id=%d; len=%d}",
		m.OpCode, m.ObjClass, m.ObjName, m.InvokeID, len(m.ObjValue))
}

const (
	fieldOpCode       protowire.Number = 1
	fieldInvokeID     protowire.Number = 2
	fieldObjClass     protowire.Number = 3
	fieldObjName      protowire.Number = 4
	fieldObjValue     protowire.Number = 5
	fieldResult       protowire.Number = 6
	fieldResultReason protowire.Number = 7
	fieldSrcAppl      protowire.Number = 8
	fieldDstAppl      protowire.Number = 9
)

// Marshal encodes m. Zero valued fields are omitted.
func Marshal(m *Message) []byte {
	var b []byte
	b = appendVarint(b, fieldOpCode, uint64(m.OpCode))
	b = appendVarint(b, fieldInvokeID, uint64(int64(m.InvokeID)))
	b = appendString(b, fieldObjClass, m.ObjClass)
	b = appendString(b, fieldObjName, m.ObjName)
	if len(m.ObjValue) > 0 {
		b = protowire.AppendTag(b, fieldObjValue, protowire.BytesType)
		b = protowire.AppendBytes(b, m.ObjValue)
	}
	b = appendVarint(b, fieldResult, uint64(int64(m.Result)))
	b = appendString(b, fieldResultReason, m.ResultReason)
	b = appendString(b, fieldSrcAppl, m.SrcAppl)
	b = appendString(b, fieldDstAppl, m.DstAppl)
	return b
}

// Unmarshal decodes a message. Unknown fields are skipped.
func Unmarshal(b []byte) (*Message, error) {
	m := &Message{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, serrors.Wrap("parsing tag", protowire.ParseError(n))
		}
		b = b[n:]
		switch {
		case typ == protowire.VarintType &&
			(num == fieldOpCode || num == fieldInvokeID || num == fieldResult):

			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, serrors.Wrap("parsing varint", protowire.ParseError(n),
					"field", int32(num))
			}
			b = b[n:]
			switch num {
			case fieldOpCode:
				m.OpCode = OpCode(int32(v))
			case fieldInvokeID:
				m.InvokeID = int32(v)
			case fieldResult:
				m.Result = int32(v)
			}
		case typ == protowire.BytesType && num >= fieldObjClass && num <= fieldDstAppl &&
			num != fieldResult:

			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, serrors.Wrap("parsing bytes", protowire.ParseError(n),
					"field", int32(num))
			}
			b = b[n:]
			switch num {
			case fieldObjClass:
				m.ObjClass = string(v)
			case fieldObjName:
				m.ObjName = string(v)
			case fieldObjValue:
				m.ObjValue = append([]byte(nil), v...)
			case fieldResultReason:
				m.ResultReason = string(v)
			case fieldSrcAppl:
				m.SrcAppl = string(v)
			case fieldDstAppl:
				m.DstAppl = string(v)
			}
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, serrors.Wrap("skipping field", protowire.ParseError(n),
					"field", int32(num))
			}
			b = b[n:]
		}
	}
	if !m.OpCode.Valid() {
		return nil, serrors.New("invalid op code", "op_code", int32(m.OpCode))
	}
	return m, nil
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}
