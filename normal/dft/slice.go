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
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/rinaproto/rina/pkg/addr"
	"github.com/rinaproto/rina/pkg/private/serrors"
)

// Wire layout, in protobuf terms:
//
//	message DFTSlice { repeated DFTEntry entries = 1; }
//	message DFTEntry { AppName appl_name = 1; uint64 address = 2; uint64 timestamp = 3; }
//	message AppName  { string apn = 1; string api = 2; string aen = 3; string aei = 4; }
const (
	fieldSliceEntries protowire.Number = 1

	fieldEntryName      protowire.Number = 1
	fieldEntryAddress   protowire.Number = 2
	fieldEntryTimestamp protowire.Number = 3

	fieldNameAPN protowire.Number = 1
	fieldNameAPI protowire.Number = 2
	fieldNameAEN protowire.Number = 3
	fieldNameAEI protowire.Number = 4
)

// EncodeSlice encodes s. The Local flag is not encoded.
func EncodeSlice(s Slice) []byte {
	var b []byte
	for _, e := range s {
		b = protowire.AppendTag(b, fieldSliceEntries, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeEntry(e))
	}
	return b
}

func encodeEntry(e Entry) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldEntryName, protowire.BytesType)
	b = protowire.AppendBytes(b, encodeName(e.Name))
	if e.Address != 0 {
		b = protowire.AppendTag(b, fieldEntryAddress, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(e.Address))
	}
	if e.Timestamp != 0 {
		b = protowire.AppendTag(b, fieldEntryTimestamp, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(e.Timestamp))
	}
	return b
}

func encodeName(n addr.AppName) []byte {
	var b []byte
	for _, f := range []struct {
		num protowire.Number
		val string
	}{
		{fieldNameAPN, n.ProcessName},
		{fieldNameAPI, n.ProcessInstance},
		{fieldNameAEN, n.EntityName},
		{fieldNameAEI, n.EntityInstance},
	} {
		if f.val == "" {
			continue
		}
		b = protowire.AppendTag(b, f.num, protowire.BytesType)
		b = protowire.AppendString(b, f.val)
	}
	return b
}

// DecodeSlice decodes an encoded slice. Unknown fields are skipped. Names
// are not validated. All decoded entries are non-local.
func DecodeSlice(b []byte) (Slice, error) {
	var s Slice
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, v []byte) error {
		if num != fieldSliceEntries || typ != protowire.BytesType {
			return nil
		}
		e, err := decodeEntry(v)
		if err != nil {
			return serrors.Wrap("decoding entry", err, "index", len(s))
		}
		s = append(s, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func decodeEntry(b []byte) (Entry, error) {
	var e Entry
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, v []byte) error {
		switch {
		case num == fieldEntryName && typ == protowire.BytesType:
			n, err := decodeName(v)
			if err != nil {
				return err
			}
			e.Name = n
		case num == fieldEntryAddress && typ == protowire.VarintType:
			x, _ := protowire.ConsumeVarint(v)
			e.Address = addr.Address(x)
		case num == fieldEntryTimestamp && typ == protowire.VarintType:
			x, _ := protowire.ConsumeVarint(v)
			e.Timestamp = Timestamp(x)
		}
		return nil
	})
	return e, err
}

func decodeName(b []byte) (addr.AppName, error) {
	var n addr.AppName
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, v []byte) error {
		if typ != protowire.BytesType {
			return nil
		}
		switch num {
		case fieldNameAPN:
			n.ProcessName = string(v)
		case fieldNameAPI:
			n.ProcessInstance = string(v)
		case fieldNameAEN:
			n.EntityName = string(v)
		case fieldNameAEI:
			n.EntityInstance = string(v)
		}
		return nil
	})
	return n, err
}

// consumeFields walks the top level fields of a message. For bytes fields v
// is the payload, for varint fields v holds the encoded varint, other types
// get the raw value.
func consumeFields(b []byte,
	f func(num protowire.Number, typ protowire.Type, v []byte) error) error {

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return serrors.Wrap("parsing tag", protowire.ParseError(n))
		}
		b = b[n:]
		var v []byte
		if typ == protowire.BytesType {
			var m int
			v, m = protowire.ConsumeBytes(b)
			n = m
		} else {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n >= 0 {
				v = b[:n]
			}
		}
		if n < 0 {
			return serrors.Wrap("parsing field", protowire.ParseError(n), "field", int32(num))
		}
		b = b[n:]
		if err := f(num, typ, v); err != nil {
			return err
		}
	}
	return nil
}
