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

package cdap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/rinaproto/rina/pkg/cdap"
)

func TestOpCode(t *testing.T) {
	assert.Equal(t, "M_CREATE", cdap.MCreate.String())
	assert.Equal(t, "M_STOP_R", cdap.MStopR.String())
	assert.Equal(t, "UNKNOWN(42)", cdap.OpCode(42).String())
	assert.True(t, cdap.MReadR.IsResponse())
	assert.False(t, cdap.MRead.IsResponse())
	assert.False(t, cdap.OpCode(-1).Valid())
}

func TestCodec(t *testing.T) {
	tests := map[string]*cdap.Message{
		"create with value": {
			OpCode:   cdap.MCreate,
			ObjClass: "dft",
			ObjName:  "/dif/mgmt/fa/dft",
			ObjValue: []byte{0x0a, 0x00},
		},
		"connect": {
			OpCode:  cdap.MConnect,
			SrcAppl: "a.IPCP|1",
			DstAppl: "b.IPCP|1",
		},
		"negative result": {
			OpCode:       cdap.MReadR,
			InvokeID:     7,
			ObjClass:     "keepalive",
			Result:       -1,
			ResultReason: "nope",
		},
	}
	for name, msg := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := cdap.Unmarshal(cdap.Marshal(msg))
			require.NoError(t, err)
			assert.Equal(t, msg, got)
		})
	}
}

func TestUnmarshalSkipsUnknownFields(t *testing.T) {
	raw := cdap.Marshal(&cdap.Message{OpCode: cdap.MDelete, ObjClass: "dft"})
	raw = protowire.AppendTag(raw, 99, protowire.Fixed32Type)
	raw = protowire.AppendFixed32(raw, 5)
	got, err := cdap.Unmarshal(raw)
	require.NoError(t, err)
	assert.Equal(t, cdap.MDelete, got.OpCode)
	assert.Equal(t, "dft", got.ObjClass)
}

func TestUnmarshalErrors(t *testing.T) {
	badOp := protowire.AppendTag(nil, 1, protowire.VarintType)
	badOp = protowire.AppendVarint(badOp, 99)
	tests := map[string][]byte{
		"truncated":     {0x1a, 0x05, 'a'},
		"bad op code":   badOp,
		"truncated tag": {0x80},
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := cdap.Unmarshal(raw)
			assert.Error(t, err)
		})
	}
}

func TestResponse(t *testing.T) {
	req := &cdap.Message{OpCode: cdap.MRead, InvokeID: 3, ObjClass: "keepalive",
		ObjName: "/daf/mgmt/keepalive"}
	resp := req.Response(0, "")
	assert.Equal(t, cdap.MReadR, resp.OpCode)
	assert.Equal(t, int32(3), resp.InvokeID)
	assert.Equal(t, req.ObjName, resp.ObjName)
}
