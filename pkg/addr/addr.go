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

package addr

import (
	"encoding"
	"fmt"
	"strconv"
	"strings"

	"github.com/rinaproto/rina/pkg/private/serrors"
)

var (
	_ encoding.TextMarshaler   = Address(0)
	_ encoding.TextUnmarshaler = (*Address)(nil)
)

// Address is the address of an IPC process inside a DIF. The zero value
// means that no address has been assigned.
type Address uint64

// ParseAddress parses an address in decimal or 0x-prefixed hexadecimal form.
func ParseAddress(s string) (Address, error) {
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, serrors.Wrap("parsing address", err, "addr", s)
	}
	return Address(v), nil
}

// IsZero returns whether no address is assigned.
func (a Address) IsZero() bool {
	return a == 0
}

func (a Address) String() string {
	return fmt.Sprintf("0x%x", uint64(a))
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(b []byte) error {
	v, err := ParseAddress(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Set implements the flag.Value interface.
func (a *Address) Set(s string) error {
	return a.UnmarshalText([]byte(s))
}

// Type implements the pflag.Value interface.
func (a *Address) Type() string {
	return "address"
}

const nameSep = "|"

// AppName is the four-part name of an application or IPC process.
type AppName struct {
	ProcessName     string
	ProcessInstance string
	EntityName      string
	EntityInstance  string
}

// ParseAppName parses the canonical string form of a name. The result is
// validated.
func ParseAppName(s string) (AppName, error) {
	parts := strings.Split(s, nameSep)
	if len(parts) > 4 {
		return AppName{}, serrors.New("too many name components", "name", s)
	}
	parts = append(parts, make([]string, 4-len(parts))...)
	n := AppName{
		ProcessName:     parts[0],
		ProcessInstance: parts[1],
		EntityName:      parts[2],
		EntityInstance:  parts[3],
	}
	if err := n.Validate(); err != nil {
		return AppName{}, err
	}
	return n, nil
}

// MustParseAppName calls ParseAppName(s) and panics on error.
// It is intended for use in tests with hard-coded strings.
func MustParseAppName(s string) AppName {
	n, err := ParseAppName(s)
	if err != nil {
		panic(err)
	}
	return n
}

// Validate checks that the process name and instance are present.
func (n AppName) Validate() error {
	if n.ProcessName == "" || n.ProcessInstance == "" {
		return serrors.New("process name and instance are required", "name", n.String())
	}
	for _, c := range []string{n.ProcessName, n.ProcessInstance, n.EntityName,
		n.EntityInstance} {

		if strings.Contains(c, nameSep) {
			return serrors.New("name component contains separator", "component", c)
		}
	}
	return nil
}

// String returns the canonical string form, which is also the key of the
// name in tables.
func (n AppName) String() string {
	parts := []string{n.ProcessName, n.ProcessInstance, n.EntityName, n.EntityInstance}
	last := len(parts)
	for last > 0 && parts[last-1] == "" {
		last--
	}
	return strings.Join(parts[:last], nameSep)
}

// MarshalText implements encoding.TextMarshaler.
func (n AppName) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *AppName) UnmarshalText(b []byte) error {
	v, err := ParseAppName(string(b))
	if err != nil {
		return err
	}
	*n = v
	return nil
}
