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

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rinaproto/rina/normal/mgmtapi"
)

func newSetAddress(pather CommandPather, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "set-address <address>",
		Short: "Assign a new address to the IPC process",
		Long: `'set-address' changes the address of the IPC process. All local entries
are rewritten to the new address and propagated to the neighbors.`,
		Example: fmt.Sprintf("  %[1]s set-address 0x2b", pather.CommandPath()),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, p, err := flags.setup(cmd)
			if err != nil {
				return err
			}
			info, err := c.setAddress(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return p.print(info, func(w io.Writer) { renderInfo(w, p.scheme(), info) })
		},
	}
}

func newNeighbors(pather CommandPather, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "neighbors",
		Short:   "Show the neighbors of the IPC process",
		Example: fmt.Sprintf("  %[1]s neighbors", pather.CommandPath()),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, p, err := flags.setup(cmd)
			if err != nil {
				return err
			}
			ns, err := c.neighbors(cmd.Context())
			if err != nil {
				return err
			}
			if ns == nil {
				ns = []mgmtapi.Neighbor{}
			}
			return p.print(ns, func(w io.Writer) {
				if len(ns) == 0 {
					fmt.Fprintln(w, "No neighbors.")
					return
				}
				renderNeighbors(w, p.scheme(), ns)
			})
		},
	}
}

func newInfo(pather CommandPather, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "info",
		Short:   "Show information about the IPC process",
		Example: fmt.Sprintf("  %[1]s info", pather.CommandPath()),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, p, err := flags.setup(cmd)
			if err != nil {
				return err
			}
			info, err := c.info(cmd.Context())
			if err != nil {
				return err
			}
			return p.print(info, func(w io.Writer) { renderInfo(w, p.scheme(), info) })
		},
	}
}
