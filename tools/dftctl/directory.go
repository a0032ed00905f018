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

func newShow(pather CommandPather, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "show",
		Short:   "Show the directory forwarding table",
		Example: fmt.Sprintf("  %[1]s show\n  %[1]s show --format json", pather.CommandPath()),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, p, err := flags.setup(cmd)
			if err != nil {
				return err
			}
			entries, err := c.directory(cmd.Context())
			if err != nil {
				return err
			}
			if entries == nil {
				entries = []mgmtapi.Entry{}
			}
			return p.print(entries, func(w io.Writer) {
				if len(entries) == 0 {
					p.scheme().header.Fprintln(w, "No entries.")
					return
				}
				renderEntries(w, entries)
			})
		},
	}
}

func newLookup(pather CommandPather, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "lookup <name>",
		Short:   "Show the entry of an application name",
		Example: fmt.Sprintf("  %[1]s lookup 'app.1|1'", pather.CommandPath()),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, p, err := flags.setup(cmd)
			if err != nil {
				return err
			}
			e, err := c.lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return p.print(e, func(w io.Writer) {
				renderEntries(w, []mgmtapi.Entry{e})
			})
		},
	}
}

func newSetEntry(pather CommandPather, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "set <name> <address>",
		Short: "Install a static directory entry",
		Long: `'set' installs a static entry mapping an application name to an IPC
process address. The entry is not propagated to the neighbors.`,
		Example: fmt.Sprintf("  %[1]s set 'app.1|1' 0x2a", pather.CommandPath()),
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, p, err := flags.setup(cmd)
			if err != nil {
				return err
			}
			e, err := c.setEntry(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return p.print(e, func(w io.Writer) {
				renderEntries(w, []mgmtapi.Entry{e})
			})
		},
	}
}

func newRegister(pather CommandPather, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "register <name>",
		Short: "Register a local application",
		Long: `'register' registers an application name at the IPC process and
propagates the new entry to all neighbors.`,
		Example: fmt.Sprintf("  %[1]s register 'app.1|1'", pather.CommandPath()),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, p, err := flags.setup(cmd)
			if err != nil {
				return err
			}
			e, err := c.register(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return p.print(e, func(w io.Writer) {
				fmt.Fprintf(w, "Registered %s at %s\n", e.Name, e.Address)
			})
		},
	}
}

func newUnregister(pather CommandPather, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "unregister <name>",
		Short:   "Unregister an application",
		Example: fmt.Sprintf("  %[1]s unregister 'app.1|1'", pather.CommandPath()),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, p, err := flags.setup(cmd)
			if err != nil {
				return err
			}
			if err := c.unregister(cmd.Context(), args[0]); err != nil {
				return err
			}
			if p.format == "human" {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Unregistered %s\n", args[0])
				return err
			}
			return nil
		},
	}
}
