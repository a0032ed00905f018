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

// dftctl inspects and manipulates the directory of a normal IPC process
// through its management API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rinaproto/rina/private/app/command"
	"github.com/rinaproto/rina/private/app/flag"
)

// CommandPather returns the path to a command.
type CommandPather interface {
	CommandPath() string
}

// globalFlags are shared by all subcommands.
type globalFlags struct {
	env     flag.APIEnvironment
	format  string
	noColor bool
}

// setup loads the external variables and returns the API client and the
// output printer.
func (g *globalFlags) setup(cmd *cobra.Command) (*client, printer, error) {
	if err := g.env.LoadExternalVars(); err != nil {
		return nil, printer{}, err
	}
	p, err := newPrinter(g.format, cmd.OutOrStdout(), g.noColor)
	if err != nil {
		return nil, printer{}, err
	}
	cmd.SilenceUsage = true
	return newClient(g.env.API()), p, nil
}

func main() {
	if err := newRoot().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRoot() *cobra.Command {
	var flags globalFlags
	cmd := &cobra.Command{
		Use:           "dftctl",
		Short:         "Directory forwarding table management tool",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}
	flags.env.Register(cmd.PersistentFlags())
	cmd.PersistentFlags().StringVar(&flags.format, "format", "human",
		"Specify the output format (human|json|yaml)")
	cmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false,
		"Disable colored output")
	cmd.AddCommand(
		newShow(cmd, &flags),
		newLookup(cmd, &flags),
		newSetEntry(cmd, &flags),
		newRegister(cmd, &flags),
		newUnregister(cmd, &flags),
		newSetAddress(cmd, &flags),
		newNeighbors(cmd, &flags),
		newInfo(cmd, &flags),
		command.NewVersion(cmd),
		command.NewGendocs(cmd),
	)
	return cmd
}
