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

// Package command contains cobra subcommands shared by the binaries.
package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rinaproto/rina/private/config"
	"github.com/rinaproto/rina/private/env"
)

// Pather returns the command path of a command.
type Pather interface {
	CommandPath() string
}

// NewSample creates the sample command with the given sample subcommands.
func NewSample(pather Pather, cmds ...func(Pather) *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Display sample files",
		Args:  cobra.NoArgs,
	}
	for _, f := range cmds {
		cmd.AddCommand(f(cmd))
	}
	return cmd
}

// NewSampleConfig returns a constructor for a command that prints the sample
// configuration of sampler.
func NewSampleConfig(sampler config.Sampler) func(Pather) *cobra.Command {
	return func(pather Pather) *cobra.Command {
		return &cobra.Command{
			Use:   "config",
			Short: "Display sample configuration file",
			Example: fmt.Sprintf("  %[1]s config > config.toml",
				pather.CommandPath()),
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				sampler.Sample(cmd.OutOrStdout(), nil, nil)
				return nil
			},
		}
	}
}

// NewVersion creates the version command.
func NewVersion(pather Pather) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), env.VersionInfo())
			return err
		},
	}
}
