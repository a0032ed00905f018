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

// Package launcher is the common harness of the server binaries. It parses
// the command line, loads the TOML configuration, sets up logging and
// metrics, and then runs the application until it returns or the process is
// signalled.
package launcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rinaproto/rina/pkg/log"
	"github.com/rinaproto/rina/pkg/metrics"
	"github.com/rinaproto/rina/pkg/private/prom"
	"github.com/rinaproto/rina/pkg/private/serrors"
	"github.com/rinaproto/rina/private/app/command"
	libconfig "github.com/rinaproto/rina/private/config"
	"github.com/rinaproto/rina/private/env"
)

// Configuration keys used by the launcher
const (
	cfgLogConsoleLevel         = "log.console.level"
	cfgLogConsoleFormat        = "log.console.format"
	cfgLogConsoleDisableCaller = "log.console.disable_caller"
	cfgGeneralID               = "general.id"
	cfgConfigFile              = "config"
)

// Application models a server application.
type Application struct {
	// TOMLConfig holds the Go data structure for the application-specific
	// TOML configuration.
	TOMLConfig libconfig.Config

	// ShortName is the short name of the application. If empty, the
	// executable name is used.
	ShortName string

	// Main is the custom logic of the application. If nil, only the
	// setup/teardown harness runs. If Main returns an error, Run exits with a
	// non-zero exit code.
	Main func(ctx context.Context) error

	// ErrorWriter specifies where error output should be printed. If nil,
	// os.Stderr is used.
	ErrorWriter io.Writer

	// ShutdownGrace is the time Main gets to return after a signal before
	// the process exits forcefully. Defaults to env.ShutdownGraceInterval.
	ShutdownGrace time.Duration

	config *viper.Viper
}

// Run sets up the common harness and then passes control to Main.
//
// Run uses the following globals:
//
//	os.Args
//
// Run exits the process if it encounters a fatal error.
func (a *Application) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		defer log.HandlePanic()
		<-ctx.Done()
		if a.ShutdownGrace < 0 {
			return
		}
		grace := a.ShutdownGrace
		if grace == 0 {
			grace = env.ShutdownGraceInterval
		}
		time.Sleep(grace)
		fmt.Fprintf(a.getErrorWriter(), "shutdown grace period of %s exceeded\n", grace)
		log.Flush()
		os.Exit(1)
	}()
	if err := a.run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(a.getErrorWriter(), "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func (a *Application) run(ctx context.Context, args []string) error {
	executable := filepath.Base(os.Args[0])
	shortName := a.getShortName(executable)

	cmd := a.newCommand(executable, shortName)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func (a *Application) newCommand(executable, shortName string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           executable,
		Short:         shortName,
		Example:       fmt.Sprintf("  %s --config %s", executable, "config.toml"),
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.executeCommand(cmd.Context(), shortName)
		},
	}
	cmd.AddCommand(
		command.NewSample(cmd, command.NewSampleConfig(a.TOMLConfig)),
		command.NewVersion(cmd),
		command.NewGendocs(cmd),
	)
	cmd.Flags().String(cfgConfigFile, "", "Configuration file (required)")
	_ = cmd.MarkFlagRequired(cfgConfigFile)

	a.config = viper.New()
	a.config.SetDefault(cfgLogConsoleLevel, log.DefaultConsoleLevel)
	a.config.SetDefault(cfgLogConsoleFormat, log.DefaultConsoleFormat)
	a.config.SetDefault(cfgLogConsoleDisableCaller, false)
	a.config.SetDefault(cfgGeneralID, executable)
	// The location of the configuration file is only known once the flags
	// are parsed.
	if err := a.config.BindPFlag(cfgConfigFile, cmd.Flags().Lookup(cfgConfigFile)); err != nil {
		panic(err)
	}
	return cmd
}

func (a *Application) executeCommand(ctx context.Context, shortName string) error {
	os.Setenv("TZ", "UTC")

	// The launcher settings live in the same file as the application
	// configuration.
	file := a.config.GetString(cfgConfigFile)
	a.config.SetConfigType("toml")
	a.config.SetConfigFile(file)
	if err := a.config.ReadInConfig(); err != nil {
		return serrors.Wrap("loading generic server config from file", err, "file", file)
	}
	if err := libconfig.LoadFile(file, a.TOMLConfig); err != nil {
		return serrors.Wrap("loading config from file", err, "file", file)
	}
	a.TOMLConfig.InitDefaults()

	logEntriesTotal := prom.NewCounterVec("", "", "lib_log_emitted_entries_total",
		"Total number of log entries emitted.", []string{"level"})
	opt := log.WithEntriesCounter(metrics.NewPromCounter(logEntriesTotal))
	if err := log.Setup(a.getLogging(), opt); err != nil {
		return serrors.Wrap("initialize logging", err)
	}
	defer log.Flush()

	prom.ExportElementID(a.config.GetString(cfgGeneralID))
	if err := a.TOMLConfig.Validate(); err != nil {
		return serrors.Wrap("validate config", err)
	}
	log.Info("Starting", "service", shortName, "version", env.Version(),
		"id", a.config.GetString(cfgGeneralID))
	if a.Main == nil {
		return nil
	}
	defer log.Info("Stopped", "service", shortName)
	return a.Main(ctx)
}

func (a *Application) getLogging() log.Config {
	return log.Config{
		Console: log.ConsoleConfig{
			Level:         a.config.GetString(cfgLogConsoleLevel),
			Format:        a.config.GetString(cfgLogConsoleFormat),
			DisableCaller: a.config.GetBool(cfgLogConsoleDisableCaller),
		},
	}
}

func (a *Application) getShortName(executable string) string {
	if a.ShortName != "" {
		return a.ShortName
	}
	return executable
}

func (a *Application) getErrorWriter() io.Writer {
	if a.ErrorWriter != nil {
		return a.ErrorWriter
	}
	return os.Stderr
}
