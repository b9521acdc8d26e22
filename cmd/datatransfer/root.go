// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/datatransfer/cmd/datatransfer/commands"
	"github.com/walteh/datatransfer/cmd/datatransfer/opts"
	"github.com/walteh/datatransfer/pkg/config"
	"github.com/walteh/datatransfer/pkg/log"
	"github.com/walteh/datatransfer/pkg/metrics"
	"gitlab.com/tozd/go/errors"
)

type rootFlags struct {
	configFile  string
	envFile     string
	metricsFile string
	debug       bool
}

// run executes the CLI and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	o := &opts.RootOpts{Stdout: stdout}
	flags := &rootFlags{}

	cmd := newRootCmd(o, flags, stderr)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)

	if flags.metricsFile != "" && o.Metrics != nil {
		if werr := o.Metrics.WriteTextfile(flags.metricsFile); werr != nil {
			fmt.Fprintf(stderr, "Error: %v\n", werr)
		}
	}

	if err == nil {
		return 0
	}
	if !errors.Is(err, commands.ErrTransferFailed) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return 1
}

func newRootCmd(o *opts.RootOpts, flags *rootFlags, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datatransfer",
		Short: "Transfer records between external systems",
		Long: `datatransfer moves a record, such as a user profile, from one external
system to another, for example from a GitHub user to a Freshdesk contact.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd, o, flags, stderr)
		},
	}

	addRootFlags(cmd, flags)

	cmd.AddCommand(
		commands.NewTransferCmd(o),
		commands.NewSystemsCmd(o),
		newVersionCmd(),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "config file path (default: discover .datatransfer.{hcl,yaml,yml,json})")
	cmd.PersistentFlags().StringVar(&flags.envFile, "env-file", "", "dotenv file with properties such as API tokens")
	cmd.PersistentFlags().StringVar(&flags.metricsFile, "metrics-file", "", "write prometheus metrics to this textfile on exit")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
}

// setup loads the configuration and fills the shared options
func setup(cmd *cobra.Command, o *opts.RootOpts, flags *rootFlags, stderr io.Writer) error {
	ctx := cmd.Context()

	cfg, err := config.LoadOrDiscover(ctx, flags.configFile, ".")
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}

	level := cfg.Level()
	if flags.debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().
		Logger()
	ctx = logger.WithContext(ctx)

	props, err := cfg.PropertySource(ctx, flags.envFile)
	if err != nil {
		return errors.Errorf("loading properties: %w", err)
	}

	o.Config = cfg
	o.Properties = props
	o.Metrics = metrics.New()

	logger.Debug().Str("config", cfg.Location()).Msg("configuration loaded")

	cmd.SetContext(log.NewContext(ctx, log.New(o.Stdout, logger)))
	return nil
}
