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

package commands

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/datatransfer/cmd/datatransfer/opts"
	"github.com/walteh/datatransfer/pkg/data"
	"github.com/walteh/datatransfer/pkg/log"
	"github.com/walteh/datatransfer/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// ErrTransferFailed is returned once a failed transfer has been reported to
// the user, so callers only need to set the exit code.
var ErrTransferFailed = errors.Base("transfer failed")

type transferFlags struct {
	source            string
	destination       string
	sourceParams      []string
	destinationParams []string
	timeout           time.Duration
}

// NewTransferCmd creates the transfer command with one subcommand per data type
func NewTransferCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer data between external systems",
		Long: `Transfer downloads one record from a source system and uploads it to a
destination system. Parameters identify the record on each side and are
given as key=value pairs.`,
	}

	for _, dt := range data.Types() {
		cmd.AddCommand(newTransferDataCmd(o, dt))
	}

	return cmd
}

func newTransferDataCmd(o *opts.RootOpts, dataType data.Type) *cobra.Command {
	var flags transferFlags

	cmd := &cobra.Command{
		Use:   dataType.String(),
		Short: fmt.Sprintf("Transfer %s data", dataType),
		Example: fmt.Sprintf(`  datatransfer transfer %s -s github -p username=octocat -d freshdesk -t domain=acme`,
			dataType),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransfer(cmd, o, dataType, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.source, "source-system", "s", "", "system to download from, e.g. github")
	cmd.Flags().StringVarP(&flags.destination, "destination-system", "d", "", "system to upload to, e.g. freshdesk")
	cmd.Flags().StringArrayVarP(&flags.sourceParams, "source-params", "p", nil, "source parameter as key=value, repeatable")
	cmd.Flags().StringArrayVarP(&flags.destinationParams, "destination-params", "t", nil, "destination parameter as key=value, repeatable")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "bound the whole transfer, overrides the configured timeout")
	_ = cmd.MarkFlagRequired("source-system")
	_ = cmd.MarkFlagRequired("destination-system")

	return cmd
}

func runTransfer(cmd *cobra.Command, o *opts.RootOpts, dataType data.Type, flags transferFlags) error {
	ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "transfer").Logger().WithContext(cmd.Context())
	reporter := log.FromContext(cmd.Context())

	fail := func(err error) error {
		reporter.Errorf("Failed to transfer %s data from %s to %s!", dataType, flags.source, flags.destination)
		reporter.Detail(RenderFailure(err))
		return ErrTransferFailed
	}

	srcParams, err := data.ParseParams(flags.sourceParams)
	if err != nil {
		return fail(err)
	}
	dstParams, err := data.ParseParams(flags.destinationParams)
	if err != nil {
		return fail(err)
	}

	reg, err := o.Registry()
	if err != nil {
		return errors.Errorf("building registry: %w", err)
	}

	timeout := o.Config.TimeoutDuration()
	if cmd.Flags().Changed("timeout") {
		timeout = flags.timeout
	}

	orch, err := operation.New(reg, operation.WithTimeout(timeout), operation.WithMetrics(o.Metrics))
	if err != nil {
		return errors.Errorf("creating orchestrator: %w", err)
	}

	reporter.StartTransfer(log.TransferOperation{
		Source:            flags.source,
		Destination:       flags.destination,
		DataType:          dataType.String(),
		SourceParams:      srcParams,
		DestinationParams: dstParams,
	})

	pending := orch.Start(ctx, operation.Request{
		SourceSystem:      flags.source,
		DestinationSystem: flags.destination,
		DataType:          dataType,
		SourceParams:      srcParams,
		DestinationParams: dstParams,
	})

	if err := pending.Wait(); err != nil {
		return fail(err)
	}

	reporter.Successf("Successfully completed %s data transfer from %s to %s!", dataType, flags.source, flags.destination)
	return nil
}
