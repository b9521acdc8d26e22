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

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/datatransfer/cmd/datatransfer/opts"
	"github.com/walteh/datatransfer/pkg/gateway"
	"github.com/walteh/datatransfer/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// NewSystemsCmd creates the systems command listing what can be transferred
func NewSystemsCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "systems",
		Short: "List the supported external systems and data types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := o.Registry()
			if err != nil {
				return errors.Errorf("building registry: %w", err)
			}

			table, err := RenderCapabilities(reg.Capabilities())
			if err != nil {
				return err
			}

			log.FromContext(cmd.Context()).Header("supported systems")
			_, err = fmt.Fprintln(o.Stdout, table)
			return err
		},
	}
}

// RenderCapabilities draws the capability table.
func RenderCapabilities(caps []gateway.Capability) (string, error) {
	rows := pterm.TableData{{"SYSTEM", "NAME", "DATA TYPE", "DIRECTION"}}
	for _, c := range caps {
		rows = append(rows, []string{c.System, c.Name, c.DataType.String(), c.Direction.String()})
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender()
	if err != nil {
		return "", errors.Errorf("rendering systems table: %w", err)
	}
	return out, nil
}
