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

package opts

import (
	"io"
	"net/http"

	"github.com/walteh/datatransfer/pkg/config"
	"github.com/walteh/datatransfer/pkg/gateway"
	"github.com/walteh/datatransfer/pkg/metrics"
	"github.com/walteh/datatransfer/pkg/registry"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands. The root command
// fills it in before any subcommand runs.
type RootOpts struct {
	Config     *config.Config
	Properties config.PropertySource
	Metrics    *metrics.Metrics
	Stdout     io.Writer

	// Transport replaces the default HTTP transport, mostly for tests.
	Transport http.RoundTripper
}

// GatewayOptions builds what every gateway shares from the loaded config.
func (o *RootOpts) GatewayOptions() gateway.Options {
	return gateway.Options{
		Properties: o.Properties,
		Retry:      o.Config.RetryPolicy(),
		Metrics:    o.Metrics,
		Transport:  o.Transport,
	}
}

// Registry builds the production registry pointed at the configured endpoints.
func (o *RootOpts) Registry() (*registry.Registry, error) {
	if o.Config == nil {
		return nil, errors.New("configuration not loaded")
	}
	return registry.Default(o.GatewayOptions(), registry.Endpoints{
		GitHubBaseURL:          o.Config.GitHub.BaseURL,
		FreshdeskBaseURLFormat: o.Config.Freshdesk.BaseURLFormat,
	})
}
