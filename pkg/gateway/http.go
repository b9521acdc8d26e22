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

package gateway

import (
	"fmt"
	"io"
	"net/http"

	"github.com/walteh/datatransfer/pkg/config"
	"github.com/walteh/datatransfer/pkg/failure"
	"github.com/walteh/datatransfer/pkg/metrics"
	"github.com/walteh/datatransfer/pkg/retry"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// ⚙️ Options carries what every gateway shares: where tokens come from, how
// calls are retried, and how requests are counted.
type Options struct {
	Properties config.PropertySource
	Retry      retry.Policy
	Metrics    *metrics.Metrics
	// Transport is the base round tripper, http.DefaultTransport when nil.
	Transport http.RoundTripper
}

// DefaultOptions reads properties from the environment with the default
// retry policy and no metrics.
func DefaultOptions() Options {
	return Options{
		Properties: config.EnvSource{},
		Retry:      retry.Default(),
	}
}

// 🔁 RetryPolicy is the configured policy with retries reported to Metrics
func (o Options) RetryPolicy() retry.Policy {
	p := o.Retry
	if o.Metrics != nil {
		next := p.OnRetry
		p.OnRetry = func(system string, attempt int, err error) {
			o.Metrics.ObserveRetry(system)
			if next != nil {
				next(system, attempt, err)
			}
		}
	}
	return p
}

// 🌐 HTTPClient returns a client for system whose requests are counted
func (o Options) HTTPClient(system string) *http.Client {
	return NewHTTPClient(system, o.Metrics, o.Transport)
}

// NewHTTPClient builds a client on base with per-system request counters.
// The client has no timeout of its own; callers bound requests with a context.
func NewHTTPClient(system string, m *metrics.Metrics, base http.RoundTripper) *http.Client {
	return &http.Client{Transport: m.InstrumentRoundTripper(system, base)}
}

// MessageMapper turns a failed response into a user-facing message. An empty
// result falls back to a generic one.
type MessageMapper func(statusCode int, body []byte) string

// 🚦 CheckResponse returns nil for a 2xx response and an HTTPRequestFailed
// failure for anything else. The body of a failed response is consumed.
func CheckResponse(system string, resp *http.Response, mapper MessageMapper) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	msg := ""
	if mapper != nil {
		msg = mapper(resp.StatusCode, body)
	}
	if msg == "" {
		msg = fmt.Sprintf("Unexpected response from %s: %s", system, http.StatusText(resp.StatusCode))
	}
	return failure.HTTPRequestFailed(system, resp.StatusCode, msg)
}
