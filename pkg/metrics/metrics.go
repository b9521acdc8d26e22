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

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gitlab.com/tozd/go/errors"
)

const namespace = "datatransfer"

// 📊 Metrics holds the counters for one process. A nil *Metrics records nothing.
type Metrics struct {
	registry  *prometheus.Registry
	transfers *prometheus.CounterVec
	requests  *prometheus.CounterVec
	retries   *prometheus.CounterVec
}

// 🏭 New creates metrics on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		transfers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfers_total",
			Help:      "Transfers by source, destination, data type and outcome.",
		}, []string{"source", "destination", "data_type", "outcome"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Outbound HTTP requests by external system, status code and method.",
		}, []string{"system", "code", "method"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_retries_total",
			Help:      "Retried outbound HTTP calls by external system.",
		}, []string{"system"}),
	}
	m.registry.MustRegister(m.transfers, m.requests, m.retries)
	return m
}

// 📝 ObserveTransfer counts one finished transfer
func (m *Metrics) ObserveTransfer(source, destination, dataType string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.transfers.WithLabelValues(source, destination, dataType, outcome).Inc()
}

// 🔁 ObserveRetry counts one retried call
func (m *Metrics) ObserveRetry(system string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(system).Inc()
}

// 🔌 InstrumentRoundTripper counts every request sent through next for system
func (m *Metrics) InstrumentRoundTripper(system string, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	if m == nil {
		return next
	}
	counter := m.requests.MustCurryWith(prometheus.Labels{"system": system})
	return promhttp.InstrumentRoundTripperCounter(counter, next)
}

// Gatherer exposes the private registry
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return prometheus.NewRegistry()
	}
	return m.registry
}

// 💾 WriteTextfile writes the current values in the node exporter textfile format
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
