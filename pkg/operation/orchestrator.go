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

package operation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/datatransfer/pkg/data"
	"github.com/walteh/datatransfer/pkg/gateway"
	"github.com/walteh/datatransfer/pkg/metrics"
	"gitlab.com/tozd/go/errors"
)

// 🔍 Resolver finds the transferrers for one side of a transfer
type Resolver interface {
	Downloader(system string, dataType data.Type) (gateway.Downloader, error)
	Uploader(system string, dataType data.Type) (gateway.Uploader, error)
}

// 📦 Request describes one transfer
type Request struct {
	SourceSystem      string
	DestinationSystem string
	DataType          data.Type
	SourceParams      data.Params
	DestinationParams data.Params
}

// 🔧 Option configures an Orchestrator
type Option func(*Orchestrator)

// WithTimeout bounds every transfer. Zero or negative means no bound.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.timeout = d
	}
}

// WithMetrics counts transfer outcomes in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// 🎮 Orchestrator moves one record from a source system to a destination
// system. It holds no per-transfer state and can run transfers concurrently.
type Orchestrator struct {
	resolver Resolver
	timeout  time.Duration
	metrics  *metrics.Metrics
	newID    func() string
}

// 🏭 New creates an orchestrator over resolver
func New(resolver Resolver, opts ...Option) (*Orchestrator, error) {
	if resolver == nil {
		return nil, errors.New("resolver is required")
	}
	o := &Orchestrator{
		resolver: resolver,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// 🚚 Transfer downloads the record from the source and, once that succeeds,
// uploads it to the destination. The outcome is logged and counted once.
func (o *Orchestrator) Transfer(ctx context.Context, req Request) error {
	logger := zerolog.Ctx(ctx).With().
		Str("transfer_id", o.newID()).
		Str("source", req.SourceSystem).
		Str("destination", req.DestinationSystem).
		Str("data_type", req.DataType.String()).
		Logger()
	ctx = logger.WithContext(ctx)

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	err := o.transfer(ctx, req)

	o.metrics.ObserveTransfer(req.SourceSystem, req.DestinationSystem, req.DataType.String(), err)
	if err != nil {
		logger.Error().Err(err).Msg("data transfer failed")
		return err
	}

	logger.Info().Msg("data transfer completed")
	return nil
}

func (o *Orchestrator) transfer(ctx context.Context, req Request) error {
	logger := zerolog.Ctx(ctx)

	downloader, err := o.resolver.Downloader(req.SourceSystem, req.DataType)
	if err != nil {
		return err
	}
	uploader, err := o.resolver.Uploader(req.DestinationSystem, req.DataType)
	if err != nil {
		return err
	}
	logger.Debug().Msg("resolved downloader and uploader")

	record, err := downloader.Download(ctx, req.SourceParams)
	if err != nil {
		return err
	}
	if record == nil {
		return errors.Errorf("downloader for %s returned no %s record", req.SourceSystem, req.DataType)
	}
	logger.Debug().Msg("downloaded record")

	return uploader.Upload(ctx, req.DestinationParams, record)
}
