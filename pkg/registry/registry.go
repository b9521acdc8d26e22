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

package registry

import (
	"sort"

	"github.com/walteh/datatransfer/pkg/data"
	"github.com/walteh/datatransfer/pkg/failure"
	"github.com/walteh/datatransfer/pkg/gateway"
	"github.com/walteh/datatransfer/pkg/gateway/freshdesk"
	"github.com/walteh/datatransfer/pkg/gateway/github"
	"gitlab.com/tozd/go/errors"
)

// 🗂️ Registry is the fixed set of downloaders and uploaders a process can
// transfer with. It is never modified after New returns.
type Registry struct {
	downloaders []gateway.Downloader
	uploaders   []gateway.Uploader
}

// 🏭 New builds a registry. Two transferrers of the same direction that
// describe the same system and data type are rejected.
func New(downloaders []gateway.Downloader, uploaders []gateway.Uploader) (*Registry, error) {
	seen := map[gateway.Capability]bool{}

	check := func(t any, dir gateway.Direction) error {
		if t == nil {
			return errors.Errorf("nil %s registered", dir)
		}
		d, ok := t.(gateway.Describer)
		if !ok {
			return nil
		}
		c := d.Capability()
		key := gateway.Capability{System: c.System, DataType: c.DataType, Direction: dir}
		if seen[key] {
			return errors.Errorf("duplicate %s capability for system %q and data type %q", dir, c.System, c.DataType)
		}
		seen[key] = true
		return nil
	}

	r := &Registry{}
	for _, d := range downloaders {
		if err := check(d, gateway.DirectionDownload); err != nil {
			return nil, err
		}
		r.downloaders = append(r.downloaders, d)
	}
	for _, u := range uploaders {
		if err := check(u, gateway.DirectionUpload); err != nil {
			return nil, err
		}
		r.uploaders = append(r.uploaders, u)
	}
	return r, nil
}

// 📥 Downloader resolves the downloader for system and dataType
func (r *Registry) Downloader(system string, dataType data.Type) (gateway.Downloader, error) {
	return resolve(r.downloaders, system, dataType)
}

// 📤 Uploader resolves the uploader for system and dataType
func (r *Registry) Uploader(system string, dataType data.Type) (gateway.Uploader, error) {
	return resolve(r.uploaders, system, dataType)
}

// resolve filters by system first so an unknown system is reported without
// mentioning the data type.
func resolve[T gateway.TypeChecker](candidates []T, system string, dataType data.Type) (T, error) {
	var zero T

	bySystem := make([]T, 0, len(candidates))
	for _, c := range candidates {
		if c.SystemTypeMatches(system) {
			bySystem = append(bySystem, c)
		}
	}
	if len(bySystem) == 0 {
		return zero, failure.UnsupportedSystem(system)
	}

	for _, c := range bySystem {
		if c.DataTypeMatches(dataType) {
			return c, nil
		}
	}
	return zero, failure.UnsupportedDataType(system, dataType.String())
}

// 📋 Capabilities lists what the described transferrers serve, sorted by
// system, data type and direction.
func (r *Registry) Capabilities() []gateway.Capability {
	var out []gateway.Capability
	for _, d := range r.downloaders {
		if desc, ok := d.(gateway.Describer); ok {
			c := desc.Capability()
			c.Direction = gateway.DirectionDownload
			out = append(out, c)
		}
	}
	for _, u := range r.uploaders {
		if desc, ok := u.(gateway.Describer); ok {
			c := desc.Capability()
			c.Direction = gateway.DirectionUpload
			out = append(out, c)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].System != out[j].System {
			return out[i].System < out[j].System
		}
		if out[i].DataType != out[j].DataType {
			return out[i].DataType < out[j].DataType
		}
		return out[i].Direction < out[j].Direction
	})
	return out
}

// Endpoints overrides where the built-in gateways send requests.
type Endpoints struct {
	GitHubBaseURL          string
	FreshdeskBaseURLFormat string
}

// 🎯 Default builds the production registry: the GitHub user downloader and
// the Freshdesk user uploader.
func Default(opts gateway.Options, endpoints Endpoints) (*Registry, error) {
	gh, err := github.NewUserDownloader(opts, endpoints.GitHubBaseURL)
	if err != nil {
		return nil, errors.Errorf("creating GitHub downloader: %w", err)
	}

	fd, err := freshdesk.NewUserUploader(opts, endpoints.FreshdeskBaseURLFormat)
	if err != nil {
		return nil, errors.Errorf("creating Freshdesk uploader: %w", err)
	}

	return New([]gateway.Downloader{gh}, []gateway.Uploader{fd})
}
