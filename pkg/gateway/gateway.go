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
	"context"
	"fmt"

	"github.com/walteh/datatransfer/pkg/data"
)

// 🔌 TypeChecker tells whether a transferrer serves a system type and a data
// type. Implementations must not do I/O and must accept any input.
type TypeChecker interface {
	// 🔍 SystemTypeMatches reports whether systemType names this system
	SystemTypeMatches(systemType string) bool

	// 🔍 DataTypeMatches reports whether records of dataType are handled
	DataTypeMatches(dataType data.Type) bool
}

// 📥 Downloader fetches one record from an external system
type Downloader interface {
	TypeChecker

	// Download reads the record identified by params.
	Download(ctx context.Context, params data.Params) (data.Record, error)
}

// 📤 Uploader writes one record to an external system
type Uploader interface {
	TypeChecker

	// Upload stores record at the location identified by params.
	Upload(ctx context.Context, params data.Params, record data.Record) error
}

// Direction says which side of a transfer a transferrer can take.
type Direction int

const (
	DirectionDownload Direction = iota + 1
	DirectionUpload
)

func (d Direction) String() string {
	switch d {
	case DirectionDownload:
		return "download"
	case DirectionUpload:
		return "upload"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// 🏷️ Capability is the (system, data type, direction) triple a transferrer serves
type Capability struct {
	// System is the canonical system identifier, e.g. "github".
	System string
	// Name is the display name used in messages, e.g. "GitHub".
	Name      string
	DataType  data.Type
	Direction Direction
}

func (c Capability) String() string {
	return fmt.Sprintf("%s %s %s", c.Direction, c.System, c.DataType)
}

// 📝 Describer is implemented by transferrers that can list their capability.
// Registries use it for listings and to reject duplicate registrations.
type Describer interface {
	Capability() Capability
}
