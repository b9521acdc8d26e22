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

package data

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Type tags the shape of the generic record being transferred.
type Type string

const (
	TypeUser Type = "user"
)

var knownTypes = []Type{TypeUser}

// Types returns every data type a transfer can carry.
func Types() []Type {
	out := make([]Type, len(knownTypes))
	copy(out, knownTypes)
	return out
}

// ParseType resolves a data type name case-insensitively.
func ParseType(name string) (Type, error) {
	for _, t := range knownTypes {
		if strings.EqualFold(strings.TrimSpace(name), string(t)) {
			return t, nil
		}
	}
	return "", errors.Errorf("unknown data type %q", name)
}

func (t Type) String() string {
	return string(t)
}

// Record is the system-neutral payload handed from a downloader to an
// uploader. Records are built once and never mutated afterwards.
type Record interface {
	DataType() Type
}

// User is the generic user record. Empty fields are absent.
type User struct {
	Name          string
	Email         string
	Address       string
	ExternalID    string
	Description   string
	TwitterHandle string
}

func (u *User) DataType() Type {
	return TypeUser
}

// SystemTypeMatches compares a system type requested by a caller with the
// canonical identifier a gateway owns.
func SystemTypeMatches(canonical, candidate string) bool {
	return strings.EqualFold(canonical, strings.TrimSpace(candidate))
}
