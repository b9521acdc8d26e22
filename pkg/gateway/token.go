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

	"github.com/walteh/datatransfer/pkg/config"
	"github.com/walteh/datatransfer/pkg/failure"
)

// 🔑 ResolveToken looks up the credential property for system. A property set
// to the empty string counts as present; only an absent one is Unauthorized.
// hint describes the expected value, e.g. "your GitHub API token".
func ResolveToken(src config.PropertySource, system, property, hint string) (string, error) {
	kind := "configuration property"
	if src != nil {
		if v, ok := src.Lookup(property); ok {
			return v, nil
		}
		kind = src.Describe()
	}
	return "", failure.Unauthorized(system,
		fmt.Sprintf("Please set '%s' (as %s) to %s in order to authenticate.", property, kind, hint))
}
