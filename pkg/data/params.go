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
	"fmt"
	"regexp"
	"sort"

	"github.com/walteh/datatransfer/pkg/failure"
)

var paramPattern = regexp.MustCompile(`^([\w-]+)=([^=\s]+)$`)

// Params identifies what to fetch from or where to put data in one external
// system. It is built once per invocation and only read afterwards.
type Params struct {
	values map[string]string
}

// NewParams copies m into an immutable parameter map.
func NewParams(m map[string]string) Params {
	values := make(map[string]string, len(m))
	for k, v := range m {
		values[k] = v
	}
	return Params{values: values}
}

// ParseParams builds a parameter map from raw key=value tokens.
func ParseParams(tokens []string) (Params, error) {
	values := make(map[string]string, len(tokens))
	for _, token := range tokens {
		match := paramPattern.FindStringSubmatch(token)
		if match == nil {
			return Params{}, failure.InvalidParameter(token,
				fmt.Sprintf("Parameter '%s' does not match the pattern '<key>=<value>'.", token))
		}
		if _, dup := values[match[1]]; dup {
			return Params{}, failure.InvalidParameter(token,
				fmt.Sprintf("Parameter '%s' is specified more than once.", match[1]))
		}
		values[match[1]] = match[2]
	}
	return Params{values: values}, nil
}

// Get returns the value for key and whether it was present.
func (p Params) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Require returns the value for key or a missing-parameter failure naming the
// system that needs it.
func (p Params) Require(system, key, reason string) (string, error) {
	v, ok := p.values[key]
	if !ok {
		return "", failure.MissingParameter(key, system, reason)
	}
	return v, nil
}

// Keys returns the parameter names in sorted order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p.values))
	for k := range p.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (p Params) Len() int {
	return len(p.values)
}
