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

package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DiscoveryPattern matches the config files looked up by Discover.
const DiscoveryPattern = ".datatransfer.{hcl,yaml,yml,json}"

var discoveryPreference = []string{".hcl", ".yaml", ".yml", ".json"}

// 🔍 Discover returns the config file in dir, or "" when there is none. When
// several formats are present HCL wins, then YAML, then JSON.
func Discover(dir string) (string, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), DiscoveryPattern)
	if err != nil {
		return "", errors.Errorf("looking for config files in %s: %w", dir, err)
	}
	if len(matches) == 0 {
		return "", nil
	}

	for _, ext := range discoveryPreference {
		for _, m := range matches {
			if filepath.Ext(m) == ext {
				return filepath.Join(dir, m), nil
			}
		}
	}
	return filepath.Join(dir, matches[0]), nil
}

// 🎯 LoadOrDiscover loads path when set, otherwise the config discovered in
// dir, otherwise the defaults.
func LoadOrDiscover(ctx context.Context, path, dir string) (*Config, error) {
	if path == "" {
		found, err := Discover(dir)
		if err != nil {
			return nil, err
		}
		if found == "" {
			zerolog.Ctx(ctx).Debug().Str("dir", dir).Msg("no config file found, using defaults")
			return Default(), nil
		}
		path = found
	}
	return Load(ctx, path)
}
