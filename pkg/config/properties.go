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
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔑 PropertySource resolves named configuration properties such as API
// tokens. An absent property is distinct from one set to the empty string.
type PropertySource interface {
	// Lookup returns the value of name and whether it is set.
	Lookup(name string) (string, bool)
	// Describe names the kind of source for user-facing hints.
	Describe() string
}

// 🌍 EnvSource reads properties from the process environment
type EnvSource struct{}

func (EnvSource) Lookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

func (EnvSource) Describe() string {
	return "environment variable"
}

// 🗂️ MapSource serves properties from a fixed map
type MapSource struct {
	kind   string
	values map[string]string
}

// NewMapSource copies values; kind is used by Describe.
func NewMapSource(kind string, values map[string]string) *MapSource {
	cp := make(map[string]string, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return &MapSource{kind: kind, values: cp}
}

func (m *MapSource) Lookup(name string) (string, bool) {
	v, ok := m.values[name]
	return v, ok
}

func (m *MapSource) Describe() string {
	return m.kind
}

// 📄 NewDotenvSource reads a dotenv file without touching the process
// environment.
func NewDotenvSource(path string) (*MapSource, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, errors.Errorf("reading env file %s: %w", path, err)
	}
	return NewMapSource("variable in "+filepath.Base(path), values), nil
}

// ⛓️ Chain asks each source in order and returns the first hit
type Chain []PropertySource

func (c Chain) Lookup(name string) (string, bool) {
	for _, src := range c {
		if v, ok := src.Lookup(name); ok {
			return v, true
		}
	}
	return "", false
}

func (c Chain) Describe() string {
	kinds := make([]string, 0, len(c))
	for _, src := range c {
		kinds = append(kinds, src.Describe())
	}
	return strings.Join(kinds, " or ")
}

// 🎯 PropertySource builds the property chain for this configuration: the
// process environment first, then envFile (or the configured env_file), then
// the properties block of the config file.
func (cfg *Config) PropertySource(ctx context.Context, envFile string) (PropertySource, error) {
	chain := Chain{EnvSource{}}

	if envFile == "" {
		envFile = cfg.EnvFile
		if envFile != "" && cfg.location != "" && !filepath.IsAbs(envFile) {
			envFile = filepath.Join(filepath.Dir(cfg.location), envFile)
		}
	}
	if envFile != "" {
		src, err := NewDotenvSource(envFile)
		if err != nil {
			return nil, err
		}
		zerolog.Ctx(ctx).Debug().Str("path", envFile).Msg("using env file for properties")
		chain = append(chain, src)
	}

	if len(cfg.Properties) > 0 {
		kind := "property in config file"
		if cfg.location != "" {
			kind = "property in " + filepath.Base(cfg.location)
		}
		chain = append(chain, NewMapSource(kind, cfg.Properties))
	}

	return chain, nil
}
