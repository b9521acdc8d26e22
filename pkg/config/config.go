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
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/datatransfer/pkg/retry"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTimeout  = time.Minute
	DefaultLogLevel = "info"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔁 RetryConfig tunes the retry policy shared by every gateway
type RetryConfig struct {
	MaxRetries     *int   `json:"max_retries,omitempty" yaml:"max_retries,omitempty" hcl:"max_retries,optional"`
	InitialBackoff string `json:"initial_backoff,omitempty" yaml:"initial_backoff,omitempty" hcl:"initial_backoff,optional"`
	MaxBackoff     string `json:"max_backoff,omitempty" yaml:"max_backoff,omitempty" hcl:"max_backoff,optional"`
}

// 🐙 GitHubConfig overrides the GitHub API endpoint (GitHub Enterprise)
type GitHubConfig struct {
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" hcl:"base_url,optional"`
}

// 🎫 FreshdeskConfig overrides how the Freshdesk API endpoint is built from a domain
type FreshdeskConfig struct {
	BaseURLFormat string `json:"base_url_format,omitempty" yaml:"base_url_format,omitempty" hcl:"base_url_format,optional"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Timeout    string            `json:"timeout,omitempty" yaml:"timeout,omitempty" hcl:"timeout,optional"`
	LogLevel   string            `json:"log_level,omitempty" yaml:"log_level,omitempty" hcl:"log_level,optional"`
	EnvFile    string            `json:"env_file,omitempty" yaml:"env_file,omitempty" hcl:"env_file,optional"`
	Retry      *RetryConfig      `json:"retry,omitempty" yaml:"retry,omitempty" hcl:"retry,block"`
	GitHub     *GitHubConfig     `json:"github,omitempty" yaml:"github,omitempty" hcl:"github,block"`
	Freshdesk  *FreshdeskConfig  `json:"freshdesk,omitempty" yaml:"freshdesk,omitempty" hcl:"freshdesk,block"`
	Properties map[string]string `json:"properties,omitempty" yaml:"properties,omitempty" hcl:"properties,optional"`

	location       string
	timeout        time.Duration
	logLevel       zerolog.Level
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

// 🏭 Default returns a validated configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate checks the configuration and fills in defaults
func (cfg *Config) Validate() error {
	var err error

	cfg.timeout = DefaultTimeout
	if cfg.Timeout != "" {
		if cfg.timeout, err = time.ParseDuration(cfg.Timeout); err != nil {
			return errors.Errorf("timeout: %w", err)
		}
		if cfg.timeout < 0 {
			return errors.Errorf("timeout must not be negative")
		}
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.logLevel, err = zerolog.ParseLevel(strings.ToLower(cfg.LogLevel)); err != nil {
		return errors.Errorf("log_level: %w", err)
	}

	if cfg.Retry == nil {
		cfg.Retry = &RetryConfig{}
	}
	if cfg.Retry.MaxRetries != nil && *cfg.Retry.MaxRetries < 0 {
		return errors.Errorf("retry.max_retries must not be negative")
	}
	cfg.initialBackoff = retry.DefaultInitialBackoff
	if cfg.Retry.InitialBackoff != "" {
		if cfg.initialBackoff, err = time.ParseDuration(cfg.Retry.InitialBackoff); err != nil {
			return errors.Errorf("retry.initial_backoff: %w", err)
		}
		if cfg.initialBackoff <= 0 {
			return errors.Errorf("retry.initial_backoff must be positive")
		}
	}
	cfg.maxBackoff = retry.DefaultMaxBackoff
	if cfg.Retry.MaxBackoff != "" {
		if cfg.maxBackoff, err = time.ParseDuration(cfg.Retry.MaxBackoff); err != nil {
			return errors.Errorf("retry.max_backoff: %w", err)
		}
		if cfg.maxBackoff < 0 {
			return errors.Errorf("retry.max_backoff must not be negative")
		}
	}

	if cfg.GitHub == nil {
		cfg.GitHub = &GitHubConfig{}
	}
	if cfg.GitHub.BaseURL != "" {
		u, err := url.Parse(cfg.GitHub.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.Errorf("github.base_url %q is not an absolute URL", cfg.GitHub.BaseURL)
		}
	}

	if cfg.Freshdesk == nil {
		cfg.Freshdesk = &FreshdeskConfig{}
	}
	if cfg.Freshdesk.BaseURLFormat != "" && strings.Count(cfg.Freshdesk.BaseURLFormat, "%s") != 1 {
		return errors.Errorf("freshdesk.base_url_format must contain exactly one %%s for the domain")
	}

	return nil
}

// Location is the file the configuration was loaded from, empty for defaults.
func (cfg *Config) Location() string {
	return cfg.location
}

// TimeoutDuration bounds one whole transfer. Zero disables the bound.
func (cfg *Config) TimeoutDuration() time.Duration {
	return cfg.timeout
}

func (cfg *Config) Level() zerolog.Level {
	return cfg.logLevel
}

// RetryPolicy builds the retry policy described by the retry block.
func (cfg *Config) RetryPolicy() retry.Policy {
	p := retry.Default()
	if cfg.Retry != nil && cfg.Retry.MaxRetries != nil {
		p.MaxRetries = uint64(*cfg.Retry.MaxRetries)
	}
	if cfg.initialBackoff > 0 {
		p.InitialBackoff = cfg.initialBackoff
	}
	p.MaxBackoff = cfg.maxBackoff
	return p
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

func init() {
	Register(&YAMLParser{})
}

func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}

	return &cfg, nil
}

// 🔧 JSONParser implements the Parser interface for JSON files. Like the YAML
// parser it rejects unknown fields and reads an empty file as defaults.
type JSONParser struct{}

func init() {
	Register(&JSONParser{})
}

func (p *JSONParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".json")
}

func (p *JSONParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	var cfg Config
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	if decoder.More() {
		return nil, errors.Errorf("parsing JSON: unexpected data after the config object")
	}

	return &cfg, nil
}
