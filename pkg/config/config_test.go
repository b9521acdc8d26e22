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
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/datatransfer/pkg/retry"
)

func testContext() context.Context {
	return zerolog.Nop().WithContext(context.Background())
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "writing test file")
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		config      string
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name:     "yaml_full",
			filename: "config.yaml",
			config: `
timeout: 30s
log_level: debug
retry:
  max_retries: 5
  initial_backoff: 200ms
  max_backoff: 2s
github:
  base_url: https://github.example.com/api/v3/
freshdesk:
  base_url_format: http://%s.localhost:8080
properties:
  GITHUB_TOKEN: abc
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 30*time.Second, cfg.TimeoutDuration(), "timeout should be parsed")
				assert.Equal(t, zerolog.DebugLevel, cfg.Level(), "log level should be parsed")
				p := cfg.RetryPolicy()
				assert.Equal(t, uint64(5), p.MaxRetries, "max retries should match")
				assert.Equal(t, 200*time.Millisecond, p.InitialBackoff, "initial backoff should match")
				assert.Equal(t, 2*time.Second, p.MaxBackoff, "max backoff should match")
				assert.Equal(t, "https://github.example.com/api/v3/", cfg.GitHub.BaseURL, "github base url should match")
				assert.Equal(t, "http://%s.localhost:8080", cfg.Freshdesk.BaseURLFormat, "freshdesk format should match")
				assert.Equal(t, map[string]string{"GITHUB_TOKEN": "abc"}, cfg.Properties, "properties should match")
			},
		},
		{
			name:     "yaml_empty_uses_defaults",
			filename: "config.yml",
			config:   "",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultTimeout, cfg.TimeoutDuration(), "timeout should default")
				assert.Equal(t, zerolog.InfoLevel, cfg.Level(), "log level should default")
				assert.Equal(t, retry.Default().MaxRetries, cfg.RetryPolicy().MaxRetries, "retries should default")
			},
		},
		{
			name:     "json_minimal",
			filename: "config.json",
			config:   `{"timeout": "5s", "retry": {"max_retries": 0}}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 5*time.Second, cfg.TimeoutDuration(), "timeout should be parsed")
				assert.Equal(t, uint64(0), cfg.RetryPolicy().MaxRetries, "zero retries should be kept")
			},
		},
		{
			name:     "json_empty_uses_defaults",
			filename: "config.JSON",
			config:   "  \n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultTimeout, cfg.TimeoutDuration(), "timeout should default")
				assert.Equal(t, retry.Default().MaxRetries, cfg.RetryPolicy().MaxRetries, "retries should default")
			},
		},
		{
			name:     "hcl_blocks",
			filename: "config.hcl",
			config: `
timeout = "10s"

retry {
  max_retries = 1
}

freshdesk {
  base_url_format = "https://%s.freshdesk.test"
}

properties = {
  FRESHDESK_TOKEN = "xyz"
}
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 10*time.Second, cfg.TimeoutDuration(), "timeout should be parsed")
				assert.Equal(t, uint64(1), cfg.RetryPolicy().MaxRetries, "max retries should match")
				assert.Equal(t, "https://%s.freshdesk.test", cfg.Freshdesk.BaseURLFormat, "format should match")
				assert.Equal(t, "xyz", cfg.Properties["FRESHDESK_TOKEN"], "property should match")
			},
		},
		{
			name:        "unknown_yaml_field",
			filename:    "config.yaml",
			config:      "bogus: true\n",
			errContains: "parsing YAML",
		},
		{
			name:        "unknown_json_field",
			filename:    "config.json",
			config:      `{"bogus": true}`,
			errContains: "parsing JSON",
		},
		{
			name:        "json_trailing_object",
			filename:    "config.json",
			config:      `{"timeout": "5s"} {"timeout": "1s"}`,
			errContains: "unexpected data after the config object",
		},
		{
			name:        "negative_max_backoff",
			filename:    "config.yaml",
			config:      "retry:\n  max_backoff: -1s\n",
			errContains: "retry.max_backoff must not be negative",
		},
		{
			name:        "bad_timeout",
			filename:    "config.yaml",
			config:      "timeout: soon\n",
			errContains: "timeout",
		},
		{
			name:        "negative_retries",
			filename:    "config.yaml",
			config:      "retry:\n  max_retries: -1\n",
			errContains: "max_retries",
		},
		{
			name:        "bad_log_level",
			filename:    "config.yaml",
			config:      "log_level: loud\n",
			errContains: "log_level",
		},
		{
			name:        "relative_github_url",
			filename:    "config.yaml",
			config:      "github:\n  base_url: /api\n",
			errContains: "github.base_url",
		},
		{
			name:        "freshdesk_format_without_placeholder",
			filename:    "config.yaml",
			config:      "freshdesk:\n  base_url_format: https://example.com\n",
			errContains: "base_url_format",
		},
		{
			name:        "unsupported_extension",
			filename:    "config.toml",
			config:      "timeout = \"1s\"",
			errContains: "no parser found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.filename, tt.config)

			cfg, err := Load(testContext(), path)
			if tt.errContains != "" {
				require.Error(t, err, "Load should fail")
				assert.Contains(t, err.Error(), tt.errContains, "error should mention the problem")
				return
			}
			require.NoError(t, err, "Load should succeed")
			assert.Equal(t, path, cfg.Location(), "location should be recorded")
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestHCLParserEnv(t *testing.T) {
	p := &HCLParser{Environ: func() []string {
		return []string{"GH_TOKEN=from-env", "BROKEN"}
	}}

	cfg, err := p.Parse(testContext(), []byte(`properties = { GITHUB_TOKEN = env.GH_TOKEN }`))
	require.NoError(t, err, "Parse should succeed")
	assert.Equal(t, "from-env", cfg.Properties["GITHUB_TOKEN"], "env value should be interpolated")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultTimeout, cfg.TimeoutDuration(), "timeout should default")
	assert.Equal(t, retry.Default(), cfg.RetryPolicy(), "retry policy should default")
	assert.Empty(t, cfg.Location(), "defaults have no location")
}

func TestPropertySource(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, "tokens.env", "FROM_FILE=file\nSHARED=file\n")

	cfg := Default()
	cfg.Properties = map[string]string{
		"FROM_CONFIG": "config",
		"SHARED":      "config",
		"ONLY_CONFIG": "",
	}

	t.Setenv("DT_TEST_FROM_ENV", "env")
	t.Setenv("SHARED", "env")

	src, err := cfg.PropertySource(testContext(), envFile)
	require.NoError(t, err, "building the property source should succeed")

	tests := []struct {
		name   string
		key    string
		want   string
		wantOK bool
	}{
		{name: "env_wins", key: "SHARED", want: "env", wantOK: true},
		{name: "env_only", key: "DT_TEST_FROM_ENV", want: "env", wantOK: true},
		{name: "env_file", key: "FROM_FILE", want: "file", wantOK: true},
		{name: "config_properties", key: "FROM_CONFIG", want: "config", wantOK: true},
		{name: "empty_is_present", key: "ONLY_CONFIG", want: "", wantOK: true},
		{name: "absent", key: "DT_TEST_NOT_SET_ANYWHERE", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := src.Lookup(tt.key)
			assert.Equal(t, tt.wantOK, ok, "presence should match")
			assert.Equal(t, tt.want, got, "value should match")
		})
	}

	assert.Equal(t, "environment variable or variable in tokens.env or property in config file", src.Describe(), "description should list every source")
}

func TestPropertySourceConfiguredEnvFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "local.env", "DT_TEST_RELATIVE=yes\n")
	path := writeFile(t, dir, "config.yaml", "env_file: local.env\n")

	cfg, err := Load(testContext(), path)
	require.NoError(t, err, "Load should succeed")

	src, err := cfg.PropertySource(testContext(), "")
	require.NoError(t, err, "env file should resolve next to the config file")

	got, ok := src.Lookup("DT_TEST_RELATIVE")
	assert.True(t, ok, "property should be found")
	assert.Equal(t, "yes", got, "value should match")
}

func TestPropertySourceMissingEnvFile(t *testing.T) {
	_, err := Default().PropertySource(testContext(), filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err, "missing env file should fail")
	assert.Contains(t, err.Error(), "reading env file", "error should name the env file")
}

func TestDiscover(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  string
	}{
		{name: "none", files: []string{"other.yaml"}, want: ""},
		{name: "yaml_only", files: []string{".datatransfer.yaml"}, want: ".datatransfer.yaml"},
		{name: "json_only", files: []string{".datatransfer.json"}, want: ".datatransfer.json"},
		{name: "hcl_preferred", files: []string{".datatransfer.json", ".datatransfer.hcl", ".datatransfer.yml"}, want: ".datatransfer.hcl"},
		{name: "yaml_over_json", files: []string{".datatransfer.json", ".datatransfer.yml"}, want: ".datatransfer.yml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range tt.files {
				writeFile(t, dir, f, "")
			}

			got, err := Discover(dir)
			require.NoError(t, err, "Discover should succeed")
			if tt.want == "" {
				assert.Empty(t, got, "nothing should be discovered")
				return
			}
			assert.Equal(t, filepath.Join(dir, tt.want), got, "discovered file should match")
		})
	}
}

func TestLoadOrDiscover(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadOrDiscover(testContext(), "", dir)
	require.NoError(t, err, "empty dir should give defaults")
	assert.Empty(t, cfg.Location(), "defaults have no location")

	path := writeFile(t, dir, ".datatransfer.yaml", "timeout: 2s\n")
	cfg, err = LoadOrDiscover(testContext(), "", dir)
	require.NoError(t, err, "discovered config should load")
	assert.Equal(t, path, cfg.Location(), "discovered config should be used")
	assert.Equal(t, 2*time.Second, cfg.TimeoutDuration(), "timeout should come from the file")
}
