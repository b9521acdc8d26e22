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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/datatransfer/pkg/failure"
)

func TestParseParams(t *testing.T) {
	tests := []struct {
		name      string
		tokens    []string
		want      map[string]string
		wantParam string
	}{
		{
			name:   "no_tokens",
			tokens: nil,
			want:   map[string]string{},
		},
		{
			name:   "single_token",
			tokens: []string{"username=octocat"},
			want:   map[string]string{"username": "octocat"},
		},
		{
			name:   "multiple_tokens",
			tokens: []string{"domain=acme-support", "api_version=v2"},
			want:   map[string]string{"domain": "acme-support", "api_version": "v2"},
		},
		{
			name:   "value_with_dots",
			tokens: []string{"email=jsmith@bluesky.com"},
			want:   map[string]string{"email": "jsmith@bluesky.com"},
		},
		{
			name:      "missing_value",
			tokens:    []string{"username="},
			wantParam: "username=",
		},
		{
			name:      "missing_separator",
			tokens:    []string{"username"},
			wantParam: "username",
		},
		{
			name:      "extra_separator",
			tokens:    []string{"a=b=c"},
			wantParam: "a=b=c",
		},
		{
			name:      "duplicate_key",
			tokens:    []string{"username=a", "username=b"},
			wantParam: "username=b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := ParseParams(tt.tokens)
			if tt.wantParam != "" {
				require.Error(t, err, "ParseParams should fail")
				fe, ok := failure.As(err)
				require.True(t, ok, "error should be a typed failure")
				assert.Equal(t, failure.KindInvalidParameter, fe.Kind)
				assert.Equal(t, tt.wantParam, fe.Param)
				return
			}

			require.NoError(t, err, "ParseParams should succeed")
			assert.Equal(t, len(tt.want), params.Len())
			for k, v := range tt.want {
				got, ok := params.Get(k)
				assert.True(t, ok, "key %s should be present", k)
				assert.Equal(t, v, got, "value for %s should match", k)
			}
		})
	}
}

func TestParamsRequire(t *testing.T) {
	params := NewParams(map[string]string{"domain": "acme"})

	v, err := params.Require("Freshdesk", "domain", "needed")
	require.NoError(t, err)
	assert.Equal(t, "acme", v)

	_, err = params.Require("GitHub", "username", "needed")
	require.Error(t, err)
	fe, ok := failure.As(err)
	require.True(t, ok)
	assert.Equal(t, failure.KindMissingExternalSystemParameter, fe.Kind)
	assert.Equal(t, "username", fe.Param)
	assert.Equal(t, "GitHub", fe.System)
}

func TestNewParamsCopiesInput(t *testing.T) {
	src := map[string]string{"a": "1"}
	params := NewParams(src)
	src["a"] = "2"
	src["b"] = "3"

	v, _ := params.Get("a")
	assert.Equal(t, "1", v, "params should not see later changes to the source map")
	assert.Equal(t, []string{"a"}, params.Keys())
}

func TestParseType(t *testing.T) {
	for _, in := range []string{"user", "USER", " User "} {
		got, err := ParseType(in)
		require.NoError(t, err, "ParseType(%q)", in)
		assert.Equal(t, TypeUser, got)
	}

	_, err := ParseType("ticket")
	assert.Error(t, err)
}

func TestSystemTypeMatches(t *testing.T) {
	assert.True(t, SystemTypeMatches("github", "GitHub"))
	assert.True(t, SystemTypeMatches("github", " github "))
	assert.False(t, SystemTypeMatches("github", "gitlab"))
	assert.False(t, SystemTypeMatches("github", ""))
}
