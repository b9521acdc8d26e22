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
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/datatransfer/pkg/data"
	"github.com/walteh/datatransfer/pkg/failure"
	"github.com/walteh/datatransfer/pkg/gateway"
)

// stub serves one system and one data type in both directions.
type stub struct {
	system   string
	dataType data.Type
	label    string
}

func (s *stub) SystemTypeMatches(systemType string) bool {
	return data.SystemTypeMatches(s.system, systemType)
}

func (s *stub) DataTypeMatches(dataType data.Type) bool {
	return dataType == s.dataType
}

func (s *stub) Download(context.Context, data.Params) (data.Record, error) {
	return &data.User{Name: s.label}, nil
}

func (s *stub) Upload(context.Context, data.Params, data.Record) error {
	return nil
}

// described adds a capability to stub.
type described struct {
	stub
}

func (d *described) Capability() gateway.Capability {
	return gateway.Capability{System: d.system, Name: d.label, DataType: d.dataType}
}

func TestResolution(t *testing.T) {
	crmUser := &stub{system: "crm", dataType: data.TypeUser, label: "crm-user"}
	crmTicket := &stub{system: "crm", dataType: "ticket", label: "crm-ticket"}
	wikiTicket := &stub{system: "wiki", dataType: "ticket", label: "wiki-ticket"}

	r, err := New(
		[]gateway.Downloader{crmUser, crmTicket, wikiTicket},
		[]gateway.Uploader{wikiTicket},
	)
	require.NoError(t, err, "registry should build")

	tests := []struct {
		name         string
		system       string
		dataType     data.Type
		upload       bool
		want         string
		wantMsg      string
		wantDataType string
	}{
		{name: "exact", system: "crm", dataType: data.TypeUser, want: "crm-user"},
		{name: "second_data_type", system: "crm", dataType: "ticket", want: "crm-ticket"},
		{name: "case_insensitive_system", system: "CRM", dataType: data.TypeUser, want: "crm-user"},
		{
			name:     "unknown_system_ignores_data_type",
			system:   "jira",
			dataType: "nonsense",
			wantMsg:  "Unsupported external system type 'jira'",
		},
		{
			name:         "known_system_unknown_data_type",
			system:       "wiki",
			dataType:     data.TypeUser,
			wantMsg:      "Unsupported data type 'user' for external system 'wiki'",
			wantDataType: "user",
		},
		{
			name:     "system_without_uploader",
			system:   "crm",
			dataType: data.TypeUser,
			upload:   true,
			wantMsg:  "Unsupported external system type 'crm'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got gateway.TypeChecker
			var err error
			if tt.upload {
				got, err = r.Uploader(tt.system, tt.dataType)
			} else {
				got, err = r.Downloader(tt.system, tt.dataType)
			}

			if tt.wantMsg == "" {
				require.NoError(t, err, "resolution should succeed")
				assert.Equal(t, tt.want, got.(*stub).label, "resolved transferrer should match")
				return
			}

			fe, ok := failure.As(err)
			require.True(t, ok, "error should be a typed failure")
			assert.Equal(t, failure.KindUnsupportedOperation, fe.Kind, "kind should be unsupported operation")
			assert.Equal(t, tt.wantMsg, fe.Message, "message should match")
			assert.Equal(t, tt.system, fe.System, "system should be named")
			assert.Equal(t, tt.wantDataType, fe.DataType, "data type should only be named when the system is known")
		})
	}
}

func TestUnknownSystemNeverNamesDataType(t *testing.T) {
	r, err := New([]gateway.Downloader{&stub{system: "crm", dataType: data.TypeUser}}, nil)
	require.NoError(t, err, "registry should build")

	for _, system := range []string{"", " ", "github", "crm2", "c r m", "💥"} {
		for _, dt := range []data.Type{"", data.TypeUser, "ticket"} {
			_, err := r.Downloader(system, dt)
			fe, ok := failure.As(err)
			require.True(t, ok, "error should be typed for %q/%q", system, dt)
			assert.Empty(t, fe.DataType, "data type must not be named for %q/%q", system, dt)
			assert.NotContains(t, fe.Message, "data type", "message must only name the system")
		}
	}
}

func TestNewRejectsDuplicates(t *testing.T) {
	a := &described{stub{system: "crm", dataType: data.TypeUser, label: "a"}}
	b := &described{stub{system: "crm", dataType: data.TypeUser, label: "b"}}

	tests := []struct {
		name        string
		downloaders []gateway.Downloader
		uploaders   []gateway.Uploader
		wantErr     string
	}{
		{
			name:        "duplicate_downloaders",
			downloaders: []gateway.Downloader{a, b},
			wantErr:     "duplicate download capability",
		},
		{
			name:      "duplicate_uploaders",
			uploaders: []gateway.Uploader{a, b},
			wantErr:   "duplicate upload capability",
		},
		{
			name:        "same_capability_both_directions",
			downloaders: []gateway.Downloader{a},
			uploaders:   []gateway.Uploader{b},
		},
		{
			name:        "undescribed_are_not_checked",
			downloaders: []gateway.Downloader{&stub{system: "crm"}, &stub{system: "crm"}},
		},
		{
			name:        "nil_transferrer",
			downloaders: []gateway.Downloader{nil},
			wantErr:     "nil download registered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.downloaders, tt.uploaders)
			if tt.wantErr == "" {
				assert.NoError(t, err, "registry should build")
				return
			}
			require.Error(t, err, "registry should be rejected")
			assert.Contains(t, err.Error(), tt.wantErr, "error should explain the rejection")
		})
	}
}

func TestDefault(t *testing.T) {
	r, err := Default(gateway.DefaultOptions(), Endpoints{})
	require.NoError(t, err, "default registry should build")

	_, err = r.Downloader("GitHub", data.TypeUser)
	assert.NoError(t, err, "github user downloader should be registered")

	_, err = r.Uploader("freshdesk", data.TypeUser)
	assert.NoError(t, err, "freshdesk user uploader should be registered")

	_, err = r.Uploader("github", data.TypeUser)
	assert.True(t, failure.Is(err, failure.KindUnsupportedOperation), "github cannot be uploaded to")

	caps := r.Capabilities()
	require.Len(t, caps, 2, "two capabilities should be listed")
	assert.Equal(t, "freshdesk", caps[0].System, "capabilities should be sorted by system")
	assert.Equal(t, gateway.DirectionUpload, caps[0].Direction, "freshdesk is an upload")
	assert.Equal(t, "github", caps[1].System, "capabilities should be sorted by system")
	assert.Equal(t, gateway.DirectionDownload, caps[1].Direction, "github is a download")
}

func TestDefaultRejectsBadEndpoints(t *testing.T) {
	_, err := Default(gateway.DefaultOptions(), Endpoints{FreshdeskBaseURLFormat: "https://example.com"})
	assert.Error(t, err, "freshdesk format without placeholder should fail")
}
