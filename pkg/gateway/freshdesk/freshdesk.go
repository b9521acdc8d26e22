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

package freshdesk

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/datatransfer/pkg/data"
	"github.com/walteh/datatransfer/pkg/failure"
	"github.com/walteh/datatransfer/pkg/gateway"
	"gitlab.com/tozd/go/errors"
)

const (
	SystemType           = "freshdesk"
	SystemName           = "Freshdesk"
	TokenProperty        = "FRESHDESK_TOKEN"
	DomainParam          = "domain"
	DefaultBaseURLFormat = "https://%s.freshdesk.com"
)

// A domain becomes the leftmost label of the API host. Anything else could
// move the request, and the token with it, to another host.
var domainPattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?$`)

// 🎫 UserUploader creates or updates a Freshdesk contact from a user record.
// Contacts are matched by exact name since that is the only attribute every
// contact is guaranteed to have.
type UserUploader struct {
	opts          gateway.Options
	baseURLFormat string
}

var (
	_ gateway.Uploader  = (*UserUploader)(nil)
	_ gateway.Describer = (*UserUploader)(nil)
)

// 🏭 NewUserUploader creates an uploader. baseURLFormat turns the domain
// parameter into the API base URL and must hold exactly one %s; empty means
// the public Freshdesk host.
func NewUserUploader(opts gateway.Options, baseURLFormat string) (*UserUploader, error) {
	if baseURLFormat == "" {
		baseURLFormat = DefaultBaseURLFormat
	}
	if strings.Count(baseURLFormat, "%s") != 1 {
		return nil, errors.Errorf("freshdesk base URL format %q must contain exactly one %%s", baseURLFormat)
	}
	return &UserUploader{opts: opts, baseURLFormat: baseURLFormat}, nil
}

func (u *UserUploader) SystemTypeMatches(systemType string) bool {
	return data.SystemTypeMatches(SystemType, systemType)
}

func (u *UserUploader) DataTypeMatches(dataType data.Type) bool {
	return dataType == data.TypeUser
}

func (u *UserUploader) Capability() gateway.Capability {
	return gateway.Capability{
		System:    SystemType,
		Name:      SystemName,
		DataType:  data.TypeUser,
		Direction: gateway.DirectionUpload,
	}
}

// 📤 Upload creates the contact when no contact has the record's name and
// updates it when exactly one does.
func (u *UserUploader) Upload(ctx context.Context, params data.Params, record data.Record) error {
	user, ok := record.(*data.User)
	if !ok || user == nil || strings.TrimSpace(user.Name) == "" {
		return failure.InvalidData("Can't create/update Freshdesk contact: missing name in data for upload.")
	}

	domain, err := params.Require(SystemName, DomainParam,
		"Not able to identify the Freshdesk domain towards which to make calls.")
	if err != nil {
		return err
	}
	if !domainPattern.MatchString(domain) {
		return invalidDomain(domain)
	}

	token, err := gateway.ResolveToken(u.opts.Properties, SystemName, TokenProperty,
		"your base64-encoded Freshdesk API token")
	if err != nil {
		return err
	}

	api, err := u.client(domain, token)
	if err != nil {
		return err
	}

	logger := zerolog.Ctx(ctx).With().Str("system", SystemName).Str("domain", domain).Logger()
	ctx = logger.WithContext(ctx)

	matches, err := api.searchByName(ctx, user.Name)
	if err != nil {
		return err
	}

	if len(matches) > 1 {
		return failure.AmbiguousData(SystemName, fmt.Sprintf(
			"Found more than one Freshdesk contact with name '%s'. Can't define which contact to update.", user.Name))
	}

	body := toContactRequest(user)

	if len(matches) == 1 {
		if matches[0].ID == nil {
			return failure.InvalidData("Freshdesk contact in search-by-name result has no ID. Can't update it.")
		}
		return api.update(ctx, *matches[0].ID, body)
	}

	return api.create(ctx, body)
}

func (u *UserUploader) client(domain, token string) (*client, error) {
	raw := fmt.Sprintf(u.baseURLFormat, domain)
	base, err := url.Parse(raw)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, invalidDomain(domain)
	}

	return &client{
		base:   base,
		token:  token,
		http:   u.opts.HTTPClient(SystemName),
		policy: u.opts.RetryPolicy(),
	}, nil
}

func invalidDomain(domain string) error {
	return failure.MissingParameter(DomainParam, SystemName,
		fmt.Sprintf("'%s' is not a valid Freshdesk domain.", domain))
}

func toContactRequest(u *data.User) *contactRequest {
	return &contactRequest{
		Name:             u.Name,
		Email:            u.Email,
		Address:          u.Address,
		TwitterID:        u.TwitterHandle,
		UniqueExternalID: u.ExternalID,
		Description:      u.Description,
	}
}
