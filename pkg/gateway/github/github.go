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

package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/walteh/datatransfer/pkg/data"
	"github.com/walteh/datatransfer/pkg/failure"
	"github.com/walteh/datatransfer/pkg/gateway"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/oauth2"
)

const (
	SystemType     = "github"
	SystemName     = "GitHub"
	TokenProperty  = "GITHUB_TOKEN"
	UsernameParam  = "username"
	DefaultBaseURL = "https://api.github.com/"

	acceptHeader = "application/vnd.github+json"
)

// go-github puts the username into the request path unescaped, so anything
// outside the login charset could address a different resource.
var loginPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]{0,38}$`)

// 🐙 UserDownloader reads a GitHub user profile into a generic user record
type UserDownloader struct {
	opts    gateway.Options
	baseURL *url.URL
}

var (
	_ gateway.Downloader = (*UserDownloader)(nil)
	_ gateway.Describer  = (*UserDownloader)(nil)
)

// 🏭 NewUserDownloader creates a downloader talking to baseURL, or to the
// public GitHub API when baseURL is empty.
func NewUserDownloader(opts gateway.Options, baseURL string) (*UserDownloader, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Errorf("parsing GitHub base URL: %w", err)
	}

	return &UserDownloader{opts: opts, baseURL: u}, nil
}

func (d *UserDownloader) SystemTypeMatches(systemType string) bool {
	return data.SystemTypeMatches(SystemType, systemType)
}

func (d *UserDownloader) DataTypeMatches(dataType data.Type) bool {
	return dataType == data.TypeUser
}

func (d *UserDownloader) Capability() gateway.Capability {
	return gateway.Capability{
		System:    SystemType,
		Name:      SystemName,
		DataType:  data.TypeUser,
		Direction: gateway.DirectionDownload,
	}
}

// 📥 Download fetches the user named by the username parameter
func (d *UserDownloader) Download(ctx context.Context, params data.Params) (data.Record, error) {
	username, err := params.Require(SystemName, UsernameParam,
		"Not able to identify the GitHub user for which to download data.")
	if err != nil {
		return nil, err
	}
	if !loginPattern.MatchString(username) {
		return nil, failure.MissingParameter(UsernameParam, SystemName,
			fmt.Sprintf("'%s' is not a valid GitHub username.", username))
	}

	token, err := gateway.ResolveToken(d.opts.Properties, SystemName, TokenProperty, "your GitHub API token")
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx).With().Str("system", SystemName).Str("username", username).Logger()
	ctx = logger.WithContext(ctx)

	client := d.client(token)

	logger.Info().Msgf("Getting GitHub user with username '%s'", username)

	var user *github.User
	err = d.opts.RetryPolicy().Do(ctx, SystemName, func(ctx context.Context) error {
		u, resp, err := client.Users.Get(ctx, username)
		if err != nil {
			if resp != nil && resp.Response != nil {
				return classify(resp.StatusCode, username)
			}
			return errors.Errorf("getting GitHub user %s: %w", username, err)
		}
		user = u
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Msgf("Getting GitHub user with username '%s' failed", username)
		return nil, err
	}

	logger.Info().Msgf("Successfully obtained GitHub user with username '%s'", username)

	return toRecord(user), nil
}

func (d *UserDownloader) client(token string) *github.Client {
	base := d.opts.HTTPClient(SystemName).Transport
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   &acceptTransport{base: base},
		},
	}

	client := github.NewClient(httpClient)
	client.BaseURL = d.baseURL
	return client
}

func classify(statusCode int, username string) error {
	if statusCode == http.StatusNotFound {
		return failure.HTTPRequestFailed(SystemName, statusCode,
			fmt.Sprintf("GitHub user with username '%s' does not exist.", username))
	}
	return failure.HTTPRequestFailed(SystemName, statusCode,
		fmt.Sprintf("Unexpected failure when getting GitHub user with username '%s'", username))
}

func toRecord(u *github.User) *data.User {
	return &data.User{
		Name:          u.GetName(),
		Email:         u.GetEmail(),
		Address:       u.GetLocation(),
		ExternalID:    u.GetLogin(),
		Description:   u.GetBio(),
		TwitterHandle: u.GetTwitterUsername(),
	}
}

// acceptTransport pins the media type GitHub recommends for REST calls.
type acceptTransport struct {
	base http.RoundTripper
}

func (t *acceptTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Accept", acceptHeader)
	return t.base.RoundTrip(req)
}
