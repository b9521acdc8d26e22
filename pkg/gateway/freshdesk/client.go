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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/go-querystring/query"
	"github.com/rs/zerolog"
	"github.com/walteh/datatransfer/pkg/gateway"
	"github.com/walteh/datatransfer/pkg/retry"
	"gitlab.com/tozd/go/errors"
)

const (
	contactsPath     = "/api/v2/contacts"
	autocompletePath = contactsPath + "/autocomplete"

	noErrorInfo = "No info about the error from Freshdesk"
)

type contact struct {
	ID   *int64 `json:"id"`
	Name string `json:"name"`
}

type contactRequest struct {
	Name             string `json:"name,omitempty"`
	Email            string `json:"email,omitempty"`
	Address          string `json:"address,omitempty"`
	TwitterID        string `json:"twitter_id,omitempty"`
	UniqueExternalID string `json:"unique_external_id,omitempty"`
	Description      string `json:"description,omitempty"`
}

type searchQuery struct {
	Term string `url:"term"`
}

type errorResponse struct {
	Description string `json:"description"`
	Errors      []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"errors"`
}

// client talks to one Freshdesk domain with one token.
type client struct {
	base   *url.URL
	token  string
	http   *http.Client
	policy retry.Policy
}

// searchByName returns the contacts whose name equals name exactly. The
// autocomplete endpoint also returns prefix matches.
func (c *client) searchByName(ctx context.Context, name string) ([]contact, error) {
	logger := zerolog.Ctx(ctx)

	q, err := query.Values(searchQuery{Term: name})
	if err != nil {
		return nil, errors.Errorf("encoding search query: %w", err)
	}

	logger.Info().Msgf("Searching for Freshdesk contacts by search term '%s'...", name)

	var found []contact
	if err := c.do(ctx, http.MethodGet, autocompletePath, q, nil, &found); err != nil {
		logger.Error().Err(err).Msgf("Searching for Freshdesk contacts by search term '%s' failed", name)
		return nil, err
	}

	matches := make([]contact, 0, len(found))
	for _, ct := range found {
		if ct.Name == name {
			matches = append(matches, ct)
		}
	}

	if len(matches) == 0 {
		logger.Info().Msgf("Found no Freshdesk contacts matching name '%s'", name)
	} else {
		logger.Info().Int("count", len(matches)).Msgf("Found Freshdesk contact(s) matching name '%s'", name)
	}

	return matches, nil
}

func (c *client) create(ctx context.Context, body *contactRequest) error {
	logger := zerolog.Ctx(ctx)
	logger.Info().Msgf("Creating Freshdesk contact with name '%s'...", body.Name)

	if err := c.do(ctx, http.MethodPost, contactsPath, nil, body, nil); err != nil {
		logger.Error().Err(err).Msgf("Creating Freshdesk contact with name '%s' failed", body.Name)
		return err
	}

	logger.Info().Msgf("Successfully created Freshdesk contact with name '%s'", body.Name)
	return nil
}

func (c *client) update(ctx context.Context, id int64, body *contactRequest) error {
	logger := zerolog.Ctx(ctx).With().Int64("contact_id", id).Logger()
	logger.Info().Msgf("Updating existing Freshdesk contact with name '%s' and id '%d'...", body.Name, id)

	path := contactsPath + "/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, http.MethodPut, path, nil, body, nil); err != nil {
		logger.Error().Err(err).Msgf("Updating Freshdesk contact with name '%s' and id '%d' failed", body.Name, id)
		return err
	}

	logger.Info().Msgf("Successfully updated Freshdesk contact with name '%s' and id '%d'", body.Name, id)
	return nil
}

// do sends one request under the retry policy and decodes a 2xx body into out.
func (c *client) do(ctx context.Context, method, path string, q url.Values, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return errors.Errorf("encoding %s request body: %w", method, err)
		}
	}

	u := c.base.JoinPath(path)
	if q != nil {
		u.RawQuery = q.Encode()
	}

	return c.policy.Do(ctx, SystemName, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, method, u.String(), bodyReader(payload))
		if err != nil {
			return errors.Errorf("creating request: %w", err)
		}
		req.Header.Set("Authorization", c.token)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return errors.Errorf("%s %s: %w", method, path, err)
		}
		defer resp.Body.Close()

		if err := gateway.CheckResponse(SystemName, resp, errorMessage); err != nil {
			return err
		}

		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Errorf("decoding %s %s response: %w", method, path, err)
		}
		return nil
	})
}

func bodyReader(payload []byte) io.Reader {
	if payload == nil {
		return nil
	}
	return bytes.NewReader(payload)
}

// errorMessage renders a Freshdesk error body for humans.
func errorMessage(_ int, body []byte) string {
	if len(bytes.TrimSpace(body)) == 0 {
		return noErrorInfo
	}

	var er errorResponse
	if err := json.Unmarshal(body, &er); err != nil {
		return noErrorInfo
	}

	var sb strings.Builder
	sb.WriteString(er.Description)

	if len(er.Errors) > 0 {
		sb.WriteString("; more info about the failure:")
		for _, e := range er.Errors {
			sb.WriteByte('\n')
			if e.Field != "" {
				fmt.Fprintf(&sb, "The request field that triggered this error: '%s'.", e.Field)
			}
			if e.Message != "" {
				fmt.Fprintf(&sb, " Detailed error message: '%s'.", e.Message)
			}
		}
	}

	if strings.TrimSpace(sb.String()) == "" {
		return noErrorInfo
	}
	return sb.String()
}
