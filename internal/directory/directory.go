// Copyright (c) 2026 John Earle
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

// Package directory fetches the full Genesys Cloud user directory and
// builds a lookup keyed by the local part of each user's email address.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// pageSize is fixed by the upstream contract; pagination walks ascending
// page numbers until an empty page.
const pageSize = 500

// Entry is one user record from the organization's directory.
type Entry struct {
	ID        string
	Email     string
	Title     string
	ManagerID string
}

// Error reports a failed directory listing. Pages fetched before the
// failure are discarded.
type Error struct {
	Page       int
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("directory listing failed on page %d: HTTP %d", e.Page, e.StatusCode)
	case e.Page != 0:
		return fmt.Sprintf("directory listing failed on page %d: %v", e.Page, e.Err)
	default:
		return fmt.Sprintf("directory listing failed: %v", e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Fetcher lists users from the /api/v2/users endpoint.
type Fetcher struct {
	httpClient *http.Client
	apiBaseURL string
}

// NewFetcher creates a directory fetcher. apiBaseURL is the API origin,
// e.g. https://api.{env}.
func NewFetcher(httpClient *http.Client, apiBaseURL string) *Fetcher {
	return &Fetcher{
		httpClient: httpClient,
		apiBaseURL: apiBaseURL,
	}
}

// usersResponse represents one page of the /users listing.
type usersResponse struct {
	Entities []struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Title   string `json:"title"`
		Manager struct {
			ID string `json:"id"`
		} `json:"manager"`
	} `json:"entities"`
}

// ListAll retrieves every directory entry, requesting pages of 500 in
// ascending order until a page comes back empty. Titles are normalised to
// upper case; a missing manager reference becomes "". Any HTTP or network
// failure on any page fails the whole listing.
func (f *Fetcher) ListAll(ctx context.Context) ([]Entry, error) {
	var entries []Entry

	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("pageSize", strconv.Itoa(pageSize))
		params.Set("pageNumber", strconv.Itoa(page))
		params.Set("sortOrder", "ASC")
		params.Set("state", "any")

		pageURL := fmt.Sprintf("%s/api/v2/users?%s", f.apiBaseURL, params.Encode())

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, &Error{Page: page, Err: fmt.Errorf("build users request: %w", err)}
		}
		req.Header.Set("Accept", "application/json")

		resp, err := f.httpClient.Do(req)
		if err != nil {
			return nil, &Error{Page: page, Err: fmt.Errorf("fetch users: %w", err)}
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			slog.Error("users listing error", "page", page, "status", resp.StatusCode, "body", string(body))
			return nil, &Error{Page: page, StatusCode: resp.StatusCode}
		}

		var pageData usersResponse
		err = json.NewDecoder(resp.Body).Decode(&pageData)
		resp.Body.Close()
		if err != nil {
			return nil, &Error{Page: page, Err: fmt.Errorf("decode users response: %w", err)}
		}

		if len(pageData.Entities) == 0 {
			break
		}

		for _, e := range pageData.Entities {
			entries = append(entries, Entry{
				ID:        e.ID,
				Email:     e.Email,
				Title:     strings.ToUpper(e.Title),
				ManagerID: e.Manager.ID,
			})
		}

		slog.Debug("directory page fetched", "page", page, "entries", len(pageData.Entities))
	}

	slog.Info("directory listing complete", "entries", len(entries))

	return entries, nil
}

// BuildIndex maps the lowercased local part of each entry's email to the
// entry. An email without "@" yields an empty key. Later entries overwrite
// earlier ones on collision; the source does not deduplicate accounts and
// neither do we.
func BuildIndex(entries []Entry) map[string]Entry {
	index := make(map[string]Entry, len(entries))
	for _, e := range entries {
		index[LoginKey(e.Email)] = e
	}
	return index
}

// LoginKey extracts the lookup key from an email address: the lowercased
// substring before "@", or "" when the address is missing or malformed.
func LoginKey(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found {
		return ""
	}
	return strings.ToLower(local)
}
