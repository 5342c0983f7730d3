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

package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

// usersPage builds a fake /users page with n entries, IDs offset so pages
// don't collide.
func usersPage(n, offset int) map[string]interface{} {
	entities := make([]map[string]interface{}, 0, n)
	for i := 0; i < n; i++ {
		id := offset + i
		entities = append(entities, map[string]interface{}{
			"id":    fmt.Sprintf("user-%d", id),
			"email": fmt.Sprintf("user.%d@example.com", id),
			"title": "agent",
			"manager": map[string]string{
				"id": "mgr-1",
			},
		})
	}
	return map[string]interface{}{"entities": entities}
}

// TestListAll_PaginationTerminates verifies that page sizes [500,500,37,0]
// yield exactly 1037 entries from exactly 4 requests.
func TestListAll_PaginationTerminates(t *testing.T) {
	pageSizes := []int{500, 500, 37, 0}
	requests := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, err := strconv.Atoi(r.URL.Query().Get("pageNumber"))
		if err != nil || page < 1 || page > len(pageSizes) {
			t.Errorf("unexpected pageNumber %q", r.URL.Query().Get("pageNumber"))
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		requests++

		if got := r.URL.Query().Get("pageSize"); got != "500" {
			t.Errorf("pageSize = %q, want 500", got)
		}
		if got := r.URL.Query().Get("sortOrder"); got != "ASC" {
			t.Errorf("sortOrder = %q, want ASC", got)
		}
		if got := r.URL.Query().Get("state"); got != "any" {
			t.Errorf("state = %q, want any", got)
		}

		w.Header().Set("Content-Type", "application/json")
		data, _ := json.Marshal(usersPage(pageSizes[page-1], (page-1)*500))
		w.Write(data)
	}))
	defer server.Close()

	f := NewFetcher(server.Client(), server.URL)

	entries, err := f.ListAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != 1037 {
		t.Errorf("expected 1037 entries, got %d", len(entries))
	}

	if requests != 4 {
		t.Errorf("expected 4 requests, got %d", requests)
	}
}

// TestListAll_NormalisesEntries verifies title upper-casing and the empty
// manager default.
func TestListAll_NormalisesEntries(t *testing.T) {
	page := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if page > 0 {
			w.Write([]byte(`{"entities": []}`))
			return
		}
		page++
		w.Write([]byte(`{"entities": [
			{"id": "u1", "email": "a@x.com", "title": "Supervisor", "manager": {"id": "m1"}},
			{"id": "u2", "email": "b@x.com", "title": "agent"}
		]}`))
	}))
	defer server.Close()

	f := NewFetcher(server.Client(), server.URL)

	entries, err := f.ListAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	if entries[0].Title != "SUPERVISOR" {
		t.Errorf("title = %q, want SUPERVISOR", entries[0].Title)
	}
	if entries[0].ManagerID != "m1" {
		t.Errorf("manager = %q, want m1", entries[0].ManagerID)
	}
	if entries[1].ManagerID != "" {
		t.Errorf("missing manager should default to empty, got %q", entries[1].ManagerID)
	}
}

// TestListAll_HTTPError verifies that a failure on any page discards all
// partial results.
func TestListAll_HTTPError(t *testing.T) {
	page := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if page == 0 {
			page++
			w.Header().Set("Content-Type", "application/json")
			data, _ := json.Marshal(usersPage(10, 0))
			w.Write(data)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	f := NewFetcher(server.Client(), server.URL)

	entries, err := f.ListAll(context.Background())
	if err == nil {
		t.Fatal("expected error for HTTP 500 on page 2, got nil")
	}
	if entries != nil {
		t.Errorf("partial pages must be discarded, got %d entries", len(entries))
	}

	var dirErr *Error
	if !errors.As(err, &dirErr) {
		t.Fatalf("expected *directory.Error, got %T", err)
	}
	if dirErr.Page != 2 || dirErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("error = page %d status %d, want page 2 status 500", dirErr.Page, dirErr.StatusCode)
	}
}

// TestBuildIndex_LastWriteWins verifies case-insensitive keys and the
// last-write-wins collision behavior.
func TestBuildIndex_LastWriteWins(t *testing.T) {
	index := BuildIndex([]Entry{
		{ID: "first", Email: "A.B@x.com"},
		{ID: "second", Email: "a.b@y.com"},
	})

	if len(index) != 1 {
		t.Fatalf("expected a single key, got %d", len(index))
	}

	entry, ok := index["a.b"]
	if !ok {
		t.Fatal("expected key \"a.b\" in index")
	}
	if entry.ID != "second" {
		t.Errorf("collision winner = %q, want second (last write wins)", entry.ID)
	}
}

// TestLoginKey verifies local-part extraction and the malformed-email case.
func TestLoginKey(t *testing.T) {
	cases := []struct {
		email string
		want  string
	}{
		{"John.Doe@example.com", "john.doe"},
		{"jane@x@y", "jane"},
		{"no-at-sign", ""},
		{"", ""},
		{"@example.com", ""},
	}

	for _, c := range cases {
		if got := LoginKey(c.email); got != c.want {
			t.Errorf("LoginKey(%q) = %q, want %q", c.email, got, c.want)
		}
	}
}
