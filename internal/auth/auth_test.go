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

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gstvbatista/gc-get-user-time/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment:  "test.example",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		SSLVerify:    true,
	}
}

// TestAuthenticate_Success verifies the client-credentials grant is sent
// with a Basic-Auth header and a form-encoded grant_type.
func TestAuthenticate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Basic ") {
			t.Errorf("Authorization = %q, want Basic credentials", r.Header.Get("Authorization"))
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "client_credentials" {
			t.Errorf("grant_type = %q, want client_credentials", got)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token": "abc123", "token_type": "bearer", "expires_in": 3600}`)
	}))
	defer server.Close()

	c := NewClient(testConfig(), server.URL+"/oauth/token")

	token, err := c.Authenticate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "abc123" {
		t.Errorf("token = %q, want abc123", token)
	}
}

// TestAuthenticate_HTTPError verifies the upstream status and body surface
// on the typed error.
func TestAuthenticate_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": "invalid_client"}`)
	}))
	defer server.Close()

	c := NewClient(testConfig(), server.URL+"/oauth/token")

	_, err := c.Authenticate(context.Background())
	if err == nil {
		t.Fatal("expected error for HTTP 401, got nil")
	}

	var authErr *Error
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *auth.Error, got %T", err)
	}
	if authErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", authErr.StatusCode)
	}
	if !strings.Contains(authErr.Body, "invalid_client") {
		t.Errorf("body = %q, want upstream body", authErr.Body)
	}
}

// TestAuthenticate_NetworkError verifies transport failures still come back
// as *auth.Error without a status.
func TestAuthenticate_NetworkError(t *testing.T) {
	c := NewClient(testConfig(), "http://127.0.0.1:1/oauth/token")

	_, err := c.Authenticate(context.Background())
	if err == nil {
		t.Fatal("expected network error, got nil")
	}

	var authErr *Error
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *auth.Error, got %T", err)
	}
	if authErr.StatusCode != 0 {
		t.Errorf("status = %d, want 0 for a transport failure", authErr.StatusCode)
	}
}

// TestHTTPClient_InjectsBearer verifies the per-run client attaches the
// fixed token to every request.
func TestHTTPClient_InjectsBearer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer run-token" {
			t.Errorf("Authorization = %q, want Bearer run-token", got)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewClient(testConfig(), server.URL+"/oauth/token")

	client := c.HTTPClient(context.Background(), "run-token")
	resp, err := client.Get(server.URL + "/api/v2/users")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
}
