package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newTestClient creates a Client backed by the given httptest server.
// Uses token auth for simplicity.
func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(Config{
		BaseURL:    server.URL,
		Token:      "test-token",
		HTTPClient: server.Client(),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestNewClient_HTTPSEnforcement(t *testing.T) {
	_, err := NewClient(Config{
		BaseURL: "http://api.github.com",
		Token:   "test",
	})
	if err == nil {
		t.Fatal("expected error for HTTP URL")
	}
}

func TestNewClient_AuthValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"no auth", Config{}},
		{"both auth modes", Config{Token: "t", AppID: 1, PrivateKey: []byte("x"), InstallationID: 2}},
		{"app auth missing key", Config{AppID: 1, InstallationID: 2}},
		{"app auth missing installation", Config{AppID: 1, PrivateKey: []byte("x")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewClient(tt.cfg); err == nil {
				t.Errorf("NewClient(%s): expected error", tt.name)
			}
		})
	}
}

func TestClient_SendsAuthAndGitHubHeaders(t *testing.T) {
	var receivedAuth, receivedAccept, receivedVersion string
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedAuth = r.Header.Get("Authorization")
		receivedAccept = r.Header.Get("Accept")
		receivedVersion = r.Header.Get("X-GitHub-Api-Version")
		json.NewEncoder(w).Encode(Ref{})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	if _, err := client.GetRef(context.Background(), "owner", "repo", "heads/main"); err != nil {
		t.Fatalf("GetRef: %v", err)
	}

	if receivedAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want %q", receivedAuth, "Bearer test-token")
	}
	if receivedAccept != "application/vnd.github+json" {
		t.Errorf("Accept = %q, want %q", receivedAccept, "application/vnd.github+json")
	}
	if receivedVersion != apiVersion {
		t.Errorf("X-GitHub-Api-Version = %q, want %q", receivedVersion, apiVersion)
	}
}

func TestClient_APIErrorParsing(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not Found","documentation_url":"https://docs.github.com"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.GetRef(context.Background(), "owner", "repo", "heads/main")
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound(%v) = false, want true", err)
	}
	if IsConflict(err) || IsRateLimited(err) || IsValidationFailed(err) {
		t.Errorf("404 matched the wrong predicate: %v", err)
	}
}

func TestClient_ValidationErrorDetails(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Validation Failed","errors":[{"resource":"Issue","field":"title","code":"missing_field"}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.CreateIssue(context.Background(), "owner", "repo", CreateIssueRequest{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsValidationFailed(err) {
		t.Errorf("IsValidationFailed(%v) = false, want true", err)
	}
}

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"429", &APIError{StatusCode: 429, Message: "slow down"}, true},
		{"403 rate limit", &APIError{StatusCode: 403, Message: "API rate limit exceeded"}, true},
		{"403 permission", &APIError{StatusCode: 403, Message: "Resource not accessible"}, false},
		{"500", &APIError{StatusCode: 500, Message: "boom"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRateLimited(tt.err); got != tt.want {
				t.Errorf("IsRateLimited = %v, want %v", got, tt.want)
			}
		})
	}
}
