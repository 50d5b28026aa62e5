package github

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestNewClient(t *testing.T) {
	ctx := context.Background()

	client, err := NewClient(ctx, "test-token")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client.API == nil {
		t.Error("Expected API client to be initialized with explicit token")
	}

	// No token still initializes the client; requests just go unauthenticated.
	client, err = NewClient(ctx, "")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client.API == nil {
		t.Error("Expected API client to be initialized even without token")
	}
}

func TestNewClient_NilContextReturnsError(t *testing.T) {
	var nilCtx context.Context
	_, err := NewClient(nilCtx, "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "ctx is nil") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewClient_WithVerbose_LogsAndAuthHeader(t *testing.T) {
	ctx := context.Background()

	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{}"))
	}))
	t.Cleanup(server.Close)

	parse := func(raw string) *url.URL {
		u, err := url.Parse(raw)
		if err != nil {
			t.Fatalf("parse url: %v", err)
		}
		return u
	}

	// Unauthenticated client should still log when verbose.
	{
		var buf bytes.Buffer
		c, err := NewClient(ctx, "", WithVerbose(true, &buf))
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
		c.API.BaseURL = parse(server.URL + "/")
		c.API.UploadURL = parse(server.URL + "/")

		req, err := c.API.NewRequest("GET", "/rate_limit", nil)
		if err != nil {
			t.Fatalf("NewRequest: %v", err)
		}
		_, err = c.API.Do(ctx, req, nil)
		if err != nil {
			t.Fatalf("Do: %v", err)
		}
		if !strings.Contains(buf.String(), "[verbose] github: GET") {
			t.Fatalf("expected verbose log, got: %q", buf.String())
		}
		if gotAuth != "" {
			t.Fatalf("expected no Authorization header, got %q", gotAuth)
		}
	}

	// Authenticated client should send the Authorization header.
	{
		gotAuth = ""
		var buf bytes.Buffer
		c, err := NewClient(ctx, "test-token", WithVerbose(true, &buf))
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
		c.API.BaseURL = parse(server.URL + "/")
		c.API.UploadURL = parse(server.URL + "/")

		req, err := c.API.NewRequest("GET", "/rate_limit", nil)
		if err != nil {
			t.Fatalf("NewRequest: %v", err)
		}
		_, err = c.API.Do(ctx, req, nil)
		if err != nil {
			t.Fatalf("Do: %v", err)
		}
		if !strings.Contains(buf.String(), "[verbose] github: GET") {
			t.Fatalf("expected verbose log, got: %q", buf.String())
		}
		if !strings.Contains(gotAuth, "test-token") {
			t.Fatalf("expected Authorization header to contain token, got %q", gotAuth)
		}
	}
}

func TestGetRepoPage(t *testing.T) {
	ctx := context.Background()

	var gotAuth, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_, _ = w.Write([]byte("<html>contributors</html>"))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(ctx, "secret-token", WithPageBase(server.URL))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	body, resp, err := c.GetRepoPage(ctx, "acme", "widget")
	if err != nil {
		t.Fatalf("GetRepoPage failed: %v", err)
	}
	if resp == nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if gotPath != "/acme/widget" {
		t.Fatalf("unexpected page path %q", gotPath)
	}
	if !strings.Contains(body, "contributors") {
		t.Fatalf("unexpected body %q", body)
	}

	// The page client reads public pages and must never carry the API token.
	if gotAuth != "" {
		t.Fatalf("page request leaked an Authorization header: %q", gotAuth)
	}
}

func TestGetRepoPage_NonOKStatusIsError(t *testing.T) {
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(ctx, "", WithPageBase(server.URL))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	_, resp, err := c.GetRepoPage(ctx, "acme", "gone")
	if err == nil {
		t.Fatalf("expected error for 404 page")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected the 404 response alongside the error, got %+v", resp)
	}
}

func TestGetRepoPage_RequiresOwnerAndName(t *testing.T) {
	c, err := NewClient(context.Background(), "")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if _, _, err := c.GetRepoPage(context.Background(), "", "widget"); err == nil {
		t.Fatalf("expected error for empty owner")
	}
	if _, _, err := c.GetRepoPage(context.Background(), "acme", ""); err == nil {
		t.Fatalf("expected error for empty name")
	}
}
