package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestPostJSONRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content type = %q", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing request id")
		}
		var req StartRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(StartResponse{Status: "ok", ExpiresAt: "2026-09-01T13:00:00Z"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	var resp StartResponse
	if err := c.PostJSON(context.Background(), "/start", StartRequest{TgID: 1}, &resp); err != nil {
		t.Fatalf("post: %v", err)
	}
	if resp.Status != "ok" {
		t.Fatalf("status = %q", resp.Status)
	}
}

func TestNon2xxBecomesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invite not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	err := c.GetJSON(context.Background(), "/api/invites", url.Values{}, &struct{}{})
	if err == nil {
		t.Fatal("expected error for 404")
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if apiErr.Status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", apiErr.Status)
	}
	if apiErr.Body != "invite not found" {
		t.Fatalf("body = %q", apiErr.Body)
	}
	if apiErr.Error() != "HTTP 404 - invite not found" {
		t.Fatalf("message = %q", apiErr.Error())
	}
}

func TestGetTextReturnsRawBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/screens/home.html" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("<div>home</div>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	body, err := c.GetText(context.Background(), "/screens/home.html")
	if err != nil {
		t.Fatalf("get text: %v", err)
	}
	if body != "<div>home</div>" {
		t.Fatalf("body = %q", body)
	}

	if _, err := c.GetText(context.Background(), "/screens/missing.html"); err == nil {
		t.Fatal("expected 404 error")
	}
}
