package practicum

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := New(Config{Endpoint: url, Token: "secret", Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestFetchSendsAuthAndTimestamp(t *testing.T) {
	var gotAuth, gotFrom string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotFrom = r.URL.Query().Get("from_date")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"homeworks": [], "current_date": 1700000600}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	raw, err := c.Fetch(context.Background(), 1700000000)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotAuth != "OAuth secret" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotFrom != "1700000000" {
		t.Fatalf("from_date = %q", gotFrom)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		t.Fatalf("raw = %T, want map", raw)
	}
	if _, ok := obj["homeworks"]; !ok {
		t.Fatal("payload not returned verbatim")
	}
}

func TestFetchZeroSinceUsesNow(t *testing.T) {
	var gotFrom string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFrom = r.URL.Query().Get("from_date")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	c.now = func() time.Time { return time.Unix(1234, 0) }
	if _, err := c.Fetch(context.Background(), 0); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotFrom != "1234" {
		t.Fatalf("from_date = %q, want 1234", gotFrom)
	}
}

func TestFetchUpstreamStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code": "not_authenticated"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Fetch(context.Background(), 1)
	var se *UpstreamStatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *UpstreamStatusError", err)
	}
	if se.StatusCode != http.StatusUnauthorized {
		t.Fatalf("StatusCode = %d", se.StatusCode)
	}
}

func TestFetchDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Fetch(context.Background(), 1)
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("err = %v, want *DecodeError", err)
	}
}

func TestFetchTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestClient(t, url).Fetch(context.Background(), 1)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
	if te.Unwrap() == nil {
		t.Fatal("TransportError must carry the cause")
	}
}

func TestNewRejectsEmptyToken(t *testing.T) {
	if _, err := New(Config{Token: "  "}); err == nil {
		t.Fatal("expected error for empty token")
	}
}
