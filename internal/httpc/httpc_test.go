package httpc

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHttpc_BaseURLAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3/tags" {
			t.Errorf("expected /v3/tags, got %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "k-1" {
			t.Errorf("expected api key header, got %q", r.Header.Get("x-api-key"))
		}
		w.WriteHeader(200)
	}))
	defer srv.Close()

	h := Httpc{BaseURL: srv.URL + "/v3", Headers: map[string]string{"x-api-key": "k-1"}}
	resp, err := h.New().R().Get("/tags")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode() != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode())
	}
}

func TestHttpc_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(200)
	}))
	defer srv.Close()

	h := Httpc{Timeout: 50 * time.Millisecond}
	if _, err := h.New().R().Get(srv.URL); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestHttpc_TLS_Insecure_AllowsSelfSigned(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	}))
	defer srv.Close()

	if _, err := (&Httpc{}).New().R().Get(srv.URL); err == nil {
		t.Fatal("expected TLS verification error without insecure config")
	}

	cfg := &tls.Config{InsecureSkipVerify: true} // #nosec G402 -- test server
	h := Httpc{TlsConfig: cfg}
	resp, err := h.New().R().Get(srv.URL)
	if err != nil || resp.StatusCode() != 200 {
		t.Fatalf("expected 200 with insecure TLS, got resp=%v err=%v", resp, err)
	}
	if cfg.MinVersion != tls.VersionTLS12 {
		t.Fatalf("expected MinVersion defaulted to TLS1.2, got %x", cfg.MinVersion)
	}
}
