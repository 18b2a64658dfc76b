package main

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

type recordingExit struct {
	code int
	err  error
}

func (r *recordingExit) Exit(code int) { r.code = code }

func (r *recordingExit) LogFatalError(err error, msg string, keyvals ...any) {
	r.err = err
	r.Exit(1)
}

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(args, "--log-level", "error", "--log-format", "text"))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSmoke_MissingConfigMentionsExample(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "smoke-config.json")
	out, err := executeRoot(t, "smoke", "--config", missing)
	if err == nil || !strings.Contains(err.Error(), "smoke-config.example.json") {
		t.Fatalf("expected error naming the example file, got %v", err)
	}
	if out != "" {
		t.Fatalf("no report expected, got %q", out)
	}
}

func TestRun_MissingAPIKey(t *testing.T) {
	t.Setenv("APISMOKE_API_KEY", "")
	_, err := executeRoot(t, "run", "--slug", "s")
	if err == nil || !strings.Contains(err.Error(), "--api-key") {
		t.Fatalf("expected api key error, got %v", err)
	}
}

func TestExitHandler_Replaceable(t *testing.T) {
	prev := exitHandler
	rec := &recordingExit{}
	exitHandler = rec
	defer func() { exitHandler = prev }()

	boom := errors.New("boom")
	exitHandler.LogFatalError(boom, "command failed")
	if rec.code != 1 || !errors.Is(rec.err, boom) {
		t.Fatalf("unexpected exit record %+v", rec)
	}
}

func TestSmoke_DefaultsToChatMode(t *testing.T) {
	var mu sync.Mutex
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.Method+" "+r.URL.Path)
		mu.Unlock()
		if r.URL.Path == "/conversation" {
			_, _ = io.WriteString(w, `{"conversation_id":"c1"}`)
			return
		}
		_, _ = io.WriteString(w, "data: hi\n\ndata: [DONE]\n\n")
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "smoke-config.json")
	cfg := `{"account":"Acme","api_key":"key-123456789","slug":"clone","mode":"full","user_email":"a@b.test","allow_write":false}`
	if err := os.WriteFile(path, []byte(cfg), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := executeRoot(t, "smoke", "--config", path, "--base-url", srv.URL)
	if err != nil {
		t.Fatalf("smoke: %v", err)
	}
	if !strings.Contains(out, `"mode": "chat"`) {
		t.Fatalf("expected a chat-mode report, got %s", out)
	}
	mu.Lock()
	defer mu.Unlock()
	for _, p := range paths {
		if strings.HasPrefix(p, "POST /users/lookup") || strings.HasPrefix(p, "GET /tags") {
			t.Fatalf("full-mode call %q made without --mode full", p)
		}
	}
}
