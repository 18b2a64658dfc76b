package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/loykin/apismoke/internal/common"
	"github.com/loykin/apismoke/pkg/config"
	"github.com/loykin/apismoke/pkg/smoke"
	"github.com/spf13/viper"
)

func chatServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v3/conversation":
			_, _ = w.Write([]byte(`{"conversation_id":"c-1"}`))
		case "/v3/stream":
			_, _ = w.Write([]byte("data: hi\n\ndata: [DONE]\n\n"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestCheckFormat(t *testing.T) {
	for _, f := range []string{"", "json", "YAML", "yml"} {
		if err := checkFormat(f); err != nil {
			t.Fatalf("format %q rejected: %v", f, err)
		}
	}
	if err := checkFormat("xml"); err == nil {
		t.Fatalf("expected xml to be rejected")
	}
}

func TestExecute_PrintsReport(t *testing.T) {
	srv := chatServer(t)
	defer srv.Close()

	var out bytes.Buffer
	opts := smoke.Options{APIKey: "k-123456789", Slug: "s", BaseURL: srv.URL + "/v3"}
	if err := execute(context.Background(), &out, opts, "json"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	var rep map[string]any
	if err := json.Unmarshal(out.Bytes(), &rep); err != nil {
		t.Fatalf("report is not JSON: %v\n%s", err, out.String())
	}
	summary, _ := rep["chat_summary"].(map[string]any)
	if summary["overall"] != "PASS" {
		t.Fatalf("expected PASS, got %v", rep["chat_summary"])
	}
}

func TestExecute_FailingRunStillSucceeds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	var out bytes.Buffer
	opts := smoke.Options{APIKey: "bad-key-1234", Slug: "s", BaseURL: srv.URL}
	if err := execute(context.Background(), &out, opts, "yaml"); err != nil {
		t.Fatalf("a failing verdict must not be an error: %v", err)
	}
	if !strings.Contains(out.String(), "overall: FAIL") {
		t.Fatalf("expected FAIL in yaml report:\n%s", out.String())
	}
}

func TestExecute_MissingInputBeforeNetwork(t *testing.T) {
	hit := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hit = true }))
	defer srv.Close()

	var out bytes.Buffer
	err := execute(context.Background(), &out, smoke.Options{Slug: "s", BaseURL: srv.URL}, "json")
	if !errors.Is(err, smoke.ErrMissingInput) || !strings.Contains(err.Error(), "--api-key") {
		t.Fatalf("expected missing api key error, got %v", err)
	}
	if err := execute(context.Background(), &out, smoke.Options{APIKey: "k", Slug: "s", BaseURL: srv.URL}, "xml"); err == nil {
		t.Fatalf("expected format error")
	}
	if hit || out.Len() != 0 {
		t.Fatalf("no request or output expected")
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := &config.SmokeConfig{
		Account: "A", APIKey: "k", Slug: "s", Mode: "full", Message: "m",
		UserEmail: "u@x", AllowWrite: true, TagName: "t", InfoText: "i",
	}
	full := optionsFromConfig(cfg, "")
	if full.Mode != "full" || !full.AllowWrite || full.TagName != "t" || full.UserEmail != "u@x" {
		t.Fatalf("unexpected full options %+v", full)
	}
	chat := optionsFromConfig(cfg, "chat")
	if chat.Mode != "chat" || chat.AllowWrite || chat.TagName != "" || chat.UserEmail != "" {
		t.Fatalf("chat override must drop full-mode settings: %+v", chat)
	}
}

func TestCommandLine_Masked(t *testing.T) {
	line := commandLine(smoke.Options{
		APIKey: "sk_live_secret", Slug: "s", Account: "My Account", Mode: "full",
		AllowWrite: true, TagName: "t", InfoText: "note",
	})
	if !strings.HasPrefix(line, "apismoke run --api-key sk_live_secret --slug s") {
		t.Fatalf("unexpected line %q", line)
	}
	if !strings.Contains(line, `--account "My Account"`) || !strings.Contains(line, "--allow-write --tag-name t --info-text note") {
		t.Fatalf("unexpected line %q", line)
	}
	masked := common.MaskSensitiveData(line)
	if strings.Contains(masked, "sk_live_secret") {
		t.Fatalf("key leaked: %q", masked)
	}
}

func TestPrepare(t *testing.T) {
	prev := common.GetLogger()
	defer common.SetDefaultLogger(prev)

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("APISMOKE_TEST_PREPARE=from-dotenv\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("APISMOKE_TEST_PREPARE") })

	v := viper.New()
	v.Set("env_file", envFile)
	v.Set("log_level", "debug")
	v.Set("log_format", "text")
	if err := Prepare(v); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if os.Getenv("APISMOKE_TEST_PREPARE") != "from-dotenv" {
		t.Fatalf("dotenv not loaded")
	}
	if common.GetLogger().Level() != common.LogLevelDebug {
		t.Fatalf("logger level not applied")
	}

	v.Set("env_file", filepath.Join(dir, "missing.env"))
	if err := Prepare(v); err != nil {
		t.Fatalf("missing env file must be ignored: %v", err)
	}
	v.Set("log_level", "loud")
	if err := Prepare(v); err == nil {
		t.Fatalf("expected bad log level error")
	}
}
