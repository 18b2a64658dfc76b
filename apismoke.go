package apismoke

import (
	"context"

	"github.com/loykin/apismoke/internal/common"
	"github.com/loykin/apismoke/pkg/config"
	"github.com/loykin/apismoke/pkg/relay"
	"github.com/loykin/apismoke/pkg/smoke"
)

// Re-export commonly used types for public API

// Options configures a smoke run.
type Options = smoke.Options

// Report is the document produced by a smoke run.
type Report = smoke.Report

// Result is one endpoint check.
type Result = smoke.Result

// Checks is an ordered set of named results.
type Checks = smoke.Checks

// Summary rolls a set of checks up into a verdict.
type Summary = smoke.Summary

// Verdict is PASS, FAIL or UNKNOWN.
type Verdict = smoke.Verdict

const (
	Pass    = smoke.Pass
	Fail    = smoke.Fail
	Unknown = smoke.Unknown
)

// ErrMissingInput is returned before any network call when a required option is empty.
var ErrMissingInput = smoke.ErrMissingInput

// Run executes the smoke checks for opts.
func Run(ctx context.Context, opts Options) (*Report, error) {
	return smoke.Run(ctx, opts)
}

// Summarize computes the verdict for checks.
func Summarize(checks Checks) Summary { return smoke.Summarize(checks) }

// RelayOptions configures the local streaming relay.
type RelayOptions = relay.Options

// Relay is the local CORS relay.
type Relay = relay.Relay

// NewRelay builds a relay without binding a socket.
func NewRelay(opts RelayOptions) *Relay { return relay.New(opts) }

// SmokeConfig is the file format written by the setup wizard.
type SmokeConfig = config.SmokeConfig

// LoadConfig reads a smoke config file.
func LoadConfig(path string) (*SmokeConfig, error) { return config.Load(path) }

// Logger is the structured logger used across apismoke.
type Logger = common.Logger

type LogLevel = common.LogLevel

const (
	LogLevelError = common.LogLevelError
	LogLevelWarn  = common.LogLevelWarn
	LogLevelInfo  = common.LogLevelInfo
	LogLevelDebug = common.LogLevelDebug
)

// NewLogger creates a text logger on stderr.
func NewLogger(level LogLevel) *Logger { return common.NewLogger(level) }

// SetDefaultLogger replaces the package-wide logger.
func SetDefaultLogger(l *Logger) { common.SetDefaultLogger(l) }

// MaskSensitiveData hides API keys and tokens in s.
func MaskSensitiveData(s string) string { return common.MaskSensitiveData(s) }
