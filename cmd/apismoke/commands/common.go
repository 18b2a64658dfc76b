package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/loykin/apismoke/internal/common"
	"github.com/loykin/apismoke/internal/constants"
	"github.com/loykin/apismoke/internal/httpc"
	"github.com/loykin/apismoke/pkg/config"
	"github.com/loykin/apismoke/pkg/smoke"
	"github.com/spf13/viper"
)

// Prepare runs before every command: it loads the env file, if any, and installs
// the logger selected by --log-level and --log-format.
func Prepare(v *viper.Viper) error {
	if path := strings.TrimSpace(v.GetString("env_file")); path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", path, err)
		}
	}

	level, ok := common.ParseLogLevel(v.GetString("log_level"))
	if !ok {
		return fmt.Errorf("unknown log level %q (valid: error, warn, info, debug)", v.GetString("log_level"))
	}
	logger, err := common.NewFormattedLogger(v.GetString("log_format"), level)
	if err != nil {
		return err
	}
	common.SetDefaultLogger(logger)
	return nil
}

// applyTransport copies the flags shared by run and smoke onto opts.
func applyTransport(v *viper.Viper, opts *smoke.Options) {
	opts.BaseURL = v.GetString("base_url")
	opts.TLSConfig = httpc.TLSConfig(v.GetString("tls_min_version"), v.GetBool("insecure"))
}

func checkFormat(format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", smoke.FormatJSON, smoke.FormatYAML, "yml":
		return nil
	default:
		return fmt.Errorf("unsupported format %q (valid: json, yaml)", format)
	}
}

// execute runs the battery and prints the report. The outcome is carried in the
// report, so a finished run is never an error.
func execute(ctx context.Context, out io.Writer, opts smoke.Options, format string) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	rep, err := smoke.Run(ctx, opts)
	if err != nil {
		return err
	}
	common.LogDebug("report ready", "overall", string(rep.Overall()))
	return rep.Encode(out, format)
}

// optionsFromConfig maps a validated smoke config onto runner options. Write
// settings only travel in full mode, matching what the runner would use.
func optionsFromConfig(cfg *config.SmokeConfig, mode string) smoke.Options {
	opts := smoke.Options{
		APIKey:  cfg.APIKey,
		Slug:    cfg.Slug,
		Account: cfg.Account,
		Message: cfg.Message,
		Mode:    cfg.EffectiveMode(mode),
	}
	if opts.Mode == constants.ModeFull {
		opts.UserEmail = cfg.UserEmail
		if cfg.AllowWrite {
			opts.AllowWrite = true
			opts.TagName = cfg.TagName
			opts.InfoText = cfg.InfoText
		}
	}
	return opts
}

// commandLine renders the run invocation equivalent to opts.
func commandLine(opts smoke.Options) string {
	parts := []string{"apismoke", "run"}
	add := func(flag, value string) {
		if value == "" {
			return
		}
		if strings.ContainsAny(value, " \t\"'") {
			value = fmt.Sprintf("%q", value)
		}
		parts = append(parts, flag, value)
	}
	add("--api-key", opts.APIKey)
	add("--slug", opts.Slug)
	add("--account", opts.Account)
	add("--message", opts.Message)
	add("--mode", opts.Mode)
	add("--user-email", opts.UserEmail)
	if opts.AllowWrite {
		parts = append(parts, "--allow-write")
		add("--tag-name", opts.TagName)
		add("--info-text", opts.InfoText)
	}
	return strings.Join(parts, " ")
}
