package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/loykin/apismoke/internal/constants"
	"github.com/loykin/apismoke/internal/util"
	"github.com/spf13/viper"
	"github.com/tidwall/jsonc"
)

// SmokeConfig is the flat file written by the setup wizard and read by the smoke command.
// Field order here is the order written to disk.
type SmokeConfig struct {
	Account    string `mapstructure:"account" json:"account"`
	APIKey     string `mapstructure:"api_key" json:"api_key"`
	Slug       string `mapstructure:"slug" json:"slug"`
	Mode       string `mapstructure:"mode" json:"mode"`
	Message    string `mapstructure:"message" json:"message"`
	UserEmail  string `mapstructure:"user_email" json:"user_email"`
	AllowWrite bool   `mapstructure:"allow_write" json:"allow_write"`
	TagName    string `mapstructure:"tag_name" json:"tag_name"`
	InfoText   string `mapstructure:"info_text" json:"info_text"`
}

// ErrMissingField is wrapped by Validate failures.
var ErrMissingField = errors.New("missing config field")

var configKeys = []string{"account", "api_key", "slug", "mode", "message", "user_email", "allow_write", "tag_name", "info_text"}

// Load reads path as JSON. Comments and trailing commas are tolerated.
func Load(path string) (*SmokeConfig, error) {
	return load(path, false)
}

// LoadWithEnv is Load with APISMOKE_<FIELD> environment variables overriding file values.
func LoadWithEnv(path string) (*SmokeConfig, error) {
	return load(path, true)
}

func load(path string, withEnv bool) (*SmokeConfig, error) {
	clean := filepath.Clean(path)
	info, err := os.Stat(clean)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file: %s", clean)
	}
	// #nosec G304 -- config path is provided intentionally by the user; cleaned and validated above
	data, err := os.ReadFile(clean)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data, withEnv)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", clean, err)
	}
	return cfg, nil
}

// Parse decodes config bytes. With withEnv, APISMOKE_* variables take precedence.
func Parse(data []byte, withEnv bool) (*SmokeConfig, error) {
	stripped := jsonc.ToJSON(data)

	v := viper.New()
	v.SetConfigType("json")
	for _, k := range configKeys {
		v.SetDefault(k, nil)
	}
	if withEnv {
		v.SetEnvPrefix(constants.EnvPrefix)
		v.AutomaticEnv()
	}
	if err := v.ReadConfig(bytes.NewReader(stripped)); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	settings := map[string]any{}
	for _, k := range configKeys {
		if val := v.Get(k); val != nil {
			settings[k] = val
		}
	}

	var cfg SmokeConfig
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(settings); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

// EffectiveMode returns override when set, else the configured mode, else chat.
func (c *SmokeConfig) EffectiveMode(override string) string {
	if m := util.TrimAndLower(override); m != "" {
		return m
	}
	return util.TrimWithDefault(util.TrimAndLower(c.Mode), constants.ModeChat)
}

// Validate checks presence of required fields for mode. Placeholder values from the
// example file count as missing.
func (c *SmokeConfig) Validate(mode string) error {
	if IsUnset(c.APIKey, constants.PlaceholderAPIKey) {
		return fmt.Errorf("%w: please set api_key", ErrMissingField)
	}
	if IsUnset(c.Slug, constants.PlaceholderSlug) {
		return fmt.Errorf("%w: please set slug", ErrMissingField)
	}
	switch m := c.EffectiveMode(mode); m {
	case constants.ModeChat:
	case constants.ModeFull:
		if c.AllowWrite {
			if strings.TrimSpace(c.TagName) == "" {
				return fmt.Errorf("%w: allow_write=true requires tag_name", ErrMissingField)
			}
			if strings.TrimSpace(c.InfoText) == "" {
				return fmt.Errorf("%w: allow_write=true requires info_text", ErrMissingField)
			}
		}
	default:
		return fmt.Errorf("invalid mode %q (valid: chat, full)", m)
	}
	return nil
}

// IsUnset reports whether v is blank or equal to placeholder.
func IsUnset(v, placeholder string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == placeholder
}

// Save writes the config as two-space indented JSON followed by a newline. The file is
// created with owner-only permissions because it holds the API key.
func (c *SmokeConfig) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}
	return os.WriteFile(filepath.Clean(path), data, constants.ConfigFileMode)
}

// Redacted returns a copy safe for display.
func (c SmokeConfig) Redacted() SmokeConfig {
	c.APIKey = RedactKey(c.APIKey)
	return c
}

// RedactKey keeps the first and last four characters of keys longer than eight.
func RedactKey(key string) string {
	n := constants.RedactedKeyVisibleLength
	if len(key) <= 2*n {
		return constants.RedactedPlaceholder
	}
	return key[:n] + "..." + key[len(key)-n:]
}

// Exists reports whether path names an existing file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
