// Package wizard walks a user through creating the smoke config file.
package wizard

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/TylerBrock/colorjson"
	"github.com/fatih/color"
	"github.com/loykin/apismoke/internal/constants"
	"github.com/loykin/apismoke/internal/util"
	"github.com/loykin/apismoke/pkg/config"
)

// Outcome is the terminal state of a wizard run.
type Outcome int

const (
	// Persisted means the config was written.
	Persisted Outcome = iota
	// Declined means the user said no at the save prompt; nothing was written.
	Declined
	// KeptExisting means the user chose not to touch an existing config.
	KeptExisting
	// Abandoned means input ended or was interrupted mid-way.
	Abandoned
)

func (o Outcome) String() string {
	switch o {
	case Persisted:
		return "persisted"
	case Declined:
		return "declined"
	case KeptExisting:
		return "kept_existing"
	case Abandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

var modes = []string{constants.ModeChat, constants.ModeFull}

// Wizard collects a SmokeConfig interactively and saves it to Path.
type Wizard struct {
	Path string
	p    *prompter
}

// New returns a wizard reading answers from in and writing prompts to out.
// secret may be nil, in which case secrets are read as plain lines.
func New(path string, in io.Reader, out io.Writer, secret SecretReader) *Wizard {
	return &Wizard{
		Path: path,
		p:    &prompter{in: bufio.NewReader(in), out: out, secret: secret},
	}
}

// Run executes the wizard. The returned config is nil unless the outcome is Persisted.
// ErrAbandoned is returned alongside Abandoned.
func (w *Wizard) Run() (Outcome, *config.SmokeConfig, error) {
	outcome, cfg, err := w.run()
	if err != nil {
		w.p.printf("\n  %s\n", dim("Cancelled."))
		return Abandoned, nil, err
	}
	return outcome, cfg, nil
}

func (w *Wizard) run() (Outcome, *config.SmokeConfig, error) {
	p := w.p
	name := filepath.Base(w.Path)

	p.printf("\n  %s\n", bold("Delphi Smoke Config Setup"))
	p.printf("  %s\n", dim("Creates "+name+" for local testing."))
	p.printf("  %s\n\n", dim("This file is git-ignored and stays on your machine."))

	existing := config.SmokeConfig{}
	if config.Exists(w.Path) {
		loaded, err := config.Load(w.Path)
		if err != nil {
			p.printf("  %s\n", yellow("Existing config is invalid, starting fresh."))
		} else {
			p.printf("  %s\n", yellow("Found existing "+name))
			update, err := p.askBool("Update existing config?", true)
			if err != nil {
				return Abandoned, nil, err
			}
			if !update {
				p.printf("  %s\n", dim("Keeping existing config. Done."))
				return KeptExisting, nil, nil
			}
			existing = *loaded
		}
	}

	cfg, err := w.collect(existing)
	if err != nil {
		return Abandoned, nil, err
	}

	p.section("Preview")
	p.printf("%s\n\n", Preview(cfg))

	save, err := p.askBool("Save to "+name+"?", true)
	if err != nil {
		return Abandoned, nil, err
	}
	if !save {
		p.printf("  %s\n", dim("Cancelled. Nothing written."))
		return Declined, nil, nil
	}
	if err := cfg.Save(w.Path); err != nil {
		return Abandoned, nil, fmt.Errorf("saving %s: %w", w.Path, err)
	}

	p.printf("\n  %s\n\n", green("Saved: "+w.Path))
	p.printf("  %s\n", dim("Run your tests with:"))
	hint := "apismoke smoke --config " + w.Path
	if cfg.Mode == constants.ModeFull {
		hint += " --mode full"
	}
	p.printf("    %s\n\n", hint)
	return Persisted, &cfg, nil
}

func (w *Wizard) collect(existing config.SmokeConfig) (config.SmokeConfig, error) {
	p := w.p
	var cfg config.SmokeConfig
	var err error

	p.section("Required")
	keyDefault := ""
	if !config.IsUnset(existing.APIKey, constants.PlaceholderAPIKey) {
		keyDefault = existing.APIKey
	}
	if cfg.APIKey, err = p.ask(field{
		label: "API key", def: keyDefault, required: true, secret: true,
		reject: []string{constants.PlaceholderAPIKey},
	}); err != nil {
		return cfg, err
	}
	slugDefault := ""
	if !config.IsUnset(existing.Slug, constants.PlaceholderSlug) {
		slugDefault = existing.Slug
	}
	if cfg.Slug, err = p.ask(field{
		label: "Clone slug", def: slugDefault, required: true,
		reject: []string{constants.PlaceholderSlug},
	}); err != nil {
		return cfg, err
	}

	p.section("Options")
	if cfg.Account, err = p.ask(field{
		label: "Account display name",
		def:   util.TrimWithDefault(existing.Account, constants.DefaultWizardAccount),
	}); err != nil {
		return cfg, err
	}
	if cfg.Message, err = p.ask(field{
		label: "Test message",
		def:   util.TrimWithDefault(existing.Message, constants.DefaultMessage),
	}); err != nil {
		return cfg, err
	}
	modeDefault := constants.ModeChat
	if m := util.TrimAndLower(existing.Mode); m == constants.ModeFull {
		modeDefault = m
	}
	if cfg.Mode, err = p.askChoice("Test mode", modes, modeDefault); err != nil {
		return cfg, err
	}

	if cfg.Mode != constants.ModeFull {
		return cfg, nil
	}

	p.section("Full-mode settings")
	if cfg.UserEmail, err = p.ask(field{label: "User email for lookup", def: existing.UserEmail}); err != nil {
		return cfg, err
	}
	if cfg.AllowWrite, err = p.askBool("Enable write endpoints? (creates/deletes test data)", existing.AllowWrite); err != nil {
		return cfg, err
	}
	if !cfg.AllowWrite {
		return cfg, nil
	}

	p.section("Write-mode settings")
	if cfg.TagName, err = p.ask(field{
		label: "Tag name for write tests", required: true,
		def: util.TrimWithDefault(existing.TagName, constants.DefaultWizardTagName),
	}); err != nil {
		return cfg, err
	}
	if cfg.InfoText, err = p.ask(field{
		label: "Info text for write tests", required: true,
		def: util.TrimWithDefault(existing.InfoText, constants.DefaultWizardInfoText),
	}); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Preview renders cfg as indented JSON with the API key redacted, coloured when
// the terminal supports it.
func Preview(cfg config.SmokeConfig) string {
	redacted := cfg.Redacted()
	plain, err := json.MarshalIndent(redacted, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", redacted)
	}
	if color.NoColor {
		return string(plain)
	}
	var obj map[string]any
	if err := json.Unmarshal(plain, &obj); err != nil {
		return string(plain)
	}
	f := colorjson.NewFormatter()
	f.Indent = 2
	s, err := f.Marshal(obj)
	if err != nil {
		return string(plain)
	}
	return string(s)
}
