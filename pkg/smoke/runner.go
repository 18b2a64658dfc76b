package smoke

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/loykin/apismoke/internal/common"
	"github.com/loykin/apismoke/internal/constants"
	"github.com/loykin/apismoke/internal/util"
)

// Options is the runner input, typically straight from CLI flags.
type Options struct {
	APIKey     string
	Slug       string
	Account    string
	Message    string
	Mode       string
	UserEmail  string
	UserID     string
	TagName    string
	InfoText   string
	AllowWrite bool

	BaseURL       string
	CallTimeout   time.Duration
	StreamTimeout time.Duration
	TLSConfig     *tls.Config
}

// ErrMissingInput is wrapped by every Options validation failure.
var ErrMissingInput = errors.New("missing required input")

// Normalize trims fields and fills defaults.
func (o Options) Normalize() Options {
	o.APIKey = strings.TrimSpace(o.APIKey)
	o.Slug = strings.TrimSpace(o.Slug)
	o.Account = util.TrimWithDefault(o.Account, constants.DefaultAccount)
	o.Message = util.TrimWithDefault(o.Message, constants.DefaultMessage)
	o.Mode = util.TrimAndLower(o.Mode)
	if o.Mode == "" {
		o.Mode = constants.ModeChat
	}
	o.UserEmail = strings.TrimSpace(o.UserEmail)
	o.UserID = strings.TrimSpace(o.UserID)
	o.TagName = strings.TrimSpace(o.TagName)
	o.InfoText = strings.TrimSpace(o.InfoText)
	return o
}

// Validate fails fast, before any network call, naming the missing input.
func (o Options) Validate() error {
	if o.APIKey == "" {
		return fmt.Errorf("%w: --api-key is required", ErrMissingInput)
	}
	switch o.Mode {
	case constants.ModeChat, constants.ModeFull:
	default:
		return fmt.Errorf("invalid mode %q (valid: chat, full)", o.Mode)
	}
	if o.Slug == "" {
		return fmt.Errorf("%w: --slug is required for mode chat/full", ErrMissingInput)
	}
	return nil
}

// Report is the single document printed by the runner.
type Report struct {
	Account           string            `json:"account"`
	Mode              string            `json:"mode"`
	Chat              *ChatResult       `json:"chat,omitempty"`
	LookupTags        *LookupTagsResult `json:"lookup_tags,omitempty"`
	Users             *UsersResult      `json:"users,omitempty"`
	ChatSummary       *ChatSummary      `json:"chat_summary,omitempty"`
	LookupTagsSummary *Summary          `json:"lookup_tags_summary,omitempty"`
	UsersSummary      *Summary          `json:"users_summary,omitempty"`
}

// Runner executes the smoke battery for one Options set.
type Runner struct {
	opts   Options
	client *Client
	logger *common.Logger
}

// NewRunner validates opts and prepares the HTTP client.
func NewRunner(opts Options) (*Runner, error) {
	opts = opts.Normalize()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	common.RegisterSecret(opts.APIKey)
	client := NewClient(ClientOptions{
		APIKey:        opts.APIKey,
		BaseURL:       opts.BaseURL,
		CallTimeout:   opts.CallTimeout,
		StreamTimeout: opts.StreamTimeout,
		TLSConfig:     opts.TLSConfig,
	})
	return &Runner{opts: opts, client: client, logger: common.GetLogger().WithComponent("runner")}, nil
}

// Run issues the calls for the configured mode, one at a time, and assembles the report.
// The outcome lives in the report; Run itself never fails.
func (r *Runner) Run(ctx context.Context) *Report {
	o := r.opts
	rep := &Report{Account: o.Account, Mode: o.Mode}

	r.logger.Info("chat checks", "slug", o.Slug)
	chat := r.client.TestChat(ctx, o.Slug, o.Message)
	rep.Chat = &chat

	if o.Mode == constants.ModeFull {
		r.logger.Info("lookup and tag checks", "allow_write", o.AllowWrite)
		lt := r.client.TestLookupAndTags(ctx, o.UserEmail, o.AllowWrite, o.TagName)
		rep.LookupTags = &lt

		userID := o.UserID
		if userID == "" && lt.DerivedUserID != nil {
			userID = *lt.DerivedUserID
		}
		var users UsersResult
		if userID != "" {
			r.logger.Info("user checks", "user_id", userID, "allow_write", o.AllowWrite)
			users = r.client.TestUserEndpoints(ctx, userID, o.AllowWrite, o.TagName, o.InfoText)
		} else {
			r.logger.Warn("user checks skipped", "reason", "no user id")
			users = UsersResult{Note: constants.MissingUserIDNote}
		}
		rep.Users = &users
	}

	cs := chat.Summary()
	rep.ChatSummary = &cs
	if rep.LookupTags != nil {
		s := Summarize(rep.LookupTags.Checks)
		rep.LookupTagsSummary = &s
	}
	if rep.Users != nil {
		s := Summarize(rep.Users.Checks)
		rep.UsersSummary = &s
	}

	r.logger.Info("smoke run finished", "overall", string(chat.Overall))
	return rep
}

// Run is a convenience wrapper around NewRunner + Runner.Run.
func Run(ctx context.Context, opts Options) (*Report, error) {
	r, err := NewRunner(opts)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx), nil
}
