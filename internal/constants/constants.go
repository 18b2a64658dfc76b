package constants

import (
	"net/http"
	"time"
)

// Upstream Constants
const (
	// DefaultAPIBaseURL is the versioned REST root used by the smoke runner.
	DefaultAPIBaseURL = "https://api.delphi.ai/v3"
	// DefaultRelayUpstream is the host root the relay forwards to; the proxied
	// path already carries the version segment.
	DefaultRelayUpstream = "https://api.delphi.ai"

	APIKeyHeader    = "x-api-key"
	RequestIDHeader = "X-Request-ID"
	RelayUserAgent  = "apismoke-relay/1.0"
	ContentTypeJSON = "application/json"
	ContentTypeSSE  = "text/event-stream"
)

// Time and Duration Constants
const (
	// Smoke runner ceilings; no retry is attempted after either expires.
	DefaultCallTimeout   = 25 * time.Second
	DefaultStreamTimeout = 120 * time.Second

	// Relay ceilings per upstream call.
	DefaultRelayTimeout       = 30 * time.Second
	DefaultRelayStreamTimeout = 120 * time.Second
	DefaultShutdownTimeout    = 5 * time.Second
)

// Relay Constants
const (
	DefaultRelayPort   = 8787
	DefaultRelayHost   = "127.0.0.1"
	DefaultStaticDir   = "docs"
	DefaultRelayPage   = "api-reference.html"
	ProxyPrefix        = "/api/"
	StreamPathPrefix   = "/api/v3/stream"
	StreamChunkSize    = 4096
	RelayFailureStatus = http.StatusBadGateway
	CORSAllowMethods   = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	CORSAllowHeaders   = "x-api-key, Content-Type"
	CORSMaxAge         = "86400"
)

// Smoke Runner Constants
const (
	ModeChat = "chat"
	ModeFull = "full"

	// TransportFailureStatus stands in for an HTTP status when no response arrived.
	TransportFailureStatus = "000"
	StatusOK               = "200"

	ConversationPreviewLen = 240
	StreamPreviewLen       = 280
	CheckPreviewLen        = 180

	DefaultAccount     = "Account"
	DefaultMessage     = "Please answer in one short sentence to test stream."
	DefaultTagColor    = "#3B82F6"
	TestUserName       = "API Test User"
	InfoSource         = "API"
	InfoType           = "JOURNAL"
	StreamDataMarker   = "data:"
	StreamDoneMarker   = "[DONE]"
	MissingUserIDNote  = "Skipped user endpoint checks because no user_id available. Provide --user-id or --user-email."
	UncleanedTagNotice = "tag created by tags_create is not deleted by this run"
)

// Config Constants
const (
	DefaultConfigFile        = "smoke-config.json"
	ExampleConfigFile        = "smoke-config.example.json"
	PlaceholderAPIKey        = "REPLACE_WITH_DELPHI_API_KEY"
	PlaceholderSlug          = "REPLACE_WITH_CLONE_SLUG"
	DefaultWizardAccount     = "My Delphi Account"
	DefaultWizardTagName     = "api-test-tag"
	DefaultWizardInfoText    = "safe test note"
	ConfigFileMode           = 0o600
	EnvPrefix                = "APISMOKE"
	RedactedPlaceholder      = "***"
	RedactedKeyVisibleLength = 4
)
