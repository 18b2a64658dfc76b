package httpc

import (
	"crypto/tls"
	"time"

	"github.com/go-resty/resty/v2"
)

// Httpc describes how a resty client talks to the upstream API.
type Httpc struct {
	TlsConfig *tls.Config
	// BaseURL is prefixed to relative request paths when set.
	BaseURL string
	// Timeout is the per-request ceiling; zero leaves resty's default (none).
	Timeout time.Duration
	// Headers are sent with every request.
	Headers map[string]string
}

// New returns a resty.Client configured according to the receiver's settings.
// Defaults: MinVersion TLS1.2 when a TLS config is given with MinVersion zero.
// Retries are never enabled.
func (h *Httpc) New() *resty.Client {
	c := resty.New().SetRetryCount(0)
	if h.BaseURL != "" {
		c.SetBaseURL(h.BaseURL)
	}
	if h.Timeout > 0 {
		c.SetTimeout(h.Timeout)
	}
	if len(h.Headers) > 0 {
		c.SetHeaders(h.Headers)
	}
	cfg := h.TlsConfig
	if cfg == nil {
		return c
	}
	if cfg.MinVersion == 0 {
		cfg.MinVersion = tls.VersionTLS12
	}
	c.SetTLSClientConfig(cfg)
	return c
}
