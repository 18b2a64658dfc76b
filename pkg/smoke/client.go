package smoke

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/loykin/apismoke/internal/common"
	"github.com/loykin/apismoke/internal/constants"
	"github.com/loykin/apismoke/internal/httpc"
)

// ClientOptions configures a Client.
type ClientOptions struct {
	APIKey  string
	BaseURL string
	// CallTimeout and StreamTimeout default to 25s and 120s.
	CallTimeout   time.Duration
	StreamTimeout time.Duration
	TLSConfig     *tls.Config
}

// Client issues smoke calls against the upstream API. Every call is awaited,
// never retried, and authenticated only by the static key header.
type Client struct {
	rc            *resty.Client
	callTimeout   time.Duration
	streamTimeout time.Duration
	logger        *common.Logger
}

// NewClient builds a Client from opts.
func NewClient(opts ClientOptions) *Client {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = constants.DefaultAPIBaseURL
	}
	callTimeout := opts.CallTimeout
	if callTimeout <= 0 {
		callTimeout = constants.DefaultCallTimeout
	}
	streamTimeout := opts.StreamTimeout
	if streamTimeout <= 0 {
		streamTimeout = constants.DefaultStreamTimeout
	}
	h := httpc.Httpc{
		TlsConfig: opts.TLSConfig,
		BaseURL:   base,
		Headers: map[string]string{
			constants.APIKeyHeader: opts.APIKey,
			"Content-Type":         constants.ContentTypeJSON,
		},
	}
	return &Client{
		rc:            h.New(),
		callTimeout:   callTimeout,
		streamTimeout: streamTimeout,
		logger:        common.GetLogger().WithComponent("smoke-client"),
	}
}

// Do performs call and returns its status and trimmed body. Transport failures,
// including timeouts, come back as TransportFailureStatus with the error text as body.
func (c *Client) Do(ctx context.Context, call Call) Response {
	timeout := c.callTimeout
	if call.Stream {
		timeout = c.streamTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := c.rc.R().SetContext(ctx)
	if call.Stream {
		req.SetHeader("Accept", constants.ContentTypeSSE)
	}
	if call.Payload != nil {
		req.SetBody(call.Payload)
	}

	log := c.logger.WithRequest(call.Method, call.Path)
	start := time.Now()
	resp, err := req.Execute(call.Method, call.Path)
	if err != nil {
		partial := ""
		if resp != nil {
			partial = string(resp.Body())
		}
		log.Warn("call failed", "error", err, "duration", time.Since(start))
		return Response{
			Status: constants.TransportFailureStatus,
			Body:   strings.TrimSpace(partial + "\n" + err.Error()),
		}
	}

	status := fmt.Sprintf("%03d", resp.StatusCode())
	log.Debug("call done", "status", resp.StatusCode(), "bytes", len(resp.Body()), "duration", time.Since(start))
	return Response{Status: status, Body: strings.TrimSpace(string(resp.Body()))}
}

// record adds res to checks under name.
func (c *Client) record(checks *Checks, name string, res Result) {
	c.logger.WithCheck(name).Debug("check recorded", "http", res.HTTP, "pass", res.Pass)
	checks.Add(name, res)
}
