package relay

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"github.com/loykin/apismoke/internal/constants"
)

// maxErrorBody caps how much of a failed stream response is relayed back.
const maxErrorBody = 1 << 20

func (r *Relay) proxy(c *gin.Context) {
	target := strings.TrimPrefix(c.Request.URL.EscapedPath(), strings.TrimSuffix(constants.ProxyPrefix, "/"))

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		r.fail(c, err)
		return
	}

	req := r.client.R()
	if key := c.GetHeader(constants.APIKeyHeader); key != "" {
		req.SetHeader(constants.APIKeyHeader, key)
	}
	if raw := c.Request.URL.RawQuery; raw != "" {
		req.SetQueryString(raw)
	}
	if len(body) > 0 {
		req.SetBody(body)
	}

	if isStreamRequest(c.Request) {
		r.stream(c, req, target)
		return
	}
	r.forward(c, req, target)
}

func isStreamRequest(req *http.Request) bool {
	return req.Method == http.MethodPost && strings.HasPrefix(req.URL.Path, constants.StreamPathPrefix)
}

// forward performs a one-shot upstream call and relays status and body.
func (r *Relay) forward(c *gin.Context, req *resty.Request, target string) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), r.opts.Timeout)
	defer cancel()

	resp, err := req.SetContext(ctx).Execute(c.Request.Method, target)
	if err != nil {
		r.fail(c, err)
		return
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType == "" || resp.StatusCode() >= http.StatusBadRequest {
		contentType = constants.ContentTypeJSON
	}
	c.Data(resp.StatusCode(), contentType, resp.Body())
}

// stream calls the upstream event stream and pumps it to the client chunk by chunk.
func (r *Relay) stream(c *gin.Context, req *resty.Request, target string) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), r.opts.StreamTimeout)
	defer cancel()

	resp, err := req.SetContext(ctx).
		SetHeader("Accept", constants.ContentTypeSSE).
		SetDoNotParseResponse(true).
		Execute(http.MethodPost, target)
	if err != nil {
		if resp != nil && resp.RawBody() != nil {
			_ = resp.RawBody().Close()
		}
		r.fail(c, err)
		return
	}
	raw := resp.RawBody()
	defer func() { _ = raw.Close() }()

	status := resp.StatusCode()
	if status >= http.StatusBadRequest {
		data, _ := io.ReadAll(io.LimitReader(raw, maxErrorBody))
		c.Data(status, constants.ContentTypeJSON, data)
		return
	}

	h := c.Writer.Header()
	h.Set("Content-Type", constants.ContentTypeSSE)
	h.Set("Cache-Control", "no-cache")
	h.Set("X-Accel-Buffering", "no")
	c.Status(status)
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	stats := Pump(c.Writer, raw)
	if stats.Result == SourceFailed && c.Request.Context().Err() != nil {
		stats.Result = ConsumerGone
	}

	log := r.logger.WithRequestID(c.GetString(requestIDKey))
	switch stats.Result {
	case SourceFailed:
		log.Warn("upstream stream failed", "error", stats.Err, "bytes", stats.Bytes, "chunks", stats.Chunks)
	case ConsumerGone:
		log.Debug("client left during stream", "bytes", stats.Bytes, "chunks", stats.Chunks)
	default:
		log.Debug("stream complete", "bytes", stats.Bytes, "chunks", stats.Chunks)
	}
}

func (r *Relay) fail(c *gin.Context, err error) {
	r.logger.WithRequestID(c.GetString(requestIDKey)).Warn("upstream call failed",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"error", err,
	)
	c.JSON(constants.RelayFailureStatus, gin.H{"error": err.Error()})
}
