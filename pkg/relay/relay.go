package relay

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"github.com/loykin/apismoke/internal/common"
	"github.com/loykin/apismoke/internal/constants"
	"github.com/loykin/apismoke/internal/httpc"
)

// Options configures a Relay. Zero values fall back to the defaults in constants.
type Options struct {
	// Upstream is the host root requests are forwarded to, without the /api prefix.
	Upstream  string
	StaticDir string
	Host      string
	Port      int
	// Timeout bounds one-shot upstream calls.
	Timeout time.Duration
	// StreamTimeout bounds a whole streamed upstream call.
	StreamTimeout time.Duration
	TLSConfig     *tls.Config
	Logger        *common.Logger
}

func (o *Options) normalize() {
	o.Upstream = strings.TrimRight(strings.TrimSpace(o.Upstream), "/")
	if o.Upstream == "" {
		o.Upstream = constants.DefaultRelayUpstream
	}
	if strings.TrimSpace(o.StaticDir) == "" {
		o.StaticDir = constants.DefaultStaticDir
	}
	if strings.TrimSpace(o.Host) == "" {
		o.Host = constants.DefaultRelayHost
	}
	if o.Port == 0 {
		o.Port = constants.DefaultRelayPort
	}
	if o.Timeout <= 0 {
		o.Timeout = constants.DefaultRelayTimeout
	}
	if o.StreamTimeout <= 0 {
		o.StreamTimeout = constants.DefaultRelayStreamTimeout
	}
	if o.Logger == nil {
		o.Logger = common.GetLogger()
	}
}

// Relay serves a static reference page and forwards /api/* to the upstream API,
// streaming server-sent events through unbuffered.
type Relay struct {
	opts   Options
	client *resty.Client
	engine *gin.Engine
	logger *common.Logger
}

// New builds a Relay. It does not bind a socket.
func New(opts Options) *Relay {
	opts.normalize()
	hc := &httpc.Httpc{
		TlsConfig: opts.TLSConfig,
		BaseURL:   opts.Upstream,
		Headers: map[string]string{
			"Content-Type": constants.ContentTypeJSON,
			"User-Agent":   constants.RelayUserAgent,
		},
	}
	client := hc.New()
	client.SetAllowGetMethodPayload(true)
	r := &Relay{
		opts:   opts,
		client: client,
		logger: opts.Logger.WithComponent("relay"),
	}
	r.engine = r.buildEngine()
	return r
}

func (r *Relay) buildEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.RedirectTrailingSlash = false
	engine.Use(gin.Recovery(), requestID(), r.accessLog(), cors())

	engine.Any(strings.TrimSuffix(constants.ProxyPrefix, "/")+"/*path", r.proxy)
	engine.NoRoute(r.static)
	return engine
}

// Handler exposes the relay for embedding or httptest.
func (r *Relay) Handler() http.Handler { return r.engine }

// Addr is the host:port ListenAndServe binds.
func (r *Relay) Addr() string {
	return net.JoinHostPort(r.opts.Host, strconv.Itoa(r.opts.Port))
}

// Banner is the startup text printed by the CLI.
func (r *Relay) Banner() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n  Delphi V3 API Reference\n")
	fmt.Fprintf(&b, "  -> http://localhost:%d/%s\n", r.opts.Port, constants.DefaultRelayPage)
	fmt.Fprintf(&b, "  Proxy: %s* -> %s/*\n", constants.ProxyPrefix, r.opts.Upstream)
	fmt.Fprintf(&b, "  Press Ctrl+C to stop\n\n")
	return b.String()
}

// ListenAndServe binds Addr and serves until ctx is cancelled, then shuts down
// gracefully. In-flight streams get DefaultShutdownTimeout to finish.
func (r *Relay) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", r.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", r.Addr(), err)
	}
	return r.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (r *Relay) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           r.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("relay listening", "addr", ln.Addr().String(), "upstream", r.opts.Upstream, "dir", r.opts.StaticDir)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		_ = srv.Close()
		r.logger.Warn("relay shutdown forced", "error", err)
	}
	r.logger.Info("relay stopped")
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
