package reportingcloud

import (
	"io"
	"log/slog"
	"strings"

	"github.com/r9s-ai/reportingcloud/internal/logx"
	"github.com/r9s-ai/reportingcloud/pkg/apierr"
	"github.com/r9s-ai/reportingcloud/pkg/config"
	"github.com/r9s-ai/reportingcloud/pkg/httpclient"
)

const defaultUserAgent = "reportingcloud-go"

// Client talks to one ReportingCloud endpoint with one set of credentials.
type Client struct {
	cfg        config.Config
	httpClient httpclient.HTTPDoer
	logger     *slog.Logger
	debugOut   io.Writer
	color      bool
	reqLog     *logx.RequestLogFormatter
	metrics    *Metrics
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client built from the config.
func WithHTTPClient(doer httpclient.HTTPDoer) Option {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithLogger sets the logger. Request lines are logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebugOut writes one request-log line per request to w when the
// config has debug enabled.
func WithDebugOut(w io.Writer) Option {
	return func(c *Client) {
		c.debugOut = w
	}
}

// WithMetrics records request counts and latencies.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New validates cfg and returns a Client bound to a copy of it.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, &apierr.InvalidConfigurationError{Reason: "config is nil"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		cfg:       *cfg,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.httpClient == nil {
		hc, err := httpclient.New(httpclient.Options{Timeout: cfg.Timeout(), Proxy: cfg.Proxy})
		if err != nil {
			return nil, &apierr.InvalidConfigurationError{Field: "proxy", Reason: err.Error()}
		}
		c.httpClient = hc
	}
	format, err := logx.ResolveRequestLogFormat(cfg.Logging.RequestLogFormat, "")
	if err != nil {
		return nil, &apierr.InvalidConfigurationError{Field: "logging.request_log_format", Reason: err.Error()}
	}
	if c.reqLog, err = logx.CompileRequestLogFormat(format); err != nil {
		return nil, &apierr.InvalidConfigurationError{Field: "logging.request_log_format", Reason: err.Error()}
	}
	if c.debugOut != nil {
		c.color = logx.IsTerminal(c.debugOut)
	}
	if strings.TrimSpace(c.userAgent) == "" {
		c.userAgent = defaultUserAgent
	}
	return c, nil
}

// BaseURI returns the configured service root.
func (c *Client) BaseURI() string { return c.cfg.BaseURI }

// Version returns the API version path segment.
func (c *Client) Version() string { return c.cfg.Version }

// Test reports whether merge requests are sent as test documents.
func (c *Client) Test() bool { return c.cfg.Test }
