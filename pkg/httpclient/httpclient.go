package httpclient

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/http/httpproxy"
)

// HTTPDoer captures the subset of *http.Client the ReportingCloud client
// relies on. Tests inject fakes so no outbound request is made.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configure the default *http.Client.
type Options struct {
	Timeout time.Duration
	// Proxy overrides HTTPS_PROXY/HTTP_PROXY when set. "direct" disables
	// proxying altogether.
	Proxy string
}

// New returns an *http.Client with the given timeout and proxy resolution.
func New(opts Options) (*http.Client, error) {
	proxy, err := proxyFunc(opts.Proxy)
	if err != nil {
		return nil, err
	}
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.Proxy = proxy
	return &http.Client{Timeout: opts.Timeout, Transport: tr}, nil
}

func proxyFunc(explicit string) (func(*http.Request) (*url.URL, error), error) {
	explicit = strings.TrimSpace(explicit)
	switch {
	case strings.EqualFold(explicit, "direct"):
		return nil, nil
	case explicit != "":
		u, err := url.Parse(explicit)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid proxy url %q", explicit)
		}
		cfg := &httpproxy.Config{HTTPProxy: explicit, HTTPSProxy: explicit}
		return fromConfig(cfg), nil
	default:
		return fromConfig(httpproxy.FromEnvironment()), nil
	}
}

func fromConfig(cfg *httpproxy.Config) func(*http.Request) (*url.URL, error) {
	fn := cfg.ProxyFunc()
	return func(req *http.Request) (*url.URL, error) {
		return fn(req.URL)
	}
}
