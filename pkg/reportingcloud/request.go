package reportingcloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/r9s-ai/reportingcloud/internal/logx"
	"github.com/r9s-ai/reportingcloud/pkg/apierr"
	"github.com/r9s-ai/reportingcloud/pkg/requestid"
)

const (
	authScheme    = "ReportingCloud-APIKey"
	maxDebugBody  = 2048
	contentTypeJS = "application/json"
)

// request describes one call. It is built per call and never reused.
type request struct {
	method string
	// path is relative to the versioned root, e.g. "/templates/list".
	path   string
	query  url.Values
	body   []byte
	expect int
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func newRequest(method, path string, expect int) request {
	return request{method: method, path: path, query: url.Values{}, expect: expect}
}

func (r request) withJSON(v any) (request, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return r, fmt.Errorf("encode %s body: %w", r.path, err)
	}
	r.body = b
	return r, nil
}

func (c *Client) versionedPath(path string) string {
	return "/" + c.cfg.Version + path
}

func (c *Client) requestURL(r request) string {
	u := c.cfg.BaseURI + c.versionedPath(r.path)
	if q := r.query.Encode(); q != "" {
		u += "?" + q
	}
	return u
}

func (c *Client) authorize(req *http.Request) {
	if key := strings.TrimSpace(c.cfg.APIKey); key != "" {
		req.Header.Set("Authorization", authScheme+" "+key)
		return
	}
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
}

// send issues r once and returns the response when its status matches
// r.expect. Any other outcome is a *apierr.RuntimeError.
func (c *Client) send(ctx context.Context, r request) (*response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if d := c.cfg.Timeout(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	path := c.versionedPath(r.path)
	reqURL := c.requestURL(r)
	body := io.Reader(http.NoBody)
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, reqURL, body)
	if err != nil {
		return nil, &apierr.RuntimeError{Method: r.method, Path: path, Err: err}
	}
	c.authorize(req)
	rid := requestid.Gen()
	req.Header.Set(requestid.DefaultHeaderKey, rid)
	req.Header.Set("Accept", contentTypeJS)
	req.Header.Set("User-Agent", c.userAgent)
	if r.body != nil {
		req.Header.Set("Content-Type", contentTypeJS)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(r, path, reqURL, rid, 0, start, nil, err)
		return nil, &apierr.RuntimeError{Method: r.method, Path: path, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(r, path, reqURL, rid, resp.StatusCode, start, nil, err)
		return nil, &apierr.RuntimeError{Method: r.method, Path: path, Err: fmt.Errorf("read response body: %w", err)}
	}
	c.observe(r, path, reqURL, rid, resp.StatusCode, start, respBody, nil)

	if resp.StatusCode != r.expect {
		return nil, &apierr.RuntimeError{
			Method:     r.method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(respBody),
		}
	}
	return &response{status: resp.StatusCode, header: resp.Header, body: respBody}, nil
}

func (c *Client) observe(r request, path, reqURL, rid string, status int, start time.Time, body []byte, err error) {
	latency := time.Since(start)
	if c.metrics != nil {
		c.metrics.observe(r.method, r.path, status, latency)
	}
	c.logger.Debug("reportingcloud request",
		"method", r.method,
		"path", path,
		"status", status,
		"latency_ms", latency.Milliseconds(),
		"request_id", rid,
		"error", err,
	)
	if !c.cfg.Debug || c.debugOut == nil {
		return
	}
	line := c.reqLog.Format(logx.RequestLogEntry{
		Time:      start,
		Method:    r.method,
		Path:      path,
		URL:       reqURL,
		Status:    status,
		Latency:   latency,
		RequestID: rid,
		Bytes:     len(body),
		Body:      truncate(strings.TrimSpace(string(body)), maxDebugBody),
		Err:       err,
	}, c.color)
	if line != "" {
		_, _ = fmt.Fprintln(c.debugOut, line)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
