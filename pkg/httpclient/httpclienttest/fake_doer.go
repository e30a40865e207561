package httpclienttest

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/r9s-ai/reportingcloud/pkg/httpclient"
)

type reply struct {
	resp *http.Response
	err  error
}

// FakeDoer implements httpclient.HTTPDoer so callers can run tests without
// making outbound HTTP requests.
type FakeDoer struct {
	t        testing.TB
	mu       sync.Mutex
	replies  []reply
	requests []*http.Request
	bodies   [][]byte
}

// NewFakeDoer returns a FakeDoer seeded with the responses that should be
// returned for each Do call.
func NewFakeDoer(t testing.TB, responses ...*http.Response) *FakeDoer {
	f := &FakeDoer{t: t}
	for _, r := range responses {
		f.replies = append(f.replies, reply{resp: r})
	}
	return f
}

// QueueError makes the next unanswered Do call fail with err.
func (f *FakeDoer) QueueError(err error) *FakeDoer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, reply{err: err})
	return f
}

// Do records the request and its body and returns the next queued reply.
func (f *FakeDoer) Do(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		_ = req.Body.Close()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	f.bodies = append(f.bodies, body)
	if len(f.replies) == 0 {
		f.t.Fatalf("fake http client has no responses left for request %s %s", req.Method, req.URL.String())
		return nil, io.ErrUnexpectedEOF
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	if r.resp != nil {
		r.resp.Request = req
	}
	return r.resp, r.err
}

// Requests returns the HTTP requests captured so far.
func (f *FakeDoer) Requests() []*http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*http.Request(nil), f.requests...)
}

// Body returns the request body captured for the i-th request.
func (f *FakeDoer) Body(i int) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i < 0 || i >= len(f.bodies) {
		return nil
	}
	return f.bodies[i]
}

// Remaining reports how many queued replies were not consumed.
func (f *FakeDoer) Remaining() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.replies)
}

// NewStringResponse builds a minimal http.Response with the provided status
// code and body string.
func NewStringResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

// NewJSONResponse is NewStringResponse with a JSON content type.
func NewJSONResponse(status int, body string) *http.Response {
	resp := NewStringResponse(status, body)
	resp.Header.Set("Content-Type", "application/json; charset=utf-8")
	return resp
}

// NewBytesResponse builds a response carrying raw bytes.
func NewBytesResponse(status int, body []byte) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Header:     make(http.Header),
	}
}

var _ httpclient.HTTPDoer = (*FakeDoer)(nil)
