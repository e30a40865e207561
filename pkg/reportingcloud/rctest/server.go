// Package rctest is an in-memory ReportingCloud backend for tests and offline
// CLI use. It implements the endpoints the client calls with deterministic,
// fake rendering.
package rctest

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type storedTemplate struct {
	data     []byte
	modified time.Time
}

type failure struct {
	status  int
	message string
}

// Server holds the fake account state.
type Server struct {
	mu        sync.Mutex
	templates map[string]storedTemplate
	keys      map[string]bool
	keyOrder  []string
	fonts     []string
	created   int
	failures  []failure

	username string
	password string
	version  string
	now      func() time.Time

	hits   atomic.Int64
	engine *gin.Engine
	ts     *httptest.Server
}

type Option func(*Server)

// WithBasicAuth accepts HTTP basic credentials in addition to API keys.
func WithBasicAuth(username, password string) Option {
	return func(s *Server) {
		s.username = username
		s.password = password
	}
}

// WithTemplate seeds a stored template.
func WithTemplate(name string, data []byte) Option {
	return func(s *Server) {
		s.templates[name] = storedTemplate{data: append([]byte(nil), data...), modified: s.now()}
	}
}

// WithVersion serves the API under /<version> instead of /v1.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = strings.Trim(version, "/")
	}
}

// WithClock fixes the time used for template modification stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// New returns a Server with one active API key.
func New(opts ...Option) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		templates: map[string]storedTemplate{},
		keys:      map[string]bool{},
		fonts:     []string{"Arial", "Courier New", "Times New Roman", "Verdana"},
		version:   "v1",
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.addKey(newKey())
	s.engine = s.routes()
	return s
}

func newKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *Server) addKey(key string) {
	s.keys[key] = true
	s.keyOrder = append(s.keyOrder, key)
}

// APIKey returns the key created with the server.
func (s *Server) APIKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range s.keyOrder {
		if s.keys[k] {
			return k
		}
	}
	return ""
}

// Handler exposes the routes for embedding in another server.
func (s *Server) Handler() http.Handler { return s.engine }

// Start listens on a loopback port and returns the base URI.
func (s *Server) Start() string {
	s.ts = httptest.NewServer(s.engine)
	return s.ts.URL
}

func (s *Server) Close() {
	if s.ts != nil {
		s.ts.Close()
	}
}

// Hits returns the number of requests received, authorized or not.
func (s *Server) Hits() int64 { return s.hits.Load() }

// FailNext makes the next request answer status with a JSON message body.
func (s *Server) FailNext(status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failure{status: status, message: message})
}

// TemplateNames lists stored templates, sorted.
func (s *Server) TemplateNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.templates))
	for name := range s.templates {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Template returns the stored bytes of a template.
func (s *Server) Template(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.templates[name]
	return t.data, ok
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.countHits, s.injectFailures)

	v := r.Group("/"+s.version, authMiddleware(s.username, s.password, s.matchKey))

	v.GET("/account/settings", s.handleAccountSettings)
	v.GET("/account/apikeys", s.handleListKeys)
	v.PUT("/account/apikey", s.handleCreateKey)
	v.DELETE("/account/apikey", s.handleDeleteKey)

	v.GET("/templates/count", s.handleTemplateCount)
	v.GET("/templates/list", s.handleTemplateList)
	v.GET("/templates/pagecount", s.handlePageCount)
	v.GET("/templates/thumbnails", s.handleThumbnails)
	v.GET("/templates/exists", s.handleExists)
	v.GET("/templates/download", s.handleDownload)
	v.DELETE("/templates/delete", s.handleDeleteTemplate)
	v.POST("/templates/upload", s.handleUpload)

	v.GET("/fonts/list", s.handleFonts)

	v.POST("/document/convert", s.handleConvert)
	v.POST("/document/merge", s.handleMerge)
	v.POST("/document/findandreplace", s.handleFindAndReplace)
	return r
}

func (s *Server) countHits(c *gin.Context) {
	s.hits.Add(1)
	c.Next()
}

func (s *Server) injectFailures(c *gin.Context) {
	s.mu.Lock()
	var f *failure
	if len(s.failures) > 0 {
		f = &s.failures[0]
		s.failures = s.failures[1:]
	}
	s.mu.Unlock()
	if f != nil {
		c.AbortWithStatusJSON(f.status, gin.H{"message": f.message})
		return
	}
	c.Next()
}

func (s *Server) matchKey(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[key]
}
