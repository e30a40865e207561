package rctest

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/r9s-ai/reportingcloud/pkg/validator"
)

const (
	maxDocuments = 1000
	maxTemplates = 100
	pageSize     = 1024
)

// thumbnailPNG is the 8-byte PNG signature; every thumbnail page starts with it.
var thumbnailPNG = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func fail(c *gin.Context, status int, format string, args ...any) {
	c.AbortWithStatusJSON(status, gin.H{"message": fmt.Sprintf(format, args...)})
}

// templateName reads and validates the templateName query parameter.
func templateName(c *gin.Context) (string, bool) {
	name := c.Query("templateName")
	if err := validator.TemplateName.Check(name); err != nil {
		fail(c, http.StatusBadRequest, "%s", err.Error())
		return "", false
	}
	return name, true
}

func readBase64Body(c *gin.Context) ([]byte, bool) {
	var s string
	if err := c.ShouldBindJSON(&s); err != nil {
		fail(c, http.StatusBadRequest, "body must be a base64 encoded JSON string")
		return nil, false
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil || len(b) == 0 {
		fail(c, http.StatusBadRequest, "body must be a base64 encoded JSON string")
		return nil, false
	}
	return b, true
}

func pageCount(data []byte) int {
	return 1 + len(data)/pageSize
}

func (s *Server) handleAccountSettings(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{
		"serial_number":      "TRIAL-" + strings.ToUpper(s.keyOrder[0][:8]),
		"created_documents":  s.created,
		"uploaded_templates": len(s.templates),
		"max_documents":      maxDocuments,
		"max_templates":      maxTemplates,
		"valid_until":        s.now().AddDate(1, 0, 0).Format(time.RFC3339),
	})
}

func (s *Server) handleListKeys(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]gin.H, 0, len(s.keyOrder))
	for _, k := range s.keyOrder {
		if active, ok := s.keys[k]; ok {
			out = append(out, gin.H{"key": k, "active": active})
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleCreateKey(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := newKey()
	s.addKey(key)
	c.JSON(http.StatusCreated, key)
}

func (s *Server) handleDeleteKey(c *gin.Context) {
	key := c.Query("key")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.keys[key]; !ok {
		fail(c, http.StatusNotFound, "API key not found")
		return
	}
	delete(s.keys, key)
	c.Status(http.StatusOK)
}

func (s *Server) handleTemplateCount(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, len(s.templates))
}

func (s *Server) handleTemplateList(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.templates))
	for name := range s.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]gin.H, 0, len(names))
	for _, name := range names {
		t := s.templates[name]
		out = append(out, gin.H{
			"template_name": name,
			"modified":      t.modified.UTC().Format(time.RFC3339),
			"size":          len(t.data),
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) lookup(c *gin.Context) (storedTemplate, bool) {
	name, ok := templateName(c)
	if !ok {
		return storedTemplate{}, false
	}
	s.mu.Lock()
	t, found := s.templates[name]
	s.mu.Unlock()
	if !found {
		fail(c, http.StatusNotFound, "template %q not found", name)
		return storedTemplate{}, false
	}
	return t, true
}

func (s *Server) handlePageCount(c *gin.Context) {
	t, ok := s.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, pageCount(t.data))
}

func (s *Server) handleThumbnails(c *gin.Context) {
	t, ok := s.lookup(c)
	if !ok {
		return
	}
	from, err1 := strconv.Atoi(c.Query("fromPage"))
	to, err2 := strconv.Atoi(c.Query("toPage"))
	zoom, err3 := strconv.Atoi(c.Query("zoomFactor"))
	if err1 != nil || err2 != nil || err3 != nil || from < 1 || to < from {
		fail(c, http.StatusBadRequest, "invalid page range or zoom factor")
		return
	}
	if err := validator.ImageFormat.Check(c.Query("imageFormat")); err != nil {
		fail(c, http.StatusBadRequest, "%s", err.Error())
		return
	}
	if last := pageCount(t.data); to > last {
		to = last
	}
	out := make([]string, 0)
	for p := from; p <= to; p++ {
		img := append(append([]byte(nil), thumbnailPNG...), []byte(fmt.Sprintf("page=%d zoom=%d", p, zoom))...)
		out = append(out, base64.StdEncoding.EncodeToString(img))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleExists(c *gin.Context) {
	name, ok := templateName(c)
	if !ok {
		return
	}
	s.mu.Lock()
	_, found := s.templates[name]
	s.mu.Unlock()
	c.JSON(http.StatusOK, found)
}

func (s *Server) handleDownload(c *gin.Context) {
	t, ok := s.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, base64.StdEncoding.EncodeToString(t.data))
}

func (s *Server) handleDeleteTemplate(c *gin.Context) {
	name, ok := templateName(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.templates[name]; !found {
		fail(c, http.StatusNotFound, "template %q not found", name)
		return
	}
	delete(s.templates, name)
	c.Status(http.StatusNoContent)
}

func (s *Server) handleUpload(c *gin.Context) {
	name, ok := templateName(c)
	if !ok {
		return
	}
	data, ok := readBase64Body(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.templates[name]; !exists && len(s.templates) >= maxTemplates {
		fail(c, http.StatusForbidden, "template quota of %d reached", maxTemplates)
		return
	}
	s.templates[name] = storedTemplate{data: data, modified: s.now()}
	c.Status(http.StatusCreated)
}

func (s *Server) handleFonts(c *gin.Context) {
	c.JSON(http.StatusOK, s.fonts)
}

func returnFormat(c *gin.Context) (string, bool) {
	f := strings.ToUpper(c.Query("returnFormat"))
	if err := validator.ReturnFormat.Check(f); err != nil {
		fail(c, http.StatusBadRequest, "%s", err.Error())
		return "", false
	}
	return f, true
}

// render produces the fake output document for a format.
func render(format string, parts ...[]byte) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%%RC-%s\n", format)
	for _, p := range parts {
		b.Write(p)
		b.WriteByte('\n')
	}
	return b.Bytes()
}

func (s *Server) handleConvert(c *gin.Context) {
	format, ok := returnFormat(c)
	if !ok {
		return
	}
	data, ok := readBase64Body(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, base64.StdEncoding.EncodeToString(render(format, data)))
}

type documentBody struct {
	MergeData          []map[string]any `json:"merge_data"`
	FindAndReplaceData [][2]string      `json:"find_and_replace_data"`
	Template           string           `json:"template"`
	MergeSettings      map[string]any   `json:"merge_settings"`
}

// resolveTemplate returns the inline template or the stored one named in the
// query, answering the request itself on failure.
func (s *Server) resolveTemplate(c *gin.Context, body documentBody) ([]byte, bool) {
	if body.Template != "" {
		b, err := base64.StdEncoding.DecodeString(body.Template)
		if err != nil {
			fail(c, http.StatusBadRequest, "template must be base64 encoded")
			return nil, false
		}
		return b, true
	}
	t, ok := s.lookup(c)
	return t.data, ok
}

func (s *Server) bindDocument(c *gin.Context) (documentBody, bool) {
	var body documentBody
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		fail(c, http.StatusBadRequest, "malformed request body: %v", err)
		return body, false
	}
	if body.MergeSettings != nil {
		if err := validator.MergeSettings.Check(body.MergeSettings); err != nil {
			fail(c, http.StatusBadRequest, "%s", err.Error())
			return body, false
		}
	}
	return body, true
}

func (s *Server) handleMerge(c *gin.Context) {
	format, ok := returnFormat(c)
	if !ok {
		return
	}
	body, ok := s.bindDocument(c)
	if !ok {
		return
	}
	if len(body.MergeData) == 0 {
		fail(c, http.StatusBadRequest, "merge_data must contain at least one record")
		return
	}
	tmpl, ok := s.resolveTemplate(c, body)
	if !ok {
		return
	}
	docs := make([][]byte, 0, len(body.MergeData))
	for _, rec := range body.MergeData {
		b, _ := json.Marshal(rec)
		docs = append(docs, b)
	}
	var out []string
	if c.Query("append") == "true" {
		out = []string{base64.StdEncoding.EncodeToString(render(format, append([][]byte{tmpl}, docs...)...))}
	} else {
		for _, d := range docs {
			out = append(out, base64.StdEncoding.EncodeToString(render(format, tmpl, d)))
		}
	}
	if c.Query("test") != "true" {
		s.mu.Lock()
		s.created += len(out)
		s.mu.Unlock()
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleFindAndReplace(c *gin.Context) {
	format, ok := returnFormat(c)
	if !ok {
		return
	}
	body, ok := s.bindDocument(c)
	if !ok {
		return
	}
	if len(body.FindAndReplaceData) == 0 {
		fail(c, http.StatusBadRequest, "find_and_replace_data must contain at least one pair")
		return
	}
	tmpl, ok := s.resolveTemplate(c, body)
	if !ok {
		return
	}
	text := string(tmpl)
	for _, p := range body.FindAndReplaceData {
		text = strings.ReplaceAll(text, p[0], p[1])
	}
	c.JSON(http.StatusOK, base64.StdEncoding.EncodeToString(render(format, []byte(text))))
}
