package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r9s-ai/reportingcloud/pkg/reportingcloud/rctest"
)

type backend struct {
	srv     *rctest.Server
	cfgPath string
}

func newTestBackend(t *testing.T, opts ...rctest.Option) *backend {
	t.Helper()
	srv := rctest.New(opts...)
	baseURI := srv.Start()
	t.Cleanup(srv.Close)

	cfgPath := filepath.Join(t.TempDir(), "reportingcloud.yaml")
	cfg := "api_key: " + srv.APIKey() + "\n" +
		"base_uri: " + baseURI + "\n" +
		"proxy: direct\n" +
		"timeout_ms: 5000\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))
	return &backend{srv: srv, cfgPath: cfgPath}
}

func (b *backend) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCLI(t, append([]string{"--config", b.cfgPath, "-o", "json"}, args...)...)
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestTemplatesCommands(t *testing.T) {
	b := newTestBackend(t)
	file := writeTemp(t, t.TempDir(), "invoice.tx", "Dear NAME")

	out, err := b.run(t, "templates", "upload", file)
	require.NoError(t, err)
	assert.Equal(t, "true", strings.TrimSpace(out))

	out, err = b.run(t, "templates", "upload", "--name", "copy.docx", file)
	require.NoError(t, err)
	assert.Equal(t, "true", strings.TrimSpace(out))
	assert.Equal(t, []string{"copy.docx", "invoice.tx"}, b.srv.TemplateNames())

	out, err = b.run(t, "templates", "count")
	require.NoError(t, err)
	assert.Equal(t, "2", strings.TrimSpace(out))

	out, err = b.run(t, "templates", "list")
	require.NoError(t, err)
	var list []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 2)
	assert.Contains(t, list[0], "template_name")
	assert.Contains(t, list[0], "modified")
	assert.Contains(t, list[0], "size")

	out, err = b.run(t, "templates", "exists", "invoice.tx")
	require.NoError(t, err)
	assert.Equal(t, "true", strings.TrimSpace(out))

	out, err = b.run(t, "templates", "exists", "missing.tx")
	require.NoError(t, err)
	assert.Equal(t, "false", strings.TrimSpace(out))

	out, err = b.run(t, "templates", "pagecount", "invoice.tx")
	require.NoError(t, err)
	assert.Equal(t, "1", strings.TrimSpace(out))

	dst := filepath.Join(t.TempDir(), "out", "invoice.tx")
	_, err = b.run(t, "templates", "download", "invoice.tx", "--out", dst)
	require.NoError(t, err)
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "Dear NAME", string(got))

	_, err = b.run(t, "templates", "delete", "copy.docx")
	require.NoError(t, err)
	assert.Equal(t, []string{"invoice.tx"}, b.srv.TemplateNames())

	_, err = b.run(t, "templates", "delete", "copy.docx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestTemplatesThumbnailsWritesImages(t *testing.T) {
	b := newTestBackend(t, rctest.WithTemplate("invoice.tx", []byte("page")))
	dir := t.TempDir()

	out, err := b.run(t, "templates", "thumbnails", "invoice.tx", "--zoom", "50", "--format", "png", "--out-dir", dir)
	require.NoError(t, err)
	var recs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 1)
	assert.EqualValues(t, 1, recs[0]["page"])

	img, err := os.ReadFile(filepath.Join(dir, "invoice-1.png"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, []byte("\x89PNG")))
}

func TestInvalidArgumentSendsNothing(t *testing.T) {
	b := newTestBackend(t)
	_, err := b.run(t, "templates", "exists", "../secret.tx")
	require.Error(t, err)
	assert.Zero(t, b.srv.Hits())
}

func TestAPIKeysCommands(t *testing.T) {
	b := newTestBackend(t)

	out, err := b.run(t, "apikeys", "create")
	require.NoError(t, err)
	var key string
	require.NoError(t, json.Unmarshal([]byte(out), &key))
	assert.NotEmpty(t, key)

	out, err = b.run(t, "apikeys", "list")
	require.NoError(t, err)
	var keys []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &keys))
	assert.Len(t, keys, 2)

	_, err = b.run(t, "apikeys", "delete", key)
	require.NoError(t, err)
}

func TestDocumentMerge(t *testing.T) {
	b := newTestBackend(t, rctest.WithTemplate("letter.tx", []byte("Hello")))
	dir := t.TempDir()
	data := writeTemp(t, dir, "data.json", `[{"name":"Ann"},{"name":"Bob"}]`)
	settings := writeTemp(t, dir, "settings.yaml", "culture: de-DE\nauthor: Ann\nunknown_key: 1\n")
	outDir := filepath.Join(dir, "out")

	out, err := b.run(t, "document", "merge",
		"--template-name", "letter.tx", "--data", data, "--settings", settings,
		"--format", "TXT", "--out-dir", outDir)
	require.NoError(t, err)

	var files []string
	require.NoError(t, json.Unmarshal([]byte(out), &files))
	require.Len(t, files, 2)
	doc, err := os.ReadFile(filepath.Join(outDir, "document-2.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(doc), "%RC-TXT")
	assert.Contains(t, string(doc), `"name":"Bob"`)
}

func TestDocumentMergeAppendToStdout(t *testing.T) {
	b := newTestBackend(t, rctest.WithTemplate("letter.tx", []byte("Hello")))
	data := writeTemp(t, t.TempDir(), "data.json", `[{"n":1},{"n":2}]`)

	out, err := b.run(t, "document", "merge", "--template-name", "letter.tx", "--data", data, "--append")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "%RC-PDF\nHello\n"))
}

func TestDocumentMergeRejectsBadCulture(t *testing.T) {
	b := newTestBackend(t, rctest.WithTemplate("letter.tx", []byte("Hello")))
	dir := t.TempDir()
	data := writeTemp(t, dir, "data.json", `[{"name":"Ann"}]`)
	settings := writeTemp(t, dir, "settings.json", `{"culture": "xx-XX"}`)

	_, err := b.run(t, "document", "merge", "--template-name", "letter.tx", "--data", data, "--settings", settings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "culture")
	assert.Zero(t, b.srv.Hits())
}

func TestDocumentFindReplaceAndConvert(t *testing.T) {
	b := newTestBackend(t)
	dir := t.TempDir()
	tmpl := writeTemp(t, dir, "memo.tx", "Hello NAME")
	pairs := writeTemp(t, dir, "pairs.json", `{"NAME": "World"}`)
	dst := filepath.Join(dir, "memo.pdf")

	_, err := b.run(t, "document", "findreplace", "--template-file", tmpl, "--pairs", pairs, "--out", dst)
	require.NoError(t, err)
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "%RC-PDF\nHello World\n", string(got))

	doc := writeTemp(t, dir, "page.html", "<p>hi</p>")
	out, err := b.run(t, "document", "convert", doc, "--format", "TXT")
	require.NoError(t, err)
	assert.Equal(t, "%RC-TXT\n<p>hi</p>\n", out)
}

func TestMockAccountSettings(t *testing.T) {
	out, err := runCLI(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "--mock", "-o", "json", "account", "settings")
	require.NoError(t, err)
	var settings map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &settings))
	assert.Contains(t, settings, "serial_number")
	assert.Contains(t, settings, "max_documents")
}

func TestMockFontsTable(t *testing.T) {
	out, err := runCLI(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "--mock", "fonts")
	require.NoError(t, err)
	assert.Contains(t, out, "font")
	assert.Contains(t, out, "Arial")
}

func TestCulturesJSON(t *testing.T) {
	out, err := runCLI(t, "-o", "json", "cultures")
	require.NoError(t, err)
	var cultures []string
	require.NoError(t, json.Unmarshal([]byte(out), &cultures))
	assert.Contains(t, cultures, "de-DE")
	assert.Contains(t, cultures, "en-US")
}

func TestInvalidOutputFormat(t *testing.T) {
	_, err := runCLI(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "--mock", "-o", "yaml", "fonts")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output")
}

func TestParseFindReplacePairs(t *testing.T) {
	pairs, err := parseFindReplacePairs([]byte(`{"b":"2","a":"1"}`))
	require.NoError(t, err)
	assert.Equal(t, [][2]string{{"a", "1"}, {"b", "2"}}, pairs)

	pairs, err = parseFindReplacePairs([]byte(`[["x","y"],["z",""]]`))
	require.NoError(t, err)
	assert.Equal(t, [][2]string{{"x", "y"}, {"z", ""}}, pairs)

	_, err = parseFindReplacePairs([]byte(`"nope"`))
	require.Error(t, err)
}

func TestParseMergeData(t *testing.T) {
	recs, err := parseMergeData([]byte(`[{"qty": 3}]`))
	require.NoError(t, err)
	assert.Equal(t, json.Number("3"), recs[0]["qty"])

	_, err = parseMergeData([]byte(`[1]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item 0")
}
