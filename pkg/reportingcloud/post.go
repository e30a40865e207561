package reportingcloud

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/r9s-ai/reportingcloud/pkg/apierr"
	"github.com/r9s-ai/reportingcloud/pkg/assert"
	"github.com/r9s-ai/reportingcloud/pkg/propertymap"
)

type mergeBody struct {
	MergeData     []map[string]any `json:"merge_data"`
	Template      string           `json:"template,omitempty"`
	MergeSettings map[string]any   `json:"merge_settings,omitempty"`
}

type findAndReplaceBody struct {
	FindAndReplaceData [][2]string    `json:"find_and_replace_data"`
	Template           string         `json:"template,omitempty"`
	MergeSettings      map[string]any `json:"merge_settings,omitempty"`
}

// UploadTemplate stores a local template file under its base name.
func (c *Client) UploadTemplate(ctx context.Context, templateFilename string) (bool, error) {
	if err := assert.That(assert.TemplateFilename, templateFilename); err != nil {
		return false, err
	}
	name := filepath.Base(templateFilename)
	if err := assert.That(assert.TemplateName, name); err != nil {
		return false, err
	}
	data, err := readLocal(assert.TemplateFilename, templateFilename)
	if err != nil {
		return false, err
	}
	return c.uploadTemplate(ctx, name, data)
}

// UploadTemplateFromBytes stores data as a template called templateName.
func (c *Client) UploadTemplateFromBytes(ctx context.Context, templateName string, data []byte) (bool, error) {
	if err := assert.That(assert.TemplateName, templateName); err != nil {
		return false, err
	}
	if len(data) == 0 {
		return false, &apierr.InvalidArgumentError{Kind: "TemplateData", Err: errors.New("template data must not be empty")}
	}
	return c.uploadTemplate(ctx, templateName, data)
}

func (c *Client) uploadTemplate(ctx context.Context, name string, data []byte) (bool, error) {
	r, err := newRequest(http.MethodPost, "/templates/upload", http.StatusCreated).
		withJSON(base64.StdEncoding.EncodeToString(data))
	if err != nil {
		return false, err
	}
	r.query.Set("templateName", name)
	if _, err := c.send(ctx, r); err != nil {
		return false, err
	}
	return true, nil
}

// ConvertDocument converts a local document to returnFormat.
func (c *Client) ConvertDocument(ctx context.Context, documentFilename, returnFormat string) ([]byte, error) {
	err := assert.All(
		assert.Arg(assert.DocumentFilename, documentFilename),
		assert.Arg(assert.ReturnFormat, returnFormat),
	)
	if err != nil {
		return nil, err
	}
	data, err := readLocal(assert.DocumentFilename, documentFilename)
	if err != nil {
		return nil, err
	}
	return c.convertDocument(ctx, data, returnFormat)
}

// ConvertDocumentFromBytes converts in-memory document data. name is only
// used to check that the input format is supported.
func (c *Client) ConvertDocumentFromBytes(ctx context.Context, name string, data []byte, returnFormat string) ([]byte, error) {
	err := assert.All(
		assert.Arg(assert.DocumentExtension, name),
		assert.Arg(assert.ReturnFormat, returnFormat),
	)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, &apierr.InvalidArgumentError{Kind: "DocumentData", Err: errors.New("document data must not be empty")}
	}
	return c.convertDocument(ctx, data, returnFormat)
}

func (c *Client) convertDocument(ctx context.Context, data []byte, returnFormat string) ([]byte, error) {
	r, err := newRequest(http.MethodPost, "/document/convert", http.StatusOK).
		withJSON(base64.StdEncoding.EncodeToString(data))
	if err != nil {
		return nil, err
	}
	r.query.Set("returnFormat", strings.ToUpper(returnFormat))
	r.query.Set("test", strconv.FormatBool(c.cfg.Test))
	resp, err := c.send(ctx, r)
	if err != nil {
		return nil, err
	}
	return c.decodeBinary(r, resp)
}

// MergeDocument merges req.MergeData into a template and returns one
// document per record, or a single document when req.Append is set.
func (c *Client) MergeDocument(ctx context.Context, req MergeRequest) ([][]byte, error) {
	var settings map[string]any
	if req.Settings != nil {
		settings = propertymap.MergeSettingsMap.ToWire(*req.Settings)
	}
	return c.mergeDocument(ctx, req, settings)
}

// MergeDocumentWithSettings is MergeDocument with wire-shaped merge settings,
// as read from a JSON or YAML file. req.Settings is ignored.
func (c *Client) MergeDocumentWithSettings(ctx context.Context, req MergeRequest, settings map[string]any) ([][]byte, error) {
	return c.mergeDocument(ctx, req, settings)
}

func (c *Client) mergeDocument(ctx context.Context, req MergeRequest, settings map[string]any) ([][]byte, error) {
	err := assert.All(
		assert.Arg(assert.MergeData, req.MergeData),
		assert.Arg(assert.ReturnFormat, req.ReturnFormat),
	)
	if err != nil {
		return nil, err
	}
	template, err := resolveTemplate(req.TemplateName, req.TemplateFilename)
	if err != nil {
		return nil, err
	}
	if err := assert.That(assert.Boolean, req.Append); err != nil {
		return nil, err
	}
	settings, err = normalizeSettings(settings)
	if err != nil {
		return nil, err
	}

	r, err := newRequest(http.MethodPost, "/document/merge", http.StatusOK).withJSON(mergeBody{
		MergeData:     req.MergeData,
		Template:      template,
		MergeSettings: settings,
	})
	if err != nil {
		return nil, err
	}
	r.query.Set("returnFormat", strings.ToUpper(req.ReturnFormat))
	if req.TemplateName != "" {
		r.query.Set("templateName", req.TemplateName)
	}
	r.query.Set("append", strconv.FormatBool(req.Append))
	r.query.Set("test", strconv.FormatBool(c.cfg.Test))
	resp, err := c.send(ctx, r)
	if err != nil {
		return nil, err
	}
	return c.decodeBinaryList(r, resp)
}

// FindAndReplaceDocument replaces text in a template and returns the result.
func (c *Client) FindAndReplaceDocument(ctx context.Context, req FindAndReplaceRequest) ([]byte, error) {
	err := assert.All(
		assert.Arg(assert.FindAndReplaceData, req.FindAndReplaceData),
		assert.Arg(assert.ReturnFormat, req.ReturnFormat),
	)
	if err != nil {
		return nil, err
	}
	template, err := resolveTemplate(req.TemplateName, req.TemplateFilename)
	if err != nil {
		return nil, err
	}
	var settings map[string]any
	if req.Settings != nil {
		settings = propertymap.MergeSettingsMap.ToWire(*req.Settings)
	}
	if settings, err = normalizeSettings(settings); err != nil {
		return nil, err
	}

	r, err := newRequest(http.MethodPost, "/document/findandreplace", http.StatusOK).withJSON(findAndReplaceBody{
		FindAndReplaceData: req.FindAndReplaceData,
		Template:           template,
		MergeSettings:      settings,
	})
	if err != nil {
		return nil, err
	}
	r.query.Set("returnFormat", strings.ToUpper(req.ReturnFormat))
	if req.TemplateName != "" {
		r.query.Set("templateName", req.TemplateName)
	}
	r.query.Set("test", strconv.FormatBool(c.cfg.Test))
	resp, err := c.send(ctx, r)
	if err != nil {
		return nil, err
	}
	return c.decodeBinary(r, resp)
}

// resolveTemplate enforces that exactly one of name and filename is set and
// returns the inline template payload for a filename.
func resolveTemplate(name, filename string) (string, error) {
	switch {
	case name != "" && filename != "":
		return "", &apierr.InvalidArgumentError{Kind: "Template", Err: errors.New("template name and template filename are mutually exclusive")}
	case name != "":
		return "", assert.That(assert.TemplateName, name)
	case filename != "":
		if err := assert.That(assert.TemplateFilename, filename); err != nil {
			return "", err
		}
		data, err := readLocal(assert.TemplateFilename, filename)
		if err != nil {
			return "", err
		}
		return base64.StdEncoding.EncodeToString(data), nil
	default:
		return "", &apierr.InvalidArgumentError{Kind: "Template", Err: errors.New("template name or template filename is required")}
	}
}

// normalizeSettings validates wire-shaped merge settings and drops keys the
// service does not know.
func normalizeSettings(settings map[string]any) (map[string]any, error) {
	if settings == nil {
		return nil, nil
	}
	if err := assert.That(assert.MergeSettings, settings); err != nil {
		return nil, err
	}
	typed, err := propertymap.MergeSettingsMap.FromWire(settings)
	if err != nil {
		return nil, &apierr.InvalidArgumentError{Kind: assert.MergeSettings.String(), Err: err}
	}
	return propertymap.MergeSettingsMap.ToWire(typed), nil
}

func readLocal(kind assert.Kind, path string) ([]byte, error) {
	// #nosec G304 -- path was validated as a readable regular file.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &apierr.InvalidArgumentError{Kind: kind.String(), Err: err}
	}
	return data, nil
}
