package reportingcloud

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/r9s-ai/reportingcloud/pkg/assert"
	"github.com/r9s-ai/reportingcloud/pkg/propertymap"
)

func (c *Client) GetAccountSettings(ctx context.Context) (AccountSettings, error) {
	r := newRequest(http.MethodGet, "/account/settings", http.StatusOK)
	resp, err := c.send(ctx, r)
	if err != nil {
		return AccountSettings{}, err
	}
	obj, err := c.decodeObject(r, resp)
	if err != nil {
		return AccountSettings{}, err
	}
	out, err := propertymap.AccountSettingsMap.FromWire(obj)
	if err != nil {
		return AccountSettings{}, c.malformed(r, resp, err)
	}
	return out, nil
}

func (c *Client) GetAPIKeys(ctx context.Context) ([]APIKey, error) {
	r := newRequest(http.MethodGet, "/account/apikeys", http.StatusOK)
	resp, err := c.send(ctx, r)
	if err != nil {
		return nil, err
	}
	arr, err := c.decodeArray(r, resp)
	if err != nil {
		return nil, err
	}
	out, err := propertymap.APIKeyMap.FromWireList(arr)
	if err != nil {
		return nil, c.malformed(r, resp, err)
	}
	return out, nil
}

func (c *Client) GetTemplateCount(ctx context.Context) (int, error) {
	r := newRequest(http.MethodGet, "/templates/count", http.StatusOK)
	resp, err := c.send(ctx, r)
	if err != nil {
		return 0, err
	}
	return c.decodeInt(r, resp)
}

func (c *Client) GetTemplateList(ctx context.Context) ([]TemplateInfo, error) {
	r := newRequest(http.MethodGet, "/templates/list", http.StatusOK)
	resp, err := c.send(ctx, r)
	if err != nil {
		return nil, err
	}
	arr, err := c.decodeArray(r, resp)
	if err != nil {
		return nil, err
	}
	out, err := propertymap.TemplateInfoMap.FromWireList(arr)
	if err != nil {
		return nil, c.malformed(r, resp, err)
	}
	return out, nil
}

func (c *Client) GetTemplatePageCount(ctx context.Context, templateName string) (int, error) {
	if err := assert.That(assert.TemplateName, templateName); err != nil {
		return 0, err
	}
	r := newRequest(http.MethodGet, "/templates/pagecount", http.StatusOK)
	r.query.Set("templateName", templateName)
	resp, err := c.send(ctx, r)
	if err != nil {
		return 0, err
	}
	return c.decodeInt(r, resp)
}

// GetTemplateThumbnails renders pages fromPage..toPage of a stored template.
func (c *Client) GetTemplateThumbnails(ctx context.Context, templateName string, zoomFactor, fromPage, toPage int, imageFormat string) ([]Thumbnail, error) {
	err := assert.All(
		assert.Arg(assert.TemplateName, templateName),
		assert.Arg(assert.ZoomFactor, zoomFactor),
		assert.Arg(assert.Page, fromPage),
		assert.Arg(assert.Page, toPage),
		assert.Arg(assert.ImageFormat, imageFormat),
	)
	if err != nil {
		return nil, err
	}
	r := newRequest(http.MethodGet, "/templates/thumbnails", http.StatusOK)
	r.query.Set("templateName", templateName)
	r.query.Set("zoomFactor", strconv.Itoa(zoomFactor))
	r.query.Set("fromPage", strconv.Itoa(fromPage))
	r.query.Set("toPage", strconv.Itoa(toPage))
	r.query.Set("imageFormat", strings.ToUpper(imageFormat))
	resp, err := c.send(ctx, r)
	if err != nil {
		return nil, err
	}
	images, err := c.decodeBinaryList(r, resp)
	if err != nil {
		return nil, err
	}
	out := make([]Thumbnail, 0, len(images))
	for i, img := range images {
		out = append(out, Thumbnail{
			Page:  propertymap.Ptr(int64(fromPage + i)),
			Image: propertymap.Ptr(img),
		})
	}
	return out, nil
}

// TemplateExists reports whether a stored template of that name exists.
func (c *Client) TemplateExists(ctx context.Context, templateName string) (bool, error) {
	if err := assert.That(assert.TemplateName, templateName); err != nil {
		return false, err
	}
	r := newRequest(http.MethodGet, "/templates/exists", http.StatusOK)
	r.query.Set("templateName", templateName)
	resp, err := c.send(ctx, r)
	if err != nil {
		return notFoundAsFalse(err)
	}
	return c.decodeBool(r, resp)
}

// DownloadTemplate returns the raw bytes of a stored template.
func (c *Client) DownloadTemplate(ctx context.Context, templateName string) ([]byte, error) {
	if err := assert.That(assert.TemplateName, templateName); err != nil {
		return nil, err
	}
	r := newRequest(http.MethodGet, "/templates/download", http.StatusOK)
	r.query.Set("templateName", templateName)
	resp, err := c.send(ctx, r)
	if err != nil {
		return nil, err
	}
	return c.decodeBinary(r, resp)
}

func (c *Client) GetFontList(ctx context.Context) ([]string, error) {
	r := newRequest(http.MethodGet, "/fonts/list", http.StatusOK)
	resp, err := c.send(ctx, r)
	if err != nil {
		return nil, err
	}
	return c.decodeStrings(r, resp)
}
