package reportingcloud

import (
	"context"
	"net/http"

	"github.com/r9s-ai/reportingcloud/pkg/assert"
)

// DeleteAPIKey removes an API key from the account. It returns false when the
// key does not exist.
func (c *Client) DeleteAPIKey(ctx context.Context, key string) (bool, error) {
	if err := assert.That(assert.APIKey, key); err != nil {
		return false, err
	}
	r := newRequest(http.MethodDelete, "/account/apikey", http.StatusOK)
	r.query.Set("key", key)
	if _, err := c.send(ctx, r); err != nil {
		return notFoundAsFalse(err)
	}
	return true, nil
}

// DeleteTemplate removes a stored template. It returns false when no template
// of that name exists.
func (c *Client) DeleteTemplate(ctx context.Context, templateName string) (bool, error) {
	if err := assert.That(assert.TemplateName, templateName); err != nil {
		return false, err
	}
	r := newRequest(http.MethodDelete, "/templates/delete", http.StatusNoContent)
	r.query.Set("templateName", templateName)
	if _, err := c.send(ctx, r); err != nil {
		return notFoundAsFalse(err)
	}
	return true, nil
}
