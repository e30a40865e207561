package reportingcloud

import (
	"context"
	"net/http"
)

// CreateAPIKey creates a new API key and returns it.
func (c *Client) CreateAPIKey(ctx context.Context) (string, error) {
	r := newRequest(http.MethodPut, "/account/apikey", http.StatusCreated)
	resp, err := c.send(ctx, r)
	if err != nil {
		return "", err
	}
	return c.decodeString(r, resp)
}
