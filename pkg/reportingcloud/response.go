package reportingcloud

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/r9s-ai/reportingcloud/pkg/apierr"
	"github.com/r9s-ai/reportingcloud/pkg/jsonutil"
)

const maxErrorMessage = 512

var messagePaths = []string{"$.message", "$.Message", "$.error.message", "$.errors[*].message"}

// errorMessage extracts the service's explanation from an error body.
func errorMessage(body []byte) string {
	s := strings.TrimSpace(string(body))
	if s == "" {
		return ""
	}
	if obj, err := jsonutil.DecodeObject(body, "error body"); err == nil {
		for _, p := range messagePaths {
			if msg := strings.TrimSpace(jsonutil.GetStringByPath(obj, p)); msg != "" {
				return msg
			}
		}
	}
	var str string
	if json.Unmarshal(body, &str) == nil && strings.TrimSpace(str) != "" {
		s = strings.TrimSpace(str)
	}
	return truncate(s, maxErrorMessage)
}

// notFoundAsFalse maps a 404 RuntimeError to (false, nil).
func notFoundAsFalse(err error) (bool, error) {
	var rt *apierr.RuntimeError
	if errors.As(err, &rt) && rt.IsNotFound() {
		return false, nil
	}
	return false, err
}

func (c *Client) malformed(r request, resp *response, err error) error {
	return &apierr.RuntimeError{
		Method:     r.method,
		Path:       c.versionedPath(r.path),
		StatusCode: resp.status,
		Message:    "malformed response",
		Err:        err,
	}
}

func (c *Client) decodeObject(r request, resp *response) (map[string]any, error) {
	obj, err := jsonutil.DecodeObject(resp.body, r.path)
	if err != nil {
		return nil, c.malformed(r, resp, err)
	}
	return obj, nil
}

func (c *Client) decodeArray(r request, resp *response) ([]any, error) {
	arr, err := jsonutil.DecodeArray(resp.body, r.path)
	if err != nil {
		return nil, c.malformed(r, resp, err)
	}
	return arr, nil
}

func (c *Client) decodeInt(r request, resp *response) (int, error) {
	var n json.Number
	if err := json.Unmarshal(resp.body, &n); err != nil {
		return 0, c.malformed(r, resp, err)
	}
	v, ok := jsonutil.Int64(n)
	if !ok {
		return 0, c.malformed(r, resp, fmt.Errorf("expected integer, got %s", n))
	}
	return int(v), nil
}

func (c *Client) decodeBool(r request, resp *response) (bool, error) {
	var b bool
	if err := json.Unmarshal(resp.body, &b); err != nil {
		return false, c.malformed(r, resp, err)
	}
	return b, nil
}

func (c *Client) decodeString(r request, resp *response) (string, error) {
	var s string
	if err := json.Unmarshal(resp.body, &s); err != nil {
		return "", c.malformed(r, resp, err)
	}
	return s, nil
}

func (c *Client) decodeStrings(r request, resp *response) ([]string, error) {
	var out []string
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return nil, c.malformed(r, resp, err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// decodeBinary reads a JSON string holding base64 data.
func (c *Client) decodeBinary(r request, resp *response) ([]byte, error) {
	s, err := c.decodeString(r, resp)
	if err != nil {
		return nil, err
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, c.malformed(r, resp, err)
	}
	return b, nil
}

// decodeBinaryList reads a JSON array of base64 strings.
func (c *Client) decodeBinaryList(r request, resp *response) ([][]byte, error) {
	list, err := c.decodeStrings(r, resp)
	if err != nil {
		return nil, err
	}
	out := make([][]byte, 0, len(list))
	for i, s := range list {
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, c.malformed(r, resp, fmt.Errorf("item %d: %w", i, err))
		}
		out = append(out, b)
	}
	return out, nil
}
