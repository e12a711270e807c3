package kugou

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// getJSON makes a GET request to the gateway and parses the JSON body.
//
// Every request carries a timestamp query parameter (current time in
// milliseconds) to defeat caching on the remote side. When credential
// is non-empty it is sent as a Cookie header. Non-2xx responses and
// transport errors yield an error; the caller sees no retries.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, credential string) (*Envelope, http.Header, error) {
	reqURL, err := c.buildURL(path, params)
	if err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if credential != "" {
		req.Header.Set("Cookie", credential)
	}

	return c.do(req, path)
}

// postJSON makes a POST request with a JSON body.
func (c *Client) postJSON(ctx context.Context, path string, params url.Values, body interface{}, credential string) (*Envelope, http.Header, error) {
	reqURL, err := c.buildURL(path, params)
	if err != nil {
		return nil, nil, err
	}

	if body == nil {
		body = struct{}{}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if credential != "" {
		req.Header.Set("Cookie", credential)
	}

	return c.do(req, path)
}

// buildURL joins the configured base address with path and attaches
// query parameters plus the anti-caching timestamp.
func (c *Client) buildURL(path string, params url.Values) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid API address %q: %w", c.baseURL, err)
	}

	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("invalid request path %q: %w", path, err)
	}

	u := base.ResolveReference(ref)

	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func (c *Client) do(req *http.Request, path string) (*Envelope, http.Header, error) {
	c.logDebugf("kugou: %s %s", req.Method, path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("http request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.Header, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.Header, &StatusError{Code: resp.StatusCode, Status: resp.Status, Path: path}
	}

	env, err := ParseEnvelope(raw)
	if err != nil {
		return nil, resp.Header, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	return env, resp.Header, nil
}
