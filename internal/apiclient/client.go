package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	contentTypeJSON = "application/json"
	maxErrorBody    = 64 * 1024
)

// TokenSource yields the bearer token for the caller, or "" when there is none.
type TokenSource interface {
	Token() string
}

type tokenSourceKey struct{}

// WithTokenSource attaches the caller's token source to ctx.
func WithTokenSource(ctx context.Context, src TokenSource) context.Context {
	return context.WithValue(ctx, tokenSourceKey{}, src)
}

// StaticToken is a fixed TokenSource.
type StaticToken string

func (s StaticToken) Token() string { return string(s) }

func tokenFrom(ctx context.Context) string {
	src, ok := ctx.Value(tokenSourceKey{}).(TokenSource)
	if !ok || src == nil {
		return ""
	}
	return src.Token()
}

// Client is the single configured HTTP client every resource service uses.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New builds a client rooted at baseURL (origin plus API prefix).
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewWithHTTPClient lets tests supply their own transport.
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// BaseURL returns the root every path is joined to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues GET path?query and decodes the JSON response into out (if non-nil).
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, query, nil, out)
}

// Post sends body as JSON.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, nil, body, out)
}

// Put sends body as JSON.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, nil, body, out)
}

// Patch sends body as JSON.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPatch, path, nil, body, out)
}

// Delete issues DELETE path?query.
func (c *Client) Delete(ctx context.Context, path string, query url.Values) error {
	return c.doJSON(ctx, http.MethodDelete, path, query, nil, nil)
}

// Ping reports whether the backend answers at all. Any HTTP status counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "", nil, nil)
	if err != nil {
		return err
	}
	err = c.do(req, nil)
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return nil
	}
	return err
}

// PostMultipart uploads a single file under field. The JSON content type is
// not applied; the multipart writer supplies the boundary.
func (c *Client) PostMultipart(ctx context.Context, path, field, filename string, file io.Reader, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("multipart: create part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("multipart: copy file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("multipart: close: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.do(req, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := c.newRequest(ctx, method, path, query, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", contentTypeJSON)
	if token := tokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, ctxErr)
		}
		return &TransportError{Method: req.Method, Path: req.URL.Path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newHTTPError(req.Method, req.URL.Path, resp.StatusCode, raw)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, ctxErr)
		}
		return fmt.Errorf("decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}
