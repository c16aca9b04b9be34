package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// HTTPError is a non-2xx backend response.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
	// Message is the human readable text extracted from Body, if any.
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// TransportError means the backend could not be reached at all.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func newHTTPError(method, path string, status int, body []byte) *HTTPError {
	return &HTTPError{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Body:       body,
		Message:    extractMessage(body),
	}
}

// extractMessage pulls a readable message out of an error body: a JSON string,
// a JSON object with a message-like field, or short plain text.
func extractMessage(body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return ""
	}

	var str string
	if err := json.Unmarshal(body, &str); err == nil {
		return strings.TrimSpace(str)
	}

	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err == nil {
		for _, key := range []string{"message", "detail", "title", "error"} {
			switch v := obj[key].(type) {
			case string:
				if strings.TrimSpace(v) != "" {
					return strings.TrimSpace(v)
				}
			case map[string]any:
				if msg, ok := v["message"].(string); ok && strings.TrimSpace(msg) != "" {
					return strings.TrimSpace(msg)
				}
			}
		}
		return ""
	}

	if strings.HasPrefix(text, "<") || len(text) > 512 {
		return ""
	}
	return text
}

// IsCanceled reports whether err came from a canceled request. Such errors are
// expected when a newer load supersedes an older one and must not be surfaced.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// StatusCode returns the backend status carried by err, or 0.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

// Message returns the backend's message for err, or fallback.
func Message(err error, fallback string) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		return httpErr.Message
	}
	return fallback
}
