// Package backend is the resty client for the microfinance REST API the
// console fronts. Every call owns its failure path: transport problems come
// back as *TransportError, non-2xx answers as *APIError.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrNotFound marks a 404 on a lookup whose absence is meaningful.
var ErrNotFound = errors.New("backend: not found")

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string // backend-provided message, empty when none
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend responded with status %d: %s", e.StatusCode, e.Message)
}

// TransportError means the request could not be sent or the answer could not be read.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MessageOf returns the backend message carried by err, or fallback.
func MessageOf(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// Client talks to one backend base URL, optionally on behalf of one admin.
type Client struct {
	baseURL string
	timeout time.Duration
	token   string
	rc      *resty.Client
}

// New builds a client. Retries are disabled: failures are terminal per user action.
func New(baseURL string, timeout time.Duration) *Client {
	return newClient(baseURL, timeout, "")
}

func newClient(baseURL string, timeout time.Duration, token string) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	if token != "" {
		rc.SetAuthToken(token)
	}
	return &Client{baseURL: baseURL, timeout: timeout, token: token, rc: rc}
}

// WithToken returns a client that authenticates as the given admin.
func (c *Client) WithToken(token string) *Client {
	return newClient(c.baseURL, c.timeout, token)
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.rc.R().SetContext(ctx)
}

// check converts a resty outcome into the package error taxonomy.
func check(op string, resp *resty.Response, err error) error {
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	if resp.IsError() || resp.StatusCode() >= http.StatusMultipleChoices {
		return &APIError{StatusCode: resp.StatusCode(), Message: extractMessage(resp.Body())}
	}
	return nil
}

// extractMessage prefers a JSON "message" field and falls back to the raw text.
func extractMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
		return ""
	}
	return strings.TrimSpace(string(body))
}

// decode unmarshals body into out, unwrapping a {"data": ...} envelope if present.
func decode(op string, body []byte, out interface{}) error {
	if len(body) == 0 || out == nil {
		return nil
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err == nil {
		if data, ok := envelope["data"]; ok && len(envelope) <= 3 {
			body = data
		}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
