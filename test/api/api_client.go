/*
Copyright 2024-2025 the Unikorn Authors.
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

//nolint:err113,revive // dynamic errors and naming conventions acceptable in test code
package api

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/onsi/ginkgo/v2"

	"github.com/nscaledev/books-api-tests/pkg/openapi"
)

// TokenSource supplies bearer tokens to the client.  Invalidate is called
// when the service rejects a token so the next request fetches a new one.
type TokenSource interface {
	Token(ctx context.Context) (*AuthToken, error)
	Invalidate()
}

type APIClient struct {
	baseURL   string
	client    *http.Client
	authToken string
	tokens    TokenSource
	config    *TestConfig
	endpoints *Endpoints
	validator *ContractValidator
}

func NewAPIClient(baseURL string) (*APIClient, error) {
	config, err := LoadTestConfig()
	if err != nil {
		return nil, err
	}

	if baseURL == "" {
		baseURL = config.BaseURL
	}

	return newAPIClientWithConfig(config, baseURL), nil
}

func NewAPIClientWithConfig(config *TestConfig) *APIClient {
	return newAPIClientWithConfig(config, config.BaseURL)
}

// common constructor logic.
func newAPIClientWithConfig(config *TestConfig, baseURL string) *APIClient {
	c := &APIClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: config.RequestTimeout,
		},
		authToken: config.AuthToken,
		config:    config,
		endpoints: NewEndpoints(),
	}

	if config.ValidateResponses {
		validator, err := NewContractValidator()
		if err != nil {
			ginkgo.GinkgoWriter.Printf("Warning: response validation disabled: %v\n", err)
		} else {
			c.validator = validator
		}
	}

	return c
}

func (c *APIClient) SetAuthToken(token string) {
	c.authToken = token
}

// WithAuthToken returns a copy of the client that authenticates with a static token.
func (c *APIClient) WithAuthToken(token string) *APIClient {
	clone := *c
	clone.authToken = token
	clone.tokens = nil

	return &clone
}

// WithTokenSource returns a copy of the client that authenticates with tokens
// from the source.
func (c *APIClient) WithTokenSource(tokens TokenSource) *APIClient {
	clone := *c
	clone.tokens = tokens

	return &clone
}

func (c *APIClient) BaseURL() string {
	return c.baseURL
}

func (c *APIClient) Endpoints() *Endpoints {
	return c.endpoints
}

// RawJSON is sent as the request body verbatim with a JSON content type,
// it need not be valid JSON.
type RawJSON string

type requestOptions struct {
	bearer  *string
	noAuth  bool
	headers map[string]string
}

// RequestOption modifies a single request.
type RequestOption func(*requestOptions)

// WithBearer authenticates the request with the given token, overriding the
// client's own authentication.  An empty token sends no Authorization header.
func WithBearer(token string) RequestOption {
	return func(o *requestOptions) {
		o.bearer = &token
		o.noAuth = false
	}
}

// WithoutAuth sends the request without an Authorization header.
func WithoutAuth() RequestOption {
	return func(o *requestOptions) {
		o.noAuth = true
		o.bearer = nil
	}
}

// WithHeader sets an arbitrary request header.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = map[string]string{}
		}

		o.headers[key] = value
	}
}

// Response is a fully read HTTP response.  Error statuses are data here, it
// is up to the caller to assert on them.
type Response struct {
	Method     string
	Path       string
	StatusCode int
	Header     http.Header
	Body       []byte
	TraceID    string

	request *http.Request
}

// DecodeJSON unmarshals the body.
func (r *Response) DecodeJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("unmarshaling %s %s response (status %d, trace ID: %s): %w", r.Method, r.Path, r.StatusCode, r.TraceID, err)
	}

	return nil
}

// Field returns a top level field of a JSON object body.
func (r *Response) Field(name string) (any, bool) {
	var object map[string]any
	if err := json.Unmarshal(r.Body, &object); err != nil {
		return nil, false
	}

	value, ok := object[name]

	return value, ok
}

// ExpectStatus returns an error unless the status is in the set.
func (r *Response) ExpectStatus(statuses StatusSet) error {
	if statuses.Contains(r.StatusCode) {
		return nil
	}

	return fmt.Errorf("unexpected status code: expected %s, got %d, body: %s (trace ID: %s)", statuses, r.StatusCode, string(r.Body), r.TraceID)
}

func (r *Response) String() string {
	return fmt.Sprintf("%s %s -> %d %s (trace ID: %s)", r.Method, r.Path, r.StatusCode, string(r.Body), r.TraceID)
}

// logError logs a generic error with trace context.
func (c *APIClient) logError(method, path string, duration time.Duration, traceParent string, err error, context string) {
	ginkgo.GinkgoWriter.Printf("[%s %s] ERROR %s duration=%s traceparent=%s error=%v\n", method, path, context, duration, traceParent, err)
	c.logTraceContext(traceParent)
}

// logErrorWithStatus logs an error with HTTP status code.
func (c *APIClient) logErrorWithStatus(method, path string, duration time.Duration, statusCode int, traceParent string, err error, context string) {
	ginkgo.GinkgoWriter.Printf("[%s %s] ERROR %s duration=%s status=%d traceparent=%s error=%v\n", method, path, context, duration, statusCode, traceParent, err)
	c.logTraceContext(traceParent)
}

// logTraceContext logs the trace context information.
func (c *APIClient) logTraceContext(traceParent string) {
	ginkgo.GinkgoWriter.Printf("TRACE CONTEXT: Use trace ID '%s' to search logs for this request\n", extractTraceID(traceParent))
}

// generateTraceID creates a new W3C trace ID.
// we are using this to create a new trace ID for each request so if an error occurs we can find the request in the logs.
func generateTraceID() string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// generateSpanID creates a new W3C span ID.
func generateSpanID() string {
	bytes := make([]byte, 8)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// createTraceParent creates a W3C traceparent header value.
func createTraceParent() string {
	traceID := generateTraceID()
	spanID := generateSpanID()

	return fmt.Sprintf("00-%s-%s-01", traceID, spanID)
}

// extractTraceID extracts the trace ID from a traceparent header value.
func extractTraceID(traceParent string) string {
	parts := strings.Split(traceParent, "-")
	if len(parts) >= 2 {
		return parts[1]
	}

	return traceParent
}

func encodeBody(body any) (io.Reader, error) {
	switch t := body.(type) {
	case nil:
		return nil, nil
	case RawJSON:
		return strings.NewReader(string(t)), nil
	case []byte:
		return bytes.NewReader(t), nil
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		return bytes.NewReader(data), nil
	}
}

// authorization resolves the bearer token for a request, reporting whether it
// came from the token source.
func (c *APIClient) authorization(ctx context.Context, options *requestOptions) (string, bool, error) {
	switch {
	case options.noAuth:
		return "", false, nil
	case options.bearer != nil:
		return *options.bearer, false, nil
	case c.tokens != nil:
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return "", false, fmt.Errorf("acquiring auth token: %w", err)
		}

		return token.AccessToken, true, nil
	default:
		return c.authToken, false, nil
	}
}

// Send performs a request against the service.  The body may be nil for no
// body, RawJSON for a verbatim body, or any value to be marshaled as JSON.
// The error is only non-nil when no response was received.
//
//nolint:cyclop // test code complexity is acceptable
func (c *APIClient) Send(ctx context.Context, method, path string, body any, opts ...RequestOption) (*Response, error) {
	options := &requestOptions{}

	for _, opt := range opts {
		opt(options)
	}

	reader, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	fullURL := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	// Add W3C Trace Context headers
	traceParent := createTraceParent()
	req.Header.Set("Traceparent", traceParent)
	req.Header.Set("Tracestate", "test-automation=ginkgo")

	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, fromSource, err := c.authorization(ctx, options)
	if err != nil {
		c.logError(method, path, 0, traceParent, err, "authorization failed")
		return nil, err
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	for key, value := range options.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logError(method, path, duration, traceParent, err, "http request failed")
		return nil, fmt.Errorf("http request failed: %w", err)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logErrorWithStatus(method, path, duration, resp.StatusCode, traceParent, err, "reading response body")
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.config.LogRequests {
		ginkgo.GinkgoWriter.Printf("[%s %s] status=%d duration=%s traceparent=%s\n", method, path, resp.StatusCode, duration, traceParent)
	}

	if c.config.LogResponses && len(respBody) > 0 {
		ginkgo.GinkgoWriter.Printf("[%s %s] response body: %s\n", method, path, string(respBody))
	}

	response := &Response{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
		TraceID:    extractTraceID(traceParent),
		request:    req,
	}

	if resp.StatusCode == http.StatusUnauthorized && fromSource {
		ginkgo.GinkgoWriter.Printf("[%s %s] token rejected, invalidating cached token (trace ID: %s)\n", method, path, response.TraceID)
		c.tokens.Invalidate()
	}

	if c.validator != nil {
		if err := c.validator.Validate(ctx, response); err != nil {
			ginkgo.GinkgoWriter.Printf("[%s %s] CONTRACT VIOLATION status=%d traceparent=%s error=%v\n", method, path, resp.StatusCode, traceParent, err)
		}
	}

	return response, nil
}

// Signup registers a user, it is never authenticated unless overridden.
func (c *APIClient) Signup(ctx context.Context, payload any, opts ...RequestOption) (*Response, error) {
	return c.Send(ctx, http.MethodPost, c.endpoints.Signup(), payload, append([]RequestOption{WithoutAuth()}, opts...)...)
}

// Login exchanges credentials for a token, it is never authenticated unless overridden.
func (c *APIClient) Login(ctx context.Context, payload any, opts ...RequestOption) (*Response, error) {
	return c.Send(ctx, http.MethodPost, c.endpoints.Login(), payload, append([]RequestOption{WithoutAuth()}, opts...)...)
}

func (c *APIClient) Health(ctx context.Context, opts ...RequestOption) (*Response, error) {
	return c.Send(ctx, http.MethodGet, c.endpoints.HealthCheck(), nil, append([]RequestOption{WithoutAuth()}, opts...)...)
}

func (c *APIClient) ListBooks(ctx context.Context, opts ...RequestOption) (*Response, error) {
	return c.Send(ctx, http.MethodGet, c.endpoints.ListBooks(), nil, opts...)
}

func (c *APIClient) CreateBook(ctx context.Context, payload any, opts ...RequestOption) (*Response, error) {
	return c.Send(ctx, http.MethodPost, c.endpoints.CreateBook(), payload, opts...)
}

func (c *APIClient) GetBook(ctx context.Context, bookID openapi.BookID, opts ...RequestOption) (*Response, error) {
	return c.Send(ctx, http.MethodGet, c.endpoints.GetBook(bookID), nil, opts...)
}

func (c *APIClient) UpdateBook(ctx context.Context, bookID openapi.BookID, payload any, opts ...RequestOption) (*Response, error) {
	return c.Send(ctx, http.MethodPut, c.endpoints.UpdateBook(bookID), payload, opts...)
}

func (c *APIClient) DeleteBook(ctx context.Context, bookID openapi.BookID, opts ...RequestOption) (*Response, error) {
	return c.Send(ctx, http.MethodDelete, c.endpoints.DeleteBook(bookID), nil, opts...)
}
