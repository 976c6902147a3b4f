/*
Copyright 2026 the FaceShot ChopShop Authors.

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

package client

//go:generate mockgen -source=client.go -destination=mock/interfaces.go -package=mock

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

	"github.com/go-logr/logr"

	"github.com/faceshot-chopshop/conformance/pkg/constants"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// Doer performs a single HTTP exchange.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenSource supplies the bearer token for the next request. An empty
// token means the request is sent unauthenticated.
type TokenSource interface {
	BearerToken() string
}

// Validator checks a response against the service contract.
type Validator interface {
	Validate(ctx context.Context, req *http.Request, resp *Response) error
}

type noToken struct{}

func (noToken) BearerToken() string {
	return ""
}

// Option customizes an APIClient.
type Option func(*APIClient)

// WithDoer replaces the HTTP client, the timeout is then the doer's concern.
func WithDoer(doer Doer) Option {
	return func(c *APIClient) {
		c.client = doer
	}
}

// WithTokenSource sets where bearer tokens come from.
func WithTokenSource(tokens TokenSource) Option {
	return func(c *APIClient) {
		c.tokens = tokens
	}
}

// WithValidator enables response validation.
func WithValidator(validator Validator) Option {
	return func(c *APIClient) {
		c.validator = validator
	}
}

// WithRequestLogging logs every request and, optionally, every body.
func WithRequestLogging(requests, responses bool) Option {
	return func(c *APIClient) {
		c.logRequests = requests
		c.logResponses = responses
	}
}

type APIClient struct {
	baseURL      string
	client       Doer
	tokens       TokenSource
	validator    Validator
	endpoints    *Endpoints
	logRequests  bool
	logResponses bool
}

// New returns a client for the service at baseURL. Every request is bounded
// by timeout.
func New(baseURL string, timeout time.Duration, options ...Option) *APIClient {
	c := &APIClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		tokens:    noToken{},
		endpoints: NewEndpoints(),
	}

	for _, option := range options {
		option(c)
	}

	return c
}

// BaseURL returns the service root all paths are relative to.
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// Endpoints returns the path catalogue used by the client.
func (c *APIClient) Endpoints() *Endpoints {
	return c.endpoints
}

// logError logs a transport failure with trace context.
func (c *APIClient) logError(logger logr.Logger, method, path string, duration time.Duration, traceParent string, err error, context string) {
	logger.Error(err, context, "method", method, "path", path, "duration", duration, "traceparent", traceParent, "traceID", extractTraceID(traceParent))
}

// logSchemaError logs a response rejected by the validator.
func (c *APIClient) logSchemaError(logger logr.Logger, method, path string, statusCode int, traceParent string, err error) {
	logger.Info("response does not match contract", "method", method, "path", path, "status", statusCode, "traceID", extractTraceID(traceParent), "error", err.Error())
}

// generateTraceID creates a new W3C trace ID.
// A new trace ID per request lets a failure be found in the server logs.
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
	return fmt.Sprintf("00-%s-%s-01", generateTraceID(), generateSpanID())
}

// extractTraceID extracts the trace ID from a traceparent header value.
func extractTraceID(traceParent string) string {
	parts := strings.Split(traceParent, "-")
	if len(parts) >= 2 {
		return parts[1]
	}

	return traceParent
}

// Do performs a request. A response with any status code is returned as
// data; only failures to obtain a response are errors, and those are always
// a *TransportError.
func (c *APIClient) Do(ctx context.Context, method, path string, body io.Reader, contentType string) (*Response, error) {
	logger := log.FromContext(ctx).WithName("client")

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: fmt.Errorf("creating request: %w", err)}
	}

	traceParent := createTraceParent()
	req.Header.Set("Traceparent", traceParent)
	req.Header.Set("Tracestate", "test-automation=conformance")
	req.Header.Set("User-Agent", constants.UserAgent())
	req.Header.Set("Accept", "application/json")

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if token := c.tokens.BearerToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logError(logger, method, path, duration, traceParent, err, "http request failed")

		return nil, &TransportError{Method: method, Path: path, Duration: duration, TraceID: extractTraceID(traceParent), Err: err}
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logError(logger, method, path, duration, traceParent, err, "reading response body")

		return nil, &TransportError{Method: method, Path: path, Duration: duration, TraceID: extractTraceID(traceParent), Err: fmt.Errorf("reading response body: %w", err)}
	}

	if c.logRequests {
		logger.Info("request", "method", method, "path", path, "status", resp.StatusCode, "duration", duration, "traceparent", traceParent)
	}

	if c.logResponses && len(respBody) > 0 {
		logger.Info("response body", "method", method, "path", path, "body", string(respBody))
	}

	response := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
		TraceID:    extractTraceID(traceParent),
	}

	if c.validator != nil {
		if err := c.validator.Validate(ctx, req, response); err != nil {
			c.logSchemaError(logger, method, path, resp.StatusCode, traceParent, err)

			response.SchemaError = err
		}
	}

	return response, nil
}

func (c *APIClient) get(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, "")
}

func (c *APIClient) postJSON(ctx context.Context, path string, body any) (*Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request body: %w", err)
	}

	return c.Do(ctx, http.MethodPost, path, bytes.NewReader(data), "application/json")
}

// Probe calls one of the health endpoints.
func (c *APIClient) Probe(ctx context.Context, path string) (*Response, error) {
	return c.get(ctx, path)
}

// Stats fetches the public usage statistics.
func (c *APIClient) Stats(ctx context.Context) (*Response, error) {
	return c.get(ctx, c.endpoints.Stats())
}

// Catalog lists the tool catalog.
func (c *APIClient) Catalog(ctx context.Context) (*Response, error) {
	return c.get(ctx, c.endpoints.Catalog())
}

// Packs lists the purchasable credit packs.
func (c *APIClient) Packs(ctx context.Context) (*Response, error) {
	return c.get(ctx, c.endpoints.Packs())
}

// Signup creates an account.
func (c *APIClient) Signup(ctx context.Context, credentials Credentials) (*Response, error) {
	return c.postJSON(ctx, c.endpoints.Signup(), credentials)
}

// Login exchanges credentials for a token.
func (c *APIClient) Login(ctx context.Context, credentials Credentials) (*Response, error) {
	return c.postJSON(ctx, c.endpoints.Login(), credentials)
}

// Me returns the authenticated user.
func (c *APIClient) Me(ctx context.Context) (*Response, error) {
	return c.get(ctx, c.endpoints.Me())
}

// Credits returns the authenticated user's balance.
func (c *APIClient) Credits(ctx context.Context) (*Response, error) {
	return c.get(ctx, c.endpoints.Credits())
}

// Creations lists the authenticated user's jobs.
func (c *APIClient) Creations(ctx context.Context) (*Response, error) {
	return c.get(ctx, c.endpoints.Creations())
}

// Upload submits media for a later processing request.
func (c *APIClient) Upload(ctx context.Context, form *UploadForm) (*Response, error) {
	body, contentType, err := form.Encode()
	if err != nil {
		return nil, fmt.Errorf("encoding upload form: %w", err)
	}

	return c.Do(ctx, http.MethodPost, c.endpoints.Upload(), body, contentType)
}

// JobStatus fetches a job's status. An empty ID omits the query parameter.
func (c *APIClient) JobStatus(ctx context.Context, jobID string) (*Response, error) {
	return c.get(ctx, c.endpoints.Status(jobID))
}

// Process starts a processing job for the last upload of the given type.
func (c *APIClient) Process(ctx context.Context, request ProcessRequest) (*Response, error) {
	return c.postJSON(ctx, c.endpoints.Process(), request)
}
