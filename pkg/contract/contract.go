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

// Package contract validates observed responses against the service's
// published OpenAPI document.
package contract

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"

	"github.com/faceshot-chopshop/conformance/pkg/client"
)

//go:embed openapi.yaml
var document []byte

var (
	// ErrUndocumented is returned when a request has no matching operation.
	ErrUndocumented = errors.New("operation not documented")
)

// Schema returns the parsed OpenAPI document.
func Schema() (*openapi3.T, error) {
	loader := openapi3.NewLoader()

	spec, err := loader.LoadFromData(document)
	if err != nil {
		return nil, fmt.Errorf("loading openapi document: %w", err)
	}

	return spec, nil
}

// Validator checks responses from a single deployment.
type Validator struct {
	spec   *openapi3.T
	router routers.Router
}

// Ensure the interface is implemented.
var _ client.Validator = &Validator{}

// New returns a validator for the service at baseURL. Routes are matched
// against baseURL rather than the servers listed in the document.
func New(ctx context.Context, baseURL string) (*Validator, error) {
	spec, err := Schema()
	if err != nil {
		return nil, err
	}

	if err := spec.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validating openapi document: %w", err)
	}

	spec.Servers = openapi3.Servers{
		&openapi3.Server{
			URL: baseURL,
		},
	}

	router, err := gorillamux.NewRouter(spec)
	if err != nil {
		return nil, fmt.Errorf("building router: %w", err)
	}

	v := &Validator{
		spec:   spec,
		router: router,
	}

	return v, nil
}

// Validate checks the response status, headers and body against the
// documented operation for req.
func (v *Validator) Validate(ctx context.Context, req *http.Request, resp *client.Response) error {
	route, params, err := v.router.FindRoute(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrUndocumented, req.Method, req.URL.Path, err)
	}

	input := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request:    req,
			PathParams: params,
			Route:      route,
		},
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   io.NopCloser(bytes.NewReader(resp.Body)),
		Options: &openapi3filter.Options{
			IncludeResponseStatus: true,
			MultiError:            true,
		},
	}

	if err := openapi3filter.ValidateResponse(ctx, input); err != nil {
		return fmt.Errorf("validating %s %s response: %w", req.Method, req.URL.Path, err)
	}

	return nil
}
