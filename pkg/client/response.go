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

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotObject is returned when a JSON object was expected.
	ErrNotObject = errors.New("response is not a JSON object")

	// ErrNotArray is returned when a JSON array was expected.
	ErrNotArray = errors.New("response is not a JSON array")
)

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	TraceID    string

	// SchemaError is set when a Validator is configured and the response
	// does not conform to the service contract.
	SchemaError error
}

// String returns the raw body, used as diagnostic detail.
func (r *Response) String() string {
	return string(r.Body)
}

// JSON decodes the body into the given value.
func (r *Response) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}

	return nil
}

// Object decodes the body as a JSON object.
func (r *Response) Object() (map[string]any, error) {
	var value any
	if err := r.JSON(&value); err != nil {
		return nil, err
	}

	object, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotObject, value)
	}

	return object, nil
}

// Array decodes the body as a JSON array.
func (r *Response) Array() ([]any, error) {
	var value any
	if err := r.JSON(&value); err != nil {
		return nil, err
	}

	array, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotArray, value)
	}

	return array, nil
}

// ErrorCode returns the "error" field of a JSON object body, or an empty
// string if there is none.
func (r *Response) ErrorCode() string {
	object, err := r.Object()
	if err != nil {
		return ""
	}

	code, _ := object["error"].(string)

	return code
}
