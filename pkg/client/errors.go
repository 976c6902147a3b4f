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
	"errors"
	"fmt"
	"time"
)

// TransportError is returned when a request did not produce a complete
// response: connection refused, DNS failure, timeout or a truncated body.
type TransportError struct {
	Method   string
	Path     string
	Duration time.Duration
	TraceID  string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s failed after %s (trace ID: %s): %v", e.Method, e.Path, e.Duration, e.TraceID, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError returns true if the error chain contains a TransportError.
func IsTransportError(err error) bool {
	var transportError *TransportError

	return errors.As(err, &transportError)
}
