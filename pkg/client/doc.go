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

// Package client is the HTTP side of the conformance runner.
//
// # Separate Client Implementation
//
// The client is written by hand rather than generated from the service's
// OpenAPI document. Any legitimate change to the service contract must have
// a compensating change here, which keeps API evolution explicit and
// reviewable. The embedded document in pkg/contract is only used to check
// response bodies, never to build requests.
//
// # Test-Specific Features
//
//   - W3C trace context propagation for request correlation
//   - Detailed error logging with trace IDs for debugging
//   - Bearer tokens read from a TokenSource at call time, so a session can
//     be cleared and restored without touching the client
//   - Direct access to HTTP status codes and response bodies; non-2xx
//     responses are data, not errors
package client
