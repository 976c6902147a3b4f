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

// Package api provides integration test utilities for the FaceShot ChopShop
// web API.
//
// # Targets
//
// Suites run against the deployment named by API_BASE_URL. When it is unset
// an in-process twin of the service is started instead, so the suites are
// runnable on a developer machine and in CI without a backend.
//
// # Shared Client Implementation
//
// The suites use the same client as the conformance runner rather than a
// generated one. Any change to the service contract that the runner does not
// notice will also go unnoticed here, so a change that needs no update to
// pkg/client may indicate a problem with the change.
package api
