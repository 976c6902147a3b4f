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
	"net/url"
)

// Endpoints contains all API endpoint patterns.
type Endpoints struct{}

// NewEndpoints creates a new Endpoints instance.
func NewEndpoints() *Endpoints {
	return &Endpoints{}
}

// Health and metadata endpoints.
func (e *Endpoints) Health() string {
	return "/health"
}

func (e *Endpoints) Ready() string {
	return "/ready"
}

func (e *Endpoints) Alive() string {
	return "/alive"
}

// Probes returns every health endpoint in the order they are checked.
func (e *Endpoints) Probes() []string {
	return []string{e.Health(), e.Ready(), e.Alive()}
}

func (e *Endpoints) Stats() string {
	return "/stats"
}

// Catalog and pricing endpoints.
func (e *Endpoints) Catalog() string {
	return "/api/web/catalog"
}

func (e *Endpoints) Packs() string {
	return "/api/web/packs"
}

// Authentication endpoints.
func (e *Endpoints) Signup() string {
	return "/api/auth/signup"
}

func (e *Endpoints) Login() string {
	return "/api/auth/login"
}

func (e *Endpoints) Me() string {
	return "/api/auth/me"
}

// Account endpoints.
func (e *Endpoints) Credits() string {
	return "/api/web/credits"
}

func (e *Endpoints) Creations() string {
	return "/api/web/creations"
}

// Job lifecycle endpoints.
func (e *Endpoints) Upload() string {
	return "/api/web/upload"
}

func (e *Endpoints) Process() string {
	return "/api/web/process"
}

func (e *Endpoints) Status(jobID string) string {
	if jobID == "" {
		return "/api/web/status"
	}

	return "/api/web/status?" + url.Values{"id": []string{jobID}}.Encode()
}

// Protected returns the endpoints that must reject anonymous requests.
func (e *Endpoints) Protected() []string {
	return []string{e.Me(), e.Credits(), e.Creations()}
}
