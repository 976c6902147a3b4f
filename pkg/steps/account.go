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

package steps

import (
	"context"
	"fmt"

	"github.com/faceshot-chopshop/conformance/pkg/client"
	"github.com/faceshot-chopshop/conformance/pkg/ledger"
	"github.com/faceshot-chopshop/conformance/pkg/policy"
)

// uploadFixture stands in for an image, the service does not inspect it.
//
//nolint:gochecknoglobals
var uploadFixture = []byte("fake image data for testing")

// Credits checks the authenticated user's balance is readable.
func (s *Suite) Credits(ctx context.Context) bool {
	const name = "Credits endpoint"

	return s.guard(ctx, name, ledger.CapabilityCredits, func() bool {
		if !s.requireToken(name, ledger.CapabilityCredits) {
			return false
		}

		resp, err := s.api.Credits(ctx)

		if _, ok := s.evaluate(name, ledger.CapabilityCredits, creditsPolicy, resp, err); !ok {
			return false
		}

		object, ok := s.object(name, ledger.CapabilityCredits, resp)
		if !ok {
			return false
		}

		balance, ok := object["balance"]
		if !ok {
			return s.violation(name, ledger.CapabilityCredits, "Missing balance field", resp.String())
		}

		return s.pass(name, ledger.CapabilityCredits, fmt.Sprintf("Credits balance: %v", balance))
	})
}

// Creations checks the authenticated user's job history is readable.
func (s *Suite) Creations(ctx context.Context) bool {
	const name = "Creations endpoint"

	return s.guard(ctx, name, ledger.CapabilityCreations, func() bool {
		if !s.requireToken(name, ledger.CapabilityCreations) {
			return false
		}

		resp, err := s.api.Creations(ctx)

		if _, ok := s.evaluate(name, ledger.CapabilityCreations, creationsPolicy, resp, err); !ok {
			return false
		}

		object, ok := s.object(name, ledger.CapabilityCreations, resp)
		if !ok {
			return false
		}

		items, ok := object["items"].([]any)
		if !ok {
			return s.violation(name, ledger.CapabilityCreations, "Invalid response structure", resp.String())
		}

		return s.pass(name, ledger.CapabilityCreations, fmt.Sprintf("Retrieved %d creations", len(items)))
	})
}

// Upload submits media without and then with a file. A server error for the
// file upload is tolerated as storage may not be configured.
func (s *Suite) Upload(ctx context.Context) bool {
	const (
		withoutFile = "Upload endpoint (no file)"
		withFile    = "Upload endpoint (with file)"
	)

	if !s.session.Authenticated() {
		s.record(withoutFile, ledger.CapabilityUploads, ledger.PrerequisiteMissing, "No auth token available", nil)
		s.record(withFile, ledger.CapabilityUploads, ledger.PrerequisiteMissing, "No auth token available", nil)

		return false
	}

	ok := s.guard(ctx, withoutFile, ledger.CapabilityUploads, func() bool {
		form := client.NewUploadForm(s.options.UploadType).Build()

		return s.upload(ctx, withoutFile, uploadPolicy, form)
	})

	ok = s.guard(ctx, withFile, ledger.CapabilityUploads, func() bool {
		form := client.NewUploadForm(s.options.UploadType).WithFile("test.jpg", uploadFixture, "image/jpeg").Build()

		return s.upload(ctx, withFile, uploadWithFilePolicy, form)
	}) && ok

	return ok
}

func (s *Suite) upload(ctx context.Context, name string, table policy.Table, form *client.UploadForm) bool {
	resp, err := s.api.Upload(ctx, form)

	decision, ok := s.evaluate(name, ledger.CapabilityUploads, table, resp, err)
	if !ok {
		return decision.Verdict == policy.Tolerate
	}

	object, ok := s.object(name, ledger.CapabilityUploads, resp)
	if !ok {
		return false
	}

	if status, _ := object["status"].(string); status != "uploaded" {
		return s.violation(name, ledger.CapabilityUploads, "Invalid upload response", resp.String())
	}

	return s.pass(name, ledger.CapabilityUploads, "Upload accepted: "+resp.String())
}
