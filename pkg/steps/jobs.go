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
	"errors"
	"fmt"
	"net/http"

	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/faceshot-chopshop/conformance/pkg/client"
	"github.com/faceshot-chopshop/conformance/pkg/ledger"
	"github.com/faceshot-chopshop/conformance/pkg/policy"
)

// unknownJobID is never issued by the service.
const unknownJobID = "invalid_job_id"

// JobStatus checks the status endpoint's handling of absent and unknown
// job IDs.
func (s *Suite) JobStatus(ctx context.Context) bool {
	const (
		missing = "Status endpoint (no ID)"
		invalid = "Status endpoint (invalid ID)"
	)

	ok := s.guard(ctx, missing, ledger.CapabilityJobs, func() bool {
		resp, err := s.api.JobStatus(ctx, "")

		if _, ok := s.evaluate(missing, ledger.CapabilityJobs, statusMissingIDPolicy, resp, err); !ok {
			return false
		}

		return s.pass(missing, ledger.CapabilityJobs, "Correctly requires job ID")
	})

	ok = s.guard(ctx, invalid, ledger.CapabilityJobs, func() bool {
		resp, err := s.api.JobStatus(ctx, unknownJobID)

		decision, ok := s.evaluate(invalid, ledger.CapabilityJobs, statusInvalidIDPolicy, resp, err)
		if !ok {
			return decision.Verdict == policy.Tolerate
		}

		return s.pass(invalid, ledger.CapabilityJobs, "Correctly handles invalid job ID")
	}) && ok

	return ok
}

// Process uploads media and asks for it to be processed. Running out of
// credits is the expected answer for a fresh account, an unconfigured
// processor is tolerated, and a started job is polled to completion.
func (s *Suite) Process(ctx context.Context) bool {
	const name = "Process endpoint"

	started := ""

	ok := s.guard(ctx, name, ledger.CapabilityJobs, func() bool {
		if !s.requireToken(name, ledger.CapabilityJobs) {
			return false
		}

		upload, err := s.api.Upload(ctx, client.NewUploadForm(s.options.UploadType).Build())
		if err != nil || upload.StatusCode != http.StatusOK {
			s.record(name, ledger.CapabilityJobs, ledger.PrerequisiteMissing, "Could not create upload job for processing", uploadDetails(upload, err))

			return false
		}

		resp, err := s.api.Process(ctx, client.NewProcessPayload(s.options.UploadType).Build())

		decision, ok := s.evaluate(name, ledger.CapabilityJobs, processPolicy, resp, err)
		if !ok {
			return decision.Verdict == policy.Tolerate
		}

		if decision.Rule.Status == http.StatusPaymentRequired {
			return s.pass(name, ledger.CapabilityJobs, "Process correctly requires credits (insufficient_credits)")
		}

		object, ok := s.object(name, ledger.CapabilityJobs, resp)
		if !ok {
			return false
		}

		started = identifier(object["job_id"])
		if started == "" {
			return s.violation(name, ledger.CapabilityJobs, "Missing job ID in response", resp.String())
		}

		return s.pass(name, ledger.CapabilityJobs, "Process started: "+resp.String())
	})

	if !ok || started == "" {
		return ok
	}

	const polling = "Job status polling"

	return s.guard(ctx, polling, ledger.CapabilityJobs, func() bool {
		return s.poll(ctx, polling, started)
	})
}

func uploadDetails(resp *client.Response, err error) any {
	if err != nil {
		return err.Error()
	}

	return resp.String()
}

// poll reads the job's status until it settles or the poll timeout passes.
func (s *Suite) poll(ctx context.Context, name, jobID string) bool {
	var last *client.Response

	condition := func(ctx context.Context) (bool, error) {
		resp, err := s.api.JobStatus(ctx, jobID)
		if err != nil {
			return false, err
		}

		last = resp

		if resp.StatusCode != http.StatusOK {
			return false, fmt.Errorf("%w: HTTP %d", errJobStatus, resp.StatusCode)
		}

		object, err := resp.Object()
		if err != nil {
			return false, fmt.Errorf("%w: %w", errJobStatus, err)
		}

		switch object["status"] {
		case "completed", "failed":
			return true, nil
		}

		return false, nil
	}

	err := wait.PollUntilContextTimeout(ctx, s.options.PollInterval, s.options.PollTimeout, true, condition)

	switch {
	case ctx.Err() != nil:
		s.record(name, ledger.CapabilityJobs, ledger.TransportFailure, "Run cancelled while polling job "+jobID, ctx.Err().Error())

		return false
	case err == nil:
	case errors.Is(err, errJobStatus):
		return s.violation(name, ledger.CapabilityJobs, err.Error(), last.String())
	case wait.Interrupted(err):
		s.record(name, ledger.CapabilityJobs, ledger.Tolerated, fmt.Sprintf("Job %s still processing after %s", jobID, s.options.PollTimeout), nil)

		return true
	default:
		s.recordError(name, ledger.CapabilityJobs, err)

		return false
	}

	if last.SchemaError != nil {
		return s.violation(name, ledger.CapabilityJobs, "Response does not match the published contract", last.SchemaError.Error())
	}

	object, _ := last.Object()

	if object["status"] == "failed" {
		s.record(name, ledger.CapabilityJobs, ledger.Tolerated, fmt.Sprintf("Job %s failed in the downstream processor", jobID), object["error_message"])

		return true
	}

	return s.pass(name, ledger.CapabilityJobs, fmt.Sprintf("Job %s completed: %v", jobID, object["result_url"]))
}
