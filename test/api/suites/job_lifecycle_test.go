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

//nolint:revive,staticcheck // dot imports are standard for Ginkgo/Gomega test code
package suites

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/faceshot-chopshop/conformance/pkg/client"
	"github.com/faceshot-chopshop/conformance/pkg/session"
	"github.com/faceshot-chopshop/conformance/test/api"
	"github.com/faceshot-chopshop/conformance/test/twin"
)

var _ = Describe("Job Lifecycle", func() {
	Context("When asking for a job's status", func() {
		It("should require a job ID", func() {
			resp, err := c.JobStatus(ctx, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(resp.ErrorCode()).To(ContainSubstring("missing_id"))
		})

		It("should not find an unknown job", func() {
			resp, err := c.JobStatus(ctx, "invalid_job_id")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(BeElementOf(http.StatusNotFound, http.StatusInternalServerError))

			if resp.StatusCode == http.StatusNotFound {
				Expect(resp.ErrorCode()).To(ContainSubstring("not_found"))
			}
		})
	})

	Context("When a new account asks for processing", func() {
		It("should be refused for want of credits", func() {
			api.SignupFreshUser(ctx, c, state, target.Config.SignupPassword)

			upload, err := c.Upload(ctx, client.NewUploadForm(target.Config.UploadType).Build())
			Expect(err).NotTo(HaveOccurred())
			Expect(upload.StatusCode).To(Equal(http.StatusOK))

			resp, err := c.Process(ctx, client.NewProcessPayload(target.Config.UploadType).Build())
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusPaymentRequired))
			Expect(resp.ErrorCode()).To(Equal("insufficient_credits"))
		})
	})

	Context("When a funded account asks for processing", func() {
		It("should start a job that settles", func() {
			if target.Live() {
				Skip("live deployments cannot fund accounts")
			}

			_, server := twin.NewServer(twin.Options{
				InitialBalance:      twin.ProcessCost,
				ProcessorConfigured: true,
				JobPollsUntilDone:   3,
			})
			DeferCleanup(server.Close)

			funded := session.New()
			fundedClient := client.New(server.URL, target.Config.RequestTimeout, client.WithTokenSource(funded))

			api.SignupFreshUser(ctx, fundedClient, funded, target.Config.SignupPassword)

			upload, err := fundedClient.Upload(ctx, client.NewUploadForm(target.Config.UploadType).Build())
			Expect(err).NotTo(HaveOccurred())
			Expect(upload.StatusCode).To(Equal(http.StatusOK))

			resp, err := fundedClient.Process(ctx, client.NewProcessPayload(target.Config.UploadType).Build())
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			started := api.Decode(resp)
			Expect(started).To(HaveKeyWithValue("status", "processing"))

			jobID, ok := started["job_id"].(string)
			Expect(ok).To(BeTrue())

			Expect(api.WaitForJob(ctx, fundedClient, target.Config, jobID)).To(Equal("completed"))

			credits, err := fundedClient.Credits(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(api.Decode(credits)).To(HaveKeyWithValue("balance", BeNumerically("==", 0)))

			creations, err := fundedClient.Creations(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(api.Decode(creations)["items"]).To(HaveLen(1))

			// A second job is refused once the balance is spent.
			again, err := fundedClient.Process(ctx, client.NewProcessPayload(target.Config.UploadType).Build())
			Expect(err).NotTo(HaveOccurred())
			Expect(again.StatusCode).To(Equal(http.StatusPaymentRequired))
		})
	})
})
