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

package runner_test

import (
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/faceshot-chopshop/conformance/pkg/client"
	"github.com/faceshot-chopshop/conformance/pkg/ledger"
	"github.com/faceshot-chopshop/conformance/pkg/runner"
	"github.com/faceshot-chopshop/conformance/pkg/session"
	"github.com/faceshot-chopshop/conformance/pkg/steps"
	"github.com/faceshot-chopshop/conformance/test/twin"
)

var _ = Describe("Runner", func() {
	var (
		tw     *twin.Twin
		server *httptest.Server
		state  *session.State
		record *ledger.Ledger
	)

	newRunner := func() *runner.Runner {
		api := client.New(server.URL, 5*time.Second, client.WithTokenSource(state))

		suite := steps.New(api, state, record, steps.Options{
			LoginEmail:     "test@example.com",
			LoginPassword:  "testpass123",
			SignupPassword: "testpass123",
			UploadType:     "faceswap",
			PollInterval:   10 * time.Millisecond,
			PollTimeout:    time.Second,
		})

		return runner.New(suite, record)
	}

	BeforeEach(func() {
		state = session.New()
		record = ledger.New()
	})

	AfterEach(func() {
		server.Close()
	})

	Context("When the service behaves", func() {
		BeforeEach(func() {
			tw, server = twin.NewServer(twin.Options{})
		})

		It("should pass every step and exit zero", func(ctx SpecContext) {
			result := newRunner().Run(ctx)

			Expect(result.Stage).To(Equal(runner.StageDone))
			Expect(result.Skipped).To(BeEmpty())
			Expect(result.Summary.Failures).To(BeEmpty())
			Expect(result.Summary.Passed).To(Equal(result.Summary.Total))
			Expect(result.ExitCode()).To(Equal(0))

			names := []string{}
			for _, outcome := range record.Outcomes() {
				names = append(names, outcome.Name)
			}

			Expect(names).To(Equal([]string{
				"Health check /health",
				"Health check /ready",
				"Health check /alive",
				"Stats endpoint",
				"Catalog endpoint",
				"Packs endpoint",
				"Auth signup",
				"Auth login",
				"Auth me",
				"Credits endpoint",
				"Creations endpoint",
				"Upload endpoint (no file)",
				"Upload endpoint (with file)",
				"Unauthorized /api/auth/me",
				"Unauthorized /api/web/credits",
				"Unauthorized /api/web/creations",
				"Status endpoint (no ID)",
				"Status endpoint (invalid ID)",
				"Process endpoint",
			}))
		})

		It("should roll up every capability", func(ctx SpecContext) {
			summary := newRunner().Run(ctx).Summary

			for _, capability := range []ledger.Capability{
				ledger.CapabilityHealth,
				ledger.CapabilityStats,
				ledger.CapabilityCatalog,
				ledger.CapabilityPacks,
				ledger.CapabilityAuth,
				ledger.CapabilityCredits,
				ledger.CapabilityCreations,
				ledger.CapabilityUploads,
				ledger.CapabilityJobs,
				ledger.CapabilityAccessControl,
			} {
				Expect(summary.Working(capability)).To(BeTrue(), string(capability))
			}
		})
	})

	Context("When no identity can be obtained", func() {
		BeforeEach(func() {
			tw, server = twin.NewServer(twin.Options{})
			tw.InjectFault("/api/auth/signup", twin.Fault{StatusCode: http.StatusInternalServerError})
		})

		It("should skip the authenticated stages", func(ctx SpecContext) {
			result := newRunner().Run(ctx)

			Expect(result.Stage).To(Equal(runner.StageAuth))
			Expect(result.Skipped).To(Equal([]string{
				"Auth me",
				"Credits endpoint",
				"Creations endpoint",
				"Upload endpoint",
				"Unauthorized access",
				"Status endpoint",
				"Process endpoint",
			}))

			Expect(result.Summary.Total).To(Equal(8))
			Expect(result.Summary.Failed).To(Equal(1))
			Expect(result.Summary.Failures[0].Name).To(Equal("Auth signup"))
			Expect(result.ExitCode()).To(Equal(1))
		})
	})

	Context("When the catalog is incomplete", func() {
		BeforeEach(func() {
			tw, server = twin.NewServer(twin.Options{Catalog: twin.DefaultCatalog()[:20]})
		})

		It("should fail the run but finish every stage", func(ctx SpecContext) {
			result := newRunner().Run(ctx)

			Expect(result.Stage).To(Equal(runner.StageDone))
			Expect(result.Summary.Failed).To(Equal(1))
			Expect(result.Summary.Working(ledger.CapabilityCatalog)).To(BeFalse())
			Expect(result.Summary.Working(ledger.CapabilityPacks)).To(BeTrue())
			Expect(result.ExitCode()).To(Equal(1))
		})
	})

	Context("When the service is unreachable", func() {
		BeforeEach(func() {
			tw, server = twin.NewServer(twin.Options{})
			server.Close()
		})

		It("should record transport failures and still summarize", func(ctx SpecContext) {
			result := newRunner().Run(ctx)

			Expect(result.Summary.Total).To(Equal(8))
			Expect(result.Summary.Passed).To(BeZero())
			Expect(result.Skipped).To(HaveLen(7))

			for _, outcome := range record.Outcomes() {
				Expect(outcome.Kind).To(Equal(ledger.TransportFailure), outcome.Name)
			}
		})
	})
})

var _ = Describe("Result", func() {
	It("should not count an empty run as success", func() {
		Expect(runner.Result{}.ExitCode()).To(Equal(1))
		Expect(runner.Result{Summary: ledger.Summary{Total: 1, Passed: 1}}.ExitCode()).To(Equal(0))
		Expect(runner.Result{Summary: ledger.Summary{Total: 2, Passed: 1, Failed: 1}}.ExitCode()).To(Equal(1))
	})
})

var _ = Describe("Stage", func() {
	DescribeTable("names",
		func(stage runner.Stage, name string) {
			Expect(stage.String()).To(Equal(name))
		},
		Entry("public", runner.StagePublic, "public"),
		Entry("auth", runner.StageAuth, "auth"),
		Entry("protected", runner.StageProtected, "protected"),
		Entry("jobs", runner.StageJobs, "jobs"),
		Entry("done", runner.StageDone, "done"),
	)
})
