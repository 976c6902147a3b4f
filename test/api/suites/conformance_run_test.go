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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/faceshot-chopshop/conformance/pkg/ledger"
	"github.com/faceshot-chopshop/conformance/pkg/report"
	"github.com/faceshot-chopshop/conformance/pkg/runner"
	"github.com/faceshot-chopshop/conformance/pkg/steps"
)

var _ = Describe("Conformance Run", func() {
	Context("When running the full sequence", func() {
		It("should pass every stage", func() {
			record := ledger.New(report.Progress(GinkgoWriter))

			suite := steps.New(c, state, record, steps.Options{
				LoginEmail:     target.Config.LoginEmail,
				LoginPassword:  target.Config.LoginPassword,
				SignupPassword: target.Config.SignupPassword,
				UploadType:     target.Config.UploadType,
				PollInterval:   target.Config.JobPollInterval,
				PollTimeout:    target.Config.JobPollTimeout,
			})

			result := runner.New(suite, record).Run(ctx)

			report.Summary(GinkgoWriter, result)

			Expect(result.Stage).To(Equal(runner.StageDone))
			Expect(result.Skipped).To(BeEmpty())
			Expect(result.Summary.Failures).To(BeEmpty())
			Expect(result.ExitCode()).To(Equal(0))
		})
	})
})
