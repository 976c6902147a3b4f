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

	"github.com/faceshot-chopshop/conformance/pkg/steps"
	"github.com/faceshot-chopshop/conformance/test/api"
)

var _ = Describe("Discovery and Metadata", func() {
	Context("When probing service health", func() {
		DescribeTable("should report a status",
			func(path string) {
				resp, err := c.Probe(ctx, path)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				Expect(resp.SchemaError).NotTo(HaveOccurred())
				Expect(api.Decode(resp)).To(HaveKey("status"))
			},
			Entry("health", "/health"),
			Entry("readiness", "/ready"),
			Entry("liveness", "/alive"),
		)

		It("should answer identically when asked twice", func() {
			first, err := c.Probe(ctx, "/health")
			Expect(err).NotTo(HaveOccurred())

			second, err := c.Probe(ctx, "/health")
			Expect(err).NotTo(HaveOccurred())

			Expect(second.StatusCode).To(Equal(first.StatusCode))
			Expect(second.Body).To(Equal(first.Body))
		})
	})

	Context("When reading public statistics", func() {
		It("should return every aggregate", func() {
			resp, err := c.Stats(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(api.Decode(resp)).To(SatisfyAll(
				HaveKey("videos"),
				HaveKey("paying_users"),
				HaveKey("total_users"),
				HaveKey("conversion_rate"),
				HaveKey("revenue_cents"),
			))
		})
	})

	Context("When listing the catalog", func() {
		It("should return every tool", func() {
			resp, err := c.Catalog(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.SchemaError).NotTo(HaveOccurred())

			tools, err := resp.Array()
			Expect(err).NotTo(HaveOccurred())
			Expect(tools).To(HaveLen(steps.ExpectedTools))
		})

		It("should return every credit pack with its price", func() {
			resp, err := c.Packs(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			packs, err := resp.Array()
			Expect(err).NotTo(HaveOccurred())
			Expect(packs).To(HaveLen(steps.ExpectedPacks))

			for _, pack := range packs {
				Expect(pack).To(SatisfyAll(HaveKey("type"), HaveKey("points"), HaveKey("price_cents")))
			}
		})
	})
})
