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
	"github.com/faceshot-chopshop/conformance/test/api"
)

var _ = Describe("Credits and Uploads", func() {
	BeforeEach(func() {
		api.SignupFreshUser(ctx, c, state, target.Config.SignupPassword)
	})

	Context("When reading account state", func() {
		It("should report a balance", func() {
			resp, err := c.Credits(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.SchemaError).NotTo(HaveOccurred())
			Expect(api.Decode(resp)).To(HaveKey("balance"))
		})

		It("should list no creations for a new account", func() {
			resp, err := c.Creations(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(api.Decode(resp)).To(HaveKeyWithValue("items", BeEmpty()))
		})
	})

	Context("When uploading media", func() {
		It("should accept an upload without a file", func() {
			resp, err := c.Upload(ctx, client.NewUploadForm(target.Config.UploadType).Build())
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.SchemaError).NotTo(HaveOccurred())
			Expect(api.Decode(resp)).To(HaveKeyWithValue("status", "uploaded"))
		})

		It("should accept a file or report storage as unavailable", func() {
			form := client.NewUploadForm(target.Config.UploadType).WithFile("test.jpg", []byte("fake image data for testing"), "image/jpeg").Build()

			resp, err := c.Upload(ctx, form)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(BeElementOf(http.StatusOK, http.StatusInternalServerError))
			Expect(resp.SchemaError).NotTo(HaveOccurred())
		})

		It("should reject an upload without a type", func() {
			resp, err := c.Upload(ctx, client.NewUploadForm("").Build())
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(resp.ErrorCode()).To(Equal("invalid_payload"))
		})
	})
})
