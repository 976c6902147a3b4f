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

var _ = Describe("Security and Authentication", func() {
	Context("When signing up", func() {
		It("should return a token that identifies the new account", func() {
			email := api.SignupFreshUser(ctx, c, state, target.Config.SignupPassword)

			resp, err := c.Me(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.SchemaError).NotTo(HaveOccurred())
			Expect(api.Decode(resp)).To(HaveKeyWithValue("email", email))
		})

		It("should reject an address already registered", func() {
			email := api.SignupFreshUser(ctx, c, state, target.Config.SignupPassword)

			resp, err := c.Signup(ctx, client.NewCredentials(email, target.Config.SignupPassword))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusConflict))
			Expect(resp.ErrorCode()).To(Equal("email_exists"))
		})

		It("should reject a short password", func() {
			resp, err := c.Signup(ctx, client.NewCredentials("short@example.com", "abc"))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(resp.ErrorCode()).To(Equal("password_too_short"))
		})
	})

	Context("When logging in", func() {
		It("should reject unknown credentials", func() {
			resp, err := c.Login(ctx, client.NewCredentials("nobody@example.com", "not-the-password"))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
			Expect(resp.ErrorCode()).To(Equal("invalid_credentials"))
		})

		It("should accept the credentials of a new account", func() {
			email := api.SignupFreshUser(ctx, c, state, target.Config.SignupPassword)

			resp, err := c.Login(ctx, client.NewCredentials(email, target.Config.SignupPassword))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(api.Decode(resp)).To(SatisfyAll(HaveKey("token"), HaveKey("user")))
		})
	})

	Context("When calling protected endpoints without a token", func() {
		DescribeTable("should reject the request",
			func(path string) {
				resp, err := c.Do(ctx, http.MethodGet, path, nil, "")
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
				Expect(resp.ErrorCode()).To(Equal("unauthorized"))
			},
			Entry("me", "/api/auth/me"),
			Entry("credits", "/api/web/credits"),
			Entry("creations", "/api/web/creations"),
		)
	})

	Context("When presenting a forged token", func() {
		It("should reject the request", func() {
			state.SetAuth("forged", "0")

			resp, err := c.Credits(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
			Expect(resp.ErrorCode()).To(Equal("invalid_token"))
		})
	})
})
