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
package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/google/uuid"

	"github.com/faceshot-chopshop/conformance/pkg/client"
	"github.com/faceshot-chopshop/conformance/pkg/config"
	"github.com/faceshot-chopshop/conformance/pkg/contract"
	"github.com/faceshot-chopshop/conformance/pkg/session"
	"github.com/faceshot-chopshop/conformance/test/twin"
)

// Target is the service the suites run against.
type Target struct {
	Config *config.Config
	// Twin is set when no live deployment was configured.
	Twin  *twin.Twin
	close func()
}

// NewTarget resolves the service under test, starting a twin when
// API_BASE_URL is unset.
func NewTarget() *Target {
	cfg := config.Load()

	target := &Target{
		Config: cfg,
		close:  func() {},
	}

	if os.Getenv("API_BASE_URL") == "" {
		tw, server := twin.NewServer(twin.Options{})

		GinkgoWriter.Printf("API_BASE_URL unset, testing twin at %s\n", server.URL)

		cfg.BaseURL = server.URL
		cfg.JobPollInterval = 10 * time.Millisecond
		cfg.JobPollTimeout = time.Second

		target.Twin = tw
		target.close = server.Close
	}

	Expect(cfg.Validate()).To(Succeed())

	return target
}

// Close stops the twin, if one was started.
func (t *Target) Close() {
	t.close()
}

// Live is true when testing a deployment rather than the twin.
func (t *Target) Live() bool {
	return t.Twin == nil
}

// NewClient returns a client carrying the given session's token, validating
// every response against the published contract.
func (t *Target) NewClient(ctx context.Context, state *session.State) *client.APIClient {
	validator, err := contract.New(ctx, t.Config.BaseURL)
	Expect(err).NotTo(HaveOccurred())

	return client.New(t.Config.BaseURL, t.Config.RequestTimeout,
		client.WithTokenSource(state),
		client.WithValidator(validator),
		client.WithRequestLogging(t.Config.LogRequests, t.Config.LogResponses),
	)
}

// Decode returns the body of a response as a JSON object.
func Decode(resp *client.Response) map[string]any {
	object, err := resp.Object()
	Expect(err).NotTo(HaveOccurred(), resp.String())

	return object
}

// SignupFreshUser creates an account unique to this call and stores its
// token in the session.
func SignupFreshUser(ctx context.Context, c *client.APIClient, state *session.State, password string) string {
	email := fmt.Sprintf("testuser_%d_%s@example.com", time.Now().Unix(), uuid.NewString()[:8])

	resp, err := c.Signup(ctx, client.NewCredentials(email, password))
	Expect(err).NotTo(HaveOccurred())
	Expect(resp.StatusCode).To(Equal(http.StatusCreated), resp.String())
	Expect(resp.SchemaError).NotTo(HaveOccurred())

	object := Decode(resp)

	token, ok := object["token"].(string)
	Expect(ok).To(BeTrue())

	user, ok := object["user"].(map[string]any)
	Expect(ok).To(BeTrue())

	state.SetAuth(token, fmt.Sprint(user["id"]))

	GinkgoWriter.Printf("Signed up %s\n", email)

	return email
}

// WaitForJob polls a job until it leaves the processing state and returns
// its final status.
func WaitForJob(ctx context.Context, c *client.APIClient, cfg *config.Config, jobID string) string {
	var status string

	Eventually(func() string {
		GinkgoWriter.Printf("Checking job %s, this can take up to %s\n", jobID, cfg.JobPollTimeout)

		resp, err := c.JobStatus(ctx, jobID)
		if err != nil || resp.StatusCode != http.StatusOK {
			return "error"
		}

		object, err := resp.Object()
		if err != nil {
			return "invalid"
		}

		status, _ = object["status"].(string)

		return status
	}).WithTimeout(cfg.JobPollTimeout).WithPolling(cfg.JobPollInterval).Should(BeElementOf("completed", "failed"))

	return status
}
