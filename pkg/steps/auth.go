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
	"net/http"

	"github.com/faceshot-chopshop/conformance/pkg/client"
	"github.com/faceshot-chopshop/conformance/pkg/ledger"
	"github.com/faceshot-chopshop/conformance/pkg/policy"
)

// authenticated extracts the token and user id from a signup or login
// response body.
func authenticated(object map[string]any) (token string, user map[string]any, ok bool) {
	token, _ = object["token"].(string)
	user, _ = object["user"].(map[string]any)

	return token, user, token != "" && user != nil
}

// Signup creates a fresh account and adopts its token.
func (s *Suite) Signup(ctx context.Context) bool {
	const name = "Auth signup"

	return s.guard(ctx, name, ledger.CapabilityAuth, func() bool {
		credentials := client.NewSignupCredentials(s.now(), s.options.SignupPassword)

		resp, err := s.api.Signup(ctx, credentials)

		if _, ok := s.evaluate(name, ledger.CapabilityAuth, signupPolicy, resp, err); !ok {
			return false
		}

		object, ok := s.object(name, ledger.CapabilityAuth, resp)
		if !ok {
			return false
		}

		token, user, ok := authenticated(object)
		if !ok {
			return s.violation(name, ledger.CapabilityAuth, "Missing token or user in response", resp.String())
		}

		userID := identifier(user["id"])
		if userID == "" {
			return s.violation(name, ledger.CapabilityAuth, "Missing user ID in response", resp.String())
		}

		s.session.SetAuth(token, userID)
		s.email = string(credentials.Email)

		return s.pass(name, ledger.CapabilityAuth, "User created with ID: "+userID)
	})
}

// Login authenticates the preconfigured account. The token is only adopted
// when no earlier step authenticated. Rejected credentials are tolerated as
// the account need not exist on every deployment.
func (s *Suite) Login(ctx context.Context) bool {
	const name = "Auth login"

	return s.guard(ctx, name, ledger.CapabilityAuth, func() bool {
		credentials := client.NewCredentials(s.options.LoginEmail, s.options.LoginPassword)

		resp, err := s.api.Login(ctx, credentials)

		decision, ok := s.evaluate(name, ledger.CapabilityAuth, loginPolicy, resp, err)
		if !ok {
			return decision.Verdict == policy.Tolerate
		}

		object, ok := s.object(name, ledger.CapabilityAuth, resp)
		if !ok {
			return false
		}

		token, user, ok := authenticated(object)
		if !ok {
			return s.violation(name, ledger.CapabilityAuth, "Missing token or user in response", resp.String())
		}

		if !s.session.Authenticated() {
			s.session.SetAuth(token, identifier(user["id"]))
			s.email = s.options.LoginEmail
		}

		return s.pass(name, ledger.CapabilityAuth, fmt.Sprintf("Login successful for user: %v", user["email"]))
	})
}

// Whoami checks the token resolves to the account that obtained it.
func (s *Suite) Whoami(ctx context.Context) bool {
	const name = "Auth me"

	return s.guard(ctx, name, ledger.CapabilityAuth, func() bool {
		if !s.requireToken(name, ledger.CapabilityAuth) {
			return false
		}

		resp, err := s.api.Me(ctx)

		if _, ok := s.evaluate(name, ledger.CapabilityAuth, mePolicy, resp, err); !ok {
			return false
		}

		object, ok := s.object(name, ledger.CapabilityAuth, resp)
		if !ok {
			return false
		}

		if len(missingKeys(object, "id", "email")) > 0 {
			return s.violation(name, ledger.CapabilityAuth, "Missing user fields", resp.String())
		}

		email, _ := object["email"].(string)

		if s.email != "" && email != s.email {
			return s.violation(name, ledger.CapabilityAuth, fmt.Sprintf("Expected email %s, got %s", s.email, email), resp.String())
		}

		return s.pass(name, ledger.CapabilityAuth, "User info retrieved: "+email)
	})
}

// Unauthorized checks every protected endpoint rejects anonymous requests.
// The session token is restored afterwards.
func (s *Suite) Unauthorized(ctx context.Context) bool {
	ok := true

	s.session.WithoutAuth(func() {
		for _, path := range s.api.Endpoints().Protected() {
			name := "Unauthorized " + path

			ok = s.guard(ctx, name, ledger.CapabilityAccessControl, func() bool {
				return s.unauthorized(ctx, name, path)
			}) && ok
		}
	})

	return ok
}

func (s *Suite) unauthorized(ctx context.Context, name, path string) bool {
	resp, err := s.api.Do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		s.recordError(name, ledger.CapabilityAccessControl, err)

		return false
	}

	if unauthorizedPolicy.Decide(resp.StatusCode, resp.ErrorCode()).Verdict != policy.Accept {
		return s.violation(name, ledger.CapabilityAccessControl, fmt.Sprintf("Should return 401, got %d", resp.StatusCode), resp.String())
	}

	return s.pass(name, ledger.CapabilityAccessControl, "Correctly rejected unauthorized request")
}
