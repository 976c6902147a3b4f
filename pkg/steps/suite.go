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

// Package steps implements the individual conformance checks. Each step
// issues one or more requests, classifies the responses against its policy
// table and records at least one outcome in the ledger.
package steps

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/faceshot-chopshop/conformance/pkg/client"
	"github.com/faceshot-chopshop/conformance/pkg/ledger"
	"github.com/faceshot-chopshop/conformance/pkg/policy"
	"github.com/faceshot-chopshop/conformance/pkg/session"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// API is the subset of the service client the steps drive.
type API interface {
	Endpoints() *client.Endpoints
	Do(ctx context.Context, method, path string, body io.Reader, contentType string) (*client.Response, error)
	Probe(ctx context.Context, path string) (*client.Response, error)
	Stats(ctx context.Context) (*client.Response, error)
	Catalog(ctx context.Context) (*client.Response, error)
	Packs(ctx context.Context) (*client.Response, error)
	Signup(ctx context.Context, credentials client.Credentials) (*client.Response, error)
	Login(ctx context.Context, credentials client.Credentials) (*client.Response, error)
	Me(ctx context.Context) (*client.Response, error)
	Credits(ctx context.Context) (*client.Response, error)
	Creations(ctx context.Context) (*client.Response, error)
	Upload(ctx context.Context, form *client.UploadForm) (*client.Response, error)
	JobStatus(ctx context.Context, jobID string) (*client.Response, error)
	Process(ctx context.Context, request client.ProcessRequest) (*client.Response, error)
}

// Ensure the interface is implemented.
var _ API = &client.APIClient{}

const (
	// ExpectedTools is the size of the published tool catalog.
	ExpectedTools = 21
	// ExpectedPacks is the number of purchasable credit packs.
	ExpectedPacks = 4
)

// Options tune the steps to the deployment under test.
type Options struct {
	LoginEmail     string
	LoginPassword  string
	SignupPassword string
	UploadType     string
	PollInterval   time.Duration
	PollTimeout    time.Duration
}

// Suite holds the state shared by the steps of a single run.
type Suite struct {
	api     API
	session *session.State
	ledger  *ledger.Ledger
	options Options

	// email is the address of the account whose token the session holds.
	email string

	// now is overridden by tests that need stable signup addresses.
	now func() time.Time
}

// New returns a suite that records into l and carries identity in s.
func New(api API, s *session.State, l *ledger.Ledger, options Options) *Suite {
	return &Suite{
		api:     api,
		session: s,
		ledger:  l,
		options: options,
		now:     time.Now,
	}
}

// WithClock replaces the time source used to derive signup addresses.
func (s *Suite) WithClock(now func() time.Time) *Suite {
	s.now = now

	return s
}

// Session returns the identity carried between steps.
func (s *Suite) Session() *session.State {
	return s.session
}

func (s *Suite) record(name string, capability ledger.Capability, kind ledger.Kind, message string, details any) {
	s.ledger.Record(ledger.Outcome{
		Name:       name,
		Message:    message,
		Details:    details,
		Kind:       kind,
		Capability: capability,
	})
}

func (s *Suite) pass(name string, capability ledger.Capability, message string) bool {
	s.record(name, capability, ledger.Passed, message, nil)

	return true
}

func (s *Suite) violation(name string, capability ledger.Capability, message string, details any) bool {
	s.record(name, capability, ledger.ContractViolation, message, details)

	return false
}

// guard runs a step and makes sure it leaves a trace in the ledger, even
// when it panics.
func (s *Suite) guard(ctx context.Context, name string, capability ledger.Capability, step func() bool) (ok bool) {
	before := s.ledger.Len()

	defer func() {
		if r := recover(); r != nil {
			log.FromContext(ctx).Info("step panicked", "step", name, "panic", r)

			s.record(name, capability, ledger.Errored, fmt.Sprintf("Step panicked: %v", r), nil)

			ok = false

			return
		}

		if s.ledger.Len() == before {
			s.record(name, capability, ledger.Errored, "Step recorded no outcome", nil)

			ok = false
		}
	}()

	return step()
}

// requireToken records a missing prerequisite when the session is not
// authenticated.
func (s *Suite) requireToken(name string, capability ledger.Capability) bool {
	if s.session.Authenticated() {
		return true
	}

	s.record(name, capability, ledger.PrerequisiteMissing, "No auth token available", nil)

	return false
}

// evaluate classifies a response. It returns true only when the response
// was accepted and the step should go on to check the body. Every other
// path records the outcome itself.
func (s *Suite) evaluate(name string, capability ledger.Capability, table policy.Table, resp *client.Response, err error) (policy.Decision, bool) {
	if err != nil {
		s.recordError(name, capability, err)

		return policy.Decision{}, false
	}

	decision := table.Decide(resp.StatusCode, resp.ErrorCode())

	switch decision.Verdict {
	case policy.Reject:
		s.violation(name, capability, decision.Reason, resp.String())

		return decision, false
	case policy.Tolerate:
		s.record(name, capability, ledger.Tolerated, decision.Reason, nil)

		return decision, false
	case policy.Accept:
	}

	if resp.SchemaError != nil {
		s.violation(name, capability, "Response does not match the published contract", resp.SchemaError.Error())

		return decision, false
	}

	return decision, true
}

func (s *Suite) recordError(name string, capability ledger.Capability, err error) {
	if client.IsTransportError(err) {
		s.record(name, capability, ledger.TransportFailure, "Exception: "+err.Error(), err.Error())
		return
	}

	s.record(name, capability, ledger.Errored, "Exception: "+err.Error(), nil)
}

// object decodes an accepted response as a JSON object, recording a
// violation when it is not one.
func (s *Suite) object(name string, capability ledger.Capability, resp *client.Response) (map[string]any, bool) {
	object, err := resp.Object()
	if err != nil {
		s.violation(name, capability, "Response is not a JSON object", resp.String())

		return nil, false
	}

	return object, true
}

// missingKeys returns the required keys absent from object, sorted.
func missingKeys(object map[string]any, required ...string) []string {
	return sets.List(sets.New(required...).Difference(sets.KeySet(object)))
}

// identifier renders a JSON id that may be a string or a number.
func identifier(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	}

	return fmt.Sprint(value)
}

var (
	errJobStatus = errors.New("unexpected job status response")
)
