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

// Package runner sequences the conformance steps into stages and decides
// which can run given the identity obtained so far.
package runner

import (
	"context"

	"github.com/faceshot-chopshop/conformance/pkg/ledger"
	"github.com/faceshot-chopshop/conformance/pkg/steps"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// Stage is a phase of a run.
type Stage int

const (
	// StagePublic exercises endpoints that need no identity.
	StagePublic Stage = iota
	// StageAuth creates or recovers an identity.
	StageAuth
	// StageProtected exercises endpoints that need the identity.
	StageProtected
	// StageJobs exercises job submission and status.
	StageJobs
	// StageDone means every stage ran.
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StagePublic:
		return "public"
	case StageAuth:
		return "auth"
	case StageProtected:
		return "protected"
	case StageJobs:
		return "jobs"
	case StageDone:
		return "done"
	}

	return "unknown"
}

// step is a named unit of work. The name is reported when the step is
// skipped.
type step struct {
	name string
	run  func(context.Context) bool
}

type stage struct {
	stage Stage
	// authenticated stages are skipped without a session token.
	authenticated bool
	steps         []step
}

// Result is the outcome of a run.
type Result struct {
	Summary ledger.Summary
	// Skipped names the steps that did not run for want of a token.
	Skipped []string
	// Stage is the last stage reached.
	Stage Stage
}

// Success is true when something ran and nothing failed.
func (r Result) Success() bool {
	return r.Summary.Total > 0 && r.Summary.Success()
}

// ExitCode maps the result to a process exit status.
func (r Result) ExitCode() int {
	if r.Success() {
		return 0
	}

	return 1
}

// Runner drives a suite through every stage.
type Runner struct {
	suite  *steps.Suite
	ledger *ledger.Ledger
	stages []stage
}

// New returns a runner for the suite, recording into l.
func New(suite *steps.Suite, l *ledger.Ledger) *Runner {
	return &Runner{
		suite:  suite,
		ledger: l,
		stages: []stage{
			{
				stage: StagePublic,
				steps: []step{
					{name: "Health checks", run: suite.Health},
					{name: "Stats endpoint", run: suite.Stats},
					{name: "Catalog endpoint", run: suite.Catalog},
					{name: "Packs endpoint", run: suite.Packs},
				},
			},
			{
				stage: StageAuth,
				steps: []step{
					{name: "Auth signup", run: suite.Signup},
					{name: "Auth login", run: suite.Login},
				},
			},
			{
				stage:         StageProtected,
				authenticated: true,
				steps: []step{
					{name: "Auth me", run: suite.Whoami},
					{name: "Credits endpoint", run: suite.Credits},
					{name: "Creations endpoint", run: suite.Creations},
					{name: "Upload endpoint", run: suite.Upload},
					{name: "Unauthorized access", run: suite.Unauthorized},
				},
			},
			{
				stage:         StageJobs,
				authenticated: true,
				steps: []step{
					{name: "Status endpoint", run: suite.JobStatus},
					{name: "Process endpoint", run: suite.Process},
				},
			},
		},
	}
}

// Run executes every stage in order. It always returns a result, transport
// failures and cancellation are recorded as outcomes.
func (r *Runner) Run(ctx context.Context) Result {
	logger := log.FromContext(ctx).WithName("runner")

	result := Result{
		Stage: StageDone,
	}

	gated := false

	for _, s := range r.stages {
		if s.authenticated && !r.suite.Session().Authenticated() {
			if !gated {
				logger.Info("no session token, skipping authenticated stages", "stage", s.stage.String())

				gated = true
				result.Stage = s.stage - 1
			}

			for _, step := range s.steps {
				result.Skipped = append(result.Skipped, step.name)
			}

			continue
		}

		logger.Info("entering stage", "stage", s.stage.String(), "steps", len(s.steps))

		for _, step := range s.steps {
			ok := step.run(ctx)

			logger.V(1).Info("step finished", "stage", s.stage.String(), "step", step.name, "ok", ok)
		}
	}

	result.Summary = r.ledger.Summarize()

	logger.Info("run finished", "total", result.Summary.Total, "passed", result.Summary.Passed, "failed", result.Summary.Failed, "skipped", len(result.Skipped))

	return result
}
