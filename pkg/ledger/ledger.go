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

// Package ledger records the ordered outcomes of a conformance run.
package ledger

import (
	"slices"
)

// Kind classifies how an outcome came about.
type Kind int

const (
	// Passed means the response matched an accepted pattern.
	Passed Kind = iota
	// Tolerated means the response is a known environment limitation
	// (e.g. an unconfigured storage provider) and counts as a pass.
	Tolerated
	// ContractViolation means status or body matched no accepted pattern.
	ContractViolation
	// TransportFailure means the request never produced a response.
	TransportFailure
	// PrerequisiteMissing means state from an earlier step was absent.
	PrerequisiteMissing
	// Errored means the step itself failed unexpectedly.
	Errored
)

// Success reports whether outcomes of this kind count as passing.
func (k Kind) Success() bool {
	return k == Passed || k == Tolerated
}

func (k Kind) String() string {
	switch k {
	case Passed:
		return "passed"
	case Tolerated:
		return "tolerated"
	case ContractViolation:
		return "contract-violation"
	case TransportFailure:
		return "transport-failure"
	case PrerequisiteMissing:
		return "prerequisite-missing"
	case Errored:
		return "errored"
	}

	return "unknown"
}

// Capability tags an outcome with the area of the API it exercised.
type Capability string

const (
	CapabilityHealth        Capability = "health"
	CapabilityStats         Capability = "stats"
	CapabilityCatalog       Capability = "catalog"
	CapabilityPacks         Capability = "packs"
	CapabilityAuth          Capability = "auth"
	CapabilityCredits       Capability = "credits"
	CapabilityCreations     Capability = "creations"
	CapabilityUploads       Capability = "uploads"
	CapabilityJobs          Capability = "jobs"
	CapabilityAccessControl Capability = "access-control"
)

// Outcome is a single assertion result.
type Outcome struct {
	Name       string
	Success    bool
	Message    string
	Details    any
	Kind       Kind
	Capability Capability
}

// Observer is notified of every outcome as it is recorded.
type Observer func(Outcome)

// Ledger is an append-only sequence of outcomes.
type Ledger struct {
	outcomes  []Outcome
	observers []Observer
}

// New returns an empty ledger.
func New(observers ...Observer) *Ledger {
	return &Ledger{
		observers: observers,
	}
}

// Record appends an outcome. Success is derived from the kind.
func (l *Ledger) Record(outcome Outcome) {
	outcome.Success = outcome.Kind.Success()

	l.outcomes = append(l.outcomes, outcome)

	for _, observer := range l.observers {
		observer(outcome)
	}
}

// Len returns the number of recorded outcomes.
func (l *Ledger) Len() int {
	return len(l.outcomes)
}

// Outcomes returns a copy of the recorded outcomes in order.
func (l *Ledger) Outcomes() []Outcome {
	return slices.Clone(l.outcomes)
}

// Summarize computes aggregates over everything recorded so far.
func (l *Ledger) Summarize() Summary {
	summary := Summary{
		Total:        len(l.outcomes),
		Capabilities: map[Capability]bool{},
	}

	for _, outcome := range l.outcomes {
		if outcome.Success {
			summary.Passed++
		} else {
			summary.Failed++
			summary.Failures = append(summary.Failures, outcome)
		}

		if outcome.Capability != "" {
			summary.Capabilities[outcome.Capability] = summary.Capabilities[outcome.Capability] || outcome.Success
		}
	}

	return summary
}
