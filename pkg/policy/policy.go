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

// Package policy maps observed HTTP responses to verdicts. Each scenario
// step owns one Table, so what counts as healthy versus broken for an
// endpoint is declared in one place and can be tested on its own.
package policy

import (
	"fmt"
	"net/http"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"
)

// Verdict is the classification of a response.
type Verdict int

const (
	// Reject is the default: the response violates the contract.
	Reject Verdict = iota
	// Accept means the response is expected. The step still checks the
	// body shape.
	Accept
	// Tolerate means the response reports a known environment limitation
	// and should be recorded as passing with the rule's note.
	Tolerate
)

func (v Verdict) String() string {
	switch v {
	case Accept:
		return "accept"
	case Tolerate:
		return "tolerate"
	case Reject:
		return "reject"
	}

	return "unknown"
}

// Rule matches a status code and, optionally, an error code.
type Rule struct {
	Status  int
	Verdict Verdict
	// ErrorCode must be contained in the body's "error" field when set.
	ErrorCode string
	Note      string
}

func (r Rule) matches(status int, errorCode string) bool {
	if r.Status != status {
		return false
	}

	return r.ErrorCode == "" || strings.Contains(errorCode, r.ErrorCode)
}

// Table is an ordered list of rules. The first match wins.
type Table struct {
	Name  string
	Rules []Rule
}

// Decision is the result of evaluating a table.
type Decision struct {
	Verdict Verdict
	// Rule is the matching rule, nil on a default rejection.
	Rule *Rule
	// Reason explains a rejection, or carries the rule note otherwise.
	Reason string
}

// Decide evaluates the table against a status code and the body's error code.
func (t Table) Decide(status int, errorCode string) Decision {
	statusKnown := false

	for i := range t.Rules {
		rule := &t.Rules[i]

		if rule.matches(status, errorCode) {
			return Decision{
				Verdict: rule.Verdict,
				Rule:    rule,
				Reason:  rule.Note,
			}
		}

		if rule.Status == status {
			statusKnown = true
		}
	}

	if statusKnown {
		return Decision{
			Verdict: Reject,
			Reason:  fmt.Sprintf("HTTP %d with unexpected error code %q", status, errorCode),
		}
	}

	return Decision{
		Verdict: Reject,
		Reason:  fmt.Sprintf("HTTP %d", status),
	}
}

// Statuses returns every status code the table can pass.
func (t Table) Statuses() sets.Set[int] {
	statuses := sets.New[int]()

	for _, rule := range t.Rules {
		if rule.Verdict != Reject {
			statuses.Insert(rule.Status)
		}
	}

	return statuses
}

// Expect builds a single-rule table accepting one status.
func Expect(name string, status int) Table {
	return Table{
		Name: name,
		Rules: []Rule{
			{Status: status, Verdict: Accept},
		},
	}
}

// ExpectOK builds a table accepting only 200.
func ExpectOK(name string) Table {
	return Expect(name, http.StatusOK)
}
