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

package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faceshot-chopshop/conformance/pkg/ledger"
)

func TestEmptyLedgerSummary(t *testing.T) {
	t.Parallel()

	summary := ledger.New().Summarize()

	require.Zero(t, summary.Total)
	require.Zero(t, summary.Passed)
	require.Zero(t, summary.Failed)
	require.True(t, summary.Success())
	require.Empty(t, summary.Failures)
}

func TestRecordIsAppendOnly(t *testing.T) {
	t.Parallel()

	l := ledger.New()

	kinds := []ledger.Kind{
		ledger.Passed,
		ledger.ContractViolation,
		ledger.Tolerated,
		ledger.TransportFailure,
		ledger.PrerequisiteMissing,
		ledger.Errored,
	}

	for i, kind := range kinds {
		l.Record(ledger.Outcome{Name: kind.String(), Kind: kind})
		require.Equal(t, i+1, l.Len())
	}

	outcomes := l.Outcomes()
	for i, kind := range kinds {
		require.Equal(t, kind.String(), outcomes[i].Name)
	}

	// Mutating the returned copy must not affect the ledger.
	outcomes[0].Name = "changed"
	require.Equal(t, "passed", l.Outcomes()[0].Name)
}

func TestSuccessIsDerivedFromKind(t *testing.T) {
	t.Parallel()

	l := ledger.New()
	l.Record(ledger.Outcome{Name: "a", Kind: ledger.Passed, Success: false})
	l.Record(ledger.Outcome{Name: "b", Kind: ledger.Tolerated})
	l.Record(ledger.Outcome{Name: "c", Kind: ledger.ContractViolation, Success: true})

	outcomes := l.Outcomes()
	require.True(t, outcomes[0].Success)
	require.True(t, outcomes[1].Success)
	require.False(t, outcomes[2].Success)
}

func TestSummaryCountsAddUp(t *testing.T) {
	t.Parallel()

	l := ledger.New()

	for i := range 10 {
		kind := ledger.Passed
		if i%3 == 0 {
			kind = ledger.ContractViolation
		}

		l.Record(ledger.Outcome{Name: "step", Kind: kind})

		summary := l.Summarize()
		require.Equal(t, summary.Total, summary.Passed+summary.Failed)
		require.Equal(t, l.Len(), summary.Total)
		require.Len(t, summary.Failures, summary.Failed)
	}

	summary := l.Summarize()
	require.Equal(t, 4, summary.Failed)
	require.False(t, summary.Success())
}

func TestCapabilityRollups(t *testing.T) {
	t.Parallel()

	l := ledger.New()
	l.Record(ledger.Outcome{Name: "Auth signup", Kind: ledger.ContractViolation, Capability: ledger.CapabilityAuth})
	l.Record(ledger.Outcome{Name: "Auth login", Kind: ledger.Tolerated, Capability: ledger.CapabilityAuth})
	l.Record(ledger.Outcome{Name: "Catalog endpoint", Kind: ledger.ContractViolation, Capability: ledger.CapabilityCatalog})
	l.Record(ledger.Outcome{Name: "untagged", Kind: ledger.Passed})

	summary := l.Summarize()

	assert.True(t, summary.Working(ledger.CapabilityAuth))
	assert.False(t, summary.Working(ledger.CapabilityCatalog))
	assert.False(t, summary.Working(ledger.CapabilityCredits))

	_, exercised := summary.Capabilities[ledger.CapabilityCredits]
	assert.False(t, exercised)
	assert.Len(t, summary.Capabilities, 2)
}

func TestObserversSeeEveryOutcome(t *testing.T) {
	t.Parallel()

	var seen []ledger.Outcome

	l := ledger.New(func(o ledger.Outcome) {
		seen = append(seen, o)
	})

	l.Record(ledger.Outcome{Name: "one", Kind: ledger.Passed})
	l.Record(ledger.Outcome{Name: "two", Kind: ledger.Errored})

	require.Len(t, seen, 2)
	require.True(t, seen[0].Success)
	require.False(t, seen[1].Success)
}

func TestKindStrings(t *testing.T) {
	t.Parallel()

	require.Equal(t, "passed", ledger.Passed.String())
	require.Equal(t, "tolerated", ledger.Tolerated.String())
	require.Equal(t, "contract-violation", ledger.ContractViolation.String())
	require.Equal(t, "transport-failure", ledger.TransportFailure.String())
	require.Equal(t, "prerequisite-missing", ledger.PrerequisiteMissing.String())
	require.Equal(t, "errored", ledger.Errored.String())
	require.Equal(t, "unknown", ledger.Kind(99).String())
}
