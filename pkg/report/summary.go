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

package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/faceshot-chopshop/conformance/pkg/ledger"
	"github.com/faceshot-chopshop/conformance/pkg/runner"
)

// capabilityLabels orders and names the rollup rows.
//
//nolint:gochecknoglobals
var capabilityLabels = []struct {
	capability ledger.Capability
	label      string
}{
	{ledger.CapabilityHealth, "Health probes"},
	{ledger.CapabilityStats, "Statistics"},
	{ledger.CapabilityAuth, "Authentication"},
	{ledger.CapabilityCatalog, "Catalog (21 tools)"},
	{ledger.CapabilityPacks, "Credit packs"},
	{ledger.CapabilityCredits, "Credits System"},
	{ledger.CapabilityCreations, "Creations"},
	{ledger.CapabilityUploads, "Uploads"},
	{ledger.CapabilityJobs, "Jobs"},
	{ledger.CapabilityAccessControl, "Access control"},
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)

	return t
}

func status(working bool) string {
	if working {
		return "✅ Working"
	}

	return "❌ Issues"
}

// Summary prints totals, failures, the capability rollup and skipped steps.
func Summary(w io.Writer, result runner.Result) {
	summary := result.Summary

	fmt.Fprintln(w)
	fmt.Fprintln(w, "🧪 TEST SUMMARY")

	totals := newTable(w)
	totals.AppendHeader(table.Row{"Total", "Passed", "Failed", "Skipped", "Stage"})
	totals.AppendRow(table.Row{summary.Total, summary.Passed, summary.Failed, len(result.Skipped), result.Stage.String()})
	totals.Render()

	if len(summary.Failures) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "🔍 FAILED TESTS:")

		failures := newTable(w)
		failures.AppendHeader(table.Row{"Test", "Kind", "Message"})

		for _, outcome := range summary.Failures {
			failures.AppendRow(table.Row{outcome.Name, outcome.Kind.String(), outcome.Message})
		}

		failures.Render()
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "📊 Capability status:")

	capabilities := newTable(w)
	capabilities.AppendHeader(table.Row{"Capability", "Status"})

	for _, c := range capabilityLabels {
		if _, exercised := summary.Capabilities[c.capability]; !exercised {
			capabilities.AppendRow(table.Row{c.label, "⏭️  Not exercised"})
			continue
		}

		capabilities.AppendRow(table.Row{c.label, status(summary.Working(c.capability))})
	}

	capabilities.Render()

	if len(result.Skipped) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "⏭️  SKIPPED (no auth token):")

		for _, name := range result.Skipped {
			fmt.Fprintf(w, "  • %s\n", name)
		}
	}

	fmt.Fprintln(w)

	if result.Success() {
		fmt.Fprintln(w, "🎉 All tests passed!")
	} else {
		fmt.Fprintln(w, "⚠️  Some tests failed. Check the details above.")
	}
}
