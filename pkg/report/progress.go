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

// Package report renders a conformance run for people and for machines.
package report

import (
	"fmt"
	"io"

	"github.com/faceshot-chopshop/conformance/pkg/ledger"
)

// Banner introduces a run.
func Banner(w io.Writer, baseURL string) {
	fmt.Fprintln(w, "🚀 Starting FaceShot ChopShop backend conformance run")
	fmt.Fprintf(w, "Testing backend at: %s\n", baseURL)
}

// Progress returns a ledger observer that prints one line per outcome.
// Details are only printed for failures.
func Progress(w io.Writer) ledger.Observer {
	return func(outcome ledger.Outcome) {
		fmt.Fprintf(w, "%s: %s - %s\n", marker(outcome), outcome.Name, outcome.Message)

		if !outcome.Success && outcome.Details != nil {
			fmt.Fprintf(w, "   Details: %v\n", outcome.Details)
		}
	}
}

func marker(outcome ledger.Outcome) string {
	switch {
	case outcome.Kind == ledger.Tolerated:
		return "⚠️  TOLERATED"
	case outcome.Success:
		return "✅ PASS"
	}

	return "❌ FAIL"
}
