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
	"encoding/json"
	"fmt"
	"io"
	"os"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/faceshot-chopshop/conformance/pkg/ledger"
	"github.com/faceshot-chopshop/conformance/pkg/runner"
	"github.com/faceshot-chopshop/conformance/pkg/steps"
)

// Outcome is the serialized form of a ledger outcome.
type Outcome struct {
	Name       string `json:"name"`
	Success    bool   `json:"success"`
	Kind       string `json:"kind"`
	Capability string `json:"capability,omitempty"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

// Document is the machine readable report of a run.
type Document struct {
	BaseURL      string          `json:"base_url"`
	Success      bool            `json:"success"`
	Stage        string          `json:"stage"`
	Total        int             `json:"total"`
	Passed       int             `json:"passed"`
	Failed       int             `json:"failed"`
	Capabilities map[string]bool `json:"capabilities"`
	Skipped      []string        `json:"skipped"`
	Outcomes     []Outcome       `json:"outcomes"`

	// AcceptedStatuses lists, per policy table, the status codes that can pass.
	AcceptedStatuses map[string][]int `json:"accepted_statuses"`
}

// NewDocument builds a report from a result and the outcomes behind it.
func NewDocument(baseURL string, result runner.Result, outcomes []ledger.Outcome) *Document {
	doc := &Document{
		BaseURL:      baseURL,
		Success:      result.Success(),
		Stage:        result.Stage.String(),
		Total:        result.Summary.Total,
		Passed:       result.Summary.Passed,
		Failed:       result.Summary.Failed,
		Capabilities: make(map[string]bool, len(result.Summary.Capabilities)),
		Skipped:      []string{},
		Outcomes:     make([]Outcome, len(outcomes)),

		AcceptedStatuses: map[string][]int{},
	}

	for name, table := range steps.Policies() {
		doc.AcceptedStatuses[name] = sets.List(table.Statuses())
	}

	for capability, working := range result.Summary.Capabilities {
		doc.Capabilities[string(capability)] = working
	}

	doc.Skipped = append(doc.Skipped, result.Skipped...)

	for i, outcome := range outcomes {
		doc.Outcomes[i] = Outcome{
			Name:       outcome.Name,
			Success:    outcome.Success,
			Kind:       outcome.Kind.String(),
			Capability: string(outcome.Capability),
			Message:    outcome.Message,
			Details:    outcome.Details,
		}
	}

	return doc
}

// Encode writes the document as indented JSON.
func (d *Document) Encode(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(d); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	return nil
}

// WriteFile writes the document to path, replacing any existing file.
func (d *Document) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}

	if err := d.Encode(f); err != nil {
		_ = f.Close()

		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing report file: %w", err)
	}

	return nil
}
