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

package ledger

// Summary is derived from a ledger on demand.
type Summary struct {
	Total  int
	Passed int
	Failed int

	// Capabilities is true for a capability when at least one outcome
	// tagged with it passed. Capabilities that were never exercised are
	// absent.
	Capabilities map[Capability]bool

	// Failures lists failed outcomes in recording order.
	Failures []Outcome
}

// Success is true when nothing failed. An empty summary is trivially
// successful, callers must ensure something ran.
func (s Summary) Success() bool {
	return s.Failed == 0
}

// Working reports whether a capability has at least one passing outcome.
func (s Summary) Working(capability Capability) bool {
	return s.Capabilities[capability]
}
