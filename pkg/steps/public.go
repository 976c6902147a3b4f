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

	"github.com/faceshot-chopshop/conformance/pkg/ledger"
)

// Health checks each liveness and readiness probe.
func (s *Suite) Health(ctx context.Context) bool {
	ok := true

	for _, path := range s.api.Endpoints().Probes() {
		name := "Health check " + path

		ok = s.guard(ctx, name, ledger.CapabilityHealth, func() bool {
			return s.probe(ctx, name, path)
		}) && ok
	}

	return ok
}

func (s *Suite) probe(ctx context.Context, name, path string) bool {
	resp, err := s.api.Probe(ctx, path)

	if _, ok := s.evaluate(name, ledger.CapabilityHealth, healthPolicy, resp, err); !ok {
		return false
	}

	object, ok := s.object(name, ledger.CapabilityHealth, resp)
	if !ok {
		return false
	}

	status, ok := object["status"]
	if !ok {
		return s.violation(name, ledger.CapabilityHealth, "Missing status field", resp.String())
	}

	return s.pass(name, ledger.CapabilityHealth, fmt.Sprintf("Status: %v", status))
}

// Stats checks the public usage statistics.
func (s *Suite) Stats(ctx context.Context) bool {
	const name = "Stats endpoint"

	return s.guard(ctx, name, ledger.CapabilityStats, func() bool {
		resp, err := s.api.Stats(ctx)

		if _, ok := s.evaluate(name, ledger.CapabilityStats, statsPolicy, resp, err); !ok {
			return false
		}

		object, ok := s.object(name, ledger.CapabilityStats, resp)
		if !ok {
			return false
		}

		if missing := missingKeys(object, "videos", "paying_users", "total_users", "conversion_rate", "revenue_cents"); len(missing) > 0 {
			return s.violation(name, ledger.CapabilityStats, fmt.Sprintf("Missing fields: %v", missing), resp.String())
		}

		return s.pass(name, ledger.CapabilityStats, "All fields present: "+resp.String())
	})
}

// Catalog checks the tool catalog is published in full.
func (s *Suite) Catalog(ctx context.Context) bool {
	const name = "Catalog endpoint"

	return s.guard(ctx, name, ledger.CapabilityCatalog, func() bool {
		resp, err := s.api.Catalog(ctx)

		if _, ok := s.evaluate(name, ledger.CapabilityCatalog, catalogPolicy, resp, err); !ok {
			return false
		}

		tools, err := resp.Array()
		if err != nil {
			return s.violation(name, ledger.CapabilityCatalog, "Response is not a list", resp.String())
		}

		if len(tools) != ExpectedTools {
			return s.violation(name, ledger.CapabilityCatalog, fmt.Sprintf("Expected %d tools, got %d", ExpectedTools, len(tools)), tools[:min(3, len(tools))])
		}

		return s.pass(name, ledger.CapabilityCatalog, fmt.Sprintf("Returned %d tools as expected", len(tools)))
	})
}

// Packs checks the credit packs are published with their prices.
func (s *Suite) Packs(ctx context.Context) bool {
	const name = "Packs endpoint"

	return s.guard(ctx, name, ledger.CapabilityPacks, func() bool {
		resp, err := s.api.Packs(ctx)

		if _, ok := s.evaluate(name, ledger.CapabilityPacks, packsPolicy, resp, err); !ok {
			return false
		}

		packs, err := resp.Array()
		if err != nil {
			return s.violation(name, ledger.CapabilityPacks, "Response is not a list", resp.String())
		}

		if len(packs) != ExpectedPacks {
			return s.violation(name, ledger.CapabilityPacks, fmt.Sprintf("Expected %d packs, got %d", ExpectedPacks, len(packs)), resp.String())
		}

		for _, pack := range packs {
			object, ok := pack.(map[string]any)
			if !ok || len(missingKeys(object, "type", "points", "price_cents")) > 0 {
				return s.violation(name, ledger.CapabilityPacks, "Invalid pack structure", resp.String())
			}
		}

		return s.pass(name, ledger.CapabilityPacks, fmt.Sprintf("Returned %d valid packs", len(packs)))
	})
}
