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

package twin

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/catalog.yaml
var catalogFixture []byte

//go:embed fixtures/packs.yaml
var packsFixture []byte

// Tool is a catalog entry.
type Tool struct {
	Key            string `yaml:"key" json:"key"`
	SKUCode        string `yaml:"sku_code" json:"sku_code"`
	Name           string `yaml:"name" json:"name"`
	Category       string `yaml:"category" json:"category"`
	BaseCredits    int    `yaml:"base_credits" json:"base_credits"`
	BasePriceCents int    `yaml:"base_price_cents" json:"base_price_cents"`
}

// Pack is a purchasable bundle of credits.
type Pack struct {
	Type       string `yaml:"type" json:"type"`
	Points     int    `yaml:"points" json:"points"`
	PriceCents int    `yaml:"price_cents" json:"price_cents"`
}

// DefaultCatalog returns the 21 tools the production service ships.
func DefaultCatalog() []Tool {
	var tools []Tool
	if err := yaml.Unmarshal(catalogFixture, &tools); err != nil {
		panic(fmt.Errorf("decoding embedded catalog: %w", err))
	}

	return tools
}

// DefaultPacks returns the 4 credit packs the production service sells.
func DefaultPacks() []Pack {
	var packs []Pack
	if err := yaml.Unmarshal(packsFixture, &packs); err != nil {
		panic(fmt.Errorf("decoding embedded packs: %w", err))
	}

	return packs
}
