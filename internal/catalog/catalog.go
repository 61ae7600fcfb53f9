// Package catalog provides the static material price book. Each material
// maps to an ordered list of quality tiers; the first tier is the default
// selection. Materials absent from the catalog are never priced or displayed.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed material_prices.json
var materialPricesJSON []byte

// Tier is one priced brand/grade option for a material.
type Tier struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Catalog maps a material key to its ordered tier list.
type Catalog map[string][]Tier

// Load parses the embedded price book. It fails only on a malformed embed,
// which is a build problem rather than a runtime condition.
func Load() (Catalog, error) {
	var cat Catalog
	if err := json.Unmarshal(materialPricesJSON, &cat); err != nil {
		return nil, fmt.Errorf("parse embedded material prices: %w", err)
	}
	for material, tiers := range cat {
		if len(tiers) == 0 {
			return nil, fmt.Errorf("material %q has no price tiers", material)
		}
	}
	return cat, nil
}

// Has reports whether the material is priced by the catalog.
func (c Catalog) Has(material string) bool {
	_, ok := c[material]
	return ok
}

// DefaultTier returns the first declared tier for a material.
func (c Catalog) DefaultTier(material string) (Tier, bool) {
	tiers, ok := c[material]
	if !ok || len(tiers) == 0 {
		return Tier{}, false
	}
	return tiers[0], true
}

// FindTier looks up a tier by name within a material's entry.
func (c Catalog) FindTier(material, name string) (Tier, bool) {
	for _, tier := range c[material] {
		if tier.Name == name {
			return tier, true
		}
	}
	return Tier{}, false
}
