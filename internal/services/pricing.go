package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aliraza167/construction-planner/api/internal/catalog"
	"github.com/aliraza167/construction-planner/api/internal/models"
)

// PriceSelection maps a selection key to the currently selected unit price.
// Keys are "<floorIdx>:<material>" in per-floor mode (floorIdx is the 0-based
// position in the breakdown, not the service's floor value) and the bare
// material name in single-floor mode.
type PriceSelection map[string]float64

// SelectionKey builds the per-floor selection key.
func SelectionKey(floorIdx int, material string) string {
	return fmt.Sprintf("%d:%s", floorIdx, material)
}

// materialFromKey recovers the material name from a selection key. Only a
// numeric floor prefix is stripped, so a flat-mode material whose name
// contains a colon resolves unchanged.
func materialFromKey(key string) string {
	idx := strings.Index(key, ":")
	if idx <= 0 {
		return key
	}
	if _, err := strconv.Atoi(key[:idx]); err != nil {
		return key
	}
	return key[idx+1:]
}

// InitializeSelection selects the default tier (the first declared one) for
// every material in the result that the catalog prices. Materials absent from
// the catalog get no entry at all: they are excluded from pricing and display
// rather than priced at zero.
func InitializeSelection(materials models.MaterialsResult, cat catalog.Catalog) PriceSelection {
	selection := make(PriceSelection)

	if materials.IsPerFloor() {
		for floorIdx, fm := range materials.PerFloor {
			for material := range fm.Quantities {
				if tier, ok := cat.DefaultTier(material); ok {
					selection[SelectionKey(floorIdx, material)] = tier.Price
				}
			}
		}
		return selection
	}

	for material := range materials.Flat {
		if tier, ok := cat.DefaultTier(material); ok {
			selection[material] = tier.Price
		}
	}
	return selection
}

// SetTier replaces the selected price for a key with the named tier's price.
// Unknown tier names (and unknown keys) are a no-op: an invalid choice must
// never clear a price to zero.
func (s PriceSelection) SetTier(cat catalog.Catalog, key, tierName string) {
	if _, ok := s[key]; !ok {
		return
	}
	tier, ok := cat.FindTier(materialFromKey(key), tierName)
	if !ok {
		return
	}
	s[key] = tier.Price
}

// ComputeLineItems prices every (floor, material, quantity) entry of the
// result that has a selected price. Rows are ordered by floor position and
// then material name so repeated computations are identical. Per-floor rows
// carry the floor value the service returned (0 means ground floor).
func ComputeLineItems(materials models.MaterialsResult, selection PriceSelection) []models.MaterialLineItem {
	var items []models.MaterialLineItem

	if materials.IsPerFloor() {
		for floorIdx, fm := range materials.PerFloor {
			floorValue := fm.Floor
			for _, material := range sortedMaterials(fm.Quantities) {
				unitPrice, ok := selection[SelectionKey(floorIdx, material)]
				if !ok {
					continue
				}
				quantity := fm.Quantities[material]
				items = append(items, models.MaterialLineItem{
					Floor:      &floorValue,
					Material:   material,
					Quantity:   quantity,
					UnitPrice:  unitPrice,
					TotalPrice: unitPrice * quantity,
				})
			}
		}
		return items
	}

	for _, material := range sortedMaterials(materials.Flat) {
		unitPrice, ok := selection[material]
		if !ok {
			continue
		}
		quantity := materials.Flat[material]
		items = append(items, models.MaterialLineItem{
			Material:   material,
			Quantity:   quantity,
			UnitPrice:  unitPrice,
			TotalPrice: unitPrice * quantity,
		})
	}
	return items
}

func sortedMaterials(quantities map[string]float64) []string {
	materials := make([]string, 0, len(quantities))
	for material := range quantities {
		materials = append(materials, material)
	}
	sort.Strings(materials)
	return materials
}
