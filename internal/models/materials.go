package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Reserved keys the estimation service mixes into its material quantity maps.
const (
	floorFieldKey         = "Floor"
	materialsCostFieldKey = "Materials Cost (PKR)"
)

// FloorMaterials holds the material quantities for one floor as returned by
// the estimation service. Floor carries the service's own floor value (0 is
// the ground floor). PrecomputedCost is the service's optional cost figure;
// pricing ignores it and recomputes from the selected tiers.
type FloorMaterials struct {
	Floor           int                `json:"floor"`
	Quantities      map[string]float64 `json:"quantities"`
	PrecomputedCost *float64           `json:"precomputedCost,omitempty"`
}

// MaterialsResult is the polymorphic materials payload of an estimate
// response, resolved into a tagged variant at ingestion: either a flat
// material→quantity map (single-floor plots) or an ordered per-floor
// breakdown. Exactly one of Flat and PerFloor is set.
type MaterialsResult struct {
	Flat     map[string]float64
	FlatCost *float64
	PerFloor []FloorMaterials
}

// IsPerFloor reports whether the result carries a per-floor breakdown.
func (m *MaterialsResult) IsPerFloor() bool {
	return m.PerFloor != nil
}

// UnmarshalJSON resolves the wire shape once so downstream code never
// re-detects it. A "PerFloorBreakdown" key selects per-floor mode; otherwise
// the object is treated as a flat quantity map. Non-numeric values and the
// reserved cost key are separated out rather than treated as materials.
func (m *MaterialsResult) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("materials result is not an object: %w", err)
	}

	if breakdown, ok := raw["PerFloorBreakdown"]; ok {
		var floors []map[string]json.RawMessage
		if err := json.Unmarshal(breakdown, &floors); err != nil {
			return fmt.Errorf("invalid PerFloorBreakdown: %w", err)
		}

		m.Flat = nil
		m.FlatCost = nil
		m.PerFloor = make([]FloorMaterials, 0, len(floors))
		for i, floorObj := range floors {
			fm := FloorMaterials{Quantities: make(map[string]float64)}
			for key, value := range floorObj {
				switch key {
				case floorFieldKey:
					floor, err := parseFloorValue(value)
					if err != nil {
						return fmt.Errorf("floor %d: %w", i, err)
					}
					fm.Floor = floor
				case materialsCostFieldKey:
					var cost float64
					if err := json.Unmarshal(value, &cost); err == nil {
						fm.PrecomputedCost = &cost
					}
				default:
					var qty float64
					if err := json.Unmarshal(value, &qty); err == nil {
						fm.Quantities[key] = qty
					}
				}
			}
			m.PerFloor = append(m.PerFloor, fm)
		}
		return nil
	}

	m.PerFloor = nil
	m.Flat = make(map[string]float64)
	for key, value := range raw {
		if key == materialsCostFieldKey {
			var cost float64
			if err := json.Unmarshal(value, &cost); err == nil {
				m.FlatCost = &cost
			}
			continue
		}
		var qty float64
		if err := json.Unmarshal(value, &qty); err == nil {
			m.Flat[key] = qty
		}
	}
	return nil
}

// MarshalJSON re-emits the original wire shape so persisted estimates stay
// compatible with what the service returned.
func (m MaterialsResult) MarshalJSON() ([]byte, error) {
	if m.PerFloor != nil {
		floors := make([]map[string]interface{}, 0, len(m.PerFloor))
		for _, fm := range m.PerFloor {
			floorObj := make(map[string]interface{}, len(fm.Quantities)+2)
			floorObj[floorFieldKey] = fm.Floor
			for material, qty := range fm.Quantities {
				floorObj[material] = qty
			}
			if fm.PrecomputedCost != nil {
				floorObj[materialsCostFieldKey] = *fm.PrecomputedCost
			}
			floors = append(floors, floorObj)
		}
		return json.Marshal(map[string]interface{}{"PerFloorBreakdown": floors})
	}

	flat := make(map[string]interface{}, len(m.Flat)+1)
	for material, qty := range m.Flat {
		flat[material] = qty
	}
	if m.FlatCost != nil {
		flat[materialsCostFieldKey] = *m.FlatCost
	}
	return json.Marshal(flat)
}

// parseFloorValue accepts the service's floor tag as either a JSON number or
// a numeric string ("0" and 0 both mean ground floor).
func parseFloorValue(raw json.RawMessage) (int, error) {
	var asNumber float64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return int(asNumber), nil
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		floor, err := strconv.Atoi(asString)
		if err != nil {
			return 0, fmt.Errorf("non-numeric floor value %q", asString)
		}
		return floor, nil
	}
	return 0, fmt.Errorf("unsupported floor value %s", string(raw))
}

// MaterialLineItem is one priced material row. Floor is nil in single-floor
// mode; otherwise it carries the service's floor value for that row.
type MaterialLineItem struct {
	Floor      *int    `json:"floor,omitempty"`
	Material   string  `json:"material"`
	Quantity   float64 `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	TotalPrice float64 `json:"totalPrice"`
}

// ConfirmedMaterialsSummary is the committed pricing decision: the line items
// and the grand total rounded to the nearest rupee. Created only on explicit
// confirmation and cleared whenever a new estimate is requested.
type ConfirmedMaterialsSummary struct {
	Items []MaterialLineItem `json:"items"`
	Total int64              `json:"total"`
}
