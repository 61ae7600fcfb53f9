package models

// EstimateRequest is the wire payload for POST /estimate on the estimation
// service. Field names follow the service's snake_case contract. Bedrooms,
// bathrooms and the feature toggles describe floor 1; FloorsDetail carries
// the remaining floors.
type EstimateRequest struct {
	AreaValue     float64       `json:"area_value"`
	Unit          string        `json:"unit"`
	MarlaStandard string        `json:"marla_standard"`
	Quality       string        `json:"quality"`
	City          string        `json:"city"`
	OverallLength float64       `json:"overall_length"`
	OverallWidth  float64       `json:"overall_width"`
	Bedrooms      int           `json:"bedrooms"`
	Bathrooms     int           `json:"bathrooms"`
	LivingRooms   int           `json:"living_rooms"`
	DrawingDining string        `json:"drawing_dining"`
	Garage        string        `json:"garage"`
	Floors        int           `json:"floors"`
	ExtraFeatures string        `json:"extra_features"`
	Style         string        `json:"style"`
	FloorsDetail  []FloorDetail `json:"floors_detail"`
}

// FloorDetail is the per-floor wire shape used in FloorsDetail for every
// floor above the ground floor.
type FloorDetail struct {
	FloorNumber   int    `json:"floor_number"`
	FloorName     string `json:"floor_name"`
	Bedrooms      int    `json:"bedrooms"`
	Bathrooms     int    `json:"bathrooms"`
	Kitchens      int    `json:"kitchens"`
	LivingRooms   int    `json:"living_rooms"`
	DrawingDining string `json:"drawing_dining"`
	Garage        string `json:"garage"`
}

// EstimateResponse is the estimation service's reply.
type EstimateResponse struct {
	Result EstimateResult `json:"result"`
}

// EstimateResult groups the materials quantities, the backend cost breakdown,
// the generated plan table and the optional finishing guide.
type EstimateResult struct {
	Materials MaterialsResult        `json:"materials"`
	Cost      CostBreakdown          `json:"cost"`
	Plan      map[string]interface{} `json:"plan"`
	Finishing *Finishing             `json:"finishing,omitempty"`
}

// CostBreakdown carries the service-computed cost figures the report needs.
type CostBreakdown struct {
	LabourCost    float64 `json:"labour_cost"`
	FinishingCost float64 `json:"finishing_cost"`
}

// Finishing holds the finishing-stage guidance attached to an estimate.
type Finishing struct {
	MaterialGuide []MaterialGuideItem `json:"material_guide"`
}

// MaterialGuideItem is one entry of the finishing material guide.
type MaterialGuideItem struct {
	Category     string `json:"category"`
	MaterialType string `json:"material_type"`
	Notes        string `json:"notes"`
}

// ImageRequest is the wire payload for POST /generate-images. The image
// generator is a display-only collaborator; nothing in the workflow depends
// on its output beyond URL presence.
type ImageRequest struct {
	PlotDepthFt         float64       `json:"plot_depth_ft"`
	PlotWidthFt         float64       `json:"plot_width_ft"`
	NumberOfFloors      int           `json:"number_of_floors"`
	KitchenType         string        `json:"kitchen_type"`
	ArchitecturalStyle  string        `json:"architectural_style"`
	ExtraFeatures       string        `json:"extra_features"`
	FloorsConfiguration []FloorConfig `json:"floors_configuration"`
}
