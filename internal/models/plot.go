package models

// MarlaStandard identifies which historical marla size convention maps
// area to plot dimensions.
type MarlaStandard string

const (
	// StandardGovt is the 225 sq.ft government marla.
	StandardGovt MarlaStandard = "225 (Govt)"
	// StandardLahore is the 272.25 sq.ft Lahore/old marla.
	StandardLahore MarlaStandard = "272.25 (Lahore/old)"
)

// Quality is the overall construction quality tier sent to the estimation service.
type Quality string

const (
	QualityEconomy  Quality = "Economy"
	QualityStandard Quality = "Standard"
	QualityPremium  Quality = "Premium"
)

// Cities supported by the estimation service. "Others" is the catch-all.
var Cities = []string{
	"Lahore",
	"Faisalabad",
	"Islamabad",
	"Karachi",
	"Multan",
	"Peshawar",
	"Rawalpindi",
	"Others",
}

// PlotSpec holds the plot-level inputs collected on the first wizard step.
// OverallLength and OverallWidth are derived from (Standard, AreaValue) when
// either changes, but stay independently editable afterward; editing the
// dimensions directly never recomputes AreaValue.
type PlotSpec struct {
	AreaValue     float64       `json:"areaValue"`
	AreaUnit      string        `json:"areaUnit"`
	Standard      MarlaStandard `json:"marlaStandard"`
	OverallLength float64       `json:"overallLength"`
	OverallWidth  float64       `json:"overallWidth"`
	City          string        `json:"city"`
	Quality       Quality       `json:"quality"`
	Style         string        `json:"style"`
	ExtraFeatures string        `json:"extraFeatures"`
}

// DefaultPlotSpec returns the initial plot form state for a new session.
func DefaultPlotSpec() PlotSpec {
	return PlotSpec{
		AreaUnit: "Marla",
		Standard: StandardLahore,
		City:     "Faisalabad",
		Quality:  QualityStandard,
		Style:    "Pakistani",
	}
}
