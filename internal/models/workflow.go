package models

// Step is the wizard step index.
type Step int

const (
	// StepInput collects the plot form and floor configuration.
	StepInput Step = 0
	// StepEstimateReview shows materials and tier selection.
	StepEstimateReview Step = 1
	// StepReport shows the aggregated cost report.
	StepReport Step = 2
	// StepArchitectureDesign is the optional image-generation step.
	StepArchitectureDesign Step = 3
)

// String returns the step label shown in the wizard stepper.
func (s Step) String() string {
	switch s {
	case StepInput:
		return "Input Details"
	case StepEstimateReview:
		return "Cost Estimation"
	case StepReport:
		return "Detailed Report"
	case StepArchitectureDesign:
		return "Architecture Design"
	default:
		return "Unknown"
	}
}

// WorkflowState is the session view of the wizard: the active step, the last
// successful estimate and whether the materials summary has been confirmed.
// The durable store owns the authoritative copy; this struct is rebuilt from
// storage on every request.
type WorkflowState struct {
	ActiveStep         Step              `json:"activeStep"`
	Plot               PlotSpec          `json:"plot"`
	Floors             []FloorConfig     `json:"floors"`
	Estimate           *EstimateResponse `json:"estimate,omitempty"`
	MaterialsConfirmed bool              `json:"materialsConfirmed"`
}
