package model

import "slices"

// NoRegion is the SelectedRegion value when no region is selected.
const NoRegion = -1

// State is the dashboard's view of one pipeline connection.
type State struct {
	CurrentStage   Stage             `json:"currentStage" yaml:"currentStage"`
	Regions        []Region          `json:"regions" yaml:"regions"`
	SelectedRegion int               `json:"selectedRegion" yaml:"selectedRegion"`
	SelectedBug    *Bug              `json:"selectedBug,omitempty" yaml:"selectedBug,omitempty"`
	SelectedLine   *VerilogLine      `json:"selectedLine,omitempty" yaml:"selectedLine,omitempty"`
	MutatedLine    *VerilogLine      `json:"mutatedLine,omitempty" yaml:"mutatedLine,omitempty"`
	Evaluation     *EvaluationResult `json:"evaluation,omitempty" yaml:"evaluation,omitempty"`
	BugFrequencies []BugFrequency    `json:"bugFrequencies" yaml:"bugFrequencies"`
	SuccessRate    float64           `json:"successRate" yaml:"successRate"`
}

// NewState returns the state of a freshly opened connection.
func NewState() State {
	return State{SelectedRegion: NoRegion}
}

// Region returns the selected region, if any.
func (s State) Region() (Region, bool) {
	if s.SelectedRegion < 0 || s.SelectedRegion >= len(s.Regions) {
		return Region{}, false
	}

	return s.Regions[s.SelectedRegion], true
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	out.Regions = cloneRegions(s.Regions)
	out.BugFrequencies = slices.Clone(s.BugFrequencies)

	if s.SelectedBug != nil {
		bug := *s.SelectedBug
		bug.Justification = cloneString(bug.Justification)
		out.SelectedBug = &bug
	}

	out.SelectedLine = cloneLine(s.SelectedLine)
	out.MutatedLine = cloneLine(s.MutatedLine)

	if s.Evaluation != nil {
		eval := *s.Evaluation
		eval.Error = cloneString(eval.Error)
		out.Evaluation = &eval
	}

	return out
}

func cloneRegions(regions []Region) []Region {
	if regions == nil {
		return nil
	}

	out := make([]Region, len(regions))
	for i, region := range regions {
		region.Description = cloneString(region.Description)
		out[i] = region
	}

	return out
}

func cloneLine(line *VerilogLine) *VerilogLine {
	if line == nil {
		return nil
	}

	out := *line
	out.After = cloneString(line.After)
	out.Justification = cloneString(line.Justification)

	return &out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}

	v := *s

	return &v
}
