package model

import (
	"fmt"
	"strings"
)

// Stage is one ordered phase of the bug-injection pipeline.
type Stage int

const (
	// StageNone is the zero value, before the pipeline reported any stage.
	StageNone Stage = iota
	// StageSplitFile splits the source file into regions.
	StageSplitFile
	// StageSelectRegion picks the region to mutate.
	StageSelectRegion
	// StageSelectBug picks the bug class and the target line.
	StageSelectBug
	// StageMutateLine rewrites the selected line.
	StageMutateLine
	// StageEvaluate checks whether the mutation holds.
	StageEvaluate
)

// Stages lists every pipeline stage in execution order.
var Stages = []Stage{
	StageSplitFile,
	StageSelectRegion,
	StageSelectBug,
	StageMutateLine,
	StageEvaluate,
}

var stageNames = map[Stage]string{
	StageSplitFile:    "Split File",
	StageSelectRegion: "Select Region",
	StageSelectBug:    "Select Bug",
	StageMutateLine:   "Mutate Line",
	StageEvaluate:     "Evaluate",
}

// String returns the name the pipeline uses on the wire.
func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}

	return ""
}

// Valid reports whether s is one of the five pipeline stages.
func (s Stage) Valid() bool {
	return s >= StageSplitFile && s <= StageEvaluate
}

// ParseStage accepts "Split File", "SplitFile" and "split_file" spellings,
// ignoring case.
func ParseStage(name string) (Stage, error) {
	key := compactName(name)

	for _, stage := range Stages {
		if compactName(stage.String()) == key {
			return stage, nil
		}
	}

	return StageNone, fmt.Errorf("unknown stage %q", name)
}

// MarshalText encodes the stage by its wire name.
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a wire name; an empty name is StageNone.
func (s *Stage) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*s = StageNone
		return nil
	}

	stage, err := ParseStage(string(text))
	if err != nil {
		return err
	}

	*s = stage

	return nil
}

func compactName(name string) string {
	replacer := strings.NewReplacer(" ", "", "_", "", "-", "")
	return strings.ToLower(replacer.Replace(strings.TrimSpace(name)))
}

// HasStageLoaded reports whether the panel for stage may be shown while the
// pipeline is at current. Neither may be StageNone.
func HasStageLoaded(stage, current Stage) bool {
	if !stage.Valid() || !current.Valid() {
		return false
	}

	return stage <= current
}

// Path represents a file system path.
type Path string

// Region is a contiguous slice of the source file under analysis.
type Region struct {
	Name        string  `json:"name" yaml:"name"`
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
	TotalLines  int     `json:"totalLines" yaml:"totalLines"`
	BuggyLines  int     `json:"buggyLines" yaml:"buggyLines"`
}

// Validate checks 0 <= BuggyLines <= TotalLines.
func (r Region) Validate() error {
	if r.TotalLines < 0 {
		return fmt.Errorf("region %q: negative total lines %d", r.Name, r.TotalLines)
	}

	if r.BuggyLines < 0 || r.BuggyLines > r.TotalLines {
		return fmt.Errorf("region %q: buggy lines %d outside [0, %d]", r.Name, r.BuggyLines, r.TotalLines)
	}

	return nil
}
