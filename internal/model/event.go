package model

// EventType is the tag of an inbound pipeline event.
type EventType string

// Event tags as sent by the pipeline.
const (
	EventSetCurrentProcess EventType = "setCurrentProcess"
	EventUpdateStats       EventType = "updateStats"
	EventSplitFile         EventType = "splitFile"
	EventSelectRegion      EventType = "selectRegion"
	EventSelectBug         EventType = "selectBug"
	EventMutateLine        EventType = "mutateLine"
	EventEvaluate          EventType = "evaluate"
)

// EventTypes lists every known tag.
var EventTypes = []EventType{
	EventSetCurrentProcess,
	EventUpdateStats,
	EventSplitFile,
	EventSelectRegion,
	EventSelectBug,
	EventMutateLine,
	EventEvaluate,
}

// Event is one state transition reported by the pipeline.
type Event interface {
	Type() EventType
}

// SetCurrentProcess announces the stage the pipeline entered.
type SetCurrentProcess struct {
	Stage Stage
}

// UpdateStats carries aggregate injection statistics.
type UpdateStats struct {
	Stats Stats
}

// SplitFile carries the regions of a new pipeline run.
type SplitFile struct {
	Regions []Region
}

// SelectRegion carries the index of the chosen region, or NoRegion.
// The index must address one of the regions of the last SplitFile, so a
// selection that arrives before any SplitFile, or one past the end, is
// rejected and leaves the state as it was. Only NoRegion is always valid.
type SelectRegion struct {
	Index int
}

// SelectBug carries the chosen bug and the line it targets.
type SelectBug struct {
	Bug  Bug
	Line VerilogLine
}

// MutateLine carries the rewritten line.
type MutateLine struct {
	Line VerilogLine
}

// Evaluate carries the evaluation outcome.
type Evaluate struct {
	Result EvaluationResult
}

func (SetCurrentProcess) Type() EventType { return EventSetCurrentProcess }
func (UpdateStats) Type() EventType       { return EventUpdateStats }
func (SplitFile) Type() EventType         { return EventSplitFile }
func (SelectRegion) Type() EventType      { return EventSelectRegion }
func (SelectBug) Type() EventType         { return EventSelectBug }
func (MutateLine) Type() EventType        { return EventMutateLine }
func (Evaluate) Type() EventType          { return EventEvaluate }
