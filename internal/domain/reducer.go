package domain

import (
	"errors"
	"fmt"
	"slices"

	m "github.com/mouse-blink/bugscope/internal/model"
)

// Apply returns the state that results from applying event to state.
// The input state is left untouched; on error the returned state equals it.
func Apply(state m.State, event m.Event) (m.State, error) {
	next := state

	switch ev := event.(type) {
	case m.SetCurrentProcess:
		if !ev.Stage.Valid() {
			return state, fmt.Errorf("%w: %d", ErrUnknownStage, ev.Stage)
		}

		next.CurrentStage = ev.Stage

	case m.UpdateStats:
		next.BugFrequencies = slices.Clone(ev.Stats.BugStats)
		next.SuccessRate = ev.Stats.SuccessRate()

	case m.SplitFile:
		// A new run invalidates everything downstream of the split.
		next.Regions = ev.Regions
		if next.Regions == nil {
			next.Regions = []m.Region{}
		}

		next.SelectedRegion = m.NoRegion
		next.SelectedBug = nil
		next.SelectedLine = nil
		next.MutatedLine = nil
		next.Evaluation = nil

	case m.SelectRegion:
		if ev.Index < m.NoRegion || ev.Index >= len(state.Regions) {
			return state, fmt.Errorf("%w: %d not in [-1, %d)", ErrRegionOutOfRange, ev.Index, len(state.Regions))
		}

		next.SelectedRegion = ev.Index

	case m.SelectBug:
		bug := ev.Bug
		line := ev.Line
		next.SelectedBug = &bug
		next.SelectedLine = &line

	case m.MutateLine:
		line := ev.Line
		next.MutatedLine = &line

	case m.Evaluate:
		result := ev.Result
		next.Evaluation = &result

		if result.Status == m.EvaluationSuccess {
			next.Regions = markBuggy(state.Regions, state.SelectedRegion)
		}

	default:
		return state, fmt.Errorf("%w: %T", ErrUnknownEventType, event)
	}

	return next.Clone(), nil
}

// markBuggy returns a copy of regions with one more buggy line in the
// region at index, never exceeding its total.
func markBuggy(regions []m.Region, index int) []m.Region {
	if index < 0 || index >= len(regions) {
		return regions
	}

	out := slices.Clone(regions)

	if out[index].BuggyLines < out[index].TotalLines {
		out[index].BuggyLines++
	}

	return out
}

// Replay applies events in order. Failed events leave the state unchanged
// and their errors are joined into the returned error.
func Replay(state m.State, events ...m.Event) (m.State, error) {
	var errs []error

	for _, event := range events {
		next, err := Apply(state, event)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		state = next
	}

	return state, errors.Join(errs...)
}
