package controller

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/mouse-blink/bugscope/internal/domain/diff"
	m "github.com/mouse-blink/bugscope/internal/model"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// SimpleUI implements UI using cobra Command's output.
// It prints one line per event and summary tables when the session finishes.
type SimpleUI struct {
	cmd *cobra.Command

	mu        sync.Mutex
	state     m.State
	events    int
	done      chan struct{}
	closeOnce sync.Once
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd, state: m.NewState(), done: make(chan struct{})}
}

// Start prints what is being shown.
func (s *SimpleUI) Start(options ...StartOption) error {
	cfg := newStartConfig(options...)

	switch cfg.mode {
	case ModeReplay:
		s.printf("Replaying %s\n", cfg.source)
	case ModeLive:
		s.printf("Watching %s\n", cfg.source)
	}

	return nil
}

// Close releases Wait.
func (s *SimpleUI) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Wait blocks until the session finishes.
func (s *SimpleUI) Wait() {
	<-s.done
}

// DisplayConnection prints connection changes. The finished status prints
// the summary and ends the UI.
func (s *SimpleUI) DisplayConnection(conn m.Connection) {
	prefix := ""
	if conn.Session != "" {
		prefix = fmt.Sprintf("[%s] ", conn.Session)
	}

	switch conn.Status {
	case m.ConnectionConnecting:
		s.printf("%sconnecting to %s\n", prefix, conn.Address)
	case m.ConnectionConnected:
		s.printf("%sconnected to %s\n", prefix, conn.Address)
	case m.ConnectionDisconnected:
		if conn.Err != nil {
			s.printf("%sdisconnected: %v\n", prefix, conn.Err)
		} else {
			s.printf("%sdisconnected\n", prefix)
		}
	case m.ConnectionFinished:
		s.mu.Lock()
		state, events := s.state, s.events
		s.mu.Unlock()

		s.printSummary(state, events)
		s.Close()
	}
}

// DisplayState prints the change carried by cause.
func (s *SimpleUI) DisplayState(state m.State, cause m.EventType) {
	s.mu.Lock()
	s.state = state

	if cause != "" {
		s.events++
	}
	s.mu.Unlock()

	if cause == "" {
		return
	}

	s.printf("%-18s %s\n", cause, describe(cause, state))
}

// DisplayDiff prints the block in word-diff notation: [-removed-] and {+added+}.
func (s *SimpleUI) DisplayDiff(title string, block diff.Block) error {
	s.printf("%s\n", title)

	if !block.Changed {
		s.printf("identical after normalization\n")
	}

	s.printf("%s", wordDiff(block))

	return nil
}

func describe(cause m.EventType, state m.State) string {
	switch cause {
	case m.EventSetCurrentProcess:
		return state.CurrentStage.String()
	case m.EventUpdateStats:
		return fmt.Sprintf("success rate %.1f%%, %d bug classes", state.SuccessRate, len(state.BugFrequencies))
	case m.EventSplitFile:
		return fmt.Sprintf("%d regions", len(state.Regions))
	case m.EventSelectRegion:
		if region, ok := state.Region(); ok {
			return fmt.Sprintf("%s (%d/%d lines buggy)", region.Name, region.BuggyLines, region.TotalLines)
		}

		return "none"
	case m.EventSelectBug:
		if state.SelectedBug == nil || state.SelectedLine == nil {
			return "none"
		}

		return fmt.Sprintf("%s at line %d", state.SelectedBug.Name, state.SelectedLine.LineNumber)
	case m.EventMutateLine:
		if state.MutatedLine == nil {
			return "none"
		}

		line := state.MutatedLine

		return "\n" + wordDiff(diff.Render(line.Before, line.After, line.LineNumber))
	case m.EventEvaluate:
		if state.Evaluation == nil {
			return "none"
		}

		if state.Evaluation.Error != nil {
			return fmt.Sprintf("%s: %s", state.Evaluation.Status, *state.Evaluation.Error)
		}

		return string(state.Evaluation.Status)
	}

	return ""
}

func wordDiff(block diff.Block) string {
	var b strings.Builder

	for _, line := range block.Lines {
		marker := " "

		switch line.Kind {
		case diff.Removed:
			marker = "-"
		case diff.Added:
			marker = "+"
		case diff.Unchanged:
		}

		fmt.Fprintf(&b, "%6d %s ", line.Number, marker)

		for _, span := range line.Spans {
			switch span.Kind {
			case diff.Unchanged:
				b.WriteString(span.Text)
			case diff.Removed:
				fmt.Fprintf(&b, "[-%s-]", span.Text)
			case diff.Added:
				fmt.Fprintf(&b, "{+%s+}", span.Text)
			}
		}

		b.WriteString("\n")
	}

	return b.String()
}

func (s *SimpleUI) printSummary(state m.State, events int) {
	s.printf("\n%d events, stage %s, success rate %.1f%%\n", events, stageLabel(state.CurrentStage), state.SuccessRate)

	if len(state.Regions) > 0 {
		var tableBuffer bytes.Buffer

		table := tablewriter.NewWriter(&tableBuffer)
		table.SetHeader([]string{"", "Region", "Buggy", "Total"})
		table.SetBorder(false)
		table.SetCenterSeparator("")
		table.SetColumnAlignment([]int{
			tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
		})

		buggy, total := 0, 0

		for i, region := range state.Regions {
			marker := ""
			if i == state.SelectedRegion {
				marker = "*"
			}

			table.Append([]string{marker, region.Name, fmt.Sprintf("%d", region.BuggyLines), fmt.Sprintf("%d", region.TotalLines)})

			buggy += region.BuggyLines
			total += region.TotalLines
		}

		table.SetFooter([]string{"", fmt.Sprintf("Regions %d", len(state.Regions)), fmt.Sprintf("%d", buggy), fmt.Sprintf("%d", total)})
		table.Render()
		s.printf("\n%s", tableBuffer.String())
	}

	if len(state.BugFrequencies) > 0 {
		var tableBuffer bytes.Buffer

		total := 0
		for _, freq := range state.BugFrequencies {
			total += freq.Amount
		}

		table := tablewriter.NewWriter(&tableBuffer)
		table.SetHeader([]string{"Bug", "Amount", "Share"})
		table.SetBorder(false)
		table.SetCenterSeparator("")
		table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})

		for _, freq := range state.BugFrequencies {
			table.Append([]string{freq.Name, fmt.Sprintf("%d", freq.Amount), fmt.Sprintf("%.1f%%", share(freq.Amount, total))})
		}

		table.SetFooter([]string{"Total", fmt.Sprintf("%d", total), ""})
		table.Render()
		s.printf("\n%s", tableBuffer.String())
	}
}

func stageLabel(stage m.Stage) string {
	if stage.Valid() {
		return stage.String()
	}

	return "none"
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
