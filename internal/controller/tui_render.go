package controller

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mouse-blink/bugscope/internal/domain/diff"
	m "github.com/mouse-blink/bugscope/internal/model"
)

var (
	accentColor = lipgloss.Color("6") // Cyan

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(1, 0, 0, 2)

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 0, 1, 2)

	accentStyle = lipgloss.NewStyle().Foreground(accentColor)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)

	removedLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	addedLineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	removedSpanStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Background(lipgloss.Color("52")).Bold(true)
	addedSpanStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Background(lipgloss.Color("22")).Bold(true)
	gutterStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	barStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// renderBlock draws a diff block with a line number gutter and a -/+ marker
// column. Changed characters are highlighted inside changed lines.
func renderBlock(block diff.Block, width int) string {
	if len(block.Lines) == 0 {
		return mutedStyle.Render("(empty)")
	}

	digits := 1
	for _, line := range block.Lines {
		digits = max(digits, len(strconv.Itoa(line.Number)))
	}

	codeWidth := width - digits - 3
	if codeWidth < 10 {
		codeWidth = 10
	}

	rows := make([]string, 0, len(block.Lines))

	for _, line := range block.Lines {
		marker, lineStyle, spanStyle := " ", lipgloss.NewStyle().Foreground(lipgloss.Color("252")), lipgloss.NewStyle()

		switch line.Kind {
		case diff.Removed:
			marker, lineStyle, spanStyle = "-", removedLineStyle, removedSpanStyle
		case diff.Added:
			marker, lineStyle, spanStyle = "+", addedLineStyle, addedSpanStyle
		case diff.Unchanged:
		}

		var code strings.Builder

		used := 0

		for _, span := range line.Spans {
			text := truncateText(span.Text, codeWidth-used)
			used += lipgloss.Width(text)

			if span.Kind == diff.Unchanged {
				code.WriteString(lineStyle.Render(text))
			} else {
				code.WriteString(spanStyle.Render(text))
			}

			if used >= codeWidth {
				break
			}
		}

		rows = append(rows, fmt.Sprintf("%s %s %s",
			gutterStyle.Render(fmt.Sprintf("%*d", digits, line.Number)),
			lineStyle.Render(marker),
			code.String(),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderDiffView is the stand-alone rendering used by the diff command.
func renderDiffView(title string, block diff.Block, width int) string {
	if width <= 0 {
		width = 80
	}

	status := "identical after normalization"
	if block.Changed {
		removed, added := countKinds(block)
		status = fmt.Sprintf("%s removed  •  %s added",
			accentStyle.Render(strconv.Itoa(removed)),
			accentStyle.Render(strconv.Itoa(added)),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("🐞 "+title),
		summaryStyle.Render(status),
		boxStyle.Width(width-2).Render(renderBlock(block, width-6)),
	) + "\n"
}

func countKinds(block diff.Block) (removed, added int) {
	for _, line := range block.Lines {
		switch line.Kind {
		case diff.Removed:
			removed++
		case diff.Added:
			added++
		case diff.Unchanged:
		}
	}

	return removed, added
}

// renderBarChart draws one horizontal bar per bug class, scaled to the
// largest amount, followed by the class's share of all injections.
func renderBarChart(freqs []m.BugFrequency, width int) string {
	if len(freqs) == 0 {
		return mutedStyle.Render("No bugs injected yet")
	}

	nameWidth, top, total := 0, 0, 0
	for _, freq := range freqs {
		nameWidth = max(nameWidth, lipgloss.Width(freq.Name))
		top = max(top, freq.Amount)
		total += freq.Amount
	}

	nameWidth = min(nameWidth, 24)

	barWidth := width - nameWidth - 16
	if barWidth < 5 {
		barWidth = 5
	}

	rows := make([]string, 0, len(freqs))

	for _, freq := range freqs {
		length := 0
		if top > 0 {
			length = freq.Amount * barWidth / top
		}

		rows = append(rows, fmt.Sprintf("%-*s %s %4d %s",
			nameWidth,
			truncateText(freq.Name, nameWidth),
			barStyle.Render(strings.Repeat("█", length)+strings.Repeat(" ", barWidth-length)),
			freq.Amount,
			mutedStyle.Render(fmt.Sprintf("%3.0f%%", share(freq.Amount, total))),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func share(amount, total int) float64 {
	if total <= 0 {
		return 0
	}

	return float64(amount) / float64(total) * 100
}

// renderStageBody returns the content of a loaded stage panel, or false when
// the stage has no data to show yet.
func renderStageBody(stage m.Stage, state m.State, width int) (string, bool) {
	switch stage {
	case m.StageSplitFile:
		return renderRegions(state, width), len(state.Regions) > 0
	case m.StageSelectRegion:
		region, ok := state.Region()
		if !ok {
			return "", false
		}

		body := fmt.Sprintf("Selected %s  %s",
			labelStyle.Render(region.Name),
			mutedStyle.Render(fmt.Sprintf("(%d / %d lines buggy)", region.BuggyLines, region.TotalLines)),
		)
		if region.Description != nil {
			body += "\n" + *region.Description
		}

		return body, true
	case m.StageSelectBug:
		if state.SelectedBug == nil || state.SelectedLine == nil {
			return "", false
		}

		bug := state.SelectedBug
		parts := []string{
			fmt.Sprintf("Selected %s: %s", labelStyle.Render(bug.Name), wrap(bug.Description, width)),
			renderBlock(diff.Render(state.SelectedLine.Before, nil, state.SelectedLine.LineNumber), width),
		}

		if bug.Justification != nil {
			parts = append(parts, justification(*bug.Justification, width))
		}

		return lipgloss.JoinVertical(lipgloss.Left, parts...), true
	case m.StageMutateLine:
		if state.SelectedBug == nil || state.MutatedLine == nil {
			return "", false
		}

		line := state.MutatedLine
		parts := []string{renderBlock(diff.Render(line.Before, line.After, line.LineNumber), width)}

		if line.Justification != nil {
			parts = append(parts, justification(*line.Justification, width))
		}

		return lipgloss.JoinVertical(lipgloss.Left, parts...), true
	case m.StageEvaluate:
		if state.Evaluation == nil {
			return "", false
		}

		if state.Evaluation.Status == m.EvaluationSuccess {
			return addedLineStyle.Bold(true).Render("Success"), true
		}

		msg := removedLineStyle.Bold(true).Render("Failure:")
		if state.Evaluation.Error != nil {
			msg += " " + wrap(*state.Evaluation.Error, width)
		}

		return msg, true
	case m.StageNone:
	}

	return "", false
}

func renderRegions(state m.State, width int) string {
	if len(state.Regions) == 0 {
		return ""
	}

	nameWidth := 0
	for _, region := range state.Regions {
		nameWidth = max(nameWidth, lipgloss.Width(region.Name))
	}

	nameWidth = min(nameWidth, 24)

	barWidth := width - nameWidth - 20
	if barWidth < 5 {
		barWidth = 5
	}

	rows := make([]string, 0, len(state.Regions))

	for i, region := range state.Regions {
		marker := "  "
		nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

		if i == state.SelectedRegion {
			marker = accentStyle.Render("▶ ")
			nameStyle = nameStyle.Foreground(lipgloss.Color("0")).Background(accentColor).Bold(true)
		}

		buggy := 0
		if region.TotalLines > 0 {
			buggy = region.BuggyLines * barWidth / region.TotalLines
		}

		rows = append(rows, fmt.Sprintf("%s%s %s%s %s",
			marker,
			nameStyle.Render(fmt.Sprintf("%-*s", nameWidth, truncateText(region.Name, nameWidth))),
			removedLineStyle.Render(strings.Repeat("▮", buggy)),
			mutedStyle.Render(strings.Repeat("▯", barWidth-buggy)),
			mutedStyle.Render(fmt.Sprintf("%d/%d", region.BuggyLines, region.TotalLines)),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func justification(text string, width int) string {
	return labelStyle.Render("Justification: ") + wrap(text, width-15)
}

func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	return lipgloss.NewStyle().Width(width).Render(text)
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	const ellipsis = "…"

	if width <= 1 {
		return ellipsis
	}

	maxWidth := width - lipgloss.Width(ellipsis)
	currentWidth := 0

	result := make([]rune, 0, len(text))
	for _, r := range text {
		rWidth := lipgloss.Width(string(r))
		if currentWidth+rWidth > maxWidth {
			break
		}

		result = append(result, r)
		currentWidth += rWidth
	}

	return string(result) + ellipsis
}
