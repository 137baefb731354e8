package controller

import (
	"strings"
	"testing"

	"github.com/mouse-blink/bugscope/internal/domain/diff"
	m "github.com/mouse-blink/bugscope/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestRenderBlock_GutterAndMarkers(t *testing.T) {
	after := "x\ny\nz"
	out := renderBlock(diff.Render("x\nq\nz", &after, 9), 60)
	lines := strings.Split(out, "\n")

	assert.Len(t, lines, 4)
	assert.Contains(t, lines[0], " 9   x")
	assert.Contains(t, lines[1], "10 - q")
	assert.Contains(t, lines[2], "10 + y")
	assert.Contains(t, lines[3], "11   z")
}

func TestRenderBlock_Empty(t *testing.T) {
	assert.Contains(t, renderBlock(diff.Block{}, 40), "(empty)")
}

func TestRenderBarChart(t *testing.T) {
	out := renderBarChart([]m.BugFrequency{
		{Name: "logic_bug", Amount: 3},
		{Name: "wrong_assignment", Amount: 1},
	}, 60)

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "logic_bug")
	assert.Contains(t, lines[0], "75%")
	assert.Contains(t, lines[1], "25%")
	assert.Greater(t, strings.Count(lines[0], "█"), strings.Count(lines[1], "█"))
}

func TestRenderBarChart_Empty(t *testing.T) {
	assert.Contains(t, renderBarChart(nil, 60), "No bugs injected yet")
}

func TestRenderStageBody_MissingData(t *testing.T) {
	state := m.NewState()

	for _, stage := range m.Stages {
		_, ok := renderStageBody(stage, state, 60)
		assert.False(t, ok, stage.String())
	}
}

func TestRenderStageBody_SelectRegion(t *testing.T) {
	state := sampleState()
	desc := "fifo control"
	state.Regions[1].Description = &desc

	body, ok := renderStageBody(m.StageSelectRegion, state, 60)

	assert.True(t, ok)
	assert.Contains(t, body, "Region 2")
	assert.Contains(t, body, "fifo control")
}

func TestRenderStageBody_Justifications(t *testing.T) {
	state := sampleState()
	why := "best fit for the region"
	state.SelectedBug.Justification = &why
	state.MutatedLine.Justification = &why

	body, ok := renderStageBody(m.StageSelectBug, state, 80)
	assert.True(t, ok)
	assert.Contains(t, body, "Justification:")
	assert.Contains(t, body, "153")

	body, ok = renderStageBody(m.StageMutateLine, state, 80)
	assert.True(t, ok)
	assert.Contains(t, body, "Justification:")
	assert.Contains(t, body, "a = ~b;")
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "", truncateText("abc", 0))
	assert.Equal(t, "abc", truncateText("abc", 3))
	assert.Equal(t, "…", truncateText("abc", 1))
	assert.Equal(t, "ab…", truncateText("abcdef", 3))
}

func TestShare(t *testing.T) {
	assert.InDelta(t, 0.0, share(1, 0), 0.001)
	assert.InDelta(t, 50.0, share(1, 2), 0.001)
}
