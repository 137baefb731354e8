package controller

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	m "github.com/mouse-blink/bugscope/internal/model"
)

// dashboardModel renders the pipeline state: a header, the statistics and
// one panel per stage. Panels stay on "loading" until their stage is reached.
type dashboardModel struct {
	width       int
	height      int
	mode        StartMode
	source      string
	conn        m.Connection
	state       m.State
	cause       m.EventType
	events      int
	focus       int
	expanded    map[m.Stage]bool
	progressBar progress.Model
	viewport    viewport.Model
	frame       int
	rendered    bool
}

func newDashboardModel(cfg StartConfig) dashboardModel {
	prog := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	vp := viewport.New(80, 20)
	vp.KeyMap.Up.SetKeys("up")
	vp.KeyMap.Down.SetKeys("down")
	vp.KeyMap.PageUp.SetKeys("pgup")
	vp.KeyMap.PageDown.SetKeys("pgdown")
	vp.KeyMap.HalfPageUp.SetKeys("ctrl+u")
	vp.KeyMap.HalfPageDown.SetKeys("ctrl+d")

	expanded := make(map[m.Stage]bool, len(m.Stages))
	for _, stage := range m.Stages {
		expanded[stage] = cfg.expanded
	}

	return dashboardModel{
		mode:        cfg.mode,
		source:      cfg.source,
		conn:        m.Connection{Address: cfg.source, Status: m.ConnectionConnecting},
		state:       m.NewState(),
		expanded:    expanded,
		progressBar: prog,
		viewport:    vp,
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Millisecond*300, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (d dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		d.rendered = true

		d.progressBar.Width = d.width - 30
		if d.progressBar.Width < 20 {
			d.progressBar.Width = 20
		}

	case tea.KeyMsg:
		d, cmd = d.handleKeyMsg(msg)

	case tea.MouseMsg:
		d.viewport, cmd = d.viewport.Update(msg)

	case tickMsg:
		d.frame++
		cmd = tick()

	case connectionMsg:
		d.conn = msg.conn

	case stateMsg:
		d.state = msg.state
		d.cause = msg.cause

		if msg.cause != "" {
			d.events++
		}
	}

	d.refresh()

	return d, cmd
}

func (d dashboardModel) handleKeyMsg(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "ctrl+c", "esc":
		return d, tea.Quit
	case "tab", "j":
		d.focus = (d.focus + 1) % len(m.Stages)
	case "shift+tab", "k":
		d.focus = (d.focus + len(m.Stages) - 1) % len(m.Stages)
	case "enter", " ":
		d.toggle(d.focus)
	case "1", "2", "3", "4", "5":
		d.focus = int(key[0] - '1')
		d.toggle(d.focus)
	default:
		var cmd tea.Cmd

		d.viewport, cmd = d.viewport.Update(msg)

		return d, cmd
	}

	return d, nil
}

func (d *dashboardModel) toggle(index int) {
	if index < 0 || index >= len(m.Stages) {
		return
	}

	stage := m.Stages[index]
	d.expanded[stage] = !d.expanded[stage]
}

// refresh sizes the viewport to the space left below the header and fills
// it with the stage panels.
func (d *dashboardModel) refresh() {
	if !d.rendered {
		return
	}

	d.viewport.Width = d.width
	d.viewport.Height = max(d.height-lipgloss.Height(d.viewHeader())-1, 3)
	d.viewport.SetContent(d.viewPanels())
}

func (d dashboardModel) View() string {
	if !d.rendered {
		return "Initializing dashboard…\n"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		d.viewHeader(),
		d.viewport.View(),
		d.viewFooter(),
	)
}

func (d dashboardModel) viewHeader() string {
	title := titleStyle.Render(fmt.Sprintf("🐞 Bug Injection Pipeline  %s", mutedStyle.Render(d.mode.String())))

	status := string(d.conn.Status)
	if d.conn.Err != nil && d.conn.Status != m.ConnectionConnected {
		status = fmt.Sprintf("%s (%v)", status, d.conn.Err)
	}

	stage := d.state.CurrentStage.String()
	if stage == "" {
		stage = "waiting"
	}

	summary := summaryStyle.Render(fmt.Sprintf(
		"Source: %s  •  Status: %s  •  Stage: %s  •  Events: %s",
		accentStyle.Render(d.source),
		accentStyle.Render(status),
		accentStyle.Render(stage),
		accentStyle.Render(fmt.Sprintf("%d", d.events)),
	))

	return lipgloss.JoinVertical(lipgloss.Left, title, summary, d.viewStats())
}

func (d dashboardModel) viewStats() string {
	width := max(d.width-4, 30)

	rate := lipgloss.JoinHorizontal(lipgloss.Center,
		labelStyle.Render("Success Rate  "),
		d.progressBar.ViewAs(d.state.SuccessRate/100),
		accentStyle.Render(fmt.Sprintf("  %.1f%%", d.state.SuccessRate)),
	)

	chart := lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render("Bug Frequency"),
		renderBarChart(d.state.BugFrequencies, width-4),
	)

	return boxStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rate, "", chart))
}

func (d dashboardModel) viewPanels() string {
	width := max(d.width-4, 30)
	panels := make([]string, 0, len(m.Stages))

	for i, stage := range m.Stages {
		panels = append(panels, d.viewPanel(i, stage, width))
	}

	return lipgloss.JoinVertical(lipgloss.Left, panels...)
}

func (d dashboardModel) viewPanel(index int, stage m.Stage, width int) string {
	arrow := "▸"
	if d.expanded[stage] {
		arrow = "▾"
	}

	headerStyle := labelStyle
	if index == d.focus {
		headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(accentColor).Bold(true)
	}

	header := fmt.Sprintf("%s  %s",
		headerStyle.Render(fmt.Sprintf("%s %d %s", arrow, index+1, stage)),
		stageStatus(stage, d.state.CurrentStage),
	)

	body, ok := "", false
	if m.HasStageLoaded(stage, d.state.CurrentStage) {
		body, ok = renderStageBody(stage, d.state, width-4)
	}

	switch {
	case !ok:
		body = mutedStyle.Render(fmt.Sprintf("Loading %s%s", stage, strings.Repeat(".", d.frame%4)))
	case !d.expanded[stage]:
		body = truncateText(firstLine(body), width-4)
	}

	style := boxStyle.Width(width)
	if index != d.focus {
		style = style.BorderForeground(lipgloss.Color("8"))
	}

	return style.Render(lipgloss.JoinVertical(lipgloss.Left, header, body))
}

func (d dashboardModel) viewFooter() string {
	help := "tab/j/k focus • enter/space/1-5 expand • pgup/pgdown scroll • q quit"
	if d.conn.Status == m.ConnectionFinished {
		help = "session finished • " + help
	}

	return mutedStyle.
		Align(lipgloss.Center).
		Width(d.width).
		Render(help)
}

func stageStatus(stage, current m.Stage) string {
	switch {
	case !m.HasStageLoaded(stage, current):
		return mutedStyle.Render("pending")
	case stage == current:
		return accentStyle.Render("● active")
	default:
		return addedLineStyle.Render("✓ done")
	}
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")

	return line
}
