package controller

import (
	"fmt"
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/mouse-blink/bugscope/internal/domain/diff"
	m "github.com/mouse-blink/bugscope/internal/model"
	"github.com/rs/zerolog/log"
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output  io.Writer
	options []tea.ProgramOption

	mu      sync.Mutex
	program *tea.Program
	started bool
	done    chan struct{}
}

// NewTUI creates a new TUI. Extra program options are passed to Bubble Tea.
func NewTUI(output io.Writer, options ...tea.ProgramOption) *TUI {
	return &TUI{output: output, options: options}
}

// Start launches the dashboard program in the background.
func (t *TUI) Start(options ...StartOption) error {
	return t.startWithModel(newDashboardModel(newStartConfig(options...)))
}

func (t *TUI) startWithModel(model tea.Model) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return nil
	}

	opts := append([]tea.ProgramOption{
		tea.WithOutput(t.output),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}, t.options...)

	program := tea.NewProgram(model, opts...)
	done := make(chan struct{})

	go func() {
		defer close(done)

		if _, err := program.Run(); err != nil {
			log.Error().Err(err).Msg("dashboard exited with error")
		}
	}()

	t.program = program
	t.done = done
	t.started = true

	return nil
}

func (t *TUI) ensureStarted() {
	t.mu.Lock()
	started := t.started
	t.mu.Unlock()

	if started {
		return
	}

	if err := t.Start(); err != nil {
		log.Error().Err(err).Msg("failed to start dashboard")
	}
}

func (t *TUI) send(msg tea.Msg) {
	t.mu.Lock()
	program := t.program
	t.mu.Unlock()

	if program == nil {
		return
	}

	program.Send(msg)
}

// Close stops the program and restores the terminal.
func (t *TUI) Close() {
	t.mu.Lock()
	program, done := t.program, t.done
	t.mu.Unlock()

	if program == nil {
		return
	}

	program.Quit()
	<-done
}

// Wait blocks until the user quits the dashboard.
func (t *TUI) Wait() {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()

	if done == nil {
		return
	}

	<-done
}

// DisplayConnection updates the connection line of the header.
func (t *TUI) DisplayConnection(conn m.Connection) {
	t.ensureStarted()
	t.send(connectionMsg{conn: conn})
}

// DisplayState replaces the dashboard state.
func (t *TUI) DisplayState(state m.State, cause m.EventType) {
	t.ensureStarted()
	t.send(stateMsg{state: state, cause: cause})
}

// DisplayDiff prints a rendered diff block. It does not need a running program.
func (t *TUI) DisplayDiff(title string, block diff.Block) error {
	_, err := fmt.Fprint(t.output, renderDiffView(title, block, t.width()))

	return err
}

func (t *TUI) width() int {
	if f, ok := t.output.(*os.File); ok {
		if width, _, err := term.GetSize(f.Fd()); err == nil {
			return width
		}
	}

	return 0
}
