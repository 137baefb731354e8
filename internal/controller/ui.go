// Package controller provides the terminal front ends for the bugscope dashboard.
package controller

import (
	"github.com/mouse-blink/bugscope/internal/domain/diff"
	m "github.com/mouse-blink/bugscope/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeLive StartMode = iota
	ModeReplay
)

func (s StartMode) String() string {
	if s == ModeReplay {
		return "replay"
	}

	return "live"
}

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode     StartMode
	source   string
	expanded bool
}

// WithLiveMode shows a live pipeline connection to address.
func WithLiveMode(address string) StartOption {
	return func(c *StartConfig) {
		c.mode = ModeLive
		c.source = address
	}
}

// WithReplayMode shows the playback of a recorded session.
func WithReplayMode(path string) StartOption {
	return func(c *StartConfig) {
		c.mode = ModeReplay
		c.source = path
	}
}

// WithExpandedPanels opens every stage panel on start.
func WithExpandedPanels() StartOption {
	return func(c *StartConfig) {
		c.expanded = true
	}
}

func newStartConfig(options ...StartOption) StartConfig {
	cfg := StartConfig{}
	for _, option := range options {
		option(&cfg)
	}

	return cfg
}

// UI defines the interface for displaying the dashboard.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(options ...StartOption) error
	Close()
	Wait() // Wait for UI to finish (user closes it or the session ends)
	DisplayConnection(conn m.Connection)
	DisplayState(state m.State, cause m.EventType)
	DisplayDiff(title string, block diff.Block) error
}
