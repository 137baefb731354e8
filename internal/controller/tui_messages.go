package controller

import (
	"time"

	m "github.com/mouse-blink/bugscope/internal/model"
)

// Message types.
type tickMsg time.Time

type connectionMsg struct {
	conn m.Connection
}

type stateMsg struct {
	state m.State
	cause m.EventType
}
