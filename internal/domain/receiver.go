package domain

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/mouse-blink/bugscope/internal/adapter"
	m "github.com/mouse-blink/bugscope/internal/model"
	"github.com/rs/zerolog"
)

const maxLoggedMessage = 256

// Observer is told about every state change, in event order.
type Observer func(state m.State, cause m.EventType)

// ReceiverOption configures a Receiver.
type ReceiverOption func(*Receiver)

// WithObserver registers fn to be called after each applied event.
func WithObserver(fn Observer) ReceiverOption {
	return func(r *Receiver) {
		r.observer = fn
	}
}

// WithRecorder copies every raw message to w before it is decoded.
func WithRecorder(w adapter.EventWriter) ReceiverOption {
	return func(r *Receiver) {
		r.recorder = w
	}
}

// Receiver owns the dashboard state for one connection and applies inbound
// messages to it one at a time.
type Receiver struct {
	mu       sync.RWMutex
	state    m.State
	logger   zerolog.Logger
	observer Observer
	recorder adapter.EventWriter
}

// NewReceiver constructs a Receiver holding a fresh state.
func NewReceiver(logger zerolog.Logger, opts ...ReceiverOption) *Receiver {
	r := &Receiver{
		state:  m.NewState(),
		logger: logger,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// State returns a copy of the current state.
func (r *Receiver) State() m.State {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.state.Clone()
}

// Receive decodes raw and applies it. A message that cannot be decoded or
// applied is logged and dropped; the state is left as it was and the
// classified error is returned.
func (r *Receiver) Receive(raw []byte) error {
	event, err := DecodeEvent(raw)
	if err != nil {
		r.drop(err, raw)
		return err
	}

	r.mu.Lock()

	next, err := Apply(r.state, event)
	if err != nil {
		r.mu.Unlock()
		r.drop(err, raw)

		return err
	}

	r.state = next
	snapshot := next.Clone()
	r.mu.Unlock()

	r.logger.Debug().
		Str("event", string(event.Type())).
		Stringer("stage", snapshot.CurrentStage).
		Msg("applied event")

	if r.observer != nil {
		r.observer(snapshot, event.Type())
	}

	return nil
}

// Listen receives messages from source until it is closed or ctx is done.
// Both end the connection cleanly and return nil; transport failures are
// returned.
func (r *Receiver) Listen(ctx context.Context, source adapter.EventSource) error {
	for {
		raw, err := source.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}

			return err
		}

		if r.recorder != nil {
			if err := r.recorder.Append(raw); err != nil {
				r.logger.Warn().Err(err).Msg("failed to record message")
			}
		}

		_ = r.Receive(raw)
	}
}

func (r *Receiver) drop(err error, raw []byte) {
	logged := raw
	if len(logged) > maxLoggedMessage {
		logged = logged[:maxLoggedMessage]
	}

	r.logger.Warn().
		Err(err).
		Bytes("message", logged).
		Msg("dropped pipeline message")
}
