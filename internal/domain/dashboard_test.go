package domain

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mouse-blink/bugscope/internal/adapter"
	adapterMocks "github.com/mouse-blink/bugscope/internal/adapter/mocks"
	uiMocks "github.com/mouse-blink/bugscope/internal/controller/mocks"
	"github.com/mouse-blink/bugscope/internal/domain/diff"
	m "github.com/mouse-blink/bugscope/internal/model"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// uiHarness wires a MockUI that records what it is shown and whose Wait
// returns once the dashboard reports the finished connection.
type uiHarness struct {
	ui       *uiMocks.MockUI
	finished chan struct{}
	onState  func(m.EventType)

	mu     sync.Mutex
	conns  []m.Connection
	states []m.State
	causes []m.EventType
}

func newUIHarness(t *testing.T) *uiHarness {
	h := &uiHarness{ui: uiMocks.NewMockUI(t), finished: make(chan struct{})}

	h.ui.On("Start", mock.Anything).Return(nil)
	h.ui.On("Close").Return()
	h.ui.On("DisplayConnection", mock.Anything).Run(func(args mock.Arguments) {
		conn := args.Get(0).(m.Connection)

		h.mu.Lock()
		h.conns = append(h.conns, conn)
		h.mu.Unlock()

		if conn.Status == m.ConnectionFinished {
			close(h.finished)
		}
	}).Return()
	h.ui.On("DisplayState", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		cause := args.Get(1).(m.EventType)

		h.mu.Lock()
		h.states = append(h.states, args.Get(0).(m.State))
		h.causes = append(h.causes, cause)
		h.mu.Unlock()

		if h.onState != nil {
			h.onState(cause)
		}
	}).Return()
	h.ui.On("Wait").Run(func(mock.Arguments) { <-h.finished }).Return()

	return h
}

func (h *uiHarness) statuses() []m.ConnectionStatus {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]m.ConnectionStatus, 0, len(h.conns))
	for _, conn := range h.conns {
		out = append(out, conn.Status)
	}

	return out
}

func (h *uiHarness) lastState() m.State {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.states[len(h.states)-1]
}

func (h *uiHarness) sawCause(cause m.EventType) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, c := range h.causes {
		if c == cause {
			return true
		}
	}

	return false
}

func closedSource(messages ...string) *chanSource {
	src := newChanSource(messages...)
	close(src.messages)

	return src
}

func recording(t *testing.T, store adapter.EventStore, path m.Path, messages ...string) {
	t.Helper()

	w, err := store.Create(path)
	require.NoError(t, err)

	for _, msg := range messages {
		require.NoError(t, w.Append([]byte(msg)))
	}

	require.NoError(t, w.Close())
}

func TestDashboard_Watch(t *testing.T) {
	h := newUIHarness(t)
	dialer := adapterMocks.NewMockDialer(t)
	src := closedSource(msgSplit, msgSelect, msgStage, msgEvaluate)
	dialer.On("Dial", mock.Anything, "ws://pipe").Return(src, nil).Once()

	fs := afero.NewMemMapFs()
	store := adapter.NewEventStoreFs(fs)
	d := NewDashboard(dialer, store, adapter.NewSourceFSAdapter(fs), h.ui)

	err := d.Watch(context.Background(), WatchArgs{Address: "ws://pipe", Record: "runs/session.jsonl"})
	require.NoError(t, err)

	assert.Equal(t, []m.ConnectionStatus{
		m.ConnectionConnecting, m.ConnectionConnected, m.ConnectionDisconnected, m.ConnectionFinished,
	}, h.statuses())
	assert.NotEmpty(t, h.conns[0].Session)
	assert.Equal(t, h.conns[0].Session, h.conns[1].Session)

	// The fresh state is shown before any event.
	assert.Equal(t, m.EventType(""), h.causes[0])
	assert.Equal(t, m.NewState(), h.states[0])

	state := h.lastState()
	assert.Equal(t, m.StageEvaluate, state.CurrentStage)
	assert.Equal(t, 4, state.Regions[1].BuggyLines)

	recorded, err := store.Load("runs/session.jsonl")
	require.NoError(t, err)
	assert.Len(t, recorded, 4)

	src.mu.Lock()
	assert.True(t, src.closed)
	src.mu.Unlock()
}

func TestDashboard_Watch_DialError(t *testing.T) {
	h := newUIHarness(t)
	dialer := adapterMocks.NewMockDialer(t)
	refused := errors.New("connection refused")
	dialer.On("Dial", mock.Anything, "ws://pipe").Return(nil, refused).Once()

	d := NewDashboard(dialer, adapterMocks.NewMockEventStore(t), adapterMocks.NewMockSourceFSAdapter(t), h.ui)

	err := d.Watch(context.Background(), WatchArgs{Address: "ws://pipe"})
	require.ErrorIs(t, err, refused)

	assert.Equal(t, []m.ConnectionStatus{
		m.ConnectionConnecting, m.ConnectionDisconnected, m.ConnectionFinished,
	}, h.statuses())
	assert.ErrorIs(t, h.conns[2].Err, refused)
}

func TestDashboard_Watch_ReconnectStartsFreshSessions(t *testing.T) {
	h := newUIHarness(t)
	dialer := adapterMocks.NewMockDialer(t)
	refused := errors.New("connection refused")

	dialer.On("Dial", mock.Anything, "ws://pipe").Return(nil, refused).Once()
	dialer.On("Dial", mock.Anything, "ws://pipe").Return(closedSource(msgSplit, msgSelect), nil).Once()
	dialer.On("Dial", mock.Anything, "ws://pipe").Return(closedSource(msgStage, msgEvaluate), nil).Once()
	dialer.On("Dial", mock.Anything, "ws://pipe").Return(nil, refused).Maybe()

	d := NewDashboard(dialer, adapterMocks.NewMockEventStore(t), adapterMocks.NewMockSourceFSAdapter(t), h.ui)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)

	go func() {
		done <- d.Watch(ctx, WatchArgs{Address: "ws://pipe", Reconnect: true, ReconnectInterval: 5 * time.Millisecond})
	}()

	require.Eventually(t, func() bool { return h.sawCause(m.EventEvaluate) }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}

	// The third session began from an empty state: no regions, so the
	// evaluation could not mark a buggy line.
	state := h.lastState()
	assert.Equal(t, m.StageEvaluate, state.CurrentStage)
	assert.Empty(t, state.Regions)

	sessions := map[string]bool{}

	h.mu.Lock()
	for _, conn := range h.conns {
		if conn.Status == m.ConnectionConnected {
			sessions[conn.Session] = true
		}
	}
	h.mu.Unlock()

	assert.Len(t, sessions, 2)
	assert.Equal(t, m.ConnectionFinished, h.statuses()[len(h.statuses())-1])
}

func TestDashboard_Watch_QuitCancelsStream(t *testing.T) {
	ui := uiMocks.NewMockUI(t)
	dialer := adapterMocks.NewMockDialer(t)

	ui.On("Start", mock.Anything).Return(nil)
	ui.On("Close").Return()
	ui.On("Wait").Return()
	ui.On("DisplayConnection", mock.Anything).Return()
	ui.On("DisplayState", mock.Anything, mock.Anything).Return().Maybe()
	dialer.On("Dial", mock.Anything, "ws://pipe").Return(newChanSource(), nil).Maybe()

	d := NewDashboard(dialer, adapterMocks.NewMockEventStore(t), adapterMocks.NewMockSourceFSAdapter(t), ui)

	done := make(chan error, 1)

	go func() {
		done <- d.Watch(context.Background(), WatchArgs{Address: "ws://pipe", Reconnect: true})
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after the UI quit")
	}
}

func TestDashboard_Watch_StartError(t *testing.T) {
	ui := uiMocks.NewMockUI(t)
	boom := errors.New("no terminal")
	ui.On("Start", mock.Anything).Return(boom)

	d := NewDashboard(adapterMocks.NewMockDialer(t), adapterMocks.NewMockEventStore(t), adapterMocks.NewMockSourceFSAdapter(t), ui)

	assert.ErrorIs(t, d.Watch(context.Background(), WatchArgs{Address: "ws://pipe"}), boom)
}

func TestDashboard_Watch_RecordError(t *testing.T) {
	store := adapterMocks.NewMockEventStore(t)
	boom := errors.New("read-only")
	store.On("Create", m.Path("session.jsonl")).Return(nil, boom)

	d := NewDashboard(adapterMocks.NewMockDialer(t), store, adapterMocks.NewMockSourceFSAdapter(t), uiMocks.NewMockUI(t))

	err := d.Watch(context.Background(), WatchArgs{Address: "ws://pipe", Record: "session.jsonl"})
	assert.ErrorIs(t, err, boom)
}

func TestDashboard_Replay(t *testing.T) {
	h := newUIHarness(t)
	store := adapter.NewEventStoreFs(afero.NewMemMapFs())
	recording(t, store, "session.jsonl", msgSplit, msgMalformed, msgSelect, msgStage, msgEvaluate, msgStats)

	d := NewDashboard(adapterMocks.NewMockDialer(t), store, adapterMocks.NewMockSourceFSAdapter(t), h.ui)

	require.NoError(t, d.Replay(context.Background(), ReplayArgs{Path: "session.jsonl"}))

	state := h.lastState()
	assert.Equal(t, 4, state.Regions[1].BuggyLines)
	assert.InDelta(t, 25.0, state.SuccessRate, 0.001)
	assert.Len(t, h.causes, 6) // initial state plus five applied events
	assert.Equal(t, []m.ConnectionStatus{m.ConnectionConnected, m.ConnectionFinished}, h.statuses())
}

func TestDashboard_Replay_IntervalStopsOnCancel(t *testing.T) {
	h := newUIHarness(t)
	store := adapter.NewEventStoreFs(afero.NewMemMapFs())
	recording(t, store, "session.jsonl", msgSplit, msgSelect, msgEvaluate)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.onState = func(cause m.EventType) {
		if cause == m.EventSplitFile {
			cancel()
		}
	}

	d := NewDashboard(adapterMocks.NewMockDialer(t), store, adapterMocks.NewMockSourceFSAdapter(t), h.ui)

	require.NoError(t, d.Replay(ctx, ReplayArgs{Path: "session.jsonl", Interval: time.Hour}))

	state := h.lastState()
	assert.Len(t, state.Regions, 2)
	assert.Equal(t, m.NoRegion, state.SelectedRegion)
}

func TestDashboard_Replay_LoadError(t *testing.T) {
	d := NewDashboard(
		adapterMocks.NewMockDialer(t),
		adapter.NewEventStoreFs(afero.NewMemMapFs()),
		adapterMocks.NewMockSourceFSAdapter(t),
		uiMocks.NewMockUI(t),
	)

	assert.Error(t, d.Replay(context.Background(), ReplayArgs{Path: "missing.jsonl"}))
}

func TestDashboard_Snapshot(t *testing.T) {
	store := adapter.NewEventStoreFs(afero.NewMemMapFs())
	recording(t, store, "session.jsonl", msgSplit, msgSelect, msgSelectBad, msgEvaluate)

	d := NewDashboard(adapterMocks.NewMockDialer(t), store, adapterMocks.NewMockSourceFSAdapter(t), uiMocks.NewMockUI(t))

	state, err := d.Snapshot(context.Background(), "session.jsonl")
	require.NoError(t, err)

	assert.Equal(t, 1, state.SelectedRegion)
	assert.Equal(t, 4, state.Regions[1].BuggyLines)
	assert.Equal(t, m.EvaluationSuccess, state.Evaluation.Status)

	_, err = d.Snapshot(context.Background(), "missing.jsonl")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = d.Snapshot(ctx, "session.jsonl")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDashboard_Diff(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "before.v", []byte("assign a = b; // keep\nassign c = d;\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "after.v", []byte("assign a = ~b;\nassign c = d;\n"), 0o644))

	ui := uiMocks.NewMockUI(t)
	ui.On("DisplayDiff", "before.v → after.v", mock.MatchedBy(func(block diff.Block) bool {
		return block.Changed &&
			block.Lines[0].Number == 10 &&
			block.Lines[0].Kind == diff.Removed &&
			block.Lines[1].Kind == diff.Added &&
			block.Before() == "assign a = b;\nassign c = d;\n"
	})).Return(nil)

	d := NewDashboard(adapterMocks.NewMockDialer(t), adapterMocks.NewMockEventStore(t), adapter.NewSourceFSAdapter(fs), ui)

	require.NoError(t, d.Diff(DiffArgs{Before: "before.v", After: "after.v", Start: 10}))
}

func TestDashboard_Diff_ReadError(t *testing.T) {
	fs := adapterMocks.NewMockSourceFSAdapter(t)
	boom := errors.New("permission denied")
	fs.On("ReadFile", m.Path("before.v")).Return(nil, boom)

	d := NewDashboard(adapterMocks.NewMockDialer(t), adapterMocks.NewMockEventStore(t), fs, uiMocks.NewMockUI(t))

	err := d.Diff(DiffArgs{Before: "before.v", After: "after.v"})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "before.v")
}
