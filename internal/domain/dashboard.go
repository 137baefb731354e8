package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/mouse-blink/bugscope/internal/adapter"
	"github.com/mouse-blink/bugscope/internal/controller"
	"github.com/mouse-blink/bugscope/internal/domain/diff"
	m "github.com/mouse-blink/bugscope/internal/model"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// DefaultReconnectInterval paces reconnect attempts when none is configured.
const DefaultReconnectInterval = 2 * time.Second

// WatchArgs configures a live session.
type WatchArgs struct {
	Address           string
	Reconnect         bool
	ReconnectInterval time.Duration
	Record            m.Path
	Expanded          bool
}

// ReplayArgs configures playback of a recorded session.
type ReplayArgs struct {
	Path     m.Path
	Interval time.Duration
	Expanded bool
}

// DiffArgs names two files to render against each other.
type DiffArgs struct {
	Before m.Path
	After  m.Path
	Start  int
}

// Dashboard defines the operations behind the CLI commands.
type Dashboard interface {
	Watch(ctx context.Context, args WatchArgs) error
	Replay(ctx context.Context, args ReplayArgs) error
	Snapshot(ctx context.Context, path m.Path) (m.State, error)
	Diff(args DiffArgs) error
}

type dashboard struct {
	dialer adapter.Dialer
	store  adapter.EventStore
	fs     adapter.SourceFSAdapter
	ui     controller.UI
}

// NewDashboard creates a Dashboard with the provided adapters.
func NewDashboard(
	dialer adapter.Dialer,
	store adapter.EventStore,
	fs adapter.SourceFSAdapter,
	ui controller.UI,
) Dashboard {
	return &dashboard{
		dialer: dialer,
		store:  store,
		fs:     fs,
		ui:     ui,
	}
}

// Watch connects to the pipeline and streams its events to the UI until the
// pipeline goes away (or, with Reconnect, until the user quits).
func (d *dashboard) Watch(ctx context.Context, args WatchArgs) error {
	var recorder adapter.EventWriter

	if args.Record != "" {
		w, err := d.store.Create(args.Record)
		if err != nil {
			return err
		}

		defer func() {
			if err := w.Close(); err != nil {
				log.Warn().Err(err).Str("record", string(args.Record)).Msg("failed to close recording")
			}
		}()

		recorder = w
	}

	opts := []controller.StartOption{controller.WithLiveMode(args.Address)}
	if args.Expanded {
		opts = append(opts, controller.WithExpandedPanels())
	}

	return d.run(ctx, args.Address, opts, func(ctx context.Context) error {
		return d.stream(ctx, args, recorder)
	})
}

// Replay plays a recorded session through a fresh receiver, pausing
// Interval between messages.
func (d *dashboard) Replay(ctx context.Context, args ReplayArgs) error {
	messages, err := d.store.Load(args.Path)
	if err != nil {
		return err
	}

	opts := []controller.StartOption{controller.WithReplayMode(string(args.Path))}
	if args.Expanded {
		opts = append(opts, controller.WithExpandedPanels())
	}

	return d.run(ctx, string(args.Path), opts, func(ctx context.Context) error {
		logger := log.With().Str("replay", string(args.Path)).Logger()
		receiver := NewReceiver(logger, WithObserver(d.ui.DisplayState))

		d.ui.DisplayConnection(m.Connection{Address: string(args.Path), Status: m.ConnectionConnected})
		d.ui.DisplayState(receiver.State(), "")

		return feed(ctx, receiver, messages, args.Interval)
	})
}

// Snapshot replays a recording without a UI and returns the final state.
func (d *dashboard) Snapshot(ctx context.Context, path m.Path) (m.State, error) {
	messages, err := d.store.Load(path)
	if err != nil {
		return m.State{}, err
	}

	receiver := NewReceiver(log.With().Str("replay", string(path)).Logger())
	if err := feed(ctx, receiver, messages, 0); err != nil {
		return m.State{}, err
	}

	if err := ctx.Err(); err != nil {
		return m.State{}, err
	}

	return receiver.State(), nil
}

// Diff renders the After file against the Before file.
func (d *dashboard) Diff(args DiffArgs) error {
	before, err := d.fs.ReadFile(args.Before)
	if err != nil {
		return fmt.Errorf("read %s: %w", args.Before, err)
	}

	after, err := d.fs.ReadFile(args.After)
	if err != nil {
		return fmt.Errorf("read %s: %w", args.After, err)
	}

	afterText := string(after)
	block := diff.Render(string(before), &afterText, args.Start)

	return d.ui.DisplayDiff(fmt.Sprintf("%s → %s", args.Before, args.After), block)
}

// run starts the UI, runs work next to it and reports the end of work as a
// finished connection. Closing the UI cancels work.
func (d *dashboard) run(ctx context.Context, address string, opts []controller.StartOption, work func(context.Context) error) error {
	if err := d.ui.Start(opts...); err != nil {
		return err
	}
	defer d.ui.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := work(gctx)
		d.ui.DisplayConnection(m.Connection{Address: address, Status: m.ConnectionFinished, Err: err})

		return err
	})

	g.Go(func() error {
		d.ui.Wait()
		cancel()

		return nil
	})

	return g.Wait()
}

func (d *dashboard) stream(ctx context.Context, args WatchArgs, recorder adapter.EventWriter) error {
	interval := args.ReconnectInterval
	if interval <= 0 {
		interval = DefaultReconnectInterval
	}

	limiter := rate.NewLimiter(rate.Every(interval), 1)

	for {
		if err := limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}

			return err
		}

		err := d.session(ctx, args.Address, recorder)
		if ctx.Err() != nil {
			return nil
		}

		if !args.Reconnect {
			return err
		}

		log.Warn().Err(err).Str("address", args.Address).Dur("interval", interval).Msg("pipeline connection ended, reconnecting")
	}
}

// session runs one connection. Every connection starts from a fresh state.
func (d *dashboard) session(ctx context.Context, address string, recorder adapter.EventWriter) error {
	id := ulid.Make().String()
	logger := log.With().Str("session", id).Str("address", address).Logger()
	conn := m.Connection{Address: address, Session: id, Status: m.ConnectionConnecting}
	d.ui.DisplayConnection(conn)

	source, err := d.dialer.Dial(ctx, address)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to connect to pipeline")

		conn.Status, conn.Err = m.ConnectionDisconnected, err
		d.ui.DisplayConnection(conn)

		return err
	}

	defer func() {
		_ = source.Close()
	}()

	logger.Info().Msg("connected to pipeline")

	conn.Status = m.ConnectionConnected
	d.ui.DisplayConnection(conn)

	opts := []ReceiverOption{WithObserver(d.ui.DisplayState)}
	if recorder != nil {
		opts = append(opts, WithRecorder(recorder))
	}

	receiver := NewReceiver(logger, opts...)
	d.ui.DisplayState(receiver.State(), "")

	err = receiver.Listen(ctx, source)

	conn.Status, conn.Err = m.ConnectionDisconnected, err
	d.ui.DisplayConnection(conn)
	logger.Info().Err(err).Msg("disconnected from pipeline")

	return err
}

func feed(ctx context.Context, receiver *Receiver, messages [][]byte, interval time.Duration) error {
	for i, raw := range messages {
		if i > 0 && interval > 0 {
			timer := time.NewTimer(interval)

			select {
			case <-ctx.Done():
				timer.Stop()
				return nil
			case <-timer.C:
			}
		}

		if ctx.Err() != nil {
			return nil
		}

		_ = receiver.Receive(raw)
	}

	return nil
}
