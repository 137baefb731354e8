package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/mouse-blink/bugscope/internal/config"
	"github.com/mouse-blink/bugscope/internal/domain"
	m "github.com/mouse-blink/bugscope/internal/model"
)

var addressFlag string
var reconnectFlag bool
var reconnectIntervalFlag time.Duration
var recordFlag string
var expandedFlag bool

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow a running pipeline",
		Long: `Connect to the pipeline's websocket and render its events as they arrive.

The dashboard shows the current stage, the success rate, how often each bug
class was injected and one panel per stage. With --reconnect a dropped
connection is retried until you quit; --record keeps every received message
in a JSONL file that "bugscope replay" can play back.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd)
		},
	}
	addWatchFlags(cmd)

	return cmd
}

func addWatchFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&addressFlag, "address", "a", "", "pipeline websocket address (default "+config.DefaultAddress+")")
	cmd.Flags().BoolVarP(&reconnectFlag, "reconnect", "r", false, "reconnect when the pipeline goes away")
	cmd.Flags().DurationVar(&reconnectIntervalFlag, "reconnect-interval", domain.DefaultReconnectInterval, "minimum pause between connection attempts")
	cmd.Flags().StringVar(&recordFlag, "record", "", "record received messages to this JSONL file")
	cmd.Flags().BoolVarP(&expandedFlag, "expanded", "e", false, "open every stage panel")
}

func runWatch(cmd *cobra.Command) error {
	return dashboard.Watch(cmd.Context(), domain.WatchArgs{
		Address:           cfg.Server.Address,
		Reconnect:         cfg.Session.Reconnect,
		ReconnectInterval: cfg.Session.ReconnectInterval,
		Record:            m.Path(cfg.Session.Record),
		Expanded:          cfg.UI.Expanded,
	})
}
