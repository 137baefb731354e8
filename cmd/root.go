// Package cmd provides the root command and CLI setup for bugscope.
package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mouse-blink/bugscope/internal/adapter"
	"github.com/mouse-blink/bugscope/internal/config"
	"github.com/mouse-blink/bugscope/internal/controller"
	"github.com/mouse-blink/bugscope/internal/domain"
	"github.com/mouse-blink/bugscope/internal/logging"
)

var cfg *config.Config
var dashboard domain.Dashboard
var logCloser io.Closer

var configFlag string
var logLevelFlag string
var logFileFlag string
var plainFlag bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func init() {
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newReplayCmd())
	rootCmd.AddCommand(newDiffCmd())
	rootCmd.AddCommand(newConfigCmd())
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bugscope",
		Short: "Dashboard for the bug-injection pipeline",
		Long: `bugscope follows a bug-injection pipeline as it splits a source file,
selects a region and a bug, mutates a line and evaluates the result.

Without a subcommand it behaves like "bugscope watch": it connects to the
pipeline's websocket and renders every event as it arrives. Recorded sessions
can be played back with "bugscope replay".`,
		SilenceUsage:      true,
		PersistentPreRunE: prepare,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd)
		},
	}
	cmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "config file (default ./bugscope.toml or $HOME/.bugscope.toml)")
	cmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level (trace, debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "write JSON logs to this file")
	cmd.PersistentFlags().BoolVar(&plainFlag, "plain", false, "plain text output even on a terminal")
	addWatchFlags(cmd)

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if logCloser != nil {
		_ = logCloser.Close()
	}

	if err != nil {
		os.Exit(1)
	}
}

// prepare loads the configuration, lets explicit flags override it and sets
// up logging before any command runs.
func prepare(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(configFlag)
	if err != nil {
		return err
	}

	applyFlags(cmd, loaded)

	if err := config.Validate(loaded); err != nil {
		return err
	}

	cfg = loaded

	tty := controller.Interactive(cmd.OutOrStdout(), cfg.UI.Plain)

	var console io.Writer
	if !tty {
		console = cmd.ErrOrStderr()
	}

	closer, err := logging.Setup(afero.NewOsFs(), logging.Options{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Console: console,
	})
	if err != nil {
		return err
	}

	logCloser = closer

	if dashboard == nil {
		dashboard = domain.NewDashboard(
			adapter.NewWebSocketDialer(cfg.Server.HandshakeTimeout),
			adapter.NewEventStore(),
			adapter.NewLocalSourceFSAdapter(),
			controller.NewUI(cmd, cfg.UI.Plain),
		)
	}

	log.Debug().Str("command", cmd.Name()).Bool("tty", tty).Msg("configured")

	return nil
}

func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("log-level") {
		c.Log.Level = logLevelFlag
	}

	if flags.Changed("log-file") {
		c.Log.File = logFileFlag
	}

	if flags.Changed("plain") {
		c.UI.Plain = plainFlag
	}

	if flags.Changed("address") {
		c.Server.Address = addressFlag
	}

	if flags.Changed("reconnect") {
		c.Session.Reconnect = reconnectFlag
	}

	if flags.Changed("reconnect-interval") {
		c.Session.ReconnectInterval = reconnectIntervalFlag
	}

	if flags.Changed("record") {
		c.Session.Record = recordFlag
	}

	if flags.Changed("expanded") {
		c.UI.Expanded = expandedFlag
	}
}
