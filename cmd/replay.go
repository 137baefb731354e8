package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mouse-blink/bugscope/internal/domain"
	m "github.com/mouse-blink/bugscope/internal/model"
)

var intervalFlag time.Duration
var outputFlag string

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay FILE",
		Short: "Play back a recorded session",
		Long: `Feed a JSONL recording made with "bugscope watch --record" through the
dashboard. --interval pauses between messages so the session can be followed
at a readable pace.

With --output the recording is replayed silently and the final dashboard
state is printed as json or yaml.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := m.Path(args[0])

			switch outputFlag {
			case "":
				return dashboard.Replay(cmd.Context(), domain.ReplayArgs{
					Path:     path,
					Interval: intervalFlag,
					Expanded: cfg.UI.Expanded,
				})
			case "json", "yaml":
			default:
				return fmt.Errorf("unsupported output format %q (json or yaml)", outputFlag)
			}

			state, err := dashboard.Snapshot(cmd.Context(), path)
			if err != nil {
				return err
			}

			return printState(cmd, state, outputFlag)
		},
	}
	cmd.Flags().DurationVarP(&intervalFlag, "interval", "i", 0, "pause between replayed messages")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "print the final state as json or yaml instead of showing the dashboard")
	cmd.Flags().BoolVarP(&expandedFlag, "expanded", "e", false, "open every stage panel")

	return cmd
}

func printState(cmd *cobra.Command, state m.State, format string) error {
	out := cmd.OutOrStdout()

	if format == "yaml" {
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)

		if err := encoder.Encode(state); err != nil {
			return err
		}

		return encoder.Close()
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")

	return encoder.Encode(state)
}
