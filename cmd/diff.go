package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/bugscope/internal/domain"
	m "github.com/mouse-blink/bugscope/internal/model"
)

var startFlag int

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff BEFORE AFTER",
		Short: "Show a line and character diff of two files",
		Long: `Render AFTER against BEFORE the way the dashboard renders a mutated line.
Trailing // comments and surrounding whitespace are ignored.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return dashboard.Diff(domain.DiffArgs{
				Before: m.Path(args[0]),
				After:  m.Path(args[1]),
				Start:  startFlag,
			})
		},
	}
	cmd.Flags().IntVarP(&startFlag, "start", "s", 1, "number of the first line")

	return cmd
}
