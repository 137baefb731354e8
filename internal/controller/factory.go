package controller

import (
	"io"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
)

// NewUI picks the front end for cmd's output: the Bubble Tea dashboard when
// it writes to a terminal and plain was not requested, SimpleUI otherwise.
func NewUI(cmd *cobra.Command, plain bool) UI {
	return newUI(cmd, Interactive(cmd.OutOrStdout(), plain))
}

func newUI(cmd *cobra.Command, interactive bool) UI {
	if interactive {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// Interactive reports whether the dashboard may take over w. Logs must not
// be written to the same terminal while it does.
func Interactive(w io.Writer, plain bool) bool {
	return !plain && IsTTY(w)
}

// IsTTY reports whether w is a terminal. Files, pipes and character devices
// such as /dev/null are not.
func IsTTY(w io.Writer) bool {
	file, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}

	return term.IsTerminal(file.Fd())
}
