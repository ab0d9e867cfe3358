package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// Semantic formatters for terminal output. fatih/color honours NO_COLOR
// and non-TTY output on its own, so these degrade to plain text there.
var (
	uiSuccess   = color.New(color.FgGreen)
	uiError     = color.New(color.FgRed)
	uiWarning   = color.New(color.FgYellow)
	uiInfo      = color.New(color.FgCyan)
	uiHighlight = color.New(color.Bold)
)

// startSpinner shows an interactive spinner with message. The returned
// cleanup stops the spinner and prints its FinalMSG; call it exactly
// once. With verbose on, no spinner is shown so log lines stay legible.
func startSpinner(out io.Writer, message string, verbose bool) (*spinner.Spinner, func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.Suffix = " " + message

	// continue uncolored if the terminal rejects it
	_ = s.Color("cyan")

	if !verbose {
		s.Start()
	}

	cleanup := func() {
		finalMsg := s.FinalMSG
		s.FinalMSG = ""
		if !verbose {
			s.Stop()
		}
		if finalMsg != "" {
			fmt.Fprintln(out, finalMsg)
		}
	}
	return s, cleanup
}
