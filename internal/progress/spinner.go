package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

const spinnerDelay = 100 * time.Millisecond

// Indicator shows a spinner next to a status message while work runs.
// On a non-interactive writer it stays silent until Done or Fail print a
// single status line.
type Indicator struct {
	w       io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols
	spin    *spinner.Spinner
	message string
}

// NewIndicator creates an indicator writing to w.
func NewIndicator(w io.Writer, caps TerminalCapabilities) *Indicator {
	return &Indicator{
		w:       w,
		caps:    caps,
		symbols: SelectSymbols(caps),
	}
}

// Start begins spinning with the given message. Only animates on a TTY.
func (i *Indicator) Start(message string) {
	i.message = message
	if !i.caps.IsTTY {
		return
	}
	i.spin = spinner.New(
		spinner.CharSets[i.symbols.SpinnerSet],
		spinnerDelay,
		spinner.WithWriter(i.w),
		spinner.WithSuffix(" "+message),
	)
	i.spin.Start()
}

// Done stops the spinner and prints a success line.
func (i *Indicator) Done(detail string) {
	i.finish(i.symbols.Checkmark, detail)
}

// Fail stops the spinner and prints a failure line.
func (i *Indicator) Fail(detail string) {
	i.finish(i.symbols.Failure, detail)
}

func (i *Indicator) finish(symbol, detail string) {
	if i.spin != nil {
		i.spin.Stop()
		i.spin = nil
	}
	line := fmt.Sprintf("%s %s", symbol, i.message)
	if detail != "" {
		line += " (" + detail + ")"
	}
	fmt.Fprintln(i.w, line)
}
