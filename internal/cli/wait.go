package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Waiter is implemented by task groups whose background work a command must
// wait for before the process exits.
type Waiter interface {
	Wait()
}

// WaitWithSpinner blocks until w finishes or ctx is done, showing message
// next to a spinner on out unless quiet is set.
func WaitWithSpinner(ctx context.Context, w Waiter, out io.Writer, message string, quiet bool) error {
	var s *spinner.Spinner
	if !quiet {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
		s.Suffix = " " + message
		s.Start()
	}

	done := make(chan struct{})
	go func() {
		w.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}

	if s != nil {
		if err != nil {
			s.FinalMSG = text.FgRed.Sprint("Interrupted") + "\n"
		}
		s.Stop()
	}
	if err != nil {
		return fmt.Errorf("stopped waiting: %w", err)
	}
	return nil
}
