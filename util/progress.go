package util

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pioneeros/pioneer/log"
	"github.com/tj/go-spin"
)

// ProgressSpinner is an indefinite progress indicator drawn on one terminal
// line.
type ProgressSpinner struct {
	out      io.Writer
	colors   log.ConsoleColorsType
	interval time.Duration

	mu      sync.Mutex
	spinner *spin.Spinner
	message string
	stop    chan struct{}
	wg      sync.WaitGroup
}

// NewProgressSpinner returns a spinner drawing on out
func NewProgressSpinner(out io.Writer) *ProgressSpinner {
	return &ProgressSpinner{out: out, interval: 100 * time.Millisecond}
}

// Start starts the spinner
func (ps *ProgressSpinner) Start(messages ...interface{}) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.stop != nil {
		return
	}

	ps.message = fmt.Sprint(messages...)
	ps.spinner = spin.New()
	ps.stop = make(chan struct{})
	ps.wg.Add(1)

	go ps.spin(ps.stop)
}

func (ps *ProgressSpinner) spin(stop chan struct{}) {
	defer ps.wg.Done()

	ticker := time.NewTicker(ps.interval)
	defer ticker.Stop()
	for {
		ps.mu.Lock()
		fmt.Fprintf(ps.out, "\r%s%s %s%s", ps.colors.Yellow(), ps.spinner.Next(), ps.colors.Reset(), ps.message)
		ps.mu.Unlock()

		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

// Update replaces the message shown next to the spinner
func (ps *ProgressSpinner) Update(messages ...interface{}) {
	ps.mu.Lock()
	ps.message = fmt.Sprint(messages...)
	ps.mu.Unlock()
}

// Stop stops the spinner and leaves final on its line.
func (ps *ProgressSpinner) Stop(final string) {
	ps.mu.Lock()
	stop := ps.stop
	ps.stop = nil
	ps.mu.Unlock()
	if stop == nil {
		return
	}

	close(stop)
	ps.wg.Wait()
	fmt.Fprintf(ps.out, "\r%s     \n", final)
}

// Do executes given function with given messages as label.
func (ps *ProgressSpinner) Do(workFunc func() error, messages ...interface{}) error {
	ps.Start(messages...)
	if err := workFunc(); err != nil {
		ps.Stop(ps.colors.Red() + "failed: " + ps.colors.Reset() + fmt.Sprint(messages...))
		return err
	}
	ps.Stop(fmt.Sprint(messages...))
	return nil
}
