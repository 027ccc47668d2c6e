package cmd

import (
	"fmt"
	"io"

	"github.com/pioneeros/pioneer/materialize"
	"github.com/schollz/progressbar/v3"
)

// progressObserver draws plan execution as a progress bar
type progressObserver struct {
	bar *progressbar.ProgressBar
}

func newProgressObserver(w io.Writer, total int) *progressObserver {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	bar.RenderBlank()
	return &progressObserver{bar: bar}
}

func (p *progressObserver) StepStarted(index, total int, step materialize.Step) {
	p.bar.Describe(fmt.Sprintf("%-7s %s", step.Kind(), step.Target()))
}

func (p *progressObserver) StepFinished(index, total int, step materialize.Step, err error) {
	if err != nil {
		p.bar.Clear()
		return
	}
	p.bar.Add(1)
}
