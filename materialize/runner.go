package materialize

import (
	"context"

	"github.com/pioneeros/pioneer/tools"
)

//go:generate mockgen -source=runner.go -destination=mocks/runner.go -package=mock_materialize

// Runner executes an external command in a working directory
type Runner interface {
	Run(ctx context.Context, dir string, name string, args ...string) (*tools.Result, error)
}

// Observer is notified around each executed step
type Observer interface {
	StepStarted(index, total int, step Step)
	StepFinished(index, total int, step Step, err error)
}
