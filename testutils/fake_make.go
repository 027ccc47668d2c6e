package testutils

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pioneeros/pioneer/constants"
	"github.com/pioneeros/pioneer/tools"
)

// DefconfigOutput is the .config FakeMake writes for the defconfig target
const DefconfigOutput = "BR2_aarch64=y\nBR2_cortex_a72=y\n# BR2_PACKAGE_HTOP is not set\n"

// FakeMake stands in for Buildroot's make: the defconfig target seeds
// .config in the working directory and olddefconfig records what it was
// given. Other targets fail with exit status 2.
type FakeMake struct {
	mu         sync.Mutex
	calls      []string
	reconciled string
}

// NewFakeMake returns a FakeMake that has not been called yet
func NewFakeMake() *FakeMake {
	return &FakeMake{}
}

// Run implements materialize.Runner
func (f *FakeMake) Run(ctx context.Context, dir string, name string, args ...string) (*tools.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	target := strings.Join(args, " ")
	f.calls = append(f.calls, name+" "+target)

	config := filepath.Join(dir, constants.DotConfig)
	switch target {
	case constants.DefaultDefconfig:
		if err := os.WriteFile(config, []byte(DefconfigOutput), 0644); err != nil {
			return nil, err
		}
	case "olddefconfig":
		data, err := os.ReadFile(config)
		if err != nil {
			return &tools.Result{ExitCode: 2, Output: []byte("make: *** .config: No such file")}, nil
		}
		f.reconciled = string(data)
	default:
		return &tools.Result{ExitCode: 2, Output: []byte("make: *** No rule to make target '" + target + "'")}, nil
	}
	return &tools.Result{}, nil
}

// Calls returns every invocation as "name target"
func (f *FakeMake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Reconciled returns the .config content olddefconfig last saw
func (f *FakeMake) Reconciled() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reconciled
}
