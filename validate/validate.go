// Package validate inspects a finished Buildroot output tree and decides
// whether the image is ready to be flashed.
package validate

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pioneeros/pioneer/constants"
	"github.com/pioneeros/pioneer/types"
	"github.com/spf13/afero"
)

// Status of a single check
type Status string

// Check outcomes
const (
	Pass Status = "PASS"
	Fail Status = "FAIL"
	Warn Status = "WARN"
)

// Result of a single check
type Result struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Check is a named inspection of the output tree
type Check struct {
	Name string
	run  func(*Suite) Result
}

// Summary counts results by status
type Summary struct {
	Passed   int `json:"passed"`
	Failed   int `json:"failed"`
	Warnings int `json:"warnings"`
}

// Total number of results
func (s Summary) Total() int {
	return s.Passed + s.Failed + s.Warnings
}

// Verdict is the readiness assessment of a report
type Verdict string

// Verdicts
const (
	Ready       Verdict = "READY"
	Conditional Verdict = "CONDITIONAL"
	NotReady    Verdict = "NOT READY"
)

// Report collects the results of a suite run
type Report struct {
	Timestamp time.Time `json:"timestamp"`
	Root      string    `json:"root"`
	Tests     []Result  `json:"tests"`
	Summary   Summary   `json:"summary"`
	Verdict   Verdict   `json:"verdict"`
}

func (r *Report) add(res Result) {
	r.Tests = append(r.Tests, res)
	switch res.Status {
	case Pass:
		r.Summary.Passed++
	case Fail:
		r.Summary.Failed++
	default:
		r.Summary.Warnings++
	}
}

// Assess returns the verdict for a summary: ready with no failures and at
// least 12 passes, conditional with at most 2 failures and 3 warnings.
func Assess(s Summary) Verdict {
	switch {
	case s.Failed == 0 && s.Passed >= 12:
		return Ready
	case s.Failed <= 2 && s.Warnings <= 3:
		return Conditional
	}
	return NotReady
}

// Suite runs checks against a Buildroot tree. Every path is relative to
// the tree root.
type Suite struct {
	fs   afero.Fs
	root string
	cfg  *types.Config
	now  func() time.Time
}

// NewSuite returns a Suite reading through fs, whose paths are relative to
// root.
func NewSuite(fs afero.Fs, root string, cfg *types.Config) *Suite {
	return &Suite{fs: fs, root: root, cfg: cfg, now: time.Now}
}

// NewSuiteForRoot returns a Suite on the host filesystem confined to root.
func NewSuiteForRoot(root string, cfg *types.Config) *Suite {
	return NewSuite(afero.NewBasePathFs(afero.NewOsFs(), root), root, cfg)
}

// Checks returns the checks in execution order
func (s *Suite) Checks() []Check {
	return []Check{
		// critical
		{"Image File", checkImage},
		{"Kernel Image", checkKernel},
		{"Device Tree", checkDeviceTree},
		{"Root Filesystem", checkRootfs},
		{"Boot Partition", checkBootPartition},
		// software
		{"Python3", checkPython},
		{"OpenCV4", checkOpenCV},
		{"SSH Server", checkSSH},
		{"I2C Tools", checkI2C},
		// configuration
		{"Network Config", checkNetwork},
		{"WiFi Config", checkWifi},
		{"Custom Overlay", checkOverlay},
		// system
		{"Kernel Modules", checkKernelModules},
		{"System Utilities", checkUtilities},
		{"RPi Firmware", checkFirmware},
		{"Image Size", checkImageSize},
		{"Toolchain", checkToolchain},
	}
}

// Run executes every check in order. progress, when set, is called with
// each result as soon as it is known.
func (s *Suite) Run(progress func(Result)) *Report {
	report := &Report{Timestamp: s.now(), Root: s.root, Tests: []Result{}}
	for _, c := range s.Checks() {
		res := c.run(s)
		res.Name = c.Name
		report.add(res)
		if progress != nil {
			progress(res)
		}
	}
	report.Verdict = Assess(report.Summary)
	return report
}

// Save writes the report as indented JSON at the root of fs.
func (r *Report) Save(fs afero.Fs) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	if err := afero.WriteFile(fs, constants.ValidationReport, data, 0644); err != nil {
		return fmt.Errorf("save validation report: %v", err)
	}
	return nil
}

// Save writes report at the root of the tree s inspects.
func (s *Suite) Save(report *Report) error {
	return report.Save(s.fs)
}
