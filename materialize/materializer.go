package materialize

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

const (
	fileMode       os.FileMode = 0644
	executableMode os.FileMode = 0755
	dirMode        os.FileMode = 0755
)

// Materializer applies plans to a directory tree
type Materializer struct {
	fs     afero.Fs
	root   string
	runner Runner

	// Observer, when set, is notified around each step.
	Observer Observer

	now func() time.Time
}

// New returns a Materializer writing through fs, whose paths are relative to
// root, and running commands with runner in directories below root.
func New(fs afero.Fs, root string, runner Runner) *Materializer {
	return &Materializer{fs: fs, root: root, runner: runner, now: time.Now}
}

// NewForRoot returns a Materializer on the host filesystem confined to root.
func NewForRoot(root string, runner Runner) *Materializer {
	return New(afero.NewBasePathFs(afero.NewOsFs(), root), root, runner)
}

// Root returns the directory every step is relative to
func (m *Materializer) Root() string {
	return m.root
}

// cleanPath rejects paths that are absolute or leave the root.
func cleanPath(op, p string) (string, error) {
	if p == "" {
		return "", &FilesystemError{Op: op, Path: p, Err: errors.New("empty path")}
	}
	clean := filepath.Clean(filepath.FromSlash(p))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", &FilesystemError{Op: op, Path: p, Err: errors.New("path is outside the root")}
	}
	return clean, nil
}

// EnsureDirectory creates path and any missing ancestors.
func (m *Materializer) EnsureDirectory(path string) error {
	clean, err := cleanPath("mkdir", path)
	if err != nil {
		return err
	}
	if clean == "." {
		return nil
	}
	if err := m.fs.MkdirAll(clean, dirMode); err != nil {
		return &FilesystemError{Op: "mkdir", Path: path, Err: err}
	}
	return nil
}

// WriteFile writes spec.Content verbatim, replacing any existing file, and
// sets the executable bit when requested.
func (m *Materializer) WriteFile(spec FileSpec) error {
	clean, err := cleanPath("write", spec.Path)
	if err != nil {
		return err
	}
	if err := m.EnsureDirectory(filepath.Dir(clean)); err != nil {
		return err
	}

	mode := fileMode
	if spec.Executable {
		mode = executableMode
	}
	if err := afero.WriteFile(m.fs, clean, []byte(spec.Content), mode); err != nil {
		return &FilesystemError{Op: "write", Path: spec.Path, Err: err}
	}
	// WriteFile only applies mode on creation
	if err := m.fs.Chmod(clean, mode); err != nil {
		return &FilesystemError{Op: "chmod", Path: spec.Path, Err: err}
	}
	return nil
}

func (m *Materializer) requireFile(op, path string) (string, error) {
	clean, err := cleanPath(op, path)
	if err != nil {
		return "", err
	}
	info, err := m.fs.Stat(clean)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &NotFoundError{Path: path}
		}
		return "", &FilesystemError{Op: op, Path: path, Err: err}
	}
	if info.IsDir() {
		return "", &FilesystemError{Op: op, Path: path, Err: errors.New("is a directory")}
	}
	return clean, nil
}

// AppendToFile appends spec.Block to an existing file without touching its
// previous content.
func (m *Materializer) AppendToFile(spec AppendSpec) error {
	clean, err := m.requireFile("append", spec.Path)
	if err != nil {
		return err
	}

	f, err := m.fs.OpenFile(clean, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return &FilesystemError{Op: "append", Path: spec.Path, Err: err}
	}
	if _, err := f.Write([]byte(spec.Block)); err != nil {
		f.Close()
		return &FilesystemError{Op: "append", Path: spec.Path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &FilesystemError{Op: "append", Path: spec.Path, Err: err}
	}
	return nil
}

// MergeDirectives ensures every directive of spec is set in an existing
// file, replacing prior values for the same key. It reports whether the
// file changed; applying the same spec twice leaves the file as the first
// application did.
func (m *Materializer) MergeDirectives(spec MergeSpec) (bool, error) {
	clean, err := m.requireFile("merge", spec.Path)
	if err != nil {
		return false, err
	}

	info, err := m.fs.Stat(clean)
	if err != nil {
		return false, &FilesystemError{Op: "merge", Path: spec.Path, Err: err}
	}
	current, err := afero.ReadFile(m.fs, clean)
	if err != nil {
		return false, &FilesystemError{Op: "merge", Path: spec.Path, Err: err}
	}

	merged := mergeDirectives(current, spec.Directives)
	if bytes.Equal(merged, current) {
		return false, nil
	}
	if err := afero.WriteFile(m.fs, clean, merged, info.Mode().Perm()); err != nil {
		return false, &FilesystemError{Op: "merge", Path: spec.Path, Err: err}
	}
	return true, nil
}

// RunCommand runs step below the root and waits for it to exit.
func (m *Materializer) RunCommand(ctx context.Context, step CommandStep) error {
	dir := m.root
	if step.Dir != "" {
		clean, err := cleanPath("chdir", step.Dir)
		if err != nil {
			return err
		}
		dir = filepath.Join(m.root, clean)
	}

	res, err := m.runner.Run(ctx, dir, step.Executable, step.Args...)
	if err != nil || res == nil || res.ExitCode != 0 {
		toolErr := &ExternalToolError{Command: step.String(), Err: err}
		if res != nil {
			toolErr.ExitCode = res.ExitCode
			toolErr.Output = res.Output
		}
		if toolErr.ExitCode == 0 {
			toolErr.ExitCode = 1
		}
		return toolErr
	}
	return nil
}

// apply performs a single step and reports whether it changed anything.
func (m *Materializer) apply(ctx context.Context, step Step) (bool, error) {
	switch s := step.(type) {
	case FileSpec:
		return true, m.WriteFile(s)
	case *FileSpec:
		return true, m.WriteFile(*s)
	case AppendSpec:
		return true, m.AppendToFile(s)
	case *AppendSpec:
		return true, m.AppendToFile(*s)
	case MergeSpec:
		return m.MergeDirectives(s)
	case *MergeSpec:
		return m.MergeDirectives(*s)
	case CommandStep:
		return true, m.RunCommand(ctx, s)
	case *CommandStep:
		return true, m.RunCommand(ctx, *s)
	}
	return false, fmt.Errorf("unsupported step type %T", step)
}

// Execute applies plan in order and stops at the first failure. The report
// lists completed steps; on failure it carries the same *StepError that is
// returned. Nothing is rolled back.
func (m *Materializer) Execute(ctx context.Context, plan *Plan) (*Report, error) {
	report := newReport(plan, m.root, m.now())
	steps := plan.Steps()
	total := len(steps)

	for i, step := range steps {
		if m.Observer != nil {
			m.Observer.StepStarted(i, total, step)
		}

		started := m.now()
		changed, err := false, ctx.Err()
		if err == nil {
			changed, err = m.apply(ctx, step)
		}

		if m.Observer != nil {
			m.Observer.StepFinished(i, total, step, err)
		}

		if err != nil {
			stepErr := &StepError{Index: i, Step: step, Err: err}
			report.Failure = stepErr
			report.Finished = m.now()
			return report, stepErr
		}

		report.Completed = append(report.Completed, StepResult{
			Index:    i,
			Kind:     step.Kind(),
			Target:   step.Target(),
			Duration: m.now().Sub(started),
			Changed:  changed,
		})
	}

	report.Finished = m.now()
	return report, nil
}
