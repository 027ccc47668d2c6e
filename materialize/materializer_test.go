package materialize_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pioneeros/pioneer/materialize"
	mock_materialize "github.com/pioneeros/pioneer/materialize/mocks"
	"github.com/pioneeros/pioneer/tools"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const root = "/srv/buildroot"

func newMaterializer(t *testing.T) (*materialize.Materializer, *mock_materialize.MockRunner, afero.Fs) {
	ctrl := gomock.NewController(t)
	runner := mock_materialize.NewMockRunner(ctrl)
	fs := afero.NewMemMapFs()

	return materialize.New(fs, root, runner), runner, fs
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

func TestEnsureDirectory(t *testing.T) {
	m, _, fs := newMaterializer(t)

	t.Run("creates missing ancestors", func(t *testing.T) {
		require.NoError(t, m.EnsureDirectory("board/raspberrypi/overlay/etc"))

		ok, _ := afero.DirExists(fs, "board/raspberrypi/overlay/etc")
		assert.True(t, ok)
	})

	t.Run("is a no-op when present", func(t *testing.T) {
		assert.NoError(t, m.EnsureDirectory("board/raspberrypi"))
		assert.NoError(t, m.EnsureDirectory("."))
	})

	t.Run("rejects paths leaving the root", func(t *testing.T) {
		err := m.EnsureDirectory("../outside")

		var fsErr *materialize.FilesystemError
		assert.True(t, errors.As(err, &fsErr))
	})

	t.Run("rejects absolute paths", func(t *testing.T) {
		err := m.EnsureDirectory("/etc")

		var fsErr *materialize.FilesystemError
		assert.True(t, errors.As(err, &fsErr))
	})
}

func TestWriteFile(t *testing.T) {
	t.Run("writes content byte for byte", func(t *testing.T) {
		m, _, fs := newMaterializer(t)
		content := "auto lo\niface lo inet loopback\n\n"

		require.NoError(t, m.WriteFile(materialize.FileSpec{Path: "etc/network/interfaces", Content: content}))

		assert.Equal(t, content, readFile(t, fs, "etc/network/interfaces"))
		info, err := fs.Stat("etc/network/interfaces")
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
	})

	t.Run("overwrites a longer existing file", func(t *testing.T) {
		m, _, fs := newMaterializer(t)
		require.NoError(t, afero.WriteFile(fs, "etc/sysctl.conf", []byte("vm.swappiness=60\nkernel.panic=0\n"), 0644))

		require.NoError(t, m.WriteFile(materialize.FileSpec{Path: "etc/sysctl.conf", Content: "vm.swappiness=10"}))

		assert.Equal(t, "vm.swappiness=10", readFile(t, fs, "etc/sysctl.conf"))
	})

	t.Run("sets the executable bit even on an existing file", func(t *testing.T) {
		m, _, fs := newMaterializer(t)
		require.NoError(t, afero.WriteFile(fs, "etc/init.d/S99robotics", []byte("old"), 0644))

		require.NoError(t, m.WriteFile(materialize.FileSpec{Path: "etc/init.d/S99robotics", Content: "#!/bin/sh\n", Executable: true}))

		info, err := fs.Stat("etc/init.d/S99robotics")
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
	})

	t.Run("fails with FilesystemError on a read-only filesystem", func(t *testing.T) {
		m := materialize.New(afero.NewReadOnlyFs(afero.NewMemMapFs()), root, nil)

		err := m.WriteFile(materialize.FileSpec{Path: "a/b", Content: "x"})

		var fsErr *materialize.FilesystemError
		require.True(t, errors.As(err, &fsErr))
		assert.Equal(t, "mkdir", fsErr.Op)
	})
}

func TestAppendToFile(t *testing.T) {
	t.Run("keeps previous bytes and adds the block", func(t *testing.T) {
		m, _, fs := newMaterializer(t)
		before := "BR2_aarch64=y\n# BR2_PACKAGE_HTOP is not set\n"
		require.NoError(t, afero.WriteFile(fs, ".config", []byte(before), 0644))

		require.NoError(t, m.AppendToFile(materialize.AppendSpec{Path: ".config", Block: "BR2_PACKAGE_HTOP=y\n"}))

		assert.Equal(t, before+"BR2_PACKAGE_HTOP=y\n", readFile(t, fs, ".config"))
	})

	t.Run("missing target is NotFoundError and creates nothing", func(t *testing.T) {
		m, _, fs := newMaterializer(t)

		err := m.AppendToFile(materialize.AppendSpec{Path: "output/.config", Block: "X=y\n"})

		var nf *materialize.NotFoundError
		require.True(t, errors.As(err, &nf))
		assert.Equal(t, "output/.config", nf.Path)

		exists, _ := afero.Exists(fs, "output/.config")
		assert.False(t, exists)
		dirExists, _ := afero.DirExists(fs, "output")
		assert.False(t, dirExists)
	})

	t.Run("a directory target is a FilesystemError", func(t *testing.T) {
		m, _, fs := newMaterializer(t)
		require.NoError(t, fs.MkdirAll("board", 0755))

		err := m.AppendToFile(materialize.AppendSpec{Path: "board", Block: "X=y\n"})

		var fsErr *materialize.FilesystemError
		assert.True(t, errors.As(err, &fsErr))
	})
}

func TestMergeDirectivesStep(t *testing.T) {
	m, _, fs := newMaterializer(t)
	require.NoError(t, afero.WriteFile(fs, ".config", []byte("BR2_aarch64=y\n"), 0600))

	spec := materialize.MergeSpec{Path: ".config", Directives: []materialize.Directive{{Key: "BR2_PACKAGE_NANO", Value: "y"}}}

	changed, err := m.MergeDirectives(spec)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = m.MergeDirectives(spec)
	require.NoError(t, err)
	assert.False(t, changed)

	assert.Equal(t, "BR2_aarch64=y\nBR2_PACKAGE_NANO=y\n", readFile(t, fs, ".config"))
	info, _ := fs.Stat(".config")
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	_, err = m.MergeDirectives(materialize.MergeSpec{Path: "nope"})
	var nf *materialize.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestRunCommand(t *testing.T) {
	t.Run("runs in the root by default", func(t *testing.T) {
		m, runner, _ := newMaterializer(t)
		runner.EXPECT().
			Run(gomock.Any(), root, "make", "olddefconfig").
			Return(&tools.Result{}, nil)

		assert.NoError(t, m.RunCommand(context.Background(), materialize.CommandStep{Executable: "make", Args: []string{"olddefconfig"}}))
	})

	t.Run("runs in a subdirectory of the root", func(t *testing.T) {
		m, runner, _ := newMaterializer(t)
		runner.EXPECT().
			Run(gomock.Any(), filepath.Join(root, "output"), "make").
			Return(&tools.Result{}, nil)

		assert.NoError(t, m.RunCommand(context.Background(), materialize.CommandStep{Executable: "make", Dir: "output"}))
	})

	t.Run("non-zero exit is ExternalToolError with the code", func(t *testing.T) {
		m, runner, _ := newMaterializer(t)
		runner.EXPECT().
			Run(gomock.Any(), root, "make", "raspberrypi4_64_defconfig").
			Return(&tools.Result{ExitCode: 2, Output: []byte("No rule to make target")}, nil)

		err := m.RunCommand(context.Background(), materialize.CommandStep{Executable: "make", Args: []string{"raspberrypi4_64_defconfig"}})

		var toolErr *materialize.ExternalToolError
		require.True(t, errors.As(err, &toolErr))
		assert.Equal(t, 2, toolErr.ExitCode)
		assert.Equal(t, "make raspberrypi4_64_defconfig", toolErr.Command)
		assert.Contains(t, string(toolErr.Output), "No rule")
	})

	t.Run("start failure keeps the runner's status", func(t *testing.T) {
		m, runner, _ := newMaterializer(t)
		runner.EXPECT().
			Run(gomock.Any(), root, "gmake").
			Return(&tools.Result{ExitCode: tools.ExitNotFound}, errors.New("executable file not found in $PATH"))

		err := m.RunCommand(context.Background(), materialize.CommandStep{Executable: "gmake"})

		assert.Equal(t, tools.ExitNotFound, materialize.ExitCode(err))
	})
}

func TestExecute(t *testing.T) {
	t.Run("stops at the first failing command", func(t *testing.T) {
		m, runner, fs := newMaterializer(t)
		plan := materialize.NewPlan("test",
			materialize.FileSpec{Path: "a.txt", Content: "a"},
			materialize.CommandStep{Executable: "make", Args: []string{"raspberrypi4_64_defconfig"}},
			materialize.FileSpec{Path: "b.txt", Content: "b"},
			materialize.CommandStep{Executable: "make", Args: []string{"olddefconfig"}},
		)

		runner.EXPECT().
			Run(gomock.Any(), root, "make", "raspberrypi4_64_defconfig").
			Return(&tools.Result{ExitCode: 2}, nil).
			Times(1)

		report, err := m.Execute(context.Background(), plan)

		var stepErr *materialize.StepError
		require.True(t, errors.As(err, &stepErr))
		assert.Equal(t, 1, stepErr.Index)
		assert.Equal(t, 2, materialize.ExitCode(err))
		assert.Same(t, stepErr, report.Failure)
		assert.Len(t, report.Completed, 1)
		assert.False(t, report.Succeeded())

		exists, _ := afero.Exists(fs, "b.txt")
		assert.False(t, exists, "no step after the failure may run")
	})

	t.Run("a missing append target stops the run", func(t *testing.T) {
		m, _, _ := newMaterializer(t)
		plan := materialize.NewPlan("test",
			materialize.AppendSpec{Path: ".config", Block: "X=y\n"},
			materialize.FileSpec{Path: "late.txt", Content: "late"},
		)

		report, err := m.Execute(context.Background(), plan)

		var nf *materialize.NotFoundError
		assert.True(t, errors.As(err, &nf))
		assert.Equal(t, 1, materialize.ExitCode(err))
		assert.Empty(t, report.Completed)
	})

	t.Run("a cancelled context fails the next step", func(t *testing.T) {
		m, _, fs := newMaterializer(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := m.Execute(ctx, materialize.NewPlan("test", materialize.FileSpec{Path: "a.txt"}))

		assert.ErrorIs(t, err, context.Canceled)
		exists, _ := afero.Exists(fs, "a.txt")
		assert.False(t, exists)
	})

	t.Run("notifies the observer around each step", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		m, _, _ := newMaterializer(t)
		observer := mock_materialize.NewMockObserver(ctrl)
		m.Observer = observer

		step := materialize.FileSpec{Path: "a.txt", Content: "a"}
		gomock.InOrder(
			observer.EXPECT().StepStarted(0, 1, step),
			observer.EXPECT().StepFinished(0, 1, step, nil),
		)

		report, err := m.Execute(context.Background(), materialize.NewPlan("test", step))

		require.NoError(t, err)
		assert.True(t, report.Succeeded())
		assert.NotEmpty(t, report.RunID)
	})
}

func TestRerunBoundaries(t *testing.T) {
	files := []materialize.Step{
		materialize.FileSpec{Path: "board/x.fragment", Content: "CONFIG_I2C_CHARDEV=y\n"},
		materialize.FileSpec{Path: "board/overlay/etc/init.d/S99robotics", Content: "#!/bin/sh\n", Executable: true},
	}
	block := "BR2_PACKAGE_HTOP=y\nBR2_PACKAGE_NANO=y\n"
	seed := "BR2_aarch64=y\n"

	t.Run("blind append duplicates directives on rerun", func(t *testing.T) {
		m, _, fs := newMaterializer(t)
		require.NoError(t, afero.WriteFile(fs, ".config", []byte(seed), 0644))
		plan := materialize.NewPlan("append", append(files, materialize.AppendSpec{Path: ".config", Block: block})...)

		_, err := m.Execute(context.Background(), plan)
		require.NoError(t, err)
		first := readFile(t, fs, "board/x.fragment")

		_, err = m.Execute(context.Background(), plan)
		require.NoError(t, err)

		assert.Equal(t, first, readFile(t, fs, "board/x.fragment"))
		assert.Equal(t, seed+block+block, readFile(t, fs, ".config"), "append is not idempotent")
	})

	t.Run("merge leaves .config unchanged on rerun", func(t *testing.T) {
		m, _, fs := newMaterializer(t)
		require.NoError(t, afero.WriteFile(fs, ".config", []byte(seed), 0644))
		directives, err := materialize.ParseDirectives(block)
		require.NoError(t, err)
		plan := materialize.NewPlan("merge", append(files, materialize.MergeSpec{Path: ".config", Directives: directives})...)

		_, err = m.Execute(context.Background(), plan)
		require.NoError(t, err)
		first := readFile(t, fs, ".config")

		report, err := m.Execute(context.Background(), plan)
		require.NoError(t, err)

		assert.Equal(t, seed+block, first)
		assert.Equal(t, first, readFile(t, fs, ".config"))
		assert.NotContains(t, report.Written(), ".config")
	})
}

func TestNewForRoot(t *testing.T) {
	dir := t.TempDir()
	m := materialize.NewForRoot(dir, tools.NewExecRunner())

	require.NoError(t, m.WriteFile(materialize.FileSpec{Path: "etc/init.d/S99robotics", Content: "#!/bin/sh\n", Executable: true}))

	info, err := os.Stat(filepath.Join(dir, "etc", "init.d", "S99robotics"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
	assert.Equal(t, dir, m.Root())
}
