package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pioneeros/pioneer/board"
	"github.com/pioneeros/pioneer/constants"
	"github.com/pioneeros/pioneer/log"
	"github.com/pioneeros/pioneer/materialize"
	"github.com/pioneeros/pioneer/tools"
	"github.com/pioneeros/pioneer/types"
	"github.com/spf13/cobra"
	"github.com/ttacon/chalk"
	"golang.org/x/term"
)

// lines of captured driver output shown when a step fails
const failureTail = 20

// GenerateCommand writes the board files and configures the Buildroot tree
func GenerateCommand() *cobra.Command {
	var cmdGenerate = &cobra.Command{
		Use:   "generate",
		Short: "Write the board files and configure Buildroot for the robotics image",
		Args:  cobra.NoArgs,
		RunE:  generateCommandHandler,
	}

	PersistGenerateCommandFlags(cmdGenerate.PersistentFlags())

	return cmdGenerate
}

func generateCommandHandler(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	c, err := commandConfig(cmd, NewGenerateCommandFlags(flags))
	if err != nil {
		return err
	}

	plan, err := board.NewPlan(c)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	runner := tools.NewExecRunner()
	if c.RunConfig.Verbose && !c.RunConfig.JSON {
		runner.Stream = out
	}

	m := materialize.NewForRoot(c.BuildrootDir, runner)
	if showProgress(out, c) {
		m.Observer = newProgressObserver(out, plan.Len())
	}

	if c.DirectiveMode == types.DirectiveModeAppend {
		warnOnAppendRerun(out, c)
	}

	log.Infof("generating %s in %s", plan.Name(), c.BuildrootDir)
	report, err := m.Execute(cmd.Context(), plan)

	if c.RunConfig.JSON {
		printJSON(out, report)
	} else {
		printGenerateReport(out, report, c)
	}
	return err
}

func showProgress(out io.Writer, c *types.Config) bool {
	if c.RunConfig.JSON || c.RunConfig.Verbose {
		return false
	}
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// warnOnAppendRerun warns when append mode is about to add a second
// directive block to .config.
func warnOnAppendRerun(out io.Writer, c *types.Config) {
	data, err := os.ReadFile(filepath.Join(c.BuildrootDir, constants.DotConfig))
	if err != nil || !bytes.Contains(data, []byte(board.BlockHeader)) {
		return
	}
	fmt.Fprintln(out, chalk.Yellow, ".config already holds a robotics directive block; append mode adds another.", chalk.Reset)
	fmt.Fprintln(out, chalk.Yellow, "Use", chalk.Reset, chalk.Bold.TextStyle("--directive-mode merge"), chalk.Yellow, "to update it in place.", chalk.Reset)
}

func printGenerateReport(out io.Writer, report *materialize.Report, c *types.Config) {
	for _, path := range report.Written() {
		log.Infof("wrote %s", path)
	}

	if report.Succeeded() {
		log.Successf("%s: %d steps completed in %s (run %s)", report.Plan, report.Total, report.Root, report.RunID)
		return
	}

	if report.Failure == nil {
		return
	}
	fmt.Fprintln(out, chalk.Red, fmt.Sprintf("%d of %d steps completed before the failure", len(report.Completed), report.Total), chalk.Reset)

	var toolErr *materialize.ExternalToolError
	if errors.As(report.Failure, &toolErr) && len(toolErr.Output) > 0 && !c.RunConfig.Verbose {
		fmt.Fprintln(out, string(tail(toolErr.Output, failureTail)))
	}
}

// tail returns the last n lines of output
func tail(output []byte, n int) []byte {
	output = bytes.TrimRight(output, "\n")
	for i := len(output) - 1; i >= 0; i-- {
		if output[i] == '\n' {
			n--
			if n == 0 {
				return output[i+1:]
			}
		}
	}
	return output
}
