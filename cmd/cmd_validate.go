package cmd

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/pioneeros/pioneer/constants"
	"github.com/pioneeros/pioneer/log"
	"github.com/pioneeros/pioneer/util"
	"github.com/pioneeros/pioneer/validate"
	"github.com/spf13/cobra"
	"github.com/ttacon/chalk"
)

// ErrNotReady is returned by validate when the image should not be flashed
var ErrNotReady = fmt.Errorf("image is %s", validate.NotReady)

// ValidateCommand inspects the build output and rates the image
func ValidateCommand() *cobra.Command {
	var cmdValidate = &cobra.Command{
		Use:   "validate",
		Short: "Check the Buildroot output and decide whether the image is ready",
		Args:  cobra.NoArgs,
		RunE:  validateCommandHandler,
	}

	cmdValidate.PersistentFlags().Bool("no-save", false, "do not write "+constants.ValidationReport)

	return cmdValidate
}

func validateCommandHandler(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	c, err := commandConfig(cmd)
	if err != nil {
		return err
	}
	noSave, _ := flags.GetBool("no-save")

	out := cmd.OutOrStdout()
	suite := validate.NewSuiteForRoot(c.BuildrootDir, c)

	var report *validate.Report
	if c.RunConfig.JSON {
		report = suite.Run(nil)
	} else {
		spinner := util.NewProgressSpinner(out)
		spinner.Do(func() error {
			report = suite.Run(func(r validate.Result) {
				spinner.Update("checking ", r.Name)
			})
			return nil
		}, "validating ", c.BuildrootDir)
	}

	if !noSave {
		if err := suite.Save(report); err != nil {
			return err
		}
		log.Infof("report saved to %s", c.BuildrootDir)
	}

	if c.RunConfig.JSON {
		printJSON(out, report)
	} else {
		printValidationTable(out, report)
		printVerdict(out, report)
	}

	if report.Verdict == validate.NotReady {
		return ErrNotReady
	}
	return nil
}

func printValidationTable(out io.Writer, report *validate.Report) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Check", "Status", "Message", "Details"})
	table.SetHeaderColor(
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor})
	table.SetRowLine(true)

	for _, res := range report.Tests {
		var row []string
		row = append(row, res.Name)
		row = append(row, string(res.Status))
		row = append(row, res.Message)
		row = append(row, res.Details)
		table.Append(row)
	}

	table.Render()
}

func printVerdict(out io.Writer, report *validate.Report) {
	s := report.Summary
	fmt.Fprintf(out, "Passed: %d  Failed: %d  Warnings: %d  Total: %d\n", s.Passed, s.Failed, s.Warnings, s.Total())

	color := chalk.Green
	switch report.Verdict {
	case validate.Conditional:
		color = chalk.Yellow
	case validate.NotReady:
		color = chalk.Red
	}
	fmt.Fprintln(out, color, "Verdict:", chalk.Bold.TextStyle(string(report.Verdict)), chalk.Reset)
}
