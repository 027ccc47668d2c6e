package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/pioneeros/pioneer/board"
	"github.com/pioneeros/pioneer/materialize"
	"github.com/spf13/cobra"
)

// PlanCommand lists the steps generate would run, without running them
func PlanCommand() *cobra.Command {
	var cmdPlan = &cobra.Command{
		Use:   "plan",
		Short: "Show the steps generate would run",
		Args:  cobra.NoArgs,
		RunE:  planCommandHandler,
	}

	PersistGenerateCommandFlags(cmdPlan.PersistentFlags())

	return cmdPlan
}

func planCommandHandler(cmd *cobra.Command, args []string) error {
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
	if c.RunConfig.JSON {
		printJSON(out, plan)
		return nil
	}

	fmt.Fprintf(out, "%s in %s\n", plan.Name(), c.BuildrootDir)
	printPlanTable(out, plan)
	return nil
}

func printPlanTable(out io.Writer, plan *materialize.Plan) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"#", "Kind", "Target", "Size"})
	table.SetHeaderColor(
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor})
	table.SetRowLine(true)

	for _, step := range plan.Describe() {
		var row []string
		row = append(row, strconv.Itoa(step.Index+1))
		row = append(row, string(step.Kind))
		if step.Kind == materialize.KindCommand {
			row = append(row, step.Description)
			row = append(row, "")
		} else {
			row = append(row, step.Target)
			row = append(row, humanize.Bytes(uint64(step.Bytes)))
		}
		table.Append(row)
	}

	table.Render()
}
