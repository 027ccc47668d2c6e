package cmd

import (
	"fmt"

	"github.com/pioneeros/pioneer/constants"
	"github.com/spf13/cobra"
)

// VersionCommand provides version command
func VersionCommand() *cobra.Command {
	var cmdVersion = &cobra.Command{
		Use:   "version",
		Short: "Version",
		Run:   printVersion,
	}
	return cmdVersion
}

func printVersion(cmd *cobra.Command, args []string) {
	fmt.Fprintf(cmd.OutOrStdout(), "Pioneer version: %s\n", constants.Version)
	fmt.Fprintf(cmd.OutOrStdout(), "Board defconfig: %s\n", constants.DefaultDefconfig)
}
