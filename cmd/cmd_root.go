package cmd

import (
	"context"

	"github.com/pioneeros/pioneer/log"
	"github.com/spf13/cobra"
)

// GetRootCommand provides set all commands for Pioneer
func GetRootCommand() *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "pioneer",
		Short: "Configure a Buildroot tree for the Raspberry Pi 4 robotics image",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config, err := newConfig(cmd.Flags())
			if err != nil {
				return err
			}

			storeConfig(cmd, config)
			log.InitDefault(cmd.OutOrStdout(), config)
			log.Default().SetErrorOutput(cmd.ErrOrStderr())
			log.Debugf("buildroot tree: %s", config.BuildrootDir)
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// persist flags transversal to every command
	PersistGlobalCommandFlags(rootCmd.PersistentFlags())
	PersistConfigCommandFlags(rootCmd.PersistentFlags())
	PersistBuildrootCommandFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(GenerateCommand())
	rootCmd.AddCommand(PlanCommand())
	rootCmd.AddCommand(ValidateCommand())
	rootCmd.AddCommand(VersionCommand())

	return rootCmd
}

// Execute runs the root command with ctx and reports the error it returns
func Execute(ctx context.Context, cmd *cobra.Command) error {
	executed, err := cmd.ExecuteContextC(ctx)
	if err != nil && executed != nil {
		reportError(executed.ErrOrStderr(), storedConfig(executed), err)
	}
	return err
}
