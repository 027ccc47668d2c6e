package cmd

import (
	"github.com/pioneeros/pioneer/types"

	"github.com/spf13/pflag"
)

// GlobalCommandFlags are flags accepted by every command
type GlobalCommandFlags struct {
	ShowWarnings bool
	ShowErrors   bool
	ShowDebug    bool
	JSON         bool
	Verbose      bool
}

// MergeToConfig append command flags that are used transversally for all commands to configuration
func (flags *GlobalCommandFlags) MergeToConfig(config *types.Config) (err error) {
	config.RunConfig.ShowWarnings = config.RunConfig.ShowWarnings || flags.ShowWarnings
	config.RunConfig.ShowErrors = config.RunConfig.ShowErrors || flags.ShowErrors
	config.RunConfig.ShowDebug = config.RunConfig.ShowDebug || flags.ShowDebug
	config.RunConfig.JSON = config.RunConfig.JSON || flags.JSON
	config.RunConfig.Verbose = config.RunConfig.Verbose || flags.Verbose

	return
}

// NewGlobalCommandFlags returns an instance of GlobalCommandFlags
func NewGlobalCommandFlags(cmdFlags *pflag.FlagSet) (flags *GlobalCommandFlags) {
	flags = &GlobalCommandFlags{}

	flags.ShowWarnings, _ = cmdFlags.GetBool("show-warnings")
	flags.ShowErrors, _ = cmdFlags.GetBool("show-errors")
	flags.ShowDebug, _ = cmdFlags.GetBool("show-debug")
	flags.JSON, _ = cmdFlags.GetBool("json")
	flags.Verbose, _ = cmdFlags.GetBool("verbose")

	return flags
}

// PersistGlobalCommandFlags append the global flags to a command
func PersistGlobalCommandFlags(cmdFlags *pflag.FlagSet) {
	cmdFlags.Bool("show-warnings", false, "display warning messages")
	cmdFlags.Bool("show-errors", false, "display error messages")
	cmdFlags.Bool("show-debug", false, "display debug messages")
	cmdFlags.BoolP("json", "j", false, "display json messages")
	cmdFlags.BoolP("verbose", "v", false, "display info messages and build driver output")
}
