package cmd

import (
	"os"
	"strings"

	"github.com/pioneeros/pioneer/constants"
	"github.com/pioneeros/pioneer/types"
	"github.com/spf13/pflag"
)

// BuildrootCommandFlags select the Buildroot tree a command works on
type BuildrootCommandFlags struct {
	BuildrootDir string
}

// MergeToConfig sets the Buildroot root: the flag, else the configured
// value, else the environment, else the default location.
func (flags *BuildrootCommandFlags) MergeToConfig(config *types.Config) error {
	switch {
	case flags.BuildrootDir != "":
		config.BuildrootDir = flags.BuildrootDir
	case config.BuildrootDir != "":
	case os.Getenv(constants.BuildrootDirEnv) != "":
		config.BuildrootDir = os.Getenv(constants.BuildrootDirEnv)
	default:
		config.BuildrootDir = constants.DefaultBuildrootDir
	}
	return nil
}

// NewBuildrootCommandFlags returns an instance of BuildrootCommandFlags
func NewBuildrootCommandFlags(cmdFlags *pflag.FlagSet) *BuildrootCommandFlags {
	dir, _ := cmdFlags.GetString("buildroot")
	return &BuildrootCommandFlags{BuildrootDir: strings.TrimSpace(dir)}
}

// PersistBuildrootCommandFlags append the Buildroot root flag to a command
func PersistBuildrootCommandFlags(cmdFlags *pflag.FlagSet) {
	cmdFlags.StringP("buildroot", "b", "", "Buildroot source tree (default $"+constants.BuildrootDirEnv+" or "+constants.DefaultBuildrootDir+")")
}
