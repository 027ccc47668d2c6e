package cmd

import (
	"github.com/pioneeros/pioneer/types"
	"github.com/spf13/pflag"
)

// MergeConfigFlags are flags structures able to override pioneer configuration attributes
type MergeConfigFlags interface {
	MergeToConfig(config *types.Config) error
}

// MergeConfigContainer is responsible for merge a list of flags attributes to pioneer configuration
type MergeConfigContainer struct {
	flags []MergeConfigFlags
}

// NewMergeConfigContainer returns an instance of MergeConfigContainer
// Flags order matters.
func NewMergeConfigContainer(flags ...MergeConfigFlags) *MergeConfigContainer {
	return &MergeConfigContainer{flags}
}

// Merge uses a list of flags to override configuration properties.
func (m *MergeConfigContainer) Merge(config *types.Config) error {
	for _, f := range m.flags {
		err := f.MergeToConfig(config)
		if err != nil {
			return err
		}
	}

	return nil
}

// newConfig builds the configuration of a command: config file, Buildroot
// root, global flags, then the command's own flags.
func newConfig(cmdFlags *pflag.FlagSet, flags ...MergeConfigFlags) (*types.Config, error) {
	c := types.NewConfig()

	container := NewMergeConfigContainer(append([]MergeConfigFlags{
		NewConfigCommandFlags(cmdFlags),
		NewBuildrootCommandFlags(cmdFlags),
		NewGlobalCommandFlags(cmdFlags),
	}, flags...)...)

	if err := container.Merge(c); err != nil {
		return nil, err
	}
	return c, nil
}
