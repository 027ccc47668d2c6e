package cmd

import (
	"context"

	"github.com/pioneeros/pioneer/types"
	"github.com/spf13/cobra"
)

type configKey struct{}

// storeConfig keeps c on the command context for its handler
func storeConfig(cmd *cobra.Command, c *types.Config) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, configKey{}, c))
}

// storedConfig returns the configuration resolved before cmd ran, if any
func storedConfig(cmd *cobra.Command) *types.Config {
	if ctx := cmd.Context(); ctx != nil {
		if c, ok := ctx.Value(configKey{}).(*types.Config); ok {
			return c
		}
	}
	return nil
}

// commandConfig returns the configuration resolved once by the root
// command, with the command's own flags merged on top.
func commandConfig(cmd *cobra.Command, flags ...MergeConfigFlags) (*types.Config, error) {
	c := storedConfig(cmd)
	if c == nil {
		return newConfig(cmd.Flags(), flags...)
	}
	if err := NewMergeConfigContainer(flags...).Merge(c); err != nil {
		return nil, err
	}
	return c, nil
}
