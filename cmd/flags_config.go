package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/pioneeros/pioneer/constants"
	"github.com/pioneeros/pioneer/types"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"
)

// ConfigCommandFlags handles config file path flag and build configuration from the file
type ConfigCommandFlags struct {
	Config string
}

// MergeToConfig reads the configuration file, or the default one when no
// file was given, over c.
func (flags *ConfigCommandFlags) MergeToConfig(c *types.Config) error {
	if flags.Config != "" {
		return unWarpConfig(flags.Config, c)
	}
	return unWarpDefaultConfig(c)
}

// unWarpConfig parses a json or yaml config file into c
func unWarpConfig(file string, c *types.Config) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return errors.Wrapf(err, "error reading config %s", file)
	}

	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		err = yaml.UnmarshalStrict(data, c)
	default:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		err = decoder.Decode(c)
	}
	if err != nil {
		return errors.Wrapf(err, "error config %s", file)
	}
	return nil
}

// unWarpDefaultConfig reads the default config file named by the
// environment, or the rc file in the home directory, into c.
func unWarpDefaultConfig(c *types.Config) error {
	if conf := os.Getenv(constants.DefaultConfigEnv); conf != "" {
		return unWarpConfig(conf, c)
	}

	usr, err := user.Current()
	if err != nil {
		return nil
	}
	conf := filepath.Join(usr.HomeDir, constants.RCFile)
	if _, err := os.Stat(conf); err != nil {
		return nil
	}
	return unWarpConfig(conf, c)
}

// NewConfigCommandFlags returns an instance of ConfigCommandFlags
func NewConfigCommandFlags(cmdFlags *pflag.FlagSet) (flags *ConfigCommandFlags) {
	flags = &ConfigCommandFlags{}

	flags.Config, _ = cmdFlags.GetString("config")
	flags.Config = strings.TrimSpace(flags.Config)

	return
}

// PersistConfigCommandFlags append a command the config file flag
func PersistConfigCommandFlags(cmdFlags *pflag.FlagSet) {
	cmdFlags.StringP("config", "c", "", "pioneer config file (json or yaml)")
}
