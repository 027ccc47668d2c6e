package cmd

import (
	"strings"

	"github.com/pioneeros/pioneer/types"
	"github.com/pioneeros/pioneer/util/slice"
	"github.com/spf13/pflag"
)

// GenerateCommandFlags consolidates the flags that shape the generated board files and directives
type GenerateCommandFlags struct {
	DirectiveMode   string
	Make            string
	SkipMake        bool
	Hostname        string
	IPAddress       string
	Gateway         string
	NetMask         string
	NameServers     []string
	SSID            string
	PSK             string
	Country         string
	ExtraDirectives []string
}

// MergeToConfig overrides configuration with every flag that was given a value
func (flags *GenerateCommandFlags) MergeToConfig(c *types.Config) error {
	setString(&c.DirectiveMode, flags.DirectiveMode)
	setString(&c.Make, flags.Make)
	setString(&c.Hostname, flags.Hostname)
	setString(&c.Network.IPAddress, flags.IPAddress)
	setString(&c.Network.Gateway, flags.Gateway)
	setString(&c.Network.NetMask, flags.NetMask)
	setString(&c.Wifi.SSID, flags.SSID)
	setString(&c.Wifi.PSK, flags.PSK)
	setString(&c.Wifi.Country, flags.Country)

	if flags.SkipMake {
		c.SkipMake = true
	}
	if len(flags.NameServers) != 0 {
		c.Network.NameServers = flags.NameServers
	}
	if len(flags.ExtraDirectives) != 0 {
		c.ExtraDirectives = append(c.ExtraDirectives, flags.ExtraDirectives...)
	}

	return nil
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// NewGenerateCommandFlags returns an instance of GenerateCommandFlags
func NewGenerateCommandFlags(cmdFlags *pflag.FlagSet) (flags *GenerateCommandFlags) {
	flags = &GenerateCommandFlags{}

	flags.DirectiveMode, _ = cmdFlags.GetString("directive-mode")
	flags.Make, _ = cmdFlags.GetString("make")
	flags.SkipMake, _ = cmdFlags.GetBool("skip-make")
	flags.Hostname, _ = cmdFlags.GetString("hostname")
	flags.IPAddress, _ = cmdFlags.GetString("ip")
	flags.Gateway, _ = cmdFlags.GetString("gateway")
	flags.NetMask, _ = cmdFlags.GetString("netmask")
	flags.SSID, _ = cmdFlags.GetString("ssid")
	flags.PSK, _ = cmdFlags.GetString("psk")
	flags.Country, _ = cmdFlags.GetString("country")

	nameServers, _ := cmdFlags.GetStringSlice("nameservers")
	flags.NameServers = slice.ExcludeWhitespaces(nameServers)

	directives, _ := cmdFlags.GetStringArray("set")
	flags.ExtraDirectives = slice.ExcludeWhitespaces(directives)

	flags.DirectiveMode = strings.ToLower(strings.TrimSpace(flags.DirectiveMode))

	return
}

// PersistGenerateCommandFlags append the generation flags to a command
func PersistGenerateCommandFlags(cmdFlags *pflag.FlagSet) {
	cmdFlags.String("directive-mode", "", "how directives reach .config: merge (default) or append")
	cmdFlags.String("make", "", "build configuration driver (default make)")
	cmdFlags.Bool("skip-make", false, "do not run the defconfig and olddefconfig targets")
	cmdFlags.String("hostname", "", "hostname of the image")
	cmdFlags.String("ip", "", "static IPv4 address of the wired interface")
	cmdFlags.String("gateway", "", "default gateway of the wired interface")
	cmdFlags.String("netmask", "", "netmask of the wired interface")
	cmdFlags.StringSlice("nameservers", nil, "name servers of the wired interface")
	cmdFlags.String("ssid", "", "wifi network name")
	cmdFlags.String("psk", "", "wifi passphrase")
	cmdFlags.String("country", "", "wifi regulatory domain")
	cmdFlags.StringArray("set", nil, "extra Buildroot directive KEY=value, repeatable")
}
