package types

import (
	"github.com/pioneeros/pioneer/constants"
)

// Directive modes accepted in Config.DirectiveMode
const (
	// DirectiveModeMerge replaces existing values of the same key and appends missing keys.
	DirectiveModeMerge = "merge"
	// DirectiveModeAppend appends the directive block verbatim to .config.
	DirectiveModeAppend = "append"
)

// Config for Generate
type Config struct {
	// BuildrootDir is the root of the Buildroot tree every generated path is
	// relative to. Left empty, commands fall back to $BUILDROOT_DIR and then
	// to the default location.
	BuildrootDir string `json:",omitempty" yaml:"BuildrootDir,omitempty"`

	// BoardDir is the board-support directory, relative to BuildrootDir.
	BoardDir string `json:",omitempty" yaml:"BoardDir,omitempty"`

	// Defconfig is the make target used to seed .config.
	Defconfig string `json:",omitempty" yaml:"Defconfig,omitempty"`

	// Make is the build configuration driver executable.
	Make string `json:",omitempty" yaml:"Make,omitempty"`

	// SkipMake leaves out both driver invocations. The directive step then
	// needs an existing .config.
	SkipMake bool `json:",omitempty" yaml:"SkipMake,omitempty"`

	// DirectiveMode is either "merge" (default) or "append".
	DirectiveMode string `json:",omitempty" yaml:"DirectiveMode,omitempty"`

	// ExtraDirectives are KEY=value lines added after the default set. A key
	// already in the default set replaces its value.
	ExtraDirectives []string `json:",omitempty" yaml:"ExtraDirectives,omitempty"`

	// Hostname of the target image
	Hostname string `json:",omitempty" yaml:"Hostname,omitempty"`

	// InitScript is the startup script name under etc/init.d.
	InitScript string `json:",omitempty" yaml:"InitScript,omitempty"`

	// KernelFragment is the name of the kernel config fragment inside BoardDir.
	KernelFragment string `json:",omitempty" yaml:"KernelFragment,omitempty"`

	// Network
	Network NetworkConfig `json:",omitempty" yaml:"Network,omitempty"`

	// Wifi
	Wifi WifiConfig `json:",omitempty" yaml:"Wifi,omitempty"`

	// Sysctl overrides or extends the default kernel tunables.
	Sysctl map[string]string `json:",omitempty" yaml:"Sysctl,omitempty"`

	// RunConfig
	RunConfig RunConfig `json:",omitempty" yaml:"RunConfig,omitempty"`
}

// NetworkConfig describes the wired interface of the image
type NetworkConfig struct {
	// Interface is the wired interface name, eth0 by default.
	Interface string `json:",omitempty" yaml:"Interface,omitempty"`

	// IPAddress
	IPAddress string `json:",omitempty" yaml:"IPAddress,omitempty"`

	// NetMask
	NetMask string `json:",omitempty" yaml:"NetMask,omitempty"`

	// Gateway
	Gateway string `json:",omitempty" yaml:"Gateway,omitempty"`

	// NameServers written as dns-nameservers on the wired interface.
	NameServers []string `json:",omitempty" yaml:"NameServers,omitempty"`
}

// WifiConfig describes the wpa_supplicant network block
type WifiConfig struct {
	// Country is the regulatory domain.
	Country string `json:",omitempty" yaml:"Country,omitempty"`

	// SSID
	SSID string `json:",omitempty" yaml:"SSID,omitempty"`

	// PSK
	PSK string `json:",omitempty" yaml:"PSK,omitempty"`
}

// RunConfig provides runtime details
type RunConfig struct {
	// ShowDebug
	ShowDebug bool `json:",omitempty" yaml:"ShowDebug,omitempty"`

	// ShowErrors
	ShowErrors bool `json:",omitempty" yaml:"ShowErrors,omitempty"`

	// ShowWarnings
	ShowWarnings bool `json:",omitempty" yaml:"ShowWarnings,omitempty"`

	// JSON output
	JSON bool `json:",omitempty" yaml:"JSON,omitempty"`

	// Verbose enables info messages.
	Verbose bool `json:",omitempty" yaml:"Verbose,omitempty"`
}

// NewConfig constructs a Config carrying the default board values
func NewConfig() *Config {
	return &Config{
		BoardDir:       constants.DefaultBoardDir,
		Defconfig:      constants.DefaultDefconfig,
		Make:           constants.DefaultMake,
		DirectiveMode:  DirectiveModeMerge,
		Hostname:       "pioneer",
		InitScript:     constants.DefaultInitScript,
		KernelFragment: "robotics_kernel.fragment",
		Network: NetworkConfig{
			Interface:   "eth0",
			IPAddress:   "192.168.1.10",
			NetMask:     "255.255.255.0",
			Gateway:     "192.168.1.1",
			NameServers: []string{"8.8.8.8", "1.1.1.1"},
		},
		Wifi: WifiConfig{
			Country: "US",
			SSID:    "YOUR_SSID",
			PSK:     "YOUR_PASSWORD",
		},
	}
}
